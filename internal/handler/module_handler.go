package handler

import (
	"learning-hour/internal/dto"
	"learning-hour/internal/logger"
	"learning-hour/internal/service"
	"learning-hour/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ModuleHandler handles module-related HTTP requests
type ModuleHandler struct {
	moduleService service.ModuleService
	validator     *validation.Validator
}

// NewModuleHandler creates a new ModuleHandler instance
func NewModuleHandler(moduleService service.ModuleService) *ModuleHandler {
	return &ModuleHandler{
		moduleService: moduleService,
		validator:     validation.NewValidator(),
	}
}

// GetAllModules godoc
// @Summary List modules
// @Description Returns all lesson modules, newest first
// @Tags modules
// @Produce json
// @Success 200 {array} dto.ModuleResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /modules [get]
func (h *ModuleHandler) GetAllModules(c *fiber.Ctx) error {
	modules, err := h.moduleService.GetAllModules(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(modules)
}

// GetModule godoc
// @Summary Get a module
// @Description Returns a single module with its questions (correct answers withheld)
// @Tags modules
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} dto.ModuleDetailResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /modules/{id} [get]
func (h *ModuleHandler) GetModule(c *fiber.Ctx) error {
	moduleID := c.Params("id")
	if errs := h.validator.ValidateULID("id", moduleID); len(errs) > 0 {
		return errs
	}

	module, err := h.moduleService.GetModule(c.Context(), moduleID)
	if err != nil {
		return err
	}
	return c.JSON(module)
}

// CreateModule godoc
// @Summary Create a module
// @Description Creates a module with its question set
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.SaveModuleRequest true "Module to create"
// @Success 201 {object} dto.ModuleResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/modules [post]
func (h *ModuleHandler) CreateModule(c *fiber.Ctx) error {
	var req dto.SaveModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateSaveModuleRequest(&req); len(errs) > 0 {
		return errs
	}

	module, err := h.moduleService.CreateModule(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(module)
}

// UpdateModule godoc
// @Summary Update a module
// @Description Updates a module and replaces its question set
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param request body dto.SaveModuleRequest true "New module content"
// @Success 200 {object} dto.ModuleResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/modules/{id} [put]
func (h *ModuleHandler) UpdateModule(c *fiber.Ctx) error {
	moduleID := c.Params("id")
	if errs := h.validator.ValidateULID("id", moduleID); len(errs) > 0 {
		return errs
	}

	var req dto.SaveModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateSaveModuleRequest(&req); len(errs) > 0 {
		return errs
	}

	module, err := h.moduleService.UpdateModule(c.Context(), moduleID, &req)
	if err != nil {
		return err
	}
	return c.JSON(module)
}

// DeleteModule godoc
// @Summary Delete a module
// @Description Deletes a module, its questions and all recorded attempts
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/modules/{id} [delete]
func (h *ModuleHandler) DeleteModule(c *fiber.Ctx) error {
	moduleID := c.Params("id")
	if errs := h.validator.ValidateULID("id", moduleID); len(errs) > 0 {
		return errs
	}

	if err := h.moduleService.DeleteModule(c.Context(), moduleID); err != nil {
		return err
	}

	logger.Get().Info("Module deleted via admin API", zap.String("moduleID", moduleID))
	return c.JSON(dto.MessageResponse{Message: "module deleted"})
}
