package handler

import (
	"learning-hour/internal/dto"
	"learning-hour/internal/middleware"
	"learning-hour/internal/service"
	"learning-hour/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz lifecycle HTTP requests
type QuizHandler struct {
	quizService service.QuizService
	validator   *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(quizService service.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		validator:   validation.NewValidator(),
	}
}

func requestUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "user not found in request context")
	}
	return userID, nil
}

// GetQuizState godoc
// @Summary Get quiz state
// @Description Returns whether the quiz is startable for the current user
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} dto.QuizStateResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /modules/{id}/quiz [get]
func (h *QuizHandler) GetQuizState(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	moduleID := c.Params("id")
	if errs := h.validator.ValidateULID("id", moduleID); len(errs) > 0 {
		return errs
	}

	state, err := h.quizService.GetQuizState(c.Context(), userID, moduleID)
	if err != nil {
		return err
	}
	return c.JSON(state)
}

// MarkVideoFinished godoc
// @Summary Mark video as finished
// @Description Records that the current user watched the module's video to the end
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /modules/{id}/video-finished [post]
func (h *QuizHandler) MarkVideoFinished(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	moduleID := c.Params("id")
	if errs := h.validator.ValidateULID("id", moduleID); len(errs) > 0 {
		return errs
	}

	if err := h.quizService.MarkVideoFinished(c.Context(), userID, moduleID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "video completion recorded"})
}

// StartQuiz godoc
// @Summary Start a quiz session
// @Description Opens a quiz session when the gate allows it
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Module ID"
// @Success 201 {object} dto.StartQuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Quiz locked or attempt limit reached"
// @Router /modules/{id}/quiz/start [post]
func (h *QuizHandler) StartQuiz(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	moduleID := c.Params("id")
	if errs := h.validator.ValidateULID("id", moduleID); len(errs) > 0 {
		return errs
	}

	session, err := h.quizService.StartQuiz(c.Context(), userID, moduleID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// Answer godoc
// @Summary Answer a question
// @Description Records an answer in the session and optionally moves the cursor
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param request body dto.AnswerRequest true "Answer"
// @Success 200 {object} dto.SessionStateResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/sessions/{sid}/answer [post]
func (h *QuizHandler) Answer(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	sessionID := c.Params("sid")
	if errs := h.validator.ValidateULID("sid", sessionID); len(errs) > 0 {
		return errs
	}

	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateAnswerRequest(&req); len(errs) > 0 {
		return errs
	}

	state, err := h.quizService.Answer(c.Context(), userID, sessionID, &req)
	if err != nil {
		return err
	}
	return c.JSON(state)
}

// Submit godoc
// @Summary Submit a quiz session
// @Description Grades the session and records the attempt
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} dto.SubmitQuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Attempt limit reached"
// @Failure 410 {object} middleware.ErrorResponse "Module deleted mid-session"
// @Router /quiz/sessions/{sid}/submit [post]
func (h *QuizHandler) Submit(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	sessionID := c.Params("sid")
	if errs := h.validator.ValidateULID("sid", sessionID); len(errs) > 0 {
		return errs
	}

	result, err := h.quizService.Submit(c.Context(), userID, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
