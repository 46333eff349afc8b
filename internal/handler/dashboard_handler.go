package handler

import (
	"time"

	"learning-hour/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles leaderboard and progress HTTP requests
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler instance
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetLeaderboard godoc
// @Summary Get the leaderboard
// @Description Returns the podium and remaining ranking
// @Tags dashboard
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.LeaderboardResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /dashboard/leaderboard [get]
func (h *DashboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	leaderboard, err := h.dashboardService.GetLeaderboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(leaderboard)
}

// GetMyProgress godoc
// @Summary Get my progress
// @Description Returns the current user's rank, total score and per-module progress
// @Tags dashboard
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.MyProgressResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /dashboard/me [get]
func (h *DashboardHandler) GetMyProgress(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	progress, err := h.dashboardService.GetMyProgress(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(progress)
}

// GetAdminProgress godoc
// @Summary Get progress of all users
// @Description Returns the aggregated progress table across every user and module
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.AdminProgressResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/progress [get]
func (h *DashboardHandler) GetAdminProgress(c *fiber.Ctx) error {
	progress, err := h.dashboardService.GetAdminProgress(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(progress)
}

// ExportProgress godoc
// @Summary Export progress as CSV
// @Description Streams the aggregated progress table as a CSV download
// @Tags admin
// @Security ApiKeyAuth
// @Produce text/csv
// @Success 200 {string} string "CSV content"
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/progress/export [get]
func (h *DashboardHandler) ExportProgress(c *fiber.Ctx) error {
	data, err := h.dashboardService.ExportProgressCSV(c.Context())
	if err != nil {
		return err
	}

	filename := "progress-" + time.Now().Format("2006-01-02") + ".csv"
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
