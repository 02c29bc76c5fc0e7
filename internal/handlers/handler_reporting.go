package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	portssvc "github.com/saurabhtripathi7/mediqueue/internal/core/ports/services"
	"github.com/saurabhtripathi7/mediqueue/internal/dto"
	"github.com/saurabhtripathi7/mediqueue/internal/middleware"
)

// reportingHandler serves the admin dashboard aggregates.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers the admin reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	admin := rg.Group("/admin", middleware.RequireRoles(domain.RoleAdmin))
	{
		admin.GET("/dashboard", h.dashboard)
	}
}

// dashboard godoc
// @Summary Admin dashboard
// @Description Returns doctor/patient/appointment counts, total revenue from completed appointments and the latest bookings. Admin only.
// @Tags admin
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/dashboard [get]
func (h *reportingHandler) dashboard(c *gin.Context) {
	summary, err := h.reportingService.DashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardResponse(summary))
}
