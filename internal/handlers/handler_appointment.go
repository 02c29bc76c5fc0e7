package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	portsrepo "github.com/saurabhtripathi7/mediqueue/internal/core/ports/repositories"
	portssvc "github.com/saurabhtripathi7/mediqueue/internal/core/ports/services"
	"github.com/saurabhtripathi7/mediqueue/internal/dto"
	"github.com/saurabhtripathi7/mediqueue/internal/middleware"
)

// appointmentHandler handles HTTP requests for the booking lifecycle.
type appointmentHandler struct {
	appointmentService portssvc.AppointmentSvcFacade
}

func newAppointmentHandler(as portssvc.AppointmentSvcFacade) *appointmentHandler {
	return &appointmentHandler{
		appointmentService: as,
	}
}

// registerAppointmentRoutes registers all appointment-related routes.
func registerAppointmentRoutes(rg *gin.RouterGroup, appointmentService portssvc.AppointmentSvcFacade) {
	h := newAppointmentHandler(appointmentService)

	appointments := rg.Group("/appointments")
	{
		appointments.POST("", middleware.RequireRoles(domain.RolePatient), h.bookAppointment)
		appointments.GET("", h.listAppointments)
		appointments.GET("/:id", h.getAppointment)
		appointments.POST("/:id/cancel", h.cancelAppointment)
		appointments.POST("/:id/complete", middleware.RequireRoles(domain.RoleDoctor, domain.RoleAdmin), h.completeAppointment)
	}
}

// bookAppointment godoc
// @Summary Book an appointment
// @Description Books a slot with a doctor. The slot start must be an exact boundary generated from the doctor's availability and must not already be booked.
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointment body dto.BookAppointmentRequest true "Slot to book"
// @Success 201 {object} dto.AppointmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Slot already booked"
// @Security BearerAuth
// @Router /appointments [post]
func (h *appointmentHandler) bookAppointment(c *gin.Context) {
	patientID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	appointment, err := h.appointmentService.BookAppointment(c.Request.Context(), patientID, req)
	if err != nil {
		respondError(c, err, "Failed to book appointment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAppointmentResponse(appointment))
}

// listAppointments godoc
// @Summary List appointments
// @Description Lists bookings scoped to the caller: patients see their own, doctors their own schedule, admins everything.
// @Tags appointments
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param status query string false "Filter by status (booked, cancelled, completed)"
// @Success 200 {object} dto.ListAppointmentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /appointments [get]
func (h *appointmentHandler) listAppointments(c *gin.Context) {
	actor, ok := middleware.GetAuthUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListAppointmentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	filter := portsrepo.AppointmentFilter{
		Status: domain.AppointmentStatus(params.Status),
		Limit:  params.Limit,
		Offset: params.Offset,
	}

	appointments, err := h.appointmentService.ListAppointments(c.Request.Context(), filter, actor)
	if err != nil {
		respondError(c, err, "Failed to list appointments")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAppointmentsResponse(appointments))
}

// getAppointment godoc
// @Summary Get an appointment
// @Description Retrieves a booking. Participant or admin only.
// @Tags appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} dto.AppointmentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /appointments/{id} [get]
func (h *appointmentHandler) getAppointment(c *gin.Context) {
	actor, ok := middleware.GetAuthUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	appointment, err := h.appointmentService.GetAppointmentByID(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err, "Failed to fetch appointment")
		return
	}

	c.JSON(http.StatusOK, dto.ToAppointmentResponse(appointment))
}

// cancelAppointment godoc
// @Summary Cancel an appointment
// @Description Cancels a booked appointment. Booking patient, booked doctor or admin.
// @Tags appointments
// @Param id path string true "Appointment ID"
// @Success 204 "Cancelled"
// @Failure 400 {object} ErrorResponse "Not in booked state"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /appointments/{id}/cancel [post]
func (h *appointmentHandler) cancelAppointment(c *gin.Context) {
	actor, ok := middleware.GetAuthUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.appointmentService.CancelAppointment(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondError(c, err, "Failed to cancel appointment")
		return
	}

	c.Status(http.StatusNoContent)
}

// completeAppointment godoc
// @Summary Mark an appointment completed
// @Description Transitions a booked appointment to completed. Booked doctor or admin.
// @Tags appointments
// @Param id path string true "Appointment ID"
// @Success 204 "Completed"
// @Failure 400 {object} ErrorResponse "Not in booked state"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /appointments/{id}/complete [post]
func (h *appointmentHandler) completeAppointment(c *gin.Context) {
	actor, ok := middleware.GetAuthUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.appointmentService.CompleteAppointment(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondError(c, err, "Failed to complete appointment")
		return
	}

	c.Status(http.StatusNoContent)
}
