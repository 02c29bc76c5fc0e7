package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	portssvc "github.com/saurabhtripathi7/mediqueue/internal/core/ports/services"
	"github.com/saurabhtripathi7/mediqueue/internal/dto"
	"github.com/saurabhtripathi7/mediqueue/internal/middleware"
)

const slotDateLayout = "2006-01-02"

// doctorHandler handles HTTP requests for the doctor roster and availability.
type doctorHandler struct {
	doctorService portssvc.DoctorSvcFacade
}

func newDoctorHandler(ds portssvc.DoctorSvcFacade) *doctorHandler {
	return &doctorHandler{
		doctorService: ds,
	}
}

// registerDoctorRoutes registers all doctor-related routes.
func registerDoctorRoutes(rg *gin.RouterGroup, doctorService portssvc.DoctorSvcFacade) {
	h := newDoctorHandler(doctorService)

	doctors := rg.Group("/doctors")
	{
		doctors.GET("", h.listDoctors)
		doctors.GET("/:id", h.getDoctor)
		doctors.GET("/:id/slots", h.listSlots)
		doctors.GET("/:id/availability", h.getAvailability)

		doctors.POST("", middleware.RequireRoles(domain.RoleAdmin), h.createDoctor)
		doctors.DELETE("/:id", middleware.RequireRoles(domain.RoleAdmin), h.deactivateDoctor)

		doctors.PUT("/:id", middleware.RequireRoles(domain.RoleDoctor, domain.RoleAdmin), h.updateDoctor)
		doctors.PUT("/:id/availability", middleware.RequireRoles(domain.RoleDoctor, domain.RoleAdmin), h.setAvailability)
	}
}

// createDoctor godoc
// @Summary Register a doctor
// @Description Creates a doctor login identity and its bookable profile. Admin only.
// @Tags doctors
// @Accept json
// @Produce json
// @Param doctor body dto.CreateDoctorRequest true "Doctor details"
// @Success 201 {object} dto.DoctorResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Security BearerAuth
// @Router /doctors [post]
func (h *doctorHandler) createDoctor(c *gin.Context) {
	var req dto.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doctor, err := h.doctorService.CreateDoctor(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create doctor")
		return
	}

	c.JSON(http.StatusCreated, dto.ToDoctorResponse(doctor))
}

// listDoctors godoc
// @Summary List the doctor roster
// @Tags doctors
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param speciality query string false "Filter by speciality"
// @Success 200 {object} dto.ListDoctorsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /doctors [get]
func (h *doctorHandler) listDoctors(c *gin.Context) {
	var params dto.ListDoctorsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	doctors, err := h.doctorService.ListDoctors(c.Request.Context(), params.Speciality, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list doctors")
		return
	}

	c.JSON(http.StatusOK, dto.ToListDoctorsResponse(doctors))
}

// getDoctor godoc
// @Summary Get a doctor profile
// @Tags doctors
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {object} dto.DoctorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /doctors/{id} [get]
func (h *doctorHandler) getDoctor(c *gin.Context) {
	doctor, err := h.doctorService.GetDoctorByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch doctor")
		return
	}

	c.JSON(http.StatusOK, dto.ToDoctorResponse(doctor))
}

// updateDoctor godoc
// @Summary Update a doctor profile
// @Description Updates profile fields. Owning doctor or admin.
// @Tags doctors
// @Accept json
// @Produce json
// @Param id path string true "Doctor ID"
// @Param doctor body dto.UpdateDoctorRequest true "Fields to update"
// @Success 200 {object} dto.DoctorResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /doctors/{id} [put]
func (h *doctorHandler) updateDoctor(c *gin.Context) {
	actor, ok := middleware.GetAuthUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	doctor, err := h.doctorService.UpdateDoctor(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondError(c, err, "Failed to update doctor")
		return
	}

	c.JSON(http.StatusOK, dto.ToDoctorResponse(doctor))
}

// deactivateDoctor godoc
// @Summary Remove a doctor from the roster
// @Description Soft deletes the doctor profile. Admin only.
// @Tags doctors
// @Param id path string true "Doctor ID"
// @Success 204 "Removed"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /doctors/{id} [delete]
func (h *doctorHandler) deactivateDoctor(c *gin.Context) {
	if err := h.doctorService.DeactivateDoctor(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to remove doctor")
		return
	}

	c.Status(http.StatusNoContent)
}

// setAvailability godoc
// @Summary Replace a doctor's weekly availability
// @Description Replaces all recurring availability windows. Owning doctor or admin.
// @Tags doctors
// @Accept json
// @Produce json
// @Param id path string true "Doctor ID"
// @Param availability body dto.SetAvailabilityRequest true "Weekly windows"
// @Success 204 "Availability replaced"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /doctors/{id}/availability [put]
func (h *doctorHandler) setAvailability(c *gin.Context) {
	actor, ok := middleware.GetAuthUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	windows := make([]domain.AvailabilityWindow, len(req.Windows))
	for i, w := range req.Windows {
		windows[i] = domain.AvailabilityWindow{
			Weekday:     time.Weekday(w.Weekday),
			Start:       w.Start,
			End:         w.End,
			SlotMinutes: w.SlotMinutes,
		}
	}

	if err := h.doctorService.SetAvailability(c.Request.Context(), c.Param("id"), windows, actor); err != nil {
		respondError(c, err, "Failed to set availability")
		return
	}

	c.Status(http.StatusNoContent)
}

// getAvailability godoc
// @Summary Get a doctor's weekly availability
// @Tags doctors
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {array} dto.AvailabilityWindowRequest
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /doctors/{id}/availability [get]
func (h *doctorHandler) getAvailability(c *gin.Context) {
	windows, err := h.doctorService.GetAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch availability")
		return
	}

	out := make([]dto.AvailabilityWindowRequest, len(windows))
	for i, w := range windows {
		out[i] = dto.AvailabilityWindowRequest{
			Weekday:     int(w.Weekday),
			Start:       w.Start,
			End:         w.End,
			SlotMinutes: w.SlotMinutes,
		}
	}

	c.JSON(http.StatusOK, out)
}

// listSlots godoc
// @Summary List bookable slots for a date
// @Description Generates the slots for one date from the doctor's weekly availability, marking slots already booked.
// @Tags doctors
// @Produce json
// @Param id path string true "Doctor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListSlotsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /doctors/{id}/slots [get]
func (h *doctorHandler) listSlots(c *gin.Context) {
	dateStr := c.Query("date")
	date, err := time.Parse(slotDateLayout, dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
		return
	}

	doctorID := c.Param("id")
	slots, err := h.doctorService.ListSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		respondError(c, err, "Failed to list slots")
		return
	}

	c.JSON(http.StatusOK, dto.ToListSlotsResponse(doctorID, dateStr, slots))
}
