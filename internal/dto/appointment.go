package dto

import (
	"time"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BookAppointmentRequest books a slot with a doctor. SlotStart must be an
// exact slot boundary generated from the doctor's availability.
type BookAppointmentRequest struct {
	DoctorID  string    `json:"doctorID" binding:"required"`
	SlotStart time.Time `json:"slotStart" binding:"required"`
}

// AppointmentResponse is the externally visible shape of a booking.
type AppointmentResponse struct {
	AppointmentID string          `json:"appointmentID"`
	PatientID     string          `json:"patientID"`
	DoctorID      string          `json:"doctorID"`
	SlotStart     time.Time       `json:"slotStart"`
	SlotEnd       time.Time       `json:"slotEnd"`
	Fee           decimal.Decimal `json:"fee"`
	Status        string          `json:"status"`
	CancelledBy   string          `json:"cancelledBy,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToAppointmentResponse converts a domain.Appointment to its DTO.
func ToAppointmentResponse(a *domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		AppointmentID: a.AppointmentID,
		PatientID:     a.PatientID,
		DoctorID:      a.DoctorID,
		SlotStart:     a.SlotStart,
		SlotEnd:       a.SlotEnd,
		Fee:           a.Fee,
		Status:        string(a.Status),
		CancelledBy:   a.CancelledBy,
		CreatedAt:     a.CreatedAt,
	}
}

// ListAppointmentsParams defines query parameters for listing appointments.
type ListAppointmentsParams struct {
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
	Status string `form:"status"`
}

// ListAppointmentsResponse wraps a page of appointments.
type ListAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// ToListAppointmentsResponse converts a slice of domain.Appointment to its DTO.
func ToListAppointmentsResponse(appointments []domain.Appointment) ListAppointmentsResponse {
	out := make([]AppointmentResponse, len(appointments))
	for i, a := range appointments {
		out[i] = ToAppointmentResponse(&a)
	}
	return ListAppointmentsResponse{Appointments: out}
}
