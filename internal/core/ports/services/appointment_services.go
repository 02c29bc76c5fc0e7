package services

import (
	"context"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	portsrepo "github.com/saurabhtripathi7/mediqueue/internal/core/ports/repositories"
	"github.com/saurabhtripathi7/mediqueue/internal/dto"
)

// AppointmentSvcFacade defines booking lifecycle operations.
type AppointmentSvcFacade interface {
	// BookAppointment books a slot for a patient. The slot must lie on a
	// boundary generated from the doctor's availability and must not
	// already be booked (apperrors.ErrDuplicate otherwise).
	BookAppointment(ctx context.Context, patientID string, req dto.BookAppointmentRequest) (*domain.Appointment, error)

	// GetAppointmentByID retrieves a booking. Actor must be a participant
	// or an admin.
	GetAppointmentByID(ctx context.Context, appointmentID string, actor domain.AuthenticatedUser) (*domain.Appointment, error)

	// CancelAppointment cancels a booking. Actor must be the booking
	// patient, the booked doctor or an admin.
	CancelAppointment(ctx context.Context, appointmentID string, actor domain.AuthenticatedUser) error

	// CompleteAppointment marks a booking completed. Doctor (own booking)
	// or admin.
	CompleteAppointment(ctx context.Context, appointmentID string, actor domain.AuthenticatedUser) error

	// ListAppointments lists bookings scoped to the actor: patients see
	// their own, doctors their own schedule, admins everything.
	ListAppointments(ctx context.Context, filter portsrepo.AppointmentFilter, actor domain.AuthenticatedUser) ([]domain.Appointment, error)
}
