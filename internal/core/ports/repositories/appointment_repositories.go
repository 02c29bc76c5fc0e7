package repositories

import (
	"context"
	"time"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
)

// AppointmentFilter narrows appointment listings.
type AppointmentFilter struct {
	PatientID string
	DoctorID  string
	Status    domain.AppointmentStatus
	Limit     int
	Offset    int
}

// AppointmentReader defines read operations for appointments.
type AppointmentReader interface {
	// FindAppointmentByID retrieves a specific appointment.
	FindAppointmentByID(ctx context.Context, appointmentID string) (*domain.Appointment, error)

	// FindAppointments retrieves a filtered, paginated list ordered by slot start descending.
	FindAppointments(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error)

	// FindBookedSlotStarts returns the slot starts of non-cancelled bookings
	// for a doctor within [from, to). Used for slot generation.
	FindBookedSlotStarts(ctx context.Context, doctorID string, from time.Time, to time.Time) ([]time.Time, error)
}

// AppointmentWriter defines write operations for appointments.
type AppointmentWriter interface {
	// SaveAppointment persists a new booking. Returns apperrors.ErrDuplicate
	// when the doctor already has a non-cancelled booking at the same slot.
	SaveAppointment(ctx context.Context, appointment domain.Appointment) error

	// UpdateAppointmentStatus transitions a booking's status.
	UpdateAppointmentStatus(ctx context.Context, appointmentID string, status domain.AppointmentStatus, cancelledBy string, updatedAt time.Time) error
}

// AppointmentRepositoryFacade combines all appointment repository interfaces.
type AppointmentRepositoryFacade interface {
	AppointmentReader
	AppointmentWriter
}
