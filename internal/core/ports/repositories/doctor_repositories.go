package repositories

import (
	"context"
	"time"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
)

// DoctorReader defines read operations for doctor profiles.
type DoctorReader interface {
	// FindDoctorByID retrieves a doctor profile by its ID.
	FindDoctorByID(ctx context.Context, doctorID string) (*domain.Doctor, error)

	// FindDoctorByUserID retrieves the profile owned by a doctor identity.
	FindDoctorByUserID(ctx context.Context, userID string) (*domain.Doctor, error)

	// FindDoctors retrieves a paginated roster, optionally filtered by speciality.
	FindDoctors(ctx context.Context, speciality string, limit int, offset int) ([]domain.Doctor, error)
}

// DoctorWriter defines write operations for doctor profiles.
type DoctorWriter interface {
	// SaveDoctor persists a new doctor profile.
	SaveDoctor(ctx context.Context, doctor domain.Doctor) error

	// UpdateDoctor updates an existing doctor's profile details.
	UpdateDoctor(ctx context.Context, doctor domain.Doctor) error

	// MarkDoctorDeleted soft deletes a doctor profile.
	MarkDoctorDeleted(ctx context.Context, doctorID string, deletedAt time.Time) error
}

// DoctorAvailabilityManager manages the recurring weekly availability used
// for slot generation.
type DoctorAvailabilityManager interface {
	// ReplaceAvailability atomically replaces all availability windows.
	ReplaceAvailability(ctx context.Context, doctorID string, windows []domain.AvailabilityWindow) error

	// FindAvailability returns a doctor's availability windows.
	FindAvailability(ctx context.Context, doctorID string) ([]domain.AvailabilityWindow, error)
}

// DoctorRepositoryFacade combines all doctor-related repository interfaces.
type DoctorRepositoryFacade interface {
	DoctorReader
	DoctorWriter
	DoctorAvailabilityManager
}
