package services

import (
	"context"
	"time"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	"github.com/saurabhtripathi7/mediqueue/internal/dto"
)

// DoctorSvcFacade defines doctor roster and availability operations.
type DoctorSvcFacade interface {
	// CreateDoctor creates a doctor identity plus its bookable profile.
	// Admin only (enforced at the route).
	CreateDoctor(ctx context.Context, req dto.CreateDoctorRequest) (*domain.Doctor, error)

	// GetDoctorByID retrieves a doctor profile.
	GetDoctorByID(ctx context.Context, doctorID string) (*domain.Doctor, error)

	// GetDoctorByUserID retrieves the profile owned by a doctor identity.
	GetDoctorByUserID(ctx context.Context, userID string) (*domain.Doctor, error)

	// ListDoctors retrieves the roster, optionally filtered by speciality.
	ListDoctors(ctx context.Context, speciality string, limit int, offset int) ([]domain.Doctor, error)

	// UpdateDoctor updates profile fields. Actor must be the owning doctor
	// or an admin.
	UpdateDoctor(ctx context.Context, doctorID string, req dto.UpdateDoctorRequest, actor domain.AuthenticatedUser) (*domain.Doctor, error)

	// DeactivateDoctor soft deletes a doctor from the roster. Admin only.
	DeactivateDoctor(ctx context.Context, doctorID string) error

	// SetAvailability replaces a doctor's weekly availability windows.
	// Actor must be the owning doctor or an admin.
	SetAvailability(ctx context.Context, doctorID string, windows []domain.AvailabilityWindow, actor domain.AuthenticatedUser) error

	// GetAvailability returns the doctor's weekly availability windows.
	GetAvailability(ctx context.Context, doctorID string) ([]domain.AvailabilityWindow, error)

	// ListSlots generates the bookable slots for a doctor on a date from
	// availability windows, marking already-booked slots.
	ListSlots(ctx context.Context, doctorID string, date time.Time) ([]domain.Slot, error)
}
