package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saurabhtripathi7/mediqueue/internal/apperrors"
	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	portsrepo "github.com/saurabhtripathi7/mediqueue/internal/core/ports/repositories"
	portssvc "github.com/saurabhtripathi7/mediqueue/internal/core/ports/services"
	"github.com/saurabhtripathi7/mediqueue/internal/dto"
	"github.com/saurabhtripathi7/mediqueue/internal/utils"
)

type doctorService struct {
	BaseService
	doctorRepo      portsrepo.DoctorRepositoryFacade
	userRepo        portsrepo.UserRepositoryFacade
	appointmentRepo portsrepo.AppointmentReader
}

// NewDoctorService creates a new doctor service.
func NewDoctorService(doctorRepo portsrepo.DoctorRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, appointmentRepo portsrepo.AppointmentReader) portssvc.DoctorSvcFacade {
	return &doctorService{
		doctorRepo:      doctorRepo,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
	}
}

var _ portssvc.DoctorSvcFacade = (*doctorService)(nil)

// CreateDoctor creates the doctor login identity and its bookable profile.
func (s *doctorService) CreateDoctor(ctx context.Context, req dto.CreateDoctorRequest) (*domain.Doctor, error) {
	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: passwordHash,
		Role:         domain.RoleDoctor,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.ErrDuplicate
		}
		s.LogError(ctx, err, "Failed to save doctor identity")
		return nil, fmt.Errorf("failed to create doctor identity: %w", err)
	}

	doctor := domain.Doctor{
		DoctorID:   uuid.NewString(),
		UserID:     user.UserID,
		Name:       req.Name,
		Speciality: req.Speciality,
		Degree:     req.Degree,
		Experience: req.Experience,
		About:      req.About,
		Fee:        req.Fee,
		Available:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.doctorRepo.SaveDoctor(ctx, doctor); err != nil {
		s.LogError(ctx, err, "Failed to save doctor profile", "user_id", user.UserID)
		return nil, fmt.Errorf("failed to create doctor profile: %w", err)
	}

	s.LogInfo(ctx, "Doctor created", "doctor_id", doctor.DoctorID)
	return &doctor, nil
}

func (s *doctorService) GetDoctorByID(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	return s.doctorRepo.FindDoctorByID(ctx, doctorID)
}

func (s *doctorService) GetDoctorByUserID(ctx context.Context, userID string) (*domain.Doctor, error) {
	return s.doctorRepo.FindDoctorByUserID(ctx, userID)
}

func (s *doctorService) ListDoctors(ctx context.Context, speciality string, limit int, offset int) ([]domain.Doctor, error) {
	return s.doctorRepo.FindDoctors(ctx, speciality, limit, offset)
}

func (s *doctorService) UpdateDoctor(ctx context.Context, doctorID string, req dto.UpdateDoctorRequest, actor domain.AuthenticatedUser) (*domain.Doctor, error) {
	doctor, err := s.doctorRepo.FindDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeDoctorAction(doctor, actor); err != nil {
		return nil, err
	}

	if req.Speciality != nil {
		doctor.Speciality = *req.Speciality
	}
	if req.Degree != nil {
		doctor.Degree = *req.Degree
	}
	if req.Experience != nil {
		doctor.Experience = *req.Experience
	}
	if req.About != nil {
		doctor.About = *req.About
	}
	if req.Fee != nil {
		doctor.Fee = *req.Fee
	}
	if req.Available != nil {
		doctor.Available = *req.Available
	}
	doctor.LastUpdatedAt = time.Now()

	if err := s.doctorRepo.UpdateDoctor(ctx, *doctor); err != nil {
		s.LogError(ctx, err, "Failed to update doctor", "doctor_id", doctorID)
		return nil, err
	}

	return doctor, nil
}

func (s *doctorService) DeactivateDoctor(ctx context.Context, doctorID string) error {
	return s.doctorRepo.MarkDoctorDeleted(ctx, doctorID, time.Now())
}

func (s *doctorService) SetAvailability(ctx context.Context, doctorID string, windows []domain.AvailabilityWindow, actor domain.AuthenticatedUser) error {
	doctor, err := s.doctorRepo.FindDoctorByID(ctx, doctorID)
	if err != nil {
		return err
	}
	if err := s.authorizeDoctorAction(doctor, actor); err != nil {
		return err
	}

	for _, w := range windows {
		if _, err := parseClockTime(w.Start); err != nil {
			return fmt.Errorf("%w: invalid start time %q", apperrors.ErrValidation, w.Start)
		}
		end, err := parseClockTime(w.End)
		if err != nil {
			return fmt.Errorf("%w: invalid end time %q", apperrors.ErrValidation, w.End)
		}
		start, _ := parseClockTime(w.Start)
		if !start.Before(end) {
			return fmt.Errorf("%w: window start must precede end", apperrors.ErrValidation)
		}
		if w.SlotMinutes <= 0 {
			return fmt.Errorf("%w: slot length must be positive", apperrors.ErrValidation)
		}
	}

	if err := s.doctorRepo.ReplaceAvailability(ctx, doctorID, windows); err != nil {
		s.LogError(ctx, err, "Failed to replace availability", "doctor_id", doctorID)
		return err
	}

	s.LogInfo(ctx, "Availability updated", "doctor_id", doctorID, "windows", len(windows))
	return nil
}

func (s *doctorService) GetAvailability(ctx context.Context, doctorID string) ([]domain.AvailabilityWindow, error) {
	if _, err := s.doctorRepo.FindDoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.doctorRepo.FindAvailability(ctx, doctorID)
}

// ListSlots generates the bookable slots for one date from the doctor's
// weekly availability and marks slots already taken by non-cancelled
// bookings. All generation happens server-side so the booking endpoint can
// validate slot boundaries against the same source of truth.
func (s *doctorService) ListSlots(ctx context.Context, doctorID string, date time.Time) ([]domain.Slot, error) {
	doctor, err := s.doctorRepo.FindDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.Available {
		return []domain.Slot{}, nil
	}

	windows, err := s.doctorRepo.FindAvailability(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookedStarts, err := s.appointmentRepo.FindBookedSlotStarts(ctx, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	booked := make(map[int64]bool, len(bookedStarts))
	for _, t := range bookedStarts {
		booked[t.Unix()] = true
	}

	slots := []domain.Slot{}
	for _, w := range windows {
		if w.Weekday != dayStart.Weekday() {
			continue
		}
		start, err := parseClockTime(w.Start)
		if err != nil {
			continue
		}
		end, err := parseClockTime(w.End)
		if err != nil {
			continue
		}

		cursor := dayStart.Add(time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute)
		windowEnd := dayStart.Add(time.Duration(end.Hour())*time.Hour + time.Duration(end.Minute())*time.Minute)
		step := time.Duration(w.SlotMinutes) * time.Minute

		for !cursor.Add(step).After(windowEnd) {
			slots = append(slots, domain.Slot{
				DoctorID: doctorID,
				Start:    cursor,
				End:      cursor.Add(step),
				Booked:   booked[cursor.Unix()],
			})
			cursor = cursor.Add(step)
		}
	}

	return slots, nil
}

// authorizeDoctorAction permits the owning doctor and admins.
func (s *doctorService) authorizeDoctorAction(doctor *domain.Doctor, actor domain.AuthenticatedUser) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	if actor.Role == domain.RoleDoctor && doctor.UserID == actor.UserID {
		return nil
	}
	return apperrors.ErrForbidden
}

func parseClockTime(value string) (time.Time, error) {
	return time.Parse("15:04", value)
}
