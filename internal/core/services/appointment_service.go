package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saurabhtripathi7/mediqueue/internal/apperrors"
	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	portsrepo "github.com/saurabhtripathi7/mediqueue/internal/core/ports/repositories"
	portssvc "github.com/saurabhtripathi7/mediqueue/internal/core/ports/services"
	"github.com/saurabhtripathi7/mediqueue/internal/dto"
)

type appointmentService struct {
	BaseService
	appointmentRepo portsrepo.AppointmentRepositoryFacade
	doctorRepo      portsrepo.DoctorRepositoryFacade
	doctorSvc       portssvc.DoctorSvcFacade
}

// NewAppointmentService creates a new appointment service.
func NewAppointmentService(appointmentRepo portsrepo.AppointmentRepositoryFacade, doctorRepo portsrepo.DoctorRepositoryFacade, doctorSvc portssvc.DoctorSvcFacade) portssvc.AppointmentSvcFacade {
	return &appointmentService{
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		doctorSvc:       doctorSvc,
	}
}

var _ portssvc.AppointmentSvcFacade = (*appointmentService)(nil)

// BookAppointment validates the requested slot against the doctor's generated
// slots and persists the booking with the fee captured at booking time.
// Double booking is rejected by the database, so two concurrent requests for
// the same slot cannot both succeed.
func (s *appointmentService) BookAppointment(ctx context.Context, patientID string, req dto.BookAppointmentRequest) (*domain.Appointment, error) {
	doctor, err := s.doctorRepo.FindDoctorByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.Available {
		return nil, fmt.Errorf("%w: doctor is not accepting appointments", apperrors.ErrValidation)
	}

	slots, err := s.doctorSvc.ListSlots(ctx, req.DoctorID, req.SlotStart)
	if err != nil {
		return nil, err
	}

	var slot *domain.Slot
	for i := range slots {
		if slots[i].Start.Equal(req.SlotStart) {
			slot = &slots[i]
			break
		}
	}
	if slot == nil {
		return nil, fmt.Errorf("%w: slot start is not a bookable slot boundary", apperrors.ErrValidation)
	}
	if slot.Booked {
		return nil, apperrors.ErrDuplicate
	}

	now := time.Now()
	appointment := domain.Appointment{
		AppointmentID: uuid.NewString(),
		PatientID:     patientID,
		DoctorID:      req.DoctorID,
		SlotStart:     slot.Start,
		SlotEnd:       slot.End,
		Fee:           doctor.Fee,
		Status:        domain.AppointmentBooked,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.appointmentRepo.SaveAppointment(ctx, appointment); err != nil {
		// ErrDuplicate here means another booking won the slot between the
		// availability check and the insert.
		s.LogWarn(ctx, "Failed to save appointment", "doctor_id", req.DoctorID, "error", err)
		return nil, err
	}

	s.LogInfo(ctx, "Appointment booked", "appointment_id", appointment.AppointmentID, "doctor_id", req.DoctorID)
	return &appointment, nil
}

func (s *appointmentService) GetAppointmentByID(ctx context.Context, appointmentID string, actor domain.AuthenticatedUser) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeParticipant(ctx, appointment, actor); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *appointmentService) CancelAppointment(ctx context.Context, appointmentID string, actor domain.AuthenticatedUser) error {
	appointment, err := s.appointmentRepo.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if err := s.authorizeParticipant(ctx, appointment, actor); err != nil {
		return err
	}
	if appointment.Status != domain.AppointmentBooked {
		return fmt.Errorf("%w: only booked appointments can be cancelled", apperrors.ErrValidation)
	}

	if err := s.appointmentRepo.UpdateAppointmentStatus(ctx, appointmentID, domain.AppointmentCancelled, actor.UserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to cancel appointment", "appointment_id", appointmentID)
		return err
	}

	s.LogInfo(ctx, "Appointment cancelled", "appointment_id", appointmentID, "cancelled_by", actor.UserID)
	return nil
}

func (s *appointmentService) CompleteAppointment(ctx context.Context, appointmentID string, actor domain.AuthenticatedUser) error {
	appointment, err := s.appointmentRepo.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if actor.Role != domain.RoleAdmin {
		if actor.Role != domain.RoleDoctor {
			return apperrors.ErrForbidden
		}
		doctor, err := s.doctorRepo.FindDoctorByUserID(ctx, actor.UserID)
		if err != nil {
			return apperrors.ErrForbidden
		}
		if doctor.DoctorID != appointment.DoctorID {
			return apperrors.ErrForbidden
		}
	}
	if appointment.Status != domain.AppointmentBooked {
		return fmt.Errorf("%w: only booked appointments can be completed", apperrors.ErrValidation)
	}

	if err := s.appointmentRepo.UpdateAppointmentStatus(ctx, appointmentID, domain.AppointmentCompleted, "", time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to complete appointment", "appointment_id", appointmentID)
		return err
	}

	s.LogInfo(ctx, "Appointment completed", "appointment_id", appointmentID)
	return nil
}

// ListAppointments scopes the filter to the actor before querying: patients
// only ever see their own bookings and doctors only their own schedule, no
// matter what the filter asks for.
func (s *appointmentService) ListAppointments(ctx context.Context, filter portsrepo.AppointmentFilter, actor domain.AuthenticatedUser) ([]domain.Appointment, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		// Admins may filter freely.
	case domain.RolePatient:
		filter.PatientID = actor.UserID
	case domain.RoleDoctor:
		doctor, err := s.doctorRepo.FindDoctorByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, apperrors.ErrForbidden
		}
		filter.DoctorID = doctor.DoctorID
	default:
		return nil, apperrors.ErrForbidden
	}

	return s.appointmentRepo.FindAppointments(ctx, filter)
}

// authorizeParticipant permits the booking patient, the booked doctor and admins.
func (s *appointmentService) authorizeParticipant(ctx context.Context, appointment *domain.Appointment, actor domain.AuthenticatedUser) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RolePatient:
		if appointment.PatientID == actor.UserID {
			return nil
		}
	case domain.RoleDoctor:
		doctor, err := s.doctorRepo.FindDoctorByUserID(ctx, actor.UserID)
		if err == nil && doctor.DoctorID == appointment.DoctorID {
			return nil
		}
	}
	return apperrors.ErrForbidden
}
