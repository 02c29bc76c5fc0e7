package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/saurabhtripathi7/mediqueue/internal/apperrors"
	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	portsrepo "github.com/saurabhtripathi7/mediqueue/internal/core/ports/repositories"
	portssvc "github.com/saurabhtripathi7/mediqueue/internal/core/ports/services"
	"github.com/saurabhtripathi7/mediqueue/internal/core/services"
	"github.com/saurabhtripathi7/mediqueue/internal/dto"
)

// --- Mock DoctorService ---
type MockDoctorService struct {
	mock.Mock
}

func (m *MockDoctorService) CreateDoctor(ctx context.Context, req dto.CreateDoctorRequest) (*domain.Doctor, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Doctor), args.Error(1)
}

func (m *MockDoctorService) GetDoctorByID(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Doctor), args.Error(1)
}

func (m *MockDoctorService) GetDoctorByUserID(ctx context.Context, userID string) (*domain.Doctor, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Doctor), args.Error(1)
}

func (m *MockDoctorService) ListDoctors(ctx context.Context, speciality string, limit int, offset int) ([]domain.Doctor, error) {
	args := m.Called(ctx, speciality, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Doctor), args.Error(1)
}

func (m *MockDoctorService) UpdateDoctor(ctx context.Context, doctorID string, req dto.UpdateDoctorRequest, actor domain.AuthenticatedUser) (*domain.Doctor, error) {
	args := m.Called(ctx, doctorID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Doctor), args.Error(1)
}

func (m *MockDoctorService) DeactivateDoctor(ctx context.Context, doctorID string) error {
	args := m.Called(ctx, doctorID)
	return args.Error(0)
}

func (m *MockDoctorService) SetAvailability(ctx context.Context, doctorID string, windows []domain.AvailabilityWindow, actor domain.AuthenticatedUser) error {
	args := m.Called(ctx, doctorID, windows, actor)
	return args.Error(0)
}

func (m *MockDoctorService) GetAvailability(ctx context.Context, doctorID string) ([]domain.AvailabilityWindow, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilityWindow), args.Error(1)
}

func (m *MockDoctorService) ListSlots(ctx context.Context, doctorID string, date time.Time) ([]domain.Slot, error) {
	args := m.Called(ctx, doctorID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Slot), args.Error(1)
}

var _ portssvc.DoctorSvcFacade = (*MockDoctorService)(nil)

// --- Test Suite ---
type AppointmentServiceTestSuite struct {
	suite.Suite
	mockAppointmentRepo *MockAppointmentRepository
	mockDoctorRepo      *MockDoctorRepository
	mockDoctorSvc       *MockDoctorService
	service             portssvc.AppointmentSvcFacade
}

func (suite *AppointmentServiceTestSuite) SetupTest() {
	suite.mockAppointmentRepo = new(MockAppointmentRepository)
	suite.mockDoctorRepo = new(MockDoctorRepository)
	suite.mockDoctorSvc = new(MockDoctorService)
	suite.service = services.NewAppointmentService(suite.mockAppointmentRepo, suite.mockDoctorRepo, suite.mockDoctorSvc)
}

func (suite *AppointmentServiceTestSuite) bookableDoctor() *domain.Doctor {
	return &domain.Doctor{
		DoctorID:  uuid.NewString(),
		UserID:    uuid.NewString(),
		Available: true,
		Fee:       decimal.NewFromInt(700),
	}
}

// --- BookAppointment ---

func (suite *AppointmentServiceTestSuite) TestBookAppointment_CapturesFeeAtBooking() {
	ctx := context.Background()
	doctor := suite.bookableDoctor()
	patientID := uuid.NewString()
	slotStart := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	slots := []domain.Slot{
		{DoctorID: doctor.DoctorID, Start: slotStart, End: slotStart.Add(30 * time.Minute)},
	}

	suite.mockDoctorRepo.On("FindDoctorByID", ctx, doctor.DoctorID).Return(doctor, nil).Once()
	suite.mockDoctorSvc.On("ListSlots", ctx, doctor.DoctorID, slotStart).Return(slots, nil).Once()
	suite.mockAppointmentRepo.On("SaveAppointment", ctx, mock.MatchedBy(func(a domain.Appointment) bool {
		return a.PatientID == patientID &&
			a.DoctorID == doctor.DoctorID &&
			a.SlotStart.Equal(slotStart) &&
			a.Fee.Equal(doctor.Fee) &&
			a.Status == domain.AppointmentBooked
	})).Return(nil).Once()

	appointment, err := suite.service.BookAppointment(ctx, patientID, dto.BookAppointmentRequest{
		DoctorID:  doctor.DoctorID,
		SlotStart: slotStart,
	})

	suite.Require().NoError(err)
	suite.NotEmpty(appointment.AppointmentID)
	suite.True(appointment.Fee.Equal(doctor.Fee))
	suite.mockAppointmentRepo.AssertExpectations(suite.T())
}

func (suite *AppointmentServiceTestSuite) TestBookAppointment_RejectsNonBoundaryStart() {
	ctx := context.Background()
	doctor := suite.bookableDoctor()
	slotStart := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	offBoundary := slotStart.Add(10 * time.Minute)
	slots := []domain.Slot{
		{DoctorID: doctor.DoctorID, Start: slotStart, End: slotStart.Add(30 * time.Minute)},
	}

	suite.mockDoctorRepo.On("FindDoctorByID", ctx, doctor.DoctorID).Return(doctor, nil).Once()
	suite.mockDoctorSvc.On("ListSlots", ctx, doctor.DoctorID, offBoundary).Return(slots, nil).Once()

	appointment, err := suite.service.BookAppointment(ctx, uuid.NewString(), dto.BookAppointmentRequest{
		DoctorID:  doctor.DoctorID,
		SlotStart: offBoundary,
	})

	suite.Require().Error(err)
	suite.Nil(appointment)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AppointmentServiceTestSuite) TestBookAppointment_SlotAlreadyBooked() {
	ctx := context.Background()
	doctor := suite.bookableDoctor()
	slotStart := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	slots := []domain.Slot{
		{DoctorID: doctor.DoctorID, Start: slotStart, End: slotStart.Add(30 * time.Minute), Booked: true},
	}

	suite.mockDoctorRepo.On("FindDoctorByID", ctx, doctor.DoctorID).Return(doctor, nil).Once()
	suite.mockDoctorSvc.On("ListSlots", ctx, doctor.DoctorID, slotStart).Return(slots, nil).Once()

	appointment, err := suite.service.BookAppointment(ctx, uuid.NewString(), dto.BookAppointmentRequest{
		DoctorID:  doctor.DoctorID,
		SlotStart: slotStart,
	})

	suite.Require().Error(err)
	suite.Nil(appointment)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

// Two requests can both see a free slot; the database uniqueness check makes
// the insert the deciding step.
func (suite *AppointmentServiceTestSuite) TestBookAppointment_LosesInsertRace() {
	ctx := context.Background()
	doctor := suite.bookableDoctor()
	slotStart := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	slots := []domain.Slot{
		{DoctorID: doctor.DoctorID, Start: slotStart, End: slotStart.Add(30 * time.Minute)},
	}

	suite.mockDoctorRepo.On("FindDoctorByID", ctx, doctor.DoctorID).Return(doctor, nil).Once()
	suite.mockDoctorSvc.On("ListSlots", ctx, doctor.DoctorID, slotStart).Return(slots, nil).Once()
	suite.mockAppointmentRepo.On("SaveAppointment", ctx, mock.AnythingOfType("domain.Appointment")).
		Return(apperrors.ErrDuplicate).Once()

	appointment, err := suite.service.BookAppointment(ctx, uuid.NewString(), dto.BookAppointmentRequest{
		DoctorID:  doctor.DoctorID,
		SlotStart: slotStart,
	})

	suite.Require().Error(err)
	suite.Nil(appointment)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AppointmentServiceTestSuite) TestBookAppointment_UnavailableDoctor() {
	ctx := context.Background()
	doctor := suite.bookableDoctor()
	doctor.Available = false

	suite.mockDoctorRepo.On("FindDoctorByID", ctx, doctor.DoctorID).Return(doctor, nil).Once()

	appointment, err := suite.service.BookAppointment(ctx, uuid.NewString(), dto.BookAppointmentRequest{
		DoctorID:  doctor.DoctorID,
		SlotStart: time.Now(),
	})

	suite.Require().Error(err)
	suite.Nil(appointment)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- CancelAppointment ---

func (suite *AppointmentServiceTestSuite) bookedAppointment(patientID, doctorID string) *domain.Appointment {
	return &domain.Appointment{
		AppointmentID: uuid.NewString(),
		PatientID:     patientID,
		DoctorID:      doctorID,
		Status:        domain.AppointmentBooked,
		Fee:           decimal.NewFromInt(700),
	}
}

func (suite *AppointmentServiceTestSuite) TestCancelAppointment_ByBookingPatient() {
	ctx := context.Background()
	patientID := uuid.NewString()
	appointment := suite.bookedAppointment(patientID, uuid.NewString())
	actor := domain.AuthenticatedUser{UserID: patientID, Role: domain.RolePatient}

	suite.mockAppointmentRepo.On("FindAppointmentByID", ctx, appointment.AppointmentID).Return(appointment, nil).Once()
	suite.mockAppointmentRepo.On("UpdateAppointmentStatus", ctx, appointment.AppointmentID, domain.AppointmentCancelled, patientID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.CancelAppointment(ctx, appointment.AppointmentID, actor)

	suite.Require().NoError(err)
	suite.mockAppointmentRepo.AssertExpectations(suite.T())
}

func (suite *AppointmentServiceTestSuite) TestCancelAppointment_OtherPatientForbidden() {
	ctx := context.Background()
	appointment := suite.bookedAppointment(uuid.NewString(), uuid.NewString())
	actor := domain.AuthenticatedUser{UserID: uuid.NewString(), Role: domain.RolePatient}

	suite.mockAppointmentRepo.On("FindAppointmentByID", ctx, appointment.AppointmentID).Return(appointment, nil).Once()

	err := suite.service.CancelAppointment(ctx, appointment.AppointmentID, actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AppointmentServiceTestSuite) TestCancelAppointment_AlreadyCancelled() {
	ctx := context.Background()
	patientID := uuid.NewString()
	appointment := suite.bookedAppointment(patientID, uuid.NewString())
	appointment.Status = domain.AppointmentCancelled
	actor := domain.AuthenticatedUser{UserID: patientID, Role: domain.RolePatient}

	suite.mockAppointmentRepo.On("FindAppointmentByID", ctx, appointment.AppointmentID).Return(appointment, nil).Once()

	err := suite.service.CancelAppointment(ctx, appointment.AppointmentID, actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- CompleteAppointment ---

func (suite *AppointmentServiceTestSuite) TestCompleteAppointment_ByBookedDoctor() {
	ctx := context.Background()
	doctor := suite.bookableDoctor()
	appointment := suite.bookedAppointment(uuid.NewString(), doctor.DoctorID)
	actor := domain.AuthenticatedUser{UserID: doctor.UserID, Role: domain.RoleDoctor}

	suite.mockAppointmentRepo.On("FindAppointmentByID", ctx, appointment.AppointmentID).Return(appointment, nil).Once()
	suite.mockDoctorRepo.On("FindDoctorByUserID", ctx, doctor.UserID).Return(doctor, nil).Once()
	suite.mockAppointmentRepo.On("UpdateAppointmentStatus", ctx, appointment.AppointmentID, domain.AppointmentCompleted, "", mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.CompleteAppointment(ctx, appointment.AppointmentID, actor)

	suite.Require().NoError(err)
	suite.mockAppointmentRepo.AssertExpectations(suite.T())
}

func (suite *AppointmentServiceTestSuite) TestCompleteAppointment_OtherDoctorForbidden() {
	ctx := context.Background()
	otherDoctor := suite.bookableDoctor()
	appointment := suite.bookedAppointment(uuid.NewString(), uuid.NewString())
	actor := domain.AuthenticatedUser{UserID: otherDoctor.UserID, Role: domain.RoleDoctor}

	suite.mockAppointmentRepo.On("FindAppointmentByID", ctx, appointment.AppointmentID).Return(appointment, nil).Once()
	suite.mockDoctorRepo.On("FindDoctorByUserID", ctx, otherDoctor.UserID).Return(otherDoctor, nil).Once()

	err := suite.service.CompleteAppointment(ctx, appointment.AppointmentID, actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- ListAppointments ---

func (suite *AppointmentServiceTestSuite) TestListAppointments_PatientFilterForced() {
	ctx := context.Background()
	patientID := uuid.NewString()
	actor := domain.AuthenticatedUser{UserID: patientID, Role: domain.RolePatient}

	// Even if the request names someone else, the filter is pinned to the actor.
	requested := portsrepo.AppointmentFilter{PatientID: uuid.NewString(), Limit: 10}
	expected := requested
	expected.PatientID = patientID

	suite.mockAppointmentRepo.On("FindAppointments", ctx, expected).Return([]domain.Appointment{}, nil).Once()

	_, err := suite.service.ListAppointments(ctx, requested, actor)

	suite.Require().NoError(err)
	suite.mockAppointmentRepo.AssertExpectations(suite.T())
}

func (suite *AppointmentServiceTestSuite) TestListAppointments_DoctorScopedToOwnSchedule() {
	ctx := context.Background()
	doctor := suite.bookableDoctor()
	actor := domain.AuthenticatedUser{UserID: doctor.UserID, Role: domain.RoleDoctor}

	expected := portsrepo.AppointmentFilter{DoctorID: doctor.DoctorID}

	suite.mockDoctorRepo.On("FindDoctorByUserID", ctx, doctor.UserID).Return(doctor, nil).Once()
	suite.mockAppointmentRepo.On("FindAppointments", ctx, expected).Return([]domain.Appointment{}, nil).Once()

	_, err := suite.service.ListAppointments(ctx, portsrepo.AppointmentFilter{}, actor)

	suite.Require().NoError(err)
	suite.mockAppointmentRepo.AssertExpectations(suite.T())
}

func (suite *AppointmentServiceTestSuite) TestListAppointments_AdminUnscoped() {
	ctx := context.Background()
	actor := domain.AuthenticatedUser{UserID: uuid.NewString(), Role: domain.RoleAdmin}
	filter := portsrepo.AppointmentFilter{DoctorID: uuid.NewString(), Status: domain.AppointmentBooked}

	suite.mockAppointmentRepo.On("FindAppointments", ctx, filter).Return([]domain.Appointment{}, nil).Once()

	_, err := suite.service.ListAppointments(ctx, filter, actor)

	suite.Require().NoError(err)
	suite.mockAppointmentRepo.AssertExpectations(suite.T())
}

func TestAppointmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AppointmentServiceTestSuite))
}
