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

// --- Mock DoctorRepository ---
type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) FindDoctorByID(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	args := m.Called(ctx, doctorID)
	var doctor *domain.Doctor
	if args.Get(0) != nil {
		doctor = args.Get(0).(*domain.Doctor)
	}
	return doctor, args.Error(1)
}

func (m *MockDoctorRepository) FindDoctorByUserID(ctx context.Context, userID string) (*domain.Doctor, error) {
	args := m.Called(ctx, userID)
	var doctor *domain.Doctor
	if args.Get(0) != nil {
		doctor = args.Get(0).(*domain.Doctor)
	}
	return doctor, args.Error(1)
}

func (m *MockDoctorRepository) FindDoctors(ctx context.Context, speciality string, limit int, offset int) ([]domain.Doctor, error) {
	args := m.Called(ctx, speciality, limit, offset)
	var doctors []domain.Doctor
	if args.Get(0) != nil {
		doctors = args.Get(0).([]domain.Doctor)
	}
	return doctors, args.Error(1)
}

func (m *MockDoctorRepository) SaveDoctor(ctx context.Context, doctor domain.Doctor) error {
	args := m.Called(ctx, doctor)
	return args.Error(0)
}

func (m *MockDoctorRepository) UpdateDoctor(ctx context.Context, doctor domain.Doctor) error {
	args := m.Called(ctx, doctor)
	return args.Error(0)
}

func (m *MockDoctorRepository) MarkDoctorDeleted(ctx context.Context, doctorID string, deletedAt time.Time) error {
	args := m.Called(ctx, doctorID, deletedAt)
	return args.Error(0)
}

func (m *MockDoctorRepository) ReplaceAvailability(ctx context.Context, doctorID string, windows []domain.AvailabilityWindow) error {
	args := m.Called(ctx, doctorID, windows)
	return args.Error(0)
}

func (m *MockDoctorRepository) FindAvailability(ctx context.Context, doctorID string) ([]domain.AvailabilityWindow, error) {
	args := m.Called(ctx, doctorID)
	var windows []domain.AvailabilityWindow
	if args.Get(0) != nil {
		windows = args.Get(0).([]domain.AvailabilityWindow)
	}
	return windows, args.Error(1)
}

// --- Mock AppointmentRepository ---
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) FindAppointmentByID(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	args := m.Called(ctx, appointmentID)
	var appointment *domain.Appointment
	if args.Get(0) != nil {
		appointment = args.Get(0).(*domain.Appointment)
	}
	return appointment, args.Error(1)
}

func (m *MockAppointmentRepository) FindAppointments(ctx context.Context, filter portsrepo.AppointmentFilter) ([]domain.Appointment, error) {
	args := m.Called(ctx, filter)
	var appointments []domain.Appointment
	if args.Get(0) != nil {
		appointments = args.Get(0).([]domain.Appointment)
	}
	return appointments, args.Error(1)
}

func (m *MockAppointmentRepository) FindBookedSlotStarts(ctx context.Context, doctorID string, from time.Time, to time.Time) ([]time.Time, error) {
	args := m.Called(ctx, doctorID, from, to)
	var starts []time.Time
	if args.Get(0) != nil {
		starts = args.Get(0).([]time.Time)
	}
	return starts, args.Error(1)
}

func (m *MockAppointmentRepository) SaveAppointment(ctx context.Context, appointment domain.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) UpdateAppointmentStatus(ctx context.Context, appointmentID string, status domain.AppointmentStatus, cancelledBy string, updatedAt time.Time) error {
	args := m.Called(ctx, appointmentID, status, cancelledBy, updatedAt)
	return args.Error(0)
}

// --- Test Suite ---
type DoctorServiceTestSuite struct {
	suite.Suite
	mockDoctorRepo      *MockDoctorRepository
	mockUserRepo        *MockUserRepository
	mockAppointmentRepo *MockAppointmentRepository
	service             portssvc.DoctorSvcFacade
}

func (suite *DoctorServiceTestSuite) SetupTest() {
	suite.mockDoctorRepo = new(MockDoctorRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockAppointmentRepo = new(MockAppointmentRepository)
	suite.service = services.NewDoctorService(suite.mockDoctorRepo, suite.mockUserRepo, suite.mockAppointmentRepo)
}

// --- CreateDoctor ---

func (suite *DoctorServiceTestSuite) TestCreateDoctor_CreatesIdentityAndProfile() {
	ctx := context.Background()
	req := dto.CreateDoctorRequest{
		Name:       "Dr. Mehta",
		Email:      "mehta@example.com",
		Password:   "password123",
		Speciality: "cardiology",
		Degree:     "MD",
		Experience: 10,
		Fee:        decimal.NewFromInt(500),
	}

	var identityID string
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		identityID = user.UserID
		return user.Role == domain.RoleDoctor && user.Email == req.Email && user.PasswordHash != ""
	})).Return(nil).Once()
	suite.mockDoctorRepo.On("SaveDoctor", ctx, mock.MatchedBy(func(doctor domain.Doctor) bool {
		return doctor.UserID == identityID && doctor.Available && doctor.Fee.Equal(req.Fee)
	})).Return(nil).Once()

	doctor, err := suite.service.CreateDoctor(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(doctor.DoctorID)
	suite.Equal("cardiology", doctor.Speciality)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockDoctorRepo.AssertExpectations(suite.T())
}

func (suite *DoctorServiceTestSuite) TestCreateDoctor_DuplicateEmail() {
	ctx := context.Background()
	req := dto.CreateDoctorRequest{
		Name:     "Dr. Mehta",
		Email:    "mehta@example.com",
		Password: "password123",
		Fee:      decimal.NewFromInt(500),
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	doctor, err := suite.service.CreateDoctor(ctx, req)

	suite.Require().Error(err)
	suite.Nil(doctor)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

// --- SetAvailability ---

func (suite *DoctorServiceTestSuite) storedDoctor() *domain.Doctor {
	return &domain.Doctor{
		DoctorID:  uuid.NewString(),
		UserID:    uuid.NewString(),
		Available: true,
		Fee:       decimal.NewFromInt(500),
	}
}

func (suite *DoctorServiceTestSuite) TestSetAvailability_OwnerCanReplace() {
	ctx := context.Background()
	doctor := suite.storedDoctor()
	actor := domain.AuthenticatedUser{UserID: doctor.UserID, Role: domain.RoleDoctor}
	windows := []domain.AvailabilityWindow{
		{Weekday: time.Monday, Start: "09:00", End: "12:00", SlotMinutes: 30},
	}

	suite.mockDoctorRepo.On("FindDoctorByID", ctx, doctor.DoctorID).Return(doctor, nil).Once()
	suite.mockDoctorRepo.On("ReplaceAvailability", ctx, doctor.DoctorID, windows).Return(nil).Once()

	err := suite.service.SetAvailability(ctx, doctor.DoctorID, windows, actor)

	suite.Require().NoError(err)
	suite.mockDoctorRepo.AssertExpectations(suite.T())
}

func (suite *DoctorServiceTestSuite) TestSetAvailability_OtherDoctorForbidden() {
	ctx := context.Background()
	doctor := suite.storedDoctor()
	actor := domain.AuthenticatedUser{UserID: uuid.NewString(), Role: domain.RoleDoctor}

	suite.mockDoctorRepo.On("FindDoctorByID", ctx, doctor.DoctorID).Return(doctor, nil).Once()

	err := suite.service.SetAvailability(ctx, doctor.DoctorID, nil, actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *DoctorServiceTestSuite) TestSetAvailability_RejectsInvalidWindows() {
	ctx := context.Background()
	doctor := suite.storedDoctor()
	actor := domain.AuthenticatedUser{UserID: doctor.UserID, Role: domain.RoleDoctor}

	cases := []domain.AvailabilityWindow{
		{Weekday: time.Monday, Start: "nine", End: "12:00", SlotMinutes: 30},
		{Weekday: time.Monday, Start: "12:00", End: "09:00", SlotMinutes: 30},
		{Weekday: time.Monday, Start: "09:00", End: "12:00", SlotMinutes: 0},
	}
	for _, w := range cases {
		suite.mockDoctorRepo.On("FindDoctorByID", ctx, doctor.DoctorID).Return(doctor, nil).Once()

		err := suite.service.SetAvailability(ctx, doctor.DoctorID, []domain.AvailabilityWindow{w}, actor)

		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
}

// --- ListSlots ---

func (suite *DoctorServiceTestSuite) TestListSlots_GeneratesFromWindows() {
	ctx := context.Background()
	doctor := suite.storedDoctor()
	// 2026-09-07 is a Monday.
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	windows := []domain.AvailabilityWindow{
		{Weekday: time.Monday, Start: "09:00", End: "10:30", SlotMinutes: 30},
	}
	bookedStart := date.Add(9*time.Hour + 30*time.Minute)

	suite.mockDoctorRepo.On("FindDoctorByID", ctx, doctor.DoctorID).Return(doctor, nil).Once()
	suite.mockDoctorRepo.On("FindAvailability", ctx, doctor.DoctorID).Return(windows, nil).Once()
	suite.mockAppointmentRepo.On("FindBookedSlotStarts", ctx, doctor.DoctorID, date, date.AddDate(0, 0, 1)).
		Return([]time.Time{bookedStart}, nil).Once()

	slots, err := suite.service.ListSlots(ctx, doctor.DoctorID, date)

	suite.Require().NoError(err)
	suite.Require().Len(slots, 3)
	suite.Equal(date.Add(9*time.Hour), slots[0].Start)
	suite.False(slots[0].Booked)
	suite.Equal(bookedStart, slots[1].Start)
	suite.True(slots[1].Booked)
	suite.Equal(date.Add(10*time.Hour), slots[2].Start)
	suite.False(slots[2].Booked)
	suite.Equal(30*time.Minute, slots[0].End.Sub(slots[0].Start))
}

func (suite *DoctorServiceTestSuite) TestListSlots_NoWindowOnThatWeekday() {
	ctx := context.Background()
	doctor := suite.storedDoctor()
	// 2026-09-08 is a Tuesday, window is for Monday.
	date := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	windows := []domain.AvailabilityWindow{
		{Weekday: time.Monday, Start: "09:00", End: "10:30", SlotMinutes: 30},
	}

	suite.mockDoctorRepo.On("FindDoctorByID", ctx, doctor.DoctorID).Return(doctor, nil).Once()
	suite.mockDoctorRepo.On("FindAvailability", ctx, doctor.DoctorID).Return(windows, nil).Once()
	suite.mockAppointmentRepo.On("FindBookedSlotStarts", ctx, doctor.DoctorID, date, date.AddDate(0, 0, 1)).
		Return(nil, nil).Once()

	slots, err := suite.service.ListSlots(ctx, doctor.DoctorID, date)

	suite.Require().NoError(err)
	suite.Empty(slots)
}

func (suite *DoctorServiceTestSuite) TestListSlots_UnavailableDoctor() {
	ctx := context.Background()
	doctor := suite.storedDoctor()
	doctor.Available = false
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	suite.mockDoctorRepo.On("FindDoctorByID", ctx, doctor.DoctorID).Return(doctor, nil).Once()

	slots, err := suite.service.ListSlots(ctx, doctor.DoctorID, date)

	suite.Require().NoError(err)
	suite.Empty(slots)
}

// A window whose length is not a multiple of the slot size never emits a
// slot crossing the window end.
func (suite *DoctorServiceTestSuite) TestListSlots_PartialTrailingSlotDropped() {
	ctx := context.Background()
	doctor := suite.storedDoctor()
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	windows := []domain.AvailabilityWindow{
		{Weekday: time.Monday, Start: "09:00", End: "09:50", SlotMinutes: 30},
	}

	suite.mockDoctorRepo.On("FindDoctorByID", ctx, doctor.DoctorID).Return(doctor, nil).Once()
	suite.mockDoctorRepo.On("FindAvailability", ctx, doctor.DoctorID).Return(windows, nil).Once()
	suite.mockAppointmentRepo.On("FindBookedSlotStarts", ctx, doctor.DoctorID, date, date.AddDate(0, 0, 1)).
		Return(nil, nil).Once()

	slots, err := suite.service.ListSlots(ctx, doctor.DoctorID, date)

	suite.Require().NoError(err)
	suite.Require().Len(slots, 1)
	suite.Equal(date.Add(9*time.Hour), slots[0].Start)
}

func TestDoctorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DoctorServiceTestSuite))
}
