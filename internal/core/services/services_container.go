package services

import (
	portsrepo "github.com/saurabhtripathi7/mediqueue/internal/core/ports/repositories"
	portssvc "github.com/saurabhtripathi7/mediqueue/internal/core/ports/services"
	"github.com/saurabhtripathi7/mediqueue/internal/platform/config"
)

// NewServiceContainer creates a service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg, repos.UserRepo)
	container.GoogleAuth = NewGoogleAuthService(cfg)

	container.Doctor = NewDoctorService(repos.DoctorRepo, repos.UserRepo, repos.AppointmentRepo)
	container.Appointment = NewAppointmentService(repos.AppointmentRepo, repos.DoctorRepo, container.Doctor)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.AppointmentRepo)

	return container
}
