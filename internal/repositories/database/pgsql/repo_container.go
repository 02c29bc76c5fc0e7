package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/saurabhtripathi7/mediqueue/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:        newPgxUserRepository(dbPool),
		DoctorRepo:      newPgxDoctorRepository(dbPool),
		AppointmentRepo: newPgxAppointmentRepository(dbPool),
		ReportingRepo:   newPgxReportingRepository(dbPool),
	}
}
