package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	portsrepo "github.com/saurabhtripathi7/mediqueue/internal/core/ports/repositories"
	portssvc "github.com/saurabhtripathi7/mediqueue/internal/core/ports/services"
)

const dashboardLatestLimit = 5

type reportingService struct {
	BaseService
	reportingRepo   portsrepo.ReportingRepository
	appointmentRepo portsrepo.AppointmentReader
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, appointmentRepo portsrepo.AppointmentReader) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo:   reportingRepo,
		appointmentRepo: appointmentRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	counts, err := s.reportingRepo.GetDashboardCounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load dashboard counts")
		return nil, err
	}

	fees, err := s.reportingRepo.FindCompletedAppointmentFees(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load completed appointment fees")
		return nil, err
	}
	revenue := decimal.Zero
	for _, fee := range fees {
		revenue = revenue.Add(fee)
	}

	latest, err := s.appointmentRepo.FindAppointments(ctx, portsrepo.AppointmentFilter{Limit: dashboardLatestLimit})
	if err != nil {
		s.LogError(ctx, err, "Failed to load latest appointments")
		return nil, err
	}

	return &domain.DashboardSummary{
		DoctorCount:      counts.DoctorCount,
		PatientCount:     counts.PatientCount,
		AppointmentCount: counts.BookedCount + counts.CancelledCount + counts.CompletedCount,
		BookedCount:      counts.BookedCount,
		CancelledCount:   counts.CancelledCount,
		CompletedCount:   counts.CompletedCount,
		Revenue:          revenue,
		Latest:           latest,
	}, nil
}
