package repositories

import (
	"context"

	"github.com/shopspring/decimal"
)

// DashboardCounts are the raw entity counts backing the admin dashboard.
type DashboardCounts struct {
	DoctorCount    int
	PatientCount   int
	BookedCount    int
	CancelledCount int
	CompletedCount int
}

// ReportingRepository provides the raw data for the admin dashboard.
type ReportingRepository interface {
	// GetDashboardCounts returns doctor/patient counts and appointment counts
	// by status.
	GetDashboardCounts(ctx context.Context) (*DashboardCounts, error)

	// FindCompletedAppointmentFees returns the fee of every completed
	// appointment. Revenue is reduced from this list in the service.
	FindCompletedAppointmentFees(ctx context.Context) ([]decimal.Decimal, error)
}
