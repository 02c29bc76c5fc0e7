package services

import (
	"context"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
)

// ReportingSvcFacade produces the admin dashboard aggregates.
type ReportingSvcFacade interface {
	// DashboardSummary returns counts and total revenue (single-pass sum of
	// completed appointment fees) plus the latest bookings.
	DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error)
}
