package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	portsrepo "github.com/saurabhtripathi7/mediqueue/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	db *pgxpool.Pool
}

func newPgxReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{db: db}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

func (r *PgxReportingRepository) GetDashboardCounts(ctx context.Context) (*portsrepo.DashboardCounts, error) {
	query := `
        SELECT
            (SELECT count(*) FROM doctors WHERE deleted_at IS NULL),
            (SELECT count(*) FROM users WHERE role = 'patient' AND deleted_at IS NULL),
            (SELECT count(*) FROM appointments WHERE status = 'booked'),
            (SELECT count(*) FROM appointments WHERE status = 'cancelled'),
            (SELECT count(*) FROM appointments WHERE status = 'completed');
    `
	var counts portsrepo.DashboardCounts
	err := r.db.QueryRow(ctx, query).Scan(
		&counts.DoctorCount,
		&counts.PatientCount,
		&counts.BookedCount,
		&counts.CancelledCount,
		&counts.CompletedCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard counts: %w", err)
	}
	return &counts, nil
}

func (r *PgxReportingRepository) FindCompletedAppointmentFees(ctx context.Context) ([]decimal.Decimal, error) {
	query := `SELECT fee FROM appointments WHERE status = 'completed';`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed appointment fees: %w", err)
	}
	defer rows.Close()

	fees := []decimal.Decimal{}
	for rows.Next() {
		var fee decimal.Decimal
		if err := rows.Scan(&fee); err != nil {
			return nil, fmt.Errorf("failed to scan fee row: %w", err)
		}
		fees = append(fees, fee)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating fee rows: %w", rows.Err())
	}

	return fees, nil
}
