package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saurabhtripathi7/mediqueue/internal/apperrors"
	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	portsrepo "github.com/saurabhtripathi7/mediqueue/internal/core/ports/repositories"
	"github.com/saurabhtripathi7/mediqueue/internal/models"
)

type PgxAppointmentRepository struct {
	db *pgxpool.Pool
}

func newPgxAppointmentRepository(db *pgxpool.Pool) portsrepo.AppointmentRepositoryFacade {
	return &PgxAppointmentRepository{db: db}
}

var _ portsrepo.AppointmentRepositoryFacade = (*PgxAppointmentRepository)(nil)

func toDomainAppointment(m models.Appointment) domain.Appointment {
	d := domain.Appointment{
		AppointmentID: m.AppointmentID,
		PatientID:     m.PatientID,
		DoctorID:      m.DoctorID,
		SlotStart:     m.SlotStart,
		SlotEnd:       m.SlotEnd,
		Fee:           m.Fee,
		Status:        domain.AppointmentStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
	if m.CancelledBy.Valid {
		d.CancelledBy = m.CancelledBy.String
	}
	return d
}

const appointmentColumns = `appointment_id, patient_id, doctor_id, slot_start, slot_end, fee, status, cancelled_by, created_at, last_updated_at`

func scanAppointment(row pgx.Row) (*models.Appointment, error) {
	var m models.Appointment
	err := row.Scan(
		&m.AppointmentID,
		&m.PatientID,
		&m.DoctorID,
		&m.SlotStart,
		&m.SlotEnd,
		&m.Fee,
		&m.Status,
		&m.CancelledBy,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveAppointment relies on the partial unique index over
// (doctor_id, slot_start) WHERE status <> 'cancelled' to reject double
// bookings atomically.
func (r *PgxAppointmentRepository) SaveAppointment(ctx context.Context, appointment domain.Appointment) error {
	query := `
        INSERT INTO appointments (appointment_id, patient_id, doctor_id, slot_start, slot_end, fee, status, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.db.Exec(ctx, query,
		appointment.AppointmentID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.SlotStart,
		appointment.SlotEnd,
		appointment.Fee,
		string(appointment.Status),
		appointment.CreatedAt,
		appointment.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save appointment: %w", err)
	}
	return nil
}

func (r *PgxAppointmentRepository) FindAppointmentByID(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE appointment_id = $1;`
	m, err := scanAppointment(r.db.QueryRow(ctx, query, appointmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find appointment by ID %s: %w", appointmentID, err)
	}
	d := toDomainAppointment(*m)
	return &d, nil
}

func (r *PgxAppointmentRepository) FindAppointments(ctx context.Context, filter portsrepo.AppointmentFilter) ([]domain.Appointment, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT ` + appointmentColumns + `
        FROM appointments
        WHERE ($1 = '' OR patient_id = $1)
          AND ($2 = '' OR doctor_id = $2)
          AND ($3 = '' OR status = $3)
        ORDER BY slot_start DESC
        LIMIT $4 OFFSET $5;
    `
	rows, err := r.db.Query(ctx, query, filter.PatientID, filter.DoctorID, string(filter.Status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	appointments := []domain.Appointment{}
	for rows.Next() {
		m, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment row: %w", err)
		}
		appointments = append(appointments, toDomainAppointment(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating appointment rows: %w", rows.Err())
	}

	return appointments, nil
}

func (r *PgxAppointmentRepository) FindBookedSlotStarts(ctx context.Context, doctorID string, from time.Time, to time.Time) ([]time.Time, error) {
	query := `
        SELECT slot_start
        FROM appointments
        WHERE doctor_id = $1 AND status <> 'cancelled' AND slot_start >= $2 AND slot_start < $3
        ORDER BY slot_start;
    `
	rows, err := r.db.Query(ctx, query, doctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query booked slots: %w", err)
	}
	defer rows.Close()

	starts := []time.Time{}
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan booked slot row: %w", err)
		}
		starts = append(starts, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating booked slot rows: %w", rows.Err())
	}

	return starts, nil
}

func (r *PgxAppointmentRepository) UpdateAppointmentStatus(ctx context.Context, appointmentID string, status domain.AppointmentStatus, cancelledBy string, updatedAt time.Time) error {
	var cancelled sql.NullString
	if cancelledBy != "" {
		cancelled = sql.NullString{String: cancelledBy, Valid: true}
	}
	query := `
        UPDATE appointments
        SET status = $1, cancelled_by = $2, last_updated_at = $3
        WHERE appointment_id = $4;
    `
	cmdTag, err := r.db.Exec(ctx, query, string(status), cancelled, updatedAt, appointmentID)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
