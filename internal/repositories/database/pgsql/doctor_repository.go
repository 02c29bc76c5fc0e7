package pgsql

import (
	"context"
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

type PgxDoctorRepository struct {
	db *pgxpool.Pool
}

func newPgxDoctorRepository(db *pgxpool.Pool) portsrepo.DoctorRepositoryFacade {
	return &PgxDoctorRepository{db: db}
}

var _ portsrepo.DoctorRepositoryFacade = (*PgxDoctorRepository)(nil)

func toDomainDoctor(m models.Doctor) domain.Doctor {
	return domain.Doctor{
		DoctorID:   m.DoctorID,
		UserID:     m.UserID,
		Name:       m.Name,
		Speciality: m.Speciality,
		Degree:     m.Degree,
		Experience: m.Experience,
		About:      m.About,
		Fee:        m.Fee,
		Available:  m.Available,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
		DeletedAt: m.DeletedAt,
	}
}

const doctorColumns = `doctor_id, user_id, name, speciality, degree, experience_years, about, fee, available, created_at, last_updated_at, deleted_at`

func scanDoctor(row pgx.Row) (*models.Doctor, error) {
	var m models.Doctor
	err := row.Scan(
		&m.DoctorID,
		&m.UserID,
		&m.Name,
		&m.Speciality,
		&m.Degree,
		&m.Experience,
		&m.About,
		&m.Fee,
		&m.Available,
		&m.CreatedAt,
		&m.LastUpdatedAt,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxDoctorRepository) SaveDoctor(ctx context.Context, doctor domain.Doctor) error {
	query := `
        INSERT INTO doctors (doctor_id, user_id, name, speciality, degree, experience_years, about, fee, available, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	_, err := r.db.Exec(ctx, query,
		doctor.DoctorID,
		doctor.UserID,
		doctor.Name,
		doctor.Speciality,
		doctor.Degree,
		doctor.Experience,
		doctor.About,
		doctor.Fee,
		doctor.Available,
		doctor.CreatedAt,
		doctor.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save doctor: %w", err)
	}
	return nil
}

func (r *PgxDoctorRepository) FindDoctorByID(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE doctor_id = $1 AND deleted_at IS NULL;`
	m, err := scanDoctor(r.db.QueryRow(ctx, query, doctorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find doctor by ID %s: %w", doctorID, err)
	}
	d := toDomainDoctor(*m)
	return &d, nil
}

func (r *PgxDoctorRepository) FindDoctorByUserID(ctx context.Context, userID string) (*domain.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE user_id = $1 AND deleted_at IS NULL;`
	m, err := scanDoctor(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find doctor by user ID %s: %w", userID, err)
	}
	d := toDomainDoctor(*m)
	return &d, nil
}

func (r *PgxDoctorRepository) FindDoctors(ctx context.Context, speciality string, limit int, offset int) ([]domain.Doctor, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT ` + doctorColumns + `
        FROM doctors
        WHERE deleted_at IS NULL AND ($1 = '' OR speciality = $1)
        ORDER BY name
        LIMIT $2 OFFSET $3;
    `
	rows, err := r.db.Query(ctx, query, speciality, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query doctors: %w", err)
	}
	defer rows.Close()

	doctors := []domain.Doctor{}
	for rows.Next() {
		m, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan doctor row: %w", err)
		}
		doctors = append(doctors, toDomainDoctor(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating doctor rows: %w", rows.Err())
	}

	return doctors, nil
}

func (r *PgxDoctorRepository) UpdateDoctor(ctx context.Context, doctor domain.Doctor) error {
	query := `
        UPDATE doctors
        SET speciality = $1, degree = $2, experience_years = $3, about = $4, fee = $5, available = $6, last_updated_at = $7
        WHERE doctor_id = $8 AND deleted_at IS NULL;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		doctor.Speciality,
		doctor.Degree,
		doctor.Experience,
		doctor.About,
		doctor.Fee,
		doctor.Available,
		doctor.LastUpdatedAt,
		doctor.DoctorID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update doctor query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("doctor not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxDoctorRepository) MarkDoctorDeleted(ctx context.Context, doctorID string, deletedAt time.Time) error {
	query := `
        UPDATE doctors
        SET deleted_at = $1, available = FALSE, last_updated_at = $1
        WHERE doctor_id = $2 AND deleted_at IS NULL;
    `
	cmdTag, err := r.db.Exec(ctx, query, deletedAt, doctorID)
	if err != nil {
		return fmt.Errorf("failed to mark doctor as deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("doctor not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

// ReplaceAvailability swaps all availability windows in one transaction so
// readers never observe a half-replaced week.
func (r *PgxDoctorRepository) ReplaceAvailability(ctx context.Context, doctorID string, windows []domain.AvailabilityWindow) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM doctor_availability WHERE doctor_id = $1;`, doctorID); err != nil {
		return fmt.Errorf("failed to clear availability: %w", err)
	}

	insert := `
        INSERT INTO doctor_availability (doctor_id, weekday, start_time, end_time, slot_minutes)
        VALUES ($1, $2, $3, $4, $5);
    `
	for _, w := range windows {
		if _, err := tx.Exec(ctx, insert, doctorID, int(w.Weekday), w.Start, w.End, w.SlotMinutes); err != nil {
			return fmt.Errorf("failed to insert availability window: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit availability replacement: %w", err)
	}
	return nil
}

func (r *PgxDoctorRepository) FindAvailability(ctx context.Context, doctorID string) ([]domain.AvailabilityWindow, error) {
	query := `
        SELECT weekday, start_time, end_time, slot_minutes
        FROM doctor_availability
        WHERE doctor_id = $1
        ORDER BY weekday, start_time;
    `
	rows, err := r.db.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	windows := []domain.AvailabilityWindow{}
	for rows.Next() {
		var m models.AvailabilityWindow
		if err := rows.Scan(&m.Weekday, &m.StartTime, &m.EndTime, &m.SlotMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan availability row: %w", err)
		}
		windows = append(windows, domain.AvailabilityWindow{
			Weekday:     time.Weekday(m.Weekday),
			Start:       m.StartTime,
			End:         m.EndTime,
			SlotMinutes: m.SlotMinutes,
		})
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating availability rows: %w", rows.Err())
	}

	return windows, nil
}
