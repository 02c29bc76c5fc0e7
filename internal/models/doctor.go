package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Doctor represents a row of the doctors table.
// Availability windows live in a child table keyed by doctor_id.
type Doctor struct {
	DoctorID   string          `db:"doctor_id"`
	UserID     string          `db:"user_id"`
	Name       string          `db:"name"`
	Speciality string          `db:"speciality"`
	Degree     string          `db:"degree"`
	Experience int             `db:"experience_years"`
	About      string          `db:"about"`
	Fee        decimal.Decimal `db:"fee"`
	Available  bool            `db:"available"`

	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}

// AvailabilityWindow represents a row of the doctor_availability table.
type AvailabilityWindow struct {
	DoctorID    string `db:"doctor_id"`
	Weekday     int    `db:"weekday"`
	StartTime   string `db:"start_time"`
	EndTime     string `db:"end_time"`
	SlotMinutes int    `db:"slot_minutes"`
}
