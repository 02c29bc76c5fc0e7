package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Appointment represents a row of the appointments table.
type Appointment struct {
	AppointmentID string          `db:"appointment_id"`
	PatientID     string          `db:"patient_id"`
	DoctorID      string          `db:"doctor_id"`
	SlotStart     time.Time       `db:"slot_start"`
	SlotEnd       time.Time       `db:"slot_end"`
	Fee           decimal.Decimal `db:"fee"`
	Status        string          `db:"status"`
	CancelledBy   sql.NullString  `db:"cancelled_by"`

	AuditFields
}
