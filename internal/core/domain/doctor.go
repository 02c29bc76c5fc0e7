package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Doctor is the bookable profile attached to a doctor identity.
type Doctor struct {
	DoctorID   string          `json:"doctorID"`
	UserID     string          `json:"userID"` // owning identity, role=doctor
	Name       string          `json:"name"`
	Speciality string          `json:"speciality"`
	Degree     string          `json:"degree"`
	Experience int             `json:"experienceYears"`
	About      string          `json:"about"`
	Fee        decimal.Decimal `json:"fee"`
	Available  bool            `json:"available"`

	// Weekly availability used for server-side slot generation.
	Availability []AvailabilityWindow `json:"availability"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// AvailabilityWindow is a recurring weekly working window.
// Slots of SlotMinutes duration are generated within [Start, End).
type AvailabilityWindow struct {
	Weekday     time.Weekday `json:"weekday"`
	Start       string       `json:"start"` // "HH:MM", clinic-local
	End         string       `json:"end"`
	SlotMinutes int          `json:"slotMinutes"`
}

// Slot is a single bookable interval for a doctor on a concrete date.
type Slot struct {
	DoctorID string    `json:"doctorID"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Booked   bool      `json:"booked"`
}
