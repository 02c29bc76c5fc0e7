package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus is the lifecycle state of a booking.
type AppointmentStatus string

const (
	AppointmentBooked    AppointmentStatus = "booked"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// Appointment is a patient's booking of a doctor's slot.
// Fee is captured at booking time so later fee changes do not
// affect historical revenue.
type Appointment struct {
	AppointmentID string            `json:"appointmentID"`
	PatientID     string            `json:"patientID"`
	DoctorID      string            `json:"doctorID"`
	SlotStart     time.Time         `json:"slotStart"`
	SlotEnd       time.Time         `json:"slotEnd"`
	Fee           decimal.Decimal   `json:"fee"`
	Status        AppointmentStatus `json:"status"`
	CancelledBy   string            `json:"cancelledBy,omitempty"`

	AuditFields
}
