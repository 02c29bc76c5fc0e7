package domain

import "github.com/shopspring/decimal"

// DashboardSummary is the admin back-office aggregate view.
// Revenue is the sum of fees of completed appointments.
type DashboardSummary struct {
	DoctorCount      int             `json:"doctorCount"`
	PatientCount     int             `json:"patientCount"`
	AppointmentCount int             `json:"appointmentCount"`
	BookedCount      int             `json:"bookedCount"`
	CancelledCount   int             `json:"cancelledCount"`
	CompletedCount   int             `json:"completedCount"`
	Revenue          decimal.Decimal `json:"revenue"`
	Latest           []Appointment   `json:"latestAppointments"`
}
