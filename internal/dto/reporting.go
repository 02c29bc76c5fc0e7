package dto

import (
	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DashboardResponse is the admin dashboard summary response.
type DashboardResponse struct {
	DoctorCount      int             `json:"doctorCount"`
	PatientCount     int             `json:"patientCount"`
	AppointmentCount int             `json:"appointmentCount"`
	Appointments     struct {
		Booked    int `json:"booked"`
		Cancelled int `json:"cancelled"`
		Completed int `json:"completed"`
	} `json:"appointmentsByStatus"`
	Revenue decimal.Decimal       `json:"revenue"`
	Latest  []AppointmentResponse `json:"latestAppointments"`
}

// ToDashboardResponse converts a domain.DashboardSummary to its DTO.
func ToDashboardResponse(s *domain.DashboardSummary) DashboardResponse {
	resp := DashboardResponse{
		DoctorCount:      s.DoctorCount,
		PatientCount:     s.PatientCount,
		AppointmentCount: s.AppointmentCount,
		Revenue:          s.Revenue,
	}
	resp.Appointments.Booked = s.BookedCount
	resp.Appointments.Cancelled = s.CancelledCount
	resp.Appointments.Completed = s.CompletedCount
	resp.Latest = make([]AppointmentResponse, len(s.Latest))
	for i, a := range s.Latest {
		resp.Latest[i] = ToAppointmentResponse(&a)
	}
	return resp
}
