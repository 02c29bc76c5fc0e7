package dto

import (
	"time"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDoctorRequest registers a doctor profile plus its login identity.
type CreateDoctorRequest struct {
	Name       string          `json:"name" binding:"required"`
	Email      string          `json:"email" binding:"required,email"`
	Password   string          `json:"password" binding:"required,min=8"`
	Speciality string          `json:"speciality" binding:"required"`
	Degree     string          `json:"degree" binding:"required"`
	Experience int             `json:"experienceYears" binding:"gte=0"`
	About      string          `json:"about"`
	Fee        decimal.Decimal `json:"fee" binding:"required"`
}

// UpdateDoctorRequest updates mutable profile fields.
type UpdateDoctorRequest struct {
	Speciality *string          `json:"speciality"`
	Degree     *string          `json:"degree"`
	Experience *int             `json:"experienceYears"`
	About      *string          `json:"about"`
	Fee        *decimal.Decimal `json:"fee"`
	Available  *bool            `json:"available"`
}

// AvailabilityWindowRequest is one recurring weekly working window.
type AvailabilityWindowRequest struct {
	Weekday     int    `json:"weekday" binding:"gte=0,lte=6"`
	Start       string `json:"start" binding:"required"`
	End         string `json:"end" binding:"required"`
	SlotMinutes int    `json:"slotMinutes" binding:"required,gt=0"`
}

// SetAvailabilityRequest replaces a doctor's weekly availability.
type SetAvailabilityRequest struct {
	Windows []AvailabilityWindowRequest `json:"windows" binding:"required,dive"`
}

// DoctorResponse is the externally visible doctor profile.
type DoctorResponse struct {
	DoctorID   string          `json:"doctorID"`
	Name       string          `json:"name"`
	Speciality string          `json:"speciality"`
	Degree     string          `json:"degree"`
	Experience int             `json:"experienceYears"`
	About      string          `json:"about"`
	Fee        decimal.Decimal `json:"fee"`
	Available  bool            `json:"available"`
}

// ToDoctorResponse converts a domain.Doctor to DoctorResponse.
func ToDoctorResponse(d *domain.Doctor) DoctorResponse {
	return DoctorResponse{
		DoctorID:   d.DoctorID,
		Name:       d.Name,
		Speciality: d.Speciality,
		Degree:     d.Degree,
		Experience: d.Experience,
		About:      d.About,
		Fee:        d.Fee,
		Available:  d.Available,
	}
}

// ListDoctorsParams defines query parameters for listing doctors.
type ListDoctorsParams struct {
	Limit      int    `form:"limit,default=20"`
	Offset     int    `form:"offset,default=0"`
	Speciality string `form:"speciality"`
}

// ListDoctorsResponse wraps the doctor roster.
type ListDoctorsResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
}

// ToListDoctorsResponse converts a slice of domain.Doctor to its DTO.
func ToListDoctorsResponse(doctors []domain.Doctor) ListDoctorsResponse {
	out := make([]DoctorResponse, len(doctors))
	for i, d := range doctors {
		out[i] = ToDoctorResponse(&d)
	}
	return ListDoctorsResponse{Doctors: out}
}

// SlotResponse is one bookable interval on a concrete date.
type SlotResponse struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Booked bool      `json:"booked"`
}

// ListSlotsResponse wraps the generated slots for one doctor and date.
type ListSlotsResponse struct {
	DoctorID string         `json:"doctorID"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
}

// ToListSlotsResponse converts generated domain slots to the response DTO.
func ToListSlotsResponse(doctorID string, date string, slots []domain.Slot) ListSlotsResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{Start: s.Start, End: s.End, Booked: s.Booked}
	}
	return ListSlotsResponse{DoctorID: doctorID, Date: date, Slots: out}
}
