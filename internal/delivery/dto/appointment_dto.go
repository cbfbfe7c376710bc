package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateAppointmentRequest books a patient into a doctor's slot. Either PatientID or
// Name+Mobile identifies the patient; emergency bookings may give ManualTime instead of Slot.
type CreateAppointmentRequest struct {
	PatientID   *uuid.UUID `json:"patient_id" validate:"omitempty"`
	Name        string     `json:"name" validate:"omitempty,max=255"`
	Mobile      string     `json:"mobile" validate:"omitempty,max=20"`
	Email       string     `json:"email" validate:"omitempty,email"`
	Age         *int       `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender      string     `json:"gender" validate:"omitempty,oneof=male female other"`
	Address     string     `json:"address" validate:"omitempty"`
	DoctorID    uuid.UUID  `json:"doctor_id"`
	Date        string     `json:"date" validate:"omitempty,isodate"`     // Format: YYYY-MM-DD
	Slot        string     `json:"slot" validate:"omitempty,hhmm"`        // Format: HH:MM
	ManualTime  string     `json:"manual_time" validate:"omitempty,hhmm"` // Format: HH:MM
	Channel     string     `json:"channel" validate:"omitempty,oneof=online offline"`
	Origin      string     `json:"origin" validate:"omitempty,oneof=walk-in online telecaller"`
	IsEmergency bool       `json:"is_emergency"`
}

// UpdateAppointmentRequest changes the placement or booking attributes of an
// appointment. Nil fields are left unchanged.
type UpdateAppointmentRequest struct {
	Date        *string `json:"date" validate:"omitempty,isodate"`
	Slot        *string `json:"slot" validate:"omitempty,hhmm"`
	Channel     *string `json:"channel" validate:"omitempty,oneof=online offline"`
	Origin      *string `json:"origin" validate:"omitempty,oneof=walk-in online telecaller"`
	IsEmergency *bool   `json:"is_emergency" validate:"omitempty"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed processing ongoing visited completed cancelled no-show"`
}

type ReorderQueueRequest struct {
	Steps *int `json:"steps" validate:"required"`
}

// AppointmentFilterRequest is read from the query string.
type AppointmentFilterRequest struct {
	DoctorID  string
	PatientID string
	Date      string
	Status    string
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID        `json:"id"`
	PatientID   uuid.UUID        `json:"patient_id"`
	Patient     *PatientResponse `json:"patient,omitempty"`
	DoctorID    uuid.UUID        `json:"doctor_id"`
	Date        string           `json:"date"`
	Slot        string           `json:"slot"`
	Status      string           `json:"status"`
	Channel     string           `json:"channel"`
	Origin      string           `json:"origin"`
	IsEmergency bool             `json:"is_emergency"`
	QueueOrder  int              `json:"queue_order"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AvailableSlotResponse struct {
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	MaxPatients  int    `json:"max_patients"`
	Booked       int    `json:"booked"`
	OnlineBooked int    `json:"online_booked"`
	Available    int    `json:"available"`
}

type AvailableSlotListResponse struct {
	DoctorID uuid.UUID               `json:"doctor_id"`
	Date     string                  `json:"date"`
	Channel  string                  `json:"channel,omitempty"`
	Source   string                  `json:"source"`
	Slots    []AvailableSlotResponse `json:"slots"`
}
