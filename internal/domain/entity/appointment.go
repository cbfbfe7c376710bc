package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusProcessing AppointmentStatus = "processing"
	AppointmentStatusOngoing    AppointmentStatus = "ongoing"
	AppointmentStatusVisited    AppointmentStatus = "visited"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no-show"
)

// Channel is how the consultation takes place.
type Channel string

const (
	ChannelOnline  Channel = "online"
	ChannelOffline Channel = "offline"
)

// Origin is how the booking entered the system.
type Origin string

const (
	OriginWalkIn     Origin = "walk-in"
	OriginOnline     Origin = "online"
	OriginTelecaller Origin = "telecaller"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// transitions lists the states reachable from each non-terminal state.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled: {
		AppointmentStatusConfirmed, AppointmentStatusProcessing, AppointmentStatusOngoing,
		AppointmentStatusVisited, AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow,
	},
	AppointmentStatusConfirmed: {
		AppointmentStatusProcessing, AppointmentStatusOngoing, AppointmentStatusVisited,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow,
	},
	AppointmentStatusProcessing: {
		AppointmentStatusOngoing, AppointmentStatusVisited,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow,
	},
	AppointmentStatusOngoing: {
		AppointmentStatusVisited, AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow,
	},
	AppointmentStatusVisited: {
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow,
	},
}

// IsValid reports whether s is a known status.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusProcessing,
		AppointmentStatusOngoing, AppointmentStatusVisited, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled || s == AppointmentStatusNoShow
}

// IsInService covers the states in which the doctor has started seeing the patient.
func (s AppointmentStatus) IsInService() bool {
	return s == AppointmentStatusProcessing || s == AppointmentStatusOngoing || s == AppointmentStatusVisited
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (c Channel) IsValid() bool {
	return c == ChannelOnline || c == ChannelOffline
}

func (o Origin) IsValid() bool {
	return o == OriginWalkIn || o == OriginOnline || o == OriginTelecaller
}

// ActiveQueueStatuses are the statuses that hold a queue position.
var ActiveQueueStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusProcessing,
	AppointmentStatusOngoing,
	AppointmentStatusVisited,
}

// Appointment is a booked visit of a patient to a doctor on a date and slot
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_doctor_day,priority:1" json:"tenant_id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_doctor_day,priority:2" json:"doctor_id"`
	Date        datatypes.Date    `gorm:"type:date;not null;index:idx_appointments_doctor_day,priority:3" json:"date"`
	Slot        string            `gorm:"type:varchar(5);not null" json:"slot"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Channel     Channel           `gorm:"type:varchar(10);not null" json:"channel"`
	Origin      Origin            `gorm:"type:varchar(20);not null" json:"origin"`
	IsEmergency bool              `gorm:"not null" json:"is_emergency"`
	QueueOrder  int               `gorm:"not null" json:"queue_order"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether the appointment holds a place in the day queue.
func (a *Appointment) IsActive() bool {
	return !a.Status.IsTerminal()
}

// IsCancelled checks if the appointment released its slot capacity
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// TransitionTo moves the appointment to next, stamping StartedAt on the first entry
// into an in-service state and CompletedAt on completion. Requesting the current
// status is a no-op.
func (a *Appointment) TransitionTo(next AppointmentStatus, now time.Time) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	if a.Status == next {
		return nil
	}
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, next)
	}

	if next.IsInService() && a.StartedAt == nil {
		started := now
		a.StartedAt = &started
	}
	if next == AppointmentStatusCompleted {
		completed := now
		a.CompletedAt = &completed
	}
	a.Status = next
	return nil
}

// AppointmentFilter is a domain-level filter for listing appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Date      *datatypes.Date
	Status    *AppointmentStatus
}
