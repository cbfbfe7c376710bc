package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SlotDefinitionRequest struct {
	StartTime   string `json:"start_time" validate:"required,hhmm"`
	EndTime     string `json:"end_time" validate:"required,hhmm"`
	MaxPatients *int   `json:"max_patients" validate:"omitempty,min=1"`
}

// WeeklySlotsRequest maps weekday names (Monday..Sunday, any case) to slots.
type WeeklySlotsRequest map[string][]SlotDefinitionRequest

type UpsertClinicSlotConfigRequest struct {
	WeeklySlots WeeklySlotsRequest `json:"weekly_slots" validate:"required,dive,dive"`
}

type UpsertDoctorSlotConfigRequest struct {
	UsesClinicSlots    bool               `json:"uses_clinic_slots"`
	MaxPatientsPerSlot int                `json:"max_patients_per_slot" validate:"required,min=1"`
	OnlineQuota        int                `json:"online_quota" validate:"gte=0"`
	OfflineQuota       int                `json:"offline_quota" validate:"gte=0"`
	WeeklySlots        WeeklySlotsRequest `json:"weekly_slots" validate:"omitempty,dive,dive"`
}

// UpsertDateOverrideRequest replaces the slots of one date. A nil DoctorID targets the
// whole clinic; an empty Slots list closes the date.
type UpsertDateOverrideRequest struct {
	DoctorID *uuid.UUID              `json:"doctor_id" validate:"omitempty"`
	Date     string                  `json:"date" validate:"required,isodate"`
	Slots    []SlotDefinitionRequest `json:"slots" validate:"dive"`
}

// DateOverrideFilterRequest is read from the query string.
type DateOverrideFilterRequest struct {
	DoctorID string
	From     string
	To       string
}

// Response DTOs

type SlotDefinitionResponse struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	MaxPatients *int   `json:"max_patients,omitempty"`
}

type ClinicSlotConfigResponse struct {
	ID          uuid.UUID                           `json:"id"`
	WeeklySlots map[string][]SlotDefinitionResponse `json:"weekly_slots"`
	UpdatedAt   time.Time                           `json:"updated_at"`
}

type DoctorSlotConfigResponse struct {
	ID                 uuid.UUID                           `json:"id"`
	DoctorID           uuid.UUID                           `json:"doctor_id"`
	UsesClinicSlots    bool                                `json:"uses_clinic_slots"`
	MaxPatientsPerSlot int                                 `json:"max_patients_per_slot"`
	OnlineQuota        int                                 `json:"online_quota"`
	OfflineQuota       int                                 `json:"offline_quota"`
	WeeklySlots        map[string][]SlotDefinitionResponse `json:"weekly_slots"`
	UpdatedAt          time.Time                           `json:"updated_at"`
}

type DateOverrideResponse struct {
	ID        uuid.UUID                `json:"id"`
	DoctorID  *uuid.UUID               `json:"doctor_id,omitempty"`
	Date      string                   `json:"date"`
	Slots     []SlotDefinitionResponse `json:"slots"`
	UpdatedAt time.Time                `json:"updated_at"`
}

type DateOverrideListResponse struct {
	Overrides []DateOverrideResponse `json:"overrides"`
	Total     int                    `json:"total"`
}
