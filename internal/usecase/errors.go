package usecase

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
)

var (
	ErrDoctorRequired  = fmt.Errorf("%w: doctor_id is required", ErrValidation)
	ErrDateRequired    = fmt.Errorf("%w: date is required", ErrValidation)
	ErrSlotRequired    = fmt.Errorf("%w: slot is required, or manual_time for emergency bookings", ErrValidation)
	ErrPatientRequired = fmt.Errorf("%w: name and mobile are required when patient_id is not given", ErrValidation)
	ErrInvalidDate     = fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", ErrValidation)
	ErrInvalidTime     = fmt.Errorf("%w: invalid time format, use HH:MM", ErrValidation)
	ErrInvalidChannel  = fmt.Errorf("%w: channel must be online or offline", ErrValidation)
	ErrInvalidOrigin   = fmt.Errorf("%w: origin must be walk-in, online or telecaller", ErrValidation)
	ErrInvalidStatus   = fmt.Errorf("%w: unknown appointment status", ErrValidation)
	ErrInvalidSchedule = fmt.Errorf("%w: invalid slot schedule", ErrValidation)
	ErrInvalidCapacity = fmt.Errorf("%w: max_patients_per_slot must be at least 1 and quotas non-negative", ErrValidation)

	ErrInvalidSlot          = fmt.Errorf("%w: invalid slot", ErrConflict)
	ErrSlotFull             = fmt.Errorf("%w: slot fully booked", ErrConflict)
	ErrOnlineLimitReached   = fmt.Errorf("%w: online limit reached", ErrConflict)
	ErrNotEligibleToReorder = fmt.Errorf("%w: appointment not eligible for reordering", ErrConflict)
	ErrInvalidTransition    = fmt.Errorf("%w: status transition not allowed", ErrConflict)
	ErrAppointmentClosed    = fmt.Errorf("%w: appointment is already closed", ErrConflict)
	ErrOverrideConflict     = fmt.Errorf("%w: date override changed concurrently, retry the request", ErrConflict)

	ErrAppointmentNotFound  = fmt.Errorf("%w: appointment not found", ErrNotFound)
	ErrPatientNotFound      = fmt.Errorf("%w: patient not found", ErrNotFound)
	ErrClinicConfigNotFound = fmt.Errorf("%w: clinic slot config not found", ErrNotFound)
	ErrDoctorConfigNotFound = fmt.Errorf("%w: doctor slot config not found", ErrNotFound)
	ErrOverrideNotFound     = fmt.Errorf("%w: date override not found", ErrNotFound)
	ErrAuditLogNotFound     = fmt.Errorf("%w: audit log not found", ErrNotFound)
)
