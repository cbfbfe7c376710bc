package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	// GetDisplayName returns the doctor's full name, or "" when the doctor is unknown.
	GetDisplayName(db *gorm.DB, tenantID, doctorID uuid.UUID) (string, error)
}
