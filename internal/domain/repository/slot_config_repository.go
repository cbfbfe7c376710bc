package repository

import (
	"clinic-scheduling-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ClinicSlotConfigRepository interface {
	FindByTenant(db *gorm.DB, tenantID uuid.UUID) (*entity.ClinicSlotConfig, error)
	Upsert(db *gorm.DB, config *entity.ClinicSlotConfig) error
}

type DoctorSlotConfigRepository interface {
	FindByDoctor(db *gorm.DB, tenantID, doctorID uuid.UUID) (*entity.DoctorSlotConfig, error)
	Upsert(db *gorm.DB, config *entity.DoctorSlotConfig) error
}

type DateOverrideRepository interface {
	// FindForDate returns the override for the doctor on date; a nil doctorID
	// looks up the clinic-wide override.
	FindForDate(db *gorm.DB, tenantID uuid.UUID, doctorID *uuid.UUID, date datatypes.Date) (*entity.DateOverride, error)
	FindByID(db *gorm.DB, tenantID, id uuid.UUID) (*entity.DateOverride, error)
	FindAll(db *gorm.DB, tenantID uuid.UUID, filter *entity.DateOverrideFilter) ([]entity.DateOverride, error)
	Save(db *gorm.DB, override *entity.DateOverride) error
	Delete(db *gorm.DB, tenantID, id uuid.UUID) (int64, error)
}
