package repository

import (
	"clinic-scheduling-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	FindByID(db *gorm.DB, tenantID, id uuid.UUID) (*entity.Patient, error)
	FindByMobile(db *gorm.DB, tenantID uuid.UUID, mobile string) (*entity.Patient, error)
	FindByNameAndMobile(db *gorm.DB, tenantID uuid.UUID, name, mobile string) (*entity.Patient, error)
	// CreateIfAbsent inserts patient unless the (tenant, name, mobile) identity exists.
	// Returns affected rows: 1 = created, 0 = identity already present.
	CreateIfAbsent(db *gorm.DB, patient *entity.Patient) (int64, error)
	Update(db *gorm.DB, id uuid.UUID, changes map[string]interface{}) error
}
