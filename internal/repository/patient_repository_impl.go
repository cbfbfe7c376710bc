package repository

import (
	"errors"

	"clinic-scheduling-service/internal/domain/entity"
	domainRepo "clinic-scheduling-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) FindByID(db *gorm.DB, tenantID, id uuid.UUID) (*entity.Patient, error) {
	return r.first(db.Where("tenant_id = ? AND id = ?", tenantID, id))
}

// FindByMobile returns the earliest registered patient holding mobile.
func (r *patientRepository) FindByMobile(db *gorm.DB, tenantID uuid.UUID, mobile string) (*entity.Patient, error) {
	return r.first(db.Where("tenant_id = ? AND mobile = ?", tenantID, mobile).Order("created_at ASC"))
}

func (r *patientRepository) FindByNameAndMobile(db *gorm.DB, tenantID uuid.UUID, name, mobile string) (*entity.Patient, error) {
	return r.first(db.Where("tenant_id = ? AND name = ? AND mobile = ?", tenantID, name, mobile))
}

func (r *patientRepository) CreateIfAbsent(db *gorm.DB, patient *entity.Patient) (int64, error) {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "name"}, {Name: "mobile"}},
		DoNothing: true,
	}).Create(patient)
	return result.RowsAffected, result.Error
}

func (r *patientRepository) Update(db *gorm.DB, id uuid.UUID, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	return db.Model(&entity.Patient{}).Where("id = ?", id).Updates(changes).Error
}

func (r *patientRepository) first(query *gorm.DB) (*entity.Patient, error) {
	var patient entity.Patient
	err := query.First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}
