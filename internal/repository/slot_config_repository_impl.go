package repository

import (
	"errors"

	"clinic-scheduling-service/internal/domain/entity"
	domainRepo "clinic-scheduling-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type clinicSlotConfigRepository struct{}

func NewClinicSlotConfigRepository() domainRepo.ClinicSlotConfigRepository {
	return &clinicSlotConfigRepository{}
}

func (r *clinicSlotConfigRepository) FindByTenant(db *gorm.DB, tenantID uuid.UUID) (*entity.ClinicSlotConfig, error) {
	var config entity.ClinicSlotConfig
	err := db.Where("tenant_id = ?", tenantID).First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

// Upsert keeps a single row per tenant.
func (r *clinicSlotConfigRepository) Upsert(db *gorm.DB, config *entity.ClinicSlotConfig) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"weekly_slots", "updated_at"}),
	}).Create(config).Error
}

type doctorSlotConfigRepository struct{}

func NewDoctorSlotConfigRepository() domainRepo.DoctorSlotConfigRepository {
	return &doctorSlotConfigRepository{}
}

func (r *doctorSlotConfigRepository) FindByDoctor(db *gorm.DB, tenantID, doctorID uuid.UUID) (*entity.DoctorSlotConfig, error) {
	var config entity.DoctorSlotConfig
	err := db.Where("tenant_id = ? AND doctor_id = ?", tenantID, doctorID).First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

func (r *doctorSlotConfigRepository) Upsert(db *gorm.DB, config *entity.DoctorSlotConfig) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "doctor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"uses_clinic_slots", "max_patients_per_slot", "online_quota", "offline_quota", "weekly_slots", "updated_at",
		}),
	}).Create(config).Error
}

type dateOverrideRepository struct{}

func NewDateOverrideRepository() domainRepo.DateOverrideRepository {
	return &dateOverrideRepository{}
}

func (r *dateOverrideRepository) FindForDate(db *gorm.DB, tenantID uuid.UUID, doctorID *uuid.UUID, date datatypes.Date) (*entity.DateOverride, error) {
	query := db.Where("tenant_id = ? AND date = ?", tenantID, date)
	if doctorID != nil {
		query = query.Where("doctor_id = ?", *doctorID)
	} else {
		query = query.Where("doctor_id IS NULL")
	}

	var override entity.DateOverride
	err := query.First(&override).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &override, nil
}

func (r *dateOverrideRepository) FindByID(db *gorm.DB, tenantID, id uuid.UUID) (*entity.DateOverride, error) {
	var override entity.DateOverride
	err := db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&override).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &override, nil
}

func (r *dateOverrideRepository) FindAll(db *gorm.DB, tenantID uuid.UUID, filter *entity.DateOverrideFilter) ([]entity.DateOverride, error) {
	var overrides []entity.DateOverride
	query := db.Where("tenant_id = ?", tenantID)

	if filter != nil {
		if filter.DoctorID != nil {
			query = query.Where("doctor_id = ?", *filter.DoctorID)
		}
		if filter.From != nil {
			query = query.Where("date >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where("date <= ?", *filter.To)
		}
	}

	err := query.Order("date ASC").Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *dateOverrideRepository) Save(db *gorm.DB, override *entity.DateOverride) error {
	return db.Save(override).Error
}

func (r *dateOverrideRepository) Delete(db *gorm.DB, tenantID, id uuid.UUID) (int64, error) {
	affected := db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&entity.DateOverride{})
	return affected.RowsAffected, affected.Error
}
