package repository

import (
	"clinic-scheduling-service/internal/domain/entity"
	domainRepo "clinic-scheduling-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type queueLockRepository struct{}

func NewQueueLockRepository() domainRepo.QueueLockRepository {
	return &queueLockRepository{}
}

// Lock makes sure the doctor-day row exists, then takes a row lock on it that is
// held until db's transaction ends.
func (r *queueLockRepository) Lock(db *gorm.DB, tenantID, doctorID uuid.UUID, date datatypes.Date) error {
	row := &entity.QueueLock{TenantID: tenantID, DoctorID: doctorID, Date: date}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
		return err
	}

	var locked entity.QueueLock
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND doctor_id = ? AND date = ?", tenantID, doctorID, date).
		First(&locked).Error
}
