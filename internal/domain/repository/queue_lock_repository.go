package repository

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QueueLockRepository interface {
	// Lock blocks until the caller's transaction holds the doctor-day lock.
	Lock(db *gorm.DB, tenantID, doctorID uuid.UUID, date datatypes.Date) error
}
