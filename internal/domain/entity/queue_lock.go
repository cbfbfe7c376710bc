package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QueueLock is a per doctor-day row locked FOR UPDATE by every transaction that
// counts capacity or renumbers the queue for that day.
type QueueLock struct {
	TenantID  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"tenant_id"`
	DoctorID  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"doctor_id"`
	Date      datatypes.Date `gorm:"type:date;primaryKey" json:"date"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (QueueLock) TableName() string {
	return "queue_locks"
}
