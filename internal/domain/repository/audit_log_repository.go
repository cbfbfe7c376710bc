package repository

import (
	"clinic-scheduling-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindByEntityID(db *gorm.DB, tenantID uuid.UUID, entityID string) ([]entity.AuditLog, error)
	FindByID(db *gorm.DB, tenantID uuid.UUID, id int64) (*entity.AuditLog, error)
}
