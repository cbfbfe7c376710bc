package service

import (
	"context"

	"clinic-scheduling-service/internal/domain/entity"
	"clinic-scheduling-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditEntry identifies who changed which record of which tenant.
type AuditEntry struct {
	TenantID uuid.UUID
	UserID   *uuid.UUID
	Action   string
	Entity   string
	EntityID string
}

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, entry AuditEntry, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, entry AuditEntry, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, entry AuditEntry, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, entry AuditEntry, newValue interface{}) error {
	return s.write(ctx, tx, entry, nil, newValue)
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, entry AuditEntry, oldValue, newValue interface{}) error {
	return s.write(ctx, tx, entry, oldValue, newValue)
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, entry AuditEntry, oldValue interface{}) error {
	return s.write(ctx, tx, entry, oldValue, nil)
}

// write inserts through tx so the entry commits or rolls back with the change it describes.
func (s *auditService) write(ctx context.Context, tx *gorm.DB, entry AuditEntry, oldValue, newValue interface{}) error {
	auditLog := &entity.AuditLog{
		TenantID: entry.TenantID,
		UserID:   entry.UserID,
		Action:   entry.Action,
		EntityID: entry.EntityID,
		Metadata: entity.JSON{
			"entity":    entry.Entity,
			"entity_id": entry.EntityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
