package service

import (
	"context"

	"clinic-records/internal/domain/entity"
	"clinic-records/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService records who changed what. Audit writes are best effort:
// callers log a failure and carry on.
type AuditService interface {
	LogCreate(ctx context.Context, db *gorm.DB, userID *int64, action string, entityType string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, db *gorm.DB, userID *int64, action string, entityType string, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, db *gorm.DB, userID *int64, action string, entityType string, entityID string, oldValue interface{}) error
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
func (s *auditService) LogCreate(ctx context.Context, db *gorm.DB, userID *int64, action string, entityType string, entityID string, newValue interface{}) error {
	return s.write(ctx, db, userID, action, entityType, entityID, nil, newValue)
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, db *gorm.DB, userID *int64, action string, entityType string, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, db, userID, action, entityType, entityID, oldValue, newValue)
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, db *gorm.DB, userID *int64, action string, entityType string, entityID string, oldValue interface{}) error {
	return s.write(ctx, db, userID, action, entityType, entityID, oldValue, nil)
}

func (s *auditService) write(ctx context.Context, db *gorm.DB, userID *int64, action, entityType, entityID string, oldValue, newValue interface{}) error {
	auditLog := &entity.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata: entity.JSON{
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.auditRepo.Create(ctx, db, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
