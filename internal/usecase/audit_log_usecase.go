package usecase

import (
	"context"
	"errors"

	"clinic-records/internal/converter"
	"clinic-records/internal/delivery/dto"
	"clinic-records/internal/domain/entity"
	"clinic-records/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultAuditPageSize = 20
	maxAuditPageSize     = 100
)

var (
	ErrAuditLogNotFound = errors.New("audit log not found")
)

// AuditLogQuery is a page request over the audit trail. Page is 1-based.
type AuditLogQuery struct {
	Page       int
	Limit      int
	Action     string
	EntityType string
	EntityID   string
}

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, query AuditLogQuery) ([]dto.AuditLogResponse, *AuditLogPage, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

// AuditLogPage describes the page actually served after clamping.
type AuditLogPage struct {
	Page  int
	Limit int
	Total int64
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, query AuditLogQuery) ([]dto.AuditLogResponse, *AuditLogPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}

	logs, total, err := u.auditLogRepo.FindAll(ctx, u.db, entity.AuditLogFilter{
		Action:     query.Action,
		EntityType: query.EntityType,
		EntityID:   query.EntityID,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, nil, err
	}

	return converter.AuditLogsToResponses(logs), &AuditLogPage{Page: page, Limit: limit, Total: total}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
