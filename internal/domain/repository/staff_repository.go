package repository

import (
	"context"

	"clinic-records/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffRepository interface {
	Create(ctx context.Context, db *gorm.DB, staff *entity.Staff) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Staff, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Staff, error)
	// Update rewrites every column of the row and returns the number of rows affected.
	Update(ctx context.Context, db *gorm.DB, staff *entity.Staff) (int64, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status string) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
