package repository

import (
	"context"
	"errors"

	"clinic-records/internal/domain/entity"
	domainRepo "clinic-records/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type staffRepository struct{}

func NewStaffRepository() domainRepo.StaffRepository {
	return &staffRepository{}
}

func (r *staffRepository) Create(ctx context.Context, db *gorm.DB, staff *entity.Staff) error {
	return db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Staff, error) {
	var staff entity.Staff
	err := db.WithContext(ctx).Where("id = ?", id).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Staff, error) {
	var staff []entity.Staff
	err := db.WithContext(ctx).Order("created_at DESC").Find(&staff).Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}

// Update writes every column, including nil and zero values.
func (r *staffRepository) Update(ctx context.Context, db *gorm.DB, staff *entity.Staff) (int64, error) {
	result := db.WithContext(ctx).
		Model(&entity.Staff{}).
		Where("id = ?", staff.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(staff)
	return result.RowsAffected, result.Error
}

func (r *staffRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status string) (int64, error) {
	result := db.WithContext(ctx).
		Model(&entity.Staff{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *staffRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Staff{})
	return result.RowsAffected, result.Error
}

func (r *staffRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&entity.Staff{}).Count(&total).Error
	return total, err
}
