package repository

import (
	"context"

	"clinic-records/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	// CreateIfAbsent inserts the patient unless the registration number is taken.
	// It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, db *gorm.DB, patient *entity.Patient) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Patient, error)
	FindByRegistrationNo(ctx context.Context, db *gorm.DB, registrationNo string) (*entity.Patient, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Patient, error)
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	CountByDepartment(ctx context.Context, db *gorm.DB) ([]entity.DepartmentCount, error)
}
