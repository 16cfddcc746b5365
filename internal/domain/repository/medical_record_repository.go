package repository

import (
	"context"

	"clinic-records/internal/domain/entity"

	"gorm.io/gorm"
)

// MedicalRecordRepository has no update or delete: records are append-only.
type MedicalRecordRepository interface {
	Create(ctx context.Context, db *gorm.DB, record *entity.MedicalRecord) error
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.MedicalRecord, error)
	FindByPatientID(ctx context.Context, db *gorm.DB, patientID int64) ([]entity.MedicalRecord, error)
	FindLatestByPatientID(ctx context.Context, db *gorm.DB, patientID int64) (*entity.MedicalRecord, error)
	CountByPatientID(ctx context.Context, db *gorm.DB, patientID int64) (int64, error)
	CountPatientsToday(ctx context.Context, db *gorm.DB) (int64, error)
	MonthlyStats(ctx context.Context, db *gorm.DB, months int) ([]entity.MonthlyVisitCount, error)
	YearlyStats(ctx context.Context, db *gorm.DB, years int) ([]entity.YearlyVisitCount, error)
}
