package repository

import (
	"context"
	"errors"

	"clinic-records/internal/domain/entity"
	domainRepo "clinic-records/internal/domain/repository"

	"gorm.io/gorm"
)

type medicalRecordRepository struct{}

func NewMedicalRecordRepository() domainRepo.MedicalRecordRepository {
	return &medicalRecordRepository{}
}

func (r *medicalRecordRepository) Create(ctx context.Context, db *gorm.DB, record *entity.MedicalRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *medicalRecordRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.MedicalRecord, error) {
	var records []entity.MedicalRecord
	err := db.WithContext(ctx).Order("id ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FindByPatientID returns the patient's visits newest first. Ties on visit_date
// fall back to insertion order.
func (r *medicalRecordRepository) FindByPatientID(ctx context.Context, db *gorm.DB, patientID int64) ([]entity.MedicalRecord, error) {
	var records []entity.MedicalRecord
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("visit_date DESC").
		Order("id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *medicalRecordRepository) FindLatestByPatientID(ctx context.Context, db *gorm.DB, patientID int64) (*entity.MedicalRecord, error) {
	var record entity.MedicalRecord
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("visit_date DESC").
		Order("id DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *medicalRecordRepository) CountByPatientID(ctx context.Context, db *gorm.DB, patientID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&entity.MedicalRecord{}).
		Where("patient_id = ?", patientID).
		Count(&total).Error
	return total, err
}

// CountPatientsToday counts distinct patients with a visit on the database's current date.
func (r *medicalRecordRepository) CountPatientsToday(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&entity.MedicalRecord{}).
		Where("visit_date::date = CURRENT_DATE").
		Distinct("patient_id").
		Count(&total).Error
	return total, err
}

func (r *medicalRecordRepository) MonthlyStats(ctx context.Context, db *gorm.DB, months int) ([]entity.MonthlyVisitCount, error) {
	var stats []entity.MonthlyVisitCount
	err := db.WithContext(ctx).
		Model(&entity.MedicalRecord{}).
		Select("to_char(date_trunc('month', visit_date), 'Mon YYYY') AS month, COUNT(DISTINCT patient_id) AS count").
		Where("visit_date >= date_trunc('month', CURRENT_DATE) - make_interval(months => ?)", months-1).
		Group("date_trunc('month', visit_date)").
		Order("date_trunc('month', visit_date) ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *medicalRecordRepository) YearlyStats(ctx context.Context, db *gorm.DB, years int) ([]entity.YearlyVisitCount, error) {
	var stats []entity.YearlyVisitCount
	err := db.WithContext(ctx).
		Model(&entity.MedicalRecord{}).
		Select("EXTRACT(YEAR FROM visit_date)::int AS year, COUNT(DISTINCT patient_id) AS count").
		Where("visit_date >= date_trunc('year', CURRENT_DATE) - make_interval(years => ?)", years-1).
		Group("EXTRACT(YEAR FROM visit_date)").
		Order("year ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
