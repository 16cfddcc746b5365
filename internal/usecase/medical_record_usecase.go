package usecase

import (
	"context"
	"strconv"
	"time"

	"clinic-records/internal/converter"
	"clinic-records/internal/delivery/dto"
	"clinic-records/internal/delivery/http/middleware"
	"clinic-records/internal/domain/entity"
	"clinic-records/internal/domain/repository"
	"clinic-records/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	statsMonths = 12
	statsYears  = 5

	monthLabelLayout = "Jan 2006"
)

type MedicalRecordUsecase interface {
	AddRecord(ctx context.Context, patientID int64, req *dto.MedicalRecordRequest) (*dto.RecordCreatedResponse, error)
	ReviseRecord(ctx context.Context, patientID int64, req *dto.MedicalRecordRequest) (*dto.RecordCreatedResponse, error)
	GetAllRecords(ctx context.Context) ([]dto.MedicalRecordResponse, error)
	GetRecordsByPatient(ctx context.Context, patientID int64) ([]dto.MedicalRecordResponse, error)
	GetLatestRecord(ctx context.Context, patientID int64) (*dto.LatestRecordResponse, error)
	CountByPatient(ctx context.Context, patientID int64) (*dto.CountResponse, error)
	CountPatientsToday(ctx context.Context) (*dto.CountResponse, error)
	MonthlyStats(ctx context.Context) ([]dto.MonthlyVisitStat, error)
	YearlyStats(ctx context.Context) ([]dto.YearlyVisitStat, error)
	PatientMonthlyMetrics(ctx context.Context, patientID int64) (*dto.PatientMonthlyMetricsResponse, error)
	PatientYearlyMetrics(ctx context.Context, patientID int64) (*dto.PatientYearlyMetricsResponse, error)
}

type medicalRecordUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	recordRepo   repository.MedicalRecordRepository
	patientRepo  repository.PatientRepository
	auditService service.AuditService
	statsCache   service.StatsCache
	now          func() time.Time
}

func NewMedicalRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	recordRepo repository.MedicalRecordRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	statsCache service.StatsCache,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		db:           db,
		log:          log,
		recordRepo:   recordRepo,
		patientRepo:  patientRepo,
		auditService: auditService,
		statsCache:   statsCache,
		now:          time.Now,
	}
}

func (u *medicalRecordUsecase) AddRecord(ctx context.Context, patientID int64, req *dto.MedicalRecordRequest) (*dto.RecordCreatedResponse, error) {
	patient, err := u.findPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	record, err := buildMedicalRecord(req, patient, u.now())
	if err != nil {
		return nil, err
	}

	if err := u.recordRepo.Create(ctx, u.db, record); err != nil {
		u.log.Warnf("Failed to create medical record: %+v", err)
		return nil, err
	}

	u.afterAppend(ctx, entity.AuditActionRecordCreate, record)

	return &dto.RecordCreatedResponse{RecordID: record.ID}, nil
}

// ReviseRecord corrects a patient's clinical state by appending a copy of the
// latest visit with the supplied fields replaced.
func (u *medicalRecordUsecase) ReviseRecord(ctx context.Context, patientID int64, req *dto.MedicalRecordRequest) (*dto.RecordCreatedResponse, error) {
	patient, err := u.findPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	latest, err := u.recordRepo.FindLatestByPatientID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find latest medical record: %+v", err)
		return nil, err
	}

	var record *entity.MedicalRecord
	if latest == nil {
		record, err = buildMedicalRecord(req, patient, u.now())
	} else {
		record, err = reviseMedicalRecord(latest, req, patient, u.now())
	}
	if err != nil {
		return nil, err
	}

	if err := u.recordRepo.Create(ctx, u.db, record); err != nil {
		u.log.Warnf("Failed to create medical record: %+v", err)
		return nil, err
	}

	u.afterAppend(ctx, entity.AuditActionRecordRevise, record)

	return &dto.RecordCreatedResponse{RecordID: record.ID}, nil
}

func (u *medicalRecordUsecase) GetAllRecords(ctx context.Context) ([]dto.MedicalRecordResponse, error) {
	records, err := u.recordRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find all medical records: %+v", err)
		return nil, err
	}

	return converter.MedicalRecordsToResponses(records), nil
}

func (u *medicalRecordUsecase) GetRecordsByPatient(ctx context.Context, patientID int64) ([]dto.MedicalRecordResponse, error) {
	records, err := u.recordRepo.FindByPatientID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find medical records by patient: %+v", err)
		return nil, err
	}

	return converter.MedicalRecordsToResponses(records), nil
}

func (u *medicalRecordUsecase) GetLatestRecord(ctx context.Context, patientID int64) (*dto.LatestRecordResponse, error) {
	record, err := u.recordRepo.FindLatestByPatientID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find latest medical record: %+v", err)
		return nil, err
	}
	if record == nil {
		return &dto.LatestRecordResponse{Found: false}, nil
	}

	return &dto.LatestRecordResponse{
		Found:  true,
		Record: converter.LatestMedicalRecordToResponse(record),
	}, nil
}

func (u *medicalRecordUsecase) CountByPatient(ctx context.Context, patientID int64) (*dto.CountResponse, error) {
	total, err := u.recordRepo.CountByPatientID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to count medical records: %+v", err)
		return nil, err
	}

	return &dto.CountResponse{Count: total}, nil
}

func (u *medicalRecordUsecase) CountPatientsToday(ctx context.Context) (*dto.CountResponse, error) {
	var total int64
	err := u.statsCache.Remember(ctx, service.StatsKeyTodayVisits, &total, func(ctx context.Context) (interface{}, error) {
		return u.recordRepo.CountPatientsToday(ctx, u.db)
	})
	if err != nil {
		u.log.Warnf("Failed to count today's patients: %+v", err)
		return nil, err
	}

	return &dto.CountResponse{Count: total}, nil
}

func (u *medicalRecordUsecase) MonthlyStats(ctx context.Context) ([]dto.MonthlyVisitStat, error) {
	stats := []dto.MonthlyVisitStat{}
	err := u.statsCache.Remember(ctx, service.StatsKeyMonthlyVisits, &stats, func(ctx context.Context) (interface{}, error) {
		rows, err := u.recordRepo.MonthlyStats(ctx, u.db, statsMonths)
		if err != nil {
			return nil, err
		}
		return converter.MonthlyStatsToResponses(rows), nil
	})
	if err != nil {
		u.log.Warnf("Failed to compute monthly stats: %+v", err)
		return nil, err
	}

	return stats, nil
}

func (u *medicalRecordUsecase) YearlyStats(ctx context.Context) ([]dto.YearlyVisitStat, error) {
	stats := []dto.YearlyVisitStat{}
	err := u.statsCache.Remember(ctx, service.StatsKeyYearlyVisits, &stats, func(ctx context.Context) (interface{}, error) {
		rows, err := u.recordRepo.YearlyStats(ctx, u.db, statsYears)
		if err != nil {
			return nil, err
		}
		return converter.YearlyStatsToResponses(rows), nil
	})
	if err != nil {
		u.log.Warnf("Failed to compute yearly stats: %+v", err)
		return nil, err
	}

	return stats, nil
}

// PatientMonthlyMetrics always returns the trailing 12 calendar months, oldest
// first. A month without a visit carries null metrics; a month with several
// carries the latest one.
func (u *medicalRecordUsecase) PatientMonthlyMetrics(ctx context.Context, patientID int64) (*dto.PatientMonthlyMetricsResponse, error) {
	records, err := u.recordRepo.FindByPatientID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find medical records by patient: %+v", err)
		return nil, err
	}

	now := u.now()
	monthly := make([]dto.MonthlyMetric, statsMonths)
	for i := range monthly {
		month := time.Date(now.Year(), now.Month()-time.Month(statsMonths-1-i), 1, 0, 0, 0, 0, now.Location())
		latest := latestMatching(records, func(visit time.Time) bool {
			return visit.Year() == month.Year() && visit.Month() == month.Month()
		})
		monthly[i] = dto.MonthlyMetric{
			Month:        month.Format(monthLabelLayout),
			MetricValues: converter.RecordMetrics(latest),
		}
	}

	return &dto.PatientMonthlyMetricsResponse{PatientID: patientID, Monthly: monthly}, nil
}

// PatientYearlyMetrics always returns the trailing 5 calendar years, oldest first.
func (u *medicalRecordUsecase) PatientYearlyMetrics(ctx context.Context, patientID int64) (*dto.PatientYearlyMetricsResponse, error) {
	records, err := u.recordRepo.FindByPatientID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find medical records by patient: %+v", err)
		return nil, err
	}

	now := u.now()
	yearly := make([]dto.YearlyMetric, statsYears)
	for i := range yearly {
		year := now.Year() - (statsYears - 1 - i)
		latest := latestMatching(records, func(visit time.Time) bool {
			return visit.Year() == year
		})
		yearly[i] = dto.YearlyMetric{
			Year:         strconv.Itoa(year),
			MetricValues: converter.RecordMetrics(latest),
		}
	}

	return &dto.PatientYearlyMetricsResponse{PatientID: patientID, Yearly: yearly}, nil
}

func (u *medicalRecordUsecase) findPatient(ctx context.Context, patientID int64) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

func (u *medicalRecordUsecase) afterAppend(ctx context.Context, action string, record *entity.MedicalRecord) {
	u.statsCache.Invalidate(ctx, service.RecordStatsKeys...)

	if err := u.auditService.LogCreate(ctx, u.db, middleware.ActorFromContext(ctx), action, entity.AuditEntityMedicalRecord, int64ID(record.ID), converter.MedicalRecordToResponse(record)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
}

// latestMatching returns the record with the greatest visit date accepted by
// match, or nil. Visit dates are compared by wall clock.
func latestMatching(records []entity.MedicalRecord, match func(visit time.Time) bool) *entity.MedicalRecord {
	var latest *entity.MedicalRecord
	for i := range records {
		r := &records[i]
		if !match(r.VisitDate) {
			continue
		}
		if latest == nil || r.VisitDate.After(latest.VisitDate) {
			latest = r
		}
	}
	return latest
}
