package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"clinic-records/internal/converter"
	"clinic-records/internal/delivery/dto"
	"clinic-records/internal/delivery/http/middleware"
	"clinic-records/internal/domain/entity"
	"clinic-records/internal/domain/repository"
	"clinic-records/internal/service"
	"clinic-records/pkg/nullable"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound        = errors.New("patient not found")
	ErrRegistrationNoRequired = errors.New("registrationNo is required")
	ErrInvalidDateFormat      = errors.New("invalid date format, use YYYY-MM-DD")
)

// RegistrationConflictError is returned when the registration number already
// belongs to a patient. It carries that patient's id.
type RegistrationConflictError struct {
	PatientID int64
}

func (e *RegistrationConflictError) Error() string {
	return "patient with this registration number already exists"
}

type PatientUsecase interface {
	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientCreatedResponse, error)
	CheckPatient(ctx context.Context, registrationNo string) (*dto.PatientCheckResponse, error)
	GetAllPatients(ctx context.Context) ([]dto.PatientResponse, error)
	GetPatient(ctx context.Context, id int64) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, id int64) error
	CountPatients(ctx context.Context) (*dto.CountResponse, error)
	CountByDepartment(ctx context.Context) ([]dto.DepartmentCountResponse, error)
	Intake(ctx context.Context, req *dto.IntakeRequest) (*dto.IntakeResponse, error)
}

type patientUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	patientRepo  repository.PatientRepository
	recordRepo   repository.MedicalRecordRepository
	auditService service.AuditService
	statsCache   service.StatsCache
	now          func() time.Time
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	recordRepo repository.MedicalRecordRepository,
	auditService service.AuditService,
	statsCache service.StatsCache,
) PatientUsecase {
	return &patientUsecase{
		db:           db,
		log:          log,
		patientRepo:  patientRepo,
		recordRepo:   recordRepo,
		auditService: auditService,
		statsCache:   statsCache,
		now:          time.Now,
	}
}

// CreatePatient inserts a patient. The unique index on registration_no decides
// duplicates, so two concurrent inserts cannot both succeed.
func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientCreatedResponse, error) {
	patient, err := newPatient(req)
	if err != nil {
		return nil, err
	}

	if err := u.patientRepo.Create(ctx, u.db, patient); err != nil {
		if isDuplicateKeyError(err, "registration_no") {
			return nil, u.registrationConflict(ctx, patient.RegistrationNo)
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	u.statsCache.Invalidate(ctx, service.PatientStatsKeys...)

	if err := u.auditService.LogCreate(ctx, u.db, middleware.ActorFromContext(ctx), entity.AuditActionPatientCreate, entity.AuditEntityPatient, int64ID(patient.ID), converter.PatientToResponse(patient, u.now())); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return &dto.PatientCreatedResponse{PatientID: patient.ID}, nil
}

func (u *patientUsecase) CheckPatient(ctx context.Context, registrationNo string) (*dto.PatientCheckResponse, error) {
	registrationNo = strings.TrimSpace(registrationNo)
	if registrationNo == "" {
		return nil, ErrRegistrationNoRequired
	}

	patient, err := u.patientRepo.FindByRegistrationNo(ctx, u.db, registrationNo)
	if err != nil {
		u.log.Warnf("Failed to find patient by registration number: %+v", err)
		return nil, err
	}
	if patient == nil {
		return &dto.PatientCheckResponse{Exists: false}, nil
	}

	id := patient.ID
	return &dto.PatientCheckResponse{Exists: true, PatientID: &id}, nil
}

func (u *patientUsecase) GetAllPatients(ctx context.Context) ([]dto.PatientResponse, error) {
	patients, err := u.patientRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find all patients: %+v", err)
		return nil, err
	}

	return converter.PatientsToResponses(patients, u.now()), nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id int64) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient, u.now()), nil
}

// DeletePatient hard-deletes the patient row. Their medical records are left in place.
func (u *patientUsecase) DeletePatient(ctx context.Context, id int64) error {
	patient, err := u.patientRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return err
	}

	affected, err := u.patientRepo.Delete(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to delete patient: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrPatientNotFound
	}

	u.statsCache.Invalidate(ctx, service.PatientStatsKeys...)

	if err := u.auditService.LogDelete(ctx, u.db, middleware.ActorFromContext(ctx), entity.AuditActionPatientDelete, entity.AuditEntityPatient, int64ID(id), converter.PatientToResponse(patient, u.now())); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

func (u *patientUsecase) CountPatients(ctx context.Context) (*dto.CountResponse, error) {
	var total int64
	err := u.statsCache.Remember(ctx, service.StatsKeyPatientCount, &total, func(ctx context.Context) (interface{}, error) {
		return u.patientRepo.Count(ctx, u.db)
	})
	if err != nil {
		u.log.Warnf("Failed to count patients: %+v", err)
		return nil, err
	}

	return &dto.CountResponse{Count: total}, nil
}

func (u *patientUsecase) CountByDepartment(ctx context.Context) ([]dto.DepartmentCountResponse, error) {
	counts := []dto.DepartmentCountResponse{}
	err := u.statsCache.Remember(ctx, service.StatsKeyPatientDepartment, &counts, func(ctx context.Context) (interface{}, error) {
		rows, err := u.patientRepo.CountByDepartment(ctx, u.db)
		if err != nil {
			return nil, err
		}
		return converter.DepartmentCountsToResponses(rows), nil
	})
	if err != nil {
		u.log.Warnf("Failed to count patients by department: %+v", err)
		return nil, err
	}

	return counts, nil
}

// Intake registers the patient unless the registration number is already taken,
// in which case the existing patient is reused, then appends the visit.
// Both steps are idempotent on retry for the patient half, so no transaction is held.
func (u *patientUsecase) Intake(ctx context.Context, req *dto.IntakeRequest) (*dto.IntakeResponse, error) {
	patient, err := newPatient(&req.Patient)
	if err != nil {
		return nil, err
	}

	created, err := u.patientRepo.CreateIfAbsent(ctx, u.db, patient)
	if err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	if created {
		u.statsCache.Invalidate(ctx, service.PatientStatsKeys...)
		if err := u.auditService.LogCreate(ctx, u.db, middleware.ActorFromContext(ctx), entity.AuditActionPatientCreate, entity.AuditEntityPatient, int64ID(patient.ID), converter.PatientToResponse(patient, u.now())); err != nil {
			u.log.Warnf("Failed to create audit log: %+v", err)
		}
	} else {
		existing, err := u.patientRepo.FindByRegistrationNo(ctx, u.db, patient.RegistrationNo)
		if err != nil {
			u.log.Warnf("Failed to find patient by registration number: %+v", err)
			return nil, err
		}
		if existing == nil {
			// Deleted between the conflicting insert and this lookup.
			return nil, ErrPatientNotFound
		}
		patient = existing
		if err := u.auditService.LogCreate(ctx, u.db, middleware.ActorFromContext(ctx), entity.AuditActionPatientIntakeReuse, entity.AuditEntityPatient, int64ID(patient.ID), nil); err != nil {
			u.log.Warnf("Failed to create audit log: %+v", err)
		}
	}

	record, err := buildMedicalRecord(&req.Record, patient, u.now())
	if err != nil {
		return nil, err
	}

	if err := u.recordRepo.Create(ctx, u.db, record); err != nil {
		u.log.Warnf("Failed to create medical record: %+v", err)
		return nil, err
	}

	u.statsCache.Invalidate(ctx, service.RecordStatsKeys...)

	if err := u.auditService.LogCreate(ctx, u.db, middleware.ActorFromContext(ctx), entity.AuditActionRecordCreate, entity.AuditEntityMedicalRecord, int64ID(record.ID), converter.MedicalRecordToResponse(record)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return &dto.IntakeResponse{
		PatientID:      patient.ID,
		RecordID:       record.ID,
		PatientCreated: created,
	}, nil
}

func (u *patientUsecase) registrationConflict(ctx context.Context, registrationNo string) error {
	existing, err := u.patientRepo.FindByRegistrationNo(ctx, u.db, registrationNo)
	if err != nil {
		u.log.Warnf("Failed to find patient by registration number: %+v", err)
		return err
	}
	conflict := &RegistrationConflictError{}
	if existing != nil {
		conflict.PatientID = existing.ID
	}
	return conflict
}

// newPatient normalizes a request: blank strings become NULL and status defaults to active.
func newPatient(req *dto.CreatePatientRequest) (*entity.Patient, error) {
	registrationNo := strings.TrimSpace(req.RegistrationNo)
	if registrationNo == "" {
		return nil, ErrRegistrationNoRequired
	}

	patient := &entity.Patient{
		RegistrationNo: registrationNo,
		Name:           strings.TrimSpace(req.Name),
		EpfNo:          nullable.String(req.EpfNo),
		Department:     nullable.String(req.Department),
		ContactNo:      nullable.String(req.ContactNo),
		Gender:         nullable.String(req.Gender),
		Status:         entity.DefaultPatientStatus,
	}

	if s := strings.TrimSpace(req.Status); s != "" {
		patient.Status = s
	}

	if dob := strings.TrimSpace(req.DateOfBirth); dob != "" {
		date, err := entity.ParseDate(dob)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		patient.DateOfBirth = &date
	}

	return patient, nil
}

func int64ID(id int64) string {
	return strconv.FormatInt(id, 10)
}
