package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-records/internal/converter"
	"clinic-records/internal/delivery/dto"
	"clinic-records/internal/delivery/http/middleware"
	"clinic-records/internal/domain/entity"
	"clinic-records/internal/domain/repository"
	"clinic-records/internal/service"
	"clinic-records/pkg/nullable"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrStaffNotFound      = errors.New("staff member not found")
	ErrLicenseRequired    = errors.New("medical license number and qualifications are required for doctors and nurses")
	ErrInvalidLicenseDate = errors.New("invalid licenseExpiryDate, use YYYY-MM-DD")
)

type StaffUsecase interface {
	CreateStaff(ctx context.Context, req *dto.StaffRequest) (*dto.StaffCreatedResponse, error)
	GetAllStaff(ctx context.Context) ([]dto.StaffResponse, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*dto.StaffResponse, error)
	UpdateStaff(ctx context.Context, id uuid.UUID, req *dto.StaffRequest) (*dto.StaffResponse, error)
	UpdateStaffStatus(ctx context.Context, id uuid.UUID, req *dto.StaffStatusRequest) (*dto.StaffResponse, error)
	DeleteStaff(ctx context.Context, id uuid.UUID) error
	CountStaff(ctx context.Context) (*dto.CountResponse, error)
}

type staffUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	staffRepo    repository.StaffRepository
	auditService service.AuditService
	statsCache   service.StatsCache
}

func NewStaffUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	staffRepo repository.StaffRepository,
	auditService service.AuditService,
	statsCache service.StatsCache,
) StaffUsecase {
	return &staffUsecase{
		db:           db,
		log:          log,
		staffRepo:    staffRepo,
		auditService: auditService,
		statsCache:   statsCache,
	}
}

// CreateStaff always assigns a fresh identifier.
func (u *staffUsecase) CreateStaff(ctx context.Context, req *dto.StaffRequest) (*dto.StaffCreatedResponse, error) {
	staff, err := newStaff(req)
	if err != nil {
		return nil, err
	}
	staff.ID = uuid.New()

	if err := u.staffRepo.Create(ctx, u.db, staff); err != nil {
		u.log.Warnf("Failed to create staff: %+v", err)
		return nil, err
	}

	u.statsCache.Invalidate(ctx, service.StaffStatsKeys...)

	if err := u.auditService.LogCreate(ctx, u.db, middleware.ActorFromContext(ctx), entity.AuditActionStaffCreate, entity.AuditEntityStaff, staff.ID.String(), converter.StaffToResponse(staff)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return &dto.StaffCreatedResponse{StaffID: staff.ID}, nil
}

func (u *staffUsecase) GetAllStaff(ctx context.Context) ([]dto.StaffResponse, error) {
	staff, err := u.staffRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find all staff: %+v", err)
		return nil, err
	}

	return converter.StaffListToResponses(staff), nil
}

func (u *staffUsecase) GetStaff(ctx context.Context, id uuid.UUID) (*dto.StaffResponse, error) {
	staff, err := u.findStaff(ctx, id)
	if err != nil {
		return nil, err
	}

	return converter.StaffToResponse(staff), nil
}

// UpdateStaff replaces every column of the row; omitted optional fields become NULL.
func (u *staffUsecase) UpdateStaff(ctx context.Context, id uuid.UUID, req *dto.StaffRequest) (*dto.StaffResponse, error) {
	existing, err := u.findStaff(ctx, id)
	if err != nil {
		return nil, err
	}

	staff, err := newStaff(req)
	if err != nil {
		return nil, err
	}
	staff.ID = id
	staff.CreatedAt = existing.CreatedAt

	affected, err := u.staffRepo.Update(ctx, u.db, staff)
	if err != nil {
		u.log.Warnf("Failed to update staff: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrStaffNotFound
	}

	oldValue := converter.StaffToResponse(existing)
	newValue := converter.StaffToResponse(staff)
	if err := u.auditService.LogUpdate(ctx, u.db, middleware.ActorFromContext(ctx), entity.AuditActionStaffUpdate, entity.AuditEntityStaff, id.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return newValue, nil
}

func (u *staffUsecase) UpdateStaffStatus(ctx context.Context, id uuid.UUID, req *dto.StaffStatusRequest) (*dto.StaffResponse, error) {
	existing, err := u.findStaff(ctx, id)
	if err != nil {
		return nil, err
	}

	affected, err := u.staffRepo.UpdateStatus(ctx, u.db, id, req.Status)
	if err != nil {
		u.log.Warnf("Failed to update staff status: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrStaffNotFound
	}

	oldStatus := existing.Status
	existing.Status = req.Status
	if err := u.auditService.LogUpdate(ctx, u.db, middleware.ActorFromContext(ctx), entity.AuditActionStaffStatus, entity.AuditEntityStaff, id.String(), oldStatus, req.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return converter.StaffToResponse(existing), nil
}

func (u *staffUsecase) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	existing, err := u.staffRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find staff: %+v", err)
		return err
	}

	affected, err := u.staffRepo.Delete(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to delete staff: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrStaffNotFound
	}

	u.statsCache.Invalidate(ctx, service.StaffStatsKeys...)

	if err := u.auditService.LogDelete(ctx, u.db, middleware.ActorFromContext(ctx), entity.AuditActionStaffDelete, entity.AuditEntityStaff, id.String(), converter.StaffToResponse(existing)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

func (u *staffUsecase) CountStaff(ctx context.Context) (*dto.CountResponse, error) {
	var total int64
	err := u.statsCache.Remember(ctx, service.StatsKeyStaffCount, &total, func(ctx context.Context) (interface{}, error) {
		return u.staffRepo.Count(ctx, u.db)
	})
	if err != nil {
		u.log.Warnf("Failed to count staff: %+v", err)
		return nil, err
	}

	return &dto.CountResponse{Count: total}, nil
}

func (u *staffUsecase) findStaff(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	staff, err := u.staffRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find staff: %+v", err)
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

// newStaff normalizes a request into a row. The license rule is checked here as
// well as in request validation so no caller can bypass it.
func newStaff(req *dto.StaffRequest) (*entity.Staff, error) {
	staff := &entity.Staff{
		EpfNumber:               strings.TrimSpace(req.EpfNumber),
		Name:                    strings.TrimSpace(req.Name),
		Designation:             req.Designation,
		Experience:              req.Experience.Ptr(),
		Gender:                  entity.DefaultStaffGender,
		ProfileImage:            nullable.String(req.ProfileImage),
		ContactNo:               strings.TrimSpace(req.ContactNo),
		PrimarySpecialization:   nullable.String(req.PrimarySpecialization),
		SecondarySpecialization: nullable.String(req.SecondarySpecialization),
		MedicalLicenseNumber:    nullable.String(req.MedicalLicenseNumber),
		Qualifications:          nullable.String(req.Qualifications),
		Status:                  entity.StaffStatusActive,
	}

	if req.Gender != "" {
		staff.Gender = req.Gender
	}
	if req.Status != "" {
		staff.Status = req.Status
	}

	if entity.RequiresLicense(staff.Designation) && (staff.MedicalLicenseNumber == nil || staff.Qualifications == nil) {
		return nil, ErrLicenseRequired
	}

	if expiry := strings.TrimSpace(req.LicenseExpiryDate); expiry != "" {
		date, err := entity.ParseDate(expiry)
		if err != nil {
			return nil, ErrInvalidLicenseDate
		}
		staff.LicenseExpiryDate = &date
	}

	return staff, nil
}
