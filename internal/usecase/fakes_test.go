package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"clinic-records/internal/domain/entity"
	"clinic-records/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type fakePatientRepo struct {
	mu       sync.Mutex
	nextID   int64
	patients map[int64]entity.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: map[int64]entity.Patient{}}
}

func (r *fakePatientRepo) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	created, err := r.CreateIfAbsent(ctx, db, patient)
	if err != nil {
		return err
	}
	if !created {
		return uniqueViolation("patients_registration_no_key")
	}
	return nil
}

func (r *fakePatientRepo) CreateIfAbsent(ctx context.Context, db *gorm.DB, patient *entity.Patient) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.RegistrationNo == patient.RegistrationNo {
			return false, nil
		}
	}
	r.nextID++
	patient.ID = r.nextID
	patient.CreatedAt = time.Now()
	r.patients[patient.ID] = *patient
	return true, nil
}

func (r *fakePatientRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePatientRepo) FindByRegistrationNo(ctx context.Context, db *gorm.DB, registrationNo string) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.RegistrationNo == registrationNo {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	patients := make([]entity.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		patients = append(patients, p)
	}
	sort.Slice(patients, func(i, j int) bool { return patients[i].ID > patients[j].ID })
	return patients, nil
}

func (r *fakePatientRepo) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[id]; !ok {
		return 0, nil
	}
	delete(r.patients, id)
	return 1, nil
}

func (r *fakePatientRepo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.patients)), nil
}

func (r *fakePatientRepo) CountByDepartment(ctx context.Context, db *gorm.DB) ([]entity.DepartmentCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	var unassigned int64
	for _, p := range r.patients {
		if p.Department == nil {
			unassigned++
			continue
		}
		counts[*p.Department]++
	}
	rows := make([]entity.DepartmentCount, 0, len(counts)+1)
	for dept, n := range counts {
		dept := dept
		rows = append(rows, entity.DepartmentCount{Department: &dept, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return *rows[i].Department < *rows[j].Department })
	if unassigned > 0 {
		rows = append(rows, entity.DepartmentCount{Count: unassigned})
	}
	return rows, nil
}

type fakeRecordRepo struct {
	mu      sync.Mutex
	nextID  int64
	records []entity.MedicalRecord
	today   func() time.Time
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{today: time.Now}
}

func (r *fakeRecordRepo) Create(ctx context.Context, db *gorm.DB, record *entity.MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	record.ID = r.nextID
	record.CreatedAt = time.Now()
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeRecordRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.MedicalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.MedicalRecord(nil), r.records...), nil
}

func (r *fakeRecordRepo) FindByPatientID(ctx context.Context, db *gorm.DB, patientID int64) ([]entity.MedicalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := []entity.MedicalRecord{}
	for _, rec := range r.records {
		if rec.PatientID == patientID {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].VisitDate.Equal(records[j].VisitDate) {
			return records[i].ID > records[j].ID
		}
		return records[i].VisitDate.After(records[j].VisitDate)
	})
	return records, nil
}

func (r *fakeRecordRepo) FindLatestByPatientID(ctx context.Context, db *gorm.DB, patientID int64) (*entity.MedicalRecord, error) {
	records, _ := r.FindByPatientID(ctx, db, patientID)
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (r *fakeRecordRepo) CountByPatientID(ctx context.Context, db *gorm.DB, patientID int64) (int64, error) {
	records, _ := r.FindByPatientID(ctx, db, patientID)
	return int64(len(records)), nil
}

func (r *fakeRecordRepo) CountPatientsToday(ctx context.Context, db *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	y, m, d := r.today().Date()
	seen := map[int64]bool{}
	for _, rec := range r.records {
		ry, rm, rd := rec.VisitDate.Date()
		if ry == y && rm == m && rd == d {
			seen[rec.PatientID] = true
		}
	}
	return int64(len(seen)), nil
}

func (r *fakeRecordRepo) MonthlyStats(ctx context.Context, db *gorm.DB, months int) ([]entity.MonthlyVisitCount, error) {
	return []entity.MonthlyVisitCount{{Month: "Jan 2026", Count: 2}}, nil
}

func (r *fakeRecordRepo) YearlyStats(ctx context.Context, db *gorm.DB, years int) ([]entity.YearlyVisitCount, error) {
	return []entity.YearlyVisitCount{{Year: 2026, Count: 3}}, nil
}

type fakeStaffRepo struct {
	mu    sync.Mutex
	staff map[uuid.UUID]entity.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{staff: map[uuid.UUID]entity.Staff{}}
}

func (r *fakeStaffRepo) Create(ctx context.Context, db *gorm.DB, staff *entity.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = staff.CreatedAt
	r.staff[staff.ID] = *staff
	return nil
}

func (r *fakeStaffRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.staff[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeStaffRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff := make([]entity.Staff, 0, len(r.staff))
	for _, s := range r.staff {
		staff = append(staff, s)
	}
	return staff, nil
}

func (r *fakeStaffRepo) Update(ctx context.Context, db *gorm.DB, staff *entity.Staff) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[staff.ID]; !ok {
		return 0, nil
	}
	r.staff[staff.ID] = *staff
	return 1, nil
}

func (r *fakeStaffRepo) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.staff[id]
	if !ok {
		return 0, nil
	}
	s.Status = status
	r.staff[id] = s
	return 1, nil
}

func (r *fakeStaffRepo) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[id]; !ok {
		return 0, nil
	}
	delete(r.staff, id)
	return 1, nil
}

func (r *fakeStaffRepo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.staff)), nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]entity.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return uniqueViolation("users_username_key")
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type auditEntry struct {
	UserID   *int64
	Action   string
	EntityID string
}

// recordingAudit is an AuditService that keeps entries in memory.
type recordingAudit struct {
	mu      sync.Mutex
	entries []auditEntry
	fail    error
}

var _ service.AuditService = (*recordingAudit)(nil)

func (a *recordingAudit) add(userID *int64, action, entityID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail != nil {
		return a.fail
	}
	a.entries = append(a.entries, auditEntry{UserID: userID, Action: action, EntityID: entityID})
	return nil
}

func (a *recordingAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	actions := make([]string, len(a.entries))
	for i, e := range a.entries {
		actions[i] = e.Action
	}
	return actions
}

func (a *recordingAudit) LogCreate(ctx context.Context, db *gorm.DB, userID *int64, action, entityType, entityID string, newValue interface{}) error {
	return a.add(userID, action, entityID)
}

func (a *recordingAudit) LogUpdate(ctx context.Context, db *gorm.DB, userID *int64, action, entityType, entityID string, oldValue, newValue interface{}) error {
	return a.add(userID, action, entityID)
}

func (a *recordingAudit) LogDelete(ctx context.Context, db *gorm.DB, userID *int64, action, entityType, entityID string, oldValue interface{}) error {
	return a.add(userID, action, entityID)
}

// countingCache serves from memory and records invalidations.
type countingCache struct {
	mu          sync.Mutex
	loads       int
	invalidated []string
	inner       service.StatsCache
}

func newCountingCache() *countingCache {
	return &countingCache{inner: service.NewNoopStatsCache()}
}

func (c *countingCache) Remember(ctx context.Context, key string, dest interface{}, load service.LoadFunc) error {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
	return c.inner.Remember(ctx, key, dest, load)
}

func (c *countingCache) Invalidate(ctx context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, keys...)
}

func (c *countingCache) wasInvalidated(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.invalidated {
		if k == key {
			return true
		}
	}
	return false
}
