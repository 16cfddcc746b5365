package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-records/internal/delivery/dto"
	"clinic-records/internal/delivery/http/middleware"
	"clinic-records/internal/domain/entity"
	"clinic-records/internal/service"
)

var clinicNow = time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC)

func newTestPatientUsecase() (*patientUsecase, *fakePatientRepo, *fakeRecordRepo, *recordingAudit, *countingCache) {
	patients := newFakePatientRepo()
	records := newFakeRecordRepo()
	audit := &recordingAudit{}
	cache := newCountingCache()
	u := &patientUsecase{
		log:          quietLogger(),
		patientRepo:  patients,
		recordRepo:   records,
		auditService: audit,
		statsCache:   cache,
		now:          fixedClock(clinicNow),
	}
	return u, patients, records, audit, cache
}

func TestCreatePatientThenCheck(t *testing.T) {
	u, _, _, _, _ := newTestPatientUsecase()
	ctx := context.Background()

	before, err := u.CheckPatient(ctx, "R100")
	if err != nil {
		t.Fatal(err)
	}
	if before.Exists {
		t.Fatal("patient should not exist yet")
	}

	created, err := u.CreatePatient(ctx, &dto.CreatePatientRequest{
		RegistrationNo: "R100",
		Name:           "A B",
		EpfNo:          "E1",
		ContactNo:      "0771234567",
		Gender:         "Male",
		DateOfBirth:    "1990-01-01",
	})
	if err != nil {
		t.Fatal(err)
	}

	after, err := u.CheckPatient(ctx, "R100")
	if err != nil {
		t.Fatal(err)
	}
	if !after.Exists || after.PatientID == nil || *after.PatientID != created.PatientID {
		t.Fatalf("expected exists with id %d, got %+v", created.PatientID, after)
	}

	count, err := u.CountPatients(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count.Count != 1 {
		t.Errorf("expected count 1, got %d", count.Count)
	}
}

func TestCreatePatientNormalizesInput(t *testing.T) {
	u, _, _, _, _ := newTestPatientUsecase()
	ctx := context.Background()

	created, err := u.CreatePatient(ctx, &dto.CreatePatientRequest{
		RegistrationNo: " R7 ",
		Name:           "C D",
		EpfNo:          "",
		Department:     "  ",
		DateOfBirth:    "2000-10-20",
	})
	if err != nil {
		t.Fatal(err)
	}

	patient, err := u.GetPatient(ctx, created.PatientID)
	if err != nil {
		t.Fatal(err)
	}
	if patient.RegistrationNo != "R7" {
		t.Errorf("registration number not trimmed: %q", patient.RegistrationNo)
	}
	if patient.EpfNo != nil || patient.Department != nil {
		t.Error("blank fields should be stored as null")
	}
	if patient.Status != entity.DefaultPatientStatus {
		t.Errorf("expected default status, got %q", patient.Status)
	}
	if patient.DateOfBirth == nil || *patient.DateOfBirth != "2000-10-20" {
		t.Errorf("unexpected date of birth %v", patient.DateOfBirth)
	}
	if patient.Age == nil || *patient.Age != 25 {
		t.Errorf("expected age 25, got %v", patient.Age)
	}
}

func TestCreatePatientDuplicateRegistration(t *testing.T) {
	u, _, _, _, _ := newTestPatientUsecase()
	ctx := context.Background()

	first, err := u.CreatePatient(ctx, &dto.CreatePatientRequest{RegistrationNo: "R1", Name: "First"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = u.CreatePatient(ctx, &dto.CreatePatientRequest{RegistrationNo: "R1", Name: "Second"})
	var conflict *RegistrationConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if conflict.PatientID != first.PatientID {
		t.Errorf("expected existing id %d, got %d", first.PatientID, conflict.PatientID)
	}
}

func TestCreatePatientRejectsInvalidDate(t *testing.T) {
	u, _, _, _, _ := newTestPatientUsecase()

	_, err := u.CreatePatient(context.Background(), &dto.CreatePatientRequest{RegistrationNo: "R1", Name: "X", DateOfBirth: "01/02/1990"})
	if !errors.Is(err, ErrInvalidDateFormat) {
		t.Fatalf("expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestCheckPatientRequiresRegistrationNo(t *testing.T) {
	u, _, _, _, _ := newTestPatientUsecase()

	if _, err := u.CheckPatient(context.Background(), " "); !errors.Is(err, ErrRegistrationNoRequired) {
		t.Fatalf("expected ErrRegistrationNoRequired, got %v", err)
	}
}

func TestGetAllPatientsNewestFirst(t *testing.T) {
	u, _, _, _, _ := newTestPatientUsecase()
	ctx := context.Background()

	for _, reg := range []string{"R1", "R2", "R3"} {
		if _, err := u.CreatePatient(ctx, &dto.CreatePatientRequest{RegistrationNo: reg, Name: reg}); err != nil {
			t.Fatal(err)
		}
	}

	patients, err := u.GetAllPatients(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(patients) != 3 || patients[0].RegistrationNo != "R3" || patients[2].RegistrationNo != "R1" {
		t.Fatalf("unexpected order: %+v", patients)
	}
}

func TestDeletePatient(t *testing.T) {
	u, _, _, audit, cache := newTestPatientUsecase()
	ctx := middleware.WithUser(context.Background(), 9, "admin")

	created, err := u.CreatePatient(ctx, &dto.CreatePatientRequest{RegistrationNo: "R1", Name: "X"})
	if err != nil {
		t.Fatal(err)
	}

	if err := u.DeletePatient(ctx, created.PatientID); err != nil {
		t.Fatal(err)
	}
	if _, err := u.GetPatient(ctx, created.PatientID); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := u.DeletePatient(ctx, created.PatientID); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}

	if !cache.wasInvalidated(service.StatsKeyPatientCount) {
		t.Error("patient count should be invalidated")
	}

	actions := audit.actions()
	if len(actions) != 2 || actions[1] != entity.AuditActionPatientDelete {
		t.Fatalf("unexpected audit trail %v", actions)
	}
	if audit.entries[1].UserID == nil || *audit.entries[1].UserID != 9 {
		t.Error("audit entry should carry the acting user")
	}
}

func TestCountByDepartment(t *testing.T) {
	u, _, _, _, _ := newTestPatientUsecase()
	ctx := context.Background()

	for i, dept := range []string{"Cardiology", "Cardiology", "Surgery", ""} {
		req := &dto.CreatePatientRequest{RegistrationNo: string(rune('A' + i)), Name: "P", Department: dept}
		if _, err := u.CreatePatient(ctx, req); err != nil {
			t.Fatal(err)
		}
	}

	counts, err := u.CountByDepartment(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 3 {
		t.Fatalf("expected 3 groups, got %+v", counts)
	}
	if *counts[0].Department != "Cardiology" || counts[0].Count != 2 {
		t.Errorf("unexpected first group %+v", counts[0])
	}
	if counts[2].Department != nil || counts[2].Count != 1 {
		t.Errorf("unexpected unassigned group %+v", counts[2])
	}
}

func TestIntakeReusesExistingPatient(t *testing.T) {
	u, _, records, audit, _ := newTestPatientUsecase()
	ctx := context.Background()

	req := &dto.IntakeRequest{
		Patient: dto.CreatePatientRequest{RegistrationNo: "R55", Name: "Walk In", DateOfBirth: "1980-05-01"},
		Record:  dto.MedicalRecordRequest{VisitDate: "2026-10-19 09:00:00", PatientHistory: []string{"DM"}},
	}

	first, err := u.Intake(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if !first.PatientCreated {
		t.Error("first intake should create the patient")
	}

	second, err := u.Intake(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if second.PatientCreated {
		t.Error("second intake should reuse the patient")
	}
	if second.PatientID != first.PatientID {
		t.Errorf("expected patient %d to be reused, got %d", first.PatientID, second.PatientID)
	}
	if second.RecordID == first.RecordID {
		t.Error("each intake should append its own record")
	}

	history, _ := records.FindByPatientID(ctx, nil, first.PatientID)
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	if history[0].Age == nil || *history[0].Age != 46 {
		t.Errorf("expected derived age 46, got %v", history[0].Age)
	}

	found := false
	for _, action := range audit.actions() {
		if action == entity.AuditActionPatientIntakeReuse {
			found = true
		}
	}
	if !found {
		t.Error("reuse should be audited")
	}
}
