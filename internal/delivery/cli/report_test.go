package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"clinic-records/internal/delivery/dto"
	"clinic-records/internal/usecase"

	"github.com/fatih/color"
)

type stubPatients struct {
	usecase.PatientUsecase
	patient *dto.PatientResponse
	err     error
}

func (s *stubPatients) CountPatients(ctx context.Context) (*dto.CountResponse, error) {
	return &dto.CountResponse{Count: 42}, s.err
}

func (s *stubPatients) CountByDepartment(ctx context.Context) ([]dto.DepartmentCountResponse, error) {
	dept := "Finance"
	return []dto.DepartmentCountResponse{{Department: &dept, Count: 7}, {Department: nil, Count: 2}}, nil
}

func (s *stubPatients) GetPatient(ctx context.Context, id int64) (*dto.PatientResponse, error) {
	if s.patient == nil {
		return nil, usecase.ErrPatientNotFound
	}
	return s.patient, nil
}

type stubStaff struct {
	usecase.StaffUsecase
}

func (s *stubStaff) CountStaff(ctx context.Context) (*dto.CountResponse, error) {
	return &dto.CountResponse{Count: 5}, nil
}

type stubRecords struct {
	usecase.MedicalRecordUsecase
	latest *dto.LatestRecordResponse
}

func (s *stubRecords) CountPatientsToday(ctx context.Context) (*dto.CountResponse, error) {
	return &dto.CountResponse{Count: 3}, nil
}

func (s *stubRecords) MonthlyStats(ctx context.Context) ([]dto.MonthlyVisitStat, error) {
	return []dto.MonthlyVisitStat{{Month: "Oct 2026", Count: 11}}, nil
}

func (s *stubRecords) YearlyStats(ctx context.Context) ([]dto.YearlyVisitStat, error) {
	return []dto.YearlyVisitStat{{Year: 2026, Count: 30}}, nil
}

func (s *stubRecords) GetLatestRecord(ctx context.Context, patientID int64) (*dto.LatestRecordResponse, error) {
	return s.latest, nil
}

func (s *stubRecords) PatientMonthlyMetrics(ctx context.Context, patientID int64) (*dto.PatientMonthlyMetricsResponse, error) {
	weight := 71.5
	return &dto.PatientMonthlyMetricsResponse{
		PatientID: patientID,
		Monthly: []dto.MonthlyMetric{
			{Month: "Sep 2026"},
			{Month: "Oct 2026", MetricValues: dto.MetricValues{Weight: &weight}},
		},
	}, nil
}

func init() {
	color.NoColor = true
}

func TestDashboard(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, &stubPatients{}, &stubStaff{}, &stubRecords{})

	if err := r.Dashboard(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := out.String()
	for _, want := range []string{"Clinic Overview", "42", "Finance", "Oct 2026", "2026", "30"} {
		if !strings.Contains(got, want) {
			t.Errorf("dashboard is missing %q:\n%s", want, got)
		}
	}
}

func TestDashboardStopsOnError(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("db down")
	r := NewReporter(&out, &stubPatients{err: boom}, &stubStaff{}, &stubRecords{})

	if err := r.Dashboard(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestPatientReport(t *testing.T) {
	bp := "120/80"
	patient := &dto.PatientResponse{ID: 9, RegistrationNo: "REG-9", Name: "Nimal Perera", Status: "active"}
	latest := &dto.LatestRecordResponse{Found: true, Record: &dto.MedicalRecordResponse{VisitDate: "2026-10-19", Bp: &bp}}

	var out bytes.Buffer
	r := NewReporter(&out, &stubPatients{patient: patient}, &stubStaff{}, &stubRecords{latest: latest})

	if err := r.Patient(context.Background(), 9); err != nil {
		t.Fatal(err)
	}

	got := out.String()
	for _, want := range []string{"REG-9", "Nimal Perera", "120/80", "Monthly Trend", "71.5"} {
		if !strings.Contains(got, want) {
			t.Errorf("report is missing %q:\n%s", want, got)
		}
	}
}

func TestPatientReportWithoutVisits(t *testing.T) {
	patient := &dto.PatientResponse{ID: 9, RegistrationNo: "REG-9", Name: "Nimal Perera"}

	var out bytes.Buffer
	r := NewReporter(&out, &stubPatients{patient: patient}, &stubStaff{}, &stubRecords{latest: &dto.LatestRecordResponse{}})

	if err := r.Patient(context.Background(), 9); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No medical record found for this patient") {
		t.Errorf("expected empty-history notice:\n%s", out.String())
	}
}

func TestPatientReportNotFound(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, &stubPatients{}, &stubStaff{}, &stubRecords{})

	if err := r.Patient(context.Background(), 1); !errors.Is(err, usecase.ErrPatientNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
