package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"clinic-records/internal/usecase"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

const blank = "-"

// Reporter prints clinic summaries as terminal tables. It reads through the
// same usecases the HTTP API uses, so cached stats are shared.
type Reporter struct {
	out           io.Writer
	patient       usecase.PatientUsecase
	staff         usecase.StaffUsecase
	medicalRecord usecase.MedicalRecordUsecase
}

func NewReporter(out io.Writer, patient usecase.PatientUsecase, staff usecase.StaffUsecase, medicalRecord usecase.MedicalRecordUsecase) *Reporter {
	return &Reporter{
		out:           out,
		patient:       patient,
		staff:         staff,
		medicalRecord: medicalRecord,
	}
}

// Dashboard prints the headline counts followed by department and visit breakdowns.
func (r *Reporter) Dashboard(ctx context.Context) error {
	patients, err := r.patient.CountPatients(ctx)
	if err != nil {
		return err
	}
	staff, err := r.staff.CountStaff(ctx)
	if err != nil {
		return err
	}
	today, err := r.medicalRecord.CountPatientsToday(ctx)
	if err != nil {
		return err
	}

	r.heading("Clinic Overview")
	table := r.table([]string{"Metric", "Count"})
	table.Append([]string{"Patients", strconv.FormatInt(patients.Count, 10)})
	table.Append([]string{"Staff", strconv.FormatInt(staff.Count, 10)})
	table.Append([]string{"Patients seen today", strconv.FormatInt(today.Count, 10)})
	table.Render()

	departments, err := r.patient.CountByDepartment(ctx)
	if err != nil {
		return err
	}
	r.heading("Patients by Department")
	table = r.table([]string{"Department", "Patients"})
	for _, d := range departments {
		table.Append([]string{str(d.Department), strconv.FormatInt(d.Count, 10)})
	}
	table.Render()

	monthly, err := r.medicalRecord.MonthlyStats(ctx)
	if err != nil {
		return err
	}
	r.heading("Patients Seen per Month")
	table = r.table([]string{"Month", "Patients"})
	for _, m := range monthly {
		table.Append([]string{m.Month, strconv.FormatInt(m.Count, 10)})
	}
	table.Render()

	yearly, err := r.medicalRecord.YearlyStats(ctx)
	if err != nil {
		return err
	}
	r.heading("Patients Seen per Year")
	table = r.table([]string{"Year", "Patients"})
	for _, y := range yearly {
		table.Append([]string{strconv.Itoa(y.Year), strconv.FormatInt(y.Count, 10)})
	}
	table.Render()

	return nil
}

// Patient prints one patient's demographics, their latest visit and the
// monthly metric trend.
func (r *Reporter) Patient(ctx context.Context, id int64) error {
	patient, err := r.patient.GetPatient(ctx, id)
	if err != nil {
		return err
	}

	r.heading(fmt.Sprintf("Patient %s", patient.RegistrationNo))
	table := r.table([]string{"Field", "Value"})
	table.Append([]string{"Name", patient.Name})
	table.Append([]string{"Department", str(patient.Department)})
	table.Append([]string{"Gender", str(patient.Gender)})
	table.Append([]string{"Date of birth", str(patient.DateOfBirth)})
	table.Append([]string{"Age", intStr(patient.Age)})
	table.Append([]string{"Status", patient.Status})
	table.Render()

	latest, err := r.medicalRecord.GetLatestRecord(ctx, id)
	if err != nil {
		return err
	}
	if !latest.Found {
		color.New(color.FgGreen).Fprintln(r.out, "No medical record found for this patient")
		return nil
	}

	rec := latest.Record
	r.heading(fmt.Sprintf("Latest Visit (%s)", rec.VisitDate))
	table = r.table([]string{"Measure", "Value"})
	table.Append([]string{"Weight", floatStr(rec.Weight)})
	table.Append([]string{"Height", floatStr(rec.Height)})
	table.Append([]string{"BMI", floatStr(rec.Bmi)})
	table.Append([]string{"Waist", floatStr(rec.Waist)})
	table.Append([]string{"BP", str(rec.Bp)})
	table.Append([]string{"RBS", floatStr(rec.Rbs)})
	table.Append([]string{"FBS", floatStr(rec.Fbs)})
	table.Render()

	metrics, err := r.medicalRecord.PatientMonthlyMetrics(ctx, id)
	if err != nil {
		return err
	}
	r.heading("Monthly Trend")
	table = r.table([]string{"Month", "Weight", "BMI", "BP", "RBS", "FBS"})
	for _, m := range metrics.Monthly {
		table.Append([]string{m.Month, floatStr(m.Weight), floatStr(m.Bmi), str(m.Bp), floatStr(m.Rbs), floatStr(m.Fbs)})
	}
	table.Render()

	return nil
}

func (r *Reporter) heading(title string) {
	color.New(color.FgYellow).Fprintf(r.out, "\n%s\n", title)
}

func (r *Reporter) table(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader(header)
	return table
}

func str(s *string) string {
	if s == nil || *s == "" {
		return blank
	}
	return *s
}

func intStr(i *int) string {
	if i == nil {
		return blank
	}
	return strconv.Itoa(*i)
}

func floatStr(f *float64) string {
	if f == nil {
		return blank
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
