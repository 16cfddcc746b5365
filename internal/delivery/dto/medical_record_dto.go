package dto

import (
	"time"

	"clinic-records/pkg/nullable"
)

// Request DTOs

// MedicalRecordRequest describes one visit. Numbers may be sent as strings,
// and empty strings are stored as NULL.
type MedicalRecordRequest struct {
	VisitDate string `json:"visitDate"`

	Age    nullable.Int   `json:"age" validate:"omitempty,gte=0,lte=150"`
	Height nullable.Float `json:"height" validate:"omitempty,gt=0,lte=300"`
	Weight nullable.Float `json:"weight" validate:"omitempty,gt=0,lte=500"`
	Bmi    nullable.Float `json:"bmi" validate:"omitempty,gt=0,lte=200"`
	Waist  nullable.Float `json:"waist" validate:"omitempty,gt=0,lte=400"`
	Rbs    nullable.Float `json:"rbs" validate:"omitempty,gte=0,lte=9999"`
	Fbs    nullable.Float `json:"fbs" validate:"omitempty,gte=0,lte=9999"`
	Bp     string         `json:"bp" validate:"omitempty,max=20"`

	VisionLeft        string `json:"visionLeft" validate:"omitempty,max=20"`
	VisionRight       string `json:"visionRight" validate:"omitempty,max=20"`
	BreastExamination string `json:"breastExamination" validate:"omitempty,oneof='Done' 'Not Done'"`
	PapSmear          string `json:"papSmear" validate:"omitempty,oneof='Done' 'Not Done'"`

	AlcoholConsumption     string `json:"alcoholConsumption" validate:"omitempty,max=100"`
	SmokingHabits          string `json:"smokingHabits" validate:"omitempty,max=100"`
	TreatmentPlan          string `json:"treatmentPlan"`
	SmokingCessationAdvice string `json:"smokingCessationAdvice"`
	AlcoholAbuseAdvice     string `json:"alcoholAbuseAdvice"`

	PatientHistory        []string `json:"patientHistory"`
	FamilyHistoryFather   []string `json:"familyHistoryFather"`
	FamilyHistoryMother   []string `json:"familyHistoryMother"`
	FamilyHistorySiblings []string `json:"familyHistorySiblings"`

	OtherPatientConditions  string `json:"otherPatientConditions"`
	OtherFatherConditions   string `json:"otherFatherConditions"`
	OtherMotherConditions   string `json:"otherMotherConditions"`
	OtherSiblingsConditions string `json:"otherSiblingsConditions"`

	CurrentProblems string `json:"currentProblems"`
}

// Response DTOs

type MedicalRecordResponse struct {
	ID        int64  `json:"id"`
	PatientID int64  `json:"patient_id"`
	VisitDate string `json:"visitDate"`

	Age    *int     `json:"age"`
	Height *float64 `json:"height"`
	Weight *float64 `json:"weight"`
	Bmi    *float64 `json:"bmi"`
	Waist  *float64 `json:"waist"`
	Rbs    *float64 `json:"rbs"`
	Fbs    *float64 `json:"fbs"`
	Bp     *string  `json:"bp"`

	VisionLeft        *string `json:"visionLeft"`
	VisionRight       *string `json:"visionRight"`
	BreastExamination *string `json:"breastExamination"`
	PapSmear          *string `json:"papSmear"`

	AlcoholConsumption     *string `json:"alcoholConsumption"`
	SmokingHabits          *string `json:"smokingHabits"`
	TreatmentPlan          *string `json:"treatmentPlan"`
	SmokingCessationAdvice *string `json:"smokingCessationAdvice"`
	AlcoholAbuseAdvice     *string `json:"alcoholAbuseAdvice"`

	PatientHistory        []string `json:"patientHistory"`
	FamilyHistoryFather   []string `json:"familyHistoryFather"`
	FamilyHistoryMother   []string `json:"familyHistoryMother"`
	FamilyHistorySiblings []string `json:"familyHistorySiblings"`

	OtherPatientConditions  *string `json:"otherPatientConditions"`
	OtherFatherConditions   *string `json:"otherFatherConditions"`
	OtherMotherConditions   *string `json:"otherMotherConditions"`
	OtherSiblingsConditions *string `json:"otherSiblingsConditions"`

	CurrentProblems *string   `json:"currentProblems"`
	CreatedAt       time.Time `json:"createdAt"`
}

// LatestRecordResponse distinguishes a returning patient (Found) from one with no visits yet.
type LatestRecordResponse struct {
	Found  bool                   `json:"found"`
	Record *MedicalRecordResponse `json:"record"`
}

type RecordCreatedResponse struct {
	RecordID int64 `json:"recordId"`
}

// MetricValues is the fixed metric set charted per period. All values are null
// for a period without a visit.
type MetricValues struct {
	Weight *float64 `json:"weight"`
	Height *float64 `json:"height"`
	Bmi    *float64 `json:"bmi"`
	Waist  *float64 `json:"waist"`
	Bp     *string  `json:"bp"`
	Rbs    *float64 `json:"rbs"`
	Fbs    *float64 `json:"fbs"`
}

type MonthlyMetric struct {
	Month string `json:"month"`
	MetricValues
}

type YearlyMetric struct {
	Year string `json:"year"`
	MetricValues
}

type PatientMonthlyMetricsResponse struct {
	PatientID int64           `json:"patientId"`
	Monthly   []MonthlyMetric `json:"monthly"`
}

type PatientYearlyMetricsResponse struct {
	PatientID int64          `json:"patientId"`
	Yearly    []YearlyMetric `json:"yearly"`
}

type MonthlyVisitStat struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type YearlyVisitStat struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}
