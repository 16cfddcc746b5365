package entity

import "time"

const (
	ExaminationDone    = "Done"
	ExaminationNotDone = "Not Done"
)

// MedicalRecord is one clinical visit. Rows are append-only: a change to a
// patient's clinical state is a new row, and the latest visit is the current state.
//
// The four condition-list columns hold JSON array text, see EncodeConditions.
type MedicalRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	PatientID int64     `gorm:"not null;index"`
	VisitDate time.Time `gorm:"type:timestamp;not null;index"`

	Age    *int     `gorm:"type:integer"`
	Height *float64 `gorm:"type:numeric(6,2)"`
	Weight *float64 `gorm:"type:numeric(6,2)"`
	Bmi    *float64 `gorm:"type:numeric(5,1)"`
	Waist  *float64 `gorm:"type:numeric(6,2)"`
	Rbs    *float64 `gorm:"type:numeric(6,2)"`
	Fbs    *float64 `gorm:"type:numeric(6,2)"`
	Bp     *string  `gorm:"type:varchar(20)"`

	VisionLeft        *string `gorm:"type:varchar(20)"`
	VisionRight       *string `gorm:"type:varchar(20)"`
	BreastExamination *string `gorm:"type:varchar(20)"`
	PapSmear          *string `gorm:"type:varchar(20)"`

	AlcoholConsumption     *string `gorm:"type:varchar(100)"`
	SmokingHabits          *string `gorm:"type:varchar(100)"`
	TreatmentPlan          *string `gorm:"type:text"`
	SmokingCessationAdvice *string `gorm:"type:text"`
	AlcoholAbuseAdvice     *string `gorm:"type:text"`

	PatientHistory        *string `gorm:"type:text"`
	FamilyHistoryFather   *string `gorm:"type:text"`
	FamilyHistoryMother   *string `gorm:"type:text"`
	FamilyHistorySiblings *string `gorm:"type:text"`
	// Legacy singular column, read only.
	FamilyHistorySibling *string `gorm:"->;type:text"`

	OtherPatientConditions  *string `gorm:"type:text"`
	OtherFatherConditions   *string `gorm:"type:text"`
	OtherMotherConditions   *string `gorm:"type:text"`
	OtherSiblingsConditions *string `gorm:"type:text"`

	CurrentProblems *string   `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (MedicalRecord) TableName() string {
	return "patientmedicalrecords"
}

// SiblingsHistory returns the siblings column, falling back to the legacy singular one.
func (m *MedicalRecord) SiblingsHistory() *string {
	if m.FamilyHistorySiblings != nil {
		return m.FamilyHistorySiblings
	}
	return m.FamilyHistorySibling
}

// MonthlyVisitCount is the number of distinct patients seen in one calendar month.
type MonthlyVisitCount struct {
	Month string
	Count int64
}

// YearlyVisitCount is the number of distinct patients seen in one calendar year.
type YearlyVisitCount struct {
	Year  int
	Count int64
}
