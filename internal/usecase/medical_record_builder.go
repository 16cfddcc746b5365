package usecase

import (
	"errors"
	"strings"
	"time"

	"clinic-records/internal/delivery/dto"
	"clinic-records/internal/domain/entity"
	"clinic-records/pkg/nullable"
)

// maxBMI matches the bound on a caller-supplied bmi.
const maxBMI = 200

var (
	ErrInvalidVisitDate = errors.New("invalid visitDate, use YYYY-MM-DD HH:MM:SS")
	ErrBMIOutOfRange    = errors.New("bmi derived from weight and height must be greater than 0 and at most 200")
)

var visitDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseVisitDate reads a visit timestamp in server local time. A blank value means now.
func parseVisitDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(now.Location()), nil
	}
	for _, layout := range visitDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidVisitDate
}

// buildMedicalRecord turns a request into a new visit row for the patient.
func buildMedicalRecord(req *dto.MedicalRecordRequest, patient *entity.Patient, now time.Time) (*entity.MedicalRecord, error) {
	record := &entity.MedicalRecord{PatientID: patient.ID}
	if err := applyRecordRequest(record, req, patient, now); err != nil {
		return nil, err
	}
	return record, nil
}

// reviseMedicalRecord copies the latest visit and lays the supplied fields over it.
// The result is a new row; the latest visit itself is never modified.
func reviseMedicalRecord(latest *entity.MedicalRecord, req *dto.MedicalRecordRequest, patient *entity.Patient, now time.Time) (*entity.MedicalRecord, error) {
	record := *latest
	record.ID = 0
	record.CreatedAt = time.Time{}
	if record.FamilyHistorySiblings == nil {
		record.FamilyHistorySiblings = latest.FamilyHistorySibling
	}
	record.FamilyHistorySibling = nil
	record.PatientID = patient.ID

	if err := applyRecordRequest(&record, req, patient, now); err != nil {
		return nil, err
	}
	return &record, nil
}

// applyRecordRequest overlays every supplied field of req onto record. Absent
// numbers, blank strings and nil lists leave the record untouched; an empty list
// clears a condition field.
func applyRecordRequest(record *entity.MedicalRecord, req *dto.MedicalRecordRequest, patient *entity.Patient, now time.Time) error {
	visitDate, err := parseVisitDate(req.VisitDate, now)
	if err != nil {
		return err
	}
	record.VisitDate = visitDate

	overlayFloat(&record.Height, req.Height)
	overlayFloat(&record.Weight, req.Weight)
	overlayFloat(&record.Bmi, req.Bmi)
	overlayFloat(&record.Waist, req.Waist)
	overlayFloat(&record.Rbs, req.Rbs)
	overlayFloat(&record.Fbs, req.Fbs)
	if req.Age.Valid {
		record.Age = req.Age.Ptr()
	}

	overlayString(&record.Bp, req.Bp)
	overlayString(&record.VisionLeft, req.VisionLeft)
	overlayString(&record.VisionRight, req.VisionRight)
	overlayString(&record.BreastExamination, req.BreastExamination)
	overlayString(&record.PapSmear, req.PapSmear)
	overlayString(&record.AlcoholConsumption, req.AlcoholConsumption)
	overlayString(&record.SmokingHabits, req.SmokingHabits)
	overlayString(&record.TreatmentPlan, req.TreatmentPlan)
	overlayString(&record.SmokingCessationAdvice, req.SmokingCessationAdvice)
	overlayString(&record.AlcoholAbuseAdvice, req.AlcoholAbuseAdvice)
	overlayString(&record.OtherPatientConditions, req.OtherPatientConditions)
	overlayString(&record.OtherFatherConditions, req.OtherFatherConditions)
	overlayString(&record.OtherMotherConditions, req.OtherMotherConditions)
	overlayString(&record.OtherSiblingsConditions, req.OtherSiblingsConditions)
	overlayString(&record.CurrentProblems, req.CurrentProblems)

	overlayConditions(&record.PatientHistory, req.PatientHistory)
	overlayConditions(&record.FamilyHistoryFather, req.FamilyHistoryFather)
	overlayConditions(&record.FamilyHistoryMother, req.FamilyHistoryMother)
	overlayConditions(&record.FamilyHistorySiblings, req.FamilyHistorySiblings)

	// BMI follows the measurements unless the caller sent one explicitly.
	if !req.Bmi.Valid && (req.Weight.Valid || req.Height.Valid) && record.Weight != nil && record.Height != nil {
		if bmi, ok := entity.CalculateBMI(*record.Weight, *record.Height); ok {
			if bmi <= 0 || bmi > maxBMI {
				return ErrBMIOutOfRange
			}
			record.Bmi = &bmi
		}
	}

	if !req.Age.Valid && patient.DateOfBirth != nil {
		age := entity.AgeAt(patient.DateOfBirth.Time, visitDate)
		record.Age = &age
	}

	return nil
}

func overlayFloat(dst **float64, v nullable.Float) {
	if v.Valid {
		*dst = v.Ptr()
	}
}

func overlayString(dst **string, v string) {
	if s := nullable.String(v); s != nil {
		*dst = s
	}
}

func overlayConditions(dst **string, list []string) {
	if list != nil {
		*dst = entity.EncodeConditions(list)
	}
}
