package converter

import (
	"clinic-records/internal/delivery/dto"
	"clinic-records/internal/domain/entity"
)

const VisitDateLayout = "2006-01-02 15:04:05"

// MedicalRecordToResponse decodes condition lists strictly: anything that is not a
// JSON array comes back as an empty list.
func MedicalRecordToResponse(record *entity.MedicalRecord) *dto.MedicalRecordResponse {
	if record == nil {
		return nil
	}

	response := baseRecordResponse(record)
	response.PatientHistory = entity.DecodeConditions(record.PatientHistory)
	response.FamilyHistoryFather = entity.DecodeConditions(record.FamilyHistoryFather)
	response.FamilyHistoryMother = entity.DecodeConditions(record.FamilyHistoryMother)
	response.FamilyHistorySiblings = entity.DecodeConditions(record.FamilyHistorySiblings)
	return response
}

// LatestMedicalRecordToResponse decodes condition lists leniently so legacy scalar
// values survive, and reads siblings from the legacy column when needed.
func LatestMedicalRecordToResponse(record *entity.MedicalRecord) *dto.MedicalRecordResponse {
	if record == nil {
		return nil
	}

	response := baseRecordResponse(record)
	response.PatientHistory = entity.CoerceConditions(record.PatientHistory)
	response.FamilyHistoryFather = entity.CoerceConditions(record.FamilyHistoryFather)
	response.FamilyHistoryMother = entity.CoerceConditions(record.FamilyHistoryMother)
	response.FamilyHistorySiblings = entity.CoerceConditions(record.SiblingsHistory())
	return response
}

func MedicalRecordsToResponses(records []entity.MedicalRecord) []dto.MedicalRecordResponse {
	responses := make([]dto.MedicalRecordResponse, len(records))
	for i := range records {
		responses[i] = *MedicalRecordToResponse(&records[i])
	}
	return responses
}

// RecordMetrics projects the charted metric set of a visit.
func RecordMetrics(record *entity.MedicalRecord) dto.MetricValues {
	if record == nil {
		return dto.MetricValues{}
	}
	return dto.MetricValues{
		Weight: record.Weight,
		Height: record.Height,
		Bmi:    record.Bmi,
		Waist:  record.Waist,
		Bp:     record.Bp,
		Rbs:    record.Rbs,
		Fbs:    record.Fbs,
	}
}

func MonthlyStatsToResponses(stats []entity.MonthlyVisitCount) []dto.MonthlyVisitStat {
	responses := make([]dto.MonthlyVisitStat, len(stats))
	for i, s := range stats {
		responses[i] = dto.MonthlyVisitStat{Month: s.Month, Count: s.Count}
	}
	return responses
}

func YearlyStatsToResponses(stats []entity.YearlyVisitCount) []dto.YearlyVisitStat {
	responses := make([]dto.YearlyVisitStat, len(stats))
	for i, s := range stats {
		responses[i] = dto.YearlyVisitStat{Year: s.Year, Count: s.Count}
	}
	return responses
}

func baseRecordResponse(record *entity.MedicalRecord) *dto.MedicalRecordResponse {
	return &dto.MedicalRecordResponse{
		ID:                      record.ID,
		PatientID:               record.PatientID,
		VisitDate:               record.VisitDate.Format(VisitDateLayout),
		Age:                     record.Age,
		Height:                  record.Height,
		Weight:                  record.Weight,
		Bmi:                     record.Bmi,
		Waist:                   record.Waist,
		Rbs:                     record.Rbs,
		Fbs:                     record.Fbs,
		Bp:                      record.Bp,
		VisionLeft:              record.VisionLeft,
		VisionRight:             record.VisionRight,
		BreastExamination:       record.BreastExamination,
		PapSmear:                record.PapSmear,
		AlcoholConsumption:      record.AlcoholConsumption,
		SmokingHabits:           record.SmokingHabits,
		TreatmentPlan:           record.TreatmentPlan,
		SmokingCessationAdvice:  record.SmokingCessationAdvice,
		AlcoholAbuseAdvice:      record.AlcoholAbuseAdvice,
		OtherPatientConditions:  record.OtherPatientConditions,
		OtherFatherConditions:   record.OtherFatherConditions,
		OtherMotherConditions:   record.OtherMotherConditions,
		OtherSiblingsConditions: record.OtherSiblingsConditions,
		CurrentProblems:         record.CurrentProblems,
		CreatedAt:               record.CreatedAt,
	}
}
