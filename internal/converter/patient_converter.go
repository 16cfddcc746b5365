package converter

import (
	"time"

	"clinic-records/internal/delivery/dto"
	"clinic-records/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO.
// Age is derived from the date of birth as of now.
func PatientToResponse(patient *entity.Patient, now time.Time) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	response := &dto.PatientResponse{
		ID:             patient.ID,
		RegistrationNo: patient.RegistrationNo,
		Name:           patient.Name,
		EpfNo:          patient.EpfNo,
		Department:     patient.Department,
		ContactNo:      patient.ContactNo,
		Gender:         patient.Gender,
		Status:         patient.Status,
		CreatedAt:      patient.CreatedAt,
	}

	if patient.DateOfBirth != nil {
		dob := patient.DateOfBirth.String()
		age := entity.AgeAt(patient.DateOfBirth.Time, now)
		response.DateOfBirth = &dob
		response.Age = &age
	}

	return response
}

// PatientsToResponses converts a slice of Patient entities, keeping their order.
func PatientsToResponses(patients []entity.Patient, now time.Time) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i], now)
	}
	return responses
}

func DepartmentCountsToResponses(counts []entity.DepartmentCount) []dto.DepartmentCountResponse {
	responses := make([]dto.DepartmentCountResponse, len(counts))
	for i, c := range counts {
		responses[i] = dto.DepartmentCountResponse{
			Department: c.Department,
			Count:      c.Count,
		}
	}
	return responses
}
