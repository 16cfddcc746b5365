package converter

import (
	"clinic-records/internal/delivery/dto"
	"clinic-records/internal/domain/entity"
)

// StaffToResponse converts a Staff entity to StaffResponse DTO
func StaffToResponse(staff *entity.Staff) *dto.StaffResponse {
	if staff == nil {
		return nil
	}

	var expiry *string
	if staff.LicenseExpiryDate != nil {
		s := staff.LicenseExpiryDate.String()
		expiry = &s
	}

	return &dto.StaffResponse{
		ID:                      staff.ID,
		EpfNumber:               staff.EpfNumber,
		Name:                    staff.Name,
		Designation:             staff.Designation,
		Experience:              staff.Experience,
		Gender:                  staff.Gender,
		ProfileImage:            staff.ProfileImage,
		ContactNo:               staff.ContactNo,
		PrimarySpecialization:   staff.PrimarySpecialization,
		SecondarySpecialization: staff.SecondarySpecialization,
		MedicalLicenseNumber:    staff.MedicalLicenseNumber,
		LicenseExpiryDate:       expiry,
		Qualifications:          staff.Qualifications,
		Status:                  staff.Status,
		CreatedAt:               staff.CreatedAt,
		UpdatedAt:               staff.UpdatedAt,
	}
}

// StaffListToResponses converts a slice of Staff entities to slice of StaffResponse DTOs
func StaffListToResponses(staff []entity.Staff) []dto.StaffResponse {
	responses := make([]dto.StaffResponse, len(staff))
	for i := range staff {
		responses[i] = *StaffToResponse(&staff[i])
	}
	return responses
}
