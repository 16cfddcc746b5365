package dto

import (
	"time"

	"clinic-records/pkg/nullable"

	"github.com/google/uuid"
)

// Request DTOs

// StaffRequest is used for both create and full-row update. License number and
// qualifications are mandatory for doctors and nurses.
type StaffRequest struct {
	EpfNumber               string       `json:"epfNumber" validate:"required,max=100"`
	Name                    string       `json:"name" validate:"required,max=255"`
	Designation             string       `json:"designation" validate:"required,oneof=Doctor Nurse Administrator 'Lab Technician' Pharmacist"`
	Experience              nullable.Int `json:"experience" validate:"omitempty,gte=0,lte=70"`
	Gender                  string       `json:"gender" validate:"omitempty,oneof=Male Female"`
	ProfileImage            string       `json:"profileImage" validate:"omitempty,max=500"`
	ContactNo               string       `json:"contactNo" validate:"required,max=50"`
	PrimarySpecialization   string       `json:"primarySpecialization" validate:"omitempty,max=150"`
	SecondarySpecialization string       `json:"secondarySpecialization" validate:"omitempty,max=150"`
	MedicalLicenseNumber    string       `json:"medicalLicenseNumber" validate:"required_if_oneof=Designation Doctor Nurse,max=100"`
	LicenseExpiryDate       string       `json:"licenseExpiryDate" validate:"omitempty,datetime=2006-01-02,not_past_date"`
	Qualifications          string       `json:"qualifications" validate:"required_if_oneof=Designation Doctor Nurse"`
	Status                  string       `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

type StaffStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Active Inactive"`
}

// Response DTOs

type StaffResponse struct {
	ID                      uuid.UUID `json:"id"`
	EpfNumber               string    `json:"epfNumber"`
	Name                    string    `json:"name"`
	Designation             string    `json:"designation"`
	Experience              *int      `json:"experience"`
	Gender                  string    `json:"gender"`
	ProfileImage            *string   `json:"profileImage"`
	ContactNo               string    `json:"contactNo"`
	PrimarySpecialization   *string   `json:"primarySpecialization"`
	SecondarySpecialization *string   `json:"secondarySpecialization"`
	MedicalLicenseNumber    *string   `json:"medicalLicenseNumber"`
	LicenseExpiryDate       *string   `json:"licenseExpiryDate"`
	Qualifications          *string   `json:"qualifications"`
	Status                  string    `json:"status"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

type StaffCreatedResponse struct {
	StaffID uuid.UUID `json:"staffId"`
}
