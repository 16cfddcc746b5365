package dto

import "time"

// Request DTOs

type CreatePatientRequest struct {
	RegistrationNo string `json:"registrationNo" validate:"required,max=100"`
	Name           string `json:"name" validate:"required,max=255"`
	EpfNo          string `json:"epfNo" validate:"omitempty,max=100"`
	Department     string `json:"department" validate:"omitempty,max=150"`
	ContactNo      string `json:"contactNo" validate:"omitempty,max=50"`
	Gender         string `json:"gender" validate:"omitempty,oneof=Male Female"`
	DateOfBirth    string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Status         string `json:"status" validate:"omitempty,max=50"`
}

// IntakeRequest registers a patient (or reuses the existing one with the same
// registration number) and appends their first visit.
type IntakeRequest struct {
	Patient CreatePatientRequest `json:"patient"`
	Record  MedicalRecordRequest `json:"record"`
}

// Response DTOs

type PatientResponse struct {
	ID             int64     `json:"id"`
	RegistrationNo string    `json:"registrationNo"`
	Name           string    `json:"name"`
	EpfNo          *string   `json:"epfNo"`
	Department     *string   `json:"department"`
	ContactNo      *string   `json:"contactNo"`
	Gender         *string   `json:"gender"`
	DateOfBirth    *string   `json:"dateOfBirth"`
	Age            *int      `json:"age"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

type PatientCreatedResponse struct {
	PatientID int64 `json:"patientId"`
}

type PatientCheckResponse struct {
	Exists    bool   `json:"exists"`
	PatientID *int64 `json:"patientId,omitempty"`
}

type DepartmentCountResponse struct {
	Department *string `json:"department"`
	Count      int64   `json:"count"`
}

type IntakeResponse struct {
	PatientID      int64 `json:"patientId"`
	RecordID       int64 `json:"recordId"`
	PatientCreated bool  `json:"patientCreated"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}
