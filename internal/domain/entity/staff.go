package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	DesignationDoctor        = "Doctor"
	DesignationNurse         = "Nurse"
	DesignationAdministrator = "Administrator"
	DesignationLabTechnician = "Lab Technician"
	DesignationPharmacist    = "Pharmacist"

	StaffStatusActive   = "Active"
	StaffStatusInactive = "Inactive"

	DefaultStaffGender = GenderMale
)

// Specializations is the suggestion list offered for primary and secondary specialization.
var Specializations = []string{
	"General Practitioner",
	"Cardiologist",
	"Dermatologist",
	"Neurologist",
	"Surgeon",
	"Pediatrician",
	"Psychiatrist",
	"Gynecologist",
	"Radiologist",
	"Nurse",
	"Lab Technician",
	"Pharmacist",
	"Other",
}

type Staff struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey"`
	EpfNumber               string    `gorm:"type:varchar(100);not null"`
	Name                    string    `gorm:"type:varchar(255);not null"`
	Designation             string    `gorm:"type:varchar(50);not null"`
	Experience              *int      `gorm:"type:integer"`
	Gender                  string    `gorm:"type:varchar(10);not null;default:Male"`
	ProfileImage            *string   `gorm:"type:varchar(500)"`
	ContactNo               string    `gorm:"type:varchar(50);not null"`
	PrimarySpecialization   *string   `gorm:"type:varchar(150)"`
	SecondarySpecialization *string   `gorm:"type:varchar(150)"`
	MedicalLicenseNumber    *string   `gorm:"type:varchar(100)"`
	LicenseExpiryDate       *Date     `gorm:"type:date"`
	Qualifications          *string   `gorm:"type:text"`
	Status                  string    `gorm:"type:varchar(20);not null;default:Active"`
	CreatedAt               time.Time `gorm:"autoCreateTime"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime"`
}

func (Staff) TableName() string {
	return "staff"
}

// RequiresLicense reports whether the designation needs license details on file.
func RequiresLicense(designation string) bool {
	return designation == DesignationDoctor || designation == DesignationNurse
}
