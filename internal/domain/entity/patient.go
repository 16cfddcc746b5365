package entity

import "time"

const (
	GenderMale   = "Male"
	GenderFemale = "Female"

	DefaultPatientStatus = "active"
)

// Patient is one individual's demographic record. RegistrationNo is the
// business key and is unique at the storage layer.
type Patient struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	RegistrationNo string    `gorm:"type:varchar(100);uniqueIndex:patients_registration_no_key;not null"`
	Name           string    `gorm:"type:varchar(255);not null"`
	EpfNo          *string   `gorm:"type:varchar(100)"`
	Department     *string   `gorm:"type:varchar(150)"`
	ContactNo      *string   `gorm:"type:varchar(50)"`
	Gender         *string   `gorm:"type:varchar(10)"`
	DateOfBirth    *Date     `gorm:"type:date"`
	Status         string    `gorm:"type:varchar(50);not null;default:active"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Patient) TableName() string {
	return "patients"
}

// DepartmentCount is one row of the per-department patient tally.
type DepartmentCount struct {
	Department *string
	Count      int64
}
