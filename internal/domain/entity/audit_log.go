package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *int64    `gorm:"index" json:"user_id,omitempty"`
	Action     string    `gorm:"type:varchar(100);not null;index" json:"action"`
	EntityType string    `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID   string    `gorm:"type:varchar(64);not null;index" json:"entity_id"`
	Metadata   JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter narrows an audit log listing.
type AuditLogFilter struct {
	Action     string
	EntityType string
	EntityID   string
	Limit      int
	Offset     int
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

const (
	AuditEntityPatient       = "patient"
	AuditEntityStaff         = "staff"
	AuditEntityMedicalRecord = "medical_record"
	AuditEntityUser          = "user"
)

// Common audit actions
const (
	AuditActionUserRegister       = "user.register"
	AuditActionPatientCreate      = "patient.create"
	AuditActionPatientDelete      = "patient.delete"
	AuditActionStaffCreate        = "staff.create"
	AuditActionStaffUpdate        = "staff.update"
	AuditActionStaffStatus        = "staff.status"
	AuditActionStaffDelete        = "staff.delete"
	AuditActionRecordCreate       = "medical_record.create"
	AuditActionRecordRevise       = "medical_record.revise"
	AuditActionPatientIntakeReuse = "patient.intake_reuse"
)
