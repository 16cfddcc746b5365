package dto

import (
	"time"

	"clinic-records/internal/domain/entity"
)

// Response DTOs

type AuditLogResponse struct {
	ID         int64         `json:"id"`
	User       *UserResponse `json:"user,omitempty"`
	Action     string        `json:"action"`
	EntityType string        `json:"entity_type"`
	EntityID   string        `json:"entity_id"`
	Metadata   entity.JSON   `json:"metadata"`
	CreatedAt  time.Time     `json:"created_at"`
}
