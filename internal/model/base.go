package model

import "time"

// BaseModel audit columns embedded by every table
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// VersionedModel audit columns plus an optimistic-lock version
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// ── shared enumerations ──

// Record status for users, lab rooms and courses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ValidStatuses allowed values of the active/inactive status column
var ValidStatuses = []string{StatusActive, StatusInactive}
