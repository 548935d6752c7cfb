package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is one row of the tender status master. IDs are stable and
// seeded by migration; application code treats unknown ids as a
// configuration error.
type Status struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Stage    string `gorm:"size:50;not null" json:"stage"`
	Category string `gorm:"size:50;not null" json:"category"`
}

// TenderStatusHistory is the append-only audit trail of status changes,
// both manual and those triggered by workflow actions.
type TenderStatusHistory struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenderID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"tenderId"`
	PrevStatus uint       `json:"prevStatus"`
	NewStatus  uint       `gorm:"not null" json:"newStatus"`
	Comment    string     `gorm:"type:text;not null" json:"comment"`
	ChangedBy  *uuid.UUID `gorm:"type:uuid" json:"changedBy,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}
