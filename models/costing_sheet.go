package models

import (
	"time"

	"github.com/google/uuid"
)

// CostingSheet is the price workup for a tender. Status moves
// Draft -> Submitted -> Approved/Rejected; approval gates bid submission.
type CostingSheet struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenderID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"tenderId"`
	Tender   *Tender   `gorm:"foreignKey:TenderID" json:"tender,omitempty"`

	SheetURL   string   `gorm:"column:sheet_url;type:text" json:"sheetUrl,omitempty"`
	FinalPrice *float64 `json:"finalPrice,omitempty"`

	Status string `gorm:"size:50;not null;default:'Draft';index" json:"status"`

	SubmittedBy *uuid.UUID `gorm:"type:uuid" json:"submittedBy,omitempty"`
	SubmittedAt *JSONTime  `json:"submittedAt,omitempty"`

	ReviewedBy    *uuid.UUID `gorm:"type:uuid" json:"reviewedBy,omitempty"`
	ReviewedAt    *JSONTime  `json:"reviewedAt,omitempty"`
	ReviewRemarks string     `gorm:"type:text" json:"reviewRemarks,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
