package models

import (
	"time"

	"github.com/google/uuid"
)

// TenderResult records the outcome of a submitted bid. Absence of a row
// means the result is still awaited.
type TenderResult struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenderID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"tenderId"`
	Tender   *Tender   `gorm:"foreignKey:TenderID" json:"tender,omitempty"`

	Status string `gorm:"size:50;not null;index" json:"status"`

	// L1 details from the published price bid result.
	L1Vendor   string     `gorm:"column:l1_vendor;size:500" json:"l1Vendor,omitempty"`
	L1Price    *float64   `gorm:"column:l1_price" json:"l1Price,omitempty"`
	OurRank    *int       `json:"ourRank,omitempty"`
	ResultDoc  string     `gorm:"type:text" json:"resultDoc,omitempty"`
	Remarks    string     `gorm:"type:text" json:"remarks,omitempty"`
	UploadedBy *uuid.UUID `gorm:"type:uuid" json:"uploadedBy,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
