package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PaymentRequest asks accounts to arrange money for a tender: EMD,
// tender fee, or processing fee. Instruments hang off the request.
type PaymentRequest struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenderID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenderId"`
	Tender   *Tender   `gorm:"foreignKey:TenderID" json:"tender,omitempty"`

	Purpose        string    `gorm:"size:50;not null;index" json:"purpose"`
	AmountRequired float64   `gorm:"not null" json:"amountRequired"`
	DueDate        *JSONTime `json:"dueDate,omitempty"`
	RequestedBy    string    `gorm:"size:200" json:"requestedBy,omitempty"`

	Status  string `gorm:"size:50;not null;default:'Pending'" json:"status"`
	Remarks string `gorm:"type:text" json:"remarks,omitempty"`

	Instruments []PaymentInstrument `gorm:"foreignKey:RequestID" json:"instruments,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// PaymentInstrument is the concrete vehicle chosen for a request. The
// instrument type is immutable after creation; Details holds the
// per-type fields validated against the instrument rule table.
type PaymentInstrument struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID uuid.UUID `gorm:"type:uuid;index;not null" json:"requestId"`

	InstrumentType string         `gorm:"size:50;not null;index" json:"instrumentType"`
	Details        datatypes.JSON `gorm:"type:jsonb;not null" json:"details"`

	Status string `gorm:"size:100;not null;index" json:"status"`

	UTR            string `gorm:"column:utr;size:255" json:"utr,omitempty"`
	DocketNo       string `gorm:"size:255" json:"docketNo,omitempty"`
	CourierAddress string `gorm:"type:text" json:"courierAddress,omitempty"`

	RejectionReason string `gorm:"type:text" json:"rejectionReason,omitempty"`
	Remarks         string `gorm:"type:text" json:"remarks,omitempty"`

	IsActive bool `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
