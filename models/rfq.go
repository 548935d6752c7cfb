package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Rfq is a request-for-quotation sent to vendors for one tender.
type Rfq struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenderID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenderId"`
	Tender   *Tender   `gorm:"foreignKey:TenderID" json:"tender,omitempty"`

	DueDate         *JSONTime `json:"dueDate,omitempty"`
	DocList         string    `gorm:"type:text" json:"docList,omitempty"`
	RequestedVendor string    `gorm:"size:255" json:"requestedVendor,omitempty"`

	Items     []RfqItem     `gorm:"foreignKey:RfqID" json:"items,omitempty"`
	Documents []RfqDocument `gorm:"foreignKey:RfqID" json:"documents,omitempty"`
	Responses []RfqResponse `gorm:"foreignKey:RfqID" json:"responses,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// RfqItem is one requirement line of an RFQ.
type RfqItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RfqID       uuid.UUID `gorm:"type:uuid;index;not null" json:"rfqId"`
	Requirement string    `gorm:"type:text;not null" json:"requirement"`
	Unit        string    `gorm:"size:64" json:"unit,omitempty"`
	Qty         *float64  `json:"qty,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// RfqDocument is an uploaded file attached to an RFQ, referenced as
// "{context}/{filename}" in storage.
type RfqDocument struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RfqID     uuid.UUID      `gorm:"type:uuid;index;not null" json:"rfqId"`
	DocType   string         `gorm:"size:50;not null" json:"docType"`
	Path      string         `gorm:"type:text;not null" json:"path"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

// RfqResponse records one vendor's quotation against an RFQ.
type RfqResponse struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RfqID uuid.UUID `gorm:"type:uuid;index;not null" json:"rfqId"`

	VendorName      string   `gorm:"size:255;not null" json:"vendorName"`
	ReceiptDatetime JSONTime `gorm:"not null" json:"receiptDatetime"`
	GSTPercentage   *float64 `gorm:"column:gst_percentage" json:"gstPercentage,omitempty"`
	GSTType         string   `gorm:"column:gst_type;size:50" json:"gstType,omitempty"`
	DeliveryTime    *int     `json:"deliveryTime,omitempty"`
	FreightType     string   `gorm:"size:50" json:"freightType,omitempty"`
	Notes           string   `gorm:"type:text" json:"notes,omitempty"`

	Items []RfqResponseItem `gorm:"foreignKey:ResponseID" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// RfqResponseItem carries vendor pricing for one RFQ item. The
// requirement text is denormalized so a response stays readable even if
// the RFQ line is edited later.
type RfqResponseItem struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ResponseID uuid.UUID `gorm:"type:uuid;index;not null" json:"responseId"`
	RfqItemID  uuid.UUID `gorm:"type:uuid;index;not null" json:"rfqItemId"`

	Requirement string   `gorm:"type:text;not null" json:"requirement"`
	Unit        string   `gorm:"size:64" json:"unit,omitempty"`
	Qty         *float64 `json:"qty,omitempty"`
	UnitPrice   *float64 `json:"unitPrice,omitempty"`
	TotalPrice  *float64 `json:"totalPrice,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
