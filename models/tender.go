package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Tender is the master record one row per tender notice. Status references
// the statuses table; TLStatus carries the team lead's decision on the
// info sheet (0 pending, 1 approved, 2 rejected, 3 incomplete).
type Tender struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenderNo     string     `gorm:"size:255;uniqueIndex;not null" json:"tenderNo"`
	TenderName   string     `gorm:"size:500;not null" json:"tenderName"`
	Organization string     `gorm:"size:500" json:"organization"`
	Item         string     `gorm:"size:500" json:"item"`
	Team         string     `gorm:"size:100" json:"team"`
	TeamMemberID *uuid.UUID `gorm:"type:uuid;index" json:"teamMemberId,omitempty"`
	TeamMember   *User      `gorm:"foreignKey:TeamMemberID" json:"teamMember,omitempty"`

	GSTValues  *float64 `gorm:"column:gst_values" json:"gstValues,omitempty"`
	TenderFees *float64 `json:"tenderFees,omitempty"`
	EMD        *float64 `gorm:"column:emd" json:"emd,omitempty"`

	TenderFeeMode string `gorm:"size:50" json:"tenderFeeMode"`
	EMDMode       string `gorm:"column:emd_mode;size:50" json:"emdMode"`

	DueDate JSONTime `gorm:"not null;index" json:"dueDate"`

	StatusID uint    `gorm:"not null;default:1;index" json:"statusId"`
	Status   *Status `gorm:"foreignKey:StatusID" json:"status,omitempty"`

	TLStatus           int    `gorm:"column:tl_status;not null;default:0" json:"tlStatus"`
	TLRejectionRemarks string `gorm:"column:tl_rejection_remarks;type:text" json:"tlRejectionRemarks,omitempty"`

	// Comma-separated vendor emails the RFQ went out to.
	RfqTo          string `gorm:"type:text" json:"rfqTo,omitempty"`
	CourierAddress string `gorm:"type:text" json:"courierAddress,omitempty"`

	OemNotAllowed bool `gorm:"default:false" json:"oemNotAllowed"`

	ApprovePqrSelection        pq.StringArray `gorm:"type:text[]" json:"approvePqrSelection,omitempty"`
	ApproveFinanceDocSelection pq.StringArray `gorm:"type:text[]" json:"approveFinanceDocSelection,omitempty"`

	// Soft delete flag carried from the upstream data; 0 live, 1 removed.
	DeleteStatus int `gorm:"not null;default:0;index" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
