package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BidSubmission tracks whether and how a bid went out for a tender.
// One row per tender; a pending row is created when the tender enters
// the bid window, and the same row is later marked submitted or missed.
type BidSubmission struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenderID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"tenderId"`
	Tender   *Tender   `gorm:"foreignKey:TenderID" json:"tender,omitempty"`

	Status string `gorm:"size:50;not null;default:'Submission Pending';index" json:"status"`

	SubmissionDatetime *JSONTime      `json:"submissionDatetime,omitempty"`
	SubmittedDocs      pq.StringArray `gorm:"type:text[]" json:"submittedDocs,omitempty"`
	ProofOfSubmission  string         `gorm:"type:text" json:"proofOfSubmission,omitempty"`
	FinalPriceSS       string         `gorm:"column:final_price_ss;type:text" json:"finalPriceSs,omitempty"`
	FinalBiddingPrice  *float64       `json:"finalBiddingPrice,omitempty"`

	// Filled only on missed tenders; each narrative needs substance,
	// not a one-word excuse.
	ReasonForMissing   string `gorm:"type:text" json:"reasonForMissing,omitempty"`
	PreventionMeasures string `gorm:"type:text" json:"preventionMeasures,omitempty"`
	ProcessImprovement string `gorm:"type:text" json:"processImprovement,omitempty"`

	SubmittedBy *uuid.UUID `gorm:"type:uuid" json:"submittedBy,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
