package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"p9e.in/tms/models"
	"p9e.in/tms/pkg/tenderflow"
)

// TenderWorkflow serializes state-changing tender actions. Every
// operation follows the same shape: read and gate-check without a lock,
// then re-check inside a transaction against SELECT ... FOR UPDATE rows.
// A gate that passed on the first read but fails on the locked re-read
// means another request won the race, which surfaces as a ConflictError
// rather than a gate failure.
type TenderWorkflow struct {
	DB       *gorm.DB
	Registry *tenderflow.Registry
}

func NewTenderWorkflow(db *gorm.DB, registry *tenderflow.Registry) *TenderWorkflow {
	return &TenderWorkflow{DB: db, Registry: registry}
}

type SubmitBidInput struct {
	SubmissionDatetime time.Time
	SubmittedDocs      []string
	ProofOfSubmission  string
	FinalPriceSS       string
	FinalBiddingPrice  *float64
	SubmittedBy        uuid.UUID
}

// SubmitBid records the bid and moves the tender to Bid Submitted.
// Requires an approved costing sheet.
func (wf *TenderWorkflow) SubmitBid(tenderID uuid.UUID, in SubmitBidInput) (*models.BidSubmission, error) {
	var costing models.CostingSheet
	hasCosting := wf.DB.Where("tender_id = ?", tenderID).First(&costing).Error == nil
	if gateErr := tenderflow.CanSubmitBid(hasCosting, costing.Status); gateErr != nil {
		return nil, gateErr
	}
	var existing models.BidSubmission
	hasBid := wf.DB.Where("tender_id = ?", tenderID).First(&existing).Error == nil
	if gateErr := tenderflow.CanRecordSubmission(hasBid, existing.Status); gateErr != nil {
		return nil, gateErr
	}

	var bid models.BidSubmission
	err := wf.DB.Transaction(func(tx *gorm.DB) error {
		tender, err := lockTender(tx, tenderID)
		if err != nil {
			return err
		}

		// Re-check against the locked rows.
		var lockedCosting models.CostingSheet
		hasLocked := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tender_id = ?", tenderID).First(&lockedCosting).Error == nil
		if gateErr := tenderflow.CanSubmitBid(hasLocked, lockedCosting.Status); gateErr != nil {
			return &tenderflow.ConflictError{
				Entity:   "costing sheet",
				Expected: tenderflow.CostingApproved,
				Actual:   lockedCosting.Status,
			}
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tender_id = ?", tenderID).First(&bid).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			bid = models.BidSubmission{TenderID: tenderID}
		}
		if bid.ID != uuid.Nil {
			if gateErr := tenderflow.CanRecordSubmission(true, bid.Status); gateErr != nil {
				return &tenderflow.ConflictError{
					Entity:   "bid submission",
					Expected: tenderflow.BidSubmissionPending,
					Actual:   bid.Status,
				}
			}
		}

		when := models.JSONTime(in.SubmissionDatetime)
		bid.Status = tenderflow.BidSubmitted
		bid.SubmissionDatetime = &when
		bid.SubmittedDocs = pq.StringArray(in.SubmittedDocs)
		bid.ProofOfSubmission = in.ProofOfSubmission
		bid.FinalPriceSS = in.FinalPriceSS
		bid.FinalBiddingPrice = in.FinalBiddingPrice
		bid.SubmittedBy = &in.SubmittedBy
		if err := tx.Save(&bid).Error; err != nil {
			return err
		}

		return wf.recordStatusChange(tx, tender, tenderflow.StatusBidSubmitted, "Bid submitted", &in.SubmittedBy)
	})
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

type MarkMissedInput struct {
	ReasonForMissing   string
	PreventionMeasures string
	ProcessImprovement string
	SubmittedBy        uuid.UUID
}

// MarkMissed flags a tender whose bid never went out. All three
// narratives must carry real content. Editing an already-missed record
// is allowed; a submitted bid is not.
func (wf *TenderWorkflow) MarkMissed(tenderID uuid.UUID, in MarkMissedInput) (*models.BidSubmission, error) {
	if fields := missedNarrativeErrors(in); len(fields) > 0 {
		return nil, &narrativeError{fields: fields}
	}

	var existing models.BidSubmission
	hasBid := wf.DB.Where("tender_id = ?", tenderID).First(&existing).Error == nil
	if gateErr := tenderflow.CanMarkMissed(hasBid, existing.Status); gateErr != nil {
		return nil, gateErr
	}

	var bid models.BidSubmission
	err := wf.DB.Transaction(func(tx *gorm.DB) error {
		tender, err := lockTender(tx, tenderID)
		if err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tender_id = ?", tenderID).First(&bid).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			bid = models.BidSubmission{TenderID: tenderID}
		}
		if bid.ID != uuid.Nil && bid.Status == tenderflow.BidSubmitted {
			return &tenderflow.ConflictError{
				Entity:   "bid submission",
				Expected: tenderflow.BidSubmissionPending,
				Actual:   bid.Status,
			}
		}

		bid.Status = tenderflow.TenderMissed
		bid.ReasonForMissing = in.ReasonForMissing
		bid.PreventionMeasures = in.PreventionMeasures
		bid.ProcessImprovement = in.ProcessImprovement
		bid.SubmittedBy = &in.SubmittedBy
		if err := tx.Save(&bid).Error; err != nil {
			return err
		}

		if tender.StatusID == tenderflow.StatusMissed {
			return nil // narrative edit on an already missed tender
		}
		return wf.recordStatusChange(tx, tender, tenderflow.StatusMissed, "Tender missed", &in.SubmittedBy)
	})
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// ApproveCosting moves a submitted costing sheet to Approved and the
// tender to Price Bid Approved.
func (wf *TenderWorkflow) ApproveCosting(tenderID uuid.UUID, reviewer uuid.UUID, remarks string) (*models.CostingSheet, error) {
	return wf.reviewCosting(tenderID, reviewer, remarks, true)
}

// RejectCosting sends a submitted costing sheet back as Rejected. The
// tender status is left alone so the team can rework and resubmit.
func (wf *TenderWorkflow) RejectCosting(tenderID uuid.UUID, reviewer uuid.UUID, remarks string) (*models.CostingSheet, error) {
	return wf.reviewCosting(tenderID, reviewer, remarks, false)
}

func (wf *TenderWorkflow) reviewCosting(tenderID uuid.UUID, reviewer uuid.UUID, remarks string, approve bool) (*models.CostingSheet, error) {
	gate := tenderflow.CanApproveCosting
	if !approve {
		gate = tenderflow.CanRejectCosting
	}

	var costing models.CostingSheet
	if err := wf.DB.Where("tender_id = ?", tenderID).First(&costing).Error; err != nil {
		return nil, err
	}
	if gateErr := gate(costing.Status); gateErr != nil {
		return nil, gateErr
	}

	err := wf.DB.Transaction(func(tx *gorm.DB) error {
		tender, err := lockTender(tx, tenderID)
		if err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tender_id = ?", tenderID).First(&costing).Error; err != nil {
			return err
		}
		if gateErr := gate(costing.Status); gateErr != nil {
			return &tenderflow.ConflictError{
				Entity:   "costing sheet",
				Expected: tenderflow.CostingSubmitted,
				Actual:   costing.Status,
			}
		}

		now := models.JSONTime(time.Now())
		costing.ReviewedBy = &reviewer
		costing.ReviewedAt = &now
		costing.ReviewRemarks = remarks
		if approve {
			costing.Status = tenderflow.CostingApproved
		} else {
			costing.Status = tenderflow.CostingRejected
		}
		if err := tx.Save(&costing).Error; err != nil {
			return err
		}

		if !approve {
			return nil
		}
		return wf.recordStatusChange(tx, tender, tenderflow.StatusPriceBidApproved, "Costing sheet approved", &reviewer)
	})
	if err != nil {
		return nil, err
	}
	return &costing, nil
}

// ChangeStatus is the manual transition path. The new status must exist
// in the registry and the comment must justify the move.
func (wf *TenderWorkflow) ChangeStatus(tenderID uuid.UUID, newStatus uint, comment string, changedBy *uuid.UUID) (*models.Tender, error) {
	if !wf.Registry.Has(newStatus) {
		return nil, &narrativeError{fields: []fieldProblem{
			{Field: "statusId", Message: fmt.Sprintf("unknown status id %d", newStatus)},
		}}
	}

	var tender models.Tender
	if err := wf.DB.First(&tender, "id = ? AND delete_status = 0", tenderID).Error; err != nil {
		return nil, err
	}
	if gateErr := tenderflow.CanTransitionTenderStatus(tender.StatusID, newStatus, comment); gateErr != nil {
		return nil, gateErr
	}

	prev := tender.StatusID
	err := wf.DB.Transaction(func(tx *gorm.DB) error {
		locked, err := lockTender(tx, tenderID)
		if err != nil {
			return err
		}
		if locked.StatusID != prev {
			return &tenderflow.ConflictError{
				Entity:   "tender status",
				Expected: wf.Registry.Name(prev),
				Actual:   wf.Registry.Name(locked.StatusID),
			}
		}
		tender = *locked
		return wf.recordStatusChange(tx, &tender, newStatus, comment, changedBy)
	})
	if err != nil {
		return nil, err
	}
	return &tender, nil
}

type RecordResultInput struct {
	Status     string
	L1Vendor   string
	L1Price    *float64
	OurRank    *int
	ResultDoc  string
	Remarks    string
	UploadedBy uuid.UUID
}

// RecordResult stores the outcome of a submitted bid and moves the
// tender to the matching terminal status.
func (wf *TenderWorkflow) RecordResult(tenderID uuid.UUID, in RecordResultInput) (*models.TenderResult, error) {
	if !validResultStatus(in.Status) {
		return nil, &narrativeError{fields: []fieldProblem{
			{Field: "status", Message: fmt.Sprintf("unknown result status %q", in.Status)},
		}}
	}

	var bid models.BidSubmission
	hasBid := wf.DB.Where("tender_id = ?", tenderID).First(&bid).Error == nil
	if !hasBid || bid.Status != tenderflow.BidSubmitted {
		return nil, &tenderflow.GateError{
			Action: "record-result",
			Reason: "results can only be recorded for submitted bids",
		}
	}

	var result models.TenderResult
	err := wf.DB.Transaction(func(tx *gorm.DB) error {
		tender, err := lockTender(tx, tenderID)
		if err != nil {
			return err
		}

		if err := tx.Where("tender_id = ?", tenderID).First(&result).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			result = models.TenderResult{TenderID: tenderID}
		}

		result.Status = in.Status
		result.L1Vendor = in.L1Vendor
		result.L1Price = in.L1Price
		result.OurRank = in.OurRank
		result.ResultDoc = in.ResultDoc
		result.Remarks = in.Remarks
		result.UploadedBy = &in.UploadedBy
		if err := tx.Save(&result).Error; err != nil {
			return err
		}

		next, comment := resultStatusTransition(in.Status)
		if next == 0 || tender.StatusID == next {
			return nil
		}
		return wf.recordStatusChange(tx, tender, next, comment, &in.UploadedBy)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// recordStatusChange updates the tender row and appends the audit entry,
// both inside the caller's transaction.
func (wf *TenderWorkflow) recordStatusChange(tx *gorm.DB, tender *models.Tender, newStatus uint, comment string, changedBy *uuid.UUID) error {
	if _, err := wf.Registry.StageOf(newStatus); err != nil {
		return err
	}
	prev := tender.StatusID
	if err := tx.Model(tender).Update("status_id", newStatus).Error; err != nil {
		return err
	}
	tender.StatusID = newStatus
	return tx.Create(&models.TenderStatusHistory{
		TenderID:   tender.ID,
		PrevStatus: prev,
		NewStatus:  newStatus,
		Comment:    comment,
		ChangedBy:  changedBy,
	}).Error
}

func lockTender(tx *gorm.DB, tenderID uuid.UUID) (*models.Tender, error) {
	var tender models.Tender
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&tender, "id = ? AND delete_status = 0", tenderID).Error; err != nil {
		return nil, err
	}
	return &tender, nil
}

func validResultStatus(status string) bool {
	switch status {
	case tenderflow.ResultAwaited, tenderflow.ResultUnderEvaluation, tenderflow.ResultWon,
		tenderflow.ResultLost, tenderflow.ResultLostH1, tenderflow.ResultDisqualified:
		return true
	}
	return false
}

// resultStatusTransition maps a result entry to the tender status it
// implies. Awaited and under-evaluation results leave the tender alone.
func resultStatusTransition(resultStatus string) (uint, string) {
	switch resultStatus {
	case tenderflow.ResultWon:
		return tenderflow.StatusWon, "Tender won"
	case tenderflow.ResultLost, tenderflow.ResultLostH1:
		return tenderflow.StatusLost, "Tender lost"
	case tenderflow.ResultDisqualified:
		return tenderflow.StatusDisqualified, "Bid disqualified"
	}
	return 0, ""
}

type fieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// narrativeError carries per-field validation problems out of the
// workflow so handlers can answer with a 400 and the field list.
type narrativeError struct {
	fields []fieldProblem
}

func (e *narrativeError) Error() string {
	parts := make([]string, len(e.fields))
	for i, f := range e.fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *narrativeError) Fields() []fieldProblem { return e.fields }

func missedNarrativeErrors(in MarkMissedInput) []fieldProblem {
	var fields []fieldProblem
	check := func(name, value string) {
		if len(strings.TrimSpace(value)) < tenderflow.MinNarrativeLen {
			fields = append(fields, fieldProblem{
				Field:   name,
				Message: fmt.Sprintf("must be at least %d characters", tenderflow.MinNarrativeLen),
			})
		}
	}
	check("reasonForMissing", in.ReasonForMissing)
	check("preventionMeasures", in.PreventionMeasures)
	check("processImprovement", in.ProcessImprovement)
	return fields
}
