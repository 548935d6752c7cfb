package tenderflow

import (
	"fmt"
	"strings"
)

// Gating predicates. Each is pure given the referenced entities' current
// field values and returns nil when the action is allowed, or a GateError
// naming the unmet precondition. Handlers evaluate these once against the
// state they read, and the orchestrator re-evaluates them against the
// locked row before committing.

// CanSubmitBid allows bid submission only once a costing sheet exists
// and has been approved by the team lead.
func CanSubmitBid(hasCostingSheet bool, costingStatus string) *GateError {
	if !hasCostingSheet {
		return &GateError{Action: "submit-bid", Reason: "costing not approved: no costing sheet exists"}
	}
	if costingStatus != CostingApproved {
		return &GateError{Action: "submit-bid", Reason: fmt.Sprintf("costing not approved: costing sheet is %q", costingStatus)}
	}
	return nil
}

// CanRecordSubmission allows recording a submission only while none
// exists yet. A submitted record is corrected through the edit path, and
// a missed record stays missed.
func CanRecordSubmission(hasBidSubmission bool, bidStatus string) *GateError {
	if !hasBidSubmission {
		return nil
	}
	switch bidStatus {
	case BidSubmissionPending:
		return nil
	case BidSubmitted:
		return &GateError{Action: "submit-bid", Reason: "bid already submitted"}
	}
	return &GateError{Action: "submit-bid", Reason: fmt.Sprintf("bid submission is %q", bidStatus)}
}

// CanMarkMissed allows marking a tender missed while submission is still
// pending, or editing an already-missed record in place. A submitted bid
// can never be re-flagged as missed through this path.
func CanMarkMissed(hasBidSubmission bool, bidStatus string) *GateError {
	if !hasBidSubmission {
		return nil
	}
	switch bidStatus {
	case BidSubmissionPending, TenderMissed:
		return nil
	}
	return &GateError{Action: "mark-missed", Reason: fmt.Sprintf("bid submission is %q", bidStatus)}
}

// CanEditBid allows edits only to a record that is exactly "Bid Submitted".
func CanEditBid(bidStatus string) *GateError {
	if bidStatus != BidSubmitted {
		return &GateError{Action: "edit-bid", Reason: fmt.Sprintf("bid submission is %q, not %q", bidStatus, BidSubmitted)}
	}
	return nil
}

// CanChangeInstrumentMode is always disallowed once an instrument row
// exists; only the instrument details may be revised afterwards.
func CanChangeInstrumentMode(hasInstrument bool) *GateError {
	if hasInstrument {
		return &GateError{Action: "change-instrument-mode", Reason: "instrument mode cannot be changed after creation"}
	}
	return nil
}

// CanApproveCosting allows approval only of a submitted costing sheet.
func CanApproveCosting(costingStatus string) *GateError {
	if costingStatus != CostingSubmitted {
		return &GateError{Action: "approve-costing", Reason: fmt.Sprintf("costing sheet is %q, not %q", costingStatus, CostingSubmitted)}
	}
	return nil
}

// CanRejectCosting mirrors CanApproveCosting.
func CanRejectCosting(costingStatus string) *GateError {
	if costingStatus != CostingSubmitted {
		return &GateError{Action: "reject-costing", Reason: fmt.Sprintf("costing sheet is %q, not %q", costingStatus, CostingSubmitted)}
	}
	return nil
}

// CanTransitionTenderStatus requires a meaningful comment and an actual
// change of status. Registry membership of newStatus is checked by the
// orchestrator against the loaded registry.
func CanTransitionTenderStatus(currentStatus, newStatus uint, comment string) *GateError {
	if len(strings.TrimSpace(comment)) < MinStatusCommentLen {
		return &GateError{
			Action: "change-status",
			Reason: fmt.Sprintf("comment must be at least %d characters", MinStatusCommentLen),
		}
	}
	if newStatus == currentStatus {
		return &GateError{Action: "change-status", Reason: "new status equals current status"}
	}
	return nil
}
