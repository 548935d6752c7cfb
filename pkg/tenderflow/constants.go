package tenderflow

// Team-lead decision on a tender (tlStatus column).
const (
	TLPending        = 0
	TLApproved       = 1
	TLRejected       = 2
	TLInfoIncomplete = 3
)

// Bid submission statuses.
const (
	BidSubmissionPending = "Submission Pending"
	BidSubmitted         = "Bid Submitted"
	TenderMissed         = "Tender Missed"
)

// Costing sheet statuses.
const (
	CostingDraft     = "Draft"
	CostingSubmitted = "Submitted"
	CostingApproved  = "Approved"
	CostingRejected  = "Rejected"
)

// Payment request statuses.
const (
	RequestPending  = "Pending"
	RequestSent     = "Sent"
	RequestApproved = "Approved"
	RequestRejected = "Rejected"
	RequestReturned = "Returned"
)

// Tender result statuses.
const (
	ResultAwaited         = "Result Awaited"
	ResultUnderEvaluation = "Under Evaluation"
	ResultWon             = "Won"
	ResultLost            = "Lost"
	ResultLostH1          = "Lost - H1 Elimination"
	ResultDisqualified    = "Disqualified"
)

// MinStatusCommentLen is the minimum comment length required for a
// manual tender status transition.
const MinStatusCommentLen = 10

// MinNarrativeLen applies to each of the three mark-as-missed narratives.
const MinNarrativeLen = 10
