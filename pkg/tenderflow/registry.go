package tenderflow

import "fmt"

// Stage is one phase of the tender lifecycle. Stages are ordered for
// display but a tender can be flagged did-not-bid from almost any of them.
type Stage string

const (
	StagePreparation Stage = "preparation"
	StageApproval    Stage = "approval"
	StageRFQ         Stage = "rfq"
	StageEMD         Stage = "emd"
	StageCosting     Stage = "costing"
	StageBid         Stage = "bid"
	StageResult      Stage = "result"
)

// Category groups statuses for dashboard classification.
type Category string

const (
	CategoryPrep Category = "prep"
	CategoryDNB  Category = "dnb"
	CategoryBid  Category = "bid"
	CategoryWon  Category = "won"
	CategoryLost Category = "lost"
)

// Canonical status IDs. These must match the rows seeded by the
// statuses migration; the registry is loaded from that table at startup.
const (
	StatusNew                   uint = 1
	StatusInfoFilled            uint = 2
	StatusInfoApproved          uint = 3
	StatusRFQSent               uint = 4
	StatusEMDRequested          uint = 5
	StatusPriceBidReady         uint = 6
	StatusPriceBidApproved      uint = 7
	StatusMissed                uint = 8
	StatusDidNotBid             uint = 9
	StatusBidSubmitted          uint = 17
	StatusTQReceived            uint = 19
	StatusTQReplied             uint = 20
	StatusDisqualified          uint = 22
	StatusRAScheduled           uint = 23
	StatusLost                  uint = 24
	StatusWon                   uint = 25
	StatusInfoIncomplete        uint = 29
	StatusPhysicalDocsSubmitted uint = 30
)

// StatusDef is one row of the status registry.
type StatusDef struct {
	ID       uint
	Name     string
	Stage    Stage
	Category Category
}

// DefaultStatuses returns the canonical registry contents. The seeding
// migration persists exactly this set.
func DefaultStatuses() []StatusDef {
	return []StatusDef{
		{StatusNew, "New Tender", StagePreparation, CategoryPrep},
		{StatusInfoFilled, "Tender Info filled", StagePreparation, CategoryPrep},
		{StatusInfoApproved, "Tender Info approved", StageApproval, CategoryPrep},
		{StatusRFQSent, "RFQ Sent", StageRFQ, CategoryPrep},
		{StatusEMDRequested, "EMD Requested", StageEMD, CategoryPrep},
		{StatusPriceBidReady, "Price Bid ready", StageCosting, CategoryPrep},
		{StatusPriceBidApproved, "Price Bid Approved", StageCosting, CategoryPrep},
		{StatusMissed, "Missed", StageBid, CategoryDNB},
		{StatusDidNotBid, "Did Not Bid", StagePreparation, CategoryDNB},
		{StatusBidSubmitted, "Bid Submitted", StageBid, CategoryBid},
		{StatusTQReceived, "TQ Received", StageResult, CategoryBid},
		{StatusTQReplied, "TQ replied", StageResult, CategoryBid},
		{StatusDisqualified, "Disqualified (reason)", StageResult, CategoryLost},
		{StatusRAScheduled, "RA scheduled", StageResult, CategoryBid},
		{StatusLost, "Lost (Price Bid result uploaded)", StageResult, CategoryLost},
		{StatusWon, "Won (PO awaited)", StageResult, CategoryWon},
		{StatusInfoIncomplete, "Tender Info sheet Incomplete", StagePreparation, CategoryPrep},
		{StatusPhysicalDocsSubmitted, "Physical Docs Submitted", StageBid, CategoryPrep},
	}
}

// Registry is the loaded status table. An unknown status encountered at
// load time is a configuration error, fatal at startup.
type Registry struct {
	byID map[uint]StatusDef
}

func NewRegistry(defs []StatusDef) (*Registry, error) {
	byID := make(map[uint]StatusDef, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return nil, &ConfigError{What: fmt.Sprintf("status %d has no name", d.ID)}
		}
		if _, dup := byID[d.ID]; dup {
			return nil, &ConfigError{What: fmt.Sprintf("duplicate status id %d", d.ID)}
		}
		byID[d.ID] = d
	}
	return &Registry{byID: byID}, nil
}

func (r *Registry) Has(id uint) bool {
	_, ok := r.byID[id]
	return ok
}

func (r *Registry) Name(id uint) string {
	return r.byID[id].Name
}

// StageOf returns the lifecycle stage a status belongs to. Unknown ids
// are configuration errors, never user errors.
func (r *Registry) StageOf(id uint) (Stage, error) {
	d, ok := r.byID[id]
	if !ok {
		return "", &ConfigError{What: fmt.Sprintf("unknown status id %d", id)}
	}
	return d.Stage, nil
}

func (r *Registry) CategoryOf(id uint) (Category, error) {
	d, ok := r.byID[id]
	if !ok {
		return "", &ConfigError{What: fmt.Sprintf("unknown status id %d", id)}
	}
	return d.Category, nil
}

// IsTerminal reports whether a status ends the tender's progression:
// did-not-bid, won, and lost statuses do not advance further.
func (r *Registry) IsTerminal(id uint) bool {
	switch r.byID[id].Category {
	case CategoryDNB, CategoryWon, CategoryLost:
		return true
	}
	return false
}
