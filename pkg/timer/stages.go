package timer

// StageSpec defines the clock for one workflow stage. OffsetHours is
// relative to the tender due date; AllocatedHours is the working budget
// the team is expected to spend inside that window.
type StageSpec struct {
	Key            string
	Name           string
	Order          int
	OffsetHours    int
	AllocatedHours int
	Predecessor    string
}

// Stages is the fixed tendering workflow. Stage definitions are business
// knowledge for this procurement domain, not user-configurable.
var Stages = []StageSpec{
	{Key: "tender_info", Name: "Tender Info", Order: 1, OffsetHours: 0, AllocatedHours: 72},
	{Key: "tender_approval", Name: "Tender Approval", Order: 2, OffsetHours: 0, AllocatedHours: 24, Predecessor: "tender_info"},
	{Key: "rfq_sent", Name: "RFQ Sent", Order: 3, OffsetHours: 0, AllocatedHours: 24, Predecessor: "tender_approval"},
	{Key: "emd_requested", Name: "EMD Requested", Order: 4, OffsetHours: 0, AllocatedHours: 24, Predecessor: "tender_approval"},
	{Key: "physical_docs", Name: "Physical Docs", Order: 5, OffsetHours: -72, AllocatedHours: 48, Predecessor: "tender_approval"},
	{Key: "costing_sheet", Name: "Costing Sheet", Order: 6, OffsetHours: -72, AllocatedHours: 48, Predecessor: "tender_approval"},
	{Key: "costing_approval", Name: "Costing Approval", Order: 7, OffsetHours: -48, AllocatedHours: 24, Predecessor: "costing_sheet"},
	{Key: "bid_submission", Name: "Bid Submission", Order: 8, OffsetHours: -24, AllocatedHours: 24, Predecessor: "costing_approval"},
	{Key: "tender_result", Name: "Tender Result", Order: 9, OffsetHours: 0, AllocatedHours: 0, Predecessor: "bid_submission"},
}

// StageByKey returns the StageSpec for key, or false when no such stage exists.
func StageByKey(key string) (StageSpec, bool) {
	for _, s := range Stages {
		if s.Key == key {
			return s, true
		}
	}
	return StageSpec{}, false
}
