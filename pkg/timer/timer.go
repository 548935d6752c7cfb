// Package timer computes per-stage countdowns for a tender. Display code
// never derives timer state itself; it renders the output of Compute.
package timer

import "time"

// Status is the discrete timer state of one workflow stage.
type Status string

const (
	NotStarted Status = "NOT_STARTED"
	Running    Status = "RUNNING"
	Paused     Status = "PAUSED"
	Overdue    Status = "OVERDUE"
	Completed  Status = "COMPLETED"
)

// Input describes one (tender, stage) pair at a reference instant.
type Input struct {
	// DueDate is the stage anchor, normally the tender's due date.
	DueDate time.Time
	// OffsetHours shifts the deadline relative to the anchor. Negative
	// values mean the stage must finish before the due date (e.g. bid
	// submission closes 24h early).
	OffsetHours int
	// AllocatedHours is the working budget for the stage, used for the
	// elapsed percentage. Zero means no budget is defined.
	AllocatedHours int
	// Now is the reference instant; computation is pure and idempotent,
	// so recomputing on every read needs no coordination.
	Now time.Time

	// PredecessorDone is false while the gating stage is incomplete.
	PredecessorDone bool
	// Completed is true once the stage's terminal action has occurred.
	Completed bool
	// Paused is true when the tender was flagged did-not-bid or
	// disqualified while the stage was still open.
	Paused bool
}

// State is the computed timer output.
type State struct {
	Status           Status    `json:"status"`
	Deadline         time.Time `json:"deadline"`
	RemainingSeconds int64     `json:"remainingSeconds"`
	PercentElapsed   float64   `json:"percentElapsed"`
}

// Compute maps every input to exactly one of the five statuses.
// RemainingSeconds is never negative.
func Compute(in Input) State {
	deadline := in.DueDate.Add(time.Duration(in.OffsetHours) * time.Hour)

	remaining := int64(deadline.Sub(in.Now) / time.Second)
	if remaining < 0 {
		remaining = 0
	}

	st := State{
		Deadline:         deadline,
		RemainingSeconds: remaining,
		PercentElapsed:   percentElapsed(in.AllocatedHours, remaining),
	}

	switch {
	case in.Completed:
		st.Status = Completed
	case !in.PredecessorDone:
		st.Status = NotStarted
	case in.Paused:
		st.Status = Paused
	case remaining == 0:
		st.Status = Overdue
		st.PercentElapsed = 100
	default:
		st.Status = Running
	}
	return st
}

func percentElapsed(allocatedHours int, remainingSeconds int64) float64 {
	if allocatedHours <= 0 {
		return 0
	}
	total := int64(allocatedHours) * 3600
	elapsed := total - remainingSeconds
	if elapsed < 0 {
		return 0
	}
	if elapsed > total {
		return 100
	}
	return float64(elapsed) / float64(total) * 100
}
