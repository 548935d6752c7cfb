package timer

import (
	"testing"
	"time"
)

var due = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

func TestComputeStatus(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want Status
	}{
		{
			name: "running before deadline",
			in:   Input{DueDate: due, AllocatedHours: 24, Now: due.Add(-12 * time.Hour), PredecessorDone: true},
			want: Running,
		},
		{
			name: "overdue past deadline",
			in:   Input{DueDate: due, AllocatedHours: 24, Now: due.Add(time.Hour), PredecessorDone: true},
			want: Overdue,
		},
		{
			name: "overdue exactly at deadline",
			in:   Input{DueDate: due, AllocatedHours: 24, Now: due, PredecessorDone: true},
			want: Overdue,
		},
		{
			name: "not started while predecessor incomplete",
			in:   Input{DueDate: due, AllocatedHours: 24, Now: due.Add(-12 * time.Hour)},
			want: NotStarted,
		},
		{
			name: "completed wins over everything",
			in:   Input{DueDate: due, AllocatedHours: 24, Now: due.Add(time.Hour), Completed: true, Paused: true},
			want: Completed,
		},
		{
			name: "paused tender",
			in:   Input{DueDate: due, AllocatedHours: 24, Now: due.Add(-12 * time.Hour), PredecessorDone: true, Paused: true},
			want: Paused,
		},
		{
			name: "paused even when past deadline",
			in:   Input{DueDate: due, AllocatedHours: 24, Now: due.Add(time.Hour), PredecessorDone: true, Paused: true},
			want: Paused,
		},
		{
			name: "not started wins over paused",
			in:   Input{DueDate: due, AllocatedHours: 24, Now: due.Add(-12 * time.Hour), Paused: true},
			want: NotStarted,
		},
		{
			name: "negative offset moves deadline earlier",
			in:   Input{DueDate: due, OffsetHours: -24, AllocatedHours: 24, Now: due.Add(-12 * time.Hour), PredecessorDone: true},
			want: Overdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.in)
			if got.Status != tt.want {
				t.Errorf("Compute(%+v).Status = %v, expected %v", tt.in, got.Status, tt.want)
			}
			if got.RemainingSeconds < 0 {
				t.Errorf("RemainingSeconds = %d, must never be negative", got.RemainingSeconds)
			}
			if got.PercentElapsed < 0 || got.PercentElapsed > 100 {
				t.Errorf("PercentElapsed = %v, must stay within [0,100]", got.PercentElapsed)
			}
		})
	}
}

func TestComputeDeadline(t *testing.T) {
	tests := []struct {
		name        string
		offsetHours int
		want        time.Time
	}{
		{"no offset", 0, due},
		{"bid closes a day early", -24, due.Add(-24 * time.Hour)},
		{"grace period after due", 48, due.Add(48 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Compute(Input{DueDate: due, OffsetHours: tt.offsetHours, Now: due, PredecessorDone: true})
			if !st.Deadline.Equal(tt.want) {
				t.Errorf("Deadline = %v, expected %v", st.Deadline, tt.want)
			}
		})
	}
}

func TestComputeRemainingAndPercent(t *testing.T) {
	// 24h budget, 6h left: 75% of the budget is elapsed.
	st := Compute(Input{DueDate: due, AllocatedHours: 24, Now: due.Add(-6 * time.Hour), PredecessorDone: true})
	if st.RemainingSeconds != 6*3600 {
		t.Errorf("RemainingSeconds = %d, expected %d", st.RemainingSeconds, 6*3600)
	}
	if st.PercentElapsed != 75 {
		t.Errorf("PercentElapsed = %v, expected 75", st.PercentElapsed)
	}

	// Remaining exceeds the budget: nothing has elapsed yet.
	st = Compute(Input{DueDate: due, AllocatedHours: 24, Now: due.Add(-48 * time.Hour), PredecessorDone: true})
	if st.PercentElapsed != 0 {
		t.Errorf("PercentElapsed = %v, expected 0 when remaining exceeds budget", st.PercentElapsed)
	}

	// Overdue clamps at zero remaining and full elapsed.
	st = Compute(Input{DueDate: due, AllocatedHours: 24, Now: due.Add(10 * time.Hour), PredecessorDone: true})
	if st.RemainingSeconds != 0 {
		t.Errorf("RemainingSeconds = %d, expected 0 when overdue", st.RemainingSeconds)
	}
	if st.PercentElapsed != 100 {
		t.Errorf("PercentElapsed = %v, expected 100 when overdue", st.PercentElapsed)
	}

	// No budget defined.
	st = Compute(Input{DueDate: due, Now: due.Add(-6 * time.Hour), PredecessorDone: true})
	if st.PercentElapsed != 0 {
		t.Errorf("PercentElapsed = %v, expected 0 without a budget", st.PercentElapsed)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	in := Input{DueDate: due, OffsetHours: -24, AllocatedHours: 48, Now: due.Add(-30 * time.Hour), PredecessorDone: true}
	first := Compute(in)
	second := Compute(in)
	if first != second {
		t.Errorf("Compute is not idempotent: %+v vs %+v", first, second)
	}
}

func TestStagesTable(t *testing.T) {
	seen := map[string]bool{}
	for i, s := range Stages {
		if s.Key == "" || s.Name == "" {
			t.Errorf("stage %d has an empty key or name", i)
		}
		if seen[s.Key] {
			t.Errorf("duplicate stage key %q", s.Key)
		}
		seen[s.Key] = true
		if s.Order != i+1 {
			t.Errorf("stage %q order = %d, expected %d", s.Key, s.Order, i+1)
		}
		if s.Predecessor != "" && !seen[s.Predecessor] {
			t.Errorf("stage %q references predecessor %q that does not precede it", s.Key, s.Predecessor)
		}
	}
}

func TestStageByKey(t *testing.T) {
	s, ok := StageByKey("bid_submission")
	if !ok {
		t.Fatal("bid_submission stage missing")
	}
	if s.OffsetHours != -24 {
		t.Errorf("bid_submission offset = %d, expected -24", s.OffsetHours)
	}
	if s.Predecessor != "costing_approval" {
		t.Errorf("bid_submission predecessor = %q, expected costing_approval", s.Predecessor)
	}
	if _, ok := StageByKey("no_such_stage"); ok {
		t.Error("StageByKey should report unknown keys")
	}
}
