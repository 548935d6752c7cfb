package handlers

import (
	"strings"
	"testing"

	"p9e.in/tms/pkg/tenderflow"
)

func TestMissedNarrativeErrors(t *testing.T) {
	valid := MarkMissedInput{
		ReasonForMissing:   "Costing approval came through after the portal closed.",
		PreventionMeasures: "Escalate pending approvals 48 hours before the deadline.",
		ProcessImprovement: "Add a pre-deadline checklist to the bid stage.",
	}

	tests := []struct {
		name       string
		mutate     func(*MarkMissedInput)
		wantFields []string
	}{
		{
			name:   "all narratives present",
			mutate: func(in *MarkMissedInput) {},
		},
		{
			name:       "missing reason",
			mutate:     func(in *MarkMissedInput) { in.ReasonForMissing = "" },
			wantFields: []string{"reasonForMissing"},
		},
		{
			name:       "whitespace does not count",
			mutate:     func(in *MarkMissedInput) { in.PreventionMeasures = "         \t " },
			wantFields: []string{"preventionMeasures"},
		},
		{
			name:       "too short",
			mutate:     func(in *MarkMissedInput) { in.ProcessImprovement = "fix it" },
			wantFields: []string{"processImprovement"},
		},
		{
			name: "everything missing",
			mutate: func(in *MarkMissedInput) {
				in.ReasonForMissing = ""
				in.PreventionMeasures = ""
				in.ProcessImprovement = ""
			},
			wantFields: []string{"reasonForMissing", "preventionMeasures", "processImprovement"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			fields := missedNarrativeErrors(in)
			if len(fields) != len(tt.wantFields) {
				t.Fatalf("got %d field errors, want %d: %+v", len(fields), len(tt.wantFields), fields)
			}
			for i, want := range tt.wantFields {
				if fields[i].Field != want {
					t.Errorf("field[%d] = %q, want %q", i, fields[i].Field, want)
				}
			}
		})
	}
}

func TestNarrativeErrorMessage(t *testing.T) {
	err := &narrativeError{fields: []fieldProblem{
		{Field: "reasonForMissing", Message: "must be at least 10 characters"},
	}}
	if !strings.Contains(err.Error(), "reasonForMissing") {
		t.Errorf("error message %q should name the field", err.Error())
	}
}

func TestResultStatusTransition(t *testing.T) {
	tests := []struct {
		resultStatus string
		wantStatus   uint
	}{
		{tenderflow.ResultWon, tenderflow.StatusWon},
		{tenderflow.ResultLost, tenderflow.StatusLost},
		{tenderflow.ResultLostH1, tenderflow.StatusLost},
		{tenderflow.ResultDisqualified, tenderflow.StatusDisqualified},
		{tenderflow.ResultAwaited, 0},
		{tenderflow.ResultUnderEvaluation, 0},
	}
	for _, tt := range tests {
		got, _ := resultStatusTransition(tt.resultStatus)
		if got != tt.wantStatus {
			t.Errorf("resultStatusTransition(%q) = %d, want %d", tt.resultStatus, got, tt.wantStatus)
		}
	}
}

func TestValidResultStatus(t *testing.T) {
	for _, status := range []string{
		tenderflow.ResultAwaited, tenderflow.ResultUnderEvaluation, tenderflow.ResultWon,
		tenderflow.ResultLost, tenderflow.ResultLostH1, tenderflow.ResultDisqualified,
	} {
		if !validResultStatus(status) {
			t.Errorf("validResultStatus(%q) = false, want true", status)
		}
	}
	for _, status := range []string{"", "won", "Pending", "Lost H1"} {
		if validResultStatus(status) {
			t.Errorf("validResultStatus(%q) = true, want false", status)
		}
	}
}
