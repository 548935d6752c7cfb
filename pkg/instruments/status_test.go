package instruments

import "testing"

func TestInitialStatus(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TypeDD, DDRequested},
		{TypeFDR, FDRRequested},
		{TypeBG, BGRequested},
		{TypeCheque, ChequeRequested},
		{TypeBankTransfer, BTAccountsFormPending},
		{TypePortal, PortalRequested},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got, ok := InitialStatus(tt.typ)
			if !ok || got != tt.want {
				t.Errorf("InitialStatus(%q) = (%q, %v), expected %q", tt.typ, got, ok, tt.want)
			}
		})
	}

	if _, ok := InitialStatus(Type("Bitcoin")); ok {
		t.Error("unknown type must not have an initial status")
	}
}

func TestIsTerminalStatus(t *testing.T) {
	tests := []struct {
		name     string
		typ      Type
		status   string
		terminal bool
	}{
		{"dd requested is live", TypeDD, DDRequested, false},
		{"dd form rejected ends it", TypeDD, DDAccountsFormRejected, true},
		{"dd settled with project ends it", TypeDD, DDSettledWithProject, true},
		{"dd cancellation request keeps going", TypeDD, DDCancellationRequest, false},
		{"bg bank rejected ends it", TypeBG, BGBankRequestRejected, true},
		{"bg created keeps going", TypeBG, BGCreated, false},
		{"cheque deposited ends it", TypeCheque, ChequeDepositedInBank, true},
		{"cheque cancelled torn is non-terminal by chain", TypeCheque, ChequeCancelledTorn, false},
		{"bt settled is non-terminal by chain", TypeBankTransfer, BTSettledWithProject, false},
		{"portal returned ends it", TypePortal, PortalReturnViaBank, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTerminalStatus(tt.typ, tt.status); got != tt.terminal {
				t.Errorf("IsTerminalStatus(%q, %q) = %v, expected %v", tt.typ, tt.status, got, tt.terminal)
			}
		})
	}
}

func TestNextStages(t *testing.T) {
	tests := []struct {
		name   string
		typ    Type
		status string
		want   []int
	}{
		{"fresh dd can move on", TypeDD, DDRequested, []int{2, 3, 4, 5, 6}},
		{"rejected dd is stuck", TypeDD, DDAccountsFormRejected, nil},
		{"dd cancellation goes to branch", TypeDD, DDCancellationRequest, []int{7}},
		{"bg starts narrow", TypeBG, BGRequested, []int{2}},
		{"bg created fans out", TypeBG, BGCreated, []int{3, 4, 5, 6, 7}},
		{"unknown status has nowhere to go", TypeDD, "DD_TELEPORTED", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStages(tt.typ, tt.status)
			if len(got) != len(tt.want) {
				t.Fatalf("NextStages(%q, %q) = %v, expected %v", tt.typ, tt.status, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("NextStages(%q, %q) = %v, expected %v", tt.typ, tt.status, got, tt.want)
					break
				}
			}
		})
	}
}

func TestStageFromStatus(t *testing.T) {
	// Statuses listed by both the intake stage and their own later
	// stage resolve to the later, more specific one.
	if got := StageFromStatus(TypeDD, DDFollowupInitiated); got != 2 {
		t.Errorf("StageFromStatus(DD, followup) = %d, expected 2", got)
	}
	if got := StageFromStatus(TypeBG, BGCreated); got != 2 {
		t.Errorf("StageFromStatus(BG, created) = %d, expected 2", got)
	}
	if got := StageFromStatus(TypeDD, DDCancellationRequest); got != 6 {
		t.Errorf("StageFromStatus(DD, cancellation) = %d, expected 6", got)
	}
	if got := StageFromStatus(TypeDD, DDRequested); got != 1 {
		t.Errorf("StageFromStatus(DD, requested) = %d, expected 1", got)
	}
	if got := StageFromStatus(TypeCheque, ChequeStopFromBank); got != 3 {
		t.Errorf("StageFromStatus(Cheque, stop) = %d, expected 3", got)
	}
	if got := StageFromStatus(TypeDD, "NOT_A_STATUS"); got != 0 {
		t.Errorf("StageFromStatus(DD, unknown) = %d, expected 0", got)
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(TypeBG, BGExtensionRequested) {
		t.Error("BG extension must be a valid status")
	}
	if ValidStatus(TypeBG, DDRequested) {
		t.Error("a DD status must not validate against the BG chain")
	}
}

func TestIsRejectedStatus(t *testing.T) {
	if !IsRejectedStatus(BTAccountsFormRejected) {
		t.Error("BT_ACCOUNTS_FORM_REJECTED must be detected as rejected")
	}
	if IsRejectedStatus(BGRequested) {
		t.Error("BG_REQUESTED must not be detected as rejected")
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{DDAccountsFormAccepted, "Accounts Form Accepted"},
		{BGFDRCancellationConfirmed, "Fdr Cancellation Confirmed"},
		{ChequePaidViaBank, "Paid Via Bank Transfer"},
		{BTAccountsFormPending, "Accounts Form Pending"},
		{"UNPREFIXED_THING", "Unprefixed Thing"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := StatusLabel(tt.status); got != tt.want {
				t.Errorf("StatusLabel(%q) = %q, expected %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestEveryChainStatusResolvesAStage(t *testing.T) {
	for typ, stages := range stagesByType {
		for _, stage := range stages {
			for _, s := range stage.Statuses {
				if StageFromStatus(typ, s) == 0 {
					t.Errorf("%s status %q resolves no stage", typ, s)
				}
			}
			for _, s := range stage.TerminalStatuses {
				if !contains(stage.Statuses, s) && StageFromStatus(typ, s) == 0 {
					t.Errorf("%s terminal status %q is not in any stage", typ, s)
				}
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
