package instruments

import "strings"

// Statuses an instrument moves through after it is requested. Each type
// has its own chain; the stage tables below say which statuses belong to
// which processing stage and where a stage can move next.

// DD statuses.
const (
	DDRequested            = "DD_REQUESTED"
	DDAccountsFormAccepted = "DD_ACCOUNTS_FORM_ACCEPTED"
	DDAccountsFormRejected = "DD_ACCOUNTS_FORM_REJECTED"
	DDFollowupInitiated    = "DD_FOLLOWUP_INITIATED"
	DDReturnViaCourier     = "DD_RETURN_VIA_COURIER"
	DDReturnViaBank        = "DD_RETURN_VIA_BANK_TRANSFER"
	DDSettledWithProject   = "DD_SETTLED_WITH_PROJECT"
	DDCancellationRequest  = "DD_CANCELLATION_REQUESTED"
	DDCancelledAtBranch    = "DD_CANCELLED_AT_BRANCH"
)

// FDR statuses.
const (
	FDRRequested            = "FDR_REQUESTED"
	FDRAccountsFormAccepted = "FDR_ACCOUNTS_FORM_ACCEPTED"
	FDRAccountsFormRejected = "FDR_ACCOUNTS_FORM_REJECTED"
	FDRFollowupInitiated    = "FDR_FOLLOWUP_INITIATED"
	FDRReturnViaCourier     = "FDR_RETURN_VIA_COURIER"
	FDRReturnViaBank        = "FDR_RETURN_VIA_BANK_TRANSFER"
	FDRSettledWithProject   = "FDR_SETTLED_WITH_PROJECT"
	FDRCancellationRequest  = "FDR_CANCELLATION_REQUESTED"
	FDRCancelledAtBranch    = "FDR_CANCELLED_AT_BRANCH"
)

// Cheque statuses.
const (
	ChequeRequested            = "CHEQUE_REQUESTED"
	ChequeAccountsFormAccepted = "CHEQUE_ACCOUNTS_FORM_ACCEPTED"
	ChequeAccountsFormRejected = "CHEQUE_ACCOUNTS_FORM_REJECTED"
	ChequeFollowupInitiated    = "CHEQUE_FOLLOWUP_INITIATED"
	ChequeStopFromBank         = "CHEQUE_STOP_FROM_BANK"
	ChequeDepositedInBank      = "CHEQUE_DEPOSITED_IN_BANK"
	ChequePaidViaBank          = "CHEQUE_PAID_VIA_BANK_TRANSFER"
	ChequeCancelledTorn        = "CHEQUE_CANCELLED_TORN"
)

// BG statuses.
const (
	BGRequested                = "BG_REQUESTED"
	BGBankRequestAccepted      = "BG_BANK_REQUEST_ACCEPTED"
	BGBankRequestRejected      = "BG_BANK_REQUEST_REJECTED"
	BGCreated                  = "BG_CREATED"
	BGFDRCaptured              = "BG_FDR_CAPTURED"
	BGFollowupInitiated        = "BG_FOLLOWUP_INITIATED"
	BGExtensionRequested       = "BG_EXTENSION_REQUESTED"
	BGReturnViaCourier         = "BG_RETURN_VIA_COURIER"
	BGCancellationRequest      = "BG_CANCELLATION_REQUESTED"
	BGCancellationConfirmed    = "BG_CANCELLATION_CONFIRMED"
	BGFDRCancellationConfirmed = "BG_FDR_CANCELLATION_CONFIRMED"
)

// Bank transfer statuses.
const (
	BTAccountsFormPending  = "BT_ACCOUNTS_FORM_PENDING"
	BTAccountsFormAccepted = "BT_ACCOUNTS_FORM_ACCEPTED"
	BTAccountsFormRejected = "BT_ACCOUNTS_FORM_REJECTED"
	BTFollowupInitiated    = "BT_FOLLOWUP_INITIATED"
	BTReturnViaBank        = "BT_RETURN_VIA_BANK_TRANSFER"
	BTSettledWithProject   = "BT_SETTLED_WITH_PROJECT"
)

// Portal payment statuses.
const (
	PortalRequested            = "PORTAL_REQUESTED"
	PortalAccountsFormAccepted = "PORTAL_ACCOUNTS_FORM_ACCEPTED"
	PortalAccountsFormRejected = "PORTAL_ACCOUNTS_FORM_REJECTED"
	PortalFollowupInitiated    = "PORTAL_FOLLOWUP_INITIATED"
	PortalReturnViaBank        = "PORTAL_RETURN_VIA_BANK_TRANSFER"
	PortalSettledWithProject   = "PORTAL_SETTLED_WITH_PROJECT"
)

// StageDef is one processing stage of an instrument's lifecycle.
type StageDef struct {
	Num              int
	Name             string
	Statuses         []string
	TerminalStatuses []string
	NextStages       []int
}

var stagesByType = map[Type][]StageDef{
	TypeDD: {
		{Num: 1, Name: "Accounts Form",
			Statuses: []string{DDRequested, DDAccountsFormAccepted, DDAccountsFormRejected,
				DDFollowupInitiated, DDReturnViaCourier, DDReturnViaBank,
				DDSettledWithProject, DDCancellationRequest, DDCancelledAtBranch},
			TerminalStatuses: []string{DDAccountsFormRejected},
			NextStages:       []int{2, 3, 4, 5, 6}},
		{Num: 2, Name: "Followup",
			Statuses:         []string{DDFollowupInitiated},
			TerminalStatuses: []string{DDFollowupInitiated},
			NextStages:       []int{3, 4, 5, 6}},
		{Num: 3, Name: "Returned via Courier",
			Statuses:         []string{DDReturnViaCourier},
			TerminalStatuses: []string{DDReturnViaCourier}},
		{Num: 4, Name: "Returned via Bank Transfer",
			Statuses:         []string{DDReturnViaBank},
			TerminalStatuses: []string{DDReturnViaBank}},
		{Num: 5, Name: "Settled with Project",
			Statuses:         []string{DDSettledWithProject},
			TerminalStatuses: []string{DDSettledWithProject}},
		{Num: 6, Name: "Cancellation Request",
			Statuses:   []string{DDCancellationRequest},
			NextStages: []int{7}},
		{Num: 7, Name: "Cancelled at Branch",
			Statuses:         []string{DDCancelledAtBranch},
			TerminalStatuses: []string{DDCancelledAtBranch}},
	},
	TypeFDR: {
		{Num: 1, Name: "Accounts Form",
			Statuses: []string{FDRRequested, FDRAccountsFormAccepted, FDRAccountsFormRejected,
				FDRFollowupInitiated, FDRReturnViaCourier, FDRReturnViaBank,
				FDRSettledWithProject, FDRCancellationRequest, FDRCancelledAtBranch},
			TerminalStatuses: []string{FDRAccountsFormRejected},
			NextStages:       []int{2, 3, 4, 5, 6}},
		{Num: 2, Name: "Followup",
			Statuses:         []string{FDRFollowupInitiated},
			TerminalStatuses: []string{FDRFollowupInitiated},
			NextStages:       []int{3, 4, 5, 6}},
		{Num: 3, Name: "Returned via Courier",
			Statuses:         []string{FDRReturnViaCourier},
			TerminalStatuses: []string{FDRReturnViaCourier}},
		{Num: 4, Name: "Returned via Bank Transfer",
			Statuses:         []string{FDRReturnViaBank},
			TerminalStatuses: []string{FDRReturnViaBank}},
		{Num: 5, Name: "Settled with Project",
			Statuses:         []string{FDRSettledWithProject},
			TerminalStatuses: []string{FDRSettledWithProject}},
		{Num: 6, Name: "Cancellation Request",
			Statuses:   []string{FDRCancellationRequest},
			NextStages: []int{7}},
		{Num: 7, Name: "Cancelled at Branch",
			Statuses:         []string{FDRCancelledAtBranch},
			TerminalStatuses: []string{FDRCancelledAtBranch}},
	},
	TypeCheque: {
		{Num: 1, Name: "Accounts Form",
			Statuses:         []string{ChequeRequested, ChequeAccountsFormAccepted, ChequeAccountsFormRejected},
			TerminalStatuses: []string{ChequeAccountsFormRejected},
			NextStages:       []int{2, 3, 4, 5, 6}},
		{Num: 2, Name: "Followup",
			Statuses:   []string{ChequeFollowupInitiated},
			NextStages: []int{3, 4, 5, 6}},
		{Num: 3, Name: "Stop Cheque",
			Statuses:         []string{ChequeStopFromBank},
			TerminalStatuses: []string{ChequeStopFromBank},
			NextStages:       []int{4, 6}},
		{Num: 4, Name: "Paid via Bank Transfer",
			Statuses:         []string{ChequePaidViaBank},
			TerminalStatuses: []string{ChequePaidViaBank}},
		{Num: 5, Name: "Deposited in Bank",
			Statuses:         []string{ChequeDepositedInBank},
			TerminalStatuses: []string{ChequeDepositedInBank}},
		{Num: 6, Name: "Cancelled/Torn",
			Statuses: []string{ChequeCancelledTorn}},
	},
	TypeBG: {
		{Num: 1, Name: "Accounts Form 1 - Request to Bank",
			Statuses: []string{BGRequested, BGBankRequestAccepted, BGBankRequestRejected,
				BGCreated, BGFDRCaptured, BGFollowupInitiated, BGExtensionRequested,
				BGReturnViaCourier, BGCancellationRequest, BGCancellationConfirmed,
				BGFDRCancellationConfirmed},
			TerminalStatuses: []string{BGBankRequestRejected, BGCancellationConfirmed, BGFDRCancellationConfirmed},
			NextStages:       []int{2}},
		{Num: 2, Name: "Accounts Form 2 - After BG Creation",
			Statuses:   []string{BGCreated},
			NextStages: []int{3, 4, 5, 6, 7}},
		{Num: 3, Name: "Accounts Form 3 - Capture FDR Details",
			Statuses:   []string{BGFDRCaptured},
			NextStages: []int{4, 5, 6, 7}},
		{Num: 4, Name: "Followup",
			Statuses:   []string{BGFollowupInitiated},
			NextStages: []int{5, 6, 7}},
		{Num: 5, Name: "Extension",
			Statuses:         []string{BGExtensionRequested},
			TerminalStatuses: []string{BGExtensionRequested},
			NextStages:       []int{4, 6, 7}},
		{Num: 6, Name: "Returned via Courier",
			Statuses:         []string{BGReturnViaCourier},
			TerminalStatuses: []string{BGReturnViaCourier}},
		{Num: 7, Name: "Cancellation Request",
			Statuses:   []string{BGCancellationRequest},
			NextStages: []int{8}},
		{Num: 8, Name: "BG Cancellation Confirmation",
			Statuses:   []string{BGCancellationConfirmed},
			NextStages: []int{9}},
		{Num: 9, Name: "FDR Cancellation Confirmation",
			Statuses: []string{BGFDRCancellationConfirmed}},
	},
	TypeBankTransfer: {
		{Num: 1, Name: "Accounts Form",
			Statuses: []string{BTAccountsFormPending, BTAccountsFormAccepted, BTAccountsFormRejected,
				BTFollowupInitiated, BTReturnViaBank, BTSettledWithProject},
			TerminalStatuses: []string{BTAccountsFormRejected},
			NextStages:       []int{2, 3, 4}},
		{Num: 2, Name: "Followup",
			Statuses:   []string{BTFollowupInitiated},
			NextStages: []int{3, 4}},
		{Num: 3, Name: "Returned via Bank Transfer",
			Statuses:         []string{BTReturnViaBank},
			TerminalStatuses: []string{BTReturnViaBank}},
		{Num: 4, Name: "Settled with Project",
			Statuses: []string{BTSettledWithProject}},
	},
	TypePortal: {
		{Num: 1, Name: "Accounts Form",
			Statuses: []string{PortalRequested, PortalAccountsFormAccepted, PortalAccountsFormRejected,
				PortalFollowupInitiated, PortalReturnViaBank, PortalSettledWithProject},
			TerminalStatuses: []string{PortalAccountsFormRejected},
			NextStages:       []int{2, 3, 4}},
		{Num: 2, Name: "Followup",
			Statuses:   []string{PortalFollowupInitiated},
			NextStages: []int{3, 4}},
		{Num: 3, Name: "Returned via Bank Transfer",
			Statuses:         []string{PortalReturnViaBank},
			TerminalStatuses: []string{PortalReturnViaBank}},
		{Num: 4, Name: "Settled with Project",
			Statuses: []string{PortalSettledWithProject}},
	},
}

var initialStatus = map[Type]string{
	TypeDD:           DDRequested,
	TypeFDR:          FDRRequested,
	TypeBG:           BGRequested,
	TypeCheque:       ChequeRequested,
	TypeBankTransfer: BTAccountsFormPending,
	TypePortal:       PortalRequested,
}

// InitialStatus is the status a freshly requested instrument starts in.
func InitialStatus(typ Type) (string, bool) {
	s, ok := initialStatus[typ]
	return s, ok
}

// StagesFor returns the lifecycle stages for an instrument type, in order.
func StagesFor(typ Type) []StageDef {
	return stagesByType[typ]
}

// IsTerminalStatus reports whether a status ends processing for its stage.
func IsTerminalStatus(typ Type, status string) bool {
	for _, stage := range stagesByType[typ] {
		for _, s := range stage.TerminalStatuses {
			if s == status {
				return true
			}
		}
	}
	return false
}

// IsRejectedStatus reports whether a status represents a rejection.
func IsRejectedStatus(status string) bool {
	return strings.HasSuffix(status, "_REJECTED")
}

// StageFromStatus returns the stage number a status belongs to, or 0 when
// the status is not part of the type's chain. The intake stage lists every
// status of its chain, so a status also claimed by a later stage resolves
// to that later, more specific stage; otherwise progressed instruments
// would snap back to stage 1 and lose their legal next moves.
func StageFromStatus(typ Type, status string) int {
	num := 0
	for _, stage := range stagesByType[typ] {
		for _, s := range stage.Statuses {
			if s == status {
				num = stage.Num
			}
		}
	}
	return num
}

// NextStages returns the stage numbers an instrument can move to from the
// given status. A terminal status has no next stages.
func NextStages(typ Type, status string) []int {
	num := StageFromStatus(typ, status)
	if num == 0 {
		return nil
	}
	for _, stage := range stagesByType[typ] {
		if stage.Num != num {
			continue
		}
		for _, s := range stage.TerminalStatuses {
			if s == status {
				return nil
			}
		}
		return stage.NextStages
	}
	return nil
}

// ValidStatus reports whether status belongs to the type's chain at all.
func ValidStatus(typ Type, status string) bool {
	return StageFromStatus(typ, status) != 0
}

// StatusLabel turns a chain status into a display label, e.g.
// DD_ACCOUNTS_FORM_ACCEPTED becomes "Accounts Form Accepted".
func StatusLabel(status string) string {
	trimmed := status
	for _, prefix := range []string{"DD_", "FDR_", "BG_", "CHEQUE_", "BT_", "PORTAL_"} {
		if strings.HasPrefix(status, prefix) {
			trimmed = strings.TrimPrefix(status, prefix)
			break
		}
	}
	words := strings.Split(trimmed, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
