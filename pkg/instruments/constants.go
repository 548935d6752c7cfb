// Package instruments holds the declarative rule table for payment
// instruments: which modes each payment purpose accepts, which detail
// fields each mode requires, and the per-mode status chains an issued
// instrument moves through. Both request validation and persistence-time
// revalidation consume this one table.
package instruments

// Purpose is what the payment secures.
type Purpose string

const (
	PurposeEMD           Purpose = "EMD"
	PurposeTenderFee     Purpose = "Tender Fee"
	PurposeProcessingFee Purpose = "Processing Fee"
)

// Type is the concrete payment vehicle.
type Type string

const (
	TypeDD           Type = "DD"
	TypeFDR          Type = "FDR"
	TypeBG           Type = "BG"
	TypeCheque       Type = "Cheque"
	TypeBankTransfer Type = "Bank Transfer"
	TypePortal       Type = "Portal Payment"
)

// TypeLabels are display names for instrument types.
var TypeLabels = map[Type]string{
	TypeDD:           "Demand Draft",
	TypeFDR:          "Fixed Deposit Receipt",
	TypeBG:           "Bank Guarantee",
	TypeCheque:       "Cheque",
	TypeBankTransfer: "Bank Transfer",
	TypePortal:       "Payment on Portal",
}

// modeCodes maps the short mode codes used by request payloads (and the
// legacy numeric values still present in old rows) to canonical types.
var modeCodes = map[string]Type{
	"DD":     TypeDD,
	"FDR":    TypeFDR,
	"BG":     TypeBG,
	"CHEQUE": TypeCheque,
	"BT":     TypeBankTransfer,
	"POP":    TypePortal,
	"1":      TypePortal,
	"2":      TypeBankTransfer,
	"3":      TypeDD,
	"4":      TypeBG,
	"5":      TypeFDR,
	"6":      TypeCheque,
}

// NormalizeMode resolves a request mode code to a canonical instrument
// type. Canonical type strings pass through unchanged.
func NormalizeMode(mode string) (Type, bool) {
	if t, ok := modeCodes[mode]; ok {
		return t, true
	}
	switch Type(mode) {
	case TypeDD, TypeFDR, TypeBG, TypeCheque, TypeBankTransfer, TypePortal:
		return Type(mode), true
	}
	return "", false
}

// AllowedModes lists which instrument types each purpose accepts.
var AllowedModes = map[Purpose][]Type{
	PurposeEMD:           {TypeDD, TypeFDR, TypeBG, TypeCheque, TypeBankTransfer, TypePortal},
	PurposeTenderFee:     {TypePortal, TypeBankTransfer, TypeDD},
	PurposeProcessingFee: {TypePortal, TypeBankTransfer, TypeDD},
}

// DeliveryWindows are the accepted values for deliver-by fields:
// the tender due date itself or a fixed hour window.
var DeliveryWindows = []string{"TENDER_DUE", "24", "48", "72", "96", "120"}

// BGNeededInWindows are the hour windows a bank guarantee can be
// requested within.
var BGNeededInWindows = []string{"48", "72", "96", "120"}

// BGPurposes are the accepted purposes for a bank guarantee.
var BGPurposes = []string{
	"EMD",
	"ADVANCE_PAYMENT",
	"SECURITY_BOND_DEPOSIT",
	"BID_BOND",
	"PERFORMANCE",
	"FINANCIAL",
	"COUNTER_GUARANTEE",
}

// Banks is the list of issuing banks configured for BG requests.
var Banks = []string{
	"SBI",
	"HDFC",
	"ICICI",
	"YESBANK_2011",
	"YESBANK_0771",
	"PNB",
	"BGLIMIT",
}

// YesNo options for portal payment flags.
var YesNo = []string{"YES", "NO"}
