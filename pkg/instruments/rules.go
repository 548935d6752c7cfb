package instruments

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kind is the value shape of a detail field.
type Kind string

const (
	KindString   Kind = "string"
	KindNumber   Kind = "number"
	KindDate     Kind = "date"
	KindEnum     Kind = "enum"
	KindFileList Kind = "file-list"
)

// Field describes one detail field of an instrument mode.
type Field struct {
	Name     string   `json:"name"`
	Kind     Kind     `json:"kind"`
	Required bool     `json:"required"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// FieldError is one missing or invalid detail field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func num(v float64) *float64 { return &v }

// fieldsByType is the single source of truth for the detail shape each
// instrument type requires. Adding a new type means adding a row here;
// gating logic never branches on individual fields.
var fieldsByType = map[Type][]Field{
	TypeDD: {
		{Name: "ddAmount", Kind: KindNumber, Required: true, Min: num(0)},
		{Name: "ddFavouring", Kind: KindString, Required: true},
		{Name: "ddPayableAt", Kind: KindString, Required: true},
		{Name: "ddDeliverBy", Kind: KindEnum, Required: true, Options: DeliveryWindows},
		{Name: "ddPurpose", Kind: KindString, Required: true},
		{Name: "ddCourierAddress", Kind: KindString},
		{Name: "ddCourierHours", Kind: KindNumber, Min: num(0)},
		{Name: "ddDate", Kind: KindDate},
		{Name: "ddRemarks", Kind: KindString},
	},
	TypeFDR: {
		{Name: "fdrAmount", Kind: KindNumber, Required: true, Min: num(0)},
		{Name: "fdrFavouring", Kind: KindString, Required: true},
		{Name: "fdrExpiryDate", Kind: KindDate, Required: true},
		{Name: "fdrDeliverBy", Kind: KindEnum, Required: true, Options: DeliveryWindows},
		{Name: "fdrPurpose", Kind: KindString, Required: true},
		{Name: "fdrCourierAddress", Kind: KindString},
		{Name: "fdrCourierHours", Kind: KindNumber, Min: num(0)},
		{Name: "fdrDate", Kind: KindDate},
	},
	TypeBG: {
		{Name: "bgAmount", Kind: KindNumber, Required: true, Min: num(0)},
		{Name: "bgNeededIn", Kind: KindEnum, Required: true, Options: BGNeededInWindows},
		{Name: "bgPurpose", Kind: KindEnum, Required: true, Options: BGPurposes},
		{Name: "bgFavouring", Kind: KindString, Required: true},
		{Name: "bgAddress", Kind: KindString, Required: true},
		{Name: "bgExpiryDate", Kind: KindDate, Required: true},
		{Name: "bgClaimPeriod", Kind: KindString, Required: true},
		{Name: "bgBank", Kind: KindEnum, Required: true, Options: Banks},
		{Name: "bgStampValue", Kind: KindNumber, Min: num(0)},
		{Name: "bgFormatFiles", Kind: KindFileList},
		{Name: "bgPoFiles", Kind: KindFileList},
		{Name: "bgClientUserEmail", Kind: KindString},
		{Name: "bgClientCpEmail", Kind: KindString},
		{Name: "bgClientFinanceEmail", Kind: KindString},
		{Name: "bgCourierAddress", Kind: KindString},
		{Name: "bgCourierDays", Kind: KindNumber, Min: num(1), Max: num(10)},
	},
	TypeCheque: {
		{Name: "chequeAmount", Kind: KindNumber, Required: true, Min: num(0)},
		{Name: "chequeFavouring", Kind: KindString, Required: true},
		{Name: "chequeDate", Kind: KindDate, Required: true},
		{Name: "chequeNeededIn", Kind: KindEnum, Required: true, Options: DeliveryWindows},
		{Name: "chequePurpose", Kind: KindString, Required: true},
		{Name: "chequeAccount", Kind: KindString, Required: true},
	},
	TypeBankTransfer: {
		{Name: "btAmount", Kind: KindNumber, Required: true, Min: num(0)},
		{Name: "btPurpose", Kind: KindString, Required: true},
		{Name: "btAccountName", Kind: KindString, Required: true},
		{Name: "btAccountNo", Kind: KindString, Required: true},
		{Name: "btIfsc", Kind: KindString, Required: true},
	},
	TypePortal: {
		{Name: "portalAmount", Kind: KindNumber, Required: true, Min: num(0)},
		{Name: "portalPurpose", Kind: KindString, Required: true},
		{Name: "portalName", Kind: KindString, Required: true},
		{Name: "portalNetBanking", Kind: KindEnum, Options: YesNo},
		{Name: "portalDebitCard", Kind: KindEnum, Options: YesNo},
	},
}

// RequiredFields returns the field descriptors for (purpose, type).
// An unknown type is a configuration error; a type the purpose does not
// accept is reported through a FieldError by Validate.
func RequiredFields(purpose Purpose, typ Type) ([]Field, error) {
	fields, ok := fieldsByType[typ]
	if !ok {
		return nil, fmt.Errorf("instruments: unknown instrument type %q", typ)
	}
	if _, ok := AllowedModes[purpose]; !ok {
		return nil, fmt.Errorf("instruments: unknown payment purpose %q", purpose)
	}
	return fields, nil
}

// ModeAllowed reports whether purpose accepts typ.
func ModeAllowed(purpose Purpose, typ Type) bool {
	for _, t := range AllowedModes[purpose] {
		if t == typ {
			return true
		}
	}
	return false
}

// Validate checks a details payload against the rule table. An empty
// slice means the payload is valid. Validation is idempotent: a payload
// that validated at creation validates identically on every re-check.
func Validate(purpose Purpose, typ Type, details map[string]any) ([]FieldError, error) {
	fields, err := RequiredFields(purpose, typ)
	if err != nil {
		return nil, err
	}

	var errs []FieldError
	if !ModeAllowed(purpose, typ) {
		errs = append(errs, FieldError{
			Field:   "mode",
			Message: fmt.Sprintf("mode %q is not allowed for %s", typ, purpose),
		})
	}

	for _, f := range fields {
		raw, present := details[f.Name]
		if !present || isEmpty(raw) {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Name, Message: "required field is missing"})
			}
			continue
		}
		if msg := checkValue(f, raw); msg != "" {
			errs = append(errs, FieldError{Field: f.Name, Message: msg})
		}
	}
	return errs, nil
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	}
	return false
}

func checkValue(f Field, raw any) string {
	switch f.Kind {
	case KindString:
		if _, ok := raw.(string); !ok {
			return "must be a string"
		}
	case KindNumber:
		n, ok := toNumber(raw)
		if !ok {
			return "must be a number"
		}
		if f.Min != nil && n < *f.Min {
			return fmt.Sprintf("must be at least %v", *f.Min)
		}
		if f.Max != nil && n > *f.Max {
			return fmt.Sprintf("must be at most %v", *f.Max)
		}
	case KindDate:
		s, ok := raw.(string)
		if !ok {
			return "must be a date string"
		}
		if !parseableDate(s) {
			return "must be an ISO date"
		}
	case KindEnum:
		s, ok := raw.(string)
		if !ok {
			s, ok = numericEnum(raw)
		}
		if !ok {
			return "must be one of the configured options"
		}
		for _, opt := range f.Options {
			if s == opt {
				return ""
			}
		}
		return fmt.Sprintf("must be one of %v", f.Options)
	case KindFileList:
		switch val := raw.(type) {
		case []string:
			return ""
		case []any:
			for _, item := range val {
				if _, ok := item.(string); !ok {
					return "must be a list of file references"
				}
			}
		default:
			return "must be a list of file references"
		}
	}
	return ""
}

// numericEnum tolerates clients sending hour windows as numbers ("72" vs 72).
func numericEnum(raw any) (string, bool) {
	if n, ok := toNumber(raw); ok {
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	return "", false
}

func toNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

func parseableDate(s string) bool {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
