package instruments

import "testing"

func validDDDetails() map[string]any {
	return map[string]any{
		"ddAmount":    50000.0,
		"ddFavouring": "Chief Engineer, PWD",
		"ddPayableAt": "Hyderabad",
		"ddDeliverBy": "72",
		"ddPurpose":   "EMD for tender 42",
	}
}

func TestValidateDD(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(map[string]any)
		wantField string
	}{
		{"complete payload", func(map[string]any) {}, ""},
		{"missing favouring", func(d map[string]any) { delete(d, "ddFavouring") }, "ddFavouring"},
		{"blank favouring", func(d map[string]any) { d["ddFavouring"] = "" }, "ddFavouring"},
		{"missing amount", func(d map[string]any) { delete(d, "ddAmount") }, "ddAmount"},
		{"negative amount", func(d map[string]any) { d["ddAmount"] = -1.0 }, "ddAmount"},
		{"amount wrong type", func(d map[string]any) { d["ddAmount"] = []any{} }, "ddAmount"},
		{"deliver-by outside options", func(d map[string]any) { d["ddDeliverBy"] = "36" }, "ddDeliverBy"},
		{"deliver-by as number", func(d map[string]any) { d["ddDeliverBy"] = 72 }, ""},
		{"deliver-by tender due", func(d map[string]any) { d["ddDeliverBy"] = "TENDER_DUE" }, ""},
		{"optional courier hours accepted", func(d map[string]any) { d["ddCourierHours"] = 48.0 }, ""},
		{"optional date wrong format", func(d map[string]any) { d["ddDate"] = "10-03-2025" }, "ddDate"},
		{"optional date iso", func(d map[string]any) { d["ddDate"] = "2025-03-10" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := validDDDetails()
			tt.mutate(details)

			errs, err := Validate(PurposeEMD, TypeDD, details)
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Errorf("expected valid payload, got %v", errs)
				}
				return
			}
			found := false
			for _, fe := range errs {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected a field error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	details := validDDDetails()
	delete(details, "ddFavouring")

	first, err := Validate(PurposeEMD, TypeDD, details)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Validate(PurposeEMD, TypeDD, details)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("re-validation diverged: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("re-validation diverged at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestValidateModeNotAllowedForPurpose(t *testing.T) {
	// Tender fees only move through portal, bank transfer, or DD.
	errs, err := Validate(PurposeTenderFee, TypeBG, map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, fe := range errs {
		if fe.Field == "mode" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a mode error for BG under Tender Fee, got %v", errs)
	}
}

func TestValidateUnknownType(t *testing.T) {
	if _, err := Validate(PurposeEMD, Type("Bitcoin"), map[string]any{}); err == nil {
		t.Error("unknown instrument type must be a hard error, not a field error")
	}
	if _, err := RequiredFields(Purpose("Bribe"), TypeDD); err == nil {
		t.Error("unknown purpose must be a hard error")
	}
}

func TestValidateBG(t *testing.T) {
	details := map[string]any{
		"bgAmount":      250000.0,
		"bgNeededIn":    "96",
		"bgPurpose":     "EMD",
		"bgFavouring":   "Managing Director, TSIIC",
		"bgAddress":     "Plot 1, Financial District",
		"bgExpiryDate":  "2025-12-31",
		"bgClaimPeriod": "12 months",
		"bgBank":        "SBI",
	}
	errs, err := Validate(PurposeEMD, TypeBG, details)
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 0 {
		t.Fatalf("expected valid BG payload, got %v", errs)
	}

	details["bgCourierDays"] = 15.0
	errs, err = Validate(PurposeEMD, TypeBG, details)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, fe := range errs {
		if fe.Field == "bgCourierDays" {
			found = true
		}
	}
	if !found {
		t.Errorf("bgCourierDays above 10 must fail, got %v", errs)
	}

	details["bgCourierDays"] = 3.0
	details["bgFormatFiles"] = []any{"bg/format.pdf"}
	errs, err = Validate(PurposeEMD, TypeBG, details)
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 0 {
		t.Errorf("expected valid payload with courier days and files, got %v", errs)
	}
}

func TestValidateFileListFields(t *testing.T) {
	details := map[string]any{
		"bgAmount":      1000.0,
		"bgNeededIn":    "48",
		"bgPurpose":     "SECURITY_BOND_DEPOSIT",
		"bgFavouring":   "x",
		"bgAddress":     "y",
		"bgExpiryDate":  "2026-01-01",
		"bgClaimPeriod": "6 months",
		"bgBank":        "HDFC",
		"bgPoFiles":     []any{"po/1.pdf", 42},
	}
	errs, err := Validate(PurposeEMD, TypeBG, details)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, fe := range errs {
		if fe.Field == "bgPoFiles" {
			found = true
		}
	}
	if !found {
		t.Errorf("a non-string file entry must fail, got %v", errs)
	}
}

func TestNormalizeMode(t *testing.T) {
	tests := []struct {
		mode string
		want Type
		ok   bool
	}{
		{"DD", TypeDD, true},
		{"Bank Transfer", TypeBankTransfer, true},
		{"Portal Payment", TypePortal, true},
		{"BT", TypeBankTransfer, true},
		{"UPI", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got, ok := NormalizeMode(tt.mode)
			if ok != tt.ok || got != tt.want {
				t.Errorf("NormalizeMode(%q) = (%q, %v), expected (%q, %v)", tt.mode, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRequiredFieldsCoverAllTypesForEMD(t *testing.T) {
	for _, typ := range AllowedModes[PurposeEMD] {
		fields, err := RequiredFields(PurposeEMD, typ)
		if err != nil {
			t.Errorf("RequiredFields(EMD, %q) failed: %v", typ, err)
			continue
		}
		required := 0
		for _, f := range fields {
			if f.Required {
				required++
			}
			if f.Kind == KindEnum && len(f.Options) == 0 {
				t.Errorf("%s/%s: enum field without options", typ, f.Name)
			}
		}
		if required == 0 {
			t.Errorf("type %q has no required fields", typ)
		}
	}
}
