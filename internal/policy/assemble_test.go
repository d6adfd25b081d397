package policy

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestAssemble_EndToEndSingleSheet(t *testing.T) {
	src := &fakeSource{
		sheets: []string{"표지", SheetDigitalRenewal, "참고"},
		cells: map[string]string{
			"2.디지털재약정!A2": "프리미엄", "2.디지털재약정!B2": "50000",
			"2.디지털재약정!C2": "1000", "2.디지털재약정!D2": "500",
			"2.디지털재약정!E2": "2000", "2.디지털재약정!F2": "1000",
			"2.디지털재약정!G2": "주상품",
		},
	}

	doc, err := NewAssembler(testLogger(), 0).Assemble(src, "v2.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.DigitalRenewal.MainProducts) != 1 {
		t.Fatalf("expected 1 main product, got %d", len(doc.DigitalRenewal.MainProducts))
	}
	p := doc.DigitalRenewal.MainProducts[0]
	if p.ID != "프리미엄" || p.Name != "프리미엄" || p.MonthlyFee != 50000.0 {
		t.Errorf("unexpected product: %+v", p)
	}
	want := Benefits{
		Maintain: BenefitPair{GiftCard: 1000, Discount: 500},
		Upgrade:  BenefitPair{GiftCard: 2000, Discount: 1000},
	}
	if p.Benefits != want {
		t.Errorf("benefits = %+v, want %+v", p.Benefits, want)
	}

	// Every other section stays at its empty default.
	if len(doc.BundleRetention.Rows) != 0 {
		t.Errorf("expected empty matrix, got %d rows", len(doc.BundleRetention.Rows))
	}
	if len(doc.DigitalRenewal.SubProducts) != 0 {
		t.Errorf("expected no sub products, got %d", len(doc.DigitalRenewal.SubProducts))
	}
	if len(doc.EqualBundle.Policies) != 0 || len(doc.DStandalone.Tiers) != 0 {
		t.Errorf("expected empty equal-bundle and d-standalone sections")
	}

	if doc.Metadata.Version != "v2.0" {
		t.Errorf("expected version v2.0, got %q", doc.Metadata.Version)
	}
	if doc.Metadata.UpdatedAt.IsZero() {
		t.Errorf("expected updated_at to be set")
	}
}

func TestAssemble_AllSheetsAbsent(t *testing.T) {
	src := &fakeSource{sheets: []string{"unrelated"}}

	doc, err := NewAssembler(testLogger(), 0).Assemble(src, "")
	if err != nil {
		t.Fatalf("a missing sheet is not an error: %v", err)
	}
	if doc.Metadata.Version != DefaultVersion {
		t.Errorf("expected default version, got %q", doc.Metadata.Version)
	}

	// Empty sections serialize as empty collections, never null.
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, probe := range []struct{ field, want string }{
		{"bundle_retention_matrix", `"rows":[]`},
		{"digital_renewal", `"main_products":[]`},
		{"equal_bundle", `"policies":[]`},
		{"d_standalone", `"tiers":[]`},
	} {
		section, ok := m[probe.field]
		if !ok {
			t.Errorf("missing document field %q", probe.field)
			continue
		}
		if !json.Valid(section) {
			t.Errorf("invalid JSON for %q", probe.field)
		}
		if string(section) == "null" {
			t.Errorf("field %q serialized as null", probe.field)
		}
	}
}

func TestAssemble_FatalErrorReturnsNoDocument(t *testing.T) {
	src := &fakeSource{
		sheets: []string{SheetEqualBundle},
		cells:  map[string]string{"3.동등결합!A2": "해지방어"},
		broken: map[string]bool{"3.동등결합!A3": true},
	}

	doc, err := NewAssembler(testLogger(), 0).Assemble(src, "")
	if err == nil {
		t.Fatalf("expected extraction failure")
	}
	if doc != nil {
		t.Errorf("no partial document on fatal failure, got %+v", doc)
	}
	var exErr *ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
	if exErr.Sheet != SheetEqualBundle {
		t.Errorf("expected failing sheet %q, got %q", SheetEqualBundle, exErr.Sheet)
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	src := &fakeSource{
		sheets: []string{SheetBundleRetention, SheetDStandalone},
		cells: map[string]string{
			"1.번들재약정!A2": "250천원 이상", "1.번들재약정!B2": "요금유지", "1.번들재약정!D2": "10",
			"4.D단독!A2": "180천원 미만", "4.D단독!B2": "5",
		},
	}

	a := NewAssembler(testLogger(), 0)
	first, err := a.Assemble(src, "v1")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := a.Assemble(src, "v1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	// Structurally identical aside from the extraction timestamp.
	first.Metadata.UpdatedAt = second.Metadata.UpdatedAt
	a1, _ := json.Marshal(first)
	a2, _ := json.Marshal(second)
	if string(a1) != string(a2) {
		t.Errorf("re-extraction differs:\n%s\n%s", a1, a2)
	}
}

func TestDocument_WireFieldNames(t *testing.T) {
	doc := NewDocument()
	doc.BundleRetention.Rows = append(doc.BundleRetention.Rows, Segment{
		ID:   "250k",
		Name: "250천원 이상",
		Data: map[string]PolicyEntry{"요금유지": {SubProduct: "기가", GiftCard: 1, IPTV: 2}},
	})
	doc.DStandalone.Tiers = append(doc.DStandalone.Tiers, Tier{ID: "180k", Name: "180천원 이상"})

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{
		`"bundle_retention_matrix"`, `"rows"`, `"columns"`,
		`"sub_product"`, `"gift_card"`, `"iptv"`,
		`"digital_renewal"`, `"main_products"`, `"sub_products"`,
		`"equal_bundle"`, `"policies"`,
		`"d_standalone"`, `"tiers"`,
		`"maintain"`, `"change"`, `"discount_apply"`, `"contract_change"`,
		`"metadata"`, `"updated_at"`, `"version"`,
	} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("document JSON missing field %s", key)
		}
	}
}
