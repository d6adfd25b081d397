package policy

import "testing"

func TestDeriveID_BracketLabels(t *testing.T) {
	cases := []struct {
		label string
		kind  IDKind
		want  string
	}{
		{"250천원 이상", KindSegment, "250k"},
		{"250천원 미만", KindSegment, "250k_below"},
		{"180천원 이상", KindTier, "180k"},
		{"180천원 미만", KindTier, "180k_below"},
		// Labels outside the bracket vocabulary pass through verbatim.
		{"특별구간", KindSegment, "특별구간"},
	}
	for _, tc := range cases {
		if got := DeriveID(tc.label, tc.kind); got != tc.want {
			t.Errorf("DeriveID(%q, %v) = %q, want %q", tc.label, tc.kind, got, tc.want)
		}
	}
}

func TestDeriveID_Slug(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"Premium Plus", "premium_plus"},
		{"프리미엄", "프리미엄"},
		{"기가 인터넷 MAX", "기가_인터넷_max"},
	}
	for _, tc := range cases {
		if got := DeriveID(tc.label, KindSlug); got != tc.want {
			t.Errorf("DeriveID(%q, slug) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestDeriveID_Pure(t *testing.T) {
	for range 3 {
		if got := DeriveID("250천원 이상", KindSegment); got != "250k" {
			t.Fatalf("derivation is not stable, got %q", got)
		}
	}
}

func TestDeriveID_DuplicatesAllowed(t *testing.T) {
	// Two identical labels produce identical identifiers; the deriver
	// performs no uniqueness enforcement.
	a := DeriveID("인터넷 에센스", KindSlug)
	b := DeriveID("인터넷 에센스", KindSlug)
	if a != b {
		t.Errorf("expected identical ids for identical labels, got %q and %q", a, b)
	}
}
