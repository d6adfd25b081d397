package policy

import "strings"

// IDKind selects the derivation rule for a label.
type IDKind int

const (
	// KindSegment derives identifiers for bundle-retention price brackets.
	KindSegment IDKind = iota
	// KindTier derives identifiers for D-standalone price tiers.
	KindTier
	// KindSlug derives identifiers for product and policy names.
	KindSlug
)

// Pricing-bracket vocabulary used by already-stored documents. These
// replacements must stay byte-compatible: "250천원 이상" -> "250k",
// "250천원 미만" -> "250k_below". Order matters because the replacer
// picks the first match.
var bracketReplacer = strings.NewReplacer(
	"천원 이상", "k",
	"천원 미만", "k_below",
)

// DeriveID converts a human-readable label into a stable identifier.
// Segment and tier labels go through the pricing-bracket replacements and
// are otherwise used verbatim; every other label becomes a lower-cased,
// underscore-joined slug. Duplicate labels yield duplicate identifiers;
// no deduplication happens here.
func DeriveID(label string, kind IDKind) string {
	switch kind {
	case KindSegment, KindTier:
		return bracketReplacer.Replace(label)
	default:
		return strings.ReplaceAll(strings.ToLower(label), " ", "_")
	}
}
