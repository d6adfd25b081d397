// Package policy turns a scanned retention-policy spreadsheet into the
// canonical policy document consumed by the web client and the admin
// workflow.
package policy

import "time"

// Document is the canonical policy artifact, rebuilt in full on every
// extraction. Field names are part of the wire contract and must not
// change.
type Document struct {
	BundleRetention Matrix         `json:"bundle_retention_matrix"`
	DigitalRenewal  DigitalRenewal `json:"digital_renewal"`
	EqualBundle     EqualBundle    `json:"equal_bundle"`
	DStandalone     DStandalone    `json:"d_standalone"`
	Metadata        Metadata       `json:"metadata"`
}

// Matrix is the bundle-retention section: one row per price segment.
type Matrix struct {
	Rows    []Segment `json:"rows"`
	Columns []string  `json:"columns"`
}

// Segment is one pricing bracket. Data accumulates one entry per source
// row carrying the segment's label, keyed by policy name.
type Segment struct {
	ID   string                 `json:"id"`
	Name string                 `json:"name"`
	Data map[string]PolicyEntry `json:"data"`
}

// PolicyEntry is a single bundle-retention benefit line.
type PolicyEntry struct {
	SubProduct string `json:"sub_product"`
	GiftCard   int    `json:"gift_card"`
	IPTV       int    `json:"iptv"`
}

// DigitalRenewal splits products by the main-product marker in the notes
// column.
type DigitalRenewal struct {
	MainProducts []Product `json:"main_products"`
	SubProducts  []Product `json:"sub_products"`
}

// Product is one digital-renewal offering.
type Product struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	MonthlyFee float64  `json:"monthly_fee"`
	Benefits   Benefits `json:"benefits"`
}

// Benefits holds the per-action benefit pairs for a product.
type Benefits struct {
	Maintain BenefitPair `json:"maintain"`
	Upgrade  BenefitPair `json:"upgrade"`
}

// BenefitPair is a gift-card amount plus a monthly discount amount.
type BenefitPair struct {
	GiftCard int `json:"gift_card"`
	Discount int `json:"discount"`
}

// EqualBundle is the equal-bundle section.
type EqualBundle struct {
	Policies []BundlePolicy `json:"policies"`
}

// BundlePolicy is one equal-bundle defense policy.
type BundlePolicy struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	GiftCard        int    `json:"gift_card"`
	MonthlyDiscount int    `json:"monthly_discount"`
	Description     string `json:"description"`
}

// DStandalone is the D-standalone section.
type DStandalone struct {
	Tiers []Tier `json:"tiers"`
}

// Tier is one D-standalone price tier with its four fixed policy slots.
type Tier struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Policies TierPolicies `json:"policies"`
}

// TierPolicies maps the four fixed column pairs of the D-standalone sheet.
type TierPolicies struct {
	Maintain       BenefitPair `json:"maintain"`
	Change         BenefitPair `json:"change"`
	DiscountApply  BenefitPair `json:"discount_apply"`
	ContractChange BenefitPair `json:"contract_change"`
}

// Metadata records when and from which policy revision the document was
// extracted.
type Metadata struct {
	UpdatedAt time.Time `json:"updated_at"`
	Version   string    `json:"version"`
}

// NewDocument returns a document with every section at its empty default,
// so absent sheets serialize as empty collections rather than null.
func NewDocument() *Document {
	return &Document{
		BundleRetention: Matrix{Rows: []Segment{}, Columns: matrixColumns()},
		DigitalRenewal:  DigitalRenewal{MainProducts: []Product{}, SubProducts: []Product{}},
		EqualBundle:     EqualBundle{Policies: []BundlePolicy{}},
		DStandalone:     DStandalone{Tiers: []Tier{}},
	}
}
