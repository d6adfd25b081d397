package policy

import (
	"log/slog"
	"time"

	"github.com/dreamkkun/retention/internal/sheet"
)

// Sheet names the policy workbook is expected to carry, numbering prefix
// included. The layout drifts between releases but the sheet names do
// not.
const (
	SheetBundleRetention = "1.번들재약정"
	SheetDigitalRenewal  = "2.디지털재약정"
	SheetEqualBundle     = "3.동등결합"
	SheetDStandalone     = "4.D단독"
)

// dataStartRow is the first data row on every sheet; row 1 is the header.
const dataStartRow = 2

// DefaultVersion labels documents extracted without an explicit version.
const DefaultVersion = "v1"

// Assembler builds a canonical policy document from a tabular source.
type Assembler struct {
	log     *slog.Logger
	maxRows int
}

// NewAssembler creates an assembler. maxRows bounds each sheet scan;
// values <= 0 fall back to sheet.DefaultMaxRows.
func NewAssembler(log *slog.Logger, maxRows int) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{log: log, maxRows: maxRows}
}

// Assemble extracts every present policy sheet from src into a fresh
// document. A sheet missing from the workbook leaves its section at the
// empty default; an unrecoverable read failure on a present sheet aborts
// the whole call with no partial document.
func (a *Assembler) Assemble(src sheet.Source, version string) (*Document, error) {
	if version == "" {
		version = DefaultVersion
	}
	doc := NewDocument()

	if sheet.HasSheet(src, SheetBundleRetention) {
		m, err := parseBundleRetention(src, a.maxRows, a.log)
		if err != nil {
			return nil, &ExtractionError{Sheet: SheetBundleRetention, Err: err}
		}
		doc.BundleRetention = m
	}
	if sheet.HasSheet(src, SheetDigitalRenewal) {
		d, err := parseDigitalRenewal(src, a.maxRows, a.log)
		if err != nil {
			return nil, &ExtractionError{Sheet: SheetDigitalRenewal, Err: err}
		}
		doc.DigitalRenewal = d
	}
	if sheet.HasSheet(src, SheetEqualBundle) {
		e, err := parseEqualBundle(src, a.maxRows, a.log)
		if err != nil {
			return nil, &ExtractionError{Sheet: SheetEqualBundle, Err: err}
		}
		doc.EqualBundle = e
	}
	if sheet.HasSheet(src, SheetDStandalone) {
		d, err := parseDStandalone(src, a.maxRows, a.log)
		if err != nil {
			return nil, &ExtractionError{Sheet: SheetDStandalone, Err: err}
		}
		doc.DStandalone = d
	}

	doc.Metadata = Metadata{UpdatedAt: time.Now().UTC(), Version: version}

	a.log.Info("policy document assembled",
		"segments", len(doc.BundleRetention.Rows),
		"main_products", len(doc.DigitalRenewal.MainProducts),
		"sub_products", len(doc.DigitalRenewal.SubProducts),
		"equal_bundle_policies", len(doc.EqualBundle.Policies),
		"tiers", len(doc.DStandalone.Tiers),
		"version", version,
	)
	return doc, nil
}
