package policy

import (
	"log/slog"
	"strings"

	"github.com/dreamkkun/retention/internal/sheet"
)

// matrixColumns describes the bundle-retention layout: columns B-E of the
// sheet, in order.
func matrixColumns() []string {
	return []string{"policy", "sub_product", "gift_card", "iptv"}
}

// parseBundleRetention walks the bundle-retention sheet grouping
// consecutive rows by the price-segment label in column A. A row whose
// label differs from the open segment starts a new one; a repeated label
// appends another policy entry to the segment already open. The open
// segment is threaded through the loop, no state outside it.
func parseBundleRetention(src sheet.Source, maxRows int, log *slog.Logger) (Matrix, error) {
	m := Matrix{Rows: []Segment{}, Columns: matrixColumns()}

	sc := sheet.NewScanner(src, SheetBundleRetention, dataStartRow, "A",
		[]string{"B", "C", "D", "E"}, maxRows, log)
	var open *Segment
	for sc.Next() {
		row := sc.Row()
		if open == nil || row.Key != open.Name {
			m.Rows = append(m.Rows, Segment{
				ID:   DeriveID(row.Key, KindSegment),
				Name: row.Key,
				Data: map[string]PolicyEntry{},
			})
			open = &m.Rows[len(m.Rows)-1]
		}
		open.Data[strings.TrimSpace(row.Cells["B"])] = PolicyEntry{
			SubProduct: strings.TrimSpace(row.Cells["C"]),
			GiftCard:   cellInt(row.Cells["D"]),
			IPTV:       cellInt(row.Cells["E"]),
		}
	}
	return m, sc.Err()
}
