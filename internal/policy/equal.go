package policy

import (
	"log/slog"
	"strings"

	"github.com/dreamkkun/retention/internal/sheet"
)

// parseEqualBundle emits one policy per row: gift-card amount, monthly
// discount, free-text description.
func parseEqualBundle(src sheet.Source, maxRows int, log *slog.Logger) (EqualBundle, error) {
	e := EqualBundle{Policies: []BundlePolicy{}}

	sc := sheet.NewScanner(src, SheetEqualBundle, dataStartRow, "A",
		[]string{"B", "C", "D"}, maxRows, log)
	for sc.Next() {
		row := sc.Row()
		e.Policies = append(e.Policies, BundlePolicy{
			ID:              DeriveID(row.Key, KindSlug),
			Name:            row.Key,
			GiftCard:        cellInt(row.Cells["B"]),
			MonthlyDiscount: cellInt(row.Cells["C"]),
			Description:     strings.TrimSpace(row.Cells["D"]),
		})
	}
	return e, sc.Err()
}
