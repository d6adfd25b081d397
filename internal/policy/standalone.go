package policy

import (
	"log/slog"

	"github.com/dreamkkun/retention/internal/sheet"
)

// parseDStandalone emits one tier per row. Columns B-I map pairwise into
// the four fixed policy slots: maintain, change, discount-apply,
// contract-change.
func parseDStandalone(src sheet.Source, maxRows int, log *slog.Logger) (DStandalone, error) {
	d := DStandalone{Tiers: []Tier{}}

	sc := sheet.NewScanner(src, SheetDStandalone, dataStartRow, "A",
		[]string{"B", "C", "D", "E", "F", "G", "H", "I"}, maxRows, log)
	for sc.Next() {
		row := sc.Row()
		pair := func(gift, discount string) BenefitPair {
			return BenefitPair{
				GiftCard: cellInt(row.Cells[gift]),
				Discount: cellInt(row.Cells[discount]),
			}
		}
		d.Tiers = append(d.Tiers, Tier{
			ID:   DeriveID(row.Key, KindTier),
			Name: row.Key,
			Policies: TierPolicies{
				Maintain:       pair("B", "C"),
				Change:         pair("D", "E"),
				DiscountApply:  pair("F", "G"),
				ContractChange: pair("H", "I"),
			},
		})
	}
	return d, sc.Err()
}
