package policy

import (
	"log/slog"
	"strings"

	"github.com/dreamkkun/retention/internal/sheet"
)

// mainProductMarker routes a digital-renewal row into main_products when
// it appears anywhere in the notes column.
const mainProductMarker = "주상품"

// parseDigitalRenewal emits one product per row. Column B is the monthly
// fee, C-F the maintain/upgrade benefit amounts, G the free-text notes
// used for main/sub classification.
func parseDigitalRenewal(src sheet.Source, maxRows int, log *slog.Logger) (DigitalRenewal, error) {
	d := DigitalRenewal{MainProducts: []Product{}, SubProducts: []Product{}}

	sc := sheet.NewScanner(src, SheetDigitalRenewal, dataStartRow, "A",
		[]string{"B", "C", "D", "E", "F", "G"}, maxRows, log)
	for sc.Next() {
		row := sc.Row()
		p := Product{
			ID:         DeriveID(row.Key, KindSlug),
			Name:       row.Key,
			MonthlyFee: cellFloat(row.Cells["B"]),
			Benefits: Benefits{
				Maintain: BenefitPair{
					GiftCard: cellInt(row.Cells["C"]),
					Discount: cellInt(row.Cells["D"]),
				},
				Upgrade: BenefitPair{
					GiftCard: cellInt(row.Cells["E"]),
					Discount: cellInt(row.Cells["F"]),
				},
			},
		}
		if strings.Contains(row.Cells["G"], mainProductMarker) {
			d.MainProducts = append(d.MainProducts, p)
		} else {
			d.SubProducts = append(d.SubProducts, p)
		}
	}
	return d, sc.Err()
}
