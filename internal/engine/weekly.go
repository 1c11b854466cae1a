package engine

import (
	"github.com/hafoozi/price-tracker/internal/notify"
	domain "github.com/hafoozi/price-tracker/pkg/types"
)

// weeklyRows builds the summary dataset in config order: the price seen
// this run (nil when absent or out of stock) against the last price
// logged at or before seven days ago. History lookup failures degrade to
// a no-history row rather than dropping the product from the table.
func (e *Engine) weeklyRows(
	products []domain.TrackedProduct,
	currentPrices map[string]*float64,
) []notify.WeeklyRow {
	cutoff := e.now().AddDate(0, 0, -7)

	rows := make([]notify.WeeklyRow, 0, len(products))
	for _, p := range products {
		lastWeek, err := e.store.PriceAt(p.Key(), cutoff)
		if err != nil {
			e.log.Error("weekly history lookup failed", "product", p.Key(), "error", err)
			lastWeek = nil
		}
		rows = append(rows, notify.WeeklyRow{
			Name:     p.Key(),
			Current:  currentPrices[p.Key()],
			LastWeek: lastWeek,
		})
	}
	return rows
}
