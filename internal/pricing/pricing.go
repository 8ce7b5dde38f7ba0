// Package pricing holds the pure computation core of the price-intelligence
// engine: name normalization, the minimum-by-key reduction that builds the
// best-price map, savings math and quantity conversions. Nothing in this
// package performs I/O — services and repositories call into it around their
// own side effects.
package pricing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vinecunha/riscae/internal/model"
)

// Normalize returns the canonical matching key for an item name: lowercased
// and trimmed. Two names with equal normalized forms are the same product for
// pricing purposes. No fuzzy matching or stemming happens anywhere.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BestPrice is the cheapest known observation for one normalized item name,
// with provenance.
type BestPrice struct {
	Price         decimal.Decimal `json:"price"`
	MarketID      string          `json:"market_id"`
	MarketName    string          `json:"market_name"`
	MarketAddress string          `json:"market_address"`
	Date          time.Time       `json:"date"`
}

// GroupByMinimum reduces rows to one entry per key, keeping the row for which
// less reports the minimum. On ties the earliest row wins, so for pre-sorted
// input the result is deterministic and equals "first occurrence per key".
func GroupByMinimum[T any](rows []T, key func(T) string, less func(a, b T) bool) map[string]T {
	out := make(map[string]T, len(rows))
	for _, row := range rows {
		k := key(row)
		cur, ok := out[k]
		if !ok || less(row, cur) {
			out[k] = row
		}
	}
	return out
}

// UnpricedSavingsHint is the flat per-unit amount an unpriced item contributes
// to the savings estimate: it signals "likely savings exist, exact amount
// unknown before pricing". The magnitude is a product decision carried over
// unchanged from the mobile app; override via SAVINGS_UNPRICED_HINT.
var UnpricedSavingsHint = decimal.NewFromFloat(0.50)

// ItemSavings returns the savings opportunity one item contributes against its
// best-price entry. hint is the flat per-unit increment used for unpriced
// items (zero price).
func ItemSavings(item model.Item, best *BestPrice, hint decimal.Decimal) decimal.Decimal {
	if best == nil {
		return decimal.Zero
	}
	switch {
	case item.Price.GreaterThan(best.Price):
		return item.Price.Sub(best.Price).Mul(item.Amount)
	case item.Price.IsZero():
		return hint.Mul(item.Amount)
	default:
		return decimal.Zero
	}
}

// ListSavings sums ItemSavings over all items, looking each one up by its
// normalized name. This value drives the incentive banner — advisory only.
func ListSavings(items []model.Item, best map[string]BestPrice, hint decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if entry, ok := best[Normalize(it.Name)]; ok {
			total = total.Add(ItemSavings(it, &entry, hint))
		}
	}
	return total
}

// ListTotal is the derived list total: Σ price×amount over completed items of
// the list. Idempotent and side-effect-free; callers persist the result.
func ListTotal(listID uuid.UUID, items []model.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.ListID == listID && it.Completed {
			total = total.Add(it.Price.Mul(it.Amount))
		}
	}
	return total
}

// FlagSegmentable returns the completed items of a list about to be finalized
// against marketID whose best-price entry points to a DIFFERENT market at a
// strictly lower price than the recorded one. These are the candidates offered
// for segmentation into a list bound to the cheaper store.
func FlagSegmentable(items []model.Item, best map[string]BestPrice, marketID string) []model.Item {
	var flagged []model.Item
	for _, it := range items {
		if !it.Completed {
			continue
		}
		entry, ok := best[Normalize(it.Name)]
		if !ok || entry.MarketID == marketID {
			continue
		}
		if entry.Price.LessThan(it.Price) {
			flagged = append(flagged, it)
		}
	}
	return flagged
}

var gramsPerKilogram = decimal.NewFromInt(1000)

// KilogramsFromGrams converts an entered gram quantity to the stored
// kilogram amount.
func KilogramsFromGrams(grams decimal.Decimal) decimal.Decimal {
	return grams.Div(gramsPerKilogram)
}

// GramsFromKilograms converts a stored kilogram amount back to grams for
// re-editing. Exact inverse of KilogramsFromGrams.
func GramsFromKilograms(kg decimal.Decimal) decimal.Decimal {
	return kg.Mul(gramsPerKilogram)
}
