package pricing

import (
	"math"
	"strconv"

	"github.com/venuebook/bookgo/internal/domain"
)

// Service resolves booking prices and aggregates add-on selections. All
// operations are pure; the service carries no state beyond configuration.
type Service struct{}

func New() *Service {
	return &Service{}
}

// Resolve computes the final price for a selected duration against a space's
// override table. Precedence, first match wins:
//
//  1. the duration-keyed override ("3h"), if present and not null;
//  2. the hour-keyed override, if present and not null;
//  3. round(hourlyRate * durationHours).
//
// The result is rounded to the nearest integer currency unit and floored at
// zero. A non-positive duration yields 0; there are no error paths.
func (s *Service) Resolve(
	durationHours float64,
	hourlyRate float64,
	overrides domain.PriceOverrideTable,
) int64 {
	if durationHours <= 0 {
		return 0
	}

	if v, ok := overrides.ByDurationKey[DurationKey(durationHours)]; ok && v != nil {
		return clampPrice(*v)
	}

	if whole := int(durationHours); float64(whole) == durationHours {
		if v, ok := overrides.ByHourKey[whole]; ok && v != nil {
			return clampPrice(*v)
		}
	}

	return clampPrice(hourlyRate * durationHours)
}

// DurationKey formats a duration for override lookup: 3 -> "3h", 3.5 -> "3.5h".
func DurationKey(durationHours float64) string {
	return strconv.FormatFloat(durationHours, 'f', -1, 64) + "h"
}

func clampPrice(v float64) int64 {
	p := int64(math.Round(v))
	if p < 0 {
		return 0
	}
	return p
}

// Aggregation is the itemized result of a set of add-on selections.
type Aggregation struct {
	Items      []domain.LineItem `json:"items"`
	GrandTotal int64             `json:"grand_total"`
}

// Compute flattens selections into line items and sums the grand total.
// Sub-items become their own lines; a sub-item's amount uses only its own
// quantity, never multiplied by the parent's.
func (s *Service) Compute(selections []domain.AddonSelection) Aggregation {
	var agg Aggregation
	flatten(selections, &agg)
	return agg
}

func flatten(selections []domain.AddonSelection, agg *Aggregation) {
	for _, sel := range selections {
		amount := sel.Quantity * sel.UnitPrice
		agg.Items = append(agg.Items, domain.LineItem{
			Name:      sel.Name,
			Category:  sel.Category,
			Qty:       sel.Quantity,
			UnitPrice: sel.UnitPrice,
			Amount:    amount,
		})
		agg.GrandTotal += amount

		flatten(sel.SubItems, agg)
	}
}

// MergeByName folds line items with the same exact name into one, summing
// qty and amount and keeping the first-seen unit price for display. This is
// a reporting projection, not the authoritative total.
func MergeByName(items []domain.LineItem) []domain.LineItem {
	var merged []domain.LineItem
	index := make(map[string]int)

	for _, item := range items {
		if i, ok := index[item.Name]; ok {
			merged[i].Qty += item.Qty
			merged[i].Amount += item.Amount
			continue
		}
		index[item.Name] = len(merged)
		merged = append(merged, item)
	}

	return merged
}
