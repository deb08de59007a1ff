package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venuebook/bookgo/internal/domain"
)

func fp(v float64) *float64 { return &v }

func TestResolve_DurationKeyOverrideWins(t *testing.T) {
	s := New()

	overrides := domain.PriceOverrideTable{
		ByDurationKey: map[string]*float64{"3h": fp(2500)},
	}

	price := s.Resolve(3, 1000, overrides)

	assert.Equal(t, int64(2500), price, "override must win over rate*duration (3000)")
}

func TestResolve_HourKeyOverrideSecond(t *testing.T) {
	s := New()

	overrides := domain.PriceOverrideTable{
		ByHourKey: map[int]*float64{3: fp(2700)},
	}

	assert.Equal(t, int64(2700), s.Resolve(3, 1000, overrides))
}

func TestResolve_DurationKeyBeatsHourKey(t *testing.T) {
	s := New()

	overrides := domain.PriceOverrideTable{
		ByDurationKey: map[string]*float64{"3h": fp(2500)},
		ByHourKey:     map[int]*float64{3: fp(2700)},
	}

	assert.Equal(t, int64(2500), s.Resolve(3, 1000, overrides))
}

func TestResolve_NullOverrideIsSkipped(t *testing.T) {
	s := New()

	overrides := domain.PriceOverrideTable{
		ByDurationKey: map[string]*float64{"3h": nil},
		ByHourKey:     map[int]*float64{3: nil},
	}

	assert.Equal(t, int64(3000), s.Resolve(3, 1000, overrides))
}

func TestResolve_FallsBackToRateTimesDuration(t *testing.T) {
	s := New()

	assert.Equal(t, int64(3000), s.Resolve(3, 1000, domain.PriceOverrideTable{}))
}

func TestResolve_RoundsFractionalResult(t *testing.T) {
	s := New()

	// 2.5h * 999 = 2497.5 -> 2498
	assert.Equal(t, int64(2498), s.Resolve(2.5, 999, domain.PriceOverrideTable{}))
}

func TestResolve_FractionalDurationKey(t *testing.T) {
	s := New()

	overrides := domain.PriceOverrideTable{
		ByDurationKey: map[string]*float64{"3.5h": fp(3200)},
	}

	assert.Equal(t, int64(3200), s.Resolve(3.5, 1000, overrides))
}

func TestResolve_HourKeyIgnoredForFractionalDuration(t *testing.T) {
	s := New()

	overrides := domain.PriceOverrideTable{
		ByHourKey: map[int]*float64{3: fp(2700)},
	}

	assert.Equal(t, int64(3500), s.Resolve(3.5, 1000, overrides))
}

func TestResolve_NonPositiveDurationYieldsZero(t *testing.T) {
	s := New()

	assert.Equal(t, int64(0), s.Resolve(0, 1000, domain.PriceOverrideTable{}))
	assert.Equal(t, int64(0), s.Resolve(-2, 1000, domain.PriceOverrideTable{}))
}

func TestResolve_NeverNegative(t *testing.T) {
	s := New()

	overrides := domain.PriceOverrideTable{
		ByDurationKey: map[string]*float64{"2h": fp(-500)},
	}

	assert.Equal(t, int64(0), s.Resolve(2, -100, domain.PriceOverrideTable{}))
	assert.Equal(t, int64(0), s.Resolve(2, 1000, overrides))
}

func TestCompute_GrandTotalIsSumOfAmounts(t *testing.T) {
	s := New()

	agg := s.Compute([]domain.AddonSelection{
		{Name: "Projector", Category: "equipment", Quantity: 1, UnitPrice: 500},
		{Name: "Chairs", Category: "furniture", Quantity: 20, UnitPrice: 10},
	})

	assert.Len(t, agg.Items, 2)
	assert.Equal(t, int64(500), agg.Items[0].Amount)
	assert.Equal(t, int64(200), agg.Items[1].Amount)

	var sum int64
	for _, item := range agg.Items {
		sum += item.Amount
	}
	assert.Equal(t, sum, agg.GrandTotal)
}

func TestCompute_SubItemQuantityNotMultipliedByParent(t *testing.T) {
	s := New()

	agg := s.Compute([]domain.AddonSelection{
		{
			Name: "Catering", Category: "food", Quantity: 3, UnitPrice: 400,
			SubItems: []domain.AddonSelection{
				{Name: "Dessert", Category: "food", Quantity: 2, UnitPrice: 100},
			},
		},
	})

	assert.Len(t, agg.Items, 2)
	assert.Equal(t, int64(1200), agg.Items[0].Amount)
	// 2*100, NOT 3*2*100
	assert.Equal(t, int64(200), agg.Items[1].Amount)
	assert.Equal(t, int64(1400), agg.GrandTotal)
}

func TestCompute_Empty(t *testing.T) {
	s := New()

	agg := s.Compute(nil)

	assert.Empty(t, agg.Items)
	assert.Equal(t, int64(0), agg.GrandTotal)
}

func TestMergeByName_SumsQtyAndAmountExactly(t *testing.T) {
	items := []domain.LineItem{
		{Name: "Chairs", Qty: 10, UnitPrice: 10, Amount: 100},
		{Name: "Projector", Qty: 1, UnitPrice: 500, Amount: 500},
		{Name: "Chairs", Qty: 5, UnitPrice: 12, Amount: 60},
	}

	merged := MergeByName(items)

	assert.Len(t, merged, 2)
	assert.Equal(t, int64(15), merged[0].Qty)
	assert.Equal(t, int64(160), merged[0].Amount)
	// first-seen unit price kept for display
	assert.Equal(t, int64(10), merged[0].UnitPrice)

	var total, mergedTotal int64
	for _, i := range items {
		total += i.Amount
	}
	for _, i := range merged {
		mergedTotal += i.Amount
	}
	assert.Equal(t, total, mergedTotal, "merge must not lose or double-count")
}
