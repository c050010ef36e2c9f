package dscr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/investor-cli/internal/model"
)

func testSheet() *model.RateSheet {
	return &model.RateSheet{
		Name: "test",
		Rates: []model.RateTier{
			{LTVMin: 0, LTVMax: 70, FicoMin: 720, FicoMax: 850, StandardRate: 6.50, IOAdjustment: 0.25},
			{LTVMin: 70.01, LTVMax: 80, FicoMin: 720, FicoMax: 850, StandardRate: 6.875, IOAdjustment: 0.25},
			{LTVMin: 0, LTVMax: 80, FicoMin: 660, FicoMax: 719, StandardRate: 7.375, IOAdjustment: 0.375},
		},
	}
}

func TestResolveRate_SheetMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		ltv          float64
		fico         int
		interestOnly bool
		want         float64
	}{
		{name: "low ltv high fico", ltv: 65, fico: 760, want: 6.50},
		{name: "low ltv high fico io", ltv: 65, fico: 760, interestOnly: true, want: 6.75},
		{name: "mid ltv high fico", ltv: 75, fico: 740, want: 6.875},
		{name: "mid fico", ltv: 75, fico: 700, want: 7.375},
		{name: "boundary ltv inclusive", ltv: 80, fico: 720, want: 6.875},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ResolveRate(tt.ltv, tt.fico, tt.interestOnly, testSheet())
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestResolveRate_FirstMatchWins(t *testing.T) {
	t.Parallel()

	// Two tiers cover (75, 750); the first in input order must win.
	sheet := &model.RateSheet{Rates: []model.RateTier{
		{LTVMin: 0, LTVMax: 100, FicoMin: 300, FicoMax: 850, StandardRate: 6.0},
		{LTVMin: 70, LTVMax: 80, FicoMin: 700, FicoMax: 800, StandardRate: 9.0},
	}}

	assert.InDelta(t, 6.0, ResolveRate(75, 750, false, sheet), 0.0001)
}

func TestResolveRate_FallbackWhenUnmatched(t *testing.T) {
	t.Parallel()

	// FICO 500 matches no tier; silent fallback to the LTV ladder.
	got := ResolveRate(75, 500, false, testSheet())
	assert.InDelta(t, fallbackBaseRate, got, 0.0001)
}

func TestResolveRate_FallbackLadder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ltv  float64
		want float64
	}{
		{name: "ltv 70", ltv: 70, want: 7.125},
		{name: "ltv 75", ltv: 75, want: 7.25},
		{name: "ltv 80", ltv: 80, want: 7.375},
		{name: "ltv 85", ltv: 85, want: 7.50},
		{name: "ltv 90", ltv: 90, want: 7.625},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, ResolveRate(tt.ltv, 740, false, nil), 0.0001)
		})
	}
}

func TestResolveRate_FallbackMonotonicInLTV(t *testing.T) {
	t.Parallel()

	prev := 0.0
	for _, ltv := range []float64{60, 70, 72, 75, 78, 80, 83, 85, 88, 95} {
		rate := ResolveRate(ltv, 740, false, nil)
		assert.GreaterOrEqual(t, rate, prev, "ltv %.0f", ltv)
		prev = rate
	}
}

func TestResolveRate_FallbackIOAddsEighth(t *testing.T) {
	t.Parallel()

	for _, ltv := range []float64{65, 72, 78, 83, 90} {
		base := ResolveRate(ltv, 740, false, nil)
		io := ResolveRate(ltv, 740, true, nil)
		assert.InDelta(t, 0.125, io-base, 0.0001, "ltv %.0f", ltv)
	}
}

func TestResolveRate_EmptySheetFallsBack(t *testing.T) {
	t.Parallel()

	empty := &model.RateSheet{Name: "empty"}
	assert.InDelta(t, ResolveRate(75, 740, false, nil), ResolveRate(75, 740, false, empty), 0.0001)
}
