package ratesheet

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/investor-cli/internal/model"
)

// Validate rejects sheets whose tiers are malformed or overlap. Runtime
// resolution stays first-match-wins, so overlap is caught here at the
// load boundary instead of silently depending on input order.
func Validate(rs *model.RateSheet) error {
	if rs.Empty() {
		return eris.New("ratesheet: no tiers")
	}

	for i, tier := range rs.Rates {
		if tier.LTVMin > tier.LTVMax {
			return eris.Errorf("ratesheet: tier %d: ltv_min %.2f exceeds ltv_max %.2f", i+1, tier.LTVMin, tier.LTVMax)
		}
		if tier.FicoMin > tier.FicoMax {
			return eris.Errorf("ratesheet: tier %d: fico_min %d exceeds fico_max %d", i+1, tier.FicoMin, tier.FicoMax)
		}
		if tier.LTVMin < 0 || tier.LTVMax > 100 {
			return eris.Errorf("ratesheet: tier %d: ltv range %.2f-%.2f outside [0,100]", i+1, tier.LTVMin, tier.LTVMax)
		}
		if tier.StandardRate <= 0 {
			return eris.Errorf("ratesheet: tier %d: non-positive rate %.3f", i+1, tier.StandardRate)
		}
	}

	for i := 0; i < len(rs.Rates); i++ {
		for j := i + 1; j < len(rs.Rates); j++ {
			if overlaps(rs.Rates[i], rs.Rates[j]) {
				return eris.Errorf("ratesheet: tiers %d and %d overlap", i+1, j+1)
			}
		}
	}
	return nil
}

func overlaps(a, b model.RateTier) bool {
	ltvOverlap := a.LTVMin <= b.LTVMax && b.LTVMin <= a.LTVMax
	ficoOverlap := a.FicoMin <= b.FicoMax && b.FicoMin <= a.FicoMax
	return ltvOverlap && ficoOverlap
}
