// Package dscr computes DSCR loan scenarios: rate resolution, payment
// math, the scenario rollup, and down-payment coaching.
package dscr

import "github.com/sells-group/investor-cli/internal/model"

// fallbackBaseRate anchors the default rate ladder used when no rate
// sheet is available or no tier matches.
const fallbackBaseRate = 7.25

// ioAdjustmentDefault is the interest-only add-on for the fallback ladder.
const ioAdjustmentDefault = 0.125

// ResolveRate returns the note rate for a loan at the given LTV and FICO.
// The sheet is scanned in input order and the first matching tier wins;
// a nil or empty sheet, or an unmatched lookup, falls back to the default
// LTV-band ladder. Unmatched lookups are not an error.
func ResolveRate(ltv float64, fico int, interestOnly bool, sheet *model.RateSheet) float64 {
	if !sheet.Empty() {
		for _, tier := range sheet.Rates {
			if tier.Matches(ltv, fico) {
				rate := tier.StandardRate
				if interestOnly {
					rate += tier.IOAdjustment
				}
				return rate
			}
		}
	}
	return fallbackRate(ltv, interestOnly)
}

// fallbackRate is the base-rate ladder keyed only on LTV bands.
func fallbackRate(ltv float64, interestOnly bool) float64 {
	rate := fallbackBaseRate
	switch {
	case ltv <= 70:
		rate -= 0.125
	case ltv <= 75:
		// base rate
	case ltv <= 80:
		rate += 0.125
	case ltv <= 85:
		rate += 0.25
	default:
		rate += 0.375
	}
	if interestOnly {
		rate += ioAdjustmentDefault
	}
	return rate
}
