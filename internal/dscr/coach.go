package dscr

import (
	"fmt"

	"github.com/sells-group/investor-cli/internal/model"
)

const (
	// qualifyingDSCR is the ratio a scenario must reach to qualify.
	qualifyingDSCR = 1.0
	// hardFloorDSCR is the ratio below which a 30% minimum down payment applies.
	hardFloorDSCR = 0.75

	maxDownPaymentPct  = 90
	baseMinDownPct     = 10
	elevatedMinDownPct = 30

	bisectionIterations = 50
	bisectionTolerance  = 0.01
)

// Coach suggests a down-payment adjustment for a scenario whose DSCR falls
// below 1.0, holding every other input fixed. Returns nil when the scenario
// already qualifies.
func Coach(in model.ScenarioInput, res model.ScenarioResult, sheet *model.RateSheet) *model.CoachingAdvice {
	if res.DSCR >= qualifyingDSCR {
		return nil
	}

	advice := &model.CoachingAdvice{Severity: model.AdviceSeverityWarning}
	if res.DSCR < hardFloorDSCR {
		advice.Severity = model.AdviceSeverityError
	}

	suggested, found := minQualifyingDown(in, sheet)
	if found {
		advice.SuggestionFound = true
		advice.SuggestedDownPct = suggested

		probe := in
		probe.DownPaymentPercent = suggested
		advice.ProjectedDSCR = Compute(probe, sheet).DSCR
	}

	switch {
	case advice.Severity == model.AdviceSeverityError && found:
		advice.Message = fmt.Sprintf(
			"DSCR %.2f is below 0.75: minimum 30%% down payment required. Increasing the down payment to %.1f%% would reach a 1.0 DSCR.",
			res.DSCR, suggested)
	case advice.Severity == model.AdviceSeverityError:
		advice.Message = fmt.Sprintf(
			"DSCR %.2f is below 0.75: minimum 30%% down payment required. No down payment up to 90%% reaches a 1.0 DSCR; reduce price or increase rent.",
			res.DSCR)
	case found:
		advice.Message = fmt.Sprintf(
			"DSCR %.2f is below 1.0. Increasing the down payment to %.1f%% would reach a 1.0 DSCR.",
			res.DSCR, suggested)
	default:
		advice.Message = fmt.Sprintf(
			"DSCR %.2f is below 1.0 and no down payment up to 90%% qualifies; reduce price or increase rent.",
			res.DSCR)
	}

	return advice
}

// minQualifyingDown bisects over down-payment percent in
// [current, maxDownPaymentPct] for the smallest value whose DSCR is >= 1.0.
func minQualifyingDown(in model.ScenarioInput, sheet *model.RateSheet) (float64, bool) {
	dscrAt := func(downPct float64) float64 {
		probe := in
		probe.DownPaymentPercent = downPct
		return Compute(probe, sheet).DSCR
	}

	lo, hi := in.DownPaymentPercent, float64(maxDownPaymentPct)
	if dscrAt(hi) < qualifyingDSCR-bisectionTolerance {
		return 0, false
	}

	for i := 0; i < bisectionIterations; i++ {
		mid := (lo + hi) / 2
		if dscrAt(mid) >= qualifyingDSCR {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, true
}

// SliderBounds derives the presentation-layer down-payment bounds from a
// computed result. The minimum rises to 30 when the unconstrained DSCR is
// below 0.75. This is a UI rule layered on top of Compute, which never
// clamps its own inputs.
func SliderBounds(res model.ScenarioResult) (min, max float64) {
	min = baseMinDownPct
	if res.DSCR < hardFloorDSCR {
		min = elevatedMinDownPct
	}
	return min, maxDownPaymentPct
}
