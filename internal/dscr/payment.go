package dscr

import "math"

// amortTermMonths fixes every quote to a 30-year note.
const amortTermMonths = 360

// MonthlyPayment returns the monthly principal-and-interest payment for a
// fixed-rate 360-month loan, or the interest-only payment when io is set.
// Non-positive principal or rate returns 0 rather than propagating
// NaN/Inf through the scenario.
func MonthlyPayment(principal, annualRatePct float64, interestOnly bool) float64 {
	if principal <= 0 || annualRatePct <= 0 {
		return 0
	}

	monthlyRate := annualRatePct / 100 / 12
	if interestOnly {
		return principal * monthlyRate
	}

	growth := math.Pow(1+monthlyRate, amortTermMonths)
	return principal * monthlyRate * growth / (growth - 1)
}
