package dscr

import "github.com/sells-group/investor-cli/internal/model"

// shortTermHaircut discounts short-term rental income for qualification.
const shortTermHaircut = 0.8

// Compute derives a full scenario result from the inputs and an optional
// rate sheet. It is a pure function: identical inputs yield identical
// outputs, and nothing is clamped or mutated. Presentation constraints
// (slider bounds) are derived separately via SliderBounds.
func Compute(in model.ScenarioInput, sheet *model.RateSheet) model.ScenarioResult {
	loanAmount := in.PurchasePrice * (1 - in.DownPaymentPercent/100)
	ltv := 100 - in.DownPaymentPercent

	rate := ResolveRate(ltv, in.FicoScore, in.InterestOnly, sheet)
	pi := MonthlyPayment(loanAmount, rate, in.InterestOnly)

	monthlyTax := monthlyTax(in)
	monthlyInsurance := in.InsuranceAnnual / 12
	pitia := pi + monthlyTax + monthlyInsurance + in.HOAMonthly

	effectiveRent := monthlyRent(in)
	if in.RentType == model.RentTypeShort {
		effectiveRent *= shortTermHaircut
	}

	var ratio float64
	if pitia > 0 {
		ratio = effectiveRent / pitia
	}

	return model.ScenarioResult{
		LoanAmount:       loanAmount,
		LTV:              ltv,
		Rate:             rate,
		MonthlyPI:        pi,
		MonthlyTax:       monthlyTax,
		MonthlyInsurance: monthlyInsurance,
		PITIA:            pitia,
		EffectiveRent:    effectiveRent,
		DSCR:             ratio,
		CashFlow:         effectiveRent - pitia,
	}
}

func monthlyRent(in model.ScenarioInput) float64 {
	if in.RentPeriod == model.RentPeriodAnnual {
		return in.Rent / 12
	}
	return in.Rent
}

// monthlyTax interprets the tax input per its mode: a rate is an annual
// percent of purchase price; a flat amount is annual unless quoted monthly.
func monthlyTax(in model.ScenarioInput) float64 {
	if in.TaxMode == model.TaxModeRate {
		return in.PurchasePrice * in.PropertyTax / 100 / 12
	}
	if in.TaxPeriod == model.RentPeriodMonthly {
		return in.PropertyTax
	}
	return in.PropertyTax / 12
}
