package model

import "time"

// RentPeriod says whether a rent figure is quoted monthly or annually.
type RentPeriod string

const (
	RentPeriodMonthly RentPeriod = "monthly"
	RentPeriodAnnual  RentPeriod = "annual"
)

// RentType distinguishes long-term leases from short-term (STR) income.
// Short-term rent is haircut to 80% for qualification.
type RentType string

const (
	RentTypeLong  RentType = "long"
	RentTypeShort RentType = "short"
)

// TaxMode says how the property tax input should be interpreted.
type TaxMode string

const (
	TaxModeRate TaxMode = "rate"   // percent of purchase price per year
	TaxModeFlat TaxMode = "amount" // dollar amount
)

// ScenarioInput holds every user-supplied input to a DSCR loan scenario.
type ScenarioInput struct {
	PurchasePrice      float64    `json:"purchase_price"`
	DownPaymentPercent float64    `json:"down_payment_percent"`
	Rent               float64    `json:"rent"`
	RentPeriod         RentPeriod `json:"rent_period"`
	RentType           RentType   `json:"rent_type"`
	PropertyTax        float64    `json:"property_tax"`
	TaxMode            TaxMode    `json:"tax_mode"`
	TaxPeriod          RentPeriod `json:"tax_period"` // annual or monthly, flat amounts only
	InsuranceAnnual    float64    `json:"insurance_annual"`
	HOAMonthly         float64    `json:"hoa_monthly"`
	InterestOnly       bool       `json:"interest_only"`
	FicoScore          int        `json:"fico_score"`
}

// ScenarioResult holds everything derived from a ScenarioInput. Recomputed
// on every input change; persisted only inside a SavedScenario snapshot.
type ScenarioResult struct {
	LoanAmount       float64 `json:"loan_amount"`
	LTV              float64 `json:"ltv"`
	Rate             float64 `json:"rate"`
	MonthlyPI        float64 `json:"monthly_pi"`
	MonthlyTax       float64 `json:"monthly_tax"`
	MonthlyInsurance float64 `json:"monthly_insurance"`
	PITIA            float64 `json:"pitia"`
	EffectiveRent    float64 `json:"effective_rent"`
	DSCR             float64 `json:"dscr"`
	CashFlow         float64 `json:"cash_flow"`
}

// AdviceSeverity grades coaching output.
type AdviceSeverity string

const (
	AdviceSeverityWarning AdviceSeverity = "warning"
	AdviceSeverityError   AdviceSeverity = "error"
)

// CoachingAdvice is the down-payment guidance produced when a scenario's
// DSCR falls below 1.0.
type CoachingAdvice struct {
	Severity           AdviceSeverity `json:"severity"`
	Message            string         `json:"message"`
	SuggestedDownPct   float64        `json:"suggested_down_pct,omitempty"`
	SuggestionFound    bool           `json:"suggestion_found"`
	ProjectedDSCR      float64        `json:"projected_dscr,omitempty"`
}

// SavedScenario is an immutable snapshot of a scenario and its computed
// result, owned by one tenant namespace.
type SavedScenario struct {
	ID        string         `json:"id"`
	Tenant    string         `json:"tenant"`
	Label     string         `json:"label,omitempty"`
	Input     ScenarioInput  `json:"input"`
	Result    ScenarioResult `json:"result"`
	DSCR      float64        `json:"dscr"`
	CreatedAt time.Time      `json:"created_at"`
}
