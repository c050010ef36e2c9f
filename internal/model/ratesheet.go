package model

// RateTier is one row of a lender rate sheet: a rate quoted for an
// (LTV, FICO) box, with an add-on for interest-only loans.
type RateTier struct {
	LTVMin       float64 `json:"ltv_min" yaml:"ltv_min"`
	LTVMax       float64 `json:"ltv_max" yaml:"ltv_max"`
	FicoMin      int     `json:"fico_min" yaml:"fico_min"`
	FicoMax      int     `json:"fico_max" yaml:"fico_max"`
	StandardRate float64 `json:"standard_rate" yaml:"standard_rate"`
	IOAdjustment float64 `json:"io_adjustment" yaml:"io_adjustment"`
}

// Matches reports whether the tier covers the given LTV and FICO.
func (t RateTier) Matches(ltv float64, fico int) bool {
	return ltv >= t.LTVMin && ltv <= t.LTVMax && fico >= t.FicoMin && fico <= t.FicoMax
}

// RateSheet is an ordered set of rate tiers. Resolution scans in input
// order and the first matching tier wins.
type RateSheet struct {
	Name  string     `json:"name" yaml:"name"`
	Rates []RateTier `json:"rates" yaml:"rates"`
}

// Empty reports whether the sheet has no usable tiers.
func (s *RateSheet) Empty() bool {
	return s == nil || len(s.Rates) == 0
}
