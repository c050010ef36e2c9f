package model

// LineItem is a single revenue or expense record attributed to a party.
type LineItem struct {
	Description string  `json:"description" yaml:"description"`
	Amount      float64 `json:"amount" yaml:"amount"`
}

// Party is one participant in a settlement: what they collected, what they
// spent, and their percentage share of net proceeds. A non-participating
// "house" party carries SplitPercent 0.
type Party struct {
	Name         string     `json:"name" yaml:"name"`
	Revenues     []LineItem `json:"revenues" yaml:"revenues"`
	Expenses     []LineItem `json:"expenses" yaml:"expenses"`
	SplitPercent float64    `json:"split_percent" yaml:"split_percent"`
}

// NetCollected returns the party's revenue minus its expenses.
func (p Party) NetCollected() float64 {
	var net float64
	for _, r := range p.Revenues {
		net += r.Amount
	}
	for _, e := range p.Expenses {
		net -= e.Amount
	}
	return net
}

// PartyBalance is a party's position against the pool.
// Balance = entitlement − netCollected: positive means the pool owes the
// party (creditor), negative means the party owes the pool (debtor).
type PartyBalance struct {
	Name        string  `json:"name"`
	Entitlement float64 `json:"entitlement"`
	Collected   float64 `json:"collected"`
	Balance     float64 `json:"balance"`
}

// Transfer is a direct pairwise payment that settles part of two parties'
// balances. Derived on every recomputation, never persisted.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}
