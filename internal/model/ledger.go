package model

import "time"

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	EntryKindIncome  EntryKind = "income"
	EntryKindExpense EntryKind = "expense"
)

// LedgerEntry is one income or expense record in a tenant's rental
// cash-flow ledger.
type LedgerEntry struct {
	ID         string    `json:"id"`
	Tenant     string    `json:"tenant"`
	Property   string    `json:"property,omitempty"`
	Kind       EntryKind `json:"kind"`
	Category   string    `json:"category,omitempty"`
	Amount     float64   `json:"amount"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// LedgerSummary aggregates a set of ledger entries.
type LedgerSummary struct {
	TotalIncome   float64            `json:"total_income"`
	TotalExpenses float64            `json:"total_expenses"`
	Net           float64            `json:"net"`
	ByMonth       map[string]float64 `json:"by_month"`    // "2026-01" -> net
	ByCategory    map[string]float64 `json:"by_category"` // category -> signed total
}
