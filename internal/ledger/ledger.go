// Package ledger records and aggregates rental income and expense entries
// per tenant. Aggregation is pure; persistence goes through the store.
package ledger

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/investor-cli/internal/model"
	"github.com/sells-group/investor-cli/internal/store"
)

// Service wraps the store with validation and summary computation.
type Service struct {
	st store.Store
}

// NewService creates a ledger Service.
func NewService(st store.Store) *Service {
	return &Service{st: st}
}

// Add validates and persists one entry.
func (s *Service) Add(ctx context.Context, e model.LedgerEntry) (*model.LedgerEntry, error) {
	if e.Tenant == "" {
		return nil, eris.New("ledger: tenant is required")
	}
	if e.Kind != model.EntryKindIncome && e.Kind != model.EntryKindExpense {
		return nil, eris.Errorf("ledger: invalid kind %q", e.Kind)
	}
	if e.Amount <= 0 {
		return nil, eris.New("ledger: amount must be positive")
	}
	return s.st.AddEntry(ctx, e)
}

// List returns entries matching the filter.
func (s *Service) List(ctx context.Context, filter store.EntryFilter) ([]model.LedgerEntry, error) {
	return s.st.ListEntries(ctx, filter)
}

// Delete removes one entry by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.st.DeleteEntry(ctx, id)
}

// Summary lists entries for the filter and aggregates them.
func (s *Service) Summary(ctx context.Context, filter store.EntryFilter) (*model.LedgerSummary, error) {
	entries, err := s.st.ListEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	sum := Summarize(entries)
	return &sum, nil
}

// Summarize aggregates entries into totals plus month and category
// rollups. Expenses are signed negative in the rollups.
func Summarize(entries []model.LedgerEntry) model.LedgerSummary {
	sum := model.LedgerSummary{
		ByMonth:    make(map[string]float64),
		ByCategory: make(map[string]float64),
	}

	for _, e := range entries {
		amount := e.Amount
		if e.Kind == model.EntryKindExpense {
			amount = -amount
			sum.TotalExpenses += e.Amount
		} else {
			sum.TotalIncome += e.Amount
		}

		month := e.OccurredAt.Format("2006-01")
		sum.ByMonth[month] += amount

		category := e.Category
		if category == "" {
			category = "uncategorized"
		}
		sum.ByCategory[category] += amount
	}

	sum.Net = sum.TotalIncome - sum.TotalExpenses
	return sum
}
