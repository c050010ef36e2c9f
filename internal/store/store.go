package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/investor-cli/internal/model"
)

// ErrNotFound reports a lookup that matched no row. Implementations wrap
// it so callers can map it to a 404 at the boundary.
var ErrNotFound = eris.New("store: not found")

// ScenarioFilter specifies criteria for listing saved scenarios.
type ScenarioFilter struct {
	Tenant string `json:"tenant,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// EntryFilter specifies criteria for listing ledger entries.
type EntryFilter struct {
	Tenant   string          `json:"tenant,omitempty"`
	Property string          `json:"property,omitempty"`
	Kind     model.EntryKind `json:"kind,omitempty"`
	From     time.Time       `json:"from,omitempty"`
	To       time.Time       `json:"to,omitempty"`
	Limit    int             `json:"limit,omitempty"`
}

// Store defines persistence for saved scenarios, tenants, and the
// cash-flow ledger. Snapshots are append-only: saved on explicit action,
// deleted on explicit action, never mutated.
type Store interface {
	// Scenarios
	SaveScenario(ctx context.Context, sc model.SavedScenario) (*model.SavedScenario, error)
	GetScenario(ctx context.Context, id string) (*model.SavedScenario, error)
	ListScenarios(ctx context.Context, filter ScenarioFilter) ([]model.SavedScenario, error)
	DeleteScenario(ctx context.Context, id string) error

	// Tenants
	PutTenant(ctx context.Context, t model.Tenant) error
	GetTenant(ctx context.Context, slug string) (*model.Tenant, error)
	ListTenants(ctx context.Context) ([]model.Tenant, error)

	// Ledger
	AddEntry(ctx context.Context, e model.LedgerEntry) (*model.LedgerEntry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]model.LedgerEntry, error)
	DeleteEntry(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
