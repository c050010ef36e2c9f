package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/investor-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testScenario(tenant string) model.SavedScenario {
	return model.SavedScenario{
		Tenant: tenant,
		Label:  "duplex on 5th",
		Input: model.ScenarioInput{
			PurchasePrice:      400000,
			DownPaymentPercent: 25,
			Rent:               3200,
			RentPeriod:         model.RentPeriodMonthly,
			RentType:           model.RentTypeLong,
			FicoScore:          740,
		},
		Result: model.ScenarioResult{DSCR: 1.12, PITIA: 2850, CashFlow: 350},
	}
}

// --- Scenarios ---

func TestSQLite_SaveAndGetScenario(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := st.SaveScenario(ctx, testScenario("acme-lending"))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.InDelta(t, 1.12, saved.DSCR, 0.0001, "dscr column mirrors the result")

	got, err := st.GetScenario(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme-lending", got.Tenant)
	assert.Equal(t, "duplex on 5th", got.Label)
	assert.InDelta(t, 400000, got.Input.PurchasePrice, 0.001)
	assert.InDelta(t, 1.12, got.Result.DSCR, 0.0001)
}

func TestSQLite_GetScenario_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetScenario(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_ListScenarios_FiltersByTenant(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.SaveScenario(ctx, testScenario("alpha"))
	require.NoError(t, err)
	_, err = st.SaveScenario(ctx, testScenario("alpha"))
	require.NoError(t, err)
	_, err = st.SaveScenario(ctx, testScenario("beta"))
	require.NoError(t, err)

	alpha, err := st.ListScenarios(ctx, ScenarioFilter{Tenant: "alpha"})
	require.NoError(t, err)
	assert.Len(t, alpha, 2)

	all, err := st.ListScenarios(ctx, ScenarioFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := st.ListScenarios(ctx, ScenarioFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLite_DeleteScenario(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := st.SaveScenario(ctx, testScenario("acme"))
	require.NoError(t, err)

	require.NoError(t, st.DeleteScenario(ctx, saved.ID))

	_, err = st.GetScenario(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = st.DeleteScenario(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// --- Tenants ---

func TestSQLite_PutAndGetTenant(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	tenant := model.Tenant{
		Slug:       "acme-lending",
		ClientName: "Acme Lending",
		ClientFico: 735,
		RateSheet: &model.RateSheet{
			Name:  "wholesale",
			Rates: []model.RateTier{{LTVMin: 0, LTVMax: 80, FicoMin: 660, FicoMax: 850, StandardRate: 6.875, IOAdjustment: 0.25}},
		},
		LoanOfficer: model.LoanOfficer{Name: "Pat Jones", Email: "pat@acme.test", NMLS: "123456"},
	}
	require.NoError(t, st.PutTenant(ctx, tenant))

	got, err := st.GetTenant(ctx, "acme-lending")
	require.NoError(t, err)
	assert.Equal(t, 735, got.ClientFico)
	require.NotNil(t, got.RateSheet)
	assert.Len(t, got.RateSheet.Rates, 1)
	assert.Equal(t, "Pat Jones", got.LoanOfficer.Name)
}

func TestSQLite_PutTenant_Upsert(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	tenant := model.Tenant{Slug: "up", ClientFico: 700}
	require.NoError(t, st.PutTenant(ctx, tenant))

	tenant.ClientFico = 760
	require.NoError(t, st.PutTenant(ctx, tenant))

	got, err := st.GetTenant(ctx, "up")
	require.NoError(t, err)
	assert.Equal(t, 760, got.ClientFico)

	tenants, err := st.ListTenants(ctx)
	require.NoError(t, err)
	assert.Len(t, tenants, 1)
}

func TestSQLite_GetTenant_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetTenant(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

// --- Ledger ---

func TestSQLite_AddAndListEntries(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	jan := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)

	_, err := st.AddEntry(ctx, model.LedgerEntry{Tenant: "acme", Property: "5th-st", Kind: model.EntryKindIncome, Category: "rent", Amount: 3200, OccurredAt: jan})
	require.NoError(t, err)
	_, err = st.AddEntry(ctx, model.LedgerEntry{Tenant: "acme", Property: "5th-st", Kind: model.EntryKindExpense, Category: "repairs", Amount: 450, OccurredAt: feb})
	require.NoError(t, err)
	_, err = st.AddEntry(ctx, model.LedgerEntry{Tenant: "other", Kind: model.EntryKindIncome, Amount: 100, OccurredAt: jan})
	require.NoError(t, err)

	acme, err := st.ListEntries(ctx, EntryFilter{Tenant: "acme"})
	require.NoError(t, err)
	require.Len(t, acme, 2)
	assert.Equal(t, model.EntryKindExpense, acme[0].Kind, "newest first")

	income, err := st.ListEntries(ctx, EntryFilter{Tenant: "acme", Kind: model.EntryKindIncome})
	require.NoError(t, err)
	assert.Len(t, income, 1)

	janOnly, err := st.ListEntries(ctx, EntryFilter{Tenant: "acme", From: jan, To: jan.AddDate(0, 1, 0)})
	require.NoError(t, err)
	assert.Len(t, janOnly, 1)
}

func TestSQLite_DeleteEntry(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	e, err := st.AddEntry(ctx, model.LedgerEntry{Tenant: "acme", Kind: model.EntryKindIncome, Amount: 100})
	require.NoError(t, err)

	require.NoError(t, st.DeleteEntry(ctx, e.ID))
	assert.ErrorIs(t, st.DeleteEntry(ctx, e.ID), ErrNotFound)
}
