package settle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/investor-cli/internal/model"
)

func party(name string, revenue, expense, split float64) model.Party {
	p := model.Party{Name: name, SplitPercent: split}
	if revenue != 0 {
		p.Revenues = []model.LineItem{{Description: "revenue", Amount: revenue}}
	}
	if expense != 0 {
		p.Expenses = []model.LineItem{{Description: "expense", Amount: expense}}
	}
	return p
}

func TestBalances_SignConvention(t *testing.T) {
	t.Parallel()

	parties := []model.Party{
		party("collector", 1000, 0, 50), // collected more than entitled
		party("spender", 0, 200, 50),    // out of pocket
	}
	// Pool: 1000 revenue - 200 expenses = 800 net proceeds.
	balances := Balances(parties, 800)

	require.Len(t, balances, 2)
	assert.InDelta(t, 400-1000, balances[0].Balance, 0.001) // debtor
	assert.InDelta(t, 400-(-200), balances[1].Balance, 0.001) // creditor
}

func TestCompute_ConcreteTwoParty(t *testing.T) {
	t.Parallel()

	// A is out +100, B is up -100, zero net proceeds: B pays A exactly 100.
	parties := []model.Party{
		party("A", 0, 100, 50),
		party("B", 100, 0, 50),
	}

	transfers := Compute(parties, 0)
	require.Len(t, transfers, 1)
	assert.Equal(t, "B", transfers[0].From)
	assert.Equal(t, "A", transfers[0].To)
	assert.InDelta(t, 100, transfers[0].Amount, 0.001)
}

func TestCompute_NoOpWhenAlreadySettled(t *testing.T) {
	t.Parallel()

	// Each party's collected net equals their entitled share.
	parties := []model.Party{
		party("A", 500, 0, 50),
		party("B", 500, 0, 50),
	}

	assert.Empty(t, Compute(parties, 1000))
}

func TestCompute_ZeroSumAndPostTransferPositions(t *testing.T) {
	t.Parallel()

	parties := []model.Party{
		party("host", 2400, 350, 40),
		party("door", 800, 0, 25),
		party("bar", 0, 120, 25),
		party("house", 0, 0, 0), // non-participating
		party("promoter", 150, 90, 10),
	}

	var netProceeds float64
	for _, p := range parties {
		netProceeds += p.NetCollected()
	}

	balances := Balances(parties, netProceeds)
	var sum float64
	for _, b := range balances {
		sum += b.Balance
	}
	assert.InDelta(t, 0, sum, 0.001, "balances are zero-sum when splits total 100")

	// Apply the transfers and check every party lands on its entitlement.
	position := make(map[string]float64, len(parties))
	for _, b := range balances {
		position[b.Name] = b.Collected
	}
	for _, tr := range Compute(parties, netProceeds) {
		position[tr.From] += tr.Amount
		position[tr.To] -= tr.Amount
	}
	for _, b := range balances {
		assert.InDelta(t, b.Entitlement, position[b.Name], 0.01, "party %s", b.Name)
	}
}

func TestCompute_SkipsNoiseTransfers(t *testing.T) {
	t.Parallel()

	// Imbalance below the 0.01 epsilon produces no transfer.
	parties := []model.Party{
		party("A", 500.004, 0, 50),
		party("B", 499.996, 0, 50),
	}

	assert.Empty(t, Compute(parties, 1000))
}

func TestCompute_OneDebtorManyCreditors(t *testing.T) {
	t.Parallel()

	parties := []model.Party{
		party("sink", 900, 0, 10),
		party("a", 0, 0, 45),
		party("b", 0, 0, 45),
	}

	transfers := Compute(parties, 900)
	require.Len(t, transfers, 2)
	for _, tr := range transfers {
		assert.Equal(t, "sink", tr.From)
		assert.InDelta(t, 405, tr.Amount, 0.001)
	}
}

func TestCompute_LargestCreditorPairedFirst(t *testing.T) {
	t.Parallel()

	parties := []model.Party{
		party("debtor", 1000, 0, 0),
		party("big", 0, 0, 70),
		party("small", 0, 0, 30),
	}

	transfers := Compute(parties, 1000)
	require.NotEmpty(t, transfers)
	assert.Equal(t, "big", transfers[0].To)
	assert.InDelta(t, 700, transfers[0].Amount, 0.001)
}

func TestValidateSplits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		splits  []float64
		wantErr bool
	}{
		{name: "exact hundred", splits: []float64{50, 30, 20}},
		{name: "hundred with house party", splits: []float64{60, 40, 0}},
		{name: "within tolerance", splits: []float64{33.33, 33.33, 33.34}},
		{name: "undershoot", splits: []float64{50, 30}, wantErr: true},
		{name: "overshoot", splits: []float64{60, 60}, wantErr: true},
		{name: "nobody participating", splits: []float64{0, 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			parties := make([]model.Party, len(tt.splits))
			for i, s := range tt.splits {
				parties[i] = party("p", 0, 0, s)
			}
			err := ValidateSplits(parties)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSplit)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompute_PermissiveWithoutValidation(t *testing.T) {
	t.Parallel()

	// Splits sum to 80: the engine still computes, the pool just does not
	// net to zero. ValidateSplits at the boundary is what guards this.
	parties := []model.Party{
		party("A", 1000, 0, 40),
		party("B", 0, 0, 40),
	}

	balances := Balances(parties, 1000)
	var sum float64
	for _, b := range balances {
		sum += b.Balance
	}
	assert.Greater(t, math.Abs(sum), 0.01)
	assert.NotEmpty(t, Compute(parties, 1000))
}
