package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/investor-cli/internal/model"
)

func TestCurrency(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$1,798.65", Currency(1798.65))
	assert.Equal(t, "$300,000.00", Currency(300000))
	assert.Equal(t, "$-450.00", Currency(-450))
	assert.Equal(t, "$0.00", Currency(0))
}

func TestPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "7.125%", Percent(7.125))
	assert.Equal(t, "75%", Percent(75))
}

func TestScenario_IncludesAdvice(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	Scenario(&sb, model.ScenarioResult{DSCR: 0.91, PITIA: 3100}, &model.CoachingAdvice{
		Severity: model.AdviceSeverityWarning,
		Message:  "DSCR 0.91 is below 1.0.",
	})

	out := sb.String()
	assert.Contains(t, out, "DSCR")
	assert.Contains(t, out, "[warning] DSCR 0.91 is below 1.0.")
}

func TestTransfers_NoOp(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	Transfers(&sb, []model.PartyBalance{{Name: "A"}}, nil)
	assert.Contains(t, sb.String(), "no transfers needed")
}

func TestTransfers_Lists(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	Transfers(&sb,
		[]model.PartyBalance{{Name: "A", Balance: 100}, {Name: "B", Balance: -100}},
		[]model.Transfer{{From: "B", To: "A", Amount: 100}},
	)
	assert.Contains(t, sb.String(), "B pays A $100.00")
}
