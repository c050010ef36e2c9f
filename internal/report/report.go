// Package report renders engine output for the CLI: en-US currency and
// percent formatting plus tabwriter layouts.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/sells-group/investor-cli/internal/model"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats a dollar amount with grouping, e.g. "$1,798.65".
func Currency(v float64) string {
	return printer.Sprintf("$%v", number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Percent formats a percentage with up to three decimals, e.g. "7.125%".
func Percent(v float64) string {
	return printer.Sprintf("%v%%", number.Decimal(v, number.MaxFractionDigits(3)))
}

// Scenario writes a full scenario breakdown.
func Scenario(w io.Writer, res model.ScenarioResult, advice *model.CoachingAdvice) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Loan amount\t%s\n", Currency(res.LoanAmount))
	fmt.Fprintf(tw, "LTV\t%s\n", Percent(res.LTV))
	fmt.Fprintf(tw, "Rate\t%s\n", Percent(res.Rate))
	fmt.Fprintf(tw, "Monthly P&I\t%s\n", Currency(res.MonthlyPI))
	fmt.Fprintf(tw, "Monthly tax\t%s\n", Currency(res.MonthlyTax))
	fmt.Fprintf(tw, "Monthly insurance\t%s\n", Currency(res.MonthlyInsurance))
	fmt.Fprintf(tw, "PITIA\t%s\n", Currency(res.PITIA))
	fmt.Fprintf(tw, "Effective rent\t%s\n", Currency(res.EffectiveRent))
	fmt.Fprintf(tw, "DSCR\t%.2f\n", res.DSCR)
	fmt.Fprintf(tw, "Cash flow\t%s\n", Currency(res.CashFlow))
	tw.Flush()

	if advice != nil {
		fmt.Fprintf(w, "\n[%s] %s\n", advice.Severity, advice.Message)
	}
}

// Transfers writes a settlement transfer list with party balances.
func Transfers(w io.Writer, balances []model.PartyBalance, transfers []model.Transfer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PARTY\tCOLLECTED\tENTITLED\tBALANCE")
	for _, b := range balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Name, Currency(b.Collected), Currency(b.Entitlement), Currency(b.Balance))
	}
	tw.Flush()

	if len(transfers) == 0 {
		fmt.Fprintln(w, "\nAll parties are settled; no transfers needed.")
		return
	}

	fmt.Fprintln(w)
	for _, tr := range transfers {
		fmt.Fprintf(w, "%s pays %s %s\n", tr.From, tr.To, Currency(tr.Amount))
	}
}

// Scenarios writes a saved-scenario listing.
func Scenarios(w io.Writer, scenarios []model.SavedScenario) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTENANT\tLABEL\tDSCR\tSAVED")
	for _, sc := range scenarios {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n",
			sc.ID, sc.Tenant, sc.Label, sc.DSCR, sc.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

// LedgerSummary writes ledger totals with month and category rollups.
func LedgerSummary(w io.Writer, sum model.LedgerSummary) {
	fmt.Fprintf(w, "Income\t%s\n", Currency(sum.TotalIncome))
	fmt.Fprintf(w, "Expenses\t%s\n", Currency(sum.TotalExpenses))
	fmt.Fprintf(w, "Net\t%s\n", Currency(sum.Net))
}
