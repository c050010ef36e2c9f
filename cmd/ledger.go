package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/investor-cli/internal/ledger"
	"github.com/sells-group/investor-cli/internal/model"
	"github.com/sells-group/investor-cli/internal/report"
	"github.com/sells-group/investor-cli/internal/store"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Track rental cash flow per tenant",
}

// ledgerEntryFilter parses the shared --tenant/--property/--kind/--from/--to
// flags into a store filter.
func ledgerEntryFilter(cmd *cobra.Command) (store.EntryFilter, error) {
	tenantSlug, _ := cmd.Flags().GetString("tenant")
	property, _ := cmd.Flags().GetString("property")
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")

	filter := store.EntryFilter{
		Tenant:   tenantSlug,
		Property: property,
		Kind:     model.EntryKind(kind),
		Limit:    limit,
	}
	if v, _ := cmd.Flags().GetString("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, eris.Wrap(err, "parse --from")
		}
		filter.From = t
	}
	if v, _ := cmd.Flags().GetString("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, eris.Wrap(err, "parse --to")
		}
		filter.To = t
	}
	return filter, nil
}

var ledgerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an income or expense entry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		tenantSlug, _ := cmd.Flags().GetString("tenant")
		property, _ := cmd.Flags().GetString("property")
		kind, _ := cmd.Flags().GetString("kind")
		category, _ := cmd.Flags().GetString("category")
		amount, _ := cmd.Flags().GetFloat64("amount")
		note, _ := cmd.Flags().GetString("note")

		occurred := time.Now()
		if v, _ := cmd.Flags().GetString("date"); v != "" {
			occurred, err = time.Parse("2006-01-02", v)
			if err != nil {
				return eris.Wrap(err, "parse --date")
			}
		}

		added, err := ledger.NewService(st).Add(ctx, model.LedgerEntry{
			Tenant:     tenantSlug,
			Property:   property,
			Kind:       model.EntryKind(kind),
			Category:   category,
			Amount:     amount,
			Note:       note,
			OccurredAt: occurred,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Added %s entry %s\n", added.Kind, added.ID)
		return nil
	},
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		filter, err := ledgerEntryFilter(cmd)
		if err != nil {
			return err
		}

		entries, err := ledger.NewService(st).List(ctx, filter)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(os.Stdout).Encode(entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, "No entries found.")
			return nil
		}
		formatEntries(entries)
		return nil
	},
}

var ledgerSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize cash flow by month and category",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		filter, err := ledgerEntryFilter(cmd)
		if err != nil {
			return err
		}

		summary, err := ledger.NewService(st).Summary(ctx, filter)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(os.Stdout).Encode(summary)
		}
		report.LedgerSummary(os.Stdout, *summary)
		return nil
	},
}

var ledgerDeleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete a ledger entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		if err := ledger.NewService(st).Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Deleted entry %s\n", args[0])
		return nil
	},
}

func formatEntries(entries []model.LedgerEntry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tKIND\tCATEGORY\tAMOUNT\tPROPERTY")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.OccurredAt.Format("2006-01-02"), e.Kind, e.Category,
			report.Currency(e.Amount), e.Property)
	}
	w.Flush()
}

func addLedgerFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("tenant", "", "filter by tenant slug")
	cmd.Flags().String("property", "", "filter by property")
	cmd.Flags().String("kind", "", "filter by kind: income or expense")
	cmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().Int("limit", 0, "max entries")
	cmd.Flags().Bool("json", false, "output JSON")
}

func init() {
	ledgerAddCmd.Flags().String("tenant", "", "tenant slug")
	ledgerAddCmd.Flags().String("property", "", "property identifier")
	ledgerAddCmd.Flags().String("kind", "income", "entry kind: income or expense")
	ledgerAddCmd.Flags().String("category", "", "category, e.g. rent or repairs")
	ledgerAddCmd.Flags().Float64("amount", 0, "amount in dollars")
	ledgerAddCmd.Flags().String("note", "", "free-form note")
	ledgerAddCmd.Flags().String("date", "", "occurrence date (YYYY-MM-DD, default today)")

	addLedgerFilterFlags(ledgerListCmd)
	addLedgerFilterFlags(ledgerSummaryCmd)

	ledgerCmd.AddCommand(ledgerAddCmd, ledgerListCmd, ledgerSummaryCmd, ledgerDeleteCmd)
	rootCmd.AddCommand(ledgerCmd)
}
