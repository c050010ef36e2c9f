package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/investor-cli/internal/model"
	"github.com/sells-group/investor-cli/internal/ratesheet"
	"github.com/sells-group/investor-cli/internal/report"
	"github.com/sells-group/investor-cli/internal/store"
)

var ratesheetCmd = &cobra.Command{
	Use:   "ratesheet",
	Short: "Import and inspect lender rate sheets",
}

var ratesheetImportCmd = &cobra.Command{
	Use:   "import <xlsx-file>",
	Short: "Import a rate sheet from XLSX and attach it to a tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		tenantSlug, _ := cmd.Flags().GetString("tenant")
		if tenantSlug == "" {
			return eris.New("--tenant is required")
		}
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = filepath.Base(args[0])
		}
		sheetName, _ := cmd.Flags().GetString("sheet-name")
		skipRows, _ := cmd.Flags().GetInt("skip-rows")

		sheet, err := ratesheet.ImportXLSX(args[0], name, ratesheet.Options{
			SheetName: sheetName,
			SkipRows:  skipRows,
		})
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		tn, err := st.GetTenant(ctx, tenantSlug)
		if errors.Is(err, store.ErrNotFound) {
			tn = &model.Tenant{Slug: tenantSlug}
		} else if err != nil {
			return eris.Wrap(err, "ratesheet import")
		}
		tn.RateSheet = sheet
		if err := st.PutTenant(ctx, *tn); err != nil {
			return eris.Wrap(err, "ratesheet import")
		}

		fmt.Fprintf(os.Stderr, "Imported %d tiers for tenant %s\n", len(sheet.Rates), tenantSlug)
		return nil
	},
}

var ratesheetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the rate sheet a tenant resolves against",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		tenantSlug, _ := cmd.Flags().GetString("tenant")
		if tenantSlug == "" {
			return eris.New("--tenant is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		tn, err := initTenants(st).Resolve(ctx, tenantSlug)
		if err != nil {
			return err
		}
		if tn.RateSheet.Empty() {
			fmt.Fprintf(os.Stderr, "Tenant %s has no rate sheet; the built-in LTV ladder applies.\n", tenantSlug)
			return nil
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(os.Stdout).Encode(tn.RateSheet)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "LTV\tFICO\tRATE\tIO ADJ")
		for _, tier := range tn.RateSheet.Rates {
			fmt.Fprintf(w, "%.0f-%.0f\t%d-%d\t%s\t%+.3f\n",
				tier.LTVMin, tier.LTVMax, tier.FicoMin, tier.FicoMax,
				report.Percent(tier.StandardRate), tier.IOAdjustment)
		}
		return w.Flush()
	},
}

func init() {
	ratesheetImportCmd.Flags().String("tenant", "", "tenant slug to attach the sheet to")
	ratesheetImportCmd.Flags().String("name", "", "sheet name (defaults to the file name)")
	ratesheetImportCmd.Flags().String("sheet-name", "", "workbook sheet to read (defaults to the first)")
	ratesheetImportCmd.Flags().Int("skip-rows", 1, "header rows to skip")

	ratesheetShowCmd.Flags().String("tenant", "", "tenant slug")
	ratesheetShowCmd.Flags().Bool("json", false, "output JSON")

	ratesheetCmd.AddCommand(ratesheetImportCmd, ratesheetShowCmd)
	rootCmd.AddCommand(ratesheetCmd)
}
