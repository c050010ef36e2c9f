package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/investor-cli/internal/dscr"
	"github.com/sells-group/investor-cli/internal/model"
	"github.com/sells-group/investor-cli/internal/report"
	"github.com/sells-group/investor-cli/internal/store"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Compute and manage DSCR loan scenarios",
}

var (
	scenarioInput   model.ScenarioInput
	scenarioRentPer string
	scenarioRentTyp string
	scenarioTaxMode string
	scenarioTaxPer  string
)

// scenarioFromFlags normalizes the flag-level strings into the typed input.
func scenarioFromFlags() (model.ScenarioInput, error) {
	in := scenarioInput
	in.RentPeriod = model.RentPeriod(scenarioRentPer)
	in.RentType = model.RentType(scenarioRentTyp)
	in.TaxMode = model.TaxMode(scenarioTaxMode)
	in.TaxPeriod = model.RentPeriod(scenarioTaxPer)

	if in.PurchasePrice <= 0 {
		return in, eris.New("--price must be > 0")
	}
	switch in.RentPeriod {
	case model.RentPeriodMonthly, model.RentPeriodAnnual:
	default:
		return in, eris.Errorf("invalid --rent-period %q", scenarioRentPer)
	}
	switch in.RentType {
	case model.RentTypeLong, model.RentTypeShort:
	default:
		return in, eris.Errorf("invalid --rent-type %q", scenarioRentTyp)
	}
	switch in.TaxMode {
	case model.TaxModeRate, model.TaxModeFlat:
	default:
		return in, eris.Errorf("invalid --tax-mode %q", scenarioTaxMode)
	}
	return in, nil
}

var scenarioComputeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute a DSCR scenario from loan inputs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		in, err := scenarioFromFlags()
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

		tenantSlug, _ := cmd.Flags().GetString("tenant")
		var sheet *model.RateSheet
		if tenantSlug != "" {
			tn, err := initTenants(st).Resolve(ctx, tenantSlug)
			if err != nil {
				return err
			}
			if in.FicoScore == 0 {
				in.FicoScore = tn.ClientFico
			}
			sheet = tn.RateSheet
		}

		res := dscr.Compute(in, sheet)
		advice := dscr.Coach(in, res, sheet)

		if save, _ := cmd.Flags().GetBool("save"); save {
			if tenantSlug == "" {
				return eris.New("--save requires --tenant")
			}
			label, _ := cmd.Flags().GetString("label")
			saved, err := st.SaveScenario(ctx, model.SavedScenario{
				Tenant: tenantSlug,
				Label:  label,
				Input:  in,
				Result: res,
				DSCR:   res.DSCR,
			})
			if err != nil {
				return eris.Wrap(err, "save scenario")
			}
			fmt.Fprintf(os.Stderr, "Saved scenario %s\n", saved.ID)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(os.Stdout).Encode(map[string]any{
				"input":  in,
				"result": res,
				"advice": advice,
			})
		}

		report.Scenario(os.Stdout, res, advice)

		if advice != nil {
			if narration := initAdvisor().Narrate(ctx, in, res, advice); narration != advice.Message {
				fmt.Fprintf(os.Stdout, "\n%s\n", narration)
			}
		}
		return nil
	},
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios",
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
		limit, _ := cmd.Flags().GetInt("limit")

		scenarios, err := st.ListScenarios(ctx, store.ScenarioFilter{Tenant: tenantSlug, Limit: limit})
		if err != nil {
			return eris.Wrap(err, "scenario list")
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(os.Stdout).Encode(scenarios)
		}
		if len(scenarios) == 0 {
			fmt.Fprintln(os.Stderr, "No scenarios found.")
			return nil
		}
		report.Scenarios(os.Stdout, scenarios)
		return nil
	},
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show <scenario-id>",
	Short: "Show a saved scenario",
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

		sc, err := st.GetScenario(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "scenario show")
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(os.Stdout).Encode(sc)
		}
		fmt.Fprintf(os.Stdout, "Scenario %s (%s)\n", sc.ID, sc.Tenant)
		if sc.Label != "" {
			fmt.Fprintf(os.Stdout, "Label: %s\n", sc.Label)
		}
		fmt.Fprintf(os.Stdout, "Saved: %s\n\n", sc.CreatedAt.Format("2006-01-02 15:04"))
		report.Scenario(os.Stdout, sc.Result, nil)
		return nil
	},
}

var scenarioDeleteCmd = &cobra.Command{
	Use:   "delete <scenario-id>",
	Short: "Delete a saved scenario",
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

		if err := st.DeleteScenario(ctx, args[0]); err != nil {
			return eris.Wrap(err, "scenario delete")
		}
		fmt.Fprintf(os.Stderr, "Deleted scenario %s\n", args[0])
		return nil
	},
}

func init() {
	f := scenarioComputeCmd.Flags()
	f.Float64Var(&scenarioInput.PurchasePrice, "price", 0, "purchase price")
	f.Float64Var(&scenarioInput.DownPaymentPercent, "down", 20, "down payment percent")
	f.Float64Var(&scenarioInput.Rent, "rent", 0, "rent amount")
	f.StringVar(&scenarioRentPer, "rent-period", "monthly", "rent period: monthly or annual")
	f.StringVar(&scenarioRentTyp, "rent-type", "long", "rent type: long or short")
	f.Float64Var(&scenarioInput.PropertyTax, "tax", 0, "property tax (rate percent or flat amount)")
	f.StringVar(&scenarioTaxMode, "tax-mode", "rate", "tax mode: rate or amount")
	f.StringVar(&scenarioTaxPer, "tax-period", "annual", "tax period for flat amounts: annual or monthly")
	f.Float64Var(&scenarioInput.InsuranceAnnual, "insurance", 0, "annual insurance premium")
	f.Float64Var(&scenarioInput.HOAMonthly, "hoa", 0, "monthly HOA dues")
	f.BoolVar(&scenarioInput.InterestOnly, "interest-only", false, "interest-only loan")
	f.IntVar(&scenarioInput.FicoScore, "fico", 0, "FICO score (tenant default when omitted)")
	f.String("tenant", "", "tenant slug for defaults and rate sheet")
	f.Bool("save", false, "save the computed scenario")
	f.String("label", "", "label for the saved scenario")
	f.Bool("json", false, "output JSON")

	scenarioListCmd.Flags().String("tenant", "", "filter by tenant slug")
	scenarioListCmd.Flags().Int("limit", 50, "max scenarios to list")
	scenarioListCmd.Flags().Bool("json", false, "output JSON")

	scenarioShowCmd.Flags().Bool("json", false, "output JSON")

	scenarioCmd.AddCommand(scenarioComputeCmd, scenarioListCmd, scenarioShowCmd, scenarioDeleteCmd)
	rootCmd.AddCommand(scenarioCmd)
}
