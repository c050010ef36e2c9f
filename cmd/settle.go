package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/investor-cli/internal/model"
	"github.com/sells-group/investor-cli/internal/report"
	"github.com/sells-group/investor-cli/internal/settle"
)

// settleFile is the YAML shape accepted by `settle compute --file`.
type settleFile struct {
	NetProceeds float64       `yaml:"net_proceeds"`
	Parties     []model.Party `yaml:"parties"`
}

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Settle a multi-party revenue pool",
}

var settleComputeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute balances and transfers from a parties file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			return eris.New("--file is required")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return eris.Wrapf(err, "read %s", path)
		}

		var sf settleFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return eris.Wrapf(err, "parse %s", path)
		}
		if len(sf.Parties) == 0 {
			return eris.Errorf("%s defines no parties", path)
		}

		// --net overrides the file's figure when set.
		if cmd.Flags().Changed("net") {
			sf.NetProceeds, _ = cmd.Flags().GetFloat64("net")
		}

		if err := settle.ValidateSplits(sf.Parties); err != nil {
			return err
		}

		balances := settle.Balances(sf.Parties, sf.NetProceeds)
		transfers := settle.Compute(sf.Parties, sf.NetProceeds)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(os.Stdout).Encode(map[string]any{
				"balances":  balances,
				"transfers": transfers,
			})
		}

		if len(transfers) == 0 {
			fmt.Fprintln(os.Stderr, "Already settled, no transfers needed.")
		}
		report.Transfers(os.Stdout, balances, transfers)
		return nil
	},
}

func init() {
	settleComputeCmd.Flags().String("file", "", "YAML file with parties and net proceeds")
	settleComputeCmd.Flags().Float64("net", 0, "net proceeds (overrides the file)")
	settleComputeCmd.Flags().Bool("json", false, "output JSON")

	settleCmd.AddCommand(settleComputeCmd)
	rootCmd.AddCommand(settleCmd)
}
