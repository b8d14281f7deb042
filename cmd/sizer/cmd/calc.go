package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sizer/contracts"
	"github.com/rustyeddy/sizer/risk"
	"github.com/rustyeddy/sizer/session"
	"github.com/rustyeddy/sizer/settings"
	"github.com/rustyeddy/sizer/ui"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Size a single position",
	Long: `Compute contracts, risk and fees for one set of inputs.

Nothing is saved. Commission defaults to the contract's round trip rate.

Examples:
  sizer calc --contract MNQ --risk 150 --stop 20
  sizer calc --contract SIL --risk 1000 --stop 4 --comm 2.50 --json`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

var (
	calcContract string
	calcRisk     string
	calcStop     string
	calcComm     string
	calcJSON     bool
)

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().StringVar(&calcContract, "contract", contracts.Futures.First().Symbol, "contract symbol")
	calcCmd.Flags().StringVarP(&calcRisk, "risk", "r", "", "risk budget in dollars")
	calcCmd.Flags().StringVarP(&calcStop, "stop", "s", "", "stop distance in ticks")
	calcCmd.Flags().StringVar(&calcComm, "comm", "", "round trip commission per contract (default: contract rate)")
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "print the readout as JSON")
}

func runCalc(cmd *cobra.Command, args []string) error {
	spec, ok := contracts.Futures.Lookup(calcContract)
	if !ok {
		return fmt.Errorf("unknown contract %q (have %v)", calcContract, contracts.Futures.Symbols())
	}

	st := settings.Settings{
		Contract: spec.Symbol,
		Risk:     calcRisk,
		Stop:     calcStop,
		Comm:     calcComm,
		Theme:    settings.ThemeDark,
	}
	if !cmd.Flags().Changed("comm") {
		st.Comm = session.FormatNumber(spec.Commission)
	}

	res := risk.Calculate(risk.Inputs{
		RiskBudget: session.ParseNumber(st.Risk),
		StopTicks:  session.ParseNumber(st.Stop),
		Contract:   spec,
		Commission: session.ParseNumber(st.Comm),
	})
	ro := ui.NewReadout(spec, st, res)

	if calcJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ro)
	}
	return ui.TextDisplay{W: cmd.OutOrStdout()}.Render(ro)
}
