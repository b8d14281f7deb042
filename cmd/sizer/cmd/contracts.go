package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sizer/contracts"
	"github.com/rustyeddy/sizer/ui"
)

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "List the contract catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, g := range contracts.Futures.Groups() {
			fmt.Fprintf(out, "%s\n", g.Name)
			for _, c := range g.Contracts {
				fmt.Fprintf(out, "  %-4s %-26s tick %-6s %s/tick  comm %s\n",
					c.Symbol, c.Name, ui.Plain(c.TickSize), ui.Currency(c.TickValue), ui.Currency(c.Commission))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contractsCmd)
}
