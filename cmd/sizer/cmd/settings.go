package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sizer/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect the saved session",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved settings record",
	Long: `Print the raw settings record from the configured store.

Example:
  sizer settings show --config sizer.yaml`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	data, err := st.Get(cmd.Context(), cfg.StoreKey())
	if errors.Is(err, settings.ErrNotFound) {
		fmt.Fprintf(out, "nothing saved under %q yet\n", cfg.StoreKey())
		return nil
	}
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	fmt.Fprintf(out, "%s: %s\n", cfg.StoreKey(), data)
	if _, err := settings.Decode(data); err != nil {
		fmt.Fprintf(out, "record is unreadable and will be replaced by defaults: %v\n", err)
	}
	return nil
}
