package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sizer/config"
	"github.com/rustyeddy/sizer/internal/logging"
	"github.com/rustyeddy/sizer/settings"
)

var rootCmd = &cobra.Command{
	Use:   "sizer",
	Short: "Futures position sizing calculator",
	Long: `Sizer works out how many futures contracts fit a dollar risk budget.

Given a risk budget, a stop distance in ticks and a contract, it reports:
  - contracts to trade (rounded up, minimum budget $200)
  - risk per contract and total risk
  - round trip commission and net loss if the stop is hit

The selected contract, field values and theme are kept between runs.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile   string
	logLevel  string
	logFormat string

	cfg *config.Config
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
}

// loadConfig resolves defaults, then the config file, then SIZER_* env, then flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.Default()
	}

	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

func openStore(ctx context.Context) (settings.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	st, err := settings.Open(ctx, cfg.Store.Backend, cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	slog.Debug("settings store open", "backend", cfg.Store.Backend, "key", cfg.StoreKey())
	return st, nil
}
