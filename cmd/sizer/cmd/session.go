package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sizer/contracts"
	"github.com/rustyeddy/sizer/session"
	"github.com/rustyeddy/sizer/ui"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Interactive calculator session",
	Long: `Read one event per line from stdin, recalculate and print after each.

The session is restored from the configured store at start and saved after
every event.

Commands:
  contract SYM   select a contract (resets commission to its default)
  risk TEXT      set the risk budget
  stop TEXT      set the stop distance in ticks
  comm TEXT      set the round trip commission
  theme          toggle light/dark
  show           print the current readout
  quit           leave`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	ctrl := session.New(contracts.Futures, st, session.WithKey(cfg.StoreKey()))
	adapter := ui.NewAdapter(ctrl, ui.TextDisplay{W: out}, slog.Default())

	if _, err := adapter.Start(ctx); err != nil {
		return err
	}
	return runLines(cmd, adapter, cmd.InOrStdin(), out)
}

func runLines(cmd *cobra.Command, adapter *ui.Adapter, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		kind, value, _ := strings.Cut(strings.TrimLeft(line, " \t"), " ")

		switch strings.ToLower(kind) {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "show":
			if err := (ui.TextDisplay{W: out}).Render(adapter.Current()); err != nil {
				return err
			}
			continue
		case "help":
			fmt.Fprintln(out, "commands: contract SYM | risk TEXT | stop TEXT | comm TEXT | theme | show | quit")
			continue
		}

		ev, err := ui.ParseEvent(kind, value)
		if err != nil {
			fmt.Fprintf(out, "? %v\n", err)
			continue
		}
		if _, err := adapter.Handle(cmd.Context(), ev); err != nil {
			if errors.Is(err, session.ErrUnknownContract) {
				fmt.Fprintf(out, "? %v (have %s)\n", err, strings.Join(contracts.Futures.Symbols(), ", "))
				continue
			}
			fmt.Fprintf(out, "! %v\n", err)
		}
	}
	return scanner.Err()
}
