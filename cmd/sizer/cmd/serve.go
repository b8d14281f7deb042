package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sizer/contracts"
	"github.com/rustyeddy/sizer/server"
	"github.com/rustyeddy/sizer/session"
	"github.com/rustyeddy/sizer/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator over HTTP",
	Long: `Run the HTTP API a browser form talks to.

Endpoints:
  GET  /health
  GET  /metrics
  GET  /api/v1/contracts   catalog grouped for a picker
  GET  /api/v1/state       current readout
  POST /api/v1/events      {"type": "risk", "value": "150"}
  GET  /api/v1/size        stateless: ?contract=MNQ&risk=150&stop=20
  GET  /api/v1/ws          readouts pushed on every change

Example:
  sizer serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	log := slog.Default()
	hub := server.NewHub(log)
	go hub.Run(ctx)

	ctrl := session.New(contracts.Futures, st, session.WithKey(cfg.StoreKey()), session.WithLogger(log))
	adapter := ui.NewAdapter(ctrl, hub, log)
	if _, err := adapter.Start(ctx); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(adapter, hub, log).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("sizer listening", "addr", cfg.Server.Addr, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
