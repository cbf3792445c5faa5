// Command brainsurgeond serves the BrainSurgeon session management API
// over HTTP and runs the trash expiry sweep.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/openclaw/brainsurgeon"
)

var (
	cfgFile  string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "brainsurgeond",
		Short:         "Session log management for OpenClaw agents",
		Long:          "brainsurgeond serves session listing, summarization, pruning, and trash management for OpenClaw agent logs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd(), cleanupCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, logger, err := buildApp()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.Sweeper.Start(ctx); err != nil {
				return fmt.Errorf("start trash sweeper: %w", err)
			}
			defer func() {
				stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = app.Sweeper.Stop(stopCtx)
			}()

			server := &http.Server{
				Addr:    app.Config.ListenAddr,
				Handler: app.Handler,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", app.Config.ListenAddr, "root", app.Config.Root, "readonly", app.Config.ReadOnly)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

func cleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired sessions from the trash and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := buildApp()
			if err != nil {
				return err
			}
			cleaned, err := app.Trash.Cleanup()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleaned %d expired sessions\n", cleaned)
			return nil
		},
	}
}

func buildApp() (*brainsurgeon.App, brainsurgeon.Logger, error) {
	cfg, err := brainsurgeon.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger()
	return brainsurgeon.NewApp(cfg, logger), logger, nil
}

// newLogger builds the process logger: human-readable text on a
// terminal, JSON when logs go to a collector.
func newLogger() brainsurgeon.Logger {
	level := slog.LevelInfo
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return brainsurgeon.NewSlogLogger(slog.New(handler))
}
