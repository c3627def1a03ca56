package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/apper-apps/clientflow-continuous/internal/apper"
	"github.com/apper-apps/clientflow-continuous/internal/config"
	"github.com/apper-apps/clientflow-continuous/internal/db"
	"github.com/apper-apps/clientflow-continuous/internal/gateway"
	"github.com/apper-apps/clientflow-continuous/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "clientflow",
	Short: "Clients, projects, tasks and invoices from the terminal",
	Long: `clientflow manages clients, projects, tasks and invoices stored in an
Apper project (or a local SQLite file), with time tracking on tasks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// openGateway builds the gateway for the configured backend. The returned
// func releases the backend.
var openGateway = func(ctx context.Context) (*gateway.Gateway, func() error, error) {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Env, os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug().Str("backend", cfg.Backend).Msg("gateway ready")

	return gateway.New(store, logger), closeStore, nil
}

func openStore(cfg *config.Config, logger zerolog.Logger) (apper.RecordStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendLocal:
		path := cfg.Local.DBPath
		if path == "" {
			p, err := db.DefaultPath()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to resolve database path: %w", err)
			}
			path = p
		}
		store, err := db.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		client := apper.NewClient(nil, apper.Options{
			BaseURL:   cfg.Apper.BaseURL,
			ProjectID: cfg.Apper.ProjectID,
			PublicKey: cfg.Apper.PublicKey,
			Timeout:   cfg.Apper.Timeout,
		}, logger)
		return client, func() error { return nil }, nil
	}
}

// withGateway wraps a command function to open the gateway first
func withGateway(fn func(*cobra.Command, []string, *gateway.Gateway) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		gw, closeFn, err := openGateway(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()
		return fn(cmd, args, gw)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "clientflow %s (commit %s, built %s)\n", version, commit, date)
	},
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.AddCommand(clientCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(invoiceCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
