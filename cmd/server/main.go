// Package main implements the entry point for the todo-api server,
// which tracks users and their tasks over a JSON HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phrazzld/todo-api/internal/platform/migrate"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the todo-api command tree. Running the root command
// without a subcommand starts the server.
func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "todo-api",
		Short:         "Task tracking HTTP API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default ./config.yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	migrateCmd := &cobra.Command{
		Use:       "migrate <" + strings.Join(migrate.Commands, "|") + ">",
		Short:     "Manage the database schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: migrate.Commands,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), configPath, args[0], cmd.OutOrStdout())
		},
	}

	root.AddCommand(serveCmd, migrateCmd)
	return root
}

// runServe loads configuration, wires the application and blocks until ctx
// is canceled or the server fails.
func runServe(ctx context.Context, configPath string) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	log, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize application", "error", err)
		return err
	}

	return app.Run(ctx)
}
