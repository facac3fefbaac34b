// Command healthui serves a dashboard for a SmallRye-style health endpoint.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/healthui/internal/config"
	"github.com/okian/healthui/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if syncErr := logger.Sync(); syncErr != nil {
		os.Stderr.WriteString("failed to sync logger: " + syncErr.Error() + "\n")
	}
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// cli carries state shared by every subcommand once the root has loaded it.
type cli struct {
	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "healthui",
		Short: "Dashboard for SmallRye-style health endpoints",
		Long: `healthui polls a health endpoint and shows its checks as cards.

Without a subcommand it serves the dashboard. Configuration comes from
defaults, the YAML file named by HEALTHUI_CONFIG, .env and HEALTHUI_*
environment variables, in that order.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd.Context(), cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context())
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().String("log-level", "", "override log_level")
	root.PersistentFlags().String("log-format", "", "override log_format (text, json, console)")

	root.AddCommand(
		newServeCmd(c),
		newCheckCmd(c),
		newSettingsCmd(c),
		newDemoCmd(c),
	)
	return root
}

func (c *cli) init(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}

	if err := logger.InitWithFormat(cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
		return err
	}
	c.log = logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		c.log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	c.cfg = cfg
	return nil
}
