package main

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/healthui/internal/adapters/settingsstore"
	"github.com/okian/healthui/internal/domain/settings"
	"github.com/okian/healthui/pkg/logger"
	"github.com/spf13/cobra"
)

func (c *cli) openStore(ctx context.Context) (settingsstore.Store, error) {
	return settingsstore.Open(ctx,
		settingsstore.WithBackend(c.cfg.SettingsBackend),
		settingsstore.WithPath(c.cfg.SettingsPath),
		settingsstore.WithRedisAddr(c.cfg.RedisAddr),
		settingsstore.WithRedisPassword(c.cfg.RedisPassword),
		settingsstore.WithRedisDB(c.cfg.RedisDB),
		settingsstore.WithKeyPrefix(c.cfg.RedisKeyPrefix),
	)
}

func newSettingsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read or change the stored dashboard settings",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print the settings the dashboard would start with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd.Context(), func(store settingsstore.Store) error {
				s := settings.Load(cmd.Context(), store, c.cfg.Defaults(), c.log)
				return printSettings(cmd.OutOrStdout(), s)
			})
		},
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Store new settings; unset flags keep their current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store settingsstore.Store) error {
				prev := settings.Load(ctx, store, c.cfg.Defaults(), c.log)
				next := prev
				if cmd.Flags().Changed("title") {
					next.Title, _ = cmd.Flags().GetString("title")
				}
				if cmd.Flags().Changed("url") {
					next.EndpointURL, _ = cmd.Flags().GetString("url")
				}
				if cmd.Flags().Changed("poll") {
					next.Poll, _ = cmd.Flags().GetString("poll")
					if !settings.IsKnownPoll(next.Poll) {
						return fmt.Errorf("unknown poll %q, want one of %v", next.Poll, settings.PollLabels())
					}
				}
				if err := settings.Save(ctx, store, prev, next.Normalize()); err != nil {
					return err
				}
				return printSettings(cmd.OutOrStdout(), next.WithDefaults(c.cfg.Defaults()))
			})
		},
	}
	set.Flags().String("title", "", "dashboard title")
	set.Flags().String("url", "", "health endpoint URL")
	set.Flags().String("poll", "", "poll cadence, e.g. \"every 10 seconds\" or \"off\"")

	cmd.AddCommand(get, set)
	return cmd
}

func (c *cli) withStore(ctx context.Context, fn func(settingsstore.Store) error) error {
	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			c.log.Warn(ctx, "settings store close failed", logger.Error(err))
		}
	}()
	return fn(store)
}

func printSettings(w io.Writer, s settings.Settings) error {
	_, err := fmt.Fprintf(w, "title: %s\nurl:   %s\npoll:  %s\n", s.Title, s.EndpointURL, s.Poll)
	return err
}
