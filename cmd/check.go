package main

import (
	"errors"
	"time"

	"github.com/okian/healthui/internal/adapters/fetcher"
	"github.com/okian/healthui/internal/adapters/terminal"
	"github.com/okian/healthui/internal/domain/health"
	"github.com/okian/healthui/internal/domain/render"
	"github.com/spf13/cobra"
)

var errUnhealthy = errors.New("endpoint is not healthy")

func newCheckCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [url]",
		Short: "Fetch a health endpoint once and print its checks",
		Long: `check fetches the endpoint once and prints the same cards the dashboard
shows. It exits non-zero when the endpoint is DOWN or cannot be read.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := c.cfg.DefaultURL
			if len(args) == 1 {
				endpoint = args[0]
			}
			title, _ := cmd.Flags().GetString("title")
			if title == "" {
				title = c.cfg.DefaultTitle
			}

			f := fetcher.New(
				fetcher.WithBaseURL(c.cfg.BaseURLFor()),
				fetcher.WithTimeout(c.cfg.FetchTimeout()),
				fetcher.WithLogger(c.log.Named("fetcher")),
			)
			report, err := f.Fetch(cmd.Context(), endpoint)

			var v render.View
			if err != nil {
				v = render.RenderError(title, endpoint, health.AsFetchError(endpoint, err))
			} else {
				v = render.Render(title, endpoint, report)
			}
			v.UpdatedAt = time.Now()

			if perr := terminal.New(cmd.OutOrStdout()).Print(&v); perr != nil {
				return perr
			}
			if err != nil {
				return err
			}
			if v.Down() {
				return errUnhealthy
			}
			return nil
		},
	}
	cmd.Flags().String("title", "", "title shown above the checks")
	return cmd
}
