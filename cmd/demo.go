package main

import (
	"github.com/okian/healthui/internal/demo"
	"github.com/spf13/cobra"
)

func newDemoCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Serve a simulated health endpoint with flapping checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			flap, _ := cmd.Flags().GetFloat64("flap-rate")
			malformed, _ := cmd.Flags().GetFloat64("malformed-rate")
			checks, _ := cmd.Flags().GetStringSlice("checks")

			e := demo.New(
				demo.WithChecks(checks...),
				demo.WithFlapRate(flap),
				demo.WithMalformedRate(malformed),
				demo.WithLogger(c.log.Named("demo")),
			)
			return e.Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().String("addr", ":8081", "listen address")
	cmd.Flags().Float64("flap-rate", 0.2, "probability a check reports DOWN on each request")
	cmd.Flags().Float64("malformed-rate", 0, "probability a response body is truncated")
	cmd.Flags().StringSlice("checks", nil, "check names (default: a built-in set)")
	return cmd
}
