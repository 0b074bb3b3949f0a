package main

import (
	"github.com/spf13/cobra"

	"github.com/relaygate/relay/dashboard"
)

func newUsageCommand() *cobra.Command {
	var rangeFlag, provider string
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show usage, trend, and cost for the current organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := dashboard.ParseRange(rangeFlag)
			if err != nil {
				return err
			}

			data, err := dashboard.NewOrchestrator(relay).Fetch(ctx, dashboard.Filter{
				Range:    r,
				Provider: provider,
			})
			if err != nil {
				return err
			}
			return printDashboard(data)
		},
	}
	cmd.Flags().StringVar(&rangeFlag, "range", "7d", "Time range: 24h, 7d, 30d, or 90d")
	cmd.Flags().StringVar(&provider, "provider", "", "Only include usage routed to this provider")
	return cmd
}
