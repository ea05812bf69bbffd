package main

import (
	"errors"
	"fmt"

	"github.com/ratewatch/ratewatch/internal/cli"
	"github.com/ratewatch/ratewatch/internal/common"
	"github.com/ratewatch/ratewatch/internal/format"
	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	var year int
	var month int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard total",
		Long: `Fetch the dashboard total for a period and display it. The fetched
value replaces the cached one for that period. Without flags the server
picks the current period. Months are numbered 1-12 on the command line.

When the fetch fails the cached value is shown instead, so the command
still works offline.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			d, err := buildDeps(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			var yearArg, monthArg *int
			if cmd.Flags().Changed("year") {
				yearArg = &year
			}
			if cmd.Flags().Changed("month") {
				if month < 1 || month > 12 {
					return fmt.Errorf("month must be between 1 and 12, got %d", month)
				}
				apiMonth := month - 1
				monthArg = &apiMonth
			}

			total, err := d.dashboard.TotalAmount(ctx, yearArg, monthArg)
			if err == nil {
				fmt.Printf("%s: %s\n",
					format.Period(total.Year, total.Month),
					format.Amount(total.Amount, "UAH"))
				return nil
			}

			if errors.Is(err, common.ErrUnauthorized) {
				fmt.Println(cli.FormatError("Session expired. Run 'ratewatch login' to sign in again."))
				return err
			}

			// Fall back to the cache for the requested period.
			fmt.Println(cli.FormatWarning("Fetch failed, showing cached value: " + err.Error()))
			cached, cacheErr := d.store.LatestDashboard(ctx, yearArg, monthArg)
			if cacheErr != nil {
				return fmt.Errorf("failed to read cached dashboard: %w", cacheErr)
			}
			if cached == nil {
				fmt.Println(cli.SubtleStyle.Render("No cached value for this period"))
				return err
			}
			fmt.Printf("%s: %s\n",
				format.Period(cached.Year, cached.Month),
				format.Amount(cached.Amount, "UAH"))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "period year (e.g. 2024)")
	cmd.Flags().IntVar(&month, "month", 0, "period month, 1-12")

	return cmd
}
