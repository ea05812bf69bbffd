package main

import (
	"fmt"
	"time"

	"github.com/ratewatch/ratewatch/internal/cli"
	"github.com/ratewatch/ratewatch/internal/format"
	"github.com/ratewatch/ratewatch/internal/scheduler"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func watchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Periodically refresh rates and the dashboard total",
		Long: `Run the background refresh loop: fetch the public exchange rates and,
when a session is stored, the dashboard total, writing both to the
shared cache. The loop ticks immediately and then at the configured
interval until interrupted.

The watcher shares its cache and credential files with the interactive
commands, so a login or logout performed in another terminal takes
effect on the next tick.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			d, err := buildDeps(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			if !cmd.Flags().Changed("interval") {
				if configured := viper.GetDuration("watch.interval"); configured > 0 {
					interval = configured
				}
			}
			if interval < time.Minute {
				return fmt.Errorf("interval must be at least one minute, got %s", interval)
			}

			fmt.Println(cli.FormatTitle(cli.RatesIcon + " ratewatch watcher"))
			fmt.Printf("Refreshing every %s. Press Ctrl+C to stop.\n\n", interval)

			buildScheduler(d).Run(ctx, interval, renderSnapshot)
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Hour, "time between refreshes")

	return cmd
}

func renderSnapshot(s scheduler.Snapshot) {
	fmt.Printf("[%s] tick %s\n", s.ProducedAt.Format("15:04:05"), s.TickID)

	if s.Dashboard != nil {
		fmt.Printf("  dashboard %s: %s\n",
			format.Period(s.Dashboard.Year, s.Dashboard.Month),
			format.Amount(s.Dashboard.Amount, "UAH"))
	} else {
		fmt.Println("  dashboard: " + cli.SubtleStyle.Render("no data"))
	}

	// Only today's quotes are interesting in the rolling display; the
	// full history stays available via 'ratewatch rates'.
	shown := 0
	for _, r := range s.Rates {
		if !sameDay(r.Timestamp, s.ProducedAt) {
			continue
		}
		fmt.Printf("  %s/%s buy %s sale %s\n",
			r.Ccy, r.BaseCcy, format.RateValue(r.Buy), format.RateValue(r.Sale))
		shown++
	}
	if shown == 0 {
		fmt.Println("  rates: " + cli.SubtleStyle.Render("no quotes for today"))
	}
	fmt.Println()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
