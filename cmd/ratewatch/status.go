package main

import (
	"fmt"
	"strings"

	"github.com/ratewatch/ratewatch/internal/cli"
	"github.com/ratewatch/ratewatch/internal/format"
	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and cache state",
		Long: `Show whether a session is stored, the most recent cached dashboard
total, and the latest cached exchange rates. Reads local state only; no
network requests are made.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			d, err := buildDeps(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			var b strings.Builder

			creds := d.creds.LoadCredentials()
			if creds.Authenticated() {
				account := creds.UserEmail
				if account == "" {
					account = creds.UserID
				}
				b.WriteString(cli.FormatSuccess("Signed in as " + account))
			} else {
				b.WriteString(cli.FormatWarning("Not signed in. Run 'ratewatch login' to authenticate."))
			}
			b.WriteString("\n\n")

			total, err := d.store.LatestDashboard(ctx, nil, nil)
			if err != nil {
				return fmt.Errorf("failed to read cached dashboard: %w", err)
			}
			if total != nil {
				b.WriteString(fmt.Sprintf("Dashboard (%s): %s\n",
					format.Period(total.Year, total.Month),
					format.Amount(total.Amount, "UAH")))
			} else {
				b.WriteString(cli.SubtleStyle.Render("No cached dashboard data") + "\n")
			}

			records, err := d.store.Rates(ctx, "")
			if err != nil {
				return fmt.Errorf("failed to read rate history: %w", err)
			}
			if len(records) > 0 {
				newest := records[0]
				b.WriteString(fmt.Sprintf("Rate history: %d records, newest from %s\n",
					len(records), newest.Timestamp.Format("2006-01-02 15:04")))
			} else {
				b.WriteString(cli.SubtleStyle.Render("No cached rates") + "\n")
			}

			fmt.Println(cli.RenderBox(cli.RatesIcon+" ratewatch status", strings.TrimRight(b.String(), "\n")))
			return nil
		},
	}
}
