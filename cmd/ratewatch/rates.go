package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ratewatch/ratewatch/internal/cli"
	"github.com/ratewatch/ratewatch/internal/format"
	"github.com/ratewatch/ratewatch/internal/model"
	"github.com/spf13/cobra"
)

func ratesCmd() *cobra.Command {
	var ccy string
	var live bool

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show the exchange rate history",
		Long: `Show the cached exchange rate history, newest first. With --live the
public feed is fetched first and any new values are appended before the
history is displayed; a quote identical to the one already stored for
today is not duplicated.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			d, err := buildDeps(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			if live {
				rawRates, err := d.rates.Fetch(ctx)
				if err != nil {
					fmt.Println(cli.FormatWarning("Live fetch failed, showing cached rates: " + err.Error()))
				} else if err := d.store.AppendRates(ctx, rawRates); err != nil {
					return fmt.Errorf("failed to store rates: %w", err)
				}
			}

			records, err := d.store.Rates(ctx, strings.ToUpper(ccy))
			if err != nil {
				return fmt.Errorf("failed to read rate history: %w", err)
			}

			if len(records) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No rates cached yet. Run 'ratewatch rates --live' to fetch the feed."))
				return nil
			}

			printRateTable(records)
			return nil
		},
	}

	cmd.Flags().StringVar(&ccy, "ccy", "", "show only this currency (e.g. USD)")
	cmd.Flags().BoolVar(&live, "live", false, "fetch the public feed before displaying")

	return cmd
}

func printRateTable(records []model.RateRecord) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("Date"),
		cli.TableHeaderStyle.Render("Pair"),
		cli.TableHeaderStyle.Render("Buy"),
		cli.TableHeaderStyle.Render("Sale"),
		cli.TableHeaderStyle.Render(""))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
		strings.Repeat("-", 16),
		strings.Repeat("-", 9),
		strings.Repeat("-", 8),
		strings.Repeat("-", 8))

	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s/%s\t%s\t%s\t%s\n",
			r.Timestamp.Format("2006-01-02 15:04"),
			r.Ccy, r.BaseCcy,
			format.RateValue(r.Buy),
			format.RateValue(r.Sale),
			format.Symbol(r.Ccy))
	}
}
