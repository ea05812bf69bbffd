package main

import (
	"fmt"

	"github.com/ratewatch/ratewatch/internal/cli"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Bring the cache database schema up to the current version. Every
command migrates automatically on startup, so this exists mainly to
verify a database file or prepare one ahead of time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Println(cli.FormatSuccess("Database schema is up to date"))
			return nil
		},
	}
}
