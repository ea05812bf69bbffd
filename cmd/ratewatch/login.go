package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ratewatch/ratewatch/internal/cli"
	"github.com/ratewatch/ratewatch/internal/common"
	"github.com/ratewatch/ratewatch/internal/format"
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the dashboard API",
		Long: `Authenticate against the dashboard API and store the session
tokens for use by every other command, including the background watcher.

Email and password are prompted for unless given as flags.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			d, err := buildDeps(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			reader := cli.NewNonBlockingReader(os.Stdin)
			if email == "" {
				fmt.Print(cli.FormatPrompt("Email: "))
				email, err = reader.ReadLine(ctx)
				if err != nil {
					return err
				}
			}
			if password == "" {
				fmt.Print(cli.FormatPrompt("Password: "))
				password, err = reader.ReadLine(ctx)
				if err != nil {
					return err
				}
			}

			machine := buildMachine(d)
			if err := machine.Login(ctx, email, password); err != nil {
				var userErr *common.UserError
				if errors.As(err, &userErr) {
					fmt.Println(cli.FormatError(userErr.UserMessage))
				} else if errors.Is(err, common.ErrUnauthorized) {
					fmt.Println(cli.FormatError("Invalid email or password"))
				} else {
					fmt.Println(cli.FormatError("Login failed: " + err.Error()))
				}
				return err
			}

			creds := d.creds.LoadCredentials()
			fmt.Println(cli.FormatSuccess("Logged in as " + creds.UserEmail))

			if state := machine.State(); state.Total != nil {
				fmt.Printf("Dashboard total for %s: %s\n",
					format.Period(state.Total.Year, state.Total.Month),
					format.Amount(state.Total.Amount, "UAH"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := buildDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer d.Close()

			buildMachine(d).Logout()
			fmt.Println(cli.FormatSuccess("Logged out"))
			return nil
		},
	}
}
