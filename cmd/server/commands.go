package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	internaldb "icare/internal/db"
)

func newMigrateCmd(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage datastore schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd.Context(), *envFile, true)
			if err != nil {
				return err
			}
			e.close()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd.Context(), *envFile, false)
			if err != nil {
				return err
			}
			defer e.close()

			states, err := internaldb.MigrationStatus(cmd.Context(), e.pool.Write)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "VERSION\tSTATE\tFILE")
			for _, s := range states {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, state, s.Path)
			}
			return tw.Flush()
		},
	})

	return cmd
}

func newSeedCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo accounts, optometrists, library resources and products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd.Context(), *envFile, true)
			if err != nil {
				return err
			}
			defer e.close()

			a, err := e.app(cmd.Context())
			if err != nil {
				return err
			}
			return a.Seed(cmd.Context())
		},
	}
}

func newTokenCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "token <email>",
		Short: "Issue a bearer token for an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), *envFile, true)
			if err != nil {
				return err
			}
			defer e.close()

			a, err := e.app(cmd.Context())
			if err != nil {
				return err
			}
			u, err := a.UserByEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			token, exp, err := a.Tokens.Issue(u)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, token)
			_, _ = fmt.Fprintf(os.Stderr, "expires %s\n", exp.Format(time.RFC3339))
			return nil
		},
	}
}
