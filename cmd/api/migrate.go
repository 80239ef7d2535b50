package main

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/limegom/FastApi-Todos-by-jong1/internal/config"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/repository"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage postgres schema migrations",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(m *migrate.Migrate) error {
					if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(m *migrate.Migrate) error {
					if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current migration version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(m *migrate.Migrate) error {
					v, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
						return nil
					}
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%v)\n", v, dirty)
					return nil
				})
			},
		},
	)
	return migrateCmd
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	cfg := config.Load()
	if cfg.Store.Backend != config.BackendPostgres {
		return fmt.Errorf("migrations need STORE_BACKEND=postgres, got %q", cfg.Store.Backend)
	}

	m, err := repository.NewMigrator(cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}
