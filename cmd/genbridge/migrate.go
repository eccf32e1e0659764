package main

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/BaSui01/genbridge/internal/migration"
)

// =============================================================================
// 🗄️ migrate
// =============================================================================

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the job ledger and feedback schema",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.migrating = true
			return a.setup(cmd.Context())
		},
	}

	run := func(fn func(*cobra.Command, *migration.CLI, []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				return errNoDatabase
			}
			dbType, err := migration.ParseDatabaseType(a.cfg.Database.Driver)
			if err != nil {
				return err
			}
			sqlDB, err := a.store.DB().DB()
			if err != nil {
				return err
			}
			m, err := migration.NewMigrator(sqlDB, dbType, "")
			if err != nil {
				return err
			}
			defer m.Close()
			return fn(cmd, migration.NewCLI(m, cmd.OutOrStdout()), args)
		}
	}

	var upSteps, downSteps int
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations (all unless --steps is set)",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, c *migration.CLI, _ []string) error {
			if upSteps > 0 {
				return c.RunSteps(cmd.Context(), upSteps)
			}
			return c.RunUp(cmd.Context())
		}),
	}
	up.Flags().IntVar(&upSteps, "steps", 0, "apply only this many migrations")

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations (the last one unless --steps is set)",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, c *migration.CLI, _ []string) error {
			if downSteps < 1 {
				return errors.New("--steps must be at least 1")
			}
			if downSteps > 1 {
				return c.RunSteps(cmd.Context(), -downSteps)
			}
			return c.RunDown(cmd.Context())
		}),
	}
	down.Flags().IntVar(&downSteps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		up,
		down,
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, c *migration.CLI, _ []string) error {
				return c.RunStatus(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, c *migration.CLI, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return err
				}
				return c.RunForce(cmd.Context(), v)
			}),
		},
	)
	return cmd
}
