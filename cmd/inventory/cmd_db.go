package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/database/migrations"
	"github.com/shashiranjanraj/inventory/database/seeders"
	"github.com/shashiranjanraj/inventory/internal/kernel"
	"github.com/shashiranjanraj/inventory/pkg/database"
	"github.com/shashiranjanraj/inventory/pkg/migration"
)

// withDB opens the configured database for the duration of fn.
func withDB(fn func(db *gorm.DB) error) error {
	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck
	return fn(db)
}

// withKernel wires the application around the configured database.
func withKernel(fn func(k *kernel.Kernel) error) error {
	return withDB(func(db *gorm.DB) error {
		k, err := kernel.New(db, kernel.Options{})
		if err != nil {
			return err
		}
		defer k.Events.Wait()
		return fn(k)
	})
}

// inventory migrate
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run all pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *gorm.DB) error {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Running migrations…")
				n, err := migration.New(db, out, migrations.All()).Run()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "✅ %d migration(s) applied\n", n)
				return nil
			})
		},
	}
}

// inventory migrate:rollback
func newMigrateRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:rollback",
		Short: "Rollback the last batch of migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *gorm.DB) error {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Rolling back last batch…")
				n, err := migration.New(db, out, migrations.All()).Rollback()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "✅ %d migration(s) rolled back\n", n)
				return nil
			})
		},
	}
}

// inventory migrate:status
func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show the status of each migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *gorm.DB) error {
				_, err := migration.New(db, cmd.OutOrStdout(), migrations.All()).Status()
				return err
			})
		},
	}
}

// inventory seed
func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Run all database seeders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withKernel(func(k *kernel.Kernel) error {
				fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
				return seeders.RunAll(cmd.Context(), seeders.Deps{Products: k.Products, Users: k.Users}, cmd.OutOrStdout())
			})
		},
	}
}
