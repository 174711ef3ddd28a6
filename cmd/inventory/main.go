// Command inventory runs the inventory service and its maintenance tasks.
//
//	inventory serve              # HTTP (+ gRPC health when GRPC_PORT is set)
//	inventory migrate            # apply pending migrations
//	inventory migrate:rollback
//	inventory migrate:status
//	inventory seed               # restock the demo catalogue
//	inventory route:list
//	inventory sku "Classic Tee" Acme 9
//	inventory import stock.json
//	inventory export --disk s3
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/inventory/config"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "inventory",
		Short:         "Inventory service CLI",
		Long:          "Serve the inventory API and manage its database, seed data, imports and exports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Load()
		},
	}

	// Server
	root.AddCommand(newServeCmd())
	root.AddCommand(newRouteListCmd())

	// Database
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newMigrateRollbackCmd())
	root.AddCommand(newMigrateStatusCmd())
	root.AddCommand(newSeedCmd())

	// Stock
	root.AddCommand(newSKUCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newExportCmd())

	return root
}
