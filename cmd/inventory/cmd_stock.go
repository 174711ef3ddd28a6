package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/inventory/app/bulk"
	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/config"
	"github.com/shashiranjanraj/inventory/internal/kernel"
	"github.com/shashiranjanraj/inventory/pkg/storage"
)

// inventory sku <name> <brand> <size>
func newSKUCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sku <name> <brand> <size>",
		Short: "Print the SKU a product would be stored under",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.ParseFloat(args[2], 64)
			if err != nil || size < 0 {
				return fmt.Errorf("size must be a number >= 0, got %q", args[2])
			}
			fmt.Fprintln(cmd.OutOrStdout(), services.GenerateSKU(args[0], args[1], size))
			return nil
		},
	}
}

// inventory import <file>
func newImportCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Restock every submission in a JSON array file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			subs, err := bulk.Decode(f)
			if err != nil {
				return err
			}
			if workers < 1 {
				workers = config.ImportWorkers()
			}

			return withKernel(func(k *kernel.Kernel) error {
				report, err := bulk.Import(cmd.Context(), k.Products, subs, workers)
				if report != nil {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					if encErr := enc.Encode(report); encErr != nil && err == nil {
						err = encErr
					}
				}
				if err == nil && len(report.Failures) > 0 {
					err = fmt.Errorf("%d of %d submissions failed", len(report.Failures), len(subs))
				}
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent reconciliations (default IMPORT_WORKERS)")
	return cmd
}

// inventory export [--disk local|s3] [--path exports/x.json]
func newExportCmd() *cobra.Command {
	var disk, path string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON snapshot of every product to a storage disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			disks, err := storage.NewManager(cmd.Context())
			if err != nil {
				return err
			}
			d, err := disks.Use(disk)
			if err != nil {
				return err
			}

			now := time.Now()
			if path == "" {
				path = bulk.ExportPath(now)
			}

			return withKernel(func(k *kernel.Kernel) error {
				n, err := bulk.Export(cmd.Context(), k.Products, d, path, now)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✅ Exported %d product(s) to %s\n", n, d.URL(path))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&disk, "disk", "", "storage disk (default STORAGE_DISK)")
	cmd.Flags().StringVar(&path, "path", "", "destination path (default exports/products-<timestamp>.json)")
	return cmd
}
