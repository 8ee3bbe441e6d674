package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/lingoflash/internal/catalog"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a YAML lesson catalog into the database",
	Long:  "Validates the catalog as a whole (ids, weights, prerequisites, cycles) and upserts every lesson.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		lessons, err := catalog.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load catalog %s: %w", path, err)
		}

		return run(cmd, func(ctx context.Context, a *app) error {
			n, err := a.lessons.SeedCatalog(ctx, lessons)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d lessons from %s\n", n, path)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().String("file", "data/lessons.yaml", "Catalog file to load")
}
