package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ericogr/arcane-clash/internal/catalog"
	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/logging"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert card templates into the configured catalog backend",
	Long: `Reads a YAML seed file (or the built-in catalog) and upserts every
template into the configured backend, keyed by title.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := seedFile
		if path == "" {
			path = cfg.CatalogSeedFile
		}
		templates, err := catalog.LoadSeedFile(path)
		if err != nil {
			return err
		}
		repo, closeDB, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeDB()
		store, err := catalogStore(cmd.Context(), cfg, repo)
		if err != nil {
			return err
		}
		if c, ok := store.(io.Closer); ok {
			defer c.Close()
		}
		if err := store.UpsertTemplates(cmd.Context(), templates); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		logging.Info("catalog seeded", logging.Fields{constants.LogFieldCount: len(templates), constants.LogFieldBackend: cfg.CatalogBackend})
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d templates into %s\n", len(templates), cfg.CatalogBackend)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML seed file (defaults to catalog.seed_file or the built-in catalog)")
}
