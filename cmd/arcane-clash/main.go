// Package main is the arcane-clash server and maintenance CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericogr/arcane-clash/internal/config"
	"github.com/ericogr/arcane-clash/internal/logging"
)

var (
	configPath string
	cfg        *config.LoadedConfig
)

var rootCmd = &cobra.Command{
	Use:   "arcane-clash",
	Short: "Arcane Clash card game server",
	Long:  `Arcane Clash serves two-player card battles over HTTP and websockets.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := logging.Init(loaded.LogLevel, loaded.LogDevelopment); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("ARCANE_CONFIG"), "path to a JSON or YAML config file")
	rootCmd.AddCommand(serveCmd, seedCmd, versionCmd)
}

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
