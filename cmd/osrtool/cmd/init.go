/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/osrkit/pkg/config"
)

func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file with a generated API key",
		Long: `Create the osrtool configuration file and the archive data directory.

The generated API key protects the REST API started by 'osrtool serve'.

Examples:
  osrtool init
  osrtool init --data-dir ./replays --config ./osrkit.yaml
  osrtool init --force --print-key`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			dataDir, _ := cmd.Flags().GetString("data-dir")
			force, _ := cmd.Flags().GetBool("force")
			printKey, _ := cmd.Flags().GetBool("print-key")

			if config.ConfigExists(rt.configPath) && !force {
				cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", rt.configPath)
				return nil
			}

			cfg, err := config.BootstrapConfig(rt.configPath, dataDir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.Archive.DataDir, 0750); err != nil {
				return err
			}

			cmd.Printf("Configuration created at %s\n", rt.configPath)
			cmd.Printf("Data directory: %s\n", cfg.Archive.DataDir)
			if printKey {
				cmd.Printf("API key: %s\n", cfg.Server.APIKey)
			}
			return nil
		},
	}

	initCmd.Flags().String("data-dir", "", "Archive data directory (default ./data)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	initCmd.Flags().Bool("print-key", false, "Print the generated API key")
	return initCmd
}
