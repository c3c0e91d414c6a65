/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/ssargent/osrkit/pkg/archive"
	"github.com/ssargent/osrkit/pkg/compress"
	"github.com/ssargent/osrkit/pkg/config"
	"github.com/ssargent/osrkit/pkg/logging"
	"github.com/ssargent/osrkit/pkg/osr"
)

type sessionKey struct{}

// session is what PersistentPreRunE resolves for every subcommand.
type session struct {
	configPath string
	cfg        *config.Config
	logger     zerolog.Logger
	codec      *osr.Codec
}

// NewRootCmd builds the osrtool command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "osrtool",
		Short: "osrtool - legacy osu! replay toolkit",
		Long: `osrtool decodes, inspects, re-encodes and archives legacy .osr replay files.

Archive and server settings come from a YAML config file. Run 'osrtool init'
to create one with a generated API key.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logLevel, _ := cmd.Flags().GetString("log-level")

			// init creates the file, so a missing config is not an error there
			cfg, resolvedPath, err := resolveConfig(configPath, cmd.Name() == "init")
			if err != nil {
				return err
			}
			if logLevel != "" {
				if _, ok := logging.ParseLevel(logLevel); !ok {
					return fmt.Errorf("unknown log level %q", logLevel)
				}
				cfg.Logging.Level = logLevel
			}

			logger := logging.New(cfg.Logging, cmd.ErrOrStderr(), "osrtool")

			engine, err := compress.Lookup(cfg.Codec.Engine)
			if err != nil {
				return err
			}

			rt := &session{
				configPath: resolvedPath,
				cfg:        cfg,
				logger:     logger,
				codec:      osr.NewCodec(osr.WithEngine(engine), osr.WithLogger(logger)),
			}
			cmd.SetContext(context.WithValue(cmd.Context(), sessionKey{}, rt))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error, disabled")

	rootCmd.AddCommand(
		newInspectCmd(),
		newCSVCmd(),
		newReencodeCmd(),
		newImportCmd(),
		newListCmd(),
		newExportCmd(),
		newInitCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// resolveConfig loads an explicit config path, falls back to the default
// path when it exists and otherwise uses built-in defaults.
func resolveConfig(configPath string, allowMissing bool) (*config.Config, string, error) {
	if configPath != "" {
		if allowMissing && !config.ConfigExists(configPath) {
			return config.DefaultConfig(), configPath, nil
		}
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, configPath, nil
	}

	defaultPath := config.GetDefaultConfigPath()
	if config.ConfigExists(defaultPath) {
		cfg, err := config.LoadConfig(defaultPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, defaultPath, nil
	}
	return config.DefaultConfig(), defaultPath, nil
}

func sessionFrom(cmd *cobra.Command) (*session, error) {
	rt, ok := cmd.Context().Value(sessionKey{}).(*session)
	if !ok {
		return nil, errors.New("session not found in context")
	}
	return rt, nil
}

func (rt *session) openArchive() (*archive.Archive, error) {
	if err := os.MkdirAll(rt.cfg.Archive.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return archive.Open(rt.cfg.Archive.DataDir, rt.codec, rt.logger)
}
