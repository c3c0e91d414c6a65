/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ssargent/osrkit/pkg/api"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the osrkit REST API server backed by the replay archive.

Flags override the server section of the config file.

Examples:
  osrtool serve
  osrtool serve --port 9000 --bind 0.0.0.0 --api-key mysecretkey`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := sessionFrom(cmd)
			if err != nil {
				return err
			}

			cfg := rt.cfg.Server
			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("bind") {
				cfg.Bind, _ = cmd.Flags().GetString("bind")
			}
			if cmd.Flags().Changed("api-key") {
				cfg.APIKey, _ = cmd.Flags().GetString("api-key")
			}
			if cfg.APIKey == "" || cfg.APIKey == "auto" {
				return errors.New("no API key configured: run 'osrtool init' or pass --api-key")
			}

			a, err := rt.openArchive()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return api.StartServer(ctx, a, rt.codec, api.ServerConfig{
				Port:           cfg.Port,
				Bind:           cfg.Bind,
				APIKey:         cfg.APIKey,
				MaxUploadBytes: cfg.MaxUploadBytes,
			}, rt.logger)
		},
	}

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind")
	serveCmd.Flags().String("api-key", "", "API key for authentication (default server.api_key)")
	return serveCmd
}
