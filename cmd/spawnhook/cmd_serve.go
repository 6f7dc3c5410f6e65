package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kingrea/spawnhook/internal/bridge"
	"github.com/kingrea/spawnhook/internal/config"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP (POST /process, POST /plan)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root.project, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			settings, err := bridge.SettingsFromConfig(a.cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				settings.Port = port
			}
			opts := []bridge.Option{bridge.WithAnalyzer(a.processor)}
			if a.logger != nil {
				opts = append(opts, bridge.WithLogger(a.logger))
			}
			srv := bridge.NewServer(settings, opts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, func(baseURL string) {
				fmt.Fprintf(cmd.ErrOrStderr(), "spawnhook bridge listening on %s\n", baseURL)
			})
		},
	}
	cmd.Flags().IntVar(&port, "port", config.DefaultBridgePort, "TCP port to listen on")
	return cmd
}
