package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mkarls/wireweave/pkg/api"
	"github.com/mkarls/wireweave/pkg/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the codec and record store over HTTP",
	Long: `Starts the HTTP server exposing schema registration, encode/decode,
and record CRUD endpoints, plus Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if bind, _ := cmd.Flags().GetString("bind"); bind != "" {
			cfg.Bind = bind
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}

		log := newLogger(cfg)

		container, err := di.New(cfg, log)
		if err != nil {
			return err
		}
		defer container.Close()

		server := container.Server(api.NewMetrics())
		log.Info().Str("bind", cfg.Bind).Int("port", cfg.Port).Msg("starting server")
		return server.Start()
	},
}

func init() {
	serveCmd.Flags().String("bind", "", "Address to bind to")
	serveCmd.Flags().Int("port", 0, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
