package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mkarls/wireweave/pkg/config"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wireweave",
	Short: "wireweave - schema-driven legacy wire format codec",
	Long: `wireweave encodes and decodes the legacy binary wire format from
externally authored schema descriptions, and can serve the codec and a
record store over HTTP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringP("schema-dir", "s", "", "Directory of schema description files")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the record store")
	rootCmd.PersistentFlags().Bool("lenient", false, "Tolerate unresolved references the way the legacy format did")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig builds the effective configuration from the config file (when
// given) overlaid with command-line flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dir, _ := cmd.Flags().GetString("schema-dir"); dir != "" {
		cfg.SchemaDir = dir
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if lenient, _ := cmd.Flags().GetBool("lenient"); lenient {
		cfg.Codec.Lenient = true
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

// newLogger builds the process logger at the configured level.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
