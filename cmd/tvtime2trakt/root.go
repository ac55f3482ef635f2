package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lukearran/tvtime2trakt/internal/config"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tvtime2trakt",
	Short: "Import your TV Time watch history into Trakt",
	Long: `tvtime2trakt - import your TV Time watch history into Trakt

Reads the CSV files from a TV Time GDPR data export and replays your
watched episodes and movies into a Trakt account via its public API.
Progress is stored locally, so an interrupted import can be re-run and
picks up where it left off.

Typical flow:
  tvtime2trakt init      # write a starter config
  tvtime2trakt auth      # authorize with Trakt (device code)
  tvtime2trakt import    # run the import`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: discover)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("tvtime2trakt {{.Version}}\n")
}

// loadConfig loads and validates the configuration. Validation
// failures are fatal before any processing starts.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.Discover()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &config.ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}
