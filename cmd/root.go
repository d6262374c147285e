// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"remora/internal/config"
	"remora/internal/history"
	"remora/internal/logging"
	"remora/internal/transcode"
	"remora/internal/tui"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagConfig    string
	flagOutputDir string
	flagDebug     bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "remora",
	Short: "Download and convert video from the terminal",
	Long: `Remora is a terminal frontend for yt-dlp and ffmpeg.
Run it without arguments for the interactive interface, or use the
subcommands for scripting.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: loadConfig,
	RunE:              tuiRun,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVarP(&flagOutputDir, "output-dir", "o", "", "Download directory override")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging, mirrored to stderr")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(transcodeCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFrom(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if flagDebug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logPath, err := config.LogPath()
	if err != nil {
		return fmt.Errorf("resolving log path: %w", err)
	}
	// The bare command owns the terminal, so it never mirrors logs to
	// stderr; subcommands do under --debug.
	mirror := cfg.Debug && cmd != cmd.Root()
	if err := logging.Setup(logPath, cfg.LogLevel, mirror); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	return nil
}

// debugf logs through the shared logger; visible on stderr under --debug.
func debugf(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

// tuiRun is the default command: the interactive interface.
func tuiRun(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; use the subcommands for scripting (see remora --help)")
	}

	store := openHistory()
	if store != nil {
		defer store.Close()
	}

	presets, err := loadPresets()
	if err != nil {
		return err
	}

	return tui.Run(cfg, store, presets)
}

// openHistory opens the history store, or returns nil when history is
// disabled or unavailable.
func openHistory() *history.Store {
	if !cfg.History {
		return nil
	}
	path, err := config.HistoryPath()
	if err != nil {
		logrus.WithError(err).Warn("history path unavailable")
		return nil
	}
	store, err := history.Open(path)
	if err != nil {
		logrus.WithError(err).Warn("history disabled: cannot open store")
		return nil
	}
	return store
}

// loadPresets merges built-in transcode presets with the user's
// presets.toml.
func loadPresets() ([]transcode.Preset, error) {
	path, err := config.PresetsPath()
	if err != nil {
		return transcode.Builtins(cfg), nil
	}
	presets, err := transcode.Load(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading presets: %w", err)
	}
	return presets, nil
}
