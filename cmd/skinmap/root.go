// Package main provides the CLI entrypoint for skinmap.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/skinmap/internal/config"
	"github.com/jmylchreest/skinmap/internal/theme"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		theme      string
		root       string
		themesDir  string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "skinmap",
	Short: "Theme override resolution for a themed catalog UI",
	Long: `skinmap resolves which file a themed catalog deployment loads for each
resource key.

A theme declares overrides as key/path pairs. Keys without an override
fall back to the default resource, so a theme only lists what it changes.
Themes are read from the themes directory, falling back to the bundled set.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(slog.LevelWarn)

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Flags win over the config file
		if cmd.Flags().Changed("theme") {
			cfg.Theme = globalOpts.theme
		}
		if cmd.Flags().Changed("root") {
			cfg.Root = globalOpts.root
		}
		if cmd.Flags().Changed("themes-dir") {
			cfg.ThemesDir = globalOpts.themesDir
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger.Debug("configuration loaded",
			"theme", cfg.Theme,
			"root", cfg.Root,
			"themes_dir", cfg.ResolvedThemesDir(),
		)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/skinmap/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&globalOpts.theme, "theme", "t", "",
		"Theme to use (default from config, then \"default\")")
	rootCmd.PersistentFlags().StringVar(&globalOpts.root, "root", "",
		"Deployment root substituted for {root} (default /metacatui)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.themesDir, "themes-dir", "",
		"Directory holding user themes (default: ~/.config/skinmap/themes)")
}

// levelOff is above every level the code logs at.
const levelOff = slog.LevelError + 4

// parseLogLevel maps a config log level name onto a slog level. Unknown
// names fall back to info.
func parseLogLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "off":
		return levelOff
	default:
		return slog.LevelInfo
	}
}

// setupLogger configures the global slog logger. --verbose always wins.
func setupLogger(level slog.Level) {
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// newLoader returns a loader for the configured themes directory and root.
func newLoader() *theme.Loader {
	return theme.NewLoader(cfg.ResolvedThemesDir(), cfg.Root, logger)
}
