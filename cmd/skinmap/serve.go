package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/skinmap/internal/server"
	"github.com/jmylchreest/skinmap/internal/theme"
)

var serveOpts struct {
	listen    string
	staticDir string
	noReload  bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog with the active theme",
	Long: `Serve the static catalog tree with theme overrides applied.

Every subdirectory of the static directory is served under the deployment
root. Resolved resources are served under /themed/<key>, and the active
table can be inspected under /api.

When reload is enabled and the theme comes from the themes directory, edits
to its declarations swap in a new table without a restart. A broken edit
keeps the previous table in service.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveOpts.listen, "listen", "l", "",
		"Listen address (default from config, then :3000)")
	serveCmd.Flags().StringVar(&serveOpts.staticDir, "static-dir", "",
		"Directory to serve (default from config, then ./src)")
	serveCmd.Flags().BoolVar(&serveOpts.noReload, "no-reload", false,
		"Do not watch the theme for changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveOpts.listen != "" {
		cfg.Server.Listen = serveOpts.listen
	}
	if serveOpts.staticDir != "" {
		cfg.Server.StaticDir = serveOpts.staticDir
	}
	if serveOpts.noReload {
		cfg.Reload.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	setupLogger(parseLogLevel(cfg.Server.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := newLoader()
	table, src, err := loader.Load(cfg.Theme)
	if err != nil {
		return err
	}
	active := theme.NewActive(table)

	if cfg.Reload.Enabled {
		watcher := theme.NewWatcher(loader, src, logger)
		watcher.SetReloadCallback(func(next *theme.OverrideTable) {
			prev := active.Swap(next)
			logger.Info("theme table swapped",
				"theme", next.Theme,
				"generation", next.Generation.String(),
				"previous", prev.Generation.String(),
				"overrides", next.Len(),
			)
		})
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	srv, err := server.New(active, loader, server.Options{
		Root:       cfg.Root,
		StaticDir:  cfg.Server.StaticDir,
		ConfigFile: cfg.ResolvedConfigFile(),
		Fallback:   cfg.Server.Fallback,
		LogLevel:   cfg.Server.LogLevel,
	}, logger)
	if err != nil {
		return err
	}

	return srv.Run(ctx, cfg.Server.Listen, cfg.Server.ShutdownTimeout.Duration())
}
