package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/skinmap/internal/adapter/output"
	"github.com/jmylchreest/skinmap/internal/theme"
)

var resolveOpts struct {
	defaultPath string
	module      bool
	format      string
	template    string
	pathOnly    bool
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <key>...",
	Short: "Resolve resource keys against the active theme",
	Long: `Resolve one or more resource keys against the configured theme.

Keys are loader ids. A key with an override resolves to the theme's path.
Any other key resolves to the default: --default when given, otherwise the
conventional path under the deployment root. Plain module ids get ".js"
appended; plugin resources such as "text!templates/navbar.html" keep their
name.

With --module, a plugin prefix such as "text!" is kept on the result.

Examples:
  # Where does the arctic navbar come from?
  skinmap resolve --theme arctic text!templates/navbar.html

  # Module ids, as the page loader sees them
  skinmap resolve --module text!templates/footer.html routers/router

  # Just the path, for scripting
  skinmap resolve --path-only models/AppModel`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveOpts.defaultPath, "default", "d", "",
		"Default path for keys without an override (single key only)")
	resolveCmd.Flags().BoolVarP(&resolveOpts.module, "module", "m", false,
		"Treat keys as loader module ids")
	resolveCmd.Flags().StringVarP(&resolveOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml)")
	resolveCmd.Flags().StringVar(&resolveOpts.template, "template", "",
		"Custom Go template for plain output")
	resolveCmd.Flags().BoolVar(&resolveOpts.pathOnly, "path-only", false,
		"Print only the resolved path")
}

func runResolve(cmd *cobra.Command, args []string) error {
	if resolveOpts.defaultPath != "" && len(args) > 1 {
		return fmt.Errorf("--default applies to a single key, got %d", len(args))
	}

	format, err := output.ParseFormat(resolveOpts.format)
	if err != nil {
		return err
	}

	loader := newLoader()
	table, _, err := loader.Load(cfg.Theme)
	if err != nil {
		return err
	}

	resolutions := make([]output.Resolution, 0, len(args))
	for _, key := range args {
		_, lookup := theme.SplitModuleID(key)

		var res theme.ResolvedResource
		switch {
		case resolveOpts.module:
			res = theme.ResolveModule(table, key, loader.Root())
		case resolveOpts.defaultPath != "":
			res = theme.Resolve(table, lookup, resolveOpts.defaultPath)
		default:
			res = theme.Resolve(table, lookup, theme.ModulePath(loader.Root(), key))
		}
		resolutions = append(resolutions, output.Resolution{Key: key, ResolvedResource: res})
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = resolveOpts.template
	opts.PathOnly = resolveOpts.pathOnly
	return output.NewFormatter(format, opts).FormatResolutions(os.Stdout, resolutions)
}
