package main

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pthm/bladex"
	"github.com/pthm/bladex/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// app carries the global flags to the subcommands.
type app struct {
	cfgFile string
	root    string
	verbose bool
	logger  *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "bladex",
		Short: "Compile component tags in Blade templates",
		Long: `bladex rewrites custom component tags such as <x-alert type="error"/>
into Blade @component directives.

Components are configured in bladex.toml; every setting can be
overridden with a BLADEX_* environment variable.

Examples:
  bladex init                         Write a default bladex.toml
  bladex generate                     Compile all *.x.blade.php templates
  bladex compile page.x.blade.php     Print a compiled template
  bladex components                   List registered components`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "bladex"})
			if a.verbose {
				a.logger.SetLevel(log.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is <root>/bladex.toml)")
	cmd.PersistentFlags().StringVar(&a.root, "root", ".", "project root that config paths are relative to")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")

	cmd.AddCommand(
		newGenerateCmd(a),
		newCleanCmd(a),
		newCompileCmd(a),
		newComponentsCmd(a),
		newInitCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// load reads the configuration and builds the registry.
func (a *app) load() (*config.Config, *bladex.Registry, error) {
	cfg, err := config.Load(a.cfgFile, a.root)
	if err != nil {
		return nil, nil, err
	}
	reg, err := cfg.Registry(a.root, a.logger)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("loaded configuration", "prefix", reg.Prefix(), "components", len(reg.Components()))
	return cfg, reg, nil
}

func (a *app) rootPath(path string) string {
	return filepath.Join(a.root, path)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bladex version %s\n", versionString())
		},
	}
}
