package main

import (
	"path/filepath"
	"strings"

	"github.com/pthm/bladex/internal/config"
	"github.com/pthm/bladex/lib/cache"
	"github.com/pthm/bladex/lib/generator"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate [dirs...]",
		Short: "Compile templates next to their sources",
		Long: `Compile every template file (default *.x.blade.php) in the given
directories into a view file (default *.blade.php). A directory ending in
/... includes its subdirectories. Without arguments the templates setting
of the configuration is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reg, err := a.load()
			if err != nil {
				return err
			}
			g := generator.New(generator.CompilerFunc(reg.CompileCached), generatorOptions(a, cfg, dryRun))
			return g.Generate(patterns(a, cfg, args)...)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be generated without writing files")
	return cmd
}

func newCleanCmd(a *app) *cobra.Command {
	var dryRun, clearCache bool

	cmd := &cobra.Command{
		Use:   "clean [dirs...]",
		Short: "Remove generated views",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reg, err := a.load()
			if err != nil {
				return err
			}
			g := generator.New(generator.CompilerFunc(reg.Compile), generatorOptions(a, cfg, dryRun))
			if err := g.Clean(patterns(a, cfg, args)...); err != nil {
				return err
			}

			if !clearCache || cfg.CacheDir == "" || dryRun {
				return nil
			}
			store, err := cache.NewDirStore(a.rootPath(cfg.CacheDir), nil)
			if err != nil {
				return err
			}
			n, err := store.Clear()
			if err != nil {
				return err
			}
			a.logger.Info("cleared cache", "dir", store.Dir(), "entries", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be removed without removing files")
	cmd.Flags().BoolVar(&clearCache, "cache", false, "also remove the compiled template cache")
	return cmd
}

func generatorOptions(a *app, cfg *config.Config, dryRun bool) generator.Options {
	return generator.Options{
		DryRun:    dryRun,
		SourceExt: cfg.SourceExt,
		OutputExt: cfg.OutputExt,
		Logger:    a.logger,
	}
}

// patterns resolves directory patterns against the project root.
func patterns(a *app, cfg *config.Config, args []string) []string {
	if len(args) == 0 {
		args = cfg.Templates
	}
	out := make([]string, len(args))
	for i, p := range args {
		if a.root == "" || a.root == "." || filepath.IsAbs(p) {
			out[i] = p
			continue
		}
		out[i] = filepath.Join(a.root, strings.TrimSuffix(p, "/...")) + suffix(p)
	}
	return out
}

func suffix(pattern string) string {
	if strings.HasSuffix(pattern, "/...") {
		return "/..."
	}
	return ""
}
