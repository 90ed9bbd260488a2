// Package config loads the bladex project configuration from bladex.toml
// and BLADEX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/pthm/bladex"
	"github.com/pthm/bladex/lib/compiler"
	"github.com/pthm/bladex/lib/generator"
	"github.com/spf13/viper"
)

const (
	// FileName is the name of the config file (without extension).
	FileName = "bladex"
	// FileExt is the config file extension.
	FileExt = "toml"
	// EnvPrefix prefixes environment overrides, e.g. BLADEX_PREFIX.
	EnvPrefix = "BLADEX"
)

// ErrConfigExists is returned by Write when the file is already present.
var ErrConfigExists = errors.New("config: file already exists")

// Component registers a single view.
type Component struct {
	View      string `mapstructure:"view" toml:"view"`
	Tag       string `mapstructure:"tag" toml:"tag,omitempty"`
	DataModel string `mapstructure:"data_model" toml:"data_model,omitempty"`
}

// Config is the project configuration.
type Config struct {
	// Prefix is the tag prefix, "x" or "x-".
	Prefix string `mapstructure:"prefix" toml:"prefix"`
	// ViewRoot is the directory view names are relative to.
	ViewRoot string `mapstructure:"view_root" toml:"view_root"`
	// Views are component directories under ViewRoot; every view file in
	// them is registered.
	Views []string `mapstructure:"views" toml:"views"`
	// Components are registered after Views, replacing views with the
	// same tag.
	Components []Component `mapstructure:"components" toml:"components,omitempty"`
	// Templates are the directory patterns compiled by generate and clean.
	Templates []string `mapstructure:"templates" toml:"templates"`
	SourceExt string   `mapstructure:"source_ext" toml:"source_ext"`
	OutputExt string   `mapstructure:"output_ext" toml:"output_ext"`
	// CacheDir enables the compiled template cache when set.
	CacheDir string `mapstructure:"cache_dir" toml:"cache_dir,omitempty"`
	// CacheKey signs cache entries. Prefer BLADEX_CACHE_KEY over the file.
	CacheKey     string `mapstructure:"cache_key" toml:"cache_key,omitempty"`
	MatchTimeout string `mapstructure:"match_timeout" toml:"match_timeout"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Prefix:       bladex.DefaultPrefix,
		ViewRoot:     "resources/views",
		Views:        []string{"components"},
		Templates:    []string{"resources/views/..."},
		SourceExt:    generator.DefaultSourceExt,
		OutputExt:    generator.DefaultOutputExt,
		MatchTimeout: compiler.DefaultMatchTimeout.String(),
	}
}

// Load reads the configuration. With an empty path, bladex.toml is looked up
// in dirs, or the working directory when no dirs are given; without one the
// defaults apply. An explicit path must exist.
func Load(path string, dirs ...string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("prefix", defaults.Prefix)
	v.SetDefault("view_root", defaults.ViewRoot)
	v.SetDefault("views", defaults.Views)
	v.SetDefault("components", []map[string]any{})
	v.SetDefault("templates", defaults.Templates)
	v.SetDefault("source_ext", defaults.SourceExt)
	v.SetDefault("output_ext", defaults.OutputExt)
	v.SetDefault("cache_dir", "")
	v.SetDefault("cache_key", "")
	v.SetDefault("match_timeout", defaults.MatchTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType(FileExt)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		if len(dirs) == 0 {
			dirs = []string{"."}
		}
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if _, err := c.Timeout(); err != nil {
		return err
	}
	for i, comp := range c.Components {
		if comp.View == "" {
			return fmt.Errorf("config: components[%d]: view is required", i)
		}
	}
	if c.CacheDir != "" && c.CacheKey == "" {
		return fmt.Errorf("config: cache_dir requires cache_key (or %s_CACHE_KEY)", EnvPrefix)
	}
	if c.SourceExt == c.OutputExt {
		return fmt.Errorf("config: source_ext and output_ext must differ (both %q)", c.SourceExt)
	}
	return nil
}

// Timeout returns the parsed match timeout. Empty means the default.
func (c *Config) Timeout() (time.Duration, error) {
	if c.MatchTimeout == "" {
		return compiler.DefaultMatchTimeout, nil
	}
	d, err := time.ParseDuration(c.MatchTimeout)
	if err != nil {
		return 0, fmt.Errorf("config: match_timeout: %w", err)
	}
	return d, nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Write stores cfg at path. It refuses to replace an existing file unless
// force is set.
func Write(path string, cfg Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	data, err := cfg.Encode()
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Registry builds a registry from the configuration. Paths are relative to
// root. Missing view directories are skipped with a warning.
func (c *Config) Registry(root string, logger *log.Logger) (*bladex.Registry, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	timeout, err := c.Timeout()
	if err != nil {
		return nil, err
	}

	opts := []bladex.Option{
		bladex.WithLogger(logger),
		bladex.WithMatchTimeout(timeout),
	}
	if c.CacheDir != "" {
		store, err := bladex.NewDirCache(filepath.Join(root, c.CacheDir), []byte(c.CacheKey), false)
		if err != nil {
			return nil, err
		}
		opts = append(opts, bladex.WithCache(store))
	}

	reg := bladex.NewRegistry(opts...)
	if err := reg.SetPrefix(c.Prefix); err != nil {
		return nil, err
	}

	views := os.DirFS(filepath.Join(root, c.ViewRoot))
	for _, dir := range c.Views {
		dir = filepath.ToSlash(filepath.Clean(dir))
		if _, err := fs.Stat(views, dir); errors.Is(err, fs.ErrNotExist) {
			logger.Warn("view directory not found", "dir", filepath.Join(c.ViewRoot, dir))
			continue
		}
		if err := reg.AddDir(views, dir); err != nil {
			return nil, err
		}
	}

	for _, comp := range c.Components {
		component := bladex.NewComponent(comp.View)
		if comp.Tag != "" {
			component.WithTag(comp.Tag)
		}
		if comp.DataModel != "" {
			component.WithDataModel(comp.DataModel)
		}
		if err := reg.Add(component); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
