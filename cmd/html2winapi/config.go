package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"html2winapi/cmd/html2winapi/autogen"
	"html2winapi/cmd/html2winapi/sketch"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// appName is the single source of truth for the application name.
// Env var names and the project config file name are derived from it.
const appName = "html2winapi"

const defaultRegistryFile = "winapi_id_registry.yml"

var (
	envPrefix         = strings.ToUpper(appName) + "_"
	envConfig         = envPrefix + "CONFIG"
	defaultConfigFile = "." + appName + ".yml"
)

// Config is the resolved configuration of one invocation.
// Priority: flags > $HTML2WINAPI_* > config file > built-in defaults.
type Config struct {
	Registry           string          `yaml:"registry" env:"REGISTRY"`
	StartMarker        string          `yaml:"start_marker" env:"START_MARKER"`
	EndMarker          string          `yaml:"end_marker" env:"END_MARKER"`
	MaxDepth           int             `yaml:"max_depth" env:"MAX_DEPTH"`
	UniqueFallbackKeys bool            `yaml:"unique_fallback_keys" env:"UNIQUE_FALLBACK_KEYS"`
	Layout             sketch.Defaults `yaml:"layout"`
}

func defaultConfig() Config {
	return Config{
		Registry:    defaultRegistryFile,
		StartMarker: autogen.DefaultStart,
		EndMarker:   autogen.DefaultEnd,
		MaxDepth:    sketch.DefaultMaxDepth,
		Layout:      sketch.DefaultLayout(),
	}
}

// resolveConfigFile returns the config file to read, or "" for none.
// Priority: --config > $HTML2WINAPI_CONFIG > ./.html2winapi.yml when present.
// An explicitly named file must exist; the project file is optional.
func resolveConfigFile(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if v := os.Getenv(envConfig); v != "" {
		return v
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}

// loadConfig layers the config file and the environment over the defaults.
// It returns the config file actually read, if any.
func loadConfig(flagPath string) (Config, string, error) {
	cfg := defaultConfig()
	path := resolveConfigFile(flagPath)
	if path != "" {
		if err := readConfigFile(path, &cfg); err != nil {
			return cfg, path, err
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return cfg, path, fmt.Errorf("parse env: %w", err)
	}
	return cfg, path, nil
}

func readConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *Config, f *flags) {
	set := cmd.Flags().Changed
	if set("registry") {
		cfg.Registry = f.registry
	}
	if set("start-marker") {
		cfg.StartMarker = f.startMarker
	}
	if set("end-marker") {
		cfg.EndMarker = f.endMarker
	}
	if set("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if set("unique-fallback-keys") {
		cfg.UniqueFallbackKeys = f.uniqueFallbackKeys
	}
}

func (c Config) markers() autogen.Markers {
	return autogen.Markers{Start: c.StartMarker, End: c.EndMarker}
}

func (c Config) sketchOptions() sketch.Options {
	return sketch.Options{
		Layout:             c.Layout,
		MaxDepth:           c.MaxDepth,
		UniqueFallbackKeys: c.UniqueFallbackKeys,
	}
}

// validate rejects settings no run can use.
func (c Config) validate() error {
	if c.Registry == "" {
		return errors.New("registry path is empty")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	if err := c.markers().Validate(); err != nil {
		return fmt.Errorf("markers %q / %q: %w", c.StartMarker, c.EndMarker, err)
	}
	return nil
}
