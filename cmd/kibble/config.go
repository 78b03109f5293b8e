package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/ripkitten-co/kibble/codecs"
)

// kibble config.toml key mapping to runtime settings.
type fileConfig struct {
	Backend     string `toml:"backend"`
	PebbleDir   string `toml:"pebble_dir"`
	PostgresURL string `toml:"postgres_url"`
	Serializer  string `toml:"serializer"`
	LogLevel    string `toml:"log_level"`
}

type config struct {
	Backend     string
	PebbleDir   string
	PostgresURL string
	Serializer  string
	LogLevel    zerolog.Level
}

func defaultConfig() config {
	return config{
		Backend:    "memory",
		PebbleDir:  "kibble.db",
		Serializer: "json",
		LogLevel:   zerolog.WarnLevel,
	}
}

// loadConfig overlays the keys present in path onto the defaults. An empty
// path yields the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load kibble config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load kibble config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("backend") {
		cfg.Backend = strings.TrimSpace(raw.Backend)
	}
	if meta.IsDefined("pebble_dir") {
		cfg.PebbleDir = strings.TrimSpace(raw.PebbleDir)
	}
	if meta.IsDefined("postgres_url") {
		cfg.PostgresURL = strings.TrimSpace(raw.PostgresURL)
	}
	if meta.IsDefined("serializer") {
		cfg.Serializer = strings.TrimSpace(raw.Serializer)
	}
	if meta.IsDefined("log_level") {
		lvl, err := parseLevel(raw.LogLevel)
		if err != nil {
			return config{}, fmt.Errorf("load kibble config: log_level: %w", err)
		}
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// applyFlags lets explicitly set command-line flags win over the file.
func (c *config) applyFlags(flags *pflag.FlagSet) error {
	overrides := map[string]*string{
		"backend":      &c.Backend,
		"pebble-dir":   &c.PebbleDir,
		"postgres-url": &c.PostgresURL,
		"serializer":   &c.Serializer,
	}
	for name, dst := range overrides {
		if flags.Changed(name) {
			v, err := flags.GetString(name)
			if err != nil {
				return err
			}
			*dst = v
		}
	}
	if flags.Changed("log-level") {
		s, err := flags.GetString("log-level")
		if err != nil {
			return err
		}
		lvl, err := parseLevel(s)
		if err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		c.LogLevel = lvl
	}
	return c.validate()
}

// parseLevel is zerolog.ParseLevel without the empty string, which zerolog
// maps to NoLevel.
func parseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return zerolog.NoLevel, fmt.Errorf("empty log level (expected debug, info, warn or error)")
	}
	return zerolog.ParseLevel(s)
}

func (c *config) validate() error {
	switch c.Backend {
	case "memory":
	case "pebble":
		if c.PebbleDir == "" {
			return fmt.Errorf("backend pebble requires pebble_dir")
		}
	case "postgres":
		if c.PostgresURL == "" {
			return fmt.Errorf("backend postgres requires postgres_url")
		}
	default:
		return fmt.Errorf("unsupported backend %q (expected memory, pebble or postgres)", c.Backend)
	}
	if _, err := codecs.ByName(c.Serializer); err != nil {
		return err
	}
	return nil
}
