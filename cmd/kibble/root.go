package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ripkitten-co/kibble"
	"github.com/ripkitten-co/kibble/backends/memory"
	"github.com/ripkitten-co/kibble/backends/pebble"
	"github.com/ripkitten-co/kibble/backends/postgres"
	"github.com/ripkitten-co/kibble/codecs"
	"github.com/ripkitten-co/kibble/value"
)

// app carries the state resolved by the root command for its subcommands.
type app struct {
	cfg    config
	logger zerolog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "kibble",
		Short:         "Encode typed values and keep them in byte-level sets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			if err := cfg.applyFlags(cmd.Flags()); err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = newLogger(cmd, cfg.LogLevel)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to a kibble config.toml")
	flags.String("backend", "", "set backend: memory, pebble or postgres")
	flags.String("pebble-dir", "", "pebble database directory")
	flags.String("postgres-url", "", "PostgreSQL connection string")
	flags.String("serializer", "", "structured serializer: json, cbor or msgpack")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newEncodeCommand(a),
		newDecodeCommand(a),
		newSAddCommand(a),
		newSIsMemberCommand(a),
		newSMembersCommand(a),
		newDemoCommand(a),
	)
	return root
}

func newLogger(cmd *cobra.Command, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "kibble").Logger()
}

func (a *app) valueCodec() (*value.Codec, error) {
	s, err := codecs.ByName(a.cfg.Serializer)
	if err != nil {
		return nil, err
	}
	return value.NewCodec(value.WithSerializer(s)), nil
}

func (a *app) openBackend(ctx context.Context) (kibble.Backend, error) {
	switch a.cfg.Backend {
	case "pebble":
		if err := os.MkdirAll(a.cfg.PebbleDir, 0o755); err != nil {
			return nil, fmt.Errorf("create pebble dir: %w", err)
		}
		return pebble.NewBackend(a.cfg.PebbleDir, nil)
	case "postgres":
		return postgres.New(ctx, a.cfg.PostgresURL)
	default:
		return memory.NewBackend(), nil
	}
}

// openStore opens the configured backend and wraps it in a Store. The caller
// closes the store.
func (a *app) openStore(ctx context.Context) (*kibble.Store, error) {
	c, err := a.valueCodec()
	if err != nil {
		return nil, err
	}
	b, err := a.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str("backend", a.cfg.Backend).
		Str("serializer", a.cfg.Serializer).
		Msg("store opened")
	return kibble.New(b, kibble.WithValueCodec(c), kibble.WithLogger(a.logger)), nil
}
