package kibble

import (
	"github.com/rs/zerolog"

	"github.com/ripkitten-co/kibble/codecs"
	"github.com/ripkitten-co/kibble/value"
)

type Option func(*storeConfig)

type storeConfig struct {
	codec  codecs.Codec
	values *value.Codec
	logger zerolog.Logger
}

func defaultConfig() *storeConfig {
	return &storeConfig{
		codec:  codecs.NewJSONIter(),
		logger: zerolog.Nop(),
	}
}

// WithCodec sets the serializer used for structured members.
func WithCodec(c codecs.Codec) Option {
	return func(cfg *storeConfig) {
		cfg.codec = c
	}
}

// WithValueCodec supplies a fully configured value codec. It takes
// precedence over WithCodec.
func WithValueCodec(c *value.Codec) Option {
	return func(cfg *storeConfig) {
		cfg.values = c
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(cfg *storeConfig) {
		cfg.logger = l
	}
}
