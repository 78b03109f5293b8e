package kibble

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ripkitten-co/kibble/value"
)

// Store is the main entry point for kibble. It pairs a byte-level set
// Backend with the value codec used to turn typed members into bytes.
type Store struct {
	be     Backend
	codec  *value.Codec
	logger zerolog.Logger
}

// New returns a Store over b configured by opts.
func New(b Backend, opts ...Option) *Store {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}

	c := cfg.values
	if c == nil {
		c = value.NewCodec(value.WithSerializer(cfg.codec))
	}
	return &Store{
		be:     b,
		codec:  c,
		logger: cfg.logger,
	}
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	if err := s.be.Close(); err != nil {
		return fmt.Errorf("kibble: close: %w", err)
	}
	return nil
}

// Codec returns the value codec members are encoded with.
func (s *Store) Codec() *value.Codec { return s.codec }

// Backend returns the underlying set backend.
func (s *Store) Backend() Backend { return s.be }
