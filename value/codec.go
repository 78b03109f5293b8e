package value

import "github.com/ripkitten-co/kibble/codecs"

// TimestampLayout is the Go layout of the timestamp wire form,
// yyyy-MM-ddTHH:mm:ss.fffffff.
const TimestampLayout = "2006-01-02T15:04:05.0000000"

var nullSentinel = []byte{0x00}

// NullSentinel returns a copy of the byte sequence reserved for Null.
func NullSentinel() []byte {
	return []byte{0x00}
}

type Option func(*codecConfig)

type codecConfig struct {
	serializer codecs.Codec
}

func defaultConfig() *codecConfig {
	return &codecConfig{
		serializer: codecs.NewJSONIter(),
	}
}

// WithSerializer sets the structured serializer used for values that are not
// scalars. The default is codecs.NewJSONIter().
func WithSerializer(c codecs.Codec) Option {
	return func(cfg *codecConfig) {
		if c != nil {
			cfg.serializer = c
		}
	}
}

// Codec converts Values to and from their byte form. A Codec is immutable
// once constructed and safe for concurrent use.
type Codec struct {
	serializer codecs.Codec
}

// NewCodec returns a Codec configured with opts.
func NewCodec(opts ...Option) *Codec {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	return &Codec{serializer: cfg.serializer}
}

// Serializer returns the structured serializer the codec delegates to.
func (c *Codec) Serializer() codecs.Codec { return c.serializer }
