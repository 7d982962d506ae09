package framing

import "log/slog"

const (
	// DefaultMaxSegments is the default limit on segments per message.
	DefaultMaxSegments = 512
	// DefaultMaxMessageWords is the default limit on the combined segment
	// size of one message (64 MiB). A Decoder grows its buffer as the body
	// arrives rather than reserving the announced size.
	DefaultMaxMessageWords = 8 * 1024 * 1024
)

type options struct {
	compression     CompressionType
	maxSegments     int
	maxMessageWords uint64
	logger          *slog.Logger
}

func defaultOptions() options {
	return options{
		compression:     CompressionNone,
		maxSegments:     DefaultMaxSegments,
		maxMessageWords: DefaultMaxMessageWords,
		logger:          slog.New(slog.DiscardHandler),
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures encoding and decoding.
type Option func(*options)

// WithCompression wraps each framed message in a compressed block. Both
// ends of a stream must use the same compression type.
func WithCompression(c CompressionType) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMaxSegments limits how many segments a decoded message may have.
// Values below 1 keep the default.
func WithMaxSegments(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSegments = n
		}
	}
}

// WithMaxMessageWords limits the combined size of a decoded message's
// segments. Zero keeps the default.
func WithMaxMessageWords(n uint64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxMessageWords = n
		}
	}
}

// WithLogger sets the logger used to report rejected messages.
// If nil is passed, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.logger = l
	}
}
