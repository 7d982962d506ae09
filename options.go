package arena

import "log/slog"

// MaxSegments is the default limit on segments per builder arena.
const MaxSegments = 1 << 16

type options struct {
	firstSegmentWords WordCount
	firstSegment      []byte
	strategy          AllocationStrategy
	maxSegments       int
	source            MemorySource
	logger            *slog.Logger
}

func defaultOptions() options {
	return options{
		firstSegmentWords: DefaultFirstSegmentWords,
		strategy:          GrowHeuristically,
		maxSegments:       MaxSegments,
		logger:            slog.New(slog.DiscardHandler),
	}
}

// Option configures a BuilderArena.
type Option func(*options)

// WithFirstSegmentWords sets the size of segment 0. Zero keeps the default.
func WithFirstSegmentWords(n WordCount) Option {
	return func(o *options) {
		if n > 0 {
			o.firstSegmentWords = n
		}
	}
}

// WithFirstSegment uses buf as segment 0 instead of allocating one. buf is
// truncated to whole words and zeroed. The caller must keep buf alive and
// untouched for the life of the arena.
func WithFirstSegment(buf []byte) Option {
	return func(o *options) {
		o.firstSegment = buf
	}
}

// WithAllocationStrategy sets how the default HeapSource sizes new
// segments. It has no effect together with WithMemorySource.
func WithAllocationStrategy(s AllocationStrategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithMaxSegments limits how many segments the arena may hold.
// Values below 1 keep the default.
func WithMaxSegments(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSegments = n
		}
	}
}

// WithMemorySource replaces the default HeapSource.
func WithMemorySource(src MemorySource) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithLogger sets the logger used to report arena growth.
// If nil is passed, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.logger = l
	}
}
