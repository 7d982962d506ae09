package arena

import (
	"fmt"
	"log/slog"
)

// BuilderArena owns the segments of a message under construction. It grows
// by appending segments and never moves or resizes an existing one, so every
// address it has handed out stays valid for the life of the arena.
//
// A BuilderArena is not safe for concurrent use.
type BuilderArena struct {
	source       MemorySource
	segment0     SegmentBuilder
	moreSegments []*SegmentBuilder
	maxSegments  int
	logger       *slog.Logger
}

// NewBuilderArena creates a builder arena with one empty segment.
func NewBuilderArena(opts ...Option) *BuilderArena {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.source == nil {
		o.source = NewHeapSource(o.firstSegmentWords, o.strategy)
	}

	b := &BuilderArena{
		source:      o.source,
		maxSegments: o.maxSegments,
		logger:      o.logger,
	}

	first := o.firstSegment
	if first != nil {
		clear(first)
	} else {
		first = o.source.NewSegment(o.firstSegmentWords)
	}
	b.segment0 = newSegmentBuilder(b, 0, first)
	return b
}

// Allocate reserves amount words and returns the segment holding them and
// the address of the first word. Segments are tried in ID order and the
// first with room wins. If none has room, a new segment of at least amount
// words is appended.
func (b *BuilderArena) Allocate(amount WordCount) (*SegmentBuilder, Address) {
	if addr, ok := b.segment0.Allocate(amount); ok {
		return &b.segment0, addr
	}
	for _, seg := range b.moreSegments {
		if addr, ok := seg.Allocate(amount); ok {
			return seg, addr
		}
	}

	seg := b.grow(amount)
	addr, ok := seg.Allocate(amount)
	if !ok {
		panic(fmt.Errorf("arena: memory source returned a %d-word segment for a %d-word request", seg.Len(), amount))
	}
	return seg, addr
}

// grow appends a new segment of at least amount words.
func (b *BuilderArena) grow(amount WordCount) *SegmentBuilder {
	n := b.NumSegments()
	if n >= b.maxSegments {
		panic(ErrTooManySegments)
	}

	id := SegmentID(n)
	seg := &SegmentBuilder{}
	*seg = newSegmentBuilder(b, id, b.source.NewSegment(amount))
	b.moreSegments = append(b.moreSegments, seg)

	b.logger.Debug("arena grew",
		"segment_id", id,
		"words", seg.Len(),
		"requested", amount,
	)
	return seg
}

// Resolve returns build segment id. An unknown id is a caller bug and panics
// with a *SegmentIDError.
func (b *BuilderArena) Resolve(id SegmentID) *SegmentBuilder {
	seg, err := b.Lookup(id)
	if err != nil {
		panic(err)
	}
	return seg
}

// Lookup returns build segment id, or a *SegmentIDError if there is none.
func (b *BuilderArena) Lookup(id SegmentID) (*SegmentBuilder, error) {
	if id == 0 {
		return &b.segment0, nil
	}
	if int64(id)-1 >= int64(len(b.moreSegments)) {
		return nil, &SegmentIDError{ID: id, Segments: b.NumSegments()}
	}
	return b.moreSegments[id-1], nil
}

// Segment0 returns the first segment.
func (b *BuilderArena) Segment0() *SegmentBuilder {
	return &b.segment0
}

// SegmentsForOutput returns the committed bytes of each segment in ID order.
// Unused capacity at the end of a segment is never included. The slices
// alias arena memory.
func (b *BuilderArena) SegmentsForOutput() [][]byte {
	out := make([][]byte, 0, b.NumSegments())
	out = append(out, b.segment0.Committed())
	for _, seg := range b.moreSegments {
		out = append(out, seg.Committed())
	}
	return out
}
