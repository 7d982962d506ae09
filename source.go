package arena

import "fmt"

const (
	// DefaultFirstSegmentWords is the size of segment 0 when none is given (8 KiB).
	DefaultFirstSegmentWords WordCount = 1024
	// MaxSegmentWords is the largest segment HeapSource hands out; larger
	// requests panic with ErrSegmentTooLarge. Pointer offsets are 30-bit
	// signed word counts, so nothing larger is addressable.
	MaxSegmentWords WordCount = 1<<29 - 1
)

// MemorySource supplies the backing memory for build segments. It stands in
// for the message under construction, which owns that memory; segments only
// view it.
type MemorySource interface {
	// NewSegment returns a zeroed buffer of at least minWords words.
	NewSegment(minWords WordCount) []byte
}

// AllocationStrategy decides how large each new segment is.
type AllocationStrategy uint8

const (
	// GrowHeuristically makes every new segment at least as large as all
	// previous segments combined, so the segment count stays logarithmic in
	// the message size.
	GrowHeuristically AllocationStrategy = iota
	// FixedSize makes every segment the first segment's size, or the
	// requested size when that is larger.
	FixedSize
)

func (s AllocationStrategy) String() string {
	if s == FixedSize {
		return "fixed"
	}
	return "grow"
}

// HeapSource is the default MemorySource. It allocates segments on the Go
// heap.
type HeapSource struct {
	strategy AllocationStrategy
	nextSize WordCount
}

// NewHeapSource returns a source whose first segment has firstSegmentWords
// words. If firstSegmentWords is 0, DefaultFirstSegmentWords is used.
func NewHeapSource(firstSegmentWords WordCount, strategy AllocationStrategy) *HeapSource {
	if firstSegmentWords == 0 {
		firstSegmentWords = DefaultFirstSegmentWords
	}
	return &HeapSource{strategy: strategy, nextSize: min(firstSegmentWords, MaxSegmentWords)}
}

// NewSegment implements MemorySource.
func (h *HeapSource) NewSegment(minWords WordCount) []byte {
	if minWords > MaxSegmentWords {
		panic(fmt.Errorf("%w: %d words, max %d", ErrSegmentTooLarge, minWords, MaxSegmentWords))
	}
	size := max(minWords, h.nextSize)
	if h.strategy == GrowHeuristically {
		h.nextSize = WordCount(min(uint64(MaxSegmentWords), uint64(h.nextSize)+uint64(size)))
	}
	return make([]byte, size.Bytes())
}

// NextSize returns the size of the next segment when the request is smaller.
func (h *HeapSource) NextSize() WordCount {
	return h.nextSize
}
