package arena

import "encoding/binary"

// BytesPerWord is the size of a word, the unit of every size and offset.
const BytesPerWord = 8

// WordCount is a size measured in words.
type WordCount uint32

// Bytes returns the size in bytes.
func (n WordCount) Bytes() int {
	return int(n) * BytesPerWord
}

// WordsForBytes returns the number of whole words needed to hold n bytes.
func WordsForBytes(n int) WordCount {
	if n <= 0 {
		return 0
	}
	return WordCount((n + BytesPerWord - 1) / BytesPerWord)
}

// SegmentID identifies a segment within one message. IDs are dense and
// start at 0.
type SegmentID uint32

// Address is a word index relative to the start of the segment it belongs
// to. Addresses derived from signed pointer offsets can fall outside the
// segment, so they are signed and must be checked with ContainsInterval
// before use.
type Address int

// SegmentReader is an immutable, bounds-checked view over a run of words.
type SegmentReader struct {
	arena Handle
	data  []byte
}

// NewSegmentReader wraps data, truncated to whole words, as a segment owned
// by arena. The returned segment aliases data.
func NewSegmentReader(arena Handle, data []byte) SegmentReader {
	n := len(data) - len(data)%BytesPerWord
	return SegmentReader{arena: arena, data: data[:n:n]}
}

// Start returns the address of the first word.
func (s *SegmentReader) Start() Address {
	return 0
}

// Len returns the length of the segment in words.
func (s *SegmentReader) Len() WordCount {
	return WordCount(len(s.data) / BytesPerWord)
}

// Arena returns the handle of the arena that owns the segment.
func (s *SegmentReader) Arena() Handle {
	return s.arena
}

// ContainsInterval reports whether [from, to) lies entirely within the
// segment. Every dereference of data that came from outside must pass this
// check first.
func (s *SegmentReader) ContainsInterval(from, to Address) bool {
	return from >= 0 && from <= to && to <= Address(s.Len())
}

// Word returns the word at addr.
func (s *SegmentReader) Word(addr Address) (uint64, bool) {
	if !s.ContainsInterval(addr, addr+1) {
		return 0, false
	}
	off := int(addr) * BytesPerWord
	return binary.LittleEndian.Uint64(s.data[off:]), true
}

// Slice returns the bytes of the words in [from, to) without copying.
func (s *SegmentReader) Slice(from, to Address) ([]byte, bool) {
	if !s.ContainsInterval(from, to) {
		return nil, false
	}
	lo, hi := int(from)*BytesPerWord, int(to)*BytesPerWord
	return s.data[lo:hi:hi], true
}

// Data returns the full backing bytes of the segment.
func (s *SegmentReader) Data() []byte {
	return s.data
}

// SegmentBuilder is a segment under construction. Words in [0, cursor) are
// committed. The cursor only ever moves forward and never passes the end of
// the segment.
type SegmentBuilder struct {
	SegmentReader
	id     SegmentID
	cursor Address
}

func newSegmentBuilder(b *BuilderArena, id SegmentID, data []byte) SegmentBuilder {
	return SegmentBuilder{
		SegmentReader: NewSegmentReader(BuilderHandle(b), data),
		id:            id,
	}
}

// ID returns the segment identifier.
func (s *SegmentBuilder) ID() SegmentID {
	return s.id
}

// CurrentSize returns the number of committed words.
func (s *SegmentBuilder) CurrentSize() WordCount {
	return WordCount(s.cursor)
}

// Available returns the number of words that can still be allocated.
func (s *SegmentBuilder) Available() WordCount {
	return s.Len() - s.CurrentSize()
}

// Allocate reserves amount words and returns the address of the first one.
// It returns false, leaving the segment untouched, when the segment does not
// have room; the owning arena then moves on to another segment.
func (s *SegmentBuilder) Allocate(amount WordCount) (Address, bool) {
	if amount > s.Available() {
		return 0, false
	}
	addr := s.cursor
	s.cursor += Address(amount)
	return addr, true
}

// WordOffsetTo returns the distance in words from the start of the segment
// to ptr. A negative ptr means the caller attributed an address to the
// wrong segment and panics with an *AddressError.
func (s *SegmentBuilder) WordOffsetTo(ptr Address) WordCount {
	if ptr < 0 {
		panic(&AddressError{Segment: s.id, Addr: ptr, Len: s.Len()})
	}
	return WordCount(ptr)
}

// BuilderArena returns the arena that owns the segment.
func (s *SegmentBuilder) BuilderArena() *BuilderArena {
	return s.arena.Builder()
}

// SetWord stores v at addr, which must be committed.
func (s *SegmentBuilder) SetWord(addr Address, v uint64) {
	if addr < 0 || addr >= s.cursor {
		panic(&AddressError{Segment: s.id, Addr: addr, Len: s.CurrentSize()})
	}
	binary.LittleEndian.PutUint64(s.data[int(addr)*BytesPerWord:], v)
}

// Bytes returns a mutable view of n committed words starting at addr.
func (s *SegmentBuilder) Bytes(addr Address, n WordCount) []byte {
	end := addr + Address(n)
	switch {
	case addr < 0:
		panic(&AddressError{Segment: s.id, Addr: addr, Len: s.CurrentSize()})
	case end > s.cursor:
		panic(&AddressError{Segment: s.id, Addr: end, Len: s.CurrentSize()})
	}
	lo, hi := int(addr)*BytesPerWord, int(end)*BytesPerWord
	return s.data[lo:hi:hi]
}

// Committed returns the bytes of all committed words.
func (s *SegmentBuilder) Committed() []byte {
	n := int(s.cursor) * BytesPerWord
	return s.data[:n:n]
}
