// Package framing writes builder arenas to byte streams and turns received
// bytes back into reader arenas.
//
// A framed message starts with a segment table: the segment count minus one
// as a little-endian uint32, then each segment's size in words as a uint32,
// padded with zeros to a word boundary. The segments follow in ID order.
// Only committed words are written.
//
// Decoding is zero-copy: the segments of the returned ReaderArena are
// subslices of the decoded buffer.
package framing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	arena "github.com/pavanmanishd/msgarena"
)

var (
	// ErrTruncated is returned when input ends before the message does.
	ErrTruncated = errors.New("framing: message truncated")
	// ErrTooManySegments is returned when the segment table exceeds the
	// configured segment limit.
	ErrTooManySegments = errors.New("framing: too many segments")
	// ErrMessageTooLarge is returned when the segments exceed the configured
	// size limit.
	ErrMessageTooLarge = errors.New("framing: message too large")
	// ErrTrailingData is returned when bytes follow the last segment.
	ErrTrailingData = errors.New("framing: trailing data after message")
	// ErrNoSegments is returned when encoding a message without segments.
	ErrNoSegments = errors.New("framing: message has no segments")
	// ErrUnalignedSegment is returned when a segment is not whole words.
	ErrUnalignedSegment = errors.New("framing: segment is not a whole number of words")
	// ErrUnknownCompression is returned for an unsupported CompressionType.
	ErrUnknownCompression = errors.New("framing: unknown compression type")
	// ErrCorruptBlock is returned when a compressed block cannot be expanded.
	ErrCorruptBlock = errors.New("framing: corrupt compressed block")
)

// Message is anything that can list its committed segments, such as
// *arena.BuilderArena.
type Message interface {
	SegmentsForOutput() [][]byte
}

// headerSize returns the size in bytes of the segment table for count
// segments.
func headerSize(count int) int {
	return (count/2 + 1) * arena.BytesPerWord
}

// Marshal frames the committed segments of m.
func Marshal(m Message) ([]byte, error) {
	segs := m.SegmentsForOutput()
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}
	if uint64(len(segs)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d", ErrTooManySegments, len(segs))
	}

	size := headerSize(len(segs))
	for i, seg := range segs {
		if len(seg)%arena.BytesPerWord != 0 {
			return nil, fmt.Errorf("%w: segment %d has %d bytes", ErrUnalignedSegment, i, len(seg))
		}
		if uint64(len(seg)/arena.BytesPerWord) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: segment %d", ErrMessageTooLarge, i)
		}
		size += len(seg)
	}

	buf := make([]byte, headerSize(len(segs)), size)
	binary.LittleEndian.PutUint32(buf[0:], uint32(len(segs)-1))
	for i, seg := range segs {
		binary.LittleEndian.PutUint32(buf[4+4*i:], uint32(len(seg)/arena.BytesPerWord))
	}
	for _, seg := range segs {
		buf = append(buf, seg...)
	}
	return buf, nil
}

// Unmarshal decodes one framed message that fills buf exactly. With
// WithCompression, buf must hold one compressed block. The returned arena
// aliases buf unless the block had to be decompressed.
func Unmarshal(buf []byte, opts ...Option) (*arena.ReaderArena, error) {
	o := applyOptions(opts)
	r, err := unmarshal(buf, o)
	if err != nil {
		o.logger.Debug("rejected message", "bytes", len(buf), "error", err)
		return nil, err
	}
	return r, nil
}

func unmarshal(buf []byte, o options) (*arena.ReaderArena, error) {
	if o.compression != CompressionNone {
		if len(buf) < blockHeaderSize {
			return nil, ErrTruncated
		}
		size := binary.LittleEndian.Uint32(buf[0:])
		csize := binary.LittleEndian.Uint32(buf[4:])
		payload, err := expandBlock(buf[blockHeaderSize:], size, csize, o)
		if err != nil {
			return nil, err
		}
		buf = payload
	}

	t, err := parseTable(buf, o)
	if err != nil {
		return nil, err
	}
	body := buf[t.headerLen:]
	want := t.totalWords * arena.BytesPerWord
	switch {
	case uint64(len(body)) < want:
		return nil, fmt.Errorf("%w: have %d segment bytes, want %d", ErrTruncated, len(body), want)
	case uint64(len(body)) > want:
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, uint64(len(body))-want)
	}
	return t.split(body), nil
}

// expandBlock returns the message bytes held in a block payload. payload
// may be longer than the block; the rest must be empty.
func expandBlock(payload []byte, size, csize uint32, o options) ([]byte, error) {
	if uint64(size) > maxFramedBytes(o) {
		return nil, fmt.Errorf("%w: block expands to %d bytes", ErrMessageTooLarge, size)
	}
	n := csize
	if n == 0 {
		n = size
	}
	switch {
	case uint64(len(payload)) < uint64(n):
		return nil, fmt.Errorf("%w: block has %d of %d bytes", ErrTruncated, len(payload), n)
	case uint64(len(payload)) > uint64(n):
		return nil, fmt.Errorf("%w: %d bytes after block", ErrTrailingData, uint64(len(payload))-uint64(n))
	}
	if csize == 0 {
		return payload, nil
	}
	return decompressBlock(payload, size, o)
}

// maxFramedBytes is the largest framed message the options accept.
func maxFramedBytes(o options) uint64 {
	return uint64(headerSize(o.maxSegments)) + o.maxMessageWords*arena.BytesPerWord
}

type segmentTable struct {
	sizes      []arena.WordCount
	headerLen  int
	totalWords uint64
}

// parseTable reads the segment table at the start of buf. buf may end right
// after the table.
func parseTable(buf []byte, o options) (segmentTable, error) {
	if len(buf) < 4 {
		return segmentTable{}, fmt.Errorf("%w: no segment count", ErrTruncated)
	}
	count := uint64(binary.LittleEndian.Uint32(buf)) + 1
	if count > uint64(o.maxSegments) {
		return segmentTable{}, fmt.Errorf("%w: %d > %d", ErrTooManySegments, count, o.maxSegments)
	}

	t := segmentTable{
		sizes:     make([]arena.WordCount, count),
		headerLen: headerSize(int(count)),
	}
	if len(buf) < t.headerLen {
		return segmentTable{}, fmt.Errorf("%w: segment table needs %d bytes, have %d", ErrTruncated, t.headerLen, len(buf))
	}
	for i := range t.sizes {
		t.sizes[i] = arena.WordCount(binary.LittleEndian.Uint32(buf[4+4*i:]))
		t.totalWords += uint64(t.sizes[i])
	}
	if t.totalWords > o.maxMessageWords {
		return segmentTable{}, fmt.Errorf("%w: %d words > %d", ErrMessageTooLarge, t.totalWords, o.maxMessageWords)
	}
	return t, nil
}

// split cuts body into the table's segments. body must hold exactly
// totalWords words.
func (t segmentTable) split(body []byte) *arena.ReaderArena {
	segs := make([][]byte, len(t.sizes))
	off := 0
	for i, n := range t.sizes {
		end := off + n.Bytes()
		segs[i] = body[off:end:end]
		off = end
	}
	return arena.NewReaderArena(segs...)
}
