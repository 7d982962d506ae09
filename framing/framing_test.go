package framing

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	arena "github.com/pavanmanishd/msgarena"
)

type segmentList [][]byte

func (s segmentList) SegmentsForOutput() [][]byte { return s }

func words(vals ...uint64) []byte {
	buf := make([]byte, len(vals)*arena.BytesPerWord)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*arena.BytesPerWord:], v)
	}
	return buf
}

// buildMessage returns an arena with segments of 3 and 5 words, each filled.
func buildMessage(t *testing.T) *arena.BuilderArena {
	t.Helper()
	b := arena.NewBuilderArena(arena.WithFirstSegmentWords(3), arena.WithAllocationStrategy(arena.FixedSize))

	a := arena.AllocWords(b, 3)
	for i := arena.Address(0); i < 3; i++ {
		a.Segment.SetWord(a.Addr+i, uint64(i+1))
	}
	a = arena.AllocWords(b, 5)
	require.Equal(t, arena.SegmentID(1), a.Segment.ID())
	for i := arena.Address(0); i < 5; i++ {
		a.Segment.SetWord(a.Addr+i, uint64(100+i))
	}
	return b
}

func TestHeaderSize(t *testing.T) {
	tests := []struct {
		count, want int
	}{
		{1, 8},
		{2, 16},
		{3, 16},
		{4, 24},
		{5, 24},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, headerSize(tt.count), "count=%d", tt.count)
	}
}

func TestMarshal(t *testing.T) {
	b := buildMessage(t)

	buf, err := Marshal(b)
	require.NoError(t, err)

	want := []byte{
		1, 0, 0, 0, // two segments
		3, 0, 0, 0,
		5, 0, 0, 0,
		0, 0, 0, 0, // padding
	}
	want = append(want, words(1, 2, 3)...)
	want = append(want, words(100, 101, 102, 103, 104)...)
	assert.Equal(t, want, buf)
}

func TestMarshal_OnlyCommittedWords(t *testing.T) {
	b := arena.NewBuilderArena(arena.WithFirstSegmentWords(64))
	b.Allocate(2)

	buf, err := Marshal(b)
	require.NoError(t, err)
	assert.Len(t, buf, 8+2*arena.BytesPerWord)
}

func TestMarshal_Errors(t *testing.T) {
	_, err := Marshal(segmentList{})
	assert.ErrorIs(t, err, ErrNoSegments)

	_, err = Marshal(segmentList{make([]byte, 12)})
	assert.ErrorIs(t, err, ErrUnalignedSegment)
}

func TestUnmarshal_RoundTrip(t *testing.T) {
	b := buildMessage(t)
	buf, err := Marshal(b)
	require.NoError(t, err)

	r, err := Unmarshal(buf)
	require.NoError(t, err)
	require.Equal(t, 2, r.NumSegments())
	assert.Equal(t, arena.WordCount(3), r.Resolve(0).Len())
	assert.Equal(t, arena.WordCount(5), r.Resolve(1).Len())
	assert.Equal(t, b.SegmentsForOutput()[0], r.Resolve(0).Data())
	assert.Equal(t, b.SegmentsForOutput()[1], r.Resolve(1).Data())

	// zero-copy: segment 1 aliases the input
	buf[len(buf)-1] = 0xee
	assert.Equal(t, byte(0xee), r.Resolve(1).Data()[4*arena.BytesPerWord+7])
}

func TestUnmarshal_EmptySegment(t *testing.T) {
	buf, err := Marshal(arena.NewBuilderArena())
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 8), buf)

	r, err := Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, arena.WordCount(0), r.Segment0().Len())
}

func TestUnmarshal_Rejects(t *testing.T) {
	valid, err := Marshal(buildMessage(t))
	require.NoError(t, err)

	tooMany := make([]byte, 8)
	binary.LittleEndian.PutUint32(tooMany, 1000)

	huge := make([]byte, 8)
	binary.LittleEndian.PutUint32(huge[4:], 0xffffffff)

	maxCount := make([]byte, 8)
	binary.LittleEndian.PutUint32(maxCount, 0xffffffff)

	tests := []struct {
		name string
		buf  []byte
		opts []Option
		err  error
	}{
		{"empty", nil, nil, ErrTruncated},
		{"short count", []byte{0, 0}, nil, ErrTruncated},
		{"short table", valid[:12], nil, ErrTruncated},
		{"short body", valid[:len(valid)-8], nil, ErrTruncated},
		{"short by one byte", valid[:len(valid)-1], nil, ErrTruncated},
		{"trailing data", append(bytes.Clone(valid), 0), nil, ErrTrailingData},
		{"too many segments", tooMany, nil, ErrTooManySegments},
		{"max segment count", maxCount, nil, ErrTooManySegments},
		{"segment limit option", valid, []Option{WithMaxSegments(1)}, ErrTooManySegments},
		{"too large", huge, nil, ErrMessageTooLarge},
		{"size limit option", valid, []Option{WithMaxMessageWords(7)}, ErrMessageTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Unmarshal(tt.buf, tt.opts...)
			assert.Nil(t, r)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

// Segment references found in a decoded message are checked, not trusted.
func TestUnmarshal_UntrustedReferences(t *testing.T) {
	buf, err := Marshal(buildMessage(t))
	require.NoError(t, err)
	r, err := Unmarshal(buf)
	require.NoError(t, err)

	_, err = r.Lookup(2)
	assert.ErrorIs(t, err, arena.ErrSegmentNotFound)

	seg := r.Resolve(1)
	assert.True(t, seg.ContainsInterval(0, 5))
	assert.False(t, seg.ContainsInterval(3, 6))
	assert.False(t, seg.ContainsInterval(-1, 2))
}
