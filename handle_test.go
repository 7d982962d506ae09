package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_Empty(t *testing.T) {
	var h Handle

	assert.True(t, h.IsEmpty())
	assert.Equal(t, HandleEmpty, h.Kind())
	assert.Equal(t, "empty", h.Kind().String())

	assert.PanicsWithValue(t, ErrEmptyHandle, func() { h.Resolve(0) })
	assert.PanicsWithValue(t, ErrEmptyHandle, func() { _, _ = h.Lookup(0) })
	assert.PanicsWithValue(t, ErrEmptyHandle, func() { h.Reader() })
	assert.PanicsWithValue(t, ErrEmptyHandle, func() { h.Builder() })
}

func TestHandle_Reader(t *testing.T) {
	r := NewReaderArena(wordsOf(1), wordsOf(2))
	h := ReaderHandle(r)

	assert.Equal(t, HandleReader, h.Kind())
	assert.Equal(t, "reader", h.Kind().String())
	assert.Same(t, r.Resolve(1), h.Resolve(1))
	assert.PanicsWithValue(t, ErrWrongArenaKind, func() { h.Builder() })

	seg, err := h.Lookup(0)
	require.NoError(t, err)
	assert.Same(t, r.Segment0(), seg)

	_, err = h.Lookup(2)
	assert.ErrorIs(t, err, ErrSegmentNotFound)
}

func TestHandle_Builder(t *testing.T) {
	b := NewBuilderArena(WithFirstSegmentWords(1))
	b.Allocate(1)
	seg1, _ := b.Allocate(1)
	h := BuilderHandle(b)

	assert.Equal(t, HandleBuilder, h.Kind())
	assert.Equal(t, "builder", h.Kind().String())
	assert.Same(t, &seg1.SegmentReader, h.Resolve(1))
	assert.Same(t, b, h.Builder())
	assert.PanicsWithValue(t, ErrWrongArenaKind, func() { h.Reader() })

	_, err := h.Lookup(5)
	assert.ErrorIs(t, err, ErrSegmentNotFound)
	assert.Panics(t, func() { h.Resolve(5) })
}

// The same lookup code serves both modes.
func TestHandle_UniformResolution(t *testing.T) {
	b := NewBuilderArena(WithFirstSegmentWords(2))
	a := AllocWords(b, 2)
	a.Segment.SetWord(a.Addr+1, 77)

	followRef := func(from *SegmentReader, id SegmentID, addr Address) (uint64, bool) {
		return from.Arena().Resolve(id).Word(addr)
	}

	v, ok := followRef(&b.Segment0().SegmentReader, 0, 1)
	require.True(t, ok)
	assert.Equal(t, uint64(77), v)

	r := NewReaderArena(b.SegmentsForOutput()...)
	v, ok = followRef(r.Segment0(), 0, 1)
	require.True(t, ok)
	assert.Equal(t, uint64(77), v)
}
