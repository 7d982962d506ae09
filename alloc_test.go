package arena

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocWords(t *testing.T) {
	b := NewBuilderArena(WithFirstSegmentWords(8))

	a := AllocWords(b, 3)
	assert.Same(t, b.Segment0(), a.Segment)
	assert.Equal(t, Address(0), a.Addr)
	assert.Equal(t, WordCount(3), a.Words)

	data := a.Bytes()
	require.Len(t, data, 3*BytesPerWord)
	assert.Equal(t, make([]byte, 3*BytesPerWord), data, "fresh words read as zero")

	a2 := AllocWords(b, 2)
	assert.Equal(t, Address(3), a2.Addr)
}

func TestAllocBytes(t *testing.T) {
	sizes := []int{-1, 0, 1, 7, 8, 9, 100}

	for _, size := range sizes {
		t.Run(fmt.Sprintf("size=%d", size), func(t *testing.T) {
			b := NewBuilderArena(WithFirstSegmentWords(64))
			a := AllocBytes(b, size)

			if size <= 0 {
				assert.Equal(t, WordCount(0), a.Words)
				assert.Nil(t, a.Bytes())
				return
			}
			assert.GreaterOrEqual(t, len(a.Bytes()), size)
			assert.Equal(t, 0, len(a.Bytes())%BytesPerWord)
			assert.Less(t, len(a.Bytes())-size, BytesPerWord)
			assert.Equal(t, WordCount(len(a.Bytes())/BytesPerWord), b.Segment0().CurrentSize())
		})
	}
}

func TestCopyBytes(t *testing.T) {
	b := NewBuilderArena(WithFirstSegmentWords(1))
	b.Allocate(1)

	a := CopyBytes(b, []byte("hello, segment"))
	assert.Equal(t, SegmentID(1), a.Segment.ID())
	assert.Equal(t, WordCount(2), a.Words)
	assert.Equal(t, "hello, segment\x00\x00", string(a.Bytes()))

	out := b.SegmentsForOutput()
	assert.Equal(t, a.Bytes(), out[1])
}
