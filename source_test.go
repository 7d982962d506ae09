package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapSource_GrowHeuristically(t *testing.T) {
	h := NewHeapSource(4, GrowHeuristically)

	var sizes []int
	for i := 0; i < 4; i++ {
		seg := h.NewSegment(1)
		sizes = append(sizes, len(seg)/BytesPerWord)
	}
	assert.Equal(t, []int{4, 8, 16, 32}, sizes)
}

func TestHeapSource_FixedSize(t *testing.T) {
	h := NewHeapSource(4, FixedSize)

	assert.Len(t, h.NewSegment(1), 4*BytesPerWord)
	assert.Len(t, h.NewSegment(4), 4*BytesPerWord)
	assert.Len(t, h.NewSegment(9), 9*BytesPerWord, "large requests are honored")
	assert.Equal(t, WordCount(4), h.NextSize())
}

func TestHeapSource_Defaults(t *testing.T) {
	h := NewHeapSource(0, GrowHeuristically)
	assert.Equal(t, DefaultFirstSegmentWords, h.NextSize())
}

func TestHeapSource_LargeRequest(t *testing.T) {
	h := NewHeapSource(2, GrowHeuristically)

	seg := h.NewSegment(10)
	require.Len(t, seg, 10*BytesPerWord)
	assert.Equal(t, WordCount(12), h.NextSize())
}

func TestHeapSource_TooLarge(t *testing.T) {
	for _, strategy := range []AllocationStrategy{GrowHeuristically, FixedSize} {
		t.Run(strategy.String(), func(t *testing.T) {
			h := NewHeapSource(4, strategy)
			err := panicError(t, func() { h.NewSegment(MaxSegmentWords + 1) })
			assert.ErrorIs(t, err, ErrSegmentTooLarge)
			assert.Equal(t, WordCount(4), h.NextSize(), "a refused request does not advance growth")
		})
	}

	b := NewBuilderArena(WithFirstSegmentWords(4))
	err := panicError(t, func() { b.Allocate(MaxSegmentWords + 1) })
	assert.ErrorIs(t, err, ErrSegmentTooLarge)
	assert.Equal(t, 1, b.NumSegments())
}

// panicError runs f and returns the error it panics with.
func panicError(t *testing.T, f func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		var ok bool
		err, ok = r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
	}()
	f()
	return nil
}

func TestAllocationStrategy_String(t *testing.T) {
	assert.Equal(t, "grow", GrowHeuristically.String())
	assert.Equal(t, "fixed", FixedSize.String())
}
