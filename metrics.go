package arena

// SizeInUse returns the number of committed words across all segments.
func (b *BuilderArena) SizeInUse() uint64 {
	sum := uint64(b.segment0.CurrentSize())
	for _, seg := range b.moreSegments {
		sum += uint64(seg.CurrentSize())
	}
	return sum
}

// NumSegments returns the number of segments, counting segment 0.
func (b *BuilderArena) NumSegments() int {
	return 1 + len(b.moreSegments)
}

// Capacity returns the total length in words of all segments.
func (b *BuilderArena) Capacity() uint64 {
	sum := uint64(b.segment0.Len())
	for _, seg := range b.moreSegments {
		sum += uint64(seg.Len())
	}
	return sum
}

// Utilization returns the ratio of committed words to capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (b *BuilderArena) Utilization() float64 {
	capacity := b.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(b.SizeInUse()) / float64(capacity)
}

// Metrics returns a snapshot of arena statistics.
func (b *BuilderArena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		WordsInUse:  b.SizeInUse(),
		Capacity:    b.Capacity(),
		NumSegments: b.NumSegments(),
		Utilization: b.Utilization(),
	}
}

// ArenaMetrics contains statistical information about a builder arena.
type ArenaMetrics struct {
	WordsInUse  uint64  // Words committed
	Capacity    uint64  // Total words across segments
	NumSegments int     // Number of segments
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}

// BytesInUse returns WordsInUse in bytes.
func (m ArenaMetrics) BytesInUse() uint64 {
	return m.WordsInUse * BytesPerWord
}
