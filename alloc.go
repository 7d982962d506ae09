package arena

// Allocation is a run of freshly committed words.
type Allocation struct {
	Segment *SegmentBuilder
	Addr    Address
	Words   WordCount
}

// Bytes returns a mutable view of the allocated words.
func (a Allocation) Bytes() []byte {
	if a.Words == 0 {
		return nil
	}
	return a.Segment.Bytes(a.Addr, a.Words)
}

// AllocWords allocates n words in b.
// Segment memory starts zeroed and is never reused, so the words read as zero.
func AllocWords(b *BuilderArena, n WordCount) Allocation {
	seg, addr := b.Allocate(n)
	return Allocation{Segment: seg, Addr: addr, Words: n}
}

// AllocBytes allocates enough whole words in b to hold n bytes. The view
// returned by Bytes covers the rounded-up size. Returns a zero-word
// allocation if n <= 0.
func AllocBytes(b *BuilderArena, n int) Allocation {
	return AllocWords(b, WordsForBytes(n))
}

// CopyBytes allocates room for data in b and copies it in.
func CopyBytes(b *BuilderArena, data []byte) Allocation {
	a := AllocBytes(b, len(data))
	copy(a.Bytes(), data)
	return a
}
