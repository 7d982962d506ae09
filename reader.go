package arena

// ReaderArena holds the segments of one received message. It is immutable
// once built, so concurrent readers need no locking.
type ReaderArena struct {
	segment0     SegmentReader
	moreSegments []SegmentReader
}

// NewReaderArena builds a read arena over segs, one byte slice per segment
// in ID order. Segments alias the given slices; nothing is copied. Each
// slice is truncated to whole words. With no segments, segment 0 is empty.
func NewReaderArena(segs ...[]byte) *ReaderArena {
	r := &ReaderArena{}
	h := ReaderHandle(r)
	if len(segs) == 0 {
		r.segment0 = NewSegmentReader(h, nil)
		return r
	}
	r.segment0 = NewSegmentReader(h, segs[0])
	if len(segs) > 1 {
		r.moreSegments = make([]SegmentReader, len(segs)-1)
		for i, data := range segs[1:] {
			r.moreSegments[i] = NewSegmentReader(h, data)
		}
	}
	return r
}

// Resolve returns segment id. An unknown id means the message is malformed
// and panics with a *SegmentIDError.
func (r *ReaderArena) Resolve(id SegmentID) *SegmentReader {
	seg, err := r.Lookup(id)
	if err != nil {
		panic(err)
	}
	return seg
}

// Lookup returns segment id, or a *SegmentIDError if there is none.
func (r *ReaderArena) Lookup(id SegmentID) (*SegmentReader, error) {
	if id == 0 {
		return &r.segment0, nil
	}
	if int64(id)-1 >= int64(len(r.moreSegments)) {
		return nil, &SegmentIDError{ID: id, Segments: r.NumSegments()}
	}
	return &r.moreSegments[id-1], nil
}

// Segment0 returns the first segment.
func (r *ReaderArena) Segment0() *SegmentReader {
	return &r.segment0
}

// NumSegments returns the number of segments, counting segment 0.
func (r *ReaderArena) NumSegments() int {
	return 1 + len(r.moreSegments)
}

// TotalWords returns the combined length of all segments.
func (r *ReaderArena) TotalWords() uint64 {
	total := uint64(r.segment0.Len())
	for i := range r.moreSegments {
		total += uint64(r.moreSegments[i].Len())
	}
	return total
}
