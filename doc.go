// Package arena implements the segment arena underneath a zero-copy,
// word-oriented message format.
//
// # Overview
//
// A message is a set of segments, each a contiguous run of 8-byte words.
// Pointers inside a message name a segment by ID and a word offset within
// it. This package owns those segments in one of two modes:
//
//   - ReaderArena wraps the segments of a received message. The bytes may
//     come from an untrusted peer, so every access goes through
//     SegmentReader.ContainsInterval or a checked accessor.
//   - BuilderArena bump-allocates words while a message is being built,
//     appending new segments when the existing ones are full.
//
// Segments refer back to their arena through a Handle, so code that follows
// a cross-segment pointer can call Handle.Resolve without caring which mode
// it is in.
//
// # Basic Usage
//
//	b := arena.NewBuilderArena(arena.WithFirstSegmentWords(256))
//
//	seg, addr := b.Allocate(2)
//	seg.SetWord(addr, 42)
//
//	// Hand the committed bytes to a writer
//	for _, data := range b.SegmentsForOutput() {
//		...
//	}
//
//	// On the receiving side
//	r := arena.NewReaderArena(segs...)
//	s := r.Resolve(0)
//	if !s.ContainsInterval(from, to) {
//		// reject the message
//	}
//
// # Addresses
//
// An Address is a word index relative to the start of its segment. Checks
// are plain index comparisons against the segment length, so no access can
// leave the memory the segment was built over.
//
// # Growth
//
// Allocation is first-fit over existing segments in ID order. When none has
// room, a new segment is requested from the MemorySource and appended.
// Existing segments are never resized, moved or reused.
//
// # Errors
//
// Running out of room in one segment is routine and handled inside
// BuilderArena.Allocate. Invariant violations, such as resolving a segment
// ID that does not exist or dereferencing an empty Handle, panic with an
// error value from this package. Use Lookup where a missing segment must be
// reported instead.
//
// # Thread Safety
//
// A BuilderArena must be used by one goroutine at a time. A ReaderArena is
// immutable and may be read concurrently.
package arena
