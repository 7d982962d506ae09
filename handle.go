package arena

// HandleKind says which kind of arena a Handle refers to.
type HandleKind uint8

const (
	// HandleEmpty is the zero Handle. Only test fixtures build segments with it.
	HandleEmpty HandleKind = iota
	// HandleReader refers to a ReaderArena.
	HandleReader
	// HandleBuilder refers to a BuilderArena.
	HandleBuilder
)

func (k HandleKind) String() string {
	switch k {
	case HandleReader:
		return "reader"
	case HandleBuilder:
		return "builder"
	default:
		return "empty"
	}
}

// Handle is a non-owning reference from a segment back to its arena. It
// lets segment lookup work the same way whether the message is being read
// or built. A Handle must not outlive the arena it refers to.
type Handle struct {
	kind    HandleKind
	reader  *ReaderArena
	builder *BuilderArena
}

// ReaderHandle returns a Handle referring to r.
func ReaderHandle(r *ReaderArena) Handle {
	return Handle{kind: HandleReader, reader: r}
}

// BuilderHandle returns a Handle referring to b.
func BuilderHandle(b *BuilderArena) Handle {
	return Handle{kind: HandleBuilder, builder: b}
}

// Kind returns the kind of arena the handle refers to.
func (h Handle) Kind() HandleKind {
	return h.kind
}

// IsEmpty reports whether h refers to no arena.
func (h Handle) IsEmpty() bool {
	return h.kind == HandleEmpty
}

// Reader returns the referenced ReaderArena. It panics if h refers to
// anything else.
func (h Handle) Reader() *ReaderArena {
	h.mustBe(HandleReader)
	return h.reader
}

// Builder returns the referenced BuilderArena. It panics if h refers to
// anything else.
func (h Handle) Builder() *BuilderArena {
	h.mustBe(HandleBuilder)
	return h.builder
}

// Resolve returns segment id of the referenced arena. For a builder arena it
// is the read view of the build segment. It panics on an empty handle or an
// unknown id.
func (h Handle) Resolve(id SegmentID) *SegmentReader {
	switch h.kind {
	case HandleReader:
		return h.reader.Resolve(id)
	case HandleBuilder:
		return &h.builder.Resolve(id).SegmentReader
	default:
		panic(ErrEmptyHandle)
	}
}

// Lookup is like Resolve but reports an unknown id as an error. It still
// panics on an empty handle.
func (h Handle) Lookup(id SegmentID) (*SegmentReader, error) {
	switch h.kind {
	case HandleReader:
		return h.reader.Lookup(id)
	case HandleBuilder:
		seg, err := h.builder.Lookup(id)
		if err != nil {
			return nil, err
		}
		return &seg.SegmentReader, nil
	default:
		panic(ErrEmptyHandle)
	}
}

func (h Handle) mustBe(kind HandleKind) {
	if h.kind == kind {
		return
	}
	if h.kind == HandleEmpty {
		panic(ErrEmptyHandle)
	}
	panic(ErrWrongArenaKind)
}
