package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrSegmentNotFound is wrapped by every failed segment lookup.
	ErrSegmentNotFound = errors.New("arena: segment not found")
	// ErrEmptyHandle is the panic value when an empty Handle is dereferenced.
	ErrEmptyHandle = errors.New("arena: empty arena handle")
	// ErrWrongArenaKind is the panic value when a Handle holds the other kind
	// of arena than the one requested.
	ErrWrongArenaKind = errors.New("arena: handle refers to a different kind of arena")
	// ErrTooManySegments is the panic value when a builder arena would grow
	// past its segment limit.
	ErrTooManySegments = errors.New("arena: max segments exceeded")
	// ErrSegmentTooLarge is the panic value when a segment larger than
	// MaxSegmentWords is requested.
	ErrSegmentTooLarge = errors.New("arena: segment too large")
	// ErrAddressOutOfRange is wrapped by AddressError.
	ErrAddressOutOfRange = errors.New("arena: address out of range")
)

// SegmentIDError reports a segment ID the arena does not have. It usually
// means the message is malformed or truncated.
type SegmentIDError struct {
	ID       SegmentID
	Segments int
}

func (e *SegmentIDError) Error() string {
	return fmt.Sprintf("arena: segment %d not found (message has %d segments)", e.ID, e.Segments)
}

func (e *SegmentIDError) Unwrap() error { return ErrSegmentNotFound }

// AddressError reports an address that lies outside the part of a segment
// it was used against.
type AddressError struct {
	Segment SegmentID
	Addr    Address
	Len     WordCount
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("arena: address %d outside segment %d of %d words", e.Addr, e.Segment, e.Len)
}

func (e *AddressError) Unwrap() error { return ErrAddressOutOfRange }
