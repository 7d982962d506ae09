package framing

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	arena "github.com/pavanmanishd/msgarena"
)

// Encoder writes framed messages to a stream.
type Encoder struct {
	w           io.Writer
	compression CompressionType
}

// NewEncoder returns an Encoder writing to w. Only WithCompression applies.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	o := applyOptions(opts)
	return &Encoder{w: w, compression: o.compression}
}

// Encode writes the committed segments of m as one message.
func (e *Encoder) Encode(m Message) error {
	buf, err := Marshal(m)
	if err != nil {
		return err
	}
	if e.compression != CompressionNone {
		if buf, err = compressBlock(buf, e.compression); err != nil {
			return err
		}
	}
	if _, err := e.w.Write(buf); err != nil {
		return fmt.Errorf("framing: write message: %w", err)
	}
	return nil
}

// Decoder reads framed messages from a stream, one per call to Decode.
type Decoder struct {
	r    io.Reader
	opts options
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: applyOptions(opts)}
}

// Decode reads the next message. It returns io.EOF when the stream ends
// cleanly between messages, and ErrTruncated when it ends inside one.
func (d *Decoder) Decode() (*arena.ReaderArena, error) {
	var (
		r   *arena.ReaderArena
		err error
	)
	if d.opts.compression != CompressionNone {
		r, err = d.decodeBlock()
	} else {
		r, err = d.decodeFramed()
	}
	if err != nil && !errors.Is(err, io.EOF) {
		d.opts.logger.Debug("rejected message", "error", err)
	}
	return r, err
}

func (d *Decoder) decodeFramed() (*arena.ReaderArena, error) {
	var countBuf [4]byte
	if err := readFull(d.r, countBuf[:], true); err != nil {
		return nil, err
	}
	count := uint64(binary.LittleEndian.Uint32(countBuf[:])) + 1
	if count > uint64(d.opts.maxSegments) {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManySegments, count, d.opts.maxSegments)
	}

	hdr := make([]byte, headerSize(int(count)))
	copy(hdr, countBuf[:])
	if err := readFull(d.r, hdr[4:], false); err != nil {
		return nil, err
	}
	t, err := parseTable(hdr, d.opts)
	if err != nil {
		return nil, err
	}

	body, err := readBody(d.r, t.totalWords*arena.BytesPerWord)
	if err != nil {
		return nil, err
	}
	return t.split(body), nil
}

func (d *Decoder) decodeBlock() (*arena.ReaderArena, error) {
	var hdr [blockHeaderSize]byte
	if err := readFull(d.r, hdr[:], true); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(hdr[0:])
	csize := binary.LittleEndian.Uint32(hdr[4:])
	n := csize
	if n == 0 {
		n = size
	}
	if uint64(n) > maxFramedBytes(d.opts) {
		return nil, fmt.Errorf("%w: block of %d bytes", ErrMessageTooLarge, n)
	}

	payload, err := readBody(d.r, uint64(n))
	if err != nil {
		return nil, err
	}
	msg, err := expandBlock(payload, size, csize, d.opts)
	if err != nil {
		return nil, err
	}

	plain := d.opts
	plain.compression = CompressionNone
	return unmarshal(msg, plain)
}

// readChunk bounds the memory committed to a message body ahead of the bytes
// that fill it.
const readChunk = 1 << 20

// readBody reads exactly n bytes. Beyond the first readChunk bytes the
// buffer only grows as data arrives, so memory tracks what the stream
// delivers rather than what the header announces.
func readBody(r io.Reader, n uint64) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(min(n, readChunk)))
	got, err := io.CopyN(&buf, r, int64(n))
	switch {
	case got == int64(n):
		return buf.Bytes(), nil
	case err == nil, errors.Is(err, io.EOF):
		return nil, fmt.Errorf("%w: read %d of %d bytes", ErrTruncated, got, n)
	default:
		return nil, fmt.Errorf("framing: read message: %w", err)
	}
}

// readFull fills buf from r. A clean EOF before the first byte is returned
// as io.EOF only when atStart is set; any other short read is ErrTruncated.
func readFull(r io.Reader, buf []byte, atStart bool) error {
	_, err := io.ReadFull(r, buf)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && atStart:
		return io.EOF
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	default:
		return fmt.Errorf("framing: read message: %w", err)
	}
}
