package framing

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType selects how a framed message is compressed on the wire.
type CompressionType uint8

const (
	// CompressionNone writes framed messages as they are.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// blockHeaderSize is the size of [uncompressed uint32][compressed uint32].
// A compressed size of 0 means the payload is stored as is.
const blockHeaderSize = 8

var (
	zstdEncoderPool sync.Pool
	// zstdDecoderPools holds one *sync.Pool per decoded size limit.
	zstdDecoderPools sync.Map
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

// getZstdDecoder returns a decoder that refuses to produce more than limit
// bytes, and the pool it must be returned to.
func getZstdDecoder(limit uint64) (*zstd.Decoder, *sync.Pool, error) {
	v, _ := zstdDecoderPools.LoadOrStore(limit, new(sync.Pool))
	pool := v.(*sync.Pool)
	if dec, ok := pool.Get().(*zstd.Decoder); ok {
		return dec, pool, nil
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(limit), zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, nil, err
	}
	return dec, pool, nil
}

// compressBlock returns data framed as a block. Data that does not shrink
// is stored uncompressed.
func compressBlock(data []byte, c CompressionType) ([]byte, error) {
	var compressed []byte
	switch c {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}

	if len(compressed) == 0 || len(compressed) >= len(data) {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		copy(out[blockHeaderSize:], data)
		return out, nil
	}

	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	return out, nil
}

// decompressBlock expands payload, the bytes following a block header, to
// exactly size bytes. A zstd payload must be a frame that records its
// content size as size; decoding never produces more than the largest
// message o accepts.
func decompressBlock(payload []byte, size uint32, o options) ([]byte, error) {
	switch o.compression {
	case CompressionLZ4:
		result := make([]byte, size)
		n, err := lz4.UncompressBlock(payload, result)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrCorruptBlock, err)
		}
		if uint32(n) != size {
			return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", ErrCorruptBlock, n, size)
		}
		return result, nil
	case CompressionZSTD:
		var hdr zstd.Header
		if err := hdr.Decode(payload); err != nil {
			return nil, fmt.Errorf("%w: zstd header: %v", ErrCorruptBlock, err)
		}
		if hdr.Skippable || !hdr.HasFCS || hdr.FrameContentSize != uint64(size) {
			return nil, fmt.Errorf("%w: zstd frame does not declare %d bytes", ErrCorruptBlock, size)
		}
		dec, pool, err := getZstdDecoder(maxFramedBytes(o))
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		defer pool.Put(dec)
		decoded, err := dec.DecodeAll(payload, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorruptBlock, err)
		}
		if uint32(len(decoded)) != size {
			return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", ErrCorruptBlock, len(decoded), size)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, o.compression)
	}
}
