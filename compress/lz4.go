package compress

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/equinor/resdata-sub001/errs"
)

// lz4 containers carry a small prefix so decompression never has to guess
// the output size: [original length:u32 LE][mode:u8][payload].
const (
	lz4PrefixSize = 5
	lz4ModeRaw    = 0
	lz4ModeBlock  = 1
)

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor stores a container as one LZ4 block behind a size prefix.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress encodes image as one LZ4 block. An image that does not shrink,
// such as a short text header, is stored raw behind the same prefix.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4PrefixSize+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(dst, uint32(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[lz4PrefixSize:])
	if err != nil {
		return nil, err
	}

	if n == 0 || n >= len(data) {
		dst[4] = lz4ModeRaw
		return append(dst[:lz4PrefixSize], data...), nil
	}
	dst[4] = lz4ModeBlock

	return dst[:lz4PrefixSize+n], nil
}

// Decompress restores an image written by Compress.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < lz4PrefixSize {
		return nil, fmt.Errorf("lz4 prefix: %w", errs.ErrCorruptData)
	}

	size := int(binary.LittleEndian.Uint32(data))
	payload := data[lz4PrefixSize:]

	switch data[4] {
	case lz4ModeRaw:
		if len(payload) != size {
			return nil, fmt.Errorf("lz4 prefix: %w", errs.ErrCorruptData)
		}

		return append([]byte(nil), payload...), nil
	case lz4ModeBlock:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 block: %w: %w", errs.ErrCorruptData, err)
		}
		if n != size {
			return nil, fmt.Errorf("lz4 block: %d of %d bytes: %w", n, size, errs.ErrCorruptData)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("lz4 prefix: %w", errs.ErrCorruptData)
	}
}
