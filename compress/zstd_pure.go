//go:build !cgozstd

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/equinor/resdata-sub001/errs"
)

// maxContainerSize bounds the decoded size of one container frame.
const maxContainerSize = 1 << 32

var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(maxContainerSize),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd decoder: %v", err))
		}

		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithEncoderCRC(true),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd encoder: %v", err))
		}

		return encoder
	},
}

// Compress encodes image as a single checksummed zstd frame. Summary data
// compresses well, so the destination starts at a quarter of the input.
func (ZstdCompressor) Compress(image []byte) ([]byte, error) {
	if len(image) == 0 {
		return nil, nil
	}

	encoder := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(image, make([]byte, 0, len(image)/4)), nil
}

// Decompress decodes all frames of packed.
func (ZstdCompressor) Decompress(packed []byte) ([]byte, error) {
	if len(packed) == 0 {
		return nil, nil
	}

	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	image, err := decoder.DecodeAll(packed, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd frame: %w: %w", errs.ErrCorruptData, err)
	}

	return image, nil
}
