//go:build cgozstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"

	"github.com/equinor/resdata-sub001/errs"
)

// cgoZstdLevel matches the ratio of the pure Go SpeedBetterCompression level.
const cgoZstdLevel = 6

// Compress encodes image as a single zstd frame through libzstd.
func (ZstdCompressor) Compress(image []byte) ([]byte, error) {
	if len(image) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, image, cgoZstdLevel), nil
}

// Decompress decodes packed through libzstd.
func (ZstdCompressor) Decompress(packed []byte) ([]byte, error) {
	if len(packed) == 0 {
		return nil, nil
	}

	image, err := gozstd.Decompress(nil, packed)
	if err != nil {
		return nil, fmt.Errorf("zstd frame: %w: %w", errs.ErrCorruptData, err)
	}

	return image, nil
}
