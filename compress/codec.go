package compress

import (
	"bytes"
	"fmt"
	"time"

	"github.com/equinor/resdata-sub001/format"
)

// Compressor compresses a complete container image.
//
// The input is not modified. The returned slice is owned by the caller,
// except for the pass-through codec, which returns its input.
type Compressor interface {
	Compress(image []byte) ([]byte, error)
}

// Decompressor restores a container image produced by the matching
// Compressor. Damaged input fails with errs.ErrCorruptData.
type Decompressor interface {
	Decompress(packed []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes one compressed container write.
type CompressionStats struct {
	// Algorithm is the codec used.
	Algorithm format.CompressionType
	// OriginalSize is the size of the plain container image.
	OriginalSize int64
	// CompressedSize is the size written to disk.
	CompressedSize int64
	// CompressionTimeNs is the time spent compressing.
	CompressionTimeNs int64
}

// CompressionRatio returns compressed size / original size, or 0 for an
// empty image.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// NoOpCompressor passes container images through unchanged.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates the pass-through codec.
func NewNoOpCompressor() NoOpCompressor { return NoOpCompressor{} }

// Compress returns image itself.
func (NoOpCompressor) Compress(image []byte) ([]byte, error) { return image, nil }

// Decompress returns packed itself.
func (NoOpCompressor) Decompress(packed []byte) ([]byte, error) { return packed, nil }

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the codec of a container compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported container compression: %s", compressionType)
}

// Compress compresses a container image with the codec of compressionType
// and measures the result.
//
// Parameters:
//   - compressionType: Container compression
//   - image: Plain container bytes
//
// Returns:
//   - []byte: Compressed image
//   - CompressionStats: Sizes and time spent
//   - error: Unsupported type or codec failure
func Compress(compressionType format.CompressionType, image []byte) ([]byte, CompressionStats, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, CompressionStats{}, err
	}

	start := time.Now()
	packed, err := codec.Compress(image)
	if err != nil {
		return nil, CompressionStats{}, err
	}

	return packed, CompressionStats{
		Algorithm:         compressionType,
		OriginalSize:      int64(len(image)),
		CompressedSize:    int64(len(packed)),
		CompressionTimeNs: time.Since(start).Nanoseconds(),
	}, nil
}

// zstdMagic opens every zstd frame.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Detect recognises a compressed container by its leading bytes. Only zstd
// frames carry a magic number; plain binary containers start with a record
// length marker and text containers with a quote or blank, so neither can be
// mistaken for one. S2 and LZ4 images are recognised by file suffix only.
func Detect(data []byte) format.CompressionType {
	if bytes.HasPrefix(data, zstdMagic) {
		return format.CompressionZstd
	}

	return format.CompressionNone
}
