package fortio

import (
	"fmt"

	"github.com/equinor/resdata-sub001/endian"
	"github.com/equinor/resdata-sub001/format"
	"github.com/equinor/resdata-sub001/internal/options"
)

// Mode selects how a container file is opened.
type Mode uint8

const (
	ModeRead   Mode = 0x1 // ModeRead opens an existing container for reading.
	ModeWrite  Mode = 0x2 // ModeWrite creates or truncates a container.
	ModeAppend Mode = 0x3 // ModeAppend appends records to a container.
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "Read"
	case ModeWrite:
		return "Write"
	case ModeAppend:
		return "Append"
	default:
		return "Unknown"
	}
}

// config holds cursor settings. Unset fields are inferred from the file name
// by Open.
type config struct {
	engine      endian.EndianEngine
	formatted   *bool
	compression format.CompressionType
	mmap        bool
}

func newConfig() *config {
	return &config{
		engine: endian.GetDefaultEngine(),
		mmap:   true,
	}
}

// Option configures a Cursor.
type Option = options.Option[*config]

// WithEndian sets the byte order of a binary container. The default is big-endian.
func WithEndian(engine endian.EndianEngine) Option {
	return options.New(func(c *config) error {
		if engine == nil {
			return fmt.Errorf("nil endian engine")
		}
		c.engine = engine

		return nil
	})
}

// WithLittleEndian is shorthand for WithEndian(endian.GetLittleEndianEngine()).
func WithLittleEndian() Option {
	return WithEndian(endian.GetLittleEndianEngine())
}

// WithFormatted selects the text layout (true) or the binary layout (false),
// overriding what the file name implies.
func WithFormatted(formatted bool) Option {
	return options.NoError(func(c *config) {
		c.formatted = &formatted
	})
}

// WithCompression compresses the container with the given algorithm,
// overriding the file name suffix.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(c *config) error {
		switch compression {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = compression
			return nil
		default:
			return fmt.Errorf("invalid container compression: %v", compression)
		}
	})
}

// WithoutMmap reads plain containers with a single read instead of mapping them.
func WithoutMmap() Option {
	return options.NoError(func(c *config) {
		c.mmap = false
	})
}

// ForFile returns the options implied by a container file name: text or
// binary layout from the extension and compression from the suffix.
func ForFile(path string) Option {
	compression, _ := format.CompressionFromName(path)
	kind, formatted, _ := format.InspectFileName(path)

	opts := []Option{WithCompression(compression)}
	if kind != format.FileOther {
		opts = append(opts, WithFormatted(formatted))
	}

	return options.Join(opts...)
}
