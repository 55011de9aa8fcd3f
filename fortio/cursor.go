// Package fortio implements the Stream Cursor: sequential access to record
// containers with record framing, position control and byte order handling.
//
// A Cursor is either reading or writing. Reading cursors hold the whole
// container in memory, memory-mapped for plain files or decompressed for
// compressed ones, so Tell and Seek are cheap and exact. Writing cursors
// buffer output and, for compressed containers, compress the complete image
// on Close.
//
// Binary containers are accessed with ReadRecord, WriteRecord and SkipRecord.
// Text containers are accessed with the token primitives (ReadToken,
// ReadQuoted, SkipSpace, SkipLine) and the io.Writer implementation.
//
// A Cursor is not safe for concurrent use.
package fortio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/equinor/resdata-sub001/compress"
	"github.com/equinor/resdata-sub001/endian"
	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/format"
	"github.com/equinor/resdata-sub001/internal/options"
	"github.com/equinor/resdata-sub001/internal/pool"
)

const writeBufferSize = 64 * 1024

// Cursor is a positioned reader or writer over one container.
type Cursor struct {
	path        string
	mode        Mode
	formatted   bool
	engine      endian.EndianEngine
	flip        bool
	compression format.CompressionType

	// read side
	data   []byte
	pos    int64
	mapped mmap.MMap

	// write side
	w       *bufio.Writer
	file    *os.File
	sink    *pool.ByteBuffer
	written int64
	stats   compress.CompressionStats

	closed bool
}

// Open opens the container at path.
//
// The text or binary layout and the compression are inferred from the file
// name (see format.InspectFileName and format.CompressionFromName) unless
// set through options. Plain containers opened for reading are memory-mapped.
//
// Parameters:
//   - path: Container file
//   - mode: ModeRead, ModeWrite or ModeAppend
//   - opts: Cursor options
//
// Returns:
//   - *Cursor: Open cursor, to be closed by the caller
//   - error: Option, I/O or decompression error
func Open(path string, mode Mode, opts ...Option) (*Cursor, error) {
	cfg := newConfig()
	all := append([]Option{ForFile(path)}, opts...)
	if err := options.Apply(cfg, all...); err != nil {
		return nil, err
	}

	c := newCursor(cfg, mode)
	c.path = path

	var err error
	switch mode {
	case ModeRead:
		err = c.openRead(path, cfg.mmap)
	case ModeWrite:
		err = c.openWrite(path, false)
	case ModeAppend:
		err = c.openWrite(path, true)
	default:
		err = fmt.Errorf("invalid open mode: %v", mode)
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}

// NewReader returns a reading cursor over an in-memory container image.
// The cursor does not copy data.
func NewReader(data []byte, opts ...Option) (*Cursor, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	c := newCursor(cfg, ModeRead)
	if c.compression != format.CompressionNone {
		codec, err := compress.GetCodec(c.compression)
		if err != nil {
			return nil, err
		}
		if data, err = codec.Decompress(data); err != nil {
			return nil, err
		}
	}
	c.data = data

	return c, nil
}

// NewWriter returns a writing cursor that streams to w. Compression options
// are ignored; the stream receives the plain container bytes.
func NewWriter(w io.Writer, opts ...Option) (*Cursor, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	c := newCursor(cfg, ModeWrite)
	c.compression = format.CompressionNone
	c.w = bufio.NewWriterSize(w, writeBufferSize)

	return c, nil
}

func newCursor(cfg *config, mode Mode) *Cursor {
	c := &Cursor{
		mode:        mode,
		engine:      cfg.engine,
		flip:        !endian.CompareNativeEndian(cfg.engine),
		compression: cfg.compression,
	}
	if cfg.formatted != nil {
		c.formatted = *cfg.formatted
	}
	if c.compression == 0 {
		c.compression = format.CompressionNone
	}

	return c
}

func (c *Cursor) openRead(path string, useMmap bool) error {
	if c.compression != format.CompressionNone {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		codec, err := compress.GetCodec(c.compression)
		if err != nil {
			return err
		}
		if c.data, err = codec.Decompress(raw); err != nil {
			return fmt.Errorf("decompressing %s: %w", path, err)
		}

		return nil
	}

	if !useMmap {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		c.data = data

		return c.detectCompression(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}

	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("mapping %s: %w", path, err)
	}
	c.mapped = mapped
	c.data = mapped

	return c.detectCompression(path)
}

// detectCompression decompresses a zstd container whose name carries no
// compression suffix.
func (c *Cursor) detectCompression(path string) error {
	ct := compress.Detect(c.data)
	if ct == format.CompressionNone {
		return nil
	}

	codec, err := compress.GetCodec(ct)
	if err != nil {
		return err
	}
	data, err := codec.Decompress(c.data)
	if err != nil {
		return fmt.Errorf("decompressing %s: %w", path, err)
	}
	if c.mapped != nil {
		if err := c.mapped.Unmap(); err != nil {
			return err
		}
		c.mapped = nil
	}
	c.data = data
	c.compression = ct

	return nil
}

func (c *Cursor) openWrite(path string, appendMode bool) error {
	if c.compression != format.CompressionNone {
		// Compressed images are assembled in memory and written on Close.
		c.sink = pool.GetContainerBuffer()
		if appendMode {
			if existing, err := c.readExisting(path); err != nil {
				return err
			} else if len(existing) > 0 {
				_, _ = c.sink.Write(existing)
			}
		}
		c.written = int64(c.sink.Len())
		c.w = bufio.NewWriterSize(c.sink, writeBufferSize)

		return nil
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendMode {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	if appendMode {
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return err
		}
		c.written = info.Size()
	}

	c.file = f
	c.w = bufio.NewWriterSize(f, writeBufferSize)

	return nil
}

func (c *Cursor) readExisting(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(c.compression)
	if err != nil {
		return nil, err
	}

	return codec.Decompress(raw)
}

// Path returns the file the cursor was opened on, or "" for in-memory cursors.
func (c *Cursor) Path() string { return c.path }

// Mode returns the open mode.
func (c *Cursor) Mode() Mode { return c.mode }

// IsFormatted reports whether the container uses the text layout.
func (c *Cursor) IsFormatted() bool { return c.formatted }

// Engine returns the byte order of the container.
func (c *Cursor) Engine() endian.EndianEngine { return c.engine }

// EndianFlip reports whether the container byte order differs from the host.
func (c *Cursor) EndianFlip() bool { return c.flip }

// Compression returns the container compression.
func (c *Cursor) Compression() format.CompressionType { return c.compression }

// Stats returns compression statistics, filled once a compressed writer is closed.
func (c *Cursor) Stats() compress.CompressionStats { return c.stats }

// RawBytes returns the complete container image of a reading cursor.
// The slice aliases the cursor's memory and is invalid after Close.
func (c *Cursor) RawBytes() []byte { return c.data }

// Len returns the size of the container image of a reading cursor.
func (c *Cursor) Len() int64 { return int64(len(c.data)) }

// Tell returns the current byte offset.
func (c *Cursor) Tell() int64 {
	if c.mode == ModeRead {
		return c.pos
	}

	return c.written
}

// Seek moves a reading cursor to pos, or repositions an uncompressed
// truncating file writer.
//
// Returns:
//   - error: ErrSeekOutOfRange if pos lies outside the container,
//     ErrNotSeekable for stream, append and compressed writers
func (c *Cursor) Seek(pos int64) error {
	if c.closed {
		return errs.ErrClosed
	}

	if c.mode == ModeRead {
		if pos < 0 || pos > int64(len(c.data)) {
			return fmt.Errorf("seek to %d of %d: %w", pos, len(c.data), errs.ErrSeekOutOfRange)
		}
		c.pos = pos

		return nil
	}

	if c.file == nil || c.mode != ModeWrite {
		return errs.ErrNotSeekable
	}
	if err := c.w.Flush(); err != nil {
		return err
	}
	if _, err := c.file.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	c.written = pos

	return nil
}

// Rewind moves the cursor to the start of the container.
func (c *Cursor) Rewind() error {
	return c.Seek(0)
}

// AtEOF reports whether a reading cursor has consumed all data.
func (c *Cursor) AtEOF() bool {
	return c.pos >= int64(len(c.data))
}

// Write implements io.Writer for writing cursors.
func (c *Cursor) Write(p []byte) (int, error) {
	if c.closed {
		return 0, errs.ErrClosed
	}
	if c.w == nil {
		return 0, errs.ErrNotWritable
	}

	n, err := c.w.Write(p)
	c.written += int64(n)

	return n, err
}

// WriteString writes s to a writing cursor.
func (c *Cursor) WriteString(s string) (int, error) {
	if c.closed {
		return 0, errs.ErrClosed
	}
	if c.w == nil {
		return 0, errs.ErrNotWritable
	}

	n, err := c.w.WriteString(s)
	c.written += int64(n)

	return n, err
}

// Flush pushes buffered output to the underlying file or stream.
// Compressed containers are only written on Close.
func (c *Cursor) Flush() error {
	if c.w == nil {
		return nil
	}

	return c.w.Flush()
}

// Close releases the cursor. Writers are flushed, and compressed writers
// compress and write the complete image.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	if c.mode == ModeRead {
		c.data = nil
		if c.mapped != nil {
			err := c.mapped.Unmap()
			c.mapped = nil

			return err
		}

		return nil
	}

	if err := c.w.Flush(); err != nil {
		if c.file != nil {
			c.file.Close()
		}

		return err
	}

	if c.sink != nil {
		defer func() {
			pool.PutContainerBuffer(c.sink)
			c.sink = nil
		}()

		return c.writeCompressed()
	}

	if c.file != nil {
		return c.file.Close()
	}

	return nil
}

func (c *Cursor) writeCompressed() error {
	packed, stats, err := compress.Compress(c.compression, c.sink.Bytes())
	if err != nil {
		return fmt.Errorf("compressing %s: %w", c.path, err)
	}
	c.stats = stats

	return os.WriteFile(c.path, packed, 0o644)
}
