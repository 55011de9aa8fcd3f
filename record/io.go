package record

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/equinor/resdata-sub001/endian"
	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/format"
	"github.com/equinor/resdata-sub001/fortio"
	"github.com/equinor/resdata-sub001/internal/pool"
	"github.com/equinor/resdata-sub001/section"
)

// ReadHeader reads the next record header, binary or text depending on the
// cursor layout.
//
// Returns:
//   - section.RecordHeader: Parsed header
//   - error: io.EOF at a clean end of container, format errors otherwise
func ReadHeader(c *fortio.Cursor) (section.RecordHeader, error) {
	if c.IsFormatted() {
		return readTextHeader(c)
	}

	payload, err := c.ReadRecord()
	if err != nil {
		return section.RecordHeader{}, err
	}

	h, err := section.ParseRecordHeader(payload, c.Engine())
	if err != nil {
		return section.RecordHeader{}, fmt.Errorf("header at offset %d: %w", c.Tell()-int64(len(payload))-section.FrameOverhead, err)
	}

	return h, nil
}

// Read reads a complete record, header and data.
func Read(c *fortio.Cursor) (*Record, error) {
	h, err := ReadHeader(c)
	if err != nil {
		return nil, err
	}

	r := &Record{owned: true}
	if err := r.SetHeader(h.Name, h.Count, h.Type); err != nil {
		return nil, err
	}
	if err := r.ReadData(c); err != nil {
		return nil, err
	}

	return r, nil
}

// ReadAll reads records until the end of the container.
func ReadAll(c *fortio.Cursor) ([]*Record, error) {
	var out []*Record
	for {
		r, err := Read(c)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
}

// ReadHeader reads the next header from c and installs it on r.
func (r *Record) ReadHeader(c *fortio.Cursor) error {
	h, err := ReadHeader(c)
	if err != nil {
		return err
	}

	return r.SetHeader(h.Name, h.Count, h.Type)
}

// ReadData reads the data blocks that follow the header of r. The buffer of r
// is only replaced once all blocks were decoded.
func (r *Record) ReadData(c *fortio.Cursor) error {
	var (
		buf []byte
		err error
	)
	if c.IsFormatted() {
		buf, err = readTextData(c, r.Header())
	} else {
		buf, err = readBinaryData(c, r.Header())
	}
	if err != nil {
		return fmt.Errorf("reading %q: %w", r.name, err)
	}

	return r.commit(buf)
}

// SkipData advances c past the data blocks belonging to h.
func SkipData(c *fortio.Cursor, h section.RecordHeader) error {
	if c.IsFormatted() {
		_, err := readTextData(c, h)
		return err
	}

	for remaining := h.Count; remaining > 0 && h.Type.Width() > 0; remaining -= h.Type.BlockSize() {
		if err := c.SkipRecord(); err != nil {
			return noEOF(err)
		}
	}

	return nil
}

// Skip advances c past one complete record.
func Skip(c *fortio.Cursor) error {
	h, err := ReadHeader(c)
	if err != nil {
		return err
	}

	return SkipData(c, h)
}

// SeekToName positions c at the header of the next record called name.
//
// The search starts at the current position. With allowRewind the search
// continues from the start of the container up to the original position.
// When the record is not found the cursor is restored.
//
// Parameters:
//   - c: Reading cursor
//   - name: Record name to look for
//   - allowRewind: Whether to wrap around to the container start
//   - mustFind: Whether a miss is an error
//
// Returns:
//   - bool: Whether the record was found
//   - error: ErrRecordNotFound on a miss with mustFind, framing errors
func SeekToName(c *fortio.Cursor, name string, allowRewind, mustFind bool) (bool, error) {
	if len(name) > format.NameLength {
		return false, errs.ErrNameTooLong
	}
	name = section.TrimName(name)
	start := c.Tell()

	found, err := scanFor(c, name, -1)
	if err == nil && !found && allowRewind {
		if err = c.Rewind(); err == nil {
			found, err = scanFor(c, name, start)
		}
	}
	if err != nil {
		_ = c.Seek(start)
		return false, err
	}

	if !found {
		if err := c.Seek(start); err != nil {
			return false, err
		}
		if mustFind {
			return false, fmt.Errorf("%q: %w", name, errs.ErrRecordNotFound)
		}
	}

	return found, nil
}

func scanFor(c *fortio.Cursor, name string, limit int64) (bool, error) {
	for {
		pos := c.Tell()
		if limit >= 0 && pos >= limit {
			return false, nil
		}

		h, err := ReadHeader(c)
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if h.Name == name {
			return true, c.Seek(pos)
		}
		if err := SkipData(c, h); err != nil {
			return false, err
		}
	}
}

// WriteHeader writes the header of r.
func (r *Record) WriteHeader(c *fortio.Cursor) error {
	h := r.Header()
	if err := h.Validate(); err != nil {
		return err
	}

	if c.IsFormatted() {
		_, err := fmt.Fprintf(c, section.TextHeaderFormat, h.Name, h.Count, h.Type)
		return err
	}

	return c.WriteRecord(h.Bytes(c.Engine()))
}

// WriteData writes the data blocks of r. For containers of foreign byte
// order the buffer is flipped for the duration of the write and restored
// afterwards.
func (r *Record) WriteData(c *fortio.Cursor) error {
	if !r.HasData() {
		return errs.ErrNoData
	}
	if c.IsFormatted() {
		return writeTextData(c, r)
	}

	width := r.typ.Width()
	if width == 0 {
		return nil
	}
	block := r.typ.BlockSize() * width

	return endian.WithFlipped(r.data, width, c.EndianFlip() && r.typ.NeedsFlip(), func() error {
		for offset := 0; offset < len(r.data); offset += block {
			end := min(offset+block, len(r.data))
			if err := c.WriteRecord(r.data[offset:end]); err != nil {
				return err
			}
		}

		return nil
	})
}

// Write writes header and data of r.
func (r *Record) Write(c *fortio.Cursor) error {
	if err := r.WriteHeader(c); err != nil {
		return err
	}

	return r.WriteData(c)
}

// ==============================================================================
// Binary data
// ==============================================================================

func readBinaryData(c *fortio.Cursor, h section.RecordHeader) ([]byte, error) {
	width := h.Type.Width()
	buf := make([]byte, h.Count*width)
	if width == 0 {
		return buf, nil
	}

	offset := 0
	for remaining := h.Count; remaining > 0; {
		n := min(h.Type.BlockSize(), remaining)
		payload, err := c.ReadRecord()
		if err != nil {
			return nil, noEOF(err)
		}
		if len(payload) != n*width {
			return nil, fmt.Errorf("block of %d bytes, expected %d: %w", len(payload), n*width, errs.ErrBlockSize)
		}
		copy(buf[offset:], payload)
		offset += len(payload)
		remaining -= n
	}

	if c.EndianFlip() && h.Type.NeedsFlip() {
		endian.Flip(buf, width)
	}

	return buf, nil
}

func noEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("missing data block: %w", errs.ErrTruncated)
	}

	return err
}

// ==============================================================================
// Text data
// ==============================================================================

func readTextHeader(c *fortio.Cursor) (section.RecordHeader, error) {
	name, err := c.ReadQuoted(format.NameLength)
	if err != nil {
		return section.RecordHeader{}, err
	}

	tok, err := c.ReadToken()
	if err != nil {
		return section.RecordHeader{}, fmt.Errorf("header %q: %w", name, noEOF(err))
	}
	count, err := strconv.ParseInt(string(tok), 10, 32)
	if err != nil || count < 0 {
		return section.RecordHeader{}, fmt.Errorf("header %q count %q: %w", name, tok, errs.ErrInvalidHeader)
	}

	tag, err := c.ReadQuoted(format.TagLength)
	if err != nil {
		return section.RecordHeader{}, fmt.Errorf("header %q: %w", name, noEOF(err))
	}
	typ, err := format.ParseDataType(tag)
	if err != nil {
		return section.RecordHeader{}, fmt.Errorf("header %q: %w", name, err)
	}
	c.SkipLine()

	return section.RecordHeader{Name: section.TrimName(name), Count: int(count), Type: typ}, nil
}

func readTextData(c *fortio.Cursor, h section.RecordHeader) ([]byte, error) {
	width := h.Type.Width()
	buf := make([]byte, h.Count*width)
	if width == 0 {
		return buf, nil
	}

	for i := 0; i < h.Count; i++ {
		if err := readTextElement(c, h.Type, buf[i*width:(i+1)*width]); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, noEOF(err))
		}
	}
	c.SkipLine()

	return buf, nil
}

func readTextElement(c *fortio.Cursor, typ format.DataType, dst []byte) error {
	if typ == format.TypeChar {
		s, err := c.ReadQuoted(format.NameLength)
		if err != nil {
			return err
		}
		copy(dst, s)

		return nil
	}

	tok, err := c.ReadToken()
	if err != nil {
		return err
	}

	switch typ {
	case format.TypeInte:
		v, err := strconv.ParseInt(string(tok), 10, 32)
		if err != nil {
			return fmt.Errorf("%q: %w", tok, errs.ErrBadElement)
		}
		native.PutUint32(dst, uint32(int32(v)))
	case format.TypeReal:
		v, err := parseFloat(tok, 32)
		if err != nil {
			return err
		}
		native.PutUint32(dst, math.Float32bits(float32(v)))
	case format.TypeDoub:
		v, err := parseFloat(tok, 64)
		if err != nil {
			return err
		}
		native.PutUint64(dst, math.Float64bits(v))
	case format.TypeLogi:
		if len(tok) != 1 || (tok[0] != section.TextTrue && tok[0] != section.TextFalse) {
			return fmt.Errorf("%q: %w", tok, errs.ErrBadElement)
		}
		native.PutUint32(dst, boolBits(tok[0] == section.TextTrue))
	default:
		return fmt.Errorf("%s element: %w", typ, errs.ErrUnknownType)
	}

	return nil
}

// parseFloat parses "0.50000000E+01" and "0.50000000000000D+01" style
// numbers. The D exponent marker is rewritten so the full decimal string is
// rounded once.
func parseFloat(tok []byte, bits int) (float64, error) {
	s := []byte(string(tok))
	for i, b := range s {
		if b == section.DoubleExponentMarker || b == 'd' {
			s[i] = 'E'
		}
	}

	v, err := strconv.ParseFloat(string(s), bits)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", tok, errs.ErrBadElement)
	}

	return v, nil
}

func writeTextData(c *fortio.Cursor, r *Record) error {
	if r.typ.Width() == 0 || r.count == 0 {
		return nil
	}

	buf := pool.GetBlockBuffer()
	defer pool.PutBlockBuffer(buf)

	layout := section.TextElementFormat(r.typ)
	columns := r.typ.Columns()
	block := r.typ.BlockSize()

	for start := 0; start < r.count; start += block {
		n := min(block, r.count-start)
		buf.Reset()
		for k := 0; k < n; k++ {
			appendTextElement(buf, layout, r, start+k)
			if (k+1)%columns == 0 || k == n-1 {
				_, _ = buf.WriteString("\n")
			}
		}
		if _, err := c.Write(buf.Bytes()); err != nil {
			return err
		}
	}

	return nil
}

func appendTextElement(w io.Writer, layout string, r *Record, i int) {
	switch r.typ {
	case format.TypeChar:
		fmt.Fprintf(w, layout, string(r.data[i*format.NameLength:(i+1)*format.NameLength]))
	case format.TypeInte:
		fmt.Fprintf(w, layout, int32(native.Uint32(r.data[i*4:])))
	case format.TypeReal:
		mantissa, exp := Decompose(float64(load[float32](r.data, i)))
		fmt.Fprintf(w, layout, mantissa, exp)
	case format.TypeDoub:
		mantissa, exp := Decompose(load[float64](r.data, i))
		fmt.Fprintf(w, layout, mantissa, exp)
	case format.TypeLogi:
		mark := section.TextFalse
		if native.Uint32(r.data[i*4:]) != 0 {
			mark = section.TextTrue
		}
		fmt.Fprintf(w, layout, mark)
	}
}

// Decompose splits x into a mantissa in [0.1, 1) and a decimal exponent so
// that x = mantissa × 10^exp. Zero decomposes to (0, 0).
func Decompose(x float64) (float64, int) {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x, 0
	}

	pow := math.Ceil(math.Log10(math.Abs(x)))
	mantissa := x / math.Pow(10, pow)
	if math.Abs(mantissa) == 1 {
		mantissa *= 0.1
		pow++
	}

	return mantissa, int(pow)
}
