package fortio

import (
	"fmt"
	"io"

	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/section"
)

// ReadRecord reads one framed record and returns its payload.
//
// The payload aliases the cursor's memory: it stays valid until the cursor is
// closed and must not be modified. On error the cursor position is unchanged.
//
// Returns:
//   - []byte: Record payload
//   - error: io.EOF at a clean record boundary, ErrTruncated or
//     ErrMarkerMismatch for damaged framing
func (c *Cursor) ReadRecord() ([]byte, error) {
	start, end, err := c.frame()
	if err != nil {
		return nil, err
	}

	payload := c.data[start+section.MarkerSize : end-section.MarkerSize]
	c.pos = end

	return payload, nil
}

// SkipRecord advances past one framed record without returning it.
func (c *Cursor) SkipRecord() error {
	_, end, err := c.frame()
	if err != nil {
		return err
	}
	c.pos = end

	return nil
}

// PeekRecordSize returns the payload size of the next record without moving.
func (c *Cursor) PeekRecordSize() (int, error) {
	start, end, err := c.frame()
	if err != nil {
		return 0, err
	}

	return int(end-start) - section.FrameOverhead, nil
}

// frame validates the record at the current position and returns its
// absolute start and end offsets.
func (c *Cursor) frame() (int64, int64, error) {
	if c.closed {
		return 0, 0, errs.ErrClosed
	}
	if c.mode != ModeRead {
		return 0, 0, errs.ErrNotReadable
	}

	start := c.pos
	size := int64(len(c.data))
	if start >= size {
		return 0, 0, io.EOF
	}
	if start+section.MarkerSize > size {
		return 0, 0, fmt.Errorf("record at offset %d: %w", start, errs.ErrTruncated)
	}

	length := int64(int32(c.engine.Uint32(c.data[start:])))
	if length < 0 {
		return 0, 0, fmt.Errorf("record at offset %d has negative length %d: %w", start, length, errs.ErrMarkerMismatch)
	}

	end := start + length + section.FrameOverhead
	if end > size {
		return 0, 0, fmt.Errorf("record at offset %d needs %d bytes, %d left: %w",
			start, length+section.FrameOverhead, size-start, errs.ErrTruncated)
	}

	tail := int64(int32(c.engine.Uint32(c.data[end-section.MarkerSize:])))
	if tail != length {
		return 0, 0, fmt.Errorf("record at offset %d: leading %d, trailing %d: %w",
			start, length, tail, errs.ErrMarkerMismatch)
	}

	return start, end, nil
}

// WriteRecord writes payload as one framed record.
func (c *Cursor) WriteRecord(payload []byte) error {
	var marker [section.MarkerSize]byte
	c.engine.PutUint32(marker[:], uint32(len(payload)))

	if _, err := c.Write(marker[:]); err != nil {
		return err
	}
	if _, err := c.Write(payload); err != nil {
		return err
	}
	_, err := c.Write(marker[:])

	return err
}
