package section

import (
	"strings"

	"github.com/equinor/resdata-sub001/endian"
	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/format"
)

// RecordHeader describes one keyword record: its name, element count and
// element type.
type RecordHeader struct {
	// Name is the record name without trailing padding.
	Name string
	// Count is the number of elements that follow.
	Count int
	// Type is the element type.
	Type format.DataType
}

// Validate checks the header for values that cannot be written.
//
// Returns:
//   - error: ErrNameTooLong, ErrNegativeCount or ErrUnknownType
func (h RecordHeader) Validate() error {
	if len(h.Name) > format.NameLength {
		return errs.ErrNameTooLong
	}
	if h.Count < 0 {
		return errs.ErrNegativeCount
	}
	if !h.Type.IsValid() {
		return errs.ErrUnknownType
	}

	return nil
}

// PaddedName returns the name padded with spaces to eight characters.
func (h RecordHeader) PaddedName() string {
	return PadName(h.Name)
}

// Parse parses the header from the 16 byte payload of a header frame.
//
// Parameters:
//   - data: Header payload (must be exactly 16 bytes)
//   - engine: Byte order of the container
//
// Returns:
//   - error: ErrInvalidHeader if data has the wrong size, or validation errors
func (h *RecordHeader) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != RecordHeaderSize {
		return errs.ErrInvalidHeader
	}

	typ, err := format.ParseDataType(string(data[TypeOffset : TypeOffset+format.TagLength]))
	if err != nil {
		return err
	}

	count := int32(engine.Uint32(data[CountOffset:TypeOffset]))
	if count < 0 {
		return errs.ErrNegativeCount
	}

	h.Name = TrimName(string(data[NameOffset:CountOffset]))
	h.Count = int(count)
	h.Type = typ

	return nil
}

// Bytes serializes the header into a 16 byte frame payload.
func (h RecordHeader) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, 0, RecordHeaderSize)
	b = append(b, h.PaddedName()...)
	b = engine.AppendUint32(b, uint32(int32(h.Count)))
	b = append(b, h.Type.String()...)

	return b
}

// ParseRecordHeader parses a RecordHeader from a frame payload.
func ParseRecordHeader(data []byte, engine endian.EndianEngine) (RecordHeader, error) {
	h := RecordHeader{}
	if err := h.Parse(data, engine); err != nil {
		return RecordHeader{}, err
	}

	return h, nil
}

// PadName pads name with spaces to eight characters. Longer names are
// returned unchanged.
func PadName(name string) string {
	if len(name) >= format.NameLength {
		return name
	}

	return name + strings.Repeat(" ", format.NameLength-len(name))
}

// TrimName strips the trailing padding of an on-disk name.
func TrimName(name string) string {
	return strings.TrimRight(name, " \x00")
}
