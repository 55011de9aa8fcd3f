package format

import (
	"strings"

	"github.com/equinor/resdata-sub001/errs"
)

type (
	DataType        uint8
	CompressionType uint8
)

const (
	TypeChar DataType = 0x1 // TypeChar represents space padded 8 character strings.
	TypeReal DataType = 0x2 // TypeReal represents 32 bit floats.
	TypeDoub DataType = 0x3 // TypeDoub represents 64 bit floats.
	TypeInte DataType = 0x4 // TypeInte represents 32 bit signed integers.
	TypeLogi DataType = 0x5 // TypeLogi represents booleans stored as 32 bit integers.
	TypeMess DataType = 0x6 // TypeMess represents message records without payload.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Element layout constants.
const (
	NameLength      = 8    // record names and CHAR elements are 8 bytes on disk
	TagLength       = 4    // type tags are 4 bytes on disk
	NumericBlock    = 1000 // elements per data block for numeric types
	StringBlock     = 105  // elements per data block for CHAR and MESS
	LogiTrueBinary  = -1   // binary true is the all-ones 32 bit pattern
	LogiFalseBinary = 0
)

type typeInfo struct {
	tag     string
	width   int
	columns int
	block   int
}

var typeTable = map[DataType]typeInfo{
	TypeChar: {tag: "CHAR", width: NameLength, columns: 7, block: StringBlock},
	TypeReal: {tag: "REAL", width: 4, columns: 4, block: NumericBlock},
	TypeDoub: {tag: "DOUB", width: 8, columns: 3, block: NumericBlock},
	TypeInte: {tag: "INTE", width: 4, columns: 6, block: NumericBlock},
	TypeLogi: {tag: "LOGI", width: 4, columns: 25, block: NumericBlock},
	TypeMess: {tag: "MESS", width: 0, columns: 1, block: StringBlock},
}

func (d DataType) String() string {
	if info, ok := typeTable[d]; ok {
		return info.tag
	}

	return "Unknown"
}

// Width returns the in-memory and on-disk size of one element in bytes.
func (d DataType) Width() int { return typeTable[d].width }

// Columns returns how many elements the text container puts on one line.
func (d DataType) Columns() int { return typeTable[d].columns }

// BlockSize returns the number of elements per data block.
func (d DataType) BlockSize() int { return typeTable[d].block }

// IsValid reports whether d is one of the known element types.
func (d DataType) IsValid() bool {
	_, ok := typeTable[d]
	return ok
}

// IsNumeric reports whether arithmetic is defined for d.
func (d DataType) IsNumeric() bool {
	return d == TypeReal || d == TypeDoub || d == TypeInte
}

// NeedsFlip reports whether elements of d change with byte order.
func (d DataType) NeedsFlip() bool {
	return d == TypeReal || d == TypeDoub || d == TypeInte || d == TypeLogi
}

// ParseDataType resolves a 4 character tag such as "REAL" to its DataType.
// Trailing padding is ignored.
//
// Returns:
//   - DataType: Resolved type
//   - error: ErrUnknownType if the tag names no known type
func ParseDataType(tag string) (DataType, error) {
	tag = strings.TrimRight(tag, " \x00")
	for d, info := range typeTable {
		if info.tag == tag {
			return d, nil
		}
	}

	return 0, errs.ErrUnknownType
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Suffix returns the file name suffix marking a compressed container,
// or "" for CompressionNone.
func (c CompressionType) Suffix() string {
	switch c {
	case CompressionZstd:
		return ".zst"
	case CompressionS2:
		return ".s2"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// CompressionFromName inspects the suffix of name and returns the matching
// compression together with name stripped of that suffix.
func CompressionFromName(name string) (CompressionType, string) {
	for _, c := range []CompressionType{CompressionZstd, CompressionS2, CompressionLZ4} {
		if s := c.Suffix(); strings.HasSuffix(strings.ToLower(name), s) {
			return c, name[:len(name)-len(s)]
		}
	}

	return CompressionNone, name
}
