package section

import "github.com/equinor/resdata-sub001/format"

// Binary framing sizes in bytes.
const (
	MarkerSize       = 4                     // size of one length marker
	RecordHeaderSize = 16                    // payload size of a header frame
	FrameOverhead    = 2 * MarkerSize        // markers around every payload
	NameOffset       = 0                     // name field offset in the header payload
	CountOffset      = format.NameLength     // count field offset
	TypeOffset       = format.NameLength + 4 // type tag offset
)

// Text layout.
const (
	// TextHeaderFormat renders name, count and type tag of a text header line.
	TextHeaderFormat = " '%-8s' %11d '%-4s'\n"

	TextTrue  = 'T'
	TextFalse = 'F'

	// DoubleExponentMarker separates mantissa and exponent of DOUB elements.
	DoubleExponentMarker = 'D'
	// RealExponentMarker separates mantissa and exponent of REAL elements.
	RealExponentMarker = 'E'
)

// TextElementFormat returns the printf layout of a single element of typ in
// the text container. REAL and DOUB layouts take a decomposed mantissa and
// exponent.
func TextElementFormat(typ format.DataType) string {
	switch typ {
	case format.TypeChar:
		return " '%-8s'"
	case format.TypeReal:
		return "  %11.8fE%+03d"
	case format.TypeDoub:
		return "  %17.14fD%+03d"
	case format.TypeInte:
		return " %11d"
	case format.TypeLogi:
		return "  %c"
	case format.TypeMess:
		return "%s"
	default:
		return ""
	}
}
