package endian

// Flip reverses the byte order of every width-sized element of buf in place.
// Widths of 0 or 1 leave buf untouched. A trailing partial element is ignored.
func Flip(buf []byte, width int) {
	switch width {
	case 0, 1:
		return
	case 4:
		for i := 0; i+4 <= len(buf); i += 4 {
			buf[i], buf[i+1], buf[i+2], buf[i+3] = buf[i+3], buf[i+2], buf[i+1], buf[i]
		}
	case 8:
		for i := 0; i+8 <= len(buf); i += 8 {
			e := buf[i : i+8 : i+8]
			e[0], e[1], e[2], e[3], e[4], e[5], e[6], e[7] = e[7], e[6], e[5], e[4], e[3], e[2], e[1], e[0]
		}
	default:
		for i := 0; i+width <= len(buf); i += width {
			e := buf[i : i+width]
			for l, r := 0, width-1; l < r; l, r = l+1, r-1 {
				e[l], e[r] = e[r], e[l]
			}
		}
	}
}

// WithFlipped runs fn with buf flipped to the opposite byte order when flip is
// true. The original order is restored before WithFlipped returns, whatever fn
// returns and even if fn panics.
//
// Parameters:
//   - buf: Element buffer, modified in place for the duration of fn
//   - width: Element width in bytes
//   - flip: Whether a flip is needed at all
//   - fn: Operation observing the flipped buffer
//
// Returns:
//   - error: The error returned by fn
func WithFlipped(buf []byte, width int, flip bool, fn func() error) error {
	if !flip || width <= 1 || len(buf) == 0 {
		return fn()
	}

	Flip(buf, width)
	defer Flip(buf, width)

	return fn()
}
