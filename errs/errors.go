// Package errs defines the sentinel errors shared by every resdata package.
//
// Errors fall into four kinds. Each specific error wraps exactly one kind, so
// callers can test either the precise cause or the broad category:
//
//	if errors.Is(err, errs.ErrFatalFormat) {
//		// the container is corrupt, abandon the load
//	}
//	if errors.Is(err, errs.ErrTruncated) {
//		// ... and specifically it ended mid-record
//	}
package errs

import "errors"

// Error kinds.
var (
	// ErrFatalFormat marks malformed or truncated container content. The format
	// has no resync mechanism, so a load that hits it must be abandoned.
	ErrFatalFormat = errors.New("fatal format error")
	// ErrLookup marks an absent key, slot or index. Callers may recover.
	ErrLookup = errors.New("lookup error")
	// ErrRange marks a time or index outside its valid bound.
	ErrRange = errors.New("range error")
	// ErrSizeMismatch marks operands of incompatible type or length.
	ErrSizeMismatch = errors.New("size mismatch")
)

// kindError is a specific error that also matches its kind through errors.Is.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newKind(kind error, msg string) error {
	return &kindError{msg: msg, kind: kind}
}

// Format errors.
var (
	ErrTruncated       = newKind(ErrFatalFormat, "unexpected end of container")
	ErrMarkerMismatch  = newKind(ErrFatalFormat, "record length markers do not match")
	ErrInvalidHeader   = newKind(ErrFatalFormat, "invalid record header")
	ErrUnknownType     = newKind(ErrFatalFormat, "unknown element type")
	ErrNameTooLong     = newKind(ErrFatalFormat, "record name longer than 8 characters")
	ErrNegativeCount   = newKind(ErrFatalFormat, "negative element count")
	ErrBadElement      = newKind(ErrFatalFormat, "unparsable element")
	ErrBlockSize       = newKind(ErrFatalFormat, "data block has unexpected size")
	ErrRecordNotFound  = newKind(ErrFatalFormat, "record not found")
	ErrMissingRecord   = newKind(ErrFatalFormat, "required record missing")
	ErrNotWritable     = newKind(ErrFatalFormat, "cursor is not open for writing")
	ErrNotReadable     = newKind(ErrFatalFormat, "cursor is not open for reading")
	ErrUnsupportedFile = newKind(ErrFatalFormat, "unsupported container file")
	ErrNotSeekable     = newKind(ErrFatalFormat, "cursor does not support seeking")
	ErrClosed          = newKind(ErrFatalFormat, "cursor is closed")
	ErrCorruptData     = newKind(ErrFatalFormat, "compressed container is corrupt")
)

// Lookup errors.
var (
	ErrKeyNotFound  = newKind(ErrLookup, "key not found")
	ErrUnmappedSlot = newKind(ErrLookup, "slot not available in this segment")
	ErrNoData       = newKind(ErrLookup, "record has no data")
	ErrNoTimesteps  = newKind(ErrLookup, "no timesteps loaded")
)

// Range errors.
var (
	ErrTimeOutOfRange  = newKind(ErrRange, "time outside simulated window")
	ErrIndexOutOfRange = newKind(ErrRange, "index out of range")
	ErrNotMonotonic    = newKind(ErrRange, "timesteps are not monotonic")
	ErrSeekOutOfRange  = newKind(ErrRange, "seek position out of range")
)

// Size errors.
var (
	ErrTypeMismatch   = newKind(ErrSizeMismatch, "element type mismatch")
	ErrCountMismatch  = newKind(ErrSizeMismatch, "element count mismatch")
	ErrBorrowedBuffer = newKind(ErrSizeMismatch, "cannot reallocate a borrowed buffer")
	ErrParallelArrays = newKind(ErrSizeMismatch, "parallel header arrays differ in length")
)
