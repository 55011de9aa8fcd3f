// Package record implements the Record Codec: named, typed, fixed-length
// arrays ("keyword records") and their encoding in binary and text containers.
//
// A Record holds its elements in a byte buffer in host byte order. The
// buffer length always equals Count() × Type().Width(). Records normally own
// their buffer; NewShared wraps caller memory instead, and any operation that
// would have to reallocate such a borrowed buffer fails with
// errs.ErrBorrowedBuffer.
//
// # Reading
//
//	cursor, _ := fortio.Open("CASE.SMSPEC", fortio.ModeRead)
//	defer cursor.Close()
//	for {
//		rec, err := record.Read(cursor)
//		if errors.Is(err, io.EOF) {
//			break
//		}
//		if err != nil {
//			return err
//		}
//		fmt.Println(rec.Name(), rec.Type(), rec.Count())
//	}
//
// # Element Access
//
//	values, err := record.Values[float32](rec) // REAL records
//	v, err := record.At[int32](rec, 3)          // INTE records
//	name, err := rec.StringAt(0)                // CHAR records
package record

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/equinor/resdata-sub001/endian"
	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/format"
	"github.com/equinor/resdata-sub001/section"
)

var native = endian.GetNativeEngine()

// Record is one keyword record.
type Record struct {
	name  string
	count int
	typ   format.DataType
	data  []byte
	owned bool
}

// New creates an owned record with a zero-initialised buffer. CHAR elements
// start out as blanks.
func New(name string, count int, typ format.DataType) (*Record, error) {
	r := &Record{owned: true}
	if err := r.SetHeader(name, count, typ); err != nil {
		return nil, err
	}
	if err := r.AllocData(); err != nil {
		return nil, err
	}

	return r, nil
}

// NewShared creates a record that borrows buf as its element storage.
// The record never reallocates buf; buf must outlive the record's use of it.
//
// Returns:
//   - *Record: Record viewing buf
//   - error: ErrCountMismatch if buf does not hold a whole number of elements,
//     ErrTypeMismatch for MESS records
func NewShared(name string, typ format.DataType, buf []byte) (*Record, error) {
	width := typ.Width()
	if width == 0 {
		return nil, fmt.Errorf("shared %s record: %w", typ, errs.ErrTypeMismatch)
	}
	if len(buf)%width != 0 {
		return nil, fmt.Errorf("shared buffer of %d bytes for %s elements: %w", len(buf), typ, errs.ErrCountMismatch)
	}

	r := &Record{}
	if err := r.SetHeader(name, len(buf)/width, typ); err != nil {
		return nil, err
	}
	r.data = buf

	return r, nil
}

// SetHeader sets name, element count and element type. The buffer is kept
// when its size still fits, otherwise it is released (owned records) or the
// call fails (borrowed records).
//
// Returns:
//   - error: ErrNameTooLong, ErrNegativeCount, ErrUnknownType or ErrBorrowedBuffer
func (r *Record) SetHeader(name string, count int, typ format.DataType) error {
	h := section.RecordHeader{Name: name, Count: count, Type: typ}
	if err := h.Validate(); err != nil {
		return fmt.Errorf("record %q: %w", name, err)
	}

	size := count * typ.Width()
	if r.data != nil && len(r.data) != size {
		if !r.owned {
			return errs.ErrBorrowedBuffer
		}
		r.data = nil
	}
	if r.data == nil {
		r.owned = true
	}

	r.name = section.TrimName(name)
	r.count = count
	r.typ = typ

	return nil
}

// AllocData allocates the element buffer if it is missing.
func (r *Record) AllocData() error {
	size := r.count * r.typ.Width()
	if r.data != nil && len(r.data) == size {
		return nil
	}
	if r.data != nil && !r.owned {
		return errs.ErrBorrowedBuffer
	}

	r.data = make([]byte, size)
	r.owned = true
	if r.typ == format.TypeChar {
		for i := range r.data {
			r.data[i] = ' '
		}
	}

	return nil
}

// commit installs a freshly decoded buffer. Borrowed buffers receive a copy.
func (r *Record) commit(buf []byte) error {
	if r.data != nil && !r.owned {
		if len(r.data) != len(buf) {
			return errs.ErrBorrowedBuffer
		}
		copy(r.data, buf)

		return nil
	}

	r.data = buf
	r.owned = true

	return nil
}

// FreeData releases the element buffer while keeping the header. A borrowed
// buffer is only dereferenced.
func (r *Record) FreeData() {
	r.data = nil
	r.owned = true
}

// Name returns the record name without padding.
func (r *Record) Name() string { return r.name }

// Count returns the number of elements.
func (r *Record) Count() int { return r.count }

// Type returns the element type.
func (r *Record) Type() format.DataType { return r.typ }

// Header returns the record header.
func (r *Record) Header() section.RecordHeader {
	return section.RecordHeader{Name: r.name, Count: r.count, Type: r.typ}
}

// Data returns the element buffer in host byte order.
func (r *Record) Data() []byte { return r.data }

// HasData reports whether the element buffer is present.
func (r *Record) HasData() bool {
	return r.data != nil || r.count*r.typ.Width() == 0
}

// IsShared reports whether the buffer is borrowed from the caller.
func (r *Record) IsShared() bool { return !r.owned }

// Equal reports whether both records have the same name, count, type and
// byte-identical data.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}

	return r.name == other.name &&
		r.count == other.count &&
		r.typ == other.typ &&
		bytes.Equal(r.data, other.data)
}

func (r *Record) String() string {
	return fmt.Sprintf("%-8s %6d %s", r.name, r.count, r.typ)
}

func (r *Record) check(i int, typ format.DataType) error {
	if r.typ != typ {
		return fmt.Errorf("%s element of %s record %q: %w", typ, r.typ, r.name, errs.ErrTypeMismatch)
	}
	if i < 0 || i >= r.count {
		return fmt.Errorf("element %d of %d in %q: %w", i, r.count, r.name, errs.ErrIndexOutOfRange)
	}
	if r.data == nil {
		return errs.ErrNoData
	}

	return nil
}

// ==============================================================================
// Generic numeric access
// ==============================================================================

// Element is the set of Go types that map onto numeric record types.
type Element interface {
	int32 | float32 | float64
}

func typeOf[T Element]() format.DataType {
	var zero T
	switch any(zero).(type) {
	case int32:
		return format.TypeInte
	case float32:
		return format.TypeReal
	default:
		return format.TypeDoub
	}
}

func load[T Element](data []byte, i int) T {
	var zero T
	switch any(zero).(type) {
	case int32:
		return T(int32(native.Uint32(data[i*4:])))
	case float32:
		return T(math.Float32frombits(native.Uint32(data[i*4:])))
	default:
		return T(math.Float64frombits(native.Uint64(data[i*8:])))
	}
}

func store[T Element](data []byte, i int, v T) {
	switch x := any(v).(type) {
	case int32:
		native.PutUint32(data[i*4:], uint32(x))
	case float32:
		native.PutUint32(data[i*4:], math.Float32bits(x))
	case float64:
		native.PutUint64(data[i*8:], math.Float64bits(x))
	}
}

// At returns element i of a record whose type matches T
// (int32 for INTE, float32 for REAL, float64 for DOUB).
func At[T Element](r *Record, i int) (T, error) {
	if err := r.check(i, typeOf[T]()); err != nil {
		return 0, err
	}

	return load[T](r.data, i), nil
}

// SetAt sets element i of a record whose type matches T.
func SetAt[T Element](r *Record, i int, v T) error {
	if err := r.check(i, typeOf[T]()); err != nil {
		return err
	}
	store(r.data, i, v)

	return nil
}

// Values copies all elements of a record whose type matches T.
func Values[T Element](r *Record) ([]T, error) {
	if r.typ != typeOf[T]() {
		return nil, fmt.Errorf("%s values of %s record %q: %w", typeOf[T](), r.typ, r.name, errs.ErrTypeMismatch)
	}
	if !r.HasData() {
		return nil, errs.ErrNoData
	}

	out := make([]T, r.count)
	for i := range out {
		out[i] = load[T](r.data, i)
	}

	return out, nil
}

// FromValues creates an owned numeric record holding values.
func FromValues[T Element](name string, values []T) (*Record, error) {
	r, err := New(name, len(values), typeOf[T]())
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		store(r.data, i, v)
	}

	return r, nil
}

// FromInts creates an INTE record.
func FromInts(name string, values []int32) (*Record, error) { return FromValues(name, values) }

// FromFloats creates a REAL record.
func FromFloats(name string, values []float32) (*Record, error) { return FromValues(name, values) }

// FromDoubles creates a DOUB record.
func FromDoubles(name string, values []float64) (*Record, error) { return FromValues(name, values) }

// ==============================================================================
// Booleans and strings
// ==============================================================================

// BoolAt returns element i of a LOGI record.
func (r *Record) BoolAt(i int) (bool, error) {
	if err := r.check(i, format.TypeLogi); err != nil {
		return false, err
	}

	return native.Uint32(r.data[i*4:]) != 0, nil
}

// SetBool sets element i of a LOGI record.
func (r *Record) SetBool(i int, v bool) error {
	if err := r.check(i, format.TypeLogi); err != nil {
		return err
	}
	native.PutUint32(r.data[i*4:], boolBits(v))

	return nil
}

var logiTrue int32 = format.LogiTrueBinary

func boolBits(v bool) uint32 {
	if v {
		return uint32(logiTrue)
	}

	return format.LogiFalseBinary
}

// Bools copies all elements of a LOGI record.
func (r *Record) Bools() ([]bool, error) {
	out := make([]bool, r.count)
	for i := range out {
		v, err := r.BoolAt(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// FromBools creates a LOGI record.
func FromBools(name string, values []bool) (*Record, error) {
	r, err := New(name, len(values), format.TypeLogi)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		native.PutUint32(r.data[i*4:], boolBits(v))
	}

	return r, nil
}

// StringAt returns element i of a CHAR record without trailing blanks.
func (r *Record) StringAt(i int) (string, error) {
	if err := r.check(i, format.TypeChar); err != nil {
		return "", err
	}

	return section.TrimName(string(r.data[i*format.NameLength : (i+1)*format.NameLength])), nil
}

// SetString sets element i of a CHAR record, padding it to eight characters.
func (r *Record) SetString(i int, v string) error {
	if err := r.check(i, format.TypeChar); err != nil {
		return err
	}
	if len(v) > format.NameLength {
		return fmt.Errorf("string %q: %w", v, errs.ErrNameTooLong)
	}
	copy(r.data[i*format.NameLength:], section.PadName(v))

	return nil
}

// Strings copies all elements of a CHAR record.
func (r *Record) Strings() ([]string, error) {
	out := make([]string, r.count)
	for i := range out {
		v, err := r.StringAt(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// FromStrings creates a CHAR record. Every value must fit in eight characters.
func FromStrings(name string, values []string) (*Record, error) {
	r, err := New(name, len(values), format.TypeChar)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if err := r.SetString(i, strings.TrimRight(v, " ")); err != nil {
			return nil, err
		}
	}

	return r, nil
}
