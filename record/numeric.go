package record

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/format"
	"github.com/equinor/resdata-sub001/internal/pool"
)

// Numeric operations work on REAL, DOUB and INTE records. REAL and DOUB
// values are widened to float64, combined with gonum/floats and narrowed back
// to the record type. INTE records use int32 arithmetic, which wraps on
// overflow; float operands of Shift, Scale and Fill are truncated toward
// zero and must fit in int32.

func (r *Record) requireNumeric() error {
	if !r.typ.IsNumeric() {
		return fmt.Errorf("numeric operation on %s record %q: %w", r.typ, r.name, errs.ErrTypeMismatch)
	}
	if !r.HasData() {
		return errs.ErrNoData
	}

	return nil
}

func (r *Record) loadFloat64(i int) float64 {
	switch r.typ {
	case format.TypeInte:
		return float64(load[int32](r.data, i))
	case format.TypeReal:
		return float64(load[float32](r.data, i))
	default:
		return load[float64](r.data, i)
	}
}

func (r *Record) storeFloat64(i int, v float64) {
	switch r.typ {
	case format.TypeReal:
		store(r.data, i, float32(v))
	default:
		store(r.data, i, v)
	}
}

func (r *Record) fillFloat64s(dst []float64) {
	for i := range dst {
		dst[i] = r.loadFloat64(i)
	}
}

func (r *Record) storeFloat64s(src []float64) {
	for i, v := range src {
		r.storeFloat64(i, v)
	}
}

// Float64At returns element i of a numeric record widened to float64.
func (r *Record) Float64At(i int) (float64, error) {
	if err := r.requireNumeric(); err != nil {
		return 0, err
	}
	if i < 0 || i >= r.count {
		return 0, fmt.Errorf("element %d of %d in %q: %w", i, r.count, r.name, errs.ErrIndexOutOfRange)
	}

	return r.loadFloat64(i), nil
}

// Float64s returns the elements of a REAL or DOUB record as float64.
func (r *Record) Float64s() ([]float64, error) {
	if r.typ != format.TypeReal && r.typ != format.TypeDoub {
		return nil, fmt.Errorf("float view of %s record %q: %w", r.typ, r.name, errs.ErrTypeMismatch)
	}
	if !r.HasData() {
		return nil, errs.ErrNoData
	}

	out := make([]float64, r.count)
	r.fillFloat64s(out)

	return out, nil
}

// Scalar returns the single element of a one-element numeric record.
func (r *Record) Scalar() (float64, error) {
	if err := r.requireNumeric(); err != nil {
		return 0, err
	}
	if r.count != 1 {
		return 0, fmt.Errorf("scalar of %d elements in %q: %w", r.count, r.name, errs.ErrCountMismatch)
	}

	return r.loadFloat64(0), nil
}

// inteOperand truncates v toward zero for use against an INTE record.
func inteOperand(v float64) (int32, error) {
	t := math.Trunc(v)
	if math.IsNaN(t) || t < math.MinInt32 || t > math.MaxInt32 {
		return 0, fmt.Errorf("operand %g outside INTE range: %w", v, errs.ErrRange)
	}

	return int32(t), nil
}

// Fill sets every element of a numeric record to v.
func (r *Record) Fill(v float64) error {
	if err := r.requireNumeric(); err != nil {
		return err
	}
	if r.typ == format.TypeInte {
		k, err := inteOperand(v)
		if err != nil {
			return err
		}
		for i := 0; i < r.count; i++ {
			store(r.data, i, k)
		}

		return nil
	}
	for i := 0; i < r.count; i++ {
		r.storeFloat64(i, v)
	}

	return nil
}

func (r *Record) reduce(fn func([]float64) float64) (float64, error) {
	if err := r.requireNumeric(); err != nil {
		return 0, err
	}
	if r.count == 0 {
		return 0, fmt.Errorf("empty record %q: %w", r.name, errs.ErrNoData)
	}

	values, cleanup := pool.GetFloat64Slice(r.count)
	defer cleanup()
	r.fillFloat64s(values)

	return fn(values), nil
}

// Min returns the smallest element.
func (r *Record) Min() (float64, error) { return r.reduce(floats.Min) }

// Max returns the largest element.
func (r *Record) Max() (float64, error) { return r.reduce(floats.Max) }

// Sum returns the sum of all elements.
func (r *Record) Sum() (float64, error) { return r.reduce(floats.Sum) }

func (r *Record) combine(other *Record, fn func(dst, s []float64), op func(a, b int32) int32) error {
	if err := r.requireNumeric(); err != nil {
		return err
	}
	if err := other.requireNumeric(); err != nil {
		return err
	}
	if r.typ != other.typ {
		return fmt.Errorf("%s with %s: %w", r.typ, other.typ, errs.ErrTypeMismatch)
	}
	if r.count != other.count {
		return fmt.Errorf("%d with %d elements: %w", r.count, other.count, errs.ErrCountMismatch)
	}

	if r.typ == format.TypeInte {
		for i := 0; i < r.count; i++ {
			store(r.data, i, op(load[int32](r.data, i), load[int32](other.data, i)))
		}

		return nil
	}

	dst, cleanDst := pool.GetFloat64Slice(r.count)
	defer cleanDst()
	src, cleanSrc := pool.GetFloat64Slice(other.count)
	defer cleanSrc()

	r.fillFloat64s(dst)
	other.fillFloat64s(src)
	fn(dst, src)
	r.storeFloat64s(dst)

	return nil
}

// Add adds other element-wise into r.
func (r *Record) Add(other *Record) error {
	return r.combine(other, floats.Add, func(a, b int32) int32 { return a + b })
}

// Sub subtracts other element-wise from r.
func (r *Record) Sub(other *Record) error {
	return r.combine(other, floats.Sub, func(a, b int32) int32 { return a - b })
}

// Mul multiplies r element-wise by other.
func (r *Record) Mul(other *Record) error {
	return r.combine(other, floats.Mul, func(a, b int32) int32 { return a * b })
}

// Div divides r element-wise by other. Integer division truncates; division
// by zero is an error and leaves r unchanged.
func (r *Record) Div(other *Record) error {
	if r.typ == format.TypeInte && other.typ == format.TypeInte && other.HasData() {
		for i := 0; i < other.count; i++ {
			if load[int32](other.data, i) == 0 {
				return fmt.Errorf("integer division by zero at element %d: %w", i, errs.ErrRange)
			}
		}
	}

	return r.combine(other, floats.Div, func(a, b int32) int32 { return a / b })
}

// Shift adds v to every element.
func (r *Record) Shift(v float64) error {
	return r.apply(v,
		func(values []float64) { floats.AddConst(v, values) },
		func(a, k int32) int32 { return a + k },
	)
}

// Scale multiplies every element by v.
func (r *Record) Scale(v float64) error {
	return r.apply(v,
		func(values []float64) { floats.Scale(v, values) },
		func(a, k int32) int32 { return a * k },
	)
}

func (r *Record) apply(v float64, fn func([]float64), op func(a, k int32) int32) error {
	if err := r.requireNumeric(); err != nil {
		return err
	}

	if r.typ == format.TypeInte {
		k, err := inteOperand(v)
		if err != nil {
			return err
		}
		for i := 0; i < r.count; i++ {
			store(r.data, i, op(load[int32](r.data, i), k))
		}

		return nil
	}

	values, cleanup := pool.GetFloat64Slice(r.count)
	defer cleanup()
	r.fillFloat64s(values)
	fn(values)
	r.storeFloat64s(values)

	return nil
}

// IsFinite reports whether every element of a REAL or DOUB record is finite.
func (r *Record) IsFinite() bool {
	if r.data == nil || (r.typ != format.TypeReal && r.typ != format.TypeDoub) {
		return true
	}
	for i := 0; i < r.count; i++ {
		v := r.loadFloat64(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
