// Package summary implements the Time-Series Store of a summary case and the
// loaders and writers of its data files.
//
// A Store concatenates the timesteps of one or more segments into one dense
// sequence addressed by internal index. Internal indices are contiguous and
// zero based; report steps may have holes. Values are looked up by index and
// slot, located by simulated time with a binary search, and interpolated
// between two timesteps.
//
// Rates, quantities that apply over the interval ending at a timestep, are
// queried as a step function. States are interpolated linearly.
//
// A Store is not safe for concurrent mutation.
package summary

import (
	"fmt"
	"sort"
	"time"

	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/smspec"
)

// Segment is the run of timesteps one file or case contributes to a Store.
type Segment struct {
	data   *FileData
	steps  []*Timestep
	first  int
	remap  []int
	offset float64
}

// Data returns the file data the segment views.
func (sg *Segment) Data() *FileData { return sg.data }

// First returns the internal index of the first timestep.
func (sg *Segment) First() int { return sg.first }

// Last returns the internal index of the last timestep.
func (sg *Segment) Last() int { return sg.first + len(sg.steps) - 1 }

// Len returns the number of timesteps.
func (sg *Segment) Len() int { return len(sg.steps) }

// Remap returns the slot map of a segment read with another header, or nil
// when the segment uses the store's own slot layout.
func (sg *Segment) Remap() []int { return sg.remap }

func (sg *Segment) source(slot int) (int, error) {
	if sg.remap == nil {
		return slot, nil
	}
	if src := sg.remap[slot]; src >= 0 {
		return src, nil
	}

	return -1, fmt.Errorf("slot %d: %w", slot, errs.ErrUnmappedSlot)
}

// Store is the Time-Series Store of one case.
type Store struct {
	idx      *smspec.Index
	segments []*Segment

	steps   []*Timestep
	times   []float64 // seconds since the case start, per internal index
	reports map[int][2]int

	firstReport int
	lastReport  int
}

// NewStore creates an empty store for the case described by idx.
func NewStore(idx *smspec.Index) *Store {
	return &Store{
		idx:     idx,
		reports: make(map[int][2]int),
	}
}

// Index returns the header index whose slot layout the store answers in.
func (s *Store) Index() *smspec.Index { return s.idx }

// Len returns the number of timesteps.
func (s *Store) Len() int { return len(s.steps) }

// Segments returns the segments in time order.
func (s *Store) Segments() []*Segment { return s.segments }

// AppendSegment appends the timesteps of fd after the existing ones.
//
// Timesteps read with a header other than the store's are remapped by general
// key; slots the other header does not carry become unavailable.
//
// Returns:
//   - error: ErrNotMonotonic when fd starts at or before the current end, or
//     its first report step precedes the current last one
func (s *Store) AppendSegment(fd *FileData) error {
	if fd.Len() == 0 {
		return nil
	}

	seg := &Segment{
		data:   fd,
		steps:  fd.steps,
		offset: fd.idx.StartTime().Sub(s.idx.StartTime()).Seconds(),
	}
	if fd.idx != s.idx && fd.idx.Fingerprint() != s.idx.Fingerprint() {
		seg.remap = s.idx.Remap(fd.idx)
	}

	if err := s.index(seg); err != nil {
		return err
	}
	s.segments = append(s.segments, seg)

	return nil
}

// index appends the timesteps of seg to the flat arrays.
func (s *Store) index(seg *Segment) error {
	if n := len(s.steps); n > 0 {
		first := seg.steps[0]
		if err := checkOrder(s.times[n-1], s.steps[n-1].Report, first.Seconds+seg.offset, first.Report); err != nil {
			return err
		}
	}

	seg.first = len(s.steps)
	for _, ts := range seg.steps {
		k := len(s.steps)
		s.steps = append(s.steps, ts)
		s.times = append(s.times, ts.Seconds+seg.offset)

		if rng, ok := s.reports[ts.Report]; ok {
			rng[1] = k
			s.reports[ts.Report] = rng
		} else {
			s.reports[ts.Report] = [2]int{k, k}
		}
	}

	s.firstReport = s.steps[0].Report
	s.lastReport = s.steps[len(s.steps)-1].Report

	return nil
}

// RebuildIndex recomputes the internal indices, times and report step ranges
// from the segment list.
func (s *Store) RebuildIndex() error {
	segments := s.segments
	s.segments = nil
	s.steps = nil
	s.times = nil
	s.reports = make(map[int][2]int)
	s.firstReport, s.lastReport = 0, 0

	for _, seg := range segments {
		if err := s.index(seg); err != nil {
			return err
		}
		s.segments = append(s.segments, seg)
	}

	return nil
}

// ==============================================================================
// Lookups
// ==============================================================================

// Get returns the value of slot at internal index timeIndex.
//
// Returns:
//   - float64: Stored value
//   - error: ErrIndexOutOfRange for a bad index or slot, ErrUnmappedSlot when
//     the owning segment does not carry the slot
func (s *Store) Get(timeIndex, slot int) (float64, error) {
	if timeIndex < 0 || timeIndex >= len(s.steps) {
		return 0, fmt.Errorf("time index %d of %d: %w", timeIndex, len(s.steps), errs.ErrIndexOutOfRange)
	}
	if slot < 0 || slot >= s.idx.ParamsSize() {
		return 0, fmt.Errorf("slot %d of %d: %w", slot, s.idx.ParamsSize(), errs.ErrIndexOutOfRange)
	}

	src, err := s.segmentOf(timeIndex).source(slot)
	if err != nil {
		return 0, err
	}
	values := s.steps[timeIndex].Values
	if src >= len(values) {
		return 0, fmt.Errorf("slot %d: %w", slot, errs.ErrUnmappedSlot)
	}

	return float64(values[src]), nil
}

func (s *Store) segmentOf(timeIndex int) *Segment {
	i := sort.Search(len(s.segments), func(i int) bool {
		return s.segments[i].Last() >= timeIndex
	})

	return s.segments[i]
}

// Timestep returns the timestep at internal index i.
func (s *Store) Timestep(i int) (*Timestep, error) {
	if i < 0 || i >= len(s.steps) {
		return nil, fmt.Errorf("time index %d of %d: %w", i, len(s.steps), errs.ErrIndexOutOfRange)
	}

	return s.steps[i], nil
}

// Seconds returns the simulated seconds of internal index i.
func (s *Store) Seconds(i int) float64 { return s.times[i] }

// Days returns the simulated days of internal index i.
func (s *Store) Days(i int) float64 { return s.times[i] / secondsPerDay }

// IndexFromSeconds returns the smallest internal index whose time is not
// before sec.
//
// Returns:
//   - int: Internal index
//   - error: ErrNoTimesteps for an empty store, ErrTimeOutOfRange when sec is
//     before the case start or after the last timestep
func (s *Store) IndexFromSeconds(sec float64) (int, error) {
	if len(s.times) == 0 {
		return 0, errs.ErrNoTimesteps
	}

	lo, hi := min(0, s.times[0]), s.times[len(s.times)-1]
	if sec < lo || sec > hi {
		return 0, fmt.Errorf("%g days outside [%g, %g]: %w", sec/secondsPerDay, lo/secondsPerDay, hi/secondsPerDay, errs.ErrTimeOutOfRange)
	}

	return sort.SearchFloat64s(s.times, sec), nil
}

// IndexFromTime is IndexFromSeconds for a calendar time.
func (s *Store) IndexFromTime(t time.Time) (int, error) {
	return s.IndexFromSeconds(s.secondsAt(t))
}

func (s *Store) secondsAt(t time.Time) float64 {
	return t.Sub(s.idx.StartTime()).Seconds()
}

// InterpBrackets returns the two timesteps around sec and their linear
// weights. At or before the first timestep both indices are 0 with weights
// 1 and 0.
func (s *Store) InterpBrackets(sec float64) (i1, i2 int, w1, w2 float64, err error) {
	idx, err := s.IndexFromSeconds(sec)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if idx == 0 {
		return 0, 0, 1, 0, nil
	}

	t1, t2 := s.times[idx-1], s.times[idx]
	w1 = (t2 - sec) / (t2 - t1)
	w2 = (sec - t1) / (t2 - t1)

	return idx - 1, idx, w1, w2, nil
}

// Interp combines the values of slot at i1 and i2 with weights w1 and w2.
func (s *Store) Interp(i1, i2 int, w1, w2 float64, slot int) (float64, error) {
	v1, err := s.Get(i1, slot)
	if err != nil {
		return 0, err
	}
	if i1 == i2 {
		return v1, nil
	}

	v2, err := s.Get(i2, slot)
	if err != nil {
		return 0, err
	}

	return w1*v1 + w2*v2, nil
}

// Query returns the value of slot at sec. A rate takes the value of the
// timestep whose interval contains sec; a state is interpolated.
func (s *Store) Query(sec float64, slot int, isRate bool) (float64, error) {
	if isRate {
		idx, err := s.IndexFromSeconds(sec)
		if err != nil {
			return 0, err
		}

		return s.Get(idx, slot)
	}

	i1, i2, w1, w2, err := s.InterpBrackets(sec)
	if err != nil {
		return 0, err
	}

	return s.Interp(i1, i2, w1, w2, slot)
}

// ReportStepRange returns the first and last internal index of report step
// step.
func (s *Store) ReportStepRange(step int) (first, last int, ok bool) {
	rng, ok := s.reports[step]
	if !ok {
		return -1, -1, false
	}

	return rng[0], rng[1], true
}

// FirstReport returns the report step of the first timestep.
func (s *Store) FirstReport() int { return s.firstReport }

// LastReport returns the report step of the last timestep.
func (s *Store) LastReport() int { return s.lastReport }

// ==============================================================================
// Window
// ==============================================================================

// StartTime returns the case start.
func (s *Store) StartTime() time.Time { return s.idx.StartTime() }

// EndTime returns the time of the last timestep.
func (s *Store) EndTime() time.Time {
	if len(s.times) == 0 {
		return s.StartTime()
	}

	return s.StartTime().Add(time.Duration(s.times[len(s.times)-1] * float64(time.Second)))
}

// DaysStart returns the simulated days of the first timestep.
func (s *Store) DaysStart() float64 {
	if len(s.times) == 0 {
		return 0
	}

	return s.times[0] / secondsPerDay
}

// SimLength returns the simulated days of the last timestep.
func (s *Store) SimLength() float64 {
	if len(s.times) == 0 {
		return 0
	}

	return s.times[len(s.times)-1] / secondsPerDay
}

// ==============================================================================
// Bulk operations
// ==============================================================================

// Scale multiplies slot by factor in every timestep. Timesteps shared with
// another store change there as well.
func (s *Store) Scale(slot int, factor float64) error {
	return s.apply(slot, func(v float32) float32 { return float32(float64(v) * factor) })
}

// Shift adds addend to slot in every timestep.
func (s *Store) Shift(slot int, addend float64) error {
	return s.apply(slot, func(v float32) float32 { return float32(float64(v) + addend) })
}

func (s *Store) apply(slot int, fn func(float32) float32) error {
	if slot < 0 || slot >= s.idx.ParamsSize() {
		return fmt.Errorf("slot %d of %d: %w", slot, s.idx.ParamsSize(), errs.ErrIndexOutOfRange)
	}

	for _, seg := range s.segments {
		src, err := seg.source(slot)
		if err != nil {
			continue
		}
		for _, ts := range seg.steps {
			if src < len(ts.Values) {
				ts.Values[src] = fn(ts.Values[src])
			}
		}
	}

	return nil
}
