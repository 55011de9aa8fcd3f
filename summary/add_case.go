package summary

import (
	"fmt"
	"sort"

	"github.com/v2pro/plz/countlog"

	"github.com/equinor/resdata-sub001/errs"
)

// AddCase prepends the history of the case this store was restarted from.
// The timesteps of restart that lie strictly before the first timestep of s
// are viewed by new segments whose slots are remapped into the layout of s.
//
// Parameters:
//   - restart: Store of the restart source case
//
// Returns:
//   - error: ErrNoTimesteps when either store is empty, ErrTimeOutOfRange when
//     restart has nothing before the first timestep of s
func (s *Store) AddCase(restart *Store) error {
	if s.Len() == 0 || restart.Len() == 0 {
		return fmt.Errorf("adding restart case: %w", errs.ErrNoTimesteps)
	}

	shift := restart.idx.StartTime().Sub(s.idx.StartTime()).Seconds()
	start := s.times[0]
	cut := sort.Search(restart.Len(), func(i int) bool {
		return restart.times[i]+shift >= start
	}) - 1
	if cut < 0 {
		return fmt.Errorf("restart case starts at day %g, not before day %g: %w",
			(restart.times[0]+shift)/secondsPerDay, start/secondsPerDay, errs.ErrTimeOutOfRange)
	}

	var top []int
	if restart.idx.Fingerprint() != s.idx.Fingerprint() {
		top = s.idx.Remap(restart.idx)
	}

	var prefix []*Segment
	for _, rs := range restart.segments {
		if rs.first > cut {
			break
		}
		n := min(rs.Last(), cut) - rs.first + 1
		prefix = append(prefix, &Segment{
			data:   rs.data,
			steps:  rs.steps[:n],
			remap:  compose(top, rs.remap),
			offset: rs.offset + shift,
		})
	}

	previous := s.segments
	s.segments = append(prefix, previous...)
	if err := s.RebuildIndex(); err != nil {
		s.segments = previous
		if rerr := s.RebuildIndex(); rerr != nil {
			return rerr
		}

		return fmt.Errorf("adding restart case: %w", err)
	}

	countlog.Debug("event!summary.added restart case",
		"steps", cut+1, "segments", len(prefix), "remapped", top != nil)

	return nil
}

// compose chains two slot maps; nil stands for the identity.
func compose(outer, inner []int) []int {
	if outer == nil {
		return inner
	}
	if inner == nil {
		return outer
	}

	out := make([]int, len(outer))
	for i, o := range outer {
		out[i] = -1
		if o >= 0 && o < len(inner) {
			out[i] = inner[o]
		}
	}

	return out
}

// Resample projects slot onto the time axis secs. Unlike Query it never
// fails for times outside the simulated window: before the first and after
// the last timestep a rate is 0 and a state keeps the first or last value.
func (s *Store) Resample(secs []float64, slot int, isRate bool) ([]float64, error) {
	if s.Len() == 0 {
		return nil, errs.ErrNoTimesteps
	}

	first, last := s.times[0], s.times[len(s.times)-1]
	out := make([]float64, len(secs))
	for i, t := range secs {
		var (
			v   float64
			err error
		)
		switch {
		case t < first && isRate, t > last && isRate:
			v = 0
		case t < first:
			v, err = s.Get(0, slot)
		case t > last:
			v, err = s.Get(s.Len()-1, slot)
		default:
			v, err = s.Query(t, slot, isRate)
		}
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}
