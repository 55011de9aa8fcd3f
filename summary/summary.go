package summary

import (
	"fmt"
	"time"

	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/smspec"
)

// Summary is a loaded case: its header index together with its store. Keys
// are general keys such as "WOPR:OP_1".
type Summary struct {
	idx     *smspec.Index
	store   *Store
	restart *Summary
}

// New combines a header index and the store built on it.
func New(idx *smspec.Index, store *Store) *Summary {
	return &Summary{idx: idx, store: store}
}

// Index returns the header index.
func (s *Summary) Index() *smspec.Index { return s.idx }

// Store returns the time-series store.
func (s *Summary) Store() *Store { return s.store }

// RestartCase returns the case whose history was prepended, or nil.
func (s *Summary) RestartCase() *Summary { return s.restart }

// Len returns the number of timesteps.
func (s *Summary) Len() int { return s.store.Len() }

// StartTime returns the case start.
func (s *Summary) StartTime() time.Time { return s.store.StartTime() }

// EndTime returns the time of the last timestep.
func (s *Summary) EndTime() time.Time { return s.store.EndTime() }

// SimLength returns the simulated days of the last timestep.
func (s *Summary) SimLength() float64 { return s.store.SimLength() }

// HasGeneralVar reports whether key names a variable of the case.
func (s *Summary) HasGeneralVar(key string) bool { return s.idx.Has(key) }

// GetGeneralVar returns the value of key at internal index timeIndex.
func (s *Summary) GetGeneralVar(timeIndex int, key string) (float64, error) {
	slot, err := s.idx.Slot(key)
	if err != nil {
		return 0, err
	}

	return s.store.Get(timeIndex, slot)
}

// GetFromSimTime returns the value of key at t, stepped for rates and
// interpolated for states.
func (s *Summary) GetFromSimTime(key string, t time.Time) (float64, error) {
	return s.query(key, s.store.secondsAt(t))
}

// GetFromSimDays returns the value of key at days after the case start.
func (s *Summary) GetFromSimDays(key string, days float64) (float64, error) {
	return s.query(key, days*secondsPerDay)
}

func (s *Summary) query(key string, sec float64) (float64, error) {
	n, err := s.idx.Get(key)
	if err != nil {
		return 0, err
	}

	return s.store.Query(sec, n.Slot, n.Rate)
}

// GetInterpVector returns the values of keys at days after the case start.
// The time brackets are located once for all keys; rates are stepped.
func (s *Summary) GetInterpVector(days float64, keys []string) ([]float64, error) {
	sec := days * secondsPerDay
	step, err := s.store.IndexFromSeconds(sec)
	if err != nil {
		return nil, err
	}
	i1, i2, w1, w2, err := s.store.InterpBrackets(sec)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(keys))
	for i, key := range keys {
		n, err := s.idx.Get(key)
		if err != nil {
			return nil, err
		}
		if n.Rate {
			out[i], err = s.store.Get(step, n.Slot)
		} else {
			out[i], err = s.store.Interp(i1, i2, w1, w2, n.Slot)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}

	return out, nil
}

// Vector returns the values of key at every timestep.
func (s *Summary) Vector(key string) ([]float64, error) {
	slot, err := s.idx.Slot(key)
	if err != nil {
		return nil, err
	}

	out := make([]float64, s.store.Len())
	for i := range out {
		if out[i], err = s.store.Get(i, slot); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Days returns the simulated days of every timestep.
func (s *Summary) Days() []float64 {
	out := make([]float64, s.store.Len())
	for i := range out {
		out[i] = s.store.Days(i)
	}

	return out
}

// ResampleVector projects key onto times. Times outside the simulated window
// clamp: rates to 0 and states to the first or last value.
func (s *Summary) ResampleVector(key string, times []time.Time) ([]float64, error) {
	n, err := s.idx.Get(key)
	if err != nil {
		return nil, err
	}

	secs := make([]float64, len(times))
	for i, t := range times {
		secs[i] = s.store.secondsAt(t)
	}

	return s.store.Resample(secs, n.Slot, n.Rate)
}

// CheckSimTime reports whether t lies inside the simulated window.
func (s *Summary) CheckSimTime(t time.Time) bool {
	_, err := s.store.IndexFromTime(t)
	return err == nil
}

// CheckSimDays reports whether days lies inside the simulated window.
func (s *Summary) CheckSimDays(days float64) bool {
	_, err := s.store.IndexFromSeconds(days * secondsPerDay)
	return err == nil
}

// WellList returns the sorted well names matching the glob pattern.
func (s *Summary) WellList(pattern string) []string { return s.idx.WellList(pattern) }

// GroupList returns the sorted group names matching the glob pattern.
func (s *Summary) GroupList(pattern string) []string { return s.idx.GroupList(pattern) }

// ReportEnd returns the internal index of the last timestep of report step
// step.
func (s *Summary) ReportEnd(step int) (int, error) {
	_, last, ok := s.store.ReportStepRange(step)
	if !ok {
		return -1, fmt.Errorf("report step %d: %w", step, errs.ErrIndexOutOfRange)
	}

	return last, nil
}
