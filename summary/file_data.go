package summary

import (
	"fmt"
	"time"

	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/smspec"
)

// FileData holds the timesteps read from, or destined for, the data files
// of one case. All timesteps share the header index of the case.
type FileData struct {
	idx   *smspec.Index
	steps []*Timestep
}

// NewFileData creates empty file data for the case described by idx.
func NewFileData(idx *smspec.Index) *FileData {
	return &FileData{idx: idx}
}

// Index returns the header index of the case.
func (fd *FileData) Index() *smspec.Index { return fd.idx }

// Len returns the number of timesteps.
func (fd *FileData) Len() int { return len(fd.steps) }

// Timestep returns timestep i.
func (fd *FileData) Timestep(i int) *Timestep { return fd.steps[i] }

// AddTimestep appends a timestep whose values start at the slot defaults.
// The TIME slot, and the DAY/MONTH/YEAR slots when present, are filled from
// seconds.
//
// Parameters:
//   - report: Report step, not lower than the previous timestep's
//   - ministep: Ministep number
//   - seconds: Simulated seconds, greater than the previous timestep's
//
// Returns:
//   - *Timestep: The new timestep, ready for Set
//   - error: ErrNotMonotonic when time or report step goes backwards
func (fd *FileData) AddTimestep(report, ministep int, seconds float64) (*Timestep, error) {
	values := make([]float32, fd.idx.ParamsSize())
	for _, n := range fd.idx.Nodes() {
		values[n.Slot] = n.Default
	}

	ts := &Timestep{Report: report, Ministep: ministep, Seconds: seconds, Values: values}
	if err := fd.append(ts); err != nil {
		return nil, err
	}

	if slot := fd.idx.TimeSlot(); slot >= 0 {
		values[slot] = float32(seconds / fd.idx.TimeUnitSeconds())
	}
	if day, month, year := fd.idx.DateSlots(); day >= 0 {
		at := fd.idx.StartTime().Add(time.Duration(seconds * float64(time.Second)))
		values[day] = float32(at.Day())
		values[month] = float32(at.Month())
		values[year] = float32(at.Year())
	}

	return ts, nil
}

func (fd *FileData) append(ts *Timestep) error {
	if len(ts.Values) != fd.idx.ParamsSize() {
		return fmt.Errorf("timestep has %d values for %d slots: %w", len(ts.Values), fd.idx.ParamsSize(), errs.ErrCountMismatch)
	}
	if n := len(fd.steps); n > 0 {
		if err := checkOrder(fd.steps[n-1].Seconds, fd.steps[n-1].Report, ts.Seconds, ts.Report); err != nil {
			return err
		}
	}
	fd.steps = append(fd.steps, ts)

	return nil
}

// secondsOf derives the simulated time of a PARAMS vector.
func (fd *FileData) secondsOf(values []float32) (float64, error) {
	if slot := fd.idx.TimeSlot(); slot >= 0 {
		return float64(values[slot]) * fd.idx.TimeUnitSeconds(), nil
	}

	day, month, year := fd.idx.DateSlots()
	if day < 0 {
		return 0, fmt.Errorf("no time variables: %w", errs.ErrMissingRecord)
	}
	at := time.Date(int(values[year]), time.Month(int(values[month])), int(values[day]), 0, 0, 0, 0, time.UTC)

	return at.Sub(fd.idx.StartTime()).Seconds(), nil
}

func checkOrder(prevSeconds float64, prevReport int, seconds float64, report int) error {
	if seconds <= prevSeconds {
		return fmt.Errorf("time %gs after %gs: %w", seconds, prevSeconds, errs.ErrNotMonotonic)
	}
	if report < prevReport {
		return fmt.Errorf("report step %d after %d: %w", report, prevReport, errs.ErrNotMonotonic)
	}

	return nil
}
