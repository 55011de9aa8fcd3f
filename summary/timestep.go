package summary

import (
	"fmt"

	"github.com/equinor/resdata-sub001/errs"
)

const secondsPerDay = 86400

// Timestep is one saved simulator state: the PARAMS vector of one ministep.
type Timestep struct {
	// Report is the report step the ministep belongs to.
	Report int
	// Ministep is the ministep number, counted across the whole run.
	Ministep int
	// Seconds is the simulated time since the case start.
	Seconds float64
	// Values holds one value per header slot.
	Values []float32
}

// Days returns the simulated time in days.
func (ts *Timestep) Days() float64 {
	return ts.Seconds / secondsPerDay
}

// Get returns the value of slot.
func (ts *Timestep) Get(slot int) (float32, error) {
	if slot < 0 || slot >= len(ts.Values) {
		return 0, fmt.Errorf("slot %d of %d: %w", slot, len(ts.Values), errs.ErrIndexOutOfRange)
	}

	return ts.Values[slot], nil
}

// Set sets the value of slot.
func (ts *Timestep) Set(slot int, v float32) error {
	if slot < 0 || slot >= len(ts.Values) {
		return fmt.Errorf("slot %d of %d: %w", slot, len(ts.Values), errs.ErrIndexOutOfRange)
	}
	ts.Values[slot] = v

	return nil
}
