// Package smspec implements the Header Index: the variable directory of a
// summary case, read from and written to the SMSPEC header file.
//
// Every header row describes one slot of the PARAMS vectors stored in the
// data files. Build classifies each row by its keyword, validates its well or
// group name and NUMS qualifier, and installs the accepted rows under their
// general keys ("WOPR:OP_1", "RPR:3", "BPR:5,5,1") and under typed lookups.
// Rows that cannot be classified are dropped and counted.
//
// An Index is immutable after Build and may be shared between goroutines.
package smspec

import (
	"fmt"
	"sort"
	"time"

	"github.com/v2pro/plz/countlog"

	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/internal/collision"
	"github.com/equinor/resdata-sub001/internal/options"
)

// UnitSystem is the unit system declared in INTEHEAD.
type UnitSystem int32

const (
	UnitsMetric UnitSystem = 1 // UnitsMetric is the METRIC unit system.
	UnitsField  UnitSystem = 2 // UnitsField is the FIELD unit system.
	UnitsLab    UnitSystem = 3 // UnitsLab is the LAB unit system.
	UnitsPVTM   UnitSystem = 4 // UnitsPVTM is the PVT-M unit system.
)

func (u UnitSystem) String() string {
	switch u {
	case UnitsMetric:
		return "METRIC"
	case UnitsField:
		return "FIELD"
	case UnitsLab:
		return "LAB"
	case UnitsPVTM:
		return "PVT-M"
	default:
		return "Unknown"
	}
}

// Time variables.
const (
	TimeKeyword  = "TIME"
	DayKeyword   = "DAY"
	MonthKeyword = "MONTH"
	YearKeyword  = "YEAR"

	secondsPerDay  = 86400
	secondsPerHour = 3600
)

// Input holds the parallel header arrays and case metadata Build works from.
// Entities, Nums, Units, LGRs and LocalIJK are optional; when present they
// must have one entry per keyword.
type Input struct {
	Keywords []string
	Entities []string
	Nums     []int
	Units    []string
	LGRs     []string
	LocalIJK [][3]int

	Dims        [3]int
	StartTime   time.Time
	UnitSystem  UnitSystem
	RestartCase string
	RestartStep int
}

type config struct {
	join string
}

// Option configures Build, Read and Load.
type Option = options.Option[*config]

// WithKeyJoin sets the separator of general keys. The default is ":".
func WithKeyJoin(sep string) Option {
	return options.New(func(c *config) error {
		if sep == "" {
			return fmt.Errorf("empty key separator")
		}
		c.join = sep

		return nil
	})
}

// Index is the Header Index of one case.
type Index struct {
	input Input
	join  string

	nodes   []*Node       // accepted nodes in slot order
	bySlot  map[int]*Node // slot -> node
	genKeys map[string]*Node
	byKey   map[Key]*Node
	keys    *collision.Tracker
	dropped int

	wells       map[string]map[string]*Node
	groups      map[string]map[string]*Node
	regions     map[int]map[string]*Node
	blocks      map[int]map[string]*Node
	completions map[string]map[int]map[string]*Node
	fields      map[string]*Node
	misc        map[string]*Node

	timeSlot        int
	daySlot         int
	monthSlot       int
	yearSlot        int
	timeUnitSeconds float64
}

// Build classifies the header rows of in and builds the index.
//
// Parameters:
//   - in: Header arrays and case metadata
//   - opts: Index options
//
// Returns:
//   - *Index: Header Index
//   - error: ErrParallelArrays for arrays of different length, ErrMissingRecord
//     if neither TIME nor DAY/MONTH/YEAR variables are present
func Build(in Input, opts ...Option) (*Index, error) {
	cfg := &config{join: ":"}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if err := checkParallel(in); err != nil {
		return nil, err
	}

	idx := &Index{
		input:       in,
		join:        cfg.join,
		bySlot:      make(map[int]*Node),
		genKeys:     make(map[string]*Node),
		byKey:       make(map[Key]*Node),
		keys:        collision.NewTracker(),
		wells:       make(map[string]map[string]*Node),
		groups:      make(map[string]map[string]*Node),
		regions:     make(map[int]map[string]*Node),
		blocks:      make(map[int]map[string]*Node),
		completions: make(map[string]map[int]map[string]*Node),
		fields:      make(map[string]*Node),
		misc:        make(map[string]*Node),
		timeSlot:    -1,
		daySlot:     -1,
		monthSlot:   -1,
		yearSlot:    -1,
	}

	for slot, keyword := range in.Keywords {
		entity := at(in.Entities, slot)
		num := -1
		if in.Nums != nil {
			num = in.Nums[slot]
		}

		typ := ValidType(keyword, entity, num)
		if typ == VarInvalid {
			idx.dropped++
			countlog.Debug("event!smspec.dropped row",
				"slot", slot, "keyword", keyword, "entity", entity, "num", num)

			continue
		}

		var node *Node
		if typ.IsLocal() {
			var ijk [3]int
			if in.LocalIJK != nil {
				ijk = in.LocalIJK[slot]
			}
			node = newLocalNode(slot, typ, keyword, entity, at(in.Units, slot), at(in.LGRs, slot), ijk, cfg.join)
		} else {
			if num < 0 {
				num = 0
			}
			node = newNode(slot, typ, keyword, entity, num, at(in.Units, slot), in.Dims, cfg.join)
		}
		idx.insert(node)
	}

	if err := idx.resolveTime(); err != nil {
		return nil, err
	}

	return idx, nil
}

func at(values []string, i int) string {
	if values == nil {
		return ""
	}

	return values[i]
}

func checkParallel(in Input) error {
	n := len(in.Keywords)
	lengths := map[string]int{
		"entities":  len(in.Entities),
		"nums":      len(in.Nums),
		"units":     len(in.Units),
		"lgrs":      len(in.LGRs),
		"local ijk": len(in.LocalIJK),
	}
	present := map[string]bool{
		"entities":  in.Entities != nil,
		"nums":      in.Nums != nil,
		"units":     in.Units != nil,
		"lgrs":      in.LGRs != nil,
		"local ijk": in.LocalIJK != nil,
	}
	for name, l := range lengths {
		if present[name] && l != n {
			return fmt.Errorf("%d keywords, %d %s: %w", n, l, name, errs.ErrParallelArrays)
		}
	}

	return nil
}

func (idx *Index) insert(n *Node) {
	idx.nodes = append(idx.nodes, n)
	idx.bySlot[n.Slot] = n
	idx.byKey[n.Key()] = n

	for _, key := range n.genKeys {
		if dup, _ := idx.keys.Track(key); dup {
			countlog.Debug("event!smspec.duplicate key", "key", key, "slot", n.Slot)
		}
		idx.genKeys[key] = n
	}

	kw := n.Keyword
	switch n.Type {
	case VarWell:
		nested(idx.wells, n.Entity)[kw] = n
	case VarGroup:
		nested(idx.groups, n.Entity)[kw] = n
	case VarRegion:
		nested(idx.regions, n.Num)[kw] = n
	case VarBlock:
		nested(idx.blocks, n.Num)[kw] = n
	case VarCompletion:
		byNum, ok := idx.completions[n.Entity]
		if !ok {
			byNum = make(map[int]map[string]*Node)
			idx.completions[n.Entity] = byNum
		}
		nested(byNum, n.Num)[kw] = n
	case VarField:
		idx.fields[kw] = n
	case VarMisc:
		idx.misc[kw] = n
	}
}

func nested[K comparable](m map[K]map[string]*Node, key K) map[string]*Node {
	inner, ok := m[key]
	if !ok {
		inner = make(map[string]*Node)
		m[key] = inner
	}

	return inner
}

func (idx *Index) resolveTime() error {
	if n, ok := idx.misc[TimeKeyword]; ok {
		idx.timeSlot = n.Slot
		switch n.Unit {
		case "HOURS":
			idx.timeUnitSeconds = secondsPerHour
		default:
			idx.timeUnitSeconds = secondsPerDay
		}
	}

	day, okDay := idx.misc[DayKeyword]
	month, okMonth := idx.misc[MonthKeyword]
	year, okYear := idx.misc[YearKeyword]
	if okDay && okMonth && okYear {
		idx.daySlot, idx.monthSlot, idx.yearSlot = day.Slot, month.Slot, year.Slot
	}

	if idx.timeSlot < 0 && idx.daySlot < 0 {
		return fmt.Errorf("no TIME or DAY/MONTH/YEAR variables: %w", errs.ErrMissingRecord)
	}

	return nil
}

// ==============================================================================
// Metadata
// ==============================================================================

// StartTime returns the simulation start.
func (idx *Index) StartTime() time.Time { return idx.input.StartTime }

// Dims returns the grid dimensions nx, ny, nz.
func (idx *Index) Dims() [3]int { return idx.input.Dims }

// UnitSystem returns the declared unit system.
func (idx *Index) UnitSystem() UnitSystem { return idx.input.UnitSystem }

// RestartCase returns the case this run restarted from, or "".
func (idx *Index) RestartCase() string { return idx.input.RestartCase }

// RestartStep returns the report step this run restarted from. It is only
// meaningful when RestartCase is set.
func (idx *Index) RestartStep() int { return idx.input.RestartStep }

// ParamsSize returns the number of slots in every PARAMS record, dropped
// rows included.
func (idx *Index) ParamsSize() int { return len(idx.input.Keywords) }

// Dropped returns the number of header rows that were not accepted.
func (idx *Index) Dropped() int { return idx.dropped }

// TimeSlot returns the slot of the TIME variable, or -1.
func (idx *Index) TimeSlot() int { return idx.timeSlot }

// TimeUnitSeconds returns the length of one TIME unit in seconds.
func (idx *Index) TimeUnitSeconds() float64 { return idx.timeUnitSeconds }

// DateSlots returns the DAY, MONTH and YEAR slots, or -1 when absent.
func (idx *Index) DateSlots() (int, int, int) {
	return idx.daySlot, idx.monthSlot, idx.yearSlot
}

// KeyJoin returns the general key separator.
func (idx *Index) KeyJoin() string { return idx.join }

// Nodes returns the accepted nodes in slot order.
func (idx *Index) Nodes() []*Node { return idx.nodes }

// Node returns the node of slot.
func (idx *Index) Node(slot int) (*Node, bool) {
	n, ok := idx.bySlot[slot]
	return n, ok
}

// Keys returns every general key in sorted order.
func (idx *Index) Keys() []string {
	keys := make([]string, 0, len(idx.genKeys))
	for k := range idx.genKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// HasCollision reports whether two distinct general keys shared a hash ID.
func (idx *Index) HasCollision() bool { return idx.keys.HasCollision() }

// DuplicateKeys returns how many general keys were installed more than once.
func (idx *Index) DuplicateKeys() int { return idx.keys.Duplicates() }

// Input returns the header arrays the index was built from.
func (idx *Index) Input() Input { return idx.input }
