package smspec

import (
	"fmt"
	"strings"
	"time"

	"github.com/v2pro/plz/countlog"

	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/format"
	"github.com/equinor/resdata-sub001/fortio"
	"github.com/equinor/resdata-sub001/record"
)

// Header record names.
const (
	RecIntehead = "INTEHEAD"
	RecRestart  = "RESTART"
	RecDimens   = "DIMENS"
	RecKeywords = "KEYWORDS"
	RecWGNames  = "WGNAMES"
	RecNames    = "NAMES"
	RecNums     = "NUMS"
	RecUnits    = "UNITS"
	RecStartDat = "STARTDAT"
	RecLGRs     = "LGRS"
	RecNumLX    = "NUMLX"
	RecNumLY    = "NUMLY"
	RecNumLZ    = "NUMLZ"
)

const (
	restartParts = 9
	simulatorID  = 100
)

// Read loads a header from the records of c and builds its index. Only the
// first record of every name is used.
//
// Parameters:
//   - c: Reading cursor positioned at the start of an SMSPEC container
//   - opts: Index options
//
// Returns:
//   - *Index: Header Index
//   - error: ErrMissingRecord when KEYWORDS, DIMENS or STARTDAT is absent,
//     format errors from the records
func Read(c *fortio.Cursor, opts ...Option) (*Index, error) {
	recs, err := record.ReadAll(c)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*record.Record, len(recs))
	for _, r := range recs {
		if _, ok := byName[r.Name()]; !ok {
			byName[r.Name()] = r
		}
	}

	in, err := inputFromRecords(byName)
	if err != nil {
		return nil, err
	}

	return Build(in, opts...)
}

func inputFromRecords(recs map[string]*record.Record) (Input, error) {
	var in Input

	kw, ok := recs[RecKeywords]
	if !ok {
		return in, fmt.Errorf("%s: %w", RecKeywords, errs.ErrMissingRecord)
	}
	keywords, err := kw.Strings()
	if err != nil {
		return in, fmt.Errorf("%s: %w", RecKeywords, err)
	}
	in.Keywords = keywords
	n := len(keywords)

	if in.Entities, err = optionalStrings(recs, n, RecWGNames, RecNames); err != nil {
		return in, err
	}
	if in.Units, err = optionalStrings(recs, n, RecUnits); err != nil {
		return in, err
	}
	if in.LGRs, err = optionalStrings(recs, n, RecLGRs); err != nil {
		return in, err
	}
	if in.Nums, err = optionalInts(recs, n, RecNums); err != nil {
		return in, err
	}
	if err := readLocalIJK(recs, n, &in); err != nil {
		return in, err
	}

	dimens, err := requiredInts(recs, RecDimens, 4)
	if err != nil {
		return in, err
	}
	in.Dims = [3]int{dimens[1], dimens[2], dimens[3]}
	if len(dimens) > 5 {
		in.RestartStep = dimens[5]
	}

	start, err := requiredInts(recs, RecStartDat, 3)
	if err != nil {
		return in, err
	}
	in.StartTime = startTime(start)

	if head, err := optionalInts(recs, -1, RecIntehead); err == nil && len(head) > 0 {
		in.UnitSystem = UnitSystem(head[0])
	}
	if r, ok := recs[RecRestart]; ok && r.Type() == format.TypeChar {
		in.RestartCase = strings.TrimSpace(string(r.Data()))
	}

	return in, nil
}

// startTime decodes STARTDAT: day, month, year and optionally hour, minute and
// microseconds into the minute.
func startTime(v []int) time.Time {
	var hour, minute, micros int
	if len(v) >= 6 {
		hour, minute, micros = v[3], v[4], v[5]
	}

	return time.Date(v[2], time.Month(v[1]), v[0], hour, minute, 0, 0, time.UTC).
		Add(time.Duration(micros) * time.Microsecond)
}

func optionalStrings(recs map[string]*record.Record, n int, names ...string) ([]string, error) {
	for _, name := range names {
		r, ok := recs[name]
		if !ok {
			continue
		}
		values, err := r.Strings()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if len(values) != n {
			return nil, fmt.Errorf("%s has %d entries for %d keywords: %w", name, len(values), n, errs.ErrParallelArrays)
		}

		return values, nil
	}

	return nil, nil
}

// optionalInts returns the INTE record name widened to int. A negative n
// skips the length check.
func optionalInts(recs map[string]*record.Record, n int, name string) ([]int, error) {
	r, ok := recs[name]
	if !ok {
		return nil, nil
	}
	values, err := record.Values[int32](r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if n >= 0 && len(values) != n {
		return nil, fmt.Errorf("%s has %d entries for %d keywords: %w", name, len(values), n, errs.ErrParallelArrays)
	}

	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}

	return out, nil
}

func requiredInts(recs map[string]*record.Record, name string, minLen int) ([]int, error) {
	if _, ok := recs[name]; !ok {
		return nil, fmt.Errorf("%s: %w", name, errs.ErrMissingRecord)
	}
	values, err := optionalInts(recs, -1, name)
	if err != nil {
		return nil, err
	}
	if len(values) < minLen {
		return nil, fmt.Errorf("%s has %d elements, need %d: %w", name, len(values), minLen, errs.ErrCountMismatch)
	}

	return values, nil
}

func readLocalIJK(recs map[string]*record.Record, n int, in *Input) error {
	var axes [3][]int
	for d, name := range []string{RecNumLX, RecNumLY, RecNumLZ} {
		values, err := optionalInts(recs, n, name)
		if err != nil {
			return err
		}
		if values == nil {
			return nil
		}
		axes[d] = values
	}

	in.LocalIJK = make([][3]int, n)
	for i := range in.LocalIJK {
		in.LocalIJK[i] = [3]int{axes[0][i], axes[1][i], axes[2][i]}
	}

	return nil
}

// Load opens the SMSPEC or FSMSPEC file at path and reads its index.
func Load(path string, opts ...Option) (*Index, error) {
	c, err := fortio.Open(path, fortio.ModeRead)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	idx, err := Read(c, opts...)
	if err != nil {
		countlog.Error("event!smspec.failed to load", "path", path, "err", err)
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	countlog.Info("event!smspec.loaded",
		"path", path, "params", idx.ParamsSize(), "nodes", len(idx.nodes), "dropped", idx.dropped)

	return idx, nil
}

// ==============================================================================
// Writing
// ==============================================================================

// Write writes the header records of idx to c. Rows are written as they were
// given to Build, dropped rows included, so PARAMS slots keep their meaning.
func (idx *Index) Write(c *fortio.Cursor) error {
	recs, err := idx.records()
	if err != nil {
		return err
	}
	for _, r := range recs {
		if err := r.Write(c); err != nil {
			return fmt.Errorf("writing %s: %w", r.Name(), err)
		}
	}

	return nil
}

// Save writes the header to a new file at path. The layout follows the file
// name unless set through opts.
func (idx *Index) Save(path string, opts ...fortio.Option) error {
	c, err := fortio.Open(path, fortio.ModeWrite, opts...)
	if err != nil {
		return err
	}
	if err := idx.Write(c); err != nil {
		c.Close()
		return err
	}

	return c.Close()
}

func (idx *Index) records() ([]*record.Record, error) {
	in := idx.input
	n := len(in.Keywords)

	var out []*record.Record
	add := func(r *record.Record, err error) error {
		if err != nil {
			return err
		}
		out = append(out, r)

		return nil
	}

	unit := in.UnitSystem
	if unit == 0 {
		unit = UnitsMetric
	}
	if err := add(record.FromInts(RecIntehead, []int32{int32(unit), simulatorID})); err != nil {
		return nil, err
	}
	if err := add(record.FromStrings(RecRestart, restartChunks(in.RestartCase))); err != nil {
		return nil, err
	}

	restartStep := -1
	if in.RestartCase != "" {
		restartStep = in.RestartStep
	}
	dimens := []int32{int32(n), int32(in.Dims[0]), int32(in.Dims[1]), int32(in.Dims[2]), 0, int32(restartStep)}
	if err := add(record.FromInts(RecDimens, dimens)); err != nil {
		return nil, err
	}
	if err := add(record.FromStrings(RecKeywords, in.Keywords)); err != nil {
		return nil, err
	}

	entities := make([]string, n)
	for i := range entities {
		entities[i] = DummyWell
		if e := at(in.Entities, i); e != "" {
			entities[i] = e
		}
	}
	if err := add(record.FromStrings(RecWGNames, entities)); err != nil {
		return nil, err
	}

	nums := make([]int32, n)
	for i := range nums {
		nums[i] = -1
		if in.Nums != nil {
			nums[i] = int32(in.Nums[i])
		}
	}
	if err := add(record.FromInts(RecNums, nums)); err != nil {
		return nil, err
	}

	if in.LGRs != nil {
		if err := idx.addLocalRecords(add); err != nil {
			return nil, err
		}
	}

	units := make([]string, n)
	copy(units, in.Units)
	if err := add(record.FromStrings(RecUnits, units)); err != nil {
		return nil, err
	}

	st := in.StartTime.UTC()
	micros := st.Second()*1_000_000 + st.Nanosecond()/1000
	startdat := []int32{int32(st.Day()), int32(st.Month()), int32(st.Year()), int32(st.Hour()), int32(st.Minute()), int32(micros)}
	if err := add(record.FromInts(RecStartDat, startdat)); err != nil {
		return nil, err
	}

	return out, nil
}

func (idx *Index) addLocalRecords(add func(*record.Record, error) error) error {
	in := idx.input
	if err := add(record.FromStrings(RecLGRs, in.LGRs)); err != nil {
		return err
	}

	names := []string{RecNumLX, RecNumLY, RecNumLZ}
	for d, name := range names {
		values := make([]int32, len(in.Keywords))
		if in.LocalIJK != nil {
			for i := range values {
				values[i] = int32(in.LocalIJK[i][d])
			}
		}
		if err := add(record.FromInts(name, values)); err != nil {
			return err
		}
	}

	return nil
}

// restartChunks splits a restart case name into the nine eight-character
// elements of the RESTART record. Names that do not fit are not recorded.
func restartChunks(name string) []string {
	out := make([]string, restartParts)
	if len(name) > restartParts*format.NameLength {
		countlog.Warn("event!smspec.restart case too long", "case", name)
		return out
	}
	for i := 0; i < restartParts && len(name) > 0; i++ {
		end := min(format.NameLength, len(name))
		out[i] = name[:end]
		name = name[end:]
	}

	return out
}
