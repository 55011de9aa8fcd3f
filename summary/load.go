package summary

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/v2pro/plz/countlog"

	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/format"
	"github.com/equinor/resdata-sub001/fortio"
	"github.com/equinor/resdata-sub001/internal/options"
	"github.com/equinor/resdata-sub001/record"
	"github.com/equinor/resdata-sub001/smspec"
)

// Data file record names.
const (
	RecSeqHdr   = "SEQHDR"
	RecMinistep = "MINISTEP"
	RecParams   = "PARAMS"
)

type loadConfig struct {
	restart    bool
	indexOpts  []smspec.Option
	cursorOpts []fortio.Option
	visited    map[string]bool
}

// LoadOption configures Load and LoadFiles.
type LoadOption = options.Option[*loadConfig]

// WithRestart makes Load follow the RESTART entry of the header and prepend
// the history of the case the run was restarted from.
func WithRestart(follow bool) LoadOption {
	return options.NoError(func(c *loadConfig) {
		c.restart = follow
	})
}

// WithIndexOptions passes options to the header index.
func WithIndexOptions(opts ...smspec.Option) LoadOption {
	return options.NoError(func(c *loadConfig) {
		c.indexOpts = append(c.indexOpts, opts...)
	})
}

// WithCursorOptions passes options, such as the byte order, to every cursor
// opened by the loader.
func WithCursorOptions(opts ...fortio.Option) LoadOption {
	return options.NoError(func(c *loadConfig) {
		c.cursorOpts = append(c.cursorOpts, opts...)
	})
}

// Load loads the summary case caseBase, a path without extension such as
// "run/CASE". The header is CASE.SMSPEC or CASE.FSMSPEC; the data is the
// unified CASE.UNSMRY / CASE.FUNSMRY when present, the split CASE.Snnnn /
// CASE.Annnn files otherwise. Compressed variants (".zst", ".s2", ".lz4")
// are found as well.
func Load(caseBase string, opts ...LoadOption) (*Summary, error) {
	caseBase = trimCaseExt(caseBase)

	header, formatted, err := findHeader(caseBase)
	if err != nil {
		return nil, err
	}
	data, err := findData(caseBase, formatted)
	if err != nil {
		return nil, err
	}

	return LoadFiles(header, data, opts...)
}

// LoadFiles loads a case from an explicit header file and data files. Split
// data files are read in report order; a unified file may be combined only
// with nothing else.
func LoadFiles(header string, data []string, opts ...LoadOption) (*Summary, error) {
	cfg := &loadConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return loadFiles(header, data, cfg)
}

func loadFiles(header string, data []string, cfg *loadConfig) (*Summary, error) {
	idx, err := loadIndex(header, cfg)
	if err != nil {
		return nil, err
	}

	files, err := orderDataFiles(data)
	if err != nil {
		return nil, err
	}

	store := NewStore(idx)
	report := 1
	if idx.RestartCase() != "" && idx.RestartStep() > 0 {
		report = idx.RestartStep() + 1
	}
	for _, f := range files {
		first := report
		if f.report >= 0 {
			first = f.report
		}

		fd, next, err := loadDataFile(f.path, idx, first, cfg)
		if err != nil {
			countlog.Error("event!summary.failed to load data", "path", f.path, "err", err)
			return nil, fmt.Errorf("loading %s: %w", f.path, err)
		}
		if err := store.AppendSegment(fd); err != nil {
			return nil, fmt.Errorf("loading %s: %w", f.path, err)
		}
		report = next
	}

	countlog.Info("event!summary.loaded",
		"header", header, "files", len(files), "steps", store.Len(), "params", idx.ParamsSize())

	sum := New(idx, store)
	if cfg.restart && idx.RestartCase() != "" {
		sum.restart = loadRestart(header, idx.RestartCase(), cfg)
		if sum.restart != nil {
			if err := store.AddCase(sum.restart.store); err != nil {
				countlog.Warn("event!summary.restart case not used", "case", idx.RestartCase(), "err", err)
				sum.restart = nil
			}
		}
	}

	return sum, nil
}

func loadIndex(path string, cfg *loadConfig) (*smspec.Index, error) {
	c, err := fortio.Open(path, fortio.ModeRead, cfg.cursorOpts...)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	idx, err := smspec.Read(c, cfg.indexOpts...)
	if err != nil {
		countlog.Error("event!summary.failed to load header", "path", path, "err", err)
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return idx, nil
}

// loadRestart loads the restart source case. A restart case that cannot be
// loaded is logged and skipped.
func loadRestart(header, restartCase string, cfg *loadConfig) *Summary {
	base := restartCase
	if !filepath.IsAbs(base) {
		base = filepath.Join(filepath.Dir(header), base)
	}
	base = filepath.Clean(base)

	if cfg.visited == nil {
		cfg.visited = make(map[string]bool)
	}
	cfg.visited[filepath.Clean(trimCaseExt(header))] = true
	if cfg.visited[base] {
		countlog.Warn("event!summary.restart cycle", "case", base)
		return nil
	}

	headerPath, formatted, err := findHeader(base)
	if err == nil {
		var data []string
		if data, err = findData(base, formatted); err == nil {
			var sum *Summary
			if sum, err = loadFiles(headerPath, data, cfg); err == nil {
				return sum
			}
		}
	}
	countlog.Warn("event!summary.restart case not loaded", "case", base, "err", err)

	return nil
}

func loadDataFile(path string, idx *smspec.Index, firstReport int, cfg *loadConfig) (*FileData, int, error) {
	c, err := fortio.Open(path, fortio.ModeRead, cfg.cursorOpts...)
	if err != nil {
		return nil, 0, err
	}
	defer c.Close()

	return readData(c, idx, firstReport)
}

// ReadData reads the SEQHDR, MINISTEP and PARAMS sequence of one data file.
// Every SEQHDR starts a new report step; the first one is numbered
// firstReport. Records of other names are skipped.
//
// Parameters:
//   - c: Reading cursor over a summary data container
//   - idx: Header index of the case
//   - firstReport: Report step of the first SEQHDR
//
// Returns:
//   - *FileData: Timesteps of the file
//   - error: ErrCountMismatch when a PARAMS vector does not match the header,
//     ErrNotMonotonic when time goes backwards, format errors otherwise
func ReadData(c *fortio.Cursor, idx *smspec.Index, firstReport int) (*FileData, error) {
	fd, _, err := readData(c, idx, firstReport)
	return fd, err
}

func readData(c *fortio.Cursor, idx *smspec.Index, firstReport int) (*FileData, int, error) {
	fd := NewFileData(idx)
	report := firstReport - 1
	ministep := -1

	for {
		h, err := record.ReadHeader(c)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		switch h.Name {
		case RecSeqHdr:
			report++
			if err := record.SkipData(c, h); err != nil {
				return nil, 0, err
			}
		case RecMinistep:
			r, err := readBody(c, h.Name, h.Count, h.Type)
			if err != nil {
				return nil, 0, err
			}
			v, err := record.At[int32](r, 0)
			if err != nil {
				return nil, 0, fmt.Errorf("%s: %w", RecMinistep, err)
			}
			ministep = int(v)
		case RecParams:
			if report < firstReport {
				report = firstReport
			}
			if err := readParams(c, fd, h.Count, h.Type, report, &ministep); err != nil {
				return nil, 0, err
			}
		default:
			if err := record.SkipData(c, h); err != nil {
				return nil, 0, err
			}
		}
	}

	return fd, report + 1, nil
}

func readBody(c *fortio.Cursor, name string, count int, typ format.DataType) (*record.Record, error) {
	r, err := record.New(name, count, typ)
	if err != nil {
		return nil, err
	}
	if err := r.ReadData(c); err != nil {
		return nil, err
	}

	return r, nil
}

func readParams(c *fortio.Cursor, fd *FileData, count int, typ format.DataType, report int, ministep *int) error {
	if count != fd.idx.ParamsSize() {
		return fmt.Errorf("%s has %d values for %d slots: %w", RecParams, count, fd.idx.ParamsSize(), errs.ErrCountMismatch)
	}

	r, err := readBody(c, RecParams, count, typ)
	if err != nil {
		return err
	}
	values, err := record.Values[float32](r)
	if err != nil {
		return fmt.Errorf("%s: %w", RecParams, err)
	}

	seconds, err := fd.secondsOf(values)
	if err != nil {
		return err
	}
	if *ministep < 0 {
		*ministep = fd.Len()
	}
	ts := &Timestep{Report: report, Ministep: *ministep, Seconds: seconds, Values: values}
	*ministep = -1

	return fd.append(ts)
}

// ==============================================================================
// File discovery
// ==============================================================================

type dataFile struct {
	path   string
	report int
}

func orderDataFiles(paths []string) ([]dataFile, error) {
	files := make([]dataFile, 0, len(paths))
	unified := 0
	for _, p := range paths {
		kind, _, report := format.InspectFileName(p)
		switch kind {
		case format.FileUnifiedSummary:
			unified++
			files = append(files, dataFile{path: p, report: -1})
		case format.FileSummary:
			files = append(files, dataFile{path: p, report: report})
		default:
			return nil, fmt.Errorf("%s is not a summary data file: %w", p, errs.ErrUnsupportedFile)
		}
	}
	if unified > 0 && len(files) > 1 {
		return nil, fmt.Errorf("unified and split data files mixed: %w", errs.ErrUnsupportedFile)
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].report < files[j].report })

	return files, nil
}

var compressionSuffixes = []string{"", ".zst", ".s2", ".lz4"}

func trimCaseExt(path string) string {
	_, stripped := format.CompressionFromName(path)
	switch kind, _, _ := format.InspectFileName(stripped); kind {
	case format.FileSummaryHeader, format.FileUnifiedSummary, format.FileSummary, format.FileData:
		return strings.TrimSuffix(stripped, filepath.Ext(stripped))
	default:
		return path
	}
}

func existing(base string) (string, bool) {
	for _, suffix := range compressionSuffixes {
		if _, err := os.Stat(base + suffix); err == nil {
			return base + suffix, true
		}
	}

	return "", false
}

func findHeader(caseBase string) (string, bool, error) {
	for _, formatted := range []bool{false, true} {
		name, err := format.FileName(caseBase, format.FileSummaryHeader, formatted, -1)
		if err != nil {
			return "", false, err
		}
		if path, ok := existing(name); ok {
			return path, formatted, nil
		}
	}

	return "", false, fmt.Errorf("no SMSPEC or FSMSPEC for case %s: %w", caseBase, os.ErrNotExist)
}

// findData prefers the layout of the header and the unified file.
func findData(caseBase string, formatted bool) ([]string, error) {
	for _, fmtd := range []bool{formatted, !formatted} {
		name, err := format.FileName(caseBase, format.FileUnifiedSummary, fmtd, -1)
		if err != nil {
			return nil, err
		}
		if path, ok := existing(name); ok {
			return []string{path}, nil
		}

		prefix := "S"
		if fmtd {
			prefix = "A"
		}
		var split []string
		for _, suffix := range compressionSuffixes {
			matches, err := filepath.Glob(caseBase + "." + prefix + "[0-9][0-9][0-9][0-9]" + suffix)
			if err != nil {
				return nil, err
			}
			split = append(split, matches...)
		}
		if len(split) > 0 {
			return split, nil
		}
	}

	return nil, fmt.Errorf("no summary data files for case %s: %w", caseBase, os.ErrNotExist)
}
