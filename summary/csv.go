package summary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/v2pro/plz/countlog"
)

// csvNewline ends every CSV line.
const csvNewline = "\r\n"

// ExportCSV writes one row per timestep to the file at path. Parent
// directories are created.
//
// Parameters:
//   - path: Output file
//   - keys: General keys, one column each; unknown keys are skipped
//   - sep: Field separator, any non-empty string
//   - dateFmt: time.Format layout of the DATE column
func (s *Summary) ExportCSV(path string, keys []string, sep, dateFmt string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.WriteCSV(f, keys, sep, dateFmt); err != nil {
		f.Close()
		return fmt.Errorf("exporting %s: %w", path, err)
	}

	return f.Close()
}

// ExportCSVPatterns is ExportCSV for a shell quoted list of key patterns,
// such as `"WOPR:*" FOPT`.
func (s *Summary) ExportCSVPatterns(path, patterns, sep, dateFmt string) error {
	keys, err := s.idx.SelectMatchingList(patterns)
	if err != nil {
		return err
	}

	return s.ExportCSV(path, keys, sep, dateFmt)
}

// WriteCSV writes the rows of ExportCSV to w: the header, then one row per
// timestep. Days use a width of seven with two decimals and values keep six
// significant digits. Fields are written as is; no quoting is applied.
func (s *Summary) WriteCSV(w io.Writer, keys []string, sep, dateFmt string) error {
	return s.writeCSV(w, keys, sep, dateFmt, false)
}

// WriteReportCSV is WriteCSV with one row per report step, taken from the
// last timestep of the step. Report steps without timesteps produce no row.
func (s *Summary) WriteReportCSV(w io.Writer, keys []string, sep, dateFmt string) error {
	return s.writeCSV(w, keys, sep, dateFmt, true)
}

func (s *Summary) writeCSV(w io.Writer, keys []string, sep, dateFmt string, reportOnly bool) error {
	if sep == "" {
		return errors.New("empty CSV separator")
	}

	slots := make([]int, 0, len(keys))
	bw := bufio.NewWriter(w)
	bw.WriteString("DAYS" + sep + "DATE")
	for _, key := range keys {
		slot, err := s.idx.Slot(key)
		if err != nil {
			countlog.Warn("event!summary.csv key not found", "key", key)
			continue
		}
		slots = append(slots, slot)
		bw.WriteString(sep + key)
	}
	bw.WriteString(csvNewline)

	writeRow := func(ts int) {
		fmt.Fprintf(bw, "%7.2f", s.store.Days(ts))
		at := s.StartTime().Add(time.Duration(s.store.Seconds(ts) * float64(time.Second)))
		bw.WriteString(sep + at.Format(dateFmt))
		for _, slot := range slots {
			bw.WriteString(sep)
			if v, err := s.store.Get(ts, slot); err == nil {
				bw.WriteString(strconv.FormatFloat(v, 'g', 6, 64))
			}
		}
		bw.WriteString(csvNewline)
	}

	if reportOnly {
		for report := s.store.FirstReport(); report <= s.store.LastReport(); report++ {
			if _, last, ok := s.store.ReportStepRange(report); ok {
				writeRow(last)
			}
		}
	} else {
		for ts := 0; ts < s.store.Len(); ts++ {
			writeRow(ts)
		}
	}

	return bw.Flush()
}
