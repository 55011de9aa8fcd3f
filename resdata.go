// Package resdata reads and writes the summary output of reservoir
// simulations: the SMSPEC header, which names every reported variable, and
// the UNSMRY or Snnnn data files, which hold one PARAMS vector per saved
// timestep.
//
// # Core Features
//
//   - Binary (big or little endian) and formatted text containers
//   - Optional whole-file compression (Zstd, S2, LZ4) chosen by file suffix
//   - General key lookups such as "WOPR:OP_1", "RPR:3" and "BPR:5,5,1"
//   - Linear interpolation of state variables and step lookups of rates
//   - Restarted cases stitched onto the history they restarted from
//   - CSV export per report step
//
// # Basic Usage
//
// Loading a case and querying it:
//
//	sum, err := resdata.Open("run/CASE")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, err := sum.GetFromSimDays("WOPR:OP_1", 365)
//
// Writing a case:
//
//	idx, _ := smspec.Build(smspec.Input{
//	    Keywords:  []string{"TIME", "FOPR"},
//	    Units:     []string{"DAYS", "SM3/DAY"},
//	    StartTime: start,
//	})
//	w, _ := resdata.NewWriter("out/CASE", idx)
//	ts, _ := w.AddTimestep(1, 86400)
//	w.Set(ts, "FOPR", 1250)
//	w.Flush()
//
// # Package Structure
//
// This package provides convenience wrappers around the summary and smspec
// packages. The record and fortio packages give access to the keyword
// records and containers underneath.
package resdata

import (
	"github.com/equinor/resdata-sub001/smspec"
	"github.com/equinor/resdata-sub001/summary"
)

// Open loads the summary case caseBase, a case path with or without one of
// its file extensions.
//
// Parameters:
//   - caseBase: Case path such as "run/CASE" or "run/CASE.SMSPEC"
//   - opts: Loader options (see summary.LoadOption)
//
// Returns:
//   - *summary.Summary: The loaded case
//   - error: os.ErrNotExist when the header or data files are missing, the
//     first read error otherwise
func Open(caseBase string, opts ...summary.LoadOption) (*summary.Summary, error) {
	return summary.Load(caseBase, opts...)
}

// OpenWithHistory is Open with the restart chain followed, so the returned
// case starts at the beginning of the earliest run found.
func OpenWithHistory(caseBase string, opts ...summary.LoadOption) (*summary.Summary, error) {
	return summary.Load(caseBase, append(opts, summary.WithRestart(true))...)
}

// OpenHeader loads only the header index of a case from the SMSPEC or
// FSMSPEC file at path.
func OpenHeader(path string, opts ...smspec.Option) (*smspec.Index, error) {
	return smspec.Load(path, opts...)
}

// NewWriter creates a writer for a new case with the variables of idx. The
// default output is binary, big-endian and uncompressed.
//
// Example:
//
//	w, err := resdata.NewWriter("out/CASE", idx,
//	    summary.WithOutputCompression(format.CompressionZstd),
//	)
func NewWriter(caseBase string, idx *smspec.Index, opts ...summary.WriterOption) (*summary.Writer, error) {
	return summary.NewWriter(caseBase, idx, opts...)
}
