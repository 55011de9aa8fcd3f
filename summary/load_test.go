package summary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/equinor/resdata-sub001/endian"
	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/format"
	"github.com/equinor/resdata-sub001/fortio"
	"github.com/equinor/resdata-sub001/record"
	"github.com/equinor/resdata-sub001/smspec"
)

func writeCase(t *testing.T, base string, idx *smspec.Index, steps []step, opts ...WriterOption) *Writer {
	t.Helper()

	w, err := NewWriter(base, idx, opts...)
	require.NoError(t, err)
	for _, st := range steps {
		ts, err := w.AddTimestep(st.report, days(st.days))
		require.NoError(t, err)
		for key, v := range st.values {
			require.NoError(t, w.Set(ts, key, v))
		}
	}
	require.NoError(t, w.Flush())

	return w
}

// shortSteps carries values that survive the text layout unchanged.
var shortSteps = []step{
	{1, 0, map[string]float32{"FPR": 1, "FOPR": 2.5, "FOPT": 0, "WOPR:OP_1": 0.25}},
	{1, 10, map[string]float32{"FPR": 2.5, "FOPR": 1000, "FOPT": 25000, "WOPR:OP_1": 1}},
	{2, 20, map[string]float32{"FPR": 1000, "FOPR": 0.25, "FOPT": 25002.5, "WOPR:OP_1": 2.5}},
}

func requireShortSteps(t *testing.T, sum *Summary) {
	t.Helper()

	require.Equal(t, len(shortSteps), sum.Len())
	require.Equal(t, caseStart, sum.StartTime())
	require.Equal(t, []float64{0, 10, 20}, sum.Days())

	for i, st := range shortSteps {
		for key, want := range st.values {
			got, err := sum.GetGeneralVar(i, key)
			require.NoError(t, err)
			require.Equal(t, float64(want), got, "%s at %d", key, i)
		}
	}

	first, last, ok := sum.Store().ReportStepRange(1)
	require.True(t, ok)
	require.Equal(t, [2]int{0, 1}, [2]int{first, last})
}

// ==============================================================================
// Round trips
// ==============================================================================

func TestWriterLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		writeOpts []WriterOption
		loadOpts  []LoadOption
		header    string
		data      string
	}{
		{
			name:   "binary",
			header: "CASE.SMSPEC",
			data:   "CASE.UNSMRY",
		},
		{
			name:      "formatted",
			writeOpts: []WriterOption{WithFormattedOutput(true)},
			header:    "CASE.FSMSPEC",
			data:      "CASE.FUNSMRY",
		},
		{
			name:      "zstd",
			writeOpts: []WriterOption{WithOutputCompression(format.CompressionZstd)},
			header:    "CASE.SMSPEC.zst",
			data:      "CASE.UNSMRY.zst",
		},
		{
			name:      "lz4",
			writeOpts: []WriterOption{WithOutputCompression(format.CompressionLZ4)},
			header:    "CASE.SMSPEC.lz4",
			data:      "CASE.UNSMRY.lz4",
		},
		{
			name:      "little endian",
			writeOpts: []WriterOption{WithOutputEndian(endian.GetLittleEndianEngine())},
			loadOpts:  []LoadOption{WithCursorOptions(fortio.WithLittleEndian())},
			header:    "CASE.SMSPEC",
			data:      "CASE.UNSMRY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "CASE")
			w := writeCase(t, base, testIndex(t), shortSteps, tt.writeOpts...)

			header, data, err := w.Paths()
			require.NoError(t, err)
			require.Equal(t, filepath.Join(filepath.Dir(base), tt.header), header)
			require.Equal(t, filepath.Join(filepath.Dir(base), tt.data), data)
			require.FileExists(t, header)
			require.FileExists(t, data)

			sum, err := Load(base, tt.loadOpts...)
			require.NoError(t, err)
			requireShortSteps(t, sum)

			// A file name of the case is accepted as well.
			sum, err = Load(header, tt.loadOpts...)
			require.NoError(t, err)
			require.Equal(t, len(shortSteps), sum.Len())
		})
	}
}

func TestSplitFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "CASE")
	idx := testIndex(t)
	require.NoError(t, idx.Save(base+".SMSPEC"))

	writeSplit := func(report int, steps ...step) string {
		path, err := format.FileName(base, format.FileSummary, false, report)
		require.NoError(t, err)

		c, err := fortio.Open(path, fortio.ModeWrite)
		require.NoError(t, err)
		require.NoError(t, WriteData(c, fileData(t, idx, steps...)))
		require.NoError(t, c.Close())

		return path
	}

	// Written out of order on purpose; the loader sorts by report number.
	s3 := writeSplit(3,
		step{3, 20, map[string]float32{"FPR": 3}},
		step{3, 30, map[string]float32{"FPR": 4}},
	)
	s1 := writeSplit(1,
		step{1, 0, map[string]float32{"FPR": 1}},
		step{1, 10, map[string]float32{"FPR": 2}},
	)

	check := func(t *testing.T, sum *Summary) {
		require.Equal(t, 4, sum.Len())
		require.Len(t, sum.Store().Segments(), 2)

		fpr, err := sum.Vector("FPR")
		require.NoError(t, err)
		require.Equal(t, []float64{1, 2, 3, 4}, fpr)

		_, _, ok := sum.Store().ReportStepRange(2)
		require.False(t, ok)
		end, err := sum.ReportEnd(3)
		require.NoError(t, err)
		require.Equal(t, 3, end)
		_, err = sum.ReportEnd(2)
		require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	}

	t.Run("load", func(t *testing.T) {
		sum, err := Load(base)
		require.NoError(t, err)
		check(t, sum)
	})

	t.Run("load files", func(t *testing.T) {
		sum, err := LoadFiles(base+".SMSPEC", []string{s3, s1})
		require.NoError(t, err)
		check(t, sum)
	})
}

func TestParamsCountMismatch(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "CASE")
	idx := testIndex(t)
	require.NoError(t, idx.Save(base+".SMSPEC"))

	c, err := fortio.Open(base+".UNSMRY", fortio.ModeWrite)
	require.NoError(t, err)
	seqhdr, err := record.FromInts(RecSeqHdr, []int32{0})
	require.NoError(t, err)
	require.NoError(t, seqhdr.Write(c))
	params, err := record.FromFloats(RecParams, []float32{0, 1})
	require.NoError(t, err)
	require.NoError(t, params.Write(c))
	require.NoError(t, c.Close())

	_, err = Load(base)
	require.ErrorIs(t, err, errs.ErrCountMismatch)
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "CASE")

	_, err := Load(base)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, testIndex(t).Save(base+".SMSPEC"))
	_, err = Load(base)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// ==============================================================================
// Restart cases
// ==============================================================================

func TestLoadRestart(t *testing.T) {
	dir := t.TempDir()

	writeCase(t, filepath.Join(dir, "BASE"), testIndex(t), []step{
		{1, 0, map[string]float32{"FPR": 100}},
		{2, 10, map[string]float32{"FPR": 110}},
		{3, 20, map[string]float32{"FPR": 120}},
		{4, 30, map[string]float32{"FPR": 130}},
		{5, 40, map[string]float32{"FPR": 140}},
	})

	in := testIndex(t).Input()
	in.RestartCase = "BASE"
	in.RestartStep = 3
	rstIdx, err := smspec.Build(in)
	require.NoError(t, err)
	// The writer numbers steps from the restart; the loader offsets the
	// unified file's reports by the restart step.
	writeCase(t, filepath.Join(dir, "RST"), rstIdx, []step{
		{1, 30, map[string]float32{"FPR": 230}},
		{2, 40, map[string]float32{"FPR": 240}},
		{3, 50, map[string]float32{"FPR": 250}},
	})

	t.Run("without history", func(t *testing.T) {
		sum, err := Load(filepath.Join(dir, "RST"))
		require.NoError(t, err)
		require.Equal(t, 3, sum.Len())
		require.Nil(t, sum.RestartCase())
		require.Equal(t, 4, sum.Store().FirstReport())
		require.Equal(t, 30.0, sum.Store().DaysStart())
		require.True(t, sum.CheckSimDays(25))
		require.False(t, sum.CheckSimDays(51))
	})

	t.Run("with history", func(t *testing.T) {
		sum, err := Load(filepath.Join(dir, "RST"), WithRestart(true))
		require.NoError(t, err)
		require.NotNil(t, sum.RestartCase())
		require.Equal(t, 6, sum.Len())
		require.Equal(t, []float64{0, 10, 20, 30, 40, 50}, sum.Days())

		fpr, err := sum.Vector("FPR")
		require.NoError(t, err)
		require.Equal(t, []float64{100, 110, 120, 230, 240, 250}, fpr)

		v, err := sum.GetFromSimDays("FPR", 5)
		require.NoError(t, err)
		require.InDelta(t, 105, v, 1e-9)

		require.Equal(t, 1, sum.Store().FirstReport())
		require.Equal(t, 6, sum.Store().LastReport())
	})

	t.Run("missing restart case", func(t *testing.T) {
		in.RestartCase = "GONE"
		lostIdx, err := smspec.Build(in)
		require.NoError(t, err)
		writeCase(t, filepath.Join(dir, "LOST"), lostIdx, []step{{report: 1, days: 30}})

		sum, err := Load(filepath.Join(dir, "LOST"), WithRestart(true))
		require.NoError(t, err)
		require.Nil(t, sum.RestartCase())
		require.Equal(t, 1, sum.Len())
	})
}

// ==============================================================================
// File discovery
// ==============================================================================

func TestOrderDataFiles(t *testing.T) {
	files, err := orderDataFiles([]string{"CASE.S0010", "CASE.S0002", "CASE.S0003.zst"})
	require.NoError(t, err)
	require.Equal(t, []dataFile{
		{"CASE.S0002", 2},
		{"CASE.S0003.zst", 3},
		{"CASE.S0010", 10},
	}, files)

	_, err = orderDataFiles([]string{"CASE.UNSMRY", "CASE.S0001"})
	require.ErrorIs(t, err, errs.ErrUnsupportedFile)

	_, err = orderDataFiles([]string{"CASE.EGRID"})
	require.ErrorIs(t, err, errs.ErrUnsupportedFile)
}

func TestTrimCaseExt(t *testing.T) {
	tests := map[string]string{
		"run/CASE":            "run/CASE",
		"run/CASE.SMSPEC":     "run/CASE",
		"run/CASE.FUNSMRY":    "run/CASE",
		"run/CASE.UNSMRY.zst": "run/CASE",
		"run/CASE.S0004":      "run/CASE",
		"run/CASE.DATA":       "run/CASE",
		"run/CASE.EGRID":      "run/CASE.EGRID",
	}
	for in, want := range tests {
		require.Equal(t, want, trimCaseExt(in), in)
	}
}

func TestWriterErrors(t *testing.T) {
	idx := testIndex(t)

	_, err := NewWriter("CASE", idx, WithOutputEndian(nil))
	require.Error(t, err)

	_, err = NewWriter("CASE", idx, WithOutputCompression(format.CompressionType(99)))
	require.Error(t, err)

	w, err := NewWriter("CASE", idx)
	require.NoError(t, err)
	ts, err := w.AddTimestep(1, days(1))
	require.NoError(t, err)
	require.ErrorIs(t, w.Set(ts, "WOPR:NOPE", 1), errs.ErrKeyNotFound)

	_, err = w.AddTimestep(1, days(1))
	require.ErrorIs(t, err, errs.ErrNotMonotonic)

	require.Same(t, idx, w.Index())
	require.Equal(t, 1, w.Len())
}
