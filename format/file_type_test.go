package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInspectFileName(t *testing.T) {
	cases := []struct {
		name      string
		kind      FileType
		formatted bool
		report    int
	}{
		{"CASE.UNSMRY", FileUnifiedSummary, false, -1},
		{"case.funsmry", FileUnifiedSummary, true, -1},
		{"/data/CASE.SMSPEC", FileSummaryHeader, false, -1},
		{"CASE.FSMSPEC", FileSummaryHeader, true, -1},
		{"CASE.S0004", FileSummary, false, 4},
		{"CASE.A0012", FileSummary, true, 12},
		{"CASE.X0100", FileRestart, false, 100},
		{"CASE.F0001", FileRestart, true, 1},
		{"CASE.EGRID", FileEGrid, false, -1},
		{"CASE.DATA", FileData, true, -1},
		{"CASE.UNSMRY.lz4", FileUnifiedSummary, false, -1},
		{"CASE.SXYZ", FileOther, false, -1},
		{"CASE", FileOther, false, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, formatted, report := InspectFileName(tc.name)
			require.Equal(t, tc.kind, kind)
			require.Equal(t, tc.report, report)
			if kind != FileOther {
				require.Equal(t, tc.formatted, formatted)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	name, err := FileName("CASE", FileSummary, false, 4)
	require.NoError(t, err)
	require.Equal(t, "CASE.S0004", name)

	name, err = FileName("CASE", FileSummary, true, 17)
	require.NoError(t, err)
	require.Equal(t, "CASE.A0017", name)

	name, err = FileName("out/CASE", FileUnifiedSummary, true, -1)
	require.NoError(t, err)
	require.Equal(t, "out/CASE.FUNSMRY", name)

	name, err = FileName("CASE", FileSummaryHeader, false, -1)
	require.NoError(t, err)
	require.Equal(t, "CASE.SMSPEC", name)

	_, err = FileName("CASE", FileOther, false, -1)
	require.Error(t, err)
}

func TestFileNameRoundTrip(t *testing.T) {
	for _, kind := range []FileType{FileSummary, FileRestart, FileUnifiedSummary, FileSummaryHeader, FileInit} {
		for _, formatted := range []bool{false, true} {
			name, err := FileName("BASE", kind, formatted, 3)
			require.NoError(t, err)

			gotKind, gotFormatted, _ := InspectFileName(name)
			require.Equal(t, kind, gotKind, name)
			require.Equal(t, formatted, gotFormatted, name)
		}
	}
}
