package format

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// FileType classifies a container by its file name extension.
type FileType uint8

const (
	FileOther FileType = iota
	FileRestart
	FileUnifiedRestart
	FileSummary
	FileUnifiedSummary
	FileSummaryHeader
	FileGrid
	FileEGrid
	FileInit
	FileRFT
	FileData
)

func (f FileType) String() string {
	switch f {
	case FileRestart:
		return "Restart"
	case FileUnifiedRestart:
		return "UnifiedRestart"
	case FileSummary:
		return "Summary"
	case FileUnifiedSummary:
		return "UnifiedSummary"
	case FileSummaryHeader:
		return "SummaryHeader"
	case FileGrid:
		return "Grid"
	case FileEGrid:
		return "EGrid"
	case FileInit:
		return "Init"
	case FileRFT:
		return "RFT"
	case FileData:
		return "Data"
	default:
		return "Other"
	}
}

type extInfo struct {
	kind      FileType
	formatted bool
}

var fixedExtensions = map[string]extInfo{
	"UNRST":   {FileUnifiedRestart, false},
	"FUNRST":  {FileUnifiedRestart, true},
	"UNSMRY":  {FileUnifiedSummary, false},
	"FUNSMRY": {FileUnifiedSummary, true},
	"SMSPEC":  {FileSummaryHeader, false},
	"FSMSPEC": {FileSummaryHeader, true},
	"GRID":    {FileGrid, false},
	"FGRID":   {FileGrid, true},
	"EGRID":   {FileEGrid, false},
	"FEGRID":  {FileEGrid, true},
	"INIT":    {FileInit, false},
	"FINIT":   {FileInit, true},
	"RFT":     {FileRFT, false},
	"FRFT":    {FileRFT, true},
	"DATA":    {FileData, true},
}

// InspectFileName determines the container kind from the extension of path.
// Extensions are matched case-insensitively. Report-numbered files
// (.X0001, .F0001, .S0001, .A0001) also yield their report number; all other
// files report -1. A compression suffix such as ".zst" is ignored.
//
// Parameters:
//   - path: File name or path
//
// Returns:
//   - FileType: Kind of container, FileOther when unrecognised
//   - bool: Whether the container uses the text layout
//   - int: Report number or -1
func InspectFileName(path string) (FileType, bool, int) {
	_, path = CompressionFromName(path)
	ext := filepath.Ext(path)
	if ext == "" {
		return FileOther, false, -1
	}
	ext = strings.ToUpper(ext[1:])

	if info, ok := fixedExtensions[ext]; ok {
		return info.kind, info.formatted, -1
	}

	if len(ext) < 2 {
		return FileOther, true, -1
	}

	var info extInfo
	switch ext[0] {
	case 'X':
		info = extInfo{FileRestart, false}
	case 'F':
		info = extInfo{FileRestart, true}
	case 'S':
		info = extInfo{FileSummary, false}
	case 'A':
		info = extInfo{FileSummary, true}
	default:
		return FileOther, true, -1
	}

	report, err := strconv.Atoi(ext[1:])
	if err != nil || report < 0 {
		return FileOther, info.formatted, -1
	}

	return info.kind, info.formatted, report
}

// FileName builds the canonical file name for a case base name.
// The report number is used only by report-numbered kinds.
func FileName(base string, kind FileType, formatted bool, report int) (string, error) {
	var ext string
	pick := func(fmtExt, binExt string) string {
		if formatted {
			return fmtExt
		}

		return binExt
	}

	switch kind {
	case FileUnifiedRestart:
		ext = pick("FUNRST", "UNRST")
	case FileUnifiedSummary:
		ext = pick("FUNSMRY", "UNSMRY")
	case FileSummaryHeader:
		ext = pick("FSMSPEC", "SMSPEC")
	case FileGrid:
		ext = pick("FGRID", "GRID")
	case FileEGrid:
		ext = pick("FEGRID", "EGRID")
	case FileInit:
		ext = pick("FINIT", "INIT")
	case FileRFT:
		ext = pick("FRFT", "RFT")
	case FileData:
		ext = "DATA"
	case FileRestart:
		ext = fmt.Sprintf("%s%04d", pick("F", "X"), report)
	case FileSummary:
		ext = fmt.Sprintf("%s%04d", pick("A", "S"), report)
	default:
		return "", fmt.Errorf("no file name convention for %s files", kind)
	}

	return base + "." + ext, nil
}
