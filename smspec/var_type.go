package smspec

import "strings"

// VarType is the category of a summary variable, derived from its keyword.
type VarType uint8

const (
	VarInvalid          VarType = iota // VarInvalid marks rows that are dropped.
	VarField                           // VarField keywords start with F.
	VarWell                            // VarWell keywords start with W.
	VarGroup                           // VarGroup keywords start with G.
	VarRegion                          // VarRegion keywords start with R.
	VarBlock                           // VarBlock keywords start with B.
	VarCompletion                      // VarCompletion keywords start with C.
	VarMisc                            // VarMisc covers everything else.
	VarLocalBlock                      // VarLocalBlock keywords start with LB.
	VarLocalCompletion                 // VarLocalCompletion keywords start with LC.
	VarLocalWell                       // VarLocalWell keywords start with LW.
	VarSegment                         // VarSegment keywords start with S.
	VarRegionToRegion                  // VarRegionToRegion are region flows such as RGFT.
	VarAquifer                         // VarAquifer keywords start with A.
	VarNetwork                         // VarNetwork keywords start with N.
)

var varTypeNames = [...]string{
	VarInvalid:         "invalid",
	VarField:           "field",
	VarWell:            "well",
	VarGroup:           "group",
	VarRegion:          "region",
	VarBlock:           "block",
	VarCompletion:      "completion",
	VarMisc:            "misc",
	VarLocalBlock:      "local_block",
	VarLocalCompletion: "local_completion",
	VarLocalWell:       "local_well",
	VarSegment:         "segment",
	VarRegionToRegion:  "region_to_region",
	VarAquifer:         "aquifer",
	VarNetwork:         "network",
}

func (v VarType) String() string {
	if int(v) < len(varTypeNames) {
		return varTypeNames[v]
	}

	return "unknown"
}

// IsLocal reports whether the variable belongs to a local grid refinement.
func (v VarType) IsLocal() bool {
	return v == VarLocalBlock || v == VarLocalCompletion || v == VarLocalWell
}

// DummyWell is the placeholder entity name of rows without a real well or group.
const DummyWell = ":+:+:+:+"

// Keywords that follow no naming convention and are always misc variables.
var specialVars = map[string]struct{}{
	"NAIMFRAC": {}, "NBAKFL": {}, "NBYTOT": {}, "NCPRLINS": {}, "NEWTFL": {}, "NEWTON": {},
	"NLINEARP": {}, "NLINEARS": {}, "NLINSMAX": {}, "NLINSMIN": {}, "NLRESMAX": {}, "NLRESSUM": {},
	"NMESSAGE": {}, "NNUMFL": {}, "NNUMST": {}, "NTS": {}, "NTSECL": {}, "NTSMCL": {},
	"NTSPCL": {}, "ELAPSED": {}, "MAXDPR": {}, "MAXDSO": {}, "MAXDSG": {}, "MAXDSW": {},
	"STEPTYPE": {}, "WNEWTON": {},
}

// Classify returns the category of keyword from its naming convention.
// It accepts plain keywords ("WOPR") as well as general keys ("WOPR:OP_1").
func Classify(keyword string) VarType {
	if i := strings.IndexByte(keyword, ':'); i >= 0 {
		keyword = keyword[:i]
	}
	if keyword == "" {
		return VarMisc
	}
	if _, ok := specialVars[keyword]; ok {
		return VarMisc
	}

	switch keyword[0] {
	case 'A':
		return VarAquifer
	case 'B':
		return VarBlock
	case 'C':
		return VarCompletion
	case 'F':
		return VarField
	case 'G':
		return VarGroup
	case 'L':
		if len(keyword) < 2 {
			return VarMisc
		}
		switch keyword[1] {
		case 'B':
			return VarLocalBlock
		case 'C':
			return VarLocalCompletion
		case 'W':
			return VarLocalWell
		}

		return VarMisc
	case 'N':
		return VarNetwork
	case 'R':
		return classifyRegion(keyword)
	case 'S':
		return VarSegment
	case 'W':
		return VarWell
	default:
		return VarMisc
	}
}

// classifyRegion separates region-to-region flows (R*FT*, R**FT*, R*FR*,
// R**FR*, RxF and RNLF) from plain region variables. RORFR is a plain region
// variable.
func classifyRegion(kw string) VarType {
	if len(kw) == 3 && kw[2] == 'F' {
		return VarRegionToRegion
	}
	if kw == "RNLF" {
		return VarRegionToRegion
	}
	if kw == "RORFR" {
		return VarRegion
	}
	if len(kw) >= 4 && kw[2] == 'F' && (kw[3] == 'T' || kw[3] == 'R') {
		return VarRegionToRegion
	}
	if len(kw) >= 5 && kw[3] == 'F' && (kw[4] == 'T' || kw[4] == 'R') {
		return VarRegionToRegion
	}

	return VarRegion
}

// ValidType classifies a header row and checks that its entity name and
// qualifier make sense for the category. Rows that fail return VarInvalid.
//
// Parameters:
//   - keyword: Variable keyword, without padding
//   - entity: Well or group name, without padding
//   - num: NUMS qualifier, negative when absent
//
// Returns:
//   - VarType: Category of the row, or VarInvalid
func ValidType(keyword, entity string, num int) VarType {
	typ := Classify(keyword)

	switch typ {
	case VarMisc, VarField, VarLocalBlock, VarNetwork:
		return typ
	case VarWell, VarGroup, VarLocalWell, VarLocalCompletion:
		if !validEntity(entity) {
			return VarInvalid
		}

		return typ
	case VarCompletion, VarSegment:
		if !validEntity(entity) || num < 0 {
			return VarInvalid
		}

		return typ
	case VarRegion, VarRegionToRegion, VarBlock, VarAquifer:
		if num < 0 {
			return VarInvalid
		}

		return typ
	default:
		return VarInvalid
	}
}

func validEntity(entity string) bool {
	return entity != "" && entity != DummyWell
}

var rateVars = []string{
	"OPR", "OIR", "OVPR", "OVIR", "OFR", "OPP", "OPI", "OMR",
	"GPR", "GIR", "GVPR", "GVIR", "GFR", "GPP", "GPI", "GMR",
	"WGPR", "WGIR", "WPR", "WIR", "WVPR", "WVIR", "WFR", "WPP",
	"WPI", "WMR", "LPR", "LFR", "VPR", "VIR", "VFR", "GLIR",
	"RGR", "EGR", "EXGR", "SGR", "GSR", "FGR", "GIMR", "GCR",
	"NPR", "NIR", "CPR", "CIR", "SIR", "SPR", "TIR", "TPR",
	"GOR", "WCT", "OGR", "WGR", "GLR",
}

var segmentRateVars = []string{
	"OFR", "GFR", "WFR", "CFR", "SFR", "TFR", "CVPR", "WCT", "GOR", "OGR", "WGR",
}

var totalVars = []string{
	"OPT", "OIT", "OVPT", "OVIT", "OMT", "GPT", "GIT", "GVPT",
	"GVIT", "GMT", "WGPT", "WGIT", "WPT", "WIT", "WVPT", "WVIT",
	"WMT", "LPT", "VPT", "VIT", "RGT", "EGT", "EXGT", "SGT",
	"GST", "FGT", "GIMT", "GCT", "NPT", "NIT", "CPT", "CIT",
	"SIT", "SPT", "TIT", "TPT",
}

var segmentTotalVars = []string{"OFT", "GFT", "WFT"}

func matchAt(keyword string, pos int, vars ...string) bool {
	if len(keyword) < pos {
		return false
	}
	rest := keyword[pos:]
	for _, v := range vars {
		if strings.HasPrefix(rest, v) {
			return true
		}
	}

	return false
}

// IsRateKeyword reports whether keyword names a rate: a quantity that applies
// over the interval ending at a timestep rather than at an instant.
func IsRateKeyword(keyword string) bool {
	switch Classify(keyword) {
	case VarWell, VarGroup, VarField, VarRegion, VarCompletion:
		return matchAt(keyword, 1, rateVars...)
	case VarLocalWell, VarLocalCompletion, VarNetwork:
		return matchAt(keyword, 2, rateVars...)
	case VarSegment:
		return matchAt(keyword, 1, segmentRateVars...)
	case VarRegionToRegion:
		return matchAt(keyword, 2, "FR") || matchAt(keyword, 3, "FR")
	default:
		return false
	}
}

// IsTotalKeyword reports whether keyword names a cumulative quantity.
func IsTotalKeyword(keyword string) bool {
	switch Classify(keyword) {
	case VarWell, VarGroup, VarField, VarRegion, VarCompletion:
		return matchAt(keyword, 1, totalVars...)
	case VarLocalWell, VarLocalCompletion:
		return matchAt(keyword, 2, totalVars...)
	case VarSegment:
		return matchAt(keyword, 1, segmentTotalVars...)
	case VarRegionToRegion:
		return matchAt(keyword, 2, "FT") || matchAt(keyword, 3, "FT")
	default:
		return false
	}
}

// IsHistoricalKeyword reports whether keyword is the historical twin of a
// well, group or field variable, such as WOPRH.
func IsHistoricalKeyword(keyword string) bool {
	if !strings.HasSuffix(keyword, "H") {
		return false
	}
	switch Classify(keyword) {
	case VarWell, VarGroup, VarField:
		return true
	default:
		return false
	}
}
