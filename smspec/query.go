package smspec

import (
	"fmt"
	"path"
	"sort"

	"github.com/kballard/go-shellquote"

	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/internal/hash"
)

// Has reports whether key is a general key of the index.
func (idx *Index) Has(key string) bool {
	_, ok := idx.genKeys[key]
	return ok
}

// Get returns the node installed under the general key.
func (idx *Index) Get(key string) (*Node, error) {
	n, ok := idx.genKeys[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, errs.ErrKeyNotFound)
	}

	return n, nil
}

// Slot returns the PARAMS slot of the general key.
func (idx *Index) Slot(key string) (int, error) {
	n, err := idx.Get(key)
	if err != nil {
		return -1, err
	}

	return n.Slot, nil
}

// Lookup returns the node with the composite key k.
func (idx *Index) Lookup(k Key) (*Node, bool) {
	n, ok := idx.byKey[k]
	return n, ok
}

// IsRate reports whether the general key refers to a rate variable.
func (idx *Index) IsRate(key string) (bool, error) {
	n, err := idx.Get(key)
	if err != nil {
		return false, err
	}

	return n.Rate, nil
}

// IsTotal reports whether the general key refers to a cumulative variable.
func (idx *Index) IsTotal(key string) (bool, error) {
	n, err := idx.Get(key)
	if err != nil {
		return false, err
	}

	return n.Total, nil
}

// IsHistorical reports whether the general key refers to a historical variable.
func (idx *Index) IsHistorical(key string) (bool, error) {
	n, err := idx.Get(key)
	if err != nil {
		return false, err
	}

	return n.Historical, nil
}

// ==============================================================================
// Typed lookups
// ==============================================================================

func notFound(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, errs.ErrKeyNotFound)...)
}

// WellVar returns the well variable keyword of well.
func (idx *Index) WellVar(well, keyword string) (*Node, error) {
	if n, ok := idx.wells[well][keyword]; ok {
		return n, nil
	}

	return nil, notFound("well %q variable %q", well, keyword)
}

// HasWellVar reports whether WellVar would succeed.
func (idx *Index) HasWellVar(well, keyword string) bool {
	_, ok := idx.wells[well][keyword]
	return ok
}

// GroupVar returns the group variable keyword of group.
func (idx *Index) GroupVar(group, keyword string) (*Node, error) {
	if n, ok := idx.groups[group][keyword]; ok {
		return n, nil
	}

	return nil, notFound("group %q variable %q", group, keyword)
}

// HasGroupVar reports whether GroupVar would succeed.
func (idx *Index) HasGroupVar(group, keyword string) bool {
	_, ok := idx.groups[group][keyword]
	return ok
}

// RegionVar returns the region variable keyword of region num.
func (idx *Index) RegionVar(num int, keyword string) (*Node, error) {
	if n, ok := idx.regions[num][keyword]; ok {
		return n, nil
	}

	return nil, notFound("region %d variable %q", num, keyword)
}

// HasRegionVar reports whether RegionVar would succeed.
func (idx *Index) HasRegionVar(num int, keyword string) bool {
	_, ok := idx.regions[num][keyword]
	return ok
}

// BlockVar returns the block variable keyword of global cell num.
func (idx *Index) BlockVar(num int, keyword string) (*Node, error) {
	if n, ok := idx.blocks[num][keyword]; ok {
		return n, nil
	}

	return nil, notFound("block %d variable %q", num, keyword)
}

// HasBlockVar reports whether BlockVar would succeed.
func (idx *Index) HasBlockVar(num int, keyword string) bool {
	_, ok := idx.blocks[num][keyword]
	return ok
}

// BlockVarIJK returns the block variable keyword of the cell at 1-based i,j,k.
func (idx *Index) BlockVarIJK(i, j, k int, keyword string) (*Node, error) {
	if !idx.inGrid(i, j, k) {
		return nil, fmt.Errorf("cell %d,%d,%d outside grid %v: %w", i, j, k, idx.input.Dims, errs.ErrIndexOutOfRange)
	}

	return idx.BlockVar(ijkToNum(i, j, k, idx.input.Dims), keyword)
}

// HasBlockVarIJK reports whether BlockVarIJK would succeed.
func (idx *Index) HasBlockVarIJK(i, j, k int, keyword string) bool {
	return idx.inGrid(i, j, k) && idx.HasBlockVar(ijkToNum(i, j, k, idx.input.Dims), keyword)
}

func (idx *Index) inGrid(i, j, k int) bool {
	d := idx.input.Dims
	return i >= 1 && j >= 1 && k >= 1 && i <= d[0] && j <= d[1] && k <= d[2]
}

// CompletionVar returns the completion variable keyword of well in cell num.
func (idx *Index) CompletionVar(well string, num int, keyword string) (*Node, error) {
	if n, ok := idx.completions[well][num][keyword]; ok {
		return n, nil
	}

	return nil, notFound("completion %q:%d variable %q", well, num, keyword)
}

// HasCompletionVar reports whether CompletionVar would succeed.
func (idx *Index) HasCompletionVar(well string, num int, keyword string) bool {
	_, ok := idx.completions[well][num][keyword]
	return ok
}

// FieldVar returns the field variable keyword.
func (idx *Index) FieldVar(keyword string) (*Node, error) {
	if n, ok := idx.fields[keyword]; ok {
		return n, nil
	}

	return nil, notFound("field variable %q", keyword)
}

// HasFieldVar reports whether FieldVar would succeed.
func (idx *Index) HasFieldVar(keyword string) bool {
	_, ok := idx.fields[keyword]
	return ok
}

// MiscVar returns the misc variable keyword.
func (idx *Index) MiscVar(keyword string) (*Node, error) {
	if n, ok := idx.misc[keyword]; ok {
		return n, nil
	}

	return nil, notFound("misc variable %q", keyword)
}

// HasMiscVar reports whether MiscVar would succeed.
func (idx *Index) HasMiscVar(keyword string) bool {
	_, ok := idx.misc[keyword]
	return ok
}

// ==============================================================================
// Pattern selection
// ==============================================================================

// SelectMatching returns the sorted general keys matching the shell glob
// pattern. An empty pattern or "*" selects every key except TIME.
// A malformed pattern matches nothing.
func (idx *Index) SelectMatching(pattern string) []string {
	all := pattern == "" || pattern == "*"

	var out []string
	for key := range idx.genKeys {
		if all {
			if key != TimeKeyword {
				out = append(out, key)
			}

			continue
		}
		if ok, _ := path.Match(pattern, key); ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)

	return out
}

// SelectMatchingList returns the sorted union of SelectMatching over a
// whitespace separated, shell quoted list of patterns such as
// `WOPR:* 'FOPT' "RPR:1*"`.
func (idx *Index) SelectMatchingList(patterns string) ([]string, error) {
	words, err := shellquote.Split(patterns)
	if err != nil {
		return nil, fmt.Errorf("pattern list %q: %w", patterns, err)
	}
	if len(words) == 0 {
		return idx.SelectMatching(""), nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, w := range words {
		for _, key := range idx.SelectMatching(w) {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	sort.Strings(out)

	return out, nil
}

// WellList returns the sorted well names matching the glob pattern; an empty
// pattern selects all wells.
func (idx *Index) WellList(pattern string) []string {
	return matchNames(idx.wells, pattern)
}

// GroupList returns the sorted group names matching the glob pattern; an
// empty pattern selects all groups.
func (idx *Index) GroupList(pattern string) []string {
	return matchNames(idx.groups, pattern)
}

func matchNames(m map[string]map[string]*Node, pattern string) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		if pattern != "" {
			if ok, _ := path.Match(pattern, name); !ok {
				continue
			}
		}
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// ==============================================================================
// Cross-case mapping
// ==============================================================================

// Remap maps the slots of idx onto the slots of src by composite Key, so
// block and completion variables match even when the two cases declare
// different grid dimensions. Element s of the result is the slot in src
// holding the variable of slot s in idx, or -1 when src does not carry it.
func (idx *Index) Remap(src *Index) []int {
	out := make([]int, idx.ParamsSize())
	for i := range out {
		out[i] = -1
	}

	for _, n := range idx.nodes {
		if n.GenKey() == "" {
			continue
		}
		if other, ok := src.byKey[n.Key()]; ok && other.GenKey() != "" {
			out[n.Slot] = other.Slot
		}
	}

	return out
}

// Identity returns the identity slot map of idx.
func (idx *Index) Identity() []int {
	out := make([]int, idx.ParamsSize())
	for i := range out {
		out[i] = i
	}

	return out
}

// Fingerprint hashes the primary general key of every slot in order. Two
// indexes with the same fingerprint lay out PARAMS identically.
func (idx *Index) Fingerprint() uint64 {
	keys := make([]string, idx.ParamsSize())
	for _, n := range idx.nodes {
		keys[n.Slot] = n.GenKey()
	}

	return hash.Fingerprint(keys)
}
