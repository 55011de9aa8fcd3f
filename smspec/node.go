package smspec

import (
	"fmt"
	"strconv"
)

// Key is the composite identity of a node. Fields that do not apply to the
// node's category are zero.
type Key struct {
	Type     VarType
	Keyword  string
	Entity   string
	Num      int
	LGR      string
	LocalIJK [3]int
}

// Node describes one summary variable: one slot of the PARAMS vector.
type Node struct {
	// Slot is the position of the variable in every PARAMS record.
	Slot int
	// Keyword is the variable keyword, such as WOPR.
	Keyword string
	// Entity is the well or group name for entity typed variables.
	Entity string
	// Num is the NUMS qualifier: region, cell or segment number.
	Num int
	// Unit is the unit string from the UNITS record.
	Unit string
	// Default is returned for slots a restarted case does not carry.
	Default float32
	Type    VarType

	// IJK are the 1-based cell coordinates of block and completion variables.
	IJK [3]int
	// LGR and LocalIJK locate local grid variables.
	LGR      string
	LocalIJK [3]int

	Rate       bool
	Total      bool
	Historical bool

	genKeys []string
}

// newNode builds the node of a validated global header row.
func newNode(slot int, typ VarType, keyword, entity string, num int, unit string, dims [3]int, join string) *Node {
	n := &Node{
		Slot:    slot,
		Keyword: keyword,
		Num:     num,
		Unit:    unit,
		Type:    typ,
	}
	n.setFlags()

	switch typ {
	case VarWell, VarGroup, VarCompletion, VarSegment, VarNetwork:
		if entity != DummyWell {
			n.Entity = entity
		}
	}

	hasIJK := false
	if typ == VarBlock || typ == VarCompletion {
		n.IJK, hasIJK = numToIJK(num, dims)
	}
	n.genKeys = n.buildKeys(join, hasIJK)

	return n
}

// newLocalNode builds the node of a validated local grid header row.
func newLocalNode(slot int, typ VarType, keyword, entity, unit, lgr string, ijk [3]int, join string) *Node {
	n := &Node{
		Slot:     slot,
		Keyword:  keyword,
		Entity:   entity,
		Unit:     unit,
		Type:     typ,
		LGR:      lgr,
		LocalIJK: ijk,
	}
	if typ == VarLocalBlock {
		n.Entity = ""
	}
	n.setFlags()
	n.genKeys = n.buildKeys(join, false)

	return n
}

func (n *Node) setFlags() {
	n.Rate = IsRateKeyword(n.Keyword)
	n.Total = IsTotalKeyword(n.Keyword)
	n.Historical = IsHistoricalKeyword(n.Keyword)
}

// numToIJK converts a 1-based global cell number to 1-based i,j,k with i
// running fastest.
func numToIJK(num int, dims [3]int) ([3]int, bool) {
	nx, ny := dims[0], dims[1]
	if nx <= 0 || ny <= 0 || num <= 0 {
		return [3]int{}, false
	}

	g := num - 1
	k := g / (nx * ny)
	g -= k * nx * ny
	j := g / nx
	i := g - j*nx

	return [3]int{i + 1, j + 1, k + 1}, true
}

// ijkToNum is the inverse of numToIJK.
func ijkToNum(i, j, k int, dims [3]int) int {
	return i + (j-1)*dims[0] + (k-1)*dims[0]*dims[1]
}

// DecodeRegions splits the NUMS value of a region-to-region variable into the
// two region numbers.
func DecodeRegions(num int) (int, int) {
	r1 := num % 32768
	r2 := (num-r1)/32768 - 10

	return r1, r2
}

// EncodeRegions is the inverse of DecodeRegions.
func EncodeRegions(r1, r2 int) int {
	return r1 + (r2+10)*32768
}

func (n *Node) buildKeys(join string, hasIJK bool) []string {
	kw := n.Keyword
	num := strconv.Itoa(n.Num)
	ijk := func(v [3]int) string { return fmt.Sprintf("%d,%d,%d", v[0], v[1], v[2]) }

	switch n.Type {
	case VarField, VarMisc:
		return []string{kw}
	case VarWell, VarGroup, VarNetwork:
		if n.Entity == "" {
			return nil
		}

		return []string{kw + join + n.Entity}
	case VarRegion, VarAquifer:
		return []string{kw + join + num}
	case VarBlock:
		if !hasIJK {
			return []string{kw + join + num}
		}

		return []string{kw + join + ijk(n.IJK), kw + join + num}
	case VarCompletion:
		if !hasIJK {
			return []string{kw + join + n.Entity + join + num}
		}

		return []string{kw + join + n.Entity + join + ijk(n.IJK), kw + join + n.Entity + join + num}
	case VarSegment:
		return []string{kw + join + n.Entity + join + num}
	case VarRegionToRegion:
		r1, r2 := DecodeRegions(n.Num)
		return []string{fmt.Sprintf("%s%s%d-%d", kw, join, r1, r2), kw + join + num}
	case VarLocalWell:
		return []string{kw + join + n.LGR + join + n.Entity}
	case VarLocalBlock:
		return []string{kw + join + n.LGR + join + ijk(n.LocalIJK)}
	case VarLocalCompletion:
		return []string{kw + join + n.LGR + join + n.Entity + join + ijk(n.LocalIJK)}
	default:
		return nil
	}
}

// GenKey returns the primary general key, such as "WOPR:OP_1", or "" for
// nodes that cannot be addressed by name.
func (n *Node) GenKey() string {
	if len(n.genKeys) == 0 {
		return ""
	}

	return n.genKeys[0]
}

// GenKeys returns every general key of the node.
func (n *Node) GenKeys() []string {
	return n.genKeys
}

// Key returns the composite identity of the node.
func (n *Node) Key() Key {
	k := Key{Type: n.Type, Keyword: n.Keyword}

	switch n.Type {
	case VarWell, VarGroup, VarNetwork:
		k.Entity = n.Entity
	case VarRegion, VarAquifer, VarBlock, VarRegionToRegion:
		k.Num = n.Num
	case VarCompletion, VarSegment:
		k.Entity = n.Entity
		k.Num = n.Num
	case VarLocalWell, VarLocalBlock, VarLocalCompletion:
		k.Entity = n.Entity
		k.LGR = n.LGR
		k.LocalIJK = n.LocalIJK
	}

	return k
}

func (n *Node) String() string {
	if key := n.GenKey(); key != "" {
		return fmt.Sprintf("%s[%d]", key, n.Slot)
	}

	return fmt.Sprintf("%s[%d]", n.Keyword, n.Slot)
}
