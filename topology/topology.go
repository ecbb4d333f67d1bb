package topology

import (
	"fmt"
	"math"
	"sync"
)

// Element is one site of the board graph.
type Element struct {
	Index int
	Type  SiteType
	Row   int
	Col   int
	X     float64 // centre, in board units
	Y     float64
	Layer int
}

// Label returns a coordinate label such as "A1" (column letter, 1-based row).
func (e *Element) Label() string {
	col := ""
	for c := e.Col; ; c = c/26 - 1 {
		col = string(rune('A'+c%26)) + col
		if c < 26 {
			break
		}
	}
	return fmt.Sprintf("%s%d", col, e.Row+1)
}

type vec struct {
	dx, dy float64
}

type posKey struct {
	x, y int64
}

func keyOf(x, y float64) posKey {
	return posKey{int64(math.Round(x * 1e4)), int64(math.Round(y * 1e4))}
}

// shape carries the per-geometry parameters used to build a Topology.
type shape struct {
	name       string
	order      int // rotational order searched for symmetries
	orthogonal []Direction
	diagonal   []Direction
	offsets    map[Direction]vec
}

// Topology is the static graph of a board: elements of each site type,
// directional steps within and across types, radials, tracks and symmetry
// tables. It is built once per game and only read afterwards, except for
// the lazily built distance tables which are guarded.
type Topology struct {
	shape    shape
	rows     int
	cols     int
	elements [NumSiteTypes][]*Element
	index    [NumSiteTypes]map[posKey]int

	// steps[from][to][site][dir] is the element reached, or -1.
	steps [NumSiteTypes][NumSiteTypes][][NumDirections]int
	// radials[type][site][dir] starts with site itself.
	radials [NumSiteTypes][][NumDirections][]int

	tracks []*Track

	centreX, centreY float64
	rotations        [NumSiteTypes][][]int
	reflections      [NumSiteTypes][][]int

	distOnce [NumSiteTypes][3]sync.Once
	dist     [NumSiteTypes][3][][]int
}

func newTopology(s shape, rows, cols int, elems [NumSiteTypes][]*Element) *Topology {
	t := &Topology{shape: s, rows: rows, cols: cols, elements: elems}

	for _, st := range SiteTypes {
		t.index[st] = make(map[posKey]int, len(elems[st]))
		for _, e := range elems[st] {
			t.index[st][keyOf(e.X, e.Y)] = e.Index
		}
	}

	cells := elems[Cell]
	for _, e := range cells {
		t.centreX += e.X
		t.centreY += e.Y
	}
	if len(cells) > 0 {
		t.centreX /= float64(len(cells))
		t.centreY /= float64(len(cells))
	}

	t.buildSteps()
	t.buildRadials()
	t.buildSymmetries()
	return t
}

func (t *Topology) buildSteps() {
	for _, from := range SiteTypes {
		for _, to := range SiteTypes {
			table := make([][NumDirections]int, len(t.elements[from]))
			scale := 0.5
			if from == to {
				scale = 1
			}
			for i, e := range t.elements[from] {
				for d := Direction(0); d < NumDirections; d++ {
					table[i][d] = -1
					off, ok := t.shape.offsets[d]
					if !ok {
						continue
					}
					if idx, found := t.index[to][keyOf(e.X+scale*off.dx, e.Y+scale*off.dy)]; found {
						table[i][d] = idx
					}
				}
			}
			t.steps[from][to] = table
		}
	}
}

func (t *Topology) buildRadials() {
	for _, st := range SiteTypes {
		n := len(t.elements[st])
		table := make([][NumDirections][]int, n)
		for i := 0; i < n; i++ {
			for d := Direction(0); d < NumDirections; d++ {
				if _, ok := t.shape.offsets[d]; !ok {
					continue
				}
				radial := []int{i}
				for cur := t.steps[st][st][i][d]; cur >= 0 && len(radial) <= n; cur = t.steps[st][st][cur][d] {
					radial = append(radial, cur)
				}
				table[i][d] = radial
			}
		}
		t.radials[st] = table
	}
}

// Shape returns the board shape name ("square" or "hex").
func (t *Topology) Shape() string { return t.shape.name }

// Rows returns the number of cell rows.
func (t *Topology) Rows() int { return t.rows }

// Cols returns the number of cell columns.
func (t *Topology) Cols() int { return t.cols }

// NumSites returns the number of elements of the given type.
func (t *Topology) NumSites(st SiteType) int {
	if st < 0 || int(st) >= NumSiteTypes {
		return 0
	}
	return len(t.elements[st])
}

// Valid reports whether site is an element of the given type.
func (t *Topology) Valid(st SiteType, site int) bool {
	return site >= 0 && site < t.NumSites(st)
}

// Element returns the element, or nil when the site is off-board.
func (t *Topology) Element(st SiteType, site int) *Element {
	if !t.Valid(st, site) {
		return nil
	}
	return t.elements[st][site]
}

// Elements returns every element of the given type in index order.
func (t *Topology) Elements(st SiteType) []*Element {
	return t.elements[st]
}

// SiteAt returns the element of the given type at row/col, or -1.
func (t *Topology) SiteAt(st SiteType, row, col int) int {
	for _, e := range t.elements[st] {
		if e.Row == row && e.Col == col {
			return e.Index
		}
	}
	return -1
}

// SupportedDirections returns the directions that make up a relation on
// this board.
func (t *Topology) SupportedDirections(rel Relation) []Direction {
	switch rel {
	case Orthogonal:
		return t.shape.orthogonal
	case Diagonal:
		return t.shape.diagonal
	default:
		all := make([]Direction, 0, len(t.shape.orthogonal)+len(t.shape.diagonal))
		for d := Direction(0); d < NumDirections; d++ {
			if _, ok := t.shape.offsets[d]; ok {
				all = append(all, d)
			}
		}
		return all
	}
}

// Step returns the same-type neighbour of site in dir, or -1.
func (t *Topology) Step(st SiteType, site int, dir Direction) int {
	if !t.Valid(st, site) || dir < 0 || dir >= NumDirections {
		return -1
	}
	return t.steps[st][st][site][dir]
}

// Steps returns the single-hop neighbours of a site in a direction,
// possibly in another site type (a cell's NE corner vertex, an edge's
// northern cell, ...).
func (t *Topology) Steps(from SiteType, site int, to SiteType, dir Direction) []int {
	if !t.Valid(from, site) || to < 0 || int(to) >= NumSiteTypes || dir < 0 || dir >= NumDirections {
		return nil
	}
	if next := t.steps[from][to][site][dir]; next >= 0 {
		return []int{next}
	}
	return nil
}

// Radials returns the sites reached by stepping repeatedly in dir,
// beginning with site itself and ending at the board edge. The returned
// slice is shared and must not be modified.
func (t *Topology) Radials(st SiteType, site int, dir Direction) []int {
	if !t.Valid(st, site) || dir < 0 || dir >= NumDirections {
		return nil
	}
	return t.radials[st][site][dir]
}

// Neighbours returns the same-type neighbours of site under a relation,
// in direction order.
func (t *Topology) Neighbours(st SiteType, site int, rel Relation) []int {
	if !t.Valid(st, site) {
		return nil
	}
	var out []int
	for _, d := range t.SupportedDirections(rel) {
		if next := t.steps[st][st][site][d]; next >= 0 {
			out = append(out, next)
		}
	}
	return out
}

// Directions returns the directions of rel in which site has a neighbour.
func (t *Topology) Directions(st SiteType, site int, rel Relation) []Direction {
	if !t.Valid(st, site) {
		return nil
	}
	var out []Direction
	for _, d := range t.SupportedDirections(rel) {
		if t.steps[st][st][site][d] >= 0 {
			out = append(out, d)
		}
	}
	return out
}

// Side returns the elements that have no neighbour in dir.
func (t *Topology) Side(st SiteType, dir Direction) []int {
	if _, ok := t.shape.offsets[dir]; !ok {
		return nil
	}
	var out []int
	for i := range t.elements[st] {
		if t.steps[st][st][i][dir] < 0 {
			out = append(out, i)
		}
	}
	return out
}

// Perimeter returns the elements missing at least one orthogonal neighbour.
func (t *Topology) Perimeter(st SiteType) []int {
	var out []int
	for i := range t.elements[st] {
		for _, d := range t.shape.orthogonal {
			if t.steps[st][st][i][d] < 0 {
				out = append(out, i)
				break
			}
		}
	}
	return out
}
