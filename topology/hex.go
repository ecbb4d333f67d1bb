package topology

import "math"

var sqrt3 = math.Sqrt(3)

var hexShape = shape{
	name:       "hex",
	order:      6,
	orthogonal: []Direction{NE, E, SE, SW, W, NW},
	offsets: map[Direction]vec{
		NE: {sqrt3 / 2, 1.5},
		E:  {sqrt3, 0},
		SE: {sqrt3 / 2, -1.5},
		SW: {-sqrt3 / 2, -1.5},
		W:  {-sqrt3, 0},
		NW: {-sqrt3 / 2, 1.5},
	},
}

// Hex builds a hexagon of hexagonal cells with the given side length,
// pointy side up. Only cells are generated.
//
// Cells are numbered row by row from the south, west to east.
func Hex(side int) (*Topology, error) {
	if side < 1 {
		return nil, &ShapeError{Shape: "hex", Dims: []int{side}}
	}

	var elems [NumSiteTypes][]*Element
	n := side - 1
	for r := -n; r <= n; r++ {
		for q := -n; q <= n; q++ {
			if abs(q+r) > n {
				continue
			}
			elems[Cell] = append(elems[Cell], &Element{
				Index: len(elems[Cell]), Type: Cell,
				Row: r + n, Col: q + n,
				X: sqrt3 * (float64(q) + float64(r)/2),
				Y: 1.5 * float64(r),
			})
		}
	}

	return newTopology(hexShape, 2*side-1, 2*side-1, elems), nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
