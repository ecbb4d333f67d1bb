package topology

var squareShape = shape{
	name:       "square",
	order:      4,
	orthogonal: []Direction{N, E, S, W},
	diagonal:   []Direction{NE, SE, SW, NW},
	offsets: map[Direction]vec{
		N:  {0, 1},
		NE: {1, 1},
		E:  {1, 0},
		SE: {1, -1},
		S:  {0, -1},
		SW: {-1, -1},
		W:  {-1, 0},
		NW: {-1, 1},
	},
}

// Square builds a rows x cols grid with its cells, vertices and edges.
// Row 0 is the southern row, so N increases the row.
//
// Cell index is row*cols+col. Vertex index is row*(cols+1)+col. Edges are
// numbered with the horizontal edges first (row-major), then the vertical
// ones.
func Square(rows, cols int) (*Topology, error) {
	if rows < 1 || cols < 1 {
		return nil, &ShapeError{Shape: "square", Dims: []int{rows, cols}}
	}

	var elems [NumSiteTypes][]*Element

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			elems[Cell] = append(elems[Cell], &Element{
				Index: len(elems[Cell]), Type: Cell, Row: r, Col: c,
				X: float64(c) + 0.5, Y: float64(r) + 0.5,
			})
		}
	}

	for r := 0; r <= rows; r++ {
		for c := 0; c <= cols; c++ {
			elems[Vertex] = append(elems[Vertex], &Element{
				Index: len(elems[Vertex]), Type: Vertex, Row: r, Col: c,
				X: float64(c), Y: float64(r),
			})
		}
	}

	// Horizontal edges, then vertical
	for r := 0; r <= rows; r++ {
		for c := 0; c < cols; c++ {
			elems[Edge] = append(elems[Edge], &Element{
				Index: len(elems[Edge]), Type: Edge, Row: r, Col: c,
				X: float64(c) + 0.5, Y: float64(r),
			})
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c <= cols; c++ {
			elems[Edge] = append(elems[Edge], &Element{
				Index: len(elems[Edge]), Type: Edge, Row: r, Col: c,
				X: float64(c), Y: float64(r) + 0.5,
			})
		}
	}

	return newTopology(squareShape, rows, cols, elems), nil
}
