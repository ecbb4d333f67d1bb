package topology

// Distances returns the all-pairs step distance table for a site type under
// a relation; -1 marks unreachable pairs. It is computed on first use and
// shared afterwards.
func (t *Topology) Distances(st SiteType, rel Relation) [][]int {
	if st < 0 || int(st) >= NumSiteTypes || rel < 0 || rel > All {
		return nil
	}
	t.distOnce[st][rel].Do(func() {
		n := len(t.elements[st])
		table := make([][]int, n)
		for from := 0; from < n; from++ {
			table[from] = t.bfs(st, from, rel)
		}
		t.dist[st][rel] = table
	})
	return t.dist[st][rel]
}

// Distance returns the number of steps between two sites, or -1.
func (t *Topology) Distance(st SiteType, from, to int, rel Relation) int {
	if !t.Valid(st, from) || !t.Valid(st, to) {
		return -1
	}
	return t.Distances(st, rel)[from][to]
}

// Just BFS
func (t *Topology) bfs(st SiteType, from int, rel Relation) []int {
	dist := make([]int, len(t.elements[st]))
	for i := range dist {
		dist[i] = -1
	}
	dist[from] = 0
	queue := []int{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range t.Neighbours(st, current, rel) {
			if dist[next] < 0 {
				dist[next] = dist[current] + 1
				queue = append(queue, next)
			}
		}
	}
	return dist
}
