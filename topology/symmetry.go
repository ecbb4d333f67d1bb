package topology

import "math"

// buildSymmetries finds, for every site type, the rotations about the board
// centre and the reflections about axes through it that map the element
// set onto itself.
func (t *Topology) buildSymmetries() {
	order := t.shape.order
	for _, st := range SiteTypes {
		if len(t.elements[st]) == 0 {
			continue
		}

		var rotations [][]int
		for k := 0; k < order; k++ {
			theta := 2 * math.Pi * float64(k) / float64(order)
			sin, cos := math.Sincos(theta)
			perm := t.permutation(st, func(dx, dy float64) (float64, float64) {
				return dx*cos - dy*sin, dx*sin + dy*cos
			})
			if perm != nil {
				rotations = append(rotations, perm)
			}
		}
		t.rotations[st] = rotations

		var reflections [][]int
		for k := 0; k < order; k++ {
			phi := math.Pi * float64(k) / float64(order)
			sin2, cos2 := math.Sincos(2 * phi)
			perm := t.permutation(st, func(dx, dy float64) (float64, float64) {
				return dx*cos2 + dy*sin2, dx*sin2 - dy*cos2
			})
			if perm != nil {
				reflections = append(reflections, perm)
			}
		}
		t.reflections[st] = reflections
	}
}

// permutation maps each element through f (applied relative to the centre)
// and returns nil when some image is not an element.
func (t *Topology) permutation(st SiteType, f func(dx, dy float64) (float64, float64)) []int {
	perm := make([]int, len(t.elements[st]))
	for i, e := range t.elements[st] {
		x, y := f(e.X-t.centreX, e.Y-t.centreY)
		idx, ok := t.index[st][keyOf(x+t.centreX, y+t.centreY)]
		if !ok {
			return nil
		}
		perm[i] = idx
	}
	return perm
}

// Rotations returns the rotation permutations of a site type. Entry k maps
// each site to its image under a rotation of k*360/len degrees
// anticlockwise; entry 0 is the identity.
func (t *Topology) Rotations(st SiteType) [][]int {
	return t.rotations[st]
}

// Reflections returns the reflection permutations of a site type.
func (t *Topology) Reflections(st SiteType) [][]int {
	return t.reflections[st]
}
