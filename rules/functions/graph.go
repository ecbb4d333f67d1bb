package functions

import (
	"ludeme/game"
	"ludeme/topology"
)

// ownerAt returns the owner of the top piece on a site.
func ownerAt(ctx *game.Context, st topology.SiteType, site int) int {
	return ctx.Container().Who(st, site, game.Off)
}

// group collects the sites reachable from start through sites whose top
// piece belongs to who, stepping along rel.
func group(ctx *game.Context, st topology.SiteType, start, who int, rel topology.Relation) game.Region {
	r := game.NewRegion(st)
	if who == 0 || ownerAt(ctx, st, start) != who {
		return r
	}
	board := ctx.Board()
	r.Add(start)
	queue := []int{start}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, nb := range board.Neighbours(st, s, rel) {
			if !r.Contains(nb) && ownerAt(ctx, st, nb) == who {
				r.Add(nb)
				queue = append(queue, nb)
			}
		}
	}
	return r
}

// reachFrom flood-fills from seeds through sites accepted by pass.
func reachFrom(ctx *game.Context, st topology.SiteType, seeds []int, rel topology.Relation, pass func(int) bool) game.Region {
	r := game.NewRegion(st)
	board := ctx.Board()
	var queue []int
	for _, s := range seeds {
		if pass(s) && !r.Contains(s) {
			r.Add(s)
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, nb := range board.Neighbours(st, s, rel) {
			if !r.Contains(nb) && pass(nb) {
				r.Add(nb)
				queue = append(queue, nb)
			}
		}
	}
	return r
}

// Groups returns every group of who's pieces, ordered by their lowest site.
func Groups(ctx *game.Context, st topology.SiteType, who int, rel topology.Relation) []game.Region {
	if who <= 0 {
		return nil
	}
	var out []game.Region
	seen := game.NewRegion(st)
	for s := 0; s < ctx.Board().NumSites(st); s++ {
		if seen.Contains(s) || ownerAt(ctx, st, s) != who {
			continue
		}
		g := group(ctx, st, s, who, rel)
		seen = seen.Union(g)
		out = append(out, g)
	}
	return out
}
