package functions

import (
	"ludeme/game"
	"ludeme/topology"
)

// cachedRegion is embedded by region nodes whose value is precomputed when
// the node is static.
type cachedRegion struct {
	cache game.Cache[game.Region]
}

func (c *cachedRegion) cached(ctx *game.Context, eval func(*game.Context) game.Region) game.Region {
	if r, ok := c.cache.Get(); ok {
		return r
	}
	return eval(ctx)
}

// Sites is an explicit list of sites.
type Sites struct {
	game.Base
	cachedRegion
	Args []game.IntNode
	At   game.SiteRef
}

func NewSites(st *topology.SiteType, args ...game.IntNode) *Sites {
	b := game.NewBase().Concept(game.ConceptRegion)
	for _, a := range args {
		b = b.With(a)
	}
	return &Sites{Base: b, Args: args, At: game.TypeOf(st)}
}

func (n *Sites) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
	game.Precompute(g, n, &n.cache, n.eval)
}

func (n *Sites) Eval(ctx *game.Context) game.Region { return n.cached(ctx, n.eval) }

func (n *Sites) eval(ctx *game.Context) game.Region {
	r := game.NewRegion(n.At.Type)
	for _, a := range n.Args {
		r.Add(a.Eval(ctx))
	}
	return r
}

// BoardSites is every board site of a type.
type BoardSites struct {
	game.Base
	cachedRegion
	At game.SiteRef
}

func NewBoardSites(st *topology.SiteType) *BoardSites {
	return &BoardSites{Base: game.NewBase().Concept(game.ConceptBoard), At: game.TypeOf(st)}
}

func (n *BoardSites) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
	n.Base = n.Base.Flag(n.At.Flags())
	game.Precompute(g, n, &n.cache, n.eval)
}

func (n *BoardSites) Eval(ctx *game.Context) game.Region { return n.cached(ctx, n.eval) }

func (n *BoardSites) eval(ctx *game.Context) game.Region {
	r := game.NewRegion(n.At.Type)
	for i := 0; i < ctx.Board().NumSites(n.At.Type); i++ {
		r.Add(i)
	}
	return r
}

type Occupancy int

const (
	OccEmpty Occupancy = iota
	OccOccupied
)

// OccupancySites is the empty board sites, or the occupied ones, owned by
// Who when given.
type OccupancySites struct {
	game.Base
	Kind Occupancy
	Who  game.IntNode
	At   game.SiteRef
}

func NewOccupancySites(kind Occupancy, who game.IntNode, st *topology.SiteType) *OccupancySites {
	return &OccupancySites{Base: game.NewBase(who).Dynamic().Concept(game.ConceptRegion), Kind: kind, Who: who, At: game.TypeOf(st)}
}

func (n *OccupancySites) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
	n.Base = n.Base.Flag(n.At.Flags())
}

func (n *OccupancySites) Eval(ctx *game.Context) game.Region {
	st := n.At.Type
	cs := ctx.Container()
	who := -1
	if n.Who != nil {
		who = n.Who.Eval(ctx)
	}
	r := game.NewRegion(st)
	for i := 0; i < ctx.Board().NumSites(st); i++ {
		empty := cs.IsEmpty(st, i)
		switch {
		case n.Kind == OccEmpty && empty:
			r.Add(i)
		case n.Kind == OccOccupied && !empty && (who < 0 || cs.Who(st, i, game.Off) == who):
			r.Add(i)
		}
	}
	return r
}

// HandSites is the cells of a player's hand.
type HandSites struct {
	game.Base
	cachedRegion
	Owner game.IntNode
}

func NewHandSites(owner game.IntNode) *HandSites {
	return &HandSites{Base: game.NewBase(owner).Flag(game.FlagHands).Concept(game.ConceptHand), Owner: owner}
}

func (n *HandSites) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	game.Precompute(g, n, &n.cache, n.eval)
}

func (n *HandSites) Eval(ctx *game.Context) game.Region { return n.cached(ctx, n.eval) }

func (n *HandSites) eval(ctx *game.Context) game.Region {
	h, ok := ctx.Game().Hand(n.Owner.Eval(ctx))
	if !ok {
		return game.NewRegion(topology.Cell)
	}
	return game.NewRegion(topology.Cell, h.Sites()...)
}

func (n *HandSites) MissingRequirement(g *game.Game) bool {
	return n.Base.MissingRequirement(g) || len(g.Hands) == 0
}

// Around is the neighbours of a site under a relation.
type Around struct {
	game.Base
	Site game.IntNode
	Rel  topology.Relation
	At   game.SiteRef
}

func NewAround(site game.IntNode, rel topology.Relation, st *topology.SiteType) *Around {
	return &Around{Base: game.NewBase(site).Concept(game.ConceptRegion), Site: site, Rel: rel, At: game.TypeOf(st)}
}

func (n *Around) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
}

func (n *Around) Eval(ctx *game.Context) game.Region {
	return game.NewRegion(n.At.Type, ctx.Board().Neighbours(n.At.Type, n.Site.Eval(ctx), n.Rel)...)
}

// Ray is the sites met stepping from Site in Dir, origin excluded, at
// most Distance of them when given.
type Ray struct {
	game.Base
	Site     game.IntNode
	Dir      topology.Direction
	Distance game.IntNode
	At       game.SiteRef
}

func NewRay(site game.IntNode, dir topology.Direction, distance game.IntNode) *Ray {
	return &Ray{Base: game.NewBase(site, distance).Concept(game.ConceptRegion), Site: site, Dir: dir, Distance: distance}
}

func (n *Ray) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
}

func (n *Ray) Eval(ctx *game.Context) game.Region {
	radial := ctx.Board().Radials(n.At.Type, n.Site.Eval(ctx), n.Dir)
	if len(radial) < 2 {
		return game.NewRegion(n.At.Type)
	}
	sites := radial[1:]
	if n.Distance != nil {
		if d := n.Distance.Eval(ctx); d < len(sites) {
			sites = sites[:max(d, 0)]
		}
	}
	return game.NewRegion(n.At.Type, sites...)
}

// TrackSites is the sites of a track.
type TrackSites struct {
	game.Base
	cachedRegion
	Track string
	Owner game.IntNode
}

func NewTrackSites(track string, owner game.IntNode) *TrackSites {
	return &TrackSites{
		Base:  game.NewBase(owner).Flag(game.FlagTracks).Concept(game.ConceptTrack, game.ConceptRegion),
		Track: track,
		Owner: owner,
	}
}

func (n *TrackSites) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	game.Precompute(g, n, &n.cache, n.eval)
}

func (n *TrackSites) Eval(ctx *game.Context) game.Region { return n.cached(ctx, n.eval) }

func (n *TrackSites) eval(ctx *game.Context) game.Region {
	tr := lookupTrack(ctx, n.Track, n.Owner)
	if tr == nil {
		game.Fail("track-sites", "no track %q", n.Track)
	}
	return game.NewRegion(tr.Type, tr.Sites()...)
}

func (n *TrackSites) WillCrash(g *game.Game) bool {
	return n.Base.WillCrash(g) || !hasTrack(g, n.Track)
}

// Group is the same-owner group containing Site.
type Group struct {
	game.Base
	Site game.IntNode
	Rel  topology.Relation
	At   game.SiteRef
}

func NewGroup(site game.IntNode, rel topology.Relation) *Group {
	return &Group{Base: game.NewBase(site).Dynamic().Concept(game.ConceptGroup), Site: site, Rel: rel}
}

func (n *Group) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
}

func (n *Group) Eval(ctx *game.Context) game.Region {
	site := n.Site.Eval(ctx)
	return group(ctx, n.At.Type, site, ownerAt(ctx, n.At.Type, site), n.Rel)
}

// Side is the board sites with no neighbour in a direction.
type Side struct {
	game.Base
	cachedRegion
	Dir topology.Direction
	At  game.SiteRef
}

func NewSide(dir topology.Direction, st *topology.SiteType) *Side {
	return &Side{Base: game.NewBase().Concept(game.ConceptRegion), Dir: dir, At: game.TypeOf(st)}
}

func (n *Side) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
	game.Precompute(g, n, &n.cache, n.eval)
}

func (n *Side) Eval(ctx *game.Context) game.Region { return n.cached(ctx, n.eval) }

func (n *Side) eval(ctx *game.Context) game.Region {
	return game.NewRegion(n.At.Type, ctx.Board().Side(n.At.Type, n.Dir)...)
}

// RegionSlot reads the region slot written by group iteration.
type RegionSlot struct {
	game.Base
}

func NewRegionSlot() *RegionSlot {
	return &RegionSlot{Base: game.NewBase().Reads(game.SlotRegion)}
}

func (n *RegionSlot) Eval(ctx *game.Context) game.Region { return ctx.Slots.Region }

type SetOpKind int

const (
	SetUnion SetOpKind = iota
	SetIntersection
	SetDifference
)

// SetOp folds regions left to right.
type SetOp struct {
	game.Base
	cachedRegion
	Op   SetOpKind
	Args []game.RegionNode
}

func NewSetOp(op SetOpKind, args ...game.RegionNode) *SetOp {
	b := game.NewBase().Concept(game.ConceptRegion)
	for _, a := range args {
		b = b.With(a)
	}
	return &SetOp{Base: b, Op: op, Args: args}
}

func (n *SetOp) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	game.Precompute(g, n, &n.cache, n.eval)
}

func (n *SetOp) Eval(ctx *game.Context) game.Region { return n.cached(ctx, n.eval) }

func (n *SetOp) eval(ctx *game.Context) game.Region {
	if len(n.Args) == 0 {
		return game.Region{}
	}
	acc := n.Args[0].Eval(ctx)
	for _, a := range n.Args[1:] {
		r := a.Eval(ctx)
		switch n.Op {
		case SetUnion:
			acc = acc.Union(r)
		case SetIntersection:
			acc = acc.Intersection(r)
		default:
			acc = acc.Difference(r)
		}
	}
	return acc
}
