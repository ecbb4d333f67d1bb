package effect

import (
	"iter"

	"ludeme/game"
	"ludeme/topology"
)

// pieceOf returns the piece a component index places: shared components
// have no owner.
func pieceOf(g *game.Game, what int) game.Piece {
	for _, c := range g.Components {
		if c.Index == what {
			return game.Piece{What: what, Who: c.Owner}
		}
	}
	return game.Piece{What: what}
}

// Add places Count copies of a component on each site of To. On
// non-stacking boards only empty sites are used.
type Add struct {
	game.Base
	Piece game.IntNode
	To    game.RegionNode
	Count game.IntNode
	At    game.SiteRef
}

func NewAdd(piece game.IntNode, to game.RegionNode, count game.IntNode, st *topology.SiteType) *Add {
	b := game.NewBase(piece, to, count).Dynamic().Concept(game.ConceptAddEffect)
	if count != nil {
		b = b.Flag(game.FlagCount)
	}
	return &Add{Base: b, Piece: piece, To: to, Count: count, At: game.TypeOf(st)}
}

func (n *Add) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
	n.Base = n.Base.Flag(n.At.Flags())
}

func (n *Add) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		what := n.Piece.Eval(ctx)
		if what <= 0 {
			return
		}
		count := 1
		if n.Count != nil {
			count = n.Count.Eval(ctx)
		}
		if count <= 0 {
			return
		}
		p := pieceOf(ctx.Game(), what)
		st := n.At.Type
		cs := ctx.Container()
		for _, site := range n.To.Eval(ctx).Sites() {
			if site >= cs.Size(st) || (!cs.Stacking() && !cs.IsEmpty(st, site)) {
				continue
			}
			a := &game.Add{Type: st, Site: site, Level: game.Off, Piece: p, Count: count}
			if !yield(game.NewMove(a)) {
				return
			}
		}
	}
}

func (n *Add) Eval(ctx *game.Context) []*game.Move { return game.Collect(n.Seq(ctx)) }

// Remove takes the top piece off each occupied site of a region.
type Remove struct {
	game.Base
	Sites game.RegionNode
	At    game.SiteRef
}

func NewRemove(sites game.RegionNode, st *topology.SiteType) *Remove {
	return &Remove{Base: game.NewBase(sites).Dynamic().Concept(game.ConceptRemoveEffect), Sites: sites, At: game.TypeOf(st)}
}

func (n *Remove) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
}

func (n *Remove) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		st := n.At.Type
		cs := ctx.Container()
		for _, site := range n.Sites.Eval(ctx).Sites() {
			if cs.IsEmpty(st, site) {
				continue
			}
			if !yield(game.NewMove(&game.Remove{Type: st, Site: site, Level: game.Off})) {
				return
			}
		}
	}
}

func (n *Remove) Eval(ctx *game.Context) []*game.Move { return game.Collect(n.Seq(ctx)) }
