package effect

import (
	"iter"
	"slices"

	"ludeme/game"
	"ludeme/rules/functions"
	"ludeme/topology"
)

// iteration runs a generator once per element of a domain, binding the
// element into the slots first. The slots are restored afterwards. When
// the generator writes no slot besides the bound ones, they are not reset
// between elements.
type iteration[T any] struct {
	game.Base
	Gen   game.MovesNode
	bind  func(*game.EvalSlots, T)
	own   game.Slots
	reuse bool
}

func newIteration[T any](gen game.MovesNode, own game.Slots, concept game.Concept, bind func(*game.EvalSlots, T), params ...game.Node) iteration[T] {
	return iteration[T]{
		Base: game.NewBase(append(params, gen)...).Dynamic().Writes(own).Concept(concept),
		Gen:  gen,
		bind: bind,
		own:  own,
	}
}

func (it *iteration[T]) Preprocess(g *game.Game) {
	it.Base.Preprocess(g)
	it.reuse = it.Gen.WritesEvalContext()&^it.own == 0
}

func (it *iteration[T]) eager(ctx *game.Context, items []T) []*game.Move {
	saved := ctx.Slots
	defer func() { ctx.Slots = saved }()

	var out []*game.Move
	for _, item := range items {
		if !it.reuse {
			ctx.Slots = saved
		}
		it.bind(&ctx.Slots, item)
		out = append(out, it.Gen.Eval(ctx)...)
	}
	return out
}

func (it *iteration[T]) lazy(ctx *game.Context, items []T) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		saved := ctx.Slots
		defer func() { ctx.Slots = saved }()

		for _, item := range items {
			if !it.reuse {
				ctx.Slots = saved
			}
			it.bind(&ctx.Slots, item)
			for m := range it.Gen.Seq(ctx) {
				if !yield(m) {
					return
				}
			}
		}
	}
}

type pieceAt struct {
	site, level int
}

// ForEachPiece runs the generator from every piece of a player, binding
// From and Level. Kind restricts the component.
type ForEachPiece struct {
	iteration[pieceAt]
	Who  game.IntNode
	Kind string
	At   game.SiteRef
}

func NewForEachPiece(who game.IntNode, kind string, gen game.MovesNode, st *topology.SiteType) *ForEachPiece {
	if who == nil {
		who = functions.Mover()
	}
	bind := func(s *game.EvalSlots, p pieceAt) { s.From, s.Level = p.site, p.level }
	return &ForEachPiece{
		iteration: newIteration(gen, game.SlotFrom|game.SlotLevel, game.ConceptForEachPiece, bind, who),
		Who:       who,
		Kind:      kind,
		At:        game.TypeOf(st),
	}
}

func (n *ForEachPiece) Preprocess(g *game.Game) {
	n.iteration.Preprocess(g)
	n.At.Resolve(g)
	n.Base = n.Base.Flag(n.At.Flags())
}

func (n *ForEachPiece) pieces(ctx *game.Context) []pieceAt {
	st := n.At.Type
	who := n.Who.Eval(ctx)
	what := 0
	if n.Kind != "" {
		if what = ctx.Game().Component(n.Kind, who); what == 0 {
			return nil
		}
	}
	cs := ctx.Container()
	var out []pieceAt
	for site := 0; site < cs.Size(st); site++ {
		s := cs.Stack(st, site)
		if !cs.Stacking() {
			if len(s.Pieces) > 0 && s.Pieces[0].Who == who && (what == 0 || s.Pieces[0].What == what) {
				out = append(out, pieceAt{site, game.Off})
			}
			continue
		}
		for level, p := range s.Pieces {
			if p.Who == who && (what == 0 || p.What == what) {
				out = append(out, pieceAt{site, level})
			}
		}
	}
	return out
}

func (n *ForEachPiece) Eval(ctx *game.Context) []*game.Move { return n.eager(ctx, n.pieces(ctx)) }

func (n *ForEachPiece) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return n.lazy(ctx, n.pieces(ctx))
}

// ForEachSite binds Site to every site of a region in ascending order.
type ForEachSite struct {
	iteration[int]
	Region game.RegionNode
}

func NewForEachSite(r game.RegionNode, gen game.MovesNode) *ForEachSite {
	bind := func(s *game.EvalSlots, site int) { s.Site = site }
	return &ForEachSite{
		iteration: newIteration(gen, game.SlotSite, game.ConceptForEachSite, bind, r),
		Region:    r,
	}
}

func (n *ForEachSite) Eval(ctx *game.Context) []*game.Move {
	return n.eager(ctx, n.Region.Eval(ctx).Sites())
}

func (n *ForEachSite) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return n.lazy(ctx, n.Region.Eval(ctx).Sites())
}

// ForEachValue binds Value to each integer of [Min, Max] in ascending
// order.
type ForEachValue struct {
	iteration[int]
	Min, Max game.IntNode
}

func NewForEachValue(lo, hi game.IntNode, gen game.MovesNode) *ForEachValue {
	bind := func(s *game.EvalSlots, v int) { s.Value = v }
	return &ForEachValue{
		iteration: newIteration(gen, game.SlotValue, game.ConceptForEachValue, bind, lo, hi),
		Min:       lo,
		Max:       hi,
	}
}

func (n *ForEachValue) values(ctx *game.Context) []int {
	lo, hi := n.Min.Eval(ctx), n.Max.Eval(ctx)
	var out []int
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

func (n *ForEachValue) Eval(ctx *game.Context) []*game.Move { return n.eager(ctx, n.values(ctx)) }

func (n *ForEachValue) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return n.lazy(ctx, n.values(ctx))
}

type heading struct {
	dir topology.Direction
	to  int
}

// ForEachDirection binds Direction, and To to the neighbour that way, for
// every direction of a relation in which Site has a neighbour.
type ForEachDirection struct {
	iteration[heading]
	Site game.IntNode
	Rel  topology.Relation
	At   game.SiteRef
}

func NewForEachDirection(site game.IntNode, rel topology.Relation, gen game.MovesNode, st *topology.SiteType) *ForEachDirection {
	if site == nil {
		site = functions.ReadSlot(game.SlotFrom)
	}
	bind := func(s *game.EvalSlots, h heading) { s.Direction, s.To = h.dir, h.to }
	return &ForEachDirection{
		iteration: newIteration(gen, game.SlotDirection|game.SlotTo, game.ConceptForEachDirection, bind, site),
		Site:      site,
		Rel:       rel,
		At:        game.TypeOf(st),
	}
}

func (n *ForEachDirection) Preprocess(g *game.Game) {
	n.iteration.Preprocess(g)
	n.At.Resolve(g)
}

func (n *ForEachDirection) headings(ctx *game.Context) []heading {
	st := n.At.Type
	site := n.Site.Eval(ctx)
	board := ctx.Board()
	var out []heading
	for _, d := range board.Directions(st, site, n.Rel) {
		out = append(out, heading{d, board.Step(st, site, d)})
	}
	return out
}

func (n *ForEachDirection) Eval(ctx *game.Context) []*game.Move {
	return n.eager(ctx, n.headings(ctx))
}

func (n *ForEachDirection) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return n.lazy(ctx, n.headings(ctx))
}

// ForEachPlayer binds Player to every player in turn order from 1.
type ForEachPlayer struct {
	iteration[int]
}

func NewForEachPlayer(gen game.MovesNode) *ForEachPlayer {
	bind := func(s *game.EvalSlots, p int) { s.Player = p }
	return &ForEachPlayer{iteration: newIteration(gen, game.SlotPlayer, game.ConceptForEachPlayer, bind)}
}

func players(ctx *game.Context) []int {
	out := make([]int, ctx.Game().Players)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func (n *ForEachPlayer) Eval(ctx *game.Context) []*game.Move { return n.eager(ctx, players(ctx)) }

func (n *ForEachPlayer) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return n.lazy(ctx, players(ctx))
}

// ForEachLevel binds Level to every level of the stack at Site, bottom up.
type ForEachLevel struct {
	iteration[int]
	Site game.IntNode
	At   game.SiteRef
}

func NewForEachLevel(site game.IntNode, gen game.MovesNode, st *topology.SiteType) *ForEachLevel {
	if site == nil {
		site = functions.ReadSlot(game.SlotTo)
	}
	bind := func(s *game.EvalSlots, l int) { s.Level = l }
	it := newIteration(gen, game.SlotLevel, game.ConceptForEachLevel, bind, site)
	it.Base = it.Base.Flag(game.FlagStacking).Concept(game.ConceptStacking)
	return &ForEachLevel{iteration: it, Site: site, At: game.TypeOf(st)}
}

func (n *ForEachLevel) Preprocess(g *game.Game) {
	n.iteration.Preprocess(g)
	n.At.Resolve(g)
}

func (n *ForEachLevel) levels(ctx *game.Context) []int {
	h := ctx.Container().Height(n.At.Type, n.Site.Eval(ctx))
	out := make([]int, h)
	for i := range out {
		out[i] = i
	}
	return out
}

func (n *ForEachLevel) Eval(ctx *game.Context) []*game.Move { return n.eager(ctx, n.levels(ctx)) }

func (n *ForEachLevel) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return n.lazy(ctx, n.levels(ctx))
}

func (n *ForEachLevel) MissingRequirement(g *game.Game) bool {
	return n.Base.MissingRequirement(g) || !g.Stacking
}

// ForEachGroup binds Region to every group of a player's pieces.
type ForEachGroup struct {
	iteration[game.Region]
	Who game.IntNode
	Rel topology.Relation
	At  game.SiteRef
}

func NewForEachGroup(who game.IntNode, rel topology.Relation, gen game.MovesNode) *ForEachGroup {
	if who == nil {
		who = functions.Mover()
	}
	bind := func(s *game.EvalSlots, r game.Region) { s.Region = r }
	it := newIteration(gen, game.SlotRegion, game.ConceptForEachGroup, bind, who)
	it.Base = it.Base.Concept(game.ConceptGroup)
	return &ForEachGroup{iteration: it, Who: who, Rel: rel}
}

func (n *ForEachGroup) Preprocess(g *game.Game) {
	n.iteration.Preprocess(g)
	n.At.Resolve(g)
}

func (n *ForEachGroup) groups(ctx *game.Context) []game.Region {
	return functions.Groups(ctx, n.At.Type, n.Who.Eval(ctx), n.Rel)
}

func (n *ForEachGroup) Eval(ctx *game.Context) []*game.Move { return n.eager(ctx, n.groups(ctx)) }

func (n *ForEachGroup) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return n.lazy(ctx, n.groups(ctx))
}

// ForEachTeam binds Team to every team that has a member, ascending.
type ForEachTeam struct {
	iteration[int]
}

func NewForEachTeam(gen game.MovesNode) *ForEachTeam {
	bind := func(s *game.EvalSlots, t int) { s.Team = t }
	it := newIteration(gen, game.SlotTeam, game.ConceptForEachTeam, bind)
	it.Base = it.Base.Flag(game.FlagTeams)
	return &ForEachTeam{iteration: it}
}

func teams(ctx *game.Context) []int {
	var out []int
	for _, t := range ctx.State().Teams[1:] {
		if t != 0 && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return out
}

func (n *ForEachTeam) Eval(ctx *game.Context) []*game.Move { return n.eager(ctx, teams(ctx)) }

func (n *ForEachTeam) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return n.lazy(ctx, teams(ctx))
}
