package functions

import (
	"ludeme/game"
	"ludeme/topology"
)

// IsLine holds when the piece at Site (the last destination by default)
// belongs to a straight run of at least Length same-owner pieces.
type IsLine struct {
	game.Base
	Length game.IntNode
	Site   game.IntNode
	Who    game.IntNode
	Rel    topology.Relation
	At     game.SiteRef
}

func NewIsLine(length, site, who game.IntNode, rel topology.Relation) *IsLine {
	if site == nil {
		site = ReadSlot(game.SlotTo)
	}
	return &IsLine{
		Base:   game.NewBase(length, site, who).Dynamic().Concept(game.ConceptLine),
		Length: length,
		Site:   site,
		Who:    who,
		Rel:    rel,
	}
}

func (n *IsLine) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
}

func (n *IsLine) Eval(ctx *game.Context) bool {
	st := n.At.Type
	site := n.Site.Eval(ctx)
	if site < 0 {
		return false
	}
	who := ownerAt(ctx, st, site)
	if n.Who != nil && who != n.Who.Eval(ctx) {
		return false
	}
	if who == 0 {
		return false
	}
	length := n.Length.Eval(ctx)
	board := ctx.Board()
	run := func(dir topology.Direction) int {
		radial := board.Radials(st, site, dir)
		if len(radial) < 2 {
			return 0
		}
		k := 0
		for _, s := range radial[1:] {
			if ownerAt(ctx, st, s) != who {
				break
			}
			k++
		}
		return k
	}
	for _, dir := range board.SupportedDirections(n.Rel) {
		if dir > dir.Opposite() {
			continue
		}
		if 1+run(dir)+run(dir.Opposite()) >= length {
			return true
		}
	}
	return false
}

// IsThreatened holds when some opponent of the piece at Site has a move
// that removes it. Moves come from By, or from the play rules. It is false
// when evaluated inside its own speculative search.
type IsThreatened struct {
	game.Base
	Site game.IntNode
	By   game.MovesNode
	At   game.SiteRef
}

func NewIsThreatened(site game.IntNode, by game.MovesNode) *IsThreatened {
	return &IsThreatened{
		Base: game.NewBase(site, by).Dynamic().Flag(game.FlagThreat).Concept(game.ConceptThreat, game.ConceptCopyContext),
		Site: site,
		By:   by,
	}
}

func (n *IsThreatened) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
}

func (n *IsThreatened) Eval(ctx *game.Context) bool {
	st := n.At.Type
	site := n.Site.Eval(ctx)
	target, ok := ctx.Container().Piece(st, site, game.Off)
	if !ok {
		return false
	}

	entered, leave := ctx.Enter(game.GuardThreat)
	if !entered {
		return false
	}
	defer leave()

	gen := n.By
	if gen == nil {
		gen = ctx.Game().Rules.Play
	}
	spec, release := ctx.Speculate()
	defer release()

	s := spec.State()
	for p := 1; p <= s.NumPlayers; p++ {
		if s.Friends(p, target.Who) {
			continue
		}
		s.Mover, s.Next = p, s.Successor(p)
		spec.Slots = game.NewSlots()
		for m := range gen.Seq(spec) {
			if removes(spec, m, st, site, target) {
				return true
			}
		}
	}
	return false
}

func removes(ctx *game.Context, m *game.Move, st topology.SiteType, site int, target game.Piece) bool {
	hyp, release := ctx.Speculate()
	defer release()
	m.Apply(hyp)
	p, ok := hyp.Container().Piece(st, site, game.Off)
	return !ok || p.Who != target.Who || p.What != target.What
}

// IsLoop holds when the group of the piece at Site encloses at least one
// site: some site outside the group cannot reach the board perimeter
// without crossing it.
type IsLoop struct {
	game.Base
	Site game.IntNode
	Rel  topology.Relation // connectivity of the group
	At   game.SiteRef
}

func NewIsLoop(site game.IntNode, rel topology.Relation) *IsLoop {
	if site == nil {
		site = ReadSlot(game.SlotTo)
	}
	return &IsLoop{Base: game.NewBase(site).Dynamic().Concept(game.ConceptLoop), Site: site, Rel: rel}
}

func (n *IsLoop) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
}

func (n *IsLoop) Eval(ctx *game.Context) bool {
	st := n.At.Type
	site := n.Site.Eval(ctx)
	if !ctx.Board().Valid(st, site) {
		return false
	}
	grp := group(ctx, st, site, ownerAt(ctx, st, site), n.Rel)
	if grp.Len() < 3 {
		return false
	}
	outside := reachFrom(ctx, st, ctx.Board().Perimeter(st), topology.Orthogonal, func(s int) bool {
		return !grp.Contains(s)
	})
	return outside.Len()+grp.Len() < ctx.Board().NumSites(st)
}

// HasFreedom holds when the group of the piece at Site touches an empty
// site.
type HasFreedom struct {
	game.Base
	Site game.IntNode
	Rel  topology.Relation
	At   game.SiteRef
}

func NewHasFreedom(site game.IntNode, rel topology.Relation) *HasFreedom {
	return &HasFreedom{Base: game.NewBase(site).Dynamic().Concept(game.ConceptLiberties), Site: site, Rel: rel}
}

func (n *HasFreedom) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
}

func (n *HasFreedom) Eval(ctx *game.Context) bool {
	st := n.At.Type
	site := n.Site.Eval(ctx)
	grp := group(ctx, st, site, ownerAt(ctx, st, site), n.Rel)
	board := ctx.Board()
	cs := ctx.Container()
	for _, s := range grp.Sites() {
		for _, nb := range board.Neighbours(st, s, n.Rel) {
			if cs.IsEmpty(st, nb) {
				return true
			}
		}
	}
	return false
}

// IsConnected holds when one group of Who's pieces touches every region.
type IsConnected struct {
	game.Base
	Regions []game.RegionNode
	Who     game.IntNode
	Rel     topology.Relation
	At      game.SiteRef
}

func NewIsConnected(who game.IntNode, rel topology.Relation, regions ...game.RegionNode) *IsConnected {
	if who == nil {
		who = Mover()
	}
	b := game.NewBase(who).Dynamic().Concept(game.ConceptConnection)
	for _, r := range regions {
		b = b.With(r)
	}
	return &IsConnected{Base: b, Regions: regions, Who: who, Rel: rel}
}

func (n *IsConnected) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
}

func (n *IsConnected) Eval(ctx *game.Context) bool {
	if len(n.Regions) < 2 {
		return false
	}
	st := n.At.Type
	who := n.Who.Eval(ctx)
	owned := func(s int) bool { return ownerAt(ctx, st, s) == who }

	reached := reachFrom(ctx, st, n.Regions[0].Eval(ctx).Sites(), n.Rel, owned)
	if reached.IsEmpty() {
		return false
	}
	for _, r := range n.Regions[1:] {
		if reached.Intersection(r.Eval(ctx)).IsEmpty() {
			return false
		}
	}
	return true
}

func (n *IsConnected) WillCrash(g *game.Game) bool {
	return n.Base.WillCrash(g) || len(n.Regions) < 2
}

// CanMove holds when Who has at least one move from Moves, or from the play
// rules. Only the first move is generated.
type CanMove struct {
	game.Base
	Moves game.MovesNode
	Who   game.IntNode
}

func NewCanMove(moves game.MovesNode, who game.IntNode) *CanMove {
	if who == nil {
		who = Mover()
	}
	return &CanMove{Base: game.NewBase(moves, who).Dynamic().Concept(game.ConceptCopyContext), Moves: moves, Who: who}
}

func (n *CanMove) Eval(ctx *game.Context) bool {
	entered, leave := ctx.Enter(game.GuardCanMove)
	if !entered {
		return false
	}
	defer leave()

	gen := n.Moves
	if gen == nil {
		gen = ctx.Game().Rules.Play
	}
	who := n.Who.Eval(ctx)
	spec, release := ctx.Speculate()
	defer release()
	s := spec.State()
	s.Mover, s.Next = who, s.Successor(who)
	spec.Slots = game.NewSlots()
	for range gen.Seq(spec) {
		return true
	}
	return false
}
