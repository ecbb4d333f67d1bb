package effect

import (
	"iter"

	"ludeme/game"
	"ludeme/rules/functions"
	"ludeme/topology"
)

// Movement configures Step and Slide.
type Movement struct {
	From    game.RegionNode // origins; nil means every site of the mover
	Rel     topology.Relation
	Dirs    []topology.Direction // overrides Rel when set
	If      game.BoolNode        // landing test; nil means empty, or an enemy when capturing
	Capture bool
	Max     game.IntNode // slide distance; nil for unlimited
	Type    *topology.SiteType
}

// walker is shared by Step and Slide.
type walker struct {
	game.Base
	Movement
	At game.SiteRef
}

func newWalker(m Movement, concept game.Concept) walker {
	return walker{
		Base:     game.NewBase(m.From, m.If, m.Max).Dynamic().Writes(game.SlotFrom | game.SlotTo).Concept(concept),
		Movement: m,
		At:       game.TypeOf(m.Type),
	}
}

func (w *walker) Preprocess(g *game.Game) {
	w.Base.Preprocess(g)
	w.At.Resolve(g)
	w.Base = w.Base.Flag(w.At.Flags())
}

func (w *walker) origins(ctx *game.Context) []int {
	st := w.At.Type
	cs := ctx.Container()
	if w.From != nil {
		var out []int
		for _, s := range w.From.Eval(ctx).Sites() {
			if !cs.IsEmpty(st, s) {
				out = append(out, s)
			}
		}
		return out
	}
	mover := ctx.Mover()
	var out []int
	for s := 0; s < ctx.Board().NumSites(st); s++ {
		if cs.Who(st, s, game.Off) == mover {
			out = append(out, s)
		}
	}
	return out
}

func (w *walker) directions(ctx *game.Context) []topology.Direction {
	if len(w.Dirs) > 0 {
		return w.Dirs
	}
	return ctx.Board().SupportedDirections(w.Rel)
}

// land reports whether the piece on from may land on to, and whether the
// occupant of to is captured.
func (w *walker) land(ctx *game.Context, from, to int) (ok, capture bool) {
	st := w.At.Type
	cs := ctx.Container()
	ctx.Slots.From, ctx.Slots.To = from, to
	empty := cs.IsEmpty(st, to)
	if w.If != nil {
		if !w.If.Eval(ctx) {
			return false, false
		}
		return true, w.Capture && !empty
	}
	if empty {
		return true, false
	}
	who := cs.Who(st, to, game.Off)
	if w.Capture && who != 0 && !ctx.State().Friends(who, ctx.Mover()) {
		return true, true
	}
	return false, false
}

// relocate builds the move carrying one piece from one site to another.
// A non-stacking site holding several copies gives up one of them.
func relocate(ctx *game.Context, st topology.SiteType, from, to int, capture bool) *game.Move {
	cs := ctx.Container()
	var actions []game.Action
	if capture {
		actions = append(actions, &game.Remove{Type: st, Site: to, Level: game.Off})
	}
	var decision game.Action
	if n := cs.Count(st, from); !cs.Stacking() && n > 1 {
		p, _ := cs.Piece(st, from, game.Off)
		decision = &game.Add{Type: st, Site: to, Level: game.Off, Piece: p, Count: 1}
		actions = append(actions, &game.SetCount{Type: st, Site: from, Piece: p, Count: n - 1}, decision)
	} else {
		decision = &game.MovePiece{Type: st, Src: from, LevelFrom: game.Off, Dst: to, LevelTo: game.Off}
		actions = append(actions, decision)
	}
	m := game.NewMove(actions...)
	for _, a := range actions {
		a.SetDecision(a == decision)
	}
	m.From, m.To = from, to
	return m
}

// Step moves a piece to the adjacent site in each direction.
type Step struct {
	walker
}

func NewStep(m Movement) *Step {
	return &Step{walker: newWalker(m, game.ConceptStepEffect)}
}

func (n *Step) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		saved := ctx.Slots
		defer func() { ctx.Slots = saved }()

		st := n.At.Type
		board := ctx.Board()
		for _, from := range n.origins(ctx) {
			for _, dir := range n.directions(ctx) {
				to := board.Step(st, from, dir)
				if to < 0 {
					continue
				}
				ok, capture := n.land(ctx, from, to)
				if ok && !yield(relocate(ctx, st, from, to, capture)) {
					return
				}
			}
		}
	}
}

func (n *Step) Eval(ctx *game.Context) []*game.Move { return game.Collect(n.Seq(ctx)) }

// Slide moves a piece any distance along a direction over empty sites. The
// first occupied site stops the slide; it is a landing only when captured.
type Slide struct {
	walker
}

func NewSlide(m Movement) *Slide {
	return &Slide{walker: newWalker(m, game.ConceptSlideEffect)}
}

func (n *Slide) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		saved := ctx.Slots
		defer func() { ctx.Slots = saved }()

		st := n.At.Type
		board := ctx.Board()
		cs := ctx.Container()
		limit := -1
		if n.Max != nil {
			limit = n.Max.Eval(ctx)
		}
		for _, from := range n.origins(ctx) {
			for _, dir := range n.directions(ctx) {
				radial := board.Radials(st, from, dir)
				for k := 1; k < len(radial) && (limit < 0 || k <= limit); k++ {
					to := radial[k]
					ok, capture := n.land(ctx, from, to)
					if ok && !yield(relocate(ctx, st, from, to, capture)) {
						return
					}
					if !cs.IsEmpty(st, to) {
						break
					}
				}
			}
		}
	}
}

func (n *Slide) Eval(ctx *game.Context) []*game.Move { return game.Collect(n.Seq(ctx)) }

// FromTo moves a piece from any occupied site of From to any site of To
// accepted by If (empty by default).
type FromTo struct {
	game.Base
	From    game.RegionNode
	To      game.RegionNode
	If      game.BoolNode
	Capture bool
	At      game.SiteRef
}

func NewFromTo(from, to game.RegionNode, cond game.BoolNode, capture bool, st *topology.SiteType) *FromTo {
	return &FromTo{
		Base:    game.NewBase(from, to, cond).Dynamic().Writes(game.SlotFrom | game.SlotTo).Concept(game.ConceptFromToEffect),
		From:    from,
		To:      to,
		If:      cond,
		Capture: capture,
		At:      game.TypeOf(st),
	}
}

func (n *FromTo) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
	n.Base = n.Base.Flag(n.At.Flags())
}

func (n *FromTo) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		saved := ctx.Slots
		defer func() { ctx.Slots = saved }()

		st := n.At.Type
		cs := ctx.Container()
		w := walker{Movement: Movement{If: n.If, Capture: n.Capture}, At: n.At}
		targets := n.To.Eval(ctx).Sites()
		for _, from := range n.From.Eval(ctx).Sites() {
			if cs.IsEmpty(st, from) {
				continue
			}
			for _, to := range targets {
				if to == from {
					continue
				}
				ok, capture := w.land(ctx, from, to)
				if ok && !yield(relocate(ctx, st, from, to, capture)) {
					return
				}
			}
		}
	}
}

func (n *FromTo) Eval(ctx *game.Context) []*game.Move { return game.Collect(n.Seq(ctx)) }

// Sow lifts every seed of a site and drops them one by one along a track.
// A bumped track element takes one extra seed per bump. With SkipOrigin
// the starting site is passed over on later laps.
type Sow struct {
	game.Base
	Start      game.IntNode
	Track      string
	Owner      game.IntNode
	SkipOrigin bool
}

func NewSow(start game.IntNode, track string, owner game.IntNode, skipOrigin bool) *Sow {
	if start == nil {
		start = functions.ReadSlot(game.SlotTo)
	}
	if owner == nil {
		owner = functions.Mover()
	}
	return &Sow{
		Base: game.NewBase(start, owner).Dynamic().
			Flag(game.FlagCount | game.FlagTracks).
			Concept(game.ConceptSowEffect, game.ConceptTrack),
		Start:      start,
		Track:      track,
		Owner:      owner,
		SkipOrigin: skipOrigin,
	}
}

func (n *Sow) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		if m := n.sow(ctx); m != nil {
			yield(m)
		}
	}
}

func (n *Sow) sow(ctx *game.Context) *game.Move {
	tr := ctx.Board().Track(n.Track, n.Owner.Eval(ctx))
	if tr == nil {
		game.Fail("sow", "no track %q", n.Track)
	}
	start := n.Start.Eval(ctx)
	cur := tr.SiteIndex(start)
	if cur < 0 || tr.Len() < 2 {
		return nil
	}
	cs := ctx.Container()
	seeds := cs.Count(tr.Type, start)
	if seeds == 0 {
		return nil
	}
	p, _ := cs.Piece(tr.Type, start, game.Off)

	var order []int
	drops := map[int]int{}
	bumps, last := 0, game.Off
	for seeds > 0 {
		if bumps > 0 {
			bumps--
		} else {
			if cur = tr.Next(cur); cur < 0 {
				break
			}
			bumps = tr.Elems[cur].Bump
		}
		site := tr.Site(cur)
		if n.SkipOrigin && site == start {
			bumps = 0
			continue
		}
		if drops[site] == 0 {
			order = append(order, site)
		}
		drops[site]++
		last = site
		seeds--
	}
	if len(order) == 0 {
		return nil
	}

	actions := []game.Action{&game.SetCount{Type: tr.Type, Site: start, Piece: p, Count: seeds}}
	for _, site := range order {
		actions = append(actions, &game.Add{Type: tr.Type, Site: site, Level: game.Off, Piece: p, Count: drops[site]})
	}
	m := game.NewMove(actions...)
	m.From, m.To = start, last
	return m
}

func (n *Sow) Eval(ctx *game.Context) []*game.Move { return game.Collect(n.Seq(ctx)) }

func (n *Sow) MissingRequirement(g *game.Game) bool {
	return n.Base.MissingRequirement(g) || g.Stacking
}

func (n *Sow) WillCrash(g *game.Game) bool {
	if n.Base.WillCrash(g) {
		return true
	}
	for _, tr := range g.Board.Tracks() {
		if tr.Name == n.Track {
			return false
		}
	}
	return true
}
