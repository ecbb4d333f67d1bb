// Package functions holds the boolean, integer, float and region rule nodes.
package functions

import (
	"ludeme/game"
	"ludeme/topology"
)

// IntConst is an integer literal.
type IntConst struct {
	game.Base
	V int
}

func Int(v int) *IntConst { return &IntConst{V: v} }

func (n *IntConst) Eval(*game.Context) int { return n.V }

type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAbs
	OpMin
	OpMax
)

// Arity is the fewest operands op takes.
func (op ArithOp) Arity() int {
	switch op {
	case OpSub, OpDiv, OpMod:
		return 2
	}
	return 1
}

var arithConcepts = map[ArithOp]game.Concept{
	OpAdd: game.ConceptAddition,
	OpSub: game.ConceptSubtraction,
	OpMul: game.ConceptMultiplication,
	OpDiv: game.ConceptDivision,
	OpMod: game.ConceptModulo,
	OpAbs: game.ConceptAbsolute,
	OpMin: game.ConceptMinimum,
	OpMax: game.ConceptMaximum,
}

// Arith folds its operands left to right. Abs takes a single operand.
// Static instances are folded once at preprocessing.
type Arith struct {
	game.Base
	Op    ArithOp
	Args  []game.IntNode
	cache game.Cache[int]
}

func NewArith(op ArithOp, args ...game.IntNode) *Arith {
	n := &Arith{Op: op, Args: args}
	b := game.NewBase().Concept(arithConcepts[op])
	for _, a := range args {
		b = b.With(a)
	}
	n.Base = b
	return n
}

func (n *Arith) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	game.Precompute(g, n, &n.cache, n.eval)
}

func (n *Arith) Eval(ctx *game.Context) int {
	if v, ok := n.cache.Get(); ok {
		return v
	}
	return n.eval(ctx)
}

func (n *Arith) eval(ctx *game.Context) int {
	if len(n.Args) == 0 {
		return 0
	}
	acc := n.Args[0].Eval(ctx)
	if n.Op == OpAbs {
		if acc < 0 {
			return -acc
		}
		return acc
	}
	for _, a := range n.Args[1:] {
		v := a.Eval(ctx)
		switch n.Op {
		case OpAdd:
			acc += v
		case OpSub:
			acc -= v
		case OpMul:
			acc *= v
		case OpDiv:
			if v == 0 {
				game.Fail("div", "division by zero")
			}
			acc /= v
		case OpMod:
			if v == 0 {
				game.Fail("mod", "modulo by zero")
			}
			acc %= v
		case OpMin:
			acc = min(acc, v)
		case OpMax:
			acc = max(acc, v)
		}
	}
	return acc
}

// MissingRequirement reports too few operands.
func (n *Arith) MissingRequirement(g *game.Game) bool {
	return n.Base.MissingRequirement(g) || len(n.Args) < n.Op.Arity()
}

// WillCrash reports a static zero divisor.
func (n *Arith) WillCrash(g *game.Game) bool {
	if n.Base.WillCrash(g) {
		return true
	}
	if (n.Op != OpDiv && n.Op != OpMod) || len(n.Args) < 2 {
		return false
	}
	for _, a := range n.Args[1:] {
		if a.IsStatic() && a.Eval(game.NewContext(g, 0)) == 0 {
			return true
		}
	}
	return false
}

// SlotValue reads one transient context slot.
type SlotValue struct {
	game.Base
	Slot game.Slots
}

func ReadSlot(slot game.Slots) *SlotValue {
	return &SlotValue{Base: game.NewBase().Reads(slot), Slot: slot}
}

func (n *SlotValue) Eval(ctx *game.Context) int {
	s := &ctx.Slots
	switch n.Slot {
	case game.SlotFrom:
		return s.From
	case game.SlotTo:
		return s.To
	case game.SlotLevel:
		return s.Level
	case game.SlotBetween:
		return s.Between
	case game.SlotSite:
		return s.Site
	case game.SlotValue:
		return s.Value
	case game.SlotPlayer:
		return s.Player
	case game.SlotTeam:
		return s.Team
	case game.SlotDirection:
		return int(s.Direction)
	}
	game.Fail("slot", "slot %s holds no integer", n.Slot)
	return 0
}

type Role int

const (
	RoleMover Role = iota
	RoleNext
	RolePrev
)

// Player resolves a role to a player index.
type Player struct {
	game.Base
	Role Role
}

func NewPlayer(r Role) *Player {
	return &Player{Base: game.NewBase().Dynamic(), Role: r}
}

func (n *Player) Eval(ctx *game.Context) int {
	s := ctx.State()
	switch n.Role {
	case RoleNext:
		return s.Next
	case RolePrev:
		return s.Prev
	}
	return s.Mover
}

// Mover is shorthand for the player to move.
func Mover() *Player { return NewPlayer(RoleMover) }

type SiteProp int

const (
	PropWhat SiteProp = iota
	PropWho
	PropState
	PropValue
	PropRotation
	PropCount
	PropHeight
)

// SiteQuery reads a property of the piece at a site and level (top when
// Level is nil).
type SiteQuery struct {
	game.Base
	Prop  SiteProp
	Site  game.IntNode
	Level game.IntNode
	At    game.SiteRef
}

func NewSiteQuery(prop SiteProp, site, level game.IntNode, st *topology.SiteType) *SiteQuery {
	b := game.NewBase(site, level).Dynamic()
	switch prop {
	case PropCount:
		b = b.Flag(game.FlagCount)
	case PropState:
		b = b.Flag(game.FlagLocalState)
	case PropValue:
		b = b.Flag(game.FlagPieceValue)
	case PropRotation:
		b = b.Flag(game.FlagRotation)
	case PropHeight:
		b = b.Flag(game.FlagStacking)
	}
	return &SiteQuery{Base: b, Prop: prop, Site: site, Level: level, At: game.TypeOf(st)}
}

func (n *SiteQuery) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
	n.Base = n.Base.Flag(n.At.Flags())
}

func (n *SiteQuery) Eval(ctx *game.Context) int {
	site := n.Site.Eval(ctx)
	cs := ctx.Container()
	switch n.Prop {
	case PropCount:
		return cs.Count(n.At.Type, site)
	case PropHeight:
		return cs.Height(n.At.Type, site)
	}
	level := game.Off
	if n.Level != nil {
		level = n.Level.Eval(ctx)
	}
	p, _ := cs.Piece(n.At.Type, site, level)
	switch n.Prop {
	case PropWhat:
		return p.What
	case PropWho:
		return p.Who
	case PropState:
		return p.State
	case PropValue:
		return p.Value
	default:
		return p.Rotation
	}
}

// MissingRequirement reports stack queries on non-stacking games.
func (n *SiteQuery) MissingRequirement(g *game.Game) bool {
	return n.Base.MissingRequirement(g) || (n.Prop == PropHeight && !g.Stacking)
}

// CountSites is the size of a region.
type CountSites struct {
	game.Base
	Region game.RegionNode
}

func NewCountSites(r game.RegionNode) *CountSites {
	return &CountSites{Base: game.NewBase(r), Region: r}
}

func (n *CountSites) Eval(ctx *game.Context) int { return n.Region.Eval(ctx).Len() }

// CountPieces counts the component copies a player owns on every site of
// the default type, hands included. Kind restricts the component.
type CountPieces struct {
	game.Base
	Who  game.IntNode
	Kind string
	At   game.SiteRef
}

func NewCountPieces(who game.IntNode, kind string) *CountPieces {
	return &CountPieces{Base: game.NewBase(who).Dynamic().Flag(game.FlagCount), Who: who, Kind: kind}
}

func (n *CountPieces) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
}

func (n *CountPieces) Eval(ctx *game.Context) int {
	who := n.Who.Eval(ctx)
	what := 0
	if n.Kind != "" {
		what = ctx.Game().Component(n.Kind, who)
	}
	cs := ctx.Container()
	total := 0
	for site := 0; site < cs.Size(n.At.Type); site++ {
		s := cs.Stack(n.At.Type, site)
		for _, p := range s.Pieces {
			if p.Who != who || (what != 0 && p.What != what) {
				continue
			}
			if cs.Stacking() {
				total++
			} else {
				total += s.Count
			}
		}
	}
	return total
}

func (n *CountPieces) WillCrash(g *game.Game) bool {
	return n.Base.WillCrash(g) || (n.Kind != "" && !hasKind(g, n.Kind))
}

func hasKind(g *game.Game, kind string) bool {
	for _, c := range g.Components {
		if c.Index != 0 && (c.Kind == kind || c.Name == kind) {
			return true
		}
	}
	return false
}

type Scalar int

const (
	ScalarPot Scalar = iota
	ScalarCounter
	ScalarTrump
	ScalarPlayers
	ScalarMoves
)

// StateScalar reads a scalar of the state.
type StateScalar struct {
	game.Base
	Which Scalar
}

func NewStateScalar(which Scalar) *StateScalar {
	b := game.NewBase()
	switch which {
	case ScalarPlayers:
		// Fixed by the game definition.
	case ScalarPot:
		b = b.Dynamic().Flag(game.FlagPot)
	case ScalarTrump:
		b = b.Dynamic().Flag(game.FlagTrump)
	default:
		b = b.Dynamic()
	}
	return &StateScalar{Base: b, Which: which}
}

func (n *StateScalar) Eval(ctx *game.Context) int {
	s := ctx.State()
	switch n.Which {
	case ScalarPot:
		return s.Pot
	case ScalarCounter:
		return s.Counter
	case ScalarTrump:
		return s.Trump
	case ScalarPlayers:
		return ctx.Game().Players
	default:
		return ctx.Trial().NumMoves()
	}
}

// Var reads a named game variable.
type Var struct {
	game.Base
	Name string
}

func NewVar(name string) *Var {
	return &Var{Base: game.NewBase().Dynamic().Flag(game.FlagVars), Name: name}
}

func (n *Var) Eval(ctx *game.Context) int { return ctx.State().Var(n.Name) }

// Score reads the score of a player.
type Score struct {
	game.Base
	Who game.IntNode
}

func NewScore(who game.IntNode) *Score {
	return &Score{Base: game.NewBase(who).Dynamic().Flag(game.FlagScore), Who: who}
}

func (n *Score) Eval(ctx *game.Context) int { return ctx.State().Score(n.Who.Eval(ctx)) }

// PieceIndex resolves a component name for an owner.
type PieceIndex struct {
	game.Base
	Kind  string
	Owner game.IntNode
}

func NewPieceIndex(kind string, owner game.IntNode) *PieceIndex {
	return &PieceIndex{Base: game.NewBase(owner), Kind: kind, Owner: owner}
}

func (n *PieceIndex) Eval(ctx *game.Context) int {
	owner := 0
	if n.Owner != nil {
		owner = n.Owner.Eval(ctx)
	}
	return ctx.Game().Component(n.Kind, owner)
}

func (n *PieceIndex) WillCrash(g *game.Game) bool {
	return n.Base.WillCrash(g) || !hasKind(g, n.Kind)
}

// Where is the first site holding a component of a kind owned by a player,
// or Off.
type Where struct {
	game.Base
	Kind string
	Who  game.IntNode
	At   game.SiteRef
}

func NewWhere(kind string, who game.IntNode) *Where {
	return &Where{Base: game.NewBase(who).Dynamic(), Kind: kind, Who: who}
}

func (n *Where) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
}

func (n *Where) Eval(ctx *game.Context) int {
	who := n.Who.Eval(ctx)
	what := ctx.Game().Component(n.Kind, who)
	if what == 0 {
		return game.Off
	}
	cs := ctx.Container()
	for site := 0; site < cs.Size(n.At.Type); site++ {
		for _, p := range cs.Stack(n.At.Type, site).Pieces {
			if p.What == what && p.Who == who {
				return site
			}
		}
	}
	return game.Off
}

func (n *Where) WillCrash(g *game.Game) bool {
	return n.Base.WillCrash(g) || !hasKind(g, n.Kind)
}

// TrackSite is the site of a track element, or Off past either end.
type TrackSite struct {
	game.Base
	Track string
	Owner game.IntNode
	Index game.IntNode
}

func NewTrackSite(track string, owner, index game.IntNode) *TrackSite {
	return &TrackSite{
		Base:  game.NewBase(owner, index).Flag(game.FlagTracks).Concept(game.ConceptTrack),
		Track: track,
		Owner: owner,
		Index: index,
	}
}

func (n *TrackSite) Eval(ctx *game.Context) int {
	tr := lookupTrack(ctx, n.Track, n.Owner)
	if tr == nil {
		game.Fail("track-site", "no track %q", n.Track)
	}
	return tr.Site(n.Index.Eval(ctx))
}

func (n *TrackSite) WillCrash(g *game.Game) bool {
	return n.Base.WillCrash(g) || !hasTrack(g, n.Track)
}

func lookupTrack(ctx *game.Context, name string, owner game.IntNode) *topology.Track {
	o := 0
	if owner != nil {
		o = owner.Eval(ctx)
	}
	return ctx.Board().Track(name, o)
}

func hasTrack(g *game.Game, name string) bool {
	for _, tr := range g.Board.Tracks() {
		if tr.Name == name {
			return true
		}
	}
	return false
}

// Random draws uniformly from [Min, Max] with the trial's generator.
type Random struct {
	game.Base
	Min, Max game.IntNode
}

func NewRandom(lo, hi game.IntNode) *Random {
	return &Random{
		Base: game.NewBase(lo, hi).Dynamic().Flag(game.FlagStochastic).Concept(game.ConceptRandom),
		Min:  lo,
		Max:  hi,
	}
}

func (n *Random) Eval(ctx *game.Context) int {
	lo, hi := n.Min.Eval(ctx), n.Max.Eval(ctx)
	if hi < lo {
		game.Fail("random", "empty range [%d, %d]", lo, hi)
	}
	return lo + ctx.Rand().Intn(hi-lo+1)
}
