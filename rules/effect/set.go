package effect

import (
	"iter"

	"ludeme/game"
	"ludeme/rules/functions"
	"ludeme/topology"
)

// edit is embedded by the nodes that produce exactly one state edit. A nil
// action means the computed values were rejected and no move is produced.
type edit struct {
	game.Base
	action func(ctx *game.Context) game.Action
}

func (n *edit) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		if a := n.action(ctx); a != nil {
			yield(game.NewMove(a))
		}
	}
}

func (n *edit) Eval(ctx *game.Context) []*game.Move { return game.Collect(n.Seq(ctx)) }

func newEdit(concept game.Concept, flags game.Flags, children ...game.Node) edit {
	return edit{Base: game.NewBase(children...).Dynamic().Flag(flags).Concept(concept)}
}

// siteEdit targets the piece at Site (the last destination by default)
// and Level (the top when nil).
type siteEdit struct {
	edit
	Site  game.IntNode
	Level game.IntNode
	At    game.SiteRef
}

func newSiteEdit(concept game.Concept, flags game.Flags, site, level game.IntNode, st *topology.SiteType, value game.Node) siteEdit {
	if site == nil {
		site = functions.ReadSlot(game.SlotTo)
	}
	return siteEdit{
		edit:  newEdit(concept, flags, site, level, value),
		Site:  site,
		Level: level,
		At:    game.TypeOf(st),
	}
}

func (n *siteEdit) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
	n.Base = n.Base.Flag(n.At.Flags())
}

// target resolves the edited piece. It fails on empty or off-board sites
// and negative levels.
func (n *siteEdit) target(ctx *game.Context) (game.PieceEdit, bool) {
	e := game.PieceEdit{Type: n.At.Type, Site: n.Site.Eval(ctx), Level: game.Off}
	if n.Level != nil {
		if e.Level = n.Level.Eval(ctx); e.Level < 0 {
			return e, false
		}
	}
	if _, ok := ctx.Container().Piece(e.Type, e.Site, e.Level); !ok {
		return e, false
	}
	return e, true
}

type SetState struct {
	siteEdit
	State game.IntNode
}

func NewSetState(site, level, state game.IntNode, st *topology.SiteType) *SetState {
	n := &SetState{siteEdit: newSiteEdit(game.ConceptSetState, game.FlagLocalState, site, level, st, state), State: state}
	n.action = n.build
	return n
}

func (n *SetState) build(ctx *game.Context) game.Action {
	e, ok := n.target(ctx)
	v := n.State.Eval(ctx)
	if !ok || v < 0 {
		return nil
	}
	return &game.SetState{PieceEdit: e, State: v}
}

type SetValue struct {
	siteEdit
	Value game.IntNode
}

func NewSetValue(site, level, value game.IntNode, st *topology.SiteType) *SetValue {
	n := &SetValue{siteEdit: newSiteEdit(game.ConceptSetValue, game.FlagPieceValue, site, level, st, value), Value: value}
	n.action = n.build
	return n
}

func (n *SetValue) build(ctx *game.Context) game.Action {
	e, ok := n.target(ctx)
	v := n.Value.Eval(ctx)
	if !ok || v < 0 {
		return nil
	}
	return &game.SetValue{PieceEdit: e, Value: v}
}

type SetRotation struct {
	siteEdit
	Rotation game.IntNode
}

func NewSetRotation(site, level, rotation game.IntNode, st *topology.SiteType) *SetRotation {
	n := &SetRotation{siteEdit: newSiteEdit(game.ConceptSetRotation, game.FlagRotation, site, level, st, rotation), Rotation: rotation}
	n.action = n.build
	return n
}

func (n *SetRotation) build(ctx *game.Context) game.Action {
	e, ok := n.target(ctx)
	v := n.Rotation.Eval(ctx)
	if !ok || v < 0 {
		return nil
	}
	return &game.SetRotation{PieceEdit: e, Rotation: v}
}

// SetHidden hides the piece from Player, or reveals it.
type SetHidden struct {
	siteEdit
	Player game.IntNode
	Hidden bool
}

func NewSetHidden(site, level, player game.IntNode, hidden bool, st *topology.SiteType) *SetHidden {
	n := &SetHidden{siteEdit: newSiteEdit(game.ConceptSetHidden, game.FlagHiddenInfo, site, level, st, player), Player: player, Hidden: hidden}
	n.action = n.build
	return n
}

func (n *SetHidden) build(ctx *game.Context) game.Action {
	e, ok := n.target(ctx)
	p := n.Player.Eval(ctx)
	if !ok || p < 1 || p > ctx.Game().Players {
		return nil
	}
	return &game.SetHidden{PieceEdit: e, Player: p, Hidden: n.Hidden}
}

// SetCount sets the number of copies on a site. An empty site takes the
// copies of Piece.
type SetCount struct {
	edit
	Site  game.IntNode
	Count game.IntNode
	Piece game.IntNode
	At    game.SiteRef
}

func NewSetCount(site, count, piece game.IntNode, st *topology.SiteType) *SetCount {
	if site == nil {
		site = functions.ReadSlot(game.SlotTo)
	}
	n := &SetCount{
		edit:  newEdit(game.ConceptSetCount, game.FlagCount, site, count, piece),
		Site:  site,
		Count: count,
		Piece: piece,
		At:    game.TypeOf(st),
	}
	n.action = n.build
	return n
}

func (n *SetCount) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
	n.Base = n.Base.Flag(n.At.Flags())
}

func (n *SetCount) build(ctx *game.Context) game.Action {
	st := n.At.Type
	site := n.Site.Eval(ctx)
	count := n.Count.Eval(ctx)
	cs := ctx.Container()
	if count < 0 || site < 0 || site >= cs.Size(st) {
		return nil
	}
	p, ok := cs.Piece(st, site, game.Off)
	if !ok {
		if n.Piece == nil {
			return nil
		}
		p = pieceOf(ctx.Game(), n.Piece.Eval(ctx))
	}
	return &game.SetCount{Type: st, Site: site, Piece: p, Count: count}
}

func (n *SetCount) MissingRequirement(g *game.Game) bool {
	return n.Base.MissingRequirement(g) || g.Stacking
}

// SetNextPlayer overrides who moves next.
type SetNextPlayer struct {
	edit
	Who game.IntNode
}

func NewSetNextPlayer(who game.IntNode) *SetNextPlayer {
	n := &SetNextPlayer{edit: newEdit(game.ConceptSetNextPlayer, 0, who), Who: who}
	n.action = n.build
	return n
}

func (n *SetNextPlayer) build(ctx *game.Context) game.Action {
	p := n.Who.Eval(ctx)
	if p < 1 || p > ctx.Game().Players {
		return nil
	}
	return &game.SetNextPlayer{Player: p}
}

// SetPending marks a value (the last destination by default) as pending
// for the next turn.
type SetPending struct {
	edit
	Value game.IntNode
}

func NewSetPending(value game.IntNode) *SetPending {
	if value == nil {
		value = functions.ReadSlot(game.SlotTo)
	}
	n := &SetPending{edit: newEdit(game.ConceptSetPending, game.FlagPending, value), Value: value}
	n.action = n.build
	return n
}

func (n *SetPending) build(ctx *game.Context) game.Action {
	v := n.Value.Eval(ctx)
	if v < 0 {
		return nil
	}
	return &game.SetPending{Value: v}
}

type SetTrump struct {
	edit
	Suit game.IntNode
}

func NewSetTrump(suit game.IntNode) *SetTrump {
	n := &SetTrump{edit: newEdit(game.ConceptSetTrumpSuit, game.FlagTrump, suit), Suit: suit}
	n.action = n.build
	return n
}

func (n *SetTrump) build(ctx *game.Context) game.Action {
	v := n.Suit.Eval(ctx)
	if v < 0 {
		return nil
	}
	return &game.SetTrump{Suit: v}
}

type SetTeam struct {
	edit
	Player game.IntNode
	Team   game.IntNode
}

func NewSetTeam(player, team game.IntNode) *SetTeam {
	n := &SetTeam{edit: newEdit(game.ConceptSetTeam, game.FlagTeams, player, team), Player: player, Team: team}
	n.action = n.build
	return n
}

func (n *SetTeam) build(ctx *game.Context) game.Action {
	p, t := n.Player.Eval(ctx), n.Team.Eval(ctx)
	if p < 1 || p > ctx.Game().Players || t < 0 {
		return nil
	}
	return &game.SetTeam{Player: p, Team: t}
}

// SetScore sets a player's score, or adds to it when Add is set. Scores
// may go negative.
type SetScore struct {
	edit
	Player game.IntNode
	Score  game.IntNode
	Add    bool
}

func NewSetScore(player, score game.IntNode, add bool) *SetScore {
	if player == nil {
		player = functions.Mover()
	}
	n := &SetScore{edit: newEdit(game.ConceptSetScore, game.FlagScore, player, score), Player: player, Score: score, Add: add}
	n.action = n.build
	return n
}

func (n *SetScore) build(ctx *game.Context) game.Action {
	p := n.Player.Eval(ctx)
	if p < 1 || p > ctx.Game().Players {
		return nil
	}
	v := n.Score.Eval(ctx)
	if n.Add {
		v += ctx.State().Score(p)
	}
	return &game.SetScore{Player: p, Score: v}
}

type SetVar struct {
	edit
	Name  string
	Value game.IntNode
}

func NewSetVar(name string, value game.IntNode) *SetVar {
	n := &SetVar{edit: newEdit(game.ConceptSetVar, game.FlagVars, value), Name: name, Value: value}
	n.action = n.build
	return n
}

func (n *SetVar) build(ctx *game.Context) game.Action {
	return &game.SetVar{Var: n.Name, Value: n.Value.Eval(ctx)}
}

// SetPot sets the pot, or adds to it when Add is set. The pot never goes
// negative.
type SetPot struct {
	edit
	Value game.IntNode
	Add   bool
}

func NewSetPot(value game.IntNode, add bool) *SetPot {
	n := &SetPot{edit: newEdit(game.ConceptSetPot, game.FlagPot, value), Value: value, Add: add}
	n.action = n.build
	return n
}

func (n *SetPot) build(ctx *game.Context) game.Action {
	v := n.Value.Eval(ctx)
	if n.Add {
		v += ctx.State().Pot
	}
	if v < 0 {
		return nil
	}
	return &game.SetPot{Value: v}
}
