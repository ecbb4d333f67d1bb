package game

import (
	"strconv"

	"ludeme/topology"
)

func init() {
	registerAction("Add", decodeAdd)
	registerAction("Remove", decodeRemove)
	registerAction("Move", decodeMove)
	registerAction("SetCount", decodeSetCount)
	registerAction("SetState", decodeSetState)
	registerAction("SetValue", decodeSetValue)
	registerAction("SetRotation", decodeSetRotation)
	registerAction("SetHidden", decodeSetHidden)
	registerAction("SetNextPlayer", decodeSetNextPlayer)
	registerAction("SetPending", decodeSetPending)
	registerAction("SetTrump", decodeSetTrump)
	registerAction("SetTeam", decodeSetTeam)
	registerAction("SetScore", decodeSetScore)
	registerAction("SetVar", decodeSetVar)
	registerAction("SetPot", decodeSetPot)
	registerAction("Pass", decodePass)
}

func pieceFields(p Piece) []field {
	fs := []field{intField("what", p.What), intField("who", p.Who)}
	if p.State != 0 {
		fs = append(fs, intField("state", p.State))
	}
	if p.Rotation != 0 {
		fs = append(fs, intField("rotation", p.Rotation))
	}
	if p.Value != 0 {
		fs = append(fs, intField("value", p.Value))
	}
	if p.Hidden != 0 {
		fs = append(fs, field{"hidden", strconv.FormatUint(uint64(p.Hidden), 10)})
	}
	return fs
}

func readPiece(r *fieldReader) Piece {
	return Piece{
		What:     r.Required("what"),
		Who:      r.Int("who", 0),
		State:    r.Int("state", 0),
		Rotation: r.Int("rotation", 0),
		Value:    r.Int("value", 0),
		Hidden:   r.Mask("hidden"),
	}
}

// Add places Count copies of a piece on a site.
type Add struct {
	actionBase
	Type  topology.SiteType
	Site  int
	Level int // top when Off
	Piece Piece
	Count int
}

func (a *Add) Name() string { return "Add" }
func (a *Add) To() int      { return a.Site }
func (a *Add) Who() int     { return a.Piece.Who }
func (a *Add) What() int    { return a.Piece.What }

func (a *Add) Apply(ctx *Context) {
	ctx.Container().Insert(a.Type, a.Site, a.Level, a.Piece, a.Count)
}

func (a *Add) fields(def topology.SiteType) []field {
	fs := typeFields(a.Type, def)
	fs = append(fs, intField("to", a.Site))
	fs = append(fs, levelFields("level", a.Level)...)
	fs = append(fs, pieceFields(a.Piece)...)
	if a.Count != 1 {
		fs = append(fs, intField("count", a.Count))
	}
	return fs
}

func decodeAdd(r *fieldReader) Action {
	return &Add{Type: r.Type(), Site: r.Required("to"), Level: r.Int("level", Off), Piece: readPiece(r), Count: r.Int("count", 1)}
}

// Remove takes the piece at Level (top when Off) off a site.
type Remove struct {
	actionBase
	Type  topology.SiteType
	Site  int
	Level int
}

func (a *Remove) Name() string { return "Remove" }
func (a *Remove) From() int    { return a.Site }
func (a *Remove) To() int      { return a.Site }

func (a *Remove) Apply(ctx *Context) {
	ctx.Container().Remove(a.Type, a.Site, a.Level)
}

func (a *Remove) fields(def topology.SiteType) []field {
	fs := typeFields(a.Type, def)
	fs = append(fs, intField("to", a.Site))
	return append(fs, levelFields("level", a.Level)...)
}

func decodeRemove(r *fieldReader) Action {
	return &Remove{Type: r.Type(), Site: r.Required("to"), Level: r.Int("level", Off)}
}

// MovePiece carries a piece between sites. On non-stacking boards the
// whole site content moves and replaces whatever was at the destination.
type MovePiece struct {
	actionBase
	Type      topology.SiteType
	Src       int
	LevelFrom int
	Dst       int
	LevelTo   int
}

func (a *MovePiece) Name() string { return "Move" }
func (a *MovePiece) From() int    { return a.Src }
func (a *MovePiece) To() int      { return a.Dst }

func (a *MovePiece) Apply(ctx *Context) {
	cs := ctx.Container()
	if !cs.Stacking() {
		s := cs.Stack(a.Type, a.Src).clone()
		if a.Src == a.Dst {
			return
		}
		cs.put(a.Type, a.Dst, s)
		cs.put(a.Type, a.Src, Stack{})
		return
	}
	p, ok := cs.Remove(a.Type, a.Src, a.LevelFrom)
	if !ok {
		return
	}
	cs.Insert(a.Type, a.Dst, a.LevelTo, p, 1)
}

func (a *MovePiece) fields(def topology.SiteType) []field {
	fs := typeFields(a.Type, def)
	fs = append(fs, intField("from", a.Src))
	fs = append(fs, levelFields("levelFrom", a.LevelFrom)...)
	fs = append(fs, intField("to", a.Dst))
	return append(fs, levelFields("levelTo", a.LevelTo)...)
}

func decodeMove(r *fieldReader) Action {
	return &MovePiece{
		Type:      r.Type(),
		Src:       r.Required("from"),
		LevelFrom: r.Int("levelFrom", Off),
		Dst:       r.Required("to"),
		LevelTo:   r.Int("levelTo", Off),
	}
}

// SetCount sets the number of copies on a site; zero empties it.
type SetCount struct {
	actionBase
	Type  topology.SiteType
	Site  int
	Piece Piece // placed when the site is empty
	Count int
}

func (a *SetCount) Name() string { return "SetCount" }
func (a *SetCount) To() int      { return a.Site }
func (a *SetCount) What() int    { return a.Piece.What }
func (a *SetCount) Who() int     { return a.Piece.Who }

func (a *SetCount) Apply(ctx *Context) {
	ctx.Container().SetCount(a.Type, a.Site, a.Piece, a.Count)
}

func (a *SetCount) fields(def topology.SiteType) []field {
	fs := typeFields(a.Type, def)
	fs = append(fs, intField("to", a.Site))
	fs = append(fs, pieceFields(a.Piece)...)
	return append(fs, intField("count", a.Count))
}

func decodeSetCount(r *fieldReader) Action {
	return &SetCount{Type: r.Type(), Site: r.Required("to"), Piece: readPiece(r), Count: r.Required("count")}
}

// PieceEdit is shared by the actions that overwrite one property of a
// piece already on the board.
type PieceEdit struct {
	actionBase
	Type  topology.SiteType
	Site  int
	Level int
}

func (a *PieceEdit) To() int { return a.Site }

func (a *PieceEdit) siteFields(def topology.SiteType) []field {
	fs := typeFields(a.Type, def)
	fs = append(fs, intField("to", a.Site))
	return append(fs, levelFields("level", a.Level)...)
}

func readPieceEdit(r *fieldReader) PieceEdit {
	return PieceEdit{Type: r.Type(), Site: r.Required("to"), Level: r.Int("level", Off)}
}

// SetState sets the local state of a piece.
type SetState struct {
	PieceEdit
	State int
}

func (a *SetState) Name() string { return "SetState" }

func (a *SetState) Apply(ctx *Context) {
	ctx.Container().Update(a.Type, a.Site, a.Level, func(p *Piece) { p.State = a.State })
}

func (a *SetState) fields(def topology.SiteType) []field {
	return append(a.siteFields(def), intField("state", a.State))
}

func decodeSetState(r *fieldReader) Action {
	return &SetState{PieceEdit: readPieceEdit(r), State: r.Required("state")}
}

// SetValue sets the value of a piece.
type SetValue struct {
	PieceEdit
	Value int
}

func (a *SetValue) Name() string { return "SetValue" }

func (a *SetValue) Apply(ctx *Context) {
	ctx.Container().Update(a.Type, a.Site, a.Level, func(p *Piece) { p.Value = a.Value })
}

func (a *SetValue) fields(def topology.SiteType) []field {
	return append(a.siteFields(def), intField("value", a.Value))
}

func decodeSetValue(r *fieldReader) Action {
	return &SetValue{PieceEdit: readPieceEdit(r), Value: r.Required("value")}
}

// SetRotation sets the rotation of a piece.
type SetRotation struct {
	PieceEdit
	Rotation int
}

func (a *SetRotation) Name() string { return "SetRotation" }

func (a *SetRotation) Apply(ctx *Context) {
	ctx.Container().Update(a.Type, a.Site, a.Level, func(p *Piece) { p.Rotation = a.Rotation })
}

func (a *SetRotation) fields(def topology.SiteType) []field {
	return append(a.siteFields(def), intField("rotation", a.Rotation))
}

func decodeSetRotation(r *fieldReader) Action {
	return &SetRotation{PieceEdit: readPieceEdit(r), Rotation: r.Required("rotation")}
}

// SetHidden hides or reveals a piece to one player.
type SetHidden struct {
	PieceEdit
	Player int
	Hidden bool
}

func (a *SetHidden) Name() string { return "SetHidden" }

func (a *SetHidden) Apply(ctx *Context) {
	if a.Player <= 0 || a.Player >= 32 {
		return
	}
	ctx.Container().Update(a.Type, a.Site, a.Level, func(p *Piece) {
		if a.Hidden {
			p.Hidden |= 1 << a.Player
		} else {
			p.Hidden &^= 1 << a.Player
		}
	})
}

func (a *SetHidden) fields(def topology.SiteType) []field {
	return append(a.siteFields(def), intField("player", a.Player), field{"hidden", strconv.FormatBool(a.Hidden)})
}

func decodeSetHidden(r *fieldReader) Action {
	return &SetHidden{PieceEdit: readPieceEdit(r), Player: r.Required("player"), Hidden: r.Bool("hidden")}
}

// SetNextPlayer overrides who moves after the current mover.
type SetNextPlayer struct {
	actionBase
	Player int
}

func (a *SetNextPlayer) Name() string { return "SetNextPlayer" }
func (a *SetNextPlayer) Who() int     { return a.Player }

func (a *SetNextPlayer) Apply(ctx *Context) { ctx.state.Next = a.Player }

func (a *SetNextPlayer) fields(topology.SiteType) []field {
	return []field{intField("player", a.Player)}
}

func decodeSetNextPlayer(r *fieldReader) Action {
	return &SetNextPlayer{Player: r.Required("player")}
}

// SetPending adds a value to the pending set.
type SetPending struct {
	actionBase
	Value int
}

func (a *SetPending) Name() string { return "SetPending" }

func (a *SetPending) Apply(ctx *Context) { ctx.state.AddPending(a.Value) }

func (a *SetPending) fields(topology.SiteType) []field {
	return []field{intField("value", a.Value)}
}

func decodeSetPending(r *fieldReader) Action {
	return &SetPending{Value: r.Required("value")}
}

// SetTrump sets the trump suit.
type SetTrump struct {
	actionBase
	Suit int
}

func (a *SetTrump) Name() string { return "SetTrump" }

func (a *SetTrump) Apply(ctx *Context) { ctx.state.Trump = a.Suit }

func (a *SetTrump) fields(topology.SiteType) []field {
	return []field{intField("suit", a.Suit)}
}

func decodeSetTrump(r *fieldReader) Action {
	return &SetTrump{Suit: r.Required("suit")}
}

// SetTeam puts a player in a team.
type SetTeam struct {
	actionBase
	Player int
	Team   int
}

func (a *SetTeam) Name() string { return "SetTeam" }
func (a *SetTeam) Who() int     { return a.Player }

func (a *SetTeam) Apply(ctx *Context) {
	if a.Player > 0 && a.Player < len(ctx.state.Teams) {
		ctx.state.Teams[a.Player] = a.Team
	}
}

func (a *SetTeam) fields(topology.SiteType) []field {
	return []field{intField("player", a.Player), intField("team", a.Team)}
}

func decodeSetTeam(r *fieldReader) Action {
	return &SetTeam{Player: r.Required("player"), Team: r.Required("team")}
}

// SetScore sets the score of a player.
type SetScore struct {
	actionBase
	Player int
	Score  int
}

func (a *SetScore) Name() string { return "SetScore" }
func (a *SetScore) Who() int     { return a.Player }

func (a *SetScore) Apply(ctx *Context) {
	if a.Player > 0 && a.Player < len(ctx.state.Scores) {
		ctx.state.Scores[a.Player] = a.Score
	}
}

func (a *SetScore) fields(topology.SiteType) []field {
	return []field{intField("player", a.Player), intField("score", a.Score)}
}

func decodeSetScore(r *fieldReader) Action {
	return &SetScore{Player: r.Required("player"), Score: r.Required("score")}
}

// SetVar sets a named game variable.
type SetVar struct {
	actionBase
	Var   string
	Value int
}

func (a *SetVar) Name() string { return "SetVar" }

func (a *SetVar) Apply(ctx *Context) { ctx.state.Vars[a.Var] = a.Value }

func (a *SetVar) fields(topology.SiteType) []field {
	return []field{textField("name", a.Var), intField("value", a.Value)}
}

func decodeSetVar(r *fieldReader) Action {
	return &SetVar{Var: r.Text("name"), Value: r.Required("value")}
}

// SetPot sets the pot.
type SetPot struct {
	actionBase
	Value int
}

func (a *SetPot) Name() string { return "SetPot" }

func (a *SetPot) Apply(ctx *Context) { ctx.state.Pot = a.Value }

func (a *SetPot) fields(topology.SiteType) []field {
	return []field{intField("value", a.Value)}
}

func decodeSetPot(r *fieldReader) Action {
	return &SetPot{Value: r.Required("value")}
}

// Pass changes nothing; the game counts consecutive passes.
type Pass struct {
	actionBase
}

func (a *Pass) Name() string                     { return "Pass" }
func (a *Pass) Apply(*Context)                   {}
func (a *Pass) fields(topology.SiteType) []field { return nil }

func decodePass(*fieldReader) Action { return &Pass{} }
