package game

import (
	"fmt"
	"iter"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog/log"

	"ludeme/topology"
)

// Component is one kind of piece, resolved per owner ("Disc1", "Disc2").
type Component struct {
	Index int
	Name  string
	Kind  string
	Owner int // 0 when shared
}

// Hand is a per-player container; its cells follow the board cells.
type Hand struct {
	Owner  int
	Offset int
	Size   int
}

// Sites returns the cell indices of the hand.
func (h Hand) Sites() []int {
	out := make([]int, h.Size)
	for i := range out {
		out[i] = h.Offset + i
	}
	return out
}

type Result int

const (
	Win Result = iota
	Loss
	Draw
)

func (r Result) String() string {
	switch r {
	case Win:
		return "Win"
	case Loss:
		return "Loss"
	default:
		return "Draw"
	}
}

// EndRule ends the trial when If holds after a move. Who defaults to the
// player who just moved.
type EndRule struct {
	If     BoolNode
	Result Result
	Who    IntNode
}

type Rules struct {
	Start []MovesNode
	Play  MovesNode
	End   []EndRule
}

// Game is a compiled game: its board, components and rule tree. A Game is
// read-only once preprocessed and can be shared by concurrent trials.
type Game struct {
	Name        string
	Players     int
	Board       *topology.Topology
	DefaultSite topology.SiteType
	Components  []Component // index 0 is the empty component
	Hands       []Hand
	Stacking    bool
	Rules       Rules

	flags        Flags
	concepts     *bitset.BitSet
	preprocessed bool
	faults       map[Node]*EvalError // raised while preprocessing
}

// Component returns the index of the component named name, or of kind name
// owned by owner, then of a shared one. It returns 0 when there is none.
func (g *Game) Component(name string, owner int) int {
	shared := 0
	for _, c := range g.Components {
		if c.Index == 0 {
			continue
		}
		if c.Name == name {
			return c.Index
		}
		if c.Kind == name {
			if c.Owner == owner {
				return c.Index
			}
			if c.Owner == 0 && shared == 0 {
				shared = c.Index
			}
		}
	}
	return shared
}

// Hand returns the hand of a player.
func (g *Game) Hand(owner int) (Hand, bool) {
	for _, h := range g.Hands {
		if h.Owner == owner {
			return h, true
		}
	}
	return Hand{}, false
}

func (g *Game) newState() *State {
	var sizes [topology.NumSiteTypes]int
	for _, st := range topology.SiteTypes {
		sizes[st] = g.Board.NumSites(st)
	}
	for _, h := range g.Hands {
		if end := h.Offset + h.Size; end > sizes[topology.Cell] {
			sizes[topology.Cell] = end
		}
	}
	return NewState(g.Players, sizes, g.Stacking)
}

// Roots returns the top-level rule nodes.
func (g *Game) Roots() []Node {
	var roots []Node
	for _, n := range g.Rules.Start {
		roots = append(roots, n)
	}
	if g.Rules.Play != nil {
		roots = append(roots, g.Rules.Play)
	}
	for _, e := range g.Rules.End {
		if e.If != nil {
			roots = append(roots, e.If)
		}
		if e.Who != nil {
			roots = append(roots, e.Who)
		}
	}
	return roots
}

// Preprocess runs once after the whole tree is built, before any trial.
func (g *Game) Preprocess() {
	if g.preprocessed {
		return
	}
	roots := g.Roots()
	for _, n := range roots {
		g.preprocessRoot(n)
	}

	g.flags = 0
	g.concepts = NewConcepts(ConceptBoard)
	if g.Stacking {
		g.flags |= FlagStacking
		g.concepts.Set(uint(ConceptStacking))
	}
	if len(g.Hands) > 0 {
		g.flags |= FlagHands
		g.concepts.Set(uint(ConceptHand))
	}
	if len(g.Board.Tracks()) > 0 {
		g.flags |= FlagTracks
		g.concepts.Set(uint(ConceptTrack))
	}
	switch g.DefaultSite {
	case topology.Edge:
		g.flags |= FlagEdges
	case topology.Vertex:
		g.flags |= FlagVertices
	}
	for _, n := range roots {
		g.flags |= n.GameFlags(g)
		g.concepts.InPlaceUnion(n.Concepts(g))
	}
	g.preprocessed = true

	log.Info().Str("game", g.Name).Stringer("flags", g.flags).Msgf("preprocessed %d rule roots", len(roots))
}

func (g *Game) preprocessRoot(n Node) {
	defer g.recordFault(n)
	n.Preprocess(g)
}

// recordFault keeps an EvalError raised while preprocessing node so Lint can
// report it. Any other panic is re-raised. It must be deferred directly.
func (g *Game) recordFault(node Node) {
	r := recover()
	if r == nil {
		return
	}
	evalErr, ok := r.(*EvalError)
	if !ok {
		panic(r)
	}
	if g.faults == nil {
		g.faults = make(map[Node]*EvalError)
	}
	g.faults[node] = evalErr
	log.Warn().Str("game", g.Name).Err(evalErr).Msgf("%T fails at preprocessing", node)
}

// Flags returns the game flags computed at preprocessing.
func (g *Game) Flags() Flags { return g.flags }

// Concepts returns the concept set computed at preprocessing.
func (g *Game) Concepts() *bitset.BitSet {
	if g.concepts == nil {
		return NewConcepts()
	}
	return g.concepts
}

// Lint reports the nodes whose own requirements fail. An issue is reported
// at the deepest node where it appears, not at every ancestor.
func (g *Game) Lint() []LintIssue {
	var issues []LintIssue
	if g.Rules.Play == nil {
		issues = append(issues, LintIssue{Node: "game", Kind: LintError, Message: "no play rule"})
	}
	for i, e := range g.Rules.End {
		if e.If == nil {
			issues = append(issues, LintIssue{Node: "game", Kind: LintError, Message: fmt.Sprintf("end rule %d has no condition", i)})
		}
	}
	faulted := func(n Node) bool { return g.faults[n] != nil }
	willCrash := func(n Node) bool { return lintCheck(func() bool { return n.WillCrash(g) }) }
	missing := func(n Node) bool { return lintCheck(func() bool { return n.MissingRequirement(g) }) }
	for _, root := range g.Roots() {
		Walk(root, func(n Node) {
			if f := g.faults[n]; f != nil && !anyChild(n, faulted) {
				issues = append(issues, LintIssue{Node: fmt.Sprintf("%T", n), Kind: LintError, Message: f.Error()})
			}
			if willCrash(n) && !anyChild(n, willCrash) {
				issues = append(issues, LintIssue{Node: fmt.Sprintf("%T", n), Kind: LintError, Message: "will crash"})
			}
			if missing(n) && !anyChild(n, missing) {
				issues = append(issues, LintIssue{Node: fmt.Sprintf("%T", n), Kind: LintWarning, Message: "missing requirement"})
			}
		})
	}
	for _, issue := range issues {
		log.Warn().Str("game", g.Name).Msg(issue.String())
	}
	return issues
}

// lintCheck runs a lint predicate, counting an evaluation fault inside it
// as a failed check.
func lintCheck(pred func() bool) (failed bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*EvalError); !ok {
				panic(r)
			}
			failed = true
		}
	}()
	return pred()
}

func anyChild(n Node, pred func(Node) bool) bool {
	for _, c := range n.Children() {
		if pred(c) {
			return true
		}
	}
	return false
}

// Start returns a context for a new trial with the start rules applied.
func (g *Game) Start(seed uint64) (ctx *Context, err error) {
	defer recoverEval(&err)
	g.Preprocess()

	ctx = NewContext(g, seed)
	for _, rule := range g.Rules.Start {
		for _, m := range rule.Eval(ctx) {
			m.Apply(ctx)
		}
		ctx.Slots = NewSlots()
	}
	log.Debug().Str("game", g.Name).Uint64("seed", seed).Msg("trial started")
	return ctx, nil
}

// LegalMoves returns the moves of the player to move. When nothing is
// legal the only move is a pass.
func (g *Game) LegalMoves(ctx *Context) (moves []*Move, err error) {
	if ctx.trial.Over {
		return nil, ErrTrialOver
	}
	defer recoverEval(&err)

	ctx.Slots = NewSlots()
	mover := ctx.state.Mover
	moves = g.Rules.Play.Eval(ctx)
	for _, m := range moves {
		m.Mover = mover
	}
	if len(moves) == 0 {
		moves = []*Move{PassMove(mover)}
	}
	return moves, nil
}

// MovesSeq yields the same moves as LegalMoves lazily. Evaluation faults
// panic with *EvalError.
func (g *Game) MovesSeq(ctx *Context) iter.Seq[*Move] {
	return func(yield func(*Move) bool) {
		if ctx.trial.Over {
			return
		}
		ctx.Slots = NewSlots()
		mover := ctx.state.Mover
		found := false
		for m := range g.Rules.Play.Seq(ctx) {
			found = true
			m.Mover = mover
			if !yield(m) {
				return
			}
		}
		if !found {
			yield(PassMove(mover))
		}
	}
}

// Apply applies a move, appends it to the trial record, checks the end
// rules and hands the turn over. Speculative contexts skip recording and
// end checks.
func (g *Game) Apply(ctx *Context, m *Move) (err error) {
	if ctx.trial.Over && !ctx.speculative {
		return ErrTrialOver
	}
	defer recoverEval(&err)

	s := ctx.state
	mover := s.Mover
	s.ClearPending()
	applied := m.Apply(ctx)
	if m.IsPass() {
		s.Passes++
	} else {
		s.Passes = 0
	}

	if !ctx.speculative {
		rec := MoveRecord{Mover: mover, From: m.From, To: m.To, Actions: make([]string, len(applied))}
		for i, a := range applied {
			rec.Actions[i] = TrialFormat(a, ctx)
		}
		ctx.trial.Records = append(ctx.trial.Records, rec)
		g.checkEnd(ctx, m, mover)
	}

	s.Prev = mover
	s.Mover = s.Next
	if s.Mover <= 0 || s.Mover > s.NumPlayers {
		s.Mover = s.Successor(mover)
	}
	s.Next = s.Successor(s.Mover)
	return nil
}

func (g *Game) checkEnd(ctx *Context, m *Move, mover int) {
	t := ctx.trial
	saved := ctx.Slots
	defer func() { ctx.Slots = saved }()

	ctx.Slots = NewSlots()
	ctx.Slots.From, ctx.Slots.To = m.From, m.To
	for _, rule := range g.Rules.End {
		if !rule.If.Eval(ctx) {
			continue
		}
		who := mover
		if rule.Who != nil {
			who = rule.Who.Eval(ctx)
		}
		g.finish(t, rule.Result, who)
		log.Debug().Str("game", g.Name).Int("winner", t.Winner).Msgf("trial over after %d moves", len(t.Records))
		return
	}

	if ctx.state.Passes >= g.Players {
		g.finish(t, Draw, 0)
		log.Debug().Str("game", g.Name).Msg("all players passed")
	}
}

func (g *Game) finish(t *Trial, r Result, who int) {
	t.Over = true
	switch r {
	case Win:
		t.Winner = who
	case Loss:
		if g.Players == 2 && (who == 1 || who == 2) {
			t.Winner = 3 - who
		}
	default:
		t.Winner = 0
	}
}
