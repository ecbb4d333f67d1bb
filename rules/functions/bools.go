package functions

import (
	"ludeme/game"
)

type BoolConst struct {
	game.Base
	V bool
}

func Bool(v bool) *BoolConst { return &BoolConst{V: v} }

func (n *BoolConst) Eval(*game.Context) bool { return n.V }

type Not struct {
	game.Base
	Arg game.BoolNode
}

func NewNot(arg game.BoolNode) *Not {
	return &Not{Base: game.NewBase(arg).Concept(game.ConceptNegation), Arg: arg}
}

func (n *Not) Eval(ctx *game.Context) bool { return !n.Arg.Eval(ctx) }

type LogicOp int

const (
	OpAnd LogicOp = iota
	OpOr
	OpXor
)

// Logic combines its operands; And and Or short-circuit, Xor holds for an
// odd number of true operands.
type Logic struct {
	game.Base
	Op   LogicOp
	Args []game.BoolNode
}

func NewLogic(op LogicOp, args ...game.BoolNode) *Logic {
	concept := game.ConceptConjunction
	switch op {
	case OpOr:
		concept = game.ConceptDisjunction
	case OpXor:
		concept = game.ConceptExclusiveDisjunction
	}
	b := game.NewBase().Concept(concept)
	for _, a := range args {
		b = b.With(a)
	}
	return &Logic{Base: b, Op: op, Args: args}
}

func (n *Logic) Eval(ctx *game.Context) bool {
	switch n.Op {
	case OpAnd:
		for _, a := range n.Args {
			if !a.Eval(ctx) {
				return false
			}
		}
		return true
	case OpOr:
		for _, a := range n.Args {
			if a.Eval(ctx) {
				return true
			}
		}
		return false
	}
	odd := false
	for _, a := range n.Args {
		if a.Eval(ctx) {
			odd = !odd
		}
	}
	return odd
}

type CmpOp int

const (
	CmpEq CmpOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

type Compare struct {
	game.Base
	Op   CmpOp
	A, B game.IntNode
}

func NewCompare(op CmpOp, a, b game.IntNode) *Compare {
	concept := game.ConceptEqual
	switch op {
	case CmpNe:
		concept = game.ConceptNotEqual
	case CmpLt, CmpLe:
		concept = game.ConceptLessThan
	case CmpGt, CmpGe:
		concept = game.ConceptGreaterThan
	}
	return &Compare{Base: game.NewBase(a, b).Concept(concept), Op: op, A: a, B: b}
}

func (n *Compare) Eval(ctx *game.Context) bool {
	a, b := n.A.Eval(ctx), n.B.Eval(ctx)
	switch n.Op {
	case CmpEq:
		return a == b
	case CmpNe:
		return a != b
	case CmpLt:
		return a < b
	case CmpLe:
		return a <= b
	case CmpGt:
		return a > b
	default:
		return a >= b
	}
}

type SiteTestKind int

const (
	TestEmpty SiteTestKind = iota
	TestOccupied
	TestFriend
	TestEnemy
)

// SiteTest checks the occupant of a site against the mover. Off-board
// sites are neither empty nor occupied.
type SiteTest struct {
	game.Base
	Test SiteTestKind
	Site game.IntNode
	At   game.SiteRef
}

func NewSiteTest(test SiteTestKind, site game.IntNode) *SiteTest {
	return &SiteTest{Base: game.NewBase(site).Dynamic(), Test: test, Site: site}
}

func (n *SiteTest) Preprocess(g *game.Game) {
	n.Base.Preprocess(g)
	n.At.Resolve(g)
	n.Base = n.Base.Flag(n.At.Flags())
}

func (n *SiteTest) Eval(ctx *game.Context) bool {
	site := n.Site.Eval(ctx)
	cs := ctx.Container()
	if site < 0 || site >= cs.Size(n.At.Type) {
		return false
	}
	who := cs.Who(n.At.Type, site, game.Off)
	empty := cs.IsEmpty(n.At.Type, site)
	switch n.Test {
	case TestEmpty:
		return empty
	case TestOccupied:
		return !empty
	case TestFriend:
		return !empty && ctx.State().Friends(who, ctx.Mover())
	default:
		return !empty && who != 0 && !ctx.State().Friends(who, ctx.Mover())
	}
}

// IsIn checks region membership.
type IsIn struct {
	game.Base
	Site   game.IntNode
	Region game.RegionNode
}

func NewIsIn(site game.IntNode, r game.RegionNode) *IsIn {
	return &IsIn{Base: game.NewBase(site, r), Site: site, Region: r}
}

func (n *IsIn) Eval(ctx *game.Context) bool {
	return n.Region.Eval(ctx).Contains(n.Site.Eval(ctx))
}

// IsPending holds when the pending set is not empty, or contains Value.
type IsPending struct {
	game.Base
	Value game.IntNode
}

func NewIsPending(value game.IntNode) *IsPending {
	return &IsPending{Base: game.NewBase(value).Dynamic().Flag(game.FlagPending), Value: value}
}

func (n *IsPending) Eval(ctx *game.Context) bool {
	if n.Value == nil {
		return len(ctx.State().Pending) > 0
	}
	return ctx.State().IsPending(n.Value.Eval(ctx))
}

// IsMover holds when a player is the one to move.
type IsMover struct {
	game.Base
	Who game.IntNode
}

func NewIsMover(who game.IntNode) *IsMover {
	return &IsMover{Base: game.NewBase(who).Dynamic(), Who: who}
}

func (n *IsMover) Eval(ctx *game.Context) bool { return n.Who.Eval(ctx) == ctx.Mover() }
