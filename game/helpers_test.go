package game

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"ludeme/topology"
)

// addEmpty offers the mover's disc on every empty cell.
type addEmpty struct {
	Base
}

func newAddEmpty() *addEmpty {
	return &addEmpty{Base: NewBase().Dynamic().Concept(ConceptAddEffect)}
}

func (n *addEmpty) Seq(ctx *Context) iter.Seq[*Move] {
	return func(yield func(*Move) bool) {
		for site := 0; site < ctx.Board().NumSites(topology.Cell); site++ {
			if !ctx.Container().IsEmpty(topology.Cell, site) {
				continue
			}
			mover := ctx.Mover()
			m := NewMove(&Add{Type: topology.Cell, Site: site, Level: Off, Piece: Piece{What: mover, Who: mover}, Count: 1})
			if !yield(m) {
				return
			}
		}
	}
}

func (n *addEmpty) Eval(ctx *Context) []*Move { return Collect(n.Seq(ctx)) }

// fullBoard holds when no board cell is empty.
type fullBoard struct {
	Base
}

func (n *fullBoard) Eval(ctx *Context) bool {
	for site := 0; site < ctx.Board().NumSites(topology.Cell); site++ {
		if ctx.Container().IsEmpty(topology.Cell, site) {
			return false
		}
	}
	return true
}

// constInt is a static integer leaf.
type constInt struct {
	Base
	v int
}

func (n *constInt) Eval(*Context) int { return n.v }

// crashy is a leaf that reports it will crash.
type crashy struct {
	Base
}

func (n *crashy) Eval(*Context) int               { return 0 }
func (n *crashy) WillCrash(*Game) bool            { return true }
func (n *crashy) MissingRequirement(g *Game) bool { return g.Players > 2 }

// sum reads the To slot and adds its children.
type sum struct {
	Base
	a, b IntNode
}

func newSum(a, b IntNode) *sum {
	return &sum{Base: NewBase(a, b).Reads(SlotTo).Concept(ConceptAddition), a: a, b: b}
}

func (n *sum) Eval(ctx *Context) int { return n.a.Eval(ctx) + n.b.Eval(ctx) }

func testGame(t *testing.T, stacking bool) *Game {
	t.Helper()
	board, err := topology.Square(3, 3)
	require.NoError(t, err)
	g := &Game{
		Name:        "test",
		Players:     2,
		Board:       board,
		DefaultSite: topology.Cell,
		Stacking:    stacking,
		Components: []Component{
			{Index: 0},
			{Index: 1, Name: "Disc1", Kind: "Disc", Owner: 1},
			{Index: 2, Name: "Disc2", Kind: "Disc", Owner: 2},
			{Index: 3, Name: "Seed", Kind: "Seed"},
		},
		Hands: []Hand{{Owner: 1, Offset: 9, Size: 2}, {Owner: 2, Offset: 11, Size: 2}},
		Rules: Rules{
			Play: newAddEmpty(),
			End:  []EndRule{{If: &fullBoard{Base: NewBase().Dynamic()}, Result: Draw}},
		},
	}
	g.Preprocess()
	return g
}
