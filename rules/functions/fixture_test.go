package functions

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"ludeme/game"
	"ludeme/topology"
)

const (
	king1  = 1
	king2  = 2
	stone1 = 3
	stone2 = 4
)

// captureSteps moves every piece of the mover one step in any direction,
// capturing enemies. Check, when set, must hold after the step.
type captureSteps struct {
	game.Base
	Check game.BoolNode
}

func newCaptureSteps(check game.BoolNode) *captureSteps {
	return &captureSteps{Base: game.NewBase(check).Dynamic(), Check: check}
}

func (n *captureSteps) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		cs := ctx.Container()
		mover := ctx.Mover()
		for from := 0; from < ctx.Board().NumSites(topology.Cell); from++ {
			if cs.Who(topology.Cell, from, game.Off) != mover {
				continue
			}
			for _, to := range ctx.Board().Neighbours(topology.Cell, from, topology.All) {
				who := cs.Who(topology.Cell, to, game.Off)
				if who == mover {
					continue
				}
				var m *game.Move
				step := &game.MovePiece{Type: topology.Cell, Src: from, LevelFrom: game.Off, Dst: to, LevelTo: game.Off}
				if who != 0 {
					m = game.NewMove(&game.Remove{Type: topology.Cell, Site: to, Level: game.Off}, step)
				} else {
					m = game.NewMove(step)
				}
				if n.Check != nil && !n.holdsAfter(ctx, m) {
					continue
				}
				if !yield(m) {
					return
				}
			}
		}
	}
}

func (n *captureSteps) holdsAfter(ctx *game.Context, m *game.Move) bool {
	spec, release := ctx.Speculate()
	defer release()
	m.Apply(spec)
	return n.Check.Eval(spec)
}

func (n *captureSteps) Eval(ctx *game.Context) []*game.Move { return game.Collect(n.Seq(ctx)) }

// counting records the results of a wrapped predicate.
type counting struct {
	game.Base
	Arg     game.BoolNode
	Results []bool
}

func (n *counting) Eval(ctx *game.Context) bool {
	v := n.Arg.Eval(ctx)
	n.Results = append(n.Results, v)
	return v
}

func newGame(t *testing.T, rows, cols int, play game.MovesNode) *game.Game {
	t.Helper()
	board, err := topology.Square(rows, cols)
	require.NoError(t, err)
	if play == nil {
		play = newCaptureSteps(nil)
	}
	g := &game.Game{
		Name:        "fixture",
		Players:     2,
		Board:       board,
		DefaultSite: topology.Cell,
		Components: []game.Component{
			{Index: 0},
			{Index: king1, Name: "King1", Kind: "King", Owner: 1},
			{Index: king2, Name: "King2", Kind: "King", Owner: 2},
			{Index: stone1, Name: "Stone1", Kind: "Stone", Owner: 1},
			{Index: stone2, Name: "Stone2", Kind: "Stone", Owner: 2},
		},
		Hands: []game.Hand{{Owner: 1, Offset: rows * cols, Size: 1}, {Owner: 2, Offset: rows*cols + 1, Size: 1}},
		Rules: game.Rules{Play: play},
	}
	_, err = board.AddTrack(topology.TrackSpec{Name: "Row", Path: "0,EEnd"})
	require.NoError(t, err)
	g.Preprocess()
	return g
}

func place(ctx *game.Context, site, what, who int) {
	ctx.Container().Insert(topology.Cell, site, game.Off, game.Piece{What: what, Who: who}, 1)
}

func prep(g *game.Game, nodes ...game.Node) {
	for _, n := range nodes {
		n.Preprocess(g)
	}
}

func cell() *topology.SiteType {
	st := topology.Cell
	return &st
}
