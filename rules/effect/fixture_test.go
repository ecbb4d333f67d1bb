package effect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ludeme/game"
	"ludeme/rules/functions"
	"ludeme/topology"
)

const (
	disc1 = 1
	disc2 = 2
	seed  = 3
	king1 = 4
	king2 = 5
)

type fixture struct {
	rows, cols int
	stacking   bool
	tracks     []topology.TrackSpec
}

func (f fixture) build(t *testing.T, play game.MovesNode, end ...game.EndRule) *game.Game {
	t.Helper()
	board, err := topology.Square(f.rows, f.cols)
	require.NoError(t, err)
	for _, spec := range f.tracks {
		_, err := board.AddTrack(spec)
		require.NoError(t, err)
	}
	if play == nil {
		play = NewPass()
	}
	n := f.rows * f.cols
	g := &game.Game{
		Name:        "fixture",
		Players:     2,
		Board:       board,
		DefaultSite: topology.Cell,
		Components: []game.Component{
			{Index: 0},
			{Index: disc1, Name: "Disc1", Kind: "Disc", Owner: 1},
			{Index: disc2, Name: "Disc2", Kind: "Disc", Owner: 2},
			{Index: seed, Name: "Seed", Kind: "Seed"},
			{Index: king1, Name: "King1", Kind: "King", Owner: 1},
			{Index: king2, Name: "King2", Kind: "King", Owner: 2},
		},
		Hands:    []game.Hand{{Owner: 1, Offset: n, Size: 1}, {Owner: 2, Offset: n + 1, Size: 1}},
		Stacking: f.stacking,
		Rules:    game.Rules{Play: play, End: end},
	}
	g.Preprocess()
	return g
}

func newGame(t *testing.T, rows, cols int, play game.MovesNode) *game.Game {
	return fixture{rows: rows, cols: cols}.build(t, play)
}

func put(ctx *game.Context, site, what, who, count int) {
	ctx.Container().Insert(topology.Cell, site, game.Off, game.Piece{What: what, Who: who}, count)
}

func sites(ss ...int) *functions.Sites {
	args := make([]game.IntNode, len(ss))
	for i, s := range ss {
		args[i] = functions.Int(s)
	}
	return functions.NewSites(nil, args...)
}

func prep(g *game.Game, nodes ...game.Node) {
	for _, n := range nodes {
		n.Preprocess(g)
	}
}

func formats(ctx *game.Context, moves []*game.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.TrialFormat(ctx)
	}
	return out
}

func destinations(moves []*game.Move) []int {
	out := make([]int, len(moves))
	for i, m := range moves {
		out[i] = m.To
	}
	return out
}
