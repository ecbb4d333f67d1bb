package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"ludeme/topology"
)

func seededContext(t *testing.T, stacking bool) *Context {
	t.Helper()
	ctx := NewContext(testGame(t, stacking), 3)
	cs := ctx.Container()
	cs.Insert(topology.Cell, 0, Off, Piece{What: 1, Who: 1}, 1)
	cs.Insert(topology.Cell, 4, Off, Piece{What: 2, Who: 2, State: 1}, 1)
	cs.Insert(topology.Cell, 4, Off, Piece{What: 1, Who: 1}, 1)
	cs.Insert(topology.Cell, 9, Off, Piece{What: 3}, 4)
	return ctx
}

func sampleActions() []Action {
	edit := PieceEdit{Type: topology.Cell, Site: 4, Level: Off}
	atZero := PieceEdit{Type: topology.Cell, Site: 4, Level: 0}
	return []Action{
		&Add{Type: topology.Cell, Site: 1, Level: Off, Piece: Piece{What: 2, Who: 2}, Count: 1},
		&Add{Type: topology.Cell, Site: 9, Level: Off, Piece: Piece{What: 3}, Count: 3},
		&Add{Type: topology.Vertex, Site: 5, Level: Off, Piece: Piece{What: 1, Who: 1, Value: 4, Rotation: 2}, Count: 1},
		&Add{Type: topology.Cell, Site: 2, Level: Off, Piece: Piece{What: 2, Who: 2, Hidden: 1 << 1}, Count: 1},
		&Remove{Type: topology.Cell, Site: 4, Level: Off},
		&Remove{Type: topology.Cell, Site: 4, Level: 0},
		&MovePiece{Type: topology.Cell, Src: 0, LevelFrom: Off, Dst: 8, LevelTo: Off},
		&MovePiece{Type: topology.Cell, Src: 4, LevelFrom: 0, Dst: 0, LevelTo: 0},
		&SetCount{Type: topology.Cell, Site: 9, Piece: Piece{What: 3}, Count: 7},
		&SetCount{Type: topology.Cell, Site: 10, Piece: Piece{What: 3}, Count: 2},
		&SetCount{Type: topology.Cell, Site: 11, Piece: Piece{What: 3, Hidden: 1<<1 | 1<<2}, Count: 2},
		&SetCount{Type: topology.Cell, Site: 9, Piece: Piece{What: 3}, Count: 0},
		&SetState{PieceEdit: edit, State: 5},
		&SetState{PieceEdit: atZero, State: 2},
		&SetValue{PieceEdit: edit, Value: 11},
		&SetRotation{PieceEdit: edit, Rotation: 3},
		&SetHidden{PieceEdit: edit, Player: 2, Hidden: true},
		&SetNextPlayer{Player: 1},
		&SetPending{Value: 6},
		&SetTrump{Suit: 2},
		&SetTeam{Player: 2, Team: 1},
		&SetScore{Player: 1, Score: 12},
		&SetVar{Var: "captured", Value: 3},
		&SetVar{Var: "a,b=[c] d%", Value: 4},
		&SetPot{Value: 40},
		&Pass{},
	}
}

func TestTrialFormatRoundTrip(t *testing.T) {
	for _, stacking := range []bool{false, true} {
		base := seededContext(t, stacking)
		for i, a := range sampleActions() {
			a.SetDecision(i%2 == 0)
			t.Run(a.Name(), func(t *testing.T) {
				direct := base.Copy()
				a.Apply(direct)
				text := TrialFormat(a, direct)

				replayed := base.Copy()
				parsed, err := ParseAction(replayed, text)
				require.NoError(t, err, text)
				require.Equal(t, text, TrialFormat(parsed, replayed), "Format is stable")
				require.Equal(t, a.Decision(), parsed.Decision())
				parsed.Apply(replayed)

				require.Equal(t, direct.State().Hash(), replayed.State().Hash(), text)
				require.Equal(t, direct.State(), replayed.State(), "Post-states are identical")
			})
		}
	}
}

func TestTrialFormatText(t *testing.T) {
	ctx := NewContext(testGame(t, false), 1)

	add := &Add{Type: topology.Cell, Site: 3, Level: Off, Piece: Piece{What: 1, Who: 1}, Count: 1}
	add.SetDecision(true)
	require.Equal(t, "[Add:to=3,what=1,who=1,decision=true]", TrialFormat(add, ctx), "Default site type is omitted")

	edge := &Remove{Type: topology.Edge, Site: 2, Level: Off}
	require.Equal(t, "[Remove:type=Edge,to=2]", TrialFormat(edge, ctx))
	require.Equal(t, "[Pass]", TrialFormat(&Pass{}, ctx))

	hidden := &Add{Type: topology.Cell, Site: 3, Level: Off, Piece: Piece{What: 1, Who: 1, Hidden: 1 << 2}, Count: 1}
	require.Equal(t, "[Add:to=3,what=1,who=1,hidden=4]", TrialFormat(hidden, ctx))

	odd := &SetVar{Var: "a,b", Value: 3}
	text := TrialFormat(odd, ctx)
	require.Equal(t, "[SetVar:name=a%2Cb,value=3]", text, "Separators in names are escaped")
	parsed, err := ParseAction(ctx, text)
	require.NoError(t, err)
	require.Equal(t, "a,b", parsed.(*SetVar).Var)
}

func TestParseActionErrors(t *testing.T) {
	ctx := NewContext(testGame(t, false), 1)

	for _, text := range []string{
		"Add:to=1",
		"[Teleport:to=1]",
		"[Add:to=x,what=1]",
		"[Add:what=1]",
		"[Remove:to]",
		"[Remove:type=Hex,to=1]",
		"[SetHidden:to=1,player=1,hidden=maybe]",
	} {
		_, err := ParseAction(ctx, text)
		require.True(t, errors.Is(err, ErrBadTrialFormat), "%s should not parse", text)
	}
}

func TestNewMoveDecision(t *testing.T) {
	m := NewMove(&Remove{Type: topology.Cell, Site: 2, Level: Off}, &Add{Type: topology.Cell, Site: 5, Level: Off, Piece: Piece{What: 1}, Count: 1})
	require.True(t, m.Actions[0].Decision())
	require.False(t, m.Actions[1].Decision())
	require.Equal(t, 2, m.From)
	require.Equal(t, 2, m.To, "First action defining a site wins")
	require.False(t, m.IsPass())
	require.True(t, PassMove(1).IsPass())
}
