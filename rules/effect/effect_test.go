package effect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ludeme/game"
	"ludeme/rules/functions"
	"ludeme/topology"
)

func TestStepAndCapture(t *testing.T) {
	g := newGame(t, 3, 3, nil)
	ctx := game.NewContext(g, 1)
	put(ctx, 4, disc1, 1, 1)
	put(ctx, 5, disc2, 2, 1)
	put(ctx, 1, disc1, 1, 1)

	quiet := NewStep(Movement{Rel: topology.Orthogonal})
	capture := NewStep(Movement{Rel: topology.Orthogonal, Capture: true})
	prep(g, quiet, capture)

	require.Equal(t, []int{2, 0, 7, 3}, destinations(quiet.Eval(ctx)))
	moves := capture.Eval(ctx)
	require.Equal(t, []int{2, 0, 7, 5, 3}, destinations(moves))

	take := moves[3]
	require.Equal(t, 4, take.From)
	require.Len(t, take.Actions, 2)
	require.IsType(t, &game.Remove{}, take.Actions[0])
	require.False(t, take.Actions[0].Decision())
	require.True(t, take.Actions[1].Decision(), "The piece movement is the decision")

	take.Apply(ctx)
	require.Equal(t, 1, ctx.Container().Who(topology.Cell, 5, game.Off))
	require.True(t, ctx.Container().IsEmpty(topology.Cell, 4))
	require.Equal(t, game.Off, ctx.Slots.From, "Generators restore the slots they write")
}

func TestSlide(t *testing.T) {
	g := newGame(t, 3, 3, nil)
	ctx := game.NewContext(g, 1)
	put(ctx, 0, disc1, 1, 1)
	put(ctx, 6, disc2, 2, 1)

	north := []topology.Direction{topology.N}
	cases := []struct {
		name string
		m    Movement
		want []int
	}{
		{"blocked", Movement{Dirs: north}, []int{3}},
		{"capture at the end", Movement{Dirs: north, Capture: true}, []int{3, 6}},
		{"bounded", Movement{Dirs: north, Capture: true, Max: functions.Int(1)}, []int{3}},
		{"open", Movement{Dirs: []topology.Direction{topology.E}}, []int{1, 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n := NewSlide(c.m)
			prep(g, n)
			require.Equal(t, c.want, destinations(n.Eval(ctx)))
			require.Equal(t, c.want, destinations(game.Collect(n.Seq(ctx))))
		})
	}
}

func TestFromToTakesOneCopy(t *testing.T) {
	g := newGame(t, 3, 3, nil)
	ctx := game.NewContext(g, 1)
	put(ctx, 9, disc1, 1, 3)

	n := NewFromTo(functions.NewHandSites(functions.Mover()), functions.NewOccupancySites(functions.OccEmpty, nil, nil), nil, false, nil)
	prep(g, n)
	moves := n.Eval(ctx)
	require.Len(t, moves, 9)
	require.Equal(t, 9, moves[0].From)

	moves[0].Apply(ctx)
	cs := ctx.Container()
	require.Equal(t, 2, cs.Count(topology.Cell, 9))
	require.Equal(t, 1, cs.Count(topology.Cell, 0))
	require.Equal(t, 1, cs.Who(topology.Cell, 0, game.Off))

	put(ctx, 10, disc2, 2, 1)
	ctx.State().Mover = 2
	moves = n.Eval(ctx)
	require.Len(t, moves, 8)
	moves[0].Apply(ctx)
	require.True(t, cs.IsEmpty(topology.Cell, 10), "A single copy moves whole")
	require.Equal(t, 2, cs.Who(topology.Cell, 1, game.Off))
}

func TestSow(t *testing.T) {
	f := fixture{rows: 2, cols: 3, tracks: []topology.TrackSpec{
		{Name: "Loop", Loop: true, Path: "0,EEnd,N1,WEnd"},
		{Name: "Bumpy", Sites: []int{0, 1, 1, 2}},
	}}
	g := f.build(t, nil)

	counts := func(ctx *game.Context) []int {
		out := make([]int, 6)
		for s := range out {
			out[s] = ctx.Container().Count(topology.Cell, s)
		}
		return out
	}

	cases := []struct {
		name  string
		track string
		skip  bool
		seeds int
		want  []int
		last  int
	}{
		{"one lap", "Loop", false, 4, []int{0, 1, 1, 0, 1, 1}, 4},
		{"lapping refills the origin", "Loop", false, 7, []int{1, 2, 1, 1, 1, 1}, 1},
		{"lapping skips the origin", "Loop", true, 7, []int{0, 2, 2, 1, 1, 1}, 2},
		{"bumps take extra seeds", "Bumpy", false, 3, []int{0, 2, 1, 0, 0, 0}, 2},
		{"seeds left at the end of the track", "Bumpy", false, 5, []int{2, 2, 1, 0, 0, 0}, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := game.NewContext(g, 1)
			put(ctx, 0, seed, 0, c.seeds)
			n := NewSow(functions.Int(0), c.track, nil, c.skip)
			prep(g, n)

			moves := n.Eval(ctx)
			require.Len(t, moves, 1)
			require.Equal(t, 0, moves[0].From)
			require.Equal(t, c.last, moves[0].To)
			moves[0].Apply(ctx)
			require.Equal(t, c.want, counts(ctx))
		})
	}

	ctx := game.NewContext(g, 1)
	empty := NewSow(functions.Int(0), "Loop", nil, false)
	require.Empty(t, empty.Eval(ctx), "Nothing to sow from an empty pit")
	require.True(t, NewSow(nil, "Spiral", nil, false).WillCrash(g))
}

func TestDoIfAfterwards(t *testing.T) {
	safe := functions.NewNot(functions.NewIsThreatened(functions.NewWhere("King", functions.Mover()), nil))
	play := NewDo(nil, NewStep(Movement{Rel: topology.All, Capture: true}), safe)
	g := newGame(t, 3, 3, play)

	ctx := game.NewContext(g, 1)
	put(ctx, 0, king1, 1, 1)
	put(ctx, 8, king2, 2, 1)
	before := ctx.State().Hash()

	require.Equal(t, []int{3, 1}, destinations(play.Eval(ctx)), "Stepping next to the other king is not allowed")
	require.Equal(t, []int{3, 1}, destinations(game.Collect(play.Seq(ctx))))
	require.Equal(t, before, ctx.State().Hash())

	moves, err := g.LegalMoves(ctx)
	require.NoError(t, err)
	require.Len(t, moves, 2)
	require.False(t, ctx.Guarded(game.GuardThreat))
}

func TestDoChainsPriorMoves(t *testing.T) {
	g := newGame(t, 3, 3, nil)
	ctx := game.NewContext(g, 1)

	follow := NewStep(Movement{From: functions.NewSites(nil, functions.ReadSlot(game.SlotTo)), Rel: topology.Orthogonal})
	n := NewDo(NewAdd(functions.Int(disc1), sites(0), nil, nil), follow, nil)
	prep(g, n)

	moves := n.Eval(ctx)
	require.Equal(t, []int{3, 1}, destinations(moves))
	m := moves[0]
	require.Equal(t, 0, m.From)
	require.Len(t, m.Actions, 2)
	require.True(t, m.Actions[0].Decision(), "The prior action leads")
	require.True(t, ctx.Container().IsEmpty(topology.Cell, 0), "Prior moves are only speculated")

	m.Apply(ctx)
	require.True(t, ctx.Container().IsEmpty(topology.Cell, 0))
	require.Equal(t, 1, ctx.Container().Who(topology.Cell, 3, game.Off))
}

func TestDoKeepsPriorConsequents(t *testing.T) {
	prior := NewThen(NewAdd(functions.Int(disc1), sites(0), nil, nil), NewSetVar("x", functions.Int(7)))
	play := NewDo(prior, NewAdd(functions.Int(disc1), sites(1), nil, nil), nil)
	g := newGame(t, 3, 3, play)

	ctx, err := g.Start(1)
	require.NoError(t, err)
	moves, err := g.LegalMoves(ctx)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	require.Zero(t, ctx.State().Var("x"), "Prior moves are only speculated")

	require.NoError(t, g.Apply(ctx, moves[0]))
	require.Equal(t, 7, ctx.State().Var("x"))
	require.Equal(t, 1, ctx.Container().Who(topology.Cell, 0, game.Off))
	require.Equal(t, 1, ctx.Container().Who(topology.Cell, 1, game.Off))

	rec := ctx.Trial().Records[0]
	require.Len(t, rec.Actions, 3)
	require.Contains(t, rec.Actions[1], "SetVar")

	replayed, err := game.Replay(g, game.NewRecord(ctx, 1))
	require.NoError(t, err)
	require.Equal(t, 7, replayed.State().Var("x"))
	require.Equal(t, ctx.State().Hash(), replayed.State().Hash())
}

func TestChoiceGenerators(t *testing.T) {
	g := newGame(t, 3, 3, nil)
	ctx := game.NewContext(g, 1)

	addAny := NewAdd(functions.Int(disc1), functions.NewOccupancySites(functions.OccEmpty, nil, nil), nil, nil)
	removeAny := NewRemove(functions.NewOccupancySites(functions.OccOccupied, nil, nil), nil)
	priority := NewPriority(removeAny, addAny)
	choice := NewIf(functions.NewIsMover(functions.Int(2)), NewPass(), addAny)
	onlyIf := NewIf(functions.NewIsMover(functions.Int(2)), NewPass(), nil)
	or := NewOr(NewPass(), addAny)
	prep(g, priority, choice, onlyIf, or)

	require.Len(t, priority.Eval(ctx), 9)
	require.Len(t, game.Collect(priority.Seq(ctx)), 9)
	require.Len(t, choice.Eval(ctx), 9)
	require.Empty(t, onlyIf.Eval(ctx))
	require.Len(t, or.Eval(ctx), 10)
	require.True(t, or.Eval(ctx)[0].IsPass())

	put(ctx, 4, disc2, 2, 1)
	require.Equal(t, []int{4}, destinations(priority.Eval(ctx)))
	require.Equal(t, []int{4}, destinations(game.Collect(priority.Seq(ctx))))

	ctx.State().Mover = 2
	moves := choice.Eval(ctx)
	require.Len(t, moves, 1)
	require.True(t, moves[0].IsPass())
}

func TestThenConsequentsAreRecorded(t *testing.T) {
	place := NewAdd(functions.NewPieceIndex("Disc", functions.Mover()), functions.NewOccupancySites(functions.OccEmpty, nil, nil), nil, nil)
	play := NewThen(place, NewSetScore(nil, functions.Int(1), true))
	g := newGame(t, 3, 3, play)
	require.True(t, g.Concepts().Test(uint(game.ConceptConsequence)))

	ctx, err := g.Start(1)
	require.NoError(t, err)
	for turn := 0; turn < 3; turn++ {
		moves, err := g.LegalMoves(ctx)
		require.NoError(t, err)
		require.NoError(t, g.Apply(ctx, moves[0]))
	}

	require.Equal(t, 2, ctx.State().Score(1))
	require.Equal(t, 1, ctx.State().Score(2))
	rec := ctx.Trial().Records[0]
	require.Len(t, rec.Actions, 2)
	require.Contains(t, rec.Actions[1], "SetScore")
	require.NotContains(t, rec.Actions[1], "decision", "Consequents are never decisions")
}

func TestSetEffects(t *testing.T) {
	g := newGame(t, 3, 3, nil)
	ctx := game.NewContext(g, 1)
	put(ctx, 0, disc1, 1, 1)
	one := functions.Int
	count := func(n game.MovesNode) int {
		prep(g, n)
		return len(n.Eval(ctx))
	}
	apply := func(n game.MovesNode) {
		prep(g, n)
		for _, m := range n.Eval(ctx) {
			m.Apply(ctx)
		}
	}

	t.Run("negative values are rejected", func(t *testing.T) {
		require.Zero(t, count(NewSetState(one(0), nil, one(-1), nil)))
		require.Zero(t, count(NewSetState(one(0), one(-1), one(2), nil)), "Negative level")
		require.Zero(t, count(NewSetValue(one(0), nil, one(-3), nil)))
		require.Zero(t, count(NewSetRotation(one(0), nil, one(-1), nil)))
		require.Zero(t, count(NewSetCount(one(0), one(-1), nil, nil)))
		require.Zero(t, count(NewSetPot(one(-1), false)))
		require.Zero(t, count(NewSetTrump(one(-1))))
		require.Zero(t, count(NewSetTeam(one(1), one(-1))))
	})

	t.Run("out of range targets are rejected", func(t *testing.T) {
		require.Zero(t, count(NewSetState(one(1), nil, one(2), nil)), "Empty site")
		require.Zero(t, count(NewSetNextPlayer(one(3))))
		require.Zero(t, count(NewSetScore(one(0), one(1), false)))
		require.Zero(t, count(NewSetHidden(one(0), nil, one(5), true, nil)))
	})

	t.Run("edits apply", func(t *testing.T) {
		apply(NewSetState(one(0), nil, one(2), nil))
		apply(NewSetValue(one(0), nil, one(7), nil))
		apply(NewSetHidden(one(0), nil, one(2), true, nil))
		p, ok := ctx.Container().Piece(topology.Cell, 0, game.Off)
		require.True(t, ok)
		require.Equal(t, 2, p.State)
		require.Equal(t, 7, p.Value)
		require.True(t, p.HiddenFrom(2))
		require.False(t, p.HiddenFrom(1))

		apply(NewSetCount(one(2), one(3), one(seed), nil))
		require.Equal(t, 3, ctx.Container().Count(topology.Cell, 2))
		require.Equal(t, seed, ctx.Container().What(topology.Cell, 2, game.Off))

		apply(NewSetPot(one(5), false))
		require.Zero(t, count(NewSetPot(one(-6), true)), "The pot cannot go negative")
		apply(NewSetPot(one(-2), true))
		require.Equal(t, 3, ctx.State().Pot)

		apply(NewSetScore(one(2), one(-4), false))
		require.Equal(t, -4, ctx.State().Score(2), "Scores may be negative")

		ctx.Slots.To = 4
		apply(NewSetPending(nil))
		require.True(t, ctx.State().IsPending(4))

		apply(NewSetTeam(one(1), one(2)))
		require.Equal(t, 2, ctx.State().Team(1))
		apply(NewSetVar("x", one(-5)))
		require.Equal(t, -5, ctx.State().Var("x"))
		apply(NewSetNextPlayer(one(1)))
		require.Equal(t, 1, ctx.State().Next)
	})

	require.True(t, NewSetCount(one(0), one(1), nil, nil).MissingRequirement(fixture{rows: 3, cols: 3, stacking: true}.build(t, nil)))
}
