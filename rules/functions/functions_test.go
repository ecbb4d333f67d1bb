package functions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ludeme/game"
	"ludeme/topology"
)

func requireEvalError(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		_, ok := r.(*game.EvalError)
		require.True(t, ok, "Expected an evaluation fault, got %v", r)
	}()
	f()
}

func TestStaticNodesAreCached(t *testing.T) {
	g := newGame(t, 3, 3, nil)

	arith := NewArith(OpAdd, Int(2), NewArith(OpMul, Int(3), Int(4)))
	players := NewStateScalar(ScalarPlayers)
	sites := NewSites(nil, Int(1), Int(5))
	board := NewBoardSites(nil)
	side := NewSide(topology.N, nil)
	hand := NewHandSites(Int(2))
	track := NewTrackSites("Row", nil)
	union := NewSetOp(SetUnion, sites, side)
	prep(g, arith, players, sites, board, side, hand, track, union)

	empty := game.NewContext(g, 1)
	busy := game.NewContext(g, 2)
	place(busy, 4, stone1, 1)
	busy.State().Mover = 2
	busy.Slots.To = 7

	ints := []game.IntNode{arith, players}
	for _, n := range ints {
		require.True(t, n.IsStatic())
		require.Equal(t, n.Eval(empty), n.Eval(busy), "%T", n)
	}
	require.Equal(t, 14, arith.Eval(empty))

	regions := []game.RegionNode{sites, board, side, hand, track, union}
	for _, n := range regions {
		require.True(t, n.IsStatic(), "%T", n)
		require.True(t, n.Eval(empty).Equal(n.Eval(busy)), "%T", n)
	}
	require.Equal(t, []int{1, 5, 6, 7, 8}, union.Eval(busy).Sites())
	require.Equal(t, []int{10}, hand.Eval(empty).Sites())

	for _, n := range []game.Node{
		Mover(),
		ReadSlot(game.SlotTo),
		NewOccupancySites(OccEmpty, nil, nil),
		NewRandom(Int(1), Int(6)),
		NewHandSites(Mover()),
		NewArith(OpAdd, Int(1), ReadSlot(game.SlotValue)),
	} {
		require.False(t, n.IsStatic(), "%T depends on the state or slots", n)
	}
}

func TestArith(t *testing.T) {
	g := newGame(t, 3, 3, nil)
	ctx := game.NewContext(g, 1)

	cases := []struct {
		op   ArithOp
		args []int
		want int
	}{
		{OpSub, []int{10, 3, 2}, 5},
		{OpMod, []int{7, 3}, 1},
		{OpDiv, []int{7, 2}, 3},
		{OpMin, []int{4, -2, 9}, -2},
		{OpMax, []int{4, -2, 9}, 9},
		{OpAbs, []int{-4}, 4},
	}
	for _, c := range cases {
		args := make([]game.IntNode, len(c.args))
		for i, v := range c.args {
			args[i] = Int(v)
		}
		require.Equal(t, c.want, NewArith(c.op, args...).Eval(ctx), "op %d", c.op)
	}

	byZero := NewArith(OpDiv, Int(4), NewArith(OpSub, Int(1), ReadSlot(game.SlotValue)))
	ctx.Slots.Value = 1
	requireEvalError(t, func() { byZero.Eval(ctx) })

	require.True(t, NewArith(OpMod, Int(4), Int(0)).WillCrash(g), "Static zero divisor is caught by lint")
	require.False(t, NewArith(OpDiv, Int(4), Mover()).WillCrash(g))
	require.True(t, NewArith(OpAdd, NewArith(OpDiv, Int(1), Int(0))).WillCrash(g), "Crashes propagate to ancestors")

	short := NewArith(OpDiv)
	require.NotPanics(t, func() { require.False(t, short.WillCrash(g)) })
	require.True(t, short.MissingRequirement(g), "Division needs two operands")
	require.False(t, NewArith(OpAdd, Int(1)).MissingRequirement(g))
}

func TestSiteQueriesAndTests(t *testing.T) {
	g := newGame(t, 3, 3, nil)
	ctx := game.NewContext(g, 1)
	place(ctx, 0, stone1, 1)
	place(ctx, 0, stone1, 1)
	place(ctx, 1, stone2, 2)
	ctx.Container().Update(topology.Cell, 1, game.Off, func(p *game.Piece) { p.State = 3 })

	count := NewSiteQuery(PropCount, Int(0), nil, nil)
	who := NewSiteQuery(PropWho, Int(1), nil, nil)
	state := NewSiteQuery(PropState, Int(1), nil, nil)
	what := NewSiteQuery(PropWhat, Int(2), nil, cell())
	height := NewSiteQuery(PropHeight, Int(0), nil, nil)
	prep(g, count, who, state, what, height)
	require.Equal(t, 2, count.Eval(ctx))
	require.Equal(t, 2, who.Eval(ctx))
	require.Equal(t, 3, state.Eval(ctx))
	require.Zero(t, what.Eval(ctx))
	require.True(t, count.GameFlags(g).Has(game.FlagCount))
	require.True(t, height.MissingRequirement(g), "Stack height needs a stacking game")

	tests := map[SiteTestKind][]bool{
		// sites 0 (friend), 1 (enemy), 2 (empty), 99 (off board)
		TestEmpty:    {false, false, true, false},
		TestOccupied: {true, true, false, false},
		TestFriend:   {true, false, false, false},
		TestEnemy:    {false, true, false, false},
	}
	for kind, want := range tests {
		for i, site := range []int{0, 1, 2, 99} {
			n := NewSiteTest(kind, Int(site))
			prep(g, n)
			require.Equal(t, want[i], n.Eval(ctx), "test %d at site %d", kind, site)
		}
	}

	ctx.State().Teams[1], ctx.State().Teams[2] = 1, 1
	enemy := NewSiteTest(TestEnemy, Int(1))
	prep(g, enemy)
	require.False(t, enemy.Eval(ctx), "Team mates are not enemies")

	require.True(t, NewIsIn(Int(5), NewSites(nil, Int(2), Int(5))).Eval(ctx))
	require.True(t, NewCompare(CmpGe, Int(3), Int(3)).Eval(ctx))
	require.True(t, NewLogic(OpXor, Bool(true), Bool(true), Bool(true)).Eval(ctx))
	require.False(t, NewLogic(OpAnd, Bool(true), NewNot(Bool(true))).Eval(ctx))
}

func TestCountsAndScalars(t *testing.T) {
	g := newGame(t, 3, 3, nil)
	ctx := game.NewContext(g, 1)
	place(ctx, 0, stone1, 1)
	place(ctx, 0, stone1, 1)
	place(ctx, 5, king1, 1)
	place(ctx, 9, stone1, 1)
	ctx.State().Scores[2] = 4
	ctx.State().Vars["round"] = 3

	all := NewCountPieces(Mover(), "")
	stones := NewCountPieces(Mover(), "Stone")
	where := NewWhere("King", Mover())
	prep(g, all, stones, where)
	require.Equal(t, 4, all.Eval(ctx), "Hands count too")
	require.Equal(t, 3, stones.Eval(ctx))
	require.Equal(t, 5, where.Eval(ctx))
	require.Equal(t, 4, NewScore(NewPlayer(RoleNext)).Eval(ctx))
	require.Equal(t, 3, NewVar("round").Eval(ctx))
	require.Equal(t, king2, NewPieceIndex("King", Int(2)).Eval(ctx))
	require.Equal(t, 1, NewTrackSite("Row", nil, Int(1)).Eval(ctx))
	require.True(t, NewPieceIndex("Rook", nil).WillCrash(g))
	require.True(t, NewTrackSite("Spiral", nil, Int(0)).WillCrash(g))
	require.True(t, NewCountSites(NewBoardSites(nil)).IsStatic())

	r := NewRandom(Int(1), Int(3))
	seen := map[int]bool{}
	for i := 0; i < 50; i++ {
		v := r.Eval(ctx)
		require.True(t, v >= 1 && v <= 3)
		seen[v] = true
	}
	require.Len(t, seen, 3)
	require.True(t, r.GameFlags(g).Has(game.FlagStochastic))
}

func TestFloats(t *testing.T) {
	ctx := game.NewContext(newGame(t, 3, 3, nil), 1)

	require.Equal(t, 4.0, NewSqrt(NewToFloat(Int(16))).Eval(ctx))
	require.Equal(t, 3, NewRound(Float(2.5)).Eval(ctx))
	require.Equal(t, 2.5, NewFloatArith(OpDiv, Float(5), Float(2)).Eval(ctx))
	require.Equal(t, 1.5, NewFloatArith(OpAbs, Float(-1.5)).Eval(ctx))
	requireEvalError(t, func() { NewSqrt(Float(-1)).Eval(ctx) })
	requireEvalError(t, func() { NewFloatArith(OpDiv, Float(1), Float(0)).Eval(ctx) })
}

func TestIsLine(t *testing.T) {
	g := newGame(t, 3, 3, nil)
	ctx := game.NewContext(g, 1)
	for _, s := range []int{0, 4, 8} {
		place(ctx, s, stone1, 1)
	}

	diagonal := NewIsLine(Int(3), Int(4), nil, topology.All)
	orthogonal := NewIsLine(Int(3), Int(4), nil, topology.Orthogonal)
	fromSlot := NewIsLine(Int(3), nil, nil, topology.All)
	other := NewIsLine(Int(3), Int(4), Int(2), topology.All)
	longer := NewIsLine(Int(4), Int(4), nil, topology.All)
	prep(g, diagonal, orthogonal, fromSlot, other, longer)

	require.True(t, diagonal.Eval(ctx))
	require.False(t, orthogonal.Eval(ctx))
	ctx.Slots.To = 8
	require.True(t, fromSlot.Eval(ctx), "Defaults to the last destination")
	require.False(t, other.Eval(ctx))
	require.False(t, longer.Eval(ctx))
}

func TestIsThreatenedRecursion(t *testing.T) {
	inner := NewIsThreatened(NewWhere("King", Mover()), nil)
	probe := &counting{Base: game.NewBase(inner).Dynamic(), Arg: inner}
	g := newGame(t, 3, 3, newCaptureSteps(NewNot(probe)))

	ctx := game.NewContext(g, 1)
	place(ctx, 0, king1, 1)
	place(ctx, 4, king2, 2)
	before := ctx.State().Hash()

	outer := NewIsThreatened(Int(0), nil)
	prep(g, outer)
	require.True(t, outer.Eval(ctx), "King 2 can take king 1")

	require.NotEmpty(t, probe.Results, "The opponent's moves asked the threat question again")
	for _, r := range probe.Results {
		require.False(t, r, "Recursive calls answer false")
	}
	require.Equal(t, before, ctx.State().Hash(), "Speculation leaves no trace")
	require.False(t, ctx.Guarded(game.GuardThreat))

	ctx.Container().Remove(topology.Cell, 4, game.Off)
	place(ctx, 8, king2, 2)
	require.False(t, outer.Eval(ctx), "A distant king is no threat")

	empty := NewIsThreatened(Int(3), nil)
	prep(g, empty)
	require.False(t, empty.Eval(ctx), "An empty site cannot be threatened")
}

func TestGroupPredicates(t *testing.T) {
	t.Run("loop", func(t *testing.T) {
		g := newGame(t, 4, 4, nil)
		ctx := game.NewContext(g, 1)
		for _, s := range []int{1, 4, 6, 9} {
			place(ctx, s, stone1, 1)
		}
		diag := NewIsLoop(Int(1), topology.All)
		ortho := NewIsLoop(Int(1), topology.Orthogonal)
		prep(g, diag, ortho)
		require.True(t, diag.Eval(ctx), "Diagonally linked ring encloses cell 5")
		require.False(t, ortho.Eval(ctx), "Orthogonally the stones are not linked")

		ctx.Container().Remove(topology.Cell, 9, game.Off)
		require.False(t, diag.Eval(ctx))
	})

	t.Run("freedom", func(t *testing.T) {
		g := newGame(t, 3, 3, nil)
		ctx := game.NewContext(g, 1)
		place(ctx, 0, stone2, 2)
		place(ctx, 1, stone1, 1)
		place(ctx, 3, stone1, 1)
		n := NewHasFreedom(Int(0), topology.Orthogonal)
		prep(g, n)
		require.False(t, n.Eval(ctx), "Surrounded corner stone")
		ctx.Container().Remove(topology.Cell, 3, game.Off)
		require.True(t, n.Eval(ctx))
	})

	t.Run("connection", func(t *testing.T) {
		g := newGame(t, 3, 3, nil)
		ctx := game.NewContext(g, 1)
		for _, s := range []int{1, 4, 7} {
			place(ctx, s, stone1, 1)
		}
		n := NewIsConnected(nil, topology.Orthogonal, NewSide(topology.S, nil), NewSide(topology.N, nil))
		prep(g, n)
		require.True(t, n.Eval(ctx))
		ctx.Container().Remove(topology.Cell, 4, game.Off)
		require.False(t, n.Eval(ctx))
		require.True(t, NewIsConnected(nil, topology.All, NewSide(topology.S, nil)).WillCrash(g))
	})

	t.Run("group region", func(t *testing.T) {
		g := newGame(t, 3, 3, nil)
		ctx := game.NewContext(g, 1)
		for _, s := range []int{0, 4, 5} {
			place(ctx, s, stone1, 1)
		}
		all := NewGroup(Int(0), topology.All)
		ortho := NewGroup(Int(0), topology.Orthogonal)
		prep(g, all, ortho)
		require.Equal(t, []int{0, 4, 5}, all.Eval(ctx).Sites())
		require.Equal(t, []int{0}, ortho.Eval(ctx).Sites())
	})
}

func TestCanMove(t *testing.T) {
	g := newGame(t, 3, 3, nil)
	ctx := game.NewContext(g, 1)

	n := NewCanMove(nil, nil)
	next := NewCanMove(nil, NewPlayer(RoleNext))
	prep(g, n, next)
	require.False(t, n.Eval(ctx), "No pieces, no moves")

	place(ctx, 4, king2, 2)
	require.False(t, n.Eval(ctx))
	require.True(t, next.Eval(ctx))
	require.Equal(t, 1, ctx.Mover(), "The real mover is untouched")

	_, leave := ctx.Enter(game.GuardCanMove)
	require.False(t, next.Eval(ctx), "Nested can-move answers false")
	leave()
}

func TestRegions(t *testing.T) {
	g := newGame(t, 3, 3, nil)
	ctx := game.NewContext(g, 1)
	place(ctx, 4, stone1, 1)
	place(ctx, 2, stone2, 2)

	around := NewAround(Int(4), topology.Orthogonal, nil)
	ray := NewRay(Int(0), topology.N, nil)
	short := NewRay(Int(0), topology.N, Int(1))
	empty := NewOccupancySites(OccEmpty, nil, nil)
	mine := NewOccupancySites(OccOccupied, Mover(), nil)
	diff := NewSetOp(SetDifference, NewBoardSites(nil), empty)
	prep(g, around, ray, short, empty, mine, diff)

	require.Equal(t, []int{1, 3, 5, 7}, around.Eval(ctx).Sites())
	require.Equal(t, []int{3, 6}, ray.Eval(ctx).Sites())
	require.Equal(t, []int{3}, short.Eval(ctx).Sites())
	require.Equal(t, 7, empty.Eval(ctx).Len())
	require.Equal(t, []int{4}, mine.Eval(ctx).Sites())
	require.Equal(t, []int{2, 4}, diff.Eval(ctx).Sites())

	ctx.Slots.Region = game.NewRegion(topology.Cell, 3)
	require.Equal(t, []int{3}, NewRegionSlot().Eval(ctx).Sites())

	noHands := &game.Game{Name: "bare", Players: 2, Board: g.Board}
	require.True(t, NewHandSites(Int(1)).MissingRequirement(noHands))
	require.True(t, NewTrackSites("Nope", nil).WillCrash(g))
}
