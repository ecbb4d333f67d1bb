package builder

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ludeme/game"
	"ludeme/topology"
)

const tiny = `
name: Tiny
players: 2
board: {shape: square, rows: 3, cols: 3}
pieces: [{kind: Disc}]
rules:
  play: {add: {piece: {piece: {kind: Disc}}, to: empty}}
`

func tinyContext(t *testing.T) (*game.Game, *game.Context) {
	t.Helper()
	g, err := Load([]byte(tiny))
	require.NoError(t, err)
	ctx, err := g.Start(1)
	require.NoError(t, err)
	return g, ctx
}

func mustBuild(t *testing.T, g *game.Game, src string, kind Kind) game.Node {
	t.Helper()
	n, err := Build([]byte(src), kind)
	require.NoError(t, err, src)
	n.Preprocess(g)
	return n
}

func TestBuildInts(t *testing.T) {
	g, ctx := tinyContext(t)

	for _, tt := range []struct {
		src  string
		want int
	}{
		{"3", 3},
		{"mover", 1},
		{"next", 2},
		{"{plus: [1, {times: [2, 3]}]}", 7},
		{"{max: [1, 5, 3]}", 5},
		{"{abs: -4}", 4},
		{"{count-sites: empty}", 9},
		{"{count-sites: {side: N}}", 3},
		{"{piece: {kind: Disc, owner: 2}}", 2},
		{"{round: 2.6}", 3},
		{"num-players", 2},
	} {
		t.Run(tt.src, func(t *testing.T) {
			n := mustBuild(t, g, tt.src, KindInt)
			require.Equal(t, tt.want, n.(game.IntNode).Eval(ctx))
		})
	}
}

func TestBuildBoolsAndFloats(t *testing.T) {
	g, ctx := tinyContext(t)

	for _, tt := range []struct {
		src  string
		want bool
	}{
		{"true", true},
		{"{and: [true, {not: false}]}", true},
		{"{lt: [1, 2]}", true},
		{"{eq: [{count-sites: board}, 8]}", false},
		{"{not: {is-empty: 4}}", false},
		{"{is-in: {site: 4, region: [3, 4]}}", true},
		{"{is-mover: 1}", true},
	} {
		t.Run(tt.src, func(t *testing.T) {
			n := mustBuild(t, g, tt.src, KindBool)
			require.Equal(t, tt.want, n.(game.BoolNode).Eval(ctx))
		})
	}

	for _, tt := range []struct {
		src  string
		want float64
	}{
		{"2.5", 2.5},
		{"2", 2},
		{"{fplus: [1, 0.5]}", 1.5},
		{"{to-float: 3}", 3},
		{"{plus: [1, 2]}", 3},
	} {
		t.Run(tt.src, func(t *testing.T) {
			n := mustBuild(t, g, tt.src, KindFloat)
			require.InDelta(t, tt.want, n.(game.FloatNode).Eval(ctx), 1e-9)
		})
	}
}

func TestBuildRegions(t *testing.T) {
	g, ctx := tinyContext(t)

	for _, tt := range []struct {
		src  string
		want []int
	}{
		{"4", []int{4}},
		{"[0, 4, 8]", []int{0, 4, 8}},
		{"{union: [[0, 1], [1, 2]]}", []int{0, 1, 2}},
		{"{difference: [{side: W}, [3]]}", []int{0, 6}},
		{"{intersection: [board, [1, 2, 5]]}", []int{1, 2, 5}},
		{"{around: {site: 0}}", []int{1, 3, 4}},
	} {
		t.Run(tt.src, func(t *testing.T) {
			n := mustBuild(t, g, tt.src, KindRegion)
			require.ElementsMatch(t, tt.want, n.(game.RegionNode).Eval(ctx).Sites())
		})
	}
}

func TestBuildMoves(t *testing.T) {
	g, ctx := tinyContext(t)

	for _, tt := range []struct {
		src  string
		want int
	}{
		{"pass", 1},
		{"{add: {piece: {piece: {kind: Disc}}, to: empty}}", 9},
		{"{add: {piece: {piece: {kind: Disc}}, to: {side: S}}}", 3},
		{"{either: [pass, {set-var: {name: x, value: 1}}]}", 2},
		{"{if: {cond: false, then: pass, else: {set-pot: {value: 3}}}}", 1},
		{"{for-each-value: {lo: 1, hi: 3, moves: {set-score: {player: mover, score: value}}}}", 3},
		{"{for-each-site: {region: [0, 1], moves: {set-var: {name: s, value: site}}}}", 2},
	} {
		t.Run(tt.src, func(t *testing.T) {
			n := mustBuild(t, g, tt.src, KindMoves)
			mn := n.(game.MovesNode)
			require.Len(t, mn.Eval(ctx), tt.want)
			require.Len(t, game.Collect(mn.Seq(ctx)), tt.want)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kind  Kind
		err   error
		tag   string
		field string
	}{
		{"unknown tag", "{nope: 1}", KindInt, ErrUnknownTag, "nope", ""},
		{"unknown field", "{where: {kind: King, colour: red}}", KindInt, ErrUnknownField, "where", "colour"},
		{"missing field", "{is-in: {site: 1}}", KindBool, ErrMissingField, "is-in", "region"},
		{"both alternatives", "{piece: {kind: Disc, name: Disc1}}", KindInt, ErrExactlyOne, "piece", ""},
		{"bool for int", "{is-empty: 1}", KindInt, ErrWrongKind, "is-empty", ""},
		{"list for int", "[1, 2]", KindInt, ErrWrongKind, "", ""},
		{"comparison arity", "{eq: [1]}", KindBool, ErrBadValue, "eq", "of"},
		{"divide without operands", "{div: []}", KindInt, ErrBadValue, "div", "of"},
		{"subtract one operand", "{minus: [3]}", KindInt, ErrBadValue, "minus", "of"},
		{"empty union", "{union: []}", KindRegion, ErrBadValue, "union", "of"},
		{"bare word", "banana", KindInt, ErrBadValue, "", ""},
		{"two tags", "{plus: [1], minus: [2]}", KindInt, ErrBadValue, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build([]byte(tt.src), tt.kind)
			require.ErrorIs(t, err, tt.err)
			var be *BuildError
			require.True(t, errors.As(err, &be))
			require.Equal(t, tt.tag, be.Tag)
			if tt.field != "" {
				require.Equal(t, tt.field, be.Field)
			}
		})
	}
}

func TestBuildErrorsWrapTopology(t *testing.T) {
	_, err := Build([]byte("{step: {rel: sideways}}"), KindMoves)
	var relErr *topology.RelationError
	require.True(t, errors.As(err, &relErr))

	_, err = Build([]byte("{side: Q}"), KindRegion)
	var dirErr *topology.DirectionError
	require.True(t, errors.As(err, &dirErr))

	_, err = Build([]byte("{step: {rel: all, dirs: [N]}}"), KindMoves)
	require.ErrorIs(t, err, ErrExactlyOne)
}

func TestBuildErrorLine(t *testing.T) {
	src := `and:
  - true
  - is-in:
      site: 1
      region: [1]
      bogus: 2
`
	_, err := Build([]byte(src), KindBool)
	var be *BuildError
	require.True(t, errors.As(err, &be))
	require.Equal(t, 6, be.Line)
	require.EqualError(t, err, "line 6: is-in.bogus: unknown field")
}

func TestLoadKeepsPreprocessingFaults(t *testing.T) {
	for _, tt := range []struct {
		name string
		play string
		want string
	}{
		{"zero divisor", "{add: {piece: {piece: {kind: Disc}}, to: empty, count: {div: [1, 0]}}}", "eval div: division by zero"},
		{"missing track", "{add: {piece: {piece: {kind: Disc}}, to: {track-sites: {track: Nope, owner: 1}}}}", `eval track-sites: no track "Nope"`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			src := strings.Replace(tiny, "{add: {piece: {piece: {kind: Disc}}, to: empty}}", tt.play, 1)
			g, err := Load([]byte(src))
			require.NoError(t, err, "Faults in static nodes do not abort loading")

			var messages []string
			for _, issue := range g.Lint() {
				messages = append(messages, issue.Message)
			}
			require.Contains(t, messages, tt.want)

			ctx, err := g.Start(1)
			require.NoError(t, err)
			_, err = g.LegalMoves(ctx)
			var evalErr *game.EvalError
			require.ErrorAs(t, err, &evalErr)
			require.EqualError(t, err, tt.want)
		})
	}
}

func TestTags(t *testing.T) {
	regions := Tags(KindRegion)
	require.True(t, sort.StringsAreSorted(regions))
	require.Contains(t, regions, "board")
	require.Contains(t, regions, "side")
	require.NotContains(t, regions, "plus")

	for _, k := range []Kind{KindInt, KindBool, KindFloat, KindRegion, KindMoves} {
		require.NotEmpty(t, Tags(k), k.String())
	}
}
