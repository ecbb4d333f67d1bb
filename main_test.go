package main

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var sb strings.Builder
	rootCmd.SetOut(&sb)
	rootCmd.SetErr(&sb)
	rootCmd.SetArgs(append([]string{"--log-level", "warn"}, slices.Clone(args)...))
	err := rootCmd.ExecuteContext(context.Background())
	return sb.String(), err
}

func TestGamesCommand(t *testing.T) {
	out, err := execute(t, "games")
	require.NoError(t, err)
	require.Equal(t, "hex\nkalah\nkings\ntictactoe\n", out)
}

func TestPlayThenReplay(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "trials.db")

	out, err := execute(t, "play", "tictactoe", "--trials", "4", "--parallel", "2", "--seed", "9",
		"--store", store, "--csv", dir, "--agents", "random,mc", "--playouts", "2")
	require.NoError(t, err)
	require.Contains(t, out, "TicTacToe: 4 trials, 0 unfinished")

	csvs, err := filepath.Glob(filepath.Join(dir, "TicTacToe", "*", "trials.csv"))
	require.NoError(t, err)
	require.Len(t, csvs, 1)

	out, err = execute(t, "replay", store, "tictactoe")
	require.NoError(t, err)
	ids := strings.Fields(out)
	require.Len(t, ids, 4)

	out, err = execute(t, "replay", store, "tictactoe", ids[0])
	require.NoError(t, err)
	require.Contains(t, out, "over true")
	require.Contains(t, out, "  1 P1 ")
}

func TestPlayRejectsUnknownAgent(t *testing.T) {
	_, err := execute(t, "play", "tictactoe", "--trials", "1", "--agents", "alphazero", "--store", "", "--csv", "")
	require.ErrorContains(t, err, "unknown agent")
}

func TestInspectionCommands(t *testing.T) {
	out, err := execute(t, "lint", "kings")
	require.NoError(t, err)
	require.NotEmpty(t, out)

	out, err = execute(t, "concepts", "kalah")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "flags: "))

	out, err = execute(t, "topology", "kalah")
	require.NoError(t, err)
	require.Contains(t, out, "square 2x8")
	require.Contains(t, out, "track Sow (owner 1, looped true)")
}

func TestLoadGameFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mini.yaml")
	src := `
name: Mini
players: 2
board: {shape: square, rows: 1, cols: 3}
pieces: [{kind: Disc}]
rules:
  play: {add: {piece: {piece: {kind: Disc}}, to: empty}}
  end:
    - {if: {eq: [{count-sites: empty}, 0]}, result: draw}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	g, err := loadGame(path)
	require.NoError(t, err)
	require.Equal(t, "Mini", g.Name)

	_, err = loadGame("no-such-game")
	require.Error(t, err)
}
