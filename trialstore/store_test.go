package trialstore

import (
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ludeme/game"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trials.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func record(gameName, id string) game.Record {
	return game.Record{
		ID:      id,
		Game:    gameName,
		Seed:    42,
		Over:    true,
		Winner:  2,
		Moves:   []game.MoveRecord{{Mover: 1, From: -1, To: 4, Actions: []string{"[Add:to=4,what=1,who=1,decision=true]"}}},
		Created: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestSaveLoad(t *testing.T) {
	s := openTemp(t)

	rec := record("TicTacToe", "a")
	require.NoError(t, s.Save(rec))

	got, err := s.Load("TicTacToe", "a")
	require.NoError(t, err)
	require.Equal(t, rec, got)

	_, err = s.Load("TicTacToe", "missing")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Load("Hex", "a")
	require.ErrorIs(t, err, ErrNotFound, "Unknown games have no bucket")
}

func TestListAndDelete(t *testing.T) {
	s := openTemp(t)

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.Save(record("Kalah", id)))
	}
	require.NoError(t, s.Save(record("Hex", "z")))

	ids, err := s.List("Kalah")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, ids, "Keys come back in byte order")

	games, err := s.Games()
	require.NoError(t, err)
	sort.Strings(games)
	require.Equal(t, []string{"Hex", "Kalah"}, games)

	require.NoError(t, s.Delete("Kalah", "b"))
	require.NoError(t, s.Delete("Chess", "x"))
	ids, err = s.List("Kalah")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, ids)

	ids, err = s.List("Chess")
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(record("Kings", "x")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load("Kings", "x")
	require.NoError(t, err)
	require.Equal(t, 2, got.Winner)
}
