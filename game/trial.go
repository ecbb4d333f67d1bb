package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MoveRecord is one applied move in trial format, consequents included.
type MoveRecord struct {
	Mover   int      `json:"mover"`
	From    int      `json:"from"`
	To      int      `json:"to"`
	Actions []string `json:"actions"`
}

// Trial is the history and outcome of one play of a game.
type Trial struct {
	Records []MoveRecord
	Over    bool
	Winner  int // 0 for a draw or no result
}

func (t *Trial) NumMoves() int { return len(t.Records) }

// Record is the serializable form of a trial.
type Record struct {
	ID      string       `json:"id"`
	Game    string       `json:"game"`
	Seed    uint64       `json:"seed"`
	Over    bool         `json:"over"`
	Winner  int          `json:"winner"`
	Moves   []MoveRecord `json:"moves"`
	Created time.Time    `json:"created"`
}

// NewRecord snapshots the trial of ctx under a fresh id.
func NewRecord(ctx *Context, seed uint64) Record {
	t := ctx.trial
	return Record{
		ID:      uuid.NewString(),
		Game:    ctx.game.Name,
		Seed:    seed,
		Over:    t.Over,
		Winner:  t.Winner,
		Moves:   append([]MoveRecord(nil), t.Records...),
		Created: time.Now().UTC(),
	}
}

// Replay plays a record back from its seed by parsing and applying the
// recorded actions.
func Replay(g *Game, rec Record) (*Context, error) {
	if rec.Game != g.Name {
		return nil, fmt.Errorf("record of %q cannot replay on %q", rec.Game, g.Name)
	}
	ctx, err := g.Start(rec.Seed)
	if err != nil {
		return nil, err
	}
	for i, mr := range rec.Moves {
		if mr.Mover != ctx.Mover() {
			return nil, fmt.Errorf("move %d: recorded mover %d, state has %d", i, mr.Mover, ctx.Mover())
		}
		m := &Move{From: mr.From, To: mr.To, LevelFrom: Off, LevelTo: Off, Mover: mr.Mover}
		for _, s := range mr.Actions {
			a, err := ParseAction(ctx, s)
			if err != nil {
				return nil, fmt.Errorf("move %d: %w", i, err)
			}
			m.Actions = append(m.Actions, a)
		}
		if err := g.Apply(ctx, m); err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
	}
	if ctx.trial.Over != rec.Over || ctx.trial.Winner != rec.Winner {
		return ctx, fmt.Errorf("replay of %s ended with winner %d, recorded %d", rec.ID, ctx.trial.Winner, rec.Winner)
	}
	return ctx, nil
}
