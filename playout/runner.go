// Package playout runs independent trials of a compiled game, in parallel,
// with one agent per player.
package playout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ludeme/game"
	"ludeme/meta"
	"ludeme/metrics"
)

// Store receives the record of every finished trial.
type Store interface {
	Save(rec game.Record) error
}

type Option func(r *Runner)

type Runner struct {
	game      *game.Game
	trials    int
	parallel  int
	maxTurns  int
	seed      uint64
	agents    []Agent
	store     Store
	collector metrics.Collector
}

func WithTrials(trials int) Option {
	return func(r *Runner) {
		if trials > 0 {
			r.trials = trials
		}
	}
}

func WithParallel(goroutines int) Option {
	return func(r *Runner) {
		if goroutines > 0 {
			r.parallel = goroutines
		}
	}
}

func WithMaxTurns(turns int) Option {
	return func(r *Runner) {
		if turns > 0 {
			r.maxTurns = turns
		}
	}
}

// WithSeed sets the seed of the first trial; trial i uses seed+i.
func WithSeed(seed uint64) Option {
	return func(r *Runner) {
		r.seed = seed
	}
}

// WithAgents sets the agent of each player in order. Players without an
// agent play at random.
func WithAgents(agents ...Agent) Option {
	return func(r *Runner) {
		r.agents = agents
	}
}

func WithStore(store Store) Option {
	return func(r *Runner) {
		if store != nil {
			r.store = store
		}
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(r *Runner) {
		if collector != nil {
			r.collector = collector
		}
	}
}

func NewRunner(g *game.Game, options ...Option) *Runner {
	r := &Runner{ // Default values
		game:      g,
		trials:    meta.TRIALS,
		parallel:  meta.GO_ROUTINES,
		maxTurns:  meta.MAX_TURNS,
		seed:      meta.SEED,
		collector: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Result is the outcome of one trial.
type Result struct {
	Trial  int
	Record game.Record
	Hash   game.StateHash // of the final state
}

// Run plays every trial and returns the results in trial order. The first
// failing trial cancels the ones not yet started.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	log.Info().Str("game", r.game.Name).Int("trials", r.trials).Int("parallel", r.parallel).Msg("starting playouts")
	r.collector.Start(r.game.Name)

	results := make([]Result, r.trials)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.parallel)

	var saveMu sync.Mutex
	for i := 0; i < r.trials; i++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.RunTrial(i)
			if err != nil {
				return err
			}
			results[i] = res
			if r.store != nil {
				saveMu.Lock()
				defer saveMu.Unlock()
				if err := r.store.Save(res.Record); err != nil {
					return fmt.Errorf("trial %d: %w", i, err)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	s := r.collector.Complete()
	log.Info().Str("game", r.game.Name).Int("moves", s.Moves).Int("draws", s.Draws).Msgf("completed %d playouts", len(results))
	return results, nil
}

// RunTrial plays trial i from its seed until it ends or reaches the turn
// limit.
func (r *Runner) RunTrial(i int) (Result, error) {
	seed := r.seed + uint64(i)
	start := time.Now()

	ctx, err := r.game.Start(seed)
	if err != nil {
		return Result{}, fmt.Errorf("trial %d: %w", i, err)
	}

	for turn := 1; !ctx.Trial().Over && turn <= r.maxTurns; turn++ {
		moves, err := r.game.LegalMoves(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("trial %d turn %d: %w", i, turn, err)
		}
		mover := ctx.Mover()
		r.collector.AddMove(metrics.MoveMetric{Trial: i, Step: turn, Player: mover, Legal: len(moves)})

		move := r.agent(mover).FindMove(ctx, moves)
		if err := r.game.Apply(ctx, move); err != nil {
			return Result{}, fmt.Errorf("trial %d turn %d: %w", i, turn, err)
		}
	}

	rec := game.NewRecord(ctx, seed)
	end := time.Now()
	r.collector.AddTrial(metrics.TrialMetric{
		Trial:     i,
		Seed:      seed,
		ID:        rec.ID,
		Winner:    rec.Winner,
		Over:      rec.Over,
		Moves:     len(rec.Moves),
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	})
	if !rec.Over {
		log.Debug().Str("game", r.game.Name).Int("trial", i).Msgf("stopped after %d turns (no result yet)", r.maxTurns)
	}
	return Result{Trial: i, Record: rec, Hash: ctx.State().Hash()}, nil
}

func (r *Runner) agent(player int) Agent {
	if player >= 1 && player <= len(r.agents) && r.agents[player-1] != nil {
		return r.agents[player-1]
	}
	return NewRandomAgent()
}
