package playout

import (
	"ludeme/game"
)

// Agent chooses the move to play among the legal ones.
type Agent interface {
	FindMove(ctx *game.Context, moves []*game.Move) *game.Move
}

type randomAgent struct{}

// NewRandomAgent returns an agent that plays uniformly at random using the
// trial's own generator, so a trial replays from its seed.
func NewRandomAgent() Agent {
	return randomAgent{}
}

func (randomAgent) FindMove(ctx *game.Context, moves []*game.Move) *game.Move {
	return moves[ctx.Rand().Intn(len(moves))]
}

// Rewards of a finished playout from the point of view of one player.
const (
	WIN  = 1.0
	LOSS = 1 - WIN
	DRAW = 0.5
)

type monteCarloAgent struct {
	playouts int
	maxTurns int
}

// NewMonteCarloAgent returns an agent scoring each legal move by the mean
// reward of random playouts started after it.
func NewMonteCarloAgent(playouts, maxTurns int) Agent {
	if playouts <= 0 {
		panic("Must specify a positive number of playouts")
	}
	return monteCarloAgent{playouts: playouts, maxTurns: maxTurns}
}

func (a monteCarloAgent) FindMove(ctx *game.Context, moves []*game.Move) *game.Move {
	if len(moves) == 1 {
		return moves[0]
	}
	g := ctx.Game()
	me := ctx.Mover()
	best, bestScore := moves[0], -1.0
	for _, m := range moves {
		total := 0.0
		for range a.playouts {
			sim := ctx.Copy()
			if err := g.Apply(sim, m); err != nil {
				break
			}
			total += reward(sim, me, a.maxTurns)
		}
		if score := total / float64(a.playouts); score > bestScore {
			best, bestScore = m, score
		}
	}
	return best
}

// reward plays sim out at random and scores the result for player.
func reward(sim *game.Context, player, maxTurns int) float64 {
	g := sim.Game()
	for turn := 0; !sim.Trial().Over && turn < maxTurns; turn++ {
		moves, err := g.LegalMoves(sim)
		if err != nil {
			return LOSS
		}
		if err := g.Apply(sim, moves[sim.Rand().Intn(len(moves))]); err != nil {
			return LOSS
		}
	}
	t := sim.Trial()
	switch {
	case !t.Over || t.Winner == 0:
		return DRAW
	case t.Winner == player:
		return WIN
	default:
		return LOSS
	}
}
