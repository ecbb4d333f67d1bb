package game

import (
	"golang.org/x/exp/rand"

	"ludeme/topology"
)

// Off marks an undefined site, level or player in a slot.
const Off = -1

// EvalSlots are the transient values rule nodes read and write during one
// evaluation pass.
type EvalSlots struct {
	From      int
	To        int
	Level     int
	Between   int
	Site      int
	Value     int
	Player    int
	Team      int
	Direction topology.Direction
	Region    Region
}

// NewSlots returns slots with every site and player undefined.
func NewSlots() EvalSlots {
	return EvalSlots{
		From:    Off,
		To:      Off,
		Level:   Off,
		Between: Off,
		Site:    Off,
		Value:   Off,
		Player:  Off,
		Team:    Off,
	}
}

// Context bundles a game, a trial and its state with the evaluation slots.
// A Context is used by one goroutine at a time.
type Context struct {
	game  *Game
	trial *Trial
	state *State
	rng   *rand.Rand

	Slots EvalSlots

	guards      Guard
	speculative bool
}

// NewContext returns a context over a fresh initial state. Start rules are
// not applied; see Game.Start.
func NewContext(g *Game, seed uint64) *Context {
	return &Context{
		game:  g,
		trial: &Trial{},
		state: g.newState(),
		rng:   rand.New(rand.NewSource(seed)),
		Slots: NewSlots(),
	}
}

func (c *Context) Game() *Game   { return c.game }
func (c *Context) Trial() *Trial { return c.trial }
func (c *Context) State() *State { return c.state }

func (c *Context) Board() *topology.Topology { return c.game.Board }

func (c *Context) Container() *ContainerState { return c.state.Container }

func (c *Context) Rand() *rand.Rand { return c.rng }

// Speculative reports whether writes go to a discardable overlay.
func (c *Context) Speculative() bool { return c.speculative }

// Speculate returns a context whose state reads through to this one and
// keeps its own writes. The caller must call release once done; the
// speculative context must not be used afterwards.
func (c *Context) Speculate() (*Context, func()) {
	spec := &Context{
		game:        c.game,
		trial:       c.trial,
		state:       c.state.overlay(),
		rng:         c.rng,
		Slots:       c.Slots,
		guards:      c.guards,
		speculative: true,
	}
	return spec, spec.state.release
}

// Enter sets a reentrancy guard. It reports false when the guard is already
// held, in which case the caller answers its predicate with false. Contexts
// speculated while the guard is held inherit it.
func (c *Context) Enter(g Guard) (bool, func()) {
	if c.guards&g != 0 {
		return false, func() {}
	}
	c.guards |= g
	return true, func() { c.guards &^= g }
}

// Guarded reports whether g is held.
func (c *Context) Guarded(g Guard) bool { return c.guards&g != 0 }

// Copy returns an independent context over a deep copy of the state. The
// trial is copied too so the copy can keep playing.
func (c *Context) Copy() *Context {
	t := *c.trial
	t.Records = append([]MoveRecord(nil), c.trial.Records...)
	return &Context{
		game:  c.game,
		trial: &t,
		state: c.state.Copy(),
		rng:   rand.New(rand.NewSource(c.rng.Uint64())),
		Slots: c.Slots,
	}
}

// Mover returns the player to move.
func (c *Context) Mover() int { return c.state.Mover }
