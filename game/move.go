package game

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Move is an ordered list of actions produced by rule evaluation, plus the
// consequent generators run after it is applied.
type Move struct {
	From      int
	To        int
	LevelFrom int
	LevelTo   int
	Mover     int
	Actions   []Action
	Then      []MovesNode
}

// NewMove builds a move whose first action is the decision. From and To
// come from the first action that defines them.
func NewMove(actions ...Action) *Move {
	m := &Move{From: Off, To: Off, LevelFrom: Off, LevelTo: Off, Actions: actions}
	for i, a := range actions {
		a.SetDecision(i == 0)
		if m.From == Off && a.From() != Off {
			m.From = a.From()
		}
		if m.To == Off && a.To() != Off {
			m.To = a.To()
		}
	}
	return m
}

// PassMove returns a move made of a single pass.
func PassMove(mover int) *Move {
	m := NewMove(&Pass{})
	m.Mover = mover
	return m
}

// IsPass reports whether the move only passes.
func (m *Move) IsPass() bool {
	for _, a := range m.Actions {
		if _, ok := a.(*Pass); !ok {
			return false
		}
	}
	return true
}

// WithThen returns a copy of the move with more consequents.
func (m *Move) WithThen(then ...MovesNode) *Move {
	c := *m
	c.Then = append(slices.Clip(m.Then), then...)
	return &c
}

// Prepend returns a move with actions placed before the move's own. The
// first prepended action becomes the decision.
func (m *Move) Prepend(actions ...Action) *Move {
	c := NewMove(append(slices.Clip(actions), m.Actions...)...)
	c.Then, c.Mover = m.Then, m.Mover
	c.LevelFrom, c.LevelTo = m.LevelFrom, m.LevelTo
	if m.From != Off {
		c.From = m.From
	}
	if m.To != Off {
		c.To = m.To
	}
	return c
}

// Apply runs the actions then the consequents, and returns every action
// applied, consequents included. The turn does not change.
func (m *Move) Apply(ctx *Context) []Action {
	applied := make([]Action, 0, len(m.Actions))
	for _, a := range m.Actions {
		a.Apply(ctx)
		applied = append(applied, a)
	}
	if len(m.Then) == 0 {
		return applied
	}

	saved := ctx.Slots
	defer func() { ctx.Slots = saved }()
	for _, then := range m.Then {
		ctx.Slots = NewSlots()
		ctx.Slots.From, ctx.Slots.To = m.From, m.To
		for _, cm := range then.Eval(ctx) {
			for _, a := range cm.Actions {
				a.SetDecision(false)
			}
			applied = append(applied, cm.Apply(ctx)...)
		}
	}
	return applied
}

// TrialFormat joins the trial format of the move's own actions.
func (m *Move) TrialFormat(ctx *Context) string {
	parts := make([]string, len(m.Actions))
	for i, a := range m.Actions {
		parts[i] = TrialFormat(a, ctx)
	}
	return strings.Join(parts, "")
}

func (m *Move) String() string {
	names := make([]string, len(m.Actions))
	for i, a := range m.Actions {
		names[i] = a.Name()
	}
	return fmt.Sprintf("P%d %s %d->%d", m.Mover, strings.Join(names, "+"), m.From, m.To)
}

// Collect expands a lazy move sequence.
func Collect(seq iter.Seq[*Move]) []*Move {
	return slices.Collect(seq)
}

// SeqOf yields the moves of a slice.
func SeqOf(moves []*Move) iter.Seq[*Move] {
	return slices.Values(moves)
}
