// Package effect holds the move generators: placement, movement, sowing,
// the state edits and the for-each iteration family.
package effect

import (
	"iter"

	"ludeme/game"
)

// Pass yields the single pass move.
type Pass struct {
	game.Base
}

func NewPass() *Pass {
	return &Pass{Base: game.NewBase().Dynamic().Concept(game.ConceptPassEffect)}
}

func (n *Pass) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		yield(game.PassMove(ctx.Mover()))
	}
}

func (n *Pass) Eval(ctx *game.Context) []*game.Move { return game.Collect(n.Seq(ctx)) }

// Or yields the moves of each generator in turn.
type Or struct {
	game.Base
	Gens []game.MovesNode
}

func NewOr(gens ...game.MovesNode) *Or {
	b := game.NewBase().Dynamic()
	for _, g := range gens {
		b = b.With(g)
	}
	return &Or{Base: b, Gens: gens}
}

func (n *Or) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		for _, g := range n.Gens {
			for m := range g.Seq(ctx) {
				if !yield(m) {
					return
				}
			}
		}
	}
}

func (n *Or) Eval(ctx *game.Context) []*game.Move {
	var out []*game.Move
	for _, g := range n.Gens {
		out = append(out, g.Eval(ctx)...)
	}
	return out
}

// If picks a generator by a condition. Else may be nil.
type If struct {
	game.Base
	Cond game.BoolNode
	Then game.MovesNode
	Else game.MovesNode
}

func NewIf(cond game.BoolNode, then, els game.MovesNode) *If {
	return &If{Base: game.NewBase(cond, then, els).Dynamic(), Cond: cond, Then: then, Else: els}
}

func (n *If) pick(ctx *game.Context) game.MovesNode {
	if n.Cond.Eval(ctx) {
		return n.Then
	}
	return n.Else
}

func (n *If) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		g := n.pick(ctx)
		if g == nil {
			return
		}
		for m := range g.Seq(ctx) {
			if !yield(m) {
				return
			}
		}
	}
}

func (n *If) Eval(ctx *game.Context) []*game.Move {
	if g := n.pick(ctx); g != nil {
		return g.Eval(ctx)
	}
	return nil
}

// Priority yields the moves of the first generator that has any.
type Priority struct {
	game.Base
	Gens []game.MovesNode
}

func NewPriority(gens ...game.MovesNode) *Priority {
	b := game.NewBase().Dynamic()
	for _, g := range gens {
		b = b.With(g)
	}
	return &Priority{Base: b, Gens: gens}
}

func (n *Priority) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		for _, g := range n.Gens {
			found := false
			for m := range g.Seq(ctx) {
				found = true
				if !yield(m) {
					return
				}
			}
			if found {
				return
			}
		}
	}
}

func (n *Priority) Eval(ctx *game.Context) []*game.Move {
	for _, g := range n.Gens {
		if moves := g.Eval(ctx); len(moves) > 0 {
			return moves
		}
	}
	return nil
}

// Then attaches consequents to every move of a generator. They run when
// the move is applied, with From and To set from the move.
type Then struct {
	game.Base
	Gen  game.MovesNode
	Next []game.MovesNode
}

func NewThen(gen game.MovesNode, next ...game.MovesNode) *Then {
	b := game.NewBase(gen).Concept(game.ConceptConsequence)
	for _, c := range next {
		b = b.With(c)
	}
	return &Then{Base: b, Gen: gen, Next: next}
}

func (n *Then) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		for m := range n.Gen.Seq(ctx) {
			if !yield(m.WithThen(n.Next...)) {
				return
			}
		}
	}
}

func (n *Then) Eval(ctx *game.Context) []*game.Move {
	moves := n.Gen.Eval(ctx)
	for i, m := range moves {
		moves[i] = m.WithThen(n.Next...)
	}
	return moves
}

// Do chains generators through a speculative context. With Prior, each
// prior move is applied and the moves of Moves generated afterwards are
// yielded with the prior actions in front. IfAfterwards, when set, must
// hold once the whole move has been applied; the turn does not change in
// between, so Mover still names the player who moved.
type Do struct {
	game.Base
	Prior        game.MovesNode
	Moves        game.MovesNode
	IfAfterwards game.BoolNode
}

func NewDo(prior, moves game.MovesNode, ifAfterwards game.BoolNode) *Do {
	return &Do{
		Base:         game.NewBase(prior, moves, ifAfterwards).Dynamic().Concept(game.ConceptCopyContext),
		Prior:        prior,
		Moves:        moves,
		IfAfterwards: ifAfterwards,
	}
}

func (n *Do) Seq(ctx *game.Context) iter.Seq[*game.Move] {
	return func(yield func(*game.Move) bool) {
		if n.Prior == nil {
			for m := range n.Moves.Seq(ctx) {
				if n.holds(ctx, m) && !yield(m) {
					return
				}
			}
			return
		}
		for p := range n.Prior.Seq(ctx) {
			if !n.chain(ctx, p, yield) {
				return
			}
		}
	}
}

// chain yields the moves that follow prior. It reports false once yield
// asks to stop.
func (n *Do) chain(ctx *game.Context, prior *game.Move, yield func(*game.Move) bool) bool {
	spec, release := ctx.Speculate()
	defer release()
	// Consequents of the prior are carried as plain actions.
	applied := prior.Apply(spec)
	spec.Slots = game.NewSlots()
	spec.Slots.From, spec.Slots.To = prior.From, prior.To

	var follow []*game.Move
	for m := range n.Moves.Seq(spec) {
		follow = append(follow, m.Prepend(applied...))
	}
	for _, m := range follow {
		if n.holds(ctx, m) && !yield(m) {
			return false
		}
	}
	return true
}

func (n *Do) holds(ctx *game.Context, m *game.Move) bool {
	if n.IfAfterwards == nil {
		return true
	}
	spec, release := ctx.Speculate()
	defer release()
	m.Apply(spec)
	spec.Slots = game.NewSlots()
	spec.Slots.From, spec.Slots.To = m.From, m.To
	return n.IfAfterwards.Eval(spec)
}

func (n *Do) Eval(ctx *game.Context) []*game.Move { return game.Collect(n.Seq(ctx)) }
