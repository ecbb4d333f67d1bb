package functions

import (
	"math"

	"ludeme/game"
)

type FloatConst struct {
	game.Base
	V float64
}

func Float(v float64) *FloatConst {
	return &FloatConst{Base: game.NewBase().Concept(game.ConceptFloat), V: v}
}

func (n *FloatConst) Eval(*game.Context) float64 { return n.V }

// ToFloat converts an integer expression.
type ToFloat struct {
	game.Base
	Arg game.IntNode
}

func NewToFloat(arg game.IntNode) *ToFloat {
	return &ToFloat{Base: game.NewBase(arg).Concept(game.ConceptFloat), Arg: arg}
}

func (n *ToFloat) Eval(ctx *game.Context) float64 { return float64(n.Arg.Eval(ctx)) }

// FloatArith supports add, sub, mul, div, min, max and abs.
type FloatArith struct {
	game.Base
	Op   ArithOp
	Args []game.FloatNode
}

func NewFloatArith(op ArithOp, args ...game.FloatNode) *FloatArith {
	b := game.NewBase().Concept(game.ConceptFloat, arithConcepts[op])
	for _, a := range args {
		b = b.With(a)
	}
	return &FloatArith{Base: b, Op: op, Args: args}
}

func (n *FloatArith) Eval(ctx *game.Context) float64 {
	if len(n.Args) == 0 {
		return 0
	}
	acc := n.Args[0].Eval(ctx)
	if n.Op == OpAbs {
		return math.Abs(acc)
	}
	for _, a := range n.Args[1:] {
		v := a.Eval(ctx)
		switch n.Op {
		case OpAdd:
			acc += v
		case OpSub:
			acc -= v
		case OpMul:
			acc *= v
		case OpDiv:
			if v == 0 {
				game.Fail("float-div", "division by zero")
			}
			acc /= v
		case OpMin:
			acc = math.Min(acc, v)
		case OpMax:
			acc = math.Max(acc, v)
		default:
			game.Fail("float-arith", "unsupported operator %d", n.Op)
		}
	}
	return acc
}

// Sqrt of a negative value is an evaluation fault.
type Sqrt struct {
	game.Base
	Arg game.FloatNode
}

func NewSqrt(arg game.FloatNode) *Sqrt {
	return &Sqrt{Base: game.NewBase(arg).Concept(game.ConceptFloat, game.ConceptSquareRoot), Arg: arg}
}

func (n *Sqrt) Eval(ctx *game.Context) float64 {
	v := n.Arg.Eval(ctx)
	if v < 0 {
		game.Fail("sqrt", "negative operand %v", v)
	}
	return math.Sqrt(v)
}

// Round converts a float expression to the nearest integer.
type Round struct {
	game.Base
	Arg game.FloatNode
}

func NewRound(arg game.FloatNode) *Round {
	return &Round{Base: game.NewBase(arg).Concept(game.ConceptFloat), Arg: arg}
}

func (n *Round) Eval(ctx *game.Context) int { return int(math.Round(n.Arg.Eval(ctx))) }
