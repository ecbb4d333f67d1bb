package builder

import (
	"ludeme/game"
	"ludeme/rules/functions"
	"ludeme/topology"
)

func orMover(who game.IntNode) game.IntNode {
	if who == nil {
		return functions.Mover()
	}
	return who
}

func init() {
	registerInts()
	registerFloats()
	registerBools()
	registerRegions()
}

func registerInts() {
	arith := func(op functions.ArithOp) func(a *args) game.Node {
		return func(a *args) game.Node {
			ops := a.ints("of")
			a.atLeast("of", len(ops), op.Arity())
			return functions.NewArith(op, ops...)
		}
	}
	register("plus", KindInt, "of", arith(functions.OpAdd))
	register("minus", KindInt, "of", arith(functions.OpSub))
	register("times", KindInt, "of", arith(functions.OpMul))
	register("div", KindInt, "of", arith(functions.OpDiv))
	register("mod", KindInt, "of", arith(functions.OpMod))
	register("min", KindInt, "of", arith(functions.OpMin))
	register("max", KindInt, "of", arith(functions.OpMax))
	register("abs", KindInt, "arg", func(a *args) game.Node {
		return functions.NewArith(functions.OpAbs, a.intNode("arg"))
	})

	props := map[string]functions.SiteProp{
		"what-at":     functions.PropWhat,
		"who-at":      functions.PropWho,
		"state-at":    functions.PropState,
		"value-at":    functions.PropValue,
		"rotation-at": functions.PropRotation,
		"count-at":    functions.PropCount,
		"height-at":   functions.PropHeight,
	}
	for tag, prop := range props {
		register(tag, KindInt, "site", func(a *args) game.Node {
			return functions.NewSiteQuery(prop, a.intNode("site"), a.optInt("level"), a.siteType("type"))
		})
	}

	scalars := map[string]functions.Scalar{
		"pot":         functions.ScalarPot,
		"counter":     functions.ScalarCounter,
		"trump":       functions.ScalarTrump,
		"num-players": functions.ScalarPlayers,
		"num-moves":   functions.ScalarMoves,
	}
	for tag, which := range scalars {
		register(tag, KindInt, "", func(*args) game.Node { return functions.NewStateScalar(which) })
	}

	register("count-sites", KindInt, "region", func(a *args) game.Node {
		return functions.NewCountSites(a.region("region"))
	})
	register("count-pieces", KindInt, "", func(a *args) game.Node {
		return functions.NewCountPieces(orMover(a.optInt("who")), a.str("kind", false))
	})
	register("var", KindInt, "name", func(a *args) game.Node {
		return functions.NewVar(a.str("name", true))
	})
	register("score", KindInt, "who", func(a *args) game.Node {
		return functions.NewScore(orMover(a.optInt("who")))
	})
	register("piece", KindInt, "", func(a *args) game.Node {
		if a.oneOf(true, "kind", "name") == "name" {
			return functions.NewPieceIndex(a.str("name", true), nil)
		}
		return functions.NewPieceIndex(a.str("kind", true), orMover(a.optInt("owner")))
	})
	register("where", KindInt, "", func(a *args) game.Node {
		return functions.NewWhere(a.str("kind", true), orMover(a.optInt("who")))
	})
	register("track-site", KindInt, "", func(a *args) game.Node {
		return functions.NewTrackSite(a.str("track", true), orMover(a.optInt("owner")), a.intNode("index"))
	})
	register("random", KindInt, "", func(a *args) game.Node {
		return functions.NewRandom(a.intNode("lo"), a.intNode("hi"))
	})
	register("round", KindInt, "arg", func(a *args) game.Node {
		return functions.NewRound(a.floatNode("arg"))
	})
}

func registerFloats() {
	arith := func(op functions.ArithOp) func(a *args) game.Node {
		return func(a *args) game.Node {
			ops := a.floats("of")
			a.atLeast("of", len(ops), op.Arity())
			return functions.NewFloatArith(op, ops...)
		}
	}
	register("fplus", KindFloat, "of", arith(functions.OpAdd))
	register("fminus", KindFloat, "of", arith(functions.OpSub))
	register("ftimes", KindFloat, "of", arith(functions.OpMul))
	register("fdiv", KindFloat, "of", arith(functions.OpDiv))
	register("fabs", KindFloat, "arg", func(a *args) game.Node {
		return functions.NewFloatArith(functions.OpAbs, a.floatNode("arg"))
	})
	register("to-float", KindFloat, "arg", func(a *args) game.Node {
		return functions.NewToFloat(a.intNode("arg"))
	})
	register("sqrt", KindFloat, "arg", func(a *args) game.Node {
		return functions.NewSqrt(a.floatNode("arg"))
	})
}

func registerBools() {
	register("not", KindBool, "arg", func(a *args) game.Node {
		return functions.NewNot(a.boolNode("arg"))
	})
	logic := func(op functions.LogicOp) func(a *args) game.Node {
		return func(a *args) game.Node { return functions.NewLogic(op, a.bools("of")...) }
	}
	register("and", KindBool, "of", logic(functions.OpAnd))
	register("or", KindBool, "of", logic(functions.OpOr))
	register("xor", KindBool, "of", logic(functions.OpXor))

	compares := map[string]functions.CmpOp{
		"eq": functions.CmpEq,
		"ne": functions.CmpNe,
		"lt": functions.CmpLt,
		"le": functions.CmpLe,
		"gt": functions.CmpGt,
		"ge": functions.CmpGe,
	}
	for tag, op := range compares {
		register(tag, KindBool, "of", func(a *args) game.Node {
			x, y := a.pair("of")
			return functions.NewCompare(op, x, y)
		})
	}

	tests := map[string]functions.SiteTestKind{
		"is-empty":    functions.TestEmpty,
		"is-occupied": functions.TestOccupied,
		"is-friend":   functions.TestFriend,
		"is-enemy":    functions.TestEnemy,
	}
	for tag, test := range tests {
		register(tag, KindBool, "site", func(a *args) game.Node {
			return functions.NewSiteTest(test, a.intNode("site"))
		})
	}

	register("is-in", KindBool, "", func(a *args) game.Node {
		return functions.NewIsIn(a.intNode("site"), a.region("region"))
	})
	register("is-pending", KindBool, "value", func(a *args) game.Node {
		return functions.NewIsPending(a.optInt("value"))
	})
	register("is-mover", KindBool, "who", func(a *args) game.Node {
		return functions.NewIsMover(a.intNode("who"))
	})
	register("is-line", KindBool, "", func(a *args) game.Node {
		return functions.NewIsLine(a.intNode("length"), a.optInt("site"), a.optInt("who"), a.relation("rel", topology.All))
	})
	register("is-threatened", KindBool, "site", func(a *args) game.Node {
		return functions.NewIsThreatened(a.intNode("site"), a.optMoves("by"))
	})
	register("is-loop", KindBool, "", func(a *args) game.Node {
		return functions.NewIsLoop(a.optInt("site"), a.relation("rel", topology.Orthogonal))
	})
	register("has-freedom", KindBool, "site", func(a *args) game.Node {
		return functions.NewHasFreedom(a.intNode("site"), a.relation("rel", topology.Orthogonal))
	})
	register("is-connected", KindBool, "", func(a *args) game.Node {
		return functions.NewIsConnected(a.optInt("who"), a.relation("rel", topology.Orthogonal), a.regions("regions", true)...)
	})
	register("can-move", KindBool, "", func(a *args) game.Node {
		return functions.NewCanMove(a.optMoves("moves"), a.optInt("who"))
	})
}

func registerRegions() {
	register("sites", KindRegion, "of", func(a *args) game.Node {
		st := a.siteType("type")
		return functions.NewSites(st, a.ints("of")...)
	})
	register("board", KindRegion, "", func(a *args) game.Node {
		return functions.NewBoardSites(a.siteType("type"))
	})
	register("empty", KindRegion, "", func(a *args) game.Node {
		return functions.NewOccupancySites(functions.OccEmpty, nil, a.siteType("type"))
	})
	register("occupied", KindRegion, "", func(a *args) game.Node {
		return functions.NewOccupancySites(functions.OccOccupied, a.optInt("who"), a.siteType("type"))
	})
	register("hand", KindRegion, "owner", func(a *args) game.Node {
		return functions.NewHandSites(orMover(a.optInt("owner")))
	})
	register("around", KindRegion, "", func(a *args) game.Node {
		return functions.NewAround(a.intNode("site"), a.relation("rel", topology.All), a.siteType("type"))
	})
	register("ray", KindRegion, "", func(a *args) game.Node {
		return functions.NewRay(a.intNode("site"), a.direction("dir"), a.optInt("distance"))
	})
	register("track-sites", KindRegion, "", func(a *args) game.Node {
		return functions.NewTrackSites(a.str("track", true), orMover(a.optInt("owner")))
	})
	register("group", KindRegion, "", func(a *args) game.Node {
		return functions.NewGroup(a.intNode("site"), a.relation("rel", topology.Orthogonal))
	})
	register("side", KindRegion, "dir", func(a *args) game.Node {
		return functions.NewSide(a.direction("dir"), a.siteType("type"))
	})
	register("region-slot", KindRegion, "", func(*args) game.Node { return functions.NewRegionSlot() })

	setOp := func(op functions.SetOpKind) func(a *args) game.Node {
		return func(a *args) game.Node {
			ops := a.regions("of", true)
			a.atLeast("of", len(ops), 1)
			return functions.NewSetOp(op, ops...)
		}
	}
	register("union", KindRegion, "of", setOp(functions.SetUnion))
	register("intersection", KindRegion, "of", setOp(functions.SetIntersection))
	register("difference", KindRegion, "of", setOp(functions.SetDifference))
}
