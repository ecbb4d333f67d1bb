package builder

import (
	"ludeme/game"
	"ludeme/rules/effect"
	"ludeme/topology"
)

func init() {
	registerControl()
	registerMovement()
	registerSetters()
	registerIterations()
}

func registerControl() {
	register("pass", KindMoves, "", func(*args) game.Node { return effect.NewPass() })
	register("either", KindMoves, "of", func(a *args) game.Node {
		return effect.NewOr(a.movesList("of", true)...)
	})
	register("priority", KindMoves, "of", func(a *args) game.Node {
		return effect.NewPriority(a.movesList("of", true)...)
	})
	register("if", KindMoves, "", func(a *args) game.Node {
		return effect.NewIf(a.boolNode("cond"), a.moves("then"), a.optMoves("else"))
	})
	register("and-then", KindMoves, "", func(a *args) game.Node {
		return effect.NewThen(a.moves("moves"), a.movesList("then", true)...)
	})
	register("do", KindMoves, "", func(a *args) game.Node {
		return effect.NewDo(a.optMoves("prior"), a.moves("moves"), a.optBool("if-afterwards"))
	})
}

// movement reads the fields shared by step and slide.
func movement(a *args, slide bool) effect.Movement {
	m := effect.Movement{
		From:    a.optRegion("from"),
		If:      a.optBool("if"),
		Capture: a.flag("capture"),
		Type:    a.siteType("type"),
	}
	if a.oneOf(false, "rel", "dirs") == "dirs" {
		m.Dirs = a.directions("dirs")
	} else {
		m.Rel = a.relation("rel", topology.Orthogonal)
	}
	if slide {
		m.Max = a.optInt("max")
	}
	return m
}

func registerMovement() {
	register("add", KindMoves, "", func(a *args) game.Node {
		return effect.NewAdd(a.intNode("piece"), a.region("to"), a.optInt("count"), a.siteType("type"))
	})
	register("remove", KindMoves, "sites", func(a *args) game.Node {
		return effect.NewRemove(a.region("sites"), a.siteType("type"))
	})
	register("step", KindMoves, "", func(a *args) game.Node {
		return effect.NewStep(movement(a, false))
	})
	register("slide", KindMoves, "", func(a *args) game.Node {
		return effect.NewSlide(movement(a, true))
	})
	register("from-to", KindMoves, "", func(a *args) game.Node {
		return effect.NewFromTo(a.region("from"), a.region("to"), a.optBool("if"), a.flag("capture"), a.siteType("type"))
	})
	register("sow", KindMoves, "", func(a *args) game.Node {
		return effect.NewSow(a.optInt("start"), a.str("track", true), a.optInt("owner"), a.flag("skip-origin"))
	})
}

func registerSetters() {
	register("set-state", KindMoves, "", func(a *args) game.Node {
		return effect.NewSetState(a.optInt("site"), a.optInt("level"), a.intNode("state"), a.siteType("type"))
	})
	register("set-value", KindMoves, "", func(a *args) game.Node {
		return effect.NewSetValue(a.optInt("site"), a.optInt("level"), a.intNode("value"), a.siteType("type"))
	})
	register("set-rotation", KindMoves, "", func(a *args) game.Node {
		return effect.NewSetRotation(a.optInt("site"), a.optInt("level"), a.intNode("rotation"), a.siteType("type"))
	})
	register("set-hidden", KindMoves, "", func(a *args) game.Node {
		hidden := !a.has("hidden") || a.flag("hidden")
		return effect.NewSetHidden(a.optInt("site"), a.optInt("level"), a.intNode("player"), hidden, a.siteType("type"))
	})
	register("set-count", KindMoves, "", func(a *args) game.Node {
		return effect.NewSetCount(a.optInt("site"), a.intNode("count"), a.optInt("piece"), a.siteType("type"))
	})
	register("set-next-player", KindMoves, "who", func(a *args) game.Node {
		return effect.NewSetNextPlayer(a.intNode("who"))
	})
	register("set-pending", KindMoves, "value", func(a *args) game.Node {
		return effect.NewSetPending(a.optInt("value"))
	})
	register("set-trump", KindMoves, "suit", func(a *args) game.Node {
		return effect.NewSetTrump(a.intNode("suit"))
	})
	register("set-team", KindMoves, "", func(a *args) game.Node {
		return effect.NewSetTeam(a.intNode("player"), a.intNode("team"))
	})
	register("set-score", KindMoves, "", func(a *args) game.Node {
		return effect.NewSetScore(a.optInt("player"), a.intNode("score"), a.flag("add"))
	})
	register("set-var", KindMoves, "", func(a *args) game.Node {
		return effect.NewSetVar(a.str("name", true), a.intNode("value"))
	})
	register("set-pot", KindMoves, "", func(a *args) game.Node {
		return effect.NewSetPot(a.intNode("value"), a.flag("add"))
	})
}

func registerIterations() {
	register("for-each-piece", KindMoves, "", func(a *args) game.Node {
		return effect.NewForEachPiece(a.optInt("who"), a.str("kind", false), a.moves("moves"), a.siteType("type"))
	})
	register("for-each-site", KindMoves, "", func(a *args) game.Node {
		return effect.NewForEachSite(a.region("region"), a.moves("moves"))
	})
	register("for-each-value", KindMoves, "", func(a *args) game.Node {
		return effect.NewForEachValue(a.intNode("lo"), a.intNode("hi"), a.moves("moves"))
	})
	register("for-each-direction", KindMoves, "", func(a *args) game.Node {
		return effect.NewForEachDirection(a.optInt("site"), a.relation("rel", topology.All), a.moves("moves"), a.siteType("type"))
	})
	register("for-each-player", KindMoves, "moves", func(a *args) game.Node {
		return effect.NewForEachPlayer(a.moves("moves"))
	})
	register("for-each-level", KindMoves, "", func(a *args) game.Node {
		return effect.NewForEachLevel(a.optInt("site"), a.moves("moves"), a.siteType("type"))
	})
	register("for-each-group", KindMoves, "", func(a *args) game.Node {
		return effect.NewForEachGroup(a.optInt("who"), a.relation("rel", topology.Orthogonal), a.moves("moves"))
	})
	register("for-each-team", KindMoves, "moves", func(a *args) game.Node {
		return effect.NewForEachTeam(a.moves("moves"))
	})
}
