// Package builder turns the YAML serialization of a game description into
// a compiled game. A rule node is a mapping with a single tag key whose
// value holds the tag's fields:
//
//	add: {piece: {piece: {kind: Disc}}, to: empty}
//
// Scalars and sequences stand for the common leaves: integers, booleans,
// player roles (mover, next, prev), slot names (from, to, site, ...),
// field-less tags (pass, board, empty) and site lists.
package builder

import (
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"ludeme/game"
	"ludeme/rules/functions"
)

// Kind is the result type of a rule node.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindFloat
	KindRegion
	KindMoves
)

var kindNames = [...]string{"int", "bool", "float", "region", "moves"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}
	return kindNames[k]
}

type entry struct {
	kind Kind
	// positional names the field bound when the value is not a field
	// mapping ("not: {is-empty: to}", "union: [...]").
	positional string
	build      func(a *args) game.Node
}

var registry = map[string]entry{}

func register(tag string, kind Kind, positional string, build func(a *args) game.Node) {
	if _, dup := registry[tag]; dup {
		panic("builder: tag registered twice: " + tag)
	}
	registry[tag] = entry{kind: kind, positional: positional, build: build}
}

// Tags lists the registered tags of a kind in alphabetical order.
func Tags(k Kind) []string {
	var out []string
	for tag, e := range registry {
		if e.kind == k {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

var roles = map[string]functions.Role{
	"mover": functions.RoleMover,
	"next":  functions.RoleNext,
	"prev":  functions.RolePrev,
}

var slots = map[string]game.Slots{
	"from":      game.SlotFrom,
	"to":        game.SlotTo,
	"level":     game.SlotLevel,
	"between":   game.SlotBetween,
	"site":      game.SlotSite,
	"value":     game.SlotValue,
	"player":    game.SlotPlayer,
	"team":      game.SlotTeam,
	"direction": game.SlotDirection,
}

// Build compiles one rule node of the wanted kind.
func Build(src []byte, want Kind) (game.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &BuildError{Line: doc.Line, Err: fmt.Errorf("%w: empty document", ErrBadValue)}
	}
	return build(doc.Content[0], want)
}

func build(n *yaml.Node, want Kind) (game.Node, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return buildScalar(n, want)
	case yaml.SequenceNode:
		if want != KindRegion {
			return nil, &BuildError{Line: n.Line, Err: fmt.Errorf("%w: a list is not a %s node", ErrWrongKind, want)}
		}
		sites := make([]game.IntNode, 0, len(n.Content))
		for _, item := range n.Content {
			s, err := build(item, KindInt)
			if err != nil {
				return nil, err
			}
			sites = append(sites, s.(game.IntNode))
		}
		return functions.NewSites(nil, sites...), nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, &BuildError{Line: n.Line, Err: fmt.Errorf("%w: a node has one tag, found %d keys", ErrBadValue, len(n.Content)/2)}
		}
		return buildTag(n.Content[0].Value, n.Content[1], n.Line, want)
	}
	return nil, &BuildError{Line: n.Line, Err: fmt.Errorf("%w: unexpected yaml node", ErrBadValue)}
}

func buildTag(tag string, val *yaml.Node, line int, want Kind) (game.Node, error) {
	e, ok := registry[tag]
	if !ok {
		return nil, &BuildError{Tag: tag, Line: line, Err: ErrUnknownTag}
	}
	coerce := want == KindFloat && e.kind == KindInt
	if e.kind != want && !coerce {
		return nil, &BuildError{Tag: tag, Line: line, Err: fmt.Errorf("%w: %s where a %s is expected", ErrWrongKind, e.kind, want)}
	}
	a, err := newArgs(tag, e, val)
	if err != nil {
		return nil, err
	}
	node := e.build(a)
	if err := a.finish(); err != nil {
		return nil, err
	}
	if coerce {
		return functions.NewToFloat(node.(game.IntNode)), nil
	}
	return node, nil
}

func buildScalar(n *yaml.Node, want Kind) (game.Node, error) {
	if _, ok := registry[n.Value]; ok && n.Tag == "!!str" {
		return buildTag(n.Value, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Line: n.Line}, n.Line, want)
	}
	switch want {
	case KindBool:
		if v, err := strconv.ParseBool(n.Value); err == nil && n.Tag == "!!bool" {
			return functions.Bool(v), nil
		}
	case KindFloat:
		if v, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return functions.Float(v), nil
		}
		if i, err := buildScalar(n, KindInt); err == nil {
			return functions.NewToFloat(i.(game.IntNode)), nil
		}
	case KindRegion:
		site, err := buildScalar(n, KindInt)
		if err != nil {
			return nil, err
		}
		return functions.NewSites(nil, site.(game.IntNode)), nil
	case KindInt:
		if v, err := strconv.Atoi(n.Value); err == nil {
			return functions.Int(v), nil
		}
		if r, ok := roles[n.Value]; ok {
			return functions.NewPlayer(r), nil
		}
		if s, ok := slots[n.Value]; ok {
			return functions.ReadSlot(s), nil
		}
	}
	return nil, &BuildError{Line: n.Line, Err: fmt.Errorf("%w: %q is not a %s", ErrBadValue, n.Value, want)}
}
