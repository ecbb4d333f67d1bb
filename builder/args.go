package builder

import (
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"ludeme/game"
	"ludeme/topology"
)

// args holds the argument mapping of one tag. Accessors record the first
// failure and return zero values afterwards, so a constructor reads every
// field before the caller checks err.
type args struct {
	tag    string
	line   int
	fields map[string]*yaml.Node
	used   map[string]bool
	err    error
}

func newArgs(tag string, e entry, val *yaml.Node) (*args, error) {
	if val.Kind == yaml.AliasNode {
		val = val.Alias
	}
	a := &args{tag: tag, line: val.Line, fields: map[string]*yaml.Node{}, used: map[string]bool{}}
	switch {
	case val.Kind == yaml.ScalarNode && val.Tag == "!!null":
	case val.Kind == yaml.MappingNode && !positional(e, val):
		for i := 0; i+1 < len(val.Content); i += 2 {
			key := val.Content[i]
			if _, dup := a.fields[key.Value]; dup {
				return nil, &BuildError{Tag: tag, Field: key.Value, Line: key.Line, Err: fmt.Errorf("%w: repeated field", ErrBadValue)}
			}
			a.fields[key.Value] = val.Content[i+1]
		}
	case e.positional != "":
		a.fields[e.positional] = val
	default:
		return nil, &BuildError{Tag: tag, Line: val.Line, Err: fmt.Errorf("%w: expected a mapping of fields", ErrBadValue)}
	}
	return a, nil
}

// positional reports whether a mapping value is itself a node, bound to
// the tag's positional field rather than read as named fields.
func positional(e entry, val *yaml.Node) bool {
	if e.positional == "" || len(val.Content) != 2 {
		return false
	}
	_, isTag := registry[val.Content[0].Value]
	return isTag
}

func (a *args) fail(field string, line int, err error) {
	if a.err != nil {
		return
	}
	if _, ok := err.(*BuildError); ok {
		a.err = err
		return
	}
	a.err = &BuildError{Tag: a.tag, Field: field, Line: line, Err: err}
}

func (a *args) has(key string) bool {
	_, ok := a.fields[key]
	return ok
}

func (a *args) take(key string, required bool) *yaml.Node {
	n, ok := a.fields[key]
	if !ok {
		if required {
			a.fail(key, a.line, ErrMissingField)
		}
		return nil
	}
	a.used[key] = true
	return n
}

// finish reports the first failure, or the first field no accessor read.
func (a *args) finish() error {
	if a.err != nil {
		return a.err
	}
	var unused []string
	for key := range a.fields {
		if !a.used[key] {
			unused = append(unused, key)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		key := unused[0]
		return &BuildError{Tag: a.tag, Field: key, Line: a.fields[key].Line, Err: ErrUnknownField}
	}
	return nil
}

// oneOf returns the single given key among keys. With required set,
// giving none is a failure too.
func (a *args) oneOf(required bool, keys ...string) string {
	var given []string
	for _, k := range keys {
		if a.has(k) {
			given = append(given, k)
		}
	}
	if len(given) > 1 || (required && len(given) == 0) {
		a.fail(fmt.Sprint(keys), a.line, fmt.Errorf("%w: got %d", ErrExactlyOne, len(given)))
		return ""
	}
	if len(given) == 0 {
		return ""
	}
	return given[0]
}

func (a *args) child(key string, kind Kind, required bool) game.Node {
	n := a.take(key, required)
	if n == nil {
		return nil
	}
	node, err := build(n, kind)
	if err != nil {
		a.fail(key, n.Line, err)
		return nil
	}
	return node
}

func (a *args) children(key string, kind Kind, required bool) []game.Node {
	n := a.take(key, required)
	if n == nil {
		return nil
	}
	items := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		items = n.Content
	}
	out := make([]game.Node, 0, len(items))
	for _, item := range items {
		node, err := build(item, kind)
		if err != nil {
			a.fail(key, item.Line, err)
			return nil
		}
		out = append(out, node)
	}
	return out
}

func (a *args) intNode(key string) game.IntNode   { return asInt(a.child(key, KindInt, true)) }
func (a *args) optInt(key string) game.IntNode    { return asInt(a.child(key, KindInt, false)) }
func (a *args) boolNode(key string) game.BoolNode { return asBool(a.child(key, KindBool, true)) }
func (a *args) optBool(key string) game.BoolNode  { return asBool(a.child(key, KindBool, false)) }
func (a *args) floatNode(key string) game.FloatNode {
	return asFloat(a.child(key, KindFloat, true))
}
func (a *args) region(key string) game.RegionNode    { return asRegion(a.child(key, KindRegion, true)) }
func (a *args) optRegion(key string) game.RegionNode { return asRegion(a.child(key, KindRegion, false)) }
func (a *args) moves(key string) game.MovesNode      { return asMoves(a.child(key, KindMoves, true)) }
func (a *args) optMoves(key string) game.MovesNode   { return asMoves(a.child(key, KindMoves, false)) }

func (a *args) ints(key string) []game.IntNode {
	var out []game.IntNode
	for _, n := range a.children(key, KindInt, true) {
		out = append(out, n.(game.IntNode))
	}
	return out
}

func (a *args) bools(key string) []game.BoolNode {
	var out []game.BoolNode
	for _, n := range a.children(key, KindBool, true) {
		out = append(out, n.(game.BoolNode))
	}
	return out
}

func (a *args) floats(key string) []game.FloatNode {
	var out []game.FloatNode
	for _, n := range a.children(key, KindFloat, true) {
		out = append(out, n.(game.FloatNode))
	}
	return out
}

func (a *args) regions(key string, required bool) []game.RegionNode {
	var out []game.RegionNode
	for _, n := range a.children(key, KindRegion, required) {
		out = append(out, n.(game.RegionNode))
	}
	return out
}

func (a *args) movesList(key string, required bool) []game.MovesNode {
	var out []game.MovesNode
	for _, n := range a.children(key, KindMoves, required) {
		out = append(out, n.(game.MovesNode))
	}
	return out
}

// atLeast fails when fewer than n operands were given for key.
func (a *args) atLeast(key string, got, n int) {
	if a.err == nil && got < n {
		a.fail(key, a.line, fmt.Errorf("%w: want at least %d operands, got %d", ErrBadValue, n, got))
	}
}

// pair reads exactly two integer operands.
func (a *args) pair(key string) (game.IntNode, game.IntNode) {
	ops := a.ints(key)
	if a.err == nil && len(ops) != 2 {
		a.fail(key, a.line, fmt.Errorf("%w: want 2 operands, got %d", ErrBadValue, len(ops)))
	}
	if len(ops) != 2 {
		return nil, nil
	}
	return ops[0], ops[1]
}

func (a *args) scalar(key string, required bool) *yaml.Node {
	n := a.take(key, required)
	if n != nil && n.Kind != yaml.ScalarNode {
		a.fail(key, n.Line, fmt.Errorf("%w: expected a scalar", ErrBadValue))
		return nil
	}
	return n
}

func (a *args) str(key string, required bool) string {
	if n := a.scalar(key, required); n != nil {
		return n.Value
	}
	return ""
}

func (a *args) flag(key string) bool {
	n := a.scalar(key, false)
	if n == nil {
		return false
	}
	v, err := strconv.ParseBool(n.Value)
	if err != nil {
		a.fail(key, n.Line, fmt.Errorf("%w: %q is not a boolean", ErrBadValue, n.Value))
	}
	return v
}

func (a *args) relation(key string, def topology.Relation) topology.Relation {
	n := a.scalar(key, false)
	if n == nil {
		return def
	}
	rel, err := topology.ParseRelation(n.Value)
	if err != nil {
		a.fail(key, n.Line, err)
	}
	return rel
}

func (a *args) direction(key string) topology.Direction {
	n := a.scalar(key, true)
	if n == nil {
		return topology.N
	}
	dir, err := topology.ParseDirection(n.Value)
	if err != nil {
		a.fail(key, n.Line, err)
	}
	return dir
}

func (a *args) directions(key string) []topology.Direction {
	n := a.take(key, false)
	if n == nil {
		return nil
	}
	items := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		items = n.Content
	}
	var out []topology.Direction
	for _, item := range items {
		dir, err := topology.ParseDirection(item.Value)
		if err != nil {
			a.fail(key, item.Line, err)
			return nil
		}
		out = append(out, dir)
	}
	return out
}

// siteType reads an optional site type; nil means the game default.
func (a *args) siteType(key string) *topology.SiteType {
	n := a.scalar(key, false)
	if n == nil {
		return nil
	}
	st, err := topology.ParseSiteType(n.Value)
	if err != nil {
		a.fail(key, n.Line, err)
		return nil
	}
	return &st
}

func asInt(n game.Node) game.IntNode {
	if n == nil {
		return nil
	}
	return n.(game.IntNode)
}

func asBool(n game.Node) game.BoolNode {
	if n == nil {
		return nil
	}
	return n.(game.BoolNode)
}

func asFloat(n game.Node) game.FloatNode {
	if n == nil {
		return nil
	}
	return n.(game.FloatNode)
}

func asRegion(n game.Node) game.RegionNode {
	if n == nil {
		return nil
	}
	return n.(game.RegionNode)
}

func asMoves(n game.Node) game.MovesNode {
	if n == nil {
		return nil
	}
	return n.(game.MovesNode)
}
