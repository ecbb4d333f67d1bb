package game

import (
	"iter"
	"sync"

	"github.com/bits-and-blooms/bitset"

	"ludeme/topology"
)

// Node is the evaluation contract shared by every rule node, whatever its
// result type. Derived properties are unions over the subtree.
type Node interface {
	// IsStatic reports whether Eval returns the same value in every Context
	// of the compiled game.
	IsStatic() bool
	// Preprocess resolves deferred bindings once the whole tree exists.
	Preprocess(g *Game)
	GameFlags(g *Game) Flags
	Concepts(g *Game) *bitset.BitSet
	// ReadsEvalContext and WritesEvalContext are transitive over children.
	ReadsEvalContext() Slots
	WritesEvalContext() Slots
	MissingRequirement(g *Game) bool
	WillCrash(g *Game) bool
	Children() []Node
}

type BoolNode interface {
	Node
	Eval(ctx *Context) bool
}

type IntNode interface {
	Node
	Eval(ctx *Context) int
}

type FloatNode interface {
	Node
	Eval(ctx *Context) float64
}

type RegionNode interface {
	Node
	Eval(ctx *Context) Region
}

// MovesNode generates moves. Eval expands them eagerly; Seq yields the same
// moves in the same order one at a time.
type MovesNode interface {
	Node
	Eval(ctx *Context) []*Move
	Seq(ctx *Context) iter.Seq[*Move]
}

// Base carries the derived properties shared by all nodes. Concrete nodes
// embed it and override the methods whose answer depends on their own
// parameters.
type Base struct {
	children []Node
	dynamic  bool
	flags    Flags
	concepts []Concept
	reads    Slots
	writes   Slots
}

// NewBase aggregates over the given children; nil children are skipped.
func NewBase(children ...Node) Base {
	b := Base{}
	for _, c := range children {
		if c != nil {
			b.children = append(b.children, c)
		}
	}
	return b
}

// Dynamic marks a node whose value depends on mutable state.
func (b Base) Dynamic() Base { b.dynamic = true; return b }

func (b Base) Flag(f Flags) Base { b.flags |= f; return b }

func (b Base) Concept(cs ...Concept) Base {
	b.concepts = append(b.concepts, cs...)
	return b
}

func (b Base) Reads(s Slots) Base { b.reads |= s; return b }

func (b Base) Writes(s Slots) Base { b.writes |= s; return b }

// With appends more children.
func (b Base) With(children ...Node) Base {
	for _, c := range children {
		if c != nil {
			b.children = append(b.children, c)
		}
	}
	return b
}

func (b *Base) IsStatic() bool {
	if b.dynamic || b.reads != 0 {
		return false
	}
	for _, c := range b.children {
		if !c.IsStatic() {
			return false
		}
	}
	return true
}

func (b *Base) Preprocess(g *Game) {
	for _, c := range b.children {
		c.Preprocess(g)
	}
}

func (b *Base) GameFlags(g *Game) Flags {
	f := b.flags
	for _, c := range b.children {
		f |= c.GameFlags(g)
	}
	return f
}

func (b *Base) Concepts(g *Game) *bitset.BitSet {
	set := NewConcepts(b.concepts...)
	for _, c := range b.children {
		set.InPlaceUnion(c.Concepts(g))
	}
	return set
}

func (b *Base) ReadsEvalContext() Slots {
	s := b.reads
	for _, c := range b.children {
		s |= c.ReadsEvalContext()
	}
	return s
}

func (b *Base) WritesEvalContext() Slots {
	s := b.writes
	for _, c := range b.children {
		s |= c.WritesEvalContext()
	}
	return s
}

func (b *Base) MissingRequirement(g *Game) bool {
	for _, c := range b.children {
		if c.MissingRequirement(g) {
			return true
		}
	}
	return false
}

func (b *Base) WillCrash(g *Game) bool {
	for _, c := range b.children {
		if c.WillCrash(g) {
			return true
		}
	}
	return false
}

func (b *Base) Children() []Node { return b.children }

// Cache holds the one-time value of a static node. It is filled during
// preprocessing and only read afterwards.
type Cache[T any] struct {
	once  sync.Once
	value T
	set   bool
}

func (c *Cache[T]) Get() (T, bool) {
	return c.value, c.set
}

// Precompute fills cache with eval run in a fresh context when node is
// static. A node that faults stays uncached; the fault is kept for Lint and
// comes back as an error when a trial evaluates the node.
func Precompute[T any](g *Game, node Node, cache *Cache[T], eval func(*Context) T) {
	if !node.IsStatic() {
		return
	}
	cache.once.Do(func() {
		defer g.recordFault(node)
		cache.value = eval(NewContext(g, 0))
		cache.set = true
	})
}

// Walk visits n and its descendants depth first.
func Walk(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children() {
		Walk(c, visit)
	}
}

// SiteRef is a site type that falls back to the game's default site type
// when the rule did not name one.
type SiteRef struct {
	Type topology.SiteType
	Set  bool
}

// TypeOf returns an explicit reference, or a default one for nil.
func TypeOf(st *topology.SiteType) SiteRef {
	if st == nil {
		return SiteRef{}
	}
	return SiteRef{Type: *st, Set: true}
}

// Resolve binds a default reference to the game's default site type.
func (r *SiteRef) Resolve(g *Game) topology.SiteType {
	if !r.Set {
		r.Type = g.DefaultSite
		r.Set = true
	}
	return r.Type
}

// Flags returns the flags needed to use sites of this type.
func (r SiteRef) Flags() Flags {
	switch r.Type {
	case topology.Edge:
		return FlagEdges
	case topology.Vertex:
		return FlagVertices
	}
	return 0
}
