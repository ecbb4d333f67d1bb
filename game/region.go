package game

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"ludeme/topology"
)

// Region is a set of sites of one site type. Regions returned by nodes are
// shared and must be treated as read-only; set operations return new ones.
type Region struct {
	Type topology.SiteType
	bits *bitset.BitSet
}

// NewRegion returns a region holding sites. Negative sites are ignored.
func NewRegion(st topology.SiteType, sites ...int) Region {
	r := Region{Type: st, bits: bitset.New(0)}
	for _, s := range sites {
		if s >= 0 {
			r.bits.Set(uint(s))
		}
	}
	return r
}

// Add inserts a site into a region the caller built itself.
func (r *Region) Add(site int) {
	if site < 0 {
		return
	}
	if r.bits == nil {
		r.bits = bitset.New(0)
	}
	r.bits.Set(uint(site))
}

func (r Region) Contains(site int) bool {
	if r.bits == nil || site < 0 {
		return false
	}
	return r.bits.Test(uint(site))
}

func (r Region) Len() int {
	if r.bits == nil {
		return 0
	}
	return int(r.bits.Count())
}

func (r Region) IsEmpty() bool { return r.Len() == 0 }

// Sites returns the sites in ascending order.
func (r Region) Sites() []int {
	if r.bits == nil {
		return nil
	}
	out := make([]int, 0, r.bits.Count())
	for i, ok := r.bits.NextSet(0); ok; i, ok = r.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

func (r Region) set() *bitset.BitSet {
	if r.bits == nil {
		return bitset.New(0)
	}
	return r.bits
}

func (r Region) Union(o Region) Region {
	return Region{Type: r.Type, bits: r.set().Union(o.set())}
}

func (r Region) Intersection(o Region) Region {
	return Region{Type: r.Type, bits: r.set().Intersection(o.set())}
}

func (r Region) Difference(o Region) Region {
	return Region{Type: r.Type, bits: r.set().Difference(o.set())}
}

// Equal compares site types and members.
func (r Region) Equal(o Region) bool {
	if r.Type != o.Type || r.Len() != o.Len() {
		return false
	}
	return r.set().IsSuperSet(o.set())
}

func (r Region) String() string {
	parts := make([]string, 0, r.Len())
	for _, s := range r.Sites() {
		parts = append(parts, fmt.Sprint(s))
	}
	return fmt.Sprintf("%s{%s}", r.Type, strings.Join(parts, ","))
}
