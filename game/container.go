package game

import (
	"encoding/binary"
	"hash"
	"slices"
	"sync"

	"ludeme/topology"
)

// Piece is one component instance on a site.
type Piece struct {
	What     int // component index, 0 is no component
	Who      int // owner, 0 when shared
	State    int
	Rotation int
	Value    int
	Hidden   uint32 // bit p is set when hidden from player p
}

// HiddenFrom reports whether player cannot see the piece.
func (p Piece) HiddenFrom(player int) bool {
	return player > 0 && player < 32 && p.Hidden&(1<<player) != 0
}

// Stack holds the pieces of a site, bottom first. Non-stacking sites hold
// at most one piece and Count copies of it.
type Stack struct {
	Pieces []Piece
	Count  int
}

func (s Stack) clone() Stack {
	s.Pieces = slices.Clone(s.Pieces)
	return s
}

type siteKey struct {
	st   topology.SiteType
	site int
}

// ContainerState records the occupancy of every site of a container. An
// overlay ContainerState reads through to its base and keeps its own writes
// in a diff map; stacks are copied on write so the base is never touched.
type ContainerState struct {
	sites    [topology.NumSiteTypes][]Stack
	stacking bool

	base *ContainerState
	diff map[siteKey]Stack
}

// NewContainerState returns an empty container with sizes[t] sites of each
// site type.
func NewContainerState(sizes [topology.NumSiteTypes]int, stacking bool) *ContainerState {
	cs := &ContainerState{stacking: stacking}
	for st, n := range sizes {
		cs.sites[st] = make([]Stack, n)
	}
	return cs
}

var overlayPool = sync.Pool{
	New: func() any {
		return &ContainerState{diff: make(map[siteKey]Stack)}
	},
}

func (cs *ContainerState) overlay() *ContainerState {
	o := overlayPool.Get().(*ContainerState)
	o.base = cs
	o.stacking = cs.stacking
	return o
}

func (cs *ContainerState) release() {
	if cs.base == nil {
		return
	}
	clear(cs.diff)
	cs.base = nil
	overlayPool.Put(cs)
}

func (cs *ContainerState) root() *ContainerState {
	for cs.base != nil {
		cs = cs.base
	}
	return cs
}

// Size returns the number of sites of a type.
func (cs *ContainerState) Size(st topology.SiteType) int {
	if st < 0 || int(st) >= topology.NumSiteTypes {
		return 0
	}
	return len(cs.root().sites[st])
}

// Stacking reports whether sites hold stacks of pieces.
func (cs *ContainerState) Stacking() bool { return cs.stacking }

// Stack returns the contents of a site; off-board sites read as empty. The
// returned pieces must not be modified.
func (cs *ContainerState) Stack(st topology.SiteType, site int) Stack {
	if site < 0 || site >= cs.Size(st) {
		return Stack{}
	}
	for c := cs; c != nil; c = c.base {
		if c.base == nil {
			return c.sites[st][site]
		}
		if s, ok := c.diff[siteKey{st, site}]; ok {
			return s
		}
	}
	return Stack{}
}

func (cs *ContainerState) put(st topology.SiteType, site int, s Stack) {
	if site < 0 || site >= cs.Size(st) {
		Fail("container", "%s site %d out of range", st, site)
	}
	if len(s.Pieces) == 0 {
		s = Stack{}
	}
	if cs.base != nil {
		cs.diff[siteKey{st, site}] = s
		return
	}
	cs.sites[st][site] = s
}

func (cs *ContainerState) IsEmpty(st topology.SiteType, site int) bool {
	return len(cs.Stack(st, site).Pieces) == 0
}

// Height is the number of pieces on a site.
func (cs *ContainerState) Height(st topology.SiteType, site int) int {
	return len(cs.Stack(st, site).Pieces)
}

// Count is the number of component copies on a site.
func (cs *ContainerState) Count(st topology.SiteType, site int) int {
	s := cs.Stack(st, site)
	if len(s.Pieces) == 0 {
		return 0
	}
	if cs.stacking {
		return len(s.Pieces)
	}
	return s.Count
}

// Piece returns the piece at level, or the top piece when level < 0.
func (cs *ContainerState) Piece(st topology.SiteType, site, level int) (Piece, bool) {
	s := cs.Stack(st, site)
	if level < 0 {
		level = len(s.Pieces) - 1
	}
	if level < 0 || level >= len(s.Pieces) {
		return Piece{}, false
	}
	return s.Pieces[level], true
}

func (cs *ContainerState) What(st topology.SiteType, site, level int) int {
	p, _ := cs.Piece(st, site, level)
	return p.What
}

func (cs *ContainerState) Who(st topology.SiteType, site, level int) int {
	p, _ := cs.Piece(st, site, level)
	return p.Who
}

// Insert places count copies of p at level (on top when level < 0 or past
// the top). On a non-stacking site the same component adds to the count and
// any other component is replaced.
func (cs *ContainerState) Insert(st topology.SiteType, site, level int, p Piece, count int) {
	if count <= 0 {
		return
	}
	s := cs.Stack(st, site).clone()
	if !cs.stacking {
		if len(s.Pieces) == 1 && s.Pieces[0].What == p.What && s.Pieces[0].Who == p.Who {
			s.Count += count
		} else {
			s = Stack{Pieces: []Piece{p}, Count: count}
		}
		cs.put(st, site, s)
		return
	}
	if level < 0 || level > len(s.Pieces) {
		level = len(s.Pieces)
	}
	for i := 0; i < count; i++ {
		s.Pieces = slices.Insert(s.Pieces, level, p)
	}
	s.Count = len(s.Pieces)
	cs.put(st, site, s)
}

// Remove takes the piece at level (top when level < 0) off a site. A
// non-stacking site is emptied.
func (cs *ContainerState) Remove(st topology.SiteType, site, level int) (Piece, bool) {
	s := cs.Stack(st, site).clone()
	if len(s.Pieces) == 0 {
		return Piece{}, false
	}
	if !cs.stacking {
		p := s.Pieces[0]
		cs.put(st, site, Stack{})
		return p, true
	}
	if level < 0 || level >= len(s.Pieces) {
		level = len(s.Pieces) - 1
	}
	p := s.Pieces[level]
	s.Pieces = slices.Delete(s.Pieces, level, level+1)
	s.Count = len(s.Pieces)
	cs.put(st, site, s)
	return p, true
}

// SetCount sets the number of copies on a site, placing p when the site is
// empty. A count of zero empties the site.
func (cs *ContainerState) SetCount(st topology.SiteType, site int, p Piece, n int) {
	s := cs.Stack(st, site).clone()
	if n <= 0 {
		cs.put(st, site, Stack{})
		return
	}
	if len(s.Pieces) == 0 {
		s.Pieces = []Piece{p}
	}
	if cs.stacking {
		top := s.Pieces[len(s.Pieces)-1]
		for len(s.Pieces) < n {
			s.Pieces = append(s.Pieces, top)
		}
		s.Pieces = s.Pieces[:n]
	}
	s.Count = n
	cs.put(st, site, s)
}

// Update edits the piece at level (top when level < 0). It reports false
// when there is no such piece.
func (cs *ContainerState) Update(st topology.SiteType, site, level int, edit func(*Piece)) bool {
	s := cs.Stack(st, site).clone()
	if level < 0 {
		level = len(s.Pieces) - 1
	}
	if level < 0 || level >= len(s.Pieces) {
		return false
	}
	edit(&s.Pieces[level])
	cs.put(st, site, s)
	return true
}

// Copy returns an independent container, flattening any overlay.
func (cs *ContainerState) Copy() *ContainerState {
	out := &ContainerState{stacking: cs.stacking}
	for _, st := range topology.SiteTypes {
		n := cs.Size(st)
		out.sites[st] = make([]Stack, n)
		for i := 0; i < n; i++ {
			out.sites[st][i] = cs.Stack(st, i).clone()
		}
	}
	return out
}

// writeHash feeds the contents into h. perms, when given, maps each site to
// its image so the contents are hashed in the transformed layout.
func (cs *ContainerState) writeHash(h hash.Hash64, perms *[topology.NumSiteTypes][]int) {
	var buf [8]byte
	put := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	for _, st := range topology.SiteTypes {
		n := cs.Size(st)
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		if perms != nil && len(perms[st]) > 0 {
			// order[image] = source
			for src, img := range perms[st] {
				order[img] = src
			}
		}
		put(n)
		for _, site := range order {
			s := cs.Stack(st, site)
			if len(s.Pieces) == 0 {
				put(-1)
				continue
			}
			put(cs.Count(st, site))
			for _, p := range s.Pieces {
				put(p.What)
				put(p.Who)
				put(p.State)
				put(p.Rotation)
				put(p.Value)
				put(int(p.Hidden))
			}
		}
	}
}
