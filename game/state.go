package game

import (
	"encoding/binary"
	"hash/fnv"
	"maps"
	"slices"
	"sort"

	"ludeme/topology"
)

type StateHash uint64

// State is the mutable source of truth of one trial. It is never shared
// between concurrent trials.
type State struct {
	NumPlayers int
	Mover      int
	Next       int // player to move after the mover, unless overridden
	Prev       int

	Pending []int // sorted set of pending values
	Counter int
	Pot     int
	Trump   int
	Passes  int // consecutive passes

	Scores []int // indexed by player, 0 unused
	Teams  []int // team of each player, 0 for none
	Vars   map[string]int

	Container *ContainerState
}

// NewState returns the initial state: player 1 to move.
func NewState(players int, sizes [topology.NumSiteTypes]int, stacking bool) *State {
	s := &State{
		NumPlayers: players,
		Mover:      1,
		Scores:     make([]int, players+1),
		Teams:      make([]int, players+1),
		Vars:       map[string]int{},
		Container:  NewContainerState(sizes, stacking),
	}
	s.Next = s.Successor(1)
	return s
}

// Successor returns the player after p in turn order.
func (s *State) Successor(p int) int {
	if s.NumPlayers == 0 {
		return 0
	}
	return p%s.NumPlayers + 1
}

// Copy returns a deep copy.
func (s *State) Copy() *State {
	c := s.copyScalars()
	c.Container = s.Container.Copy()
	return c
}

func (s *State) copyScalars() *State {
	c := *s
	c.Pending = slices.Clone(s.Pending)
	c.Scores = slices.Clone(s.Scores)
	c.Teams = slices.Clone(s.Teams)
	c.Vars = maps.Clone(s.Vars)
	return &c
}

// overlay returns a speculative state reading through to s.
func (s *State) overlay() *State {
	c := s.copyScalars()
	c.Container = s.Container.overlay()
	return c
}

func (s *State) release() {
	s.Container.release()
}

// AddPending inserts v into the pending set.
func (s *State) AddPending(v int) {
	i := sort.SearchInts(s.Pending, v)
	if i < len(s.Pending) && s.Pending[i] == v {
		return
	}
	s.Pending = slices.Insert(s.Pending, i, v)
}

func (s *State) IsPending(v int) bool {
	i := sort.SearchInts(s.Pending, v)
	return i < len(s.Pending) && s.Pending[i] == v
}

func (s *State) ClearPending() { s.Pending = nil }

// Team returns the team of a player, 0 when none.
func (s *State) Team(p int) int {
	if p <= 0 || p >= len(s.Teams) {
		return 0
	}
	return s.Teams[p]
}

// Friends reports whether players a and b are the same player or on the
// same team.
func (s *State) Friends(a, b int) bool {
	if a <= 0 || b <= 0 {
		return false
	}
	if a == b {
		return true
	}
	ta := s.Team(a)
	return ta != 0 && ta == s.Team(b)
}

func (s *State) Score(p int) int {
	if p <= 0 || p >= len(s.Scores) {
		return 0
	}
	return s.Scores[p]
}

func (s *State) Var(name string) int { return s.Vars[name] }

// Hash hashes the whole state with fnv-64a.
func (s *State) Hash() StateHash {
	return s.hash(nil)
}

// CanonicalHash is the smallest hash among the images of the state under
// the board's rotations and reflections.
func (s *State) CanonicalHash(board *topology.Topology) StateHash {
	best := s.Hash()
	for k := 1; ; k++ {
		var perms [topology.NumSiteTypes][]int
		found := false
		for _, st := range topology.SiteTypes {
			if syms := symmetryTable(board, st); k < len(syms) {
				perms[st] = syms[k]
				found = true
			}
		}
		if !found {
			break
		}
		if h := s.hash(&perms); h < best {
			best = h
		}
	}
	return best
}

// symmetryTable lists rotations then reflections.
func symmetryTable(board *topology.Topology, st topology.SiteType) [][]int {
	rots := board.Rotations(st)
	refs := board.Reflections(st)
	return append(slices.Clip(rots), refs...)
}

func (s *State) hash(perms *[topology.NumSiteTypes][]int) StateHash {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	put(s.Mover)
	put(s.Next)
	put(s.Prev)
	put(s.Counter)
	put(s.Pot)
	put(s.Trump)
	put(s.Passes)
	put(len(s.Pending))
	for _, v := range s.Pending {
		put(v)
	}
	for _, v := range s.Scores {
		put(v)
	}
	for _, v := range s.Teams {
		put(v)
	}
	for _, name := range slices.Sorted(maps.Keys(s.Vars)) {
		h.Write([]byte(name))
		put(s.Vars[name])
	}
	s.Container.writeHash(h, perms)
	return StateHash(h.Sum64())
}
