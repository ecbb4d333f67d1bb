package game

import (
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Flags are machine-usable feature bits telling the engine which optional
// state a compiled game needs.
type Flags uint64

const (
	FlagStacking Flags = 1 << iota
	FlagCount
	FlagLocalState
	FlagPieceValue
	FlagRotation
	FlagHiddenInfo
	FlagTeams
	FlagScore
	FlagVars
	FlagPending
	FlagTrump
	FlagPot
	FlagEdges
	FlagVertices
	FlagTracks
	FlagThreat
	FlagStochastic
	FlagHands
)

var flagNames = []string{
	"Stacking", "Count", "LocalState", "PieceValue", "Rotation", "HiddenInfo",
	"Teams", "Score", "Vars", "Pending", "Trump", "Pot", "Edges", "Vertices",
	"Tracks", "Threat", "Stochastic", "Hands",
}

// Has reports whether every bit of f2 is set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

func (f Flags) String() string {
	var names []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Concept is a human-readable tag describing what a rule tree uses.
type Concept uint

const (
	ConceptBoard Concept = iota
	ConceptAddition
	ConceptSubtraction
	ConceptMultiplication
	ConceptDivision
	ConceptModulo
	ConceptAbsolute
	ConceptMinimum
	ConceptMaximum
	ConceptFloat
	ConceptSquareRoot
	ConceptEqual
	ConceptNotEqual
	ConceptLessThan
	ConceptGreaterThan
	ConceptConjunction
	ConceptDisjunction
	ConceptNegation
	ConceptExclusiveDisjunction
	ConceptRandom
	ConceptLine
	ConceptThreat
	ConceptLoop
	ConceptLiberties
	ConceptConnection
	ConceptGroup
	ConceptRegion
	ConceptTrack
	ConceptHand
	ConceptAddEffect
	ConceptRemoveEffect
	ConceptStepEffect
	ConceptSlideEffect
	ConceptFromToEffect
	ConceptSowEffect
	ConceptPassEffect
	ConceptSetCount
	ConceptSetState
	ConceptSetValue
	ConceptSetRotation
	ConceptSetHidden
	ConceptSetNextPlayer
	ConceptSetPending
	ConceptSetTrumpSuit
	ConceptSetTeam
	ConceptSetScore
	ConceptSetVar
	ConceptSetPot
	ConceptForEachPiece
	ConceptForEachSite
	ConceptForEachValue
	ConceptForEachDirection
	ConceptForEachPlayer
	ConceptForEachLevel
	ConceptForEachGroup
	ConceptForEachTeam
	ConceptCopyContext
	ConceptConsequence
	ConceptStacking
	numConcepts
)

var conceptNames = [numConcepts]string{
	"Board", "Addition", "Subtraction", "Multiplication", "Division", "Modulo",
	"Absolute", "Minimum", "Maximum", "Float", "SquareRoot", "Equal", "NotEqual",
	"LessThan", "GreaterThan", "Conjunction", "Disjunction", "Negation",
	"ExclusiveDisjunction", "Random", "Line", "Threat", "Loop", "Liberties",
	"Connection", "Group", "Region", "Track", "Hand", "AddEffect", "RemoveEffect",
	"StepEffect", "SlideEffect", "FromToEffect", "SowEffect", "PassEffect",
	"SetCount", "SetState", "SetValue", "SetRotation", "SetHidden", "SetNextPlayer",
	"SetPending", "SetTrumpSuit", "SetTeam", "SetScore", "SetVar", "SetPot",
	"ForEachPiece", "ForEachSite", "ForEachValue", "ForEachDirection",
	"ForEachPlayer", "ForEachLevel", "ForEachGroup", "ForEachTeam", "CopyContext",
	"Consequence", "Stacking",
}

func (c Concept) String() string {
	if c >= numConcepts {
		return "Concept(?)"
	}
	return conceptNames[c]
}

// NewConcepts returns a concept set holding cs.
func NewConcepts(cs ...Concept) *bitset.BitSet {
	set := bitset.New(uint(numConcepts))
	for _, c := range cs {
		set.Set(uint(c))
	}
	return set
}

// ConceptNames lists the names of the concepts in set, in concept order.
func ConceptNames(set *bitset.BitSet) []string {
	var names []string
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		names = append(names, Concept(i).String())
	}
	return names
}

// Slots is a bitset of the transient Context slots a node reads or writes.
type Slots uint32

const (
	SlotFrom Slots = 1 << iota
	SlotTo
	SlotLevel
	SlotBetween
	SlotSite
	SlotValue
	SlotPlayer
	SlotDirection
	SlotRegion
	SlotTeam
)

var slotNames = []string{"From", "To", "Level", "Between", "Site", "Value", "Player", "Direction", "Region", "Team"}

// Has reports whether any bit of s2 is set.
func (s Slots) Has(s2 Slots) bool { return s&s2 != 0 }

func (s Slots) String() string {
	var names []string
	for i, name := range slotNames {
		if s&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Guard marks a predicate that is currently running a speculative search,
// so a recursive call from inside that search answers false. There is one
// guard per predicate kind, shared by every node of that kind: a different
// is-threatened node evaluated inside a threat search answers false too.
type Guard uint8

const (
	GuardThreat Guard = 1 << iota
	GuardCanMove
)
