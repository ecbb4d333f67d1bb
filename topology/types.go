package topology

import (
	"strings"
)

// SiteType is the kind of graph element a site index refers to.
type SiteType int

const (
	Cell SiteType = iota
	Edge
	Vertex
)

const NumSiteTypes = 3

// SiteTypes lists every site type in index order.
var SiteTypes = [NumSiteTypes]SiteType{Cell, Edge, Vertex}

var siteTypeNames = [NumSiteTypes]string{"Cell", "Edge", "Vertex"}

func (t SiteType) String() string {
	if t < 0 || int(t) >= NumSiteTypes {
		return "SiteType(?)"
	}
	return siteTypeNames[t]
}

// ParseSiteType accepts the type names case-insensitively.
func ParseSiteType(s string) (SiteType, error) {
	for i, name := range siteTypeNames {
		if strings.EqualFold(s, name) {
			return SiteType(i), nil
		}
	}
	return Cell, &SiteTypeError{Name: s}
}

// Direction is an absolute compass direction. Hex boards use the six
// directions other than N and S.
type Direction int

const (
	N Direction = iota
	NE
	E
	SE
	S
	SW
	W
	NW
)

// NumDirections is the number of absolute directions.
const NumDirections = 8

var directionNames = [NumDirections]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func (d Direction) String() string {
	if d < 0 || d >= NumDirections {
		return "Direction(?)"
	}
	return directionNames[d]
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return (d + NumDirections/2) % NumDirections
}

// ParseDirection parses a direction name such as "N" or "sw".
func ParseDirection(token string) (Direction, error) {
	up := strings.ToUpper(strings.TrimSpace(token))
	for i, name := range directionNames {
		if up == name {
			return Direction(i), nil
		}
	}
	return N, &DirectionError{Token: token}
}

// Relation selects which directions count as adjacency.
type Relation int

const (
	Orthogonal Relation = iota
	Diagonal
	All
)

var relationNames = [...]string{"Orthogonal", "Diagonal", "All"}

func (r Relation) String() string {
	if r < 0 || int(r) >= len(relationNames) {
		return "Relation(?)"
	}
	return relationNames[r]
}

// ParseRelation accepts the relation names case-insensitively.
func ParseRelation(s string) (Relation, error) {
	for i, name := range relationNames {
		if strings.EqualFold(s, name) {
			return Relation(i), nil
		}
	}
	return All, &RelationError{Name: s}
}
