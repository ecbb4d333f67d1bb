package topology

import "strconv"

// DirectionError occurs when a direction token cannot be parsed.
type DirectionError struct {
	Token string
}

func (e *DirectionError) Error() string {
	return `unknown direction "` + e.Token + `"`
}

// SiteTypeError occurs when a site type name is unknown.
type SiteTypeError struct {
	Name string
}

func (e *SiteTypeError) Error() string {
	return `unknown site type "` + e.Name + `"`
}

// RelationError occurs when a relation name is unknown.
type RelationError struct {
	Name string
}

func (e *RelationError) Error() string {
	return `unknown relation "` + e.Name + `"`
}

// TrackError occurs when a track specification cannot be resolved
// against the board. These are authoring bugs in the game description.
type TrackError struct {
	Track  string
	Reason string
}

func (e *TrackError) Error() string {
	return `track "` + e.Track + `": ` + e.Reason
}

// ShapeError occurs when a board is requested with impossible dimensions.
type ShapeError struct {
	Shape string
	Dims  []int
}

func (e *ShapeError) Error() string {
	s := "invalid " + e.Shape + " dimensions"
	for i, d := range e.Dims {
		if i == 0 {
			s += " "
		} else {
			s += "x"
		}
		s += strconv.Itoa(d)
	}
	return s
}
