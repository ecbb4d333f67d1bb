package topology

import (
	"fmt"
	"strconv"
	"strings"
)

// TrackElement is one position along a track. Bump counts how many extra
// consecutive times the path repeated this site.
type TrackElement struct {
	Site int
	Next int // index in Track.Elems, -1 at the end of a non-looped track
	Prev int
	Bump int
}

// Track is a named ordered path of sites, used by race and sowing games.
type Track struct {
	Name         string
	Owner        int // 0 when shared
	Type         SiteType
	Looped       bool
	InternalLoop bool // some site is visited twice away from the loop point
	Elems        []TrackElement
	Index        int // position among the board's tracks
}

// TrackStep is one structured step of a track path: either an explicit site
// or a walk in a direction.
type TrackStep struct {
	Explicit  bool
	Site      int
	Direction Direction
	Count     int
	ToEnd     bool
}

// SiteStep is an explicit site step.
func SiteStep(site int) TrackStep { return TrackStep{Explicit: true, Site: site} }

// DirStep walks n steps in dir.
func DirStep(dir Direction, n int) TrackStep { return TrackStep{Direction: dir, Count: n} }

// DirToEnd walks in dir until the board edge.
func DirToEnd(dir Direction) TrackStep { return TrackStep{Direction: dir, ToEnd: true} }

// TrackSpec describes how to build a track. Exactly one of Path, Sites and
// Steps must be given.
type TrackSpec struct {
	Name  string
	Owner int
	Type  SiteType
	Loop  bool
	Path  string // e.g. "0,N2,E1" or "5,WEnd"
	Sites []int
	Steps []TrackStep
}

func (spec TrackSpec) resolveSteps() ([]TrackStep, error) {
	given := 0
	if spec.Path != "" {
		given++
	}
	if len(spec.Sites) > 0 {
		given++
	}
	if len(spec.Steps) > 0 {
		given++
	}
	if given != 1 {
		return nil, &TrackError{Track: spec.Name, Reason: "exactly one of path, sites or steps is required"}
	}

	switch {
	case len(spec.Steps) > 0:
		return spec.Steps, nil
	case len(spec.Sites) > 0:
		steps := make([]TrackStep, len(spec.Sites))
		for i, s := range spec.Sites {
			steps[i] = SiteStep(s)
		}
		return steps, nil
	default:
		return ParseTrackPath(spec.Path)
	}
}

// ParseTrackPath parses a comma separated path of explicit sites and
// directional steps ("N2", "E", "SWEnd").
func ParseTrackPath(path string) ([]TrackStep, error) {
	var steps []TrackStep
	for _, raw := range strings.Split(path, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if site, err := strconv.Atoi(token); err == nil {
			steps = append(steps, SiteStep(site))
			continue
		}
		step, err := parseDirectionalStep(token)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseDirectionalStep(token string) (TrackStep, error) {
	up := strings.ToUpper(token)
	// Two letter names first so "NE2" is not read as N then "E2".
	for _, width := range []int{2, 1} {
		if len(up) < width {
			continue
		}
		dir, err := ParseDirection(up[:width])
		if err != nil {
			continue
		}
		rest := up[width:]
		switch {
		case rest == "":
			return DirStep(dir, 1), nil
		case rest == "END":
			return DirToEnd(dir), nil
		default:
			n, err := strconv.Atoi(rest)
			if err != nil || n < 0 {
				continue
			}
			return DirStep(dir, n), nil
		}
	}
	return TrackStep{}, &DirectionError{Token: token}
}

// BuildTrack resolves a track specification into concrete sites.
func BuildTrack(t *Topology, spec TrackSpec) (*Track, error) {
	steps, err := spec.resolveSteps()
	if err != nil {
		return nil, err
	}

	var sites []int
	current := -1
	for _, step := range steps {
		if step.Explicit {
			if !t.Valid(spec.Type, step.Site) {
				return nil, &TrackError{Track: spec.Name, Reason: fmt.Sprintf("site %d is not on the board", step.Site)}
			}
			sites = append(sites, step.Site)
			current = step.Site
			continue
		}
		if current < 0 {
			return nil, &TrackError{Track: spec.Name, Reason: fmt.Sprintf("step %s without a current site", step.Direction)}
		}
		radial := t.Radials(spec.Type, current, step.Direction)
		n := step.Count
		if step.ToEnd {
			n = len(radial) - 1
		}
		// Steps past the edge stop silently
		for k := 1; k <= n && k < len(radial); k++ {
			sites = append(sites, radial[k])
			current = radial[k]
		}
	}

	if len(sites) == 0 {
		return nil, &TrackError{Track: spec.Name, Reason: "no sites"}
	}

	track := &Track{
		Name:   spec.Name,
		Owner:  spec.Owner,
		Type:   spec.Type,
		Looped: spec.Loop,
	}

	for _, site := range sites {
		if n := len(track.Elems); n > 0 && track.Elems[n-1].Site == site {
			track.Elems[n-1].Bump++
			continue
		}
		track.Elems = append(track.Elems, TrackElement{Site: site})
	}

	// A looped path may close on its first site; that repeat is the loop
	// point, not a second visit.
	if n := len(track.Elems); track.Looped && n > 1 && track.Elems[n-1].Site == track.Elems[0].Site {
		track.Elems = track.Elems[:n-1]
	}

	seen := make(map[int]bool, len(track.Elems))
	for _, e := range track.Elems {
		if seen[e.Site] {
			track.InternalLoop = true
		}
		seen[e.Site] = true
	}

	n := len(track.Elems)
	for i := range track.Elems {
		track.Elems[i].Prev = i - 1
		track.Elems[i].Next = i + 1
	}
	track.Elems[n-1].Next = -1
	if track.Looped {
		track.Elems[0].Prev = n - 1
		track.Elems[n-1].Next = 0
	}

	return track, nil
}

// Len returns the number of elements.
func (tr *Track) Len() int { return len(tr.Elems) }

// Site returns the site of element i, or -1.
func (tr *Track) Site(i int) int {
	if i < 0 || i >= len(tr.Elems) {
		return -1
	}
	return tr.Elems[i].Site
}

// Next returns the element after i, or -1 at the end.
func (tr *Track) Next(i int) int {
	if i < 0 || i >= len(tr.Elems) {
		return -1
	}
	return tr.Elems[i].Next
}

// Prev returns the element before i, or -1 at the start.
func (tr *Track) Prev(i int) int {
	if i < 0 || i >= len(tr.Elems) {
		return -1
	}
	return tr.Elems[i].Prev
}

// SiteIndex returns the first element holding site, or -1.
func (tr *Track) SiteIndex(site int) int {
	for i, e := range tr.Elems {
		if e.Site == site {
			return i
		}
	}
	return -1
}

// Advance follows n next links from element i and returns the element
// reached, or -1 when the track ends first.
func (tr *Track) Advance(i, n int) int {
	for ; n > 0 && i >= 0; n-- {
		i = tr.Next(i)
	}
	return i
}

// Sites returns the element sites in order.
func (tr *Track) Sites() []int {
	out := make([]int, len(tr.Elems))
	for i, e := range tr.Elems {
		out[i] = e.Site
	}
	return out
}

// AddTrack builds a track and registers it on the board.
func (t *Topology) AddTrack(spec TrackSpec) (*Track, error) {
	track, err := BuildTrack(t, spec)
	if err != nil {
		return nil, err
	}
	track.Index = len(t.tracks)
	t.tracks = append(t.tracks, track)
	return track, nil
}

// Tracks returns the board's tracks in index order.
func (t *Topology) Tracks() []*Track { return t.tracks }

// Track returns the track with the given name usable by owner: an owned
// track matching owner first, then a shared one.
func (t *Topology) Track(name string, owner int) *Track {
	var shared *Track
	for _, tr := range t.tracks {
		if tr.Name != name {
			continue
		}
		if tr.Owner == owner {
			return tr
		}
		if tr.Owner == 0 && shared == nil {
			shared = tr
		}
	}
	return shared
}
