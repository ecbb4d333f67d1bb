package builder

import (
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"ludeme/game"
	"ludeme/topology"
)

// Description is the serialized form of a game: its equipment as plain
// fields and its rules as rule-node trees.
type Description struct {
	Name     string      `yaml:"name" validate:"required"`
	Players  int         `yaml:"players" validate:"min=1,max=16"`
	Board    BoardSpec   `yaml:"board"`
	Pieces   []PieceSpec `yaml:"pieces" validate:"dive"`
	Hand     int         `yaml:"hand" validate:"gte=0"` // cells per player hand
	Stacking bool        `yaml:"stacking"`
	Tracks   []TrackSpec `yaml:"tracks" validate:"dive"`
	Rules    RulesSpec   `yaml:"rules"`
}

type BoardSpec struct {
	Shape  string `yaml:"shape" validate:"required,oneof=square hex"`
	Rows   int    `yaml:"rows" validate:"required_if=Shape square,gte=0"`
	Cols   int    `yaml:"cols" validate:"required_if=Shape square,gte=0"`
	Radius int    `yaml:"radius" validate:"required_if=Shape hex,gte=0"`
	Site   string `yaml:"site" validate:"omitempty,oneof=cell edge vertex"`
}

// PieceSpec declares a kind of piece. Unless shared, every player gets
// their own component named kind plus the player number.
type PieceSpec struct {
	Kind   string `yaml:"kind" validate:"required,piecekind"`
	Shared bool   `yaml:"shared"`
}

type TrackSpec struct {
	Name  string `yaml:"name" validate:"required"`
	Owner int    `yaml:"owner" validate:"gte=0"`
	Loop  bool   `yaml:"loop"`
	Path  string `yaml:"path"`
	Sites []int  `yaml:"sites"`
	Type  string `yaml:"type" validate:"omitempty,oneof=cell edge vertex"`
}

type RulesSpec struct {
	Start []yaml.Node `yaml:"start" validate:"-"`
	Play  yaml.Node   `yaml:"play" validate:"-"`
	End   []EndSpec   `yaml:"end" validate:"dive"`
}

type EndSpec struct {
	If     yaml.Node `yaml:"if" validate:"-"`
	Result string    `yaml:"result" validate:"required,oneof=win loss draw"`
	Who    yaml.Node `yaml:"who" validate:"-"`
}

var results = map[string]game.Result{"win": game.Win, "loss": game.Loss, "draw": game.Draw}

// Component names end with the owner number, so kinds carry no digits.
var pieceKind = regexp.MustCompile(`^[A-Za-z][A-Za-z_]*$`)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("piecekind", func(fl validator.FieldLevel) bool {
		return pieceKind.MatchString(fl.Field().String())
	})
}

// Parse decodes and validates a description.
func Parse(data []byte) (*Description, error) {
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode description: %w", err)
	}
	if err := validate.Struct(&d); err != nil {
		return nil, fmt.Errorf("invalid description: %w", err)
	}
	return &d, nil
}

// Load parses and compiles a description.
func Load(data []byte) (*game.Game, error) {
	d, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return d.Compile()
}

func LoadFile(path string) (*game.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Compile builds the board and the rule trees, then preprocesses the game.
func (d *Description) Compile() (*game.Game, error) {
	board, err := d.Board.build()
	if err != nil {
		return nil, err
	}
	for _, t := range d.Tracks {
		if t.Owner > d.Players {
			return nil, &BuildError{Field: "tracks", Err: fmt.Errorf("%w: track %q owned by player %d of %d", ErrBadValue, t.Name, t.Owner, d.Players)}
		}
		spec := topology.TrackSpec{Name: t.Name, Owner: t.Owner, Loop: t.Loop, Path: t.Path, Sites: t.Sites}
		if t.Type != "" {
			spec.Type, _ = topology.ParseSiteType(t.Type)
		}
		if _, err := board.AddTrack(spec); err != nil {
			return nil, fmt.Errorf("track %q: %w", t.Name, err)
		}
	}

	g := &game.Game{
		Name:       d.Name,
		Players:    d.Players,
		Board:      board,
		Components: d.components(),
		Stacking:   d.Stacking,
	}
	if d.Board.Site != "" {
		g.DefaultSite, _ = topology.ParseSiteType(d.Board.Site)
	}
	if d.Hand > 0 {
		cells := board.NumSites(topology.Cell)
		for p := 1; p <= d.Players; p++ {
			g.Hands = append(g.Hands, game.Hand{Owner: p, Offset: cells + (p-1)*d.Hand, Size: d.Hand})
		}
	}
	if g.Rules, err = d.Rules.build(); err != nil {
		return nil, err
	}

	g.Preprocess()
	log.Debug().Str("game", g.Name).Int("components", len(g.Components)-1).Msg("compiled description")
	return g, nil
}

func (b BoardSpec) build() (*topology.Topology, error) {
	if b.Shape == "hex" {
		return topology.Hex(b.Radius)
	}
	return topology.Square(b.Rows, b.Cols)
}

func (d *Description) components() []game.Component {
	comps := []game.Component{{Index: 0}}
	add := func(name, kind string, owner int) {
		comps = append(comps, game.Component{Index: len(comps), Name: name, Kind: kind, Owner: owner})
	}
	for _, p := range d.Pieces {
		if p.Shared {
			add(p.Kind, p.Kind, 0)
			continue
		}
		for owner := 1; owner <= d.Players; owner++ {
			add(fmt.Sprintf("%s%d", p.Kind, owner), p.Kind, owner)
		}
	}
	return comps
}

func (r *RulesSpec) build() (game.Rules, error) {
	var rules game.Rules
	for i := range r.Start {
		n, err := buildField(&r.Start[i], KindMoves, fmt.Sprintf("rules.start[%d]", i))
		if err != nil {
			return rules, err
		}
		rules.Start = append(rules.Start, n.(game.MovesNode))
	}

	play, err := buildField(&r.Play, KindMoves, "rules.play")
	if err != nil {
		return rules, err
	}
	rules.Play = play.(game.MovesNode)

	for i := range r.End {
		e := &r.End[i]
		field := fmt.Sprintf("rules.end[%d]", i)
		cond, err := buildField(&e.If, KindBool, field+".if")
		if err != nil {
			return rules, err
		}
		end := game.EndRule{If: cond.(game.BoolNode), Result: results[e.Result]}
		if e.Who.Kind != 0 {
			who, err := build(&e.Who, KindInt)
			if err != nil {
				return rules, err
			}
			end.Who = who.(game.IntNode)
		}
		rules.End = append(rules.End, end)
	}
	return rules, nil
}

func buildField(n *yaml.Node, kind Kind, field string) (game.Node, error) {
	if n.Kind == 0 {
		return nil, &BuildError{Field: field, Err: ErrMissingField}
	}
	return build(n, kind)
}
