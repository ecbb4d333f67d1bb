package game

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"ludeme/topology"
)

// Action is an atomic, serializable state edit. An action does not
// validate; it trusts the node that produced it.
type Action interface {
	Apply(ctx *Context)
	Name() string
	// fields lists the trial-format fields in their stable order.
	fields(def topology.SiteType) []field
	Decision() bool
	SetDecision(bool)
	From() int
	To() int
	Who() int
	What() int
}

// actionBase supplies the defaults: undefined sites, no component and no
// owner. Concrete actions override what they change.
type actionBase struct {
	decision bool
}

func (a *actionBase) Decision() bool     { return a.decision }
func (a *actionBase) SetDecision(d bool) { a.decision = d }
func (a *actionBase) From() int          { return Off }
func (a *actionBase) To() int            { return Off }
func (a *actionBase) Who() int           { return 0 }
func (a *actionBase) What() int          { return 0 }

type field struct {
	key   string
	value string
}

func intField(key string, v int) field { return field{key, strconv.Itoa(v)} }

// textField escapes free text so it cannot break the field syntax.
func textField(key, v string) field { return field{key, url.QueryEscape(v)} }

// typeFields returns the type field, omitted when it is the default site.
func typeFields(st, def topology.SiteType) []field {
	if st == def {
		return nil
	}
	return []field{{"type", st.String()}}
}

// levelFields returns the level field, omitted for the top of the stack.
func levelFields(key string, level int) []field {
	if level < 0 {
		return nil
	}
	return []field{intField(key, level)}
}

// TrialFormat renders an action as "[Name:k=v,...]", the form stored in
// trial records. The type field is omitted for the game's default site type
// and decision=true comes last.
func TrialFormat(a Action, ctx *Context) string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(a.Name())
	fs := a.fields(ctx.game.DefaultSite)
	if a.Decision() {
		fs = append(fs, field{"decision", "true"})
	}
	for i, f := range fs {
		if i == 0 {
			sb.WriteString(":")
		} else {
			sb.WriteString(",")
		}
		sb.WriteString(f.key)
		sb.WriteString("=")
		sb.WriteString(f.value)
	}
	sb.WriteString("]")
	return sb.String()
}

// fieldReader decodes trial-format fields, keeping the first error.
type fieldReader struct {
	name   string
	values map[string]string
	def    topology.SiteType
	err    error
}

func (r *fieldReader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s: %s", ErrBadTrialFormat, r.name, fmt.Sprintf(format, args...))
	}
}

func (r *fieldReader) Int(key string, def int) int {
	s, ok := r.values[key]
	if !ok {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		r.fail("%s=%q is not an integer", key, s)
	}
	return v
}

func (r *fieldReader) Required(key string) int {
	if _, ok := r.values[key]; !ok {
		r.fail("missing %s", key)
		return 0
	}
	return r.Int(key, 0)
}

func (r *fieldReader) Bool(key string) bool {
	s, ok := r.values[key]
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		r.fail("%s=%q is not a boolean", key, s)
	}
	return v
}

func (r *fieldReader) Text(key string) string {
	s, ok := r.values[key]
	if !ok {
		r.fail("missing %s", key)
		return ""
	}
	v, err := url.QueryUnescape(s)
	if err != nil {
		r.fail("%s=%q: %v", key, s, err)
	}
	return v
}

// Mask reads an optional per-player bit mask.
func (r *fieldReader) Mask(key string) uint32 {
	s, ok := r.values[key]
	if !ok {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		r.fail("%s=%q is not a mask", key, s)
	}
	return uint32(v)
}

func (r *fieldReader) Type() topology.SiteType {
	s, ok := r.values["type"]
	if !ok {
		return r.def
	}
	st, err := topology.ParseSiteType(s)
	if err != nil {
		r.fail("%v", err)
	}
	return st
}

type actionDecoder func(r *fieldReader) Action

var actionDecoders = map[string]actionDecoder{}

func registerAction(name string, dec actionDecoder) {
	actionDecoders[name] = dec
}

// ParseAction parses the trial format of an action.
func ParseAction(ctx *Context, s string) (Action, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("%w: %q is not bracketed", ErrBadTrialFormat, s)
	}
	body := s[1 : len(s)-1]
	name, rest, _ := strings.Cut(body, ":")
	dec, ok := actionDecoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrBadTrialFormat, name)
	}

	r := &fieldReader{name: name, values: map[string]string{}, def: ctx.game.DefaultSite}
	if rest != "" {
		for _, kv := range strings.Split(rest, ",") {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return nil, fmt.Errorf("%w: %s: field %q has no value", ErrBadTrialFormat, name, kv)
			}
			r.values[k] = v
		}
	}
	a := dec(r)
	if r.err != nil {
		return nil, r.err
	}
	a.SetDecision(r.Bool("decision"))
	if r.err != nil {
		return nil, r.err
	}
	return a, nil
}
