package builder

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTag   = errors.New("unknown tag")
	ErrUnknownField = errors.New("unknown field")
	ErrMissingField = errors.New("missing field")
	ErrExactlyOne   = errors.New("exactly one field is required")
	ErrWrongKind    = errors.New("wrong node kind")
	ErrBadValue     = errors.New("bad value")
)

// BuildError locates a failure in a game description: the tag being
// built, the offending field (empty for the tag itself) and its line.
type BuildError struct {
	Tag   string
	Field string
	Line  int
	Err   error
}

func (e *BuildError) Error() string {
	where := e.Tag
	switch {
	case where == "":
		where = e.Field
	case e.Field != "":
		where += "." + e.Field
	}
	if where == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, where, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
