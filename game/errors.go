package game

import (
	"errors"
	"fmt"
)

var (
	// ErrTrialOver is returned when asking for moves of a finished trial.
	ErrTrialOver = errors.New("trial is over")
	// ErrBadTrialFormat is returned for unparseable action strings.
	ErrBadTrialFormat = errors.New("bad trial format")
)

// EvalError is a runtime evaluation fault: the compiled game is invalid for
// the given input. Nodes panic with it; the Game API recovers it.
type EvalError struct {
	Node string
	Msg  string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("eval %s: %s", e.Node, e.Msg)
}

// Fail aborts the current evaluation.
func Fail(node, format string, args ...any) {
	panic(&EvalError{Node: node, Msg: fmt.Sprintf(format, args...)})
}

// recoverEval turns an EvalError panic into err. Any other panic is re-raised.
func recoverEval(err *error) {
	if r := recover(); r != nil {
		if evalErr, ok := r.(*EvalError); ok {
			*err = evalErr
			return
		}
		panic(r)
	}
}

type LintKind int

const (
	LintWarning LintKind = iota // missing requirement
	LintError                   // will crash
)

func (k LintKind) String() string {
	if k == LintError {
		return "error"
	}
	return "warning"
}

// LintIssue is a ruleset-definition problem found after compilation.
type LintIssue struct {
	Node    string
	Kind    LintKind
	Message string
}

func (l LintIssue) String() string {
	return fmt.Sprintf("%s: %s: %s", l.Kind, l.Node, l.Message)
}
