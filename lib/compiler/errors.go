package compiler

import (
	"errors"
	"fmt"
)

// Sentinel errors for pattern construction.
var (
	ErrInvalidTag    = errors.New("compiler: invalid component tag")
	ErrInvalidPrefix = errors.New("compiler: invalid tag prefix")
)

// Stage identifies the pass of a component compilation that failed.
type Stage string

const (
	StagePattern     Stage = "pattern"
	StageSlot        Stage = "slot"
	StageSelfClosing Stage = "self-closing"
	StageOpening     Stage = "opening"
	StageClosing     Stage = "closing"
)

// Error reports which component and which pass aborted a compilation.
type Error struct {
	Component Component
	Stage     Stage
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("compiler: %s pass for tag %q (view %q): %v", e.Stage, e.Component.Tag, e.Component.View, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsInvalidPattern reports whether err was caused by a tag or prefix that
// cannot be turned into a match pattern.
func IsInvalidPattern(err error) bool {
	return errors.Is(err, ErrInvalidTag) || errors.Is(err, ErrInvalidPrefix)
}
