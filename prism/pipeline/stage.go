// Package pipeline chains tone curve, matrix and lookup table stages into
// a transform evaluated on vectors of float32 or 16-bit values.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/kovidgoyal/cmm/prism/interp"
)

var _ = fmt.Print

var (
	ErrChannelMismatch = errors.New("stage channel counts do not match")
	ErrNotConverged    = errors.New("reverse evaluation did not converge")
	ErrInvalidStage    = errors.New("invalid pipeline stage")
)

// Stage is one step of a Pipeline. The only implementations are
// *ToneCurves, *Matrix and *CLut.
type Stage interface {
	InputChannels() int
	OutputChannels() int
	String() string
	is_stage()
}

var _ Stage = (*ToneCurves)(nil)
var _ Stage = (*Matrix)(nil)
var _ Stage = (*CLut)(nil)

type stage_func = func(in, out []float32)

func evaluator_for(s Stage) stage_func {
	switch s := s.(type) {
	case *ToneCurves:
		return s.eval
	case *Matrix:
		return s.eval
	case *CLut:
		return s.eval
	}
	panic(fmt.Sprintf("unknown stage type: %T", s))
}

func check_channels(what string, n int) error {
	if n < 1 || n > interp.MaxStageChannels {
		return fmt.Errorf("%w: %s has %d channels, must be between 1 and %d", interp.ErrRange, what, n, interp.MaxStageChannels)
	}
	return nil
}

func IfElse[T any](condition bool, if_val T, else_val T) T {
	if condition {
		return if_val
	}
	return else_val
}
