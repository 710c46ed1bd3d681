package interp

import (
	"fmt"
)

var _ = fmt.Print

type Lerp16 = func(in, out []uint16, g Grid[uint16])
type LerpFloat = func(in, out []float32, g Grid[float32])

// Evaluator is a pair of interpolation routines for one grid shape. Only the
// variant matching the requested representation needs to be set.
type Evaluator struct {
	Name      string
	Lerp16    Lerp16
	LerpFloat LerpFloat
}

func (e Evaluator) String() string { return e.Name }

// Selector picks the interpolation routines for a grid shape.
type Selector func(num_inputs, num_outputs int, flags Flags) (Evaluator, error)

// Config carries optional construction time settings. A nil *Config is
// valid and means the defaults.
type Config struct {
	// Consulted before DefaultSelector. If it fails or returns no routine
	// for the requested representation the default is used.
	Selector Selector
}

var _ Selector = DefaultSelector

func DefaultSelector(num_inputs, num_outputs int, flags Flags) (ans Evaluator, err error) {
	if num_inputs >= 4 && num_outputs > MaxStageChannels {
		return ans, fmt.Errorf("%w: %d inputs with %d outputs", ErrUnsupported, num_inputs, num_outputs)
	}
	trilinear := flags.IsTrilinear()
	switch num_inputs {
	case 1:
		if num_outputs == 1 {
			return Evaluator{"LinLerp1D", LinLerp1D, LinLerp1DFloat}, nil
		}
		return Evaluator{"Eval1Input", Eval1Input, Eval1InputFloat}, nil
	case 2:
		return Evaluator{"Bilinear", BilinearInterp16, BilinearInterpFloat}, nil
	case 3:
		if trilinear {
			return Evaluator{"Trilinear", TrilinearInterp16, TrilinearInterpFloat}, nil
		}
		return Evaluator{"Tetrahedral", TetrahedralInterp16, TetrahedralInterpFloat}, nil
	}
	if num_inputs >= 4 && num_inputs <= MaxInputDimensions {
		if trilinear {
			return Evaluator{fmt.Sprintf("Eval%dInputs(Trilinear)", num_inputs), trilinear_nd16, trilinear_nd_float}, nil
		}
		return Evaluator{fmt.Sprintf("Eval%dInputs", num_inputs), tetrahedral_nd16, tetrahedral_nd_float}, nil
	}
	return ans, fmt.Errorf("%w: %d inputs with %d outputs", ErrUnsupported, num_inputs, num_outputs)
}
