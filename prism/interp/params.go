// Package interp evaluates sampled lookup tables of up to fifteen inputs
// using linear, bilinear, trilinear, tetrahedral and recursive
// interpolation in both 16-bit fixed point and float32.
package interp

import (
	"fmt"
	"slices"
)

var _ = fmt.Print

// Params describes a sampled table together with the routine chosen to
// interpolate it. It is immutable after construction and safe for
// concurrent use.
type Params[T Sample] struct {
	flags       Flags
	num_samples []int
	grid        Grid[T]
	evaluator   Evaluator
	lerp        func(in, out []T, g Grid[T])
}

func is_float[T Sample]() bool {
	var zero T
	_, ok := any(zero).(float32)
	return ok
}

func pick_routine[T Sample](ev Evaluator) func(in, out []T, g Grid[T]) {
	var f any = ev.Lerp16
	if is_float[T]() {
		f = ev.LerpFloat
	}
	if ans, ok := f.(func(in, out []T, g Grid[T])); ok && ans != nil {
		return ans
	}
	return nil
}

func select_routine[T Sample](num_inputs, num_outputs int, flags Flags, cfg *Config) (Evaluator, func(in, out []T, g Grid[T]), error) {
	if cfg != nil && cfg.Selector != nil {
		if ev, err := cfg.Selector(num_inputs, num_outputs, flags); err == nil {
			if f := pick_routine[T](ev); f != nil {
				return ev, f, nil
			}
		}
	}
	ev, err := DefaultSelector(num_inputs, num_outputs, flags)
	if err != nil {
		return ev, nil, err
	}
	f := pick_routine[T](ev)
	if f == nil {
		return ev, nil, fmt.Errorf("%w: no %s routine for %d inputs with %d outputs", ErrUnsupported, flags, num_inputs, num_outputs)
	}
	return ev, f, nil
}

// New creates interpolation parameters for a table sampled num_samples[i]
// times along axis i. The table holds num_outputs values per grid node with
// the first axis varying slowest. The table is copied.
func New[T Sample](num_samples []int, table []T, num_inputs, num_outputs int, flags Flags, cfg *Config) (*Params[T], error) {
	if num_inputs < 1 || num_inputs > MaxInputDimensions {
		return nil, fmt.Errorf("%w: %d input channels, at most %d are supported", ErrRange, num_inputs, MaxInputDimensions)
	}
	if num_outputs < 1 || num_outputs > MaxStageChannels {
		return nil, fmt.Errorf("%w: %d output channels, at most %d are supported", ErrRange, num_outputs, MaxStageChannels)
	}
	if len(num_samples) != num_inputs {
		return nil, fmt.Errorf("%w: %d sample counts given for %d inputs", ErrInvalidGrid, len(num_samples), num_inputs)
	}
	if flags.IsFloat() != is_float[T]() {
		return nil, fmt.Errorf("%w: flags %s do not match the table type %T", ErrUnsupported, flags, table)
	}
	g, err := make_grid(num_samples, slices.Clone(table), num_outputs)
	if err != nil {
		return nil, err
	}
	ev, f, err := select_routine[T](num_inputs, num_outputs, flags, cfg)
	if err != nil {
		return nil, err
	}
	return &Params[T]{flags: flags, num_samples: slices.Clone(num_samples), grid: g, evaluator: ev, lerp: f}, nil
}

// NewUniform is New with the same number of samples on every axis
func NewUniform[T Sample](num_samples int, table []T, num_inputs, num_outputs int, flags Flags, cfg *Config) (*Params[T], error) {
	if num_inputs < 1 || num_inputs > MaxInputDimensions {
		return nil, fmt.Errorf("%w: %d input channels, at most %d are supported", ErrRange, num_inputs, MaxInputDimensions)
	}
	s := make([]int, num_inputs)
	for i := range s {
		s[i] = num_samples
	}
	return New(s, table, num_inputs, num_outputs, flags, cfg)
}

func (p *Params[T]) NumInputs() int       { return p.grid.NumInputs() }
func (p *Params[T]) NumOutputs() int      { return p.grid.num_outputs }
func (p *Params[T]) Flags() Flags         { return p.flags }
func (p *Params[T]) NumSamples() []int    { return slices.Clone(p.num_samples) }
func (p *Params[T]) Domain() []int        { return slices.Clone(p.grid.domain) }
func (p *Params[T]) Opta() []int          { return slices.Clone(p.grid.opta) }
func (p *Params[T]) Table() []T           { return slices.Clone(p.grid.table) }
func (p *Params[T]) Evaluator() Evaluator { return p.evaluator }

// Eval interpolates the table at in, which must have NumInputs() values in
// [0, 0xffff] or [0, 1], writing NumOutputs() values to out.
func (p *Params[T]) Eval(in, out []T) {
	p.lerp(in, out, p.grid)
}

func (p *Params[T]) String() string {
	return fmt.Sprintf("InterpParams{%s in:%d out:%d grid:%v %s}", p.evaluator.Name, p.NumInputs(), p.NumOutputs(), p.num_samples, p.flags)
}
