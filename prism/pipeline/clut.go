package pipeline

import (
	"fmt"
	"slices"

	"github.com/kovidgoyal/cmm/prism/interp"
)

var _ = fmt.Print

// CLut is a multidimensional lookup table stage. Tables hold either 16-bit
// values, where 0xffff represents 1.0, or float32 values.
type CLut struct {
	num_samples []int
	cfg         *interp.Config
	p16         *interp.Params[uint16]
	pf          *interp.Params[float32]
}

func zero_table[T interp.Sample](num_samples []int, num_outputs int) ([]T, error) {
	total := num_outputs
	for _, s := range num_samples {
		if s < 1 {
			return nil, fmt.Errorf("%w: grid %v has an axis with no samples", interp.ErrInvalidGrid, num_samples)
		}
		if total *= s; total > 1<<30 {
			return nil, fmt.Errorf("%w: grid %v is too large", interp.ErrInvalidGrid, num_samples)
		}
	}
	return make([]T, total), nil
}

func check_clut_shape(grid []int, num_inputs, num_outputs int) error {
	if num_inputs < 1 || num_inputs > interp.MaxInputDimensions {
		return fmt.Errorf("%w: lookup table with %d inputs, at most %d are supported", interp.ErrRange, num_inputs, interp.MaxInputDimensions)
	}
	if err := check_channels("lookup table output", num_outputs); err != nil {
		return err
	}
	if len(grid) != num_inputs {
		return fmt.Errorf("%w: %d grid sizes for %d inputs", interp.ErrInvalidGrid, len(grid), num_inputs)
	}
	return nil
}

// NewCLut16 creates a lookup table stage from a 16-bit table with grid[i]
// samples along input i. A nil table creates a table of zeros.
func NewCLut16(grid []int, num_inputs, num_outputs int, table []uint16, flags interp.Flags, cfg *interp.Config) (ans *CLut, err error) {
	if err = check_clut_shape(grid, num_inputs, num_outputs); err != nil {
		return
	}
	if table == nil {
		if table, err = zero_table[uint16](grid, num_outputs); err != nil {
			return
		}
	}
	ans = &CLut{num_samples: slices.Clone(grid), cfg: cfg}
	if ans.p16, err = interp.New(grid, table, num_inputs, num_outputs, flags&^interp.FlagFloat, cfg); err != nil {
		return nil, err
	}
	return
}

// NewCLutFloat creates a lookup table stage from a float32 table with
// grid[i] samples along input i. A nil table creates a table of zeros.
func NewCLutFloat(grid []int, num_inputs, num_outputs int, table []float32, flags interp.Flags, cfg *interp.Config) (ans *CLut, err error) {
	if err = check_clut_shape(grid, num_inputs, num_outputs); err != nil {
		return
	}
	if table == nil {
		if table, err = zero_table[float32](grid, num_outputs); err != nil {
			return
		}
	}
	ans = &CLut{num_samples: slices.Clone(grid), cfg: cfg}
	if ans.pf, err = interp.New(grid, table, num_inputs, num_outputs, flags|interp.FlagFloat, cfg); err != nil {
		return nil, err
	}
	return
}

func (c *CLut) is_stage() {}

func (c *CLut) InputChannels() int {
	if c.p16 != nil {
		return c.p16.NumInputs()
	}
	return c.pf.NumInputs()
}

func (c *CLut) OutputChannels() int {
	if c.p16 != nil {
		return c.p16.NumOutputs()
	}
	return c.pf.NumOutputs()
}

func (c *CLut) Flags() interp.Flags {
	if c.p16 != nil {
		return c.p16.Flags()
	}
	return c.pf.Flags()
}

func (c *CLut) GridPoints() []int { return slices.Clone(c.num_samples) }
func (c *CLut) Is16Bit() bool     { return c.p16 != nil }

// Table16 returns a copy of the table of a 16-bit lookup table or nil
func (c *CLut) Table16() []uint16 {
	if c.p16 == nil {
		return nil
	}
	return c.p16.Table()
}

// TableFloat returns a copy of the table of a float lookup table or nil
func (c *CLut) TableFloat() []float32 {
	if c.pf == nil {
		return nil
	}
	return c.pf.Table()
}

func (c *CLut) eval(in, out []float32) {
	if c.pf != nil {
		c.pf.Eval(in, out)
		return
	}
	var in16 [interp.MaxInputDimensions]uint16
	var out16 [interp.MaxStageChannels]uint16
	n := c.p16.NumInputs()
	for i, v := range in[:n] {
		in16[i] = interp.FromFloatTo16(v)
	}
	m := c.p16.NumOutputs()
	c.p16.Eval(in16[:n], out16[:m])
	for i, v := range out16[:m] {
		out[i] = interp.From16ToFloat(v)
	}
}

// with_flags returns a copy of this stage interpolated with different flags
func (c *CLut) with_flags(flags interp.Flags) (*CLut, error) {
	if c.p16 != nil {
		return NewCLut16(c.num_samples, c.p16.NumInputs(), c.p16.NumOutputs(), c.p16.Table(), flags, c.cfg)
	}
	return NewCLutFloat(c.num_samples, c.pf.NumInputs(), c.pf.NumOutputs(), c.pf.Table(), flags, c.cfg)
}

func (c *CLut) String() string {
	if c.p16 != nil {
		return fmt.Sprintf("CLut{%s}", c.p16)
	}
	return fmt.Sprintf("CLut{%s}", c.pf)
}
