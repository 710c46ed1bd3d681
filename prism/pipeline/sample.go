package pipeline

import (
	"fmt"

	"github.com/kovidgoyal/cmm/prism/interp"
)

var _ = fmt.Print

// Sampler16 is called for every node of a grid being sampled. in holds the
// node position and out must be filled with the values for that node.
type Sampler16 = func(in, out []uint16) error
type SamplerFloat = func(in, out []float32) error

// quantize returns the 16-bit position of node i on an axis with n samples
func quantize(i, n int) uint16 {
	return interp.QuickSaturateWord(float64(i) * 65535 / float64(n-1))
}

func grid_size(grid []int, num_outputs int) (int, error) {
	if len(grid) < 1 || len(grid) > interp.MaxInputDimensions {
		return 0, fmt.Errorf("%w: cannot sample a grid with %d inputs", interp.ErrRange, len(grid))
	}
	if err := check_channels("sampled table", num_outputs); err != nil {
		return 0, err
	}
	total := 1
	for i, s := range grid {
		if s < 2 {
			return 0, fmt.Errorf("%w: axis %d has %d samples, at least 2 are needed", interp.ErrInvalidGrid, i, s)
		}
		if total *= s; total > 1<<30 {
			return 0, fmt.Errorf("%w: grid %v is too large", interp.ErrInvalidGrid, grid)
		}
	}
	return total, nil
}

// walk_grid calls f for every node in table order, the last axis varying
// fastest
func walk_grid(grid []int, total int, f func(node []int, idx int) error) error {
	node := make([]int, len(grid))
	for idx := range total {
		if err := f(node, idx); err != nil {
			return err
		}
		for a := len(node) - 1; a >= 0; a-- {
			if node[a]++; node[a] < grid[a] {
				break
			}
			node[a] = 0
		}
	}
	return nil
}

// SampleTable16 builds a 16-bit table for a grid by calling sampler at each
// node in table order. Any error returned by sampler aborts sampling.
func SampleTable16(grid []int, num_outputs int, sampler Sampler16) ([]uint16, error) {
	total, err := grid_size(grid, num_outputs)
	if err != nil {
		return nil, err
	}
	table := make([]uint16, total*num_outputs)
	in := make([]uint16, len(grid))
	err = walk_grid(grid, total, func(node []int, idx int) error {
		for i, k := range node {
			in[i] = quantize(k, grid[i])
		}
		return sampler(in, table[idx*num_outputs:(idx+1)*num_outputs])
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// SampleTableFloat is the float version of SampleTable16, node positions
// are in [0, 1]
func SampleTableFloat(grid []int, num_outputs int, sampler SamplerFloat) ([]float32, error) {
	total, err := grid_size(grid, num_outputs)
	if err != nil {
		return nil, err
	}
	table := make([]float32, total*num_outputs)
	in := make([]float32, len(grid))
	err = walk_grid(grid, total, func(node []int, idx int) error {
		for i, k := range node {
			in[i] = float32(float64(quantize(k, grid[i])) / 65535)
		}
		return sampler(in, table[idx*num_outputs:(idx+1)*num_outputs])
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// NewIdentityCLut creates a 16-bit lookup table with two samples per axis
// that maps every input to itself
func NewIdentityCLut(num_channels int) (*CLut, error) {
	grid := make([]int, num_channels)
	for i := range grid {
		grid[i] = 2
	}
	table, err := SampleTable16(grid, num_channels, func(in, out []uint16) error {
		copy(out, in)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewCLut16(grid, num_channels, num_channels, table, interp.Flag16Bits, nil)
}

// NewSampledCLut16 creates a 16-bit lookup table by sampling a pipeline at
// every node of grid.
func NewSampledCLut16(grid []int, p *Pipeline, flags interp.Flags, cfg *interp.Config) (*CLut, error) {
	if len(grid) != p.InputChannels() {
		return nil, fmt.Errorf("%w: %d grid sizes for a pipeline with %d inputs", ErrChannelMismatch, len(grid), p.InputChannels())
	}
	table, err := SampleTable16(grid, p.OutputChannels(), func(in, out []uint16) error {
		p.Evaluate16(in, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewCLut16(grid, len(grid), p.OutputChannels(), table, flags, cfg)
}
