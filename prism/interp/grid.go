package interp

import (
	"fmt"
)

var _ = fmt.Print

type Sample interface {
	uint16 | float32
}

// Grid is a view of a sampled table used by the interpolation routines.
// domain[i] is the number of cells along axis i and opta holds the table
// strides in reverse axis order, so opta[0] is the stride of the last axis
// and always equals the number of outputs.
type Grid[T Sample] struct {
	domain, opta []int
	table        []T
	num_outputs  int
}

func (g Grid[T]) NumInputs() int  { return len(g.domain) }
func (g Grid[T]) NumOutputs() int { return g.num_outputs }
func (g Grid[T]) Domain(axis int) int {
	return g.domain[axis]
}

// Stride returns the distance in the table between adjacent nodes on axis
func (g Grid[T]) Stride(axis int) int {
	return g.opta[len(g.domain)-1-axis]
}

// Table returns the backing table which must be treated as read only
func (g Grid[T]) Table() []T { return g.table }

// Sub returns the grid formed by fixing the first axis, with the table
// starting at offset.
func (g Grid[T]) Sub(offset int) Grid[T] {
	n := len(g.domain)
	return Grid[T]{domain: g.domain[1:], opta: g.opta[:n-1], table: g.table[offset:], num_outputs: g.num_outputs}
}

func make_grid[T Sample](num_samples []int, table []T, num_outputs int) (ans Grid[T], err error) {
	n := len(num_samples)
	ans.domain = make([]int, n)
	ans.opta = make([]int, n)
	ans.num_outputs = num_outputs
	for i, s := range num_samples {
		if s < 1 {
			return ans, fmt.Errorf("%w: axis %d has %d samples", ErrInvalidGrid, i, s)
		}
		ans.domain[i] = s - 1
	}
	ans.opta[0] = num_outputs
	for i := 1; i < n; i++ {
		ans.opta[i] = ans.opta[i-1] * num_samples[n-i]
		if ans.opta[i]/num_samples[n-i] != ans.opta[i-1] {
			return ans, fmt.Errorf("%w: too many grid points %v", ErrInvalidGrid, num_samples)
		}
	}
	total := ans.opta[n-1] * num_samples[0]
	if total/num_samples[0] != ans.opta[n-1] {
		return ans, fmt.Errorf("%w: too many grid points %v", ErrInvalidGrid, num_samples)
	}
	if len(table) != total {
		return ans, fmt.Errorf("%w: table has %d values, grid %v with %d outputs needs %d", ErrInvalidGrid, len(table), num_samples, num_outputs, total)
	}
	ans.table = table
	return
}
