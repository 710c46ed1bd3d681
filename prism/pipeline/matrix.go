package pipeline

import (
	"fmt"
	"math"
	"slices"
)

var _ = fmt.Print

// Matrix computes out = m × in + offset where m has OutputChannels() rows
// and InputChannels() columns stored row major.
type Matrix struct {
	rows, cols int
	m, offset  []float64
}

// NewMatrix creates a rows × cols matrix stage. offset may be nil, otherwise
// it must have one value per row.
func NewMatrix(rows, cols int, m, offset []float64) (*Matrix, error) {
	if err := check_channels("matrix output", rows); err != nil {
		return nil, err
	}
	if err := check_channels("matrix input", cols); err != nil {
		return nil, err
	}
	if len(m) != rows*cols {
		return nil, fmt.Errorf("a %d × %d matrix needs %d values not %d", rows, cols, rows*cols, len(m))
	}
	if offset != nil && len(offset) != rows {
		return nil, fmt.Errorf("a matrix with %d rows needs %d offsets not %d", rows, rows, len(offset))
	}
	return &Matrix{rows: rows, cols: cols, m: slices.Clone(m), offset: slices.Clone(offset)}, nil
}

func must_matrix(rows, cols int, m, offset []float64) *Matrix {
	ans, err := NewMatrix(rows, cols, m, offset)
	if err != nil {
		panic(err)
	}
	return ans
}

func diagonal(v ...float64) []float64 {
	ans := make([]float64, len(v)*len(v))
	for i, x := range v {
		ans[i*len(v)+i] = x
	}
	return ans
}

func (c *Matrix) is_stage()           {}
func (c *Matrix) InputChannels() int  { return c.cols }
func (c *Matrix) OutputChannels() int { return c.rows }
func (c *Matrix) Values() []float64   { return slices.Clone(c.m) }
func (c *Matrix) Offset() []float64   { return slices.Clone(c.offset) }

func (c *Matrix) At(row, col int) float64 { return c.m[row*c.cols+col] }

func (c *Matrix) eval(in, out []float32) {
	for i := range c.rows {
		row := c.m[i*c.cols : (i+1)*c.cols]
		tmp := 0.0
		for j, v := range row {
			tmp += float64(in[j]) * v
		}
		if c.offset != nil {
			tmp += c.offset[i]
		}
		out[i] = float32(tmp)
	}
}

const identity_tolerance = 1e-9

// IsIdentity returns true if c is square and within rounding error of
// the identity matrix with no offset
func (c *Matrix) IsIdentity() bool {
	if c.rows != c.cols {
		return false
	}
	for i := range c.rows {
		for j := range c.cols {
			if math.Abs(c.m[i*c.cols+j]-IfElse(i == j, 1.0, 0.0)) > identity_tolerance {
				return false
			}
		}
		if c.offset != nil && math.Abs(c.offset[i]) > identity_tolerance {
			return false
		}
	}
	return true
}

// Then returns the single matrix equivalent to applying c and then o
func (c *Matrix) Then(o *Matrix) (*Matrix, error) {
	if c.rows != o.cols {
		return nil, fmt.Errorf("%w: cannot follow a matrix with %d outputs by one with %d inputs", ErrChannelMismatch, c.rows, o.cols)
	}
	m := make([]float64, o.rows*c.cols)
	var offset []float64
	if c.offset != nil || o.offset != nil {
		offset = make([]float64, o.rows)
	}
	for i := range o.rows {
		for j := range c.cols {
			var tmp float64
			for k := range c.rows {
				tmp += o.At(i, k) * c.At(k, j)
			}
			m[i*c.cols+j] = tmp
		}
		if offset != nil {
			if o.offset != nil {
				offset[i] = o.offset[i]
			}
			if c.offset != nil {
				for k := range c.rows {
					offset[i] += o.At(i, k) * c.offset[k]
				}
			}
		}
	}
	return NewMatrix(o.rows, c.cols, m, offset)
}

// Inverted returns the inverse of a 3 × 3 matrix stage
func (c *Matrix) Inverted() (*Matrix, error) {
	if c.rows != 3 || c.cols != 3 {
		return nil, fmt.Errorf("only 3 × 3 matrices can be inverted not %d × %d", c.rows, c.cols)
	}
	var mat Matrix3
	for i := range 3 {
		copy(mat[i][:], c.m[i*3:(i+1)*3])
	}
	inv, err := mat.Inverted()
	if err != nil {
		return nil, err
	}
	m := make([]float64, 0, 9)
	for _, row := range inv {
		m = append(m, row[:]...)
	}
	var offset []float64
	if c.offset != nil {
		o := inv.Transform(c.offset[0], c.offset[1], c.offset[2])
		offset = []float64{-o[0], -o[1], -o[2]}
	}
	return NewMatrix(3, 3, m, offset)
}

func (c *Matrix) String() string {
	if c.offset != nil {
		return fmt.Sprintf("Matrix{%d×%d %v offset: %v}", c.rows, c.cols, c.m, c.offset)
	}
	return fmt.Sprintf("Matrix{%d×%d %v}", c.rows, c.cols, c.m)
}

type Matrix3 [3][3]float64

func (m *Matrix3) Transform(x, y, z float64) [3]float64 {
	return [3]float64{
		m[0][0]*x + m[0][1]*y + m[0][2]*z,
		m[1][0]*x + m[1][1]*y + m[1][2]*z,
		m[2][0]*x + m[2][1]*y + m[2][2]*z,
	}
}

func (mat *Matrix3) Inverted() (ans Matrix3, err error) {
	det := mat[0][0]*(mat[1][1]*mat[2][2]-mat[1][2]*mat[2][1]) -
		mat[0][1]*(mat[1][0]*mat[2][2]-mat[1][2]*mat[2][0]) +
		mat[0][2]*(mat[1][0]*mat[2][1]-mat[1][1]*mat[2][0])
	if det == 0 {
		return ans, fmt.Errorf("matrix is singular and cannot be inverted")
	}
	adj := Matrix3{
		{
			mat[1][1]*mat[2][2] - mat[1][2]*mat[2][1],
			mat[0][2]*mat[2][1] - mat[0][1]*mat[2][2],
			mat[0][1]*mat[1][2] - mat[0][2]*mat[1][1],
		},
		{
			mat[1][2]*mat[2][0] - mat[1][0]*mat[2][2],
			mat[0][0]*mat[2][2] - mat[0][2]*mat[2][0],
			mat[0][2]*mat[1][0] - mat[0][0]*mat[1][2],
		},
		{
			mat[1][0]*mat[2][1] - mat[1][1]*mat[2][0],
			mat[0][1]*mat[2][0] - mat[0][0]*mat[2][1],
			mat[0][0]*mat[1][1] - mat[0][1]*mat[1][0],
		},
	}
	for i := range 3 {
		for j := range 3 {
			ans[i][j] = adj[i][j] / det
		}
	}
	return
}

// Multiply returns m × o
func (m *Matrix3) Multiply(o Matrix3) (ans Matrix3) {
	for i := range 3 {
		for j := range 3 {
			for k := range 3 {
				ans[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return
}

func (m *Matrix3) as_stage() *Matrix {
	return must_matrix(3, 3, append(append(m[0][:], m[1][:]...), m[2][:]...), nil)
}
