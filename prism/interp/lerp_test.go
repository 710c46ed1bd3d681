package interp

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ = fmt.Print

func abs_diff(a, b uint16) int {
	return max(int(a)-int(b), int(b)-int(a))
}

func test_inputs16(rng *rand.Rand, n int) [][]uint16 {
	ans := [][]uint16{uniform16(n, 0), uniform16(n, 0xffff), uniform16(n, 0x8000), uniform16(n, 1), uniform16(n, 0xfffe)}
	for range 50 {
		in := make([]uint16, n)
		for i := range in {
			in[i] = uint16(rng.IntN(0x10000))
		}
		ans = append(ans, in)
	}
	return ans
}

func test_inputs_float(rng *rand.Rand, n int) [][]float32 {
	ans := [][]float32{uniform_float(n, 0), uniform_float(n, 1), uniform_float(n, 0.5), uniform_float(n, 0.999999)}
	for range 50 {
		in := make([]float32, n)
		for i := range in {
			in[i] = rng.Float32()
		}
		ans = append(ans, in)
	}
	return ans
}

func uniform16(n int, v uint16) []uint16 {
	ans := make([]uint16, n)
	for i := range ans {
		ans[i] = v
	}
	return ans
}

func uniform_float(n int, v float32) []float32 {
	ans := make([]float32, n)
	for i := range ans {
		ans[i] = v
	}
	return ans
}

func TestIdentityGrid(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for n := 1; n <= MaxInputDimensions; n++ {
		t.Run(fmt.Sprintf("16bit-%d", n), func(t *testing.T) {
			p, err := NewUniform(2, identity_table[uint16](n, 2, 65535), n, n, Flag16Bits, nil)
			require.NoError(t, err)
			out := make([]uint16, n)
			for _, in := range test_inputs16(rng, n) {
				p.Eval(in, out)
				for i := range n {
					if abs_diff(in[i], out[i]) > 1 {
						t.Fatalf("%s: %v -> %v", p, in, out)
					}
				}
			}
		})
		t.Run(fmt.Sprintf("float-%d", n), func(t *testing.T) {
			r := IfElse(n <= 4, 5, 2)
			p, err := NewUniform(r, identity_table[float32](n, r, 1), n, n, FlagFloat, nil)
			require.NoError(t, err)
			out := make([]float32, n)
			for _, in := range test_inputs_float(rng, n) {
				p.Eval(in, out)
				for i := range n {
					require.InDelta(t, in[i], out[i], 1e-5, "%s: %v -> %v", p, in, out)
				}
			}
		})
	}
}

func TestIdentityGridTrilinear(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for _, n := range []int{3, 4, 6} {
		p, err := NewUniform(2, identity_table[uint16](n, 2, 65535), n, n, FlagTrilinear, nil)
		require.NoError(t, err)
		out := make([]uint16, n)
		for _, in := range test_inputs16(rng, n) {
			p.Eval(in, out)
			for i := range n {
				require.LessOrEqual(t, abs_diff(in[i], out[i]), 1, "%v -> %v", in, out)
			}
		}
	}
}

// inputs that land exactly on grid node k of an axis with r samples. For
// 16-bit inputs r-1 must divide 0xffff and for float inputs r-1 must be a
// power of two, otherwise the node position is not representable.
func node_input16(k, r int) uint16 { return uint16(k * 65535 / (r - 1)) }
func node_input_float(k, r int) float32 {
	return float32(k) / float32(r-1)
}

func TestNodeReproduction(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	type node_case struct {
		samples []int
		outputs int
		flags   Flags
	}
	t.Run("16bit", func(t *testing.T) {
		for _, tc := range []node_case{
			{[]int{4}, 1, 0}, {[]int{6}, 3, 0}, {[]int{4, 6}, 2, 0}, {[]int{4, 2, 6}, 3, 0},
			{[]int{4, 2, 6}, 3, FlagTrilinear}, {[]int{2, 4, 2, 6}, 2, 0}, {[]int{4, 2, 2, 4, 2}, 1, FlagTrilinear},
		} {
			n := len(tc.samples)
			table := random_table[uint16](rng, tc.samples, tc.outputs, 65536)
			p, err := New(tc.samples, table, n, tc.outputs, tc.flags, nil)
			require.NoError(t, err)
			in, out := make([]uint16, n), make([]uint16, tc.outputs)
			idx := 0
			walk_grid(tc.samples, func(node []int) {
				for i, k := range node {
					in[i] = node_input16(k, tc.samples[i])
				}
				p.Eval(in, out)
				require.Equal(t, table[idx:idx+tc.outputs], out, "grid: %v node: %v", tc.samples, node)
				idx += tc.outputs
			})
		}
	})
	t.Run("float", func(t *testing.T) {
		for _, tc := range []node_case{
			{[]int{5}, 1, 0}, {[]int{9}, 3, 0}, {[]int{5, 3}, 2, 0}, {[]int{3, 5, 2}, 3, 0},
			{[]int{3, 5, 2}, 3, FlagTrilinear}, {[]int{2, 5, 3, 9}, 2, 0}, {[]int{5, 2, 3, 3, 2}, 1, FlagTrilinear},
		} {
			n := len(tc.samples)
			table := random_table[float32](rng, tc.samples, tc.outputs, 1000)
			p, err := New(tc.samples, table, n, tc.outputs, tc.flags|FlagFloat, nil)
			require.NoError(t, err)
			in, out := make([]float32, n), make([]float32, tc.outputs)
			idx := 0
			walk_grid(tc.samples, func(node []int) {
				for i, k := range node {
					in[i] = node_input_float(k, tc.samples[i])
				}
				p.Eval(in, out)
				require.Equal(t, table[idx:idx+tc.outputs], out, "grid: %v node: %v", tc.samples, node)
				idx += tc.outputs
			})
		}
	})
}

func TestBoundaries(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	for n := 1; n <= 6; n++ {
		samples := uniform(n, 3)
		t16 := random_table[uint16](rng, samples, 2, 65536)
		tf := random_table[float32](rng, samples, 2, 1000)
		p16, err := New(samples, t16, n, 2, 0, nil)
		require.NoError(t, err)
		pf, err := New(samples, tf, n, 2, FlagFloat, nil)
		require.NoError(t, err)
		out16, outf := make([]uint16, 2), make([]float32, 2)
		p16.Eval(uniform16(n, 0xffff), out16)
		assert.Equal(t, t16[len(t16)-2:], out16)
		pf.Eval(uniform_float(n, 1), outf)
		assert.Equal(t, tf[len(tf)-2:], outf)
		pf.Eval(uniform_float(n, 7), outf)
		assert.Equal(t, tf[len(tf)-2:], outf)
		p16.Eval(uniform16(n, 0), out16)
		assert.Equal(t, t16[:2], out16)
		pf.Eval(uniform_float(n, -3), outf)
		assert.Equal(t, tf[:2], outf)
		// mixed saturated and unsaturated axes must stay within the table
		for axis := range n {
			in16 := uniform16(n, 0xfffe)
			in16[axis] = 0xffff
			p16.Eval(in16, out16)
			inf := uniform_float(n, 0.9999)
			inf[axis] = 1
			pf.Eval(inf, outf)
		}
	}
}

func TestSingleSampleAxes(t *testing.T) {
	p, err := New([]int{1}, []uint16{1234}, 1, 1, 0, nil)
	require.NoError(t, err)
	out := []uint16{0}
	p.Eval([]uint16{0x7000}, out)
	assert.Equal(t, uint16(1234), out[0])

	// a 1x3x3 grid behaves like the 3x3 grid it contains
	table := identity_table[float32](2, 3, 1)
	inner, err := New([]int{3, 3}, table, 2, 2, FlagFloat, nil)
	require.NoError(t, err)
	for _, flags := range []Flags{FlagFloat, FlagFloat | FlagTrilinear} {
		outer, err := New([]int{1, 3, 3}, table, 3, 2, flags, nil)
		require.NoError(t, err)
		a, b := make([]float32, 2), make([]float32, 2)
		for _, in := range [][]float32{{0.3, 0.25, 0.75}, {1, 1, 0.5}, {0, 0.1, 0.9}} {
			outer.Eval(in, a)
			inner.Eval(in[1:], b)
			assert.InDeltaSlice(t, b, a, 1e-6)
		}
	}
	p16, err := New([]int{3, 1, 3}, sample_table[uint16]([]int{3, 1, 3}, 1, func(pos, out []float64) { out[0] = pos[0] * 65535 }), 3, 1, 0, nil)
	require.NoError(t, err)
	out16 := []uint16{0}
	p16.Eval([]uint16{0x4000, 0x8000, 0xffff}, out16)
	assert.InDelta(t, 0x4000, out16[0], 1)
}

// The scenario from the documentation of tetrahedral interpolation: a
// 2x2x2 grid evaluated at its centre picks the rx >= ry >= rz tetrahedron.
func TestTetrahedralCentre(t *testing.T) {
	table := []float32{0, 30, 20, 60, 10, 50, 40, 70}
	pf, err := NewUniform(2, table, 3, 1, FlagFloat, nil)
	require.NoError(t, err)
	out := []float32{0}
	pf.Eval([]float32{0.5, 0.5, 0.5}, out)
	assert.Equal(t, float32(35), out[0])

	t16 := make([]uint16, len(table))
	for i, v := range table {
		t16[i] = uint16(v)
	}
	p16, err := NewUniform(2, t16, 3, 1, 0, nil)
	require.NoError(t, err)
	out16 := []uint16{0}
	p16.Eval([]uint16{0x8000, 0x8000, 0x8000}, out16)
	assert.Equal(t, uint16(35), out16[0])
}

func TestTetrahedralCases(t *testing.T) {
	// c(x,y,z) = x + 2y + 4z on the corners, evaluated at points inside each
	// of the six tetrahedra. Every tetrahedron is exact for an affine table.
	table := sample_table[float32]([]int{2, 2, 2}, 1, func(pos, out []float64) { out[0] = pos[0] + 2*pos[1] + 4*pos[2] })
	p, err := NewUniform(2, table, 3, 1, FlagFloat, nil)
	require.NoError(t, err)
	out := []float32{0}
	for _, in := range [][]float32{
		{0.6, 0.4, 0.2}, {0.6, 0.2, 0.4}, {0.4, 0.2, 0.6},
		{0.4, 0.6, 0.2}, {0.2, 0.6, 0.4}, {0.2, 0.4, 0.6},
	} {
		p.Eval(in, out)
		assert.InDelta(t, in[0]+2*in[1]+4*in[2], out[0], 1e-5, "%v", in)
	}
}

func affine(pos, out []float64) {
	for o := range out {
		v := 1000.0 * float64(o+1)
		for i, p := range pos {
			v += float64((i+o)%4+1) * 5000 * p
		}
		out[o] = v
	}
}

func TestTetrahedralMatchesTrilinearOnAffine(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	samples := []int{3, 5, 3}
	tf := sample_table[float32](samples, 3, affine)
	t16 := sample_table[uint16](samples, 3, affine)
	tetf, err := New(samples, tf, 3, 3, FlagFloat, nil)
	require.NoError(t, err)
	trif, err := New(samples, tf, 3, 3, FlagFloat|FlagTrilinear, nil)
	require.NoError(t, err)
	tet16, err := New(samples, t16, 3, 3, 0, nil)
	require.NoError(t, err)
	tri16, err := New(samples, t16, 3, 3, FlagTrilinear, nil)
	require.NoError(t, err)
	a, b := make([]float32, 3), make([]float32, 3)
	a16, b16 := make([]uint16, 3), make([]uint16, 3)
	for _, in := range test_inputs_float(rng, 3) {
		tetf.Eval(in, a)
		trif.Eval(in, b)
		assert.InDeltaSlice(t, b, a, 0.05, "%v", in)
	}
	for _, in := range test_inputs16(rng, 3) {
		tet16.Eval(in, a16)
		tri16.Eval(in, b16)
		for i := range a16 {
			assert.LessOrEqual(t, abs_diff(a16[i], b16[i]), 3, "%v: %v != %v", in, a16, b16)
		}
	}
}

func TestRecursiveMatchesMultilinear(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	samples := []int{3, 3, 3, 3}
	table := random_table[float32](rng, samples, 2, 1000)
	ref := make([]float64, len(table))
	for i, v := range table {
		ref[i] = float64(v)
	}
	p, err := New(samples, table, 4, 2, FlagFloat|FlagTrilinear, nil)
	require.NoError(t, err)
	t16 := make([]uint16, len(table))
	for i, v := range table {
		t16[i] = uint16(v * 60)
	}
	p16, err := New(samples, t16, 4, 2, FlagTrilinear, nil)
	require.NoError(t, err)
	out, out16, expected := make([]float32, 2), make([]uint16, 2), make([]float64, 2)
	in, in16, inref := make([]float32, 4), make([]uint16, 4), make([]float64, 4)
	for range 200 {
		for i := range in {
			in16[i] = uint16(rng.IntN(0x10000))
			in[i] = float32(in16[i]) / 65535
			inref[i] = float64(in[i])
		}
		p.Eval(in, out)
		multilinear(samples, 2, ref, inref, expected)
		require.InDelta(t, expected[0], out[0], 5e-3, "%v", in)
		require.InDelta(t, expected[1], out[1], 5e-3, "%v", in)
		p16.Eval(in16, out16)
		require.InDelta(t, expected[0]*60, float64(out16[0]), 5, "%v", in16)
		require.InDelta(t, expected[1]*60, float64(out16[1]), 5, "%v", in16)
	}
}

func TestRecursiveAffineWithTetrahedralBase(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 14))
	for _, n := range []int{4, 5, 7} {
		samples := uniform(n, 3)
		table := sample_table[float32](samples, 2, affine)
		p, err := New(samples, table, n, 2, FlagFloat, nil)
		require.NoError(t, err)
		out, expected := make([]float32, 2), make([]float64, 2)
		pos := make([]float64, n)
		for _, in := range test_inputs_float(rng, n) {
			p.Eval(in, out)
			for i, v := range in {
				pos[i] = float64(fclamp(v))
			}
			affine(pos, expected)
			assert.InDelta(t, expected[0], out[0], 0.2, "%v", in)
			assert.InDelta(t, expected[1], out[1], 0.2, "%v", in)
		}
	}
}

func TestConcurrentEval(t *testing.T) {
	rng := rand.New(rand.NewPCG(15, 16))
	samples := []int{5, 5, 5, 5}
	p, err := New(samples, random_table[uint16](rng, samples, 3, 65536), 4, 3, 0, nil)
	require.NoError(t, err)
	inputs := test_inputs16(rng, 4)
	expected := make([][]uint16, len(inputs))
	for i, in := range inputs {
		expected[i] = make([]uint16, 3)
		p.Eval(in, expected[i])
	}
	done := make(chan bool)
	for range 8 {
		go func() {
			out := make([]uint16, 3)
			ok := true
			for i, in := range inputs {
				p.Eval(in, out)
				ok = ok && out[0] == expected[i][0] && out[1] == expected[i][1] && out[2] == expected[i][2]
			}
			done <- ok
		}()
	}
	for range 8 {
		assert.True(t, <-done)
	}
}
