package interp

import (
	"fmt"
)

var _ = fmt.Print

// Grids with more than three inputs are interpolated by fixing the first
// axis at the two nodes bracketing the input, interpolating each of the
// resulting sub-grids with one less input and blending the two results.
// The recursion bottoms out at three inputs.

func recursive16(base Lerp16) Lerp16 {
	var eval Lerp16
	eval = func(in, out []uint16, g Grid[uint16]) {
		n := len(g.domain)
		if n <= 3 {
			base(in, out, g)
			return
		}
		k0, rest, advance := fixed_cell(in[0], g.domain[0])
		stride := g.opta[n-1]
		K0 := k0 * stride
		K1 := K0 + IfElse(advance, stride, 0)
		var tmp1, tmp2 [MaxStageChannels]uint16
		eval(in[1:], tmp1[:g.num_outputs], g.Sub(K0))
		eval(in[1:], tmp2[:g.num_outputs], g.Sub(K1))
		for i := range g.num_outputs {
			out[i] = LinearInterp(rest, int(tmp1[i]), int(tmp2[i]))
		}
	}
	return eval
}

func recursive_float(base LerpFloat) LerpFloat {
	var eval LerpFloat
	eval = func(in, out []float32, g Grid[float32]) {
		n := len(g.domain)
		if n <= 3 {
			base(in, out, g)
			return
		}
		k0, rest, advance := float_cell(in[0], g.domain[0])
		stride := g.opta[n-1]
		K0 := k0 * stride
		K1 := K0 + IfElse(advance, stride, 0)
		var tmp1, tmp2 [MaxStageChannels]float32
		eval(in[1:], tmp1[:g.num_outputs], g.Sub(K0))
		eval(in[1:], tmp2[:g.num_outputs], g.Sub(K1))
		for i := range g.num_outputs {
			out[i] = lerp(rest, tmp1[i], tmp2[i])
		}
	}
	return eval
}

var (
	tetrahedral_nd16     = recursive16(TetrahedralInterp16)
	trilinear_nd16       = recursive16(TrilinearInterp16)
	tetrahedral_nd_float = recursive_float(TetrahedralInterpFloat)
	trilinear_nd_float   = recursive_float(TrilinearInterpFloat)
)
