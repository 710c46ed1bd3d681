package interp

import (
	"fmt"
)

var _ = fmt.Print

// fixed_cell locates v within an axis with domain cells. advance is false
// when there is no next node to blend with: v is saturated or the axis has
// a single node.
func fixed_cell(v uint16, domain int) (cell, rest int, advance bool) {
	if v == 0xffff || domain == 0 {
		return domain, 0, false
	}
	fx := ToFixedDomain(int(v) * domain)
	return FixedToInt(fx), FixedRestToInt(fx), true
}

func float_cell(v float32, domain int) (cell int, rest float32, advance bool) {
	v = fclamp(v)
	if v >= 1 || domain == 0 {
		return domain, 0, false
	}
	pos := v * float32(domain)
	if cell = int(pos); cell >= domain {
		return domain, 0, false
	}
	return cell, pos - float32(cell), true
}

// LinLerp1D interpolates a single output curve
func LinLerp1D(in, out []uint16, g Grid[uint16]) {
	cell, rest, advance := fixed_cell(in[0], g.domain[0])
	if !advance {
		out[0] = g.table[cell]
		return
	}
	out[0] = LinearInterp(rest, int(g.table[cell]), int(g.table[cell+1]))
}

func LinLerp1DFloat(in, out []float32, g Grid[float32]) {
	cell, rest, advance := float_cell(in[0], g.domain[0])
	if !advance {
		out[0] = g.table[cell]
		return
	}
	out[0] = lerp(rest, g.table[cell], g.table[cell+1])
}

// Eval1Input interpolates a one input table with any number of outputs
func Eval1Input(in, out []uint16, g Grid[uint16]) {
	cell, rest, advance := fixed_cell(in[0], g.domain[0])
	k0 := cell * g.opta[0]
	k1 := k0 + IfElse(advance, g.opta[0], 0)
	t := g.table
	for i := range g.num_outputs {
		out[i] = LinearInterp(rest, int(t[k0+i]), int(t[k1+i]))
	}
}

func Eval1InputFloat(in, out []float32, g Grid[float32]) {
	cell, rest, advance := float_cell(in[0], g.domain[0])
	k0 := cell * g.opta[0]
	k1 := k0 + IfElse(advance, g.opta[0], 0)
	t := g.table
	for i := range g.num_outputs {
		out[i] = lerp(rest, t[k0+i], t[k1+i])
	}
}
