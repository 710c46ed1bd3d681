package interp

import (
	"fmt"
)

var _ = fmt.Print

func lerp16(a, l, h int) int { return l + RoundFixedToInt((h-l)*a) }

func BilinearInterp16(in, out []uint16, g Grid[uint16]) {
	x0, rx, ax := fixed_cell(in[0], g.domain[0])
	y0, ry, ay := fixed_cell(in[1], g.domain[1])
	X0 := x0 * g.opta[1]
	X1 := X0 + IfElse(ax, g.opta[1], 0)
	Y0 := y0 * g.opta[0]
	Y1 := Y0 + IfElse(ay, g.opta[0], 0)
	t := g.table
	for i := range g.num_outputs {
		d00, d01 := int(t[X0+Y0+i]), int(t[X0+Y1+i])
		d10, d11 := int(t[X1+Y0+i]), int(t[X1+Y1+i])
		dx0 := lerp16(rx, d00, d10)
		dx1 := lerp16(rx, d01, d11)
		out[i] = uint16(lerp16(ry, dx0, dx1))
	}
}

func BilinearInterpFloat(in, out []float32, g Grid[float32]) {
	x0, rx, ax := float_cell(in[0], g.domain[0])
	y0, ry, ay := float_cell(in[1], g.domain[1])
	X0 := x0 * g.opta[1]
	X1 := X0 + IfElse(ax, g.opta[1], 0)
	Y0 := y0 * g.opta[0]
	Y1 := Y0 + IfElse(ay, g.opta[0], 0)
	t := g.table
	for i := range g.num_outputs {
		d00, d01 := t[X0+Y0+i], t[X0+Y1+i]
		d10, d11 := t[X1+Y0+i], t[X1+Y1+i]
		dx0 := lerp(rx, d00, d10)
		dx1 := lerp(rx, d01, d11)
		out[i] = lerp(ry, dx0, dx1)
	}
}
