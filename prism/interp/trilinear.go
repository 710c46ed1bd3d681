package interp

import (
	"fmt"
)

var _ = fmt.Print

type cube_offsets struct{ X0, X1, Y0, Y1, Z0, Z1 int }

func (c cube_offsets) corners(t []uint16, i int) (d000, d001, d010, d011, d100, d101, d110, d111 int) {
	return int(t[c.X0+c.Y0+c.Z0+i]), int(t[c.X0+c.Y0+c.Z1+i]), int(t[c.X0+c.Y1+c.Z0+i]), int(t[c.X0+c.Y1+c.Z1+i]),
		int(t[c.X1+c.Y0+c.Z0+i]), int(t[c.X1+c.Y0+c.Z1+i]), int(t[c.X1+c.Y1+c.Z0+i]), int(t[c.X1+c.Y1+c.Z1+i])
}

func (c cube_offsets) float_corners(t []float32, i int) (d000, d001, d010, d011, d100, d101, d110, d111 float32) {
	return t[c.X0+c.Y0+c.Z0+i], t[c.X0+c.Y0+c.Z1+i], t[c.X0+c.Y1+c.Z0+i], t[c.X0+c.Y1+c.Z1+i],
		t[c.X1+c.Y0+c.Z0+i], t[c.X1+c.Y0+c.Z1+i], t[c.X1+c.Y1+c.Z0+i], t[c.X1+c.Y1+c.Z1+i]
}

func locate_cube16(in []uint16, g Grid[uint16]) (c cube_offsets, rx, ry, rz int) {
	x0, rx, ax := fixed_cell(in[0], g.domain[0])
	y0, ry, ay := fixed_cell(in[1], g.domain[1])
	z0, rz, az := fixed_cell(in[2], g.domain[2])
	c.X0, c.Y0, c.Z0 = x0*g.opta[2], y0*g.opta[1], z0*g.opta[0]
	c.X1 = c.X0 + IfElse(ax, g.opta[2], 0)
	c.Y1 = c.Y0 + IfElse(ay, g.opta[1], 0)
	c.Z1 = c.Z0 + IfElse(az, g.opta[0], 0)
	return
}

func locate_cube_float(in []float32, g Grid[float32]) (c cube_offsets, rx, ry, rz float32) {
	x0, rx, ax := float_cell(in[0], g.domain[0])
	y0, ry, ay := float_cell(in[1], g.domain[1])
	z0, rz, az := float_cell(in[2], g.domain[2])
	c.X0, c.Y0, c.Z0 = x0*g.opta[2], y0*g.opta[1], z0*g.opta[0]
	c.X1 = c.X0 + IfElse(ax, g.opta[2], 0)
	c.Y1 = c.Y0 + IfElse(ay, g.opta[1], 0)
	c.Z1 = c.Z0 + IfElse(az, g.opta[0], 0)
	return
}

func TrilinearInterp16(in, out []uint16, g Grid[uint16]) {
	c, rx, ry, rz := locate_cube16(in, g)
	for i := range g.num_outputs {
		d000, d001, d010, d011, d100, d101, d110, d111 := c.corners(g.table, i)
		dx00 := lerp16(rx, d000, d100)
		dx01 := lerp16(rx, d001, d101)
		dx10 := lerp16(rx, d010, d110)
		dx11 := lerp16(rx, d011, d111)
		dxy0 := lerp16(ry, dx00, dx10)
		dxy1 := lerp16(ry, dx01, dx11)
		out[i] = uint16(lerp16(rz, dxy0, dxy1))
	}
}

func TrilinearInterpFloat(in, out []float32, g Grid[float32]) {
	c, rx, ry, rz := locate_cube_float(in, g)
	for i := range g.num_outputs {
		d000, d001, d010, d011, d100, d101, d110, d111 := c.float_corners(g.table, i)
		dx00 := lerp(rx, d000, d100)
		dx01 := lerp(rx, d001, d101)
		dx10 := lerp(rx, d010, d110)
		dx11 := lerp(rx, d011, d111)
		dxy0 := lerp(ry, dx00, dx10)
		dxy1 := lerp(ry, dx01, dx11)
		out[i] = lerp(rz, dxy0, dxy1)
	}
}
