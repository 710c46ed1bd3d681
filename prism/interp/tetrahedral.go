package interp

import (
	"fmt"
)

var _ = fmt.Print

// TetrahedralInterp16 splits the cube containing the input into six
// tetrahedra along its main diagonal and interpolates within the one
// holding the input.
func TetrahedralInterp16(in, out []uint16, g Grid[uint16]) {
	x0, frx, ax := fixed_cell(in[0], g.domain[0])
	y0, fry, ay := fixed_cell(in[1], g.domain[1])
	z0, frz, az := fixed_cell(in[2], g.domain[2])
	rx, ry, rz := int32(frx), int32(fry), int32(frz)
	base := x0*g.opta[2] + y0*g.opta[1] + z0*g.opta[0]
	X1 := IfElse(ax, g.opta[2], 0)
	Y1 := IfElse(ay, g.opta[1], 0)
	Z1 := IfElse(az, g.opta[0], 0)
	t := g.table[base:]

	// The exact result would be RoundFixedToInt(ToFixedDomain(Rest)). Adding
	// 0x8001 and folding the high half back in is the same except for being
	// off by one at 0x7fff and 0x17ffe.
	emit := func(i int, c0, c1, c2, c3 int32) {
		rest := c1*rx + c2*ry + c3*rz + 0x8001
		out[i] = uint16(c0 + ((rest + (rest >> 16)) >> 16))
	}
	at := func(off int) int32 { return int32(t[off]) }

	if rx >= ry {
		switch {
		case ry >= rz:
			Y1 += X1
			Z1 += Y1
			for i := range g.num_outputs {
				c0, c1, c2, c3 := at(i), at(X1+i), at(Y1+i), at(Z1+i)
				emit(i, c0, c1-c0, c2-c1, c3-c2)
			}
		case rz >= rx:
			X1 += Z1
			Y1 += X1
			for i := range g.num_outputs {
				c0, c1, c2, c3 := at(i), at(X1+i), at(Y1+i), at(Z1+i)
				emit(i, c0, c1-c3, c2-c1, c3-c0)
			}
		default:
			Z1 += X1
			Y1 += Z1
			for i := range g.num_outputs {
				c0, c1, c2, c3 := at(i), at(X1+i), at(Y1+i), at(Z1+i)
				emit(i, c0, c1-c0, c2-c3, c3-c1)
			}
		}
	} else {
		switch {
		case rx >= rz:
			X1 += Y1
			Z1 += X1
			for i := range g.num_outputs {
				c0, c1, c2, c3 := at(i), at(X1+i), at(Y1+i), at(Z1+i)
				emit(i, c0, c1-c2, c2-c0, c3-c1)
			}
		case ry >= rz:
			Z1 += Y1
			X1 += Z1
			for i := range g.num_outputs {
				c0, c1, c2, c3 := at(i), at(X1+i), at(Y1+i), at(Z1+i)
				emit(i, c0, c1-c3, c2-c0, c3-c2)
			}
		default:
			Y1 += Z1
			X1 += Y1
			for i := range g.num_outputs {
				c0, c1, c2, c3 := at(i), at(X1+i), at(Y1+i), at(Z1+i)
				emit(i, c0, c1-c2, c2-c3, c3-c0)
			}
		}
	}
}

func TetrahedralInterpFloat(in, out []float32, g Grid[float32]) {
	c, rx, ry, rz := locate_cube_float(in, g)
	t := g.table
	for i := range g.num_outputs {
		d000, d001, d010, d011, d100, d101, d110, d111 := c.float_corners(t, i)
		c0 := d000
		var c1, c2, c3 float32
		switch {
		case rx >= ry && ry >= rz:
			c1, c2, c3 = d100-c0, d110-d100, d111-d110
		case rx >= rz && rz >= ry:
			c1, c2, c3 = d100-c0, d111-d101, d101-d100
		case rz >= rx && rx >= ry:
			c1, c2, c3 = d101-d001, d111-d101, d001-c0
		case ry >= rx && rx >= rz:
			c1, c2, c3 = d110-d010, d010-c0, d111-d110
		case ry >= rz && rz >= rx:
			c1, c2, c3 = d111-d011, d010-c0, d011-d010
		case rz >= ry && ry >= rx:
			c1, c2, c3 = d111-d011, d011-d001, d001-c0
		}
		out[i] = c0 + float32(c1*rx) + float32(c2*ry) + float32(c3*rz)
	}
}
