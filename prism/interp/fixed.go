package interp

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

var _ = fmt.Print

// Positions within a grid are s15.16 fixed point numbers: the upper bits
// are the cell index and the lower 16 bits the offset into the cell. They
// are carried in an int so that large grids cannot overflow.

// ToFixedDomain maps a 16-bit quantity onto the [0, 1.0] fixed point range
// so that 0xffff maps exactly onto 0x10000.
func ToFixedDomain(a int) int { return a + (a+0x7fff)/0xffff }

// FromFixedDomain is the inverse of ToFixedDomain.
func FromFixedDomain(a int) int { return a - ((a + 0x7fff) >> 16) }

func FixedToInt(x int) int           { return x >> 16 }
func FixedRestToInt(x int) int       { return x & 0xffff }
func RoundFixedToInt(x int) int      { return (x + 0x8000) >> 16 }
func From16ToFloat(x uint16) float32 { return float32(x) / 65535 }

// LinearInterp blends l and h by a, where a is the 16-bit fraction of the
// distance from l to h. Arithmetic wraps the same way the 16-bit result
// does so intermediate sign does not matter.
func LinearInterp(a, l, h int) uint16 {
	return uint16(l + ((h-l)*a+0x8000)>>16)
}

const double2fixmagic = 68719476736.0 * 1.5 // 2^36 * 1.5

// QuickFloor rounds down using the IEEE 754 mantissa trick. It is only
// valid for values that fit in a signed 16.16 number.
func QuickFloor(val float64) int {
	return int(int32(math.Float64bits(val+double2fixmagic)) >> 16)
}

func QuickFloorWord(d float64) uint16 {
	return uint16(QuickFloor(d-32767) + 32767)
}

// QuickSaturateWord rounds d to the nearest integer and clamps it to the
// 16-bit range.
func QuickSaturateWord(d float64) uint16 {
	d += 0.5
	switch {
	case d <= 0:
		return 0
	case d >= 65535:
		return 0xffff
	}
	return QuickFloorWord(d)
}

// FromFloatTo16 converts a value in [0, 1] to 16-bit with saturation.
func FromFloatTo16(v float32) uint16 { return QuickSaturateWord(float64(v) * 65535) }

// fclamp clamps to [0, 1] sending NaN and tiny values to zero.
func fclamp[F constraints.Float](v F) F {
	switch {
	case v < 1e-9 || v != v:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func lerp[F constraints.Float](a, l, h F) F { return l + F((h-l)*a) }

func product[T constraints.Integer](x ...T) (ans T) {
	ans = 1
	for _, q := range x {
		ans *= q
	}
	return
}
