package pipeline

import (
	"fmt"
)

var _ = fmt.Println

type XYZ struct{ X, Y, Z float64 }

var D50 = XYZ{0.9642, 1.0, 0.82491}

// Stages mapping between Lab and XYZ values and the normalized [0, 1]
// range used by lookup tables.

func NewNormalizeFromLab() *Matrix {
	return must_matrix(3, 3, diagonal(1/100., 1/255., 1/255.), []float64{0, 128 / 255., 128 / 255.})
}

func NewNormalizeToLab() *Matrix {
	return must_matrix(3, 3, diagonal(100, 255, 255), []float64{0, -128, -128})
}

// XYZ is encoded as u1.15 so that 1 + 32767/32768 maps to 1.0
const xyz_scale = 32768.0 / 65535.0

func NewNormalizeFromXYZ() *Matrix {
	return must_matrix(3, 3, diagonal(xyz_scale, xyz_scale, xyz_scale), nil)
}

func NewNormalizeToXYZ() *Matrix {
	return must_matrix(3, 3, diagonal(1/xyz_scale, 1/xyz_scale, 1/xyz_scale), nil)
}

// Version 2 Lab encodings use 0xff00 for the maximum where version 4 uses
// 0xffff.
func NewLabV2ToV4() *Matrix {
	const s = 65535.0 / 65280.0
	return must_matrix(3, 3, diagonal(s, s, s), nil)
}

func NewLabV4ToV2() *Matrix {
	const s = 65280.0 / 65535.0
	return must_matrix(3, 3, diagonal(s, s, s), nil)
}

// NewBlackPointCorrection maps in_blackpoint onto out_blackpoint in XYZ
// keeping the D50 white point fixed.
func NewBlackPointCorrection(in_blackpoint, out_blackpoint XYZ) (*Matrix, error) {
	tx := in_blackpoint.X - D50.X
	ty := in_blackpoint.Y - D50.Y
	tz := in_blackpoint.Z - D50.Z
	if tx == 0 || ty == 0 || tz == 0 {
		return nil, fmt.Errorf("black point %v coincides with the white point on at least one axis", in_blackpoint)
	}
	scale := []float64{
		(out_blackpoint.X - D50.X) / tx,
		(out_blackpoint.Y - D50.Y) / ty,
		(out_blackpoint.Z - D50.Z) / tz,
	}
	offset := []float64{
		-D50.X * (out_blackpoint.X - in_blackpoint.X) / tx,
		-D50.Y * (out_blackpoint.Y - in_blackpoint.Y) / ty,
		-D50.Z * (out_blackpoint.Z - in_blackpoint.Z) / tz,
	}
	return NewMatrix(3, 3, diagonal(scale...), offset)
}
