package pipeline

import (
	"fmt"
	"sync"
)

var _ = fmt.Print

var D65 = XYZ{0.95047, 1.0, 1.08883}

var bradford = Matrix3{
	{0.8951, 0.2664, -0.1614},
	{-0.7502, 1.7135, 0.0367},
	{0.0389, -0.0685, 1.0296},
}

// linear sRGB to XYZ relative to D65
var srgb_to_xyz_d65 = Matrix3{
	{0.4124, 0.3576, 0.1805},
	{0.2126, 0.7152, 0.0722},
	{0.0193, 0.1192, 0.9505},
}

// ChromaticAdaptation returns the Bradford matrix that maps XYZ values
// relative to the white point src to values relative to dst.
func ChromaticAdaptation(src, dst XYZ) (Matrix3, error) {
	inv, err := bradford.Inverted()
	if err != nil {
		return Matrix3{}, err
	}
	s := bradford.Transform(src.X, src.Y, src.Z)
	d := bradford.Transform(dst.X, dst.Y, dst.Z)
	if s[0] == 0 || s[1] == 0 || s[2] == 0 {
		return Matrix3{}, fmt.Errorf("white point %v has a zero cone response", src)
	}
	scale := Matrix3{{d[0] / s[0], 0, 0}, {0, d[1] / s[1], 0}, {0, 0, d[2] / s[2]}}
	tmp := scale.Multiply(bradford)
	return inv.Multiply(tmp), nil
}

var srgb_stages = sync.OnceValues(func() (ans [3]Stage, err error) {
	curves := make([]Curve, 3)
	for i := range curves {
		if curves[i], err = NewParametricCurve(SplitFunction, 2.4, 1/1.055, 0.055/1.055, 1/12.92, 0.04045); err != nil {
			return
		}
	}
	if ans[0], err = NewToneCurves(curves...); err != nil {
		return
	}
	adapt, err := ChromaticAdaptation(D65, D50)
	if err != nil {
		return
	}
	m := adapt.Multiply(srgb_to_xyz_d65)
	ans[1] = m.as_stage()
	ans[2] = NewNormalizeFromXYZ()
	return
})

// NewSRGBToXYZ returns a pipeline mapping gamma encoded sRGB to D50 XYZ
// in the normalized encoding used by lookup tables
func NewSRGBToXYZ() (*Pipeline, error) {
	s, err := srgb_stages()
	if err != nil {
		return nil, err
	}
	return NewPipeline(s[:]...)
}

// NewXYZToSRGB is the inverse of NewSRGBToXYZ. Colors outside the sRGB
// gamut are not clipped.
func NewXYZToSRGB() (*Pipeline, error) {
	s, err := srgb_stages()
	if err != nil {
		return nil, err
	}
	m, err := s[1].(*Matrix).Inverted()
	if err != nil {
		return nil, err
	}
	return NewPipeline(NewNormalizeToXYZ(), m, s[0].(*ToneCurves).Inverted())
}
