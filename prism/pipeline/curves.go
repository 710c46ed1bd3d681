package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/kovidgoyal/cmm/prism/interp"
)

var _ = fmt.Print

// Curve is a one dimensional transfer function on normalized values
type Curve interface {
	Transform(x float64) float64
	InverseTransform(y float64) float64
	String() string
}

type IdentityCurve int

var _ Curve = IdentityCurve(0)
var _ Curve = (*ParametricCurve)(nil)
var _ Curve = (*TabulatedCurve)(nil)

func (c IdentityCurve) Transform(x float64) float64        { return x }
func (c IdentityCurve) InverseTransform(y float64) float64 { return y }
func (c IdentityCurve) String() string                     { return "IdentityCurve" }

// ParametricCurveFunction identifies one of the ICC parametric curve
// families.
type ParametricCurveFunction uint16

const (
	SimpleGammaFunction     ParametricCurveFunction = 0 // Y = X^g
	ConditionalZeroFunction ParametricCurveFunction = 1 // Y = (aX+b)^g for X >= -b/a, else 0
	ConditionalCFunction    ParametricCurveFunction = 2 // Y = (aX+b)^g + c for X >= -b/a, else c
	SplitFunction           ParametricCurveFunction = 3 // Y = (aX+b)^g for X >= d, else cX
	ComplexFunction         ParametricCurveFunction = 4 // Y = (aX+b)^g + e for X >= d, else cX+f
)

var num_parameters = [...]int{1, 3, 4, 5, 7}

func (f ParametricCurveFunction) String() string {
	switch f {
	case SimpleGammaFunction:
		return "Gamma"
	case ConditionalZeroFunction:
		return "ConditionalZero"
	case ConditionalCFunction:
		return "ConditionalC"
	case SplitFunction:
		return "Split"
	case ComplexFunction:
		return "Complex"
	}
	return fmt.Sprintf("ParametricCurveFunction(%d)", uint16(f))
}

type ParametricCurve struct {
	kind                ParametricCurveFunction
	g, a, b, c, d, e, f float64
	inv_g, inv_a, inv_c float64
	threshold           float64
	is_one              bool
}

// NewGammaCurve returns Y = X^gamma
func NewGammaCurve(gamma float64) (*ParametricCurve, error) {
	return NewParametricCurve(SimpleGammaFunction, gamma)
}

// NewParametricCurve creates a curve of the specified family. params are
// in the order g, a, b, c, d, e, f and their number must match the family.
func NewParametricCurve(kind ParametricCurveFunction, params ...float64) (*ParametricCurve, error) {
	if int(kind) >= len(num_parameters) {
		return nil, fmt.Errorf("unknown parametric function type: %d", kind)
	}
	if len(params) != num_parameters[kind] {
		return nil, fmt.Errorf("%s curve needs %d parameters not %d", kind, num_parameters[kind], len(params))
	}
	var p [7]float64
	copy(p[:], params)
	c := &ParametricCurve{kind: kind, g: p[0], a: p[1], b: p[2], c: p[3], d: p[4], e: p[5], f: p[6]}
	if c.g == 0 {
		return nil, fmt.Errorf("%s curve has zero gamma value", kind)
	}
	c.inv_g = 1 / c.g
	switch kind {
	case SimpleGammaFunction:
		c.is_one = math.Abs(c.g-1) < 0.0001
	case ConditionalZeroFunction, ConditionalCFunction:
		if c.a == 0 {
			return nil, fmt.Errorf("%s curve has zero parameter value: a=%v", kind, c.a)
		}
		c.inv_a, c.threshold = 1/c.a, -c.b/c.a
	case SplitFunction, ComplexFunction:
		if c.a == 0 || c.c == 0 {
			return nil, fmt.Errorf("%s curve has zero parameter value: a=%v or c=%v", kind, c.a, c.c)
		}
		c.inv_a, c.inv_c = 1/c.a, 1/c.c
		c.threshold = math.Pow(c.a*c.d+c.b, c.g) + IfElse(kind == ComplexFunction, c.e, 0)
	}
	return c, nil
}

func (c *ParametricCurve) Kind() ParametricCurveFunction { return c.kind }

func (c *ParametricCurve) Transform(x float64) float64 {
	switch c.kind {
	case SimpleGammaFunction:
		if x < 0 {
			return IfElse(c.is_one, x, 0)
		}
		return math.Pow(x, c.g)
	case ConditionalZeroFunction:
		if x >= c.threshold {
			if e := c.a*x + c.b; e > 0 {
				return math.Pow(e, c.g)
			}
		}
		return 0
	case ConditionalCFunction:
		if x >= c.threshold {
			if e := c.a*x + c.b; e > 0 {
				return math.Pow(e, c.g) + c.c
			}
		}
		return c.c
	case SplitFunction:
		if x >= c.d {
			if e := c.a*x + c.b; e > 0 {
				return math.Pow(e, c.g)
			}
			return 0
		}
		return c.c * x
	default:
		if x >= c.d {
			if e := c.a*x + c.b; e > 0 {
				return math.Pow(e, c.g) + c.e
			}
			return c.e
		}
		return c.c*x + c.f
	}
}

func (c *ParametricCurve) InverseTransform(y float64) float64 {
	switch c.kind {
	case SimpleGammaFunction:
		if y < 0 {
			return IfElse(c.is_one, y, 0)
		}
		return math.Pow(y, c.inv_g)
	case ConditionalZeroFunction:
		// clamps at zero rather than -b/a
		return max(0, (math.Pow(max(0, y), c.inv_g)-c.b)*c.inv_a)
	case ConditionalCFunction:
		if e := y - c.c; e >= 0 {
			return (math.Pow(e, c.inv_g) - c.b) * c.inv_a
		}
		return c.threshold
	case SplitFunction:
		if y < c.threshold {
			return y * c.inv_c
		}
		return (math.Pow(y, c.inv_g) - c.b) * c.inv_a
	default:
		if y < c.threshold {
			return (y - c.f) * c.inv_c
		}
		if e := y - c.e; e > 0 {
			return (math.Pow(e, c.inv_g) - c.b) * c.inv_a
		}
		return 0
	}
}

func (c *ParametricCurve) String() string {
	switch c.kind {
	case SimpleGammaFunction:
		return fmt.Sprintf("GammaCurve{%v}", c.g)
	case ConditionalZeroFunction:
		return fmt.Sprintf("ConditionalZeroCurve{g: %v a: %v b: %v}", c.g, c.a, c.b)
	case ConditionalCFunction:
		return fmt.Sprintf("ConditionalCCurve{g: %v a: %v b: %v c: %v}", c.g, c.a, c.b, c.c)
	case SplitFunction:
		return fmt.Sprintf("SplitCurve{g: %v a: %v b: %v c: %v d: %v}", c.g, c.a, c.b, c.c, c.d)
	}
	return fmt.Sprintf("ComplexCurve{g: %v a: %v b: %v c: %v d: %v e: %v f: %v}", c.g, c.a, c.b, c.c, c.d, c.e, c.f)
}

// TabulatedCurve is a curve sampled at evenly spaced points over [0, 1]
// and linearly interpolated between them.
type TabulatedCurve struct {
	p16     *interp.Params[uint16]
	pf      *interp.Params[float32]
	reverse *interp.Params[float32]
	size    int
}

// NewTabulatedCurve16 creates a curve from 16-bit samples where 0xffff
// represents 1.0
func NewTabulatedCurve16(table []uint16) (*TabulatedCurve, error) {
	p, err := interp.New([]int{len(table)}, table, 1, 1, interp.Flag16Bits, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid tone curve: %w", err)
	}
	points := make([]float64, len(table))
	for i, v := range table {
		points[i] = float64(v) / 65535
	}
	ans := &TabulatedCurve{p16: p, size: len(table)}
	if ans.reverse, err = reverse_lookup(points); err != nil {
		return nil, err
	}
	return ans, nil
}

func NewTabulatedCurveFloat(table []float32) (*TabulatedCurve, error) {
	p, err := interp.New([]int{len(table)}, table, 1, 1, interp.FlagFloat, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid tone curve: %w", err)
	}
	points := make([]float64, len(table))
	for i, v := range table {
		points[i] = float64(v)
	}
	ans := &TabulatedCurve{pf: p, size: len(table)}
	if ans.reverse, err = reverse_lookup(points); err != nil {
		return nil, err
	}
	return ans, nil
}

func (c *TabulatedCurve) Transform(x float64) float64 {
	if c.p16 != nil {
		var in, out [1]uint16
		in[0] = interp.FromFloatTo16(float32(x))
		c.p16.Eval(in[:], out[:])
		return float64(interp.From16ToFloat(out[0]))
	}
	var in, out [1]float32
	in[0] = float32(x)
	c.pf.Eval(in[:], out[:])
	return float64(out[0])
}

func (c *TabulatedCurve) InverseTransform(y float64) float64 {
	var in, out [1]float32
	in[0] = float32(y)
	c.reverse.Eval(in[:], out[:])
	return float64(out[0])
}

func (c *TabulatedCurve) Len() int { return c.size }

func (c *TabulatedCurve) String() string {
	return fmt.Sprintf("TabulatedCurve{%d %s}", c.size, IfElse(c.p16 != nil, "16bit", "float"))
}

// reverse_lookup samples the inverse of a monotonic table over [0, 1].
// Values outside the range of the table map to the nearest end.
func reverse_lookup(points []float64) (*interp.Params[float32], error) {
	n := max(256, len(points))
	ans := make([]float32, n)
	if len(points) > 1 {
		last := len(points) - 1
		for i := range ans {
			y := float64(i) / float64(n-1)
			idx := get_interval(points, y)
			if idx < 0 {
				ans[i] = IfElse(math.Abs(y-points[0]) < math.Abs(y-points[last]), float32(0), 1)
				continue
			}
			y1, y2 := points[idx], points[idx+1]
			frac := 0.0
			if y2 != y1 {
				frac = (y - y1) / (y2 - y1)
			}
			ans[i] = float32((float64(idx) + frac) / float64(last))
		}
	}
	return interp.New([]int{n}, ans, 1, 1, interp.FlagFloat, nil)
}

func get_interval(lookup []float64, y float64) int {
	for i := range len(lookup) - 1 {
		y0, y1 := lookup[i], lookup[i+1]
		if y1 < y0 {
			y0, y1 = y1, y0
		}
		if y0 <= y && y <= y1 {
			return i
		}
	}
	return -1
}

func curve_is_nil(c Curve) bool {
	switch c := c.(type) {
	case *ParametricCurve:
		return c == nil
	case *TabulatedCurve:
		return c == nil
	case inverse_curve:
		return curve_is_nil(c.c)
	}
	return c == nil
}

// ToneCurves applies one curve per channel
type ToneCurves struct {
	curves []Curve
}

func NewToneCurves(curves ...Curve) (*ToneCurves, error) {
	if err := check_channels("tone curves stage", len(curves)); err != nil {
		return nil, err
	}
	for i, c := range curves {
		if curve_is_nil(c) {
			return nil, fmt.Errorf("tone curve for channel %d is nil", i)
		}
	}
	return &ToneCurves{curves: append([]Curve(nil), curves...)}, nil
}

func NewIdentityCurves(n int) (*ToneCurves, error) {
	curves := make([]Curve, n)
	for i := range curves {
		curves[i] = IdentityCurve(0)
	}
	return NewToneCurves(curves...)
}

func (c *ToneCurves) is_stage()           {}
func (c *ToneCurves) InputChannels() int  { return len(c.curves) }
func (c *ToneCurves) OutputChannels() int { return len(c.curves) }
func (c *ToneCurves) Curves() []Curve     { return append([]Curve(nil), c.curves...) }

func (c *ToneCurves) IsIdentity() bool {
	for _, x := range c.curves {
		switch q := x.(type) {
		case IdentityCurve:
		case *ParametricCurve:
			if !(q.kind == SimpleGammaFunction && q.g == 1) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (c *ToneCurves) eval(in, out []float32) {
	for i, x := range c.curves {
		out[i] = float32(x.Transform(float64(in[i])))
	}
}

// Inverted returns a stage applying the inverse of every curve
func (c *ToneCurves) Inverted() *ToneCurves {
	curves := make([]Curve, len(c.curves))
	for i, x := range c.curves {
		curves[i] = inverse_curve{x}
	}
	return &ToneCurves{curves: curves}
}

type inverse_curve struct{ c Curve }

func (c inverse_curve) Transform(x float64) float64        { return c.c.InverseTransform(x) }
func (c inverse_curve) InverseTransform(y float64) float64 { return c.c.Transform(y) }
func (c inverse_curve) String() string                     { return "Inverse" + c.c.String() }

func (c *ToneCurves) String() string {
	items := make([]string, len(c.curves))
	for i, x := range c.curves {
		items[i] = x.String()
	}
	return fmt.Sprintf("ToneCurves{%s}", strings.Join(items, ", "))
}
