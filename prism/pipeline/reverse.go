package pipeline

import (
	"fmt"
	"math"
)

var _ = fmt.Print

const (
	inversion_max_iterations = 30
	inversion_max_halvings   = 12
	inversion_tolerance      = 1e-4
	jacobian_epsilon         = 0.001
)

func euclidean_distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// EvaluateReverse finds the input that this pipeline maps to target using
// Newton-Raphson iteration. A step that would increase the error is halved
// until it does not. Only pipelines with three outputs and three or four
// inputs are supported. For four inputs the fourth input is held fixed at
// target[3]. hint, if not nil, is the starting point for the search.
// result always receives the best input found, ErrNotConverged is returned
// if it does not reproduce target to within 1e-4.
func (p *Pipeline) EvaluateReverse(target, result, hint []float32) error {
	n := p.InputChannels()
	if (n != 3 && n != 4) || p.OutputChannels() != 3 {
		return fmt.Errorf("%w: reverse evaluation needs 3 or 4 inputs and 3 outputs not %d and %d", ErrChannelMismatch, n, p.OutputChannels())
	}
	var x, xd, xn, fx, fxd, fn [4]float32
	if hint == nil {
		x[0], x[1], x[2] = 0.3, 0.3, 0.3
	} else {
		copy(x[:3], hint)
	}
	if n == 4 {
		x[3] = target[3]
	}
	p.Evaluate(x[:n], fx[:3])
	e := euclidean_distance(fx[:3], target[:3])
	for range inversion_max_iterations {
		if e == 0 {
			break
		}
		var jacobian Matrix3
		for j := range 3 {
			xd = x
			delta := float32(IfElse(1-x[j] < jacobian_epsilon, -jacobian_epsilon, jacobian_epsilon))
			xd[j] += delta
			p.Evaluate(xd[:n], fxd[:3])
			for i := range 3 {
				jacobian[i][j] = float64(fxd[i]-fx[i]) / float64(delta)
			}
		}
		inv, err := jacobian.Inverted()
		if err != nil {
			copy(result[:n], x[:n])
			return fmt.Errorf("%w: %s", ErrNotConverged, err)
		}
		step := inv.Transform(float64(fx[0]-target[0]), float64(fx[1]-target[1]), float64(fx[2]-target[2]))
		improved := false
		scale := 1.0
		for range inversion_max_halvings {
			xn = x
			for j := range 3 {
				xn[j] = float32(max(0, min(float64(x[j])-scale*step[j], 1)))
			}
			p.Evaluate(xn[:n], fn[:3])
			if en := euclidean_distance(fn[:3], target[:3]); en < e {
				x, fx, e = xn, fn, en
				improved = true
				break
			}
			scale /= 2
		}
		if !improved {
			break
		}
	}
	copy(result[:n], x[:n])
	if e > inversion_tolerance {
		return fmt.Errorf("%w: closest input %v is still %g away from the target", ErrNotConverged, x[:n], e)
	}
	return nil
}
