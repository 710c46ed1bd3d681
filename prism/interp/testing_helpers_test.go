package interp

import (
	"math/rand/v2"
)

// walk_grid calls f for every node of a grid in table order, that is with
// the last axis varying fastest.
func walk_grid(num_samples []int, f func(node []int)) {
	node := make([]int, len(num_samples))
	total := product(num_samples...)
	for range total {
		f(node)
		for a := len(node) - 1; a >= 0; a-- {
			if node[a]++; node[a] < num_samples[a] {
				break
			}
			node[a] = 0
		}
	}
}

func uniform(n, r int) []int {
	ans := make([]int, n)
	for i := range ans {
		ans[i] = r
	}
	return ans
}

// sample_table builds a table whose node values are f evaluated at the
// normalized node position.
func sample_table[T Sample](num_samples []int, num_outputs int, f func(pos []float64, out []float64)) []T {
	ans := make([]T, 0, product(num_samples...)*num_outputs)
	pos := make([]float64, len(num_samples))
	out := make([]float64, num_outputs)
	walk_grid(num_samples, func(node []int) {
		for i, k := range node {
			pos[i] = float64(k) / float64(max(1, num_samples[i]-1))
		}
		f(pos, out)
		for _, v := range out {
			ans = append(ans, T(v))
		}
	})
	return ans
}

func identity_table[T Sample](n, r int, scale float64) []T {
	return sample_table[T](uniform(n, r), n, func(pos, out []float64) {
		for i, p := range pos {
			out[i] = p * scale
		}
	})
}

func random_table[T Sample](rng *rand.Rand, num_samples []int, num_outputs int, scale float64) []T {
	return sample_table[T](num_samples, num_outputs, func(pos, out []float64) {
		for i := range out {
			out[i] = float64(int(rng.Float64() * scale))
		}
	})
}

// multilinear is a direct evaluation of n-linear interpolation summing
// the contributions of every corner of the enclosing cell.
func multilinear(num_samples []int, num_outputs int, table []float64, in []float64, out []float64) {
	n := len(num_samples)
	cells := make([]int, n)
	weights := make([]float64, n)
	for i, v := range in {
		d := num_samples[i] - 1
		pos := v * float64(d)
		cells[i] = min(int(pos), max(0, d-1))
		weights[i] = pos - float64(cells[i])
	}
	for i := range out {
		out[i] = 0
	}
	for corner := range 1 << n {
		w := 1.0
		idx := 0
		for axis := range n {
			k := cells[axis]
			if corner&(1<<axis) != 0 {
				k++
				w *= weights[axis]
			} else {
				w *= 1 - weights[axis]
			}
			idx = idx*num_samples[axis] + k
		}
		if w == 0 {
			continue
		}
		for o := range out {
			out[o] += w * table[idx*num_outputs+o]
		}
	}
}
