package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovidgoyal/cmm/prism/interp"
)

var _ = fmt.Print

func TestCLut(t *testing.T) {
	t.Run("ZeroTable", func(t *testing.T) {
		c, err := NewCLut16([]int{3, 3, 3}, 3, 4, nil, interp.Flag16Bits, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, c.InputChannels())
		assert.Equal(t, 4, c.OutputChannels())
		assert.Len(t, c.Table16(), 3*3*3*4)
		assert.Nil(t, c.TableFloat())
		assert.Equal(t, []float32{0, 0, 0, 0}, eval_stage(c, 0.2, 0.4, 0.6))
		f, err := NewCLutFloat([]int{2, 2}, 2, 1, nil, 0, nil)
		require.NoError(t, err)
		assert.False(t, f.Is16Bit())
		assert.True(t, f.Flags().IsFloat())
		assert.Len(t, f.TableFloat(), 4)
	})
	t.Run("InPipeline", func(t *testing.T) {
		curves, err := NewIdentityCurves(3)
		require.NoError(t, err)
		c16, err := NewCLut16([]int{2, 2, 2}, 3, 3, nil, interp.Flag16Bits, nil)
		require.NoError(t, err)
		cf, err := NewCLutFloat([]int{2, 2, 2}, 3, 2, nil, interp.FlagTrilinear, nil)
		require.NoError(t, err)
		assert.Equal(t, interp.Flag16Bits, c16.Flags())
		assert.Equal(t, interp.FlagFloat|interp.FlagTrilinear, cf.Flags())
		assert.Equal(t, 2, cf.OutputChannels())
		p, err := NewPipeline(curves, c16, cf)
		require.NoError(t, err)
		assert.True(t, p.IsSuitableFor(3, 2))
		out := []float32{9, 9}
		p.Evaluate([]float32{0.1, 0.5, 0.9}, out)
		assert.Equal(t, []float32{0, 0}, out)

		id, err := NewIdentityCLut(3)
		require.NoError(t, err)
		p, err = NewPipeline(id)
		require.NoError(t, err)
		out = make([]float32, 3)
		p.Evaluate([]float32{0.25, 0.5, 0.75}, out)
		assert.InDeltaSlice(t, []float32{0.25, 0.5, 0.75}, out, 2./65535)
	})
	t.Run("16BitConversion", func(t *testing.T) {
		c, err := NewCLut16([]int{2}, 1, 1, []uint16{0, 0xffff}, interp.FlagFloat, nil)
		require.NoError(t, err)
		assert.True(t, c.Is16Bit())
		assert.False(t, c.Flags().IsFloat())
		out := eval_stage(c, 0.5)
		assert.Equal(t, float32(32768)/65535, out[0])
		assert.Equal(t, []float32{1}, eval_stage(c, 2))
		assert.Equal(t, []float32{0}, eval_stage(c, -2))
	})
	t.Run("Errors", func(t *testing.T) {
		_, err := NewCLut16([]int{2, 2}, 3, 1, nil, 0, nil)
		require.ErrorIs(t, err, interp.ErrInvalidGrid)
		_, err = NewCLut16([]int{2, 2}, 2, 1, make([]uint16, 5), 0, nil)
		require.ErrorIs(t, err, interp.ErrInvalidGrid)
		_, err = NewCLutFloat(make([]int, 16), 16, 1, nil, 0, nil)
		require.ErrorIs(t, err, interp.ErrRange)
		_, err = NewCLutFloat([]int{2}, 1, 200, nil, 0, nil)
		require.ErrorIs(t, err, interp.ErrRange)
		_, err = NewCLut16([]int{2, 0}, 2, 1, nil, 0, nil)
		require.ErrorIs(t, err, interp.ErrInvalidGrid)
	})
	t.Run("TrilinearSwitch", func(t *testing.T) {
		c, err := NewIdentityCLut(3)
		require.NoError(t, err)
		assert.Equal(t, "Tetrahedral", c.p16.Evaluator().Name)
		tc, err := c.with_flags(interp.FlagTrilinear)
		require.NoError(t, err)
		assert.Equal(t, "Trilinear", tc.p16.Evaluator().Name)
		assert.Equal(t, c.Table16(), tc.Table16())
	})
}

func TestSampling(t *testing.T) {
	t.Run("Positions", func(t *testing.T) {
		var seen [][]uint16
		table, err := SampleTable16([]int{3, 2}, 1, func(in, out []uint16) error {
			seen = append(seen, []uint16{in[0], in[1]})
			out[0] = uint16(len(seen))
			return nil
		})
		require.NoError(t, err)
		expected := [][]uint16{{0, 0}, {0, 0xffff}, {0x8000, 0}, {0x8000, 0xffff}, {0xffff, 0}, {0xffff, 0xffff}}
		if diff := cmp.Diff(expected, seen); diff != "" {
			t.Fatalf("unexpected node positions: %s", diff)
		}
		assert.Equal(t, []uint16{1, 2, 3, 4, 5, 6}, table)
	})
	t.Run("Float", func(t *testing.T) {
		table, err := SampleTableFloat([]int{5}, 2, func(in, out []float32) error {
			out[0], out[1] = in[0], 1-in[0]
			return nil
		})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float32{0, 1, 0.25, 0.75, 0.5, 0.5, 0.75, 0.25, 1, 0}, table, 1e-4)
	})
	t.Run("Abort", func(t *testing.T) {
		stop := errors.New("stop")
		calls := 0
		_, err := SampleTable16([]int{4, 4}, 1, func(in, out []uint16) error {
			if calls++; calls == 3 {
				return stop
			}
			return nil
		})
		require.ErrorIs(t, err, stop)
		assert.Equal(t, 3, calls)
	})
	t.Run("Errors", func(t *testing.T) {
		_, err := SampleTable16([]int{4, 1}, 1, func(in, out []uint16) error { return nil })
		require.ErrorIs(t, err, interp.ErrInvalidGrid)
		_, err = SampleTableFloat(nil, 1, func(in, out []float32) error { return nil })
		require.ErrorIs(t, err, interp.ErrRange)
		_, err = SampleTableFloat([]int{2}, 0, func(in, out []float32) error { return nil })
		require.ErrorIs(t, err, interp.ErrRange)
	})
	t.Run("IdentityCLut", func(t *testing.T) {
		for _, n := range []int{1, 3, 4, 7} {
			c, err := NewIdentityCLut(n)
			require.NoError(t, err)
			in := make([]float32, n)
			for i := range in {
				in[i] = float32(i+1) / float32(n+1)
			}
			assert.InDeltaSlice(t, in, eval_stage(c, in...), 2./65535)
		}
	})
	t.Run("FromPipeline", func(t *testing.T) {
		m, err := NewMatrix(3, 3, []float64{0.5, 0.25, 0, 0, 0.5, 0.25, 0.25, 0, 0.5}, []float64{0.1, 0.1, 0.1})
		require.NoError(t, err)
		p, err := NewPipeline(m)
		require.NoError(t, err)
		c, err := NewSampledCLut16([]int{9, 9, 9}, p, interp.Flag16Bits, nil)
		require.NoError(t, err)
		in := []float32{0.3, 0.6, 0.9}
		expected := make([]float32, 3)
		p.Evaluate(in, expected)
		assert.InDeltaSlice(t, expected, eval_stage(c, in...), 4./65535)
		_, err = NewSampledCLut16([]int{9, 9}, p, interp.Flag16Bits, nil)
		require.ErrorIs(t, err, ErrChannelMismatch)
	})
}
