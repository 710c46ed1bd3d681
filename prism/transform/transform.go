// Package transform applies a colour pipeline to buffers of pixels,
// splitting the work across all available CPUs.
package transform

import (
	"fmt"

	"github.com/kovidgoyal/go-parallel"

	"github.com/kovidgoyal/cmm/prism/interp"
	"github.com/kovidgoyal/cmm/prism/pipeline"
)

var _ = fmt.Print

// Evaluator maps pixels with InputChannels() values to pixels with
// OutputChannels() values. It must be safe to call from multiple
// goroutines and must allow in and out to share storage, as
// *pipeline.Pipeline does.
type Evaluator interface {
	InputChannels() int
	OutputChannels() int
	Evaluate(in, out []float32)
	Evaluate16(in, out []uint16)
}

var _ Evaluator = (*pipeline.Pipeline)(nil)

// Buffer is a rectangle of interleaved pixels. Stride is the distance in
// values, not bytes, between the starts of consecutive rows. A pixel may
// have more channels than an evaluator uses, the extra channels (for
// example alpha) are copied from the source when the source and
// destination are different buffers.
type Buffer[T interp.Sample] struct {
	Pix                             []T
	Stride, Width, Height, Channels int
}

func NewBuffer[T interp.Sample](width, height, channels int) *Buffer[T] {
	return &Buffer[T]{Pix: make([]T, width*height*channels), Stride: width * channels, Width: width, Height: height, Channels: channels}
}

func (b *Buffer[T]) Row(y int) []T {
	return b.Pix[y*b.Stride : y*b.Stride+b.Width*b.Channels]
}

// Pixel returns the values of the pixel at (x, y)
func (b *Buffer[T]) Pixel(x, y int) []T {
	off := y*b.Stride + x*b.Channels
	return b.Pix[off : off+b.Channels : off+b.Channels]
}

func (b *Buffer[T]) validate(name string) error {
	switch {
	case b == nil:
		return fmt.Errorf("%s buffer is nil", name)
	case b.Width < 0 || b.Height < 0 || b.Channels < 1:
		return fmt.Errorf("%s buffer has invalid size %d × %d × %d", name, b.Width, b.Height, b.Channels)
	case b.Stride < b.Width*b.Channels:
		return fmt.Errorf("%s buffer has stride %d smaller than a row of %d values", name, b.Stride, b.Width*b.Channels)
	case b.Height > 0 && len(b.Pix) < (b.Height-1)*b.Stride+b.Width*b.Channels:
		return fmt.Errorf("%s buffer has %d values which is too few for its size", name, len(b.Pix))
	}
	return nil
}

func check[T interp.Sample](e Evaluator, src, dst *Buffer[T]) error {
	if err := src.validate("source"); err != nil {
		return err
	}
	if err := dst.validate("destination"); err != nil {
		return err
	}
	if src.Width != dst.Width || src.Height != dst.Height {
		return fmt.Errorf("source is %d × %d but destination is %d × %d", src.Width, src.Height, dst.Width, dst.Height)
	}
	if src.Channels < e.InputChannels() {
		return fmt.Errorf("%w: source has %d channels but the transform needs %d", pipeline.ErrChannelMismatch, src.Channels, e.InputChannels())
	}
	if dst.Channels < e.OutputChannels() {
		return fmt.Errorf("%w: destination has %d channels but the transform produces %d", pipeline.ErrChannelMismatch, dst.Channels, e.OutputChannels())
	}
	if e.InputChannels() > interp.MaxStageChannels {
		return fmt.Errorf("%w: transform has %d input channels", interp.ErrRange, e.InputChannels())
	}
	return nil
}

// Apply transforms every pixel of src writing the result into dst, which
// may be the same buffer as src. Rows are processed in parallel.
func Apply[T interp.Sample](e Evaluator, src, dst *Buffer[T]) error {
	if err := check(e, src, dst); err != nil {
		return err
	}
	ni, no := e.InputChannels(), e.OutputChannels()
	extra := min(src.Channels, dst.Channels)
	in_place := src == dst
	var eval func(in, out []T)
	switch f := any(e.Evaluate16).(type) {
	case func(in, out []T):
		eval = f
	default:
		eval = any(e.Evaluate).(func(in, out []T))
	}
	f := func(start, limit int) {
		var in [interp.MaxStageChannels]T
		for y := start; y < limit; y++ {
			srow, drow := src.Row(y), dst.Row(y)
			for range src.Width {
				s, d := srow[:src.Channels:src.Channels], drow[:dst.Channels:dst.Channels]
				copy(in[:ni], s)
				if !in_place && extra > no {
					copy(d[no:extra], s[no:extra])
				}
				eval(in[:ni], d[:no])
				srow, drow = srow[src.Channels:], drow[dst.Channels:]
			}
		}
	}
	return parallel.Run_in_parallel_over_range(0, f, 0, src.Height)
}
