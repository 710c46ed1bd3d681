package transform

import (
	"fmt"
	"image"
	"image/color"

	"github.com/kovidgoyal/go-parallel"

	"github.com/kovidgoyal/cmm/prism/pipeline"
)

var _ = fmt.Print

func from8(x uint8) uint16 { return uint16(x) * 0x101 }
func to8(x uint16) uint8   { return uint8((uint32(x)*0xff01 + 0x800000) >> 24) }

func unpremultiply(r, a uint32) uint16 {
	return uint16((r * 0xffff) / a)
}

func premultiply(r, a uint32) uint16 {
	return uint16((r * a) / 0xffff)
}

func get16(s []uint8) uint16    { return uint16(s[0])<<8 | uint16(s[1]) }
func set16(s []uint8, v uint16) { s[0], s[1] = uint8(v>>8), uint8(v) }

func needs(e Evaluator, in, out int) error {
	if e.InputChannels() != in || e.OutputChannels() != out {
		return fmt.Errorf("%w: image needs a transform from %d to %d channels not from %d to %d", pipeline.ErrChannelMismatch, in, out, e.InputChannels(), e.OutputChannels())
	}
	return nil
}

// ApplyImage transforms the colors of img. Images whose pixel format can
// hold the result are modified in place and returned. CMYK images are
// converted into a new *image.NRGBA and any other image type into a new
// *image.NRGBA64. Alpha is preserved and fully transparent pixels are left
// alone.
func ApplyImage(e Evaluator, img image.Image) (ans image.Image, err error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return img, nil
	}
	ans = img
	var f func(start, limit int)
	switch img := img.(type) {
	case *image.Gray:
		if err = needs(e, 1, 1); err != nil {
			return nil, err
		}
		f = func(start, limit int) {
			var v [1]uint16
			for y := start; y < limit; y++ {
				row := img.Pix[img.Stride*y : img.Stride*y+width]
				for x, p := range row {
					v[0] = from8(p)
					e.Evaluate16(v[:], v[:])
					row[x] = to8(v[0])
				}
			}
		}
	case *image.Gray16:
		if err = needs(e, 1, 1); err != nil {
			return nil, err
		}
		f = func(start, limit int) {
			var v [1]uint16
			for y := start; y < limit; y++ {
				row := img.Pix[img.Stride*y : img.Stride*y+2*width]
				for ; len(row) > 0; row = row[2:] {
					v[0] = get16(row)
					e.Evaluate16(v[:], v[:])
					set16(row, v[0])
				}
			}
		}
	case *image.NRGBA:
		if err = needs(e, 3, 3); err != nil {
			return nil, err
		}
		f = func(start, limit int) {
			var v [3]uint16
			for y := start; y < limit; y++ {
				row := img.Pix[img.Stride*y : img.Stride*y+4*width]
				for ; len(row) > 0; row = row[4:] {
					if row[3] == 0 {
						continue
					}
					v[0], v[1], v[2] = from8(row[0]), from8(row[1]), from8(row[2])
					e.Evaluate16(v[:], v[:])
					row[0], row[1], row[2] = to8(v[0]), to8(v[1]), to8(v[2])
				}
			}
		}
	case *image.NRGBA64:
		if err = needs(e, 3, 3); err != nil {
			return nil, err
		}
		f = func(start, limit int) {
			var v [3]uint16
			for y := start; y < limit; y++ {
				row := img.Pix[img.Stride*y : img.Stride*y+8*width]
				for ; len(row) > 0; row = row[8:] {
					if get16(row[6:]) == 0 {
						continue
					}
					v[0], v[1], v[2] = get16(row), get16(row[2:]), get16(row[4:])
					e.Evaluate16(v[:], v[:])
					set16(row, v[0])
					set16(row[2:], v[1])
					set16(row[4:], v[2])
				}
			}
		}
	case *image.RGBA64:
		if err = needs(e, 3, 3); err != nil {
			return nil, err
		}
		f = func(start, limit int) {
			var v [3]uint16
			for y := start; y < limit; y++ {
				row := img.Pix[img.Stride*y : img.Stride*y+8*width]
				for ; len(row) > 0; row = row[8:] {
					a := uint32(get16(row[6:]))
					if a == 0 {
						continue
					}
					for i := range v {
						v[i] = unpremultiply(uint32(get16(row[2*i:])), a)
					}
					e.Evaluate16(v[:], v[:])
					for i, c := range v {
						set16(row[2*i:], premultiply(uint32(c), a))
					}
				}
			}
		}
	case *image.CMYK:
		if err = needs(e, 4, 3); err != nil {
			return nil, err
		}
		d := image.NewNRGBA(b)
		ans = d
		f = func(start, limit int) {
			var in [4]uint16
			var out [3]uint16
			for y := start; y < limit; y++ {
				src := img.Pix[img.Stride*y : img.Stride*y+4*width]
				dst := d.Pix[d.Stride*y : d.Stride*y+4*width]
				for ; len(src) > 0; src, dst = src[4:], dst[4:] {
					in[0], in[1], in[2], in[3] = from8(src[0]), from8(src[1]), from8(src[2]), from8(src[3])
					e.Evaluate16(in[:], out[:])
					dst[0], dst[1], dst[2], dst[3] = to8(out[0]), to8(out[1]), to8(out[2]), 0xff
				}
			}
		}
	default:
		if err = needs(e, 3, 3); err != nil {
			return nil, err
		}
		d := image.NewNRGBA64(b)
		ans = d
		f = func(start, limit int) {
			var v [3]uint16
			for y := start; y < limit; y++ {
				row := d.Pix[d.Stride*y:]
				for x := range width {
					c := color.NRGBA64Model.Convert(img.At(x+b.Min.X, y+b.Min.Y)).(color.NRGBA64)
					if c.A != 0 {
						v[0], v[1], v[2] = c.R, c.G, c.B
						e.Evaluate16(v[:], v[:])
						c.R, c.G, c.B = v[0], v[1], v[2]
					}
					s := row[8*x : 8*x+8 : 8*x+8]
					set16(s, c.R)
					set16(s[2:], c.G)
					set16(s[4:], c.B)
					set16(s[6:], c.A)
				}
			}
		}
	}
	if err = parallel.Run_in_parallel_over_range(0, f, 0, height); err != nil {
		return nil, err
	}
	return
}
