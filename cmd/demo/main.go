package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/kettek/apng"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kovidgoyal/cmm/prism/interp"
	"github.com/kovidgoyal/cmm/prism/pipeline"
	"github.com/kovidgoyal/cmm/prism/transform"
)

var _ = fmt.Print

// desaturate builds a pipeline that halves the saturation of gamma encoded
// RGB in linear light and then bakes it into a 17 point lookup table
func desaturate() (*pipeline.Pipeline, error) {
	decode, encode := make([]pipeline.Curve, 3), make([]pipeline.Curve, 3)
	for i := range 3 {
		d, err := pipeline.NewGammaCurve(2.2)
		if err != nil {
			return nil, err
		}
		e, err := pipeline.NewGammaCurve(1 / 2.2)
		if err != nil {
			return nil, err
		}
		decode[i], encode[i] = d, e
	}
	dc, err := pipeline.NewToneCurves(decode...)
	if err != nil {
		return nil, err
	}
	ec, err := pipeline.NewToneCurves(encode...)
	if err != nil {
		return nil, err
	}
	const s = 0.5
	lr, lg, lb := 0.2126*(1-s), 0.7152*(1-s), 0.0722*(1-s)
	m, err := pipeline.NewMatrix(3, 3, []float64{
		lr + s, lg, lb,
		lr, lg + s, lb,
		lr, lg, lb + s,
	}, nil)
	if err != nil {
		return nil, err
	}
	exact, err := pipeline.NewPipeline(dc, m, ec)
	if err != nil {
		return nil, err
	}
	fmt.Println("Sampling:", exact)
	clut, err := pipeline.NewSampledCLut16([]int{17, 17, 17}, exact, interp.Flag16Bits, nil)
	if err != nil {
		return nil, err
	}
	return pipeline.NewPipeline(clut)
}

func transform_frames(p *pipeline.Pipeline, anim *apng.APNG) (err error) {
	for i := range anim.Frames {
		if anim.Frames[i].Image, err = transform.ApplyImage(p, anim.Frames[i].Image); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return
}

func main() {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}()
	if len(os.Args) == 1 || len(os.Args) > 3 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/demo input-file [output-file]")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		return
	}
	p, err := desaturate()
	if err != nil {
		return
	}
	fmt.Println("Applying:", p)
	var img image.Image
	anim, aerr := apng.DecodeAll(bytes.NewReader(data))
	is_animated := aerr == nil && len(anim.Frames) > 1
	if is_animated {
		if err = transform_frames(p, &anim); err != nil {
			return
		}
	} else {
		if img, _, err = image.Decode(bytes.NewReader(data)); err != nil {
			return
		}
		if img, err = transform.ApplyImage(p, img); err != nil {
			return
		}
	}
	ext := ".png"
	if is_animated {
		ext = ".apng"
	}
	output_file := os.Args[1] + ext
	if len(os.Args) == 3 {
		output_file = os.Args[2]
	}
	out, err := os.OpenFile(output_file, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return
	}
	defer out.Close()
	if is_animated {
		err = apng.Encode(out, anim)
	} else {
		err = png.Encode(out, img)
	}
	if err == nil {
		fmt.Println("PNG saved to:", output_file)
	}
}
