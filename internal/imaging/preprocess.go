package imaging

import (
	"bytes"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Profile describes how an image is prepared before it is handed to the
// Tesseract engine.
type Profile struct {
	// MaxDimension caps the longer side in pixels. Zero keeps the original size.
	MaxDimension int

	// Grayscale drops colour information.
	Grayscale bool

	// Sharpen applies a 3x3 sharpening kernel.
	Sharpen bool

	// AutoInvert flips images that are mostly dark so text ends up dark on a
	// light background.
	AutoInvert bool
}

// darkBackgroundLightness is the mean Lab lightness under which an image is
// treated as light text on a dark background.
const darkBackgroundLightness = 0.45

// lightnessSampleStep is the pixel stride used when estimating lightness.
const lightnessSampleStep = 4

// Prepare applies p to img and returns the result. img is not modified.
//
// Steps run in a fixed order: resize, invert, grayscale, sharpen.
func Prepare(img image.Image, p Profile) image.Image {
	out := img

	if p.MaxDimension > 0 {
		b := out.Bounds()
		if b.Dx() > p.MaxDimension || b.Dy() > p.MaxDimension {
			out = imaging.Fit(out, p.MaxDimension, p.MaxDimension, imaging.Lanczos)
		}
	}

	if p.AutoInvert && MeanLightness(out) < darkBackgroundLightness {
		out = effect.Invert(out)
	}

	if p.Grayscale {
		out = effect.Grayscale(out)
	}

	if p.Sharpen {
		out = effect.Sharpen(out)
	}

	return out
}

// MeanLightness estimates the average CIE L* lightness of img on a 0..1 scale
// by sampling every few pixels. Fully transparent pixels are ignored. An image
// with nothing to sample reports 1 (white).
func MeanLightness(img image.Image) float64 {
	b := img.Bounds()
	var (
		sum   float64
		count int
	)
	for y := b.Min.Y; y < b.Max.Y; y += lightnessSampleStep {
		for x := b.Min.X; x < b.Max.X; x += lightnessSampleStep {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			l, _, _ := c.Lab()
			sum += l
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return sum / float64(count)
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
