package tesseract

import (
	"fmt"
	"image"

	"github.com/ironsheep/ocr-tools-mcp/internal/imaging"
	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
)

// fastMaxDimension caps the longer image side for fast recognition.
const fastMaxDimension = 1600

// profileFor returns the preprocessing profile for a recognition level.
func profileFor(level ocr.Accuracy) imaging.Profile {
	if level == ocr.AccuracyFast {
		return imaging.Profile{MaxDimension: fastMaxDimension, Grayscale: true}
	}
	return imaging.Profile{Grayscale: true, Sharpen: true, AutoInvert: true}
}

// loadHandle decodes the image behind handle. In-memory data wins over the
// locator when both are present.
func loadHandle(handle ocr.ImageHandle) (image.Image, error) {
	var (
		d   *imaging.Decoded
		err error
	)
	switch {
	case len(handle.Data) > 0:
		d, err = imaging.DecodeBytes(handle.Data)
	case handle.URL != nil:
		d, err = imaging.Load(handle.FilePath())
	default:
		return nil, fmt.Errorf("no image data")
	}
	if err != nil {
		return nil, err
	}
	return d.Image, nil
}

// prepareHandle loads the image behind handle and encodes it as PNG after
// applying the profile for level. It returns the PNG and the bounds the
// encoded image has.
func prepareHandle(handle ocr.ImageHandle, level ocr.Accuracy) ([]byte, image.Rectangle, error) {
	img, err := loadHandle(handle)
	if err != nil {
		return nil, image.Rectangle{}, err
	}

	prepared := imaging.Prepare(img, profileFor(level))
	data, err := imaging.EncodePNG(prepared)
	if err != nil {
		return nil, image.Rectangle{}, err
	}

	b := prepared.Bounds()
	return data, image.Rect(0, 0, b.Dx(), b.Dy()), nil
}
