package server

import (
	"fmt"

	"github.com/ironsheep/ocr-tools-mcp/internal/imaging"
	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
)

// cropSource narrows src to a pixel region or a named quadrant before
// recognition. With neither set, src is returned untouched. The cropped image
// is re-encoded as PNG and handed on as bytes.
func cropSource(src ocr.ImageSource, region *imaging.Region, quadrant string) (ocr.ImageSource, error) {
	if region == nil && quadrant == "" {
		return src, nil
	}
	if region != nil && quadrant != "" {
		return ocr.ImageSource{}, fmt.Errorf("%w: region and quadrant are mutually exclusive", errInvalidArguments)
	}

	handle := ocr.ResolveImage(src)
	var (
		d   *imaging.Decoded
		err error
	)
	if len(handle.Data) > 0 {
		d, err = imaging.DecodeBytes(handle.Data)
	} else {
		d, err = imaging.Load(handle.FilePath())
	}
	if err != nil {
		return ocr.ImageSource{}, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}

	r := imaging.Region{}
	if region != nil {
		r = *region
	} else if r, err = imaging.QuadrantRegion(d.Image, quadrant); err != nil {
		return ocr.ImageSource{}, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}

	cropped, err := imaging.Crop(d.Image, r)
	if err != nil {
		return ocr.ImageSource{}, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}

	data, err := imaging.EncodePNG(cropped)
	if err != nil {
		return ocr.ImageSource{}, err
	}
	return ocr.FromBytes(data), nil
}
