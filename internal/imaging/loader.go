package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Decoded is an image together with the format name its decoder reported.
type Decoded struct {
	Image  image.Image
	Format string // "png", "jpeg", "gif", "bmp", "tiff" or "webp"
}

// Load opens and decodes the image file at path.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. The format is
// detected from the file contents, not the extension.
func Load(path string) (*Decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return decode(f)
}

// DecodeBytes decodes an encoded image held in memory. data is only read.
func DecodeBytes(data []byte) (*Decoded, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to decode image: empty buffer")
	}
	return decode(bytes.NewReader(data))
}

func decode(r io.Reader) (*Decoded, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Decoded{Image: img, Format: format}, nil
}

// Dimensions contains the width and height of an image.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DimensionsOf returns the pixel size of img.
func DimensionsOf(img image.Image) Dimensions {
	b := img.Bounds()
	return Dimensions{Width: b.Dx(), Height: b.Dy()}
}
