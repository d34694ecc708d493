package tesseract

import (
	"image"
	"strings"

	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
)

// line is one text line reported by Tesseract, in pixel coordinates with a
// top-left origin. confidence is on Tesseract's 0..100 scale.
type line struct {
	box        image.Rectangle
	text       string
	confidence float64
}

// regionsFromLines converts Tesseract lines into recognition regions.
//
// Boxes are normalized against bounds and flipped to a bottom-left origin.
// Lines shorter than minHeight (as a fraction of the image height) are
// dropped, as are lines whose box falls outside bounds entirely. Each region
// carries exactly one candidate.
func regionsFromLines(lines []line, bounds image.Rectangle, minHeight float64) []ocr.Region {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	if w <= 0 || h <= 0 {
		return []ocr.Region{}
	}

	regions := make([]ocr.Region, 0, len(lines))
	for _, l := range lines {
		box := l.box.Intersect(bounds)
		if box.Empty() {
			continue
		}

		rect := ocr.Rect{
			X:      float64(box.Min.X-bounds.Min.X) / w,
			Y:      float64(bounds.Max.Y-box.Max.Y) / h,
			Width:  float64(box.Dx()) / w,
			Height: float64(box.Dy()) / h,
		}
		if rect.Height < minHeight {
			continue
		}

		regions = append(regions, ocr.Region{
			BoundingBox: rect,
			Candidates: []ocr.Candidate{{
				Text:       strings.TrimSpace(l.text),
				Confidence: normalizeConfidence(l.confidence),
			}},
		})
	}
	return regions
}

// normalizeConfidence maps Tesseract's 0..100 score onto 0..1.
func normalizeConfidence(c float64) float64 {
	switch {
	case c <= 0:
		return 0
	case c >= 100:
		return 1
	default:
		return c / 100
	}
}
