package ocr

import (
	"strings"
	"unicode/utf8"
)

// MinConfidence is the default candidate threshold. At 0.0 every candidate
// qualifies, so the first candidate of each region is used.
const MinConfidence = 0.0

const (
	// maxCandidates is how many ranked candidates are considered per region.
	maxCandidates = 5

	// newlineBelowY: regions whose box starts below this height (bottom-left
	// origin) are joined with a newline instead of a space.
	newlineBelowY = 0.1
)

// Aggregate folds regions into one Outcome.
//
// For each region, in order, it picks the first of the top candidates whose
// confidence is at least minConfidence. Regions with no qualifying candidate
// are skipped. Selected text is appended after a newline or a space depending
// on the region's position; the selected confidence is averaged over every
// region that had a selection, including those with empty text.
//
// A selected candidate whose text is not valid UTF-8 fails the whole call.
func Aggregate(regions []Region, minConfidence float64) (Outcome, error) {
	var (
		text  strings.Builder
		total float64
		used  int
	)

	for _, region := range regions {
		candidate, ok := selectCandidate(region, minConfidence)
		if !ok {
			continue
		}
		if !utf8.ValidString(candidate.Text) {
			return Outcome{}, newError(KindStringConversionFailed, nil)
		}

		if candidate.Text != "" {
			text.WriteString(separatorFor(region.BoundingBox))
			text.WriteString(candidate.Text)
		}
		total += candidate.Confidence
		used++
	}

	var confidence float64
	if used > 0 {
		confidence = total / float64(used)
	}

	return Outcome{Text: text.String(), Confidence: confidence}, nil
}

// selectCandidate returns the first candidate meeting the threshold. It does
// not look for the highest confidence.
func selectCandidate(region Region, minConfidence float64) (Candidate, bool) {
	for _, c := range region.TopCandidates(maxCandidates) {
		if c.Confidence >= minConfidence {
			return c, true
		}
	}
	return Candidate{}, false
}

func separatorFor(box Rect) string {
	if box.Y < newlineBelowY {
		return "\n"
	}
	return " "
}
