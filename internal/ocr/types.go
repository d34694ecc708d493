package ocr

import (
	"fmt"
	"strings"
)

// Accuracy selects the engine's speed versus thoroughness tradeoff.
type Accuracy int

const (
	// AccuracyFast favours latency over recognition quality.
	AccuracyFast Accuracy = iota
	// AccuracyAccurate favours recognition quality over latency.
	AccuracyAccurate
)

// String returns the lowercase name used on the wire ("fast" or "accurate").
func (a Accuracy) String() string {
	switch a {
	case AccuracyFast:
		return "fast"
	case AccuracyAccurate:
		return "accurate"
	default:
		return fmt.Sprintf("Accuracy(%d)", int(a))
	}
}

// ParseAccuracy converts "fast" or "accurate" (any case) into an Accuracy.
func ParseAccuracy(s string) (Accuracy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast":
		return AccuracyFast, nil
	case "accurate":
		return AccuracyAccurate, nil
	default:
		return 0, fmt.Errorf("invalid accuracy %q: want \"fast\" or \"accurate\"", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Accuracy) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Accuracy) UnmarshalText(text []byte) error {
	v, err := ParseAccuracy(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Rect is a bounding box in normalized image coordinates.
//
// All fields are fractions of the image size (0.0 to 1.0). The origin is the
// bottom-left corner, so Y is the distance of the box's bottom edge from the
// bottom of the image.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Candidate is one possible reading of a region.
type Candidate struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
}

// Region is one area of text found by the engine, with its candidate readings
// ordered as the engine ranked them.
type Region struct {
	BoundingBox Rect        `json:"bounding_box"`
	Candidates  []Candidate `json:"candidates"`
}

// TopCandidates returns at most n candidates, in engine order.
func (r Region) TopCandidates(n int) []Candidate {
	if n < 0 {
		n = 0
	}
	if len(r.Candidates) <= n {
		return r.Candidates
	}
	return r.Candidates[:n]
}

// Outcome is the result of a successful recognition call.
type Outcome struct {
	// Text is the concatenation of the selected candidate of every region, each
	// preceded by a space or newline. May be empty.
	Text string `json:"text"`

	// Confidence is the arithmetic mean of the selected candidates'
	// confidences, or 0 when no region contributed.
	Confidence float64 `json:"confidence"`
}
