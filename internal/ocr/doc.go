// Package ocr runs text recognition requests against an external engine and
// folds the engine's per-region output into a single block of text.
//
// The engine itself is a black box behind the Engine interface. This package
// only decides how a request is configured, how the caller's image is handed
// over, and how the engine's regions are turned into an Outcome.
//
// # Pipeline
//
// A call moves through four steps, all on one task worker:
//
//  1. BuildRequest: accuracy and preferred languages become a RequestConfig
//  2. ResolveImage: a path or byte buffer becomes an ImageHandle
//  3. Engine.NewRequest / Engine.Perform: the engine does the recognition
//  4. Aggregate: regions become one string plus a mean confidence
//
// Recognizer.Recognize wraps these steps in a cancellable task from the
// internal/task package. Recognizer.Perform runs them synchronously and is what
// the task worker calls.
//
// # Coordinate System
//
// Region bounding boxes are normalized to 0..1 with the origin at the
// bottom-left corner of the image. Y grows upward, so a small Y means the
// region sits near the bottom of the image.
//
// # Aggregation Rules
//
// Regions are visited in engine order and never re-sorted. Within a region the
// first candidate whose confidence is at least the threshold wins, even when a
// later candidate scores higher. The default threshold is MinConfidence (0.0),
// which accepts every candidate; WithMinConfidence raises it.
//
// A region whose box starts below Y=0.1 is joined with a newline, every other
// region with a space. Candidates with empty text still count toward the mean
// confidence but add nothing to the text.
//
// # Error Handling
//
// Every failure is an *Error with a Kind. Use errors.Is with the exported
// sentinels (ErrNoTextRecognized, ErrEngine, ...) to branch on the kind. Nothing
// is retried and no partial outcome is returned alongside an error.
package ocr
