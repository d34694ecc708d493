package ocr

import (
	"errors"
	"fmt"
)

// Kind classifies a recognition failure.
type Kind int

const (
	// KindRequestAllocationFailed means the engine could not create a request.
	KindRequestAllocationFailed Kind = iota + 1
	// KindRequestInitFailed means the engine created but could not configure a request.
	KindRequestInitFailed
	// KindNoTextRecognized means the engine returned zero regions.
	KindNoTextRecognized
	// KindEngine means the engine reported a failure while performing the request.
	KindEngine
	// KindLocalizedDescriptionUnavailable means the engine failed without a readable message.
	KindLocalizedDescriptionUnavailable
	// KindStringConversionFailed means a candidate's text could not be read as UTF-8.
	KindStringConversionFailed
)

var kindCodes = map[Kind]string{
	KindRequestAllocationFailed:         "request_allocation_failed",
	KindRequestInitFailed:               "request_init_failed",
	KindNoTextRecognized:                "no_text_recognized",
	KindEngine:                          "engine_error",
	KindLocalizedDescriptionUnavailable: "localized_description_unavailable",
	KindStringConversionFailed:          "string_conversion_failed",
}

// String returns a stable snake_case code for the kind.
func (k Kind) String() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return fmt.Sprintf("kind_%d", int(k))
}

// Error is a classified recognition failure.
type Error struct {
	Kind Kind

	// Description is the engine's own message for KindEngine, empty otherwise.
	Description string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindRequestAllocationFailed:
		msg = "failed to allocate recognition request"
	case KindRequestInitFailed:
		msg = "failed to initialize recognition request"
	case KindNoTextRecognized:
		msg = "no text recognized"
	case KindEngine:
		msg = "engine error: " + e.Description
	case KindLocalizedDescriptionUnavailable:
		msg = "failed to get localized description"
	case KindStringConversionFailed:
		msg = "failed to get string from candidate"
	default:
		msg = e.Kind.String()
	}
	if e.Err != nil && e.Kind != KindEngine {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so the sentinels
// below work with errors.Is regardless of description or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is. Do not return these directly; wrap the cause with
// newError so callers keep the original error chain.
var (
	ErrRequestAllocationFailed         = &Error{Kind: KindRequestAllocationFailed}
	ErrRequestInitFailed               = &Error{Kind: KindRequestInitFailed}
	ErrNoTextRecognized                = &Error{Kind: KindNoTextRecognized}
	ErrEngine                          = &Error{Kind: KindEngine}
	ErrLocalizedDescriptionUnavailable = &Error{Kind: KindLocalizedDescriptionUnavailable}
	ErrStringConversionFailed          = &Error{Kind: KindStringConversionFailed}
)

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

// engineError wraps a failure reported by Engine.Perform. The engine's message
// is passed through untouched; a failure with no message at all is its own kind.
func engineError(cause error) *Error {
	if cause == nil || cause.Error() == "" {
		return newError(KindLocalizedDescriptionUnavailable, cause)
	}
	return &Error{Kind: KindEngine, Description: cause.Error(), Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
