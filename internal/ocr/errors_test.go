package ocr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("call failed: %w", &Error{Kind: KindEngine, Description: "image too small"})

	assert.ErrorIs(t, err, ErrEngine)
	assert.NotErrorIs(t, err, ErrNoTextRecognized)

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindEngine, kind)
}

func TestError_Messages(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: KindNoTextRecognized}, "no text recognized"},
		{&Error{Kind: KindEngine, Description: "boom", Err: errors.New("boom")}, "engine error: boom"},
		{&Error{Kind: KindRequestInitFailed, Err: errors.New("bad tag")}, "failed to initialize recognition request: bad tag"},
		{&Error{Kind: KindRequestAllocationFailed}, "failed to allocate recognition request"},
		{&Error{Kind: KindLocalizedDescriptionUnavailable}, "failed to get localized description"},
		{&Error{Kind: KindStringConversionFailed}, "failed to get string from candidate"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestEngineError(t *testing.T) {
	cause := errors.New("unsupported image format")
	e := engineError(cause)

	assert.Equal(t, KindEngine, e.Kind)
	assert.Equal(t, "unsupported image format", e.Description)
	assert.ErrorIs(t, e, cause)

	blank := engineError(errors.New(""))
	assert.Equal(t, KindLocalizedDescriptionUnavailable, blank.Kind)
}

func TestKindOf_NotClassified(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}
