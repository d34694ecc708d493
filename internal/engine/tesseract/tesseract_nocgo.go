//go:build !cgo

package tesseract

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
)

// Name is the engine name reported in logs and info output.
const Name = "tesseract"

const unavailable = "tesseract support requires cgo"

// Engine is a placeholder used when the binary is built without cgo. Every
// request fails with ocr.ErrRequestAllocationFailed.
type Engine struct {
	log zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTessdataPrefix has no effect without cgo.
func WithTessdataPrefix(string) Option {
	return func(*Engine) {}
}

// WithLogger sets the engine's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns an engine that cannot recognize anything.
func New(opts ...Option) *Engine {
	e := &Engine{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements ocr.Engine.
func (e *Engine) Name() string { return Name }

// NewRequest implements ocr.Engine.
func (e *Engine) NewRequest(ocr.RequestConfig) (ocr.Request, error) {
	e.log.Warn().Msg(unavailable)
	return nil, fmt.Errorf("%w: %s", ocr.ErrRequestAllocationFailed, unavailable)
}

// Perform implements ocr.Engine.
func (e *Engine) Perform(ocr.ImageHandle, ocr.Request) error {
	return fmt.Errorf("%s", unavailable)
}

// Info implements ocr.InfoProvider.
func (e *Engine) Info() ocr.EngineInfo {
	return ocr.EngineInfo{Name: Name, Available: false, Error: unavailable}
}
