// Package ocrtest provides a scripted ocr.Engine for tests.
package ocrtest

import (
	"sync"

	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
)

// Engine is an ocr.Engine that returns whatever it is told to. The zero value
// returns no regions.
type Engine struct {
	// Regions is returned by every request's Results after Perform.
	Regions []ocr.Region

	// NewRequestErr, when set, is returned by NewRequest.
	NewRequestErr error

	// PerformErr, when set, is returned by Perform.
	PerformErr error

	// Started, when non-nil, receives a value as Perform begins.
	Started chan struct{}

	// Release, when non-nil, makes Perform wait until it is closed.
	Release chan struct{}

	mu       sync.Mutex
	configs  []ocr.RequestConfig
	handles  []ocr.ImageHandle
	performs int
}

// Name implements ocr.Engine.
func (e *Engine) Name() string { return "fake" }

// NewRequest implements ocr.Engine.
func (e *Engine) NewRequest(cfg ocr.RequestConfig) (ocr.Request, error) {
	e.mu.Lock()
	e.configs = append(e.configs, cfg)
	e.mu.Unlock()

	if e.NewRequestErr != nil {
		return nil, e.NewRequestErr
	}
	return &Request{cfg: cfg}, nil
}

// Perform implements ocr.Engine.
func (e *Engine) Perform(handle ocr.ImageHandle, req ocr.Request) error {
	e.mu.Lock()
	e.handles = append(e.handles, handle)
	e.performs++
	e.mu.Unlock()

	if e.Started != nil {
		e.Started <- struct{}{}
	}
	if e.Release != nil {
		<-e.Release
	}
	if e.PerformErr != nil {
		return e.PerformErr
	}
	req.(*Request).results = e.Regions
	return nil
}

// Configs returns every RequestConfig passed to NewRequest so far.
func (e *Engine) Configs() []ocr.RequestConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ocr.RequestConfig(nil), e.configs...)
}

// Handles returns every handle passed to Perform so far.
func (e *Engine) Handles() []ocr.ImageHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ocr.ImageHandle(nil), e.handles...)
}

// Performs returns how many times Perform has been called.
func (e *Engine) Performs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.performs
}

// Request is the fake engine's request.
type Request struct {
	cfg     ocr.RequestConfig
	results []ocr.Region
}

// Config implements ocr.Request.
func (r *Request) Config() ocr.RequestConfig { return r.cfg }

// Results implements ocr.Request.
func (r *Request) Results() []ocr.Region { return r.results }

// Region is a shorthand for building a region at height y.
func Region(y float64, candidates ...ocr.Candidate) ocr.Region {
	return ocr.Region{
		BoundingBox: ocr.Rect{X: 0.1, Y: y, Width: 0.5, Height: 0.05},
		Candidates:  candidates,
	}
}

// Candidate is a shorthand for ocr.Candidate.
func Candidate(text string, confidence float64) ocr.Candidate {
	return ocr.Candidate{Text: text, Confidence: confidence}
}
