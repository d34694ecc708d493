package ocr

// Engine is the external recognition engine.
//
// Implementations must be safe for concurrent use: every call creates its own
// Request and nothing is shared between calls through the Engine.
type Engine interface {
	// Name identifies the engine in logs and info output.
	Name() string

	// NewRequest creates a request configured from cfg. Return an error
	// wrapping ErrRequestAllocationFailed when the request object itself could
	// not be created; any other error is treated as an initialization failure.
	NewRequest(cfg RequestConfig) (Request, error)

	// Perform runs req against the image behind handle and blocks until the
	// engine is done. The handle's Data, if any, must not be retained after
	// Perform returns.
	Perform(handle ImageHandle, req Request) error
}

// Request is an engine request created by Engine.NewRequest.
type Request interface {
	// Config returns the configuration the request was created with.
	Config() RequestConfig

	// Results returns the regions found by the last Perform, in engine order.
	Results() []Region
}

// EngineInfo describes an engine for diagnostics.
type EngineInfo struct {
	Name      string   `json:"name"`
	Version   string   `json:"version,omitempty"`
	Available bool     `json:"available"`
	Error     string   `json:"error,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

// InfoProvider is implemented by engines that can describe themselves.
type InfoProvider interface {
	Info() EngineInfo
}
