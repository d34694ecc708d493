//go:build cgo

package tesseract

import (
	"fmt"
	"os"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"

	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
)

// Name is the engine name reported in logs and info output.
const Name = "tesseract"

// Engine runs recognition requests through libtesseract.
type Engine struct {
	tessdataPrefix string
	log            zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTessdataPrefix points Tesseract at a traineddata directory. The default
// is TESSDATA_PREFIX, falling back to Tesseract's compiled-in path.
func WithTessdataPrefix(dir string) Option {
	return func(e *Engine) { e.tessdataPrefix = dir }
}

// WithLogger sets the engine's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns a Tesseract engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		tessdataPrefix: os.Getenv("TESSDATA_PREFIX"),
		log:            zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements ocr.Engine.
func (e *Engine) Name() string { return Name }

// request is the Tesseract-specific ocr.Request.
type request struct {
	cfg     ocr.RequestConfig
	langs   []string
	results []ocr.Region
}

func (r *request) Config() ocr.RequestConfig { return r.cfg }
func (r *request) Results() []ocr.Region     { return r.results }

// NewRequest implements ocr.Engine. Language tags that cannot be mapped to
// traineddata names fail the request.
func (e *Engine) NewRequest(cfg ocr.RequestConfig) (ocr.Request, error) {
	langs, err := tesseractLanguages(cfg.Languages, cfg.AutomaticallyDetectsLanguage)
	if err != nil {
		return nil, err
	}
	return &request{cfg: cfg, langs: langs}, nil
}

// Perform implements ocr.Engine.
func (e *Engine) Perform(handle ocr.ImageHandle, req ocr.Request) error {
	r, ok := req.(*request)
	if !ok {
		return fmt.Errorf("request of type %T was not created by the tesseract engine", req)
	}

	data, bounds, err := prepareHandle(handle, r.cfg.Level)
	if err != nil {
		return err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if e.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			return fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(r.langs...); err != nil {
		return fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	correction := "0"
	if r.cfg.UsesLanguageCorrection {
		correction = "1"
	}
	if err := client.SetVariable("tessedit_enable_dict_correction", correction); err != nil {
		return fmt.Errorf("failed to set language correction: %w", err)
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return fmt.Errorf("OCR failed: %w", err)
	}

	lines := make([]line, 0, len(boxes))
	for _, box := range boxes {
		lines = append(lines, line{box: box.Box, text: box.Word, confidence: box.Confidence})
	}
	r.results = regionsFromLines(lines, bounds, r.cfg.MinimumTextHeight)

	e.log.Debug().
		Str("languages", languageString(r.langs)).
		Int("lines", len(boxes)).
		Int("regions", len(r.results)).
		Msg("tesseract finished")

	return nil
}

// Info implements ocr.InfoProvider.
func (e *Engine) Info() ocr.EngineInfo {
	info := ocr.EngineInfo{Name: Name}

	client := gosseract.NewClient()
	defer client.Close()
	if e.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			info.Error = err.Error()
			return info
		}
	}
	info.Version = client.Version()

	langs, err := gosseract.GetAvailableLanguages()
	if err != nil {
		info.Error = fmt.Sprintf("failed to list languages: %v", err)
	}
	info.Languages = langs
	info.Available = info.Version != ""
	return info
}
