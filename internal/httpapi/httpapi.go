// Package httpapi exposes the recognizer over HTTP with fiber.
//
// Routes:
//
//	POST /v1/recognize   multipart "image" file or form "path"; optional
//	                     "accuracy" (fast|accurate) and "languages" (comma list)
//	GET  /v1/engine      engine info
//	GET  /healthz        liveness
//
// Failures are JSON bodies of the form {"error": "...", "kind": "..."}.
package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
	"github.com/ironsheep/ocr-tools-mcp/internal/task"
)

// DefaultBodyLimit caps uploads at 32 MiB.
const DefaultBodyLimit = 32 * 1024 * 1024

// Options carries request defaults.
type Options struct {
	Accuracy  ocr.Accuracy
	Languages []string

	// Timeout bounds each recognition. Zero means no limit.
	Timeout time.Duration

	// BodyLimit caps request bodies. Zero means DefaultBodyLimit.
	BodyLimit int
}

// Handler serves the HTTP routes.
type Handler struct {
	rec  *ocr.Recognizer
	opts Options
	log  zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(rec *ocr.Recognizer, opts Options, log zerolog.Logger) *Handler {
	return &Handler{rec: rec, opts: opts, log: log}
}

// NewApp returns a fiber app with every route registered.
func NewApp(h *Handler) *fiber.App {
	limit := h.opts.BodyLimit
	if limit == 0 {
		limit = DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		AppName:               "ocr-tools-mcp",
		BodyLimit:             limit,
		DisableStartupMessage: true,
		ErrorHandler:          h.errorHandler,
	})
	h.Register(app)
	return app
}

// Register adds the routes to r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/healthz", h.Health)
	v1 := r.Group("/v1")
	v1.Post("/recognize", h.Recognize)
	v1.Get("/engine", h.EngineInfo)
}

// Health reports liveness.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"engine": h.rec.EngineName(),
	})
}

// EngineInfo reports the engine's description.
func (h *Handler) EngineInfo(c *fiber.Ctx) error {
	return c.JSON(h.rec.Info())
}

// errorHandler renders fiber's own errors (404, 413, ...) in the API's format.
func (h *Handler) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// statusFor maps a recognition error to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, task.ErrCancelled) || errors.Is(err, context.DeadlineExceeded) {
		return fiber.StatusRequestTimeout
	}
	kind, ok := ocr.KindOf(err)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch kind {
	case ocr.KindNoTextRecognized:
		return fiber.StatusUnprocessableEntity
	case ocr.KindEngine, ocr.KindLocalizedDescriptionUnavailable:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// errorBody is the JSON body for a failed recognition.
func errorBody(err error) fiber.Map {
	body := fiber.Map{"error": err.Error()}
	if kind, ok := ocr.KindOf(err); ok {
		body["kind"] = kind.String()
	}
	return body
}
