package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ironsheep/ocr-tools-mcp/internal/config"
	"github.com/ironsheep/ocr-tools-mcp/internal/engine/tesseract"
	"github.com/ironsheep/ocr-tools-mcp/internal/logging"
	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
	"github.com/ironsheep/ocr-tools-mcp/internal/task"
)

// app holds what every subcommand needs.
type app struct {
	cfg  *config.Config
	log  zerolog.Logger
	pool *task.Pool
	rec  *ocr.Recognizer
}

// newApp loads configuration, applies flag overrides and wires the
// recognizer to the Tesseract engine.
func newApp(flags *rootFlags) (*app, error) {
	cfg, err := config.Load(flags.envFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := flags.apply(cfg); err != nil {
		return nil, err
	}

	log := logging.New(cfg.LogLevel)

	pool, err := task.NewPool(cfg.Workers, log)
	if err != nil {
		return nil, err
	}

	engine := tesseract.New(
		tesseract.WithTessdataPrefix(cfg.TessdataPrefix),
		tesseract.WithLogger(log.With().Str("component", "tesseract").Logger()),
	)
	rec := ocr.NewRecognizer(engine, pool,
		ocr.WithMinConfidence(cfg.MinConfidence),
		ocr.WithLogger(log.With().Str("component", "ocr").Logger()),
	)

	log.Debug().
		Str("version", Version).
		Str("commit", GitCommit).
		Int("workers", cfg.Workers).
		Str("accuracy", cfg.Accuracy.String()).
		Strs("languages", cfg.Languages).
		Msg("ocr-tools-mcp starting")

	return &app{cfg: cfg, log: log, pool: pool, rec: rec}, nil
}

func (a *app) close() {
	a.pool.Release()
}
