package ocr

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/ocr-tools-mcp/internal/task"
)

// Recognizer drives an Engine. It holds no per-call state and is safe for
// concurrent use.
type Recognizer struct {
	engine        Engine
	pool          *task.Pool
	minConfidence float64
	log           zerolog.Logger
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithMinConfidence replaces the candidate threshold (default MinConfidence).
func WithMinConfidence(v float64) Option {
	return func(r *Recognizer) { r.minConfidence = v }
}

// WithLogger sets the logger used for per-call diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Recognizer) { r.log = l }
}

// NewRecognizer returns a Recognizer that runs calls on pool.
func NewRecognizer(engine Engine, pool *task.Pool, opts ...Option) *Recognizer {
	r := &Recognizer{
		engine:        engine,
		pool:          pool,
		minConfidence: MinConfidence,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EngineName returns the wrapped engine's name.
func (r *Recognizer) EngineName() string {
	return r.engine.Name()
}

// Info describes the wrapped engine. Engines that do not implement
// InfoProvider are reported as available with only their name filled in.
func (r *Recognizer) Info() EngineInfo {
	if p, ok := r.engine.(InfoProvider); ok {
		return p.Info()
	}
	return EngineInfo{Name: r.engine.Name(), Available: true}
}

// Recognize schedules a recognition call in the background and returns its
// task immediately. Cancelling ctx before the task starts, or before its
// result is delivered, makes the task end with task.ErrCancelled; a recognition
// already in progress is allowed to finish.
//
// The image is moved into the task. Pass it with ImageSource.Take so the
// caller's copy is emptied:
//
//	t := r.Recognize(ctx, img.Take(), ocr.AccuracyAccurate, nil)
func (r *Recognizer) Recognize(ctx context.Context, src ImageSource, accuracy Accuracy, languages []string) *task.Task[Outcome] {
	job := &recognizeJob{r: r, image: src, accuracy: accuracy, languages: languages}
	return task.Submit(ctx, r.pool, job.compute)
}

type recognizeJob struct {
	r         *Recognizer
	image     ImageSource
	accuracy  Accuracy
	languages []string
}

func (j *recognizeJob) compute() (Outcome, error) {
	return j.r.Perform(j.image.Take(), j.accuracy, j.languages)
}

// Perform runs one recognition call on the calling goroutine. It blocks for
// the whole engine call, so callers outside a task worker should use Recognize.
func (r *Recognizer) Perform(src ImageSource, accuracy Accuracy, languages []string) (Outcome, error) {
	start := time.Now()
	logger := r.log.With().
		Str("engine", r.engine.Name()).
		Str("source", src.String()).
		Str("accuracy", accuracy.String()).
		Logger()

	cfg := BuildRequest(accuracy, languages)
	handle := ResolveImage(src)

	req, err := r.engine.NewRequest(cfg)
	if err != nil {
		kind := KindRequestInitFailed
		if errors.Is(err, ErrRequestAllocationFailed) {
			kind = KindRequestAllocationFailed
		}
		logger.Error().Err(err).Str("kind", kind.String()).Msg("engine request creation failed")
		return Outcome{}, newError(kind, err)
	}

	if err := r.engine.Perform(handle, req); err != nil {
		classified := engineError(err)
		logger.Debug().Err(err).Str("kind", classified.Kind.String()).Msg("engine perform failed")
		return Outcome{}, classified
	}

	regions := req.Results()
	if len(regions) == 0 {
		logger.Debug().Dur("elapsed", time.Since(start)).Msg("no regions returned")
		return Outcome{}, newError(KindNoTextRecognized, nil)
	}

	outcome, err := Aggregate(regions, r.minConfidence)
	if err != nil {
		return Outcome{}, err
	}

	logger.Debug().
		Int("regions", len(regions)).
		Float64("confidence", outcome.Confidence).
		Dur("elapsed", time.Since(start)).
		Msg("recognition complete")
	return outcome, nil
}
