package ocr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
	"github.com/ironsheep/ocr-tools-mcp/internal/ocr/ocrtest"
	"github.com/ironsheep/ocr-tools-mcp/internal/task"
)

func newRecognizer(t *testing.T, engine ocr.Engine, opts ...ocr.Option) *ocr.Recognizer {
	t.Helper()
	pool, err := task.NewPool(2, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Release)
	return ocr.NewRecognizer(engine, pool, opts...)
}

func TestRecognize_Success(t *testing.T) {
	engine := &ocrtest.Engine{Regions: []ocr.Region{
		ocrtest.Region(0.8, ocrtest.Candidate("Invoice", 0.9)),
		ocrtest.Region(0.05, ocrtest.Candidate("Total 42", 0.7)),
	}}
	r := newRecognizer(t, engine)

	src := ocr.FromPath("/tmp/invoice.png")
	out, err := r.Recognize(context.Background(), src.Take(), ocr.AccuracyAccurate, nil).Wait()
	require.NoError(t, err)

	assert.Equal(t, " Invoice\nTotal 42", out.Text)
	assert.InDelta(t, 0.8, out.Confidence, 1e-9)
	assert.True(t, src.IsEmpty())

	configs := engine.Configs()
	require.Len(t, configs, 1)
	assert.Equal(t, []string{"en-US"}, configs[0].Languages)
	assert.Equal(t, ocr.AccuracyAccurate, configs[0].Level)
}

func TestRecognize_EmptyAndDefaultLanguagesConfigureTheSameRequest(t *testing.T) {
	engine := &ocrtest.Engine{Regions: []ocr.Region{ocrtest.Region(0.5, ocrtest.Candidate("a", 1))}}
	r := newRecognizer(t, engine)

	_, err := r.Perform(ocr.FromPath("/tmp/a.png"), ocr.AccuracyFast, nil)
	require.NoError(t, err)
	_, err = r.Perform(ocr.FromPath("/tmp/a.png"), ocr.AccuracyFast, []string{"en-US"})
	require.NoError(t, err)

	configs := engine.Configs()
	require.Len(t, configs, 2)
	assert.Equal(t, configs[0], configs[1])
}

func TestRecognize_BytesReachEngineWithoutCopy(t *testing.T) {
	engine := &ocrtest.Engine{Regions: []ocr.Region{ocrtest.Region(0.5, ocrtest.Candidate("a", 1))}}
	r := newRecognizer(t, engine)

	buf := []byte("not really a png")
	src := ocr.FromBytes(buf)
	_, err := r.Recognize(context.Background(), src.Take(), ocr.AccuracyFast, nil).Wait()
	require.NoError(t, err)

	handles := engine.Handles()
	require.Len(t, handles, 1)
	assert.Same(t, &buf[0], &handles[0].Data[0])
}

func TestRecognize_NoRegionsIsNoTextRecognized(t *testing.T) {
	r := newRecognizer(t, &ocrtest.Engine{Regions: []ocr.Region{}})

	_, err := r.Recognize(context.Background(), ocr.FromPath("/tmp/blank.png"), ocr.AccuracyFast, nil).Wait()

	require.Error(t, err)
	assert.ErrorIs(t, err, ocr.ErrNoTextRecognized)
	assert.NotErrorIs(t, err, ocr.ErrEngine)
}

func TestRecognize_RegionsWithoutCandidatesSucceedEmpty(t *testing.T) {
	r := newRecognizer(t, &ocrtest.Engine{Regions: []ocr.Region{
		ocrtest.Region(0.5),
		ocrtest.Region(0.05),
	}})

	out, err := r.Recognize(context.Background(), ocr.FromPath("/tmp/x.png"), ocr.AccuracyFast, nil).Wait()
	require.NoError(t, err)

	assert.Equal(t, ocr.Outcome{Text: "", Confidence: 0}, out)
}

func TestRecognize_EngineErrorPassesDescriptionThrough(t *testing.T) {
	cause := errors.New("The file couldn't be opened because it isn't in the correct format.")
	r := newRecognizer(t, &ocrtest.Engine{PerformErr: cause})

	_, err := r.Recognize(context.Background(), ocr.FromPath("/tmp/x.txt"), ocr.AccuracyFast, nil).Wait()

	require.Error(t, err)
	assert.ErrorIs(t, err, ocr.ErrEngine)
	assert.ErrorIs(t, err, cause)

	var oe *ocr.Error
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, cause.Error(), oe.Description)
}

func TestRecognize_EngineErrorWithoutMessage(t *testing.T) {
	r := newRecognizer(t, &ocrtest.Engine{PerformErr: errors.New("")})

	_, err := r.Perform(ocr.FromPath("/tmp/x.png"), ocr.AccuracyFast, nil)

	assert.ErrorIs(t, err, ocr.ErrLocalizedDescriptionUnavailable)
}

func TestRecognize_RequestCreationFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"allocation", fmt.Errorf("%w: out of memory", ocr.ErrRequestAllocationFailed), ocr.ErrRequestAllocationFailed},
		{"initialization", errors.New("invalid language tag"), ocr.ErrRequestInitFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &ocrtest.Engine{NewRequestErr: tt.err}
			r := newRecognizer(t, engine)

			_, err := r.Recognize(context.Background(), ocr.FromPath("/tmp/x.png"), ocr.AccuracyFast, nil).Wait()

			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, engine.Performs())
		})
	}
}

func TestRecognize_MinConfidenceOption(t *testing.T) {
	engine := &ocrtest.Engine{Regions: []ocr.Region{
		ocrtest.Region(0.5, ocrtest.Candidate("x", 0.1), ocrtest.Candidate("y", 0.9)),
	}}
	r := newRecognizer(t, engine, ocr.WithMinConfidence(0.5))

	out, err := r.Perform(ocr.FromPath("/tmp/x.png"), ocr.AccuracyFast, nil)
	require.NoError(t, err)
	assert.Equal(t, " y", out.Text)
}

func TestRecognize_CancelledBeforeStartNeverRuns(t *testing.T) {
	engine := &ocrtest.Engine{Regions: []ocr.Region{ocrtest.Region(0.5, ocrtest.Candidate("a", 1))}}
	r := newRecognizer(t, engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tk := r.Recognize(ctx, ocr.FromPath("/tmp/x.png"), ocr.AccuracyFast, nil)
	out, err := tk.Wait()

	assert.ErrorIs(t, err, task.ErrCancelled)
	assert.Equal(t, ocr.Outcome{}, out)
	assert.Equal(t, task.StateCancelled, tk.State())
	assert.Zero(t, engine.Performs())
}

func TestRecognize_CancelledWhileRunningDropsResult(t *testing.T) {
	engine := &ocrtest.Engine{
		Regions: []ocr.Region{ocrtest.Region(0.5, ocrtest.Candidate("late", 1))},
		Started: make(chan struct{}, 1),
		Release: make(chan struct{}),
	}
	r := newRecognizer(t, engine)

	ctx, cancel := context.WithCancel(context.Background())
	tk := r.Recognize(ctx, ocr.FromPath("/tmp/x.png"), ocr.AccuracyFast, nil)

	select {
	case <-engine.Started:
	case <-time.After(5 * time.Second):
		t.Fatal("engine never started")
	}
	assert.Equal(t, task.StateRunning, tk.State())

	cancel()
	close(engine.Release)

	_, err := tk.Wait()
	assert.ErrorIs(t, err, task.ErrCancelled)
	assert.Equal(t, 1, engine.Performs())
}

func TestRecognizer_Info(t *testing.T) {
	r := newRecognizer(t, &ocrtest.Engine{})

	info := r.Info()
	assert.Equal(t, "fake", info.Name)
	assert.True(t, info.Available)
	assert.Equal(t, "fake", r.EngineName())
}
