package httpapi

import (
	"context"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/ironsheep/ocr-tools-mcp/internal/config"
	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
)

// RecognizeResponse is the body of a successful POST /v1/recognize.
type RecognizeResponse struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Accuracy   string   `json:"accuracy"`
	Languages  []string `json:"languages"`
	Engine     string   `json:"engine"`
	TaskID     string   `json:"task_id"`
}

// Recognize runs OCR on an uploaded image or a server-side path.
func (h *Handler) Recognize(c *fiber.Ctx) error {
	src, err := imageSource(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	accuracy := h.opts.Accuracy
	if v := c.FormValue("accuracy"); v != "" {
		if accuracy, err = ocr.ParseAccuracy(v); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	languages := config.SplitList(c.FormValue("languages"))
	if len(languages) == 0 {
		languages = h.opts.Languages
	}

	ctx := c.UserContext()
	if h.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.Timeout)
		defer cancel()
	}

	t := h.rec.Recognize(ctx, src.Take(), accuracy, languages)
	out, err := t.Wait()
	if err != nil {
		h.log.Warn().Err(err).Str("task", t.ID()).Msg("recognition failed")
		return c.Status(statusFor(err)).JSON(errorBody(err))
	}

	return c.JSON(RecognizeResponse{
		Text:       out.Text,
		Confidence: out.Confidence,
		Accuracy:   accuracy.String(),
		Languages:  ocr.BuildRequest(accuracy, languages).Languages,
		Engine:     h.rec.EngineName(),
		TaskID:     t.ID(),
	})
}

// imageSource reads the multipart "image" file, or else the "path" field.
func imageSource(c *fiber.Ctx) (ocr.ImageSource, error) {
	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return ocr.ImageSource{}, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return ocr.ImageSource{}, fmt.Errorf("failed to read upload: %w", err)
		}
		if len(data) == 0 {
			return ocr.ImageSource{}, fmt.Errorf("image upload is empty")
		}
		return ocr.FromBytes(data), nil
	}

	if p := c.FormValue("path"); p != "" {
		return ocr.FromPath(p), nil
	}
	return ocr.ImageSource{}, fmt.Errorf("an image file or a path is required")
}
