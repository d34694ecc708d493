package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/ocr-tools-mcp/internal/imaging"
	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
	"github.com/ironsheep/ocr-tools-mcp/internal/task"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "ocr_recognize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errInvalidArguments marks tool errors caused by the caller's arguments.
var errInvalidArguments = errors.New("invalid arguments")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad arguments return -32602. Recognition failures return -32000 with the
// error kind in data. A cancelled call returns nil: the client asked for it
// to be abandoned and expects no response.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	switch {
	case err == nil:
	case errors.Is(err, task.ErrCancelled):
		return nil
	case errors.Is(err, errInvalidArguments):
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	default:
		return s.errorResponse(req.ID, -32000, "Tool execution failed", errorData(err))
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "ocr_recognize":
		return s.handleRecognize(ctx, args)
	case "ocr_engine_info":
		return s.rec.Info(), nil
	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArguments, name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// errorData describes err for the error response's data field. Classified
// recognition errors carry their kind code.
func errorData(err error) interface{} {
	kind, ok := ocr.KindOf(err)
	if !ok {
		return err.Error()
	}
	return map[string]interface{}{
		"kind":    kind.String(),
		"message": err.Error(),
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Recognition ===

type recognizeArgs struct {
	Path        string   `json:"path"`
	ImageBase64 string   `json:"image_base64"`
	Accuracy    string   `json:"accuracy"`
	Languages   []string `json:"languages"`

	Region   *imaging.Region `json:"region"`
	Quadrant string          `json:"quadrant"`
}

// RecognizeResult is the ocr_recognize tool result.
type RecognizeResult struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Accuracy   string   `json:"accuracy"`
	Languages  []string `json:"languages"`
	Engine     string   `json:"engine"`
	TaskID     string   `json:"task_id"`
}

func (s *Server) handleRecognize(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a recognizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}

	src, err := imageSourceFrom(a)
	if err != nil {
		return nil, err
	}
	if src, err = cropSource(src, a.Region, a.Quadrant); err != nil {
		return nil, err
	}

	accuracy := s.opts.Accuracy
	if a.Accuracy != "" {
		if accuracy, err = ocr.ParseAccuracy(a.Accuracy); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
		}
	}

	languages := a.Languages
	if len(languages) == 0 {
		languages = s.opts.Languages
	}

	t := s.rec.Recognize(ctx, src.Take(), accuracy, languages)
	s.log.Debug().Str("task", t.ID()).Str("accuracy", accuracy.String()).Msg("recognition scheduled")

	out, err := t.Wait()
	if err != nil {
		return nil, err
	}

	return RecognizeResult{
		Text:       out.Text,
		Confidence: out.Confidence,
		Accuracy:   accuracy.String(),
		Languages:  ocr.BuildRequest(accuracy, languages).Languages,
		Engine:     s.rec.EngineName(),
		TaskID:     t.ID(),
	}, nil
}

// imageSourceFrom builds the image source named by exactly one of path or
// image_base64. image_base64 may be a data URL.
func imageSourceFrom(a recognizeArgs) (ocr.ImageSource, error) {
	switch {
	case a.Path != "" && a.ImageBase64 != "":
		return ocr.ImageSource{}, fmt.Errorf("%w: path and image_base64 are mutually exclusive", errInvalidArguments)
	case a.Path != "":
		return ocr.FromPath(a.Path), nil
	case a.ImageBase64 != "":
		data, err := decodeImageBase64(a.ImageBase64)
		if err != nil {
			return ocr.ImageSource{}, fmt.Errorf("%w: image_base64: %v", errInvalidArguments, err)
		}
		return ocr.FromBytes(data), nil
	default:
		return ocr.ImageSource{}, fmt.Errorf("%w: one of path or image_base64 is required", errInvalidArguments)
	}
}

func decodeImageBase64(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return nil, errors.New("malformed data URL")
		}
		s = s[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty image")
	}
	return data, nil
}
