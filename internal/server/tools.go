package server

import "github.com/ironsheep/ocr-tools-mcp/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: "ocr_recognize",
			Description: "Recognize the text in an image. Pass either an absolute file path or the image bytes as base64. " +
				"Returns the recognized text (lines joined by spaces, with a newline before text near the bottom edge) " +
				"and the mean confidence of the chosen candidates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"image_base64": map[string]interface{}{
						"type":        "string",
						"description": "Encoded image (PNG, JPEG, GIF, BMP, TIFF or WebP) as base64 or a data URL. Mutually exclusive with path.",
					},
					"accuracy": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"fast", "accurate"},
						"description": "Recognition level. Defaults to the server's configured level.",
					},
					"languages": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Preferred languages as BCP-47 tags, most preferred first (e.g. [\"en-US\", \"fr-FR\"]). Defaults to en-US.",
					},
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Only recognize this pixel rectangle (top-left origin, x2/y2 exclusive).",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x1", "y1", "x2", "y2"},
					},
					"quadrant": map[string]interface{}{
						"type":        "string",
						"enum":        imaging.Quadrants,
						"description": "Only recognize a named part of the image. Mutually exclusive with region.",
					},
				},
			},
		},
		{
			Name:        "ocr_engine_info",
			Description: "Describe the OCR engine: name, version, availability and installed languages.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
