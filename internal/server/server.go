package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
)

// Server handles MCP protocol communication
type Server struct {
	rec  *ocr.Recognizer
	opts Options
	log  zerolog.Logger

	writeMu sync.Mutex
	enc     *json.Encoder

	mu       sync.Mutex
	inflight map[string]context.CancelFunc
	calls    sync.WaitGroup
}

// Options carries the defaults applied to tool calls and the identity the
// server reports during initialize.
type Options struct {
	// Accuracy is used when a call does not name one.
	Accuracy ocr.Accuracy

	// Languages is used when a call does not list any. Empty means the
	// recognizer's default.
	Languages []string

	// Version is reported as serverInfo.version.
	Version string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CancelledParams are the params of a notifications/cancelled message.
type CancelledParams struct {
	RequestID interface{} `json:"requestId"`
	Reason    string      `json:"reason,omitempty"`
}

// New creates a new MCP server instance
func New(rec *ocr.Recognizer, opts Options, log zerolog.Logger) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Server{
		rec:      rec,
		opts:     opts,
		log:      log,
		inflight: make(map[string]context.CancelFunc),
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads newline-delimited JSON-RPC messages from in and writes
// responses to out until in is exhausted or ctx is done.
//
// tools/call requests run concurrently; every other method is answered in
// order. A tools/call named by notifications/cancelled is abandoned and gets
// no response. Cancelling ctx stops reading and cancels every outstanding
// call. Serve waits for outstanding calls before returning.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	// Base64 images can be large
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 64*1024*1024)

	s.enc = json.NewEncoder(out)
	defer s.calls.Wait()

	// Reads block, so they run apart from the loop that watches ctx.
	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				scanErr <- nil
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("context done, no longer reading requests")
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("scanner error: %w", err)
				}
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			s.dispatch(ctx, line)
		}
	}
}

func (s *Server) dispatch(ctx context.Context, line []byte) {
	if len(line) == 0 {
		return
	}

	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.Warn().Err(err).Msg("failed to parse request")
		return
	}

	switch req.Method {
	case "tools/call":
		s.startCall(ctx, &req)
	case "notifications/cancelled":
		s.handleCancelled(&req)
	default:
		s.write(s.handleRequest(ctx, &req))
	}
}

// startCall runs a tools/call in its own goroutine, registered so that a
// later notifications/cancelled can reach it. A call without an id is
// ignored; one reusing the id of a call still in flight is rejected.
func (s *Server) startCall(ctx context.Context, req *MCPRequest) {
	if req.ID == nil {
		s.log.Warn().Msg("ignoring tools/call without id")
		return
	}

	key := requestKey(req.ID)
	callCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if _, busy := s.inflight[key]; busy {
		s.mu.Unlock()
		cancel()
		s.log.Warn().Str("request", key).Msg("duplicate request id")
		s.write(s.errorResponse(req.ID, -32600, "Invalid Request", fmt.Sprintf("request id %s is already in flight", key)))
		return
	}
	s.inflight[key] = cancel
	s.mu.Unlock()

	s.calls.Add(1)
	go func() {
		defer s.calls.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inflight, key)
			s.mu.Unlock()
			cancel()
		}()

		resp := s.handleRequest(callCtx, req)
		if callCtx.Err() != nil {
			s.log.Debug().Str("request", key).Msg("call cancelled, dropping response")
			return
		}
		s.write(resp)
	}()
}

func (s *Server) handleCancelled(req *MCPRequest) {
	var p CancelledParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.log.Warn().Err(err).Msg("invalid cancellation")
		return
	}

	key := requestKey(p.RequestID)
	s.mu.Lock()
	cancel, ok := s.inflight[key]
	s.mu.Unlock()

	if !ok {
		s.log.Debug().Str("request", key).Msg("cancellation for unknown request")
		return
	}
	s.log.Info().Str("request", key).Str("reason", p.Reason).Msg("cancelling call")
	cancel()
}

func (s *Server) write(resp *MCPResponse) {
	if resp == nil {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.enc.Encode(resp); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

// requestKey normalizes a JSON-RPC id. Numbers decode as float64, so 7 and
// 7.0 map to the same key.
func requestKey(id interface{}) string {
	return fmt.Sprintf("%v", id)
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		if req.ID == nil {
			// Unknown notification
			return nil
		}
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "ocr-tools-mcp",
				"version": s.opts.Version,
			},
		},
	}
}

// handleToolsList returns the available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
