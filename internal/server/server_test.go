package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
	"github.com/ironsheep/ocr-tools-mcp/internal/ocr/ocrtest"
	"github.com/ironsheep/ocr-tools-mcp/internal/task"
)

// newTestServer returns a server backed by engine with a two-worker pool.
func newTestServer(t *testing.T, engine ocr.Engine) *Server {
	t.Helper()
	pool, err := task.NewPool(2, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	rec := ocr.NewRecognizer(engine, pool)
	return New(rec, Options{Accuracy: ocr.AccuracyAccurate, Version: "1.2.3"}, zerolog.Nop())
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := newTestServer(t, &ocrtest.Engine{})
	req := &MCPRequest{JSONRPC: "2.0", ID: "init-1", Method: "initialize"}

	resp := s.handleRequest(context.Background(), req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("serverInfo should be a map")
	}
	if serverInfo["name"] != "ocr-tools-mcp" {
		t.Errorf("serverInfo.name: got %v", serverInfo["name"])
	}
	if serverInfo["version"] != "1.2.3" {
		t.Errorf("serverInfo.version: got %v", serverInfo["version"])
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := newTestServer(t, &ocrtest.Engine{})

	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: "ping-1", Method: "ping"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ID != "ping-1" {
		t.Errorf("ID: got %v, want ping-1", resp.ID)
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s := newTestServer(t, &ocrtest.Engine{})

	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != 2 {
		t.Errorf("Expected 2 tools, got %d", len(toolsList))
	}
}

func TestHandleRequest_Notifications(t *testing.T) {
	s := newTestServer(t, &ocrtest.Engine{})

	for _, method := range []string{"notifications/initialized", "notifications/unknown"} {
		if resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", Method: method}); resp != nil {
			t.Errorf("%s should not get a response", method)
		}
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s := newTestServer(t, &ocrtest.Engine{})

	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "nonexistent/method"})

	if resp == nil || resp.Error == nil {
		t.Fatal("Expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("Error code: got %d, want -32601", resp.Error.Code)
	}
}

// lockedBuffer lets a test read output while Serve is still writing.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// responses decodes every response written so far, keyed by id.
func (b *lockedBuffer) responses(t *testing.T) map[string]MCPResponse {
	t.Helper()
	b.mu.Lock()
	data := append([]byte(nil), b.buf.Bytes()...)
	b.mu.Unlock()

	out := make(map[string]MCPResponse)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var r MCPResponse
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		out[requestKey(r.ID)] = r
	}
	return out
}

func TestServe_AnswersInOrderAndSkipsGarbage(t *testing.T) {
	s := newTestServer(t, &ocrtest.Engine{})
	in := strings.NewReader(strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n"))
	var out lockedBuffer

	require.NoError(t, s.Serve(context.Background(), in, &out))

	resps := out.responses(t)
	assert.Len(t, resps, 2)
	assert.Contains(t, resps, "1")
	assert.Contains(t, resps, "2")
}

func TestServe_CallsRunConcurrently(t *testing.T) {
	engine := &ocrtest.Engine{
		Regions: []ocr.Region{ocrtest.Region(0.5, ocrtest.Candidate("slow", 0.9))},
		Started: make(chan struct{}, 1),
		Release: make(chan struct{}),
	}
	s := newTestServer(t, engine)

	inR, inW := io.Pipe()
	var out lockedBuffer
	done := make(chan error, 1)
	go func() { done <- s.Serve(context.Background(), inR, &out) }()

	writeLine(t, inW, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"ocr_recognize","arguments":{"path":"/tmp/a.png"}}}`)
	waitFor(t, engine.Started)

	writeLine(t, inW, `{"jsonrpc":"2.0","id":8,"method":"ping"}`)
	assert.Eventually(t, func() bool {
		_, ok := out.responses(t)["8"]
		return ok
	}, 5*time.Second, 10*time.Millisecond)
	assert.NotContains(t, out.responses(t), "7")

	close(engine.Release)
	require.NoError(t, inW.Close())
	require.NoError(t, <-done)

	resp := out.responses(t)["7"]
	require.Nil(t, resp.Error)
	assert.Contains(t, mustMarshalJSON(resp.Result), "slow")
}

func TestServe_CancelledCallGetsNoResponse(t *testing.T) {
	engine := &ocrtest.Engine{
		Regions: []ocr.Region{ocrtest.Region(0.5, ocrtest.Candidate("late", 0.9))},
		Started: make(chan struct{}, 1),
		Release: make(chan struct{}),
	}
	s := newTestServer(t, engine)

	inR, inW := io.Pipe()
	var out lockedBuffer
	done := make(chan error, 1)
	go func() { done <- s.Serve(context.Background(), inR, &out) }()

	writeLine(t, inW, `{"jsonrpc":"2.0","id":"job-1","method":"tools/call","params":{"name":"ocr_recognize","arguments":{"path":"/tmp/a.png"}}}`)
	waitFor(t, engine.Started)

	writeLine(t, inW, `{"jsonrpc":"2.0","method":"notifications/cancelled","params":{"requestId":"job-1","reason":"user aborted"}}`)
	writeLine(t, inW, `{"jsonrpc":"2.0","id":"after","method":"ping"}`)
	assert.Eventually(t, func() bool {
		_, ok := out.responses(t)["after"]
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	close(engine.Release)
	require.NoError(t, inW.Close())
	require.NoError(t, <-done)

	resps := out.responses(t)
	assert.NotContains(t, resps, "job-1")
	assert.Equal(t, 1, engine.Performs())
}

func TestServe_ReturnsWhenContextCancelled(t *testing.T) {
	engine := &ocrtest.Engine{
		Regions: []ocr.Region{ocrtest.Region(0.5, ocrtest.Candidate("late", 0.9))},
		Started: make(chan struct{}, 1),
		Release: make(chan struct{}),
	}
	s := newTestServer(t, engine)

	inR, inW := io.Pipe()
	t.Cleanup(func() { inW.Close() })
	var out lockedBuffer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, inR, &out) }()

	writeLine(t, inW, `{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	writeLine(t, inW, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"ocr_recognize","arguments":{"path":"/tmp/a.png"}}}`)
	waitFor(t, engine.Started)

	// stdin stays open
	cancel()
	close(engine.Release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve kept running after its context was cancelled")
	}

	resps := out.responses(t)
	assert.Contains(t, resps, "1")
	assert.NotContains(t, resps, "2")
}

func TestServe_ToolsCallWithoutIDIsIgnored(t *testing.T) {
	engine := &ocrtest.Engine{Regions: []ocr.Region{ocrtest.Region(0.5, ocrtest.Candidate("x", 1))}}
	s := newTestServer(t, engine)
	in := strings.NewReader(strings.Join([]string{
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"ocr_recognize","arguments":{"path":"/tmp/a.png"}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"ping"}`,
	}, "\n"))
	var out lockedBuffer

	require.NoError(t, s.Serve(context.Background(), in, &out))

	resps := out.responses(t)
	assert.Len(t, resps, 1)
	assert.Contains(t, resps, "3")
	assert.Equal(t, 0, engine.Performs())
}

func TestServe_DuplicateCallIDIsRejected(t *testing.T) {
	engine := &ocrtest.Engine{
		Regions: []ocr.Region{ocrtest.Region(0.5, ocrtest.Candidate("first", 0.9))},
		Started: make(chan struct{}, 2),
		Release: make(chan struct{}),
	}
	s := newTestServer(t, engine)

	inR, inW := io.Pipe()
	var out lockedBuffer
	done := make(chan error, 1)
	go func() { done <- s.Serve(context.Background(), inR, &out) }()

	call := `{"jsonrpc":"2.0","id":"dup","method":"tools/call","params":{"name":"ocr_recognize","arguments":{"path":"/tmp/a.png"}}}`
	writeLine(t, inW, call)
	waitFor(t, engine.Started)
	writeLine(t, inW, call)

	assert.Eventually(t, func() bool {
		_, ok := out.responses(t)["dup"]
		return ok
	}, 5*time.Second, 10*time.Millisecond)
	resp := out.responses(t)["dup"]
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32600, resp.Error.Code)

	// the original call can still be cancelled
	writeLine(t, inW, `{"jsonrpc":"2.0","method":"notifications/cancelled","params":{"requestId":"dup"}}`)
	writeLine(t, inW, `{"jsonrpc":"2.0","id":"after","method":"ping"}`)
	assert.Eventually(t, func() bool {
		_, ok := out.responses(t)["after"]
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	close(engine.Release)
	require.NoError(t, inW.Close())
	require.NoError(t, <-done)

	assert.Equal(t, 1, engine.Performs())
	assert.NotNil(t, out.responses(t)["dup"].Error)
}

func writeLine(t *testing.T, w io.Writer, line string) {
	t.Helper()
	_, err := io.WriteString(w, line+"\n")
	require.NoError(t, err)
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for engine")
	}
}
