// Package server implements the MCP (Model Context Protocol) server for OCR.
//
// This package provides a JSON-RPC 2.0 server that exposes text recognition
// through the MCP protocol, so MCP-compatible clients can read the text in
// screenshots, scans and photos.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//   - notifications/cancelled: Abandon an in-flight tools/call
//
// # Available Tools
//
//   - ocr_recognize: Recognize text from a file path or base64 image
//   - ocr_engine_info: Report engine name, version and languages
//
// # Concurrency and Cancellation
//
// Each tools/call runs in its own goroutine and its recognition is scheduled
// on the shared worker pool, so a slow image never blocks ping or other calls.
// Responses may therefore arrive out of request order.
//
// A notifications/cancelled message for an in-flight call cancels it. A call
// that has not started yet never runs. A call that is already running is left
// to finish, but its result is discarded and no response is sent. A tools/call
// without an id is ignored, and one reusing the id of a call still in flight
// is rejected with -32600.
//
// Cancelling the context passed to Serve (the serve command does this on
// SIGINT and SIGTERM) stops reading stdin and cancels every in-flight call.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for bad arguments, -32000 for recognition failures
//   - message: Human-readable error description
//   - data: for recognition failures, {"kind": "<code>", "message": "<error>"}
//
// # Usage
//
//	srv := server.New(recognizer, server.Options{Version: version}, logger)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal().Err(err).Msg("server error")
//	}
package server
