// Package server implements the MCP (Model Context Protocol) server for the
// e-paper conversion tools.
//
// A calling process loads images into server-side handles, transforms them
// in place and pulls the result back as a file or raw bytes, one tool call at
// a time.
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
//
// # Available Tools
//
// Handle lifecycle:
//   - eink_load: Decode a file, returns a handle ID
//   - eink_info: Current dimensions and pixel format
//   - eink_release: Drop a handle
//
// Transforms:
//   - eink_resize: Crop-to-fill resize to exact dimensions
//   - eink_dither_grayscale: Luma conversion plus error diffusion
//   - eink_dither_color: Per-channel RGB error diffusion
//
// Output:
//   - eink_save: Encode to a file chosen by extension
//   - eink_to_binary: Raw samples as base64
//   - eink_palette: Distinct colors with counts
//   - eink_algorithms: Supported kernels
//
// # Handles
//
// Handles live in an imaging.Registry until eink_release is called or the
// input stream ends. Each handle carries its own lock, so a failed or
// panicking operation on one image never affects another.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC error responses with:
//   - code: -32602 for bad arguments (unknown tool, algorithm or handle,
//     malformed arguments), -32000 for everything else
//   - message: "Tool execution failed"
//   - data: a ToolError with the error kind (see imaging.Kind) and detail
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(server.WithDefaults(defaults))
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
