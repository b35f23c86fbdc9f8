package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/eink-utils/internal/dither"
	"github.com/ironsheep/eink-utils/internal/imaging"
)

// errInvalidArguments marks tool arguments that are missing or malformed.
var errInvalidArguments = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "eink_load", "eink_dither_color").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ToolError is the data attached to a failed tool call.
type ToolError struct {
	// Kind is the error taxonomy name, such as "file_not_found" or
	// "invalid_depth".
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad arguments (unknown tool, unknown algorithm or handle, malformed
// arguments) return code -32602; every other failure returns -32000. Both
// carry a ToolError in data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", ToolError{Kind: "bad_argument", Detail: err.Error()})
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.toolErrorResponse(req.ID, params.Name, err)
	}
	s.log.Debug("tool call", "tool", params.Name, "duration", time.Since(start))

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

func (s *Server) toolErrorResponse(id interface{}, tool string, err error) *MCPResponse {
	kind := imaging.Kind(err)
	code := codeToolFailed
	if errors.Is(err, errInvalidArguments) {
		kind = "bad_argument"
	}
	if kind == "bad_argument" {
		code = codeInvalidParams
	}

	s.log.Warn("tool call failed", "tool", tool, "kind", kind, "error", err)
	return s.errorResponse(id, code, "Tool execution failed", ToolError{Kind: kind, Detail: err.Error()})
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies server defaults for optional parameters
//  3. Resolves the handle from the registry
//  4. Calls the matching Handle method
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Handle lifecycle
	case "eink_load":
		return s.handleLoad(args)
	case "eink_info":
		return s.handleInfo(args)
	case "eink_release":
		return s.handleRelease(args)

	// Transforms
	case "eink_resize":
		return s.handleResize(args)
	case "eink_dither_grayscale":
		return s.handleDither(args, (*imaging.Handle).DitherGrayscale)
	case "eink_dither_color":
		return s.handleDither(args, (*imaging.Handle).DitherColor)

	// Output
	case "eink_save":
		return s.handleSave(args)
	case "eink_to_binary":
		return s.handleToBinary(args)
	case "eink_palette":
		return s.handlePalette(args)
	case "eink_algorithms":
		return s.handleAlgorithms()

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArguments, name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

// handleResult is returned by every tool that leaves a live handle.
type handleResult struct {
	Handle string `json:"handle"`
	imaging.Info
}

func (s *Server) describe(id string, h *imaging.Handle) (*handleResult, error) {
	info, err := h.Info()
	if err != nil {
		return nil, err
	}
	return &handleResult{Handle: id, Info: info}, nil
}

// === Handle Lifecycle Handlers ===

type loadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLoad(args json.RawMessage) (interface{}, error) {
	var a loadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArguments)
	}

	h, err := imaging.Load(a.Path)
	if err != nil {
		return nil, err
	}
	id := s.registry.Put(h)
	s.log.Info("image loaded", "handle", id, "path", a.Path)
	return s.describe(id, h)
}

type handleArgs struct {
	Handle string `json:"handle"`
}

// lookup resolves the "handle" argument.
func (s *Server) lookup(id string) (*imaging.Handle, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: handle is required", errInvalidArguments)
	}
	return s.registry.Get(id)
}

func (s *Server) handleInfo(args json.RawMessage) (interface{}, error) {
	var a handleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	h, err := s.lookup(a.Handle)
	if err != nil {
		return nil, err
	}
	return s.describe(a.Handle, h)
}

func (s *Server) handleRelease(args json.RawMessage) (interface{}, error) {
	var a handleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Handle == "" {
		return nil, fmt.Errorf("%w: handle is required", errInvalidArguments)
	}
	return map[string]interface{}{
		"handle":   a.Handle,
		"released": s.registry.Release(a.Handle),
	}, nil
}

// === Transform Handlers ===

type resizeArgs struct {
	Handle string `json:"handle"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleResize(args json.RawMessage) (interface{}, error) {
	var a resizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	h, err := s.lookup(a.Handle)
	if err != nil {
		return nil, err
	}
	if err := h.Resize(a.Width, a.Height); err != nil {
		return nil, err
	}
	return s.describe(a.Handle, h)
}

type ditherArgs struct {
	Handle    string `json:"handle"`
	Algorithm string `json:"algorithm"`
	// Depth is a pointer so that an explicit 0 is rejected rather than
	// replaced by the default.
	Depth *int `json:"depth"`
}

func (s *Server) handleDither(args json.RawMessage, apply func(*imaging.Handle, dither.Algorithm, int) error) (interface{}, error) {
	var a ditherArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	alg := s.defaults.Algorithm
	if a.Algorithm != "" {
		parsed, err := dither.ParseAlgorithm(a.Algorithm)
		if err != nil {
			return nil, err
		}
		alg = parsed
	}
	depth := s.defaults.Depth
	if a.Depth != nil {
		depth = *a.Depth
	}

	h, err := s.lookup(a.Handle)
	if err != nil {
		return nil, err
	}
	if err := apply(h, alg, depth); err != nil {
		return nil, err
	}

	res, err := s.describe(a.Handle, h)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"handle":    res.Handle,
		"width":     res.Width,
		"height":    res.Height,
		"format":    res.Format,
		"channels":  res.Channels,
		"algorithm": alg.String(),
		"depth":     depth,
	}, nil
}

// === Output Handlers ===

type saveArgs struct {
	Handle      string `json:"handle"`
	Path        string `json:"path"`
	JPEGQuality int    `json:"jpeg_quality"`
}

func (s *Server) handleSave(args json.RawMessage) (interface{}, error) {
	var a saveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArguments)
	}
	if a.JPEGQuality == 0 {
		a.JPEGQuality = s.defaults.JPEGQuality
	}

	h, err := s.lookup(a.Handle)
	if err != nil {
		return nil, err
	}
	if err := h.SaveWithOptions(a.Path, imaging.SaveOptions{JPEGQuality: a.JPEGQuality}); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"handle": a.Handle,
		"path":   a.Path,
	}, nil
}

func (s *Server) handleToBinary(args json.RawMessage) (interface{}, error) {
	var a handleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	h, err := s.lookup(a.Handle)
	if err != nil {
		return nil, err
	}

	info, err := h.Info()
	if err != nil {
		return nil, err
	}
	b, err := h.Bytes()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"handle":   a.Handle,
		"width":    info.Width,
		"height":   info.Height,
		"format":   info.Format,
		"channels": info.Channels,
		"length":   len(b),
		"data":     base64.StdEncoding.EncodeToString(b),
	}, nil
}

type paletteArgs struct {
	Handle string `json:"handle"`
	Limit  *int   `json:"limit"`
}

func (s *Server) handlePalette(args json.RawMessage) (interface{}, error) {
	var a paletteArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	limit := 32
	if a.Limit != nil {
		limit = *a.Limit
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit %d is negative", errInvalidArguments, limit)
	}

	h, err := s.lookup(a.Handle)
	if err != nil {
		return nil, err
	}
	p, err := h.Palette()
	if err != nil {
		return nil, err
	}

	colors := p.Colors
	if limit > 0 && len(colors) > limit {
		colors = colors[:limit]
	}
	return map[string]interface{}{
		"handle":   a.Handle,
		"pixels":   p.Pixels,
		"distinct": len(p.Colors),
		"colors":   colors,
	}, nil
}

type algorithmInfo struct {
	Name     string  `json:"name"`
	Divisor  int     `json:"divisor"`
	Taps     int     `json:"taps"`
	Coverage float64 `json:"coverage"`
	Default  bool    `json:"default,omitempty"`
}

func (s *Server) handleAlgorithms() (interface{}, error) {
	algs := dither.Algorithms()
	out := make([]algorithmInfo, 0, len(algs))
	for _, a := range algs {
		k, err := dither.KernelFor(a)
		if err != nil {
			return nil, err
		}
		out = append(out, algorithmInfo{
			Name:     a.String(),
			Divisor:  k.Divisor,
			Taps:     len(k.Taps),
			Coverage: k.Coverage(),
			Default:  a == s.defaults.Algorithm,
		})
	}
	return map[string]interface{}{
		"algorithms":    out,
		"default_depth": s.defaults.Depth,
		"max_depth":     dither.MaxDepth,
	}, nil
}
