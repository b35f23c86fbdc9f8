package server

import (
	"github.com/ironsheep/eink-utils/internal/dither"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func handleProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Handle ID returned by eink_load",
	}
}

func algorithmProperty() map[string]interface{} {
	names := make([]string, 0, len(dither.Algorithms()))
	for _, a := range dither.Algorithms() {
		names = append(names, a.String())
	}
	return map[string]interface{}{
		"type":        "string",
		"enum":        names,
		"description": "Error diffusion kernel. Defaults to the server's configured algorithm.",
	}
}

func depthProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     1,
		"maximum":     dither.MaxDepth,
		"description": "Bits per output sample (1-8). 1 gives pure black and white per channel. Defaults to the server's configured depth.",
	}
}

func handleOnlySchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"handle": handleProperty(),
		},
		"required": []string{"handle"},
	}
}

func ditherSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"handle":    handleProperty(),
			"algorithm": algorithmProperty(),
			"depth":     depthProperty(),
		},
		"required": []string{"handle"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Handle lifecycle
		{
			Name:        "eink_load",
			Description: "Decode an image file (PNG, JPEG, GIF, BMP, TIFF, WebP) into an RGB working image. Returns a handle ID for the other eink_* tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "eink_info",
			Description: "Report the current width, height and pixel format (rgb or gray) of a handle.",
			InputSchema: handleOnlySchema(),
		},
		{
			Name:        "eink_release",
			Description: "Drop a handle and free its pixels. The ID is invalid afterwards.",
			InputSchema: handleOnlySchema(),
		},

		// Transforms
		{
			Name:        "eink_resize",
			Description: "Scale the image to exactly width x height. The image is scaled to cover the target and center-cropped, never letterboxed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"handle": handleProperty(),
					"width": map[string]interface{}{
						"type":        "integer",
						"minimum":     1,
						"description": "Target width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"minimum":     1,
						"description": "Target height in pixels",
					},
				},
				"required": []string{"handle", "width", "height"},
			},
		},
		{
			Name:        "eink_dither_grayscale",
			Description: "Convert to luma and error-diffuse to 2^depth gray levels. The handle is left in gray format.",
			InputSchema: ditherSchema(),
		},
		{
			Name:        "eink_dither_color",
			Description: "Error-diffuse each RGB channel independently to 2^depth levels. Depth 1 yields the 8 corner colors of the RGB cube.",
			InputSchema: ditherSchema(),
		},

		// Output
		{
			Name:        "eink_save",
			Description: "Encode the current image to a file. The format follows the extension: .png, .jpg/.jpeg, .bmp, .gif, .tif/.tiff.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"handle": handleProperty(),
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute output path",
					},
					"jpeg_quality": map[string]interface{}{
						"type":        "integer",
						"minimum":     1,
						"maximum":     100,
						"description": "JPEG quality for .jpg outputs. Defaults to the server's configured quality.",
					},
				},
				"required": []string{"handle", "path"},
			},
		},
		{
			Name:        "eink_to_binary",
			Description: "Export the raw samples of the current image, row-major with no header, as base64. Gray images give 1 byte per pixel, RGB images 3.",
			InputSchema: handleOnlySchema(),
		},
		{
			Name:        "eink_palette",
			Description: "List the distinct colors in the current image with pixel counts, most frequent first. Use after dithering to check the output fits a panel's palette.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"handle": handleProperty(),
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of colors to return. Default 32, 0 for all.",
						"default":     32,
					},
				},
				"required": []string{"handle"},
			},
		},
		{
			Name:        "eink_algorithms",
			Description: "List the supported dither algorithms with their kernel divisor and the share of error each one diffuses.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
