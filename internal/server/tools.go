package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	settingsProperty := map[string]interface{}{
		"type":        "object",
		"description": "Open settings bundle: useAllDyes, enabledDyes, bestColors, ditheringConfig {mode, strength}, borderConfig {style, size, frame_image}, previewMode, showOverlay, canvasRequest, writerMode, previewQuality, previewMaxDim, imageName. Unknown or malformed fields fall back to defaults.",
	}

	return []Tool{
		// Session lifecycle
		{
			Name:        "studio_init",
			Description: "Initialize the studio session: load the dye palette resource and report how many templates, dyes, and frame images are available.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Asset listings
		{
			Name:        "template_list",
			Description: "List the available layout templates with label, raster dimensions, derived category (structures/dinos/humans/other), and family grouping.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "dye_list",
			Description: "List the loaded dye palette (id, name, hex, linear RGB). Empty when the palette resource is absent.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "frame_list",
			Description: "List the discovered tileable border frame images.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "external_list",
			Description: "Scan the external .pnt library and list its artifacts sorted by name.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"recursive": map[string]interface{}{
						"type":        "boolean",
						"description": "Descend into subdirectories. Default true.",
						"default":     true,
					},
				},
			},
		},

		// Source selection
		{
			Name:        "image_set",
			Description: "Set the source image for painting. Data is base64-encoded PNG/JPEG/GIF/WebP bytes; the name is used for artifact file naming.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Source image name",
					},
					"data": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded image bytes",
					},
				},
				"required": []string{"data"},
			},
		},
		{
			Name:        "external_select",
			Description: "Select an existing .pnt artifact from the external library as the generation source.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Artifact path, absolute or relative to the external library root",
					},
				},
				"required": []string{"path"},
			},
		},

		// Template & canvas
		{
			Name:        "template_select",
			Description: "Select a layout template by id and resolve its default canvas. Optional overrides replace whole descriptor sections.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Template id",
					},
					"overrides": map[string]interface{}{
						"type":        "object",
						"description": "Optional top-level descriptor section overrides",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "canvas_request",
			Description: "Request a canvas size for the selected template. Multi-canvas templates take rows/cols, dynamic ones rows_y/blocks_x; values are clamped to the descriptor bounds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mode": map[string]interface{}{
						"type":        "string",
						"description": "Layout kind the request sizes for (multi_canvas or dynamic)",
					},
					"rows":     map[string]interface{}{"type": "integer"},
					"cols":     map[string]interface{}{"type": "integer"},
					"rows_y":   map[string]interface{}{"type": "integer"},
					"blocks_x": map[string]interface{}{"type": "integer"},
				},
			},
		},

		// Settings & rendering
		{
			Name:        "settings_apply",
			Description: "Normalize and apply a settings bundle to the session. Normalization never fails; bad values fall back to safe defaults.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"settings": settingsProperty,
				},
			},
		},
		{
			Name:        "preview_render",
			Description: "Render a PNG preview of the current session. Mode visual shows the resized image; simulation paints with the enabled dyes and may compose the template overlay. Quality fast downsamples the result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mode": map[string]interface{}{
						"type": "string",
						"enum": []string{"visual", "simulation"},
					},
					"quality": map[string]interface{}{
						"type": "string",
						"enum": []string{"fast", "final"},
					},
					"settings": settingsProperty,
				},
			},
		},
		{
			Name:        "artifact_generate",
			Description: "Generate the validated .pnt artifact for the selected template; multi-canvas grids produce a deterministic tile archive (zip). Returns base64 artifact bytes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"settings": settingsProperty,
				},
			},
		},
		{
			Name:        "best_colors",
			Description: "Rank the dyes that best reconstruct the current image and restrict the palette to them.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "How many dyes to keep",
					},
				},
				"required": []string{"count"},
			},
		},
	}
}
