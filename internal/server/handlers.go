package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/studiopnt/paint-studio-mcp/internal/fault"
	"github.com/studiopnt/paint-studio-mcp/internal/template"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "template_select", "preview_render").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000;
// the error data carries the fault kind when the failure is classified.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed",
			zap.String("tool", params.Name),
			zap.String("kind", string(fault.KindOf(err))),
			zap.Error(err))
		return s.faultResponse(req.ID, err)
	}

	s.log.Debug("tool succeeded", zap.String("tool", params.Name))
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session lifecycle
	case "studio_init":
		return s.handleStudioInit()

	// Asset listings
	case "template_list":
		return s.handleTemplateList()
	case "dye_list":
		return s.handleDyeList()
	case "frame_list":
		return s.handleFrameList()
	case "external_list":
		return s.handleExternalList(args)

	// Source selection
	case "image_set":
		return s.handleImageSet(args)
	case "external_select":
		return s.handleExternalSelect(args)

	// Template & canvas
	case "template_select":
		return s.handleTemplateSelect(args)
	case "canvas_request":
		return s.handleCanvasRequest(args)

	// Settings & rendering
	case "settings_apply":
		return s.handleSettingsApply(args)
	case "preview_render":
		return s.handlePreviewRender(args)
	case "artifact_generate":
		return s.handleArtifactGenerate(args)
	case "best_colors":
		return s.handleBestColors(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
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

// faultResponse maps an operation error to a JSON-RPC error, exposing the
// fault kind so callers can render a specific message.
func (s *Server) faultResponse(id interface{}, err error) *MCPResponse {
	data := map[string]interface{}{"message": err.Error()}
	if kind := fault.KindOf(err); kind != "" {
		data["kind"] = string(kind)
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    -32000,
			Message: "Tool execution failed",
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Session Lifecycle Handlers ===

func (s *Server) handleStudioInit() (interface{}, error) {
	return s.studio.Init(), nil
}

// === Asset Listing Handlers ===

func (s *Server) handleTemplateList() (interface{}, error) {
	return map[string]interface{}{"templates": s.studio.ListTemplates()}, nil
}

func (s *Server) handleDyeList() (interface{}, error) {
	return map[string]interface{}{"dyes": s.studio.ListDyes()}, nil
}

func (s *Server) handleFrameList() (interface{}, error) {
	return map[string]interface{}{"frames": s.studio.ListFrames()}, nil
}

type externalListArgs struct {
	Recursive *bool `json:"recursive"`
}

func (s *Server) handleExternalList(args json.RawMessage) (interface{}, error) {
	a := externalListArgs{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}
	recursive := true
	if a.Recursive != nil {
		recursive = *a.Recursive
	}
	items, err := s.studio.ListExternal(recursive)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"items": items}, nil
}

// === Source Selection Handlers ===

type imageSetArgs struct {
	Name string `json:"name"`
	Data string `json:"data"` // base64-encoded image bytes
}

func (s *Server) handleImageSet(args json.RawMessage) (interface{}, error) {
	var a imageSetArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidArgument, err, "image data is not valid base64")
	}
	width, height, err := s.studio.SetImageData(raw, a.Name)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"width": width, "height": height}, nil
}

type externalSelectArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleExternalSelect(args json.RawMessage) (interface{}, error) {
	var a externalSelectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	canvas, err := s.studio.SelectExternal(a.Path)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"canvas": canvas}, nil
}

// === Template & Canvas Handlers ===

type templateSelectArgs struct {
	ID        string                 `json:"id"`
	Overrides map[string]interface{} `json:"overrides,omitempty"`
}

func (s *Server) handleTemplateSelect(args json.RawMessage) (interface{}, error) {
	var a templateSelectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	canvas, err := s.studio.SelectTemplate(a.ID, a.Overrides)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"id": a.ID, "canvas": canvas}, nil
}

func (s *Server) handleCanvasRequest(args json.RawMessage) (interface{}, error) {
	var req template.CanvasRequest
	if len(args) > 0 {
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, err
		}
	}
	canvas, err := s.studio.SetCanvasRequest(&req)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"canvas": canvas}, nil
}

// === Settings & Rendering Handlers ===

type settingsArgs struct {
	Settings map[string]interface{} `json:"settings"`
}

func (s *Server) handleSettingsApply(args json.RawMessage) (interface{}, error) {
	a := settingsArgs{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}
	state, err := s.studio.ApplySettings(a.Settings)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"state": state}, nil
}

type previewRenderArgs struct {
	Mode     string                 `json:"mode"`
	Quality  string                 `json:"quality"`
	Settings map[string]interface{} `json:"settings,omitempty"`
}

func (s *Server) handlePreviewRender(args json.RawMessage) (interface{}, error) {
	a := previewRenderArgs{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}
	data, err := s.studio.RenderPreview(a.Mode, a.Quality, a.Settings)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"format": "png",
		"data":   base64.StdEncoding.EncodeToString(data),
	}, nil
}

func (s *Server) handleArtifactGenerate(args json.RawMessage) (interface{}, error) {
	a := settingsArgs{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}
	result, err := s.studio.Generate(a.Settings)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"file_name":   result.FileName,
		"archive":     result.Archive,
		"tiles":       result.Tiles,
		"rows":        result.Rows,
		"cols":        result.Cols,
		"writer_mode": result.WriterMode,
		"size":        len(result.Data),
		"data":        base64.StdEncoding.EncodeToString(result.Data),
	}, nil
}

type bestColorsArgs struct {
	Count int `json:"count"`
}

func (s *Server) handleBestColors(args json.RawMessage) (interface{}, error) {
	a := bestColorsArgs{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}
	ranking, err := s.studio.BestColors(a.Count)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"ranking": ranking}, nil
}
