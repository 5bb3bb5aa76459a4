// Package server implements the MCP (Model Context Protocol) surface of the
// paint studio.
//
// This package provides a JSON-RPC 2.0 server that exposes the studio
// session's operations to MCP-compatible clients: template and dye
// listings, image and template selection, canvas sizing, settings
// application, preview rendering, and artifact generation.
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
// Session lifecycle:
//   - studio_init: Load the palette and report available assets
//
// Asset listings:
//   - template_list: Enriched template listing
//   - dye_list: Loaded dye palette
//   - frame_list: Border frame images
//   - external_list: External .pnt library scan
//
// Source selection:
//   - image_set: Set the source image (base64 bytes)
//   - external_select: Select an existing artifact as source
//
// Template & canvas:
//   - template_select: Select a template and resolve its canvas
//   - canvas_request: Resolve a user sizing request
//
// Settings & rendering:
//   - settings_apply: Normalize and apply a settings bundle
//   - preview_render: Render a PNG preview
//   - artifact_generate: Produce the validated artifact or tile archive
//   - best_colors: Rank the best-reconstruction dye subset
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: message plus the fault kind (invalid-argument, not-found,
//     not-ready, validation-failed, count-mismatch, empty-output) when the
//     failure is classified
//
// All logging goes through zap; stdout stays reserved for protocol traffic.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(studio, logger)
//	if err := srv.Run(); err != nil {
//	    logger.Fatal("server stopped", zap.Error(err))
//	}
package server
