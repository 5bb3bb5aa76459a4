// Package settings normalizes loosely-typed option bundles into canonical
// typed configuration.
//
// The bundle arrives from an untyped boundary (JSON from the UI layer) and
// may be partial, malformed, or use either camelCase or snake_case keys.
// Normalization has no failure path: every field has a safe default, bad
// values are clamped or dropped, and unrecognized enum values silently reset
// to their defaults. Downstream components consume only the typed structs.
package settings

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/studiopnt/paint-studio-mcp/internal/template"
)

// DitherMode selects the palette dithering algorithm.
type DitherMode string

const (
	DitherNone           DitherMode = "none"
	DitherErrorDiffusion DitherMode = "error-diffusion"
	DitherOrdered        DitherMode = "ordered"
)

// Dithering is the normalized dithering configuration. Strength is always
// within [0, 1].
type Dithering struct {
	Mode     DitherMode `json:"mode"`
	Strength float64    `json:"strength"`
}

// BorderStyle selects the canvas border treatment.
type BorderStyle string

const (
	BorderNone  BorderStyle = "none"
	BorderImage BorderStyle = "image"
)

// Border is the normalized border configuration. FrameImage is the raw
// frame reference as supplied; resolving it to a file (or degrading to no
// frame) is the asset layer's job.
type Border struct {
	Style      BorderStyle `json:"style"`
	Size       int         `json:"size"`
	FrameImage string      `json:"frame_image,omitempty"`
}

// Settings is the canonical form of an options bundle.
type Settings struct {
	// UseAllDyes disables palette restriction when true (the default).
	// When true the enabled-dye set is cleared.
	UseAllDyes bool

	// EnabledDyes is the explicit dye id allow-list, ascending and
	// deduplicated. Meaningful only when UseAllDyes is false.
	EnabledDyes []int

	// BestColors is the requested best-color count, clamped to >= 0.
	// Zero clears any resolved ranking.
	BestColors int

	Dithering Dithering
	Border    Border

	// PreviewMode is "visual" or "simulation" when the bundle carried a
	// recognized value, empty otherwise (meaning: leave session value).
	PreviewMode string

	// ShowOverlay is nil when the bundle did not mention the flag.
	ShowOverlay *bool

	// CanvasRequest is nil when the bundle carried none; clamping against
	// the template layout happens at resolution time.
	CanvasRequest *template.CanvasRequest

	// WriterMode is the normalized writer mode request ("auto" already
	// mapped to "raster20"). Validated at generation time.
	WriterMode string

	// PreviewQuality defaults to "final". Validated at render time.
	PreviewQuality string

	// PreviewMaxDim is the requested preview bound in pixels (0 = unset).
	PreviewMaxDim int

	// ImageName is the caller-supplied source image name, if any.
	ImageName string
}

// PreviewModeVisual and PreviewModeSimulation are the recognized preview
// modes. Simulation previews may compose the template overlay on top.
const (
	PreviewModeVisual     = "visual"
	PreviewModeSimulation = "simulation"
)

// Normalize converts an open bundle into canonical settings. A nil bundle
// yields pure defaults. Normalize never fails.
func Normalize(raw map[string]interface{}) Settings {
	s := Settings{
		UseAllDyes:     true,
		Dithering:      Dithering{Mode: DitherNone, Strength: 0.5},
		Border:         Border{Style: BorderNone},
		WriterMode:     "raster20",
		PreviewQuality: "final",
	}
	if raw == nil {
		return s
	}

	if v, ok := pick(raw, "useAllDyes", "use_all_dyes"); ok {
		s.UseAllDyes = asBool(v, true)
	}
	if v, ok := pick(raw, "enabledDyes", "enabled_dyes"); ok {
		s.EnabledDyes = toIDSet(v)
	}
	if s.UseAllDyes {
		// Palette restriction disabled: the enabled set is cleared.
		s.EnabledDyes = nil
	}

	if v, ok := pick(raw, "bestColors", "best_colors"); ok {
		if n, ok := asInt(v); ok && n > 0 {
			s.BestColors = n
		}
	}

	s.Dithering = normalizeDithering(lookupMap(raw, "ditheringConfig", "dithering_config"))
	s.Border = normalizeBorder(lookupMap(raw, "borderConfig", "border_config"))

	if v, ok := pick(raw, "previewMode", "preview_mode"); ok {
		mode := strings.ToLower(strings.TrimSpace(asString(v)))
		if mode == PreviewModeVisual || mode == PreviewModeSimulation {
			s.PreviewMode = mode
		}
	}

	if v, ok := pick(raw, "showOverlay", "show_overlay"); ok {
		b := asBool(v, false)
		s.ShowOverlay = &b
	}

	s.CanvasRequest = toCanvasRequest(lookupMap(raw, "canvasRequest", "canvas_request"))

	if v, ok := pick(raw, "writerMode", "writer_mode"); ok {
		mode := strings.ToLower(strings.TrimSpace(asString(v)))
		if mode == "auto" || mode == "" {
			mode = "raster20"
		}
		s.WriterMode = mode
	}

	if v, ok := pick(raw, "previewQuality", "preview_quality"); ok {
		if q := strings.ToLower(strings.TrimSpace(asString(v))); q != "" {
			s.PreviewQuality = q
		}
	}

	if v, ok := pick(raw, "previewMaxDim", "preview_max_dim"); ok {
		if n, ok := asInt(v); ok && n > 0 {
			s.PreviewMaxDim = n
		}
	}

	if v, ok := pick(raw, "imageName", "image_name"); ok {
		s.ImageName = strings.TrimSpace(asString(v))
	}

	return s
}

// normalizeDithering clamps strength into [0,1] and resets unrecognized
// modes to none.
func normalizeDithering(raw map[string]interface{}) Dithering {
	d := Dithering{Mode: DitherNone, Strength: 0.5}
	if raw == nil {
		return d
	}

	switch DitherMode(strings.ToLower(strings.TrimSpace(asString(raw["mode"])))) {
	case DitherErrorDiffusion:
		d.Mode = DitherErrorDiffusion
	case DitherOrdered:
		d.Mode = DitherOrdered
	}

	if v, ok := raw["strength"]; ok {
		if f, ok := asFloat(v); ok {
			d.Strength = f
		}
	}
	d.Strength = math.Max(0, math.Min(1, d.Strength))
	return d
}

// normalizeBorder clamps size to >= 0 and resets unrecognized styles to
// none.
func normalizeBorder(raw map[string]interface{}) Border {
	b := Border{Style: BorderNone}
	if raw == nil {
		return b
	}

	if BorderStyle(strings.ToLower(strings.TrimSpace(asString(raw["style"])))) == BorderImage {
		b.Style = BorderImage
	}
	if n, ok := asInt(raw["size"]); ok && n > 0 {
		b.Size = n
	}
	if f, ok := raw["frame_image"]; ok {
		b.FrameImage = strings.TrimSpace(asString(f))
	} else if f, ok := raw["frameImage"]; ok {
		b.FrameImage = strings.TrimSpace(asString(f))
	}
	return b
}

// toIDSet extracts integer ids from an arbitrary collection, silently
// dropping non-numeric entries. The result is ascending and deduplicated.
func toIDSet(v interface{}) []int {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}

	seen := make(map[int]bool)
	for _, item := range items {
		if n, ok := asInt(item); ok {
			seen[n] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}

	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// toCanvasRequest converts a raw request mapping into the typed form via a
// JSON round trip. Malformed requests degrade to nil.
func toCanvasRequest(raw map[string]interface{}) *template.CanvasRequest {
	if raw == nil {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var req template.CanvasRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil
	}
	return &req
}

// pick finds the first present key from the alternatives.
func pick(raw map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func lookupMap(raw map[string]interface{}, keys ...string) map[string]interface{} {
	v, ok := pick(raw, keys...)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	return m
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asBool(v interface{}, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func asInt(v interface{}) (int, bool) {
	f, ok := asFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
