// Package session owns the long-lived studio session and orchestrates all
// public operations: template selection, canvas resolution, settings
// application, preview rendering, artifact generation, and best-color
// ranking.
//
// The session is a single mutable record. Every public entry point locks
// one mutex, so callers in a concurrent host never interleave mutations;
// none of the underlying algorithms are safe under concurrent state change.
package session

import (
	"bytes"
	"encoding/json"
	"image"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/studiopnt/paint-studio-mcp/internal/assets"
	"github.com/studiopnt/paint-studio-mcp/internal/config"
	"github.com/studiopnt/paint-studio-mcp/internal/dye"
	"github.com/studiopnt/paint-studio-mcp/internal/fault"
	"github.com/studiopnt/paint-studio-mcp/internal/pnt"
	"github.com/studiopnt/paint-studio-mcp/internal/settings"
	"github.com/studiopnt/paint-studio-mcp/internal/template"
)

// Controller is the rendering controller contract the session drives. The
// bundled render.Engine implements it; a bridge to the external toolchain
// can replace it without touching the session.
type Controller interface {
	SetPalette(dye.Palette)
	SetImage(img image.Image, name string)
	SetTemplate(id string, d *template.Descriptor)
	SetExternalSource(path string) error
	SetEnabledDyes(ids []int)
	SetDithering(d settings.Dithering)
	SetBorder(style settings.BorderStyle, size int, frame image.Image)
	SetPreviewMode(mode string)
	SetWriterMode(mode pnt.WriterMode)
	SetCanvas(width, height int)
	SetMultiCanvasRequest(rows, cols int)
	SetDynamicCanvasRequest(rowsY, blocksX int)
	CanvasSize() (int, int)
	FixedPaintArea(d *template.Descriptor) json.RawMessage
	RenderPreview() (image.Image, bool)
	RequestGeneration(outputPath, palettePath string) error
	RequestGenerationBatch(outputDir, palettePath string) error
	CalculateBestDyes(limit int) []int
}

// State mirrors the session fields visible to callers.
type State struct {
	ImageName   string `json:"image_name,omitempty"`
	ImageWidth  int    `json:"image_width,omitempty"`
	ImageHeight int    `json:"image_height,omitempty"`

	TemplateID     string                   `json:"template_id,omitempty"`
	Canvas         *template.ResolvedCanvas `json:"canvas,omitempty"`
	CanvasDynamic  bool                     `json:"canvas_dynamic,omitempty"`
	ExternalSource string                   `json:"external_source,omitempty"`

	UseAllDyes  bool  `json:"use_all_dyes"`
	EnabledDyes []int `json:"enabled_dyes,omitempty"`
	BestColors  int   `json:"best_colors,omitempty"`
	Ranking     []int `json:"ranking,omitempty"`

	Dithering settings.Dithering `json:"dithering"`
	Border    settings.Border    `json:"border"`

	PreviewMode    string `json:"preview_mode"`
	ShowOverlay    bool   `json:"show_overlay"`
	PreviewQuality string `json:"preview_quality"`
	PreviewMaxDim  int    `json:"preview_max_dim,omitempty"`

	CanvasRequest *template.CanvasRequest `json:"canvas_request,omitempty"`
	WriterMode    string                  `json:"writer_mode"`
}

// Studio is the orchestrator. Create one per process with New, then call
// Init before serving operations.
type Studio struct {
	mu sync.Mutex

	log        *zap.Logger
	cfg        *config.Config
	store      *template.Store
	frames     assets.Frames
	cache      *assets.Cache
	controller Controller
	validator  pnt.Validator
	inspector  pnt.Inspector
	scanner    pnt.Scanner

	state      State
	descriptor *template.Descriptor
	palette    *dye.Resource // nil until Init, or when the resource is absent
}

// New wires a studio from its collaborators.
func New(log *zap.Logger, cfg *config.Config, store *template.Store, controller Controller,
	validator pnt.Validator, inspector pnt.Inspector, scanner pnt.Scanner) *Studio {
	if log == nil {
		log = zap.NewNop()
	}
	return &Studio{
		log:        log,
		cfg:        cfg,
		store:      store,
		frames:     assets.Frames{Root: cfg.AssetsRoot, Dirs: cfg.FrameDirs},
		cache:      assets.NewCache(),
		controller: controller,
		validator:  validator,
		inspector:  inspector,
		scanner:    scanner,
		state: State{
			UseAllDyes:     true,
			Dithering:      settings.Dithering{Mode: settings.DitherNone, Strength: 0.5},
			Border:         settings.Border{Style: settings.BorderNone},
			PreviewMode:    settings.PreviewModeVisual,
			PreviewQuality: "final",
			WriterMode:     string(pnt.WriterRaster20),
		},
	}
}

// InitSummary reports what Init found on disk.
type InitSummary struct {
	Templates     int  `json:"templates"`
	Dyes          int  `json:"dyes"`
	PaletteLoaded bool `json:"palette_loaded"`
	FrameImages   int  `json:"frame_images"`
}

// Init loads the palette resource and primes the controller. A missing
// palette is non-fatal here: listing degrades to empty, and generation
// re-checks and fails fast.
func (s *Studio) Init() InitSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := dye.Load(s.cfg.PaletteFile)
	if err != nil {
		s.log.Warn("palette resource unavailable",
			zap.String("path", s.cfg.PaletteFile), zap.Error(err))
	} else {
		s.palette = res
		s.controller.SetPalette(res.Dyes)
	}

	summary := InitSummary{
		Templates:   len(s.store.List()),
		FrameImages: len(s.frames.List()),
	}
	if s.palette != nil {
		summary.Dyes = len(s.palette.Dyes)
		summary.PaletteLoaded = true
	}
	s.log.Info("studio initialized",
		zap.Int("templates", summary.Templates),
		zap.Int("dyes", summary.Dyes),
		zap.Bool("palette_loaded", summary.PaletteLoaded))
	return summary
}

// State returns a copy of the visible session state.
func (s *Studio) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ListTemplates returns the enriched template listing.
func (s *Studio) ListTemplates() []template.Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListInfo()
}

// ListDyes returns the loaded palette; empty when the resource is absent.
func (s *Studio) ListDyes() dye.Palette {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.palette == nil {
		return dye.Palette{}
	}
	return s.palette.Dyes
}

// ListFrames returns the discovered border frame images.
func (s *Studio) ListFrames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames.List()
}

// externalScanLimit bounds a library scan so a huge or slow volume cannot
// stall the session.
const (
	externalScanMaxFiles  = 500
	externalScanTimeLimit = 2 * time.Second
)

// ListExternal scans the external .pnt library, sorted case-insensitively
// by name.
func (s *Studio) ListExternal(recursive bool) ([]pnt.ScanItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.scanner.Scan(s.cfg.ExternalRoot, recursive, true,
		externalScanMaxFiles, externalScanTimeLimit)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

// SelectExternal routes an existing artifact into the controller as the
// generation source and reports its canvas like template selection does.
func (s *Studio) SelectExternal(ref string) (*template.ResolvedCanvas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.resolveExternalPath(ref)
	if err := s.controller.SetExternalSource(path); err != nil {
		return nil, err
	}

	canvas := &template.ResolvedCanvas{}
	if info, err := s.inspector.Peek(path); err == nil {
		canvas.Width, canvas.Height = info.Width, info.Height
	}
	s.state.ExternalSource = path
	s.log.Info("external source selected", zap.String("path", path))
	return canvas, nil
}

func (s *Studio) resolveExternalPath(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(s.cfg.ExternalRoot, ref)
}

// SetImageData decodes and installs the source image. The name is kept for
// artifact naming; an empty name falls back to "image" at archive time.
func (s *Studio) SetImageData(data []byte, name string) (width, height int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fault.Wrap(fault.InvalidArgument, err, "image data is not a decodable image")
	}

	bounds := img.Bounds()
	s.controller.SetImage(img, name)
	s.state.ImageName = name
	s.state.ImageWidth = bounds.Dx()
	s.state.ImageHeight = bounds.Dy()
	s.state.ExternalSource = ""
	s.log.Info("image set",
		zap.String("name", name), zap.String("format", format),
		zap.Int("width", bounds.Dx()), zap.Int("height", bounds.Dy()))
	return bounds.Dx(), bounds.Dy(), nil
}

// SelectTemplate resolves a descriptor (with optional section overrides),
// pushes it into the controller, and resolves the default canvas. Any
// earlier canvas request is discarded; it belonged to the old template.
func (s *Studio) SelectTemplate(id string, overrides map[string]interface{}) (*template.ResolvedCanvas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.store.Resolve(id, overrides)
	if err != nil {
		return nil, err
	}

	s.descriptor = d
	s.state.TemplateID = id
	s.state.CanvasRequest = nil
	s.controller.SetTemplate(id, d)

	canvas, err := s.resolveCanvasLocked(nil)
	if err != nil {
		return nil, err
	}
	s.log.Info("template selected",
		zap.String("id", id),
		zap.String("kind", string(template.ResolveLayout(d).Kind)),
		zap.Int("width", canvas.Width), zap.Int("height", canvas.Height))
	return canvas, nil
}

// SetCanvasRequest resolves a user sizing request against the selected
// template.
func (s *Studio) SetCanvasRequest(req *template.CanvasRequest) (*template.ResolvedCanvas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.descriptor == nil {
		return nil, fault.New(fault.NotReady, "select a template before requesting a canvas")
	}
	return s.resolveCanvasLocked(req)
}
