package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studiopnt/paint-studio-mcp/internal/fault"
	"github.com/studiopnt/paint-studio-mcp/internal/pnt"
	"github.com/studiopnt/paint-studio-mcp/internal/template"
)

// GenerateResult carries a finished artifact (or tile archive) back to the
// caller.
type GenerateResult struct {
	// Archive is true for multi-tile output, where Data is a zip.
	Archive  bool   `json:"archive"`
	FileName string `json:"file_name"`
	Data     []byte `json:"-"`

	Tiles      int    `json:"tiles"`
	Rows       int    `json:"rows,omitempty"`
	Cols       int    `json:"cols,omitempty"`
	WriterMode string `json:"writer_mode"`
}

// Generate applies the settings bundle and produces the artifact for the
// selected template: one validated .pnt for fixed and dynamic layouts, a
// deterministic tile archive for multi-canvas grids. There is no partial
// success; any validation failure aborts the whole operation.
func (s *Studio) Generate(raw map[string]interface{}) (*GenerateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.applySettingsLocked(raw); err != nil {
		return nil, err
	}

	// The palette resource must exist before any generation work so a
	// doomed call never leaves partial output behind.
	if _, err := os.Stat(s.cfg.PaletteFile); err != nil {
		return nil, fault.New(fault.NotFound, "palette resource required for generation: %s", s.cfg.PaletteFile)
	}

	mode, ok := pnt.ParseWriterMode(s.state.WriterMode)
	if !ok {
		return nil, fault.New(fault.InvalidArgument, "unknown writer mode %q", s.state.WriterMode)
	}
	s.controller.SetWriterMode(mode)

	if s.descriptor == nil {
		return nil, fault.New(fault.NotReady, "select a template before generating")
	}

	layout := template.ResolveLayout(s.descriptor)
	if layout.Kind == template.KindMultiCanvas {
		return s.generateArchiveLocked(layout, mode)
	}
	return s.generateSingleLocked(mode)
}

func (s *Studio) generateSingleLocked(mode pnt.WriterMode) (*GenerateResult, error) {
	if err := os.MkdirAll(s.cfg.ScratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare scratch dir: %w", err)
	}
	out := filepath.Join(s.cfg.ScratchDir, uuid.NewString()+".pnt")
	defer os.Remove(out)

	if err := s.controller.RequestGeneration(out, s.cfg.PaletteFile); err != nil {
		return nil, err
	}
	if err := s.checkArtifactLocked(out); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fault.Wrap(fault.EmptyOutput, err, "generation produced no artifact")
	}
	if len(data) == 0 {
		return nil, fault.New(fault.EmptyOutput, "generated artifact is empty")
	}

	imagePart := pnt.SanitizeFilePart(s.state.ImageName, "image")
	blueprint := pnt.SanitizeFilePart(s.blueprintNameLocked(), "blueprint")
	result := &GenerateResult{
		FileName:   fmt.Sprintf("%s_%s.pnt", imagePart, blueprint),
		Data:       data,
		Tiles:      1,
		WriterMode: string(mode),
	}
	s.log.Info("artifact generated",
		zap.String("file", result.FileName), zap.Int("bytes", len(data)))
	return result, nil
}

func (s *Studio) generateArchiveLocked(layout template.Layout, mode pnt.WriterMode) (*GenerateResult, error) {
	// The explicit grid request wins only when the caller tagged it as a
	// multi-canvas sizing; otherwise the descriptor defaults are the
	// authority.
	rows, cols := layout.Rows.Default, layout.Cols.Default
	if req := s.state.CanvasRequest; req != nil && req.Mode == string(template.KindMultiCanvas) {
		rows, cols = layout.ClampMulti(req)
	}
	s.controller.SetMultiCanvasRequest(rows, cols)

	// Pin the canvas to the authoritative grid so every tile comes out at
	// the base raster, even when an earlier sizing request resolved a
	// different canvas.
	tileW, tileH, err := s.baseTileRasterLocked(s.descriptor)
	if err != nil {
		return nil, err
	}
	s.controller.SetCanvas(tileW*cols, tileH*rows)

	dir := filepath.Join(s.cfg.ScratchDir, "tiles-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare tile dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := s.controller.RequestGenerationBatch(dir, s.cfg.PaletteFile); err != nil {
		return nil, err
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.pnt"))
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate tiles: %w", err)
	}
	sort.Strings(files)

	imagePart := pnt.SanitizeFilePart(s.state.ImageName, "image")
	blueprint := pnt.SanitizeFilePart(s.blueprintNameLocked(), "blueprint")
	data, err := pnt.PackTiles(files, rows, cols, imagePart, blueprint, s.checkArtifactLocked)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Archive:    true,
		FileName:   fmt.Sprintf("%s_%s_tiles.zip", imagePart, blueprint),
		Data:       data,
		Tiles:      rows * cols,
		Rows:       rows,
		Cols:       cols,
		WriterMode: string(mode),
	}
	s.log.Info("tile archive generated",
		zap.String("file", result.FileName),
		zap.Int("rows", rows), zap.Int("cols", cols), zap.Int("bytes", len(data)))
	return result, nil
}

// checkArtifactLocked runs the format validator and the header inspection
// on a produced artifact file.
func (s *Studio) checkArtifactLocked(path string) error {
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		return fault.New(fault.EmptyOutput, "generation produced no artifact: %s", filepath.Base(path))
	}

	if result := s.validator.Validate(path); !result.OK {
		return fault.New(fault.ValidationFailed, "artifact validation failed (%s): %s", result.Kind, result.Message)
	}

	peek, err := s.inspector.Peek(path)
	if err != nil {
		return fault.Wrap(fault.ValidationFailed, err, "artifact header unreadable")
	}
	if !peek.IsHeader20 {
		return fault.New(fault.ValidationFailed, "artifact header is not raster-20 compatible")
	}
	return nil
}

// blueprintNameLocked picks the human-facing template name for artifact
// file naming.
func (s *Studio) blueprintNameLocked() string {
	if s.descriptor != nil && s.descriptor.Identity.Label != "" {
		return s.descriptor.Identity.Label
	}
	return s.state.TemplateID
}
