package session

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/studiopnt/paint-studio-mcp/internal/fault"
	"github.com/studiopnt/paint-studio-mcp/internal/settings"
)

// defaultPreviewMaxDim bounds fast previews when the caller supplies no
// explicit limit.
const defaultPreviewMaxDim = 512

// RenderPreview applies the settings bundle and renders a PNG preview.
// Empty mode or quality take the session values; unrecognized ones are
// invalid-argument errors.
func (s *Studio) RenderPreview(mode, quality string, raw map[string]interface{}) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.applySettingsLocked(raw); err != nil {
		return nil, err
	}

	if mode == "" {
		mode = s.state.PreviewMode
	}
	if mode != settings.PreviewModeVisual && mode != settings.PreviewModeSimulation {
		return nil, fault.New(fault.InvalidArgument, "unknown preview mode %q", mode)
	}
	if quality == "" {
		quality = s.state.PreviewQuality
	}
	if quality != "fast" && quality != "final" {
		return nil, fault.New(fault.InvalidArgument, "unknown preview quality %q", quality)
	}

	s.state.PreviewMode = mode
	s.controller.SetPreviewMode(mode)

	img, ok := s.controller.RenderPreview()
	if !ok {
		return nil, fault.New(fault.NotReady, "set an image and a template before rendering a preview")
	}

	if mode == settings.PreviewModeSimulation && s.state.ShowOverlay {
		img = s.composeOverlayLocked(img)
	}
	if quality == "fast" {
		img = fastDownscale(img, s.state.PreviewMaxDim)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// composeOverlayLocked alpha-composites the template's overlay image onto
// the preview when the descriptor asks for one. A missing or unreadable
// overlay asset skips composition silently.
func (s *Studio) composeOverlayLocked(img image.Image) image.Image {
	d := s.descriptor
	if d == nil || d.Preview.Mode != "overlay" || d.Preview.OverlayDir == "" || d.Preview.BaseName == "" {
		return img
	}

	path := filepath.Join(s.cfg.TemplatesRoot, d.Preview.OverlayDir, d.Preview.BaseName+".png")
	overlay, err := s.cache.Load(path)
	if err != nil {
		s.log.Debug("overlay asset missing, skipping composition",
			zap.String("path", path), zap.Error(err))
		return img
	}

	bounds := img.Bounds()
	if overlay.Bounds().Dx() != bounds.Dx() || overlay.Bounds().Dy() != bounds.Dy() {
		overlay = imaging.Resize(overlay, bounds.Dx(), bounds.Dy(), imaging.NearestNeighbor)
	}
	return blend.Normal(img, overlay)
}

// fastDownscale shrinks a preview so its longer side fits the fast-quality
// bound: half the requested limit, but never below 64 pixels. Final quality
// never reaches here.
func fastDownscale(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		maxDim = defaultPreviewMaxDim
	}
	bound := int(math.Max(64, math.Min(float64(maxDim), float64(maxDim)*0.5)))

	b := img.Bounds()
	longer := b.Dx()
	if b.Dy() > longer {
		longer = b.Dy()
	}
	if longer <= bound {
		return img
	}
	return imaging.Fit(img, bound, bound, imaging.NearestNeighbor)
}
