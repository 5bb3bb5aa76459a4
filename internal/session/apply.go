package session

import (
	"image"

	"go.uber.org/zap"

	"github.com/studiopnt/paint-studio-mcp/internal/settings"
)

// ApplySettings normalizes an open options bundle into the session. The
// normalization itself never fails; only a canvas request that cannot be
// resolved (missing base template) surfaces an error.
func (s *Studio) ApplySettings(raw map[string]interface{}) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.applySettingsLocked(raw); err != nil {
		return s.state, err
	}
	return s.state, nil
}

// applySettingsLocked re-runs normalization and pushes the canonical values
// into the controller. Render and generate both call this first, so stale
// dye, dithering, and border state never survives a settings bundle.
func (s *Studio) applySettingsLocked(raw map[string]interface{}) (settings.Settings, error) {
	st := settings.Normalize(raw)

	s.state.UseAllDyes = st.UseAllDyes
	s.state.EnabledDyes = st.EnabledDyes
	s.controller.SetEnabledDyes(st.EnabledDyes)

	s.state.BestColors = st.BestColors
	if st.BestColors == 0 {
		s.state.Ranking = nil
	}

	s.state.Dithering = st.Dithering
	s.controller.SetDithering(st.Dithering)

	s.state.Border = st.Border
	s.controller.SetBorder(st.Border.Style, st.Border.Size, s.resolveFrameLocked(st.Border))

	if st.PreviewMode != "" {
		s.state.PreviewMode = st.PreviewMode
		s.controller.SetPreviewMode(st.PreviewMode)
	}
	if st.ShowOverlay != nil {
		s.state.ShowOverlay = *st.ShowOverlay
	}

	s.state.WriterMode = st.WriterMode
	s.state.PreviewQuality = st.PreviewQuality
	if st.PreviewMaxDim > 0 {
		s.state.PreviewMaxDim = st.PreviewMaxDim
	}
	if st.ImageName != "" {
		s.state.ImageName = st.ImageName
	}

	if st.CanvasRequest != nil && s.descriptor != nil {
		if _, err := s.resolveCanvasLocked(st.CanvasRequest); err != nil {
			return st, err
		}
	}
	return st, nil
}

// resolveFrameLocked turns the border frame reference into a decoded image.
// An unresolvable or undecodable frame degrades to no frame, never an
// error.
func (s *Studio) resolveFrameLocked(b settings.Border) image.Image {
	if b.Style != settings.BorderImage || b.FrameImage == "" {
		return nil
	}

	path, ok := s.frames.Resolve(b.FrameImage)
	if !ok {
		s.log.Debug("border frame reference unresolved", zap.String("ref", b.FrameImage))
		return nil
	}
	frame, err := s.cache.Load(path)
	if err != nil {
		s.log.Warn("border frame unreadable", zap.String("path", path), zap.Error(err))
		return nil
	}
	return frame
}
