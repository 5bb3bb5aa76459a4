package session

import (
	"sort"

	"go.uber.org/zap"

	"github.com/studiopnt/paint-studio-mcp/internal/fault"
)

// BestColors resolves the ranked dye subset that best reconstructs the
// current image and restricts the session palette to it. A precomputed
// ranking shipped with the palette resource always wins over a fresh scan.
func (s *Studio) BestColors(limit int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = s.state.BestColors
	}
	if limit <= 0 {
		return nil, fault.New(fault.InvalidArgument, "best-colors count must be positive")
	}

	ranked := s.resolveRankingLocked(limit)
	if len(ranked) == 0 {
		return nil, fault.New(fault.NotReady, "set an image before computing best colors")
	}

	s.state.BestColors = limit
	s.state.Ranking = ranked
	s.state.UseAllDyes = false

	enabled := append([]int(nil), ranked...)
	sort.Ints(enabled)
	s.state.EnabledDyes = enabled
	s.controller.SetEnabledDyes(enabled)

	s.log.Info("best colors resolved", zap.Int("limit", limit), zap.Ints("ranking", ranked))
	return ranked, nil
}

// resolveRankingLocked applies the ranking source priority: the palette
// resource's precomputed ranking truncated to limit, then the controller's
// quantization scan.
func (s *Studio) resolveRankingLocked(limit int) []int {
	if s.palette != nil && len(s.palette.Ranking) > 0 {
		ranking := s.palette.Ranking
		if len(ranking) > limit {
			ranking = ranking[:limit]
		}
		return append([]int(nil), ranking...)
	}
	return s.controller.CalculateBestDyes(limit)
}
