package template

import (
	"sort"
	"strings"
)

// Info is the listing entry for a template, enriched with derived
// classification for UI grouping.
type Info struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Category      string `json:"category"`
	Family        string `json:"family,omitempty"`
	SourceRelPath string `json:"source_relpath,omitempty"`
	Kind          string `json:"kind"`
}

var categoryRank = map[string]int{
	"structures": 0,
	"dinos":      1,
	"humans":     2,
	"other":      3,
}

// ListInfo loads every indexed descriptor and returns listing entries
// ordered by (category rank, family, label). Descriptors that fail to load
// are skipped; listing is best-effort.
func (s *Store) ListInfo() []Info {
	out := make([]Info, 0, len(s.ids))
	for _, id := range s.ids {
		d, err := s.Load(id)
		if err != nil {
			continue
		}

		category := DeriveCategory(id, d)
		info := Info{
			ID:            id,
			Label:         labelOr(d.Identity.Label, id),
			Width:         d.Layout.Raster.Width,
			Height:        d.Layout.Raster.Height,
			Category:      category,
			Family:        DeriveFamily(id, d, category),
			SourceRelPath: d.SourceRelPath,
			Kind:          kindOr(d),
		}
		out = append(out, info)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rankOf(out[i].Category), rankOf(out[j].Category)
		if ri != rj {
			return ri < rj
		}
		fi, fj := strings.ToLower(out[i].Family), strings.ToLower(out[j].Family)
		if fi != fj {
			return fi < fj
		}
		return strings.ToLower(out[i].Label) < strings.ToLower(out[j].Label)
	})
	return out
}

func rankOf(category string) int {
	if r, ok := categoryRank[category]; ok {
		return r
	}
	return 99
}

func labelOr(label, fallback string) string {
	if strings.TrimSpace(label) != "" {
		return label
	}
	return fallback
}

func kindOr(d *Descriptor) string {
	if d.Identity.Type != "" {
		return d.Identity.Type
	}
	if d.Identity.Category != "" {
		return d.Identity.Category
	}
	return "unknown"
}

// DeriveCategory classifies a template as structures, dinos, humans, or
// other. The identity category wins; then source-path hints; then the id
// prefix as a last resort.
func DeriveCategory(id string, d *Descriptor) string {
	if c := normalizeCategory(d.Identity.Category); c != "other" {
		return c
	}
	if c := categoryFromPath(d.SourceRelPath); c != "other" {
		return c
	}

	idLower := strings.ToLower(id)
	switch {
	case strings.HasPrefix(idLower, "structure"):
		return "structures"
	case strings.HasPrefix(idLower, "dino"), strings.HasPrefix(idLower, "creature"):
		return "dinos"
	case strings.HasPrefix(idLower, "human"), strings.HasPrefix(idLower, "player"):
		return "humans"
	}
	return "other"
}

func normalizeCategory(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "structure", "structures":
		return "structures"
	case "dino", "dinos", "dinosaur", "dinosaurs", "creature", "creatures":
		return "dinos"
	case "human", "humans", "player", "players":
		return "humans"
	}
	return "other"
}

func categoryFromPath(relPath string) string {
	if relPath == "" {
		return "other"
	}
	p := strings.ToLower(strings.ReplaceAll(relPath, "\\", "/"))
	switch {
	case strings.Contains(p, "structures"):
		return "structures"
	case strings.Contains(p, "dinos"):
		return "dinos"
	case strings.Contains(p, "humans"):
		return "humans"
	}
	return "other"
}

// DeriveFamily picks a grouping label: explicit identity family/group keys,
// then the leading source path segment for structures, then the id head
// before the first underscore.
func DeriveFamily(id string, d *Descriptor, category string) string {
	for _, v := range []string{d.Identity.Family, d.Identity.Group} {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}

	if category == "structures" && d.SourceRelPath != "" {
		parts := strings.Split(strings.ReplaceAll(d.SourceRelPath, "\\", "/"), "/")
		if len(parts) >= 2 && parts[0] != "" {
			return parts[0]
		}
	}

	head := strings.SplitN(id, "_", 2)[0]
	return strings.TrimSpace(head)
}
