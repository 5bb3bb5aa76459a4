package dye

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/studiopnt/paint-studio-mcp/internal/fault"
)

// Resource is the adapted palette resource: the dye palette plus the
// optional precomputed best-color ranking some dataset versions ship.
// Field-name variations across versions are resolved here, once, at load
// time; everything downstream reads only these canonical fields.
type Resource struct {
	Dyes    Palette
	Ranking []int
}

// entry field-name variants seen across dataset versions.
var (
	listKeys    = []string{"dyes", "palette", "colors", "entries"}
	idKeys      = []string{"game_id", "id", "index"}
	hexKeys     = []string{"hex_srgb", "hex"}
	rankingKeys = []string{"ranking", "dye_ranking", "best_colors_ranking"}
)

// Load reads and adapts the palette JSON resource. A missing file is a
// not-found fault; whether that is fatal depends on the caller (listing
// degrades to empty, generation fails fast).
func Load(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fault.New(fault.NotFound, "palette resource not found: %s", path)
		}
		return nil, fault.Wrap(fault.NotFound, err, "palette resource unreadable: %s", path)
	}
	return Parse(data)
}

// Parse adapts raw palette JSON. Entries without a numeric id are dropped;
// the result is ordered ascending by id. Hex and linear-RGB are filled in
// from each other when only one is present.
func Parse(data []byte) (*Resource, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fault.Wrap(fault.ValidationFailed, err, "palette resource is not a JSON object")
	}

	res := &Resource{}

	for _, key := range listKeys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var entries []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil || len(entries) == 0 {
			continue
		}
		res.Dyes = adaptEntries(entries)
		break
	}

	for _, key := range rankingKeys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		if ids := adaptRanking(raw); len(ids) > 0 {
			res.Ranking = ids
			break
		}
	}

	sort.Slice(res.Dyes, func(i, j int) bool { return res.Dyes[i].ID < res.Dyes[j].ID })
	return res, nil
}

func adaptEntries(entries []map[string]json.RawMessage) Palette {
	out := make(Palette, 0, len(entries))
	for _, entry := range entries {
		id, ok := intField(entry, idKeys...)
		if !ok {
			continue
		}

		d := Dye{ID: id, Name: stringField(entry, "name")}
		if d.Name == "" {
			d.Name = defaultName(id)
		}
		for _, key := range hexKeys {
			if hex := strings.TrimSpace(stringField(entry, key)); hex != "" {
				d.Hex = hex
				break
			}
		}
		if raw, ok := entry["linear_rgb"]; ok {
			var triple []float64
			if err := json.Unmarshal(raw, &triple); err == nil && len(triple) >= 3 {
				d.LinearRGB = triple[:3]
			}
		}

		fillColor(&d)
		out = append(out, d)
	}
	return out
}

// fillColor completes the missing color representation from the other one.
func fillColor(d *Dye) {
	switch {
	case len(d.LinearRGB) >= 3 && d.Hex == "":
		d.Hex = colorful.LinearRgb(d.LinearRGB[0], d.LinearRGB[1], d.LinearRGB[2]).Clamped().Hex()
	case len(d.LinearRGB) < 3 && d.Hex != "":
		if c, err := colorful.Hex(d.Hex); err == nil {
			r, g, b := c.LinearRgb()
			d.LinearRGB = []float64{r, g, b}
		}
	}
}

// adaptRanking accepts either a list of ids or a list of objects carrying
// an id under the usual variants.
func adaptRanking(raw json.RawMessage) []int {
	var asInts []int
	if err := json.Unmarshal(raw, &asInts); err == nil {
		return asInts
	}

	var asObjects []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asObjects); err != nil {
		return nil
	}
	out := make([]int, 0, len(asObjects))
	for _, obj := range asObjects {
		if id, ok := intField(obj, "id", "dye_id", "game_id"); ok {
			out = append(out, id)
		}
	}
	return out
}

func intField(entry map[string]json.RawMessage, keys ...string) (int, bool) {
	for _, key := range keys {
		raw, ok := entry[key]
		if !ok {
			continue
		}
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			return n, true
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return int(f), true
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if parsed, convErr := strconv.Atoi(strings.TrimSpace(s)); convErr == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

func defaultName(id int) string {
	return fmt.Sprintf("Dye %d", id)
}

func stringField(entry map[string]json.RawMessage, key string) string {
	raw, ok := entry[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
