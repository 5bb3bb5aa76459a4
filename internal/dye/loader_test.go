package dye

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/studiopnt/paint-studio-mcp/internal/fault"
)

func TestParseCanonicalResource(t *testing.T) {
	res, err := Parse([]byte(`{
		"dyes": [
			{"game_id": 18, "name": "Sky", "hex_srgb": "#87CEEB", "linear_rgb": [0.24, 0.62, 0.83]},
			{"game_id": 3, "name": "Coal", "linear_rgb": [0.02, 0.02, 0.02]},
			{"game_id": "oops"},
			{"name": "no id at all"}
		]
	}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(res.Dyes) != 2 {
		t.Fatalf("want 2 dyes, got %d", len(res.Dyes))
	}
	// Ascending by id.
	if res.Dyes[0].ID != 3 || res.Dyes[1].ID != 18 {
		t.Errorf("order: got %v", res.Dyes.IDs())
	}
	if res.Dyes[1].Hex != "#87CEEB" {
		t.Errorf("hex: got %s", res.Dyes[1].Hex)
	}
	// Coal had no hex; it must be derived from the linear triple.
	if res.Dyes[0].Hex == "" {
		t.Error("missing hex should be filled from linear_rgb")
	}
}

func TestParseFieldNameVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"palette key with id", `{"palette":[{"id":5,"name":"Teal","hex":"#008080"}]}`},
		{"entries key with index", `{"entries":[{"index":5,"hex":"#008080"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(res.Dyes) != 1 || res.Dyes[0].ID != 5 {
				t.Fatalf("got %+v", res.Dyes)
			}
			// Hex-only entries must gain a linear triple.
			if len(res.Dyes[0].LinearRGB) != 3 {
				t.Errorf("linear_rgb not derived: %+v", res.Dyes[0])
			}
		})
	}
}

func TestParseDefaultName(t *testing.T) {
	res, err := Parse([]byte(`{"dyes":[{"game_id":42,"hex_srgb":"#102030"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if res.Dyes[0].Name != "Dye 42" {
		t.Errorf("name: got %q", res.Dyes[0].Name)
	}
}

func TestParseRankingVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int
	}{
		{"plain ids", `{"dyes":[],"ranking":[4,1,9]}`, []int{4, 1, 9}},
		{"object ids", `{"dyes":[],"dye_ranking":[{"id":2},{"dye_id":6},{"game_id":1}]}`, []int{2, 6, 1}},
		{"absent", `{"dyes":[]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(res.Ranking) != len(tt.want) {
				t.Fatalf("ranking: got %v, want %v", res.Ranking, tt.want)
			}
			for i := range tt.want {
				if res.Ranking[i] != tt.want[i] {
					t.Errorf("ranking: got %v, want %v", res.Ranking, tt.want)
				}
			}
		})
	}
}

func TestParseRejectsNonObject(t *testing.T) {
	if _, err := Parse([]byte(`[1,2,3]`)); err == nil {
		t.Error("non-object payload should fail")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "TablaDyes_v1.json"))
	if !fault.IsKind(err, fault.NotFound) {
		t.Errorf("want not-found fault, got %v", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TablaDyes_v1.json")
	payload := `{"dyes":[{"game_id":1,"name":"White","linear_rgb":[1,1,1]}]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(res.Dyes) != 1 || res.Dyes[0].Name != "White" {
		t.Errorf("got %+v", res.Dyes)
	}
}
