package template

import (
	"encoding/json"
	"testing"
)

func intp(v int) *int { return &v }

func multiDescriptor(rows, cols RawRange) *Descriptor {
	return &Descriptor{
		Identity:    Identity{Type: "multi_canvas", BaseTemplate: "Canvas_Base"},
		MultiCanvas: &MultiCanvas{Rows: rows, Cols: cols},
	}
}

func TestResolveLayoutClassification(t *testing.T) {
	tests := []struct {
		name string
		d    *Descriptor
		want LayoutKind
	}{
		{"nil descriptor", nil, KindFixed},
		{"plain fixed", &Descriptor{Identity: Identity{Type: "canvas"}}, KindFixed},
		{"multi canvas", multiDescriptor(RawRange{}, RawRange{}), KindMultiCanvas},
		{"dynamic block", &Descriptor{Dynamic: &Dynamic{Values: []int{1, 2, 3}}}, KindDynamic},
		{
			// Identity type wins over a stray dynamic block.
			"multi beats dynamic",
			&Descriptor{
				Identity: Identity{Type: "multi_canvas"},
				Dynamic:  &Dynamic{Values: []int{2}},
			},
			KindMultiCanvas,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLayout(tt.d).Kind; got != tt.want {
				t.Errorf("kind: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNormalizeRangeInvariant(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRange
		want Range
	}{
		{"all missing", RawRange{}, Range{1, 1, 1}},
		{"full triple", RawRange{Min: intp(1), Max: intp(4), Default: intp(2)}, Range{1, 4, 2}},
		{"missing max collapses", RawRange{Min: intp(3)}, Range{3, 3, 3}},
		{"inverted bounds collapse", RawRange{Min: intp(5), Max: intp(2), Default: intp(9)}, Range{5, 5, 5}},
		{"default above max clamps", RawRange{Min: intp(1), Max: intp(4), Default: intp(7)}, Range{1, 4, 4}},
		{"default below min clamps", RawRange{Min: intp(2), Max: intp(6), Default: intp(0)}, Range{2, 6, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeRange(tt.raw)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if !(got.Min <= got.Default && got.Default <= got.Max) {
				t.Errorf("invariant min<=default<=max violated: %+v", got)
			}
		})
	}
}

func TestClampMulti(t *testing.T) {
	d := multiDescriptor(
		RawRange{Min: intp(1), Max: intp(4), Default: intp(2)},
		RawRange{Min: intp(1), Max: intp(4), Default: intp(2)},
	)
	layout := ResolveLayout(d)

	rows, cols := layout.ClampMulti(&CanvasRequest{Rows: intp(0), Cols: intp(999)})
	if rows != 1 || cols != 4 {
		t.Errorf("clamp: got rows=%d cols=%d, want rows=1 cols=4", rows, cols)
	}

	// Missing values take descriptor defaults.
	rows, cols = layout.ClampMulti(nil)
	if rows != 2 || cols != 2 {
		t.Errorf("defaults: got rows=%d cols=%d, want 2/2", rows, cols)
	}
}

func TestClampIsIdempotent(t *testing.T) {
	layout := ResolveLayout(multiDescriptor(
		RawRange{Min: intp(1), Max: intp(4), Default: intp(1)},
		RawRange{Min: intp(1), Max: intp(4), Default: intp(1)},
	))
	req := &CanvasRequest{Rows: intp(3), Cols: intp(7)}

	r1, c1 := layout.ClampMulti(req)
	clamped := &CanvasRequest{Rows: intp(r1), Cols: intp(c1)}
	r2, c2 := layout.ClampMulti(clamped)
	if r1 != r2 || c1 != c2 {
		t.Errorf("re-clamping changed result: (%d,%d) -> (%d,%d)", r1, c1, r2, c2)
	}
}

func TestClampDynamicSharedRange(t *testing.T) {
	layout := ResolveLayout(&Descriptor{Dynamic: &Dynamic{Values: []int{4, 1, 8}}})

	if layout.RowsY != (Range{1, 8, 1}) || layout.BlocksX != (Range{1, 8, 1}) {
		t.Fatalf("shared range: rows_y=%+v blocks_x=%+v", layout.RowsY, layout.BlocksX)
	}

	rowsY, blocksX := layout.ClampDynamic(&CanvasRequest{RowsY: intp(100), BlocksX: intp(-2)})
	if rowsY != 8 || blocksX != 1 {
		t.Errorf("got rows_y=%d blocks_x=%d, want 8/1", rowsY, blocksX)
	}
}

func TestIsFullRaster(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
		want bool
	}{
		{"nil", nil, true},
		{"empty", json.RawMessage(``), true},
		{"sentinel string", json.RawMessage(`"full_raster"`), true},
		{"sentinel with space", json.RawMessage(`  "full_raster" `), true},
		{"concrete shape", json.RawMessage(`{"x":0,"y":0,"w":256,"h":128}`), false},
		{"other string", json.RawMessage(`"visible_area"`), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFullRaster(tt.raw); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
