package dye

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// testPalette returns primary dyes with non-contiguous ids.
func testPalette() Palette {
	return Palette{
		{ID: 2, Name: "Red", LinearRGB: []float64{1, 0, 0}},
		{ID: 7, Name: "Green", LinearRGB: []float64{0, 1, 0}},
		{ID: 11, Name: "Blue", LinearRGB: []float64{0, 0, 1}},
	}
}

// stripedImage fills fractions of the width with solid colors, left to
// right, in the given order.
func stripedImage(width, height int, colors []color.RGBA, weights []int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	total := 0
	for _, w := range weights {
		total += w
	}
	x := 0
	for i, c := range colors {
		span := width * weights[i] / total
		if i == len(colors)-1 {
			span = width - x
		}
		draw.Draw(img, image.Rect(x, 0, x+span, height), &image.Uniform{c}, image.Point{}, draw.Src)
		x += span
	}
	return img
}

func TestRankBestColorsByFrequency(t *testing.T) {
	// 60% red, 30% blue, 10% green.
	img := stripedImage(100, 40,
		[]color.RGBA{{255, 0, 0, 255}, {0, 0, 255, 255}, {0, 255, 0, 255}},
		[]int{6, 3, 1})

	got := RankBestColors(img, testPalette(), 3)
	want := []int{2, 11, 7}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRankBestColorsLimitTruncates(t *testing.T) {
	img := stripedImage(90, 30,
		[]color.RGBA{{255, 0, 0, 255}, {0, 0, 255, 255}, {0, 255, 0, 255}},
		[]int{5, 3, 1})

	got := RankBestColors(img, testPalette(), 2)
	if len(got) != 2 {
		t.Fatalf("limit=2: got %v", got)
	}
	if got[0] != 2 || got[1] != 11 {
		t.Errorf("got %v, want [2 11]", got)
	}
}

func TestRankBestColorsDeterministic(t *testing.T) {
	img := stripedImage(128, 64,
		[]color.RGBA{{255, 0, 0, 255}, {0, 255, 0, 255}},
		[]int{1, 1})
	pal := testPalette()

	first := RankBestColors(img, pal, 3)
	for i := 0; i < 5; i++ {
		again := RankBestColors(img, pal, 3)
		if len(again) != len(first) {
			t.Fatalf("run %d: got %v, want %v", i, again, first)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: got %v, want %v", i, again, first)
			}
		}
	}
}

func TestRankBestColorsDegenerateInputs(t *testing.T) {
	img := stripedImage(10, 10, []color.RGBA{{255, 0, 0, 255}}, []int{1})

	t.Run("zero limit", func(t *testing.T) {
		if got := RankBestColors(img, testPalette(), 0); len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})

	t.Run("negative limit", func(t *testing.T) {
		if got := RankBestColors(img, testPalette(), -4); len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})

	t.Run("nil image", func(t *testing.T) {
		if got := RankBestColors(nil, testPalette(), 3); len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})

	t.Run("colorless palette falls back to id order", func(t *testing.T) {
		pal := Palette{{ID: 1}, {ID: 4}, {ID: 9}, {ID: 12}}
		got := RankBestColors(img, pal, 3)
		want := []int{1, 4, 9}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("got %v, want %v", got, want)
			}
		}
	})

	t.Run("empty palette", func(t *testing.T) {
		if got := RankBestColors(img, nil, 3); len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})
}

func TestRankBestColorsLargeImageDownsampled(t *testing.T) {
	// 1000px wide forces the <=128 downsample path; the dominant color
	// must survive nearest-neighbor shrinking.
	img := stripedImage(1000, 400,
		[]color.RGBA{{0, 0, 255, 255}, {255, 0, 0, 255}},
		[]int{3, 1})

	got := RankBestColors(img, testPalette(), 1)
	if len(got) != 1 || got[0] != 11 {
		t.Errorf("got %v, want [11]", got)
	}
}

func TestRGB8Rounding(t *testing.T) {
	tests := []struct {
		name    string
		dye     Dye
		r, g, b uint8
		ok      bool
	}{
		{"white", Dye{LinearRGB: []float64{1, 1, 1}}, 255, 255, 255, true},
		{"half", Dye{LinearRGB: []float64{0.5, 0, 0}}, 128, 0, 0, true},
		{"out of range clamps", Dye{LinearRGB: []float64{1.5, -0.2, 0}}, 255, 0, 0, true},
		{"missing triple", Dye{Hex: "#FF0000"}, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, ok := tt.dye.RGB8()
			if ok != tt.ok || r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("got (%d,%d,%d,%v), want (%d,%d,%d,%v)", r, g, b, ok, tt.r, tt.g, tt.b, tt.ok)
			}
		})
	}
}

func TestPaletteRestrict(t *testing.T) {
	pal := testPalette()

	narrowed := pal.Restrict([]int{7, 11})
	if len(narrowed) != 2 || narrowed[0].ID != 7 || narrowed[1].ID != 11 {
		t.Errorf("Restrict: got %v", narrowed.IDs())
	}

	if got := pal.Restrict(nil); len(got) != len(pal) {
		t.Errorf("nil restriction should keep all dyes, got %v", got.IDs())
	}
}
