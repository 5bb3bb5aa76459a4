package pnt

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/studiopnt/paint-studio-mcp/internal/fault"
)

func TestSanitizeFilePart(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback string
		want     string
	}{
		{"spec example", "My Template!! v2.pnt", "Canvas", "My_Template_v2"},
		{"already clean", "Wall_Grid-3", "Canvas", "Wall_Grid-3"},
		{"extension stripped", "sunset.png", "image", "sunset"},
		{"only junk falls back", "!!!.pnt", "image", "image"},
		{"empty falls back", "", "Canvas", "Canvas"},
		{"leading and trailing junk", "  __cool name__  ", "x", "cool_name"},
		{"unicode replaced", "süñset", "image", "s_set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilePart(tt.value, tt.fallback); got != tt.want {
				t.Errorf("SanitizeFilePart(%q): got %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseWriterMode(t *testing.T) {
	tests := []struct {
		raw  string
		want WriterMode
		ok   bool
	}{
		{"raster20", WriterRaster20, true},
		{"auto", WriterRaster20, true},
		{"", WriterRaster20, true},
		{" Legacy_Copy ", WriterLegacyCopy, true},
		{"preserve_source", WriterPreserveSource, true},
		{"hologram", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseWriterMode(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseWriterMode(%q): got (%q,%v), want (%q,%v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

// writeTiles creates n fake tile files and returns their sorted paths.
func writeTiles(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("tile_%03d.pnt", i))
		if err := os.WriteFile(path, []byte(fmt.Sprintf("tile-%d", i)), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func TestPackTilesNaming(t *testing.T) {
	files := writeTiles(t, 6)

	data, err := PackTiles(files, 2, 3, "sunset", "Wall_Grid", nil)
	if err != nil {
		t.Fatalf("PackTiles failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("archive unreadable: %v", err)
	}
	if len(zr.File) != 6 {
		t.Fatalf("entries: got %d, want 6", len(zr.File))
	}

	// Exactly one entry per (col,row) cell, no gaps, no duplicates.
	seen := make(map[string]bool)
	for _, f := range zr.File {
		seen[f.Name] = true
	}
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			name := fmt.Sprintf("sunset(%d)(%d)_Wall_Grid.pnt", col, row)
			if !seen[name] {
				t.Errorf("missing entry %s (have %v)", name, zr.File)
			}
		}
	}
}

func TestPackTilesCountMismatch(t *testing.T) {
	files := writeTiles(t, 5)

	_, err := PackTiles(files, 2, 3, "img", "bp", nil)
	if !fault.IsKind(err, fault.CountMismatch) {
		t.Fatalf("want count-mismatch, got %v", err)
	}
	msg := err.Error()
	if !bytes.Contains([]byte(msg), []byte("expected 6")) || !bytes.Contains([]byte(msg), []byte("got 5")) {
		t.Errorf("message should state expected vs got: %q", msg)
	}
}

func TestPackTilesCheckFailureAborts(t *testing.T) {
	files := writeTiles(t, 4)
	bad := errors.New("corrupt header")

	calls := 0
	_, err := PackTiles(files, 2, 2, "img", "bp", func(path string) error {
		calls++
		if calls == 3 {
			return fault.Wrap(fault.ValidationFailed, bad, "tile rejected")
		}
		return nil
	})

	if !fault.IsKind(err, fault.ValidationFailed) {
		t.Fatalf("want validation-failed, got %v", err)
	}
	if calls != 3 {
		t.Errorf("check should stop at first failure, got %d calls", calls)
	}
}

func TestPackTilesEmptyGrid(t *testing.T) {
	_, err := PackTiles(nil, 0, 0, "img", "bp", nil)
	if !fault.IsKind(err, fault.EmptyOutput) {
		t.Errorf("want empty-output, got %v", err)
	}
}

func TestEntryName(t *testing.T) {
	if got := EntryName("img", "bp", 2, 1); got != "img(2)(1)_bp.pnt" {
		t.Errorf("got %q", got)
	}
}
