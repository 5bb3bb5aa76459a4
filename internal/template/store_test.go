package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/studiopnt/paint-studio-mcp/internal/fault"
)

func writeDescriptor(t *testing.T, root, relPath, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	writeDescriptor(t, root, "Structures/Canvas_Small.json", `{
		"identity": {"label": "Small Canvas", "type": "canvas"},
		"layout": {"raster": {"width": 256, "height": 256}}
	}`)
	writeDescriptor(t, root, "Structures/Wall_Grid.json", `{
		"identity": {"id": "Wall_Grid", "type": "multi_canvas", "base_template": "Canvas_Small"},
		"multi_canvas": {
			"rows": {"min": 1, "max": 4, "default": 2},
			"cols": {"min": 1, "max": 4, "default": 3}
		}
	}`)
	writeDescriptor(t, root, "Dinos/Dino_Rex.json", `{
		"identity": {"label": "Rex", "category": "dino"},
		"layout": {"raster": {"width": 128, "height": 64}}
	}`)
	writeDescriptor(t, root, "notes.txt", "not a descriptor")

	s, err := NewStore(root)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func TestStoreList(t *testing.T) {
	s := testStore(t)
	want := []string{"Canvas_Small", "Dino_Rex", "Wall_Grid"}
	got := s.List()
	if len(got) != len(want) {
		t.Fatalf("List: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List[%d]: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestStoreLoad(t *testing.T) {
	s := testStore(t)
	d, err := s.Load("Wall_Grid")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.Identity.BaseTemplate != "Canvas_Small" {
		t.Errorf("BaseTemplate: got %s", d.Identity.BaseTemplate)
	}
	if d.SourceRelPath != "Structures/Wall_Grid.json" {
		t.Errorf("SourceRelPath: got %s", d.SourceRelPath)
	}
}

func TestStoreLoadNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Load("Missing")
	if !fault.IsKind(err, fault.NotFound) {
		t.Errorf("want not-found fault, got %v", err)
	}
}

func TestStoreResolveOverrides(t *testing.T) {
	s := testStore(t)
	d, err := s.Resolve("Canvas_Small", map[string]interface{}{
		"layout": map[string]interface{}{
			"raster": map[string]interface{}{"width": 512, "height": 512},
		},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if d.Layout.Raster.Width != 512 {
		t.Errorf("override ignored: width=%d", d.Layout.Raster.Width)
	}
}

func TestStoreMissingRootIsEmpty(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("NewStore on missing root: %v", err)
	}
	if len(s.List()) != 0 {
		t.Errorf("expected empty store, got %v", s.List())
	}
}

func TestListInfoOrderAndDerivation(t *testing.T) {
	s := testStore(t)
	infos := s.ListInfo()
	if len(infos) != 3 {
		t.Fatalf("ListInfo: got %d entries", len(infos))
	}

	// Structures sort before dinos.
	if infos[0].Category != "structures" || infos[2].Category != "dinos" {
		t.Errorf("order: got categories %s,%s,%s",
			infos[0].Category, infos[1].Category, infos[2].Category)
	}

	for _, info := range infos {
		switch info.ID {
		case "Canvas_Small":
			if info.Width != 256 || info.Label != "Small Canvas" {
				t.Errorf("Canvas_Small: %+v", info)
			}
			if info.Family != "Structures" {
				t.Errorf("structures family from path: got %s", info.Family)
			}
		case "Dino_Rex":
			if info.Category != "dinos" {
				t.Errorf("identity category should win: got %s", info.Category)
			}
			if info.Family != "Dino" {
				t.Errorf("family from id head: got %s", info.Family)
			}
		}
	}
}
