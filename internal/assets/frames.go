package assets

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// frameExtensions are the image formats accepted as border frames.
var frameExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// Frames discovers and resolves tileable border frame images across a
// fixed, ordered list of directories.
type Frames struct {
	// Root is the assets root; listed frames are reported relative to it
	// when possible.
	Root string

	// Dirs are scanned in order. Missing directories are skipped.
	Dirs []string
}

// List returns the discovered frame images as root-relative paths (or bare
// file names for frames outside the root), in scan order; files within a
// directory are ordered case-insensitively by name.
func (f Frames) List() []string {
	out := make([]string, 0, 16)
	for _, path := range f.candidates() {
		if rel, err := filepath.Rel(f.Root, path); err == nil && !strings.HasPrefix(rel, "..") {
			out = append(out, filepath.ToSlash(rel))
		} else {
			out = append(out, filepath.Base(path))
		}
	}
	return out
}

// Resolve turns a frame reference into a concrete file path. References are
// tried as an absolute path, then relative to the assets root and each frame
// directory, then as a basename or listed-name match across the discovered
// frames. An unresolvable reference reports ok=false — never an error — so
// an image border with a bad frame degrades to no frame.
func (f Frames) Resolve(ref string) (string, bool) {
	raw := strings.TrimSpace(ref)
	if raw == "" {
		return "", false
	}

	tries := []string{raw}
	if !filepath.IsAbs(raw) {
		tries = append(tries, filepath.Join(f.Root, raw))
		for _, dir := range f.Dirs {
			tries = append(tries, filepath.Join(dir, raw))
		}
	}
	for _, path := range tries {
		if isFrameFile(path) {
			return path, true
		}
	}

	for _, path := range f.candidates() {
		if filepath.Base(path) == raw {
			return path, true
		}
		if rel, err := filepath.Rel(f.Root, path); err == nil && filepath.ToSlash(rel) == raw {
			return path, true
		}
	}
	return "", false
}

// candidates enumerates frame files directory by directory.
func (f Frames) candidates() []string {
	out := make([]string, 0, 16)
	for _, dir := range f.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if frameExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
				names = append(names, e.Name())
			}
		}
		sort.Slice(names, func(i, j int) bool {
			return strings.ToLower(names[i]) < strings.ToLower(names[j])
		})
		for _, name := range names {
			out = append(out, filepath.Join(dir, name))
		}
	}
	return out
}

func isFrameFile(path string) bool {
	if !frameExtensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
