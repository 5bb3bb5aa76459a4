package pnt

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FSScanner is the bundled external-library scanner: it enumerates .pnt
// files under a directory tree. A production deployment can replace it with
// a scanner that understands embedded blueprint metadata.
type FSScanner struct{}

// Scan walks root for .pnt files. maxFiles and timeLimit bound the walk
// (zero disables either bound); a missing root yields an empty result. When
// detectID is set, the id is derived from the canonical archive file naming
// (the token after the last underscore of the stem).
func (FSScanner) Scan(root string, recursive, detectID bool, maxFiles int, timeLimit time.Duration) ([]ScanItem, error) {
	var deadline time.Time
	if timeLimit > 0 {
		deadline = time.Now().Add(timeLimit)
	}

	items := make([]ScanItem, 0, 32)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// Unreadable subtrees are skipped, not fatal.
			return nil
		}
		if d.IsDir() {
			if !recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".pnt") {
			return nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return fs.SkipAll
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		item := ScanItem{Path: path, Name: d.Name(), Size: info.Size()}
		if detectID {
			item.ID = artifactID(d.Name())
		}
		items = append(items, item)
		if maxFiles > 0 && len(items) >= maxFiles {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return []ScanItem{}, nil
		}
		return nil, err
	}
	return items, nil
}

// artifactID extracts the blueprint token from a canonical artifact name.
func artifactID(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if idx := strings.LastIndexByte(stem, '_'); idx >= 0 && idx+1 < len(stem) {
		return stem[idx+1:]
	}
	return stem
}
