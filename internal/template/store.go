package template

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/studiopnt/paint-studio-mcp/internal/fault"
)

// Store indexes and loads template descriptors from a directory tree.
//
// Descriptors are JSON files anywhere under the root. A template's id is
// the descriptor's identity.id when present, otherwise the file stem.
// The index is built once at construction; the store itself performs no
// caching of parsed descriptors.
type Store struct {
	root  string
	index map[string]string // id -> absolute descriptor path
	ids   []string          // sorted
}

// NewStore walks root and indexes every descriptor found. A missing root
// yields an empty store rather than an error so listing degrades gracefully.
func NewStore(root string) (*Store, error) {
	s := &Store{root: root, index: make(map[string]string)}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}

		id, ok := descriptorID(path)
		if !ok {
			return nil
		}
		s.index[id] = path
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to index templates under %s: %w", root, err)
	}

	s.ids = make([]string, 0, len(s.index))
	for id := range s.index {
		s.ids = append(s.ids, id)
	}
	sort.Strings(s.ids)
	return s, nil
}

// descriptorID extracts the template id for an indexed file. Files that are
// not JSON objects are skipped.
func descriptorID(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	var probe struct {
		Identity Identity `json:"identity"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", false
	}
	if probe.Identity.ID != "" {
		return probe.Identity.ID, true
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return stem, stem != ""
}

// List returns all indexed template ids in ascending order.
func (s *Store) List() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Load parses the descriptor for id.
func (s *Store) Load(id string) (*Descriptor, error) {
	path, ok := s.index[id]
	if !ok {
		return nil, fault.New(fault.NotFound, "template %q not found", id)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, err, "template %q unreadable", id)
	}

	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor %s: %w", path, err)
	}

	if rel, err := filepath.Rel(s.root, path); err == nil {
		d.SourceRelPath = filepath.ToSlash(rel)
	} else {
		d.SourceRelPath = filepath.ToSlash(path)
	}
	return &d, nil
}

// Resolve loads a descriptor and applies top-level section overrides before
// parsing. Override values replace whole sections (identity, layout, ...).
func (s *Store) Resolve(id string, overrides map[string]interface{}) (*Descriptor, error) {
	if len(overrides) == 0 {
		return s.Load(id)
	}

	path, ok := s.index[id]
	if !ok {
		return nil, fault.New(fault.NotFound, "template %q not found", id)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, err, "template %q unreadable", id)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor %s: %w", path, err)
	}
	for key, value := range overrides {
		enc, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode override %q: %w", key, err)
		}
		raw[key] = enc
	}
	merged, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to merge overrides for %q: %w", id, err)
	}

	var d Descriptor
	if err := json.Unmarshal(merged, &d); err != nil {
		return nil, fmt.Errorf("failed to parse resolved descriptor %q: %w", id, err)
	}
	if rel, relErr := filepath.Rel(s.root, path); relErr == nil {
		d.SourceRelPath = filepath.ToSlash(rel)
	}
	return &d, nil
}
