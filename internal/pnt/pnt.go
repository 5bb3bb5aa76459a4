// Package pnt holds the artifact-side collaborator contracts and the
// multi-tile archive packager.
//
// The binary .pnt format itself is out of scope here: validation, header
// inspection, encoding, and library scanning are performed by external
// collaborators consumed through the narrow interfaces below. This package
// only decides what to ask them and how to assemble their outputs.
package pnt

import (
	"strings"
	"time"
)

// WriterMode selects how the encoder writes an artifact.
type WriterMode string

const (
	WriterLegacyCopy     WriterMode = "legacy_copy"
	WriterRaster20       WriterMode = "raster20"
	WriterPreserveSource WriterMode = "preserve_source"
)

// ValidationResult is the external format validator's verdict.
type ValidationResult struct {
	OK      bool   `json:"ok"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// Validator checks an artifact file against the binary format rules.
type Validator interface {
	Validate(path string) ValidationResult
}

// PeekInfo is the header summary from the external format inspector.
type PeekInfo struct {
	// IsHeader20 reports whether the artifact declares the raster-20
	// compatible header.
	IsHeader20 bool `json:"is_header20"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// Inspector reads an artifact header without decoding the body.
type Inspector interface {
	Peek(path string) (PeekInfo, error)
}

// ScanItem is one artifact discovered in an external library.
type ScanItem struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	ID   string `json:"id,omitempty"`
}

// Scanner enumerates .pnt files under a library root.
type Scanner interface {
	Scan(root string, recursive, detectID bool, maxFiles int, timeLimit time.Duration) ([]ScanItem, error)
}

// ParseWriterMode normalizes a writer mode request. "auto" and the empty
// string map to raster20; anything else outside the known set is rejected.
func ParseWriterMode(raw string) (WriterMode, bool) {
	switch WriterMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", "auto", WriterRaster20:
		return WriterRaster20, true
	case WriterLegacyCopy:
		return WriterLegacyCopy, true
	case WriterPreserveSource:
		return WriterPreserveSource, true
	}
	return "", false
}

// SanitizeFilePart reduces a free-form name to a safe archive-name token:
// the extension is stripped, runs of characters outside [A-Za-z0-9_-]
// collapse to a single underscore, and leading/trailing underscores are
// trimmed. A value that sanitizes to nothing yields the fallback.
func SanitizeFilePart(value, fallback string) string {
	raw := strings.TrimSpace(value)
	if idx := strings.LastIndexByte(raw, '.'); idx >= 0 {
		raw = raw[:idx]
	}

	var b strings.Builder
	pendingSep := false
	for _, ch := range raw {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(ch)
		default:
			// Underscores and anything disallowed become one separator.
			pendingSep = true
		}
	}

	safe := b.String()
	if safe == "" {
		return fallback
	}
	return safe
}
