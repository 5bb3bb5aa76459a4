package pnt

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"

	"github.com/studiopnt/paint-studio-mcp/internal/fault"
)

// TileCheck validates a single produced tile file before it is archived.
// Any error aborts the whole packaging operation.
type TileCheck func(path string) error

// EntryName formats the deterministic archive entry name for a tile.
func EntryName(imagePart, blueprint string, col, row int) string {
	return fmt.Sprintf("%s(%d)(%d)_%s.pnt", imagePart, col, row, blueprint)
}

// PackTiles assembles the produced tile files into a single compressed
// archive. files must already be in sorted (deterministic) order; entry
// (col, row) positions derive from that order row-major, so index i maps to
// row i/cols, col i%cols.
//
// The operation fails with a count-mismatch fault when len(files) differs
// from rows*cols, with the check's error when any single tile fails
// validation, and with an empty-output fault when the archive ends up
// empty. There is no partial success: an error means no archive.
func PackTiles(files []string, rows, cols int, imagePart, blueprint string, check TileCheck) ([]byte, error) {
	expected := rows * cols
	if len(files) != expected {
		return nil, fault.New(fault.CountMismatch,
			"multi-canvas generation mismatch: expected %d, got %d", expected, len(files))
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for index, path := range files {
		if check != nil {
			if err := check(path); err != nil {
				zw.Close()
				return nil, err
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			zw.Close()
			return nil, fault.Wrap(fault.NotFound, err, "generated tile unreadable: %s", path)
		}

		row := index / cols
		col := index % cols
		w, err := zw.Create(EntryName(imagePart, blueprint, col, row))
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to create archive entry: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to write archive entry: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	if buf.Len() == 0 || expected == 0 {
		return nil, fault.New(fault.EmptyOutput, "generated archive is empty")
	}
	return buf.Bytes(), nil
}
