package render

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/studiopnt/paint-studio-mcp/internal/pnt"
)

// ContainerEncoder emits artifacts in the reference container framing with
// a PNG pixel payload. All writer modes share the payload here; the mode
// distinction matters to the external toolchain encoder that replaces this
// one in production.
type ContainerEncoder struct{}

// Encode frames the painted tile as a reference container artifact.
func (ContainerEncoder) Encode(tile image.Image, palettePath string, mode pnt.WriterMode) ([]byte, error) {
	if tile == nil {
		return nil, fmt.Errorf("no tile to encode")
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, tile, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode tile payload: %w", err)
	}

	b := tile.Bounds()
	return pnt.WriteContainer(b.Dx(), b.Dy(), buf.Bytes()), nil
}
