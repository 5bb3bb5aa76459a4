package pnt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// The bundled engine writes artifacts in a simple framed container so the
// whole generate/validate/package pipeline runs without the external
// toolchain. Production deployments swap in the real raster-20 validator,
// inspector, and encoder through the package interfaces; nothing outside
// this file assumes the container layout.
//
// Layout: magic "PNTC", one version byte (20 for raster-20 compatible
// headers), width and height as big-endian uint32, then the pixel payload.

var containerMagic = []byte("PNTC")

const containerVersion = 20
const containerHeaderSize = 4 + 1 + 4 + 4

// WriteContainer frames a pixel payload with the container header.
func WriteContainer(width, height int, payload []byte) []byte {
	buf := make([]byte, containerHeaderSize, containerHeaderSize+len(payload))
	copy(buf, containerMagic)
	buf[4] = containerVersion
	binary.BigEndian.PutUint32(buf[5:], uint32(width))
	binary.BigEndian.PutUint32(buf[9:], uint32(height))
	return append(buf, payload...)
}

// ContainerValidator validates artifacts written by WriteContainer.
type ContainerValidator struct{}

// Validate checks the container frame. Failures report a kind and message
// in the shape the external validator uses.
func (ContainerValidator) Validate(path string) ValidationResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ValidationResult{Kind: "io", Message: err.Error()}
	}
	if len(data) < containerHeaderSize {
		return ValidationResult{Kind: "truncated", Message: fmt.Sprintf("artifact is %d bytes, want >= %d", len(data), containerHeaderSize)}
	}
	if !bytes.Equal(data[:4], containerMagic) {
		return ValidationResult{Kind: "magic", Message: "bad container magic"}
	}
	if len(data) == containerHeaderSize {
		return ValidationResult{Kind: "empty", Message: "container has no pixel payload"}
	}
	return ValidationResult{OK: true}
}

// ContainerInspector peeks headers written by WriteContainer.
type ContainerInspector struct{}

// Peek reads the header without touching the payload.
func (ContainerInspector) Peek(path string) (PeekInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return PeekInfo{}, err
	}
	defer f.Close()

	header := make([]byte, containerHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return PeekInfo{}, fmt.Errorf("failed to read artifact header: %w", err)
	}
	if !bytes.Equal(header[:4], containerMagic) {
		return PeekInfo{}, nil
	}
	return PeekInfo{
		IsHeader20: header[4] == containerVersion,
		Width:      int(binary.BigEndian.Uint32(header[5:])),
		Height:     int(binary.BigEndian.Uint32(header[9:])),
	}, nil
}
