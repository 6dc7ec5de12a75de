// Package meshio exports finished mesh layers as a zstd-compressed binary
// stream and reads them back.
//
// Stream layout (little-endian, inside the zstd frame):
//
//	"FLMS" | version u16 | layer count u16
//	per layer: name length u16 | name | vertices u32 | indices u32 |
//	           positions f32×3 | normals f32×3 | colors u8×4 |
//	           texcoords f32×2 | indices u32
package meshio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	stdmath "math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/Faultbox/facetland/internal/terrain"
	"github.com/Faultbox/facetland/pkg/math"
)

// Magic opens every mesh stream.
const Magic = "FLMS"

// Version is the stream version written by this package.
const Version = 1

// Layer size limits: the vertex and index counts of the largest map the
// generator builds (2^14 cells a side).
const (
	MaxVertices uint32 = (1<<14+1)*(1<<14+1) + 1<<28
	MaxIndices  uint32 = 12 << 28
)

// chunkLen bounds how many elements are allocated ahead of the data that
// backs them.
const chunkLen = 1 << 16

var (
	ErrBadMagic   = errors.New("not a mesh stream")
	ErrBadVersion = errors.New("unsupported mesh stream version")
	ErrTooLarge   = errors.New("mesh layer exceeds size limits")
)

// Layer is a named set of mesh arrays.
type Layer struct {
	Name string
	terrain.Arrays
}

// Write compresses layers onto w.
func Write(w io.Writer, layers ...Layer) error {
	if len(layers) > stdmath.MaxUint16 {
		return fmt.Errorf("too many layers: %d", len(layers))
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	if err := writeLayers(bw, layers); err != nil {
		enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func writeLayers(w io.Writer, layers []Layer) error {
	le := binary.LittleEndian
	if _, err := io.WriteString(w, Magic); err != nil {
		return err
	}
	if err := binary.Write(w, le, [2]uint16{Version, uint16(len(layers))}); err != nil {
		return err
	}

	for _, l := range layers {
		if len(l.Name) > stdmath.MaxUint16 {
			return fmt.Errorf("layer name too long: %d bytes", len(l.Name))
		}
		n := l.VertexCount()
		if len(l.Normals) != n || len(l.Colors) != n || len(l.TexCoords) != n {
			return fmt.Errorf("layer %s: vertex arrays differ in length", l.Name)
		}

		if err := binary.Write(w, le, uint16(len(l.Name))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, l.Name); err != nil {
			return err
		}
		if err := binary.Write(w, le, [2]uint32{uint32(n), uint32(len(l.Indices))}); err != nil {
			return err
		}
		for _, data := range []any{l.Positions, l.Normals, l.Colors, l.TexCoords, l.Indices} {
			if err := binary.Write(w, le, data); err != nil {
				return fmt.Errorf("layer %s: %w", l.Name, err)
			}
		}
	}
	return nil
}

// Read decompresses a stream written by Write.
func Read(r io.Reader) ([]Layer, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return readLayers(bufio.NewReaderSize(dec, 256*1024))
}

func readLayers(r io.Reader) ([]Layer, error) {
	le := binary.LittleEndian

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if string(magic) != Magic {
		return nil, ErrBadMagic
	}

	var head [2]uint16
	if err := binary.Read(r, le, &head); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if head[0] != Version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, head[0])
	}

	layers := make([]Layer, 0, head[1])
	for i := 0; i < int(head[1]); i++ {
		var nameLen uint16
		if err := binary.Read(r, le, &nameLen); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, fmt.Errorf("layer %d name: %w", i, err)
		}

		var counts [2]uint32
		if err := binary.Read(r, le, &counts); err != nil {
			return nil, fmt.Errorf("layer %s: %w", name, err)
		}

		if counts[0] > MaxVertices || counts[1] > MaxIndices {
			return nil, fmt.Errorf("layer %s: %w: %d vertices, %d indices", name, ErrTooLarge, counts[0], counts[1])
		}

		l, err := readLayer(r, string(name), int(counts[0]), int(counts[1]))
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", name, err)
		}
		layers = append(layers, l)
	}
	return layers, nil
}

func readLayer(r io.Reader, name string, vertices, indices int) (Layer, error) {
	l := Layer{Name: name}
	var err error
	if l.Positions, err = readSlice[math.Vec3](r, vertices); err != nil {
		return l, err
	}
	if l.Normals, err = readSlice[math.Vec3](r, vertices); err != nil {
		return l, err
	}
	if l.Colors, err = readSlice[terrain.Color](r, vertices); err != nil {
		return l, err
	}
	if l.TexCoords, err = readSlice[math.Vec2](r, vertices); err != nil {
		return l, err
	}
	l.Indices, err = readSlice[uint32](r, indices)
	return l, err
}

// readSlice reads n little-endian elements, growing the result one chunk
// at a time so a lying header cannot force a large allocation.
func readSlice[T any](r io.Reader, n int) ([]T, error) {
	out := make([]T, 0, min(n, chunkLen))
	for len(out) < n {
		chunk := make([]T, min(n-len(out), chunkLen))
		if err := binary.Read(r, binary.LittleEndian, chunk); err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// WriteFile writes layers to path, creating its directory.
func WriteFile(path string, layers ...Layer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Write(f, layers...); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile reads the layers stored at path.
func ReadFile(path string) ([]Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	layers, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return layers, nil
}
