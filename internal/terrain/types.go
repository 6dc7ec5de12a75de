// Package terrain synthesizes fractal heightmaps and turns them into
// banded, shaded triangle meshes.
package terrain

import (
	"errors"

	"github.com/Faultbox/facetland/pkg/math"
)

// Terrain errors. Builders return these (possibly wrapped) instead of a
// partially filled mesh.
var (
	ErrInvalidSize     = errors.New("map size must be a power of two greater than one")
	ErrInvalidSpacing  = errors.New("grid spacing must be positive")
	ErrNoBands         = errors.New("color band table is empty")
	ErrMissingSentinel = errors.New("color band table has no zero-weight water entry")
	ErrZeroBandWeight  = errors.New("color band table has no positive weights")
	ErrFlatHeightmap   = errors.New("heightmap has zero height range")
	ErrWaterLevel      = errors.New("water level must be below the highest elevation")
)

// Color is an RGBA8888 vertex color.
type Color struct {
	R, G, B, A uint8
}

// Opaque returns c with full alpha.
func (c Color) Opaque() Color {
	c.A = 255
	return c
}

// Arrays holds the typed vertex arrays shared by every mesh layer.
// All per-vertex slices have the same length.
type Arrays struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Colors    []Color
	TexCoords []math.Vec2
	Indices   []uint32
}

// NewArrays allocates arrays for the given vertex count with room for
// the given number of indices.
func NewArrays(vertices, indices int) Arrays {
	return Arrays{
		Positions: make([]math.Vec3, vertices),
		Normals:   make([]math.Vec3, vertices),
		Colors:    make([]Color, vertices),
		TexCoords: make([]math.Vec2, vertices),
		Indices:   make([]uint32, 0, indices),
	}
}

// VertexCount returns the number of vertices.
func (a *Arrays) VertexCount() int { return len(a.Positions) }

// TriangleCount returns the number of indexed triangles.
func (a *Arrays) TriangleCount() int { return len(a.Indices) / 3 }

// Data returns the arrays themselves so that every mesh embedding Arrays
// can be handed to a renderer.
func (a *Arrays) Data() *Arrays { return a }

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// BoundsOf returns the bounding box of a point set.
func BoundsOf(points []math.Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Mesh is a finished terrain surface. Corner vertices come first in
// row-major order, followed by one center vertex per cell (see Grid).
type Mesh struct {
	Arrays

	Size        int     // cells per side (N)
	GridSpacing float32 // width of one cell
	HeightScale float32 // full elevation range
	WaterLevel  float32 // lowest elevation after clamping
	Bounds      Bounds
}

// Grid returns the addressing helper for this mesh.
func (m *Mesh) Grid() Grid {
	return Grid{Size: m.Size}
}

// Extent returns the width of the whole map.
func (m *Mesh) Extent() float32 {
	return float32(m.Size) * m.GridSpacing
}
