package terrain

import "github.com/Faultbox/facetland/pkg/math"

// Grid addresses the two vertex layers of an N×N cell map stored in one
// flat array:
//
//	corners: (N+1)×(N+1), index y*(N+1)+x
//	centers: N×N,         index (N+1)² + y*N + x
//
// Corner column N aliases column 0 (and row N aliases row 0) when the map
// is treated as a torus; the center layer has no aliased edge and simply
// wraps with period N.
type Grid struct {
	Size int
}

// Stride returns the row length of the corner layer.
func (g Grid) Stride() int { return g.Size + 1 }

// CornerCount returns (N+1)².
func (g Grid) CornerCount() int { return g.Stride() * g.Stride() }

// CenterCount returns N².
func (g Grid) CenterCount() int { return g.Size * g.Size }

// VertexCount returns the total number of mesh vertices.
func (g Grid) VertexCount() int { return g.CornerCount() + g.CenterCount() }

// IndexCount returns the number of index slots: 4 triangles per cell.
func (g Grid) IndexCount() int { return 12 * g.CenterCount() }

// Corner returns the flat index of corner (x, y), 0 <= x, y <= N.
func (g Grid) Corner(x, y int) int {
	return y*g.Stride() + x
}

// Center returns the flat index of the center of cell (x, y), 0 <= x, y < N.
func (g Grid) Center(x, y int) int {
	return g.CornerCount() + y*g.Size + x
}

// IsCenter reports whether a flat index belongs to the center layer.
func (g Grid) IsCenter(i int) bool {
	return i >= g.CornerCount() && i < g.VertexCount()
}

// CenterCell returns the cell coordinates of a center-layer index.
func (g Grid) CenterCell(i int) (x, y int) {
	i -= g.CornerCount()
	return i % g.Size, i / g.Size
}

// WrapCell maps any cell coordinate onto the torus.
func (g Grid) WrapCell(x, y int) (int, int) {
	return math.Wrap(x, g.Size), math.Wrap(y, g.Size)
}

// cornerNeighbors returns the left/right (or below/above) corner
// coordinates of c on the aliased corner axis: stepping left from 0
// lands on N-1 and stepping right from N lands on 1, skipping the
// duplicate of the current vertex.
func (g Grid) cornerNeighbors(c int) (lo, hi int) {
	lo, hi = c-1, c+1
	if c == 0 {
		lo = g.Size - 1
	}
	if c == g.Size {
		hi = 1
	}
	return lo, hi
}
