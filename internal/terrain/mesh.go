package terrain

import (
	"fmt"
	stdmath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/facetland/internal/logger"
	"github.com/Faultbox/facetland/pkg/math"
)

// MeshOptions controls how a heightmap is turned into a mesh.
type MeshOptions struct {
	GridSpacing float32   // width of one cell; must be > 0
	HeightScale float32   // full elevation range, centered on zero
	WaterLevel  float32   // sea level; raised to -HeightScale/2 if lower
	Bands       BandTable // height→color table with water sentinel
}

// Build converts a heightmap into a terrain mesh. Every cell becomes a
// four-triangle fan around a synthesized center vertex.
func Build(hm *Heightmap, opts MeshOptions) (*Mesh, error) {
	if hm == nil || hm.Size == 0 || len(hm.Values) != (hm.Size+1)*(hm.Size+1) {
		return nil, ErrInvalidSize
	}
	if !(opts.GridSpacing > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpacing, opts.GridSpacing)
	}
	if err := opts.Bands.Validate(); err != nil {
		return nil, err
	}

	height := float32(stdmath.Abs(float64(opts.HeightScale)))
	top := 0.5 * height
	water := max(opts.WaterLevel, -top)
	if water >= top {
		return nil, fmt.Errorf("%w: water %v, top %v", ErrWaterLevel, water, top)
	}

	lo, hi := hm.Range()
	if !(hi > lo) {
		return nil, ErrFlatHeightmap
	}

	g := Grid{Size: hm.Size}
	m := &Mesh{
		Arrays:      NewArrays(g.VertexCount(), g.IndexCount()),
		Size:        hm.Size,
		GridSpacing: opts.GridSpacing,
		HeightScale: height,
		WaterLevel:  water,
	}

	m.buildIndices(g)
	m.placeCorners(g, hm, lo, height/(hi-lo), water)
	m.placeCenters(g)
	paintCorners(m, g, opts.Bands, top)
	blendCenters(m, g, opts.Bands.Water())
	m.computeNormals(g)
	m.assignTexCoords(g)
	m.Bounds = BoundsOf(m.Positions)

	logger.Named("terrain").Debug("mesh built",
		zap.Int("size", m.Size),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
		zap.Float32("water", water),
	)
	return m, nil
}

// buildIndices emits, per cell, the fan center→BL→BR, center→BR→TR,
// center→TR→TL, center→TL→BL. Seen from +Z the triangles wind
// counter-clockwise.
func (m *Mesh) buildIndices(g Grid) {
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			c := uint32(g.Center(x, y))
			bl := uint32(g.Corner(x, y))
			br := uint32(g.Corner(x+1, y))
			tr := uint32(g.Corner(x+1, y+1))
			tl := uint32(g.Corner(x, y+1))
			m.Indices = append(m.Indices,
				c, bl, br,
				c, br, tr,
				c, tr, tl,
				c, tl, bl,
			)
		}
	}
}

// placeCorners rescales the heightmap into [-height/2, height/2] and
// flattens everything under water to the water level. The map is
// centered on the origin in X and Y.
func (m *Mesh) placeCorners(g Grid, hm *Heightmap, lo, scale, water float32) {
	half := 0.5 * m.GridSpacing * float32(g.Size)
	for y := 0; y <= g.Size; y++ {
		for x := 0; x <= g.Size; x++ {
			z := (hm.At(x, y)-lo)*scale - 0.5*m.HeightScale
			if z < water {
				z = water
			}
			m.Positions[g.Corner(x, y)] = math.Vec3{
				X: m.GridSpacing*float32(x) - half,
				Y: m.GridSpacing*float32(y) - half,
				Z: z,
			}
		}
	}
}

// placeCenters puts each center vertex at the cell midpoint with the mean
// height of the (already clamped) corners. The sum is taken in float64 so
// a cell whose corners all sit at water level averages to exactly the
// water level.
func (m *Mesh) placeCenters(g Grid) {
	half := 0.5 * m.GridSpacing * float32(g.Size)
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			sum := float64(m.Positions[g.Corner(x, y)].Z) +
				float64(m.Positions[g.Corner(x+1, y)].Z) +
				float64(m.Positions[g.Corner(x, y+1)].Z) +
				float64(m.Positions[g.Corner(x+1, y+1)].Z)
			m.Positions[g.Center(x, y)] = math.Vec3{
				X: m.GridSpacing*(float32(x)+0.5) - half,
				Y: m.GridSpacing*(float32(y)+0.5) - half,
				Z: float32(sum / 4),
			}
		}
	}
}

// computeNormals uses central differences of neighboring heights with a
// fixed vertical component of twice the grid spacing. Both layers wrap
// toroidally.
func (m *Mesh) computeNormals(g Grid) {
	nz := 2 * m.GridSpacing
	z := func(i int) float32 { return m.Positions[i].Z }

	for y := 0; y <= g.Size; y++ {
		below, above := g.cornerNeighbors(y)
		for x := 0; x <= g.Size; x++ {
			left, right := g.cornerNeighbors(x)
			n := math.Vec3{
				X: z(g.Corner(left, y)) - z(g.Corner(right, y)),
				Y: z(g.Corner(x, below)) - z(g.Corner(x, above)),
				Z: nz,
			}
			m.Normals[g.Corner(x, y)] = n.Normalize()
		}
	}

	// Centers wrap with period N rather than clamping at the border, so
	// normals stay continuous across the seam where tiles repeat.
	for y := 0; y < g.Size; y++ {
		below, above := math.Wrap(y-1, g.Size), math.Wrap(y+1, g.Size)
		for x := 0; x < g.Size; x++ {
			left, right := math.Wrap(x-1, g.Size), math.Wrap(x+1, g.Size)
			n := math.Vec3{
				X: z(g.Center(left, y)) - z(g.Center(right, y)),
				Y: z(g.Center(x, below)) - z(g.Center(x, above)),
				Z: nz,
			}
			m.Normals[g.Center(x, y)] = n.Normalize()
		}
	}
}

// assignTexCoords maps one texture repeat per cell.
func (m *Mesh) assignTexCoords(g Grid) {
	for y := 0; y <= g.Size; y++ {
		for x := 0; x <= g.Size; x++ {
			m.TexCoords[g.Corner(x, y)] = math.Vec2{X: float32(x), Y: float32(y)}
			if x < g.Size && y < g.Size {
				m.TexCoords[g.Center(x, y)] = math.Vec2{X: float32(x) + 0.5, Y: float32(y) + 0.5}
			}
		}
	}
}
