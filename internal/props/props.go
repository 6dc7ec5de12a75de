// Package props scatters decorative fir props over the dry cells of a
// terrain mesh.
package props

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/facetland/internal/logger"
	"github.com/Faultbox/facetland/internal/terrain"
	"github.com/Faultbox/facetland/internal/texture"
	"github.com/Faultbox/facetland/pkg/math"
)

var (
	ErrNoTerrain = errors.New("no terrain mesh to place props on")
	ErrZeroCount = errors.New("prop count must be positive")
)

// Options controls prop placement.
type Options struct {
	Count          int // desired number of props
	FacetAmplitude int // facet texture amplitude, 0 for no texture
}

// Mesh is the prop layer: fir geometry for every selected anchor.
type Mesh struct {
	terrain.Arrays

	// Anchors holds the terrain center-vertex indices the props stand on,
	// in selection order.
	Anchors []int
	Texture *texture.Image
	Bounds  terrain.Bounds
}

// Place selects min(opts.Count, candidates) distinct dry cell centers of m
// and builds one fir per anchor. A terrain without dry cells yields an
// empty mesh.
func Place(rng *rand.Rand, m *terrain.Mesh, opts Options) (*Mesh, error) {
	if m == nil || m.VertexCount() == 0 {
		return nil, ErrNoTerrain
	}
	if opts.Count <= 0 {
		return nil, ErrZeroCount
	}

	anchors := sample(rng, candidates(m), opts.Count)

	pm := &Mesh{
		Arrays:  terrain.NewArrays(len(anchors)*firVertices, len(anchors)*firIndices),
		Anchors: anchors,
	}
	for i, a := range anchors {
		pm.buildFir(m, a, i*firVertices)
	}
	pm.Bounds = terrain.BoundsOf(pm.Positions)

	if opts.FacetAmplitude != 0 {
		tex, err := texture.Facet(rng, opts.FacetAmplitude)
		if err != nil {
			return nil, fmt.Errorf("prop texture: %w", err)
		}
		pm.Texture = tex
	}

	logger.Named("props").Debug("props placed",
		zap.Int("requested", opts.Count),
		zap.Int("placed", len(anchors)),
		zap.Int("vertices", pm.VertexCount()),
	)
	return pm, nil
}

// candidates returns the center vertices above water, row-major.
func candidates(m *terrain.Mesh) []int {
	g := m.Grid()
	var out []int
	for i := g.CornerCount(); i < g.VertexCount(); i++ {
		if m.Positions[i].Z > m.WaterLevel {
			out = append(out, i)
		}
	}
	return out
}

// sample is a partial Fisher-Yates shuffle: the first n slots of pool end
// up holding a uniform random subset without repeats.
func sample(rng *rand.Rand, pool []int, n int) []int {
	if n > len(pool) {
		n = len(pool)
	}
	for k := 0; k < n; k++ {
		j := k + rng.IntN(len(pool)-k)
		pool[k], pool[j] = pool[j], pool[k]
	}
	return pool[:n]
}

// Fir geometry: each tier is an apex over a four-vertex ring.
const (
	firTiers     = 3
	tierVertices = 5
	tierIndices  = 12
	firVertices  = firTiers * tierVertices
	firIndices   = firTiers * tierIndices
	ringScale    = 0.75
	ringTaper    = 0.1875
)

var firColor = terrain.Color{R: 0x00, G: 0xB0, B: 0x00, A: 0xFF}

// ring order around the apex; apex is vertex 0 of the tier.
var tierFan = [tierIndices]uint32{0, 4, 1, 0, 1, 2, 0, 2, 3, 0, 3, 4}

var tierTexCoords = [tierVertices]math.Vec2{
	{X: 0.125, Y: 0.125},
	{},
	{X: 0.25},
	{},
	{X: 0.25},
}

// buildFir writes the tiers for the terrain center vertex anchor starting
// at vertex base. Rings shrink toward the anchor by tier and are lifted
// along the terrain normal.
func (pm *Mesh) buildFir(m *terrain.Mesh, anchor, base int) {
	g := m.Grid()
	cx, cy := g.CenterCell(anchor)
	p := m.Positions[anchor]
	n := m.Normals[anchor]
	lift := m.GridSpacing / 2

	corners := [4]math.Vec3{
		m.Positions[g.Corner(cx, cy)],
		m.Positions[g.Corner(cx+1, cy)],
		m.Positions[g.Corner(cx+1, cy+1)],
		m.Positions[g.Corner(cx, cy+1)],
	}

	for tier := 0; tier < firTiers; tier++ {
		v := base + tier*tierVertices
		t := float32(tier)
		scale := ringScale * (1 - ringTaper*t)

		pm.Positions[v] = p.Add(n.Scale(lift * (t + 2)))
		for k, c := range corners {
			pm.Positions[v+1+k] = p.Add(c.Sub(p).Scale(scale)).Add(n.Scale(lift * t))
		}
		for k := 0; k < tierVertices; k++ {
			pm.Normals[v+k] = n
			pm.Colors[v+k] = firColor
			pm.TexCoords[v+k] = tierTexCoords[k]
		}
		for _, idx := range tierFan {
			pm.Indices = append(pm.Indices, uint32(v)+idx)
		}
	}
}
