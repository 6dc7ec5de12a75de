package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/facetland/internal/logger"
	"github.com/Faultbox/facetland/internal/props"
	"github.com/Faultbox/facetland/internal/renderer"
	"github.com/Faultbox/facetland/internal/session"
	"github.com/Faultbox/facetland/internal/terrain"
	"github.com/Faultbox/facetland/internal/texture"
)

// ErrSaveFailed wraps a session save error. The scene returned alongside
// it is complete and usable.
var ErrSaveFailed = errors.New("scene generated but session not saved")

// MaxLog2Size bounds the map so that vertex indices fit in 32 bits.
const MaxLog2Size = 14

// Options are the generation parameters.
type Options struct {
	Log2Size           int
	GridSpacing        float32
	HeightRange        float32
	WaterLevel         float32
	Bands              terrain.BandTable
	Roughness          float32
	BlurSigma          float32
	PropCount          int // 0 disables props
	FacetAmplitude     int // terrain texture, 0 disables it
	PropFacetAmplitude int
}

// DefaultOptions returns a 128×128 map with 50 props.
func DefaultOptions() Options {
	return Options{
		Log2Size:           7,
		GridSpacing:        16,
		HeightRange:        600,
		WaterLevel:         -150,
		Bands:              terrain.DefaultBands(),
		Roughness:          1.0,
		BlurSigma:          1.5,
		PropCount:          50,
		FacetAmplitude:     64,
		PropFacetAmplitude: 64,
	}
}

// Generate runs the whole pipeline for p.Seed and uploads the result to
// dev. A zero seed is replaced by a fresh one, and UseBuffers is cleared
// when dev has no buffer support; both changes are written back to p. The
// Props flag is cleared when no props layer is produced. When outPath is
// set the parameters are saved there afterwards.
func Generate(dev renderer.Device, p *session.Parameters, opts Options, outPath string) (*Scene, error) {
	log := logger.Named("scene")

	if opts.Log2Size < 1 || opts.Log2Size > MaxLog2Size {
		return nil, fmt.Errorf("log2 size %d: %w", opts.Log2Size, terrain.ErrInvalidSize)
	}
	if p.Seed == 0 {
		p.Seed = session.FreshSeed()
	}
	if !dev.SupportsBuffers() {
		p.Flags &^= session.UseBuffers
	}

	rng := rand.New(rand.NewPCG(uint64(p.Seed), uint64(p.Seed)))

	hm, err := terrain.Synthesize(rng, 1<<opts.Log2Size, opts.Roughness)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	hm.Blur(opts.BlurSigma)

	mesh, err := terrain.Build(hm, terrain.MeshOptions{
		GridSpacing: opts.GridSpacing,
		HeightScale: opts.HeightRange,
		WaterLevel:  opts.WaterLevel,
		Bands:       opts.Bands,
	})
	if err != nil {
		return nil, fmt.Errorf("build terrain: %w", err)
	}

	var tex *texture.Image
	if opts.FacetAmplitude != 0 {
		if tex, err = texture.Facet(rng, opts.FacetAmplitude); err != nil {
			return nil, fmt.Errorf("terrain texture: %w", err)
		}
	}

	s := &Scene{
		Seed:       p.Seed,
		Extent:     mesh.Extent(),
		WaterLevel: mesh.WaterLevel,
		Terrain:    mesh,
		dev:        dev,
	}
	s.Layers = append(s.Layers, &Layer{
		Name:    LayerTerrain,
		Mesh:    mesh,
		Texture: tex,
		Visible: true,
		Flags:   p.Flags,
	})

	if opts.PropCount > 0 {
		pm, err := props.Place(rng, mesh, props.Options{
			Count:          opts.PropCount,
			FacetAmplitude: opts.PropFacetAmplitude,
		})
		if err != nil {
			return nil, fmt.Errorf("place props: %w", err)
		}
		s.Props = pm
		s.Layers = append(s.Layers, &Layer{
			Name:    LayerProps,
			Mesh:    pm,
			Texture: pm.Texture,
			Visible: p.Flags.Has(session.Props),
			Flags:   p.Flags & session.UseBuffers,
		})
	} else {
		p.Flags &^= session.Props
		s.Layers[0].Flags = p.Flags
	}

	if err := s.upload(); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("upload to %s device: %w", dev.Name(), err)
	}

	log.Info("scene generated",
		zap.Uint32("seed", s.Seed),
		zap.Int("size", mesh.Size),
		zap.Int("vertices", s.VertexCount()),
		zap.Int("triangles", s.TriangleCount()),
		zap.Int("props", s.PropCount()),
		zap.Stringer("flags", p.Flags),
	)

	if outPath != "" {
		if err := session.Save(outPath, *p); err != nil {
			log.Warn("session not saved", zap.String("path", outPath), zap.Error(err))
			return s, fmt.Errorf("%w: %w", ErrSaveFailed, err)
		}
	}
	return s, nil
}
