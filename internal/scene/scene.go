// Package scene runs the generation pipeline and owns its result: an
// ordered set of mesh layers uploaded to a renderer device.
package scene

import (
	"github.com/Faultbox/facetland/internal/props"
	"github.com/Faultbox/facetland/internal/renderer"
	"github.com/Faultbox/facetland/internal/session"
	"github.com/Faultbox/facetland/internal/terrain"
	"github.com/Faultbox/facetland/internal/texture"
)

// Layer names.
const (
	LayerTerrain = "terrain"
	LayerProps   = "props"
)

// Layer is one mesh of a scene with its own visibility and display flags.
type Layer struct {
	Name    string
	Mesh    renderer.Drawable
	Texture *texture.Image
	Visible bool
	Flags   session.DisplayFlags

	buffer    renderer.BufferHandle
	textureID renderer.TextureHandle
}

// Buffer returns the device handle of the layer mesh.
func (l *Layer) Buffer() renderer.BufferHandle { return l.buffer }

// TextureHandle returns the device handle of the layer texture, zero when
// the layer has none.
func (l *Layer) TextureHandle() renderer.TextureHandle { return l.textureID }

// Scene is a generated terrain and its props. The terrain layer is always
// first.
type Scene struct {
	Layers     []*Layer
	Seed       uint32
	Extent     float32
	WaterLevel float32

	Terrain *terrain.Mesh
	Props   *props.Mesh // nil without a props layer

	dev renderer.Device
}

// Layer returns the named layer or nil.
func (s *Scene) Layer(name string) *Layer {
	for _, l := range s.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// PropsVisible reports whether a props layer exists and is shown.
func (s *Scene) PropsVisible() bool {
	l := s.Layer(LayerProps)
	return l != nil && l.Visible
}

// SetPropsVisible shows or hides the props layer. Without one it does
// nothing and props stay hidden.
func (s *Scene) SetPropsVisible(v bool) {
	if l := s.Layer(LayerProps); l != nil {
		l.Visible = v
	}
}

// VertexCount returns the number of vertices over all layers.
func (s *Scene) VertexCount() int {
	n := 0
	for _, l := range s.Layers {
		n += l.Mesh.VertexCount()
	}
	return n
}

// TriangleCount returns the number of triangles over all layers.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, l := range s.Layers {
		n += l.Mesh.TriangleCount()
	}
	return n
}

// PropCount returns the number of placed props.
func (s *Scene) PropCount() int {
	if s.Props == nil {
		return 0
	}
	return len(s.Props.Anchors)
}

// upload hands every layer to the device.
func (s *Scene) upload() error {
	for _, l := range s.Layers {
		if l.Texture != nil {
			h, err := s.dev.CreateTexture(l.Texture)
			if err != nil {
				return err
			}
			l.textureID = h
		}
		h, err := s.dev.Upload(l.Mesh)
		if err != nil {
			return err
		}
		l.buffer = h
	}
	return nil
}

// Destroy releases the device resources of every layer.
func (s *Scene) Destroy() {
	if s.dev == nil {
		return
	}
	for _, l := range s.Layers {
		if l.buffer != 0 {
			s.dev.Release(l.buffer)
			l.buffer = 0
		}
		if l.textureID != 0 {
			s.dev.ReleaseTexture(l.textureID)
			l.textureID = 0
		}
	}
}
