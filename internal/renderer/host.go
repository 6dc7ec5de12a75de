package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/facetland/internal/logger"
	"github.com/Faultbox/facetland/internal/texture"
)

// HostDevice keeps everything in host memory. It is always available and
// has no buffer support.
type HostDevice struct {
	next     uint32
	meshes   map[BufferHandle]Drawable
	textures map[TextureHandle]*texture.Image
	log      *zap.Logger
}

// NewHostDevice creates an empty host device.
func NewHostDevice() *HostDevice {
	return &HostDevice{
		meshes:   make(map[BufferHandle]Drawable),
		textures: make(map[TextureHandle]*texture.Image),
		log:      logger.Named("renderer.host"),
	}
}

func (d *HostDevice) Name() string { return BackendHost }

func (d *HostDevice) SupportsBuffers() bool { return false }

func (d *HostDevice) CreateTexture(img *texture.Image) (TextureHandle, error) {
	if img == nil || img.RGBA == nil {
		return 0, fmt.Errorf("create texture: no image")
	}
	d.next++
	h := TextureHandle(d.next)
	d.textures[h] = img
	d.log.Debug("texture stored", zap.Uint32("handle", uint32(h)), zap.Int("size", img.Size()))
	return h, nil
}

func (d *HostDevice) Upload(m Drawable) (BufferHandle, error) {
	if m == nil || m.Data() == nil {
		return 0, fmt.Errorf("upload: no mesh")
	}
	d.next++
	h := BufferHandle(d.next)
	d.meshes[h] = m
	d.log.Debug("mesh stored",
		zap.Uint32("handle", uint32(h)),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
	)
	return h, nil
}

func (d *HostDevice) Release(h BufferHandle) { delete(d.meshes, h) }

func (d *HostDevice) ReleaseTexture(h TextureHandle) { delete(d.textures, h) }

// Mesh returns the drawable behind h.
func (d *HostDevice) Mesh(h BufferHandle) (Drawable, error) {
	m, ok := d.meshes[h]
	if !ok {
		return nil, fmt.Errorf("%w: buffer %d", ErrUnknownHandle, h)
	}
	return m, nil
}

// Texture returns the image behind h.
func (d *HostDevice) Texture(h TextureHandle) (*texture.Image, error) {
	img, ok := d.textures[h]
	if !ok {
		return nil, fmt.Errorf("%w: texture %d", ErrUnknownHandle, h)
	}
	return img, nil
}

// Live returns the number of meshes and textures still held.
func (d *HostDevice) Live() (meshes, textures int) {
	return len(d.meshes), len(d.textures)
}

func (d *HostDevice) Close() {
	clear(d.meshes)
	clear(d.textures)
}
