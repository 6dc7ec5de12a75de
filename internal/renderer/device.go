// Package renderer hands finished meshes and textures to a display
// device. The backend is chosen once at startup; mesh data is the same
// whichever backend receives it.
package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/facetland/internal/logger"
	"github.com/Faultbox/facetland/internal/terrain"
	"github.com/Faultbox/facetland/internal/texture"
)

var (
	ErrUnknownBackend = errors.New("unknown renderer backend")
	ErrUnknownHandle  = errors.New("unknown device handle")
)

// Backend names accepted by Open.
const (
	BackendHost = "host"
	BackendGL   = "gl"
	BackendAuto = "auto"
)

// Drawable is anything carrying typed vertex arrays: terrain and prop
// meshes both qualify.
type Drawable interface {
	VertexCount() int
	TriangleCount() int
	Data() *terrain.Arrays
}

// BufferHandle identifies uploaded mesh data on a device.
type BufferHandle uint32

// TextureHandle identifies an uploaded texture on a device.
type TextureHandle uint32

// Device receives meshes and textures. Handles are only meaningful to
// the device that issued them.
type Device interface {
	Name() string
	// SupportsBuffers reports whether meshes live in device-resident
	// buffers rather than being walked from host memory.
	SupportsBuffers() bool
	CreateTexture(img *texture.Image) (TextureHandle, error)
	Upload(d Drawable) (BufferHandle, error)
	Release(h BufferHandle)
	ReleaseTexture(h TextureHandle)
	Close()
}

// Open returns the device for backend. "auto" tries OpenGL and falls
// back to host memory when no GL context can be created.
func Open(backend string) (Device, error) {
	log := logger.Named("renderer")

	switch backend {
	case BackendHost, "":
		return NewHostDevice(), nil
	case BackendGL:
		return NewGLDevice()
	case BackendAuto:
		dev, err := NewGLDevice()
		if err != nil {
			log.Warn("OpenGL unavailable, using host device", zap.Error(err))
			return NewHostDevice(), nil
		}
		return dev, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
