package renderer

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/Faultbox/facetland/internal/terrain"
	"github.com/Faultbox/facetland/internal/texture"
)

func TestOpen(t *testing.T) {
	for _, backend := range []string{"", BackendHost} {
		dev, err := Open(backend)
		if err != nil {
			t.Fatalf("Open(%q) failed: %v", backend, err)
		}
		if dev.Name() != BackendHost {
			t.Errorf("Open(%q): expected host device, got %s", backend, dev.Name())
		}
		dev.Close()
	}

	if _, err := Open("vulkan"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestHostDeviceLifecycle(t *testing.T) {
	dev := NewHostDevice()
	defer dev.Close()

	if dev.SupportsBuffers() {
		t.Error("expected host device without buffer support")
	}

	arrays := terrain.NewArrays(3, 3)
	arrays.Indices = append(arrays.Indices, 0, 1, 2)
	mh, err := dev.Upload(&arrays)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	img, err := texture.Facet(rand.New(rand.NewPCG(1, 1)), 64)
	if err != nil {
		t.Fatal(err)
	}
	th, err := dev.CreateTexture(img)
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}

	if meshes, textures := dev.Live(); meshes != 1 || textures != 1 {
		t.Errorf("expected 1 mesh and 1 texture, got %d and %d", meshes, textures)
	}

	m, err := dev.Mesh(mh)
	if err != nil {
		t.Fatalf("Mesh failed: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", m.TriangleCount())
	}
	if got, _ := dev.Texture(th); got != img {
		t.Error("expected the stored image back")
	}

	dev.Release(mh)
	dev.ReleaseTexture(th)
	if meshes, textures := dev.Live(); meshes != 0 || textures != 0 {
		t.Errorf("expected nothing live, got %d and %d", meshes, textures)
	}
	if _, err := dev.Mesh(mh); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("expected ErrUnknownHandle, got %v", err)
	}
}

func TestHostDeviceRejectsMissing(t *testing.T) {
	dev := NewHostDevice()
	if _, err := dev.CreateTexture(nil); err == nil {
		t.Error("expected error for nil texture")
	}
	if _, err := dev.Upload(nil); err == nil {
		t.Error("expected error for nil mesh")
	}
}
