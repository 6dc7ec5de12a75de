package renderer

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/facetland/internal/logger"
	"github.com/Faultbox/facetland/internal/texture"
)

// Vertex attribute locations used by uploaded meshes.
const (
	AttribPosition = 0
	AttribNormal   = 1
	AttribColor    = 2
	AttribTexCoord = 3
)

// glMesh is one uploaded mesh: a VAO over four attribute buffers and an
// element buffer.
type glMesh struct {
	vao     uint32
	vbos    [5]uint32
	indices int32
}

// GLDevice uploads meshes and textures through OpenGL 4.1 core. It owns a
// hidden SDL window that provides the context, so every call must come
// from the thread that created it.
type GLDevice struct {
	window   *sdl.Window
	context  sdl.GLContext
	meshes   map[BufferHandle]glMesh
	textures map[TextureHandle]uint32
	next     uint32
	log      *zap.Logger
}

// NewGLDevice creates a hidden window with an OpenGL 4.1 core context.
func NewGLDevice() (*GLDevice, error) {
	runtime.LockOSThread()
	log := logger.Named("renderer.gl")

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	window, err := sdl.CreateWindow("facetland", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		1, 1, uint32(sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN))
	if err != nil {
		sdl.Quit()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	context, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if err := gl.Init(); err != nil {
		sdl.GLDeleteContext(context)
		window.Destroy()
		sdl.Quit()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	return &GLDevice{
		window:   window,
		context:  context,
		meshes:   make(map[BufferHandle]glMesh),
		textures: make(map[TextureHandle]uint32),
		log:      log,
	}, nil
}

func (d *GLDevice) Name() string { return BackendGL }

func (d *GLDevice) SupportsBuffers() bool { return true }

// CreateTexture uploads img with mip-mapped minification, linear
// magnification and repeat wrapping.
func (d *GLDevice) CreateTexture(img *texture.Image) (TextureHandle, error) {
	if img == nil || img.RGBA == nil {
		return 0, fmt.Errorf("create texture: no image")
	}
	size := int32(img.Size())

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, size, size, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.RGBA.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &id)
		return 0, fmt.Errorf("create texture: GL error 0x%x", code)
	}

	d.next++
	h := TextureHandle(d.next)
	d.textures[h] = id
	d.log.Debug("texture uploaded", zap.Uint32("id", id), zap.Bool("translucent", img.Translucent))
	return h, nil
}

// Upload copies the mesh arrays into static buffers.
func (d *GLDevice) Upload(m Drawable) (BufferHandle, error) {
	if m == nil || m.Data() == nil {
		return 0, fmt.Errorf("upload: no mesh")
	}
	a := m.Data()

	var gm glMesh
	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)
	gl.GenBuffers(int32(len(gm.vbos)), &gm.vbos[0])

	attrib := func(vbo, loc uint32, size, components int32, typ uint32, normalized bool, ptr unsafe.Pointer) {
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, int(size), ptr, gl.STATIC_DRAW)
		gl.VertexAttribPointer(loc, components, typ, normalized, 0, nil)
		gl.EnableVertexAttribArray(loc)
	}

	n := int32(a.VertexCount())
	attrib(gm.vbos[0], AttribPosition, n*12, 3, gl.FLOAT, false, slicePtr(a.Positions))
	attrib(gm.vbos[1], AttribNormal, n*12, 3, gl.FLOAT, false, slicePtr(a.Normals))
	attrib(gm.vbos[2], AttribColor, n*4, 4, gl.UNSIGNED_BYTE, true, slicePtr(a.Colors))
	attrib(gm.vbos[3], AttribTexCoord, n*8, 2, gl.FLOAT, false, slicePtr(a.TexCoords))

	gm.indices = int32(len(a.Indices))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.vbos[4])
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, int(gm.indices)*4, slicePtr(a.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		d.deleteMesh(gm)
		return 0, fmt.Errorf("upload: GL error 0x%x", code)
	}

	d.next++
	h := BufferHandle(d.next)
	d.meshes[h] = gm
	d.log.Debug("mesh uploaded",
		zap.Uint32("vao", gm.vao),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
	)
	return h, nil
}

// slicePtr returns a pointer to the first element, or nil for an empty
// slice.
func slicePtr[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}

func (d *GLDevice) deleteMesh(gm glMesh) {
	gl.DeleteBuffers(int32(len(gm.vbos)), &gm.vbos[0])
	gl.DeleteVertexArrays(1, &gm.vao)
}

func (d *GLDevice) Release(h BufferHandle) {
	if gm, ok := d.meshes[h]; ok {
		d.deleteMesh(gm)
		delete(d.meshes, h)
	}
}

func (d *GLDevice) ReleaseTexture(h TextureHandle) {
	if id, ok := d.textures[h]; ok {
		gl.DeleteTextures(1, &id)
		delete(d.textures, h)
	}
}

// Close releases everything and tears down the context.
func (d *GLDevice) Close() {
	d.log.Info("closing renderer")
	for h := range d.meshes {
		d.Release(h)
	}
	for h := range d.textures {
		d.ReleaseTexture(h)
	}
	if d.context != nil {
		sdl.GLDeleteContext(d.context)
	}
	if d.window != nil {
		d.window.Destroy()
	}
	sdl.Quit()
	runtime.UnlockOSThread()
}
