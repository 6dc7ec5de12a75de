// Package session holds the parameters needed to regenerate or restore a
// terrain session, and the codec that persists them.
package session

import (
	"math/rand/v2"

	"github.com/Faultbox/facetland/pkg/math"
)

// DisplayFlags is a set of independent presentation toggles. Any
// combination is valid; none of them affect generation.
type DisplayFlags uint32

const (
	UseBuffers DisplayFlags = 1 << iota // upload to device buffers
	Fill                                // filled polygons instead of wireframe
	Normals                             // lighting from vertex normals
	Texture                             // facet texture
	Colors                              // vertex colors
	Props                               // draw the props layer
)

// DefaultFlags is every toggle set.
const DefaultFlags = UseBuffers | Fill | Normals | Texture | Colors | Props

var flagNames = []struct {
	flag DisplayFlags
	name string
}{
	{UseBuffers, "buffers"},
	{Fill, "fill"},
	{Normals, "normals"},
	{Texture, "texture"},
	{Colors, "colors"},
	{Props, "props"},
}

// Has reports whether every bit of f is set.
func (d DisplayFlags) Has(f DisplayFlags) bool { return d&f == f }

// String lists the set toggles, e.g. "fill|colors".
func (d DisplayFlags) String() string {
	s := ""
	for _, fn := range flagNames {
		if d.Has(fn.flag) {
			if s != "" {
				s += "|"
			}
			s += fn.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// ParseFlag returns the flag with the given name.
func ParseFlag(name string) (DisplayFlags, bool) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.flag, true
		}
	}
	return 0, false
}

// Parameters is the persisted session state: everything needed to
// regenerate the terrain and restore the view.
type Parameters struct {
	Seed     uint32
	Flags    DisplayFlags
	Angles   math.Vec2 // camera yaw, pitch in degrees
	Position math.Vec3
	LightDir math.Vec3
	LightPos math.Vec3
}

// Default camera and light placement.
var (
	DefaultAngles   = math.Vec2{X: 0, Y: -60}
	DefaultPosition = math.Vec3{X: 0, Y: 0, Z: -300}
	DefaultLightDir = math.Vec3{X: 0, Y: 0, Z: -1}
	DefaultLightPos = math.Vec3{X: 0, Y: 0, Z: 6000}
)

// Defaults returns parameters with the default view, every display flag
// set and a zero (unset) seed.
func Defaults() Parameters {
	p := Parameters{Flags: DefaultFlags}
	p.Reset()
	return p
}

// Reset restores the camera and light to their defaults. Seed and flags
// are kept.
func (p *Parameters) Reset() {
	p.Angles = DefaultAngles
	p.Position = DefaultPosition
	p.LightDir = DefaultLightDir
	p.LightPos = DefaultLightPos
}

// Recenter wraps the camera back onto the central tile of a map that
// repeats every extent units. Position is a scene translation, so the
// light position moves the opposite way to stay fixed over the terrain.
func (p *Parameters) Recenter(extent float32) {
	if extent <= 0 {
		return
	}
	half := extent / 2
	var shift float32
	p.Position.X, shift = wrapf(p.Position.X, half, extent)
	p.LightPos.X -= shift
	p.Position.Y, shift = wrapf(p.Position.Y, half, extent)
	p.LightPos.Y -= shift
}

// wrapf brings v into [-half, half] and returns the total offset applied.
func wrapf(v, half, extent float32) (float32, float32) {
	var shift float32
	for v > half {
		v -= extent
		shift -= extent
	}
	for v < -half {
		v += extent
		shift += extent
	}
	return v, shift
}

// Toggle flips flag. UseBuffers can only be turned on when the device
// supports buffers. It returns the new state of the flag.
func (p *Parameters) Toggle(flag DisplayFlags, buffersSupported bool) bool {
	if flag == UseBuffers && !buffersSupported {
		p.Flags &^= UseBuffers
		return false
	}
	p.Flags ^= flag
	return p.Flags.Has(flag)
}

// FreshSeed draws a non-zero seed.
func FreshSeed() uint32 {
	for {
		if s := rand.Uint32(); s != 0 {
			return s
		}
	}
}
