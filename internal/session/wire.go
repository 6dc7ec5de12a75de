package session

import "github.com/Faultbox/facetland/pkg/math"

// wire is the fixed binary layout of Parameters.
type wire struct {
	Seed     uint32
	Flags    uint32
	Angles   [2]float32
	Position [3]float32
	LightDir [3]float32
	LightPos [3]float32
}

func wireParams(p Parameters) *wire {
	return &wire{
		Seed:     p.Seed,
		Flags:    uint32(p.Flags),
		Angles:   [2]float32{p.Angles.X, p.Angles.Y},
		Position: [3]float32{p.Position.X, p.Position.Y, p.Position.Z},
		LightDir: [3]float32{p.LightDir.X, p.LightDir.Y, p.LightDir.Z},
		LightPos: [3]float32{p.LightPos.X, p.LightPos.Y, p.LightPos.Z},
	}
}

func vec2(a [2]float32) math.Vec2 { return math.Vec2{X: a[0], Y: a[1]} }

func vec3(a [3]float32) math.Vec3 { return math.Vec3{X: a[0], Y: a[1], Z: a[2]} }
