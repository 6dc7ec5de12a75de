package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/facetland/pkg/math"
)

func sampleParams() Parameters {
	return Parameters{
		Seed:     123456789,
		Flags:    Fill | Colors | Props,
		Angles:   math.Vec2{X: 12.5, Y: -47.25},
		Position: math.Vec3{X: 10.125, Y: -300.5, Z: -812},
		LightDir: math.Vec3{X: 0.25, Y: -0.5, Z: -1},
		LightPos: math.Vec3{X: 100, Y: 200, Z: 6000},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"text", "session.txt"},
		{"binary", "session.bin"},
		{"no extension", "session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			want := sampleParams()
			if err := Save(path, want); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got := Load(path, true, DefaultFlags, 0)
			if got != want {
				t.Errorf("expected %+v, got %+v", want, got)
			}
		})
	}
}

func TestBinaryLayout(t *testing.T) {
	p := sampleParams()
	data := MarshalBinary(p)
	if len(data) != 52 {
		t.Fatalf("expected 52 bytes, got %d", len(data))
	}
	// seed, little-endian
	if data[0] != 0x15 || data[1] != 0xCD || data[2] != 0x5B || data[3] != 0x07 {
		t.Errorf("unexpected seed bytes % x", data[:4])
	}
	if data[4] != byte(p.Flags) {
		t.Errorf("expected flags byte %d, got %d", p.Flags, data[4])
	}
	// light position Z = 6000 = 0x45BB8000
	if data[48] != 0x00 || data[49] != 0x80 || data[50] != 0xBB || data[51] != 0x45 {
		t.Errorf("unexpected light Z bytes % x", data[48:])
	}
}

func TestTextLayout(t *testing.T) {
	got := MarshalText(Defaults())
	want := "0 63 0.000000 -60.000000 0.000000 0.000000 -300.000000 0.000000 0.000000 -1.000000 0.000000 0.000000 6000.000000"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestIsText(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.txt", true},
		{"dir.txt/a.bin", false},
		{".txt", true},
		{"txt", false},
		{"a.TXT", false},
		{"a.txt.bak", false},
	}
	for _, tt := range tests {
		if got := IsText(tt.path); got != tt.want {
			t.Errorf("IsText(%q): expected %v, got %v", tt.path, tt.want, got)
		}
	}
}

func TestLoadFallback(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(garbage, []byte("not a session"), 0o644); err != nil {
		t.Fatal(err)
	}
	short := filepath.Join(dir, "short.bin")
	if err := os.WriteFile(short, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		read bool
	}{
		{"missing", filepath.Join(dir, "missing.bin"), true},
		{"garbage text", garbage, true},
		{"short binary", short, true},
		{"not read", garbage, false},
		{"no path", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Load(tt.path, tt.read, Fill, 42)
			if p.Seed != 42 {
				t.Errorf("expected seed 42, got %d", p.Seed)
			}
			if p.Flags != Fill {
				t.Errorf("expected flags %v, got %v", Fill, p.Flags)
			}
			if p.Position != DefaultPosition || p.Angles != DefaultAngles {
				t.Errorf("expected default camera, got %+v", p)
			}

			fresh := Load(tt.path, tt.read, Fill, 0)
			if fresh.Seed == 0 {
				t.Error("expected a fresh non-zero seed")
			}
		})
	}
}

func TestLoadZeroSeedInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.bin")
	p := sampleParams()
	p.Seed = 0
	if err := Save(path, p); err != nil {
		t.Fatal(err)
	}
	got := Load(path, true, 0, 0)
	if got.Seed == 0 {
		t.Error("expected a fresh seed for a zero stored seed")
	}
	if got.Position != p.Position {
		t.Errorf("expected stored position %v, got %v", p.Position, got.Position)
	}
}

func TestRequestsSerialization(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	full := filepath.Join(dir, "full.txt")
	if err := Save(full, Defaults()); err != nil {
		t.Fatal(err)
	}

	if !RequestsSerialization(empty) {
		t.Error("expected empty file to request serialization")
	}
	if RequestsSerialization(full) {
		t.Error("expected non-empty file not to request serialization")
	}
	if RequestsSerialization(filepath.Join(dir, "missing")) {
		t.Error("expected missing file not to request serialization")
	}
	if RequestsSerialization(dir) {
		t.Error("expected directory not to request serialization")
	}
}

func TestResetKeepsSeedAndFlags(t *testing.T) {
	p := sampleParams()
	p.Reset()
	if p.Seed != 123456789 || p.Flags != Fill|Colors|Props {
		t.Errorf("expected seed and flags kept, got %d %v", p.Seed, p.Flags)
	}
	if p.Angles != DefaultAngles || p.Position != DefaultPosition ||
		p.LightDir != DefaultLightDir || p.LightPos != DefaultLightPos {
		t.Errorf("expected default view, got %+v", p)
	}
}

func TestRecenter(t *testing.T) {
	tests := []struct {
		in, want       math.Vec3
		light, wantLit math.Vec3
	}{
		{
			math.Vec3{X: 0, Y: 0, Z: -300}, math.Vec3{X: 0, Y: 0, Z: -300},
			math.Vec3{X: 0, Y: 0, Z: 6000}, math.Vec3{X: 0, Y: 0, Z: 6000},
		},
		{
			math.Vec3{X: 600, Y: -10, Z: 5}, math.Vec3{X: -424, Y: -10, Z: 5},
			math.Vec3{X: 0, Y: 0, Z: 6000}, math.Vec3{X: 1024, Y: 0, Z: 6000},
		},
		{
			math.Vec3{X: -2100, Y: 1100, Z: 0}, math.Vec3{X: -52, Y: 76, Z: 0},
			math.Vec3{X: 10, Y: 20, Z: 6000}, math.Vec3{X: -2038, Y: 1044, Z: 6000},
		},
	}
	for _, tt := range tests {
		p := Parameters{Position: tt.in, LightPos: tt.light}
		p.Recenter(1024)
		if p.Position != tt.want {
			t.Errorf("Recenter(%v): expected %v, got %v", tt.in, tt.want, p.Position)
		}
		if p.LightPos != tt.wantLit {
			t.Errorf("Recenter(%v): expected light %v, got %v", tt.in, tt.wantLit, p.LightPos)
		}
	}
}

func TestToggle(t *testing.T) {
	p := Defaults()
	if on := p.Toggle(Fill, true); on {
		t.Error("expected fill off after toggle")
	}
	if on := p.Toggle(Fill, true); !on {
		t.Error("expected fill back on")
	}

	if on := p.Toggle(UseBuffers, false); on {
		t.Error("expected buffers to stay off without device support")
	}
	if p.Flags.Has(UseBuffers) {
		t.Error("expected buffers cleared without device support")
	}
	if on := p.Toggle(UseBuffers, true); !on {
		t.Error("expected buffers on with device support")
	}
}

func TestFlagsString(t *testing.T) {
	if got := (Fill | Props).String(); got != "fill|props" {
		t.Errorf("expected fill|props, got %s", got)
	}
	if got := DisplayFlags(0).String(); got != "none" {
		t.Errorf("expected none, got %s", got)
	}
	if f, ok := ParseFlag("texture"); !ok || f != Texture {
		t.Errorf("expected texture flag, got %v %v", f, ok)
	}
	if _, ok := ParseFlag("bogus"); ok {
		t.Error("expected unknown flag to fail")
	}
}
