package terrain

import (
	stdmath "math"
	"testing"
)

// floodedMesh returns a size×size mesh with every vertex at water level.
func floodedMesh(size int, water float32) *Mesh {
	g := Grid{Size: size}
	m := &Mesh{
		Arrays:      NewArrays(g.VertexCount(), g.IndexCount()),
		Size:        size,
		GridSpacing: 16,
		HeightScale: 600,
		WaterLevel:  water,
	}
	for i := range m.Positions {
		m.Positions[i].Z = water
	}
	return m
}

func TestShorelineAllWater(t *testing.T) {
	bands := BandTable{{8, colorA}, {0, colorWater}}
	m := floodedMesh(4, -150)
	g := m.Grid()
	m.placeCenters(g)

	paintCorners(m, g, bands, 300)
	blendCenters(m, g, bands.Water())

	for i, c := range m.Colors {
		if c != colorWater {
			t.Fatalf("vertex %d: expected water %v, got %v", i, colorWater, c)
		}
	}
}

func TestShorelineIsolatedPeak(t *testing.T) {
	bands := BandTable{{8, colorA}, {0, colorWater}}
	m := floodedMesh(8, -150)
	g := m.Grid()
	m.Positions[g.Corner(2, 2)].Z = 0
	m.placeCenters(g)

	paintCorners(m, g, bands, 300)
	blendCenters(m, g, bands.Water())

	land := colorA.Opaque()
	if c := m.Colors[g.Corner(2, 2)]; c != land {
		t.Errorf("peak: expected land %v, got %v", land, c)
	}
	// Corner at water level but touching a raised cell keeps land color.
	if c := m.Colors[g.Corner(1, 1)]; c != land {
		t.Errorf("shore corner: expected land %v, got %v", land, c)
	}
	// Far corners, including the wrapped edge, are open water.
	for _, xy := range [][2]int{{0, 0}, {8, 8}, {0, 8}, {5, 5}} {
		if c := m.Colors[g.Corner(xy[0], xy[1])]; c != colorWater {
			t.Errorf("corner %v: expected water, got %v", xy, c)
		}
	}

	// Raised cells are opaque averages.
	if c := m.Colors[g.Center(1, 1)]; c.A != 255 {
		t.Errorf("raised cell: expected opaque, got alpha %d", c.A)
	}

	// Cell (0,0) has one land corner (1,1): alpha fades a quarter step.
	c := m.Colors[g.Center(0, 0)]
	wantA := colorWater.A + uint8((255-int(colorWater.A))>>2)
	if c.A != wantA {
		t.Errorf("shore cell: expected alpha %d, got %d", wantA, c.A)
	}
	wantR := uint8((3*int(colorWater.R) + int(land.R)) >> 2)
	if c.R != wantR {
		t.Errorf("shore cell: expected red %d, got %d", wantR, c.R)
	}

	// Cell (6,6) has only water corners.
	if c := m.Colors[g.Center(6, 6)]; c != colorWater {
		t.Errorf("open cell: expected water, got %v", c)
	}
}

func TestShorelineCornerJustAboveWater(t *testing.T) {
	bands := BandTable{{8, colorA}, {0, colorWater}}
	m := floodedMesh(8, -150)
	g := m.Grid()
	// The cell means around (2, 2) round back onto the water level.
	m.Positions[g.Corner(2, 2)].Z = stdmath.Nextafter32(-150, 0)
	m.placeCenters(g)

	paintCorners(m, g, bands, 300)
	blendCenters(m, g, bands.Water())

	land := colorA.Opaque()
	for _, xy := range [][2]int{{1, 1}, {3, 3}, {1, 3}, {2, 1}} {
		if c := m.Colors[g.Corner(xy[0], xy[1])]; c != land {
			t.Errorf("corner %v: expected land %v, got %v", xy, land, c)
		}
	}
	if c := m.Colors[g.Center(1, 1)]; c.A != 255 {
		t.Errorf("damp cell: expected opaque, got alpha %d", c.A)
	}
	if c := m.Colors[g.Center(5, 5)]; c != colorWater {
		t.Errorf("open cell: expected water, got %v", c)
	}
}
