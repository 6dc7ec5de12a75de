package terrain

// paintCorners assigns every corner vertex its band color. A corner that
// sits at water level is painted as water only when all four cells
// sharing it are flooded too, so lone low spots on the coast keep their
// land color.
func paintCorners(m *Mesh, g Grid, bands BandTable, top float32) {
	total := bands.TotalWeight()
	water := bands.Water()
	span := top - m.WaterLevel

	for y := 0; y <= g.Size; y++ {
		for x := 0; x <= g.Size; x++ {
			i := g.Corner(x, y)
			z := m.Positions[i].Z

			c := bands.Lookup(total * (z - m.WaterLevel) / span).Opaque()
			if z == m.WaterLevel && m.cornerFlooded(g, x, y) {
				c = water
			}
			m.Colors[i] = c
		}
	}
}

// cornerFlooded reports whether the four cells around corner (x, y),
// wrapping across map edges, are all flooded.
func (m *Mesh) cornerFlooded(g Grid, x, y int) bool {
	xl, yl := g.WrapCell(x-1, y-1)
	xh, yh := g.WrapCell(x, y)
	return m.cellFlooded(g, xl, yl) && m.cellFlooded(g, xl, yh) &&
		m.cellFlooded(g, xh, yl) && m.cellFlooded(g, xh, yh)
}

// cellFlooded reports whether every corner of cell (x, y) sits at water
// level. The corners are checked rather than the center height, which can
// round onto the water level when a corner is barely above it.
func (m *Mesh) cellFlooded(g Grid, x, y int) bool {
	for _, i := range [4]int{
		g.Corner(x, y),
		g.Corner(x+1, y),
		g.Corner(x, y+1),
		g.Corner(x+1, y+1),
	} {
		if m.Positions[i].Z != m.WaterLevel {
			return false
		}
	}
	return true
}

// blendCenters gives each center vertex the floored average of its four
// corner colors. A flooded center fades its alpha from the water
// transparency toward opaque by a quarter step for every corner that is
// not water-colored; with no such corner it takes the water color as is.
func blendCenters(m *Mesh, g Grid, water Color) {
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			corners := [4]Color{
				m.Colors[g.Corner(x, y)],
				m.Colors[g.Corner(x, y+1)],
				m.Colors[g.Corner(x+1, y)],
				m.Colors[g.Corner(x+1, y+1)],
			}

			var r, gr, b int
			dry := 0
			for _, c := range corners {
				r += int(c.R)
				gr += int(c.G)
				b += int(c.B)
				if c.A != water.A {
					dry++
				}
			}
			c := Color{R: uint8(r >> 2), G: uint8(gr >> 2), B: uint8(b >> 2), A: 255}

			i := g.Center(x, y)
			if m.cellFlooded(g, x, y) {
				fade := dry * (255 - int(water.A))
				if fade == 0 {
					c = water
				}
				c.A = water.A + uint8(fade>>2)
			}
			m.Colors[i] = c
		}
	}
}
