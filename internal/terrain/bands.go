package terrain

import (
	"fmt"
	"strconv"
	"strings"
)

// Band maps a slice of the elevation range to a flat color. Weights are
// relative: a band's share of the range is Weight / sum of all weights.
type Band struct {
	Weight float32
	Color  Color
}

// BandTable lists bands from the lowest land tier upwards. The last entry
// must be a sentinel with Weight 0 whose color (including alpha) paints
// open water.
type BandTable []Band

// DefaultBands returns the stock palette: sand, grass, rock, snow and a
// half-transparent sea.
func DefaultBands() BandTable {
	return BandTable{
		{Weight: 0.1, Color: Color{R: 0xFC, G: 0xDD, B: 0x76, A: 0xFF}},
		{Weight: 8.0, Color: Color{R: 0x5D, G: 0xA1, B: 0x30, A: 0xFF}},
		{Weight: 6.5, Color: Color{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}},
		{Weight: 5.0, Color: Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}},
		{Weight: 0.0, Color: Color{R: 0x0D, G: 0x63, B: 0xAC, A: 0x80}},
	}
}

// Validate checks the sentinel layout: at least one positive band, every
// land band positive, and exactly one trailing zero-weight entry.
func (t BandTable) Validate() error {
	if len(t) == 0 {
		return ErrNoBands
	}
	last := len(t) - 1
	if t[last].Weight != 0 {
		return ErrMissingSentinel
	}
	if last == 0 {
		return ErrZeroBandWeight
	}
	for i, b := range t[:last] {
		if !(b.Weight > 0) {
			return fmt.Errorf("%w: band %d has weight %v", ErrZeroBandWeight, i, b.Weight)
		}
	}
	return nil
}

// TotalWeight returns the sum of all land band weights.
func (t BandTable) TotalWeight() float32 {
	var total float32
	for _, b := range t {
		if b.Weight <= 0 {
			break
		}
		total += b.Weight
	}
	return total
}

// Water returns the sentinel color. The table must be valid.
func (t BandTable) Water() Color {
	return t[len(t)-1].Color
}

// Lookup walks the bands subtracting each weight from h until the
// remainder drops to zero or below, and returns that band's color.
// Values past the top band fall back to the top band, never to the
// sentinel. h is expected in [0, TotalWeight()].
func (t BandTable) Lookup(h float32) Color {
	i := 0
	for t[i].Weight > 0 {
		h -= t[i].Weight
		if h <= 0 {
			break
		}
		i++
	}
	if t[i].Weight <= 0 {
		i--
	}
	return t[i].Color
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA". Alpha defaults to 0xFF.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// String formats the color as #RRGGBBAA.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
