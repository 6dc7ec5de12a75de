package terrain

import (
	"errors"
	"testing"
)

var (
	colorA     = Color{R: 10, G: 200, B: 30, A: 255}
	colorB     = Color{R: 120, G: 120, B: 120, A: 255}
	colorWater = Color{R: 13, G: 99, B: 172, A: 128}
)

func TestBandTableValidate(t *testing.T) {
	tests := []struct {
		name  string
		bands BandTable
		want  error
	}{
		{"empty", nil, ErrNoBands},
		{"no sentinel", BandTable{{1, colorA}}, ErrMissingSentinel},
		{"only sentinel", BandTable{{0, colorWater}}, ErrZeroBandWeight},
		{"zero land band", BandTable{{1, colorA}, {0, colorB}, {0, colorWater}}, ErrZeroBandWeight},
		{"negative land band", BandTable{{-1, colorA}, {0, colorWater}}, ErrZeroBandWeight},
		{"valid", BandTable{{1, colorA}, {0, colorWater}}, nil},
		{"default", DefaultBands(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bands.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBandTableLookup(t *testing.T) {
	bands := BandTable{{2, colorA}, {3, colorB}, {0, colorWater}}
	if got := bands.TotalWeight(); got != 5 {
		t.Fatalf("expected total weight 5, got %v", got)
	}

	tests := []struct {
		h    float32
		want Color
	}{
		{0, colorA},
		{1.5, colorA},
		{2, colorA},
		{2.01, colorB},
		{5, colorB},
		{7, colorB}, // past the top falls back to the top band
	}
	for _, tt := range tests {
		if got := bands.Lookup(tt.h); got != tt.want {
			t.Errorf("Lookup(%v) = %v, want %v", tt.h, got, tt.want)
		}
	}
	if got := bands.Water(); got != colorWater {
		t.Errorf("Water() = %v, want %v", got, colorWater)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#0D63AC80", Color{0x0D, 0x63, 0xAC, 0x80}, false},
		{"#fcdd76", Color{0xFC, 0xDD, 0x76, 0xFF}, false},
		{"00B000FF", Color{0x00, 0xB0, 0x00, 0xFF}, false},
		{"#12345", Color{}, true},
		{"#GGGGGG", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if s := (Color{0x0D, 0x63, 0xAC, 0x80}).String(); s != "#0D63AC80" {
		t.Errorf("String() = %s, want #0D63AC80", s)
	}
}
