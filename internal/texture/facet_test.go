package texture

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestFacetOpaque(t *testing.T) {
	img, err := Facet(newRand(1), 64)
	if err != nil {
		t.Fatalf("Facet failed: %v", err)
	}
	if img.Size() != FacetSize {
		t.Errorf("expected size %d, got %d", FacetSize, img.Size())
	}
	if img.Translucent {
		t.Error("expected opaque texture for positive amplitude")
	}

	pix := img.RGBA.Pix
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != pix[i+1] || pix[i] != pix[i+2] {
			t.Fatalf("texel %d is not grey: %v", i/4, pix[i:i+4])
		}
		if pix[i] < 192 {
			t.Fatalf("texel %d below range: %d", i/4, pix[i])
		}
		if pix[i+3] != 255 {
			t.Fatalf("texel %d alpha: expected 255, got %d", i/4, pix[i+3])
		}
	}
}

func TestFacetTranslucent(t *testing.T) {
	img, err := Facet(newRand(2), -64)
	if err != nil {
		t.Fatalf("Facet failed: %v", err)
	}
	if !img.Translucent {
		t.Error("expected translucent texture for negative amplitude")
	}

	pix := img.RGBA.Pix
	varied := false
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != 255 || pix[i+1] != 255 || pix[i+2] != 255 {
			t.Fatalf("texel %d is not white: %v", i/4, pix[i:i+4])
		}
		if pix[i+3] < 192 {
			t.Fatalf("texel %d alpha below range: %d", i/4, pix[i+3])
		}
		if pix[i+3] != pix[3] {
			varied = true
		}
	}
	if !varied {
		t.Error("expected alpha noise to vary")
	}
}

func TestFacetAmplitudeWraps(t *testing.T) {
	// 258 mod 257 leaves a single value: every texel is 255.
	img, err := Facet(newRand(3), 258)
	if err != nil {
		t.Fatalf("Facet failed: %v", err)
	}
	for i, v := range img.RGBA.Pix {
		if v != 255 {
			t.Fatalf("byte %d: expected 255, got %d", i, v)
		}
	}
}

func TestFacetMinAmplitude(t *testing.T) {
	// math.MinInt % 257 is -129 for both 32- and 64-bit ints.
	img, err := Facet(newRand(5), math.MinInt)
	if err != nil {
		t.Fatalf("Facet failed: %v", err)
	}
	if !img.Translucent {
		t.Error("expected translucent facet for negative amplitude")
	}
	for i := 0; i < len(img.RGBA.Pix); i += 4 {
		if a := img.RGBA.Pix[i+3]; a < 256-129 {
			t.Fatalf("texel %d: expected alpha >= 127, got %d", i/4, a)
		}
	}
}

func TestFacetZeroAmplitude(t *testing.T) {
	for _, a := range []int{0, 257, -514} {
		if _, err := Facet(newRand(4), a); !errors.Is(err, ErrZeroAmplitude) {
			t.Errorf("amplitude %d: expected ErrZeroAmplitude, got %v", a, err)
		}
	}
}

func TestFacetDeterministic(t *testing.T) {
	a, _ := Facet(newRand(9), 100)
	b, _ := Facet(newRand(9), 100)
	for i := range a.RGBA.Pix {
		if a.RGBA.Pix[i] != b.RGBA.Pix[i] {
			t.Fatalf("byte %d differs between runs", i)
		}
	}
}
