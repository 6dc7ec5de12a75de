package texture

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func testPattern() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 7, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 7; x++ {
			c := color.RGBA{R: uint8(x * 30), G: uint8(y * 80), B: 10, A: 200}
			if x >= 4 {
				c = color.RGBA{R: 1, G: 2, B: 3, A: 4} // run
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestTGARoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rle  bool
	}{
		{"uncompressed", false},
		{"rle", true},
	}

	src := testPattern()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := EncodeTGA(src, tt.rle)
			got, err := DecodeTGA(data)
			if err != nil {
				t.Fatalf("DecodeTGA failed: %v", err)
			}
			if got.Bounds() != src.Bounds() {
				t.Fatalf("expected bounds %v, got %v", src.Bounds(), got.Bounds())
			}
			if !bytes.Equal(got.Pix, src.Pix) {
				t.Error("decoded pixels differ from source")
			}
		})
	}
}

func TestTGARLEIsSmallerForRuns(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	raw := EncodeTGA(img, false)
	rle := EncodeTGA(img, true)
	if len(rle) >= len(raw) {
		t.Errorf("expected RLE smaller than %d bytes, got %d", len(raw), len(rle))
	}
}

func TestDecodeTGABottomUp(t *testing.T) {
	// 1x2 24-bit image, bottom-left origin: first row in file is the bottom.
	data := make([]byte, 18)
	data[2] = TGATypeUncompressed
	data[12], data[14], data[16] = 1, 2, 24
	data = append(data, 0, 0, 255) // bottom: red
	data = append(data, 255, 0, 0) // top: blue

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	if c := img.RGBAAt(0, 0); c != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("expected blue top pixel, got %v", c)
	}
	if c := img.RGBAAt(0, 1); c != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("expected red bottom pixel, got %v", c)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	header := func(typ, bpp byte) []byte {
		h := make([]byte, 18)
		h[2], h[12], h[14], h[16] = typ, 2, 2, bpp
		return h
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte{0, 0, 2}},
		{"color mapped", append([]byte{0, 1}, make([]byte, 16)...)},
		{"grayscale", header(3, 8)},
		{"16 bit", header(2, 16)},
		{"truncated raw", header(2, 32)},
		{"truncated rle", append(header(10, 32), 0x81, 1, 2, 3, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteTGA(t *testing.T) {
	img, err := Facet(newRand(5), -32)
	if err != nil {
		t.Fatalf("Facet failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "facet.tga")
	if err := WriteTGA(path, img.RGBA, true); err != nil {
		t.Fatalf("WriteTGA failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	if !bytes.Equal(got.Pix, img.RGBA.Pix) {
		t.Error("file round trip changed pixels")
	}
}
