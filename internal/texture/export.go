package texture

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// WriteFile writes img to path, picking the format from the extension:
// ".bmp" for BMP, anything else for TGA (RLE compressed when rle is set).
func WriteFile(path string, img *image.RGBA, rle bool) error {
	if !strings.EqualFold(filepath.Ext(path), ".bmp") {
		return WriteTGA(path, img, rle)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write BMP %s: %w", path, err)
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode BMP %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile loads an exported texture, BMP or TGA by extension.
// Translucent is set when any texel is not fully opaque.
func ReadFile(path string) (*Image, error) {
	var rgba *image.RGBA
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src, err := bmp.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode BMP %s: %w", path, err)
		}
		rgba = image.NewRGBA(src.Bounds())
		draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if rgba, err = DecodeTGA(data); err != nil {
			return nil, fmt.Errorf("decode TGA %s: %w", path, err)
		}
	}
	return &Image{RGBA: rgba, Translucent: !rgba.Opaque()}, nil
}
