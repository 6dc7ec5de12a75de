// Package texture synthesizes procedural facet textures and stores them
// as TGA files.
package texture

import (
	"errors"
	"image"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/facetland/internal/logger"
)

// FacetSize is the edge length of a facet texture in texels.
const FacetSize = 256

// ErrZeroAmplitude is returned when the noise amplitude reduces to zero.
var ErrZeroAmplitude = errors.New("facet amplitude must be non-zero modulo 257")

// Image is a synthesized RGBA texture. Translucent textures carry their
// noise in the alpha channel and are meant for alpha blending.
type Image struct {
	RGBA        *image.RGBA
	Translucent bool
}

// Size returns the edge length in texels.
func (img *Image) Size() int {
	return img.RGBA.Bounds().Dx()
}

// Facet generates a white-noise micro texture. |amplitude| mod 257 bounds
// the noise: every texel value is drawn from [256-m, 255]. A negative
// amplitude yields white texels with noisy alpha, otherwise the noise is
// grey and alpha is opaque.
func Facet(rng *rand.Rand, amplitude int) (*Image, error) {
	translucent := amplitude < 0
	// Reduce before taking the magnitude; -math.MinInt overflows.
	m := amplitude % 257
	if m < 0 {
		m = -m
	}
	if m == 0 {
		return nil, ErrZeroAmplitude
	}

	img := image.NewRGBA(image.Rect(0, 0, FacetSize, FacetSize))
	for i := 0; i < len(img.Pix); i += 4 {
		v := uint8(256 - m + rng.IntN(m))
		if translucent {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 255, 255, 255, v
		} else {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
		}
	}

	logger.Named("texture").Debug("facet texture synthesized",
		zap.Int("amplitude", m),
		zap.Bool("translucent", translucent),
	)
	return &Image{RGBA: img, Translucent: translucent}, nil
}
