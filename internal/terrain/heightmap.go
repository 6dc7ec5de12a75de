package terrain

import (
	"fmt"
	stdmath "math"
	"math/rand/v2"
)

// Heightmap is a square (Size+1)×(Size+1) grid of elevations. During
// synthesis the last row and column alias the first ones; the stored grid
// keeps those duplicates explicitly.
type Heightmap struct {
	Size   int
	Values []float32
}

// NewHeightmap allocates a zeroed heightmap for a power-of-two size.
func NewHeightmap(size int) (*Heightmap, error) {
	if !isPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Heightmap{
		Size:   size,
		Values: make([]float32, (size+1)*(size+1)),
	}, nil
}

func isPowerOfTwo(n int) bool {
	return n > 1 && n&(n-1) == 0
}

// At returns the elevation at (x, y), 0 <= x, y <= Size.
func (h *Heightmap) At(x, y int) float32 {
	return h.Values[y*(h.Size+1)+x]
}

// Set stores the elevation at (x, y).
func (h *Heightmap) Set(x, y int, v float32) {
	h.Values[y*(h.Size+1)+x] = v
}

// Range returns the lowest and highest elevation.
func (h *Heightmap) Range() (lo, hi float32) {
	if len(h.Values) == 0 {
		return 0, 0
	}
	lo, hi = h.Values[0], h.Values[0]
	for _, v := range h.Values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// Clone returns a deep copy.
func (h *Heightmap) Clone() *Heightmap {
	c := &Heightmap{Size: h.Size, Values: make([]float32, len(h.Values))}
	copy(c.Values, h.Values)
	return c
}

// perturb draws a value uniformly from [-f, f).
func perturb(rng *rand.Rand, f float32) float32 {
	return 2*float32(rng.Float64())*f - f
}

// Synthesize generates a toroidal heightmap with the diamond-square
// algorithm. Roughness controls how fast the perturbation decays per
// octave: the amplitude starts at 2^-|roughness| and is multiplied by the
// same factor after every halving of the step.
//
// Random draws are consumed in a fixed order (per octave: all diamond
// points row-major, then all square points row-major), so a given rng
// state always yields the same map.
func Synthesize(rng *rand.Rand, size int, roughness float32) (*Heightmap, error) {
	h, err := NewHeightmap(size)
	if err != nil {
		return nil, err
	}

	damp := float32(stdmath.Pow(2, -stdmath.Abs(float64(roughness))))
	amp := damp

	for step := size / 2; step > 0; step, amp = step/2, amp*damp {
		h.diamondPass(rng, step, amp)
		h.squarePass(rng, step, amp)
	}
	return h, nil
}

// diamondPass sets every cell center at the current step to the mean of
// its four diagonal corners plus noise.
func (h *Heightmap) diamondPass(rng *rand.Rand, step int, amp float32) {
	for y := step; y < h.Size; y += 2 * step {
		for x := step; x < h.Size; x += 2 * step {
			avg := 0.25 * (h.At(x-step, y-step) +
				h.At(x+step, y-step) +
				h.At(x-step, y+step) +
				h.At(x+step, y+step))
			h.Set(x, y, amp*perturb(rng, 0.5)+avg)
		}
	}
}

// squarePass sets every edge midpoint to the mean of its four in-plane
// neighbors plus noise. Rows alternate between starting at x=step and
// x=0. Neighbors across the border wrap: from column 0 the left neighbor
// is read at column Size-step, and row 0 likewise. Values written on
// column 0 or row 0 are mirrored to column/row Size.
func (h *Heightmap) squarePass(rng *rand.Rand, step int, amp float32) {
	size := h.Size
	odd := false
	for y := 0; y < size; y += step {
		yLo, yHi := y, y
		if y == 0 {
			yLo = size
		}

		x := step
		if odd {
			x = 0
		}
		for ; x < size; x += 2 * step {
			xLo, xHi := x, x
			if x == 0 {
				xLo = size
			}
			avg := 0.25 * (h.At(xLo-step, y) +
				h.At(xHi+step, y) +
				h.At(x, yLo-step) +
				h.At(x, yHi+step))
			h.Set(x, y, amp*perturb(rng, 0.5)+avg)

			if x == 0 {
				h.Set(size, y, h.At(0, y))
			}
			if y == 0 {
				h.Set(x, size, h.At(x, 0))
			}
		}
		odd = !odd
	}
}

// Blur smooths the map with a separable Gaussian kernel of radius
// ceil(3σ), wrapping toroidally with period Size. It is a no-op for
// σ <= 0 or σ >= Size. The row pass writes into a scratch buffer which the
// column pass then reads, so the two passes must not be interleaved.
func (h *Heightmap) Blur(sigma float32) {
	if sigma <= 0 || sigma >= float32(h.Size) {
		return
	}

	kernel := gaussianKernel(sigma)
	radius := len(kernel) - 1
	size := h.Size
	stride := size + 1

	tmp := make([]float32, len(h.Values))
	for y := 0; y <= size; y++ {
		row := y * stride
		for x := 0; x <= size; x++ {
			var sum float32
			for z := radius; z > 0; z-- {
				sum += (h.Values[row+wrapEdge(x-z, size)] +
					h.Values[row+wrapEdge(x+z, size)]) * kernel[z]
			}
			tmp[row+x] = h.Values[row+x]*kernel[0] + sum
		}
	}

	for x := 0; x <= size; x++ {
		for y := 0; y <= size; y++ {
			var sum float32
			for z := radius; z > 0; z-- {
				sum += (tmp[x+wrapEdge(y-z, size)*stride] +
					tmp[x+wrapEdge(y+z, size)*stride]) * kernel[z]
			}
			h.Values[x+y*stride] = tmp[x+y*stride]*kernel[0] + sum
		}
	}
}

// gaussianKernel returns the one-sided weights w[0..r] of a normalized
// Gaussian, so that w[0] + 2·Σw[1..r] == 1.
func gaussianKernel(sigma float32) []float32 {
	radius := int(stdmath.Ceil(float64(3 * sigma)))
	k := make([]float32, radius+1)

	inv := 1 / (2 * float64(sigma) * float64(sigma))
	var side float32
	for i := radius; i > 0; i-- {
		k[i] = float32(stdmath.Exp(-float64(i*i) * inv))
		side += k[i]
	}

	k[0] = 0.5 / (side + 0.5)
	for i := radius; i > 0; i-- {
		k[i] *= k[0]
	}
	return k
}

// wrapEdge folds an index onto [0, n] with period n, the same aliasing
// the synthesizer uses: -1 maps to n-1 and n+1 maps to 1.
func wrapEdge(i, n int) int {
	for i < 0 {
		i += n
	}
	for i > n {
		i -= n
	}
	return i
}
