package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// tgaTopLeft is the descriptor bit for top-to-bottom row order.
const tgaTopLeft = 0x20

// EncodeTGA encodes an image as a 32-bit true-color TGA with top-left
// origin, optionally RLE compressed.
func EncodeTGA(img *image.RGBA, rle bool) []byte {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	var buf bytes.Buffer
	header := make([]byte, 18)
	header[2] = TGATypeUncompressed
	if rle {
		header[2] = TGATypeRLE
	}
	header[12] = byte(width)
	header[13] = byte(width >> 8)
	header[14] = byte(height)
	header[15] = byte(height >> 8)
	header[16] = 32
	header[17] = tgaTopLeft | 8 // 8 alpha bits
	buf.Write(header)

	pixel := func(x, y int) [4]byte {
		i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
		return [4]byte{img.Pix[i+2], img.Pix[i+1], img.Pix[i], img.Pix[i+3]} // BGRA
	}

	if !rle {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				p := pixel(x, y)
				buf.Write(p[:])
			}
		}
		return buf.Bytes()
	}

	// Packets never cross rows.
	for y := 0; y < height; y++ {
		for x := 0; x < width; {
			p := pixel(x, y)
			run := 1
			for x+run < width && run < 128 && pixel(x+run, y) == p {
				run++
			}
			if run > 1 {
				buf.WriteByte(0x80 | byte(run-1))
				buf.Write(p[:])
				x += run
				continue
			}

			// Raw packet: extend until the next repeat starts.
			start := x
			x++
			for x < width && x-start < 128 {
				if x+1 < width && pixel(x, y) == pixel(x+1, y) {
					break
				}
				x++
			}
			buf.WriteByte(byte(x - start - 1))
			for i := start; i < x; i++ {
				q := pixel(i, y)
				buf.Write(q[:])
			}
		}
	}
	return buf.Bytes()
}

// WriteTGA encodes img and writes it to path.
func WriteTGA(path string, img *image.RGBA, rle bool) error {
	if err := os.WriteFile(path, EncodeTGA(img, rle), 0o644); err != nil {
		return fmt.Errorf("write TGA %s: %w", path, err)
	}
	return nil
}

// DecodeTGA decodes a TGA image file.
// Supports uncompressed true-color (type 2) and RLE compressed (type 10)
// images at 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	pixelData := data[offset:]

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bytesPerPixel := bpp / 8
	topToBottom := descriptor&tgaTopLeft != 0

	set := func(pixelIdx int, c color.RGBA) {
		x := pixelIdx % width
		y := pixelIdx / width
		if !topToBottom {
			y = height - 1 - y
		}
		img.SetRGBA(x, y, c)
	}
	read := func(i int) color.RGBA {
		a := uint8(255)
		if bytesPerPixel == 4 {
			a = pixelData[i+3]
		}
		return color.RGBA{R: pixelData[i+2], G: pixelData[i+1], B: pixelData[i], A: a}
	}

	pixelCount := width * height
	if imageType == TGATypeUncompressed {
		if len(pixelData) < pixelCount*bytesPerPixel {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < pixelCount; i++ {
			set(i, read(i*bytesPerPixel))
		}
		return img, nil
	}

	pixelIdx, dataIdx := 0, 0
	for pixelIdx < pixelCount && dataIdx < len(pixelData) {
		packet := pixelData[dataIdx]
		dataIdx++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if dataIdx+bytesPerPixel > len(pixelData) {
				break
			}
			c := read(dataIdx)
			dataIdx += bytesPerPixel
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				set(pixelIdx, c)
				pixelIdx++
			}
			continue
		}

		for i := 0; i < count && pixelIdx < pixelCount; i++ {
			if dataIdx+bytesPerPixel > len(pixelData) {
				break
			}
			set(pixelIdx, read(dataIdx))
			dataIdx += bytesPerPixel
			pixelIdx++
		}
	}
	if pixelIdx < pixelCount {
		return nil, fmt.Errorf("TGA RLE data truncated at pixel %d of %d", pixelIdx, pixelCount)
	}

	return img, nil
}
