package systems

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"math"
	"math/rand"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrDecode is returned when image bytes cannot be decoded.
var ErrDecode = errors.New("decoding image")

// Sample is one visible pixel of a sampled image, positioned in world space.
type Sample struct {
	X, Y    float32
	R, G, B float32
}

// SamplerParams controls rasterisation and filtering of a source image.
type SamplerParams struct {
	Width, Height   int
	Spacing         float32 // World units per pixel
	AlphaThreshold  uint8   // Alpha at or below this is background
	BrightnessFloor float64 // Mean RGB below this is background
	LowVisibility   float64
	LowLift         float64
	Gamma           float64
	Gain            float64
}

// DecodeImage decodes PNG, JPEG, GIF or WebP bytes.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// SampleBytes decodes data and samples it. On decode failure no samples are produced.
func SampleBytes(data []byte, p SamplerParams, rng *rand.Rand) ([]Sample, error) {
	img, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	return SampleImage(img, p, rng), nil
}

// SampleImage rasterises img to the sampling grid and returns the visible pixels
// as world-space samples in random order.
func SampleImage(img image.Image, p SamplerParams, rng *rand.Rand) []Sample {
	if p.Width <= 0 || p.Height <= 0 {
		return nil
	}
	raster := Rasterize(img, p.Width, p.Height)

	halfW := float32(p.Width) / 2
	halfH := float32(p.Height) / 2
	samples := make([]Sample, 0, p.Width*p.Height)

	for y := 0; y < p.Height; y++ {
		row := raster.Pix[y*raster.Stride:]
		for x := 0; x < p.Width; x++ {
			px := row[x*4 : x*4+4]
			if px[3] <= p.AlphaThreshold {
				continue
			}

			r := float64(px[0]) / 255
			g := float64(px[1]) / 255
			b := float64(px[2]) / 255
			brightness := (r + g + b) / 3
			if brightness < p.BrightnessFloor {
				continue
			}

			if brightness < p.LowVisibility {
				r, g, b = lift(r, p.LowLift), lift(g, p.LowLift), lift(b, p.LowLift)
			} else {
				r, g, b = boost(r, p.Gamma, p.Gain), boost(g, p.Gamma, p.Gain), boost(b, p.Gamma, p.Gain)
			}

			samples = append(samples, Sample{
				X: (float32(x) - halfW) * p.Spacing,
				Y: -(float32(y) - halfH) * p.Spacing, // raster Y grows down
				R: float32(r),
				G: float32(g),
				B: float32(b),
			})
		}
	}

	// Decorrelate particle index from scan order
	rng.Shuffle(len(samples), func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})
	return samples
}

// Rasterize draws img into a w×h NRGBA raster, centre-cropping the longer axis
// so the aspect ratio is preserved.
func Rasterize(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	src := CenterCrop(img.Bounds(), w, h)
	if src.Dx() == w && src.Dy() == h {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}

// CenterCrop returns the largest centred sub-rectangle of b with aspect w:h.
func CenterCrop(b image.Rectangle, w, h int) image.Rectangle {
	bw, bh := b.Dx(), b.Dy()
	if bw == 0 || bh == 0 {
		return b
	}
	// Compare bw/bh with w/h without floating point
	if bw*h > bh*w {
		cw := bh * w / h
		x0 := b.Min.X + (bw-cw)/2
		return image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	}
	ch := bw * h / w
	y0 := b.Min.Y + (bh-ch)/2
	return image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
}

func lift(c, amount float64) float64 {
	return math.Min(1, c+amount)
}

func boost(c, gamma, gain float64) float64 {
	return math.Min(1, math.Pow(c, gamma)*gain)
}
