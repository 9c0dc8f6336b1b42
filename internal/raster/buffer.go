// Package raster draws a scene top down into an image: z-buffered flat
// shaded triangles, stroked outlines, label boxes and a selective bloom
// pass, with WebP output.
package raster

import (
	"image"
	"math"

	"geoscene/internal/mathutil"

	"github.com/lucasb-eyer/go-colorful"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []float64 // RGB interleaved in [0, 1], len = W*H*3
	ZBuf   []float64 // height per pixel, len = W*H, initialized to -inf
}

// NewFrameBuffer allocates a buffer cleared to bg with an empty z-buffer.
func NewFrameBuffer(w, h int, bg colorful.Color) *FrameBuffer {
	n := w * h
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]float64, n*3),
		ZBuf:   make([]float64, n),
	}
	for i := 0; i < n; i++ {
		fb.Color[i*3], fb.Color[i*3+1], fb.Color[i*3+2] = bg.R, bg.G, bg.B
		fb.ZBuf[i] = math.Inf(-1)
	}
	return fb
}

// blend mixes c over pixel i with the given alpha.
func (fb *FrameBuffer) blend(i int, c [3]float64, alpha float64) {
	o := i * 3
	for k := 0; k < 3; k++ {
		fb.Color[o+k] = c[k]*alpha + fb.Color[o+k]*(1-alpha)
	}
}

// FillTriangle rasterizes a screen space triangle with one color. Pixels
// lower than the z-buffer are skipped; writeZ controls whether the
// triangle occludes what is drawn after it.
func (fb *FrameBuffer) FillTriangle(p0, p1, p2 mathutil.Vec3, c [3]float64, alpha float64, writeZ bool) {
	minX := int(math.Floor(math.Min(math.Min(p0[0], p1[0]), p2[0])))
	maxX := int(math.Ceil(math.Max(math.Max(p0[0], p1[0]), p2[0])))
	minY := int(math.Floor(math.Min(math.Min(p0[1], p1[1]), p2[1])))
	maxY := int(math.Ceil(math.Max(math.Max(p0[1], p1[1]), p2[1])))
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, fb.Width-1), min(maxY, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (p1[1]-p2[1])*(p0[0]-p2[0]) + (p2[0]-p1[0])*(p0[1]-p2[1])
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det
	dy12 := p1[1] - p2[1]
	dx21 := p2[0] - p1[0]
	dy20 := p2[1] - p0[1]
	dx02 := p0[0] - p2[0]

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - p2[1]
		row := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - p2[0]
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -1e-6 || w1 < -1e-6 || w2 < -1e-6 {
				continue
			}
			z := w0*p0[2] + w1*p1[2] + w2*p2[2]
			i := row + sx
			if z < fb.ZBuf[i] {
				continue
			}
			fb.blend(i, c, alpha)
			if writeZ {
				fb.ZBuf[i] = z
			}
		}
	}
}

// Fill blends c into every pixel where mask is set, scaled by alpha.
func (fb *FrameBuffer) Fill(mask *image.Alpha, c [3]float64, alpha float64) {
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			a := mask.Pix[mask.PixOffset(x, y)]
			if a == 0 {
				continue
			}
			fb.blend(y*fb.Width+x, c, alpha*float64(a)/255)
		}
	}
}

// RGBA converts the buffer to an opaque 8-bit image.
func (fb *FrameBuffer) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i := 0; i < fb.Width*fb.Height; i++ {
		img.Pix[i*4] = clamp8(fb.Color[i*3] * 255)
		img.Pix[i*4+1] = clamp8(fb.Color[i*3+1] * 255)
		img.Pix[i*4+2] = clamp8(fb.Color[i*3+2] * 255)
		img.Pix[i*4+3] = 255
	}
	return img
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
