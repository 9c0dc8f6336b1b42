package raster

import (
	"image"

	"golang.org/x/image/draw"
)

// Blur spreads src by halving it until it is about radius times smaller
// and scaling it back up. A radius below 2 returns a plain copy.
func Blur(src *image.RGBA, radius int) *image.RGBA {
	b := src.Bounds()
	if radius < 2 {
		out := image.NewRGBA(b)
		copy(out.Pix, src.Pix)
		return out
	}
	cur := src
	for f := 2; f <= radius; f *= 2 {
		w, h := max(1, b.Dx()/f), max(1, b.Dy()/f)
		small := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(small, small.Bounds(), cur, cur.Bounds(), draw.Src, nil)
		cur = small
		if w == 1 && h == 1 {
			break
		}
	}
	out := image.NewRGBA(b)
	draw.BiLinear.Scale(out, b, cur, cur.Bounds(), draw.Src, nil)
	return out
}

// AddScaled adds strength times glow onto fb.
func AddScaled(fb *FrameBuffer, glow *image.RGBA, strength float64) {
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			si := glow.PixOffset(x, y)
			di := (y*fb.Width + x) * 3
			for k := 0; k < 3; k++ {
				fb.Color[di+k] += strength * float64(glow.Pix[si+k]) / 255
			}
		}
	}
}
