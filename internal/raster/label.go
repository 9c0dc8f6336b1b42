package raster

import (
	"image"
	"unicode/utf8"

	"geoscene/internal/mathutil"
	"geoscene/internal/scene"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const labelPad = 3

// drawLabels puts every label box on top of img, centered on the label
// anchor. The built-in face only covers ASCII; other runes keep their
// width in the box but are not drawn.
func drawLabels(img *image.NRGBA, sc *scene.Scene, v view) {
	face := basicfont.Face7x13
	walk(sc.Children(), func(o scene.Object) {
		l, ok := o.(*scene.Label)
		if !ok {
			return
		}
		at := v.project(l.WorldMatrix().MulPoint(mathutil.Vec3{}))
		el := l.Element
		tw := max(font.MeasureString(face, el.Text).Ceil(), utf8.RuneCountInString(el.Text)*face.Advance)
		th := face.Height
		x0 := int(at[0]) - tw/2 - labelPad
		y0 := int(at[1]) - th/2 - labelPad
		box := image.Rect(x0, y0, x0+tw+2*labelPad, y0+th+2*labelPad).Intersect(img.Bounds())
		fillRect(img, box, el.Background)
		strokeRect(img, box, el.Accent)

		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(el.Accent.Color),
			Face: face,
			Dot:  fixed.P(x0+labelPad, y0+labelPad+face.Ascent),
		}
		d.DrawString(el.Text)
	})
}

func fillRect(img *image.NRGBA, r image.Rectangle, c scene.CSSColor) {
	cr, cg, cb := c.RGB255()
	a := c.Alpha
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(float64(cr)*a + float64(img.Pix[i])*(1-a) + 0.5)
			img.Pix[i+1] = uint8(float64(cg)*a + float64(img.Pix[i+1])*(1-a) + 0.5)
			img.Pix[i+2] = uint8(float64(cb)*a + float64(img.Pix[i+2])*(1-a) + 0.5)
		}
	}
}

func strokeRect(img *image.NRGBA, r image.Rectangle, c scene.CSSColor) {
	if r.Empty() {
		return
	}
	cr, cg, cb := c.RGB255()
	set := func(x, y int) {
		i := img.PixOffset(x, y)
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = cr, cg, cb
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		set(x, r.Min.Y)
		set(x, r.Max.Y-1)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		set(r.Min.X, y)
		set(r.Max.X-1, y)
	}
}
