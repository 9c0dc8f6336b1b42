package raster

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"geoscene/internal/mathutil"
	"geoscene/internal/scene"
	"geoscene/internal/shape"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func small() Options {
	o := DefaultOptions()
	o.Width, o.Height, o.Margin = 64, 48, 4
	o.BloomStrength = 0
	return o
}

func block(t *testing.T, c colorful.Color) *scene.Mesh {
	t.Helper()
	s := (&shape.Shape{}).MoveTo(0, 0).LineTo(10, 0).LineTo(10, 10).LineTo(0, 10)
	g, err := shape.Extrude(s, shape.DefaultExtrudeOptions())
	require.NoError(t, err)
	return scene.NewMesh("block", g, scene.NewPhong(c), scene.NewPhong(c))
}

func TestRenderEmptySceneIsBackground(t *testing.T) {
	img := Render(scene.New(), small())
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())
	first := img.NRGBAAt(0, 0)
	assert.Equal(t, uint8(255), first.A)
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			require.Equal(t, first, img.NRGBAAt(x, y))
		}
	}
}

func TestRenderOpaqueMesh(t *testing.T) {
	sc := scene.New()
	sc.Add(block(t, colorful.Color{R: 1}))
	img := Render(sc, small())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(32, 24))
}

func TestRenderTranslucentMeshBlends(t *testing.T) {
	sc := scene.New()
	m := block(t, colorful.Color{R: 1})
	for _, mat := range m.Materials {
		mat.Props().Transparent = true
		mat.Props().Opacity = 0.4
	}
	sc.Add(m)
	o := small()
	o.Background = colorful.Color{}
	px := Render(sc, o).NRGBAAt(32, 24)
	assert.Greater(t, px.R, uint8(0))
	assert.Less(t, px.R, uint8(255))
}

func TestRenderBloomOnly(t *testing.T) {
	o := small()
	o.BloomOnly = true

	sc := scene.New()
	sc.Add(block(t, colorful.Color{G: 1}))
	assert.Equal(t, color.NRGBA{A: 255}, Render(sc, o).NRGBAAt(32, 24))

	sc = scene.New()
	m := block(t, colorful.Color{G: 1})
	m.Passes.Add(scene.PassBloom)
	sc.Add(m)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, Render(sc, o).NRGBAAt(32, 24))
}

func TestRenderHiddenSubtree(t *testing.T) {
	sc := scene.New()
	g := scene.NewGroup("hidden")
	g.Add(block(t, colorful.Color{R: 1}))
	g.Visible = false
	sc.Add(g)
	o := small()
	assert.Equal(t, Render(scene.New(), o).NRGBAAt(32, 24), Render(sc, o).NRGBAAt(32, 24))
}

func TestRenderLine(t *testing.T) {
	sc := scene.New()
	l := scene.NewLine("edge", &scene.LineGeometry{
		Points: []mathutil.Vec3{{0, 0, 0}, {10, 0, 0}},
		Width:  0.3,
	}, scene.NewLineMaterial(colorful.Color{B: 1}, 0.3))
	sc.Add(l)
	o := small()
	o.Background = colorful.Color{}
	px := Render(sc, o).NRGBAAt(32, 24)
	assert.Greater(t, px.B, uint8(0))
	assert.Zero(t, px.R)
}

func TestRenderLabelBox(t *testing.T) {
	sc := scene.New()
	sc.Add(scene.NewLabel("l", scene.LabelElement{
		Class:      "label",
		Text:       "AB",
		Accent:     scene.Opaque(colorful.Color{R: 1}),
		Background: scene.CSSColor{Color: colorful.Color{R: 1}, Alpha: 0.3},
	}))
	o := small()
	img := Render(sc, o)
	// box is 14+6 wide and 13+6 high around the center
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(22, 15))

	o.Labels = false
	assert.NotEqual(t, img.NRGBAAt(22, 15), Render(sc, o).NRGBAAt(22, 15))
}

func TestBlurSpreads(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := uint8(0)
			if x >= 6 && x < 10 && y >= 6 && y < 10 {
				v = 255
			}
			src.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	out := Blur(src, 4)
	assert.Equal(t, src.Bounds(), out.Bounds())
	assert.Greater(t, out.RGBAAt(5, 8).R, uint8(0))
	assert.Less(t, out.RGBAAt(0, 0).R, out.RGBAAt(8, 8).R)

	same := Blur(src, 1)
	assert.Equal(t, src.Pix, same.Pix)
}

func TestAddScaled(t *testing.T) {
	fb := NewFrameBuffer(2, 2, colorful.Color{})
	glow := image.NewRGBA(image.Rect(0, 0, 2, 2))
	glow.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})
	AddScaled(fb, glow, 0.5)
	assert.InDelta(t, 0.5, fb.Color[(1*2+1)*3], 1e-9)
	assert.Zero(t, fb.Color[0])
}

func TestFillTriangleDepth(t *testing.T) {
	fb := NewFrameBuffer(8, 8, colorful.Color{})
	low := [3]float64{1, 0, 0}
	high := [3]float64{0, 1, 0}
	fb.FillTriangle(mathutil.Vec3{0, 0, 5}, mathutil.Vec3{8, 0, 5}, mathutil.Vec3{0, 8, 5}, high, 1, true)
	fb.FillTriangle(mathutil.Vec3{0, 0, 1}, mathutil.Vec3{8, 0, 1}, mathutil.Vec3{0, 8, 1}, low, 1, true)
	i := (1*8 + 1) * 3
	assert.Equal(t, []float64{0, 1, 0}, fb.Color[i:i+3])
	assert.Equal(t, 5.0, fb.ZBuf[1*8+1])
}

func TestWriteWebP(t *testing.T) {
	sc := scene.New()
	sc.Add(block(t, colorful.Color{R: 1}))
	var buf bytes.Buffer
	require.NoError(t, WriteWebP(&buf, Render(sc, small())))
	require.Greater(t, buf.Len(), 12)
	assert.Equal(t, "RIFF", buf.String()[:4])
	assert.Equal(t, "WEBP", buf.String()[8:12])
}
