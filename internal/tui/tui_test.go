package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoscene/internal/mapbuild"
)

func TestBrailleBits(t *testing.T) {
	b := newBrailleBuf(2, 1)
	b.setPixel(0, 0, "")
	b.setPixel(1, 3, "")
	b.setPixel(99, 0, "")
	assert.Equal(t, uint8(0x81), b.m[0][0])
	assert.Equal(t, []string{string(rune(0x2881)) + " "}, b.toLines())
}

func TestPutTextWideRunes(t *testing.T) {
	b := newBrailleBuf(4, 1)
	b.putText(0, 0, "北A", "")
	assert.Equal(t, '北', b.glyph[0][0])
	assert.Equal(t, rune(wide), b.glyph[0][1])
	assert.Equal(t, 'A', b.glyph[0][2])
	assert.Equal(t, "北A ", b.toLines()[0])

	b.putText(3, 0, "北", "")
	assert.Zero(t, b.glyph[0][3], "no room for a double width rune")
}

func TestFillRing(t *testing.T) {
	b := newBrailleBuf(4, 2)
	b.fillRing([][2]int{{0, 0}, {7, 0}, {7, 7}, {0, 7}}, "")
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			assert.NotZero(t, b.m[y][x], "cell %d,%d", x, y)
		}
	}
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(k)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func key(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func TestFrameAdvancesAnimations(t *testing.T) {
	m := New(Options{})
	require.Len(t, m.mi.Routes, 2)
	require.Len(t, m.mi.Markers, 2)

	next, cmd := m.Update(frameMsg(time.Now().Add(time.Second)))
	assert.NotNil(t, cmd)
	m = next.(Model)
	assert.Greater(t, m.mi.Routes[0].T, 0.0)
	assert.InDelta(t, mapbuild.ConeZ+mapbuild.ConeStep, m.mi.Markers[0].Object.Position[2], 1e-9)
}

func TestKeysToggleLayers(t *testing.T) {
	m := New(Options{})
	m = press(t, m, key('b'))
	assert.True(t, m.bloomOnly)
	m = press(t, m, key('1'))
	assert.False(t, m.showRegions)
	m = press(t, m, key('l'))
	assert.True(t, m.showRegions && m.showOutlines && m.showRoutes && m.showMarkers)
}

func TestPasteAddsRegion(t *testing.T) {
	m := New(Options{})
	m = press(t, m, key('p'))
	require.True(t, m.pasteMode)
	m.ta.SetValue("POLYGON((100 30, 101 30, 101 31, 100 31, 100 30))")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.pasteMode)
	require.Len(t, m.mi.Regions, 1)
	assert.Equal(t, "pasted-1", m.mi.Regions[0].Name)
	assert.Contains(t, m.status, "meshes=1")

	cols, rows := m.buildAttributes()
	assert.Equal(t, []string{"name", "meshes", "center", "source"}, cols)
	require.Len(t, rows, 1)
	assert.Equal(t, "pasted-1", rows[0][0])
	assert.Equal(t, "wkt", rows[0][3])
}

func TestRenderMapSize(t *testing.T) {
	m := New(Options{})
	out := m.renderMap(40, 12)
	assert.Len(t, strings.Split(out, "\n"), 12)
	assert.True(t, strings.ContainsAny(out, "●▲△"), "points and cones are drawn")
}

func TestCellPlaneRoundTrip(t *testing.T) {
	m := New(Options{})
	m.zoom = 1.5
	m.offsetX, m.offsetY = 2, -1
	x, y, ok := m.cellToPlane(10, 5, 40, 12)
	require.True(t, ok)
	mx, my, ok := m.screenXYMicro(x, y, 40, 12)
	require.True(t, ok)
	assert.InDelta(t, 20, mx, 1)
	assert.InDelta(t, 20, my, 1)
}

func TestLayerBadges(t *testing.T) {
	m := New(Options{})
	out := m.layerBadges()
	for _, s := range []string{"1:regions", "2:outlines", "3:routes", "4:markers"} {
		assert.Contains(t, out, s)
	}
	m = press(t, m, key('2'))
	assert.False(t, m.showOutlines)
	assert.Contains(t, m.layerBadges(), "2:outlines")
}
