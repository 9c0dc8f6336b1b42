package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// wide marks the cell covered by the right half of a double width glyph.
const wide = -1

type brailleBuf struct {
	w, h  int                // in cells
	m     [][]uint8          // per-cell 8-bit mask
	fg    [][]lipgloss.Color // color of the last pixel or glyph per cell
	glyph [][]rune           // overlay glyph per cell, 0 when none
}

func newBrailleBuf(w, h int) *brailleBuf {
	b := &brailleBuf{w: w, h: h}
	b.m = make([][]uint8, h)
	b.fg = make([][]lipgloss.Color, h)
	b.glyph = make([][]rune, h)
	for i := 0; i < h; i++ {
		b.m[i] = make([]uint8, w)
		b.fg[i] = make([]lipgloss.Color, w)
		b.glyph[i] = make([]rune, w)
	}
	return b
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, c lipgloss.Color) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	var bit uint8
	if rx == 0 {
		switch ry {
		case 0:
			bit = 0x01
		case 1:
			bit = 0x02
		case 2:
			bit = 0x04
		case 3:
			bit = 0x40
		}
	} else {
		switch ry {
		case 0:
			bit = 0x08
		case 1:
			bit = 0x10
		case 2:
			bit = 0x20
		case 3:
			bit = 0x80
		}
	}
	b.m[cy][cx] |= bit
	if c != "" {
		b.fg[cy][cx] = c
	}
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, c lipgloss.Color) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// fillRing fills a closed micro ring with the even-odd rule per scanline.
func (b *brailleBuf) fillRing(ring [][2]int, c lipgloss.Color) {
	if len(ring) < 3 {
		return
	}
	hMic := b.h * 4
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for i := 0; i < len(ring); i++ {
			p := ring[i]
			q := ring[(i+1)%len(ring)]
			if p[1] == q[1] { // horizontal edge: skip
				continue
			}
			y0, y1 := p[1], q[1]
			x0, x1 := p[0], q[0]
			if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
				t := float64(yMic-y0) / float64(y1-y0)
				xs = append(xs, int(float64(x0)+t*float64(x1-x0)))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for xMic := max(0, xs[i]); xMic <= xs[i+1]; xMic++ {
				b.setPixel(xMic, yMic, c)
			}
		}
	}
}

// putGlyph places r over the cell holding micro point (mx, my).
func (b *brailleBuf) putGlyph(mx, my int, r rune, c lipgloss.Color) {
	b.putText(mx/2, my/4, string(r), c)
}

// putText writes s starting at cell (cx, cy). Double width runes take
// two cells.
func (b *brailleBuf) putText(cx, cy int, s string, c lipgloss.Color) {
	if cy < 0 || cy >= b.h {
		return
	}
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if cx >= 0 && cx+rw <= b.w {
			b.glyph[cy][cx] = r
			b.fg[cy][cx] = c
			if rw == 2 {
				b.glyph[cy][cx+1] = wide
			}
		}
		cx += rw
	}
}

// toLines renders the buffer, one styled run per color change.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var (
			sb  strings.Builder
			run []rune
			cur lipgloss.Color
		)
		flush := func() {
			if len(run) == 0 {
				return
			}
			if cur == "" {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(cur).Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			g := b.glyph[y][x]
			if g == wide {
				continue
			}
			r := ' '
			switch {
			case g != 0:
				r = g
			case b.m[y][x] != 0:
				r = rune(0x2800 + int(b.m[y][x]))
			}
			c := b.fg[y][x]
			if r == ' ' {
				c = cur
			}
			if c != cur {
				flush()
				cur = c
			}
			run = append(run, r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}
