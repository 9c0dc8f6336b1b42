package scene

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

// ErrInvalidColor is returned for unparsable CSS colors.
var ErrInvalidColor = errors.New("scene: invalid css color")

// CSSColor is a color with straight alpha.
type CSSColor struct {
	colorful.Color
	Alpha float64
}

// Opaque wraps c with alpha 1.
func Opaque(c colorful.Color) CSSColor { return CSSColor{Color: c, Alpha: 1} }

// String formats c as rgba().
func (c CSSColor) String() string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", r, g, b, c.Alpha)
}

// ParseCSSColor accepts CSS colors: hex, rgb(), rgba(), hsl(), hsla()
// and the named colors. Channels are clamped into range.
func ParseCSSColor(s string) (CSSColor, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return CSSColor{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return CSSColor{
		Color: colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped(),
		Alpha: min(1, max(0, c.A)),
	}, nil
}

// MustColor parses s and panics on error. For package level defaults.
func MustColor(s string) CSSColor {
	c, err := ParseCSSColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
