package render

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// viridis stops, evenly spaced from 0 to 1.
var viridisStops = []drawing.Color{
	drawing.ColorFromHex("440154"),
	drawing.ColorFromHex("482878"),
	drawing.ColorFromHex("3e4a89"),
	drawing.ColorFromHex("31688e"),
	drawing.ColorFromHex("26828e"),
	drawing.ColorFromHex("1f9e89"),
	drawing.ColorFromHex("35b779"),
	drawing.ColorFromHex("6ece58"),
	drawing.ColorFromHex("b5de2b"),
	drawing.ColorFromHex("fde725"),
}

// Viridis maps t in [0, 1] onto the viridis palette. Values outside are clamped.
func Viridis(t float64) drawing.Color {
	if math.IsNaN(t) || t <= 0 {
		return viridisStops[0]
	}
	if t >= 1 {
		return viridisStops[len(viridisStops)-1]
	}
	pos := t * float64(len(viridisStops)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := viridisStops[i], viridisStops[i+1]
	lerp := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*frac)) }
	return drawing.Color{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

// scale returns v's position between 0 and peak, or 0 when peak is not positive.
func scale(v, peak int) float64 {
	if peak <= 0 {
		return 0
	}
	return float64(v) / float64(peak)
}

// hex formats a color for lipgloss.
func hex(c drawing.Color) string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// isDark reports whether light text reads better on c.
func isDark(c drawing.Color) bool {
	lum := 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
	return lum < 140
}
