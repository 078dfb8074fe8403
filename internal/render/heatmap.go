package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"

	"github.com/KaramelBytes/castgraph/internal/analysis"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	glyphW     = 7
	glyphH     = 13
	legendW    = 18
	legendGap  = 24
	marginTop  = 40
	marginSide = 16
)

// Heatmap writes the lower triangle of m as an annotated PNG heatmap. The diagonal
// and upper triangle are left blank.
func Heatmap(w io.Writer, m *analysis.Matrix, opt ChartOptions) error {
	if m == nil || m.Len() < 2 {
		return ErrEmptyChart
	}
	opt = opt.withDefaults()
	n := m.Len()
	cell := opt.Cell

	longest := 0
	for _, name := range m.Names {
		if len(name) > longest {
			longest = len(name)
		}
	}
	rowLabelW := longest*glyphW + 8
	colLabelH := longest*glyphW + 8
	maxLabel := strconv.Itoa(m.Max())
	legendLabelW := (len(maxLabel) + 1) * glyphW

	gridX := marginSide + rowLabelW
	gridY := marginTop
	gridSize := n * cell
	width := gridX + gridSize + legendGap + legendW + legendLabelW + glyphW*2 + marginSide
	height := gridY + gridSize + colLabelH + marginSide
	title := heatmapTitle(n, opt.TopN)
	if tw := len(title)*glyphW + 2*marginSide; width < tw {
		width = tw
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawText(img, title, (width-len(title)*glyphW)/2, marginTop/2+glyphH/2, drawing.ColorBlack)

	peak := m.Max()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if m.Masked(i, j) {
				continue
			}
			c := Viridis(scale(m.Values[i][j], peak))
			r := image.Rect(gridX+j*cell, gridY+i*cell, gridX+(j+1)*cell, gridY+(i+1)*cell)
			draw.Draw(img, r.Inset(1), image.NewUniform(c), image.Point{}, draw.Src)

			label := strconv.Itoa(m.Values[i][j])
			ink := drawing.ColorBlack
			if isDark(c) {
				ink = drawing.ColorWhite
			}
			drawText(img, label, r.Min.X+(cell-len(label)*glyphW)/2, r.Min.Y+(cell+glyphH)/2-2, ink)
		}
	}

	for i, name := range m.Names {
		// Row labels are right-aligned against the grid.
		drawText(img, name, gridX-4-len(name)*glyphW, gridY+i*cell+(cell+glyphH)/2-2, drawing.ColorBlack)
		drawVertical(img, name, gridX+i*cell+(cell-glyphH)/2, gridY+gridSize+4, drawing.ColorBlack)
	}

	// Legend: a vertical gradient with the range on its side.
	lx := gridX + gridSize + legendGap
	for y := 0; y < gridSize; y++ {
		c := Viridis(1 - float64(y)/float64(gridSize-1))
		draw.Draw(img, image.Rect(lx, gridY+y, lx+legendW, gridY+y+1), image.NewUniform(c), image.Point{}, draw.Src)
	}
	drawText(img, maxLabel, lx+legendW+4, gridY+glyphH-2, drawing.ColorBlack)
	drawText(img, "0", lx+legendW+4, gridY+gridSize, drawing.ColorBlack)
	drawVertical(img, "Co-occurrence Count", lx+legendW+legendLabelW+2, gridY, drawing.ColorBlack)

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode heatmap: %w", err)
	}
	return nil
}

// drawText writes s with its baseline at y.
func drawText(dst draw.Image, s string, x, y int, c color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13}
	d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	d.DrawString(s)
}

// drawVertical writes s rotated 90 degrees clockwise, reading top to bottom, with
// the glyph tops facing x.
func drawVertical(dst draw.Image, s string, x, y int, c color.Color) {
	if s == "" {
		return
	}
	tmp := image.NewRGBA(image.Rect(0, 0, len(s)*glyphW, glyphH))
	drawText(tmp, s, 0, glyphH-3, c)
	b := tmp.Bounds()
	for ty := b.Min.Y; ty < b.Max.Y; ty++ {
		for tx := b.Min.X; tx < b.Max.X; tx++ {
			px := tmp.RGBAAt(tx, ty)
			if px.A == 0 {
				continue
			}
			dst.Set(x+glyphH-1-ty, y+tx, px)
		}
	}
}

func heatmapTitle(n, topN int) string {
	if topN <= 0 {
		topN = n
	}
	return fmt.Sprintf("Character Co-occurrence Heatmap (Top %d)", topN)
}
