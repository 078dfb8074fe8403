package render

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/KaramelBytes/castgraph/internal/analysis"
	"github.com/stretchr/testify/require"
)

func sampleMatrix() *analysis.Matrix {
	return &analysis.Matrix{
		Names:  []string{"A", "B", "C"},
		Values: [][]int{{0, 2, 1}, {2, 0, 1}, {1, 1, 0}},
	}
}

func sampleReport() *analysis.Report {
	return &analysis.Report{
		Name:        "cast.csv",
		Characters:  3,
		Episodes:    3,
		Facts:       5,
		PlotGroups:  1,
		Pairs:       3,
		Totals:      []analysis.CharacterTotal{{Name: "A", Total: 2}, {Name: "B", Total: 2}, {Name: "C", Total: 1}},
		Focus:       &analysis.CharacterArc{Name: "A", Episodes: []string{"1", "2", "3"}, Counts: []float64{1, 1, 0}},
		PlotLeaders: []analysis.PlotLeaders{{Plot: 1, Characters: []string{"A", "B", "C"}, Counts: []int{2, 2, 1}}},
		TopPairs:    []analysis.PairCount{{Pair: analysis.Pair{A: "A", B: "B"}, Count: 2}},
		TopN:        3,
		Connected:   []analysis.Score{{Name: "A", Score: 3}, {Name: "B", Score: 3}, {Name: "C", Score: 2}},
		Matrix:      sampleMatrix(),
		Warnings:    []string{"coerced 1 malformed cell(s) to 0"},
	}
}

func TestArcChartPNG(t *testing.T) {
	var buf bytes.Buffer
	err := ArcChart(&buf, "Rose", []string{"1", "2", "3"}, []float64{1, 0, 2}, ChartOptions{Width: 640, Height: 320})
	require.NoError(t, err)
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 640, img.Bounds().Dx())
	require.Equal(t, 320, img.Bounds().Dy())
}

func TestArcChartAllZero(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ArcChart(&buf, "Rose", []string{"1", "2"}, []float64{0, 0}, ChartOptions{Width: 400, Height: 300}))
	require.NotZero(t, buf.Len())
}

func TestArcChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := ArcChart(&buf, "Rose", nil, nil, ChartOptions{})
	require.True(t, errors.Is(err, ErrEmptyChart))
	require.Zero(t, buf.Len())
}

func TestHeatmapMasksUpperTriangle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Heatmap(&buf, sampleMatrix(), ChartOptions{Cell: 40}))
	img, err := png.Decode(&buf)
	require.NoError(t, err)

	gridX := marginSide + 1*glyphW + 8
	gridY := marginTop
	cell := 40
	require.GreaterOrEqual(t, img.Bounds().Dx(), gridX+3*cell)

	white := color.RGBAModel.Convert(color.White)
	masked := color.RGBAModel.Convert(img.At(gridX+cell+4, gridY+4))
	require.Equal(t, white, masked, "upper triangle should stay blank")
	shown := color.RGBAModel.Convert(img.At(gridX+4, gridY+cell+4))
	require.NotEqual(t, white, shown, "lower triangle should be colored")
}

func TestHeatmapNeedsTwoNames(t *testing.T) {
	var buf bytes.Buffer
	m := &analysis.Matrix{Names: []string{"A"}, Values: [][]int{{0}}}
	require.ErrorIs(t, Heatmap(&buf, m, ChartOptions{}), ErrEmptyChart)
	require.ErrorIs(t, Heatmap(&buf, nil, ChartOptions{}), ErrEmptyChart)
}

func TestHeatmapTitleUsesConfiguredTopN(t *testing.T) {
	require.Equal(t, "Character Co-occurrence Heatmap (Top 15)", heatmapTitle(3, 15))
	require.Equal(t, "Character Co-occurrence Heatmap (Top 3)", heatmapTitle(3, 0))

	var buf bytes.Buffer
	require.NoError(t, Heatmap(&buf, sampleMatrix(), ChartOptions{Cell: 40, TopN: 15}))
}

func TestViridisEnds(t *testing.T) {
	require.Equal(t, viridisStops[0], Viridis(-1))
	require.Equal(t, viridisStops[len(viridisStops)-1], Viridis(2))
	mid := Viridis(0.5)
	require.Equal(t, uint8(255), mid.A)
	require.Equal(t, "#440154", hex(Viridis(0)))
}

func TestText(t *testing.T) {
	out := Text(sampleReport())
	for _, want := range []string{"Dataset summary", "cast.csv", "Character arc: A", "Character A", "coerced 1 malformed cell(s) to 0"} {
		require.Contains(t, out, want)
	}
}

func TestTermHeatmapLowerTriangle(t *testing.T) {
	out := TermHeatmap(sampleMatrix())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// two data rows plus the column footer
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "B"))
	require.Contains(t, lines[0], "2")
	require.True(t, strings.HasPrefix(lines[1], "C"))
	require.Empty(t, TermHeatmap(nil))
}

func TestTableView(t *testing.T) {
	tbl := NewTable("", "Name", "Count")
	require.Empty(t, tbl.View(DefaultStyles()))
	tbl.AddRow("Doctor", "12")
	out := tbl.View(DefaultStyles())
	require.Contains(t, out, "Doctor")
	require.Contains(t, out, "Count")
}

func TestHTML(t *testing.T) {
	out, err := HTML(sampleReport().Markdown())
	require.NoError(t, err)
	s := string(out)
	require.Contains(t, s, "<table>")
	require.Contains(t, s, "DATASET SUMMARY")
	require.True(t, strings.HasSuffix(s, "</body></html>\n"))
}

func TestPretty(t *testing.T) {
	out, err := Pretty(sampleReport().Markdown(), "notty", 100)
	require.NoError(t, err)
	require.Contains(t, out, "DATASET SUMMARY")

	_, err = Pretty("x", "no-such-style", 80)
	require.Error(t, err)
}
