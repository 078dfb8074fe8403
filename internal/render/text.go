package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/castgraph/internal/analysis"
	"github.com/charmbracelet/lipgloss"
)

// Text renders the report as console tables.
func Text(r *analysis.Report) string {
	st := DefaultStyles()
	var b strings.Builder

	summary := NewTable("Dataset summary", "Field", "Value")
	if r.Name != "" {
		summary.AddRow("File", r.Name)
	}
	summary.AddRow("Characters", strconv.Itoa(r.Characters))
	summary.AddRow("Episodes", strconv.Itoa(r.Episodes))
	summary.AddRow("Plot groups", strconv.Itoa(r.PlotGroups))
	summary.AddRow("Appearances", strconv.Itoa(r.Facts))
	summary.AddRow("Character pairs", strconv.Itoa(r.Pairs))
	writeSection(&b, summary.View(st))

	totals := NewTable(fmt.Sprintf("Top %d characters by total appearances", len(r.Totals)), "#", "Character", "Appearances")
	for i, t := range r.Totals {
		totals.AddRow(strconv.Itoa(i+1), t.Name, analysis.FormatCount(t.Total))
	}
	writeSection(&b, totals.View(st))

	if r.Focus != nil {
		arc := NewTable("Character arc: "+r.Focus.Name, "Episode", "Appearances")
		for i, v := range r.Focus.Counts {
			if v > 0 {
				arc.AddRow(r.Focus.Episodes[i], analysis.FormatCount(v))
			}
		}
		writeSection(&b, arc.View(st))
	}

	leaders := NewTable("Top characters per plot group", "Plot", "Characters")
	for _, pl := range r.PlotLeaders {
		leaders.AddRow(analysis.FormatCount(pl.Plot), strings.Join(pl.Characters, ", "))
	}
	writeSection(&b, leaders.View(st))

	pairs := NewTable(fmt.Sprintf("Top %d character pair co-occurrences", len(r.TopPairs)), "#", "Character A", "Character B", "Co-occurrences")
	for i, p := range r.TopPairs {
		pairs.AddRow(strconv.Itoa(i+1), p.A, p.B, strconv.Itoa(p.Count))
	}
	writeSection(&b, pairs.View(st))

	connected := NewTable(fmt.Sprintf("Top %d characters by total co-occurrence", r.TopN), "Character", "Score")
	for _, s := range r.Connected {
		connected.AddRow(s.Name, strconv.Itoa(s.Score))
	}
	writeSection(&b, connected.View(st))

	if r.Matrix != nil && r.Matrix.Len() >= 2 {
		b.WriteString(st.Title.Render("Co-occurrence heatmap"))
		b.WriteString("\n")
		writeSection(&b, TermHeatmap(r.Matrix))
	}

	if len(r.Warnings) > 0 {
		b.WriteString(st.Title.Render("Notes"))
		b.WriteString("\n")
		for _, w := range r.Warnings {
			b.WriteString(st.Muted.Render("! " + w))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeSection(b *strings.Builder, s string) {
	if s == "" {
		return
	}
	b.WriteString(s)
	b.WriteString("\n")
}

// TermHeatmap renders the lower triangle of m with palette backgrounds.
func TermHeatmap(m *analysis.Matrix) string {
	if m == nil || m.Len() == 0 {
		return ""
	}
	nameW, cellW := 0, 3
	for _, n := range m.Names {
		nameW = max(nameW, lipgloss.Width(n))
	}
	if w := len(strconv.Itoa(m.Max())) + 2; w > cellW {
		cellW = w
	}
	label := lipgloss.NewStyle().Width(nameW + 1)
	peak := m.Max()

	var b strings.Builder
	for i, n := range m.Names {
		if i == 0 {
			// the first row is fully masked
			continue
		}
		b.WriteString(label.Render(n))
		for j := 0; j < i; j++ {
			c := Viridis(scale(m.Values[i][j], peak))
			fg := "#000000"
			if isDark(c) {
				fg = "#ffffff"
			}
			cell := lipgloss.NewStyle().
				Width(cellW).
				Align(lipgloss.Center).
				Background(lipgloss.Color(hex(c))).
				Foreground(lipgloss.Color(fg))
			b.WriteString(cell.Render(strconv.Itoa(m.Values[i][j])))
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat(" ", nameW+1))
	for j := 0; j < m.Len()-1; j++ {
		b.WriteString(lipgloss.NewStyle().Width(cellW).Align(lipgloss.Center).Render(truncate(m.Names[j], cellW)))
	}
	b.WriteString("\n")
	return b.String()
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
