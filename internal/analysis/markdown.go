package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// Markdown renders the report as bracketed sections with GFM tables.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Characters: %d\n", r.Characters))
	b.WriteString(fmt.Sprintf("Episodes: %d\n", r.Episodes))
	b.WriteString(fmt.Sprintf("Plot groups: %d\n", r.PlotGroups))
	b.WriteString(fmt.Sprintf("Appearances: %d\n", r.Facts))
	b.WriteString(fmt.Sprintf("Character pairs: %d\n", r.Pairs))

	if len(r.Totals) > 0 {
		b.WriteString(fmt.Sprintf("\n[TOP %d CHARACTERS BY TOTAL APPEARANCES]\n", len(r.Totals)))
		b.WriteString("| # | Character | Appearances |\n| --- | --- | --- |\n")
		for i, t := range r.Totals {
			b.WriteString(fmt.Sprintf("| %d | %s | %s |\n", i+1, safeVal(t.Name), FormatCount(t.Total)))
		}
	}

	if r.Focus != nil {
		b.WriteString(fmt.Sprintf("\n[CHARACTER ARC: %s]\n", safeVal(r.Focus.Name)))
		var seen []string
		for i, v := range r.Focus.Counts {
			if v > 0 {
				seen = append(seen, fmt.Sprintf("%s (%s)", r.Focus.Episodes[i], FormatCount(v)))
			}
		}
		b.WriteString(fmt.Sprintf("Episodes appeared: %d/%d\n", len(seen), len(r.Focus.Episodes)))
		if len(seen) > 0 {
			b.WriteString("Appearances: ")
			b.WriteString(strings.Join(seen, ", "))
			b.WriteString("\n")
		}
	}

	if len(r.PlotLeaders) > 0 {
		b.WriteString("\n[TOP CHARACTERS PER PLOT GROUP]\n")
		for _, pl := range r.PlotLeaders {
			names := make([]string, len(pl.Characters))
			for i, n := range pl.Characters {
				names[i] = safeVal(n)
			}
			b.WriteString(fmt.Sprintf("- Plot %s: %s\n", FormatCount(pl.Plot), strings.Join(names, ", ")))
		}
	}

	if len(r.TopPairs) > 0 {
		b.WriteString(fmt.Sprintf("\n[TOP %d CHARACTER PAIR CO-OCCURRENCES]\n", len(r.TopPairs)))
		b.WriteString("| # | Character A | Character B | Co-occurrences |\n| --- | --- | --- | --- |\n")
		for i, p := range r.TopPairs {
			b.WriteString(fmt.Sprintf("| %d | %s | %s | %d |\n", i+1, safeVal(p.A), safeVal(p.B), p.Count))
		}
	}

	if len(r.Connected) > 0 {
		b.WriteString(fmt.Sprintf("\n[TOP %d CHARACTERS BY TOTAL CO-OCCURRENCE]\n", r.TopN))
		for _, s := range r.Connected {
			b.WriteString(fmt.Sprintf("- %s: %d\n", safeVal(s.Name), s.Score))
		}
	}

	if m := r.Matrix; m != nil && m.Len() >= 2 {
		b.WriteString("\n[CO-OCCURRENCE MATRIX]\n")
		b.WriteString("| Character |")
		for _, n := range m.Names {
			b.WriteString(" " + safeVal(n) + " |")
		}
		b.WriteString("\n| --- |")
		b.WriteString(strings.Repeat(" --- |", m.Len()))
		b.WriteString("\n")
		for i, n := range m.Names {
			b.WriteString("| " + safeVal(n) + " |")
			for j := range m.Names {
				if m.Masked(i, j) {
					b.WriteString("  |")
					continue
				}
				b.WriteString(fmt.Sprintf(" %d |", m.Values[i][j]))
			}
			b.WriteString("\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatCount prints a count or plot id without a trailing fraction when it is integral.
func FormatCount(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
