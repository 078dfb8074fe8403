package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DefaultPlotLabel is the row label that marks the plot-group metadata row.
const DefaultPlotLabel = "plot"

// CharacterRow is one character's normalized per-episode appearance counts.
type CharacterRow struct {
	Name   string
	Counts []float64
	Total  float64
}

// PlotID is a plot-group identifier; Valid is false when the id is missing.
type PlotID struct {
	Value float64
	Valid bool
}

// Grid is a typed appearance table: episodes as columns, characters as rows.
type Grid struct {
	Name       string
	Episodes   []string
	Characters []CharacterRow
	Fallbacks  []Fallback

	plotLabel string
	plotRow   []string
	hasPlot   bool
}

// NewGrid splits the plot-group row from the character rows and normalizes every
// character cell to a non-negative count. Malformed cells become zero.
func NewGrid(t *Table, plotLabel string, logger *zap.Logger) (*Grid, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if t == nil || len(t.Header) == 0 {
		return nil, &InputFormatError{Reason: "table has no header"}
	}
	if plotLabel == "" {
		plotLabel = DefaultPlotLabel
	}
	g := &Grid{
		Name:      t.Name,
		Episodes:  append([]string(nil), t.Header[1:]...),
		plotLabel: plotLabel,
	}
	for i, rec := range t.Rows {
		label := rec[0]
		cells := rec[1:]
		if label == plotLabel {
			if g.hasPlot {
				logger.Warn("ignoring duplicate plot row", zap.Int("row", i+1))
				continue
			}
			g.plotRow = append([]string(nil), cells...)
			g.hasPlot = true
			continue
		}
		row := CharacterRow{Name: label, Counts: make([]float64, len(g.Episodes))}
		for j, raw := range cells {
			v, ok := ParseCount(raw)
			if !ok && strings.TrimSpace(raw) != "" {
				g.Fallbacks = append(g.Fallbacks, Fallback{Character: label, Episode: g.Episodes[j], Raw: raw})
				logger.Debug("coerced malformed cell to zero",
					zap.String("character", label),
					zap.String("episode", g.Episodes[j]),
					zap.String("raw", raw))
			}
			row.Counts[j] = v
			row.Total += v
		}
		g.Characters = append(g.Characters, row)
	}
	return g, nil
}

// ParseCount parses an appearance cell. Empty, non-numeric, non-finite and
// negative values yield (0, false).
func ParseCount(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00A0", " "))
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

// HasPlotRow reports whether the plot-group metadata row was found.
func (g *Grid) HasPlotRow() bool { return g.hasPlot }

// PlotMapping returns the plot-group id of every episode column, indexed like
// Episodes. Columns are positional, so duplicated headers keep their own ids.
// An empty or NaN plot cell yields an invalid PlotID.
func (g *Grid) PlotMapping() ([]PlotID, error) {
	if !g.hasPlot {
		return nil, &InputFormatError{Path: g.Name, Reason: fmt.Sprintf("no row labeled %q", g.plotLabel), Err: ErrMissingPlotRow}
	}
	out := make([]PlotID, len(g.Episodes))
	for j, ep := range g.Episodes {
		raw := strings.TrimSpace(g.plotRow[j])
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &InputFormatError{Path: g.Name, Reason: fmt.Sprintf("plot id for episode %s", ep), Err: err}
		}
		if math.IsNaN(v) {
			continue
		}
		out[j] = PlotID{Value: v, Valid: true}
	}
	return out, nil
}

// Character returns the first row with the given name.
func (g *Grid) Character(name string) (CharacterRow, bool) {
	for _, c := range g.Characters {
		if c.Name == name {
			return c, true
		}
	}
	return CharacterRow{}, false
}
