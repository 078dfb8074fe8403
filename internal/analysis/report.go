package analysis

import (
	"fmt"

	"github.com/KaramelBytes/castgraph/internal/table"
	"go.uber.org/zap"
)

// Options controls the analysis.
type Options struct {
	// TopAppearances limits the total-appearances listing.
	TopAppearances int
	// TopPairs limits the pair co-occurrence listing.
	TopPairs int
	// PlotTopK is the number of leading characters listed per plot group.
	PlotTopK int
	// TopN is the number of best-connected characters kept for the matrix.
	TopN int
	// PlotLabel is the first-column label of the plot-group metadata row.
	PlotLabel string
	// FocusCharacter selects the character whose per-episode arc is reported.
	FocusCharacter string
	Load           table.LoadOptions
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() Options {
	return Options{
		TopAppearances: 10,
		TopPairs:       10,
		PlotTopK:       3,
		TopN:           15,
		PlotLabel:      table.DefaultPlotLabel,
		FocusCharacter: "Rose",
	}
}

// CharacterArc is one character's normalized count for every episode.
type CharacterArc struct {
	Name     string    `json:"name"`
	Episodes []string  `json:"episodes"`
	Counts   []float64 `json:"counts"`
}

// Report collects every statistic computed for one appearance table.
type Report struct {
	RunID        string           `json:"run_id,omitempty"`
	Name         string           `json:"name"`
	Characters   int              `json:"characters"`
	Episodes     int              `json:"episodes"`
	Facts        int              `json:"facts"`
	PlotGroups   int              `json:"plot_groups"`
	Pairs        int              `json:"pairs"`
	Totals       []CharacterTotal `json:"totals"`
	Focus        *CharacterArc    `json:"focus,omitempty"`
	PlotLeaders  []PlotLeaders    `json:"plot_leaders"`
	TopPairs     []PairCount      `json:"top_pairs"`
	TopN         int              `json:"top_n"`
	Connected    []Score          `json:"connected"`
	Matrix       *Matrix          `json:"matrix"`
	CoercedCells int              `json:"coerced_cells"`
	Warnings     []string         `json:"warnings,omitempty"`
}

// AnalyzeFile loads a CSV, TSV or XLSX file and analyzes it.
func AnalyzeFile(path string, opt Options, logger *zap.Logger) (*Report, error) {
	t, err := table.Load(path, opt.Load)
	if err != nil {
		return nil, err
	}
	return Analyze(t, opt, logger)
}

// Analyze runs the pipeline: normalize, reshape, aggregate and rank.
func Analyze(t *table.Table, opt Options, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	g, err := table.NewGrid(t, opt.PlotLabel, logger)
	if err != nil {
		return nil, err
	}
	facts, err := Reshape(g)
	if err != nil {
		return nil, fmt.Errorf("reshape: %w", err)
	}
	logger.Debug("reshaped appearance grid",
		zap.String("table", g.Name),
		zap.Int("characters", len(g.Characters)),
		zap.Int("episodes", len(g.Episodes)),
		zap.Int("facts", len(facts)))

	rep := &Report{
		Name:         g.Name,
		Characters:   len(g.Characters),
		Episodes:     len(g.Episodes),
		Facts:        len(facts),
		TopN:         opt.TopN,
		CoercedCells: len(g.Fallbacks),
	}

	totals := TotalAppearances(g)
	if opt.TopAppearances >= 0 && len(totals) > opt.TopAppearances {
		totals = totals[:opt.TopAppearances]
	}
	rep.Totals = totals

	if c, ok := g.Character(opt.FocusCharacter); ok {
		rep.Focus = &CharacterArc{
			Name:     c.Name,
			Episodes: append([]string(nil), g.Episodes...),
			Counts:   append([]float64(nil), c.Counts...),
		}
	} else if opt.FocusCharacter != "" {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("'%s' character not found in the dataset.", opt.FocusCharacter))
	}

	rep.PlotLeaders = TopPerPlot(facts, opt.PlotTopK)
	rep.PlotGroups = len(rep.PlotLeaders)

	pc := CountCoOccurrences(facts)
	rep.Pairs = pc.Len()
	rep.TopPairs = pc.Top(opt.TopPairs)
	rep.Connected = TopConnected(pc, opt.TopN)
	names := make([]string, len(rep.Connected))
	for i, s := range rep.Connected {
		names[i] = s.Name
	}
	rep.Matrix = BuildMatrix(pc, names)

	if n := len(g.Fallbacks); n > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("coerced %d malformed cell(s) to 0", n))
	}
	var unplotted int
	for _, f := range facts {
		if !f.Plot.Valid {
			unplotted++
		}
	}
	if unplotted > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d appearance(s) have no plot group", unplotted))
	}
	return rep, nil
}
