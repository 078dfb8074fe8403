package analysis

import (
	"sort"

	"github.com/KaramelBytes/castgraph/internal/table"
)

// CharacterTotal is a character's appearance count summed over all episodes.
type CharacterTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// TotalAppearances lists every character row by total descending. Ties keep row order.
func TotalAppearances(g *table.Grid) []CharacterTotal {
	out := make([]CharacterTotal, len(g.Characters))
	for i, c := range g.Characters {
		out[i] = CharacterTotal{Name: c.Name, Total: c.Total}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// PlotLeaders holds the most frequent characters of one plot group.
type PlotLeaders struct {
	Plot       float64  `json:"plot"`
	Characters []string `json:"characters"`
	Counts     []int    `json:"counts"` // episodes in the group the character appears in
}

// TopPerPlot returns, per plot group in ascending id order, the k characters with
// the most appearance facts in that group. Facts without a plot group are skipped.
// Candidates are considered in name order, so equal counts resolve alphabetically.
func TopPerPlot(facts []Fact, k int) []PlotLeaders {
	counts := map[float64]map[string]int{}
	for _, f := range facts {
		if !f.Plot.Valid {
			continue
		}
		byName := counts[f.Plot.Value]
		if byName == nil {
			byName = map[string]int{}
			counts[f.Plot.Value] = byName
		}
		byName[f.Character]++
	}

	plots := make([]float64, 0, len(counts))
	for p := range counts {
		plots = append(plots, p)
	}
	sort.Float64s(plots)

	out := make([]PlotLeaders, 0, len(plots))
	for _, p := range plots {
		type entry struct {
			name  string
			count int
		}
		entries := make([]entry, 0, len(counts[p]))
		for name, n := range counts[p] {
			entries = append(entries, entry{name, n})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].count > entries[j].count })
		if k >= 0 && len(entries) > k {
			entries = entries[:k]
		}
		pl := PlotLeaders{Plot: p}
		for _, e := range entries {
			pl.Characters = append(pl.Characters, e.name)
			pl.Counts = append(pl.Counts, e.count)
		}
		out = append(out, pl)
	}
	return out
}
