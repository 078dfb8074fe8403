package analysis

import (
	"github.com/KaramelBytes/castgraph/internal/table"
)

// Fact records that a character appeared in an episode.
type Fact struct {
	Character string
	Episode   string
	Column    int // episode position in the grid
	Appeared  float64
	Plot      table.PlotID
}

// Reshape turns the wide grid into long-form facts, keeping only appearances > 0.
// Facts are ordered by character row, then episode column. Episodes without a
// plot id get an invalid PlotID rather than an error.
func Reshape(g *table.Grid) ([]Fact, error) {
	mapping, err := g.PlotMapping()
	if err != nil {
		return nil, err
	}
	var facts []Fact
	for _, c := range g.Characters {
		for j, v := range c.Counts {
			if v <= 0 {
				continue
			}
			facts = append(facts, Fact{
				Character: c.Name,
				Episode:   g.Episodes[j],
				Column:    j,
				Appeared:  v,
				Plot:      mapping[j],
			})
		}
	}
	return facts, nil
}
