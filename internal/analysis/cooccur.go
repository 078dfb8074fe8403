package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Pair is an unordered character pair, canonicalized so that A < B.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewPair returns the canonical pair for two names.
func NewPair(x, y string) Pair {
	if y < x {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// PairCount is a pair with its co-occurrence count.
type PairCount struct {
	Pair
	Count int `json:"count"`
}

// PairCounts holds one counter per canonical pair and remembers the order in
// which pairs were first seen.
type PairCounts struct {
	index map[Pair]int
	pairs []PairCount
}

// NewPairCounts returns an empty counter.
func NewPairCounts() *PairCounts {
	return &PairCounts{index: map[Pair]int{}}
}

// Add increments the counter for the pair (x, y). Self-pairs are ignored.
func (pc *PairCounts) Add(x, y string) {
	if x == y {
		return
	}
	p := NewPair(x, y)
	if i, ok := pc.index[p]; ok {
		pc.pairs[i].Count++
		return
	}
	pc.index[p] = len(pc.pairs)
	pc.pairs = append(pc.pairs, PairCount{Pair: p, Count: 1})
}

// Count returns the co-occurrence count of x and y in either order.
func (pc *PairCounts) Count(x, y string) int {
	if i, ok := pc.index[NewPair(x, y)]; ok {
		return pc.pairs[i].Count
	}
	return 0
}

// Len returns the number of distinct pairs.
func (pc *PairCounts) Len() int { return len(pc.pairs) }

// Pairs returns all pairs in discovery order.
func (pc *PairCounts) Pairs() []PairCount {
	out := make([]PairCount, len(pc.pairs))
	copy(out, pc.pairs)
	return out
}

// Top returns up to n pairs by count descending, ties by A then B.
func (pc *PairCounts) Top(n int) []PairCount {
	out := pc.Pairs()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CountCoOccurrences counts, for every pair of characters, the number of episodes
// in which both appear. Episodes are grid columns, so duplicated headers stay
// distinct. They are visited in ascending numeric id when every header is a
// number and in column order otherwise; within an episode, members are sorted
// and every 2-combination is counted once.
func CountCoOccurrences(facts []Fact) *PairCounts {
	type episode struct {
		column int
		id     float64
	}
	var order []episode
	numeric := true
	members := map[int]map[string]struct{}{}
	for _, f := range facts {
		set, ok := members[f.Column]
		if !ok {
			set = map[string]struct{}{}
			members[f.Column] = set
			id, err := strconv.ParseFloat(strings.TrimSpace(f.Episode), 64)
			if err != nil || math.IsNaN(id) {
				numeric = false
			}
			order = append(order, episode{column: f.Column, id: id})
		}
		set[f.Character] = struct{}{}
	}
	sort.Slice(order, func(i, j int) bool {
		if numeric && order[i].id != order[j].id {
			return order[i].id < order[j].id
		}
		return order[i].column < order[j].column
	})

	pc := NewPairCounts()
	for _, ep := range order {
		names := make([]string, 0, len(members[ep.column]))
		for name := range members[ep.column] {
			names = append(names, name)
		}
		sort.Strings(names)
		for a := 0; a < len(names); a++ {
			for b := a + 1; b < len(names); b++ {
				pc.Add(names[a], names[b])
			}
		}
	}
	return pc
}
