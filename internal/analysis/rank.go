package analysis

import (
	"sort"
)

// Score is a character's connectivity: the sum of its co-occurrence counts over
// all partners.
type Score struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ConnectivityScores sums pair counts per character. Characters are listed in the
// order they are first met while walking pairs in discovery order.
func ConnectivityScores(pc *PairCounts) []Score {
	index := map[string]int{}
	var out []Score
	add := func(name string, n int) {
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, Score{Name: name})
		}
		out[i].Score += n
	}
	for _, p := range pc.pairs {
		add(p.A, p.Count)
		add(p.B, p.Count)
	}
	return out
}

// TopConnected returns the n best-connected characters. Ties keep encounter order.
func TopConnected(pc *PairCounts, n int) []Score {
	scores := ConnectivityScores(pc)
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	if n < 0 {
		n = 0
	}
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores
}

// Matrix is a square symmetric co-occurrence matrix over sorted names.
type Matrix struct {
	Names  []string `json:"names"`
	Values [][]int   `json:"values"` // row-major, Values[i][j]
}

// BuildMatrix builds the co-occurrence matrix restricted to names. Names are sorted,
// the diagonal is zero and every entry is mirrored across it.
func BuildMatrix(pc *PairCounts, names []string) *Matrix {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	pos := make(map[string]int, len(sorted))
	for i, n := range sorted {
		pos[n] = i
	}
	vals := make([][]int, len(sorted))
	for i := range vals {
		vals[i] = make([]int, len(sorted))
	}
	for _, p := range pc.pairs {
		i, okA := pos[p.A]
		j, okB := pos[p.B]
		if !okA || !okB {
			continue
		}
		vals[i][j] = p.Count
		vals[j][i] = p.Count
	}
	return &Matrix{Names: sorted, Values: vals}
}

// Len returns the matrix dimension.
func (m *Matrix) Len() int { return len(m.Names) }

// Masked reports whether cell (i, j) is hidden when rendering: the upper triangle
// and the diagonal.
func (m *Matrix) Masked(i, j int) bool { return j >= i }

// Max returns the largest unmasked value.
func (m *Matrix) Max() int {
	best := 0
	for i := range m.Values {
		for j := 0; j < i; j++ {
			if m.Values[i][j] > best {
				best = m.Values[i][j]
			}
		}
	}
	return best
}
