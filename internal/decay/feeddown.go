package decay

import (
	"sort"

	"github.com/hqding/Thermal-FIST/internal/particle"
)

// Contribution is the mean number of one species produced per unit of
// another. Species is the target in a source row and the source in a
// target column.
type Contribution struct {
	Mean    float64 `json:"mean"`
	Species int     `json:"species"`
}

// FeeddownTable maps each source species to the mean yields of the species
// its decay chain ends in. Immutable once built.
type FeeddownTable struct {
	Feeddown particle.Feeddown
	rows     [][]Contribution
}

// Contributions returns the row of source, ordered by target index.
// A stopping species yields exactly one copy of itself.
func (t *FeeddownTable) Contributions(source int) []Contribution {
	if source < 0 || source >= len(t.rows) {
		return nil
	}
	return t.rows[source]
}

// Mean returns the mean number of target produced per unit of source.
func (t *FeeddownTable) Mean(source, target int) float64 {
	for _, c := range t.Contributions(source) {
		if c.Species == target {
			return c.Mean
		}
	}
	return 0
}

// ContributionsTo returns every source feeding target, ordered by source
// index. The target's own self-contribution is included when it stops.
func (t *FeeddownTable) ContributionsTo(target int) []Contribution {
	var out []Contribution
	for source, row := range t.rows {
		for _, c := range row {
			if c.Species == target {
				out = append(out, Contribution{Mean: c.Mean, Species: source})
			}
		}
	}
	return out
}

// Len returns the number of source rows.
func (t *FeeddownTable) Len() int {
	return len(t.rows)
}

// ResolveFeeddown builds the feeddown table for classification fd.
//
// One sweep in mass order: a stopping species contributes one copy of
// itself; a decaying species sums BR × multiplicity × daughter row over its
// channels. Branching ratios are used as given, so un-normalised input
// scales the means proportionally.
func ResolveFeeddown(cat *particle.Catalogue, fd particle.Feeddown) (*FeeddownTable, error) {
	rows := make([][]Contribution, cat.Len())

	err := sweep(cat, fd, nil, func(s *particle.Species, decays bool) error {
		if !decays {
			rows[s.Index] = []Contribution{{Mean: 1, Species: s.Index}}
			return nil
		}

		acc := make(map[int]float64)
		for _, ch := range s.Channels {
			for _, d := range ch.Multiplicities() {
				w := ch.BranchingRatio * float64(d.Multiplicity)
				for _, c := range rows[d.Species] {
					acc[c.Species] += w * c.Mean
				}
			}
		}

		row := make([]Contribution, 0, len(acc))
		for target, mean := range acc {
			row = append(row, Contribution{Mean: mean, Species: target})
		}
		sort.Slice(row, func(a, b int) bool { return row[a].Species < row[b].Species })
		rows[s.Index] = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &FeeddownTable{Feeddown: fd, rows: rows}, nil
}
