package decay

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultDistributionCap bounds the number of distinct outcomes kept per
// distribution.
const DefaultDistributionCap = 1000

// Count is the number of one species in a final state.
type Count struct {
	Species int `json:"species"`
	N       int `json:"n"`
}

// Outcome is one final state with its probability. Counts are sorted by
// species index and never hold zeros.
type Outcome struct {
	Probability float64 `json:"p"`
	Counts      []Count `json:"counts"`
}

// Distribution is a discrete joint distribution over final states, ordered
// by decreasing probability (ties by ascending count vector).
type Distribution []Outcome

// Total returns the summed probability.
func (d Distribution) Total() float64 {
	total := 0.0
	for _, o := range d {
		total += o.Probability
	}
	return total
}

// CountOf returns the number of species in outcome o.
func (o Outcome) CountOf(species int) int {
	i := sort.Search(len(o.Counts), func(i int) bool { return o.Counts[i].Species >= species })
	if i < len(o.Counts) && o.Counts[i].Species == species {
		return o.Counts[i].N
	}
	return 0
}

// Dense expands the outcome into a vector of n per-species counts.
func (o Outcome) Dense(n int) []int {
	out := make([]int, n)
	for _, c := range o.Counts {
		if c.Species < n {
			out[c.Species] = c.N
		}
	}
	return out
}

// Marginal returns the distribution of the count of one species.
func (d Distribution) Marginal(species int) []Point {
	var acc scalar
	for _, o := range d {
		acc.add(o.CountOf(species), o.Probability)
	}
	return acc.points()
}

// Moments returns the first four raw moments of the count of one species.
func (d Distribution) Moments(species int) [4]float64 {
	var m [4]float64
	for _, o := range d {
		x := float64(o.CountOf(species))
		m[0] += o.Probability * x
		m[1] += o.Probability * x * x
		m[2] += o.Probability * x * x * x
		m[3] += o.Probability * x * x * x * x
	}
	return m
}

// key encodes the counts as a map key.
func (o Outcome) key() string {
	var b strings.Builder
	for _, c := range o.Counts {
		b.WriteString(strconv.Itoa(c.Species))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(c.N))
		b.WriteByte(';')
	}
	return b.String()
}

// compareCounts orders sparse count vectors lexicographically as if they
// were dense vectors indexed by species.
func compareCounts(a, b []Count) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i].Species < b[j].Species):
			// b holds zero at a[i].Species
			return 1
		case i >= len(a) || b[j].Species < a[i].Species:
			return -1
		case a[i].N != b[j].N:
			if a[i].N < b[j].N {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	return 0
}

// mergeCounts adds two sparse count vectors.
func mergeCounts(a, b []Count) []Count {
	out := make([]Count, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Species < b[j].Species:
			out = append(out, a[i])
			i++
		case b[j].Species < a[i].Species:
			out = append(out, b[j])
			j++
		default:
			out = append(out, Count{Species: a[i].Species, N: a[i].N + b[j].N})
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// builder accumulates outcomes, merging equal count vectors. Outcomes keep
// their first-insertion position so accumulation order is deterministic.
type builder struct {
	index    map[string]int
	outcomes Distribution
}

func newBuilder() *builder {
	return &builder{index: make(map[string]int)}
}

func (b *builder) add(counts []Count, p float64) {
	o := Outcome{Probability: p, Counts: counts}
	k := o.key()
	if i, ok := b.index[k]; ok {
		b.outcomes[i].Probability += p
		return
	}
	b.index[k] = len(b.outcomes)
	b.outcomes = append(b.outcomes, o)
}

// identity is the empty final state with probability one.
func identity() Distribution {
	return Distribution{{Probability: 1, Counts: []Count{}}}
}

// convolve joins two independent final-state distributions.
func convolve(a, b Distribution) Distribution {
	bl := newBuilder()
	for _, oa := range a {
		for _, ob := range b {
			bl.add(mergeCounts(oa.Counts, ob.Counts), oa.Probability*ob.Probability)
		}
	}
	return bl.outcomes
}
