package decay

import "github.com/hqding/Thermal-FIST/internal/particle"

// Point is the probability of one value of a scalar final-state quantity.
type Point struct {
	Value       int     `json:"value"`
	Probability float64 `json:"p"`
}

// scalar is a dense distribution over consecutive integers starting at min.
// The zero value is the empty distribution.
type scalar struct {
	min int
	p   []float64
}

func pointMass(v int) scalar {
	return scalar{min: v, p: []float64{1}}
}

// add accumulates probability p at value v, growing the range as needed.
func (s *scalar) add(v int, p float64) {
	if len(s.p) == 0 {
		s.min = v
		s.p = []float64{p}
		return
	}
	if v < s.min {
		grown := make([]float64, len(s.p)+s.min-v)
		copy(grown[s.min-v:], s.p)
		s.p = grown
		s.min = v
	}
	if k := v - s.min; k >= len(s.p) {
		s.p = append(s.p, make([]float64, k-len(s.p)+1)...)
	}
	s.p[v-s.min] += p
}

// convolveScalar is the distribution of the sum of two independent values.
func convolveScalar(a, b scalar) scalar {
	if len(a.p) == 0 || len(b.p) == 0 {
		return scalar{}
	}
	out := scalar{min: a.min + b.min, p: make([]float64, len(a.p)+len(b.p)-1)}
	for i, pa := range a.p {
		for j, pb := range b.p {
			out.p[i+j] += pa * pb
		}
	}
	return out
}

// points lists the non-zero entries in ascending value order.
func (s scalar) points() []Point {
	out := make([]Point, 0, len(s.p))
	for k, p := range s.p {
		if p != 0 {
			out = append(out, Point{Value: s.min + k, Probability: p})
		}
	}
	return out
}

// resolveScalar computes the distribution of Σ value(final species) over
// the decay chain of res. Only species reachable from res are swept.
func resolveScalar(cat *particle.Catalogue, fd particle.Feeddown, res int, value func(*particle.Species) int) ([]Point, error) {
	dists := make([]scalar, cat.Len())

	err := sweep(cat, fd, reachable(cat, fd, res), func(s *particle.Species, decays bool) error {
		if !decays {
			dists[s.Index] = pointMass(value(s))
			return nil
		}

		var mix scalar
		for _, ch := range s.Channels {
			final := pointMass(0)
			for _, d := range ch.Multiplicities() {
				for r := 0; r < d.Multiplicity; r++ {
					final = convolveScalar(final, dists[d.Species])
				}
			}
			for k, p := range final.p {
				mix.add(final.min+k, ch.BranchingRatio*p)
			}
		}
		dists[s.Index] = mix
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dists[res].points(), nil
}

// DecayProbabilityVector returns the distribution of the number of target
// species in the final state of one decay of res.
func DecayProbabilityVector(cat *particle.Catalogue, fd particle.Feeddown, res, target int) ([]Point, error) {
	if err := checkIndex(cat, res); err != nil {
		return nil, err
	}
	if err := checkIndex(cat, target); err != nil {
		return nil, err
	}
	return resolveScalar(cat, fd, res, func(s *particle.Species) int {
		if s.Index == target {
			return 1
		}
		return 0
	})
}

// DecayProbabilityVectorByCharge returns the distribution of the final-state
// total along a charge axis for one decay of res.
func DecayProbabilityVectorByCharge(cat *particle.Catalogue, fd particle.Feeddown, res int, axis particle.ChargeAxis) ([]Point, error) {
	if err := checkIndex(cat, res); err != nil {
		return nil, err
	}
	return resolveScalar(cat, fd, res, func(s *particle.Species) int {
		return s.ChargeValue(axis)
	})
}
