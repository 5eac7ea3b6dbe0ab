package decay

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/hqding/Thermal-FIST/internal/particle"
)

// Defaults for the mass-integration grid.
const (
	DefaultMassNodes = 16
	DefaultWidthCut  = 2.0
)

// PropertiesOptions configures FillDecayProperties.
type PropertiesOptions struct {
	// MassNodes is the number of Gauss-Legendre nodes per resonance.
	MassNodes int

	// WidthCut bounds the grid to m0 ± WidthCut·Γ (the lower edge never
	// goes below the lightest channel threshold).
	WidthCut float64
}

func (o PropertiesOptions) withDefaults() PropertiesOptions {
	if o.MassNodes <= 0 {
		o.MassNodes = DefaultMassNodes
	}
	if o.WidthCut <= 0 {
		o.WidthCut = DefaultWidthCut
	}
	return o
}

// FillDecayProperties computes, for every channel of every species, the mass
// threshold, the released orbital angular momentum and the mass-dependent
// branching ratios on the parent's mass grid.
//
// Only engine-computed fields are written; the catalogue version is unchanged.
func FillDecayProperties(cat *particle.Catalogue, opts PropertiesOptions) {
	opts = opts.withDefaults()
	for i := 0; i < cat.Len(); i++ {
		s := cat.Species(i)
		for j := range s.Channels {
			ch := &s.Channels[j]
			ch.Threshold = 0
			for _, d := range ch.Daughters {
				ch.Threshold += cat.Species(d).Mass
			}
			ch.Flags = 0
			if ch.Threshold > s.Mass {
				ch.Flags |= particle.FlagBelowThreshold
			}
			l, ok := releasedAngularMomentum(cat, s, ch)
			ch.L = l
			if !ok {
				ch.Flags |= particle.FlagAngularMomentum
			}
		}
		fillMassGrid(s, opts)
	}
}

// releasedAngularMomentum returns the smallest orbital angular momentum of a
// two-body channel compatible with spin coupling and, when all parities are
// known, parity conservation. Channels with other daughter counts use L = 0.
// ok is false when no L up to the coupling bound satisfies the rules.
func releasedAngularMomentum(cat *particle.Catalogue, parent *particle.Species, ch *particle.Channel) (int, bool) {
	if len(ch.Daughters) != 2 {
		return 0, true
	}
	d1 := cat.Species(ch.Daughters[0])
	d2 := cat.Species(ch.Daughters[1])

	// Spins in units of 1/2.
	j := twiceSpin(parent)
	s1 := twiceSpin(d1)
	s2 := twiceSpin(d2)
	if (j+s1+s2)%2 != 0 {
		return 0, false
	}

	checkParity := parent.Parity != 0 && d1.Parity != 0 && d2.Parity != 0
	maxL := (j+s1+s2)/2 + 1
	for l := 0; l <= maxL; l++ {
		if checkParity {
			sign := 1
			if l%2 == 1 {
				sign = -1
			}
			if parent.Parity != d1.Parity*d2.Parity*sign {
				continue
			}
		}
		if couples(j, s1, s2, 2*l) {
			return l, true
		}
	}
	return 0, false
}

// couples reports whether orbital momentum l2 and a total daughter spin
// S ∈ |s1−s2|..s1+s2 can combine to j (all doubled).
func couples(j, s1, s2, l2 int) bool {
	lo := s1 - s2
	if lo < 0 {
		lo = -lo
	}
	for s := lo; s <= s1+s2; s += 2 {
		diff := l2 - s
		if diff < 0 {
			diff = -diff
		}
		if diff <= j && j <= l2+s {
			return true
		}
	}
	return false
}

func twiceSpin(s *particle.Species) int {
	if s.Degeneracy <= 0 {
		return 0
	}
	return s.Degeneracy - 1
}

// phaseSpace is (1 − (thr/m)²)^(L+1/2), zero at or below threshold.
func phaseSpace(m, thr float64, l int) float64 {
	if m <= thr {
		return 0
	}
	r := thr / m
	return math.Pow(1-r*r, float64(l)+0.5)
}

// fillMassGrid sets the species' quadrature nodes, weighted by a relativistic
// Breit-Wigner with energy-dependent width, and each channel's branching
// ratio at those nodes.
func fillMassGrid(s *particle.Species, opts PropertiesOptions) {
	s.MassGrid = particle.MassGrid{}
	for j := range s.Channels {
		s.Channels[j].BranchingVsMass = nil
	}
	if s.Width <= 0 || len(s.Channels) == 0 {
		return
	}

	minThr := math.Inf(1)
	for _, ch := range s.Channels {
		minThr = math.Min(minThr, ch.Threshold)
	}
	lo := math.Max(minThr, s.Mass-opts.WidthCut*s.Width)
	hi := s.Mass + opts.WidthCut*s.Width
	if hi <= lo {
		return
	}

	n := opts.MassNodes
	masses := make([]float64, n)
	weights := make([]float64, n)
	quad.Legendre{}.FixedLocations(masses, weights, lo, hi)

	pole := make([]float64, len(s.Channels))
	for j, ch := range s.Channels {
		pole[j] = phaseSpace(s.Mass, ch.Threshold, ch.L)
	}
	totalBR := s.TotalBranchingRatio()

	partial := make([][]float64, len(s.Channels))
	for j := range partial {
		partial[j] = make([]float64, n)
	}
	norm := 0.0
	for k, m := range masses {
		sum := 0.0
		for j, ch := range s.Channels {
			ratio := 0.0
			switch {
			case pole[j] > 0:
				ratio = phaseSpace(m, ch.Threshold, ch.L) / pole[j]
			case m > ch.Threshold:
				ratio = 1
			}
			partial[j][k] = ch.BranchingRatio * ratio
			sum += partial[j][k]
		}

		gamma := s.Width
		if totalBR > 0 {
			gamma = s.Width * sum / totalBR
		}
		m2 := m*m - s.Mass*s.Mass
		bw := 2 * m * s.Mass * gamma / (m2*m2 + s.Mass*s.Mass*gamma*gamma)
		weights[k] *= bw
		norm += weights[k]

		for j := range s.Channels {
			if sum > 0 {
				partial[j][k] = partial[j][k] / sum * totalBR
			} else {
				partial[j][k] = 0
			}
		}
	}
	if norm <= 0 {
		return
	}
	for k := range weights {
		weights[k] /= norm
	}

	s.MassGrid = particle.MassGrid{Masses: masses, Weights: weights}
	for j := range s.Channels {
		s.Channels[j].BranchingVsMass = partial[j]
	}
}
