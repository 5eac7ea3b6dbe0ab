package decay

import (
	"sort"

	"github.com/hqding/Thermal-FIST/internal/particle"
)

// Cumulants holds the first four cumulants of a count: mean, variance,
// third and fourth cumulant.
type Cumulants [4]float64

// Mean returns the first cumulant.
func (k Cumulants) Mean() float64 { return k[0] }

// Variance returns the second cumulant.
func (k Cumulants) Variance() float64 { return k[1] }

// Moments converts cumulants to raw moments E[X], E[X²], E[X³], E[X⁴].
func (k Cumulants) Moments() [4]float64 {
	k1, k2, k3, k4 := k[0], k[1], k[2], k[3]
	return [4]float64{
		k1,
		k2 + k1*k1,
		k3 + 3*k2*k1 + k1*k1*k1,
		k4 + 4*k3*k1 + 3*k2*k2 + 6*k2*k1*k1 + k1*k1*k1*k1,
	}
}

// CumulantsFromMoments converts raw moments to cumulants.
func CumulantsFromMoments(m [4]float64) Cumulants {
	m1, m2, m3, m4 := m[0], m[1], m[2], m[3]
	return Cumulants{
		m1,
		m2 - m1*m1,
		m3 - 3*m2*m1 + 2*m1*m1*m1,
		m4 - 4*m3*m1 - 3*m2*m2 + 12*m2*m1*m1 - 6*m1*m1*m1*m1,
	}
}

// TargetCumulants pairs a target species with the cumulants of its count.
type TargetCumulants struct {
	Species   int       `json:"species"`
	Cumulants Cumulants `json:"cumulants"`
}

// resolveCumulants computes, for every species, the cumulants of the count
// of each final species its chain can produce, without building joint
// distributions.
//
// Within a channel the daughters are independent, so their cumulants add.
// Across channels the channel is itself random with probability BR: the
// per-channel cumulants are turned into raw moments, mixed with the
// branching ratios, and turned back into cumulants.
func resolveCumulants(cat *particle.Catalogue, fd particle.Feeddown) ([][]TargetCumulants, error) {
	rows := make([][]TargetCumulants, cat.Len())

	err := sweep(cat, fd, nil, func(s *particle.Species, decays bool) error {
		if !decays {
			rows[s.Index] = []TargetCumulants{{Species: s.Index, Cumulants: Cumulants{1, 0, 0, 0}}}
			return nil
		}

		moments := make(map[int]*[4]float64)
		for _, ch := range s.Channels {
			sum := make(map[int]*Cumulants)
			for _, d := range ch.Multiplicities() {
				for _, tc := range rows[d.Species] {
					k := sum[tc.Species]
					if k == nil {
						k = &Cumulants{}
						sum[tc.Species] = k
					}
					for n := range k {
						k[n] += float64(d.Multiplicity) * tc.Cumulants[n]
					}
				}
			}
			for target, k := range sum {
				m := moments[target]
				if m == nil {
					m = &[4]float64{}
					moments[target] = m
				}
				raw := k.Moments()
				for n := range m {
					m[n] += ch.BranchingRatio * raw[n]
				}
			}
		}

		row := make([]TargetCumulants, 0, len(moments))
		for target, m := range moments {
			row = append(row, TargetCumulants{Species: target, Cumulants: CumulantsFromMoments(*m)})
		}
		sort.Slice(row, func(a, b int) bool { return row[a].Species < row[b].Species })
		rows[s.Index] = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
