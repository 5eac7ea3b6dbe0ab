package decay

import "github.com/hqding/Thermal-FIST/internal/particle"

// visitFunc resolves one species. decays is false for species that stop
// under the sweep's classification; their daughters are not consulted.
type visitFunc func(s *particle.Species, decays bool) error

// sweep visits species in non-decreasing mass order so that every daughter
// is resolved before its parent. Each species owns one result slot by index
// and reads its daughters' slots only through visit.
//
// When only is non-nil, species with only[i] == false are skipped.
// A decaying species whose daughter has not been visited yet, or is not
// strictly lighter than it, fails the sweep with an UNRESOLVED_DAUGHTER
// integrity error. Equal masses would otherwise resolve or fail depending
// on index order.
func sweep(cat *particle.Catalogue, fd particle.Feeddown, only []bool, visit visitFunc) error {
	resolved := make([]bool, cat.Len())
	for _, i := range cat.MassOrder() {
		if only != nil && !only[i] {
			continue
		}
		s := cat.Species(i)
		decays := decaysUnder(fd, s)
		if decays {
			for j, ch := range s.Channels {
				for _, d := range ch.Daughters {
					if !resolved[d] || cat.Species(d).Mass >= s.Mass {
						return particle.NewUnresolvedDaughterError(i, j, d)
					}
				}
			}
		}
		if err := visit(s, decays); err != nil {
			return err
		}
		resolved[i] = true
	}
	return nil
}

// reachable marks res and every species reachable from it through decaying
// channels under fd. A cycle leaves the recursion bounded because visited
// species are not revisited; the sweep then reports it.
func reachable(cat *particle.Catalogue, fd particle.Feeddown, res int) []bool {
	seen := make([]bool, cat.Len())
	stack := []int{res}
	seen[res] = true
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := cat.Species(i)
		if !decaysUnder(fd, s) {
			continue
		}
		for _, ch := range s.Channels {
			for _, d := range ch.Daughters {
				if !seen[d] {
					seen[d] = true
					stack = append(stack, d)
				}
			}
		}
	}
	return seen
}
