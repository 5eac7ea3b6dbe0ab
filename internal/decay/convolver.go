package decay

import (
	"log/slog"

	"github.com/hqding/Thermal-FIST/internal/particle"
)

// convolver resolves joint final-state distributions for every species in
// one mass-ordered sweep. Each species' distribution is built once, in its
// own slot, and reused by every parent that lists it.
type convolver struct {
	cat      *particle.Catalogue
	fd       particle.Feeddown
	limit    int
	observer Observer
	logger   *slog.Logger
}

// resolveAll returns the distribution of every species (nil for species
// excluded by only).
func (c *convolver) resolveAll(only []bool) ([]Distribution, error) {
	dists := make([]Distribution, c.cat.Len())

	err := sweep(c.cat, c.fd, only, func(s *particle.Species, decays bool) error {
		if !decays {
			dists[s.Index] = Distribution{{Probability: 1, Counts: []Count{{Species: s.Index, N: 1}}}}
			return nil
		}

		mix := newBuilder()
		for _, ch := range s.Channels {
			// Daughters are independent: the channel's final state is the
			// join of every daughter copy's final state.
			final := identity()
			for _, d := range ch.Multiplicities() {
				for r := 0; r < d.Multiplicity; r++ {
					final = c.trim(s.Index, convolve(final, dists[d.Species]))
				}
			}
			for _, o := range final {
				// Zero-weight outcomes would only take room under the cap.
				if p := ch.BranchingRatio * o.Probability; p != 0 {
					mix.add(o.Counts, p)
				}
			}
			mix = builderFrom(c.trim(s.Index, mix.outcomes))
		}

		dists[s.Index] = mix.outcomes
		c.observer.ObserveDistributionSize(len(mix.outcomes))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dists, nil
}

// trim applies the outcome cap and reports dropped outcomes.
func (c *convolver) trim(species int, d Distribution) Distribution {
	d, dropped := truncate(d, c.limit)
	if dropped > 0 {
		c.observer.ObserveTruncation(dropped)
		c.logger.Debug("distribution truncated",
			"species", species,
			"dropped", dropped,
			"kept", len(d),
		)
	}
	return d
}

func builderFrom(d Distribution) *builder {
	b := &builder{index: make(map[string]int, len(d)), outcomes: d}
	for i, o := range d {
		b.index[o.key()] = i
	}
	return b
}

// clone deep-copies a distribution so callers cannot alter stored tables.
func (d Distribution) clone() Distribution {
	out := make(Distribution, len(d))
	for i, o := range d {
		out[i] = Outcome{Probability: o.Probability, Counts: append([]Count{}, o.Counts...)}
	}
	return out
}
