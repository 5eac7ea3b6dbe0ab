package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hqding/Thermal-FIST/internal/particle"
)

// CatalogueBuilder assembles small species lists for tests.
//
// Species are appended in call order and addressed by the index each
// constructor returns. Quantum numbers default to zero; use With to set
// anything the constructors don't take.
type CatalogueBuilder struct {
	species []particle.Species
}

// NewCatalogueBuilder creates an empty builder.
func NewCatalogueBuilder() *CatalogueBuilder {
	return &CatalogueBuilder{}
}

// Stable appends a species with its stability flag set and returns its index.
func (b *CatalogueBuilder) Stable(name string, pdg int64, mass float64, charge int) int {
	b.species = append(b.species, particle.Species{
		PDG:        pdg,
		Name:       name,
		Mass:       mass,
		Degeneracy: 1,
		Charge:     charge,
		Stable:     true,
	})
	return len(b.species) - 1
}

// Resonance appends an unstable species and returns its index.
func (b *CatalogueBuilder) Resonance(name string, pdg int64, mass, width float64, charge int) int {
	b.species = append(b.species, particle.Species{
		PDG:        pdg,
		Name:       name,
		Mass:       mass,
		Width:      width,
		Degeneracy: 1,
		Charge:     charge,
	})
	return len(b.species) - 1
}

// With applies f to species i.
func (b *CatalogueBuilder) With(i int, f func(s *particle.Species)) *CatalogueBuilder {
	f(&b.species[i])
	return b
}

// Channel appends a decay channel to parent.
func (b *CatalogueBuilder) Channel(parent int, br float64, daughters ...int) *CatalogueBuilder {
	b.species[parent].Channels = append(b.species[parent].Channels, particle.Channel{
		BranchingRatio: br,
		Daughters:      daughters,
	})
	return b
}

// Species returns a copy of the list built so far.
func (b *CatalogueBuilder) Species() []particle.Species {
	return append([]particle.Species(nil), b.species...)
}

// Build finalizes the catalogue, failing the test on error.
func (b *CatalogueBuilder) Build(t testing.TB) *particle.Catalogue {
	t.Helper()
	cat, err := particle.NewCatalogue(b.species)
	require.NoError(t, err, "build catalogue")
	return cat
}

// Indices of the species in HadronCatalogue.
const (
	Gamma = iota
	PiZero
	PiPlus
	PiMinus
	Proton
	Neutron
	Lambda
	Rho
	Omega
	Delta
	SigmaStar
)

// HadronCatalogue returns a small hadron list with a four-level chain:
// Σ*+ → Λ π+, Λ → p π- | n π0, π0 → γ γ.
//
// Λ and π0 carry the stability flag, so how deep a chain is followed
// depends on the feeddown classification. All branching ratios are
// normalized and every channel conserves B, Q, S and C.
func HadronCatalogue(t testing.TB) *particle.Catalogue {
	t.Helper()
	return HadronBuilder().Build(t)
}

// HadronBuilder returns the builder behind HadronCatalogue so tests can
// extend or perturb it.
func HadronBuilder() *CatalogueBuilder {
	b := NewCatalogueBuilder()

	gamma := b.Stable("gamma", 22, 0, 0)
	pi0 := b.Stable("pi0", 111, 0.1349768, 0)
	pip := b.Stable("pi+", 211, 0.13957039, 1)
	pim := b.Stable("pi-", -211, 0.13957039, -1)
	p := b.Stable("p", 2212, 0.93827208, 1)
	n := b.Stable("n", 2112, 0.93956542, 0)
	lambda := b.Stable("Lambda", 3122, 1.115683, 0)
	rho := b.Resonance("rho0", 113, 0.77526, 0.1491, 0)
	omega := b.Resonance("omega", 223, 0.78266, 0.00868, 0)
	delta := b.Resonance("Delta++", 2224, 1.232, 0.117, 2)
	sigma := b.Resonance("Sigma*+", 3224, 1.3828, 0.036, 1)

	for _, i := range []int{pi0, pip, pim, rho, omega} {
		b.With(i, func(s *particle.Species) { s.Parity = -1 })
	}
	for _, i := range []int{rho, omega} {
		b.With(i, func(s *particle.Species) { s.Degeneracy = 3 })
	}
	for _, i := range []int{p, n, lambda, delta, sigma} {
		b.With(i, func(s *particle.Species) {
			s.Baryon = 1
			s.Parity = 1
			s.Degeneracy = 2
		})
	}
	for _, i := range []int{delta, sigma} {
		b.With(i, func(s *particle.Species) { s.Degeneracy = 4 })
	}
	for _, i := range []int{lambda, sigma} {
		b.With(i, func(s *particle.Species) {
			s.Strangeness = -1
			s.AbsStrange = 1
		})
	}

	b.Channel(pi0, 1, gamma, gamma)
	b.Channel(lambda, 0.64, p, pim)
	b.Channel(lambda, 0.36, n, pi0)
	b.Channel(rho, 1, pip, pim)
	b.Channel(omega, 0.9, pip, pim, pi0)
	b.Channel(omega, 0.1, pi0, gamma)
	b.Channel(delta, 1, p, pip)
	b.Channel(sigma, 1, lambda, pip)

	return b
}
