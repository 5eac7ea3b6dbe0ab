package decay

import "github.com/hqding/Thermal-FIST/internal/particle"

// Identifiers with a fixed decay type, matched on |PDG|.
var (
	knownStable = map[int64]bool{
		22: true, 11: true, 12: true, 13: true, 14: true, 16: true, // γ and leptons
		211: true, 321: true, 2212: true, 2112: true, // π±, K±, p, n
		1000010020: true, 1000010030: true, 1000020030: true, 1000020040: true, // d, t, ³He, ⁴He
	}
	knownWeak = map[int64]bool{
		310: true, 130: true, 311: true, // K0S, K0L, K0
		3122: true, 3222: true, 3112: true, // Λ, Σ+, Σ-
		3322: true, 3312: true, 3334: true, // Ξ0, Ξ-, Ω
		411: true, 421: true, 431: true, // D+, D0, Ds
		4122: true, 4132: true, 4232: true, 4332: true, // Λc, Ξc0, Ξc+, Ωc
		1010010030: true, // hypertriton
	}
	knownElectromagnetic = map[int64]bool{
		111: true, 221: true, 3212: true, // π0, η, Σ0
	}
)

// Classify returns the decay type of a species.
//
// Well-known identifiers are looked up first. Otherwise a species with its
// stability flag unset decays strongly; a flagged species carrying strange
// or charm content decays weakly; anything else is stable.
func Classify(s *particle.Species) particle.DecayType {
	pdg := s.PDG
	if pdg < 0 {
		pdg = -pdg
	}
	switch {
	case knownStable[pdg]:
		return particle.DecayStable
	case knownWeak[pdg]:
		return particle.DecayWeak
	case knownElectromagnetic[pdg]:
		return particle.DecayElectromagnetic
	case !s.Stable:
		return particle.DecayStrong
	case s.Strangeness != 0 || s.Charm != 0 || s.AbsStrange > 0 || s.AbsCharm > 0:
		return particle.DecayWeak
	}
	return particle.DecayStable
}

// ClassifyAll stores Classify's result on every species of the catalogue.
func ClassifyAll(cat *particle.Catalogue) {
	for i := 0; i < cat.Len(); i++ {
		s := cat.Species(i)
		s.DecayType = Classify(s)
	}
}

// decaysUnder reports whether s is followed further under fd.
// Species without channels always stop.
func decaysUnder(fd particle.Feeddown, s *particle.Species) bool {
	if len(s.Channels) == 0 {
		return false
	}
	return fd.Decays(Classify(s), s.Stable)
}
