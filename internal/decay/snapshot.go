package decay

import "github.com/hqding/Thermal-FIST/internal/particle"

// Snapshot holds every table derived from one catalogue version.
// It is immutable: accessors return copies, and the catalogue it was built
// from is a private frozen copy.
type Snapshot struct {
	// Version is the catalogue version the tables were computed from.
	Version string

	// DistributionCap is the outcome cap used for joint distributions.
	DistributionCap int

	// DistributionFeeddown is the classification used for distributions,
	// probability vectors and cumulants.
	DistributionFeeddown particle.Feeddown

	catalogue     *particle.Catalogue
	feeddown      []*FeeddownTable
	distributions []Distribution
	cumulants     [][]TargetCumulants
}

// Catalogue returns the frozen catalogue, with classification and channel
// properties filled in. Treat it as read-only.
func (s *Snapshot) Catalogue() *particle.Catalogue {
	return s.catalogue
}

// Stale reports whether cat has changed since the snapshot was computed.
func (s *Snapshot) Stale(cat *particle.Catalogue) bool {
	return cat.Version() != s.Version
}

// Feeddown returns the table for classification fd.
func (s *Snapshot) Feeddown(fd particle.Feeddown) *FeeddownTable {
	if int(fd) < 0 || int(fd) >= len(s.feeddown) {
		return nil
	}
	return s.feeddown[fd]
}

// FullFinalStateDistribution returns the joint final-state distribution of
// one decay of res.
func (s *Snapshot) FullFinalStateDistribution(res int) (Distribution, error) {
	if err := checkIndex(s.catalogue, res); err != nil {
		return nil, err
	}
	return s.distributions[res].clone(), nil
}

// DecayProbabilityVector returns the distribution of the number of target
// in the final state of one decay of res.
func (s *Snapshot) DecayProbabilityVector(res, target int) ([]Point, error) {
	return DecayProbabilityVector(s.catalogue, s.DistributionFeeddown, res, target)
}

// DecayProbabilityVectorByCharge returns the distribution of the final-state
// total along axis for one decay of res.
func (s *Snapshot) DecayProbabilityVectorByCharge(res int, axis particle.ChargeAxis) ([]Point, error) {
	return DecayProbabilityVectorByCharge(s.catalogue, s.DistributionFeeddown, res, axis)
}

// Cumulants returns the cumulants row of res, ordered by target index.
func (s *Snapshot) Cumulants(res int) ([]TargetCumulants, error) {
	if err := checkIndex(s.catalogue, res); err != nil {
		return nil, err
	}
	return append([]TargetCumulants(nil), s.cumulants[res]...), nil
}

// DecayCumulants returns the cumulants of the number of target produced by
// one decay of res. Targets the chain never reaches have zero cumulants.
func (s *Snapshot) DecayCumulants(res, target int) (Cumulants, error) {
	if err := checkIndex(s.catalogue, res); err != nil {
		return Cumulants{}, err
	}
	if err := checkIndex(s.catalogue, target); err != nil {
		return Cumulants{}, err
	}
	for _, tc := range s.cumulants[res] {
		if tc.Species == target {
			return tc.Cumulants, nil
		}
	}
	return Cumulants{}, nil
}
