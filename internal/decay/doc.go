// Package decay resolves resonance decay chains.
//
// Given a finalized particle.Catalogue, the package classifies each species'
// decay type, fills per-channel kinematic properties, and derives:
//
//   - feeddown tables: the mean number of each final species produced per
//     unit of each resonance, one table per feeddown classification
//   - joint final-state distributions per resonance, capped at a fixed
//     number of outcomes
//   - probability vectors of a single species count or a charge-like total
//   - the first four cumulants of each final species count
//
// RESOLUTION ORDER:
//
// Every pass is one sweep over species in non-decreasing mass order. A
// species owns the result slot at its index and reads its daughters' slots
// by index; daughters are always lighter, so they are final before the
// parent is reached. A daughter that is not yet resolved (equal or heavier
// mass, a self-loop, a cycle) fails the pass instead of being skipped.
//
// The four feeddown classifications share one sweep and differ only in the
// stopping predicate (particle.Feeddown.Decays).
//
// TRUNCATION:
//
// Joint distributions are cut to the cap after every convolution and every
// channel mix. The highest probabilities are kept (ties broken by ascending
// count vector) and rescaled to the total they had before the cut, so
// normalised input stays normalised.
//
// Branching ratios are never renormalised implicitly: un-normalised input
// scales every derived quantity by the channel sums. Use
// Catalogue.NormalizeBranchingRatios first when that is not wanted.
//
// No goroutines are started; passes are deterministic and reprocessing an
// unchanged catalogue yields identical tables.
package decay
