// Package harness runs conformance scenarios against the decay resolver.
//
// A scenario names a catalogue, the resolver settings to process it with,
// and values the resolved tables must hold. Each run resolves the
// catalogue, stores the snapshot in a fresh in-memory database and checks
// every assertion.
//
// # Scenario Format
//
//	name: lambda_weak
//	description: "Lambda decays are followed under weak feeddown"
//	catalogue: ../catalogues/hadrons.yaml
//	distribution_feeddown: weak
//	tolerance: 1e-9
//	assertions:
//	  - type: feeddown_mean
//	    feeddown: weak
//	    source: Sigma*+
//	    target: p
//	    expect: 0.64
//	  - type: probability
//	    source: Sigma*+
//	    charge: charge
//	    value: 1
//	    expect: 1
//	  - type: decay_type
//	    source: Lambda
//	    is: weak
//
// # Assertion Types
//
//   - feeddown_mean: mean yield of target per decay of source, read back
//     from the store
//   - probability: probability of value copies of target (or a total of
//     value along a charge axis) in one decay of source
//   - cumulant: cumulant of the given order of the count of target
//   - distribution_size: number of outcomes in the joint distribution
//   - decay_type: classification of source
//
// # Deterministic Testing
//
// Runs use predictable run ids (testutil.RunIDs) and an in-memory SQLite
// database, and golden reports round values to six significant digits, so
// reports are byte-identical across runs.
package harness
