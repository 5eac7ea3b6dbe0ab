// Package store provides SQLite-backed durable storage for decay snapshots.
//
// Each call to WriteSnapshot adds one run holding:
//   - Species: index, PDG code, name, mass, width, decay type
//   - Feeddown: mean yields for every classification
//   - Cumulants: first four cumulants per (source, target)
//   - Distributions: joint final-state outcomes as canonical JSON
//
// # Ordering
//
// Runs are ordered by seq INTEGER (logical counter), never by timestamps.
// Every row query has an ORDER BY on index columns so results are
// identical across reads.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Runs cascade to their rows
//
// Distribution probabilities are stored with particle.MarshalCanonical, so
// they read back bit for bit.
package store
