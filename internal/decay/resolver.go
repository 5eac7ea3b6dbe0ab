package decay

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hqding/Thermal-FIST/internal/particle"
)

// Resolver runs the top-level decay pass and caches its last snapshot.
//
// Snapshots are keyed by Catalogue.Version: processing a catalogue whose
// input fields are unchanged returns the cached snapshot, and any change to
// a mass, branching ratio or channel list forces a full recomputation.
// Partial updates are never attempted.
//
// Thread-safety: ProcessDecays may be called from several goroutines; the
// cache has a single writer at a time. Snapshots are immutable.
type Resolver struct {
	mu       sync.Mutex
	logger   *slog.Logger
	observer Observer
	limit    int
	props    PropertiesOptions
	fd       particle.Feeddown
	last     *Snapshot
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithObserver sets the statistics observer. Default: NopObserver.
func WithObserver(o Observer) Option {
	return func(r *Resolver) {
		r.observer = o
	}
}

// WithDistributionCap bounds the number of outcomes per joint distribution.
// Default: DefaultDistributionCap. Values <= 0 disable truncation.
func WithDistributionCap(limit int) Option {
	return func(r *Resolver) {
		r.limit = limit
	}
}

// WithPropertiesOptions configures the mass-integration grid.
func WithPropertiesOptions(o PropertiesOptions) Option {
	return func(r *Resolver) {
		r.props = o
	}
}

// WithDistributionFeeddown selects the classification used for joint
// distributions, probability vectors and cumulants.
// Default: FeeddownStabilityFlag.
func WithDistributionFeeddown(fd particle.Feeddown) Option {
	return func(r *Resolver) {
		r.fd = fd
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		logger:   slog.Default(),
		observer: NopObserver{},
		limit:    DefaultDistributionCap,
		fd:       particle.FeeddownStabilityFlag,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Invalidate drops the cached snapshot.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = nil
}

// ProcessDecays classifies every species, fills channel properties and
// resolves all derived tables: the four feeddown tables, the joint
// final-state distribution of every species and the cumulants table.
//
// The catalogue must be finalized. Charge conservation is not checked here
// (see Catalogue.Validate); a daughter that cannot be resolved before its
// parent fails the pass with an UNRESOLVED_DAUGHTER integrity error.
func (r *Resolver) ProcessDecays(cat *particle.Catalogue) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	version := cat.Version()
	if r.last != nil && r.last.Version == version &&
		r.last.DistributionCap == r.limit && r.last.DistributionFeeddown == r.fd {
		// cat may be a different catalogue with the same content.
		ClassifyAll(cat)
		FillDecayProperties(cat, r.props)
		r.observer.ObserveCacheHit()
		r.logger.Debug("reusing decay snapshot", "version", shortVersion(version))
		return r.last, nil
	}

	start := time.Now()
	r.logger.Info("processing decays",
		"species", cat.Len(),
		"version", shortVersion(version),
	)

	ClassifyAll(cat)
	FillDecayProperties(cat, r.props)

	frozen, err := particle.NewCatalogue(cat.All())
	if err != nil {
		return nil, fmt.Errorf("freeze catalogue: %w", err)
	}

	snap := &Snapshot{
		Version:              version,
		DistributionCap:      r.limit,
		DistributionFeeddown: r.fd,
		catalogue:            frozen,
		feeddown:             make([]*FeeddownTable, len(particle.AllFeeddowns)),
	}

	for _, fd := range particle.AllFeeddowns {
		table, err := ResolveFeeddown(frozen, fd)
		if err != nil {
			r.logger.Error("feeddown resolution failed", "feeddown", fd.String(), "error", err)
			return nil, fmt.Errorf("resolve %s feeddown: %w", fd, err)
		}
		snap.feeddown[fd] = table
	}

	conv := &convolver{cat: frozen, fd: r.fd, limit: r.limit, observer: r.observer, logger: r.logger}
	snap.distributions, err = conv.resolveAll(nil)
	if err != nil {
		r.logger.Error("distribution resolution failed", "error", err)
		return nil, fmt.Errorf("resolve distributions: %w", err)
	}

	snap.cumulants, err = resolveCumulants(frozen, r.fd)
	if err != nil {
		r.logger.Error("cumulant resolution failed", "error", err)
		return nil, fmt.Errorf("resolve cumulants: %w", err)
	}

	elapsed := time.Since(start)
	r.observer.ObservePass(cat.Len(), elapsed)
	r.logger.Info("decays processed",
		"species", cat.Len(),
		"elapsed", elapsed,
	)

	r.last = snap
	return snap, nil
}

func shortVersion(v string) string {
	if len(v) > 12 {
		return v[:12]
	}
	return v
}
