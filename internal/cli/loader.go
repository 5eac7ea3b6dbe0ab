package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hqding/Thermal-FIST/internal/catalog"
	"github.com/hqding/Thermal-FIST/internal/config"
	"github.com/hqding/Thermal-FIST/internal/decay"
	"github.com/hqding/Thermal-FIST/internal/metrics"
	"github.com/hqding/Thermal-FIST/internal/particle"
)

// session carries what every catalogue command needs: settings, logging,
// output and the metrics the resolver reports into.
type session struct {
	opts      *RootOptions
	cfg       config.Config
	logger    *slog.Logger
	recorder  *metrics.Recorder
	formatter *OutputFormatter
}

// newSession reads the environment and applies flag overrides. Log records
// go to stderr so JSON on stdout stays parseable.
func newSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	if opts.CapSet {
		cfg.DistributionCap = opts.Cap
	}

	level, _ := cfg.Level()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return &session{
		opts:      opts,
		cfg:       cfg,
		logger:    logger,
		recorder:  metrics.NewRecorder(),
		formatter: formatter,
	}, nil
}

// loadCatalogue loads and builds the catalogue at path, reporting loader
// errors with their code and position.
func (s *session) loadCatalogue(path string) (*particle.Catalogue, error) {
	cat, err := catalog.Load(path, catalog.Options{
		Antiparticles: s.opts.Antiparticles,
		MassCut:       s.opts.MassCut,
		Logger:        s.logger,
	})
	if err != nil {
		var loadErr *catalog.LoadError
		if errors.As(err, &loadErr) {
			return nil, s.formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Error(), nil)
		}
		if particle.IsIntegrityError(err, "") {
			return nil, s.formatter.Fail(ExitCommandError, ErrCodeIntegrity, err.Error(), nil)
		}
		return nil, s.formatter.Fail(ExitCommandError, catalog.ErrCodeGeneric, err.Error(), nil)
	}
	s.formatter.VerboseLog("Loaded %d species from %s (version %s)", cat.Len(), path, cat.Version())
	return cat, nil
}

// resolver builds a resolver from the session settings.
func (s *session) resolver() *decay.Resolver {
	opts := append(s.cfg.ResolverOptions(),
		decay.WithLogger(s.logger),
		decay.WithObserver(s.recorder),
	)
	return decay.NewResolver(opts...)
}

// process loads the catalogue at path and resolves it.
func (s *session) process(path string) (*decay.Snapshot, error) {
	cat, err := s.loadCatalogue(path)
	if err != nil {
		return nil, err
	}
	snap, err := s.resolver().ProcessDecays(cat)
	if err != nil {
		if decay.IsDataIntegrityError(err) {
			return nil, s.formatter.Fail(ExitCommandError, ErrCodeIntegrity, err.Error(), nil)
		}
		return nil, s.formatter.Fail(ExitCommandError, catalog.ErrCodeGeneric, err.Error(), nil)
	}
	return snap, nil
}

// species resolves a command-line species argument: a name first, then a
// PDG identifier.
func (s *session) species(cat *particle.Catalogue, arg string) (int, error) {
	if i, ok := cat.ByName(arg); ok {
		return i, nil
	}
	if pdg, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if i, ok := cat.ByPDG(pdg); ok {
			return i, nil
		}
	}
	return 0, s.formatter.Fail(ExitCommandError, ErrCodeUnknownSpecies,
		fmt.Sprintf("unknown species %q", arg), nil)
}
