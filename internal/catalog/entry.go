package catalog

import (
	"fmt"
	"log/slog"

	"github.com/hqding/Thermal-FIST/internal/particle"
)

// File is the decoded catalogue shared by the CUE and YAML loaders.
type File struct {
	// Antiparticles requests generated charge conjugates.
	Antiparticles bool    `yaml:"antiparticles"`
	Species       []Entry `yaml:"species"`
}

// Entry is one species as written in a catalogue file.
type Entry struct {
	Name        string       `yaml:"name"`
	PDG         int64        `yaml:"pdg"`
	Mass        float64      `yaml:"mass"`
	Width       float64      `yaml:"width"`
	Degeneracy  int          `yaml:"degeneracy"`
	Parity      int          `yaml:"parity"`
	Baryon      int          `yaml:"baryon"`
	Charge      int          `yaml:"charge"`
	Strangeness int          `yaml:"strangeness"`
	Charm       int          `yaml:"charm"`
	AbsStrange  float64      `yaml:"abs_strange"`
	AbsCharm    float64      `yaml:"abs_charm"`
	Stable      bool         `yaml:"stable"`
	Decays      []DecayEntry `yaml:"decays"`

	Pos Position `yaml:"-"`
}

// DecayEntry is one channel as written in a catalogue file.
type DecayEntry struct {
	BR        float64       `yaml:"br"`
	Daughters []DaughterRef `yaml:"daughters"`

	Pos Position `yaml:"-"`
}

// DaughterRef names a daughter by species name, or by PDG identifier when
// Name is empty.
type DaughterRef struct {
	Name string
	PDG  int64
	Pos  Position
}

func (d DaughterRef) String() string {
	if d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("%d", d.PDG)
}

// Options adjusts how a decoded file becomes a catalogue.
type Options struct {
	// Antiparticles generates conjugates even when the file does not ask.
	Antiparticles bool

	// MassCut drops species heavier than this many GeV, together with every
	// channel that lists one of them. Zero keeps everything.
	MassCut float64

	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Build turns a decoded file into a finalized catalogue.
func Build(f *File, opts Options) (*particle.Catalogue, error) {
	log := opts.logger()

	kept := make([]Entry, 0, len(f.Species))
	cut := make(map[string]bool)
	cutPDG := make(map[int64]bool)
	for _, e := range f.Species {
		if err := checkEntry(e); err != nil {
			return nil, err
		}
		if opts.MassCut > 0 && e.Mass > opts.MassCut {
			cut[e.Name] = true
			cutPDG[e.PDG] = true
			continue
		}
		kept = append(kept, e)
	}

	byName := make(map[string]int, len(kept))
	byPDG := make(map[int64]int, len(kept))
	for i, e := range kept {
		if _, dup := byName[e.Name]; dup {
			return nil, &LoadError{
				Code: ErrCodeDuplicateName, Field: "name",
				Message: fmt.Sprintf("species %q is defined more than once", e.Name), Pos: e.Pos,
			}
		}
		byName[e.Name] = i
		byPDG[e.PDG] = i
	}

	species := make([]particle.Species, len(kept))
	for i, e := range kept {
		s := particle.Species{
			PDG:         e.PDG,
			Name:        e.Name,
			Mass:        e.Mass,
			Width:       e.Width,
			Degeneracy:  e.Degeneracy,
			Parity:      e.Parity,
			Baryon:      e.Baryon,
			Charge:      e.Charge,
			Strangeness: e.Strangeness,
			Charm:       e.Charm,
			AbsStrange:  e.AbsStrange,
			AbsCharm:    e.AbsCharm,
			Stable:      e.Stable,
		}
		if s.Degeneracy == 0 {
			s.Degeneracy = 1
		}

	channels:
		for j, d := range e.Decays {
			daughters := make([]int, 0, len(d.Daughters))
			for _, ref := range d.Daughters {
				idx, ok := lookup(ref, byName, byPDG)
				if ok {
					daughters = append(daughters, idx)
					continue
				}
				if cut[ref.Name] || (ref.Name == "" && cutPDG[ref.PDG]) {
					log.Debug("dropping channel above mass cut",
						"species", e.Name,
						"channel", j,
						"daughter", ref.String(),
					)
					continue channels
				}
				return nil, &LoadError{
					Code: ErrCodeUnknownDaughter, Field: fmt.Sprintf("%s.decays[%d]", e.Name, j),
					Message: fmt.Sprintf("daughter %q is not a species in the catalogue", ref.String()), Pos: ref.Pos,
				}
			}
			s.Channels = append(s.Channels, particle.Channel{BranchingRatio: d.BR, Daughters: daughters})
		}
		species[i] = s
	}

	if f.Antiparticles || opts.Antiparticles {
		species = withAntiparticles(species)
	}

	cat, err := particle.NewCatalogue(species)
	if err != nil {
		return nil, fmt.Errorf("build catalogue: %w", err)
	}
	log.Debug("catalogue built", "species", cat.Len(), "cut", len(cut))
	return cat, nil
}

func lookup(ref DaughterRef, byName map[string]int, byPDG map[int64]int) (int, bool) {
	if ref.Name != "" {
		i, ok := byName[ref.Name]
		return i, ok
	}
	i, ok := byPDG[ref.PDG]
	return i, ok
}

func checkEntry(e Entry) error {
	invalid := func(field, msg string, pos Position) error {
		return &LoadError{Code: ErrCodeInvalidValue, Field: field, Message: msg, Pos: pos}
	}

	if e.Name == "" {
		return &LoadError{Code: ErrCodeMissingField, Field: "name", Message: "species name is required", Pos: e.Pos}
	}
	if e.Mass < 0 {
		return invalid(e.Name+".mass", fmt.Sprintf("mass must be >= 0, got %g", e.Mass), e.Pos)
	}
	if e.Width < 0 {
		return invalid(e.Name+".width", fmt.Sprintf("width must be >= 0, got %g", e.Width), e.Pos)
	}
	if e.Degeneracy < 0 {
		return invalid(e.Name+".degeneracy", fmt.Sprintf("degeneracy must be >= 1, got %d", e.Degeneracy), e.Pos)
	}
	if e.Parity < -1 || e.Parity > 1 {
		return invalid(e.Name+".parity", fmt.Sprintf("parity must be -1, 0 or 1, got %d", e.Parity), e.Pos)
	}
	for j, d := range e.Decays {
		field := fmt.Sprintf("%s.decays[%d]", e.Name, j)
		if d.BR < 0 {
			return invalid(field+".br", fmt.Sprintf("branching ratio must be >= 0, got %g", d.BR), d.Pos)
		}
		if len(d.Daughters) == 0 {
			return invalid(field+".daughters", "a channel needs at least one daughter", d.Pos)
		}
	}
	return nil
}

// withAntiparticles inserts, right after each species that is not its own
// conjugate, its conjugate with identifier -PDG and name "anti-<name>".
// Species whose conjugate is already listed are left alone. Conjugate
// channels list the conjugate of each daughter.
func withAntiparticles(in []particle.Species) []particle.Species {
	byPDG := make(map[int64]int, len(in))
	for i, s := range in {
		byPDG[s.PDG] = i
	}

	newIndex := make([]int, len(in))
	generated := make([]int, len(in))
	out := make([]particle.Species, 0, 2*len(in))
	for i, s := range in {
		newIndex[i] = len(out)
		out = append(out, s)
		generated[i] = -1
		if selfConjugate(s) {
			continue
		}
		if _, listed := byPDG[-s.PDG]; listed {
			continue
		}
		generated[i] = len(out)
		out = append(out, conjugate(s))
	}

	conj := func(d int) int {
		if generated[d] >= 0 {
			return generated[d]
		}
		if j, listed := byPDG[-in[d].PDG]; listed && !selfConjugate(in[d]) {
			return newIndex[j]
		}
		return newIndex[d]
	}

	for i := range in {
		for _, ch := range out[newIndex[i]].Channels {
			for k, d := range ch.Daughters {
				ch.Daughters[k] = newIndex[d]
			}
		}
		if generated[i] < 0 {
			continue
		}
		for _, ch := range out[generated[i]].Channels {
			for k, d := range ch.Daughters {
				ch.Daughters[k] = conj(d)
			}
		}
	}
	return out
}

func selfConjugate(s particle.Species) bool {
	return s.Baryon == 0 && s.Charge == 0 && s.Strangeness == 0 && s.Charm == 0
}

func conjugate(s particle.Species) particle.Species {
	c := s
	c.PDG = -s.PDG
	c.Name = "anti-" + s.Name
	c.Baryon = -s.Baryon
	c.Charge = -s.Charge
	c.Strangeness = -s.Strangeness
	c.Charm = -s.Charm
	// Fermion and antifermion have opposite intrinsic parity.
	if s.Degeneracy%2 == 0 {
		c.Parity = -s.Parity
	}
	c.Channels = make([]particle.Channel, len(s.Channels))
	for j, ch := range s.Channels {
		c.Channels[j] = particle.Channel{
			BranchingRatio: ch.BranchingRatio,
			Daughters:      append([]int(nil), ch.Daughters...),
		}
	}
	return c
}
