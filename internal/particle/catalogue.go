package particle

import (
	"errors"
	"fmt"
	"sort"
)

// Catalogue is the ordered species list the decay engine reads.
//
// Species indices are positions in the list and never change after
// construction. Input fields (masses, quantum numbers, channels) change only
// through the methods below; every such change yields a new Version, which
// invalidates tables derived from the previous one.
type Catalogue struct {
	species []Species
	byPDG   map[int64]int
}

// NewCatalogue copies species into a catalogue, assigning each its index.
// Returns an error for duplicate identifiers or out-of-range daughters.
func NewCatalogue(species []Species) (*Catalogue, error) {
	c := &Catalogue{
		species: make([]Species, len(species)),
		byPDG:   make(map[int64]int, len(species)),
	}

	for i, s := range species {
		s.Index = i
		s.Channels = copyChannels(s.Channels)
		if _, dup := c.byPDG[s.PDG]; dup {
			return nil, &IntegrityError{
				Code: ErrCodeDuplicatePDG, Species: i, Channel: -1, Daughter: -1,
				Message: fmt.Sprintf("identifier %d appears more than once", s.PDG),
			}
		}
		c.byPDG[s.PDG] = i
		c.species[i] = s
	}

	for i := range c.species {
		for j, ch := range c.species[i].Channels {
			for _, d := range ch.Daughters {
				if d < 0 || d >= len(c.species) {
					return nil, &IntegrityError{
						Code: ErrCodeInvalidIndex, Species: i, Channel: j, Daughter: d,
						Message: fmt.Sprintf("daughter index %d out of range [0,%d)", d, len(c.species)),
					}
				}
			}
		}
	}

	return c, nil
}

func copyChannels(in []Channel) []Channel {
	out := make([]Channel, len(in))
	for i, ch := range in {
		ch.Daughters = append([]int(nil), ch.Daughters...)
		ch.BranchingVsMass = append([]float64(nil), ch.BranchingVsMass...)
		ch.original = ch.BranchingRatio
		out[i] = ch
	}
	return out
}

// Len returns the number of species.
func (c *Catalogue) Len() int {
	return len(c.species)
}

// Species returns the species at index i. The pointer is shared with the
// catalogue: callers other than the decay engine must treat it as read-only.
func (c *Catalogue) Species(i int) *Species {
	return &c.species[i]
}

// All returns a copy of the species list.
func (c *Catalogue) All() []Species {
	out := make([]Species, len(c.species))
	copy(out, c.species)
	return out
}

// ByPDG returns the index of the species with the given identifier,
// or (-1, false) if it is not in the catalogue.
func (c *Catalogue) ByPDG(pdg int64) (int, bool) {
	if i, ok := c.byPDG[pdg]; ok {
		return i, true
	}
	return -1, false
}

// ByName returns the index of the first species with the given name.
func (c *Catalogue) ByName(name string) (int, bool) {
	for i := range c.species {
		if c.species[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

// PDGOf returns the identifier of species i, or 0 if i is out of range.
func (c *Catalogue) PDGOf(i int) int64 {
	if i < 0 || i >= len(c.species) {
		return 0
	}
	return c.species[i].PDG
}

// Version returns the content hash of the catalogue's input fields.
func (c *Catalogue) Version() string {
	v, err := CatalogueVersion(c.species)
	if err != nil {
		// Species hold only encodable fields.
		panic(err)
	}
	return v
}

// MassOrder returns species indices sorted by non-decreasing mass,
// ties broken by index.
func (c *Catalogue) MassOrder() []int {
	order := make([]int, len(c.species))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return c.species[order[a]].Mass < c.species[order[b]].Mass
	})
	return order
}

// CheckDecayChargesConservation reports whether every channel of species ind
// conserves baryon number, electric charge, strangeness and charm.
func (c *Catalogue) CheckDecayChargesConservation(ind int) bool {
	return len(c.chargeViolations(ind)) == 0
}

func (c *Catalogue) chargeViolations(ind int) []error {
	parent := &c.species[ind]
	var errs []error
	for j, ch := range parent.Channels {
		var b, q, s, cc int
		for _, d := range ch.Daughters {
			ds := &c.species[d]
			b += ds.Baryon
			q += ds.Charge
			s += ds.Strangeness
			cc += ds.Charm
		}
		if b != parent.Baryon || q != parent.Charge || s != parent.Strangeness || cc != parent.Charm {
			errs = append(errs, &IntegrityError{
				Code: ErrCodeChargeNotConserved, Species: ind, Channel: j, Daughter: -1,
				Message: fmt.Sprintf("%s: daughters carry (B=%d,Q=%d,S=%d,C=%d), parent (B=%d,Q=%d,S=%d,C=%d)",
					parent.Name, b, q, s, cc, parent.Baryon, parent.Charge, parent.Strangeness, parent.Charm),
			})
		}
	}
	return errs
}

// CheckMassOrdering reports whether every daughter of species ind is strictly
// lighter than it.
func (c *Catalogue) CheckMassOrdering(ind int) bool {
	return len(c.massViolations(ind)) == 0
}

func (c *Catalogue) massViolations(ind int) []error {
	parent := &c.species[ind]
	var errs []error
	for j, ch := range parent.Channels {
		for _, d := range ch.Daughters {
			if c.species[d].Mass >= parent.Mass {
				errs = append(errs, &IntegrityError{
					Code: ErrCodeMassOrder, Species: ind, Channel: j, Daughter: d,
					Message: fmt.Sprintf("%s (%g GeV) is not lighter than parent %s (%g GeV)",
						c.species[d].Name, c.species[d].Mass, parent.Name, parent.Mass),
				})
			}
		}
	}
	return errs
}

// Validate runs every integrity check and joins the findings.
// Returns nil when the catalogue is consistent.
func (c *Catalogue) Validate() error {
	var errs []error
	for i := range c.species {
		errs = append(errs, c.chargeViolations(i)...)
		errs = append(errs, c.massViolations(i)...)
	}
	return errors.Join(errs...)
}

// SetBranchingRatio changes one channel's branching ratio.
func (c *Catalogue) SetBranchingRatio(ind, channel int, br float64) {
	c.species[ind].Channels[channel].BranchingRatio = br
}

// NormalizeBranchingRatios rescales each species' channels to sum to one.
// Species whose channels sum to zero are left alone.
func (c *Catalogue) NormalizeBranchingRatios() {
	for i := range c.species {
		total := c.species[i].TotalBranchingRatio()
		if total <= 0 {
			continue
		}
		for j := range c.species[i].Channels {
			c.species[i].Channels[j].BranchingRatio /= total
		}
	}
}

// RestoreBranchingRatios restores every branching ratio to the value it had
// when the catalogue was built.
func (c *Catalogue) RestoreBranchingRatios() {
	for i := range c.species {
		for j := range c.species[i].Channels {
			ch := &c.species[i].Channels[j]
			ch.BranchingRatio = ch.original
		}
	}
}
