package particle

// DecayType classifies how a species decays.
type DecayType int

const (
	// DecayStable never decays.
	DecayStable DecayType = iota
	// DecayWeak decays through the weak interaction.
	DecayWeak
	// DecayElectromagnetic decays electromagnetically.
	DecayElectromagnetic
	// DecayStrong decays strongly.
	DecayStrong
)

var decayTypeNames = map[DecayType]string{
	DecayStable:          "stable",
	DecayWeak:            "weak",
	DecayElectromagnetic: "electromagnetic",
	DecayStrong:          "strong",
}

func (t DecayType) String() string {
	if name, ok := decayTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Feeddown selects which decays are followed when resolving chains.
type Feeddown int

const (
	// FeeddownStabilityFlag follows every species whose stability flag is false.
	FeeddownStabilityFlag Feeddown = iota
	// FeeddownStrong follows strong decays only.
	FeeddownStrong
	// FeeddownElectromagnetic follows strong and electromagnetic decays.
	FeeddownElectromagnetic
	// FeeddownWeak follows strong, electromagnetic and weak decays.
	FeeddownWeak
)

// AllFeeddowns lists the classifications in table order.
var AllFeeddowns = []Feeddown{
	FeeddownStabilityFlag,
	FeeddownStrong,
	FeeddownElectromagnetic,
	FeeddownWeak,
}

var feeddownNames = map[Feeddown]string{
	FeeddownStabilityFlag:   "stability",
	FeeddownStrong:          "strong",
	FeeddownElectromagnetic: "electromagnetic",
	FeeddownWeak:            "weak",
}

func (f Feeddown) String() string {
	if name, ok := feeddownNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFeeddown maps a name (or the short form "em") to a Feeddown.
func ParseFeeddown(name string) (Feeddown, bool) {
	if name == "em" {
		return FeeddownElectromagnetic, true
	}
	for fd, n := range feeddownNames {
		if n == name {
			return fd, true
		}
	}
	return 0, false
}

// Decays reports whether a species of decay type t with stability flag
// stable is followed further under this classification.
func (f Feeddown) Decays(t DecayType, stable bool) bool {
	switch f {
	case FeeddownStabilityFlag:
		return !stable
	case FeeddownStrong:
		return t == DecayStrong
	case FeeddownElectromagnetic:
		return t == DecayStrong || t == DecayElectromagnetic
	case FeeddownWeak:
		return t != DecayStable
	}
	return false
}

// ChargeAxis selects the per-species scalar summed over a final state.
type ChargeAxis int

const (
	NetBaryon ChargeAxis = iota
	NetCharge
	NetStrangeness
	NetCharm
	// PositiveCharged counts species with positive electric charge.
	PositiveCharged
	// NegativeCharged counts species with negative electric charge.
	NegativeCharged
	// Charged counts species with non-zero electric charge.
	Charged
)

var chargeAxisNames = map[ChargeAxis]string{
	NetBaryon:       "baryon",
	NetCharge:       "charge",
	NetStrangeness:  "strangeness",
	NetCharm:        "charm",
	PositiveCharged: "positive",
	NegativeCharged: "negative",
	Charged:         "charged",
}

func (a ChargeAxis) String() string {
	if name, ok := chargeAxisNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseChargeAxis maps a name to a ChargeAxis.
func ParseChargeAxis(name string) (ChargeAxis, bool) {
	for a, n := range chargeAxisNames {
		if n == name {
			return a, true
		}
	}
	return 0, false
}

// ChannelFlags marks channel anomalies found while filling properties.
type ChannelFlags uint8

const (
	// FlagAngularMomentum is set when no orbital angular momentum conserves
	// both spin and parity for the channel.
	FlagAngularMomentum ChannelFlags = 1 << iota
	// FlagBelowThreshold is set when the daughters outweigh the parent pole mass.
	FlagBelowThreshold
)

// Channel is one decay mode of a species.
type Channel struct {
	// BranchingRatio is channel-local and need not sum to one across channels.
	BranchingRatio float64 `json:"br"`

	// Daughters holds species indices in catalogue order; repeats encode multiplicity.
	Daughters []int `json:"daughters"`

	// Threshold is the sum of daughter masses.
	Threshold float64 `json:"threshold"`

	// L is the released orbital angular momentum.
	L int `json:"l"`

	Flags ChannelFlags `json:"flags,omitempty"`

	// BranchingVsMass holds this channel's branching ratio at each node of
	// the parent's MassGrid.
	BranchingVsMass []float64 `json:"br_vs_mass,omitempty"`

	original float64
}

// Daughter is a daughter species with its multiplicity in one channel.
type Daughter struct {
	Species      int
	Multiplicity int
}

// Multiplicities groups repeated daughters, keeping first-appearance order.
func (c Channel) Multiplicities() []Daughter {
	out := make([]Daughter, 0, len(c.Daughters))
	pos := make(map[int]int, len(c.Daughters))
	for _, d := range c.Daughters {
		if i, ok := pos[d]; ok {
			out[i].Multiplicity++
			continue
		}
		pos[d] = len(out)
		out = append(out, Daughter{Species: d, Multiplicity: 1})
	}
	return out
}

// MassGrid holds the quadrature nodes used to integrate over a resonance's
// own mass distribution. Weights sum to one.
type MassGrid struct {
	Masses  []float64 `json:"masses"`
	Weights []float64 `json:"weights"`
}

// Species is one entry of the catalogue.
type Species struct {
	Index int    `json:"index"`
	PDG   int64  `json:"pdg"`
	Name  string `json:"name"`

	// Mass and Width in GeV.
	Mass  float64 `json:"mass"`
	Width float64 `json:"width"`

	// Degeneracy is the spin degeneracy 2J+1.
	Degeneracy int `json:"degeneracy"`

	// Parity is +1, -1, or 0 when unknown.
	Parity int `json:"parity"`

	Baryon      int `json:"baryon"`
	Charge      int `json:"charge"`
	Strangeness int `json:"strangeness"`
	Charm       int `json:"charm"`

	// AbsStrange and AbsCharm count strange and charm (anti)quarks.
	AbsStrange float64 `json:"abs_strange"`
	AbsCharm   float64 `json:"abs_charm"`

	Stable    bool      `json:"stable"`
	DecayType DecayType `json:"decay_type"`
	Channels  []Channel `json:"channels"`
	MassGrid  MassGrid  `json:"mass_grid"`
}

// ChargeValue returns the species' contribution along axis a.
func (s *Species) ChargeValue(a ChargeAxis) int {
	switch a {
	case NetBaryon:
		return s.Baryon
	case NetCharge:
		return s.Charge
	case NetStrangeness:
		return s.Strangeness
	case NetCharm:
		return s.Charm
	case PositiveCharged:
		if s.Charge > 0 {
			return 1
		}
	case NegativeCharged:
		if s.Charge < 0 {
			return 1
		}
	case Charged:
		if s.Charge != 0 {
			return 1
		}
	}
	return 0
}

// TotalBranchingRatio sums the branching ratios of all channels.
func (s *Species) TotalBranchingRatio() float64 {
	total := 0.0
	for _, c := range s.Channels {
		total += c.BranchingRatio
	}
	return total
}

// AverageBranchingRatio integrates channel c's mass-dependent branching ratio
// over the species' mass grid. Without a grid it returns the pole value.
func (s *Species) AverageBranchingRatio(c int) float64 {
	ch := s.Channels[c]
	if len(s.MassGrid.Masses) == 0 || len(ch.BranchingVsMass) != len(s.MassGrid.Weights) {
		return ch.BranchingRatio
	}
	avg := 0.0
	for k, w := range s.MassGrid.Weights {
		avg += w * ch.BranchingVsMass[k]
	}
	return avg
}
