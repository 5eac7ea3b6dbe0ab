package harness

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/hqding/Thermal-FIST/internal/decay"
	"github.com/hqding/Thermal-FIST/internal/particle"
	"github.com/hqding/Thermal-FIST/internal/store"
)

// AssertionContext provides what assertions need beyond the snapshot.
type AssertionContext struct {
	Ctx   context.Context
	Store *store.Store
	RunID string

	// Tolerance is the scenario default.
	Tolerance float64
}

// EvaluateAssertions checks every assertion against snap and records one
// Check per assertion. Assertions that cannot be evaluated at all (unknown
// species, store failures) become errors.
//
// Feeddown means are read back from the store rather than the snapshot, so
// a scenario also covers the persisted tables.
func EvaluateAssertions(result *Result, snap *decay.Snapshot, assertions []Assertion, actx *AssertionContext) {
	for i, a := range assertions {
		check, err := evaluate(snap, a, actx)
		if err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
			continue
		}
		result.AddCheck(check)
	}
}

func evaluate(snap *decay.Snapshot, a Assertion, actx *AssertionContext) (Check, error) {
	cat := snap.Catalogue()
	source, err := speciesIndex(cat, a.Source)
	if err != nil {
		return Check{}, err
	}
	tol := a.Tolerance
	if tol == 0 {
		tol = actx.Tolerance
	}

	switch a.Type {
	case AssertFeeddownMean:
		target, err := speciesIndex(cat, a.Target)
		if err != nil {
			return Check{}, err
		}
		fd, _ := particle.ParseFeeddown(a.Feeddown)
		row, err := actx.Store.ReadFeeddown(actx.Ctx, actx.RunID, fd, source)
		if err != nil {
			return Check{}, err
		}
		var mean float64
		for _, c := range row {
			if c.Species == target {
				mean = c.Mean
			}
		}
		subject := fmt.Sprintf("%s %s -> %s", fd, a.Source, a.Target)
		return numeric(a.Type, subject, mean, a.Expect, tol), nil

	case AssertProbability:
		var (
			points  []decay.Point
			subject string
		)
		if a.Charge != "" {
			axis, _ := particle.ParseChargeAxis(a.Charge)
			points, err = snap.DecayProbabilityVectorByCharge(source, axis)
			subject = fmt.Sprintf("%s %s = %d", a.Source, axis, a.Value)
		} else {
			var target int
			target, err = speciesIndex(cat, a.Target)
			if err != nil {
				return Check{}, err
			}
			points, err = snap.DecayProbabilityVector(source, target)
			subject = fmt.Sprintf("%s -> %s = %d", a.Source, a.Target, a.Value)
		}
		if err != nil {
			return Check{}, err
		}
		var p float64
		for _, pt := range points {
			if pt.Value == a.Value {
				p = pt.Probability
			}
		}
		return numeric(a.Type, subject, p, a.Expect, tol), nil

	case AssertCumulant:
		target, err := speciesIndex(cat, a.Target)
		if err != nil {
			return Check{}, err
		}
		k, err := snap.DecayCumulants(source, target)
		if err != nil {
			return Check{}, err
		}
		subject := fmt.Sprintf("%s -> %s k%d", a.Source, a.Target, a.Order)
		return numeric(a.Type, subject, k[a.Order-1], a.Expect, tol), nil

	case AssertDistributionSize:
		d, err := snap.FullFinalStateDistribution(source)
		if err != nil {
			return Check{}, err
		}
		return Check{
			Type:    a.Type,
			Subject: a.Source,
			Actual:  strconv.Itoa(len(d)),
			Pass:    float64(len(d)) == a.Expect,
		}, nil

	case AssertDecayType:
		got := cat.Species(source).DecayType.String()
		return Check{
			Type:    a.Type,
			Subject: a.Source,
			Actual:  got,
			Pass:    got == a.Is,
		}, nil
	}

	return Check{}, fmt.Errorf("unknown assertion type %q", a.Type)
}

func numeric(typ, subject string, actual, expect, tol float64) Check {
	return Check{
		Type:    typ,
		Subject: subject,
		Actual:  formatActual(actual),
		Pass:    math.Abs(actual-expect) <= tol,
	}
}

// formatActual rounds to six significant digits and folds -0 into 0.
func formatActual(v float64) string {
	if v == 0 {
		v = math.Abs(v) // -0 prints as "-0"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func speciesIndex(cat *particle.Catalogue, name string) (int, error) {
	i, ok := cat.ByName(name)
	if !ok {
		return 0, fmt.Errorf("unknown species %q", name)
	}
	return i, nil
}
