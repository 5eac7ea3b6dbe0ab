package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hqding/Thermal-FIST/internal/decay"
	"github.com/hqding/Thermal-FIST/internal/particle"
)

// storedOutcome mirrors the canonical JSON of one outcome. Probabilities are
// carried as shortest round-trip decimal strings.
type storedOutcome struct {
	P      string   `json:"p"`
	Counts [][2]int `json:"counts"`
}

// marshalDistribution converts a distribution to canonical JSON TEXT.
func marshalDistribution(d decay.Distribution) (string, error) {
	list := make([]any, len(d))
	for i, o := range d {
		counts := make([]any, len(o.Counts))
		for j, c := range o.Counts {
			counts[j] = []any{c.Species, c.N}
		}
		list[i] = map[string]any{
			"p":      o.Probability,
			"counts": counts,
		}
	}
	data, err := particle.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal distribution: %w", err)
	}
	return string(data), nil
}

// unmarshalDistribution parses canonical JSON TEXT back into a distribution.
func unmarshalDistribution(data string) (decay.Distribution, error) {
	var stored []storedOutcome
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("unmarshal distribution: %w", err)
	}

	d := make(decay.Distribution, len(stored))
	for i, so := range stored {
		p, err := strconv.ParseFloat(so.P, 64)
		if err != nil {
			return nil, fmt.Errorf("unmarshal distribution: outcome %d: %w", i, err)
		}
		var counts []decay.Count
		for _, c := range so.Counts {
			counts = append(counts, decay.Count{Species: c[0], N: c[1]})
		}
		d[i] = decay.Outcome{Probability: p, Counts: counts}
	}
	return d, nil
}
