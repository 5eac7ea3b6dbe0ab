package decay

import "sort"

// sortOutcomes orders outcomes by decreasing probability. Equal
// probabilities are ordered by ascending count vector so the order never
// depends on how the outcomes were accumulated.
func sortOutcomes(d Distribution) {
	sort.SliceStable(d, func(i, j int) bool {
		if d[i].Probability != d[j].Probability {
			return d[i].Probability > d[j].Probability
		}
		return compareCounts(d[i].Counts, d[j].Counts) < 0
	})
}

// truncate sorts d and keeps at most limit outcomes. When outcomes are
// dropped the kept ones are rescaled so the total probability equals the
// total before truncation. Returns the number of dropped outcomes.
func truncate(d Distribution, limit int) (Distribution, int) {
	sortOutcomes(d)
	if limit <= 0 || len(d) <= limit {
		return d, 0
	}

	total := d.Total()
	kept := d[:limit:limit]
	keptTotal := kept.Total()
	if keptTotal > 0 {
		scale := total / keptTotal
		for i := range kept {
			kept[i].Probability *= scale
		}
	}
	return kept, len(d) - limit
}
