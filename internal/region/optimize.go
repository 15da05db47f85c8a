package region

import (
	"sort"
)

// continents are catalog ids for continent-scale extracts. These run to many
// gigabytes and are never the right answer when a narrower region also
// matches.
var continents = map[string]bool{
	"africa":            true,
	"antarctica":        true,
	"asia":              true,
	"australia-oceania": true,
	"central-america":   true,
	"europe":            true,
	"north-america":     true,
	"south-america":     true,
}

// oversizedAggregates are known multi-country bundles to avoid when narrower
// alternatives remain (dach = Germany + Austria + Switzerland).
var oversizedAggregates = map[string]bool{
	"dach": true,
}

// Optimize trims a candidate set to the minimal sensible selection:
// continent-scale regions are dropped when any more specific region matched,
// oversized aggregates are dropped when narrower alternatives remain, and if
// several candidates survive only the smallest by size hint is kept. A route
// corridor almost always fits in one sub-region; redundant large extracts
// waste bandwidth and scan time.
func Optimize(candidates []Region) []Region {
	if len(candidates) <= 1 {
		return candidates
	}

	var specific []Region
	for _, r := range candidates {
		if !continents[r.ID] {
			specific = append(specific, r)
		}
	}
	if len(specific) > 0 {
		candidates = specific
	}

	if len(candidates) > 1 {
		var narrow []Region
		for _, r := range candidates {
			if !oversizedAggregates[r.ID] {
				narrow = append(narrow, r)
			}
		}
		if len(narrow) > 0 {
			candidates = narrow
		}
	}

	if len(candidates) > 1 {
		sort.SliceStable(candidates, func(i, j int) bool {
			return sizeForSort(candidates[i]) < sizeForSort(candidates[j])
		})
		candidates = candidates[:1]
	}

	return candidates
}

// sizeForSort treats a missing size hint as unknown-large so regions that do
// announce a size win ties.
func sizeForSort(r Region) int64 {
	if r.SizeHint <= 0 {
		return int64(1) << 62
	}
	return r.SizeHint
}
