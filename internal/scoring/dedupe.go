package scoring

import (
	"github.com/velosafe/safety-cli/internal/model"
)

// Deduplicate returns roads unique by feature id, preserving first-seen
// order. A route corridor crossing a region boundary is covered by adjacent
// extracts; without dedup those roads would be double-counted in statistics
// and duplicated in exports.
func Deduplicate(roads []model.RawRoad) []model.RawRoad {
	seen := make(map[int64]bool, len(roads))
	unique := make([]model.RawRoad, 0, len(roads))
	for _, r := range roads {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		unique = append(unique, r)
	}
	return unique
}
