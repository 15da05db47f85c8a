package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

var digits = regexp.MustCompile(`\d+`)

// ParseMaxSpeed parses an OSM maxspeed tag into km/h. Values carrying an
// "mph" unit are converted (x1.60934, truncated). "none", empty, and
// unparseable values yield 0, meaning unknown.
func ParseMaxSpeed(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") {
		return 0
	}

	m := digits.FindString(raw)
	if m == "" {
		return 0
	}
	speed, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}

	if strings.Contains(strings.ToLower(raw), "mph") {
		speed = int(float64(speed) * 1.60934)
	}
	return speed
}

// ParseLanes parses an OSM lanes tag. Ranges like "2-3" take the lower
// bound; empty or unparseable values yield the default.
func ParseLanes(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	if i := strings.Index(raw, "-"); i > 0 {
		raw = raw[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
