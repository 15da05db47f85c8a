// Package criteria loads and serves the road safety scoring rules.
//
// Criteria live in an external, human-editable YAML document. Any section or
// key may be omitted; every lookup falls back to a documented default so a
// partially specified or absent configuration still yields usable scoring.
package criteria

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/velosafe/safety-cli/internal/model"
)

// Fallback constants used when a criteria key is missing. These mirror the
// shipped default criteria document.
const (
	DefaultThresholdCritical = 9.0
	DefaultThresholdHigh     = 7.0
	DefaultThresholdMedium   = 5.0
	DefaultThresholdLow      = 3.0

	fallbackColor = "#808080"
)

// Criteria holds the effective scoring rules for one analysis run. It is
// loaded once at analysis start and read-only afterwards.
type Criteria struct {
	Thresholds   map[string]float64  `yaml:"risk_thresholds" mapstructure:"risk_thresholds"`
	SpeedLimits  map[string]int      `yaml:"speed_limits" mapstructure:"speed_limits"`
	HighwayTypes map[string][]string `yaml:"highway_types" mapstructure:"highway_types"`
	Scoring      ScoringTables       `yaml:"scoring" mapstructure:"scoring"`
	Visual       Visualization       `yaml:"visualization" mapstructure:"visualization"`
}

// ScoringTables holds the per-factor penalty and bonus point tables.
type ScoringTables struct {
	SpeedPenalties   map[string]float64 `yaml:"speed_penalties" mapstructure:"speed_penalties"`
	HighwayPenalties map[string]float64 `yaml:"highway_penalties" mapstructure:"highway_penalties"`
	InfraPenalties   map[string]float64 `yaml:"infrastructure_penalties" mapstructure:"infrastructure_penalties"`
	LanePenalties    map[string]float64 `yaml:"lane_penalties" mapstructure:"lane_penalties"`
	SurfacePenalties map[string]float64 `yaml:"surface_penalties" mapstructure:"surface_penalties"`
	InfraBonuses     map[string]float64 `yaml:"infrastructure_bonuses" mapstructure:"infrastructure_bonuses"`
}

// Visualization holds the risk-level color table.
type Visualization struct {
	ColorCoding map[string]string `yaml:"color_coding" mapstructure:"color_coding"`
}

// Default returns the built-in criteria, equivalent to loading an empty file.
func Default() *Criteria {
	c := &Criteria{}
	v := newViper()
	// All keys have defaults, so unmarshal cannot fail on an empty config.
	_ = v.Unmarshal(c)
	return c
}

// Load reads a criteria document and merges it over the defaults. A missing
// or unparseable file is an error; use LoadOrDefault when the file is
// optional.
func Load(path string) (*Criteria, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, eris.Wrapf(err, "criteria: read %s", path)
	}

	var c Criteria
	if err := v.Unmarshal(&c); err != nil {
		return nil, eris.Wrapf(err, "criteria: unmarshal %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadOrDefault loads criteria from path, falling back to the built-in
// defaults (with a warning) when the file is absent or invalid. An empty path
// returns the defaults silently.
func LoadOrDefault(path string) *Criteria {
	if path == "" {
		return Default()
	}
	c, err := Load(path)
	if err != nil {
		zap.L().Warn("criteria file unusable, using defaults",
			zap.String("path", path),
			zap.Error(err),
		)
		return Default()
	}
	return c
}

// newViper returns a viper instance with every criteria key defaulted.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("risk_thresholds.critical", DefaultThresholdCritical)
	v.SetDefault("risk_thresholds.high", DefaultThresholdHigh)
	v.SetDefault("risk_thresholds.medium", DefaultThresholdMedium)
	v.SetDefault("risk_thresholds.low", DefaultThresholdLow)

	v.SetDefault("speed_limits.very_dangerous", 100)
	v.SetDefault("speed_limits.dangerous", 80)
	v.SetDefault("speed_limits.moderate", 60)
	v.SetDefault("speed_limits.safe", 50)

	v.SetDefault("highway_types.forbidden", []string{"motorway", "motorway_link"})
	v.SetDefault("highway_types.high_risk", []string{"trunk", "trunk_link"})
	v.SetDefault("highway_types.medium_risk", []string{"primary", "primary_link"})
	v.SetDefault("highway_types.low_risk", []string{"secondary", "tertiary"})

	v.SetDefault("scoring.speed_penalties.very_high", 4.0)
	v.SetDefault("scoring.speed_penalties.high", 3.0)
	v.SetDefault("scoring.speed_penalties.moderate", 2.0)
	v.SetDefault("scoring.speed_penalties.low", 1.0)

	v.SetDefault("scoring.highway_penalties.motorway", 5.0)
	v.SetDefault("scoring.highway_penalties.trunk", 3.0)
	v.SetDefault("scoring.highway_penalties.primary", 2.0)
	v.SetDefault("scoring.highway_penalties.secondary", 1.0)

	v.SetDefault("scoring.infrastructure_penalties.no_cycleway_no_shoulder", 2.5)
	v.SetDefault("scoring.infrastructure_penalties.no_cycleway", 1.5)
	v.SetDefault("scoring.infrastructure_penalties.no_shoulder", 1.0)

	v.SetDefault("scoring.lane_penalties.four_or_more", 2.0)
	v.SetDefault("scoring.lane_penalties.three", 1.0)

	v.SetDefault("scoring.surface_penalties.very_bad", 1.5)
	v.SetDefault("scoring.surface_penalties.bad", 1.0)
	v.SetDefault("scoring.surface_penalties.unpaved", 0.5)

	v.SetDefault("scoring.infrastructure_bonuses.dedicated_bike_lane", -2.0)
	v.SetDefault("scoring.infrastructure_bonuses.wide_shoulder", -1.5)
	v.SetDefault("scoring.infrastructure_bonuses.designated_bike_route", -1.0)

	v.SetDefault("visualization.color_coding.critical", "#FF0000")
	v.SetDefault("visualization.color_coding.high", "#FF8800")
	v.SetDefault("visualization.color_coding.medium", "#FFFF00")
	v.SetDefault("visualization.color_coding.low", "#88FF00")
	v.SetDefault("visualization.color_coding.minimal", "#00FF00")

	return v
}

// Validate checks structural soundness: ordered thresholds, non-negative
// penalties, non-positive bonuses. Scoring itself never validates per
// segment; a bad criteria document fails here, at load time.
func (c *Criteria) Validate() error {
	var errs []string

	crit := c.threshold("critical", DefaultThresholdCritical)
	high := c.threshold("high", DefaultThresholdHigh)
	med := c.threshold("medium", DefaultThresholdMedium)
	low := c.threshold("low", DefaultThresholdLow)
	if !(crit >= high && high >= med && med >= low) {
		errs = append(errs, fmt.Sprintf(
			"risk_thresholds must be ordered critical >= high >= medium >= low, got %.1f/%.1f/%.1f/%.1f",
			crit, high, med, low))
	}
	for level, t := range c.Thresholds {
		if t < 0 || t > 10 {
			errs = append(errs, fmt.Sprintf("risk_thresholds.%s must be within [0, 10]", level))
		}
	}

	for _, tbl := range []struct {
		name string
		m    map[string]float64
	}{
		{"speed_penalties", c.Scoring.SpeedPenalties},
		{"highway_penalties", c.Scoring.HighwayPenalties},
		{"infrastructure_penalties", c.Scoring.InfraPenalties},
		{"lane_penalties", c.Scoring.LanePenalties},
		{"surface_penalties", c.Scoring.SurfacePenalties},
	} {
		for key, p := range tbl.m {
			if p < 0 {
				errs = append(errs, fmt.Sprintf("scoring.%s.%s must be >= 0", tbl.name, key))
			}
		}
	}
	for key, b := range c.Scoring.InfraBonuses {
		if b > 0 {
			errs = append(errs, fmt.Sprintf("scoring.infrastructure_bonuses.%s must be <= 0", key))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("criteria: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Criteria) threshold(level string, fallback float64) float64 {
	if t, ok := c.Thresholds[level]; ok {
		return t
	}
	return fallback
}

func (c *Criteria) speedLimit(band string, fallback int) int {
	if s, ok := c.SpeedLimits[band]; ok {
		return s
	}
	return fallback
}

func lookup(m map[string]float64, key string, fallback float64) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}

// IsForbiddenHighway reports whether the highway class is forbidden for
// cyclists. Forbidden roads pin the risk score to the maximum.
func (c *Criteria) IsForbiddenHighway(highway string) bool {
	forbidden := c.HighwayTypes["forbidden"]
	if forbidden == nil {
		forbidden = []string{"motorway", "motorway_link"}
	}
	for _, h := range forbidden {
		if h == highway {
			return true
		}
	}
	return false
}

// HighwayRiskBucket returns the configured bucket name for a highway class,
// or "unknown" if the class is unlisted.
func (c *Criteria) HighwayRiskBucket(highway string) string {
	for bucket, types := range c.HighwayTypes {
		for _, h := range types {
			if h == highway {
				return bucket
			}
		}
	}
	return "unknown"
}

// SpeedPenalty returns the penalty for a speed limit in km/h, tiered by the
// configured speed bands. Fallbacks: 4/3/2/1 points at >=100/80/60/50.
func (c *Criteria) SpeedPenalty(kph int) float64 {
	switch {
	case kph >= c.speedLimit("very_dangerous", 100):
		return lookup(c.Scoring.SpeedPenalties, "very_high", 4.0)
	case kph >= c.speedLimit("dangerous", 80):
		return lookup(c.Scoring.SpeedPenalties, "high", 3.0)
	case kph >= c.speedLimit("moderate", 60):
		return lookup(c.Scoring.SpeedPenalties, "moderate", 2.0)
	case kph >= c.speedLimit("safe", 50):
		return lookup(c.Scoring.SpeedPenalties, "low", 1.0)
	}
	return 0
}

// HighwayPenalty returns the penalty for a concrete highway class. Unlisted
// classes carry no penalty.
func (c *Criteria) HighwayPenalty(highway string) float64 {
	if c.Scoring.HighwayPenalties == nil {
		return lookup(map[string]float64{
			"motorway":  5.0,
			"trunk":     3.0,
			"primary":   2.0,
			"secondary": 1.0,
		}, highway, 0)
	}
	return lookup(c.Scoring.HighwayPenalties, highway, 0)
}

// InfrastructurePenalty returns the penalty for missing cycling
// infrastructure. Fallbacks: 2.5 when both are missing, 1.5 without a
// cycleway, 1.0 without a shoulder.
func (c *Criteria) InfrastructurePenalty(hasCycleway, hasShoulder bool) float64 {
	switch {
	case !hasCycleway && !hasShoulder:
		return lookup(c.Scoring.InfraPenalties, "no_cycleway_no_shoulder", 2.5)
	case !hasCycleway:
		return lookup(c.Scoring.InfraPenalties, "no_cycleway", 1.5)
	case !hasShoulder:
		return lookup(c.Scoring.InfraPenalties, "no_shoulder", 1.0)
	}
	return 0
}

// LanePenalty returns the penalty for the lane count. Two lanes or fewer
// carry no penalty.
func (c *Criteria) LanePenalty(lanes int) float64 {
	switch {
	case lanes >= 4:
		return lookup(c.Scoring.LanePenalties, "four_or_more", 2.0)
	case lanes >= 3:
		return lookup(c.Scoring.LanePenalties, "three", 1.0)
	}
	return 0
}

// SurfacePenalty returns the penalty for a poor riding surface. An unknown or
// paved surface carries no penalty.
func (c *Criteria) SurfacePenalty(surface string) float64 {
	if surface == "" {
		return 0
	}
	switch strings.ToLower(surface) {
	case "dirt", "sand", "mud":
		return lookup(c.Scoring.SurfacePenalties, "very_bad", 1.5)
	case "gravel", "unpaved", "compacted":
		return lookup(c.Scoring.SurfacePenalties, "bad", 1.0)
	case "fine_gravel", "pebblestone":
		return lookup(c.Scoring.SurfacePenalties, "unpaved", 0.5)
	}
	return 0
}

// InfrastructureBonus returns the (negative) adjustment for good cycling
// provisions. Bonuses are additive: a dedicated cycleway and a designated
// bicycle route both apply.
func (c *Criteria) InfrastructureBonus(cycleway, bicycle string) float64 {
	var bonus float64
	switch cycleway {
	case "track", "separate", "lane":
		bonus += lookup(c.Scoring.InfraBonuses, "dedicated_bike_lane", -2.0)
	case "shared_lane":
		bonus += lookup(c.Scoring.InfraBonuses, "wide_shoulder", -1.5)
	}
	if bicycle == "designated" {
		bonus += lookup(c.Scoring.InfraBonuses, "designated_bike_route", -1.0)
	}
	return bonus
}

// LevelFor discretizes a risk score into a risk level via the configured
// thresholds.
func (c *Criteria) LevelFor(score float64) model.RiskLevel {
	switch {
	case score >= c.threshold("critical", DefaultThresholdCritical):
		return model.RiskCritical
	case score >= c.threshold("high", DefaultThresholdHigh):
		return model.RiskHigh
	case score >= c.threshold("medium", DefaultThresholdMedium):
		return model.RiskMedium
	case score >= c.threshold("low", DefaultThresholdLow):
		return model.RiskLow
	}
	return model.RiskMinimal
}

// ColorFor maps a risk level to its visualization color.
func (c *Criteria) ColorFor(level model.RiskLevel) string {
	if col, ok := c.Visual.ColorCoding[string(level)]; ok {
		return col
	}
	fallbacks := map[model.RiskLevel]string{
		model.RiskCritical: "#FF0000",
		model.RiskHigh:     "#FF8800",
		model.RiskMedium:   "#FFFF00",
		model.RiskLow:      "#88FF00",
		model.RiskMinimal:  "#00FF00",
	}
	if col, ok := fallbacks[level]; ok {
		return col
	}
	return fallbackColor
}

// ColorForScore maps a numeric score straight to a color.
func (c *Criteria) ColorForScore(score float64) string {
	return c.ColorFor(c.LevelFor(score))
}
