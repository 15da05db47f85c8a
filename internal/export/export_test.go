package export

import (
	"github.com/paulmach/orb"

	"github.com/velosafe/safety-cli/internal/criteria"
	"github.com/velosafe/safety-cli/internal/model"
)

func testSegments() []model.RoadSegment {
	return []model.RoadSegment{
		{
			ID:          101,
			Name:        "Carretera General",
			Geometry:    orb.LineString{{1.52, 42.50}, {1.53, 42.51}},
			HighwayType: "primary",
			MaxSpeedKph: 90,
			LaneCount:   4,
			Surface:     "asphalt",
			RiskScore:   9.5,
			RiskFactors: []string{"high_speed", "highway_primary", "no_bike_infrastructure", "multi_lane"},
		},
		{
			ID:          102,
			Name:        "Unnamed Road",
			Geometry:    orb.LineString{{1.54, 42.52}, {1.55, 42.53}},
			HighwayType: "secondary",
			MaxSpeedKph: 60,
			HasCycleway: true,
			LaneCount:   2,
			RiskScore:   7.2,
			RiskFactors: []string{"moderate_speed", "highway_secondary"},
		},
	}
}

func testRoute() *model.Route {
	return &model.Route{
		Name:   "Andorra Gran Fondo",
		Points: orb.LineString{{1.50, 42.49}, {1.56, 42.54}},
	}
}

func testCriteria() *criteria.Criteria {
	return criteria.Default()
}
