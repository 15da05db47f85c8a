package export

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/velosafe/safety-cli/internal/criteria"
	"github.com/velosafe/safety-cli/internal/model"
)

// ReportMeta carries run-level metadata onto the XLSX summary sheet.
type ReportMeta struct {
	RunID         string
	RouteName     string
	RouteLengthKm float64
	MinRiskScore  float64
	GeneratedAt   time.Time
}

// WriteXLSX writes a two-sheet report: a summary sheet with run metadata and
// the risk-tier breakdown, and a segment sheet with one row per segment.
func WriteXLSX(path string, segments []model.RoadSegment, meta ReportMeta, crit *criteria.Criteria) error {
	file := xlsx.NewFile()

	if err := writeSummarySheet(file, segments, meta, crit); err != nil {
		return err
	}
	if err := writeSegmentSheet(file, segments, crit); err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "export: save xlsx %s", path)
	}

	zap.L().Info("export: wrote xlsx report",
		zap.String("path", path),
		zap.Int("segments", len(segments)),
	)
	return nil
}

func writeSummarySheet(file *xlsx.File, segments []model.RoadSegment, meta ReportMeta, crit *criteria.Criteria) error {
	sheet, err := file.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	byTier := make(map[model.RiskLevel]int)
	var totalLength, totalRisk float64
	for i := range segments {
		byTier[crit.LevelFor(segments[i].RiskScore)]++
		totalLength += segments[i].LengthKm()
		totalRisk += segments[i].RiskScore
	}
	avgRisk := 0.0
	if len(segments) > 0 {
		avgRisk = totalRisk / float64(len(segments))
	}

	addPair := func(label string, set func(*xlsx.Cell)) {
		row := sheet.AddRow()
		row.AddCell().SetString(label)
		set(row.AddCell())
	}

	addPair("Route", func(c *xlsx.Cell) { c.SetString(meta.RouteName) })
	addPair("Route length (km)", func(c *xlsx.Cell) { c.SetFloatWithFormat(round2(meta.RouteLengthKm), "0.00") })
	addPair("Run ID", func(c *xlsx.Cell) { c.SetString(meta.RunID) })
	addPair("Generated", func(c *xlsx.Cell) { c.SetString(meta.GeneratedAt.Format(time.RFC3339)) })
	addPair("Min risk score", func(c *xlsx.Cell) { c.SetFloatWithFormat(meta.MinRiskScore, "0.0") })
	addPair("Unsafe segments", func(c *xlsx.Cell) { c.SetInt(len(segments)) })
	addPair("Unsafe length (km)", func(c *xlsx.Cell) { c.SetFloatWithFormat(round2(totalLength), "0.00") })
	addPair("Average risk score", func(c *xlsx.Cell) { c.SetFloatWithFormat(round2(avgRisk), "0.00") })

	sheet.AddRow()
	header := sheet.AddRow()
	header.AddCell().SetString("Risk level")
	header.AddCell().SetString("Segments")
	for _, level := range []model.RiskLevel{
		model.RiskCritical, model.RiskHigh, model.RiskMedium, model.RiskLow, model.RiskMinimal,
	} {
		row := sheet.AddRow()
		row.AddCell().SetString(string(level))
		row.AddCell().SetInt(byTier[level])
	}
	return nil
}

func writeSegmentSheet(file *xlsx.File, segments []model.RoadSegment, crit *criteria.Criteria) error {
	sheet, err := file.AddSheet("Segments")
	if err != nil {
		return eris.Wrap(err, "export: add segment sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{
		"Name", "OSM ID", "Highway", "Risk score", "Risk level",
		"Max speed (km/h)", "Lanes", "Cycleway", "Shoulder", "Surface",
		"Length (km)", "Risk factors",
	} {
		header.AddCell().SetString(h)
	}

	for i := range segments {
		seg := &segments[i]
		row := sheet.AddRow()
		row.AddCell().SetString(seg.Name)
		row.AddCell().SetInt64(seg.ID)
		row.AddCell().SetString(seg.HighwayType)
		row.AddCell().SetFloatWithFormat(round2(seg.RiskScore), "0.00")
		row.AddCell().SetString(string(crit.LevelFor(seg.RiskScore)))
		row.AddCell().SetInt(seg.MaxSpeedKph)
		row.AddCell().SetInt(seg.LaneCount)
		row.AddCell().SetBool(seg.HasCycleway)
		row.AddCell().SetBool(seg.HasShoulder)
		row.AddCell().SetString(seg.Surface)
		row.AddCell().SetFloatWithFormat(round2(seg.LengthKm()), "0.00")
		row.AddCell().SetString(strings.Join(seg.RiskFactors, ", "))
	}
	return nil
}
