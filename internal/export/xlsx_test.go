package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func testMeta() ReportMeta {
	return ReportMeta{
		RunID:         "3f1c9a2e-0000-0000-0000-000000000000",
		RouteName:     "Andorra Gran Fondo",
		RouteLengthKm: 104.2,
		MinRiskScore:  7.0,
		GeneratedAt:   time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.xlsx")
	require.NoError(t, WriteXLSX(path, testSegments(), testMeta(), testCriteria()))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 2)

	summary := file.Sheet["Summary"]
	require.NotNil(t, summary)
	assert.Equal(t, "Route", summary.Rows[0].Cells[0].Value)
	assert.Equal(t, "Andorra Gran Fondo", summary.Rows[0].Cells[1].Value)
	assert.Equal(t, "Unsafe segments", summary.Rows[5].Cells[0].Value)
	assert.Equal(t, "2", summary.Rows[5].Cells[1].Value)

	// Tier breakdown: one critical (9.5), one high (7.2). Tier labels never
	// collide with the metadata labels, so a full scan is safe.
	tiers := make(map[string]string)
	for _, row := range summary.Rows {
		if len(row.Cells) >= 2 {
			tiers[row.Cells[0].Value] = row.Cells[1].Value
		}
	}
	assert.Equal(t, "1", tiers["critical"])
	assert.Equal(t, "1", tiers["high"])
	assert.Equal(t, "0", tiers["minimal"])

	segs := file.Sheet["Segments"]
	require.NotNil(t, segs)
	require.Len(t, segs.Rows, 3) // header + 2 segments
	assert.Equal(t, "Name", segs.Rows[0].Cells[0].Value)
	assert.Equal(t, "Carretera General", segs.Rows[1].Cells[0].Value)
	assert.Equal(t, "101", segs.Rows[1].Cells[1].Value)
	assert.Equal(t, "critical", segs.Rows[1].Cells[4].Value)
}

func TestWriteXLSXEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, nil, testMeta(), testCriteria()))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	segs := file.Sheet["Segments"]
	require.NotNil(t, segs)
	assert.Len(t, segs.Rows, 1)
}
