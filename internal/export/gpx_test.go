package export

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode-side structs: local names only, namespaces resolved by the decoder.
type decodedGPX struct {
	XMLName xml.Name       `xml:"gpx"`
	Version string         `xml:"version,attr"`
	Tracks  []decodedTrack `xml:"trk"`
}

type decodedTrack struct {
	Name     string `xml:"name"`
	Desc     string `xml:"desc"`
	Segments []struct {
		Points []struct {
			Lat float64 `xml:"lat,attr"`
			Lon float64 `xml:"lon,attr"`
		} `xml:"trkpt"`
	} `xml:"trkseg"`
}

func TestWriteGPX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "unsafe.gpx")
	require.NoError(t, WriteGPX(path, testSegments(), testRoute(), testCriteria()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc decodedGPX
	require.NoError(t, xml.Unmarshal(data, &doc))
	assert.Equal(t, "1.1", doc.Version)
	require.Len(t, doc.Tracks, 3)

	// Route first, fixed blue, independent of risk coloring.
	assert.Equal(t, "Andorra Gran Fondo", doc.Tracks[0].Name)
	assert.Contains(t, string(data), "<gpx_style:color>0000FF</gpx_style:color>")

	assert.Equal(t, "Carretera General (Risk: 9.5)", doc.Tracks[1].Name)
	assert.Contains(t, doc.Tracks[1].Desc, "Highway: primary")
	assert.Contains(t, doc.Tracks[1].Desc, "critical")
	assert.Contains(t, doc.Tracks[1].Desc, "high_speed, highway_primary")
	// Critical tier renders red.
	assert.Contains(t, string(data), "<gpx_style:color>FF0000</gpx_style:color>")

	require.Len(t, doc.Tracks[1].Segments, 1)
	require.Len(t, doc.Tracks[1].Segments[0].Points, 2)
	assert.InDelta(t, 42.50, doc.Tracks[1].Segments[0].Points[0].Lat, 1e-9)
	assert.InDelta(t, 1.52, doc.Tracks[1].Segments[0].Points[0].Lon, 1e-9)
}

func TestWriteGPXWithoutRoute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unsafe.gpx")
	require.NoError(t, WriteGPX(path, testSegments(), nil, testCriteria()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc decodedGPX
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Tracks, 2)
	assert.True(t, strings.HasPrefix(doc.Tracks[0].Name, "Carretera General"))
}

func TestWriteGPXEmptySegments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gpx")
	require.NoError(t, WriteGPX(path, nil, testRoute(), testCriteria()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc decodedGPX
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Tracks, 1)
	assert.Equal(t, "Andorra Gran Fondo", doc.Tracks[0].Name)

	// Well-formed even with no segments at all.
	require.NoError(t, WriteGPX(path, nil, nil, testCriteria()))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	doc = decodedGPX{}
	require.NoError(t, xml.Unmarshal(data, &doc))
	assert.Empty(t, doc.Tracks)
}

func TestWriteGPXDoesNotMutateInput(t *testing.T) {
	segments := testSegments()
	before := segments[0]
	path := filepath.Join(t.TempDir(), "unsafe.gpx")
	require.NoError(t, WriteGPX(path, segments, testRoute(), testCriteria()))
	assert.Equal(t, before, segments[0])
}
