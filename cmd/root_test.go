package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velosafe/safety-cli/internal/criteria"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"analyze", "regions", "cache", "criteria"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "safety-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestAnalyzeCommand_Flags(t *testing.T) {
	for _, name := range []string{
		"route", "buffer-km", "min-risk-score", "criteria",
		"osm-file", "output-gpx", "output-geojson", "output-shp",
		"output-xlsx", "include-route",
	} {
		require.NotNil(t, analyzeCmd.Flags().Lookup(name), "analyze should have --%s flag", name)
	}
	assert.Equal(t, "true", analyzeCmd.Flags().Lookup("include-route").DefValue)
}

func TestRegionsCommand_HasResolve(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range regionsCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["resolve"])
}

func TestCacheCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range cacheCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["status"])
	assert.True(t, names["clear"])
}

func TestCriteriaInit_WritesLoadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	criteriaInitFlags.output = path
	criteriaInitFlags.force = false
	t.Cleanup(func() {
		criteriaInitFlags.output = "criteria.yaml"
	})

	require.NoError(t, criteriaInitCmd.RunE(criteriaInitCmd, nil))

	crit, err := criteria.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9.0, crit.Thresholds["critical"])

	// Second run without --force refuses to clobber.
	err = criteriaInitCmd.RunE(criteriaInitCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	criteriaInitFlags.force = true
	assert.NoError(t, criteriaInitCmd.RunE(criteriaInitCmd, nil))
	criteriaInitFlags.force = false
}

func TestSizeHint(t *testing.T) {
	assert.Equal(t, "unknown", sizeHint(0))
	assert.Equal(t, "3.0 MB", sizeHint(3*1024*1024))
}
