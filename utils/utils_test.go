package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCommaParam(t *testing.T) {
	assert.Equal(t, []string{"a1", "a2"}, SplitCommaParam(" a1, ,a2,a1,"))
	assert.Empty(t, SplitCommaParam(""))
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("GENOTYPER_ES_URL", "http://elasticsearch:9200")

	cfg, err := LoadConfig()
	assert.Nil(t, err)

	assert.Equal(t, "5000", cfg.Api.Port)
	assert.Equal(t, "genotyper", cfg.Elasticsearch.IndexPrefix)
	assert.Equal(t, "http://elasticsearch:9200", cfg.Elasticsearch.Url)
	assert.Equal(t, -1, cfg.Engine.MaxNonCoveredPositions)
	assert.Equal(t, 10.0, cfg.Engine.PctDifferentialFilter)
	assert.Equal(t, "#FF9900", cfg.Palette.FrameshiftColor)
}

func TestLoadConfigYamlOverlay(t *testing.T) {
	t.Setenv(ConfigFileEnv, filepath.Join("testdata", "test.config.yml"))
	t.Setenv("GENOTYPER_MIN_VARIANT_READ_COUNT", "4")

	cfg, err := LoadConfig()
	assert.Nil(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "genotyper-test", cfg.Elasticsearch.IndexPrefix)
	assert.Equal(t, 20.0, cfg.Engine.MinCoverage)
	assert.Equal(t, 15.0, cfg.Engine.PctDifferentialFilter)
	assert.Equal(t, "#FFA500", cfg.Palette.FrameshiftColor)

	// keys absent from the file keep their environment values
	assert.Equal(t, 4, cfg.Engine.MinVariantReadCount)
	assert.Equal(t, "#0000FF", cfg.Palette.SynonymousColor)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv(ConfigFileEnv, filepath.Join("testdata", "nope.yml"))

	_, err := LoadConfig()
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "opening config file")
}
