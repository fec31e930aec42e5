package haplotypes

import (
	"testing"

	"genotyper/api/models/indexes"

	"github.com/stretchr/testify/assert"
)

func TestParseLineageKey(t *testing.T) {
	markers, ok := ParseLineageKey("m2;m1")
	assert.True(t, ok)
	assert.Equal(t, []string{"m1", "m2"}, markers)

	markers, ok = ParseLineageKey(" m3 , m1,m3")
	assert.True(t, ok)
	assert.Equal(t, []string{"m1", "m3"}, markers)

	for _, bad := range []string{"", "  ", ";", "m1;;m2", "m1;"} {
		_, ok := ParseLineageKey(bad)
		assert.False(t, ok, "key %q", bad)
	}

	assert.Equal(t, "a;b;c", CanonicalLineageKey([]string{"c", "a", "b"}))
}

func TestDefinitionsFromRows(t *testing.T) {
	rows := []indexes.HaplotypeRow{
		{HaplotypeName: "H2", Locus: "L", MarkerName: "m3", IsRequired: true},
		{HaplotypeName: "H1", Locus: "L", MarkerName: "m1"},
		{HaplotypeName: "H1", Locus: "L", MarkerName: "m2", IsRequired: true},
		{HaplotypeName: "H1", Locus: "L", MarkerName: "m1", IsRequired: true},
		{HaplotypeName: "H1", Locus: "Other", MarkerName: "x1"},
		{HaplotypeName: "H3", Locus: "L"},
		{HaplotypeName: " ", Locus: "L", MarkerName: "ignored"},
	}

	definitions := DefinitionsFromRows(rows)
	assert.Len(t, definitions, 4)

	assert.Equal(t, "H2", definitions[0].Name)
	assert.Equal(t, "H1", definitions[1].Name)
	assert.Equal(t, "L", definitions[1].Locus)
	assert.Equal(t, []indexes.HaplotypeMarker{
		{Name: "m1", IsRequired: true},
		{Name: "m2", IsRequired: true},
	}, definitions[1].Markers)

	assert.Equal(t, "Other", definitions[2].Locus)
	assert.Equal(t, "H3", definitions[3].Name)
	assert.Empty(t, definitions[3].Markers)
}
