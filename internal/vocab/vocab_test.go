package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryValidates(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, v.Fields)

	// The shipped registry must keep its two required anchor fields.
	require.NotNil(t, v.ByID("annual_premium"))
	require.NotNil(t, v.ByID("liability_limit"))
	assert.True(t, v.ByID("annual_premium").Required)
	assert.True(t, v.ByID("liability_limit").Required)
}

func TestLoadFromFile(t *testing.T) {
	v, err := LoadFromFile("testdata/registry.yaml")
	require.NoError(t, err)

	assert.Len(t, v.Fields, 3)
	assert.Equal(t, "annual_premium", v.ByLabel("Yearly Premium").CanonicalID)
	assert.Equal(t, 2.0, v.ByID("liability_limit").Weight)
	assert.Len(t, v.Required(), 2)
}

func TestLoadFromFile_RejectsOverlap(t *testing.T) {
	_, err := LoadFromFile("testdata/overlapping.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maps to both")
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile("testdata/no_such_file.yaml")
	require.Error(t, err)
}

func TestInitAndActive(t *testing.T) {
	// Active falls back to the built-in registry without Init.
	SetActive(nil)
	v := Active()
	require.NotNil(t, v)
	assert.NotNil(t, v.ByID("annual_premium"))

	require.NoError(t, Init("testdata/registry.yaml"))
	defer SetActive(nil)

	assert.Len(t, Active().Fields, 3)
}
