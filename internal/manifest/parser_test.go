package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func TestLoad_FullManifest(t *testing.T) {
	m, err := Load(testPath("valid-full.json"))
	require.NoError(t, err)
	require.Len(t, m.Items, 2)

	theme := m.Items[0]
	assert.Equal(t, "git clone --depth 1 https://example.com/theme.git .", theme.Get)
	require.NotNil(t, theme.Build)
	assert.Equal(t, "make dist", *theme.Build)
	require.NotNil(t, theme.Source)
	assert.Equal(t, "dist", *theme.Source)
	require.NotNil(t, theme.Dest)
	assert.Equal(t, "public/theme", *theme.Dest)
	assert.Equal(t, []string{"theme.css", "fonts"}, theme.Assets)
	assert.True(t, theme.OverwriteEnabled())
	require.Len(t, theme.Children, 1)
	assert.Equal(t, []string{"icons/*.svg"}, theme.Children[0].Assets)
	assert.False(t, theme.Children[0].OverwriteEnabled())

	greeting := m.Items[1]
	assert.False(t, greeting.HasBuild())
	assert.Nil(t, greeting.Source)
	assert.Nil(t, greeting.Dest)
	assert.Empty(t, greeting.Children)

	assert.Equal(t, 3, m.Count())
}

func TestLoad_MissingAssetsDefaultsToEmpty(t *testing.T) {
	m, err := Load(testPath("valid-minimal.json"))
	require.NoError(t, err)
	require.Len(t, m.Items, 1)
	assert.NotNil(t, m.Items[0].Assets)
	assert.Empty(t, m.Items[0].Assets)
}

func TestLoad_NullOptionalFields(t *testing.T) {
	m, err := Load(testPath("valid-nulls.json"))
	require.NoError(t, err)

	item := m.Items[0]
	assert.Nil(t, item.Build)
	assert.Nil(t, item.Source)
	assert.Nil(t, item.Dest)
	assert.False(t, item.OverwriteEnabled(), "null overwrite is treated as absent")
	assert.Empty(t, item.Children)
}

func TestLoad_UnknownFieldsIgnored(t *testing.T) {
	m, err := Load(testPath("valid-unknown-field.json"))
	require.NoError(t, err)
	assert.Len(t, m.Items, 1)
}

func TestParse_OverwritePresenceQuirk(t *testing.T) {
	tests := []struct {
		name string
		json string
		want bool
	}{
		{"absent", `{"items":[{"get":"true","assets":[]}]}`, false},
		{"true", `{"items":[{"get":"true","assets":[],"overwrite":true}]}`, true},
		{"false still enables", `{"items":[{"get":"true","assets":[],"overwrite":false}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Items[0].OverwriteEnabled())
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	files := []string{
		"invalid-missing-get.json",
		"invalid-bad-types.json",
		"invalid-absolute-asset.json",
		"invalid-child.json",
		"invalid-missing-items.json",
		"invalid-not-json.json",
	}

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			_, err := Load(testPath(file))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
			assert.Contains(t, err.Error(), file)
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(testPath("nonexistent.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_ErrorNamesMissingField(t *testing.T) {
	_, err := Parse([]byte(`{"items":[{"assets":[]}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/items/0")
	assert.Contains(t, err.Error(), "get")
}
