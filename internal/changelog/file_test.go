package changelog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CHANGELOG.md")
		require.NoError(t, os.WriteFile(path, []byte(sampleChangelog), 0o644))

		doc, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, sampleDocument(), doc)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.md"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CHANGELOG.md")
		require.NoError(t, os.WriteFile(path, []byte("## [1.0.0]\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.True(t, IsParseError(err))
	})
}

func TestSave(t *testing.T) {
	t.Run("writes rendered document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CHANGELOG.md")

		require.NoError(t, Save(path, sampleDocument()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, sampleChangelog, string(data))
	})

	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "docs", "nested", "CHANGELOG.md")

		require.NoError(t, Save(path, NewDocument()))

		_, err := os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("rejects invalid document and leaves file untouched", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CHANGELOG.md")
		require.NoError(t, os.WriteFile(path, []byte(sampleChangelog), 0o644))

		invalid := &Document{Sections: []Section{
			{Label: "unreleased"},
			{Label: "unreleased"},
		}}

		err := Save(path, invalid)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "only one Unreleased section")

		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, sampleChangelog, string(data))
	})

	t.Run("summarizes multiple issues", func(t *testing.T) {
		invalid := &Document{Sections: []Section{
			{Label: "bad-label"},
		}}

		err := Save(filepath.Join(t.TempDir(), "CHANGELOG.md"), invalid)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "and 1 more issue")
	})

	t.Run("no temp file left behind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "CHANGELOG.md")

		require.NoError(t, Save(path, NewDocument()))

		files, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "CHANGELOG.md", files[0].Name())
	})
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleChangelog), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Save(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleChangelog, string(data))
}

func TestLoadEmbedded(t *testing.T) {
	doc, err := LoadEmbedded()
	require.NoError(t, err)

	assert.True(t, doc.HasUnreleased())
	assert.NotNil(t, doc.GetLatestRelease())
	assert.Empty(t, Validate(doc))
	assert.NotEmpty(t, Embedded())
}
