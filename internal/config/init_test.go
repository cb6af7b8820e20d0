package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/ion/internal/foundation/errors"
)

func TestInit_CreatesLoadableSite(t *testing.T) {
	root := t.TempDir()

	written, err := Init(root, false)
	require.NoError(t, err)
	assert.Len(t, written, 2)

	s, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, s.BaseURL())
	assert.Equal(t, PolicyFailFast, s.OnError())

	theme, err := os.ReadFile(filepath.Join(root, "_ion", "themes", DefaultThemeName, "index.html"))
	require.NoError(t, err)
	for _, placeholder := range []string{"{{ content }}", "{{ base_url }}", "{{ themes_url }}", "{{ permalink }}", "{{ styles }}", "{{ scripts }}"} {
		assert.Contains(t, string(theme), placeholder)
	}
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	root := t.TempDir()
	writeSystemFile(t, root, YAMLFileName, "base_url: /kept/\n")

	_, err := Init(root, false)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryAlreadyExists))

	b, err := os.ReadFile(filepath.Join(root, DefaultSystemDir, YAMLFileName))
	require.NoError(t, err)
	assert.Equal(t, "base_url: /kept/\n", string(b))
}

func TestInit_ForceOverwrites(t *testing.T) {
	root := t.TempDir()
	writeSystemFile(t, root, YAMLFileName, "base_url: /old/\n")

	_, err := Init(root, true)
	require.NoError(t, err)

	s, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, s.BaseURL())
}
