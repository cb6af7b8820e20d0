package commands

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/ion/internal/config"
	ferrors "git.home.luguber.info/inful/ion/internal/foundation/errors"
	iontesting "git.home.luguber.info/inful/ion/internal/testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	var cli CLI
	parser, err := NewParser(&cli, kong.Writers(&out, &out), kong.Exit(func(int) {}))
	require.NoError(t, err)

	kctx, err := parser.Parse(args)
	if err != nil {
		return out.String(), err
	}
	g := &Global{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stdout: &out,
		Stderr: io.Discard,
	}
	err = kctx.Run(g, &cli)
	return out.String(), err
}

func TestInitSparkCharge(t *testing.T) {
	root := t.TempDir()

	out, err := run(t, "-C", root, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Site initialized")

	out, err = run(t, "-C", root, "spark", "blog/first-post")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 'blog/first-post' successfully created.")

	out, err = run(t, "-C", root, "spark", "blog/first-post")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, err = run(t, "-C", root, "charge")
	require.NoError(t, err)
	assert.Equal(t, "'blog/first-post/index.html' generated.\n", out)

	html, err := os.ReadFile(filepath.Join(root, "blog", "first-post", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<title>First Post</title>")
	assert.FileExists(t, filepath.Join(root, "blog", "first-post", "index.json"))
	assert.NoFileExists(t, filepath.Join(root, "_ion", "themes", "ionize", "index.json"))
}

func TestCharge_WritesMetricsFile(t *testing.T) {
	root := iontesting.NewSiteBuilder(t).
		WithConfig(config.File{MetricsFile: "out/ion.prom"}).
		WithTheme("ionize", "{{ title }}").
		WithPage(".", "title: Home\n").
		Build()

	out, err := run(t, "-C", root, "charge", ".")
	require.NoError(t, err)
	assert.Equal(t, "'index.html' generated.\n", out)

	iontesting.NewFileAssertions(t, root).
		AssertFileEquals("index.html", "Home").
		AssertFileContains("out/ion.prom", "ion_pages_rendered 1")
}

func TestCharge_WithoutSystemFolder(t *testing.T) {
	_, err := run(t, "-C", t.TempDir(), "charge")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestInit_RefusesSecondRun(t *testing.T) {
	root := t.TempDir()
	_, err := run(t, "-C", root, "init")
	require.NoError(t, err)

	_, err = run(t, "-C", root, "init")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryAlreadyExists))

	_, err = run(t, "-C", root, "init", "--force")
	require.NoError(t, err)
}

func TestHelp(t *testing.T) {
	out, err := run(t, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "spark")
	assert.Contains(t, out, "charge")
}

func TestUnknownOrMissingCommand(t *testing.T) {
	_, err := run(t, "zap")
	require.Error(t, err)

	_, err = run(t)
	require.Error(t, err)
}
