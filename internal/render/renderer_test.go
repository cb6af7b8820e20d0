package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/ion/internal/config"
	ferrors "git.home.luguber.info/inful/ion/internal/foundation/errors"
	"git.home.luguber.info/inful/ion/internal/metrics"
	"git.home.luguber.info/inful/ion/internal/page"
)

const testTheme = "<h1>{{ title }}</h1>\n{{ styles }}{{ scripts }}<a href=\"{{ permalink }}\">{{ base_url }}</a>\n{{ content }}"

type site struct {
	t    *testing.T
	root string
}

func newSite(t *testing.T) *site {
	t.Helper()
	s := &site{t: t, root: t.TempDir()}
	s.write("_ion/themes/ionize/index.html", testTheme)
	return s
}

func (s *site) write(rel, content string) {
	s.t.Helper()
	path := filepath.Join(s.root, filepath.FromSlash(rel))
	require.NoError(s.t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(s.t, os.WriteFile(path, []byte(content), 0o600))
}

func (s *site) read(rel string) string {
	s.t.Helper()
	b, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	require.NoError(s.t, err)
	return string(b)
}

func (s *site) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel)))
	return err == nil
}

func (s *site) config(f config.File) *config.Site {
	s.t.Helper()
	cfg, err := config.New(s.root, f)
	require.NoError(s.t, err)
	return cfg
}

func TestRender_Tree(t *testing.T) {
	s := newSite(t)
	s.write("data.ion", "title: Home\ncontent: Welcome")
	s.write("blog/notes.txt", "no content file here")
	s.write("blog/post/data.ion", "title: Post\ndate: 2024-01-01\ncontent:\n<p>Hello</p>\n")

	var hooked []string
	r := New(s.config(config.File{BaseURL: "http://example.com/"}), WithPageHook(func(p string) { hooked = append(hooked, p) }))
	report, err := r.Render(context.Background(), ".")
	require.NoError(t, err)

	assert.Equal(t, []string{"index.html", "blog/post/index.html"}, report.Pages)
	assert.Equal(t, report.Pages, hooked)
	// blog plus the two theme folders below the blocked system folder.
	assert.Equal(t, 3, report.Skipped)
	assert.Equal(t, 1, report.Blocked)
	assert.NotEmpty(t, report.RunID)
	assert.False(t, s.exists("blog/index.html"))

	assert.Equal(t, "<h1>Home</h1>\n<a href=\"http://example.com/\">http://example.com/</a>\nWelcome", s.read("index.html"))
	assert.Equal(t, "<h1>Post</h1>\n<a href=\"http://example.com/blog/post\">http://example.com/</a>\n<p>Hello</p>\n", s.read("blog/post/index.html"))
}

func TestRender_BlockedDirectoriesNotEmitted(t *testing.T) {
	s := newSite(t)
	s.write("_ion/data.ion", "title: System")
	s.write("drafts/data.ion", "title: Draft")
	s.write("drafts/nested/data.ion", "title: Nested draft")
	s.write("public/data.ion", "title: Public")

	r := New(s.config(config.File{BlockedDirs: config.DirList{"drafts"}}))
	report, err := r.Render(context.Background(), ".")
	require.NoError(t, err)

	assert.Equal(t, []string{"drafts/nested/index.html", "public/index.html"}, report.Pages)
	assert.Equal(t, 2, report.Blocked)
	assert.False(t, s.exists("_ion/index.html"))
	assert.False(t, s.exists("drafts/index.html"))
	assert.False(t, s.exists("drafts/index.json"))
	assert.True(t, s.exists("drafts/nested/index.html"))
}

func TestRender_NestedBlockedByOwnName(t *testing.T) {
	s := newSite(t)
	s.write("drafts/data.ion", "title: Draft")
	s.write("drafts/nested/data.ion", "title: Nested draft")

	r := New(s.config(config.File{BlockedDirs: config.DirList{"drafts", "drafts/nested"}}))
	report, err := r.Render(context.Background(), ".")
	require.NoError(t, err)

	assert.Empty(t, report.Pages)
	assert.False(t, s.exists("drafts/nested/index.html"))
}

func TestRender_SymlinkedContentFile(t *testing.T) {
	s := newSite(t)
	s.write("shared/page.ion", "title: Linked")
	s.write("shared/style.css", "")
	require.NoError(t, os.MkdirAll(filepath.Join(s.root, "linked"), 0o750))
	if err := os.Symlink(filepath.Join(s.root, "shared", "page.ion"), filepath.Join(s.root, "linked", "data.ion")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(s.root, "shared", "style.css"), filepath.Join(s.root, "linked", "style.css")))

	report, err := New(s.config(config.File{})).Render(context.Background(), ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"linked/index.html"}, report.Pages)
	assert.Contains(t, s.read("linked/index.html"), "<h1>Linked</h1>")
	assert.Contains(t, s.read("linked/index.json"), "/linked/style.css")
}

func TestRender_NoContentFileNoOutput(t *testing.T) {
	s := newSite(t)
	s.write("empty/readme.txt", "x")

	report, err := New(s.config(config.File{})).Render(context.Background(), ".")
	require.NoError(t, err)
	assert.Empty(t, report.Pages)
	assert.False(t, s.exists("empty/index.html"))
	assert.False(t, s.exists("empty/index.json"))
}

func TestRender_JSONSidecarInvalidUTF8RoundTrips(t *testing.T) {
	s := newSite(t)
	s.write("docs/data.ion", "title: caf\xe9\ncontent: a\xffb")

	_, err := New(s.config(config.File{})).Render(context.Background(), "docs")
	require.NoError(t, err)

	var got page.Record
	require.NoError(t, got.UnmarshalJSON([]byte(s.read("docs/index.json"))))
	assertField(t, &got, "title", "caf\uFFFD")
	assertField(t, &got, "content", "a\uFFFDb")
	assert.Contains(t, s.read("docs/index.html"), "<h1>caf\uFFFD</h1>")
}

func TestRender_JSONSidecarMatchesPageData(t *testing.T) {
	s := newSite(t)
	s.write("docs/data.ion", "title: Docs\nbase_url: ignored\nauthor: Ada\ncontent: <b>bold</b>")
	s.write("docs/site.css", "")
	s.write("docs/app.JS", "")
	s.write("docs/image.png", "")

	cfg := s.config(config.File{BaseURL: "/site/"})
	_, err := New(cfg).Render(context.Background(), "docs")
	require.NoError(t, err)

	var got page.Record
	require.NoError(t, got.UnmarshalJSON([]byte(s.read("docs/index.json"))))

	assert.Equal(t, []string{"title", "base_url", "author", "content", "themes_url", "permalink", "styles", "scripts"}, got.Keys())
	assertField(t, &got, "base_url", "/site/")
	assertField(t, &got, "themes_url", "/site/_ion/themes")
	assertField(t, &got, "permalink", "/site/docs")
	assertField(t, &got, "styles", "<link rel=\"stylesheet\" type=\"text/css\" href=\"/site/docs/site.css\"/>\n")
	assertField(t, &got, "scripts", "<script src=\"/site/docs/app.JS\"></script>\n")
	assertField(t, &got, "content", "<b>bold</b>")
	assert.Contains(t, s.read("docs/index.json"), "<b>bold</b>")
}

func assertField(t *testing.T, r *page.Record, key, want string) {
	t.Helper()
	v, ok := r.Get(key)
	require.True(t, ok, "missing field %q", key)
	assert.Equal(t, want, v)
}

func TestRender_PageThemeOverridesDefault(t *testing.T) {
	s := newSite(t)
	s.write("_ion/themes/plain/index.html", "plain: {{ title }}")
	s.write("data.ion", "title: Home\ntheme: plain")

	_, err := New(s.config(config.File{})).Render(context.Background(), ".")
	require.NoError(t, err)
	assert.Equal(t, "plain: Home", s.read("index.html"))
}

func TestRender_FailFastOnMissingTheme(t *testing.T) {
	s := newSite(t)
	s.write("a/data.ion", "title: A")
	s.write("b/data.ion", "title: B\ntheme: missing")
	s.write("c/data.ion", "title: C")

	report, err := New(s.config(config.File{})).Render(context.Background(), ".")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	dir, _ := ce.Context().GetString("dir")
	assert.Equal(t, "b", dir)

	assert.Equal(t, []string{"a/index.html"}, report.Pages)
	assert.False(t, s.exists("b/index.html"))
	assert.False(t, s.exists("c/index.html"))
}

func TestRender_ContinuePolicyCollectsFailures(t *testing.T) {
	s := newSite(t)
	s.write("a/data.ion", "title: A")
	s.write("b/data.ion", "title: B\ntheme: missing")
	s.write("c/data.ion", "title: C")

	report, err := New(s.config(config.File{OnError: "continue"})).Render(context.Background(), ".")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	assert.Equal(t, []string{"a/index.html", "c/index.html"}, report.Pages)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "b", report.Failures[0].Dir)
	assert.True(t, s.exists("c/index.html"))
}

func TestRender_InvalidThemeNameIsValidationError(t *testing.T) {
	s := newSite(t)
	s.write("data.ion", "theme: ../../etc")

	_, err := New(s.config(config.File{})).Render(context.Background(), ".")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestRender_RootOutsideSite(t *testing.T) {
	s := newSite(t)

	_, err := New(s.config(config.File{})).Render(context.Background(), "..")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestRender_MissingRoot(t *testing.T) {
	s := newSite(t)

	_, err := New(s.config(config.File{})).Render(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestRender_SubtreeOnly(t *testing.T) {
	s := newSite(t)
	s.write("data.ion", "title: Home")
	s.write("blog/data.ion", "title: Blog")

	report, err := New(s.config(config.File{})).Render(context.Background(), filepath.Join(s.root, "blog"))
	require.NoError(t, err)
	assert.Equal(t, []string{"blog/index.html"}, report.Pages)
	assert.False(t, s.exists("index.html"))
}

func TestRender_Canceled(t *testing.T) {
	s := newSite(t)
	s.write("data.ion", "title: Home")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(s.config(config.File{})).Render(ctx, ".")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Pages)
}

func TestRender_RecordsMetrics(t *testing.T) {
	s := newSite(t)
	s.write("data.ion", "title: Home")
	s.write("empty/readme.txt", "")

	reg := prom.NewRegistry()
	r := New(s.config(config.File{}), WithRecorder(metrics.NewPrometheusRecorder(reg)))
	_, err := r.Render(context.Background(), ".")
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	results := map[string]float64{}
	var pages float64
	for _, mf := range mfs {
		switch mf.GetName() {
		case "ion_directory_results_total":
			for _, m := range mf.GetMetric() {
				results[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
			}
		case "ion_pages_rendered":
			pages = mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"rendered": 1, "skipped": 3, "blocked": 1}, results)
	assert.InDelta(t, 1, pages, 0)
}
