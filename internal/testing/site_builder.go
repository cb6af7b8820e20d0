package testing

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/ion/internal/config"
)

// SiteBuilder provides a fluent interface for creating site trees in a
// temporary directory.
type SiteBuilder struct {
	t    *testing.T
	root string
	cfg  config.File
}

// NewSiteBuilder creates a builder rooted at a fresh temporary directory.
func NewSiteBuilder(t *testing.T) *SiteBuilder {
	t.Helper()
	return &SiteBuilder{t: t, root: t.TempDir()}
}

// Root returns the site root.
func (sb *SiteBuilder) Root() string { return sb.root }

// WithConfig sets the configuration written to _ion/config.yaml by Build.
func (sb *SiteBuilder) WithConfig(cfg config.File) *SiteBuilder {
	sb.cfg = cfg
	return sb
}

// WithTheme writes the template of the named theme.
func (sb *SiteBuilder) WithTheme(name, template string) *SiteBuilder {
	sb.t.Helper()
	return sb.WithFile(filepath.Join(config.DefaultSystemDir, config.ThemesDirName, name, "index.html"), template)
}

// WithPage writes a content file into dir.
func (sb *SiteBuilder) WithPage(dir, content string) *SiteBuilder {
	sb.t.Helper()
	return sb.WithFile(filepath.Join(dir, config.DefaultSourceFile), content)
}

// WithFile writes an arbitrary file relative to the root.
func (sb *SiteBuilder) WithFile(relativePath, content string) *SiteBuilder {
	sb.t.Helper()
	fullPath := filepath.Join(sb.root, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(fullPath), testDirPermissions); err != nil {
		sb.t.Fatalf("Failed to create directory for %s: %v", relativePath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), testFilePermissions); err != nil {
		sb.t.Fatalf("Failed to write %s: %v", relativePath, err)
	}
	return sb
}

// Build writes the configuration file and returns the site root.
func (sb *SiteBuilder) Build() string {
	sb.t.Helper()
	data, err := yaml.Marshal(sb.cfg)
	if err != nil {
		sb.t.Fatalf("Failed to marshal config: %v", err)
	}
	sb.WithFile(filepath.Join(config.DefaultSystemDir, config.YAMLFileName), string(data))
	return sb.root
}

// Load builds the site and loads its configuration.
func (sb *SiteBuilder) Load() *config.Site {
	sb.t.Helper()
	site, err := config.Load(sb.Build())
	if err != nil {
		sb.t.Fatalf("Failed to load site: %v", err)
	}
	return site
}
