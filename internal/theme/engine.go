// Package theme resolves theme templates and fills their placeholders with
// page data.
//
// A theme named N lives at <themes dir>/N/index.html. A page uses the theme
// named by its "theme" field, falling back to the site's default theme.
package theme

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/ion/internal/foundation/errors"
	"git.home.luguber.info/inful/ion/internal/page"
)

// FileName is the template file inside a theme directory.
const FileName = "index.html"

// Site is the part of the site configuration the Engine needs.
type Site interface {
	Root() string
	ThemesDir() string
	DefaultTheme() string
}

// Engine renders page data into theme templates. Template files are read
// once and cached. An Engine is not safe for concurrent use.
type Engine struct {
	site  Site
	cache map[string]string
}

// NewEngine returns an Engine resolving themes for site.
func NewEngine(site Site) *Engine {
	return &Engine{site: site, cache: make(map[string]string)}
}

// ThemeName returns the theme data asks for, or the default theme.
func (e *Engine) ThemeName(data *page.Data) string {
	if name := data.Theme(); name != "" {
		return name
	}
	return e.site.DefaultTheme()
}

// ResolvePath returns the template path for the named theme.
func (e *Engine) ResolvePath(name string) (string, error) {
	if !ValidName(name) {
		return "", ferrors.ValidationError("invalid theme name").
			WithContext("theme", name).
			Build()
	}
	return filepath.Join(e.site.Root(), filepath.FromSlash(e.site.ThemesDir()), name, FileName), nil
}

// RenderPage resolves the theme for data and renders it.
func (e *Engine) RenderPage(data *page.Data) (string, error) {
	path, err := e.ResolvePath(e.ThemeName(data))
	if err != nil {
		return "", err
	}
	return e.Render(path, data)
}

// Render fills the template at themePath with data.
func (e *Engine) Render(themePath string, data *page.Data) (string, error) {
	tpl, err := e.load(themePath)
	if err != nil {
		return "", err
	}
	return Substitute(tpl, data.Get), nil
}

func (e *Engine) load(path string) (string, error) {
	if tpl, ok := e.cache[path]; ok {
		return tpl, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ferrors.TemplateNotFound(path).WithCause(err).Build()
		}
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not read template file").
			Fatal().
			WithContext("template", path).
			Build()
	}
	tpl := string(b)
	e.cache[path] = tpl
	return tpl, nil
}

// ValidName reports whether name can be used as a theme folder name.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
