package page

import (
	"git.home.luguber.info/inful/ion/internal/assets"
	"git.home.luguber.info/inful/ion/internal/urlpath"
)

// Site is the part of the site configuration the Assembler needs.
type Site interface {
	BaseURL() string
	// ThemesDir is the themes directory relative to the site root, slash separated.
	ThemesDir() string
}

// Assembler completes parsed content records into page data.
type Assembler struct {
	site Site
}

// NewAssembler returns an Assembler for site.
func NewAssembler(site Site) *Assembler {
	return &Assembler{site: site}
}

// Assemble copies rec and adds the computed fields for the directory relDir
// (relative to the site root) whose regular files are fileNames. Computed
// fields replace user fields of the same name.
func (a *Assembler) Assemble(rec *Record, relDir string, fileNames []string) (*Data, error) {
	out := rec.Clone()
	base := a.site.BaseURL()
	permalink := urlpath.Join(base, urlpath.CleanRel(relDir))
	tags := assets.Scan(fileNames, permalink)

	out.Set(FieldBaseURL, base)
	out.Set(FieldThemesURL, urlpath.Join(base, a.site.ThemesDir()))
	out.Set(FieldPermalink, permalink)
	out.Set(FieldStyles, tags.Styles)
	out.Set(FieldScripts, tags.Scripts)
	return NewData(out)
}
