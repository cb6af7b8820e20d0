// Package assets turns the stylesheets and scripts found next to a content
// file into the markup placed in a page's styles and scripts fields.
package assets

import (
	"path"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/ion/internal/urlpath"
)

// Tags holds the generated markup, one element per line.
type Tags struct {
	Styles  string
	Scripts string
}

// Kind classifies a file name by extension.
type Kind int

const (
	KindOther Kind = iota
	KindStyle
	KindScript
)

// Classify returns the asset kind of name. Matching is case-insensitive.
func Classify(name string) Kind {
	switch strings.ToLower(path.Ext(name)) {
	case ".css":
		return KindStyle
	case ".js":
		return KindScript
	default:
		return KindOther
	}
}

// Scan builds link and script elements for every .css and .js name in
// fileNames, in the given order, referencing baseURL/name.
func Scan(fileNames []string, baseURL string) Tags {
	var styles, scripts strings.Builder
	for _, name := range fileNames {
		switch Classify(name) {
		case KindStyle:
			writeNode(&styles, linkNode(urlpath.Join(baseURL, name)))
		case KindScript:
			writeNode(&scripts, scriptNode(urlpath.Join(baseURL, name)))
		}
	}
	return Tags{Styles: styles.String(), Scripts: scripts.String()}
}

func linkNode(href string) *html.Node {
	return &html.Node{
		Type: html.ElementNode,
		Data: "link",
		Attr: []html.Attribute{
			{Key: "rel", Val: "stylesheet"},
			{Key: "type", Val: "text/css"},
			{Key: "href", Val: href},
		},
	}
}

func scriptNode(src string) *html.Node {
	return &html.Node{
		Type: html.ElementNode,
		Data: "script",
		Attr: []html.Attribute{{Key: "src", Val: src}},
	}
}

// writeNode renders n followed by a newline. Rendering into a strings.Builder
// cannot fail for childless elements.
func writeNode(b *strings.Builder, n *html.Node) {
	_ = html.Render(b, n)
	b.WriteByte('\n')
}
