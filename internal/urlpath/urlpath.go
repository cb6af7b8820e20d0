// Package urlpath joins URL path segments the way page URLs are built:
// slashes are collapsed at the join point only.
package urlpath

import (
	"path/filepath"
	"strings"
)

// Join appends segments to base. Empty segments are skipped, so a trailing
// slash on base survives when nothing follows it. Slashes inside base or a
// segment are left alone.
func Join(base string, segments ...string) string {
	out := base
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if out == "" {
			out = seg
			continue
		}
		out = strings.TrimRight(out, "/") + "/" + strings.TrimLeft(seg, "/")
	}
	return out
}

// CleanRel converts a relative filesystem path to slash form and strips any
// leading "./". The current directory becomes the empty string.
func CleanRel(p string) string {
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimLeft(p[2:], "/")
	}
	if p == "." {
		return ""
	}
	return p
}
