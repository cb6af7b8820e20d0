package theme

import "strings"

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Lookup returns the value for a placeholder name.
type Lookup func(name string) (string, bool)

// Substitute replaces every "{{ name }}" placeholder in tpl whose name is
// known to lookup with the trimmed value. Whitespace around the name is
// optional. Unknown and malformed placeholders are copied verbatim and
// substituted values are not scanned again.
func Substitute(tpl string, lookup Lookup) string {
	var b strings.Builder
	b.Grow(len(tpl))
	for {
		start := strings.Index(tpl, openDelim)
		if start < 0 {
			b.WriteString(tpl)
			return b.String()
		}
		b.WriteString(tpl[:start])
		tpl = tpl[start:]

		name, n, ok := scanPlaceholder(tpl)
		if !ok {
			// Step over a single brace so "{{{ x }}" still finds "{{ x }}".
			b.WriteByte(tpl[0])
			tpl = tpl[1:]
			continue
		}
		if v, found := lookup(name); found {
			b.WriteString(strings.TrimSpace(v))
		} else {
			b.WriteString(tpl[:n])
		}
		tpl = tpl[n:]
	}
}

// scanPlaceholder parses a placeholder at the start of s and returns the
// trimmed name and the length of the whole token.
func scanPlaceholder(s string) (string, int, bool) {
	end := strings.Index(s[len(openDelim):], closeDelim)
	if end < 0 {
		return "", 0, false
	}
	inner := s[len(openDelim) : len(openDelim)+end]
	if strings.ContainsAny(inner, "{}") {
		return "", 0, false
	}
	name := strings.TrimSpace(inner)
	if name == "" {
		return "", 0, false
	}
	return name, len(openDelim) + end + len(closeDelim), true
}
