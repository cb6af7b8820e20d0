// Package content parses data.ion content files.
//
// A content file is line oriented: every "key: value" line becomes a field,
// split on the first colon with both sides trimmed. Lines without a colon,
// blank lines and lines with an empty key are ignored. The "content" key is
// special: its value is the rest of its line followed by everything after it
// in the file, verbatim. Invalid UTF-8 sequences are replaced with U+FFFD.
package content

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	ferrors "git.home.luguber.info/inful/ion/internal/foundation/errors"
	"git.home.luguber.info/inful/ion/internal/page"
)

// Parse reads the content file at path.
func Parse(path string) (*page.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.NotFoundError("content file not found").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not open content file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	defer func() { _ = f.Close() }()

	rec, err := ParseReader(f)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not read content file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return rec, nil
}

// ParseReader parses content from r.
func ParseReader(r io.Reader) (*page.Record, error) {
	br := bufio.NewReader(r)
	rec := page.NewRecord()
	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, readErr
		}
		if key, value, ok := splitField(line); ok {
			if key == page.FieldContent {
				rest, err := io.ReadAll(br)
				if err != nil {
					return nil, err
				}
				rec.Set(key, value+validUTF8(string(rest)))
				return rec, nil
			}
			rec.Set(key, value)
		}
		if readErr != nil {
			return rec, nil
		}
	}
}

// splitField splits a line on its first colon.
func splitField(line string) (key, value string, ok bool) {
	k, v, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(validUTF8(k))
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(validUTF8(v)), true
}

func validUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
