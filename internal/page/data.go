package page

import (
	"fmt"
	"strings"
)

// Field names used by every page.
const (
	FieldContent   = "content"
	FieldBaseURL   = "base_url"
	FieldThemesURL = "themes_url"
	FieldPermalink = "permalink"
	FieldStyles    = "styles"
	FieldScripts   = "scripts"
	FieldTheme     = "theme"
)

// ComputedFields lists the fields the Assembler always sets.
var ComputedFields = []string{FieldBaseURL, FieldThemesURL, FieldPermalink, FieldStyles, FieldScripts}

// Data is a completed page record.
type Data struct {
	fields *Record
}

// NewData wraps a record after checking that every computed field is present.
// The record is copied.
func NewData(r *Record) (*Data, error) {
	var missing []string
	for _, f := range ComputedFields {
		if !r.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("page data missing fields: %s", strings.Join(missing, ", "))
	}
	return &Data{fields: r.Clone()}, nil
}

// Get returns a field value.
func (d *Data) Get(key string) (string, bool) { return d.fields.Get(key) }

// Record returns a copy of the underlying fields.
func (d *Data) Record() *Record { return d.fields.Clone() }

// Permalink returns the page URL.
func (d *Data) Permalink() string {
	v, _ := d.fields.Get(FieldPermalink)
	return v
}

// Theme returns the theme requested by the content file, or "" when the
// default theme applies.
func (d *Data) Theme() string {
	v, _ := d.fields.Get(FieldTheme)
	return strings.TrimSpace(v)
}

// MarshalJSON encodes the page fields in order.
func (d *Data) MarshalJSON() ([]byte, error) {
	return d.fields.MarshalJSON()
}

// UnmarshalJSON decodes an index.json sidecar and validates it.
func (d *Data) UnmarshalJSON(b []byte) error {
	var r Record
	if err := r.UnmarshalJSON(b); err != nil {
		return err
	}
	parsed, err := NewData(&r)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}
