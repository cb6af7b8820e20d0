package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Path", KeyPath, "blog/index.html", Path("blog/index.html")},
		{"Dir", KeyDir, "blog", Dir("blog")},
		{"File", KeyFile, "data.ion", File("data.ion")},
		{"Theme", KeyTheme, "ionize", Theme("ionize")},
		{"Permalink", KeyPermalink, "/blog", Permalink("/blog")},
		{"Policy", KeyPolicy, "fail-fast", Policy("fail-fast")},
		{"Event", KeyEvent, "WRITE", Event("WRITE")},
		{"Error", KeyError, "boom", Error(errors.New("boom"))},
		{"NilError", KeyError, "", Error(nil)},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if v := Pages(3).Value.Int64(); v != 3 {
		t.Fatalf("expected pages 3, got %d", v)
	}
	if v := Skipped(2).Value.Int64(); v != 2 {
		t.Fatalf("expected skipped 2, got %d", v)
	}
	if v := Failures(1).Value.Int64(); v != 1 {
		t.Fatalf("expected failures 1, got %d", v)
	}
	if v := DurationMS(1.5).Value.Float64(); v != 1.5 {
		t.Fatalf("expected duration 1.5, got %f", v)
	}
}
