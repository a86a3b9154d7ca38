package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Document", KeyDocument, "README.md", Document("README.md")},
		{"Format", KeyFormat, "html", Format("html")},
		{"RenderID", KeyRenderID, "rid", RenderID("rid")},
		{"Path", KeyPath, "/docs/a.md", Path("/docs/a.md")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"Addr", KeyAddr, ":8080", Addr(":8080")},
		{"Operation", KeyOperation, "Paragraph", Operation("Paragraph")},
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
	if v := Bytes(12); v.Key != KeyBytes || v.Value.Int64() != 12 {
		t.Fatalf("Bytes mismatch: %v", v)
	}
	if v := Status(404); v.Key != KeyStatus || v.Value.Int64() != 404 {
		t.Fatalf("Status mismatch: %v", v)
	}
	if v := Depth(16); v.Key != KeyDepth {
		t.Fatalf("Depth key mismatch: %s", v.Key)
	}
	if v := Since(time.Now().Add(-time.Second)); v.Key != KeyDurationMS || v.Value.Float64() < 1000 {
		t.Fatalf("Since mismatch: %v", v)
	}
}
