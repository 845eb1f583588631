package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// GoldenString compares got against testdata/<name>.golden.
// If the GOLDEN_UPDATE environment variable is set, updates the golden file.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()

	goldenPath := filepath.Join("testdata", name+".golden")

	if os.Getenv("GOLDEN_UPDATE") != "" {
		if err := os.MkdirAll("testdata", 0755); err != nil {
			t.Fatalf("failed to create testdata dir: %v", err)
		}
		if err := os.WriteFile(goldenPath, []byte(got), 0644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		return
	}

	want, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v\nGot:\n%s", goldenPath, err, got)
	}

	if got == string(want) {
		return
	}
	wantLines := strings.Split(string(want), "\n")
	gotLines := strings.Split(got, "\n")
	for i := 0; i < len(wantLines) || i < len(gotLines); i++ {
		var w, g string
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if w != g {
			t.Errorf("output mismatch for %s at line %d\nWant: %q\nGot:  %q", name, i+1, w, g)
			return
		}
	}
	t.Errorf("output mismatch for %s (line endings)\nWant: %q\nGot:  %q", name, want, got)
}
