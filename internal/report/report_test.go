package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdboyer/boundarycheck/internal/deprecate"
)

func sampleDeprecation() deprecate.DeprecatedReferences {
	return deprecate.DeprecatedReferences{
		ViolatingPack: "p1",
		ViolatedPacks: []deprecate.ViolatedPackageEntry{
			{
				PackageName: "p2",
				References: []deprecate.DeprecatedReference{
					{ConstantName: "::FooBar", Violations: []string{"dependency", "privacy"}, Files: []string{"A", "B"}},
				},
			},
			{
				PackageName: "p3",
				References: []deprecate.DeprecatedReference{
					{ConstantName: "::Qux", Violations: []string{"dependency"}, Files: []string{"A"}},
				},
			},
		},
	}
}

func TestWrite_ProducesExpectedYAML(t *testing.T) {
	root := t.TempDir()
	if err := Write(root, sampleDeprecation()); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		t.Fatal(err)
	}

	text := string(content)
	// p2 must appear before p3 (alphabetical outer ordering preserved).
	if strings.Index(text, "p2:") > strings.Index(text, "p3:") || !strings.Contains(text, "p2:") {
		t.Errorf("expected p2 before p3, got:\n%s", text)
	}
	if !strings.Contains(text, `"::FooBar"`) && !strings.Contains(text, "::FooBar") {
		t.Errorf("expected ::FooBar entry, got:\n%s", text)
	}
}

func TestWrite_OverwritesExistingFileAtomically(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, FileName)
	if err := os.WriteFile(existing, []byte("stale: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Write(root, sampleDeprecation()); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(content), "stale") {
		t.Errorf("expected old content to be replaced, got:\n%s", content)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp") {
			t.Errorf("temp file leaked: %s", e.Name())
		}
	}
}
