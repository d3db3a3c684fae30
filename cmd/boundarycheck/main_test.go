package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestCheckCommand_Run exercises the whole discover -> parse -> analyze ->
// report pipeline against a tiny two-package project on disk: p1 declares no
// dependency on p2 but references one of p2's private constants, which
// p2.EnforcePrivacy should flag.
func TestCheckCommand_Run(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "p1", "package.yml"), "enforce_dependencies: true\nenforce_privacy: true\n")
	writeFile(t, filepath.Join(root, "p1", "app", "foo.rb"), "class Foo\n  Bar = P2::Secret\nend\n")

	writeFile(t, filepath.Join(root, "p2", "package.yml"), "enforce_dependencies: true\nenforce_privacy: true\n")
	writeFile(t, filepath.Join(root, "p2", "app", "secret.rb"), "class P2\n  Secret = 1\nend\n")

	cmd := &checkCommand{publicPath: "app/public"}
	if err := cmd.Run([]string{root}); err != nil {
		t.Fatal(err)
	}

	out, err := os.ReadFile(filepath.Join(root, "p1", "deprecated_references.yml"))
	if err != nil {
		t.Fatalf("expected deprecated_references.yml in p1: %v", err)
	}
	if !strings.Contains(string(out), "p2:") {
		t.Errorf("expected a p2 entry, got:\n%s", out)
	}
}

// TestCheckCommand_Run_NoWriteSkipsReport confirms -no-write suppresses the
// on-disk report even when violations are found.
func TestCheckCommand_Run_NoWriteSkipsReport(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "p1", "package.yml"), "enforce_dependencies: true\nenforce_privacy: true\n")
	writeFile(t, filepath.Join(root, "p1", "app", "foo.rb"), "class Foo\n  Bar = P2::Secret\nend\n")

	writeFile(t, filepath.Join(root, "p2", "package.yml"), "enforce_dependencies: true\nenforce_privacy: true\n")
	writeFile(t, filepath.Join(root, "p2", "app", "secret.rb"), "class P2\n  Secret = 1\nend\n")

	cmd := &checkCommand{publicPath: "app/public", noWrite: true}
	if err := cmd.Run([]string{root}); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(root, "p1", "deprecated_references.yml")); !os.IsNotExist(err) {
		t.Errorf("expected no report written, got err=%v", err)
	}
}

func TestSplitCSV(t *testing.T) {
	cases := map[string][]string{
		"":         nil,
		"a":        {"a"},
		"a,b":      {"a", "b"},
		"a, b , c": {"a", "b", "c"},
	}
	for in, want := range cases {
		got := splitCSV(in)
		if len(got) != len(want) {
			t.Errorf("splitCSV(%q) = %v, want %v", in, got, want)
			continue
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("splitCSV(%q) = %v, want %v", in, got, want)
				break
			}
		}
	}
}
