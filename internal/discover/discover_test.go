package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalk_SkipsVendorAndDotDirs(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "p1", "package.yml"), "")
	mustWriteFile(t, filepath.Join(root, "p1", "app", "foo.rb"), "")
	mustWriteFile(t, filepath.Join(root, "vendor", "package.yml"), "")
	mustWriteFile(t, filepath.Join(root, ".hidden", "foo.rb"), "")

	tree, err := Walk(root, "package.yml", ".rb")
	if err != nil {
		t.Fatal(err)
	}

	if len(tree.ManifestPaths) != 1 {
		t.Errorf("got %d manifests, want 1 (vendor should be skipped): %v", len(tree.ManifestPaths), tree.ManifestPaths)
	}
	if len(tree.SourcePaths) != 1 {
		t.Errorf("got %d source files, want 1 (dot-dir should be skipped): %v", len(tree.SourcePaths), tree.SourcePaths)
	}
}

func TestRestrict_EmptyPathsReturnsWholeTree(t *testing.T) {
	tree := Tree{ManifestPaths: []string{"/a", "/b"}}
	got, err := Restrict(tree, "/", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ManifestPaths) != 2 {
		t.Errorf("expected unrestricted tree, got %v", got)
	}
}

func TestRestrict_FiltersToSubtree(t *testing.T) {
	tree := Tree{ManifestPaths: []string{"/proj/p1/package.yml", "/proj/p2/package.yml"}}
	got, err := Restrict(tree, "/proj", []string{"p1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ManifestPaths) != 1 || got.ManifestPaths[0] != "/proj/p1/package.yml" {
		t.Errorf("got %v, want only p1's manifest", got.ManifestPaths)
	}
}
