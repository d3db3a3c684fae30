// Package discover walks a project tree to find package manifests and
// source files. Directory walking and file discovery are explicitly out of
// scope for the core (spec.md §1); this collaborator exists only so the CLI
// has something to feed it.
package discover

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// skipDirs names directories that never hold project source or manifests,
// mirroring the teacher's pkgtree walk (which skips "vendor"/"Godeps") and
// original_source/src/files.rs's implicit assumption that only real source
// trees are walked.
var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	"tmp":          true,
	".git":         true,
}

// Tree is the result of walking a project root: every package manifest
// found, and every source file found (with the given extension), in
// deterministic path order.
type Tree struct {
	ManifestPaths []string
	SourcePaths   []string
}

// Walk finds every manifestName file and every file matching sourceExt
// under root, skipping vendor-like and dot directories. Returned paths are
// absolute and sorted.
func Walk(root, manifestName, sourceExt string) (Tree, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return Tree{}, errors.Wrap(err, "resolving project root")
	}

	var tree Tree
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name != "." && (skipDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case d.Name() == manifestName:
			tree.ManifestPaths = append(tree.ManifestPaths, path)
		case strings.HasSuffix(d.Name(), sourceExt):
			tree.SourcePaths = append(tree.SourcePaths, path)
		}
		return nil
	})
	if err != nil {
		return Tree{}, errors.Wrapf(err, "walking %s", root)
	}

	sort.Strings(tree.ManifestPaths)
	sort.Strings(tree.SourcePaths)
	return tree, nil
}

// Restrict filters a Tree's paths down to those rooted at one of the given
// package subtree paths. When paths is empty, tree is returned unchanged —
// the entire project root is scanned, per the package_paths option (§6).
func Restrict(tree Tree, root string, paths []string) (Tree, error) {
	if len(paths) == 0 {
		return tree, nil
	}

	var absPaths []string
	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(root, p)
		}
		absPaths = append(absPaths, filepath.Clean(abs))
	}

	under := func(path string) bool {
		for _, p := range absPaths {
			if path == p || strings.HasPrefix(path, p+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}

	var out Tree
	for _, p := range tree.ManifestPaths {
		if under(p) {
			out.ManifestPaths = append(out.ManifestPaths, p)
		}
	}
	for _, p := range tree.SourcePaths {
		if under(p) {
			out.SourcePaths = append(out.SourcePaths, p)
		}
	}
	return out, nil
}
