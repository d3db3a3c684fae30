// Package attribute implements C3: joining raw definitions and resolved
// references to their containing package by longest-prefix path match,
// filtering ignored constants, and marking public definitions.
package attribute

import (
	"path/filepath"
	"strings"

	"github.com/sdboyer/boundarycheck/internal/constant"
)

// RootPackage is the sentinel package name used for files that lie under no
// declared package root (I1).
const RootPackage = "root"

// Package is the subset of package metadata the attributor needs: its name
// and the absolute directory it roots.
type Package struct {
	Name string
	Root string
}

// Definition is an attributed constant definition.
type Definition struct {
	Package string
	Name    string
	Public  bool
	Loc     constant.Loc
}

// Reference is an attributed, already-resolved constant reference.
type Reference struct {
	Package string
	Name    string
	Loc     constant.Loc
}

// Config controls attribution.
type Config struct {
	// PublicPath is the path prefix, relative to a package root, whose
	// definitions are marked public.
	PublicPath string
	// IgnoreConstants holds simple names whose definitions are dropped
	// before indexing. Attribute always unions this with
	// DefaultIgnoredConstants; it never replaces the built-in list.
	IgnoreConstants []string
}

// DefaultIgnoredConstants are root-namespace constant names common to the
// source ecosystem's standard library and frameworks; always present even
// when a caller supplies its own list.
var DefaultIgnoredConstants = []string{
	"Object", "BasicObject", "Kernel", "Comparable", "Enumerable",
	"Module", "Class", "String", "Symbol", "Integer", "Float", "Array",
	"Hash", "Struct", "Proc", "Exception", "StandardError", "ApplicationRecord",
}

// Attribute resolves package ownership for every definition and reference,
// drops definitions whose simple name is in cfg.IgnoreConstants (unioned
// with DefaultIgnoredConstants), and computes the Public flag for each
// surviving definition.
//
// Resolution happens before attribution (the resolver must see unpackaged
// qualified names, §4.3), so refs here are already resolved ResolvedReference
// values, not raw Constant occurrences.
func Attribute(defs []constant.Constant, refs []constant.ResolvedReference, packages []Package, cfg Config) ([]Definition, []Reference) {
	byPath := packageLookup(packages)
	ignored := ignoredSet(cfg.IgnoreConstants)

	outDefs := make([]Definition, 0, len(defs))
	for _, d := range defs {
		if ignored[d.Name] {
			continue
		}

		pkg, root := owningPackage(d.Loc.AbsolutePath, byPath)
		outDefs = append(outDefs, Definition{
			Package: pkg,
			Name:    d.Qualified(),
			Public:  pkg != RootPackage && isPublic(d.Loc.AbsolutePath, root, cfg.PublicPath),
			Loc:     d.Loc,
		})
	}

	outRefs := make([]Reference, 0, len(refs))
	for _, r := range refs {
		pkg, _ := owningPackage(r.Loc.AbsolutePath, byPath)
		outRefs = append(outRefs, Reference{Package: pkg, Name: r.Name, Loc: r.Loc})
	}

	return outDefs, outRefs
}

type pkgEntry struct {
	name string
	root string
}

// packageLookup indexes packages by absolute root path for ancestor-walk
// lookup. Mirrors the teacher's pkgtree ownership-by-ancestor-directory
// approach: a flat map plus a walk up from the file, not a trie (§9 — "do
// not attempt tree indexing unless profiling demands it").
func packageLookup(packages []Package) map[string]pkgEntry {
	m := make(map[string]pkgEntry, len(packages))
	for _, p := range packages {
		m[filepath.Clean(p.Root)] = pkgEntry{name: p.Name, root: p.Root}
	}
	return m
}

// owningPackage walks f's ancestor directories from deepest to shallowest;
// the first ancestor registered as a package root owns f. No match ⇒ root
// sentinel.
func owningPackage(f string, byPath map[string]pkgEntry) (name, root string) {
	dir := filepath.Dir(filepath.Clean(f))
	for {
		if e, ok := byPath[dir]; ok {
			return e.name, e.root
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return RootPackage, ""
}

// isPublic reports whether f, relative to root, begins with publicPath.
func isPublic(f, root, publicPath string) bool {
	rel := strings.TrimPrefix(filepath.Clean(f), filepath.Clean(root))
	rel = strings.TrimPrefix(rel, string(filepath.Separator))
	rel = filepath.ToSlash(rel)
	return strings.HasPrefix(rel, publicPath)
}

func ignoredSet(extra []string) map[string]bool {
	m := make(map[string]bool, len(DefaultIgnoredConstants)+len(extra))
	for _, n := range DefaultIgnoredConstants {
		m[n] = true
	}
	for _, n := range extra {
		m[n] = true
	}
	return m
}
