// Package index implements C4: a multi-keyed, read-only in-memory index
// over attributed definitions, references, and packages.
package index

import (
	"github.com/sdboyer/boundarycheck/internal/attribute"
)

// Package is the subset of package manifest data the validator needs.
type Package struct {
	Name                string
	EnforceDependencies bool
	EnforcePrivacy      bool
	// Dependencies is nil for "no declared dependencies", distinct from a
	// non-nil empty slice only at the manifest layer; §7 unifies both at
	// validation time (see internal/validate).
	Dependencies []string
}

// ProjectIndex is the immutable multi-relation index C5 queries.
type ProjectIndex struct {
	defByName    map[string][]attribute.Definition
	defByPackage map[string][]attribute.Definition
	refByName    map[string][]attribute.Reference
	refByPackage map[string][]attribute.Reference
	pkgByName    map[string]Package
}

// Build constructs a ProjectIndex from the attributed arrays and package
// list. Lookups on the result always succeed (returning nil/zero-value),
// never panic on a missing key.
func Build(defs []attribute.Definition, refs []attribute.Reference, packages []Package) *ProjectIndex {
	idx := &ProjectIndex{
		defByName:    make(map[string][]attribute.Definition),
		defByPackage: make(map[string][]attribute.Definition),
		refByName:    make(map[string][]attribute.Reference),
		refByPackage: make(map[string][]attribute.Reference),
		pkgByName:    make(map[string]Package, len(packages)),
	}

	for _, d := range defs {
		idx.defByName[d.Name] = append(idx.defByName[d.Name], d)
		idx.defByPackage[d.Package] = append(idx.defByPackage[d.Package], d)
	}
	for _, r := range refs {
		idx.refByName[r.Name] = append(idx.refByName[r.Name], r)
		idx.refByPackage[r.Package] = append(idx.refByPackage[r.Package], r)
	}
	for _, p := range packages {
		idx.pkgByName[p.Name] = p
	}

	return idx
}

// DefinitionsNamed returns every Definition whose Name equals name.
func (idx *ProjectIndex) DefinitionsNamed(name string) []attribute.Definition {
	return idx.defByName[name]
}

// DefinitionsInPackage returns every Definition attributed to pkg.
func (idx *ProjectIndex) DefinitionsInPackage(pkg string) []attribute.Definition {
	return idx.defByPackage[pkg]
}

// ReferencesInPackage returns every Reference attributed to pkg.
func (idx *ProjectIndex) ReferencesInPackage(pkg string) []attribute.Reference {
	return idx.refByPackage[pkg]
}

// ReferencesNamed returns every Reference whose Name equals name.
func (idx *ProjectIndex) ReferencesNamed(name string) []attribute.Reference {
	return idx.refByName[name]
}

// Package looks up a Package descriptor by name. The bool result reports
// whether it was found. The "root" sentinel is present only when the
// project root itself has a package.yml.
func (idx *ProjectIndex) Package(name string) (Package, bool) {
	p, ok := idx.pkgByName[name]
	return p, ok
}

// Packages returns every known Package, in no particular order.
func (idx *ProjectIndex) Packages() []Package {
	out := make([]Package, 0, len(idx.pkgByName))
	for _, p := range idx.pkgByName {
		out = append(out, p)
	}
	return out
}
