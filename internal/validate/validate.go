// Package validate implements C5: the privacy and dependency boundary
// checks over a built ProjectIndex.
package validate

import (
	"github.com/sdboyer/boundarycheck/internal/attribute"
	"github.com/sdboyer/boundarycheck/internal/index"
)

// Kind distinguishes the two violation rules.
type Kind int

const (
	// Dependency marks a reference to a package not declared as a
	// dependency, where the defining package enforces dependencies.
	Dependency Kind = iota
	// Privacy marks a reference to a non-public definition in a package
	// that enforces privacy, with no public peer definition of the same
	// name anywhere in the project.
	Privacy
)

func (k Kind) String() string {
	if k == Privacy {
		return "privacy"
	}
	return "dependency"
}

// Violation is one boundary-rule breach: a Reference in ViolatingPack to a
// Definition owned by ViolatedPack.
type Violation struct {
	Kind          Kind
	ViolatedPack  string
	ViolatingPack string
	Definition    attribute.Definition
	Reference     attribute.Reference
}

// rule is the shared shape of the two checks (§9 "Polymorphism": a tagged
// variant or two free functions composed in a list; no plugin dispatch).
type rule func(pkg index.Package, idx *index.ProjectIndex) []Violation

// Validate applies every rule to every package known to idx and returns the
// union of violations, with violated_pack == "root" suppressed (§4.5
// filter) since the pseudo root-package has no enforceable boundary.
//
// For determinism, rules run in a fixed order (privacy, then dependency)
// for each package, and packages are visited in idx.Packages() order;
// callers that need a stable final ordering across runs should sort the
// result (the orchestrator does, by violated pack, violating pack,
// definition name, then reference line).
func Validate(idx *index.ProjectIndex) []Violation {
	rules := []rule{checkPrivacy, checkDependency}

	var out []Violation
	for _, pkg := range idx.Packages() {
		for _, r := range rules {
			out = append(out, r(pkg, idx)...)
		}
	}
	return filterRoot(out)
}

// ValidatePackage runs both checks for a single package; used by the
// parallel orchestrator to fan validation out per package.
func ValidatePackage(pkg index.Package, idx *index.ProjectIndex) []Violation {
	var out []Violation
	out = append(out, checkPrivacy(pkg, idx)...)
	out = append(out, checkDependency(pkg, idx)...)
	return filterRoot(out)
}

func filterRoot(violations []Violation) []Violation {
	out := violations[:0:0]
	for _, v := range violations {
		if v.ViolatedPack == attribute.RootPackage {
			continue
		}
		out = append(out, v)
	}
	return out
}

// checkPrivacy implements §4.5's privacy rule: public-anywhere defeats
// private-elsewhere. A namespace constant re-opened publicly in one package
// and privately in another must not false-positive (P5), so the whole name
// is skipped the moment any definition of it is public, before the
// per-definition enforcement/ownership filter runs.
func checkPrivacy(pkg index.Package, idx *index.ProjectIndex) []Violation {
	var out []Violation

	for _, ref := range idx.ReferencesInPackage(pkg.Name) {
		defs := idx.DefinitionsNamed(ref.Name)

		if anyPublic(defs) {
			continue
		}

		for _, d := range defs {
			if d.Package == pkg.Name {
				continue
			}
			owner, ok := idx.Package(d.Package)
			if !ok || !owner.EnforcePrivacy {
				continue
			}
			if d.Public {
				continue
			}
			out = append(out, Violation{
				Kind:          Privacy,
				ViolatedPack:  d.Package,
				ViolatingPack: pkg.Name,
				Definition:    d,
				Reference:     ref,
			})
		}
	}

	return out
}

// checkDependency implements §4.5's dependency rule. Absent and empty
// Dependencies lists are unified (§7/Q1): both mean "nothing is declared",
// so any cross-package reference to a dependency-enforcing definition is a
// violation.
func checkDependency(pkg index.Package, idx *index.ProjectIndex) []Violation {
	var out []Violation

	declared := make(map[string]bool, len(pkg.Dependencies))
	for _, d := range pkg.Dependencies {
		declared[d] = true
	}

	for _, ref := range idx.ReferencesInPackage(pkg.Name) {
		for _, d := range idx.DefinitionsNamed(ref.Name) {
			owner, ok := idx.Package(d.Package)
			if !ok || !owner.EnforceDependencies {
				continue
			}
			if d.Package == pkg.Name {
				continue
			}
			if declared[d.Package] {
				continue
			}
			out = append(out, Violation{
				Kind:          Dependency,
				ViolatedPack:  d.Package,
				ViolatingPack: pkg.Name,
				Definition:    d,
				Reference:     ref,
			})
		}
	}

	return out
}

func anyPublic(defs []attribute.Definition) bool {
	for _, d := range defs {
		if d.Public {
			return true
		}
	}
	return false
}
