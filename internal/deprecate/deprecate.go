// Package deprecate implements C6: regrouping a flat Violation list into
// the per-package deprecation-list structure written to
// deprecated_references.yml, with stable, diff-friendly ordering.
package deprecate

import (
	"sort"

	"github.com/sdboyer/boundarycheck/internal/validate"
)

// DeprecatedReference is one grandfathered constant within a violated
// package: the set of violation kinds seen, and the files that reference
// it, both sorted and deduplicated.
type DeprecatedReference struct {
	ConstantName string
	Violations   []string
	Files        []string
}

// ViolatedPackageEntry groups a violated package's deprecated references,
// themselves ordered by "::"+constant name.
type ViolatedPackageEntry struct {
	PackageName string
	References  []DeprecatedReference
}

// DeprecatedReferences is the full deprecation structure for one violating
// package: every package it violates, each with its deprecated constants.
type DeprecatedReferences struct {
	ViolatingPack string
	ViolatedPacks []ViolatedPackageEntry
}

// Group regroups violations by violating_pack, then violated_pack
// (alphabetical), then "::"+constant name (alphabetical), deduplicating
// and sorting each leaf's violation kinds and file list.
func Group(violations []validate.Violation) []DeprecatedReferences {
	byViolating := map[string][]validate.Violation{}
	for _, v := range violations {
		byViolating[v.ViolatingPack] = append(byViolating[v.ViolatingPack], v)
	}

	out := make([]DeprecatedReferences, 0, len(byViolating))
	for violating, vs := range byViolating {
		out = append(out, DeprecatedReferences{
			ViolatingPack: violating,
			ViolatedPacks: groupByViolatedPack(vs),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ViolatingPack < out[j].ViolatingPack })
	return out
}

func groupByViolatedPack(violations []validate.Violation) []ViolatedPackageEntry {
	byViolated := map[string][]validate.Violation{}
	for _, v := range violations {
		byViolated[v.ViolatedPack] = append(byViolated[v.ViolatedPack], v)
	}

	entries := make([]ViolatedPackageEntry, 0, len(byViolated))
	for pack, vs := range byViolated {
		entries = append(entries, ViolatedPackageEntry{
			PackageName: pack,
			References:  groupByConstant(vs),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].PackageName < entries[j].PackageName })
	return entries
}

func groupByConstant(violations []validate.Violation) []DeprecatedReference {
	byConstant := map[string][]validate.Violation{}
	for _, v := range violations {
		key := "::" + v.Definition.Name
		byConstant[key] = append(byConstant[key], v)
	}

	refs := make([]DeprecatedReference, 0, len(byConstant))
	for constant, vs := range byConstant {
		refs = append(refs, DeprecatedReference{
			ConstantName: constant,
			Violations:   sortedUniqueKinds(vs),
			Files:        sortedUniqueFiles(vs),
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].ConstantName < refs[j].ConstantName })
	return refs
}

func sortedUniqueKinds(violations []validate.Violation) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range violations {
		k := v.Kind.String()
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func sortedUniqueFiles(violations []validate.Violation) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range violations {
		f := v.Reference.Loc.RelativePath()
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}
