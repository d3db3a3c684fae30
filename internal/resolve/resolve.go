// Package resolve implements C2: mapping each raw reference to at most one
// fully qualified definition name, reproducing the source language's
// innermost-first lexical-scope lookup with an absolute-path escape.
package resolve

import (
	"sort"
	"strings"

	"github.com/sdboyer/boundarycheck/internal/constant"
)

// Resolve returns one ResolvedReference for every reference in refs that
// resolves against defs, sorted by Loc.Begin.Line (stable for equal lines).
// References that resolve to nothing are silently dropped (§4.2, §7): they
// name constants the system deliberately cannot place (stdlib, gems,
// dynamic constants), not violations.
func Resolve(defs, refs []constant.Constant) []constant.ResolvedReference {
	byQualified := index(defs)

	out := make([]constant.ResolvedReference, 0, len(refs))
	for _, r := range refs {
		name, ok := resolveOne(r, byQualified)
		if !ok {
			continue
		}
		out = append(out, constant.ResolvedReference{Name: name, Loc: r.Loc})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Loc.Begin.Line < out[j].Loc.Begin.Line
	})
	return out
}

func resolveOne(r constant.Constant, byQualified map[string]bool) (string, bool) {
	if rooted, ok := strings.CutPrefix(r.Name, "::"); ok {
		if byQualified[rooted] {
			return rooted, true
		}
		return "", false
	}

	for _, nesting := range constant.Nestings(r.Scope, r.Name) {
		if byQualified[nesting] {
			return nesting, true
		}
	}
	return "", false
}

// index builds the set of fully qualified names that have at least one
// definition. Name collisions (multiple definitions sharing a qualified
// name) are legal and collapse to a single membership test here; C4 is
// where the full list of Definitions per name is retained.
func index(defs []constant.Constant) map[string]bool {
	m := make(map[string]bool, len(defs))
	for _, d := range defs {
		m[d.Qualified()] = true
	}
	return m
}
