// Package constant defines the value types shared by every stage of the
// boundary-check pipeline: raw constant occurrences, their source
// locations, and the lexical-nesting enumeration used by the resolver.
package constant

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CaretPos is a 1-based line/column position in a source file.
type CaretPos struct {
	Line   int
	Column int
}

// Loc locates a span of source text within a project.
type Loc struct {
	AbsolutePath string
	ProjectRoot  string
	Begin        CaretPos
	End          CaretPos
}

// RelativePath returns AbsolutePath with ProjectRoot stripped.
func (l Loc) RelativePath() string {
	rel := strings.TrimPrefix(l.AbsolutePath, l.ProjectRoot)
	return strings.TrimPrefix(rel, "/")
}

// Constant is a raw constant occurrence (definition or reference) as
// extracted from source: an optional lexical scope, its simple name, and
// where it was found.
type Constant struct {
	// Scope is the enclosing "A::B::C" nesting path, or "" if the constant
	// occurs at the top level. A reference whose Name begins with "::" is a
	// fully-qualified, scope-independent reference (§I4); Scope is ignored
	// for such references.
	Scope string
	Name  string
	Loc   Loc
}

// Qualified returns the constant's fully qualified name: Scope + "::" +
// Name when Scope is non-empty, else just Name. Identifiers are
// NFC-normalized first so visually-identical source constants (composed vs.
// decomposed Unicode) compare equal.
func Qualified(scope, name string) string {
	scope = normalize(scope)
	name = normalize(name)
	if scope == "" {
		return name
	}
	return scope + "::" + name
}

// Nestings returns, innermost scope first, every candidate fully-qualified
// name produced by walking scope outward one segment at a time, ending with
// the bare name. For scope="A::B::C", name="InC":
//
//	["A::B::C::InC", "A::B::InC", "A::InC", "InC"]
//
// When scope is empty, Nestings is exactly [name]. Length is always
// strings.Count(scope, "::") + 2 when scope is non-empty, 1 otherwise; each
// element ends with "::"+name (or equals name); the sequence strictly
// decreases in nesting depth.
func Nestings(scope, name string) []string {
	name = normalize(name)
	scope = normalize(scope)
	if scope == "" {
		return []string{name}
	}

	segments := strings.Split(scope, "::")
	nestings := make([]string, 0, len(segments)+1)
	for end := len(segments); end > 0; end-- {
		nestings = append(nestings, strings.Join(segments[:end], "::")+"::"+name)
	}
	nestings = append(nestings, name)
	return nestings
}

// Qualified returns c's fully qualified name.
func (c Constant) Qualified() string {
	return Qualified(c.Scope, c.Name)
}

// Nestings returns c's nesting candidates, innermost first.
func (c Constant) Nestings() []string {
	return Nestings(c.Scope, c.Name)
}

// ResolvedReference is a reference after C2 has mapped it to the fully
// qualified name of the single definition it resolves to.
type ResolvedReference struct {
	Name string
	Loc  Loc
}

func normalize(s string) string {
	if s == "" {
		return s
	}
	return norm.NFC.String(s)
}
