// Package scan is a deliberately minimal, line-oriented constant-occurrence
// recognizer. Real AST parsing of source text is explicitly out of scope
// for the core (spec.md §1): this package exists only so the CLI has
// something concrete to feed the pipeline, grounded on the class/module
// nesting and constant-assignment constructs visible in
// original_source/src/ast/parser.rs and src/ast/visitor.rs, reduced to a
// regexp scan instead of a full grammar. It makes no claim to cover the
// source language's full grammar (string interpolation, heredocs, %w[]
// literals, and so on can all confuse it).
package scan

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sdboyer/boundarycheck/internal/constant"
	"github.com/sdboyer/boundarycheck/internal/orchestrate"
)

var (
	classRe  = regexp.MustCompile(`^\s*class\s+([A-Z][A-Za-z0-9_]*(?:::[A-Z][A-Za-z0-9_]*)*)`)
	moduleRe = regexp.MustCompile(`^\s*module\s+([A-Z][A-Za-z0-9_]*(?:::[A-Z][A-Za-z0-9_]*)*)`)
	assignRe = regexp.MustCompile(`^\s*([A-Z][A-Za-z0-9_]*)\s*=(?:[^=~]|$)`)
	endRe    = regexp.MustCompile(`^\s*end\s*$`)
	identRe  = regexp.MustCompile(`(::)?\b[A-Z][A-Za-z0-9_]*(?:::[A-Z][A-Za-z0-9_]*)*\b`)
)

// File scans r (the source text found at path, relative to root) and
// returns the ParsedFile the orchestrator's C2 stage expects.
func File(root, path string, r io.Reader) (orchestrate.ParsedFile, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	pf := orchestrate.ParsedFile{Path: path}
	var scopeStack []string

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if !utf8.ValidString(text) {
			return orchestrate.ParsedFile{}, fmt.Errorf("line %d is not valid UTF-8", line)
		}
		loc := func(col int) constant.Loc {
			return constant.Loc{
				AbsolutePath: path,
				ProjectRoot:  root,
				Begin:        constant.CaretPos{Line: line, Column: col},
				End:          constant.CaretPos{Line: line, Column: col},
			}
		}

		switch {
		case classRe.MatchString(text):
			m := classRe.FindStringSubmatch(text)
			name := m[1]
			defScope, childScope := scopes(scopeStack, name)
			pf.Definitions = append(pf.Definitions, constant.Constant{Scope: defScope, Name: leaf(name), Loc: loc(1)})
			scopeStack = append(scopeStack, childScope)

		case moduleRe.MatchString(text):
			m := moduleRe.FindStringSubmatch(text)
			name := m[1]
			defScope, childScope := scopes(scopeStack, name)
			pf.Definitions = append(pf.Definitions, constant.Constant{Scope: defScope, Name: leaf(name), Loc: loc(1)})
			scopeStack = append(scopeStack, childScope)

		case endRe.MatchString(text):
			if len(scopeStack) > 0 {
				scopeStack = scopeStack[:len(scopeStack)-1]
			}

		case assignRe.MatchString(text):
			m := assignRe.FindStringSubmatchIndex(text)
			name := text[m[2]:m[3]]
			scope := currentScope(scopeStack)
			pf.Definitions = append(pf.Definitions, constant.Constant{Scope: scope, Name: name, Loc: loc(1)})
			// References on the right-hand side of the assignment.
			pf.References = append(pf.References, findReferences(scope, text[m[1]:], loc(1))...)

		default:
			pf.References = append(pf.References, findReferences(currentScope(scopeStack), text, loc(1))...)
		}
	}

	if err := scanner.Err(); err != nil {
		return orchestrate.ParsedFile{}, err
	}
	return pf, nil
}

func findReferences(scope, text string, loc constant.Loc) []constant.Constant {
	var out []constant.Constant
	for _, m := range identRe.FindAllString(text, -1) {
		out = append(out, constant.Constant{
			Scope: scope,
			Name:  m,
			Loc:   loc,
		})
	}
	return out
}

func leaf(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}

// currentScope is the full lexical scope of whatever class/module body is
// innermost; each scopeStack entry already holds its own complete
// qualified path, so the current scope is simply its top, not a join of
// the whole stack.
func currentScope(scopeStack []string) string {
	if len(scopeStack) == 0 {
		return ""
	}
	return scopeStack[len(scopeStack)-1]
}

// scopes computes the Scope to attribute to a "class"/"module" definition
// of name, and the full scope its body's nested definitions see. A compound
// name ("class A::B::C") is anchored by its own explicit path regardless of
// the enclosing lexical scope — Ruby requires A::B to already exist — so
// defScope comes from name's own prefix in that case; a bare name is
// nested under whatever scope currently encloses it. Reopening an
// already-existing namespace this way is an approximation of the source
// language's real semantics; full fidelity would require tracking
// previously-seen namespaces across files, which this scanner does not do.
func scopes(scopeStack []string, name string) (defScope, childScope string) {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[:i], name
	}
	scope := currentScope(scopeStack)
	if scope == "" {
		return "", name
	}
	return scope, scope + "::" + name
}
