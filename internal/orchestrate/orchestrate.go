// Package orchestrate implements C7: scheduling the per-file and
// per-package work of C2-C6 over a bounded worker pool, while keeping the
// externally observable output deterministic despite parallel execution.
//
// All parallelism here is shared-nothing: each worker produces an
// independent slice that is later concatenated and indexed on a single
// thread (§4.7, §5). Nothing in this package suspends on I/O; callers are
// expected to have already read every file before building the ParsedFile
// slice handed in.
package orchestrate

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sdboyer/boundarycheck/internal/attribute"
	"github.com/sdboyer/boundarycheck/internal/constant"
	"github.com/sdboyer/boundarycheck/internal/deprecate"
	"github.com/sdboyer/boundarycheck/internal/index"
	"github.com/sdboyer/boundarycheck/internal/resolve"
	"github.com/sdboyer/boundarycheck/internal/validate"
)

// ParsedFile is the external parser collaborator's output for one source
// file: its raw definitions and references, with the path they were found
// in implied by each Constant's Loc.
type ParsedFile struct {
	Path        string
	Definitions []constant.Constant
	References  []constant.Constant
}

// Result is the final output of a full analysis run.
type Result struct {
	Violations   []validate.Violation
	Deprecations []deprecate.DeprecatedReferences
}

// Run executes the full C2-C6 pipeline over files, parallelizing the
// data-parallel stages (per-file resolution, per-package validation) and
// merging sequentially, per §4.7.
func Run(ctx context.Context, files []ParsedFile, packages []attribute.Package, idxPackages []index.Package, cfg attribute.Config) (Result, error) {
	defs, refs, err := resolveAll(ctx, files)
	if err != nil {
		return Result{}, err
	}

	attrDefs, attrRefs := attribute.Attribute(defs, refs, packages, cfg)
	idx := index.Build(attrDefs, attrRefs, idxPackages)

	violations, err := validateAll(ctx, idx)
	if err != nil {
		return Result{}, err
	}

	// Deterministic final ordering: by violated pack, then violating pack,
	// then definition name, then reference line — independent of whatever
	// order the parallel validate stage produced internally.
	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.ViolatedPack != b.ViolatedPack {
			return a.ViolatedPack < b.ViolatedPack
		}
		if a.ViolatingPack != b.ViolatingPack {
			return a.ViolatingPack < b.ViolatingPack
		}
		if a.Definition.Name != b.Definition.Name {
			return a.Definition.Name < b.Definition.Name
		}
		return a.Reference.Loc.Begin.Line < b.Reference.Loc.Begin.Line
	})

	return Result{
		Violations:   violations,
		Deprecations: deprecate.Group(violations),
	}, nil
}

// resolveAll resolves references file-by-file in parallel (one unit of work
// per file), then concatenates sequentially. Resolving per file rather than
// once over the whole project's flattened arrays matches the data-parallel
// unit of work named in §4.7 ("resolution of references... are data
// parallel, one unit of work per file") while resolving every reference to
// the same name a single Resolve call would, since C2's definition index is
// built fresh from the complete defs set every time.
func resolveAll(ctx context.Context, files []ParsedFile) ([]constant.Constant, []constant.ResolvedReference, error) {
	var defs []constant.Constant
	for _, f := range files {
		defs = append(defs, f.Definitions...)
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers())

	resolved := make([][]constant.ResolvedReference, len(files))
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			resolved[i] = resolve.Resolve(defs, f.References)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var refs []constant.ResolvedReference
	for _, r := range resolved {
		refs = append(refs, r...)
	}

	// Re-sort the concatenation by file path, then line: each per-file
	// slice was independently sorted by line only. This differs from a
	// single Resolve() call over all references, which orders by line
	// alone and so interleaves files.
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Loc.AbsolutePath < refs[j].Loc.AbsolutePath ||
			(refs[i].Loc.AbsolutePath == refs[j].Loc.AbsolutePath && refs[i].Loc.Begin.Line < refs[j].Loc.Begin.Line)
	})

	return defs, refs, nil
}

// validateAll runs C5 once per package concurrently, merging sequentially.
func validateAll(ctx context.Context, idx *index.ProjectIndex) ([]validate.Violation, error) {
	packages := idx.Packages()

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers())

	results := make([][]validate.Violation, len(packages))
	for i, pkg := range packages {
		i, pkg := i, pkg
		g.Go(func() error {
			results[i] = validate.ValidatePackage(pkg, idx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []validate.Violation
	for _, v := range results {
		out = append(out, v...)
	}
	return out, nil
}

func workers() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}
