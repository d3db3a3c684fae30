// Package manifest reads package.yml manifests into Package descriptors.
// This is an external collaborator in spec.md terms (§1, §6): YAML
// reading/writing is explicitly out of scope for the core.
package manifest

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sdboyer/boundarycheck/internal/attribute"
	"github.com/sdboyer/boundarycheck/internal/index"
)

// FileName is the manifest's fixed file name within a package root.
const FileName = "package.yml"

// rawManifest is the on-disk shape of package.yml. Dependencies is a
// pointer so nil (absent key) is distinguishable from an empty list at this
// layer, per the Q1 decision recorded in DESIGN.md, even though
// internal/validate treats both the same way. The two enforce flags are
// pointers so a missing key can be rejected rather than read as false.
type rawManifest struct {
	EnforceDependencies *bool     `yaml:"enforce_dependencies"`
	EnforcePrivacy      *bool     `yaml:"enforce_privacy"`
	Dependencies        *[]string `yaml:"dependencies"`
}

// Package is a fully loaded manifest, with its name and root already
// resolved relative to the project root.
type Package struct {
	Name                string
	Root                string
	EnforceDependencies bool
	EnforcePrivacy      bool
	Dependencies        *[]string
}

// Read parses a package.yml body for the package rooted at root (an
// absolute directory path), with name derived from root relative to
// projectRoot (an empty relative path maps to "root", per §6).
//
// A malformed manifest, including one missing enforce_dependencies or
// enforce_privacy, is a fatal, input-malformed error (§7): it is never
// silently coerced. An absent dependencies key is allowed.
func Read(r io.Reader, projectRoot, root string) (Package, error) {
	var raw rawManifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return Package{}, errors.Wrapf(err, "parsing %s", filepath.Join(root, FileName))
	}
	if raw.EnforceDependencies == nil {
		return Package{}, errors.Errorf("parsing %s: missing enforce_dependencies", filepath.Join(root, FileName))
	}
	if raw.EnforcePrivacy == nil {
		return Package{}, errors.Errorf("parsing %s: missing enforce_privacy", filepath.Join(root, FileName))
	}

	return Package{
		Name:                packageName(projectRoot, root),
		Root:                root,
		EnforceDependencies: *raw.EnforceDependencies,
		EnforcePrivacy:      *raw.EnforcePrivacy,
		Dependencies:        raw.Dependencies,
	}, nil
}

func packageName(projectRoot, root string) string {
	rel, err := filepath.Rel(projectRoot, root)
	if err != nil {
		rel = root
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return attribute.RootPackage
	}
	return strings.TrimSuffix(rel, "/")
}

// ToAttributePackage narrows p to the subset internal/attribute needs for
// path-ownership lookup.
func (p Package) ToAttributePackage() attribute.Package {
	return attribute.Package{Name: p.Name, Root: p.Root}
}

// ToIndexPackage narrows p to the subset internal/validate's index needs,
// unifying absent and empty Dependencies (§7/Q1).
func (p Package) ToIndexPackage() index.Package {
	var deps []string
	if p.Dependencies != nil {
		deps = *p.Dependencies
	}
	return index.Package{
		Name:                p.Name,
		EnforceDependencies: p.EnforceDependencies,
		EnforcePrivacy:      p.EnforcePrivacy,
		Dependencies:        deps,
	}
}
