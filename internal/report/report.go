// Package report writes the per-package deprecation structure produced by
// C6 to deprecated_references.yml. Writing the report is out of scope for
// the core (spec.md §1, §6); this collaborator's only job is turning
// deprecate.DeprecatedReferences into the documented on-disk YAML shape and
// writing it atomically.
package report

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sdboyer/boundarycheck/internal/deprecate"
)

// FileName is the fixed output file name within a violating package's root.
const FileName = "deprecated_references.yml"

// yamlReference is the on-disk shape of one deprecated constant entry.
type yamlReference struct {
	Violations []string `yaml:"violations"`
	Files      []string `yaml:"files"`
}

// Write renders d as YAML and writes it to <root>/deprecated_references.yml,
// overwriting any existing file atomically (§6): the new content is written
// to a temp file in the same directory, then moved into place with
// os.Rename, adapted from the teacher's txn_writer.go/fs.go
// renameWithFallback dir-swap pattern, reduced to the single-file case.
func Write(root string, d deprecate.DeprecatedReferences) error {
	doc, err := toNode(d)
	if err != nil {
		return errors.Wrapf(err, "marshaling deprecated references for %s", d.ViolatingPack)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "marshaling deprecated references for %s", d.ViolatingPack)
	}

	target := filepath.Join(root, FileName)
	return writeAtomic(target, out)
}

// toNode builds the document as an explicit yaml.Node mapping so key order
// matches the grouper's already-sorted ViolatedPacks/References order:
// encoding a plain Go map here would lose that order, since map iteration
// in Go is randomized.
func toNode(d deprecate.DeprecatedReferences) (*yaml.Node, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, violatedPack := range d.ViolatedPacks {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: violatedPack.PackageName}

		inner := &yaml.Node{Kind: yaml.MappingNode}
		for _, ref := range violatedPack.References {
			refKey := &yaml.Node{Kind: yaml.ScalarNode, Value: ref.ConstantName}
			refValue := &yaml.Node{}
			if err := refValue.Encode(yamlReference{Violations: ref.Violations, Files: ref.Files}); err != nil {
				return nil, err
			}
			inner.Content = append(inner.Content, refKey, refValue)
		}

		doc.Content = append(doc.Content, keyNode, inner)
	}
	return doc, nil
}

func writeAtomic(target string, content []byte) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".deprecated_references-*.yml.tmp")
	if err != nil {
		return errors.Wrapf(err, "creating temp file for %s", target)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmpPath)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		return errors.Wrapf(err, "moving %s into place at %s", tmpPath, target)
	}
	return nil
}
