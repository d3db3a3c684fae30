package deprecate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sdboyer/boundarycheck/internal/attribute"
	"github.com/sdboyer/boundarycheck/internal/constant"
	"github.com/sdboyer/boundarycheck/internal/validate"
)

func ref(path string) attribute.Reference {
	return attribute.Reference{Loc: constant.Loc{AbsolutePath: path}}
}

func TestGroup_ThreeLevelGrouping(t *testing.T) {
	// Three violations from p1: (Dep, p2, FooBar, file A), (Priv, p2,
	// FooBar, file B), (Dep, p3, Qux, file A).
	violations := []validate.Violation{
		{Kind: validate.Dependency, ViolatingPack: "p1", ViolatedPack: "p2", Definition: attribute.Definition{Name: "FooBar"}, Reference: ref("A")},
		{Kind: validate.Privacy, ViolatingPack: "p1", ViolatedPack: "p2", Definition: attribute.Definition{Name: "FooBar"}, Reference: ref("B")},
		{Kind: validate.Dependency, ViolatingPack: "p1", ViolatedPack: "p3", Definition: attribute.Definition{Name: "Qux"}, Reference: ref("A")},
	}

	got := Group(violations)
	want := []DeprecatedReferences{
		{
			ViolatingPack: "p1",
			ViolatedPacks: []ViolatedPackageEntry{
				{
					PackageName: "p2",
					References: []DeprecatedReference{
						{ConstantName: "::FooBar", Violations: []string{"dependency", "privacy"}, Files: []string{"A", "B"}},
					},
				},
				{
					PackageName: "p3",
					References: []DeprecatedReference{
						{ConstantName: "::Qux", Violations: []string{"dependency"}, Files: []string{"A"}},
					},
				},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Group() mismatch (-want +got):\n%s", diff)
	}
}

func TestGroup_DeduplicatesFilesAndKinds(t *testing.T) {
	violations := []validate.Violation{
		{Kind: validate.Dependency, ViolatingPack: "p1", ViolatedPack: "p2", Definition: attribute.Definition{Name: "X"}, Reference: ref("A")},
		{Kind: validate.Dependency, ViolatingPack: "p1", ViolatedPack: "p2", Definition: attribute.Definition{Name: "X"}, Reference: ref("A")},
	}
	got := Group(violations)
	leaf := got[0].ViolatedPacks[0].References[0]
	if len(leaf.Files) != 1 || len(leaf.Violations) != 1 {
		t.Errorf("expected dedup, got %+v", leaf)
	}
}

func TestGroup_IdempotentAcrossRuns(t *testing.T) {
	violations := []validate.Violation{
		{Kind: validate.Privacy, ViolatingPack: "p1", ViolatedPack: "p2", Definition: attribute.Definition{Name: "X"}, Reference: ref("B")},
		{Kind: validate.Dependency, ViolatingPack: "p1", ViolatedPack: "p2", Definition: attribute.Definition{Name: "X"}, Reference: ref("A")},
	}
	first := Group(violations)
	second := Group(violations)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Group() not idempotent (-first +second):\n%s", diff)
	}
}
