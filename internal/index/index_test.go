package index

import (
	"testing"

	"github.com/sdboyer/boundarycheck/internal/attribute"
)

func TestBuild_LookupsNeverFail(t *testing.T) {
	idx := Build(nil, nil, nil)
	if got := idx.DefinitionsNamed("Missing"); got != nil {
		t.Errorf("DefinitionsNamed on empty index = %v, want nil", got)
	}
	if _, ok := idx.Package("nope"); ok {
		t.Error("Package lookup on empty index should report not-found")
	}
}

func TestBuild_GroupsByNameAndPackage(t *testing.T) {
	defs := []attribute.Definition{
		{Package: "p1", Name: "A::X"},
		{Package: "p2", Name: "A::X"},
		{Package: "p1", Name: "A::Y"},
	}
	idx := Build(defs, nil, []Package{{Name: "p1"}, {Name: "p2"}})

	if got := idx.DefinitionsNamed("A::X"); len(got) != 2 {
		t.Errorf("DefinitionsNamed(A::X) = %d defs, want 2 (collision across packages allowed)", len(got))
	}
	if got := idx.DefinitionsInPackage("p1"); len(got) != 2 {
		t.Errorf("DefinitionsInPackage(p1) = %d defs, want 2", len(got))
	}
	if _, ok := idx.Package("p1"); !ok {
		t.Error("expected p1 to be present")
	}
}
