package depm

import (
	"testing"

	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

func newWrapper(name string, projected types.Type) *ast.WrapperDef {
	value := &types.TypeParam{Name: "Value"}

	wd := &ast.WrapperDef{
		Name:         name,
		TypeParam:    value,
		WrappedValue: &ast.Property{Type: value},
	}

	if projected != nil {
		wd.ProjectedValue = &ast.Property{Type: projected}
	}

	return wd
}

func TestDefinitionConflicts(t *testing.T) {
	u := NewUnit("test", "", "test.toml")

	if cerr := u.AddType(&types.NamedType{Name: "Fruit"}, nil); cerr != nil {
		t.Fatalf("unexpected error: %s", cerr)
	}

	if cerr := u.AddWrapper(newWrapper("Fruit", nil)); cerr == nil || cerr.Kind != report.KindDefinition {
		t.Fatalf("expected conflicting definition error, got %v", cerr)
	}

	if cerr := u.AddType(&types.NamedType{Name: "Int"}, nil); cerr == nil {
		t.Fatalf("expected redefining a builtin type to fail")
	}

	if len(u.Wrappers) != 0 {
		t.Fatalf("rejected wrapper was added to the unit")
	}
}

func TestResolveWrapper(t *testing.T) {
	u := NewUnit("test", "", "test.toml")
	u.AddWrapper(newWrapper("Logged", nil))
	u.AddFunc(&ast.FuncDef{Name: "buy"})

	broken := newWrapper("Broken", nil)
	broken.WrappedValue = nil
	u.AddWrapper(broken)

	if wd, err := u.ResolveWrapper("Logged", nil); err != nil || wd.Name != "Logged" {
		t.Fatalf("got %v, %v, want Logged", wd, err)
	}

	for _, name := range []string{"Missing", "buy", "Broken"} {
		if _, err := u.ResolveWrapper(name, nil); err == nil {
			t.Fatalf("expected resolving %s as a wrapper to fail", name)
		}
	}

	if _, err := u.ResolveFunc("Logged", nil); err == nil {
		t.Fatalf("expected resolving a wrapper as a function to fail")
	}
}

func TestWrappersProjecting(t *testing.T) {
	value := &types.TypeParam{Name: "Value"}

	u := NewUnit("test", "", "test.toml")
	u.AddWrapper(newWrapper("Tracked", &types.GenericInstance{Name: "History", Args: []types.Type{value}}))
	u.AddWrapper(newWrapper("Audited", &types.GenericInstance{Name: "History", Args: []types.Type{value}}))
	u.AddWrapper(newWrapper("Logged", &types.ListType{ElemType: value}))
	u.AddWrapper(newWrapper("Mirror", value))
	u.AddWrapper(newWrapper("Plain", nil))

	history := &types.GenericInstance{Name: "History", Args: []types.Type{types.PrimTypeInt}}

	got := u.WrappersProjecting(history)
	if len(got) != 2 || got[0].Name != "Audited" || got[1].Name != "Tracked" {
		t.Fatalf("got %d wrappers, want Audited and Tracked", len(got))
	}

	if got := u.WrappersProjecting(types.PrimTypeInt); len(got) != 0 {
		t.Fatalf("got %d wrappers, want none: a bare type parameter projects nothing", len(got))
	}
}
