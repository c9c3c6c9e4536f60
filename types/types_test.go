package types

import "testing"

func TestRepr(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{PrimTypeInt, "Int"},
		{&ListType{ElemType: PrimTypeString}, "[String]"},
		{&GenericInstance{Name: "Logged", Args: []Type{&GenericInstance{Name: "Clamped", Args: []Type{PrimTypeInt}}}}, "Logged<Clamped<Int>>"},
		{&FuncType{ParamTypes: []Type{PrimTypeInt, &NamedType{Name: "Fruit"}}, ReturnType: PrimTypeVoid}, "(Int, Fruit) -> Void"},
		{&TypeParam{Name: "Value"}, "Value"},
	}

	for _, test := range tests {
		if got := test.typ.Repr(); got != test.want {
			t.Fatalf("got %s, want %s", got, test.want)
		}
	}
}

func TestEquals(t *testing.T) {
	logged := func(arg Type) Type {
		return &GenericInstance{Name: "Logged", Args: []Type{arg}}
	}

	tests := []struct {
		a, b Type
		want bool
	}{
		{PrimTypeInt, PrimTypeInt, true},
		{PrimTypeInt, PrimTypeDouble, false},
		{logged(PrimTypeInt), logged(PrimTypeInt), true},
		{logged(PrimTypeInt), logged(PrimTypeString), false},
		{&NamedType{Name: "Fruit"}, &NamedType{Name: "Fruit"}, true},
		{&ListType{ElemType: PrimTypeInt}, PrimTypeInt, false},
		{nil, nil, true},
		{nil, PrimTypeInt, false},
	}

	for _, test := range tests {
		if got := Equals(test.a, test.b); got != test.want {
			t.Fatalf("Equals(%v, %v): got %v, want %v", test.a, test.b, got, test.want)
		}
	}
}

func TestBind(t *testing.T) {
	value := &TypeParam{Name: "Value"}
	history := &GenericInstance{Name: "History", Args: []Type{value}}

	bindings := make(map[string]Type)
	if !Bind(history, &GenericInstance{Name: "History", Args: []Type{PrimTypeInt}}, bindings) {
		t.Fatalf("expected History<Value> to bind History<Int>")
	}

	if !Equals(bindings["Value"], PrimTypeInt) {
		t.Fatalf("got Value = %v, want Int", bindings["Value"])
	}

	pair := &FuncType{ParamTypes: []Type{value}, ReturnType: value}
	if Bind(pair, &FuncType{ParamTypes: []Type{PrimTypeInt}, ReturnType: PrimTypeString}, make(map[string]Type)) {
		t.Fatalf("expected conflicting bindings to fail")
	}

	if Bind(history, &ListType{ElemType: PrimTypeInt}, make(map[string]Type)) {
		t.Fatalf("expected History<Value> not to bind [Int]")
	}
}

func TestSubstitute(t *testing.T) {
	value := &TypeParam{Name: "Value"}
	typ := &ListType{ElemType: &GenericInstance{Name: "Box", Args: []Type{value}}}

	got := Substitute(typ, map[string]Type{"Value": PrimTypeDouble})
	if got.Repr() != "[Box<Double>]" {
		t.Fatalf("got %s, want [Box<Double>]", got.Repr())
	}

	if !IsConcrete(got) || IsConcrete(typ) {
		t.Fatalf("expected substitution to remove all type parameters")
	}
}

func TestConforms(t *testing.T) {
	tests := []struct {
		typ        Type
		constraint string
		want       bool
	}{
		{PrimTypeInt, ConstraintNumeric, true},
		{PrimTypeString, ConstraintNumeric, false},
		{PrimTypeString, ConstraintCollection, true},
		{&ListType{ElemType: PrimTypeInt}, ConstraintCollection, true},
		{&ListType{ElemType: PrimTypeInt}, ConstraintHashable, true},
		{&NamedType{Name: "Fruit", Conformances: []string{ConstraintEquatable}}, ConstraintEquatable, true},
		{&NamedType{Name: "Fruit"}, ConstraintEquatable, false},
		{&TypeParam{Name: "T", Constraints: []string{ConstraintComparable}}, ConstraintComparable, true},
	}

	for _, test := range tests {
		if got := Conforms(test.typ, test.constraint); got != test.want {
			t.Fatalf("Conforms(%s, %s): got %v, want %v", test.typ.Repr(), test.constraint, got, test.want)
		}
	}
}
