package desugar

import (
	"testing"

	"wrapc/ast"
	"wrapc/depm"
	"wrapc/report"
	"wrapc/types"
)

var (
	tInt    = types.PrimTypeInt
	tString = types.PrimTypeString
	tVoid   = types.PrimTypeVoid
	tValue  = &types.TypeParam{Name: "Value"}

	tFruit     = &types.NamedType{Name: "Fruit", Conformances: []string{types.ConstraintEquatable}}
	tAssertion = &types.NamedType{Name: "Assertion"}
)

const (
	nm = ast.Nonmutating
	mu = ast.Mutating
	un = ast.Unavailable
)

func fixtureSpan(line int) *report.TextSpan {
	return &report.TextSpan{StartLine: line, EndLine: line, EndCol: 1}
}

func prop(typ types.Type, get, set ast.Mutability) *ast.Property {
	return &ast.Property{Type: typ, Get: get, Set: set}
}

func initParam(label string, typ types.Type, hasDefault bool) *ast.InitParam {
	return &ast.InitParam{Label: label, Type: typ, HasDefault: hasDefault}
}

func initDef(params ...*ast.InitParam) *ast.InitDef {
	return &ast.InitDef{Params: params, Access: ast.AccessPublic}
}

func wrappedInit(extra ...*ast.InitParam) *ast.InitDef {
	return initDef(append([]*ast.InitParam{initParam(ast.WrappedValueLabel, tValue, false)}, extra...)...)
}

func wrapperDef(name string, wrapped, projected *ast.Property, inits ...*ast.InitDef) *ast.WrapperDef {
	return &ast.WrapperDef{
		ASTBase:        ast.NewASTBaseOn(fixtureSpan(0)),
		Name:           name,
		TypeParam:      tValue,
		Access:         ast.AccessPublic,
		WrappedValue:   wrapped,
		ProjectedValue: projected,
		Inits:          inits,
	}
}

// fixtureWrappers returns the wrappers used throughout the tests.
func fixtureWrappers() []*ast.WrapperDef {
	loggedProj := &types.ListType{ElemType: tValue}
	historyProj := &types.GenericInstance{Name: "History", Args: []types.Type{tValue}}

	return []*ast.WrapperDef{
		// A read-write wrapper with a projection.
		wrapperDef(
			"Logged",
			prop(tValue, nm, nm),
			prop(loggedProj, nm, un),
			wrappedInit(),
			initDef(initParam(ast.ProjectedValueLabel, loggedProj, false)),
		),
		// A read-write wrapper with a settable projection.
		wrapperDef(
			"Tracked",
			prop(tValue, nm, nm),
			prop(historyProj, nm, nm),
			wrappedInit(),
			initDef(initParam(ast.ProjectedValueLabel, historyProj, false), initParam("limit", tInt, true)),
		),
		// A wrapper taking attribute arguments with no projection.
		wrapperDef(
			"Asserted",
			prop(tValue, nm, nm),
			nil,
			wrappedInit(initParam("_", tAssertion, false)),
		),
		// A wrapper whose setter mutates its storage.
		wrapperDef(
			"Clamped",
			prop(tValue, nm, mu),
			nil,
			wrappedInit(),
		),
		// A get-only wrapper.
		wrapperDef(
			"Frozen",
			prop(tValue, nm, un),
			nil,
			wrappedInit(),
		),
		// A wrapper whose getter mutates its storage.
		wrapperDef(
			"Lazy",
			prop(tValue, mu, mu),
			nil,
			wrappedInit(),
		),
		// A wrapper with constrained constructor overloads.
		wrapperDef(
			"Sized",
			prop(tValue, nm, nm),
			nil,
			wrappedInit(),
			&ast.InitDef{
				Params: []*ast.InitParam{initParam(ast.WrappedValueLabel, tValue, false)},
				Where:  []string{types.ConstraintCollection},
				Access: ast.AccessPublic,
			},
		),
		// A wrapper with two indistinguishable constructors.
		wrapperDef(
			"Twice",
			prop(tValue, nm, nm),
			nil,
			wrappedInit(),
			wrappedInit(initParam("note", tString, true)),
		),
		// A wrapper that can only be constructed from a projection.
		wrapperDef(
			"Projected",
			prop(tValue, nm, nm),
			prop(historyProj, nm, un),
			initDef(initParam(ast.ProjectedValueLabel, historyProj, false)),
		),
		// A wrapper taking a labeled attribute argument.
		wrapperDef(
			"Bounded",
			prop(tValue, nm, nm),
			nil,
			wrappedInit(initParam("limit", tInt, false)),
		),
		// A wrapper whose projection constructor defaults the projected value.
		wrapperDef(
			"Defaulted",
			prop(tValue, nm, nm),
			prop(historyProj, nm, un),
			wrappedInit(),
			initDef(initParam(ast.ProjectedValueLabel, historyProj, true)),
		),
		// A wrapper whose projection constructor is failable.
		wrapperDef(
			"Fallible",
			prop(tValue, nm, nm),
			prop(&types.GenericInstance{Name: "Draft", Args: []types.Type{tValue}}, nm, un),
			wrappedInit(),
			&ast.InitDef{
				Params:   []*ast.InitParam{initParam(ast.ProjectedValueLabel, &types.GenericInstance{Name: "Draft", Args: []types.Type{tValue}}, false)},
				Failable: true,
				Access:   ast.AccessPublic,
			},
		),
	}
}

func wrapperRef(name string, args ...*ast.Arg) *ast.WrapperRef {
	return &ast.WrapperRef{ASTBase: ast.NewASTBaseOn(fixtureSpan(1)), Name: name, Args: args}
}

func attr(refs ...*ast.WrapperRef) *ast.WrapperAttr {
	return &ast.WrapperAttr{Wrappers: refs}
}

func param(label, name string, typ types.Type, wrappers *ast.WrapperAttr) *ast.ParamDecl {
	return &ast.ParamDecl{
		ASTBase:  ast.NewASTBaseOn(fixtureSpan(2)),
		Label:    label,
		Name:     name,
		Type:     typ,
		Wrappers: wrappers,
	}
}

func funcDef(name string, result types.Type, params ...*ast.ParamDecl) *ast.FuncDef {
	return &ast.FuncDef{
		ASTBase:    ast.NewASTBaseOn(fixtureSpan(3)),
		Name:       name,
		Params:     params,
		ReturnType: result,
		Access:     ast.AccessInternal,
	}
}

func intLit(text string) *ast.Literal {
	return &ast.Literal{ExprBase: ast.NewExprBase(tInt, fixtureSpan(4)), Text: text}
}

func strLit(text string) *ast.Literal {
	return &ast.Literal{ExprBase: ast.NewExprBase(tString, fixtureSpan(4)), Text: text}
}

func ident(name string, typ types.Type) *ast.Identifier {
	return &ast.Identifier{ExprBase: ast.NewExprBase(typ, fixtureSpan(4)), Name: name}
}

func member(name string, args ...ast.Expr) *ast.ImplicitMember {
	return &ast.ImplicitMember{ExprBase: ast.NewExprBase(nil, fixtureSpan(4)), Name: name, Args: args, Called: true}
}

func arg(label string, value ast.Expr) *ast.Arg {
	return &ast.Arg{ASTBase: ast.NewASTBaseOn(fixtureSpan(5)), Label: label, Value: value}
}

func call(callee string, args ...*ast.Arg) *ast.Call {
	return &ast.Call{ExprBase: ast.NewExprBase(nil, fixtureSpan(5)), Callee: callee, Args: args}
}

func funcRef(name string, labels ...string) *ast.FuncRef {
	return &ast.FuncRef{ExprBase: ast.NewExprBase(nil, fixtureSpan(6)), Name: name, Labels: labels}
}

// newFixtureUnit creates a unit defining the fixture types, wrappers and the
// given functions.
func newFixtureUnit(t *testing.T, funcs ...*ast.FuncDef) *depm.Unit {
	t.Helper()

	u := depm.NewUnit("fixture", "", "fixture.toml")
	for _, nt := range []*types.NamedType{tFruit, tAssertion} {
		if cerr := u.AddType(nt, fixtureSpan(0)); cerr != nil {
			t.Fatalf("defining type %s: %s", nt.Name, cerr)
		}
	}

	for _, wd := range fixtureWrappers() {
		if cerr := u.AddWrapper(wd); cerr != nil {
			t.Fatalf("defining wrapper %s: %s", wd.Name, cerr)
		}
	}

	for _, fd := range funcs {
		if cerr := u.AddFunc(fd); cerr != nil {
			t.Fatalf("defining function %s: %s", fd.Name, cerr)
		}
	}

	return u
}

// desugarFixture desugars and defines the signatures of the given functions,
// failing the test on any error.
func desugarFixture(t *testing.T, funcs ...*ast.FuncDef) (*Pass, []*Func) {
	t.Helper()

	p := NewPass(newFixtureUnit(t, funcs...))

	var fns []*Func
	for _, fd := range funcs {
		fn, diags := p.DesugarSignature(fd)
		if len(diags) > 0 {
			t.Fatalf("desugaring %s: %s", fd.Signature(), diags[0])
		}

		p.Define(fn)
		fns = append(fns, fn)
	}

	return p, fns
}

// expectKind checks that exactly one diagnostic of the given kind was
// produced.
func expectKind(t *testing.T, diags []*report.CompileError, kind int) *report.CompileError {
	t.Helper()

	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}

	if diags[0].Kind != kind {
		t.Fatalf("got %s error, want %s error: %s", report.KindName(diags[0].Kind), report.KindName(kind), diags[0])
	}

	return diags[0]
}
