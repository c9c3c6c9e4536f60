package desugar

import (
	"testing"

	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

func closure(params []*ast.ParamDecl, body ...ast.Stmt) *ast.Closure {
	return &ast.Closure{
		ExprBase:   ast.NewExprBase(nil, fixtureSpan(8)),
		Params:     params,
		ReturnType: tVoid,
		Body:       body,
	}
}

func TestClosureInfersProjection(t *testing.T) {
	p, _ := desugarFixture(t)

	lines := &types.ListType{ElemType: tInt}
	c := closure(
		[]*ast.ParamDecl{param("_", "$x", lines, nil)},
		assign("x", intLit("1")),
		exprStmt(ident("$x", nil)),
	)

	result := rewriteOK(t, p, c).(*Closure)

	if got := result.Type().Repr(); got != "([Int]) -> Void" {
		t.Fatalf("got type %s, want ([Int]) -> Void", got)
	}

	if len(result.Inits) != 1 || result.Inits[0].Value.Repr() != "Logged(projectedValue: $x)" {
		t.Fatalf("got backing inits %v", result.Inits)
	}

	x := result.Params[0]
	if x.Wrapped.Name != "x" || x.Projected == nil || x.Projected.Name != "$x" {
		t.Fatalf("expected both `x` and `$x` to be synthesized")
	}

	if len(result.Body) != 2 {
		t.Fatalf("got %d body statements, want 2", len(result.Body))
	}
}

func TestClosureExplicitAttribute(t *testing.T) {
	p, _ := desugarFixture(t)

	c := closure([]*ast.ParamDecl{param("_", "x", tInt, attr(wrapperRef("Logged")))})
	result := rewriteOK(t, p, c).(*Closure)

	if got := result.Type().Repr(); got != "(Int) -> Void" {
		t.Fatalf("got type %s, want (Int) -> Void", got)
	}

	if got := result.Inits[0].Value.Repr(); got != "Logged(wrappedValue: x)" {
		t.Fatalf("got backing init %s, want Logged(wrappedValue: x)", got)
	}
}

func TestClosureExplicitChainProjection(t *testing.T) {
	p, _ := desugarFixture(t)

	history := &types.GenericInstance{
		Name: "History",
		Args: []types.Type{&types.GenericInstance{Name: "Logged", Args: []types.Type{tInt}}},
	}
	c := closure([]*ast.ParamDecl{param("_", "$x", history, attr(wrapperRef("Tracked"), wrapperRef("Logged")))})
	result := rewriteOK(t, p, c).(*Closure)

	x := result.Params[0]
	if !types.Equals(x.Decl.Type, tInt) {
		t.Fatalf("got wrapped type %s, want Int", x.Decl.Type.Repr())
	}

	if got := result.Inits[0].Value.Repr(); got != "Tracked(projectedValue: $x)" {
		t.Fatalf("got backing init %s", got)
	}
}

func TestClosureInferenceFailures(t *testing.T) {
	history := &types.GenericInstance{Name: "History", Args: []types.Type{tInt}}

	tests := []struct {
		name  string
		param *ast.ParamDecl
		kind  int
	}{
		{"no candidate", param("_", "$x", types.PrimTypeBool, nil), report.KindClosure},
		{"ambiguous", param("_", "$x", history, nil), report.KindClosure},
		{"explicit without projection", param("_", "$x", tInt, attr(wrapperRef("Clamped"))), report.KindProjection},
		{"explicit wrong projection", param("_", "$x", tInt, attr(wrapperRef("Logged"))), report.KindClosure},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, _ := desugarFixture(t)

			_, diags := p.RewriteExpr(closure([]*ast.ParamDecl{test.param}))
			expectKind(t, diags, test.kind)
		})
	}
}

func TestClosureShadowsParameters(t *testing.T) {
	f := funcDef("f", tVoid, param("x", "x", tInt, attr(wrapperRef("Frozen"))))
	inner := closure(
		[]*ast.ParamDecl{param("_", "x", tInt, attr(wrapperRef("Logged")))},
		assign("x", intLit("1")),
	)
	f.Body = []ast.Stmt{exprStmt(inner)}

	p, fns := desugarFixture(t, f)
	if diags := p.DesugarBody(fns[0]); len(diags) != 0 {
		t.Fatalf("unexpected error: %s", diags[0])
	}
}
