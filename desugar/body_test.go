package desugar

import (
	"testing"

	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

func exprStmt(expr ast.Expr) *ast.ExprStmt {
	return &ast.ExprStmt{ASTBase: ast.NewASTBaseOn(fixtureSpan(7)), Expr: expr}
}

func assign(target string, value ast.Expr) *ast.Assign {
	return &ast.Assign{ASTBase: ast.NewASTBaseOn(fixtureSpan(7)), Target: target, Value: value}
}

func TestBodyRules(t *testing.T) {
	lines := &types.ListType{ElemType: tInt}

	tests := []struct {
		name string
		stmt ast.Stmt
		kind int // -1 if the statement is valid
		want string
	}{
		{"assign wrapped", assign("x", intLit("2")), -1, "x = 2"},
		{"assign get-only wrapped", assign("y", intLit("2")), report.KindBody, ""},
		{"assign constant", assign("z", intLit("2")), report.KindBody, ""},
		{"assign wrong type", assign("x", strLit(`"2"`)), report.KindArgument, ""},
		{"read projection", exprStmt(ident("$x", nil)), -1, "$x"},
		{"missing projection", exprStmt(ident("$y", nil)), report.KindBody, ""},
		{"projection of constant", exprStmt(ident("$z", nil)), report.KindBody, ""},
		{"assign get-only projection", assign("$x", ident("lines", lines)), report.KindBody, ""},
		{"nested call", exprStmt(call("g", arg("v", ident("x", nil)))), -1, "g(v: Logged(wrappedValue: x))"},
		{"nested projected call", exprStmt(call("g", arg("$v", ident("$x", nil)))), -1, "g(v: Logged(projectedValue: $x))"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := funcDef(
				"f",
				tVoid,
				param("x", "x", tInt, attr(wrapperRef("Logged"))),
				param("y", "y", tInt, attr(wrapperRef("Frozen"))),
				param("z", "z", tInt, nil),
			)
			f.Body = []ast.Stmt{test.stmt}
			g := funcDef("g", tVoid, param("v", "v", tInt, attr(wrapperRef("Logged"))))

			p, fns := desugarFixture(t, f, g)
			diags := p.DesugarBody(fns[0])

			if test.kind == -1 {
				if len(diags) != 0 {
					t.Fatalf("unexpected error: %s", diags[0])
				}

				if got := fns[0].Body[0].Repr(); got != test.want {
					t.Fatalf("got %s, want %s", got, test.want)
				}

				return
			}

			expectKind(t, diags, test.kind)
			if len(fns[0].Body) != 0 {
				t.Fatalf("expected the invalid statement to be dropped")
			}
		})
	}
}

func TestBodyStatementsIndependent(t *testing.T) {
	f := funcDef("f", tVoid, param("y", "y", tInt, attr(wrapperRef("Frozen"))))
	f.Body = []ast.Stmt{
		assign("y", intLit("1")),
		exprStmt(ident("y", nil)),
		exprStmt(ident("$y", nil)),
	}

	p, fns := desugarFixture(t, f)
	diags := p.DesugarBody(fns[0])

	if len(diags) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(diags), diags)
	}

	if len(fns[0].Body) != 1 || fns[0].Body[0].Repr() != "y" {
		t.Fatalf("expected only the valid statement to remain")
	}
}
