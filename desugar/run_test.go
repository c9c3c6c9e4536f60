package desugar

import (
	"testing"

	"wrapc/ast"
	"wrapc/report"
)

func TestRun(t *testing.T) {
	caller := funcDef("caller", tVoid)
	caller.Body = []ast.Stmt{exprStmt(call("callee", arg("x", intLit("1"))))}

	callee := funcDef("callee", tVoid, param("x", "x", tInt, attr(wrapperRef("Logged"))))
	bad := funcDef("bad", tVoid, param("x", "x", tInt, attr(wrapperRef("Lazy"))))

	exprs := []ast.Expr{
		call("bad", arg("x", intLit("1"))),
		call("callee", arg("$x", intLit("1"))),
		funcRef("callee", "x"),
	}

	u := newFixtureUnit(t, caller, callee, bad)
	result := Run(u, u.Funcs, exprs)

	if len(result.Funcs) != 2 {
		t.Fatalf("got %d desugared functions, want 2", len(result.Funcs))
	}

	if got := result.Funcs[0].Body[0].Repr(); got != "callee(x: Logged(wrappedValue: 1))" {
		t.Fatalf("got %s: calls must see functions declared later", got)
	}

	if len(result.Exprs) != 1 || result.Exprs[0].Original != exprs[2] {
		t.Fatalf("expected only the reference to be rewritten")
	}

	wantKinds := []int{report.KindMutability, report.KindArgument}
	if len(result.Diagnostics) != len(wantKinds) {
		t.Fatalf("got %d diagnostics, want %d: %v", len(result.Diagnostics), len(wantKinds), result.Diagnostics)
	}

	for i, kind := range wantKinds {
		if result.Diagnostics[i].Kind != kind {
			t.Fatalf("diagnostic %d: got %s, want %s", i, report.KindName(result.Diagnostics[i].Kind), report.KindName(kind))
		}
	}
}
