package desugar

import (
	"testing"

	"wrapc/ast"
	"wrapc/types"
)

func TestPrintFunc(t *testing.T) {
	fd := funcDef(
		"buy",
		tVoid,
		param("quantity", "quantity", tInt, attr(wrapperRef("Tracked"))),
		param("fruit", "fruit", tFruit, nil),
	)
	fd.Body = []ast.Stmt{assign("quantity", intLit("2"))}

	p, fns := desugarFixture(t, fd)
	if diags := p.DesugarBody(fns[0]); len(diags) != 0 {
		t.Fatalf("unexpected error: %s", diags[0])
	}

	want := `func buy(quantity _quantity: Tracked<Int>, fruit: Fruit) {
    var quantity: Int { get { _quantity.wrappedValue } nonmutating set { _quantity.wrappedValue = newValue } }
    var $quantity: History<Int> { get { _quantity.projectedValue } nonmutating set { _quantity.projectedValue = newValue } }
    quantity = 2
}
`
	if got := PrintFunc(fns[0]); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintFuncResult(t *testing.T) {
	fd := funcDef("clamp", tInt, param("_", "x", tInt, attr(wrapperRef("Clamped"))))
	_, fns := desugarFixture(t, fd)

	want := `func clamp(_ _x: Clamped<Int>) -> Int {
    var x: Int { get { _x.wrappedValue } }
}
`
	if got := PrintFunc(fns[0]); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintGenericFunc(t *testing.T) {
	tC := &types.TypeParam{Name: "C", Constraints: []string{types.ConstraintCollection, types.ConstraintEquatable}}
	fd := funcDef("count", tInt, param("_", "xs", tC, attr(wrapperRef("Sized"))))
	fd.TypeParams = []*types.TypeParam{tC}

	_, fns := desugarFixture(t, fd)

	want := `func count<C: Collection & Equatable>(_ _xs: Sized<C>) -> Int {
    var xs: C { get { _xs.wrappedValue } nonmutating set { _xs.wrappedValue = newValue } }
}
`
	if got := PrintFunc(fns[0]); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintClosure(t *testing.T) {
	p, _ := desugarFixture(t)

	c := closure([]*ast.ParamDecl{param("_", "$x", &types.ListType{ElemType: tInt}, nil)}, exprStmt(ident("x", nil)))
	result := rewriteOK(t, p, c)

	want := `{ ($x: [Int]) -> Void in
    let _x = Logged(projectedValue: $x)
    var x: Int { get { _x.wrappedValue } nonmutating set { _x.wrappedValue = newValue } }
    var $x: [Int] { get { _x.projectedValue } }
    x
}`
	if got := PrintExpr(result); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
