package desugar

import (
	"wrapc/ast"
	"wrapc/report"
)

// CallRewrite is a top-level expression together with its rewritten form.
type CallRewrite struct {
	Original  ast.Expr
	Rewritten ast.Expr
}

// Result is the output of desugaring a whole unit.
type Result struct {
	// The functions that desugared successfully, in declaration order.
	Funcs []*Func

	// The rewritten expressions, in order.  Expressions that failed to
	// rewrite are omitted.
	Exprs []*CallRewrite

	Diagnostics []*report.CompileError
}

// Run desugars the given functions and expressions one after another.  All
// signatures are desugared before any body or expression so that calls may
// refer to functions declared later in the unit.
func Run(res Resolver, funcs []*ast.FuncDef, exprs []ast.Expr) *Result {
	p := NewPass(res)
	result := &Result{}

	for _, fd := range funcs {
		fn, diags := p.DesugarSignature(fd)
		if fn == nil {
			result.Diagnostics = append(result.Diagnostics, diags...)
			continue
		}

		p.Define(fn)
		result.Funcs = append(result.Funcs, fn)
	}

	for _, fn := range result.Funcs {
		result.Diagnostics = append(result.Diagnostics, p.DesugarBody(fn)...)
	}

	for _, expr := range exprs {
		rewritten, diags := p.RewriteExpr(expr)
		result.Diagnostics = append(result.Diagnostics, diags...)

		if rewritten != nil {
			result.Exprs = append(result.Exprs, &CallRewrite{Original: expr, Rewritten: rewritten})
		}
	}

	return result
}
