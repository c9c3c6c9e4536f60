package desugar

import (
	"strings"

	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

// DesugarBody rewrites the body of a function whose signature has already been
// desugared.  The parameters are visible in the body through their local
// accessors.  Each statement is rewritten independently: an error in one
// statement does not prevent the others from being rewritten.
func (p *Pass) DesugarBody(fn *Func) []*report.CompileError {
	d := p.newDesugarer()

	d.pushScope()
	defer d.popScope()

	for _, param := range fn.Params {
		d.scopes[0][param.Decl.Name] = param
	}

	fn.Body = d.rewriteBody(fn.Def.Body)
	return d.diags
}

// rewriteBody rewrites the statements of a body.  Statements that fail to
// rewrite are dropped.
func (d *desugarer) rewriteBody(stmts []ast.Stmt) []ast.Stmt {
	var body []ast.Stmt
	for _, stmt := range stmts {
		d.catch(func() {
			body = append(body, d.rewriteStmt(stmt))
		})
	}

	return body
}

// rewriteStmt rewrites a single statement.
func (d *desugarer) rewriteStmt(stmt ast.Stmt) ast.Stmt {
	switch v := stmt.(type) {
	case *ast.ExprStmt:
		return &ast.ExprStmt{ASTBase: ast.NewASTBaseOn(v.Span()), Expr: d.rewriteExpr(v.Expr)}
	case *ast.Assign:
		expected := d.checkAssign(v)
		value := d.rewriteExpr(v.Value)

		if expected != nil {
			d.checkArgType(value, expected, v.Span())
		}

		return &ast.Assign{ASTBase: ast.NewASTBaseOn(v.Span()), Target: v.Target, Value: value}
	}

	return stmt
}

// checkAssign checks that the target of an assignment can be assigned.  It
// returns the type of the target if the target is a parameter.
func (d *desugarer) checkAssign(assign *ast.Assign) types.Type {
	if strings.HasPrefix(assign.Target, "$") {
		param := d.lookupProjection(assign.Target, assign.Span())
		if !param.Projected.HasSetter {
			d.error(
				report.KindBody,
				assign.Span(),
				"cannot assign to `%s`: the projected value of `%s` is get-only",
				assign.Target,
				param.Chain.Outermost().Name,
			)
		}

		return param.Projected.Type
	}

	param, ok := d.lookupLocal(assign.Target)
	if !ok {
		return nil
	}

	if !param.IsWrapped() {
		d.error(report.KindBody, assign.Span(), "cannot assign to value: `%s` is a `let` constant", assign.Target)
	} else if !param.Wrapped.HasSetter {
		d.error(
			report.KindBody,
			assign.Span(),
			"cannot assign to value: `%s` is a get-only wrapped parameter (setter through `%s` is %s)",
			assign.Target,
			strings.Join(param.Chain.Names(), "."),
			param.Mutability.Set,
		)
	}

	return param.Decl.Type
}

// checkIdentifier resolves an identifier against the enclosing parameters.  A
// parameter reference takes the type of the accessor it names.  Identifiers
// outside of any body are returned unchanged.
func (d *desugarer) checkIdentifier(id *ast.Identifier) ast.Expr {
	if len(d.scopes) == 0 {
		return id
	}

	var typ types.Type
	if strings.HasPrefix(id.Name, "$") {
		typ = d.lookupProjection(id.Name, id.Span()).Projected.Type
	} else if param, ok := d.lookupLocal(id.Name); ok {
		typ = param.Decl.Type
	} else {
		return id
	}

	return &ast.Identifier{ExprBase: ast.NewExprBase(typ, id.Span()), Name: id.Name}
}

// lookupProjection looks up the parameter whose projected value is named by a
// `$`-prefixed identifier.
func (d *desugarer) lookupProjection(name string, span *report.TextSpan) *Param {
	param, ok := d.lookupLocal(name[1:])
	if !ok {
		d.error(report.KindBody, span, "use of unresolved identifier `%s`", name)
	}

	if !param.IsWrapped() {
		d.error(report.KindBody, span, "`%s` is unavailable: parameter `%s` has no property wrapper", name, param.Decl.Name)
	} else if param.Projected == nil {
		d.error(
			report.KindBody,
			span,
			"`%s` is unavailable: property wrapper `%s` has no non-mutating `projectedValue`",
			name,
			param.Chain.Outermost().Name,
		)
	}

	return param
}
