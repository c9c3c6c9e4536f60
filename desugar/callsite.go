package desugar

import (
	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

// RewriteExpr desugars a top-level expression: calls, unapplied function
// references and closures.  If the expression cannot be rewritten, nil is
// returned along with the errors.  Expressions referencing a function whose
// declaration failed to desugar are returned as nil with no errors.
func (p *Pass) RewriteExpr(expr ast.Expr) (ast.Expr, []*report.CompileError) {
	d := p.newDesugarer()

	var result ast.Expr
	ok := d.catch(func() {
		result = d.rewriteExpr(expr)
	})

	if !ok || len(d.diags) > 0 {
		return nil, d.diags
	}

	return result, nil
}

// rewriteExpr rewrites an expression and all its subexpressions.
func (d *desugarer) rewriteExpr(expr ast.Expr) ast.Expr {
	switch v := expr.(type) {
	case *ast.Call:
		return d.rewriteCall(v)
	case *ast.FuncRef:
		return d.rewriteFuncRef(v)
	case *ast.Closure:
		return d.desugarClosure(v)
	case *ast.ListLiteral:
		elems := make([]ast.Expr, len(v.Elems))
		for i, elem := range v.Elems {
			elems[i] = d.rewriteExpr(elem)
		}

		return &ast.ListLiteral{ExprBase: ast.NewExprBase(v.Type(), v.Span()), Elems: elems}
	case *ast.Identifier:
		return d.checkIdentifier(v)
	}

	return expr
}

// lookupCallee returns the desugared function with the given name.  If the
// function exists but failed to desugar, the current expression is abandoned.
func (d *desugarer) lookupCallee(name string, span *report.TextSpan) *Func {
	if fn, ok := d.p.lookup(name); ok {
		return fn
	}

	if _, err := d.p.res.ResolveFunc(name, span); err != nil {
		d.raise(err, span)
	}

	panic(errInvalidCallee{})
}

// rewriteCall rewrites a call so that each argument bound to a wrapped
// parameter is passed through the wrappers' constructors.  The generic
// parameters of the callee are bound from the static types of the arguments
// before any constructor is selected.
func (d *desugarer) rewriteCall(call *ast.Call) *ast.Call {
	fn := d.lookupCallee(call.Callee, call.Span())

	if len(call.Args) != len(fn.Params) {
		d.error(
			report.KindArgument,
			call.Span(),
			"`%s` takes %d arguments but %d were given",
			fn.Def.Signature(),
			len(fn.Params),
			len(call.Args),
		)
	}

	bindings := make(map[string]types.Type)
	args := make([]*ast.Arg, len(call.Args))
	for i, arg := range call.Args {
		param := fn.Params[i]
		value := d.rewriteExpr(arg.Value)

		switch {
		case arg.Label == param.Decl.ExternalLabel():
			d.bindArgType(value, param.Decl.Type, bindings, arg.Span())

			if param.IsWrapped() {
				value = d.wrapValue(param, value, bindings, arg.Span())
			}
		case param.IsWrapped() && arg.Label == param.Decl.ProjectionLabel():
			value = d.projectValue(param, value, bindings, arg.Span())
		case arg.Label == param.Decl.ProjectionLabel():
			d.error(
				report.KindProjection,
				arg.Span(),
				"cannot pass a projected value for `%s`: parameter has no property wrapper",
				param.Decl.Name,
			)
		default:
			d.error(
				report.KindArgument,
				arg.Span(),
				"incorrect argument label in call to `%s`: expected %s but found %s",
				fn.Def.Signature(),
				describeLabel(param.Decl.ExternalLabel()),
				describeLabel(arg.Label),
			)
		}

		args[i] = &ast.Arg{
			ASTBase: ast.NewASTBaseOn(arg.Span()),
			Label:   param.Decl.ExternalLabel(),
			Value:   value,
		}
	}

	return &ast.Call{
		ExprBase: ast.NewExprBase(types.Substitute(fn.Def.ReturnType, bindings), call.Span()),
		Callee:   call.Callee,
		Args:     args,
	}
}

// wrapValue passes a value through the `init(wrappedValue:)` of every wrapper
// of a parameter, innermost first, so that each wrapper wraps the instance of
// the wrapper nested inside it.  The bindings of a generic callee's parameters
// may be nil.
func (d *desugarer) wrapValue(param *Param, value ast.Expr, bindings map[string]types.Type, span *report.TextSpan) ast.Expr {
	chain := param.Chain.Substitute(bindings)

	for k := chain.Len() - 1; k >= 0; k-- {
		wd := chain.Defs[k]
		init, extra := d.selectWrappedInit(wd, value, chain.Wrapped[k], chain.Refs[k].Args, span)

		value = &ast.InitCall{
			ExprBase: ast.NewExprBase(chain.LayerType(k), span),
			Wrapper:  wd.Name,
			Init:     init,
			Value:    value,
			Extra:    extra,
		}
	}

	return value
}

// projectValue passes a projected value through the `init(projectedValue:)`
// of the outermost wrapper of a parameter.  Projections never compose: only
// the outermost wrapper is constructed.
func (d *desugarer) projectValue(param *Param, value ast.Expr, bindings map[string]types.Type, span *report.TextSpan) ast.Expr {
	if param.Decl.Wrappers.HasArgs() {
		d.error(
			report.KindProjectionDisabled,
			span,
			"projection disabled by attribute arguments: cannot pass a projected value for `%s` because its wrapper attribute has arguments",
			param.Decl.Name,
		)
	}

	init := d.selectProjectionInit(param, span)

	if bindings == nil {
		bindings = make(map[string]types.Type)
	}

	projType, _ := param.Chain.ProjectionType()
	d.bindArgType(value, projType, bindings, span)

	return &ast.InitCall{
		ExprBase: ast.NewExprBase(param.Chain.Substitute(bindings).BackingType(), span),
		Wrapper:  param.Chain.Outermost().Name,
		Init:     init,
		Value:    value,
	}
}

// checkArgType checks that an argument can be passed where a value of the
// expected type is required.
func (d *desugarer) checkArgType(value ast.Expr, expected types.Type, span *report.TextSpan) {
	if typ := typeInContext(value, expected); !types.Equals(typ, expected) {
		d.error(
			report.KindArgument,
			span,
			"cannot convert value of type `%s` to expected argument type `%s`",
			typ.Repr(),
			expected.Repr(),
		)
	}
}

// bindArgType checks that an argument can be passed where a value of the
// expected type is required.  If the expected type mentions generic
// parameters, they are bound from the argument's static type and must satisfy
// their constraints.  Arguments typed by their context cannot bind generic
// parameters.
func (d *desugarer) bindArgType(value ast.Expr, expected types.Type, bindings map[string]types.Type, span *report.TextSpan) {
	if types.IsConcrete(expected) {
		d.checkArgType(value, expected, span)
		return
	}

	typ := value.Type()
	if typ == nil {
		d.error(
			report.KindArgument,
			span,
			"cannot infer generic parameters of `%s` from `%s`: argument has no type of its own",
			expected.Repr(),
			value.Repr(),
		)
	}

	if !types.Bind(types.Substitute(expected, bindings), typ, bindings) {
		d.error(
			report.KindArgument,
			span,
			"cannot convert value of type `%s` to expected argument type `%s`",
			typ.Repr(),
			types.Substitute(expected, bindings).Repr(),
		)
	}

	for _, tp := range collectTypeParams(expected, nil) {
		for _, constraint := range tp.Constraints {
			if bound := bindings[tp.Name]; !types.Conforms(bound, constraint) {
				d.error(
					report.KindArgument,
					span,
					"generic parameter `%s` requires `%s` to conform to `%s`",
					tp.Name,
					bound.Repr(),
					constraint,
				)
			}
		}
	}
}

// describeLabel describes an argument label for an error message.
func describeLabel(label string) string {
	if label == "" {
		return "no label"
	}

	return "`" + label + ":`"
}
