package desugar

import (
	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

// rewriteFuncRef rewrites an unapplied reference to a function.  A reference
// to a function without wrapped parameters is left as is.  Otherwise, a thunk
// is synthesized that takes the wrapped values (or the projected values, for
// labels written with `$`) and forwards them through the wrappers'
// constructors to the function.
func (d *desugarer) rewriteFuncRef(ref *ast.FuncRef) ast.Expr {
	fn := d.lookupCallee(ref.Name, ref.Span())

	if len(ref.Labels) != len(fn.Params) {
		d.error(
			report.KindArgument,
			ref.Span(),
			"`%s` does not name a function: `%s` takes %d arguments",
			ref.Repr(),
			fn.Def.Signature(),
			len(fn.Params),
		)
	}

	anyWrapped := false
	for _, param := range fn.Params {
		if param.IsWrapped() {
			anyWrapped = true
			break
		}
	}

	thunk := &ast.Thunk{
		Body: &ast.Call{
			ExprBase: ast.NewExprBase(fn.Def.ReturnType, ref.Span()),
			Callee:   fn.Def.Name,
		},
	}
	funcType := &types.FuncType{ReturnType: fn.Def.ReturnType}

	for i, param := range fn.Params {
		label := ref.Labels[i]

		var paramName string
		var paramType types.Type
		var value ast.Expr

		switch {
		case label == param.Decl.ExternalLabel():
			paramName, paramType = param.Decl.Name, param.Decl.Type
			value = &ast.Identifier{ExprBase: ast.NewExprBase(paramType, ref.Span()), Name: paramName}

			if param.IsWrapped() {
				value = d.wrapValue(param, value, nil, ref.Span())
			}
		case param.IsWrapped() && label == param.Decl.ProjectionLabel():
			paramName = "$" + param.Decl.Name
			paramType, _ = param.Chain.ProjectionType()
			if paramType == nil {
				// Let projectValue report the missing projection.
				paramType = param.Decl.Type
			}

			value = &ast.Identifier{ExprBase: ast.NewExprBase(paramType, ref.Span()), Name: paramName}
			value = d.projectValue(param, value, nil, ref.Span())
		default:
			d.error(
				report.KindArgument,
				ref.Span(),
				"`%s` does not name a function: expected %s for parameter `%s` of `%s`",
				ref.Repr(),
				describeLabel(param.Decl.ExternalLabel()),
				param.Decl.Name,
				fn.Def.Signature(),
			)
		}

		thunk.Params = append(thunk.Params, &ast.ThunkParam{Name: paramName, Type: paramType})
		thunk.Body.Args = append(thunk.Body.Args, &ast.Arg{
			ASTBase: ast.NewASTBaseOn(ref.Span()),
			Label:   param.Decl.ExternalLabel(),
			Value:   value,
		})
		funcType.ParamTypes = append(funcType.ParamTypes, paramType)
	}

	if !anyWrapped {
		return &ast.FuncRef{
			ExprBase: ast.NewExprBase(funcType, ref.Span()),
			Name:     ref.Name,
			Labels:   ref.Labels,
		}
	}

	thunk.ExprBase = ast.NewExprBase(funcType, ref.Span())
	return thunk
}
