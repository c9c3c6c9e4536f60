package desugar

import (
	"strings"

	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

// BackingInit is the initialization of a closure's backing parameter from the
// argument the closure was called with.
type BackingInit struct {
	Name  string
	Value ast.Expr
}

// Closure is a desugared closure expression.  Unlike a function, a closure
// constructs its own wrappers: it takes the wrapped (or projected) values as
// arguments and initializes the backing parameters at the top of its body.
type Closure struct {
	ast.ExprBase

	Def *ast.Closure

	// The externally visible parameters of the closure.
	External []*ast.ThunkParam

	Params []*Param
	Inits  []*BackingInit
	Body   []ast.Stmt
}

func (c *Closure) Repr() string {
	sb := strings.Builder{}
	writeClosure(&sb, c, "")
	return sb.String()
}

// desugarClosure desugars a closure expression.
func (d *desugarer) desugarClosure(c *ast.Closure) *Closure {
	result := &Closure{Def: c}
	funcType := &types.FuncType{ReturnType: c.ReturnType}

	d.pushScope()
	defer d.popScope()

	for _, decl := range c.Params {
		projected := strings.HasPrefix(decl.Name, "$")
		if projected {
			decl = d.inferProjectedParam(decl)
		}

		param := d.desugarParam(decl)
		d.defineLocal(param)

		ext := &ast.ThunkParam{Name: decl.Name, Type: decl.Type}
		if param.IsWrapped() {
			var init ast.Expr
			if projected {
				ext.Name = "$" + decl.Name
				ext.Type, _ = param.Chain.ProjectionType()

				arg := &ast.Identifier{ExprBase: ast.NewExprBase(ext.Type, decl.Span()), Name: ext.Name}
				init = d.projectValue(param, arg, nil, decl.Span())
			} else {
				arg := &ast.Identifier{ExprBase: ast.NewExprBase(ext.Type, decl.Span()), Name: ext.Name}
				init = d.wrapValue(param, arg, nil, decl.Span())
			}

			result.Inits = append(result.Inits, &BackingInit{Name: param.Backing.Name, Value: init})
		}

		result.External = append(result.External, ext)
		result.Params = append(result.Params, param)
		funcType.ParamTypes = append(funcType.ParamTypes, ext.Type)
	}

	result.Body = d.rewriteBody(c.Body)
	result.ExprBase = ast.NewExprBase(funcType, c.Span())
	return result
}

// inferProjectedParam converts a closure parameter spelled `$name` into the
// wrapped parameter `name`.  The parameter's declared type is the projected
// value type.  Without a wrapper attribute, the wrapper is inferred as the
// unique wrapper projecting that type: inference never produces more than one
// wrapper, so compositions must be written out.
func (d *desugarer) inferProjectedParam(decl *ast.ParamDecl) *ast.ParamDecl {
	attr := decl.Wrappers
	if !decl.IsWrapped() {
		cands := d.p.res.WrappersProjecting(decl.Type)

		switch len(cands) {
		case 0:
			d.error(
				report.KindClosure,
				decl.Span(),
				"cannot infer a property wrapper for closure parameter `%s`: no wrapper projects a value of type `%s`",
				decl.Name,
				decl.Type.Repr(),
			)
		case 1:
			attr = &ast.WrapperAttr{Wrappers: []*ast.WrapperRef{{
				ASTBase: ast.NewASTBaseOn(decl.Span()),
				Name:    cands[0].Name,
			}}}
		default:
			names := make([]string, len(cands))
			for i, wd := range cands {
				names[i] = "`" + wd.Name + "`"
			}

			d.error(
				report.KindClosure,
				decl.Span(),
				"ambiguous property wrapper for closure parameter `%s`: %s all project `%s`; write the wrapper attribute explicitly",
				decl.Name,
				strings.Join(names, ", "),
				decl.Type.Repr(),
			)
		}
	}

	// Recover the wrapped type by matching the projection of the outermost
	// wrapper and then peeling off the inner wrappers.
	outerRef := attr.Wrappers[0]
	outer, err := d.p.res.ResolveWrapper(outerRef.Name, outerRef.Span())
	if err != nil {
		d.raise(err, outerRef.Span())
	}

	if outer.ProjectedValue == nil {
		d.error(
			report.KindProjection,
			decl.Span(),
			"closure parameter `%s` requires a projected value but property wrapper `%s` has no `projectedValue`",
			decl.Name,
			outer.Name,
		)
	}

	bindings := make(map[string]types.Type)
	if !types.Bind(outer.ProjectedValue.Type, decl.Type, bindings) {
		d.error(
			report.KindClosure,
			decl.Span(),
			"type `%s` of closure parameter `%s` is not a projected value of `%s`",
			decl.Type.Repr(),
			decl.Name,
			outer.Name,
		)
	}

	wrapped, ok := bindings[outer.TypeParam.Name]
	if !ok {
		d.error(
			report.KindClosure,
			decl.Span(),
			"cannot infer the wrapped type of closure parameter `%s` from `%s`",
			decl.Name,
			decl.Type.Repr(),
		)
	}

	for _, ref := range attr.Wrappers[1:] {
		gi, ok := wrapped.(*types.GenericInstance)
		if !ok || gi.Name != ref.Name || len(gi.Args) != 1 {
			d.error(
				report.KindClosure,
				decl.Span(),
				"cannot infer the wrapped type of closure parameter `%s`: `%s` is not wrapped by `%s`",
				decl.Name,
				wrapped.Repr(),
				ref.Name,
			)
		}

		wrapped = gi.Args[0]
	}

	return &ast.ParamDecl{
		ASTBase:       ast.NewASTBaseOn(decl.Span()),
		Label:         decl.Label,
		Name:          decl.Name[1:],
		Type:          wrapped,
		Wrappers:      attr,
		Autoclosure:   decl.Autoclosure,
		ResultBuilder: decl.ResultBuilder,
	}
}
