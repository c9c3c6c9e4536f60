package desugar

import (
	"strings"

	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

// candidate is a constructor that can be applied to a given set of arguments.
type candidate struct {
	init  *ast.InitDef
	extra []*ast.Arg

	// How specific the constructor is: the number of constraints it checks
	// plus one if its first parameter has a concrete type.
	score int
}

// selectWrappedInit selects the `init(wrappedValue:)` of a wrapper to apply to
// a value with the given static type.  The wrapped type is the type the
// wrapper wraps at this depth of the chain.  The attribute arguments are
// passed after the value.
func (d *desugarer) selectWrappedInit(wd *ast.WrapperDef, value ast.Expr, wrapped types.Type, attrArgs []*ast.Arg, span *report.TextSpan) (*ast.InitDef, []*ast.Arg) {
	inits := wd.InitsLabeled(ast.WrappedValueLabel)
	if len(inits) == 0 {
		d.error(report.KindOverload, span, "property wrapper `%s` has no `init(wrappedValue:)`", wd.Name)
	}

	valueType := typeInContext(value, wrapped)

	var best []*candidate
	for _, init := range inits {
		cand, ok := d.matchInit(wd, init, valueType, wrapped, attrArgs)
		if !ok {
			continue
		}

		if len(best) == 0 || cand.score > best[0].score {
			best = []*candidate{cand}
		} else if cand.score == best[0].score {
			best = append(best, cand)
		}
	}

	switch len(best) {
	case 0:
		d.error(
			report.KindOverload,
			span,
			"no `init(wrappedValue:)` of `%s` accepts a value of type `%s`%s",
			wd.Name,
			valueType.Repr(),
			describeArgs(attrArgs),
		)
	case 1:
		return best[0].init, best[0].extra
	}

	sigs := make([]string, len(best))
	for i, cand := range best {
		sigs[i] = cand.init.Signature()
	}

	d.error(
		report.KindOverload,
		span,
		"ambiguous use of `init(wrappedValue:)` of `%s` for a value of type `%s`: candidates are %s",
		wd.Name,
		valueType.Repr(),
		strings.Join(sigs, ", "),
	)
	return nil, nil
}

// matchInit attempts to apply a constructor to a value of the given static
// type followed by the attribute arguments.
func (d *desugarer) matchInit(wd *ast.WrapperDef, init *ast.InitDef, valueType, wrapped types.Type, attrArgs []*ast.Arg) (*candidate, bool) {
	if init.Failable || len(init.Params) == 0 {
		return nil, false
	}

	// Bind the type parameters from the static type of the value.
	bindings := make(map[string]types.Type)
	first := init.Params[0].Type
	if !types.Bind(first, valueType, bindings) {
		return nil, false
	}

	// The wrapper's own type parameter must come out as the wrapped type: if
	// the constructor does not mention it, it is fixed by the wrapped type.
	if bound, ok := bindings[wd.TypeParam.Name]; ok {
		if !types.Equals(bound, wrapped) {
			return nil, false
		}
	} else {
		bindings[wd.TypeParam.Name] = wrapped
	}

	score := 0
	if types.IsConcrete(first) {
		score++
	}

	// Check the constructor's constraints and those of any of its own type
	// parameters.
	for _, constraint := range init.Where {
		if !types.Conforms(wrapped, constraint) {
			return nil, false
		}

		score++
	}

	for _, tp := range collectTypeParams(first, nil) {
		if tp.Name == wd.TypeParam.Name {
			continue
		}

		for _, constraint := range tp.Constraints {
			if !types.Conforms(bindings[tp.Name], constraint) {
				return nil, false
			}

			score++
		}
	}

	// Match the attribute arguments to the remaining parameters in order: the
	// labels must be the ones the parameters declare.  All the parameters left
	// over must have default values.
	rest := init.Params[1:]
	if len(attrArgs) > len(rest) {
		return nil, false
	}

	for i, arg := range attrArgs {
		label := arg.Label
		if label == "" {
			label = "_"
		}

		if label != rest[i].Label {
			return nil, false
		}

		paramType := types.Substitute(rest[i].Type, bindings)
		if argType := arg.Value.Type(); argType != nil && types.IsConcrete(paramType) && !types.Equals(argType, paramType) {
			return nil, false
		}
	}

	for _, param := range rest[len(attrArgs):] {
		if !param.HasDefault {
			return nil, false
		}
	}

	return &candidate{init: init, extra: attrArgs, score: score}, true
}

// selectProjectionInit selects the `init(projectedValue:)` of the outermost
// wrapper of a chain.  The constructor must take exactly one required argument
// labeled `projectedValue` of the projection type, must not be failable, and
// must be at least as visible as the wrapper.
func (d *desugarer) selectProjectionInit(param *Param, span *report.TextSpan) *ast.InitDef {
	wd := param.Chain.Outermost()
	if wd.ProjectedValue == nil {
		d.error(
			report.KindProjection,
			span,
			"cannot pass a projected value for `%s`: property wrapper `%s` has no `projectedValue`",
			param.Decl.Name,
			wd.Name,
		)
	}

	for _, init := range wd.InitsLabeled(ast.ProjectedValueLabel) {
		if init.Failable || init.Access < wd.Access {
			continue
		}

		// the projected value itself is a required argument
		if init.Params[0].HasDefault || !types.Equals(init.Params[0].Type, wd.ProjectedValue.Type) {
			continue
		}

		defaulted := true
		for _, param := range init.Params[1:] {
			if !param.HasDefault {
				defaulted = false
				break
			}
		}

		if defaulted {
			return init
		}
	}

	d.error(
		report.KindProjection,
		span,
		"cannot pass a projected value for `%s`: property wrapper `%s` has no usable `init(projectedValue:)`",
		param.Decl.Name,
		wd.Name,
	)
	return nil
}

// -----------------------------------------------------------------------------

// typeInContext returns the static type of an expression, falling back on the
// type expected by its context for expressions that take their type from
// context: eg. implicit members and empty list literals.
func typeInContext(expr ast.Expr, expected types.Type) types.Type {
	if typ := expr.Type(); typ != nil {
		return typ
	}

	return expected
}

// collectTypeParams returns the distinct type parameters mentioned in a type.
func collectTypeParams(typ types.Type, tps []*types.TypeParam) []*types.TypeParam {
	switch v := typ.(type) {
	case *types.TypeParam:
		for _, tp := range tps {
			if tp.Name == v.Name {
				return tps
			}
		}

		return append(tps, v)
	case *types.ListType:
		return collectTypeParams(v.ElemType, tps)
	case *types.GenericInstance:
		for _, arg := range v.Args {
			tps = collectTypeParams(arg, tps)
		}
	case *types.FuncType:
		for _, param := range v.ParamTypes {
			tps = collectTypeParams(param, tps)
		}

		tps = collectTypeParams(v.ReturnType, tps)
	}

	return tps
}

// describeArgs describes attribute arguments for an overload error.
func describeArgs(args []*ast.Arg) string {
	if len(args) == 0 {
		return ""
	}

	reprs := make([]string, len(args))
	for i, arg := range args {
		reprs[i] = arg.Repr()
	}

	return " and the attribute arguments (" + strings.Join(reprs, ", ") + ")"
}
