package depm

import (
	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

// ResolveWrapper looks up the wrapper type with the given name and checks that
// it is usable as a wrapper: ie. it has a `wrappedValue` property.  The span is
// the span of the reference for error reporting.
func (u *Unit) ResolveWrapper(name string, span *report.TextSpan) (*ast.WrapperDef, error) {
	sym, ok := u.Table.Lookup(name)
	if !ok {
		return nil, report.Raise(report.KindResolution, span, "unknown property wrapper `%s`", name)
	}

	if sym.DefKind != DefKindWrapper {
		return nil, report.Raise(report.KindResolution, span, "%s `%s` is not a property wrapper", defKindNames[sym.DefKind], name)
	}

	if sym.Wrapper.WrappedValue == nil {
		return nil, report.Raise(
			report.KindResolution,
			span,
			"property wrapper `%s` does not declare a `wrappedValue` property",
			name,
		)
	}

	return sym.Wrapper, nil
}

// ResolveFunc looks up the function with the given name.
func (u *Unit) ResolveFunc(name string, span *report.TextSpan) (*ast.FuncDef, error) {
	sym, ok := u.Table.Lookup(name)
	if !ok {
		return nil, report.Raise(report.KindResolution, span, "undefined function `%s`", name)
	}

	if sym.DefKind != DefKindFunc {
		return nil, report.Raise(report.KindResolution, span, "%s `%s` is not a function", defKindNames[sym.DefKind], name)
	}

	return sym.Func, nil
}

// ResolveType looks up a nominal type declared by the unit.
func (u *Unit) ResolveType(name string) (types.Type, bool) {
	if sym, ok := u.Table.Lookup(name); ok && sym.DefKind == DefKindType {
		return sym.Type, true
	}

	return nil, false
}

// WrappersProjecting returns all the wrappers whose projected value has the
// same outermost type as the given type, sorted by name.  It is used to infer
// the wrapper of closure parameters spelled with a `$` prefix.
func (u *Unit) WrappersProjecting(typ types.Type) []*ast.WrapperDef {
	var wrappers []*ast.WrapperDef
	for _, sym := range u.Table.SymbolsOfKind(DefKindWrapper) {
		wd := sym.Wrapper
		// A projection that is just the wrapped value says nothing about which
		// wrapper produced it.
		if wd.ProjectedValue == nil {
			continue
		} else if _, ok := wd.ProjectedValue.Type.(*types.TypeParam); ok {
			continue
		}

		if types.Bind(wd.ProjectedValue.Type, typ, make(map[string]types.Type)) {
			wrappers = append(wrappers, wd)
		}
	}

	return wrappers
}
