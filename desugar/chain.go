package desugar

import (
	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

// Chain is a resolved wrapper attribute: the wrapper references of a parameter
// paired with their definitions, outermost first.
type Chain struct {
	Refs []*ast.WrapperRef
	Defs []*ast.WrapperDef

	// The wrapped value type of each layer: Wrapped[k] is the type wrapped by
	// the wrapper at depth k+1.  The innermost entry is the declared type of
	// the parameter.
	Wrapped []types.Type
}

// Len returns the number of wrappers in the chain.
func (c *Chain) Len() int {
	return len(c.Defs)
}

// Outermost returns the outermost wrapper definition.
func (c *Chain) Outermost() *ast.WrapperDef {
	return c.Defs[0]
}

// LayerType returns the type of the wrapper at the given zero-based depth.
func (c *Chain) LayerType(k int) types.Type {
	return c.Defs[k].Instantiate(c.Wrapped[k])
}

// BackingType returns the fully composed wrapper type: W1<W2<...WN<T>...>>.
func (c *Chain) BackingType() types.Type {
	return c.LayerType(0)
}

// ProjectionType returns the type of the outermost wrapper's projected value.
// The boolean is false if the outermost wrapper has no projected value.
func (c *Chain) ProjectionType() (types.Type, bool) {
	outer := c.Outermost()
	if outer.ProjectedValue == nil {
		return nil, false
	}

	return types.Substitute(outer.ProjectedValue.Type, outer.Bindings(c.Wrapped[0])), true
}

// Substitute returns the chain with the generic parameters of its function
// replaced according to the given bindings.
func (c *Chain) Substitute(bindings map[string]types.Type) *Chain {
	if len(bindings) == 0 {
		return c
	}

	wrapped := make([]types.Type, len(c.Wrapped))
	for i, typ := range c.Wrapped {
		wrapped[i] = types.Substitute(typ, bindings)
	}

	return &Chain{Refs: c.Refs, Defs: c.Defs, Wrapped: wrapped}
}

// Names returns the names of the wrappers in the chain, outermost first.
func (c *Chain) Names() []string {
	names := make([]string, len(c.Defs))
	for i, wd := range c.Defs {
		names[i] = wd.Name
	}

	return names
}

// resolveChain resolves the wrapper attribute of a parameter whose wrapped
// value has the given type.  The types are composed innermost-out: each
// wrapper wraps the instance of the wrapper nested inside it.
func (d *desugarer) resolveChain(attr *ast.WrapperAttr, wrapped types.Type) *Chain {
	n := len(attr.Wrappers)
	chain := &Chain{
		Refs:    attr.Wrappers,
		Defs:    make([]*ast.WrapperDef, n),
		Wrapped: make([]types.Type, n),
	}

	for k := n - 1; k >= 0; k-- {
		ref := attr.Wrappers[k]

		wd, err := d.p.res.ResolveWrapper(ref.Name, ref.Span())
		if err != nil {
			d.raise(err, ref.Span())
		}

		// The wrapper's `wrappedValue` must have the type it wraps: the
		// wrapper's own type parameter in the usual case.
		valueType := types.Substitute(wd.WrappedValue.Type, wd.Bindings(wrapped))
		if !types.Equals(valueType, wrapped) {
			d.error(
				report.KindResolution,
				ref.Span(),
				"property wrapper `%s` cannot wrap a value of type `%s`: its `wrappedValue` has type `%s`",
				wd.Name,
				wrapped.Repr(),
				valueType.Repr(),
			)
		}

		for _, constraint := range wd.TypeParam.Constraints {
			if !types.Conforms(wrapped, constraint) {
				d.error(
					report.KindResolution,
					ref.Span(),
					"property wrapper `%s` requires `%s` to conform to `%s`",
					wd.Name,
					wrapped.Repr(),
					constraint,
				)
			}
		}

		chain.Defs[k] = wd
		chain.Wrapped[k] = wrapped
		wrapped = wd.Instantiate(wrapped)
	}

	return chain
}
