package desugar

import (
	"strings"

	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
	"wrapc/util"
)

// BackingParam is the parameter that actually appears in the signature of a
// desugared function.  For a wrapped parameter its name is the original name
// prefixed with `_` and its type is the composed wrapper type.  Ordinary
// parameters back themselves.
type BackingParam struct {
	Label string
	Name  string
	Type  types.Type
}

// LocalAccessor is a computed local synthesized at the top of a desugared body
// that exposes a wrapped or projected value under the parameter's name.
type LocalAccessor struct {
	Name string
	Type types.Type

	// The backing parameter the accessor reads through.
	Storage string

	// The chain of members accessed from the storage: eg.
	// `wrappedValue.wrappedValue` for a two-wrapper chain.
	Members []string

	// Whether a non-mutating setter is synthesized.
	HasSetter bool
}

// Path returns the expression the accessor reads and writes.
func (la *LocalAccessor) Path() string {
	return la.Storage + "." + strings.Join(la.Members, ".")
}

// Param is a desugared parameter.
type Param struct {
	Decl *ast.ParamDecl

	Backing *BackingParam

	// The resolved wrapper chain.  This is nil for ordinary parameters.
	Chain *Chain

	// The mutability of accessing the wrapped value through the chain.
	Mutability AccessMutability

	// The synthesized local accessors.  Wrapped is nil for ordinary
	// parameters; Projected is nil if the outermost wrapper does not expose a
	// non-mutating projection.
	Wrapped, Projected *LocalAccessor
}

// IsWrapped returns whether the parameter was declared with wrappers.
func (p *Param) IsWrapped() bool {
	return p.Chain != nil
}

// Func is a desugared function.
type Func struct {
	Def *ast.FuncDef

	Params []*Param

	// The rewritten body.  This is set by DesugarBody.
	Body []ast.Stmt

	// The externally visible type of the function: the declared parameter
	// types, not the backing types.
	Type *types.FuncType
}

// -----------------------------------------------------------------------------

// DesugarSignature desugars the parameters of a function definition and checks
// the declaration-level rules.  The first error halts desugaring of the
// declaration: a nil function is returned along with the error.
func (p *Pass) DesugarSignature(fd *ast.FuncDef) (*Func, []*report.CompileError) {
	d := p.newDesugarer()

	var fn *Func
	d.catch(func() {
		fn = &Func{
			Def:  fd,
			Type: &types.FuncType{ReturnType: fd.ReturnType},
		}

		seen := make(map[string]struct{})
		for _, decl := range fd.Params {
			if _, ok := seen[decl.Name]; ok {
				d.error(report.KindDefinition, decl.Span(), "multiple parameters named `%s` in `%s`", decl.Name, fd.Signature())
			}
			seen[decl.Name] = struct{}{}

			fn.Params = append(fn.Params, d.desugarParam(decl))
			fn.Type.ParamTypes = append(fn.Type.ParamTypes, decl.Type)
		}

		if fd.Overrides != "" {
			d.checkOverride(fd)
		}
	})

	if len(d.diags) > 0 {
		return nil, d.diags
	}

	return fn, nil
}

// desugarParam desugars a single function or closure parameter.
func (d *desugarer) desugarParam(decl *ast.ParamDecl) *Param {
	if !decl.IsWrapped() {
		return &Param{
			Decl:    decl,
			Backing: &BackingParam{Label: decl.Label, Name: decl.Name, Type: decl.Type},
		}
	}

	if decl.Autoclosure {
		d.error(
			report.KindAttribute,
			decl.Span(),
			"parameter `%s` cannot have both a property wrapper and @autoclosure",
			decl.Name,
		)
	}

	if decl.ResultBuilder != "" {
		d.error(
			report.KindAttribute,
			decl.Span(),
			"parameter `%s` cannot have both a property wrapper and the result builder @%s",
			decl.Name,
			decl.ResultBuilder,
		)
	}

	chain := d.resolveChain(decl.Wrappers, decl.Type)

	initializable := util.Filter(chain.Defs, func(wd *ast.WrapperDef) bool {
		return len(wd.InitsLabeled(ast.WrappedValueLabel)) > 0
	})

	if len(initializable) == 0 {
		d.error(
			report.KindInit,
			decl.Span(),
			"none of the property wrappers applied to `%s` declare an `init(wrappedValue:)`",
			decl.Name,
		)
	}

	am := ComposeMutability(chain.Defs)
	switch am.Get {
	case ast.Mutating:
		d.error(
			report.KindMutability,
			decl.Span(),
			"wrapped parameter `%s` requires mutating access on immutable binding: the getter of `%s` is mutating",
			decl.Name,
			strings.Join(chain.Names(), "."),
		)
	case ast.Unavailable:
		d.error(
			report.KindMutability,
			decl.Span(),
			"wrapped parameter `%s` requires mutating access on immutable binding: reading through `%s` needs a setter that does not exist",
			decl.Name,
			strings.Join(chain.Names(), "."),
		)
	}

	backingName := "_" + decl.Name
	param := &Param{
		Decl:       decl,
		Backing:    &BackingParam{Label: decl.Label, Name: backingName, Type: chain.BackingType()},
		Chain:      chain,
		Mutability: am,
	}

	members := make([]string, chain.Len())
	for i := range members {
		members[i] = ast.WrappedValueLabel
	}

	param.Wrapped = &LocalAccessor{
		Name:      decl.Name,
		Type:      decl.Type,
		Storage:   backingName,
		Members:   members,
		HasSetter: am.Set == ast.Nonmutating,
	}

	if projType, ok := chain.ProjectionType(); ok {
		proj := chain.Outermost().ProjectedValue
		if proj.Get == ast.Nonmutating {
			param.Projected = &LocalAccessor{
				Name:      "$" + decl.Name,
				Type:      projType,
				Storage:   backingName,
				Members:   []string{ast.ProjectedValueLabel},
				HasSetter: proj.Set == ast.Nonmutating,
			}
		}
	}

	return param
}

// checkOverride checks that the wrapper attributes of a function's parameters
// match those of the declaration it overrides or witnesses.
func (d *desugarer) checkOverride(fd *ast.FuncDef) {
	base, err := d.p.res.ResolveFunc(fd.Overrides, fd.Span())
	if err != nil {
		d.raise(err, fd.Span())
	}

	if len(base.Params) != len(fd.Params) {
		d.error(
			report.KindOverride,
			fd.Span(),
			"`%s` does not match the parameters of the overridden declaration `%s`",
			fd.Signature(),
			base.Signature(),
		)
	}

	for i, decl := range fd.Params {
		got, want := wrapperNames(decl), wrapperNames(base.Params[i])
		if got != want {
			d.error(
				report.KindOverride,
				decl.Span(),
				"property wrappers of parameter `%s` (%s) do not match those of the overridden declaration `%s` (%s)",
				decl.Name,
				got,
				base.Signature(),
				want,
			)
		}
	}
}

// wrapperNames returns the wrapper attribute of a parameter as written: eg.
// `@Logged @Clamped`.  Unwrapped parameters give `no wrappers`.
func wrapperNames(decl *ast.ParamDecl) string {
	if !decl.IsWrapped() {
		return "no wrappers"
	}

	return "@" + strings.Join(decl.Wrappers.Names(), " @")
}
