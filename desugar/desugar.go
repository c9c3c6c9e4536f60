// Package desugar implements the parameter-wrapper desugaring pass.  The pass
// rewrites functions and closures whose parameters carry wrapper attributes
// into functions taking wrapper-typed backing parameters, synthesizes the
// local accessors that expose the wrapped and projected values to the body,
// and rewrites every call site and unapplied reference so that arguments are
// passed through the wrappers' constructors.
//
// The pass is pure: it never mutates the declarations or expressions it is
// given, and the same input always yields the same output.  Independent
// declarations may therefore be desugared concurrently.
package desugar

import (
	"sync"

	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

// Resolver supplies the resolved declarations the pass queries.  Errors it
// returns are surfaced verbatim as diagnostics.
type Resolver interface {
	// ResolveWrapper returns the wrapper type with the given name.
	ResolveWrapper(name string, span *report.TextSpan) (*ast.WrapperDef, error)

	// ResolveFunc returns the function with the given name.
	ResolveFunc(name string, span *report.TextSpan) (*ast.FuncDef, error)

	// WrappersProjecting returns the wrappers whose projected value matches
	// the given type.
	WrappersProjecting(typ types.Type) []*ast.WrapperDef
}

// Pass holds the state shared by all the declarations of a unit: the resolver
// and the table of successfully desugared function signatures that call sites
// are rewritten against.
type Pass struct {
	res Resolver

	m     *sync.RWMutex
	funcs map[string]*Func
}

// NewPass creates a new desugaring pass over the given resolver.
func NewPass(res Resolver) *Pass {
	return &Pass{
		res:   res,
		m:     &sync.RWMutex{},
		funcs: make(map[string]*Func),
	}
}

// Define registers a desugared function signature so that calls to it can be
// rewritten.  Functions that failed to desugar are never defined: calls to
// them are left alone since the declaration has already been reported.
func (p *Pass) Define(fn *Func) {
	p.m.Lock()
	defer p.m.Unlock()

	p.funcs[fn.Def.Name] = fn
}

// lookup returns the desugared function with the given name.
func (p *Pass) lookup(name string) (*Func, bool) {
	p.m.RLock()
	defer p.m.RUnlock()

	fn, ok := p.funcs[name]
	return fn, ok
}

// -----------------------------------------------------------------------------

// desugarer holds the state of desugaring a single declaration or expression.
type desugarer struct {
	p *Pass

	// The stack of local scopes of the body being desugared.
	scopes []map[string]*Param

	// The recoverable errors that have been reported.
	diags []*report.CompileError
}

// newDesugarer creates a desugarer for one declaration or expression.
func (p *Pass) newDesugarer() *desugarer {
	return &desugarer{p: p}
}

// errInvalidCallee is raised when an expression references a function whose
// declaration failed to desugar.  The expression is abandoned without another
// diagnostic.
type errInvalidCallee struct{}

func (errInvalidCallee) Error() string {
	return "callee declaration is invalid"
}

// catch runs f and records any compile error it raises.  It returns whether f
// completed without raising.  All other panics propagate.
func (d *desugarer) catch(f func()) (ok bool) {
	defer func() {
		if x := recover(); x != nil {
			ok = false

			switch v := x.(type) {
			case *report.CompileError:
				d.diags = append(d.diags, v)
			case errInvalidCallee:
			default:
				panic(x)
			}
		}
	}()

	f()
	return true
}

// error reports an error on the given span that aborts the current
// declaration or call.
func (d *desugarer) error(kind int, span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(kind, span, msg, args...))
}

// recError reports a recoverable error on the given span.
func (d *desugarer) recError(kind int, span *report.TextSpan, msg string, args ...interface{}) {
	d.diags = append(d.diags, report.Raise(kind, span, msg, args...))
}

// raise re-raises an error returned by the resolver.  Compile errors are raised
// as is: other errors are wrapped as resolution errors on the given span.
func (d *desugarer) raise(err error, span *report.TextSpan) {
	if cerr, ok := err.(*report.CompileError); ok {
		panic(cerr)
	}

	d.error(report.KindResolution, span, "%s", err)
}

// -----------------------------------------------------------------------------

// pushScope pushes a new local scope onto the scope stack.
func (d *desugarer) pushScope() {
	d.scopes = append(d.scopes, make(map[string]*Param))
}

// popScope removes the top local scope from the scope stack.
func (d *desugarer) popScope() {
	d.scopes = d.scopes[:len(d.scopes)-1]
}

// defineLocal binds a parameter in the current local scope.
func (d *desugarer) defineLocal(param *Param) {
	currScope := d.scopes[len(d.scopes)-1]

	if _, ok := currScope[param.Decl.Name]; ok {
		d.error(report.KindDefinition, param.Decl.Span(), "multiple parameters named `%s`", param.Decl.Name)
	}

	currScope[param.Decl.Name] = param
}

// lookupLocal looks up a parameter by name in all visible scopes.
func (d *desugarer) lookupLocal(name string) (*Param, bool) {
	for i := len(d.scopes) - 1; i > -1; i-- {
		if param, ok := d.scopes[i][name]; ok {
			return param, true
		}
	}

	return nil, false
}
