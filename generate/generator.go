// Package generate lowers a desugared unit to LLVM IR.  Wrapper instances are
// lowered to opaque struct types, wrapper constructors and accessors to
// external functions, and desugared functions to definitions over their
// backing parameters.  Each top level expression becomes a function that
// evaluates it.
package generate

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"wrapc/ast"
	"wrapc/desugar"
	"wrapc/util"
)

// local is a value visible by name inside a generated function.
type local struct {
	// The LLVM value: the backing parameter for wrapped parameters.
	val value.Value

	// The desugared parameter the value belongs to.  This is nil for values
	// that are used directly: eg. thunk parameters.
	param *desugar.Param
}

// Generator is responsible for converting a desugared unit into an LLVM
// module.  Generation is assumed to always succeed: the desugared unit has
// already been checked.
type Generator struct {
	// mod is the LLVM module being generated.
	mod *ir.Module

	// typeDefs maps type representations to their LLVM types.
	typeDefs map[string]lltypes.Type

	// funcs maps the names of the desugared functions to their definitions.
	funcs map[string]*desugar.Func

	// llFuncs maps the names of the desugared functions to their LLVM
	// functions.
	llFuncs map[string]*ir.Func

	// externs are the external functions synthesized for wrapper constructors
	// and accessors, implicit members and list literals.
	externs map[string]*ir.Func

	// globals are the external globals synthesized for free identifiers.
	globals map[string]*ir.Global

	// Counters used to name anonymous functions and string constants.
	anonCounter, strCounter int

	// block is the block being generated.
	block *ir.Block

	// localScopes is the stack of local scopes used during generation.
	localScopes []map[string]*local
}

// NewGenerator creates a new generator.
func NewGenerator() *Generator {
	return &Generator{
		mod:      ir.NewModule(),
		typeDefs: make(map[string]lltypes.Type),
		funcs:    make(map[string]*desugar.Func),
		llFuncs:  make(map[string]*ir.Func),
		externs:  make(map[string]*ir.Func),
		globals:  make(map[string]*ir.Global),
	}
}

// Generate generates the LLVM module for the result of desugaring a unit.
func (g *Generator) Generate(result *desugar.Result) *ir.Module {
	// declare all the functions first so that they can be called in any order
	for _, fn := range result.Funcs {
		g.declareFunc(fn)
	}

	for _, fn := range result.Funcs {
		g.genFuncBody(fn)
	}

	for _, cr := range result.Exprs {
		g.genTopLevelExpr(cr.Rewritten)
	}

	return g.mod
}

// declareFunc declares the LLVM function for a desugared function: its
// parameters are the backing parameters.
func (g *Generator) declareFunc(fn *desugar.Func) {
	params := util.Map(fn.Params, func(p *desugar.Param) *ir.Param {
		return ir.NewParam(p.Backing.Name, g.convType(p.Backing.Type))
	})

	llFunc := g.mod.NewFunc(fn.Def.Name, g.convType(fn.Def.ReturnType), params...)
	if fn.Def.Access >= ast.AccessPublic {
		llFunc.Linkage = enum.LinkageExternal
	} else {
		llFunc.Linkage = enum.LinkageInternal
	}

	g.funcs[fn.Def.Name] = fn
	g.llFuncs[fn.Def.Name] = llFunc
}

// genFuncBody generates the body of a desugared function.
func (g *Generator) genFuncBody(fn *desugar.Func) {
	llFunc := g.llFuncs[fn.Def.Name]
	g.block = llFunc.NewBlock("entry")

	g.pushScope()
	defer g.popScope()

	for i, param := range fn.Params {
		g.defineLocal(param.Decl.Name, &local{val: llFunc.Params[i], param: param})
	}

	for _, stmt := range fn.Body {
		g.genStmt(stmt)
	}

	g.genReturn(fn.Def.ReturnType, nil)
}

// genTopLevelExpr generates a function that evaluates a top level expression
// and returns its value.
func (g *Generator) genTopLevelExpr(expr ast.Expr) {
	typ := expr.Type()

	llFunc := g.mod.NewFunc(g.anonName("expr"), g.convType(typ))
	llFunc.Linkage = enum.LinkageExternal
	g.block = llFunc.NewBlock("entry")

	g.pushScope()
	defer g.popScope()

	g.genReturn(typ, g.genExpr(expr, nil))
}

// -----------------------------------------------------------------------------

// pushScope pushes a new local scope onto the scope stack.
func (g *Generator) pushScope() {
	g.localScopes = append(g.localScopes, make(map[string]*local))
}

// popScope pops a local scope off of the local scope stack.
func (g *Generator) popScope() {
	g.localScopes = g.localScopes[:len(g.localScopes)-1]
}

// defineLocal defines a local value.
func (g *Generator) defineLocal(name string, l *local) {
	g.localScopes[len(g.localScopes)-1][name] = l
}

// lookupLocal looks up a local value by name in all visible scopes.
func (g *Generator) lookupLocal(name string) (*local, bool) {
	for i := len(g.localScopes) - 1; i > -1; i-- {
		if l, ok := g.localScopes[i][name]; ok {
			return l, true
		}
	}

	return nil, false
}
