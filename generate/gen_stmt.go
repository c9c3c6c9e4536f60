package generate

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
	"wrapc/util"
)

// genStmt generates a statement of a body.
func (g *Generator) genStmt(stmt ast.Stmt) {
	switch v := stmt.(type) {
	case *ast.ExprStmt:
		g.genExpr(v.Expr, nil)
	case *ast.Assign:
		g.genAssign(v)
	default:
		report.ReportICE("unable to lower statement `%s`", stmt.Repr())
	}
}

// genAssign generates an assignment.  Assignments to wrapped parameters go
// through their setters.  Names that are not locals are external globals.
func (g *Generator) genAssign(assign *ast.Assign) {
	if strings.HasPrefix(assign.Target, "$") {
		if l, ok := g.lookupLocal(assign.Target[1:]); ok && l.param != nil && l.param.Projected != nil {
			g.genProjectedSet(l, g.genExpr(assign.Value, l.param.Projected.Type))
			return
		}
	} else if l, ok := g.lookupLocal(assign.Target); ok && l.param != nil && l.param.IsWrapped() {
		g.genWrappedSet(l, g.genExpr(assign.Value, l.param.Wrapped.Type))
		return
	}

	val := g.genExpr(assign.Value, nil)
	glob := g.global(assign.Target, val.Type())
	g.block.NewStore(val, glob)
}

// genReturn terminates the current block.  Functions with a result return the
// given value or the zero value of their result type if there is none.
func (g *Generator) genReturn(typ types.Type, val value.Value) {
	if types.IsVoid(typ) {
		g.block.NewRet(nil)
		return
	}

	if val == nil {
		val = constant.NewZeroInitializer(g.convType(typ))
	}

	g.block.NewRet(val)
}

// -----------------------------------------------------------------------------

// genWrappedGet reads the wrapped value of a parameter: one getter call per
// wrapper of its chain, outermost first.
func (g *Generator) genWrappedGet(l *local) value.Value {
	chain := l.param.Chain

	val := l.val
	for k := 0; k < chain.Len(); k++ {
		val = g.genGetter(chain.LayerType(k), "wrappedValue", chain.Wrapped[k], val)
	}

	return val
}

// genWrappedSet writes the wrapped value of a parameter: the getters reach
// through the chain to the innermost wrapper whose setter is called.
func (g *Generator) genWrappedSet(l *local, newValue value.Value) {
	chain := l.param.Chain
	n := chain.Len()

	val := l.val
	for k := 0; k < n-1; k++ {
		val = g.genGetter(chain.LayerType(k), "wrappedValue", chain.Wrapped[k], val)
	}

	g.genSetter(chain.LayerType(n-1), "wrappedValue", val, newValue)
}

// genProjectedGet reads the projected value of the outermost wrapper.
func (g *Generator) genProjectedGet(l *local) value.Value {
	return g.genGetter(l.param.Chain.BackingType(), "projectedValue", l.param.Projected.Type, l.val)
}

// genProjectedSet writes the projected value of the outermost wrapper.
func (g *Generator) genProjectedSet(l *local, newValue value.Value) {
	g.genSetter(l.param.Chain.BackingType(), "projectedValue", l.val, newValue)
}

// genGetter generates a call to the getter of a wrapper property: eg.
// `Logged<Int>.wrappedValue.get`.
func (g *Generator) genGetter(wrapper types.Type, prop string, propType types.Type, self value.Value) value.Value {
	getter := g.externFunc(
		fmt.Sprintf("%s.%s.get", wrapper.Repr(), prop),
		g.convType(propType),
		self.Type(),
	)

	return g.block.NewCall(getter, self)
}

// genSetter generates a call to the setter of a wrapper property.
func (g *Generator) genSetter(wrapper types.Type, prop string, self, newValue value.Value) {
	setter := g.externFunc(
		fmt.Sprintf("%s.%s.set", wrapper.Repr(), prop),
		lltypes.Void,
		self.Type(),
		newValue.Type(),
	)

	g.block.NewCall(setter, self, newValue)
}

// -----------------------------------------------------------------------------

// externFunc returns the external function with the given name declaring it
// on first use.
func (g *Generator) externFunc(name string, ret lltypes.Type, params ...lltypes.Type) *ir.Func {
	if llFunc, ok := g.externs[name]; ok {
		return llFunc
	}

	llFunc := g.mod.NewFunc(name, ret, util.Map(params, func(typ lltypes.Type) *ir.Param {
		return ir.NewParam("", typ)
	})...)
	llFunc.Linkage = enum.LinkageExternal
	llFunc.FuncAttrs = append(llFunc.FuncAttrs, enum.FuncAttrNoUnwind)

	g.externs[name] = llFunc
	return llFunc
}

// global returns the external global with the given name declaring it on
// first use.
func (g *Generator) global(name string, typ lltypes.Type) *ir.Global {
	if glob, ok := g.globals[name]; ok {
		return glob
	}

	glob := g.mod.NewGlobal(name, typ)
	glob.ExternallyInitialized = true
	glob.Linkage = enum.LinkageExternal

	g.globals[name] = glob
	return glob
}

// anonName returns a fresh name for a synthesized function.
func (g *Generator) anonName(prefix string) string {
	name := fmt.Sprintf("%s.%d", prefix, g.anonCounter)
	g.anonCounter++
	return name
}
