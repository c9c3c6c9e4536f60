package generate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"wrapc/ast"
	"wrapc/desugar"
	"wrapc/report"
	"wrapc/types"
	"wrapc/util"
)

// genExpr generates an expression.  The expected type is used for expressions
// whose type comes from context: it may be nil if the expression is typed.
func (g *Generator) genExpr(expr ast.Expr, expected types.Type) value.Value {
	switch v := expr.(type) {
	case *ast.Literal:
		return g.genLiteral(v, exprType(v, expected))
	case *ast.ListLiteral:
		return g.genListLiteral(v, exprType(v, expected))
	case *ast.Identifier:
		return g.genIdentifier(v, exprType(v, expected))
	case *ast.ImplicitMember:
		return g.genImplicitMember(v, exprType(v, expected))
	case *ast.Call:
		return g.genCall(v)
	case *ast.InitCall:
		return g.genInitCall(v)
	case *ast.FuncRef:
		if llFunc, ok := g.llFuncs[v.Name]; ok {
			return llFunc
		}

		report.ReportICE("reference to undefined function `%s`", v.Name)
	case *ast.Thunk:
		return g.genThunk(v)
	case *desugar.Closure:
		return g.genClosure(v)
	}

	report.ReportICE("unable to lower expression `%s`", expr.Repr())
	return nil
}

// exprType returns the type of an expression falling back on the expected
// type if the expression's type comes from context.
func exprType(expr ast.Expr, expected types.Type) types.Type {
	if typ := expr.Type(); typ != nil {
		return typ
	}

	if expected == nil {
		report.ReportICE("unable to infer the type of `%s`", expr.Repr())
	}

	return expected
}

// genLiteral generates a literal constant.
func (g *Generator) genLiteral(lit *ast.Literal, typ types.Type) value.Value {
	switch typ {
	case types.PrimTypeBool:
		return constant.NewBool(lit.Text == "true")
	case types.PrimTypeInt:
		x, err := strconv.ParseInt(lit.Text, 0, 64)
		if err != nil {
			report.ReportICE("invalid integer literal `%s`: %s", lit.Text, err)
		}

		return constant.NewInt(lltypes.I64, x)
	case types.PrimTypeDouble:
		x, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			report.ReportICE("invalid floating point literal `%s`: %s", lit.Text, err)
		}

		return constant.NewFloat(lltypes.Double, x)
	case types.PrimTypeString:
		return g.genStringLit(lit.Text)
	}

	report.ReportICE("literal `%s` of non-primitive type `%s`", lit.Text, typ.Repr())
	return nil
}

// genStringLit generates a string literal: a null terminated global byte
// array.  The value is a pointer to its first byte.
func (g *Generator) genStringLit(text string) value.Value {
	s, err := strconv.Unquote(text)
	if err != nil {
		s = strings.Trim(text, "\"")
	}

	glob := g.mod.NewGlobalDef(
		fmt.Sprintf("str.%d", g.strCounter),
		constant.NewCharArrayFromString(s+"\x00"),
	)
	glob.Immutable = true
	glob.Linkage = enum.LinkagePrivate
	g.strCounter++

	return g.block.NewBitCast(glob, lltypes.I8Ptr)
}

// genListLiteral generates a list literal as a call to the variadic list
// constructor of the list type: eg. `[Int].literal(i64 3, ...)`.
func (g *Generator) genListLiteral(ll *ast.ListLiteral, typ types.Type) value.Value {
	elemType := typ.(*types.ListType).ElemType

	ctor := g.externFunc(typ.Repr()+".literal", g.convType(typ), lltypes.I64)
	ctor.Sig.Variadic = true

	args := []value.Value{constant.NewInt(lltypes.I64, int64(len(ll.Elems)))}
	for _, elem := range ll.Elems {
		args = append(args, g.genExpr(elem, elemType))
	}

	return g.block.NewCall(ctor, args...)
}

// genIdentifier generates a reference to a named value.  Wrapped parameters
// are read through their accessors.  Names that are not locals refer to
// external globals.
func (g *Generator) genIdentifier(id *ast.Identifier, typ types.Type) value.Value {
	if l, ok := g.lookupLocal(id.Name); ok && l.param == nil {
		return l.val
	}

	if strings.HasPrefix(id.Name, "$") {
		if l, ok := g.lookupLocal(id.Name[1:]); ok && l.param != nil && l.param.Projected != nil {
			return g.genProjectedGet(l)
		}
	} else if l, ok := g.lookupLocal(id.Name); ok {
		if l.param.IsWrapped() {
			return g.genWrappedGet(l)
		}

		return l.val
	}

	glob := g.global(id.Name, g.convType(typ))
	return g.block.NewLoad(glob.ContentType, glob)
}

// genImplicitMember generates an implicit member of its contextual type.  A
// called member is a call to an external function named by the type and the
// member.  A bare member is an external global.
func (g *Generator) genImplicitMember(im *ast.ImplicitMember, typ types.Type) value.Value {
	name := typ.Repr() + "." + im.Name
	llType := g.convType(typ)

	if !im.Called {
		glob := g.global(name, llType)
		return g.block.NewLoad(glob.ContentType, glob)
	}

	args := make([]value.Value, len(im.Args))
	for i, arg := range im.Args {
		args[i] = g.genExpr(arg, nil)
	}

	argTypes := util.Map(args, func(v value.Value) lltypes.Type { return v.Type() })
	return g.block.NewCall(g.externFunc(name, llType, argTypes...), args...)
}

// genCall generates a call to a desugared function.  The arguments have
// already been rewritten to construct the backing values and are in parameter
// order.
func (g *Generator) genCall(call *ast.Call) value.Value {
	fn, ok := g.funcs[call.Callee]
	if !ok {
		report.ReportICE("call to undefined function `%s`", call.Callee)
	}

	llFunc := g.llFuncs[call.Callee]

	args := make([]value.Value, len(call.Args))
	for i, arg := range call.Args {
		args[i] = g.coerce(g.genExpr(arg.Value, fn.Params[i].Backing.Type), llFunc.Params[i].Typ)
	}

	result := g.block.NewCall(llFunc, args...)
	if call.Type() == nil {
		return result
	}

	return g.coerce(result, g.convType(call.Type()))
}

// coerce converts a value passed to or returned from a generic function.
// Generic values are boxed: scalars are carried in the bits of a pointer and
// wrapper instances are cast between their opaque struct types.
func (g *Generator) coerce(val value.Value, to lltypes.Type) value.Value {
	from := val.Type()
	if from.Equal(to) {
		return val
	}

	_, fromPtr := from.(*lltypes.PointerType)
	_, toPtr := to.(*lltypes.PointerType)

	switch {
	case fromPtr && toPtr:
		return g.block.NewBitCast(val, to)
	case toPtr:
		if lltypes.IsFloat(from) {
			val = g.block.NewBitCast(val, lltypes.I64)
		}

		return g.block.NewIntToPtr(val, to)
	case fromPtr:
		if lltypes.IsFloat(to) {
			return g.block.NewBitCast(g.block.NewPtrToInt(val, lltypes.I64), to)
		}

		return g.block.NewPtrToInt(val, to)
	}

	report.ReportICE("unable to convert `%s` to `%s`", from.LLString(), to.LLString())
	return nil
}

// genInitCall generates a call to a wrapper constructor.  Constructors are
// external functions named by the wrapper instance and the labels of the
// arguments actually passed: eg. `Asserted<Int>.init(wrappedValue:_:)`.
func (g *Generator) genInitCall(ic *ast.InitCall) value.Value {
	// bind the constructor's type parameters from the type of its first
	// argument so the attribute arguments can be given contextual types
	first := ic.Init.Params[0]
	bindings := make(map[string]types.Type)

	valueType := ic.Value.Type()
	if valueType == nil {
		// a wrapped value whose type comes from context: the wrapper's type
		// argument is the wrapped type
		if tp, ok := first.Type.(*types.TypeParam); ok {
			valueType = ic.Type().(*types.GenericInstance).Args[0]
			bindings[tp.Name] = valueType
		}
	} else {
		types.Bind(first.Type, valueType, bindings)
	}

	args := []value.Value{g.genExpr(ic.Value, valueType)}
	labels := []string{first.Label}

	remaining := ic.Init.Params[1:]
	for _, arg := range ic.Extra {
		label := arg.Label
		if label == "" {
			label = "_"
		}

		var expected types.Type
		for i, param := range remaining {
			if param.Label == label {
				expected = types.Substitute(param.Type, bindings)
				remaining = remaining[i+1:]
				break
			}
		}

		args = append(args, g.genExpr(arg.Value, expected))
		labels = append(labels, label)
	}

	name := fmt.Sprintf("%s.init(%s:)", ic.Type().Repr(), strings.Join(labels, ":"))
	argTypes := util.Map(args, func(v value.Value) lltypes.Type { return v.Type() })

	return g.block.NewCall(g.externFunc(name, g.convType(ic.Type()), argTypes...), args...)
}

// -----------------------------------------------------------------------------

// genThunk generates the forwarding function of an unapplied reference.
func (g *Generator) genThunk(thunk *ast.Thunk) value.Value {
	ft := thunk.Type().(*types.FuncType)

	params := util.Map(thunk.Params, func(tp *ast.ThunkParam) *ir.Param {
		return ir.NewParam(tp.Name, g.convType(tp.Type))
	})

	llFunc := g.mod.NewFunc(g.anonName("thunk"), g.convType(ft.ReturnType), params...)
	llFunc.Linkage = enum.LinkageInternal

	g.withFunc(llFunc, func() {
		for i, tp := range thunk.Params {
			g.defineLocal(tp.Name, &local{val: llFunc.Params[i]})
		}

		g.genReturn(ft.ReturnType, g.genCall(thunk.Body))
	})

	return llFunc
}

// genClosure generates the function of a desugared closure.  The closure's
// prologue constructs its backing values from the external parameters.
func (g *Generator) genClosure(c *desugar.Closure) value.Value {
	params := util.Map(c.External, func(tp *ast.ThunkParam) *ir.Param {
		return ir.NewParam(tp.Name, g.convType(tp.Type))
	})

	llFunc := g.mod.NewFunc(g.anonName("closure"), g.convType(c.Def.ReturnType), params...)
	llFunc.Linkage = enum.LinkageInternal

	g.withFunc(llFunc, func() {
		for i, tp := range c.External {
			g.defineLocal(tp.Name, &local{val: llFunc.Params[i]})
		}

		backing := make(map[string]value.Value)
		for _, init := range c.Inits {
			backing[init.Name] = g.genExpr(init.Value, nil)
		}

		// the external parameters are only visible to the prologue
		g.popScope()
		g.pushScope()

		for i, param := range c.Params {
			val, ok := backing[param.Backing.Name]
			if !ok {
				val = llFunc.Params[i]
			}

			g.defineLocal(param.Decl.Name, &local{val: val, param: param})
		}

		for _, stmt := range c.Body {
			g.genStmt(stmt)
		}

		g.genReturn(c.Def.ReturnType, nil)
	})

	return llFunc
}

// withFunc generates the body of a nested function in its own scope.  The
// enclosing function's block and scopes are restored afterward.
func (g *Generator) withFunc(llFunc *ir.Func, f func()) {
	prevBlock, prevScopes := g.block, g.localScopes

	g.block = llFunc.NewBlock("entry")
	g.localScopes = nil
	g.pushScope()

	f()

	g.block, g.localScopes = prevBlock, prevScopes
}
