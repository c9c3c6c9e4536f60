package generate

import (
	lltypes "github.com/llir/llvm/ir/types"

	"wrapc/report"
	"wrapc/types"
	"wrapc/util"
)

// convType converts a unit type to its LLVM type.  Wrapper instances, named
// types and lists are lowered to pointers to opaque structs: their layout is
// supplied by whatever implements their members.  Generic parameters are
// lowered the same way.
func (g *Generator) convType(typ types.Type) lltypes.Type {
	switch v := typ.(type) {
	case types.PrimitiveType:
		return convPrimType(v)
	case *types.NamedType, *types.GenericInstance, *types.ListType:
		return g.opaqueType(v.Repr())
	case *types.TypeParam:
		// generic values are boxed
		return g.opaqueType(v.Repr())
	case *types.FuncType:
		return lltypes.NewPointer(g.convFuncType(v))
	}

	report.ReportICE("unable to lower type `%s`", typ.Repr())
	return nil
}

// convFuncType converts a function type to an LLVM function signature.
func (g *Generator) convFuncType(ft *types.FuncType) *lltypes.FuncType {
	return lltypes.NewFunc(
		g.convType(ft.ReturnType),
		util.Map(ft.ParamTypes, g.convType)...,
	)
}

// convPrimType converts a primitive type to its LLVM type.
func convPrimType(pt types.PrimitiveType) lltypes.Type {
	switch pt {
	case types.PrimTypeVoid:
		return lltypes.Void
	case types.PrimTypeBool:
		return lltypes.I1
	case types.PrimTypeInt:
		return lltypes.I64
	case types.PrimTypeDouble:
		return lltypes.Double
	default:
		// strings are passed as pointers to their bytes
		return lltypes.I8Ptr
	}
}

// opaqueType returns a pointer to the opaque struct named by the given type
// representation.  The type definition is created on first use.
func (g *Generator) opaqueType(name string) lltypes.Type {
	if typ, ok := g.typeDefs[name]; ok {
		return typ
	}

	def := g.mod.NewTypeDef(name, &lltypes.StructType{Opaque: true})
	typ := lltypes.NewPointer(def)
	g.typeDefs[name] = typ
	return typ
}
