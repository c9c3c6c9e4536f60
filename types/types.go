// Package types defines the types that flow through the desugaring pass: the
// declared types of parameters, the composed wrapper types of backing
// parameters, and the function types of thunks.
package types

import "strings"

// Type represents a data type of the source language.
type Type interface {
	// Returns whether this type is equal to the other type.  This should only
	// be called within methods of type instances: use Equals instead.
	equals(other Type) bool

	// Returns the representative string for this type.
	Repr() string
}

// Equals returns whether two types are equal.
func Equals(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.equals(b)
}

// -----------------------------------------------------------------------------

// PrimitiveType represents a primitive type.  This must be one of the
// enumerated primitive type values below.
type PrimitiveType int

// Enumeration of the different primitive types.
const (
	PrimTypeVoid PrimitiveType = iota
	PrimTypeBool
	PrimTypeInt
	PrimTypeDouble
	PrimTypeString
)

// primNames maps primitive type names to their types.
var primNames = map[string]PrimitiveType{
	"Void":   PrimTypeVoid,
	"Bool":   PrimTypeBool,
	"Int":    PrimTypeInt,
	"Double": PrimTypeDouble,
	"String": PrimTypeString,
}

// LookupPrimitive returns the primitive type with the given name.
func LookupPrimitive(name string) (PrimitiveType, bool) {
	pt, ok := primNames[name]
	return pt, ok
}

func (pt PrimitiveType) equals(other Type) bool {
	if opt, ok := other.(PrimitiveType); ok {
		return pt == opt
	}

	return false
}

func (pt PrimitiveType) Repr() string {
	switch pt {
	case PrimTypeVoid:
		return "Void"
	case PrimTypeBool:
		return "Bool"
	case PrimTypeInt:
		return "Int"
	case PrimTypeDouble:
		return "Double"
	default:
		return "String"
	}
}

// IsVoid returns whether the given type is the void type.
func IsVoid(typ Type) bool {
	return Equals(typ, PrimTypeVoid)
}

// -----------------------------------------------------------------------------

// NamedType is a nominal, non-generic type declared by the unit.
type NamedType struct {
	// The name of the type.
	Name string

	// The names of the constraints this type conforms to.
	Conformances []string
}

func (nt *NamedType) equals(other Type) bool {
	if ont, ok := other.(*NamedType); ok {
		return nt.Name == ont.Name
	}

	return false
}

func (nt *NamedType) Repr() string {
	return nt.Name
}

// -----------------------------------------------------------------------------

// ListType represents a homogenous list type: `[T]`.
type ListType struct {
	ElemType Type
}

func (lt *ListType) equals(other Type) bool {
	if olt, ok := other.(*ListType); ok {
		return Equals(lt.ElemType, olt.ElemType)
	}

	return false
}

func (lt *ListType) Repr() string {
	return "[" + lt.ElemType.Repr() + "]"
}

// -----------------------------------------------------------------------------

// GenericInstance is a generic nominal type applied to type arguments: eg.
// `Asserted<Int>`.  Composed wrapper types are nested generic instances.
type GenericInstance struct {
	// The name of the generic type.
	Name string

	// The type arguments.
	Args []Type
}

func (gi *GenericInstance) equals(other Type) bool {
	if ogi, ok := other.(*GenericInstance); ok {
		if gi.Name != ogi.Name || len(gi.Args) != len(ogi.Args) {
			return false
		}

		for i, arg := range gi.Args {
			if !Equals(arg, ogi.Args[i]) {
				return false
			}
		}

		return true
	}

	return false
}

func (gi *GenericInstance) Repr() string {
	if len(gi.Args) == 0 {
		return gi.Name
	}

	sb := strings.Builder{}
	sb.WriteString(gi.Name)
	sb.WriteRune('<')

	for i, arg := range gi.Args {
		if i != 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(arg.Repr())
	}

	sb.WriteRune('>')
	return sb.String()
}

// -----------------------------------------------------------------------------

// TypeParam is a generic type parameter of a wrapper type or a function.  The
// parameters of a function are bound from the arguments at each call site.
type TypeParam struct {
	// The name of the type parameter.
	Name string

	// The constraints the type parameter must satisfy.
	Constraints []string
}

func (tp *TypeParam) equals(other Type) bool {
	if otp, ok := other.(*TypeParam); ok {
		return tp.Name == otp.Name
	}

	return false
}

func (tp *TypeParam) Repr() string {
	return tp.Name
}

// -----------------------------------------------------------------------------

// FuncType represents a function type.
type FuncType struct {
	// The parameter types of the function.
	ParamTypes []Type

	// The return type of the function.
	ReturnType Type
}

func (ft *FuncType) equals(other Type) bool {
	if oft, ok := other.(*FuncType); ok {
		if len(ft.ParamTypes) != len(oft.ParamTypes) {
			return false
		}

		for i, paramtyp := range ft.ParamTypes {
			if !Equals(paramtyp, oft.ParamTypes[i]) {
				return false
			}
		}

		return Equals(ft.ReturnType, oft.ReturnType)
	}

	return false
}

func (ft *FuncType) Repr() string {
	sb := strings.Builder{}
	sb.WriteRune('(')

	for i, paramtyp := range ft.ParamTypes {
		if i != 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(paramtyp.Repr())
	}

	sb.WriteString(") -> ")
	sb.WriteString(ft.ReturnType.Repr())

	return sb.String()
}
