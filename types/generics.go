package types

// Enumeration of the built-in constraint names.
const (
	ConstraintEquatable  = "Equatable"
	ConstraintComparable = "Comparable"
	ConstraintHashable   = "Hashable"
	ConstraintNumeric    = "Numeric"
	ConstraintCollection = "Collection"
)

// Conforms returns whether the given type satisfies the named constraint.
func Conforms(typ Type, constraint string) bool {
	switch v := typ.(type) {
	case PrimitiveType:
		switch constraint {
		case ConstraintEquatable, ConstraintHashable:
			return v != PrimTypeVoid
		case ConstraintComparable:
			return v == PrimTypeInt || v == PrimTypeDouble || v == PrimTypeString
		case ConstraintNumeric:
			return v == PrimTypeInt || v == PrimTypeDouble
		case ConstraintCollection:
			return v == PrimTypeString
		}
	case *ListType:
		switch constraint {
		case ConstraintCollection:
			return true
		case ConstraintEquatable, ConstraintHashable:
			return Conforms(v.ElemType, constraint)
		}
	case *NamedType:
		for _, conf := range v.Conformances {
			if conf == constraint {
				return true
			}
		}
	case *TypeParam:
		for _, conf := range v.Constraints {
			if conf == constraint {
				return true
			}
		}
	}

	return false
}

// Substitute replaces all the type parameters in a type according to the given
// bindings.  Unbound type parameters are left in place.
func Substitute(typ Type, bindings map[string]Type) Type {
	switch v := typ.(type) {
	case *TypeParam:
		if bound, ok := bindings[v.Name]; ok {
			return bound
		}
	case *ListType:
		return &ListType{ElemType: Substitute(v.ElemType, bindings)}
	case *GenericInstance:
		args := make([]Type, len(v.Args))
		for i, arg := range v.Args {
			args[i] = Substitute(arg, bindings)
		}

		return &GenericInstance{Name: v.Name, Args: args}
	case *FuncType:
		params := make([]Type, len(v.ParamTypes))
		for i, param := range v.ParamTypes {
			params[i] = Substitute(param, bindings)
		}

		return &FuncType{ParamTypes: params, ReturnType: Substitute(v.ReturnType, bindings)}
	}

	return typ
}

// Bind matches a pattern type which may contain type parameters against a
// concrete type, recording the type parameter bindings it discovers.  It
// returns false if the types cannot be matched or if a type parameter would
// be bound to two different types.  Constraints are not checked here: see
// Conforms.
func Bind(pattern, actual Type, bindings map[string]Type) bool {
	switch v := pattern.(type) {
	case *TypeParam:
		if bound, ok := bindings[v.Name]; ok {
			return Equals(bound, actual)
		}

		bindings[v.Name] = actual
		return true
	case *ListType:
		if alt, ok := actual.(*ListType); ok {
			return Bind(v.ElemType, alt.ElemType, bindings)
		}
	case *GenericInstance:
		if agi, ok := actual.(*GenericInstance); ok && agi.Name == v.Name && len(agi.Args) == len(v.Args) {
			for i, arg := range v.Args {
				if !Bind(arg, agi.Args[i], bindings) {
					return false
				}
			}

			return true
		}
	case *FuncType:
		if aft, ok := actual.(*FuncType); ok && len(aft.ParamTypes) == len(v.ParamTypes) {
			for i, param := range v.ParamTypes {
				if !Bind(param, aft.ParamTypes[i], bindings) {
					return false
				}
			}

			return Bind(v.ReturnType, aft.ReturnType, bindings)
		}
	default:
		return Equals(pattern, actual)
	}

	return false
}

// IsConcrete returns whether a type contains no type parameters.
func IsConcrete(typ Type) bool {
	switch v := typ.(type) {
	case *TypeParam:
		return false
	case *ListType:
		return IsConcrete(v.ElemType)
	case *GenericInstance:
		for _, arg := range v.Args {
			if !IsConcrete(arg) {
				return false
			}
		}
	case *FuncType:
		for _, param := range v.ParamTypes {
			if !IsConcrete(param) {
				return false
			}
		}

		return IsConcrete(v.ReturnType)
	}

	return true
}
