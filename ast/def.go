package ast

import (
	"strings"

	"wrapc/types"
)

// AccessLevel is the visibility of a declaration.  Access levels are ordered:
// a larger value is more visible.
type AccessLevel int

// Enumeration of access levels.
const (
	AccessPrivate AccessLevel = iota
	AccessFilePrivate
	AccessInternal
	AccessPublic
	AccessOpen
)

var accessNames = map[string]AccessLevel{
	"private":     AccessPrivate,
	"fileprivate": AccessFilePrivate,
	"internal":    AccessInternal,
	"public":      AccessPublic,
	"open":        AccessOpen,
}

// ParseAccessLevel converts an access level keyword into an access level.  The
// empty string is the default, internal access.
func ParseAccessLevel(name string) (AccessLevel, bool) {
	if name == "" {
		return AccessInternal, true
	}

	al, ok := accessNames[name]
	return al, ok
}

func (al AccessLevel) String() string {
	for name, level := range accessNames {
		if level == al {
			return name
		}
	}

	return "internal"
}

// -----------------------------------------------------------------------------

// Mutability describes how an accessor treats the storage it belongs to.  The
// values are ordered from least to most restrictive so that the composition of
// two mutabilities is their maximum.
type Mutability int

// Enumeration of accessor mutabilities.
const (
	Nonmutating Mutability = iota
	Mutating
	Unavailable // The accessor does not exist.
)

func (m Mutability) String() string {
	switch m {
	case Nonmutating:
		return "nonmutating"
	case Mutating:
		return "mutating"
	default:
		return "unavailable"
	}
}

// Property is a wrapper's `wrappedValue` or `projectedValue` property.
type Property struct {
	ASTBase

	// The declared type of the property.  This may mention the wrapper's type
	// parameter.
	Type types.Type

	// The mutability of the getter and setter.  A read-only property has an
	// unavailable setter.
	Get, Set Mutability
}

// InitParam is a parameter of a wrapper constructor.
type InitParam struct {
	// The argument label.  `_` for unlabeled parameters.
	Label string

	// The parameter type.  This may mention type parameters.
	Type types.Type

	// Whether the parameter has a default value.
	HasDefault bool
}

// InitDef is a wrapper constructor.
type InitDef struct {
	ASTBase

	Params []*InitParam

	// The constraints required of the wrapper's type parameter for this
	// constructor to apply: eg. `where Value: Collection`.
	Where []string

	Failable bool
	Access   AccessLevel
}

// FirstLabel returns the label of the constructor's first parameter.
func (id *InitDef) FirstLabel() string {
	if len(id.Params) == 0 {
		return ""
	}

	return id.Params[0].Label
}

// Signature returns the constructor's representative signature:
// eg. `init(wrappedValue:_:)`.
func (id *InitDef) Signature() string {
	sb := strings.Builder{}
	sb.WriteString("init(")

	for _, param := range id.Params {
		sb.WriteString(param.Label)
		sb.WriteRune(':')
	}

	sb.WriteRune(')')
	return sb.String()
}

// Enumeration of the special constructor labels.
const (
	WrappedValueLabel   = "wrappedValue"
	ProjectedValueLabel = "projectedValue"
)

// WrapperDef is the definition of a wrapper type.
type WrapperDef struct {
	ASTBase

	Name string

	// The wrapper's generic parameter: the wrapped value's type.
	TypeParam *types.TypeParam

	Access AccessLevel

	// The `wrappedValue` property.  Every wrapper must have one.
	WrappedValue *Property

	// The `projectedValue` property.  This may be nil.
	ProjectedValue *Property

	Inits []*InitDef
}

// Instantiate returns the wrapper type applied to the given wrapped type.
func (wd *WrapperDef) Instantiate(wrapped types.Type) *types.GenericInstance {
	return &types.GenericInstance{Name: wd.Name, Args: []types.Type{wrapped}}
}

// Bindings returns the type parameter bindings for the wrapper applied to the
// given wrapped type.
func (wd *WrapperDef) Bindings(wrapped types.Type) map[string]types.Type {
	return map[string]types.Type{wd.TypeParam.Name: wrapped}
}

// InitsLabeled returns all the constructors whose first label is the given one.
func (wd *WrapperDef) InitsLabeled(label string) []*InitDef {
	var inits []*InitDef
	for _, init := range wd.Inits {
		if init.FirstLabel() == label {
			inits = append(inits, init)
		}
	}

	return inits
}

// -----------------------------------------------------------------------------

// WrapperRef is a single reference to a wrapper type in a wrapper attribute:
// eg. `@Asserted(.greaterOrEqual(1))`.
type WrapperRef struct {
	ASTBase

	Name string

	// The attribute-level arguments.  These are passed to the wrapped-value
	// constructor after the wrapped value.  Unlabeled arguments have an empty
	// label.
	Args []*Arg
}

// WrapperAttr is the ordered list of wrappers applied to a parameter,
// outermost first.
type WrapperAttr struct {
	Wrappers []*WrapperRef
}

// HasArgs returns whether any wrapper in the attribute carries arguments.
func (wa *WrapperAttr) HasArgs() bool {
	for _, ref := range wa.Wrappers {
		if len(ref.Args) > 0 {
			return true
		}
	}

	return false
}

// Names returns the wrapper names in the attribute, outermost first.
func (wa *WrapperAttr) Names() []string {
	names := make([]string, len(wa.Wrappers))
	for i, ref := range wa.Wrappers {
		names[i] = ref.Name
	}

	return names
}

// ParamDecl is a parameter of a function or closure.
type ParamDecl struct {
	ASTBase

	// The argument label.  `_` for unlabeled parameters.
	Label string

	Name string
	Type types.Type

	// The applied wrappers.  This is nil for ordinary parameters.
	Wrappers *WrapperAttr

	// Whether the parameter is marked `@autoclosure`.
	Autoclosure bool

	// The name of the result builder attribute on the parameter, if any.
	ResultBuilder string
}

// ExternalLabel returns the label that must be written at the call site.  It
// is empty for unlabeled parameters.
func (pd *ParamDecl) ExternalLabel() string {
	if pd.Label == "_" {
		return ""
	}

	return pd.Label
}

// ProjectionLabel returns the label used to pass a projected value: the
// argument label prefixed with `$`, or the parameter name prefixed with `$`
// for unlabeled parameters.
func (pd *ParamDecl) ProjectionLabel() string {
	if label := pd.ExternalLabel(); label != "" {
		return "$" + label
	}

	return "$" + pd.Name
}

// IsWrapped returns whether the parameter has a wrapper attribute.
func (pd *ParamDecl) IsWrapped() bool {
	return pd.Wrappers != nil && len(pd.Wrappers.Wrappers) > 0
}

// FuncDef is a function definition.
type FuncDef struct {
	ASTBase

	Name       string
	Params     []*ParamDecl
	ReturnType types.Type
	Access     AccessLevel

	// The generic type parameters of the function.  Their bindings are
	// inferred from the arguments at each call site.
	TypeParams []*types.TypeParam

	// The name of the declaration this function overrides or witnesses.  This
	// is empty if the function overrides nothing.
	Overrides string

	Body []Stmt
}

// Signature returns the function's representative signature: eg.
// `buy(quantity:fruit:)`.
func (fd *FuncDef) Signature() string {
	sb := strings.Builder{}
	sb.WriteString(fd.Name)
	sb.WriteRune('(')

	for _, param := range fd.Params {
		sb.WriteString(param.Label)
		sb.WriteRune(':')
	}

	sb.WriteRune(')')
	return sb.String()
}
