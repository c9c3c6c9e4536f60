package manifest

// tomlUnitFile represents a unit file as it is encoded in TOML.
type tomlUnitFile struct {
	Unit     *tomlUnit      `toml:"unit"`
	Types    []*tomlType    `toml:"type"`
	Wrappers []*tomlWrapper `toml:"wrapper"`
	Funcs    []*tomlFunc    `toml:"func"`
	Calls    []*tomlExpr    `toml:"call"`
	Refs     []*tomlExpr    `toml:"ref"`
	Closures []*tomlExpr    `toml:"closure"`
}

// tomlUnit represents the unit header.
type tomlUnit struct {
	Name    string `toml:"name"`
	Version string `toml:"wrapc-version"`
	Emit    string `toml:"emit,omitempty"`
	Output  string `toml:"output,omitempty"`
}

// tomlType represents a nominal type.
type tomlType struct {
	Name     string   `toml:"name"`
	Conforms []string `toml:"conforms,omitempty"`
}

// tomlWrapper represents a wrapper type.
type tomlWrapper struct {
	Name        string        `toml:"name"`
	Param       string        `toml:"param,omitempty"`
	Constraints []string      `toml:"constraints,omitempty"`
	Access      string        `toml:"access,omitempty"`
	Wrapped     *tomlProperty `toml:"wrapped"`
	Projected   *tomlProperty `toml:"projected"`
	Inits       []*tomlInit   `toml:"init"`
}

// tomlProperty represents a `wrappedValue` or `projectedValue` property.  An
// omitted getter is non-mutating and an omitted setter does not exist.
type tomlProperty struct {
	Type string `toml:"type"`
	Get  string `toml:"get,omitempty"`
	Set  string `toml:"set,omitempty"`
}

// tomlInit represents a wrapper constructor.
type tomlInit struct {
	Params   []string `toml:"params"`
	Where    []string `toml:"where,omitempty"`
	Failable bool     `toml:"failable"`
	Access   string   `toml:"access,omitempty"`
}

// tomlFunc represents a function.  Each generic parameter is written as its
// name and optional constraints: eg. `T: Collection & Hashable`.
type tomlFunc struct {
	Name      string       `toml:"name"`
	Result    string       `toml:"result,omitempty"`
	Access    string       `toml:"access,omitempty"`
	Overrides string       `toml:"overrides,omitempty"`
	Generics  []string     `toml:"generics,omitempty"`
	Params    []*tomlParam `toml:"param"`
	Body      []string     `toml:"body,omitempty"`
}

// tomlParam represents a function parameter.  The label defaults to the name.
type tomlParam struct {
	Label       string   `toml:"label,omitempty"`
	Name        string   `toml:"name"`
	Type        string   `toml:"type"`
	Wrappers    []string `toml:"wrappers,omitempty"`
	Autoclosure bool     `toml:"autoclosure"`
	Builder     string   `toml:"builder,omitempty"`
}

// tomlExpr represents a top level expression to desugar.
type tomlExpr struct {
	Expr string `toml:"expr"`
}
