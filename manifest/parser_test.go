package manifest

import (
	"testing"

	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

// testScope resolves the primitives, a `Fruit` type and a `Value` type
// parameter.  `Logged` is the only wrapper.
type testScope struct{}

func (testScope) lookupType(name string) (types.Type, bool) {
	switch name {
	case "Fruit":
		return &types.NamedType{Name: "Fruit"}, true
	case "Value":
		return &types.TypeParam{Name: "Value"}, true
	}

	pt, ok := types.LookupPrimitive(name)
	return pt, ok
}

func (testScope) isWrapper(name string) bool {
	return name == "Logged"
}

func TestParseType(t *testing.T) {
	tests := []struct {
		text, want string
	}{
		{"Int", "Int"},
		{"[Fruit]", "[Fruit]"},
		{"Logged<Clamped<Int>>", "Logged<Clamped<Int>>"},
		{"Pair<Int, String>", "Pair<Int, String>"},
		{"(Int, [Value]) -> Void", "(Int, [Value]) -> Void"},
		{"() -> Bool", "() -> Bool"},
	}

	for _, test := range tests {
		typ, err := parseTypeString(test.text, 0, 0, testScope{})
		if err != nil {
			t.Fatalf("parsing %s: %s", test.text, err)
		}

		if got := typ.Repr(); got != test.want {
			t.Fatalf("got %s, want %s", got, test.want)
		}
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, text := range []string{"Apple", "[Int", "Int Int", "(Int)", "Logged<>"} {
		_, err := parseTypeString(text, 3, 10, testScope{})

		cerr, ok := err.(*report.CompileError)
		if !ok {
			t.Fatalf("parsing %q: got %v, want a syntax error", text, err)
		}

		if cerr.Kind != report.KindSyntax || cerr.Span.StartLine != 3 || cerr.Span.StartCol < 10 {
			t.Fatalf("parsing %q: got %s error at %d:%d", text, report.KindName(cerr.Kind), cerr.Span.StartLine, cerr.Span.StartCol)
		}
	}
}

func TestParseExpr(t *testing.T) {
	tests := []struct {
		text, want string
		typ        string // "" if the expression is untyped
	}{
		{"buy(quantity: 1, fruit: apple as Fruit)", "buy(quantity: 1, fruit: apple)", ""},
		{"log($message: [1, 2])", "log($message: [1, 2])", ""},
		{"buy(quantity:fruit:)", "buy(quantity:fruit:)", ""},
		{"log(_:)", "log(_:)", ""},
		{"f()", "f()", ""},
		{"[1.5, -2.0]", "[1.5, -2.0]", "[Double]"},
		{`"hi"`, `"hi"`, "String"},
		{".greaterOrEqual(1)", ".greaterOrEqual(1)", ""},
		{".none", ".none", ""},
		{"apple as Fruit", "apple", "Fruit"},
		{"{ ($x: [Int]) -> Void in x = 1; $x }", "{ ($x: [Int]) -> Void in x = 1; $x; }", ""},
	}

	for _, test := range tests {
		expr, err := parseExprString(test.text, 0, 0, testScope{})
		if err != nil {
			t.Fatalf("parsing %s: %s", test.text, err)
		}

		if got := expr.Repr(); got != test.want {
			t.Fatalf("got %s, want %s", got, test.want)
		}

		if test.typ != "" {
			if expr.Type() == nil || expr.Type().Repr() != test.typ {
				t.Fatalf("parsing %s: got type %v, want %s", test.text, expr.Type(), test.typ)
			}
		}
	}
}

func TestParseClosureParams(t *testing.T) {
	expr, err := parseExprString("{ (@Logged(1) @autoclosure x: Int, @ViewBuilder y: Int, @Missing z: Int) in }", 0, 0, testScope{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	params := expr.(*ast.Closure).Params
	if len(params) != 3 {
		t.Fatalf("got %d parameters, want 3", len(params))
	}

	x, y, z := params[0], params[1], params[2]
	if !x.Autoclosure || !x.IsWrapped() || !x.Wrappers.HasArgs() {
		t.Fatalf("expected `x` to be wrapped with arguments and @autoclosure")
	}

	if y.IsWrapped() || y.ResultBuilder != "ViewBuilder" {
		t.Fatalf("expected `y` to have a result builder")
	}

	if !z.IsWrapped() || z.Wrappers.Names()[0] != "Missing" {
		t.Fatalf("expected unknown attributes to be treated as wrappers")
	}
}

func TestParseStmt(t *testing.T) {
	stmt, err := parseStmtString("quantity = 2", 0, 0, testScope{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if assign, ok := stmt.(*ast.Assign); !ok || assign.Target != "quantity" {
		t.Fatalf("got %s, want an assignment to quantity", stmt.Repr())
	}

	stmt, err = parseStmtString("$quantity", 0, 0, testScope{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if _, ok := stmt.(*ast.ExprStmt); !ok {
		t.Fatalf("got %s, want an expression statement", stmt.Repr())
	}
}

func TestParseInitParam(t *testing.T) {
	tests := []struct {
		text       string
		label      string
		typ        string
		hasDefault bool
	}{
		{"wrappedValue: Value", "wrappedValue", "Value", false},
		{"_ assertion: Fruit", "_", "Fruit", false},
		{"limit: Int = 10", "limit", "Int", true},
		{"note: String = \"\"", "note", "String", true},
	}

	for _, test := range tests {
		ip, err := parseInitParamString(test.text, 0, 0, testScope{})
		if err != nil {
			t.Fatalf("parsing %s: %s", test.text, err)
		}

		if ip.Label != test.label || ip.Type.Repr() != test.typ || ip.HasDefault != test.hasDefault {
			t.Fatalf("parsing %s: got %s %s %v", test.text, ip.Label, ip.Type.Repr(), ip.HasDefault)
		}
	}

	if _, err := parseInitParamString("limit: Int =", 0, 0, testScope{}); err == nil {
		t.Fatalf("expected a missing default value to be rejected")
	}
}

func TestParseWrapperRef(t *testing.T) {
	ref, err := parseWrapperString("@Asserted(.greaterOrEqual(1))", 4, 2, testScope{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if ref.Name != "Asserted" || len(ref.Args) != 1 || ref.Args[0].Repr() != ".greaterOrEqual(1)" {
		t.Fatalf("got %s with %d arguments", ref.Name, len(ref.Args))
	}

	span := ref.Args[0].Span()
	if span.StartLine != 4 || span.StartCol != 12 {
		t.Fatalf("got argument at %d:%d, want 4:12", span.StartLine, span.StartCol)
	}
}

func TestParseWrapperRefLabels(t *testing.T) {
	tests := []struct {
		text   string
		labels []string
		reprs  []string
	}{
		{"Clamped(limit: 10)", []string{"limit"}, []string{"limit: 10"}},
		{"@Asserted(.greaterOrEqual(1))", []string{""}, []string{".greaterOrEqual(1)"}},
		{"Ranged(0, upper: 10)", []string{"", "upper"}, []string{"0", "upper: 10"}},
		{"Logged", nil, nil},
	}

	for _, test := range tests {
		ref, err := parseWrapperString(test.text, 1, 1, testScope{})
		if err != nil {
			t.Fatalf("parsing %s: unexpected error: %s", test.text, err)
		}

		if len(ref.Args) != len(test.labels) {
			t.Fatalf("parsing %s: got %d arguments, want %d", test.text, len(ref.Args), len(test.labels))
		}

		for i, arg := range ref.Args {
			if arg.Label != test.labels[i] || arg.Repr() != test.reprs[i] {
				t.Fatalf("parsing %s: got argument %q labeled %q, want %q labeled %q", test.text, arg.Repr(), arg.Label, test.reprs[i], test.labels[i])
			}
		}
	}
}
