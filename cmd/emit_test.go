package cmd

import (
	"strings"
	"testing"

	"github.com/kr/pretty"

	"wrapc/manifest"
)

const trackedUnit = `[unit]
name = "tracked"

[[wrapper]]
name = "Tracked"

  [wrapper.wrapped]
  type = "Value"
  set = "nonmutating"

  [wrapper.projected]
  type = "[Value]"
  set = "nonmutating"

  [[wrapper.init]]
  params = ["wrappedValue: Value"]

[[func]]
name = "first"
body = ["$value = [1]"]

  [[func.param]]
  name = "value"
  type = "Int"
  wrappers = ["Tracked"]

[[func]]
name = "second"
body = ["first(value: 2)"]

[[ref]]
expr = "first(value:)"
`

func newTestCompiler(t *testing.T, text string) *Compiler {
	man, err := manifest.LoadManifestBytes([]byte(text), "", "unit.toml")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	c := &Compiler{man: man}
	c.result = c.desugarUnit()
	return c
}

func TestEmitSource(t *testing.T) {
	c := newTestCompiler(t, trackedUnit)

	want := `func first(value _value: Tracked<Int>) {
    var value: Int { get { _value.wrappedValue } nonmutating set { _value.wrappedValue = newValue } }
    var $value: [Int] { get { _value.projectedValue } nonmutating set { _value.projectedValue = newValue } }
    $value = [1]
}

func second() {
    first(value: Tracked(wrappedValue: 2))
}

// first(value:)
{ (value: Int) in first(value: Tracked(wrappedValue: value)) }
`

	if got := c.emitSource(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDumpResult(t *testing.T) {
	c := newTestCompiler(t, trackedUnit)

	want := &dumpUnit{
		Funcs: []*dumpFunc{
			{
				Name:    "first(value:)",
				Backing: []string{"_value: Tracked<Int>"},
				Accessors: []string{
					"value: Int = _value.wrappedValue (settable)",
					"$value: [Int] = _value.projectedValue (settable)",
				},
				Body: []string{"$value = [1]"},
			},
			{
				Name: "second()",
				Body: []string{"first(value: Tracked(wrappedValue: 2))"},
			},
		},
		Exprs: []*dumpExpr{
			{
				Original:  "first(value:)",
				Rewritten: "{ (value: Int) in first(value: Tracked(wrappedValue: value)) }",
				Type:      "(Int) -> Void",
			},
		},
	}

	if diff := pretty.Diff(dumpResult(c.result), want); len(diff) != 0 {
		t.Fatalf("unexpected dump:\n%s", strings.Join(diff, "\n"))
	}
}
