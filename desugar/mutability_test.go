package desugar

import (
	"testing"

	"github.com/kr/pretty"

	"wrapc/ast"
)

func TestComposeMutability(t *testing.T) {
	// Each chain is listed outermost first as {get, set} pairs.
	tests := []struct {
		name  string
		chain [][2]ast.Mutability
		want  AccessMutability
	}{
		{"single read-write", [][2]ast.Mutability{{nm, nm}}, AccessMutability{nm, nm}},
		{"single get-only", [][2]ast.Mutability{{nm, un}}, AccessMutability{nm, un}},
		{"single mutating set", [][2]ast.Mutability{{nm, mu}}, AccessMutability{nm, mu}},
		{"single mutating get", [][2]ast.Mutability{{mu, mu}}, AccessMutability{mu, mu}},
		{"nonmutating over nonmutating", [][2]ast.Mutability{{nm, nm}, {nm, nm}}, AccessMutability{nm, nm}},
		{"mutating set outer, nonmutating inner", [][2]ast.Mutability{{nm, mu}, {nm, nm}}, AccessMutability{nm, nm}},
		{"mutating set inner", [][2]ast.Mutability{{nm, nm}, {nm, mu}}, AccessMutability{nm, nm}},
		{"mutating set through mutating set", [][2]ast.Mutability{{nm, mu}, {nm, mu}}, AccessMutability{nm, mu}},
		{"mutating set through get-only", [][2]ast.Mutability{{nm, un}, {nm, mu}}, AccessMutability{nm, un}},
		{"mutating get through get-only", [][2]ast.Mutability{{nm, un}, {mu, nm}}, AccessMutability{un, nm}},
		{"mutating get inner", [][2]ast.Mutability{{nm, nm}, {mu, nm}}, AccessMutability{nm, nm}},
		{"mutating get through mutating set", [][2]ast.Mutability{{nm, mu}, {mu, mu}}, AccessMutability{mu, mu}},
		{"get-only inner", [][2]ast.Mutability{{nm, nm}, {nm, un}}, AccessMutability{nm, un}},
		{"three deep", [][2]ast.Mutability{{nm, mu}, {nm, nm}, {mu, nm}}, AccessMutability{nm, nm}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			defs := make([]*ast.WrapperDef, len(test.chain))
			for i, acc := range test.chain {
				defs[i] = wrapperDef("W", prop(tValue, acc[0], acc[1]), nil)
			}

			if got := ComposeMutability(defs); got != test.want {
				t.Fatalf("got %v, want %v: %v", got, test.want, pretty.Diff(got, test.want))
			}
		})
	}
}
