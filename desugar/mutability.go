package desugar

import "wrapc/ast"

// AccessMutability is the mutability of reading and writing a wrapped value
// through a chain of wrappers, starting from the backing storage.
type AccessMutability struct {
	Get, Set ast.Mutability
}

// composeAccessor computes the mutability of using an accessor of a wrapper
// whose storage is itself reached through an access of the given mutability.
// A non-mutating accessor only needs to read the storage.  A mutating one
// needs to read it, mutate it and write it back.
func composeAccessor(storage AccessMutability, accessor ast.Mutability) ast.Mutability {
	switch accessor {
	case ast.Nonmutating:
		return storage.Get
	case ast.Mutating:
		if storage.Set == ast.Unavailable || storage.Get == ast.Unavailable {
			return ast.Unavailable
		}

		return maxMutability(storage.Get, storage.Set)
	default:
		return ast.Unavailable
	}
}

// ComposeMutability folds the accessor mutabilities of a chain of wrapper
// definitions, outermost first, into the mutability of accessing the
// innermost wrapped value from the backing storage.
func ComposeMutability(defs []*ast.WrapperDef) AccessMutability {
	outer := defs[0].WrappedValue
	am := AccessMutability{Get: outer.Get, Set: outer.Set}

	for _, wd := range defs[1:] {
		am = AccessMutability{
			Get: composeAccessor(am, wd.WrappedValue.Get),
			Set: composeAccessor(am, wd.WrappedValue.Set),
		}
	}

	return am
}

// maxMutability returns the more restrictive of two mutabilities.
func maxMutability(a, b ast.Mutability) ast.Mutability {
	if a > b {
		return a
	}

	return b
}
