package depm

import (
	"sort"
	"sync"

	"wrapc/report"
)

// SymbolTable is the global symbol table for a unit.  Types, wrappers and
// functions share a single namespace.  The table is synchronized: lookups are
// performed concurrently by the desugaring of independent declarations.
type SymbolTable struct {
	m *sync.RWMutex

	lookupTable map[string]*Symbol
}

// NewSymbolTable creates a new, empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		m:           &sync.RWMutex{},
		lookupTable: make(map[string]*Symbol),
	}
}

// Define defines a new global symbol.  If a symbol by the same name is already
// defined, then a compile error is returned and the table is unchanged.
func (st *SymbolTable) Define(sym *Symbol) *report.CompileError {
	st.m.Lock()
	defer st.m.Unlock()

	if prev, ok := st.lookupTable[sym.Name]; ok {
		return report.Raise(
			report.KindDefinition,
			sym.DefSpan,
			"%s `%s` conflicts with %s of the same name",
			defKindNames[sym.DefKind],
			sym.Name,
			defKindNames[prev.DefKind],
		)
	}

	st.lookupTable[sym.Name] = sym
	return nil
}

// Lookup retrieves the symbol with the given name.
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	st.m.RLock()
	defer st.m.RUnlock()

	sym, ok := st.lookupTable[name]
	return sym, ok
}

// SymbolsOfKind returns all the symbols of the given def kind sorted by name.
func (st *SymbolTable) SymbolsOfKind(defKind int) []*Symbol {
	st.m.RLock()
	defer st.m.RUnlock()

	var syms []*Symbol
	for _, sym := range st.lookupTable {
		if sym.DefKind == defKind {
			syms = append(syms, sym)
		}
	}

	sort.Slice(syms, func(i, j int) bool {
		return syms[i].Name < syms[j].Name
	})

	return syms
}
