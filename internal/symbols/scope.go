package symbols

import "slices"

// Table is one scope: its name, fully-qualified name, barrier and the
// name→symbol map of everything declared directly in it.
type Table struct {
	ID       ScopeID
	Name     string
	FQN      string
	Barrier  Barrier
	Parent   ScopeID
	Children []ScopeID

	names   map[string]SymbolID
	symbols []SymbolID // declaration order
}

func newTable(id ScopeID, name, fqn string, parent ScopeID, barrier Barrier) *Table {
	return &Table{
		ID:      id,
		Name:    name,
		FQN:     fqn,
		Barrier: barrier,
		Parent:  parent,
		names:   make(map[string]SymbolID),
	}
}

// Lookup finds name declared directly in this scope.
func (t *Table) Lookup(name string) (SymbolID, bool) {
	id, ok := t.names[name]
	return id, ok
}

// Symbols returns symbol ids in declaration order.
func (t *Table) Symbols() []SymbolID {
	return slices.Clone(t.symbols)
}

// Len is the number of symbols declared here.
func (t *Table) Len() int { return len(t.symbols) }

func (t *Table) insert(name string, id SymbolID) {
	t.names[name] = id
	t.symbols = append(t.symbols, id)
}

// childFQN: root's FQN is "", every child appends "::name".
func childFQN(parentFQN, name string) string {
	return parentFQN + PathSep + name
}
