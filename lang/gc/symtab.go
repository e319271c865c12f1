package gc

import "github.com/dolthub/swiss"

// SymTab assigns each global variable name a dense, insertion-ordered slot
// index, so the VM can store globals in a flat []value.Value parallel to
// this table. The global opcodes' operands are constant-pool indices of the
// name, not slot indices: the VM looks the slot up here by name on every
// DefineGlobal/GetGlobal/SetGlobal.
type SymTab struct {
	index *swiss.Map[string, int]
	names []string
}

// NewSymTab returns an empty global symbol table.
func NewSymTab() *SymTab {
	return &SymTab{index: swiss.NewMap[string, int](32)}
}

// Intern returns the slot index for name, assigning it the next free index
// the first time name is seen.
func (t *SymTab) Intern(name string) int {
	if idx, ok := t.index.Get(name); ok {
		return idx
	}
	idx := len(t.names)
	t.index.Put(name, idx)
	t.names = append(t.names, name)
	return idx
}

// Lookup returns the slot index for name without assigning one, and whether
// name has been interned yet.
func (t *SymTab) Lookup(name string) (int, bool) {
	return t.index.Get(name)
}

// Name returns the variable name stored at slot idx.
func (t *SymTab) Name(idx int) string { return t.names[idx] }

// Len returns the number of distinct global names interned so far.
func (t *SymTab) Len() int { return len(t.names) }
