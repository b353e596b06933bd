/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

// System symbol IDs, fixed by the Ion 1.0 specification and always present
// at the bottom of every symbol context, import or no import.
const (
	SystemSymbolIon               uint64 = 1
	SystemSymbolIon10             uint64 = 2
	SystemSymbolSymbolTable       uint64 = 3
	SystemSymbolName              uint64 = 4
	SystemSymbolVersion           uint64 = 5
	SystemSymbolImports           uint64 = 6
	SystemSymbolSymbols           uint64 = 7
	SystemSymbolMaxID             uint64 = 8
	SystemSymbolSharedSymbolTable uint64 = 9
)

// A SymbolTable maps binary-representation symbol IDs to text-representation
// strings and vice versa.
type SymbolTable interface {
	// Imports returns the symbol tables this table imports.
	Imports() []SharedSymbolTable
	// Symbols returns the symbols this symbol table defines locally.
	Symbols() []string
	// MaxID returns the maximum ID this symbol table defines.
	MaxID() uint64
	// FindByName finds the ID of a symbol by its name.
	FindByName(symbol string) (uint64, bool)
	// FindByID finds the name of a symbol given its ID.
	FindByID(id uint64) (string, bool)
}

// A SharedSymbolTable is distributed out-of-band and referenced from a
// local SymbolTable's imports to save space.
type SharedSymbolTable interface {
	SymbolTable

	// Name returns the name of this shared symbol table.
	Name() string
	// Version returns the version of this shared symbol table.
	Version() int
	// Adjust returns a new shared symbol table limited or extended to the given max ID.
	Adjust(maxID uint64) SharedSymbolTable
}

type sst struct {
	name    string
	version int
	symbols []string
	index   map[string]uint64
	maxID   uint64
}

// NewSharedSymbolTable creates a new shared symbol table.
func NewSharedSymbolTable(name string, version int, symbols []string) SharedSymbolTable {
	syms := make([]string, len(symbols))
	copy(syms, symbols)

	index := buildIndex(syms, 1)

	return &sst{
		name:    name,
		version: version,
		symbols: syms,
		index:   index,
		maxID:   uint64(len(syms)),
	}
}

func (s *sst) Name() string    { return s.name }
func (s *sst) Version() int    { return s.version }
func (s *sst) Imports() []SharedSymbolTable { return nil }

func (s *sst) Symbols() []string {
	syms := make([]string, s.maxID)
	copy(syms, s.symbols)
	return syms
}

func (s *sst) MaxID() uint64 { return s.maxID }

func (s *sst) Adjust(maxID uint64) SharedSymbolTable {
	if maxID == s.maxID {
		return s
	}

	if maxID > uint64(len(s.symbols)) {
		// Old index still works, just stretch maxID out to reserve the gap.
		return &sst{name: s.name, version: s.version, symbols: s.symbols, index: s.index, maxID: maxID}
	}

	symbols := s.symbols[:maxID]
	index := buildIndex(symbols, 1)
	return &sst{name: s.name, version: s.version, symbols: symbols, index: index, maxID: maxID}
}

func (s *sst) FindByName(sym string) (uint64, bool) {
	id, ok := s.index[sym]
	return id, ok
}

func (s *sst) FindByID(id uint64) (string, bool) {
	if id <= 0 || id > uint64(len(s.symbols)) {
		return "", false
	}
	return s.symbols[id-1], true
}

// V1SystemSymbolTable is the (implied) system symbol table for Ion 1.0.
var V1SystemSymbolTable = NewSharedSymbolTable("$ion", 1, []string{
	"$ion",
	"$ion_1_0",
	"$ion_symbol_table",
	"name",
	"version",
	"imports",
	"symbols",
	"max_id",
	"$ion_shared_symbol_table",
})

// A bogusSST stands in for a shared symbol table import that could not be
// resolved against the Catalog. It reserves its slice of the symbol ID
// space without being able to resolve any symbol within it, so later
// imports and locals still land on the right IDs.
type bogusSST struct {
	name    string
	version int
	maxID   uint64
}

var _ SharedSymbolTable = (*bogusSST)(nil)

func (s *bogusSST) Name() string                        { return s.name }
func (s *bogusSST) Version() int                        { return s.version }
func (s *bogusSST) Imports() []SharedSymbolTable        { return nil }
func (s *bogusSST) Symbols() []string                   { return nil }
func (s *bogusSST) MaxID() uint64                       { return s.maxID }
func (s *bogusSST) FindByName(sym string) (uint64, bool) { return 0, false }
func (s *bogusSST) FindByID(id uint64) (string, bool)    { return "", false }

func (s *bogusSST) Adjust(maxID uint64) SharedSymbolTable {
	return &bogusSST{name: s.name, version: s.version, maxID: maxID}
}

// A lst is a local symbol table: imports (each a SharedSymbolTable,
// including the always-present system table) followed by symbols declared
// directly in the stream.
type lst struct {
	imports     []SharedSymbolTable
	offsets     []uint64
	maxImportID uint64

	symbols []string
	index   map[string]uint64
}

// NewLocalSymbolTable creates a new local symbol table importing imports
// (the system table is prepended automatically if absent) followed by symbols.
func NewLocalSymbolTable(imports []SharedSymbolTable, symbols []string) SymbolTable {
	imps, offsets, maxID := processImports(imports)
	syms := make([]string, len(symbols))
	copy(syms, symbols)

	index := buildIndex(syms, maxID+1)

	return &lst{
		imports:     imps,
		offsets:     offsets,
		maxImportID: maxID,
		symbols:     syms,
		index:       index,
	}
}

func (t *lst) Imports() []SharedSymbolTable {
	imps := make([]SharedSymbolTable, len(t.imports))
	copy(imps, t.imports)
	return imps
}

func (t *lst) Symbols() []string {
	syms := make([]string, len(t.symbols))
	copy(syms, t.symbols)
	return syms
}

func (t *lst) MaxID() uint64 {
	return t.maxImportID + uint64(len(t.symbols))
}

func (t *lst) FindByName(s string) (uint64, bool) {
	for i, imp := range t.imports {
		if id, ok := imp.FindByName(s); ok {
			return t.offsets[i] + id, true
		}
	}

	if id, ok := t.index[s]; ok {
		return id, true
	}

	return 0, false
}

func (t *lst) FindByID(id uint64) (string, bool) {
	if id <= 0 {
		return "", false
	}
	if id <= t.maxImportID {
		return t.findByIDInImports(id)
	}

	idx := id - t.maxImportID - 1
	if idx < uint64(len(t.symbols)) {
		return t.symbols[idx], true
	}

	return "", false
}

func (t *lst) findByIDInImports(id uint64) (string, bool) {
	i := 1
	off := uint64(0)

	for ; i < len(t.imports); i++ {
		if id <= t.offsets[i] {
			break
		}
		off = t.offsets[i]
	}

	return t.imports[i-1].FindByID(id - off)
}

// processImports prepends V1SystemSymbolTable if it isn't already the first
// import, then computes each import's starting offset into the ID space.
func processImports(imports []SharedSymbolTable) ([]SharedSymbolTable, []uint64, uint64) {
	var imps []SharedSymbolTable
	if len(imports) > 0 && imports[0].Name() == "$ion" {
		imps = make([]SharedSymbolTable, len(imports))
		copy(imps, imports)
	} else {
		imps = make([]SharedSymbolTable, len(imports)+1)
		imps[0] = V1SystemSymbolTable
		copy(imps[1:], imports)
	}

	maxID := uint64(0)
	offsets := make([]uint64, len(imps))
	for i, imp := range imps {
		offsets[i] = maxID
		maxID += imp.MaxID()
	}

	return imps, offsets, maxID
}

// buildIndex builds an index from symbol name to symbol ID, preferring the
// earliest occurrence of a duplicated name (lower ID wins).
func buildIndex(symbols []string, offset uint64) map[string]uint64 {
	index := make(map[string]uint64)

	for i, sym := range symbols {
		if sym != "" {
			if _, ok := index[sym]; !ok {
				index[sym] = offset + uint64(i)
			}
		}
	}

	return index
}

// A SymbolContext is the address space a decoder resolves symbol IDs
// against at a given point in the stream. It is itself a SymbolTable,
// layered on a base (the system table, or an entire prior SymbolContext)
// plus the symbols declared by the most recently read local symbol table -
// which is what lets "append mode" (spec.md §4.B) reuse a whole previous
// context as the base of the next one without flattening it.
type SymbolContext struct {
	base   SymbolTable
	locals []string
	index  map[string]uint64
}

var _ SymbolTable = (*SymbolContext)(nil)

// defaultSymbolContext returns the context in effect at the start of a
// stream, before any local symbol table has been seen: the system table
// alone.
func defaultSymbolContext() *SymbolContext {
	base := NewLocalSymbolTable(nil, nil)
	return &SymbolContext{base: base, index: buildIndex(nil, base.MaxID()+1)}
}

// withReset returns the context produced by a "reset mode" local symbol
// table: existing imports and locals are discarded, replaced by imports
// (the system table is implicitly still present) and symbols.
func (c *SymbolContext) withReset(imports []SharedSymbolTable, symbols []string) *SymbolContext {
	base := NewLocalSymbolTable(imports, nil)
	syms := make([]string, len(symbols))
	copy(syms, symbols)
	return &SymbolContext{base: base, locals: syms, index: buildIndex(syms, base.MaxID()+1)}
}

// withAppended returns the context produced by an "append mode" local
// symbol table: the entire current context becomes the base, and symbols
// are appended after it.
func (c *SymbolContext) withAppended(symbols []string) *SymbolContext {
	syms := make([]string, len(symbols))
	copy(syms, symbols)
	return &SymbolContext{base: c, locals: syms, index: buildIndex(syms, c.MaxID()+1)}
}

func (c *SymbolContext) Imports() []SharedSymbolTable { return c.base.Imports() }

func (c *SymbolContext) Symbols() []string {
	syms := make([]string, len(c.locals))
	copy(syms, c.locals)
	return syms
}

func (c *SymbolContext) MaxID() uint64 {
	return c.base.MaxID() + uint64(len(c.locals))
}

func (c *SymbolContext) FindByName(s string) (uint64, bool) {
	if id, ok := c.base.FindByName(s); ok {
		return id, true
	}
	if id, ok := c.index[s]; ok {
		return id, true
	}
	return 0, false
}

func (c *SymbolContext) FindByID(id uint64) (string, bool) {
	baseMax := c.base.MaxID()
	if id <= baseMax {
		return c.base.FindByID(id)
	}

	idx := id - baseMax - 1
	if idx < uint64(len(c.locals)) && c.locals[idx] != "" {
		return c.locals[idx], true
	}
	return "", false
}

// Resolve returns the text bound to id in this context, or a
// SymbolNotFoundError if id is unassigned or falls in an unresolved
// import's reserved range.
func (c *SymbolContext) Resolve(id uint64, offset uint64) (string, error) {
	name, ok := c.FindByID(id)
	if !ok {
		return "", &SymbolNotFoundError{ID: id, Offset: offset}
	}
	return name, nil
}
