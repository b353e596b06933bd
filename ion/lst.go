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

// applyLocalSymbolTable interprets a struct wrapped by a $ion_symbol_table
// annotation and returns the SymbolContext it produces. wrapped's "imports"
// field selects between two modes: naming the symbol $ion_symbol_table
// means "append mode" (the current context becomes the new context's base,
// and "symbols" is appended after it); anything else is "reset mode" (the
// current context is discarded, replaced by imports plus symbols).
func (d *Decoder) applyLocalSymbolTable(wrapped Value) (*SymbolContext, error) {
	var importsField *Value
	var symbolsField *Value

	for i := range wrapped.Fields {
		f := &wrapped.Fields[i]
		switch f.Name {
		case "imports":
			if importsField == nil {
				importsField = &f.Value
			}
		case "symbols":
			if symbolsField == nil {
				symbolsField = &f.Value
			}
		}
	}

	syms := readLocalSymbols(symbolsField)

	if importsField != nil && importsField.Type == SymbolType && !importsField.IsNull && importsField.Text == "$ion_symbol_table" {
		return d.ctx.withAppended(syms), nil
	}

	imps, err := d.readLocalImports(importsField)
	if err != nil {
		return nil, err
	}

	return d.ctx.withReset(imps, syms), nil
}

// readLocalImports resolves an "imports" field's list of import structs
// against the decoder's catalog. A nil, null, or non-list field yields no
// imports, matching the absence of the field entirely.
func (d *Decoder) readLocalImports(field *Value) ([]SharedSymbolTable, error) {
	if field == nil || field.IsNull || field.Type != ListType {
		return nil, nil
	}

	var imps []SharedSymbolTable
	for _, elem := range field.Elements {
		imp, err := d.resolveImport(elem)
		if err != nil {
			return nil, err
		}
		if imp != nil {
			imps = append(imps, imp)
		}
	}
	return imps, nil
}

// resolveImport resolves a single {name, version, max_id} import struct
// against the catalog, falling back to a bogusSST that reserves the
// declared ID range without resolving any symbol in it.
func (d *Decoder) resolveImport(elem Value) (SharedSymbolTable, error) {
	if elem.Type != StructType || elem.IsNull {
		return nil, nil
	}

	name := ""
	version := -1
	maxID := int64(-1)

	for _, f := range elem.Fields {
		switch f.Name {
		case "name":
			if f.Value.Type == StringType && !f.Value.IsNull {
				name = f.Value.Text
			}
		case "version":
			if f.Value.Type == IntType && !f.Value.IsNull {
				version = int(f.Value.Int)
			}
		case "max_id":
			if f.Value.Type == IntType {
				if f.Value.IsNull {
					return nil, &SyntaxError{Msg: "import max_id cannot be null"}
				}
				maxID = f.Value.Int
			}
		}
	}

	if name == "" || name == "$ion" {
		return nil, nil
	}
	if version < 1 {
		version = 1
	}

	imp := d.cfg.catalog.FindExact(name, version)
	if imp == nil {
		imp = d.cfg.catalog.FindLatest(name)
	}

	if maxID < 0 {
		if imp == nil || version != imp.Version() {
			return nil, &SyntaxError{Msg: "import of shared table " + name + " lacks a valid max_id, and no exact match was found in the catalog"}
		}
		maxID = int64(imp.MaxID())
	}

	if imp == nil {
		return &bogusSST{name: name, version: version, maxID: uint64(maxID)}, nil
	}
	return imp.Adjust(uint64(maxID)), nil
}

// readLocalSymbols reads a "symbols" field's list of new local symbols.
// Non-string entries reserve their slot in the ID space without ever
// resolving, represented here as an empty string placeholder.
func readLocalSymbols(field *Value) []string {
	if field == nil || field.IsNull || field.Type != ListType {
		return nil
	}

	syms := make([]string, len(field.Elements))
	for i, elem := range field.Elements {
		if elem.Type == StringType && !elem.IsNull {
			syms[i] = elem.Text
		}
	}
	return syms
}
