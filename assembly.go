// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "fmt"

// Assembly is a fully parsed managed-executable image: the underlying PE
// container plus, when present, its CLI header, metadata root, heaps, and
// tables. It is immutable once returned from Load/LoadBytes — every heap and
// table view is a non-owning slice into the File's own byte buffer, so an
// Assembly must not outlive the File.Close call that releases that buffer.
//
// Assembly is distinct from AssemblyRow: AssemblyRow is one decoded row of
// the Assembly metadata table (kind 0x20); Assembly is the loaded file.
type Assembly struct {
	*File
	path string
}

// Load memory-maps the file at path, parses its PE container and, if
// present, its CLR metadata, and returns the resulting Assembly.
func Load(path string, opts *Options) (*Assembly, error) {
	f, err := New(path, opts)
	if err != nil {
		return nil, err
	}
	if err := f.Parse(); err != nil {
		f.Close()
		return nil, err
	}
	return &Assembly{File: f, path: path}, nil
}

// LoadBytes parses a PE container and, if present, its CLR metadata, from an
// in-memory buffer rather than a file on disk.
func LoadBytes(data []byte, opts *Options) (*Assembly, error) {
	f, err := NewBytes(data, opts)
	if err != nil {
		return nil, err
	}
	if err := f.Parse(); err != nil {
		return nil, err
	}
	return &Assembly{File: f}, nil
}

// Path returns the filesystem path the Assembly was loaded from, or "" for
// an Assembly loaded from an in-memory buffer.
func (a *Assembly) Path() string { return a.path }

// HasMetadata reports whether the image carries a CLI metadata root at all
// (a native, non-managed PE has none).
func (a *Assembly) HasMetadata() bool { return a.HasCLR }

// Table returns the decoded table of kind k, or nil if that table is not
// present (the corresponding Valid bit was unset).
func (a *Assembly) Table(k TableKind) *Table { return a.CLR.Tables[k] }

// Row decodes row rid (1-based) of table kind k.
func (a *Assembly) Row(k TableKind, rid uint32) (interface{}, error) {
	t := a.Table(k)
	if t == nil {
		return nil, &MissingStreamError{Name: k.String()}
	}
	return t.Row(rid)
}

// String resolves an offset into the #Strings heap.
func (a *Assembly) String(offset uint32) (string, error) {
	return a.CLR.Strings.Get(offset)
}

// UserString resolves an offset into the #US heap.
func (a *Assembly) UserString(offset uint32) (string, error) {
	return a.CLR.UserStrings.Get(offset)
}

// Blob resolves an offset into the #Blob heap.
func (a *Assembly) Blob(offset uint32) ([]byte, error) {
	return a.CLR.Blobs.Get(offset)
}

// GUID resolves a 1-based index into the #GUID heap.
func (a *Assembly) GUID(index uint32) ([16]byte, bool, error) {
	return a.CLR.GUIDs.Get(index)
}

// Module returns the single Module table row (table kind 0x00), which
// identifies the current module. Returns an error if the table is absent
// or empty.
func (a *Assembly) Module() (*ModuleRow, error) {
	row, err := a.Row(TblModule, 1)
	if err != nil {
		return nil, err
	}
	mr, ok := row.(*ModuleRow)
	if !ok {
		return nil, fmt.Errorf("unexpected row type for Module table: %T", row)
	}
	return mr, nil
}

// AssemblyRow returns the single Assembly table row (table kind 0x20), which
// should appear only in a prime module's metadata.
func (a *Assembly) AssemblyRow() (*AssemblyRow, error) {
	row, err := a.Row(TblAssembly, 1)
	if err != nil {
		return nil, err
	}
	ar, ok := row.(*AssemblyRow)
	if !ok {
		return nil, fmt.Errorf("unexpected row type for Assembly table: %T", row)
	}
	return ar, nil
}

// AssemblyRef returns the rid-th row of the AssemblyRef table (1-based).
func (a *Assembly) AssemblyRef(rid uint32) (*AssemblyRefRow, error) {
	row, err := a.Row(TblAssemblyRef, rid)
	if err != nil {
		return nil, err
	}
	ar, ok := row.(*AssemblyRefRow)
	if !ok {
		return nil, fmt.Errorf("unexpected row type for AssemblyRef table: %T", row)
	}
	return ar, nil
}

// TypeDef returns the rid-th row of the TypeDef table (1-based).
func (a *Assembly) TypeDef(rid uint32) (*TypeDefRow, error) {
	row, err := a.Row(TblTypeDef, rid)
	if err != nil {
		return nil, err
	}
	td, ok := row.(*TypeDefRow)
	if !ok {
		return nil, fmt.Errorf("unexpected row type for TypeDef table: %T", row)
	}
	return td, nil
}

// TypeRef returns the rid-th row of the TypeRef table (1-based).
func (a *Assembly) TypeRef(rid uint32) (*TypeRefRow, error) {
	row, err := a.Row(TblTypeRef, rid)
	if err != nil {
		return nil, err
	}
	tr, ok := row.(*TypeRefRow)
	if !ok {
		return nil, fmt.Errorf("unexpected row type for TypeRef table: %T", row)
	}
	return tr, nil
}

// MethodDef returns the rid-th row of the MethodDef table (1-based).
func (a *Assembly) MethodDef(rid uint32) (*MethodDefRow, error) {
	row, err := a.Row(TblMethodDef, rid)
	if err != nil {
		return nil, err
	}
	md, ok := row.(*MethodDefRow)
	if !ok {
		return nil, fmt.Errorf("unexpected row type for MethodDef table: %T", row)
	}
	return md, nil
}

// Param returns the rid-th row of the Param table (1-based).
func (a *Assembly) Param(rid uint32) (*ParamRow, error) {
	row, err := a.Row(TblParam, rid)
	if err != nil {
		return nil, err
	}
	p, ok := row.(*ParamRow)
	if !ok {
		return nil, fmt.Errorf("unexpected row type for Param table: %T", row)
	}
	return p, nil
}

// CustomAttribute returns the rid-th row of the CustomAttribute table
// (1-based).
func (a *Assembly) CustomAttribute(rid uint32) (*CustomAttributeRow, error) {
	row, err := a.Row(TblCustomAttribute, rid)
	if err != nil {
		return nil, err
	}
	ca, ok := row.(*CustomAttributeRow)
	if !ok {
		return nil, fmt.Errorf("unexpected row type for CustomAttribute table: %T", row)
	}
	return ca, nil
}
