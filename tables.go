// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// fieldKind identifies how one column of a metadata table row is encoded.
type fieldKind int

const (
	fU16 fieldKind = iota
	fU32
	fStringHeap
	fGUIDHeap
	fBlobHeap
	fSimpleRef
	fCoded
)

// fieldSpec describes one column of a table row.
type fieldSpec struct {
	name   string
	kind   fieldKind
	target TableKind         // for fSimpleRef
	scheme *codedIndexScheme // for fCoded
}

// tableSchema is the ordered column list for one table kind.
type tableSchema struct {
	kind   TableKind
	fields []fieldSpec
}

func f(name string, kind fieldKind) fieldSpec { return fieldSpec{name: name, kind: kind} }
func fRef(name string, target TableKind) fieldSpec {
	return fieldSpec{name: name, kind: fSimpleRef, target: target}
}
func fCodedRef(name string, s *codedIndexScheme) fieldSpec {
	return fieldSpec{name: name, kind: fCoded, scheme: s}
}

// schemas holds the column layout of every one of the 45 table slots ECMA-335
// numbers. FieldPtr/MethodPtr/ParamPtr/EventPtr/PropertyPtr/ENCLog/ENCMap are
// included for completeness — they never appear in an optimized #~ stream,
// but a Valid bit set for one (an edit-and-continue or malformed image) must
// still resolve to a correct row width so every table after it keeps lining
// up.
var schemas = [numTableKinds]tableSchema{
	TblModule: {TblModule, []fieldSpec{
		f("Generation", fU16), f("Name", fStringHeap), f("Mvid", fGUIDHeap),
		f("EncId", fGUIDHeap), f("EncBaseId", fGUIDHeap),
	}},
	TblTypeRef: {TblTypeRef, []fieldSpec{
		fCodedRef("ResolutionScope", &schemeResolutionScope),
		f("Name", fStringHeap), f("Namespace", fStringHeap),
	}},
	TblTypeDef: {TblTypeDef, []fieldSpec{
		f("Flags", fU32), f("Name", fStringHeap), f("Namespace", fStringHeap),
		fCodedRef("Extends", &schemeTypeDefOrRef),
		fRef("FieldList", TblField), fRef("MethodList", TblMethodDef),
	}},
	TblFieldPtr: {TblFieldPtr, []fieldSpec{fRef("Field", TblField)}},
	TblField: {TblField, []fieldSpec{
		f("Flags", fU16), f("Name", fStringHeap), f("Signature", fBlobHeap),
	}},
	TblMethodPtr: {TblMethodPtr, []fieldSpec{fRef("Method", TblMethodDef)}},
	TblMethodDef: {TblMethodDef, []fieldSpec{
		f("RVA", fU32), f("ImplFlags", fU16), f("Flags", fU16),
		f("Name", fStringHeap), f("Signature", fBlobHeap),
		fRef("ParamList", TblParam),
	}},
	TblParamPtr: {TblParamPtr, []fieldSpec{fRef("Param", TblParam)}},
	TblParam: {TblParam, []fieldSpec{
		f("Flags", fU16), f("Sequence", fU16), f("Name", fStringHeap),
	}},
	TblInterfaceImpl: {TblInterfaceImpl, []fieldSpec{
		fRef("Class", TblTypeDef), fCodedRef("Interface", &schemeTypeDefOrRef),
	}},
	TblMemberRef: {TblMemberRef, []fieldSpec{
		fCodedRef("Class", &schemeMemberRefParent),
		f("Name", fStringHeap), f("Signature", fBlobHeap),
	}},
	TblConstant: {TblConstant, []fieldSpec{
		f("Type", fU16), fCodedRef("Parent", &schemeHasConstant), f("Value", fBlobHeap),
	}},
	TblCustomAttribute: {TblCustomAttribute, []fieldSpec{
		fCodedRef("Parent", &schemeHasCustomAttribute),
		fCodedRef("Type", &schemeCustomAttributeType),
		f("Value", fBlobHeap),
	}},
	TblFieldMarshal: {TblFieldMarshal, []fieldSpec{
		fCodedRef("Parent", &schemeHasFieldMarshal), f("NativeType", fBlobHeap),
	}},
	TblDeclSecurity: {TblDeclSecurity, []fieldSpec{
		f("Action", fU16), fCodedRef("Parent", &schemeHasDeclSecurity),
		f("PermissionSet", fBlobHeap),
	}},
	TblClassLayout: {TblClassLayout, []fieldSpec{
		f("PackingSize", fU16), f("ClassSize", fU32), fRef("Parent", TblTypeDef),
	}},
	TblFieldLayout: {TblFieldLayout, []fieldSpec{
		f("Offset", fU32), fRef("Field", TblField),
	}},
	TblStandAloneSig: {TblStandAloneSig, []fieldSpec{f("Signature", fBlobHeap)}},
	TblEventMap: {TblEventMap, []fieldSpec{
		fRef("Parent", TblTypeDef), fRef("EventList", TblEvent),
	}},
	TblEventPtr: {TblEventPtr, []fieldSpec{fRef("Event", TblEvent)}},
	TblEvent: {TblEvent, []fieldSpec{
		f("EventFlags", fU16), f("Name", fStringHeap),
		fCodedRef("EventType", &schemeTypeDefOrRef),
	}},
	TblPropertyMap: {TblPropertyMap, []fieldSpec{
		fRef("Parent", TblTypeDef), fRef("PropertyList", TblProperty),
	}},
	TblPropertyPtr: {TblPropertyPtr, []fieldSpec{fRef("Property", TblProperty)}},
	TblProperty: {TblProperty, []fieldSpec{
		f("Flags", fU16), f("Name", fStringHeap), f("Type", fBlobHeap),
	}},
	TblMethodSemantics: {TblMethodSemantics, []fieldSpec{
		f("Semantics", fU16), fRef("Method", TblMethodDef),
		fCodedRef("Association", &schemeHasSemantics),
	}},
	TblMethodImpl: {TblMethodImpl, []fieldSpec{
		fRef("Class", TblTypeDef),
		fCodedRef("MethodBody", &schemeMethodDefOrRef),
		fCodedRef("MethodDeclaration", &schemeMethodDefOrRef),
	}},
	TblModuleRef:    {TblModuleRef, []fieldSpec{f("Name", fStringHeap)}},
	TblTypeSpec:     {TblTypeSpec, []fieldSpec{f("Signature", fBlobHeap)}},
	TblImplMap: {TblImplMap, []fieldSpec{
		f("MappingFlags", fU16), fCodedRef("MemberForwarded", &schemeMemberForwarded),
		f("ImportName", fStringHeap), fRef("ImportScope", TblModuleRef),
	}},
	TblFieldRVA: {TblFieldRVA, []fieldSpec{f("RVA", fU32), fRef("Field", TblField)}},
	TblENCLog:   {TblENCLog, []fieldSpec{f("Token", fU32), f("FuncCode", fU32)}},
	TblENCMap:   {TblENCMap, []fieldSpec{f("Token", fU32)}},
	TblAssembly: {TblAssembly, []fieldSpec{
		f("HashAlgId", fU32), f("MajorVersion", fU16), f("MinorVersion", fU16),
		f("BuildNumber", fU16), f("RevisionNumber", fU16), f("Flags", fU32),
		f("PublicKey", fBlobHeap), f("Name", fStringHeap), f("Culture", fStringHeap),
	}},
	TblAssemblyProcessor: {TblAssemblyProcessor, []fieldSpec{f("Processor", fU32)}},
	TblAssemblyOS: {TblAssemblyOS, []fieldSpec{
		f("OSPlatformID", fU32), f("OSMajorVersion", fU32), f("OSMinorVersion", fU32),
	}},
	TblAssemblyRef: {TblAssemblyRef, []fieldSpec{
		f("MajorVersion", fU16), f("MinorVersion", fU16), f("BuildNumber", fU16),
		f("RevisionNumber", fU16), f("Flags", fU32), f("PublicKeyOrToken", fBlobHeap),
		f("Name", fStringHeap), f("Culture", fStringHeap), f("HashValue", fBlobHeap),
	}},
	TblAssemblyRefProcessor: {TblAssemblyRefProcessor, []fieldSpec{
		f("Processor", fU32), fRef("AssemblyRef", TblAssemblyRef),
	}},
	TblAssemblyRefOS: {TblAssemblyRefOS, []fieldSpec{
		f("OSPlatformID", fU32), f("OSMajorVersion", fU32), f("OSMinorVersion", fU32),
		fRef("AssemblyRef", TblAssemblyRef),
	}},
	TblFile: {TblFile, []fieldSpec{
		f("Flags", fU32), f("Name", fStringHeap), f("HashValue", fBlobHeap),
	}},
	TblExportedType: {TblExportedType, []fieldSpec{
		f("Flags", fU32), f("TypeDefId", fU32), f("TypeName", fStringHeap),
		f("TypeNamespace", fStringHeap), fCodedRef("Implementation", &schemeImplementation),
	}},
	TblManifestResource: {TblManifestResource, []fieldSpec{
		f("Offset", fU32), f("Flags", fU32), f("Name", fStringHeap),
		fCodedRef("Implementation", &schemeImplementation),
	}},
	TblNestedClass: {TblNestedClass, []fieldSpec{
		fRef("NestedClass", TblTypeDef), fRef("EnclosingClass", TblTypeDef),
	}},
	TblGenericParam: {TblGenericParam, []fieldSpec{
		f("Number", fU16), f("Flags", fU16),
		fCodedRef("Owner", &schemeTypeOrMethodDef), f("Name", fStringHeap),
	}},
	TblMethodSpec: {TblMethodSpec, []fieldSpec{
		fCodedRef("Method", &schemeMethodDefOrRef), f("Instantiation", fBlobHeap),
	}},
	TblGenericParamConstraint: {TblGenericParamConstraint, []fieldSpec{
		fRef("Owner", TblGenericParam), fCodedRef("Constraint", &schemeTypeDefOrRef),
	}},
}

// fieldWidth returns the byte width of one field given the assembly's
// resolved index sizes.
func fieldWidth(spec fieldSpec, is *IndexSizes) uint8 {
	switch spec.kind {
	case fU16:
		return 2
	case fU32:
		return 4
	case fStringHeap:
		return is.String
	case fGUIDHeap:
		return is.GUID
	case fBlobHeap:
		return is.Blob
	case fSimpleRef:
		return is.Table[spec.target]
	case fCoded:
		return codedWidth(spec.scheme, is)
	}
	return 0
}

func codedWidth(s *codedIndexScheme, is *IndexSizes) uint8 {
	switch s.name {
	case "TypeDefOrRef":
		return is.TypeDefOrRef
	case "HasConstant":
		return is.HasConstant
	case "HasCustomAttribute":
		return is.HasCustomAttribute
	case "HasFieldMarshal":
		return is.HasFieldMarshal
	case "HasDeclSecurity":
		return is.HasDeclSecurity
	case "MemberRefParent":
		return is.MemberRefParent
	case "HasSemantics":
		return is.HasSemantics
	case "MethodDefOrRef":
		return is.MethodDefOrRef
	case "MemberForwarded":
		return is.MemberForwarded
	case "Implementation":
		return is.Implementation
	case "CustomAttributeType":
		return is.CustomAttributeType
	case "ResolutionScope":
		return is.ResolutionScope
	case "TypeOrMethodDef":
		return is.TypeOrMethodDef
	}
	return 2
}

// rowSize computes the fixed byte width of one row of kind k, given the
// assembly's resolved index sizes. It never reads file bytes.
func rowSize(k TableKind, is *IndexSizes) (uint32, error) {
	if k < 0 || k >= numTableKinds || schemas[k].fields == nil {
		return 0, &UnknownTableKindError{Kind: k}
	}
	var size uint32
	for _, spec := range schemas[k].fields {
		size += uint32(fieldWidth(spec, is))
	}
	return size, nil
}

// GenericRow is the decoded form of one row of a table with no dedicated
// Go struct. Values holds one raw uint32 per column, in schema order; for
// heap-referencing or simple-table-referencing columns the value is the
// heap offset or 1-based row id, unresolved. Use Value to look a column up
// by name.
type GenericRow struct {
	Kind   TableKind
	Fields []string
	Values []uint32
}

// Value returns the raw value of the named column.
func (r *GenericRow) Value(name string) (uint32, bool) {
	for i, n := range r.Fields {
		if n == name {
			return r.Values[i], true
		}
	}
	return 0, false
}

// Table is one metadata table: a view into the table stream's bytes plus
// the row count and row width needed to address any row without decoding
// the others.
type Table struct {
	kind     TableKind
	data     []byte
	rowCount uint32
	rowSize  uint32
	is       *IndexSizes
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() uint32 { return t.rowCount }

// Kind returns the table's kind.
func (t *Table) Kind() TableKind { return t.kind }

func (t *Table) rowBytes(rid uint32) ([]byte, error) {
	if rid == 0 || rid > t.rowCount {
		return nil, &IndexOutOfBoundsError{Container: t.kind.String(), Index: rid, Len: t.rowCount}
	}
	start := (rid - 1) * t.rowSize
	return t.data[start : start+t.rowSize], nil
}

// decodeGeneric decodes row rid (1-based) using the table's schema,
// resolving every column to a raw uint32 (a heap offset, a 1-based row id,
// or a coded index's packed tag+rid value).
func (t *Table) decodeGeneric(rid uint32) (*GenericRow, error) {
	raw, err := t.rowBytes(rid)
	if err != nil {
		return nil, err
	}
	schema := schemas[t.kind]
	c := newCursor(raw)
	row := &GenericRow{Kind: t.kind}
	for _, spec := range schema.fields {
		var v uint32
		switch spec.kind {
		case fU16:
			x, err := c.U16()
			if err != nil {
				return nil, err
			}
			v = uint32(x)
		case fU32:
			v, err = c.U32()
			if err != nil {
				return nil, err
			}
		case fStringHeap:
			v, err = readIndex(c, t.is.String)
		case fGUIDHeap:
			v, err = readIndex(c, t.is.GUID)
		case fBlobHeap:
			v, err = readIndex(c, t.is.Blob)
		case fSimpleRef:
			v, err = readIndex(c, t.is.Table[spec.target])
		case fCoded:
			v, err = readIndex(c, codedWidth(spec.scheme, t.is))
		}
		if err != nil {
			return nil, err
		}
		row.Fields = append(row.Fields, spec.name)
		row.Values = append(row.Values, v)
	}
	return row, nil
}

// Row decodes row rid (1-based). Tables with a dedicated Go type (Module,
// TypeDef, TypeRef, MethodDef, Param, Assembly, AssemblyRef,
// CustomAttribute) return that type; every other table returns *GenericRow.
func (t *Table) Row(rid uint32) (interface{}, error) {
	g, err := t.decodeGeneric(rid)
	if err != nil {
		return nil, err
	}
	switch t.kind {
	case TblModule:
		return moduleRowFrom(g), nil
	case TblTypeRef:
		return typeRefRowFrom(g), nil
	case TblTypeDef:
		return typeDefRowFrom(g), nil
	case TblMethodDef:
		return methodDefRowFrom(g), nil
	case TblParam:
		return paramRowFrom(g), nil
	case TblAssembly:
		return assemblyRowFrom(g), nil
	case TblAssemblyRef:
		return assemblyRefRowFrom(g), nil
	case TblCustomAttribute:
		return customAttributeRowFrom(g), nil
	default:
		return g, nil
	}
}
