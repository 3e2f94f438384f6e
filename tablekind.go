// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// TableKind identifies one of the metadata schema's 45 table slots (ECMA-335
// §II.22). It is a distinct type, rather than a bare int, and every constant
// below carries a Tbl prefix: the bare name Assembly is reserved for the
// loaded-assembly type and AssemblyRow for a decoded row of table 0x20, so
// TblAssembly can never be mistaken for either.
type TableKind int

// Metadata table kinds, numbered exactly as ECMA-335 assigns them. FieldPtr,
// MethodPtr, ParamPtr, EventPtr, PropertyPtr, ENCLog and ENCMap are edit-and-
// continue/lookup tables that never appear in the optimized #~ stream this
// module reads, but they still occupy numbered slots and get a schema in tables.go
// so a Valid bit set for one of them (a malformed or EnC-produced file) can
// still be parsed rather than silently misreading every table after it.
const (
	TblModule TableKind = iota
	TblTypeRef
	TblTypeDef
	TblFieldPtr
	TblField
	TblMethodPtr
	TblMethodDef
	TblParamPtr
	TblParam
	TblInterfaceImpl
	TblMemberRef
	TblConstant
	TblCustomAttribute
	TblFieldMarshal
	TblDeclSecurity
	TblClassLayout
	TblFieldLayout
	TblStandAloneSig
	TblEventMap
	TblEventPtr
	TblEvent
	TblPropertyMap
	TblPropertyPtr
	TblProperty
	TblMethodSemantics
	TblMethodImpl
	TblModuleRef
	TblTypeSpec
	TblImplMap
	TblFieldRVA
	TblENCLog
	TblENCMap
	TblAssembly
	TblAssemblyProcessor
	TblAssemblyOS
	TblAssemblyRef
	TblAssemblyRefProcessor
	TblAssemblyRefOS
	TblFile
	TblExportedType
	TblManifestResource
	TblNestedClass
	TblGenericParam
	TblMethodSpec
	TblGenericParamConstraint

	numTableKinds
)

var tableKindNames = map[TableKind]string{
	TblModule:                  "Module",
	TblTypeRef:                 "TypeRef",
	TblTypeDef:                 "TypeDef",
	TblFieldPtr:                "FieldPtr",
	TblField:                   "Field",
	TblMethodPtr:               "MethodPtr",
	TblMethodDef:               "MethodDef",
	TblParamPtr:                "ParamPtr",
	TblParam:                   "Param",
	TblInterfaceImpl:           "InterfaceImpl",
	TblMemberRef:               "MemberRef",
	TblConstant:                "Constant",
	TblCustomAttribute:         "CustomAttribute",
	TblFieldMarshal:            "FieldMarshal",
	TblDeclSecurity:            "DeclSecurity",
	TblClassLayout:             "ClassLayout",
	TblFieldLayout:             "FieldLayout",
	TblStandAloneSig:           "StandAloneSig",
	TblEventMap:                "EventMap",
	TblEventPtr:                "EventPtr",
	TblEvent:                   "Event",
	TblPropertyMap:             "PropertyMap",
	TblPropertyPtr:             "PropertyPtr",
	TblProperty:                "Property",
	TblMethodSemantics:         "MethodSemantics",
	TblMethodImpl:              "MethodImpl",
	TblModuleRef:               "ModuleRef",
	TblTypeSpec:                "TypeSpec",
	TblImplMap:                 "ImplMap",
	TblFieldRVA:                "FieldRVA",
	TblENCLog:                  "ENCLog",
	TblENCMap:                  "ENCMap",
	TblAssembly:                "Assembly",
	TblAssemblyProcessor:       "AssemblyProcessor",
	TblAssemblyOS:              "AssemblyOS",
	TblAssemblyRef:             "AssemblyRef",
	TblAssemblyRefProcessor:    "AssemblyRefProcessor",
	TblAssemblyRefOS:           "AssemblyRefOS",
	TblFile:                    "File",
	TblExportedType:            "ExportedType",
	TblManifestResource:        "ManifestResource",
	TblNestedClass:             "NestedClass",
	TblGenericParam:            "GenericParam",
	TblMethodSpec:              "MethodSpec",
	TblGenericParamConstraint:  "GenericParamConstraint",
}

// String returns the table kind's ECMA-335 name, or "" if k is out of range.
func (k TableKind) String() string {
	return tableKindNames[k]
}

// MetadataTableIndexToString mirrors String for callers that still index
// tables by raw int rather than by TableKind.
func MetadataTableIndexToString(k int) string {
	return TableKind(k).String()
}
