// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// ModuleRow is one decoded row of the Module table (table kind 0x00), which
// holds exactly one record identifying the current module.
type ModuleRow struct {
	Generation uint16 `json:"generation"`
	Name       uint32 `json:"name"`    // offset into the #Strings heap
	Mvid       uint32 `json:"mvid"`    // offset into the #GUID heap
	EncID      uint32 `json:"enc_id"`  // offset into the #GUID heap
	EncBaseID  uint32 `json:"enc_base_id"`
}

func moduleRowFrom(g *GenericRow) *ModuleRow {
	r := &ModuleRow{}
	r.Generation = u16val(g, "Generation")
	r.Name, _ = g.Value("Name")
	r.Mvid, _ = g.Value("Mvid")
	r.EncID, _ = g.Value("EncId")
	r.EncBaseID, _ = g.Value("EncBaseId")
	return r
}

// TypeRefRow is one decoded row of the TypeRef table (0x01).
type TypeRefRow struct {
	ResolutionScope uint32 `json:"resolution_scope"` // coded ResolutionScope
	Name            uint32 `json:"name"`
	Namespace       uint32 `json:"namespace"`
}

func typeRefRowFrom(g *GenericRow) *TypeRefRow {
	r := &TypeRefRow{}
	r.ResolutionScope, _ = g.Value("ResolutionScope")
	r.Name, _ = g.Value("Name")
	r.Namespace, _ = g.Value("Namespace")
	return r
}

// ResolvedScope decodes the ResolutionScope coded index into its target
// table and 1-based row id.
func (r *TypeRefRow) ResolvedScope() (TableKind, uint32, error) {
	return DecodeCodedIndex("ResolutionScope", r.ResolutionScope)
}

// TypeDefRow is one decoded row of the TypeDef table (0x02).
type TypeDefRow struct {
	Flags      uint32 `json:"flags"`
	Name       uint32 `json:"name"`
	Namespace  uint32 `json:"namespace"`
	Extends    uint32 `json:"extends"` // coded TypeDefOrRef
	FieldList  uint32 `json:"field_list"`
	MethodList uint32 `json:"method_list"`
}

func typeDefRowFrom(g *GenericRow) *TypeDefRow {
	r := &TypeDefRow{}
	r.Flags, _ = g.Value("Flags")
	r.Name, _ = g.Value("Name")
	r.Namespace, _ = g.Value("Namespace")
	r.Extends, _ = g.Value("Extends")
	r.FieldList, _ = g.Value("FieldList")
	r.MethodList, _ = g.Value("MethodList")
	return r
}

// MethodDefRow is one decoded row of the MethodDef table (0x06).
type MethodDefRow struct {
	RVA        uint32 `json:"rva"`
	ImplFlags  uint16 `json:"impl_flags"`
	Flags      uint16 `json:"flags"`
	Name       uint32 `json:"name"`
	Signature  uint32 `json:"signature"`
	ParamList  uint32 `json:"param_list"`
}

func methodDefRowFrom(g *GenericRow) *MethodDefRow {
	r := &MethodDefRow{}
	r.RVA, _ = g.Value("RVA")
	r.ImplFlags = u16val(g, "ImplFlags")
	r.Flags = u16val(g, "Flags")
	r.Name, _ = g.Value("Name")
	r.Signature, _ = g.Value("Signature")
	r.ParamList, _ = g.Value("ParamList")
	return r
}

// ParamRow is one decoded row of the Param table (0x08).
type ParamRow struct {
	Flags    uint16 `json:"flags"`
	Sequence uint16 `json:"sequence"`
	Name     uint32 `json:"name"`
}

func paramRowFrom(g *GenericRow) *ParamRow {
	r := &ParamRow{}
	r.Flags = u16val(g, "Flags")
	r.Sequence = u16val(g, "Sequence")
	r.Name, _ = g.Value("Name")
	return r
}

// AssemblyRow is one decoded row of the Assembly table (0x20). It should
// appear at most once, in the prime module's metadata. Named AssemblyRow,
// distinct from the Assembly loaded-file type, so neither can be mistaken
// for the other.
type AssemblyRow struct {
	HashAlgID      uint32 `json:"hash_alg_id"`
	MajorVersion   uint16 `json:"major_version"`
	MinorVersion   uint16 `json:"minor_version"`
	BuildNumber    uint16 `json:"build_number"`
	RevisionNumber uint16 `json:"revision_number"`
	Flags          uint32 `json:"flags"`
	PublicKey      uint32 `json:"public_key"`
	Name           uint32 `json:"name"`
	Culture        uint32 `json:"culture"`
}

func assemblyRowFrom(g *GenericRow) *AssemblyRow {
	r := &AssemblyRow{}
	r.HashAlgID, _ = g.Value("HashAlgId")
	r.MajorVersion = u16val(g, "MajorVersion")
	r.MinorVersion = u16val(g, "MinorVersion")
	r.BuildNumber = u16val(g, "BuildNumber")
	r.RevisionNumber = u16val(g, "RevisionNumber")
	r.Flags, _ = g.Value("Flags")
	r.PublicKey, _ = g.Value("PublicKey")
	r.Name, _ = g.Value("Name")
	r.Culture, _ = g.Value("Culture")
	return r
}

// AssemblyRefRow is one decoded row of the AssemblyRef table (0x23).
type AssemblyRefRow struct {
	MajorVersion     uint16 `json:"major_version"`
	MinorVersion     uint16 `json:"minor_version"`
	BuildNumber      uint16 `json:"build_number"`
	RevisionNumber   uint16 `json:"revision_number"`
	Flags            uint32 `json:"flags"`
	PublicKeyOrToken uint32 `json:"public_key_or_token"`
	Name             uint32 `json:"name"`
	Culture          uint32 `json:"culture"`
	HashValue        uint32 `json:"hash_value"`
}

func assemblyRefRowFrom(g *GenericRow) *AssemblyRefRow {
	r := &AssemblyRefRow{}
	r.MajorVersion = u16val(g, "MajorVersion")
	r.MinorVersion = u16val(g, "MinorVersion")
	r.BuildNumber = u16val(g, "BuildNumber")
	r.RevisionNumber = u16val(g, "RevisionNumber")
	r.Flags, _ = g.Value("Flags")
	r.PublicKeyOrToken, _ = g.Value("PublicKeyOrToken")
	r.Name, _ = g.Value("Name")
	r.Culture, _ = g.Value("Culture")
	r.HashValue, _ = g.Value("HashValue")
	return r
}

// CustomAttributeRow is one decoded row of the CustomAttribute table (0x0C).
type CustomAttributeRow struct {
	Parent uint32 `json:"parent"` // coded HasCustomAttribute
	Type   uint32 `json:"type"`   // coded CustomAttributeType
	Value  uint32 `json:"value"`
}

func customAttributeRowFrom(g *GenericRow) *CustomAttributeRow {
	r := &CustomAttributeRow{}
	r.Parent, _ = g.Value("Parent")
	r.Type, _ = g.Value("Type")
	r.Value, _ = g.Value("Value")
	return r
}

// TargetRow decodes the Parent column's HasCustomAttribute coded index into
// its target table and 1-based row id.
func (r *CustomAttributeRow) TargetRow() (TableKind, uint32, error) {
	return DecodeCodedIndex("HasCustomAttribute", r.Parent)
}

func u16val(g *GenericRow, name string) uint16 {
	v, _ := g.Value(name)
	return uint16(v)
}
