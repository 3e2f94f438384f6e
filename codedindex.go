// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// codedIndexScheme describes one of ECMA-335's coded-index encodings: a
// small tag, packed into the index's low bits, selects which of several
// target tables the remaining bits index into. A target of -1 marks a tag
// value the format reserves but never assigns a table to (CustomAttributeType
// tags 0, 1 and 4).
type codedIndexScheme struct {
	name    string
	tagBits uint8
	targets []TableKind
}

const noTarget TableKind = -1

var (
	schemeTypeDefOrRef = codedIndexScheme{"TypeDefOrRef", 2,
		[]TableKind{TblTypeDef, TblTypeRef, TblTypeSpec}}
	schemeHasConstant = codedIndexScheme{"HasConstant", 2,
		[]TableKind{TblField, TblParam, TblProperty}}
	schemeHasCustomAttribute = codedIndexScheme{"HasCustomAttribute", 5,
		[]TableKind{
			TblMethodDef, TblField, TblTypeRef, TblTypeDef, TblParam,
			TblInterfaceImpl, TblMemberRef, TblModule, TblDeclSecurity,
			TblProperty, TblEvent, TblStandAloneSig, TblModuleRef,
			TblTypeSpec, TblAssembly, TblAssemblyRef, TblFile,
			TblExportedType, TblManifestResource, TblGenericParam,
			TblGenericParamConstraint, TblMethodSpec,
		}}
	schemeHasFieldMarshal = codedIndexScheme{"HasFieldMarshal", 1,
		[]TableKind{TblField, TblParam}}
	schemeHasDeclSecurity = codedIndexScheme{"HasDeclSecurity", 2,
		[]TableKind{TblTypeDef, TblMethodDef, TblAssembly}}
	schemeMemberRefParent = codedIndexScheme{"MemberRefParent", 3,
		[]TableKind{TblTypeDef, TblTypeRef, TblModuleRef, TblMethodDef, TblTypeSpec}}
	schemeHasSemantics = codedIndexScheme{"HasSemantics", 1,
		[]TableKind{TblEvent, TblProperty}}
	schemeMethodDefOrRef = codedIndexScheme{"MethodDefOrRef", 1,
		[]TableKind{TblMethodDef, TblMemberRef}}
	schemeMemberForwarded = codedIndexScheme{"MemberForwarded", 1,
		[]TableKind{TblField, TblMethodDef}}
	schemeImplementation = codedIndexScheme{"Implementation", 2,
		[]TableKind{TblFile, TblAssemblyRef, TblExportedType}}
	schemeCustomAttributeType = codedIndexScheme{"CustomAttributeType", 3,
		[]TableKind{noTarget, noTarget, TblMethodDef, TblMemberRef, noTarget}}
	schemeResolutionScope = codedIndexScheme{"ResolutionScope", 2,
		[]TableKind{TblModule, TblModuleRef, TblAssemblyRef, TblTypeRef}}
	schemeTypeOrMethodDef = codedIndexScheme{"TypeOrMethodDef", 1,
		[]TableKind{TblTypeDef, TblMethodDef}}
)

// width returns 2 or 4: whether a coded index under this scheme needs two
// or four bytes, given how many rows each target table has.
func (s codedIndexScheme) width(rowCounts [numTableKinds]uint32) uint8 {
	threshold := uint32(1) << (16 - s.tagBits)
	for _, t := range s.targets {
		if t == noTarget {
			continue
		}
		if rowCounts[t] >= threshold {
			return 4
		}
	}
	return 2
}

// decode splits a raw coded-index value into its target table and row id.
func (s codedIndexScheme) decode(raw uint32) (TableKind, uint32, error) {
	mask := uint32(1)<<s.tagBits - 1
	tag := raw & mask
	rid := raw >> s.tagBits
	if int(tag) >= len(s.targets) || s.targets[tag] == noTarget {
		return 0, 0, &InvalidCodedTagError{Scheme: s.name, Tag: tag}
	}
	return s.targets[tag], rid, nil
}

// IndexSizes is the resolved byte width of every heap reference, simple
// table reference, and coded-index scheme a table row can contain. It is
// computed exactly once per assembly load, immediately after the table
// stream's row-count vector is read, and handed by reference into every
// row decode rather than recomputed per row.
type IndexSizes struct {
	String uint8
	GUID   uint8
	Blob   uint8

	Table [numTableKinds]uint8

	TypeDefOrRef        uint8
	HasConstant         uint8
	HasCustomAttribute  uint8
	HasFieldMarshal     uint8
	HasDeclSecurity     uint8
	MemberRefParent     uint8
	HasSemantics        uint8
	MethodDefOrRef      uint8
	MemberForwarded     uint8
	Implementation      uint8
	CustomAttributeType uint8
	ResolutionScope     uint8
	TypeOrMethodDef     uint8
}

// computeIndexSizes resolves every reference width from the per-table row
// counts read out of the #~ stream header and the HeapSizes bit vector.
func computeIndexSizes(rowCounts [numTableKinds]uint32, heapSizes uint8) *IndexSizes {
	is := &IndexSizes{}

	if IsBitSet(uint64(heapSizes), 0) {
		is.String = 4
	} else {
		is.String = 2
	}
	if IsBitSet(uint64(heapSizes), 1) {
		is.GUID = 4
	} else {
		is.GUID = 2
	}
	if IsBitSet(uint64(heapSizes), 2) {
		is.Blob = 4
	} else {
		is.Blob = 2
	}

	for k := TableKind(0); k < numTableKinds; k++ {
		if rowCounts[k] < 0x10000 {
			is.Table[k] = 2
		} else {
			is.Table[k] = 4
		}
	}

	is.TypeDefOrRef = schemeTypeDefOrRef.width(rowCounts)
	is.HasConstant = schemeHasConstant.width(rowCounts)
	is.HasCustomAttribute = schemeHasCustomAttribute.width(rowCounts)
	is.HasFieldMarshal = schemeHasFieldMarshal.width(rowCounts)
	is.HasDeclSecurity = schemeHasDeclSecurity.width(rowCounts)
	is.MemberRefParent = schemeMemberRefParent.width(rowCounts)
	is.HasSemantics = schemeHasSemantics.width(rowCounts)
	is.MethodDefOrRef = schemeMethodDefOrRef.width(rowCounts)
	is.MemberForwarded = schemeMemberForwarded.width(rowCounts)
	is.Implementation = schemeImplementation.width(rowCounts)
	is.CustomAttributeType = schemeCustomAttributeType.width(rowCounts)
	is.ResolutionScope = schemeResolutionScope.width(rowCounts)
	is.TypeOrMethodDef = schemeTypeOrMethodDef.width(rowCounts)

	return is
}

// readIndex reads a width-byte (2 or 4) little-endian index from c.
func readIndex(c *cursor, width uint8) (uint32, error) {
	if width == 2 {
		v, err := c.U16()
		return uint32(v), err
	}
	return c.U32()
}

var codedSchemesByName = map[string]*codedIndexScheme{
	schemeTypeDefOrRef.name:        &schemeTypeDefOrRef,
	schemeHasConstant.name:         &schemeHasConstant,
	schemeHasCustomAttribute.name:  &schemeHasCustomAttribute,
	schemeHasFieldMarshal.name:     &schemeHasFieldMarshal,
	schemeHasDeclSecurity.name:     &schemeHasDeclSecurity,
	schemeMemberRefParent.name:     &schemeMemberRefParent,
	schemeHasSemantics.name:        &schemeHasSemantics,
	schemeMethodDefOrRef.name:      &schemeMethodDefOrRef,
	schemeMemberForwarded.name:     &schemeMemberForwarded,
	schemeImplementation.name:      &schemeImplementation,
	schemeCustomAttributeType.name: &schemeCustomAttributeType,
	schemeResolutionScope.name:     &schemeResolutionScope,
	schemeTypeOrMethodDef.name:     &schemeTypeOrMethodDef,
}

// DecodeCodedIndex splits a coded-index raw value decoded from a table row
// into the target table kind and the 1-based row id within it. scheme is
// one of the thirteen ECMA-335 coded-index names (e.g. "TypeDefOrRef").
func DecodeCodedIndex(scheme string, raw uint32) (TableKind, uint32, error) {
	s, ok := codedSchemesByName[scheme]
	if !ok {
		return 0, 0, &InvalidCodedTagError{Scheme: scheme, Tag: raw}
	}
	return s.decode(raw)
}
