// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "fmt"

// TruncatedInputError reports a read that ran past the end of the buffer it
// was reading from.
type TruncatedInputError struct {
	Offset uint32
	Want   uint32
	Len    uint32
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("truncated input: want %d bytes at offset %d, have %d", e.Want, e.Offset, e.Len)
}

// BadMagicError reports a container field that did not hold the magic value
// the format requires.
type BadMagicError struct {
	Where    string
	Expected uint32
	Found    uint32
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("bad magic in %s: expected 0x%X, found 0x%X", e.Where, e.Expected, e.Found)
}

// UnknownOptionalHeaderMagicError reports an optional header Magic field
// that is neither PE32 (0x10B) nor PE32+ (0x20B).
type UnknownOptionalHeaderMagicError struct {
	Found uint16
}

func (e *UnknownOptionalHeaderMagicError) Error() string {
	return fmt.Sprintf("unknown optional header magic: 0x%X", e.Found)
}

// MissingSectionError reports an RVA that does not fall inside any section.
type MissingSectionError struct {
	RVA uint32
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("rva 0x%X does not map to any section", e.RVA)
}

// MissingDataDirectoryError reports a reference to a data directory slot
// that is absent (zero RVA/size) or out of range.
type MissingDataDirectoryError struct {
	Index int
}

func (e *MissingDataDirectoryError) Error() string {
	return fmt.Sprintf("data directory %d is missing", e.Index)
}

// MissingStreamError reports a metadata stream name absent from the stream
// directory when a caller asked for it by name.
type MissingStreamError struct {
	Name string
}

func (e *MissingStreamError) Error() string {
	return fmt.Sprintf("metadata stream %q not present", e.Name)
}

// UnsupportedUncompressedTablesError reports a `#-` (uncompressed, edit-and-
// continue) table stream, which this module declines to read.
type UnsupportedUncompressedTablesError struct{}

func (e *UnsupportedUncompressedTablesError) Error() string {
	return "uncompressed (#-) metadata table stream is not supported"
}

// InvalidCompressedIntError reports a compressed-unsigned-integer lead byte
// whose top bits (1110... or 1111...) encode no defined length.
type InvalidCompressedIntError struct {
	LeadByte uint8
}

func (e *InvalidCompressedIntError) Error() string {
	return fmt.Sprintf("invalid compressed integer lead byte 0x%X", e.LeadByte)
}

// TableStreamLengthMismatchError reports that the bytes computed from row
// counts and row widths do not fit inside the stream the header claimed.
type TableStreamLengthMismatchError struct {
	Computed uint32
	Stream   uint32
}

func (e *TableStreamLengthMismatchError) Error() string {
	return fmt.Sprintf("table stream length mismatch: computed %d bytes, stream is %d bytes", e.Computed, e.Stream)
}

// InvalidCodedTagError reports a coded-index tag value outside the range a
// scheme's target table list can represent.
type InvalidCodedTagError struct {
	Scheme string
	Tag    uint32
}

func (e *InvalidCodedTagError) Error() string {
	return fmt.Sprintf("invalid tag %d for coded index scheme %s", e.Tag, e.Scheme)
}

// IndexOutOfBoundsError reports a 1-based row or heap index outside its
// container's bounds.
type IndexOutOfBoundsError struct {
	Container string
	Index     uint32
	Len       uint32
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds for %s (len %d)", e.Index, e.Container, e.Len)
}

// UnknownTableKindError reports a row or table lookup against a TableKind
// this module has no schema for (any bit beyond the 45 ECMA-335 defines).
type UnknownTableKindError struct {
	Kind TableKind
}

func (e *UnknownTableKindError) Error() string {
	return fmt.Sprintf("no schema defined for table kind %d", e.Kind)
}
