// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// padName pads a metadata stream name with NULs to the shortest length that
// is a multiple of 4 and strictly greater than len(name), mirroring the
// terminating condition parseCLRHeaderDirectory reads against.
func padName(name string) []byte {
	n := len(name) + 1
	for n%4 != 0 {
		n++
	}
	out := make([]byte, n)
	copy(out, name)
	return out
}

// clrStream is one named stream going into a synthetic metadata root.
type clrStream struct {
	name string
	data []byte
}

// buildMetadataRoot assembles a BSJB metadata root: header, version string,
// stream directory, then the streams themselves in order.
func buildMetadataRoot(t *testing.T, version string, streams []clrStream) []byte {
	t.Helper()

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(ImageCor20MetadataSignature))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // MajorVersion
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // MinorVersion
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // ExtraData

	versionPadded := padName(version)
	binary.Write(&buf, binary.LittleEndian, uint32(len(versionPadded)))
	buf.Write(versionPadded)

	buf.WriteByte(0) // Flags
	buf.WriteByte(0) // padding
	binary.Write(&buf, binary.LittleEndian, uint16(len(streams)))

	headerBlockSize := 0
	paddedNames := make([][]byte, len(streams))
	for i, s := range streams {
		paddedNames[i] = padName(s.name)
		headerBlockSize += 8 + len(paddedNames[i])
	}

	dataStart := buf.Len() + headerBlockSize
	offsets := make([]int, len(streams))
	pos := dataStart
	for i, s := range streams {
		offsets[i] = pos
		pos += len(s.data)
	}

	for i, s := range streams {
		binary.Write(&buf, binary.LittleEndian, uint32(offsets[i]))
		binary.Write(&buf, binary.LittleEndian, uint32(len(s.data)))
		buf.Write(paddedNames[i])
	}
	for _, s := range streams {
		buf.Write(s.data)
	}

	return buf.Bytes()
}

// buildTildeStream builds a "#~" table stream: header, ascending-bit-order
// row-count vector, then the row bytes the caller already encoded per table.
func buildTildeStream(valid uint64, rowCounts map[TableKind]uint32, rowsInOrder [][]byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // Reserved
	buf.WriteByte(2)                                    // MajorVersion
	buf.WriteByte(0)                                    // MinorVersion
	buf.WriteByte(0)                                    // Heaps: small heaps throughout
	buf.WriteByte(0)                                    // RID
	binary.Write(&buf, binary.LittleEndian, valid)
	binary.Write(&buf, binary.LittleEndian, uint64(0)) // Sorted

	for i := 0; i < 64; i++ {
		if !IsBitSet(valid, i) {
			continue
		}
		buf.Write(uint32le(rowCounts[TableKind(i)]))
	}
	for _, rows := range rowsInOrder {
		buf.Write(rows)
	}
	return buf.Bytes()
}

func uint32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func uint16le(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

// buildPE32 assembles a minimal, zero-section PE32 image with an embedded CLR
// header and the given already-built metadata root bytes. With no sections,
// GetOffsetFromRva treats every RVA as a raw file offset, so the data
// directory and CLR header can point directly at byte offsets in this file.
func buildPE32(t *testing.T, metadataRoot []byte) []byte {
	t.Helper()

	dosHeaderSize := uint32(binary.Size(ImageDOSHeader{}))
	fileHeaderSize := uint32(binary.Size(ImageFileHeader{}))
	optHeaderSize := uint32(binary.Size(ImageOptionalHeader32{}))

	clrRegionOffset := dosHeaderSize + 4 + fileHeaderSize + optHeaderSize
	corHeaderSize := uint32(binary.Size(ImageCOR20Header{}))
	metadataRootOffset := clrRegionOffset + corHeaderSize

	corHeader := ImageCOR20Header{
		Cb:                  corHeaderSize,
		MajorRuntimeVersion: 2,
		MinorRuntimeVersion: 5,
		MetaData: ImageDataDirectory{
			VirtualAddress: metadataRootOffset,
			Size:           uint32(len(metadataRoot)),
		},
		Flags: COMImageFlagsILOnly,
	}

	dos := ImageDOSHeader{
		Magic:                 ImageDOSSignature,
		AddressOfNewEXEHeader: dosHeaderSize,
	}

	fh := ImageFileHeader{
		Machine:              ImageFileHeaderMachineType(ImageFileMachineI386),
		NumberOfSections:     0,
		SizeOfOptionalHeader: uint16(optHeaderSize),
		Characteristics:      0x0102, // EXECUTABLE_IMAGE | 32BIT_MACHINE
	}

	oh := ImageOptionalHeader32{
		Magic:               ImageNtOptionalHeader32Magic,
		ImageBase:            0x00400000,
		SectionAlignment:     0x1000,
		FileAlignment:        0x200,
		SizeOfImage:          0x2000,
		SizeOfHeaders:        clrRegionOffset,
		NumberOfRvaAndSizes:  16,
	}
	oh.DataDirectory[ImageDirectoryEntryCLR] = DataDirectory{
		VirtualAddress: clrRegionOffset,
		Size:           corHeaderSize,
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, dos); err != nil {
		t.Fatalf("write dos header: %v", err)
	}
	buf.WriteString("PE\x00\x00")
	if err := binary.Write(&buf, binary.LittleEndian, fh); err != nil {
		t.Fatalf("write file header: %v", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, oh); err != nil {
		t.Fatalf("write optional header: %v", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, corHeader); err != nil {
		t.Fatalf("write cor20 header: %v", err)
	}
	buf.Write(metadataRoot)

	if uint32(buf.Len()) != metadataRootOffset+uint32(len(metadataRoot)) {
		t.Fatalf("layout mismatch: buf.Len()=%d want=%d", buf.Len(), metadataRootOffset+uint32(len(metadataRoot)))
	}

	return buf.Bytes()
}

// buildEmptyModuleImage builds a minimal managed PE32 with a single Module
// table row and nothing else: the smallest valid CLI metadata a file can
// carry.
func buildEmptyModuleImage(t *testing.T) []byte {
	t.Helper()

	strings := append([]byte{0}, []byte("Mod\x00")...) // offset 0 = "", offset 1 = "Mod"
	guids := make([]byte, 16)                           // one zeroed GUID slot
	blobs := []byte{0}                                  // offset 0 = empty blob, required stream

	moduleRow := bytes.Join([][]byte{
		uint16le(0),    // Generation
		uint16le(1),    // Name -> "#Strings" offset 1
		uint16le(1),    // Mvid -> "#GUID" slot 1
		uint16le(0),    // EncId
		uint16le(0),    // EncBaseId
	}, nil)

	tilde := buildTildeStream(1<<TblModule, map[TableKind]uint32{TblModule: 1}, [][]byte{moduleRow})

	root := buildMetadataRoot(t, "v4.0.30319", []clrStream{
		{"#~", tilde},
		{"#Strings", strings},
		{"#GUID", guids},
		{"#Blob", blobs},
	})

	return buildPE32(t, root)
}
