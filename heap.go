// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"golang.org/x/text/encoding/unicode"
)

// StringHeap is the `#Strings` heap: NUL-terminated UTF-8 strings, addressed
// by byte offset from the start of the heap. Offset 0 is always the empty
// string.
type StringHeap struct {
	data []byte
}

// Get returns the NUL-terminated string starting at offset i.
func (h StringHeap) Get(i uint32) (string, error) {
	if i >= uint32(len(h.data)) {
		return "", &IndexOutOfBoundsError{Container: "#Strings", Index: i, Len: uint32(len(h.data))}
	}
	c := newCursor(h.data)
	c.Seek(i)
	return c.NulTerminatedASCII()
}

// BlobHeap is the `#Blob` heap: length-prefixed (ECMA-335 compressed integer)
// byte blobs, addressed by byte offset. Offset 0 is always the empty blob.
type BlobHeap struct {
	data []byte
}

// Get returns the blob bytes starting at offset i. The returned slice
// aliases the heap's backing array.
func (h BlobHeap) Get(i uint32) ([]byte, error) {
	if i >= uint32(len(h.data)) {
		if i == 0 {
			return nil, nil
		}
		return nil, &IndexOutOfBoundsError{Container: "#Blob", Index: i, Len: uint32(len(h.data))}
	}
	c := newCursor(h.data)
	c.Seek(i)
	n, _, err := c.CompressedUint()
	if err != nil {
		return nil, err
	}
	return c.ReadExact(n)
}

// UserStringHeap is the `#US` heap: length-prefixed UTF-16LE strings, each
// followed by a single trailing flag byte recording whether any character
// has its high bit set or is a significant non-ASCII punctuation/control
// code. Addressed by byte offset.
type UserStringHeap struct {
	data []byte
}

// Get returns the decoded string at offset i.
func (h UserStringHeap) Get(i uint32) (string, error) {
	if i >= uint32(len(h.data)) {
		if i == 0 {
			return "", nil
		}
		return "", &IndexOutOfBoundsError{Container: "#US", Index: i, Len: uint32(len(h.data))}
	}
	c := newCursor(h.data)
	c.Seek(i)
	n, _, err := c.CompressedUint()
	if err != nil {
		return "", err
	}
	raw, err := c.ReadExact(n)
	if err != nil {
		return "", err
	}
	// The blob's last byte is the trailing flag, not part of the UTF-16
	// payload, unless the blob is empty.
	if len(raw) > 0 {
		raw = raw[:len(raw)-1]
	}
	utf16le := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	decoded, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// GuidHeap is the `#GUID` heap: a 1-based array of fixed 16-byte slots.
// Index 0 means "no GUID" and is not an error.
type GuidHeap struct {
	data []byte
}

// Get returns the GUID bytes (big-endian field layout, as stored) for the
// 1-based index i, or 16 zero bytes and ok=false when i is 0.
func (h GuidHeap) Get(i uint32) (guid [16]byte, ok bool, err error) {
	if i == 0 {
		return guid, false, nil
	}
	start := (i - 1) * 16
	end := start + 16
	if end > uint32(len(h.data)) {
		return guid, false, &IndexOutOfBoundsError{Container: "#GUID", Index: i, Len: uint32(len(h.data)) / 16}
	}
	copy(guid[:], h.data[start:end])
	return guid, true, nil
}
