// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func TestStringHeapGet(t *testing.T) {
	h := StringHeap{data: []byte("\x00Foo\x00Bar\x00")}
	if s, err := h.Get(0); err != nil || s != "" {
		t.Fatalf("Get(0) = %q, %v, want \"\", nil", s, err)
	}
	if s, err := h.Get(1); err != nil || s != "Foo" {
		t.Fatalf("Get(1) = %q, %v, want \"Foo\", nil", s, err)
	}
	if s, err := h.Get(5); err != nil || s != "Bar" {
		t.Fatalf("Get(5) = %q, %v, want \"Bar\", nil", s, err)
	}
	if _, err := h.Get(100); err == nil {
		t.Fatalf("Get(100) out of bounds: want error, got nil")
	}
}

func TestBlobHeapGet(t *testing.T) {
	// offset 0: a zero-length-prefixed blob, decoded normally (the explicit
	// index-0-on-an-empty-heap shortcut is a separate case, below).
	// offset 1: length-3 blob {0xAA, 0xBB, 0xCC}
	data := []byte{0x00, 0x03, 0xAA, 0xBB, 0xCC}
	h := BlobHeap{data: data}

	b, err := h.Get(0)
	if err != nil || len(b) != 0 {
		t.Fatalf("Get(0) = %v, %v, want empty, nil", b, err)
	}
	b, err = h.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	if !equalBytes(b, []byte{0xAA, 0xBB, 0xCC}) {
		t.Fatalf("Get(1) = %v, want [AA BB CC]", b)
	}
	if _, err := h.Get(1000); err == nil {
		t.Fatalf("Get(1000) out of bounds: want error, got nil")
	}
}

func TestBlobHeapGetEmptyHeap(t *testing.T) {
	h := BlobHeap{}
	b, err := h.Get(0)
	if err != nil || b != nil {
		t.Fatalf("Get(0) on empty heap = %v, %v, want nil, nil", b, err)
	}
}

func TestUserStringHeapGet(t *testing.T) {
	// "Hi" in UTF-16LE + trailing flag byte, length-prefixed.
	payload := []byte{'H', 0, 'i', 0, 0x00}
	data := append([]byte{0x00}, append([]byte{byte(len(payload))}, payload...)...)
	h := UserStringHeap{data: data}

	if s, err := h.Get(0); err != nil || s != "" {
		t.Fatalf("Get(0) = %q, %v, want \"\", nil", s, err)
	}
	if s, err := h.Get(1); err != nil || s != "Hi" {
		t.Fatalf("Get(1) = %q, %v, want \"Hi\", nil", s, err)
	}
}

func TestGuidHeapGet(t *testing.T) {
	slot1 := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	data := append([]byte{}, slot1[:]...)
	h := GuidHeap{data: data}

	g, ok, err := h.Get(0)
	if err != nil || ok {
		t.Fatalf("Get(0) = %v, %v, %v, want zero, false, nil", g, ok, err)
	}
	g, ok, err = h.Get(1)
	if err != nil || !ok {
		t.Fatalf("Get(1) = %v, %v, %v, want _, true, nil", g, ok, err)
	}
	if g != slot1 {
		t.Fatalf("Get(1) = %v, want %v", g, slot1)
	}
	if _, ok, err := h.Get(2); err == nil || ok {
		t.Fatalf("Get(2) out of bounds: want error, got %v, %v", ok, err)
	}
}
