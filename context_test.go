// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempImage(t *testing.T, data []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.dll")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestContextLoadAssemblyCaches(t *testing.T) {
	path := writeTempImage(t, buildEmptyModuleImage(t))
	ctx := NewContext(nil)
	defer ctx.Close()

	a1, err := ctx.LoadAssembly(path)
	if err != nil {
		t.Fatalf("LoadAssembly: %v", err)
	}
	a2, err := ctx.LoadAssembly(path)
	if err != nil {
		t.Fatalf("LoadAssembly (second call): %v", err)
	}
	if a1 != a2 {
		t.Fatalf("LoadAssembly returned different pointers for the same path")
	}
}

func TestContextLoadAssemblyCanonicalizesPath(t *testing.T) {
	path := writeTempImage(t, buildEmptyModuleImage(t))
	ctx := NewContext(nil)
	defer ctx.Close()

	a1, err := ctx.LoadAssembly(path)
	if err != nil {
		t.Fatalf("LoadAssembly: %v", err)
	}

	relPath := filepath.Join(filepath.Dir(path), ".", filepath.Base(path))
	a2, err := ctx.LoadAssembly(relPath)
	if err != nil {
		t.Fatalf("LoadAssembly (equivalent path): %v", err)
	}
	if a1 != a2 {
		t.Fatalf("LoadAssembly did not canonicalize equivalent paths to the same entry")
	}
}

func TestContextGetBeforeLoad(t *testing.T) {
	ctx := NewContext(nil)
	defer ctx.Close()
	if a := ctx.Get("/nonexistent/path.dll"); a != nil {
		t.Fatalf("Get() on unloaded path = %v, want nil", a)
	}
}

func TestContextLoadAssemblyMissingFile(t *testing.T) {
	ctx := NewContext(nil)
	defer ctx.Close()
	if _, err := ctx.LoadAssembly("/nonexistent/path.dll"); err == nil {
		t.Fatalf("LoadAssembly(missing file): want error, got nil")
	}
}
