// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/clrview/clrmeta/log"
)

// ContextOptions configures a Context.
type ContextOptions struct {
	// Logger receives load diagnostics; defaults to a stderr logger at
	// LevelError (Options.Logger defaults to a stdout logger at LevelError).
	Logger log.Logger

	// LoadOptions are passed through to every Load call the Context makes.
	LoadOptions *Options
}

// Context caches loaded assemblies by canonical path so the same file is
// never parsed twice and so cross-assembly references (an AssemblyRef row
// pointing at a path the caller resolves externally) can share one handle.
// A Context is safe for concurrent use; once inserted, an *Assembly's
// address never changes, so callers may retain pointers across further
// LoadAssembly calls.
type Context struct {
	mu     sync.Mutex
	byPath map[string]*Assembly
	opts   *ContextOptions
	logger *log.Helper
}

// NewContext returns an empty Context.
func NewContext(opts *ContextOptions) *Context {
	if opts == nil {
		opts = &ContextOptions{}
	}
	var logger *log.Helper
	if opts.Logger == nil {
		logger = log.NewHelper(log.NewFilter(log.NewStdLogger(os.Stderr), log.FilterLevel(log.LevelError)))
	} else {
		logger = log.NewHelper(opts.Logger)
	}
	return &Context{
		byPath: make(map[string]*Assembly),
		opts:   opts,
		logger: logger,
	}
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// LoadAssembly returns the cached Assembly for path, loading and parsing it
// first if this is the first request for that path. Paths are canonicalized
// (made absolute and cleaned) before lookup, so "./a.dll" and "a.dll" share
// one cache entry. A parse failure is not cached: the next call for the
// same path retries from scratch.
func (c *Context) LoadAssembly(path string) (*Assembly, error) {
	key, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if a, ok := c.byPath[key]; ok {
		c.mu.Unlock()
		return a, nil
	}
	c.mu.Unlock()

	loadOpts := c.opts.LoadOptions
	a, err := Load(key, loadOpts)
	if err != nil {
		c.logger.Warnf("failed to load assembly %s: %v", key, err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have raced us to load the same path; keep
	// whichever Assembly was inserted first so pointers stay stable.
	if existing, ok := c.byPath[key]; ok {
		a.Close()
		return existing, nil
	}
	c.byPath[key] = a
	return a, nil
}

// Get returns the already-cached Assembly for path without loading it,
// or nil if it has not been loaded yet.
func (c *Context) Get(path string) *Assembly {
	key, err := canonicalPath(path)
	if err != nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byPath[key]
}

// Close closes every cached Assembly and empties the cache.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for path, a := range c.byPath {
		if err := a.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.byPath, path)
	}
	return firstErr
}
