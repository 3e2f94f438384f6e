// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log is a small leveled-logging facade, modeled on the
// go-kratos log.Logger shape: a Logger writes alternating key/value pairs,
// a Filter narrows that down by level, and a Helper adds printf-style
// convenience on top. Callers that don't care about logging infrastructure
// can just use NewStdLogger and move on.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level is a logging severity.
type Level int

// Severity levels, least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the level's name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Logger logs a leveled message as alternating key/value pairs.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes to an io.Writer through the standard library's log
// package, one line per call.
type stdLogger struct {
	mu  sync.Mutex
	std *log.Logger
}

// NewStdLogger returns a Logger that writes to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{std: log.New(w, "", log.LstdFlags)}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "MISSING_VALUE")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	buf := fmt.Sprintf("level=%s", level)
	for i := 0; i < len(keyvals); i += 2 {
		buf += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	l.std.Println(buf)
	return nil
}

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// FilterLevel sets the minimum level a Filter passes through.
func FilterLevel(level Level) FilterOption {
	return func(f *Filter) { f.level = level }
}

// Filter wraps a Logger and drops messages below a minimum level.
type Filter struct {
	logger Logger
	level  Level
}

// NewFilter returns a Logger that only forwards entries at or above the
// configured level (LevelDebug, i.e. everything, unless an option says
// otherwise).
func NewFilter(logger Logger, opts ...FilterOption) Logger {
	f := &Filter{logger: logger, level: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Log implements Logger.
func (f *Filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.logger.Log(level, keyvals...)
}

// Helper adds printf-style convenience methods on top of a Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger in printf-style convenience methods.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, format string, a ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	_ = h.logger.Log(level, "msg", fmt.Sprintf(format, a...))
}

// Debugf logs at LevelDebug.
func (h *Helper) Debugf(format string, a ...interface{}) { h.log(LevelDebug, format, a...) }

// Infof logs at LevelInfo.
func (h *Helper) Infof(format string, a ...interface{}) { h.log(LevelInfo, format, a...) }

// Warnf logs at LevelWarn.
func (h *Helper) Warnf(format string, a ...interface{}) { h.log(LevelWarn, format, a...) }

// Errorf logs at LevelError.
func (h *Helper) Errorf(format string, a ...interface{}) { h.log(LevelError, format, a...) }

// Warn logs a single message at LevelWarn.
func (h *Helper) Warn(a ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	_ = h.logger.Log(LevelWarn, "msg", fmt.Sprint(a...))
}

// Default is a ready-to-use Helper writing to stderr at LevelError and
// above, for callers that never set up their own logger.
func Default() *Helper {
	return NewHelper(NewFilter(NewStdLogger(os.Stderr), FilterLevel(LevelError)))
}
