// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package log is the leveled logger used by the ego commands and the
// benchmark harness. Library packages do not log.
package log

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Level is a logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

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
	default:
		return fmt.Sprintf("LEVEL(%d)", l)
	}
}

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return 0, errors.Errorf("unknown log level %q", name)
}

// Logger writes one line per message:
//
//	[2006-01-02 15:04:05.000] [INFO] key=value message
type Logger struct {
	mu     *sync.Mutex
	level  Level
	out    io.Writer
	fields []field
}

type field struct {
	key   string
	value any
}

// Option configures a Logger.
type Option func(*Logger)

// WithLevel sets the minimum level written.
func WithLevel(level Level) Option {
	return func(l *Logger) { l.level = level }
}

// WithOutput sets the destination writer.
func WithOutput(out io.Writer) Option {
	return func(l *Logger) { l.out = out }
}

// New returns a logger writing at LevelInfo to stderr unless overridden.
func New(opts ...Option) *Logger {
	l := &Logger{
		mu:    new(sync.Mutex),
		level: LevelInfo,
		out:   os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithField returns a logger that adds key=value to every line.
// The returned logger shares the output and its lock with l.
func (l *Logger) WithField(key string, value any) *Logger {
	fields := slices.Clone(l.fields)
	if i := slices.IndexFunc(fields, func(f field) bool { return f.key == key }); i >= 0 {
		fields[i].value = value
	} else {
		fields = append(fields, field{key, value})
	}
	return &Logger{mu: l.mu, level: l.level, out: l.out, fields: fields}
}

func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s]", time.Now().Format("2006-01-02 15:04:05.000"), level)
	for _, f := range l.fields {
		fmt.Fprintf(&b, " %s=%v", f.key, f.value)
	}
	b.WriteByte(' ')
	b.WriteString(msg)
	b.WriteByte('\n')

	l.mu.Lock()
	io.WriteString(l.out, b.String())
	l.mu.Unlock()
}

// Discard drops everything.
var Discard = New(WithOutput(io.Discard), WithLevel(LevelError+1))
