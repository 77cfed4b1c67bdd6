// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

// Package redact strips API tokens from strings and log records before they
// reach the terminal.
package redact

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Placeholder replaces every secret value.
const Placeholder = "[REDACTED]"

// sensitiveEnvVars lists environment variable names whose values must never
// appear in output.
var sensitiveEnvVars = []string{
	"RESULTPUSH_PROJECT_TOKEN",
	"RESULTPUSH_API_TOKEN",
	"GITHUB_TOKEN",
	"GH_TOKEN",
}

// minSecretLen avoids false-positive redaction of very short values.
const minSecretLen = 4

var (
	mu            sync.RWMutex
	cachedSecrets []string
	cacheOnce     sync.Once
)

func loadSecrets() {
	mu.Lock()
	defer mu.Unlock()
	for _, envVar := range sensitiveEnvVars {
		if val := os.Getenv(envVar); len(val) >= minSecretLen {
			cachedSecrets = append(cachedSecrets, val)
		}
	}
}

// ResetForTest drops cached secrets so tests can change env vars with
// t.Setenv between calls.
func ResetForTest() {
	mu.Lock()
	defer mu.Unlock()
	cachedSecrets = nil
	cacheOnce = sync.Once{}
}

// Add registers a secret that did not come from the environment, such as a
// token read from a file. Short values are ignored.
func Add(secret string) {
	cacheOnce.Do(loadSecrets)
	if len(secret) < minSecretLen {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	cachedSecrets = append(cachedSecrets, secret)
}

// String replaces any occurrence of a known secret with Placeholder.
// Secret values from the environment are cached on first call.
func String(s string) string {
	cacheOnce.Do(loadSecrets)
	mu.RLock()
	defer mu.RUnlock()
	for _, secret := range cachedSecrets {
		s = strings.ReplaceAll(s, secret, Placeholder)
	}
	return s
}

// Handler wraps an slog.Handler and redacts the message and string-valued
// attributes of every record.
type Handler struct {
	next slog.Handler
}

// NewHandler returns a redacting Handler in front of next.
func NewHandler(next slog.Handler) *Handler {
	return &Handler{next: next}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, String(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redactAttr(a)
	}
	return &Handler{next: h.next.WithAttrs(clean)}
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{next: h.next.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, String(v.String()))
	case slog.KindGroup:
		group := v.Group()
		clean := make([]any, len(group))
		for i, g := range group {
			clean[i] = redactAttr(g)
		}
		return slog.Group(a.Key, clean...)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, String(err.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}
