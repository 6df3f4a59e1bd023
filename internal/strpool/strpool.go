// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package strpool implements BDAT's string pool: append-only and
// offset-addressed on write, offset-indexed on read (spec §4.3).
package strpool

import (
	"github.com/xb-tools/bdat/internal/bio"
)

// Builder accumulates nul-terminated strings and deduplicates repeats, so
// that two columns sharing a name only pay for one copy of it -- the same
// strategy the original encoder uses (offset reuse keyed by text).
type Builder struct {
	buf     []byte
	offsets map[string]int
	hashed  bool
}

// NewBuilder returns an empty pool. If hashed is true, a leading zero
// byte is reserved, signaling to a modern-dialect reader that every name
// in this table is a 32-bit hash rather than an interned string (spec
// §4.3); callers that use hashed labels throughout still call Intern for
// any text that legitimately belongs in the pool (e.g. DebugString
// cells).
func NewBuilder(hashed bool) *Builder {
	b := &Builder{offsets: make(map[string]int), hashed: hashed}
	if hashed {
		b.buf = append(b.buf, 0)
	}
	return b
}

// Intern appends s (nul-terminated) if not already present, and returns
// its byte offset within the pool.
func (b *Builder) Intern(s string) int {
	if off, ok := b.offsets[s]; ok {
		return off
	}
	off := len(b.buf)
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
	b.offsets[s] = off
	return off
}

// Len returns the current size of the pool in bytes.
func (b *Builder) Len() int { return len(b.buf) }

// Bytes returns the accumulated pool. The caller must not mutate it.
func (b *Builder) Bytes() []byte { return b.buf }

// Pool is a read-only view over a decoded string pool.
type Pool struct {
	cursor *bio.Cursor
	base   int64
	size   int64
}

// NewPool wraps size bytes of cur's underlying buffer, starting at base,
// as a read-only string pool.
func NewPool(cur *bio.Cursor, base, size int64) *Pool {
	return &Pool{cursor: cur, base: base, size: size}
}

// Get reads the nul-terminated string at a pool-relative offset.
func (p *Pool) Get(offset int64) (string, error) {
	return p.cursor.CString(p.base + offset)
}

// GetAbsolute reads the nul-terminated string at a table-relative
// (absolute) offset -- used by legacy String cells, whose stored offset
// is already absolute to the table start rather than pool-relative (spec
// §6).
func (p *Pool) GetAbsolute(offset int64) (string, error) {
	return p.cursor.CString(offset)
}

// Contains reports whether the table-absolute offset lies strictly
// inside the pool's bounds, per spec §3's string-offset invariant.
func (p *Pool) Contains(absoluteOffset int64) bool {
	return absoluteOffset >= p.base && absoluteOffset < p.base+p.size
}

// IsHashedMarker reports whether the pool's first byte is the modern
// dialect's "names are hashed" sentinel (spec §4.3).
func IsHashedMarker(buf []byte, base int) bool {
	return base < len(buf) && buf[base] == 0
}
