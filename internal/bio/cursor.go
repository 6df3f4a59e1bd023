// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bio provides endianness-parameterized primitive reads and
// writes over an in-memory byte buffer. It knows nothing about BDAT; it
// is the leaf-most layer both codec packages build on (spec §4.1).
package bio

import (
	"bytes"
	"fmt"
	"math"

	"github.com/xb-tools/bdat/internal/model"
)

// Cursor reads fixed-width primitives out of a byte slice it does not
// own. Endianness is fixed at construction and threaded through every
// read, rather than carried as a type parameter (spec §9).
type Cursor struct {
	buf  []byte
	pos  int
	endi model.Endianness
}

// NewCursor returns a Cursor over buf starting at offset 0.
func NewCursor(buf []byte, endi model.Endianness) *Cursor {
	return &Cursor{buf: buf, endi: endi}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int64 { return int64(c.pos) }

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int64 { return int64(len(c.buf)) }

// Seek moves the cursor to an absolute offset.
func (c *Cursor) Seek(off int64) {
	c.pos = int(off)
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int64) {
	c.pos += int(n)
}

func truncated(pos int) error {
	return fmt.Errorf("%w at offset %d", model.ErrTruncated, pos)
}

func (c *Cursor) take(n int) ([]byte, error) {
	if c.pos < 0 || c.pos+n > len(c.buf) {
		return nil, truncated(c.pos)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// peek reads n bytes at an offset without advancing the cursor.
func (c *Cursor) peek(off, n int) ([]byte, error) {
	if off < 0 || off+n > len(c.buf) {
		return nil, truncated(off)
	}
	return c.buf[off : off+n], nil
}

func (c *Cursor) order16(b []byte) uint16 {
	if c.endi == model.BigEndian {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[0]) | uint16(b[1])<<8
}

func (c *Cursor) order32(b []byte) uint32 {
	if c.endi == model.BigEndian {
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// U8 reads an unsigned byte.
func (c *Cursor) U8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a 16-bit unsigned integer in the cursor's endianness.
func (c *Cursor) U16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return c.order16(b), nil
}

// U24 reads a 24-bit unsigned integer, zero-extended to uint32.
func (c *Cursor) U24() (uint32, error) {
	b, err := c.take(3)
	if err != nil {
		return 0, err
	}
	if c.endi == model.BigEndian {
		return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, nil
}

// U32 reads a 32-bit unsigned integer in the cursor's endianness.
func (c *Cursor) U32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return c.order32(b), nil
}

// F32 reads an IEEE-754 binary32 float. Legacy fixed-point conversion is
// the caller's responsibility (internal/legacy handles it), since the
// wire bits here are just a uint32 either way.
func (c *Cursor) F32() (float32, error) {
	u, err := c.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

// Bytes reads n raw bytes. The returned slice aliases the underlying
// buffer; callers that need to mutate or retain it past the buffer's
// lifetime must copy.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	return c.take(n)
}

// PeekU16 reads a 16-bit value at an absolute offset without moving the
// cursor.
func (c *Cursor) PeekU16(off int64) (uint16, error) {
	b, err := c.peek(int(off), 2)
	if err != nil {
		return 0, err
	}
	return c.order16(b), nil
}

// PeekU32 reads a 32-bit value at an absolute offset without moving the
// cursor.
func (c *Cursor) PeekU32(off int64) (uint32, error) {
	b, err := c.peek(int(off), 4)
	if err != nil {
		return 0, err
	}
	return c.order32(b), nil
}

// CString reads a nul-terminated string starting at an absolute offset,
// without touching the cursor position.
func (c *Cursor) CString(off int64) (string, error) {
	i := int(off)
	if i < 0 || i > len(c.buf) {
		return "", truncated(i)
	}
	s, _, ok := bytes.Cut(c.buf[i:], []byte{0})
	if !ok {
		return "", truncated(len(c.buf))
	}
	return string(s), nil
}

// PeekBytes reads n raw bytes at an absolute offset without moving the
// cursor or interpreting them -- for magic numbers and other fields whose
// comparison is byte-literal rather than endian-dependent.
func (c *Cursor) PeekBytes(off int64, n int) ([]byte, error) {
	return c.peek(int(off), n)
}

// Endianness returns the byte order this cursor was constructed with.
func (c *Cursor) Endianness() model.Endianness { return c.endi }
