// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bio

import (
	"math"

	"github.com/xb-tools/bdat/internal/model"
)

// Writer accumulates bytes for one encode pass, in the cursor's
// endianness. Unlike Cursor, it owns a growable buffer rather than
// borrowing one.
type Writer struct {
	buf  []byte
	endi model.Endianness
}

// NewWriter returns an empty Writer in the given endianness.
func NewWriter(endi model.Endianness) *Writer {
	return &Writer{endi: endi}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int64 { return int64(len(w.buf)) }

// Bytes returns the accumulated buffer. The caller must not mutate it.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) grow(n int) []byte {
	start := len(w.buf)
	w.buf = append(w.buf, make([]byte, n)...)
	return w.buf[start : start+n]
}

func (w *Writer) WriteU8(v uint8) {
	w.grow(1)[0] = v
}

func (w *Writer) WriteU16(v uint16) {
	b := w.grow(2)
	if w.endi == model.BigEndian {
		b[0], b[1] = byte(v>>8), byte(v)
	} else {
		b[0], b[1] = byte(v), byte(v>>8)
	}
}

func (w *Writer) WriteU24(v uint32) {
	b := w.grow(3)
	if w.endi == model.BigEndian {
		b[0], b[1], b[2] = byte(v>>16), byte(v>>8), byte(v)
	} else {
		b[0], b[1], b[2] = byte(v), byte(v>>8), byte(v>>16)
	}
}

func (w *Writer) WriteU32(v uint32) {
	b := w.grow(4)
	if w.endi == model.BigEndian {
		b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
	} else {
		b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	}
}

func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

func (w *Writer) WriteBytes(b []byte) {
	copy(w.grow(len(b)), b)
}

// PadTo zero-pads the buffer until its length is a multiple of n.
func (w *Writer) PadTo(n int) {
	if n <= 0 {
		return
	}
	if rem := len(w.buf) % n; rem != 0 {
		w.grow(n - rem)
	}
}

// PutU16At overwrites a 16-bit field already written at a fixed offset,
// for header fields that are only known after the rest of the section
// has been laid out.
func (w *Writer) PutU16At(off int, v uint16) {
	b := w.buf[off : off+2]
	if w.endi == model.BigEndian {
		b[0], b[1] = byte(v>>8), byte(v)
	} else {
		b[0], b[1] = byte(v), byte(v>>8)
	}
}

// PutU32At overwrites a 32-bit field already written at a fixed offset.
func (w *Writer) PutU32At(off int, v uint32) {
	b := w.buf[off : off+4]
	if w.endi == model.BigEndian {
		b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
	} else {
		b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	}
}

// Endianness returns the byte order this writer was constructed with.
func (w *Writer) Endianness() model.Endianness { return w.endi }
