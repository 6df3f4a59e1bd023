// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bdat

import (
	"github.com/xb-tools/bdat/internal/bio"
	"github.com/xb-tools/bdat/internal/legacy"
	"github.com/xb-tools/bdat/internal/model"
	"github.com/xb-tools/bdat/internal/modern"
)

// writeOptions are set through WriteOption, in the functional-option
// style.
type writeOptions struct {
	scrambled bool
	keepNames bool
}

// WriteOption configures WriteFile.
type WriteOption func(*writeOptions)

// WithScrambled controls whether legacy tables are emitted with their
// name/hash and string sections scrambled. Ignored for modern tables.
func WithScrambled(scrambled bool) WriteOption {
	return func(o *writeOptions) { o.scrambled = scrambled }
}

// WithPlainNames controls whether modern column names are written out as
// plain text alongside their hash, or hash-only. Ignored for legacy
// tables, which are always plain.
func WithPlainNames(keep bool) WriteOption {
	return func(o *writeOptions) { o.keepNames = keep }
}

// WriteFile encodes tables as a single byte-exact file in dialect's wire
// format and endianness (spec §6: write_file). Legacy tables are sorted
// lexicographically by name first, matching the binary search the game
// performs (spec §3); modern table order is left as given.
func WriteFile(tables []*Table, dialect Dialect, endi Endianness, opts ...WriteOption) ([]byte, error) {
	if len(tables) == 0 {
		return nil, model.NewEncodeError(model.ErrSchemaViolation, "write_file requires at least one table")
	}
	o := writeOptions{keepNames: true}
	for _, opt := range opts {
		opt(&o)
	}

	ordered := tables
	if dialect.IsLegacy() {
		ordered = sortedByName(tables)
	}

	encoded := make([][]byte, len(ordered))
	for i, t := range ordered {
		var b []byte
		var err error
		if dialect.IsLegacy() {
			b, err = legacy.Encode(t, dialect, endi, o.scrambled)
		} else {
			b, err = modern.Encode(t, endi, o.keepNames)
		}
		if err != nil {
			return nil, err
		}
		encoded[i] = b
	}

	if dialect.IsLegacy() {
		return writeLegacyContainer(encoded, endi)
	}
	return writeModernContainer(encoded, endi)
}

func sortedByName(tables []*Table) []*Table {
	out := make([]*Table, len(tables))
	copy(out, tables)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Name.Compare(out[j].Name) > 0; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func writeLegacyContainer(tables [][]byte, endi Endianness) ([]byte, error) {
	n := len(tables)
	hdrLen := 8 + n*2
	total := hdrLen
	for _, t := range tables {
		total += len(t)
	}
	if total > 1<<16 {
		return nil, model.NewEncodeError(model.ErrWriteOverflow, "legacy file exceeds 16-bit offset addressing")
	}

	w := bio.NewWriter(endi)
	w.WriteU32(uint32(n))
	w.WriteU32(uint32(total))
	off := hdrLen
	for _, t := range tables {
		w.WriteU16(uint16(off))
		off += len(t)
	}
	for _, t := range tables {
		w.WriteBytes(t)
	}
	return w.Bytes(), nil
}

func writeModernContainer(tables [][]byte, endi Endianness) ([]byte, error) {
	n := len(tables)
	hdrLen := 16 + n*4
	total := hdrLen
	for _, t := range tables {
		total += len(t)
	}

	w := bio.NewWriter(endi)
	w.WriteBytes([]byte("BDAT"))
	w.WriteU32(4) // version 4, reserved bits zero
	w.WriteU32(uint32(n))
	w.WriteU32(uint32(total))
	off := hdrLen
	for _, t := range tables {
		w.WriteU32(uint32(off))
		off += len(t)
	}
	for _, t := range tables {
		w.WriteBytes(t)
	}
	return w.Bytes(), nil
}
