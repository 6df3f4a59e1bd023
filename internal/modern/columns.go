// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package modern

import (
	"github.com/xb-tools/bdat/internal/bio"
	"github.com/xb-tools/bdat/internal/model"
)

// columnInfo is the fixed-size per-column record: a Murmur3 label, an
// optional absolute offset to a plain-text name, the value type tag, and
// the column's byte offset within a row. Modern tables have no List or
// Flag columns, so there is no cell-shape or arity field (spec §4.5).
type columnInfo struct {
	hash       uint32
	nameOffset uint32 // 0 when the table carries no plain-text names
	valueType  uint8
	rowOffset  uint16
}

func readColumnInfo(cur *bio.Cursor, off int64) (columnInfo, error) {
	var ci columnInfo
	b, err := cur.PeekBytes(off, columnInfoSize)
	if err != nil {
		return ci, model.NewDecodeError(model.ErrTruncated, "modern column info", off)
	}
	sub := bio.NewCursor(b, cur.Endianness())
	h, _ := sub.U32()
	ci.hash = h
	no, _ := sub.U32()
	ci.nameOffset = no
	vt, _ := sub.U8()
	ci.valueType = vt
	_, _ = sub.U8() // pad
	ro, _ := sub.U16()
	ci.rowOffset = ro
	return ci, nil
}

func writeColumnInfo(w *bio.Writer, ci columnInfo) {
	w.WriteU32(ci.hash)
	w.WriteU32(ci.nameOffset)
	w.WriteU8(ci.valueType)
	w.WriteU8(0) // pad
	w.WriteU16(ci.rowOffset)
}

// labelFor resolves a column's Label the way a modern-dialect reader
// does: a plain-text name when one is present, falling back to the bare
// hash otherwise (spec §4.3's hashed-pool convention).
func labelFor(ci columnInfo, name string, hasName bool) model.Label {
	if hasName {
		return model.StringLabel(name)
	}
	return model.HashLabel(ci.hash)
}
