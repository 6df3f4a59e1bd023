// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package modern implements the XC3-era BDAT dialect: Murmur3-hashed
// symbol labels, a sorted row-id map instead of a name-keyed hash table,
// and no scrambling (spec §4.5).
package modern

import (
	"fmt"

	"github.com/xb-tools/bdat/internal/bio"
	"github.com/xb-tools/bdat/internal/model"
)

const (
	magic = "BDAT"

	// tableVersion is the only version byte this dialect's readers and
	// writers recognize; spec §4.7 dispatches to this package exactly
	// when the byte right after magic equals this.
	tableVersion = 4

	// headerSize is the modern table header's fixed size: magic plus 11
	// further u32 fields (version+reserved, column count, row count,
	// base row id, reserved, column-info offset, row-id->index offset,
	// row-data offset, row stride, string-table offset, string-table
	// size).
	headerSize      = 48
	columnInfoSize  = 12
	rowMapEntrySize = 8
)

// tableHeader is the parsed form of a modern table header (spec §4.5).
type tableHeader struct {
	columnCount     int
	rowCount        int
	baseID          int
	offsetColumnInfo int
	offsetRowMap    int
	offsetRows      int
	rowStride       int
	offsetStrings   int
	stringsLen      int
}

func readHeader(cur *bio.Cursor) (*tableHeader, error) {
	if cur.Len() < int64(headerSize) {
		return nil, model.NewDecodeError(model.ErrTruncated, "modern table header", cur.Pos())
	}
	magicBuf, err := cur.PeekBytes(cur.Pos(), 4)
	if err != nil || string(magicBuf) != magic {
		return nil, model.NewDecodeError(model.ErrInvalidFormat, "modern table header magic", cur.Pos())
	}
	cur.Skip(4)

	version, err := cur.U8()
	if err != nil {
		return nil, wrapTrunc("version", cur.Pos())
	}
	if version != tableVersion {
		return nil, model.NewDecodeError(model.ErrUnsupportedDialect, "modern table header version", cur.Pos())
	}
	reservedHead, err := cur.Bytes(3)
	if err != nil {
		return nil, wrapTrunc("reserved", cur.Pos())
	}
	if reservedHead[0] != 0 || reservedHead[1] != 0 || reservedHead[2] != 0 {
		return nil, model.NewDecodeError(model.ErrInvalidFormat, "modern table header reserved bytes", cur.Pos())
	}

	h := &tableHeader{}

	cc, err := cur.U32()
	if err != nil {
		return nil, wrapTrunc("column_count", cur.Pos())
	}
	h.columnCount = int(cc)

	rc, err := cur.U32()
	if err != nil {
		return nil, wrapTrunc("row_count", cur.Pos())
	}
	h.rowCount = int(rc)

	base, err := cur.U32()
	if err != nil {
		return nil, wrapTrunc("base_id", cur.Pos())
	}
	h.baseID = int(base)

	reserved, err := cur.U32()
	if err != nil {
		return nil, wrapTrunc("reserved", cur.Pos())
	}
	if reserved != 0 {
		return nil, model.NewDecodeError(model.ErrInvalidFormat, "modern table header reserved word", cur.Pos())
	}

	colInfoOff, err := cur.U32()
	if err != nil {
		return nil, wrapTrunc("offset_column_info", cur.Pos())
	}
	h.offsetColumnInfo = int(colInfoOff)

	rowMapOff, err := cur.U32()
	if err != nil {
		return nil, wrapTrunc("offset_row_map", cur.Pos())
	}
	h.offsetRowMap = int(rowMapOff)

	rowsOff, err := cur.U32()
	if err != nil {
		return nil, wrapTrunc("offset_rows", cur.Pos())
	}
	h.offsetRows = int(rowsOff)

	stride, err := cur.U32()
	if err != nil {
		return nil, wrapTrunc("row_stride", cur.Pos())
	}
	h.rowStride = int(stride)

	stringsOff, err := cur.U32()
	if err != nil {
		return nil, wrapTrunc("offset_strings", cur.Pos())
	}
	h.offsetStrings = int(stringsOff)

	stringsLen, err := cur.U32()
	if err != nil {
		return nil, wrapTrunc("strings_len", cur.Pos())
	}
	h.stringsLen = int(stringsLen)

	cur.Seek(int64(headerSize))
	return h, nil
}

func writeHeader(w *bio.Writer, h *tableHeader) {
	w.WriteBytes([]byte(magic))
	w.WriteU8(tableVersion)
	w.WriteU8(0)
	w.WriteU8(0)
	w.WriteU8(0)
	w.WriteU32(uint32(h.columnCount))
	w.WriteU32(uint32(h.rowCount))
	w.WriteU32(uint32(h.baseID))
	w.WriteU32(0) // reserved
	w.WriteU32(uint32(h.offsetColumnInfo))
	w.WriteU32(uint32(h.offsetRowMap))
	w.WriteU32(uint32(h.offsetRows))
	w.WriteU32(uint32(h.rowStride))
	w.WriteU32(uint32(h.offsetStrings))
	w.WriteU32(uint32(h.stringsLen))
	w.PadTo(headerSize)
}

func wrapTrunc(field string, pos int64) error {
	return model.NewDecodeError(model.ErrTruncated, fmt.Sprintf("modern table header field %s", field), pos)
}
