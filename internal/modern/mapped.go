// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package modern

import (
	"github.com/xb-tools/bdat/internal/bio"
	"github.com/xb-tools/bdat/internal/model"
	"github.com/xb-tools/bdat/internal/strpool"
)

// SchemaInfo is what a mapped accessor needs to address rows and cells
// directly in the source buffer. Unlike legacy, a modern table is never
// scrambled, so this never refuses on those grounds.
type SchemaInfo struct {
	Name       model.Label
	Schema     model.Schema
	BaseID     int
	RowCount   int
	RowStride  int
	OffsetRows int64
	RowMap     map[int]int64 // row id -> byte offset
	Pool       *strpool.Pool
}

// ParseSchema parses a modern table's header, column info, names and
// row-id map, but does not decode any row.
func ParseSchema(buf []byte, endi model.Endianness) (*SchemaInfo, error) {
	cur := bio.NewCursor(buf, endi)
	h, err := readHeader(cur)
	if err != nil {
		return nil, err
	}

	infos := make([]columnInfo, h.columnCount)
	names := make([]string, h.columnCount)
	hasName := make([]bool, h.columnCount)
	colInfoOff := int64(h.offsetColumnInfo)
	for i := 0; i < h.columnCount; i++ {
		ci, err := readColumnInfo(cur, colInfoOff+int64(i)*columnInfoSize)
		if err != nil {
			return nil, err
		}
		infos[i] = ci
		if ci.nameOffset != 0 {
			name, err := cur.CString(int64(ci.nameOffset))
			if err != nil {
				return nil, model.NewDecodeError(model.ErrTruncated, "modern column name", int64(ci.nameOffset))
			}
			names[i] = name
			hasName[i] = true
		}
	}
	schema := buildSchema(infos, names, hasName)

	rowMap := make(map[int]int64, h.rowCount)
	for i := 0; i < h.rowCount; i++ {
		off := int64(h.offsetRowMap) + int64(i)*rowMapEntrySize
		id, err := cur.PeekU32(off)
		if err != nil {
			return nil, model.NewDecodeError(model.ErrTruncated, "modern row map id", off)
		}
		idx, err := cur.PeekU32(off + 4)
		if err != nil {
			return nil, model.NewDecodeError(model.ErrTruncated, "modern row map index", off+4)
		}
		rowMap[int(id)] = int64(h.offsetRows) + int64(idx)*int64(h.rowStride)
	}

	pool := strpool.NewPool(cur, int64(h.offsetStrings), int64(h.stringsLen))

	tableName := model.HashLabel(0)
	if h.stringsLen > 0 {
		nameOff := int64(0)
		if strpool.IsHashedMarker(buf, h.offsetStrings) {
			nameOff = 1
		}
		if int64(h.stringsLen) > nameOff {
			if s, err := pool.Get(nameOff); err == nil {
				tableName = model.ParseLabel(s, false)
			}
		}
	}

	return &SchemaInfo{
		Name:       tableName,
		Schema:     schema,
		BaseID:     h.baseID,
		RowCount:   h.rowCount,
		RowStride:  h.rowStride,
		OffsetRows: int64(h.offsetRows),
		RowMap:     rowMap,
		Pool:       pool,
	}, nil
}

// DecodeCell reads column idx of the row at rowOff directly out of buf.
func DecodeCell(buf []byte, endi model.Endianness, pool *strpool.Pool, schema model.Schema, idx int, rowOff int64) (model.Cell, error) {
	cur := bio.NewCursor(buf, endi)
	col := schema[idx]
	off := rowOff + int64(col.Offset)
	v, err := decodeScalar(cur, pool, col.Type, off)
	if err != nil {
		return model.Cell{}, err
	}
	return model.Cell{Values: []model.Value{v}}, nil
}
