// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package legacy

import (
	"github.com/xb-tools/bdat/internal/bio"
	"github.com/xb-tools/bdat/internal/model"
	"github.com/xb-tools/bdat/internal/strpool"
)

// SchemaInfo is what a mapped accessor needs to address rows and cells
// directly in the source buffer, without decoding any row up front
// (spec §4.6).
type SchemaInfo struct {
	Name       model.Label
	Schema     model.Schema
	BaseID     int
	RowCount   int
	RowStride  int
	OffsetRows int64
	Pool       *strpool.Pool
}

// ParseSchema parses a legacy table's header, column info, names and
// hash table, but does not touch the row section. It refuses a scrambled
// table with ErrWouldRequireCopy: column names live inside one of the
// scrambled ranges, so even the schema can't be read zero-copy.
func ParseSchema(buf []byte, dialect model.Dialect, endi model.Endianness) (*SchemaInfo, error) {
	cur := bio.NewCursor(buf, endi)
	h, err := readHeader(cur, dialect)
	if err != nil {
		return nil, err
	}
	if h.scrambled() {
		return nil, model.NewDecodeError(model.ErrWouldRequireCopy, "legacy mapped access over scrambled table", 0)
	}
	lo := computeLayout(h, dialect)

	infos := make([]columnInfo, h.columnCount)
	for i := 0; i < h.columnCount; i++ {
		ci, err := readColumnInfo(cur, lo.colInfoOff+int64(i)*columnInfoSize)
		if err != nil {
			return nil, err
		}
		infos[i] = ci
	}

	nodes, err := readNodes(cur, lo, dialect, h.columnCount)
	if err != nil {
		return nil, err
	}
	names, nodeOffByIdx, nextByIdx, err := namesFromNodes(nodes, lo.colInfoOff, h.columnCount)
	if err != nil {
		return nil, err
	}

	if err := verifyHashTable(cur, lo, nodeOffByIdx, nextByIdx, h.columnCount, h.hashFactor(), names); err != nil {
		return nil, err
	}

	schema, err := buildSchema(names, infos)
	if err != nil {
		return nil, err
	}

	pool := strpool.NewPool(cur, int64(h.offsetStrings), int64(h.stringsLen))
	tableNameText, err := pool.Get(0)
	if err != nil {
		return nil, model.NewDecodeError(model.ErrInvalidFormat, "legacy table name", int64(h.offsetStrings))
	}

	return &SchemaInfo{
		Name:       model.ParseLabel(tableNameText, false),
		Schema:     schema,
		BaseID:     h.baseID,
		RowCount:   h.rowCount,
		RowStride:  schema.RowStride(),
		OffsetRows: int64(h.offsetRows),
		Pool:       pool,
	}, nil
}

// DecodeCell reads column idx of the row at rowOff directly out of buf,
// without decoding any other column. A Flag cell recurses one level to
// read its parent column's stored integer.
func DecodeCell(buf []byte, endi model.Endianness, pool *strpool.Pool, schema model.Schema, dialect model.Dialect, idx int, rowOff int64) (model.Cell, error) {
	cur := bio.NewCursor(buf, endi)
	col := schema[idx]

	if col.Shape == model.Flag {
		parentCell, err := DecodeCell(buf, endi, pool, schema, dialect, col.FlagParent, rowOff)
		if err != nil {
			return model.Cell{}, err
		}
		parent, err := parentCell.Single()
		if err != nil {
			return model.Cell{}, err
		}
		raw, err := parent.AsInt64()
		if err != nil {
			return model.Cell{}, err
		}
		v := (raw >> col.FlagShift) & int64(col.FlagMask)
		return model.Cell{Values: []model.Value{model.NewUInt(uint32(v))}}, nil
	}

	arity := col.Arity
	values := make([]model.Value, arity)
	for a := 0; a < arity; a++ {
		off := rowOff + int64(col.Offset) + int64(a*col.Type.Size())
		v, err := decodeScalar(cur, pool, col.Type, dialect, off)
		if err != nil {
			return model.Cell{}, err
		}
		values[a] = v
	}
	return model.Cell{Values: values}, nil
}
