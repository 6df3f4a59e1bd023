// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bdat

import (
	"fmt"

	"github.com/xb-tools/bdat/internal/legacy"
	"github.com/xb-tools/bdat/internal/model"
	"github.com/xb-tools/bdat/internal/modern"
	"github.com/xb-tools/bdat/internal/strpool"
)

// MappedTable is a borrow over a source buffer that answers per-row,
// per-column reads without decoding the whole table up front (spec
// §4.6). The borrow must remain live and untouched for MappedTable's
// lifetime; nothing here mutates buf.
type MappedTable struct {
	dialect  Dialect
	endi     Endianness
	buf      []byte
	name     Label
	schema   Schema
	rowCount int
	pool     *strpool.Pool
	rowOff   func(id int) (int64, bool)
}

// Name returns the table's name, as resolved from the schema parse.
func (t *MappedTable) Name() Label { return t.name }

func newMappedTable(buf []byte, dialect Dialect, endi Endianness) (*MappedTable, error) {
	if dialect.IsLegacy() {
		info, err := legacy.ParseSchema(buf, dialect, endi)
		if err != nil {
			return nil, err
		}
		base, count, stride, off := info.BaseID, info.RowCount, int64(info.RowStride), info.OffsetRows
		return &MappedTable{
			dialect:  dialect,
			endi:     endi,
			buf:      buf,
			name:     info.Name,
			schema:   info.Schema,
			rowCount: count,
			pool:     info.Pool,
			rowOff: func(id int) (int64, bool) {
				idx := id - base
				if idx < 0 || idx >= count {
					return 0, false
				}
				return off + int64(idx)*stride, true
			},
		}, nil
	}

	info, err := modern.ParseSchema(buf, endi)
	if err != nil {
		return nil, err
	}
	rowMap := info.RowMap
	return &MappedTable{
		dialect:  dialect,
		endi:     endi,
		buf:      buf,
		name:     info.Name,
		schema:   info.Schema,
		rowCount: info.RowCount,
		pool:     info.Pool,
		rowOff: func(id int) (int64, bool) {
			off, ok := rowMap[id]
			return off, ok
		},
	}, nil
}

// Schema returns the table's column layout.
func (t *MappedTable) Schema() Schema { return t.schema }

// RowCount returns the number of rows in the table.
func (t *MappedTable) RowCount() int { return t.rowCount }

// Row returns a zero-copy view over the row with the given game-visible
// id.
func (t *MappedTable) Row(id int) (*RowView, error) {
	off, ok := t.rowOff(id)
	if !ok {
		return nil, model.NewDecodeError(model.ErrNoSuchRow, fmt.Sprintf("row id %d", id), 0)
	}
	return &RowView{t: t, id: id, rowOff: off}, nil
}

// RowView is a lazy handle onto one row of a MappedTable: reading a cell
// decodes only that cell's bytes.
type RowView struct {
	t      *MappedTable
	id     int
	rowOff int64
}

// ID returns the row's game-visible id.
func (r *RowView) ID() int { return r.id }

// Get reads the cell for a named column.
func (r *RowView) Get(name Label) (Cell, error) {
	idx := r.t.schema.IndexOf(name)
	if idx < 0 {
		return Cell{}, model.NewDecodeError(model.ErrNoSuchColumn, name.String(), 0)
	}
	return r.GetIndex(idx)
}

// GetIndex reads the cell at a column index.
func (r *RowView) GetIndex(idx int) (Cell, error) {
	if idx < 0 || idx >= len(r.t.schema) {
		return Cell{}, model.NewDecodeError(model.ErrNoSuchColumn, fmt.Sprintf("column index %d", idx), 0)
	}
	if r.t.dialect.IsLegacy() {
		return legacy.DecodeCell(r.t.buf, r.t.endi, r.t.pool, r.t.schema, r.t.dialect, idx, r.rowOff)
	}
	return modern.DecodeCell(r.t.buf, r.t.endi, r.t.pool, r.t.schema, idx, r.rowOff)
}

// Value is a convenience over Get for scalar and flag columns.
func (r *RowView) Value(name Label) (Value, error) {
	c, err := r.Get(name)
	if err != nil {
		return Value{}, err
	}
	return c.Single()
}
