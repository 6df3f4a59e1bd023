// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package model

import "fmt"

// CellShape is the storage shape of a column's cells.
type CellShape uint8

const (
	// Scalar holds one value of the column's declared type.
	Scalar CellShape = iota
	// List holds a fixed arity of same-typed values, contiguous in the
	// row. Legacy only.
	List
	// Flag is a virtual view over an earlier scalar integer column:
	// (parentValue >> Shift) & Mask. It consumes no row bytes of its
	// own. Legacy only.
	Flag
)

// Column is one field of a table's schema.
type Column struct {
	Name  Label
	Shape CellShape
	Type  ValueType

	// Offset is the byte position inside a row's fixed-stride record.
	// Unused (and meaningless) for Flag columns.
	Offset int

	// Arity is the list length for List columns, and 1 for Scalar. Unused
	// for Flag.
	Arity int

	// FlagParent is the index, within the owning Schema, of the scalar
	// integer column this Flag column derives its value from. Only valid
	// when Shape == Flag; the parent must appear earlier in the schema.
	FlagParent int
	FlagShift  uint8
	FlagMask   uint32
}

// Stride returns the number of row bytes this column occupies (0 for
// Flag, which is virtual).
func (c Column) Stride() int {
	switch c.Shape {
	case Flag:
		return 0
	case List:
		return c.Type.Size() * c.Arity
	default:
		return c.Type.Size()
	}
}

// Schema is an ordered sequence of columns.
type Schema []Column

// RowStride computes the fixed byte size of one row: the maximum of
// offset+stride over every scalar/list column (spec §3 invariant). Flag
// columns do not contribute.
func (s Schema) RowStride() int {
	max := 0
	for _, c := range s {
		if c.Shape == Flag {
			continue
		}
		end := c.Offset + c.Stride()
		if end > max {
			max = end
		}
	}
	return max
}

// IndexOf returns the index of the column named name, or -1.
func (s Schema) IndexOf(name Label) int {
	for i, c := range s {
		if c.Name.Equal(name) {
			return i
		}
	}
	return -1
}

// Cell is one field's worth of decoded values. Scalar and Flag cells hold
// exactly one value; List cells hold Column.Arity values of the same
// type.
type Cell struct {
	Values []Value
}

// Single returns the cell's one value, for Scalar/Flag shapes.
func (c Cell) Single() (Value, error) {
	if len(c.Values) != 1 {
		return Value{}, NewDecodeError(ErrSchemaViolation, "cell is not scalar", 0)
	}
	return c.Values[0], nil
}

// Row is one record, addressed by a game-visible row id (see Table.BaseID).
type Row struct {
	ID    int
	Cells []Cell
}

// Table is the dialect-agnostic decoded representation: a schema, a row
// vector, and the base row id (spec §3).
type Table struct {
	Name    Label
	BaseID  int
	Schema  Schema
	Rows    []Row
}

// RowByID returns the row with the given game-visible id, honoring
// Table.BaseID (index = id - BaseID).
func (t *Table) RowByID(id int) (*Row, error) {
	idx := id - t.BaseID
	if idx < 0 || idx >= len(t.Rows) {
		return nil, NewDecodeError(ErrNoSuchRow, fmt.Sprintf("row id %d", id), 0)
	}
	return &t.Rows[idx], nil
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// RowIter yields rows in id order. Its Next returns (nil, false) once
// exhausted.
type RowIter struct {
	t   *Table
	pos int
}

// Iter returns a fresh forward iterator over t's rows.
func (t *Table) Iter() *RowIter {
	return &RowIter{t: t}
}

func (it *RowIter) Next() (*Row, bool) {
	if it.pos >= len(it.t.Rows) {
		return nil, false
	}
	r := &it.t.Rows[it.pos]
	it.pos++
	return r, true
}

// Get looks up the cell for a named column on a given row, using this
// table's schema. It is a convenience for decoded (non-mapped) tables.
func (t *Table) Get(row *Row, name Label) (Cell, error) {
	idx := t.Schema.IndexOf(name)
	if idx < 0 {
		return Cell{}, NewDecodeError(ErrNoSuchColumn, name.String(), 0)
	}
	if idx >= len(row.Cells) {
		return Cell{}, NewDecodeError(ErrSchemaViolation, "row shorter than schema", 0)
	}
	return row.Cells[idx], nil
}
