// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package modern

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"

	"github.com/xb-tools/bdat/internal/bio"
	"github.com/xb-tools/bdat/internal/model"
	"github.com/xb-tools/bdat/internal/strpool"
)

// rowMapEntry binds a game-visible row id to its physical position in
// the row section, so rows need not be stored in id order on disk (spec
// §4.5).
type rowMapEntry struct {
	id       uint32
	rowIndex uint32
}

// Decode parses one modern table out of buf, which holds exactly that
// table's bytes.
func Decode(buf []byte, endi model.Endianness) (*model.Table, error) {
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

	entries := make([]rowMapEntry, h.rowCount)
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
		entries[i] = rowMapEntry{id: id, rowIndex: idx}
	}
	if !slices.IsSortedFunc(entries, func(a, b rowMapEntry) bool { return a.id < b.id }) {
		return nil, model.NewDecodeError(model.ErrInvalidFormat, "modern row map is not sorted by id", int64(h.offsetRowMap))
	}

	schema := buildSchema(infos, names, hasName)
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

	if h.rowCount == 0 {
		return &model.Table{Name: tableName, BaseID: h.baseID, Schema: schema, Rows: nil}, nil
	}

	minID, maxID := entries[0].id, entries[0].id
	for _, e := range entries {
		if e.id < minID {
			minID = e.id
		}
		if e.id > maxID {
			maxID = e.id
		}
	}
	rows := make([]model.Row, maxID-minID+1)
	filled := make([]bool, len(rows))
	for _, e := range entries {
		rowOff := int64(h.offsetRows) + int64(e.rowIndex)*int64(h.rowStride)
		row, err := decodeRow(cur, pool, schema, int(e.id), rowOff)
		if err != nil {
			return nil, err
		}
		slot := e.id - minID
		rows[slot] = row
		filled[slot] = true
	}
	for i, ok := range filled {
		if !ok {
			return nil, model.NewDecodeError(model.ErrInvalidFormat, fmt.Sprintf("modern row map has a gap at id %d", minID+uint32(i)), int64(h.offsetRowMap))
		}
	}

	return &model.Table{
		Name:   tableName,
		BaseID: int(minID),
		Schema: schema,
		Rows:   rows,
	}, nil
}

func buildSchema(infos []columnInfo, names []string, hasName []bool) model.Schema {
	schema := make(model.Schema, len(infos))
	for i, ci := range infos {
		schema[i] = model.Column{
			Name:   labelFor(ci, names[i], hasName[i]),
			Shape:  model.Scalar,
			Type:   model.ValueType(ci.valueType),
			Offset: int(ci.rowOffset),
			Arity:  1,
		}
	}
	return schema
}

func decodeRow(cur *bio.Cursor, pool *strpool.Pool, schema model.Schema, id int, rowOff int64) (model.Row, error) {
	cells := make([]model.Cell, len(schema))
	for i, col := range schema {
		off := rowOff + int64(col.Offset)
		v, err := decodeScalar(cur, pool, col.Type, off)
		if err != nil {
			return model.Row{}, err
		}
		cells[i] = model.Cell{Values: []model.Value{v}}
	}
	return model.Row{ID: id, Cells: cells}, nil
}

func decodeScalar(cur *bio.Cursor, pool *strpool.Pool, t model.ValueType, off int64) (model.Value, error) {
	switch t {
	case model.UByte:
		b, err := cur.PeekBytes(off, 1)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "modern cell ubyte", off)
		}
		return model.NewUByte(b[0]), nil
	case model.SByte:
		b, err := cur.PeekBytes(off, 1)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "modern cell sbyte", off)
		}
		return model.NewSByte(int8(b[0])), nil
	case model.Unknown1:
		b, err := cur.PeekBytes(off, 1)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "modern cell unknown1", off)
		}
		return model.NewUnknown1(b[0]), nil
	case model.Percent:
		b, err := cur.PeekBytes(off, 1)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "modern cell percent", off)
		}
		return model.NewPercent(b[0]), nil
	case model.UShort:
		u, err := cur.PeekU16(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "modern cell ushort", off)
		}
		return model.NewUShort(u), nil
	case model.SShort:
		u, err := cur.PeekU16(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "modern cell sshort", off)
		}
		return model.NewSShort(int16(u)), nil
	case model.MessageStudioIndex:
		u, err := cur.PeekU16(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "modern cell message studio index", off)
		}
		return model.NewMessageStudioIndex(u), nil
	case model.UInt:
		u, err := cur.PeekU32(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "modern cell uint", off)
		}
		return model.NewUInt(u), nil
	case model.SInt:
		u, err := cur.PeekU32(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "modern cell sint", off)
		}
		return model.NewSInt(int32(u)), nil
	case model.Float:
		u, err := cur.PeekU32(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "modern cell float", off)
		}
		return model.NewFloat(math.Float32frombits(u)), nil
	case model.Hash:
		u, err := cur.PeekU32(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "modern cell hash", off)
		}
		return model.NewHash(u), nil
	case model.String, model.DebugString:
		u, err := cur.PeekU32(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "modern cell string offset", off)
		}
		s, err := pool.Get(int64(u))
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrInvalidFormat, "modern cell string", int64(u))
		}
		if t == model.DebugString {
			return model.NewDebugString(s), nil
		}
		return model.NewString(s), nil
	default:
		return model.Value{}, model.NewDecodeError(model.ErrSchemaViolation, fmt.Sprintf("unsupported modern value type %s", t), off)
	}
}

// Encode emits t as one self-contained modern table. keepNames controls
// whether column labels are written out as plain text (alongside their
// hash) or as hash-only, matching the table-level "names are hashed"
// convention a modern reader checks via strpool.IsHashedMarker.
func Encode(t *model.Table, endi model.Endianness, keepNames bool) ([]byte, error) {
	w := bio.NewWriter(endi)
	n := len(t.Schema)

	h := &tableHeader{
		columnCount: n,
		rowCount:    len(t.Rows),
		baseID:      t.BaseID,
		rowStride:   t.Schema.RowStride(),
	}

	nameBuilder := strpool.NewBuilder(!keepNames)
	nameOffsets := make([]int, n)
	hashes := make([]uint32, n)
	for i, col := range t.Schema {
		if col.Name.IsHash() {
			hashes[i] = col.Name.Hash()
		} else {
			hashes[i] = model.MurmurLabel(col.Name.String())
		}
		if keepNames && !col.Name.IsHash() {
			nameOffsets[i] = nameBuilder.Intern(col.Name.String())
		}
	}

	colInfoOff := headerSize
	namesOff := colInfoOff + n*columnInfoSize
	rowMapOff := namesOff + nameBuilder.Len()
	rowsOff := rowMapOff + h.rowCount*rowMapEntrySize

	h.offsetColumnInfo = colInfoOff
	h.offsetRowMap = rowMapOff
	h.offsetRows = rowsOff
	h.offsetStrings = rowsOff + h.rowCount*h.rowStride

	writeHeader(w, h)

	for i, col := range t.Schema {
		no := 0
		if keepNames && !col.Name.IsHash() {
			no = namesOff + nameOffsets[i]
		}
		writeColumnInfo(w, columnInfo{
			hash:       hashes[i],
			nameOffset: uint32(no),
			valueType:  uint8(col.Type),
			rowOffset:  uint16(col.Offset),
		})
	}
	w.WriteBytes(nameBuilder.Bytes())

	entries := make([]rowMapEntry, len(t.Rows))
	for i, row := range t.Rows {
		entries[i] = rowMapEntry{id: uint32(row.ID), rowIndex: uint32(i)}
	}
	slices.SortFunc(entries, func(a, b rowMapEntry) bool { return a.id < b.id })
	for _, e := range entries {
		w.WriteU32(e.id)
		w.WriteU32(e.rowIndex)
	}

	strBuilder := strpool.NewBuilder(!keepNames)
	strBuilder.Intern(t.Name.String()) // table name always comes first in the pool
	for _, row := range t.Rows {
		if err := encodeRow(w, strBuilder, t.Schema, row, h.rowStride); err != nil {
			return nil, err
		}
	}

	h.stringsLen = strBuilder.Len()
	w.WriteBytes(strBuilder.Bytes())
	w.PadTo(model.DialectModern.TablePadding())

	out := w.Bytes()
	patchHeaderTail(out, h, endi)

	return out, nil
}

func encodeRow(w *bio.Writer, sb *strpool.Builder, schema model.Schema, row model.Row, stride int) error {
	buf := make([]byte, stride)
	endi := w.Endianness()
	for i, col := range schema {
		cell, err := row.Cells[i].Single()
		if err != nil {
			return model.NewEncodeError(model.ErrSchemaViolation, "modern row cell is not scalar")
		}
		if err := encodeScalar(endi, sb, col.Type, cell, buf, col.Offset); err != nil {
			return err
		}
	}
	w.WriteBytes(buf)
	return nil
}

func encodeScalar(endi model.Endianness, sb *strpool.Builder, t model.ValueType, v model.Value, buf []byte, off int) error {
	put16 := func(x uint16) {
		if endi == model.BigEndian {
			buf[off], buf[off+1] = byte(x>>8), byte(x)
		} else {
			buf[off], buf[off+1] = byte(x), byte(x>>8)
		}
	}
	put32 := func(x uint32) {
		if endi == model.BigEndian {
			buf[off], buf[off+1], buf[off+2], buf[off+3] = byte(x>>24), byte(x>>16), byte(x>>8), byte(x)
		} else {
			buf[off], buf[off+1], buf[off+2], buf[off+3] = byte(x), byte(x>>8), byte(x>>16), byte(x>>24)
		}
	}

	switch t {
	case model.UByte:
		u, err := v.UByte()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "modern cell ubyte")
		}
		buf[off] = u
	case model.SByte:
		s, err := v.SByte()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "modern cell sbyte")
		}
		buf[off] = byte(s)
	case model.Unknown1:
		u, err := v.Unknown1Raw()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "modern cell unknown1")
		}
		buf[off] = u
	case model.Percent:
		u, err := v.PercentRaw()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "modern cell percent")
		}
		buf[off] = u
	case model.UShort:
		u, err := v.UShort()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "modern cell ushort")
		}
		put16(u)
	case model.SShort:
		s, err := v.SShort()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "modern cell sshort")
		}
		put16(uint16(s))
	case model.MessageStudioIndex:
		u, err := v.MessageStudioIndexValue()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "modern cell message studio index")
		}
		put16(u)
	case model.UInt:
		u, err := v.UInt()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "modern cell uint")
		}
		put32(u)
	case model.SInt:
		s, err := v.SInt()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "modern cell sint")
		}
		put32(uint32(s))
	case model.Float:
		f, err := v.Float32()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "modern cell float")
		}
		put32(math.Float32bits(f))
	case model.Hash:
		u, err := v.HashValue()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "modern cell hash")
		}
		put32(u)
	case model.String, model.DebugString:
		s, err := v.AsString()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "modern cell string")
		}
		put32(uint32(sb.Intern(s)))
	default:
		return model.NewEncodeError(model.ErrSchemaViolation, fmt.Sprintf("unsupported modern value type %s", t))
	}
	return nil
}

func patchHeaderTail(buf []byte, h *tableHeader, endi model.Endianness) {
	put32 := func(off int, v uint32) {
		b := buf[off : off+4]
		if endi == model.BigEndian {
			b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
		} else {
			b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
		}
	}
	// stringsLen is the only header field unknown until the string pool
	// is fully built; its fixed position is the header's last u32 word
	// (see writeHeader's field order).
	put32(headerSize-4, uint32(h.stringsLen))
}
