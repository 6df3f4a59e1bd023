// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package legacy

import (
	"fmt"
	"math"

	"github.com/xb-tools/bdat/internal/bio"
	"github.com/xb-tools/bdat/internal/model"
	"github.com/xb-tools/bdat/internal/scramble"
	"github.com/xb-tools/bdat/internal/strpool"
)

const noChain = 0xFFFF

// nodeFixedSize is the XCX+ column-node record: info_offset, next_offset,
// name_offset, each u16 (spec §4.4).
const nodeFixedSize = 6

// layout holds the byte offsets of the sub-regions decode and mapped
// access walk. The column-info array starts right after the header (its
// offset is derived from the header size); the others are read from the
// header's offset fields.
type layout struct {
	colInfoOff   int64
	nodesOff     int64 // where column-node records live
	namesTextOff int64 // where bare name text lives (== nodesOff for short header)
	hashHeadOff  int64
	hashHeadLen  int64
}

// computeLayout locates the column-node section per dialect (spec §4.4):
// Wii/3DS has no separate column-node section, so nodes are inlined at
// offsetNames; XCX+ keeps a dedicated fixed-size node section at
// offsetColumns and a separate name-text blob at offsetNames.
func computeLayout(h *tableHeader, dialect model.Dialect) layout {
	namesTextOff := int64(h.offsetNames)
	nodesOff := namesTextOff
	if !dialect.HasShortHeader() {
		nodesOff = int64(h.offsetColumns)
	}
	return layout{
		colInfoOff:   int64(headerSize(dialect)),
		nodesOff:     nodesOff,
		namesTextOff: namesTextOff,
		hashHeadOff:  int64(h.offsetHashes),
		hashHeadLen:  int64(h.hashesLen),
	}
}

func padEven(n int64) int64 {
	if n%2 != 0 {
		return n + 1
	}
	return n
}

// columnNode is one parsed column-node record. Wii/3DS inlines the name
// text right after info_offset/next_offset; XCX+ stores a fixed 6-byte
// record and points at the name text elsewhere.
type columnNode struct {
	selfOff    int64
	infoOffset uint16
	nextOffset uint16
	name       string
}

// readNodes walks n column-node records starting at lo.nodesOff, in
// on-disk order (which need not match declared column order).
func readNodes(cur *bio.Cursor, lo layout, dialect model.Dialect, n int) ([]columnNode, error) {
	nodes := make([]columnNode, n)
	off := lo.nodesOff
	for i := 0; i < n; i++ {
		infoOff, err := cur.PeekU16(off)
		if err != nil {
			return nil, model.NewDecodeError(model.ErrTruncated, "legacy column node info offset", off)
		}
		nextOff, err := cur.PeekU16(off + 2)
		if err != nil {
			return nil, model.NewDecodeError(model.ErrTruncated, "legacy column node next offset", off+2)
		}
		if dialect.HasShortHeader() {
			name, err := cur.CString(off + 4)
			if err != nil {
				return nil, model.NewDecodeError(model.ErrTruncated, "legacy column node name", off+4)
			}
			nodes[i] = columnNode{selfOff: off, infoOffset: infoOff, nextOffset: nextOff, name: name}
			off += 4 + padEven(int64(len(name))+1)
		} else {
			nameOff, err := cur.PeekU16(off + 4)
			if err != nil {
				return nil, model.NewDecodeError(model.ErrTruncated, "legacy column node name offset", off+4)
			}
			name, err := cur.CString(int64(nameOff))
			if err != nil {
				return nil, model.NewDecodeError(model.ErrTruncated, "legacy column node name", int64(nameOff))
			}
			nodes[i] = columnNode{selfOff: off, infoOffset: infoOff, nextOffset: nextOff, name: name}
			off += nodeFixedSize
		}
	}
	return nodes, nil
}

// namesFromNodes recovers each node's declared column index from its
// info_offset, a pointer back into the column-info array, rather than
// assuming on-disk node order already matches declared order.
func namesFromNodes(nodes []columnNode, colInfoOff int64, n int) (names []string, nodeOffByIdx []int64, nextByIdx []uint16, err error) {
	names = make([]string, n)
	nodeOffByIdx = make([]int64, n)
	nextByIdx = make([]uint16, n)
	seen := make([]bool, n)
	for _, node := range nodes {
		rel := int64(node.infoOffset) - colInfoOff
		idx := rel / columnInfoSize
		if rel < 0 || rel%columnInfoSize != 0 || idx >= int64(n) || seen[idx] {
			return nil, nil, nil, model.NewDecodeError(model.ErrInvalidFormat, "legacy column node info offset", node.selfOff)
		}
		seen[idx] = true
		names[idx] = node.name
		nodeOffByIdx[idx] = node.selfOff
		nextByIdx[idx] = node.nextOffset
	}
	return names, nodeOffByIdx, nextByIdx, nil
}

// Decode parses one legacy table out of buf, which holds exactly that
// table's bytes (spec §4.4-§4.6).
func Decode(buf []byte, dialect model.Dialect, endi model.Endianness) (*model.Table, error) {
	cur := bio.NewCursor(buf, endi)

	h, err := readHeader(cur, dialect)
	if err != nil {
		return nil, err
	}
	lo := computeLayout(h, dialect)

	scrambleRange1Start, scrambleRange1End := lo.namesTextOff, lo.hashHeadOff
	scrambleRange2Start, scrambleRange2End := int64(h.offsetStrings), int64(h.offsetStrings)+int64(h.stringsLen)

	work := make([]byte, len(buf))
	copy(work, buf)
	if h.scrambled() {
		if err := unscrambleRange(work, scrambleRange1Start, scrambleRange1End, h.checksum); err != nil {
			return nil, model.NewDecodeError(model.ErrInvalidFormat, "legacy name/hash section descramble", scrambleRange1Start)
		}
		if err := unscrambleRange(work, scrambleRange2Start, scrambleRange2End, h.checksum); err != nil {
			return nil, model.NewDecodeError(model.ErrInvalidFormat, "legacy string section descramble", scrambleRange2Start)
		}
	}
	cur = bio.NewCursor(work, endi)

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

	rows := make([]model.Row, h.rowCount)
	stride := schema.RowStride()
	for r := 0; r < h.rowCount; r++ {
		rowOff := int64(h.offsetRows) + int64(r)*int64(stride)
		row, err := decodeRow(cur, pool, schema, dialect, h.baseID+r, rowOff)
		if err != nil {
			return nil, err
		}
		rows[r] = row
	}

	return &model.Table{
		Name:   model.ParseLabel(tableNameText, false),
		BaseID: h.baseID,
		Schema: schema,
		Rows:   rows,
	}, nil
}

func unscrambleRange(buf []byte, start, end int64, key uint16) error {
	if start < 0 || end > int64(len(buf)) || start > end {
		return fmt.Errorf("legacy: scrambled range [%d,%d) out of bounds (len %d)", start, end, len(buf))
	}
	return scramble.Decrypt(buf[start:end], key)
}

// verifyHashTable checks that the on-disk head array and each node's own
// next_offset match the chain an encoder following the reverse-insertion
// convention (spec §4.4) would have produced for names, given where this
// decode found each column's node.
func verifyHashTable(cur *bio.Cursor, lo layout, nodeOffByIdx []int64, nextByIdx []uint16, n, hashFactor int, names []string) error {
	if hashFactor <= 0 {
		return nil
	}
	wantHeadIdx := make([]int, hashFactor)
	wantNextIdx := make([]int, n)
	for i := range wantHeadIdx {
		wantHeadIdx[i] = -1
	}
	for i := n - 1; i >= 0; i-- {
		slot := int(model.LegacyHashSlot(names[i], uint32(hashFactor)))
		wantNextIdx[i] = wantHeadIdx[slot]
		wantHeadIdx[slot] = i
	}

	offOrChain := func(idx int) uint16 {
		if idx < 0 {
			return noChain
		}
		return uint16(nodeOffByIdx[idx])
	}

	for slot := 0; slot < hashFactor; slot++ {
		got, err := cur.PeekU16(lo.hashHeadOff + int64(slot)*2)
		if err != nil {
			return model.NewDecodeError(model.ErrTruncated, "legacy hash table head", lo.hashHeadOff+int64(slot)*2)
		}
		if got != offOrChain(wantHeadIdx[slot]) {
			return model.NewDecodeError(model.ErrInvalidFormat, "legacy hash table head mismatch", lo.hashHeadOff+int64(slot)*2)
		}
	}
	for i := 0; i < n; i++ {
		if nextByIdx[i] != offOrChain(wantNextIdx[i]) {
			return model.NewDecodeError(model.ErrInvalidFormat, "legacy hash table chain mismatch", nodeOffByIdx[i])
		}
	}
	return nil
}

func buildSchema(names []string, infos []columnInfo) (model.Schema, error) {
	schema := make(model.Schema, len(names))
	for i, info := range infos {
		shape, err := shapeFromCellType(info.cellType)
		if err != nil {
			return nil, model.NewDecodeError(model.ErrInvalidFormat, fmt.Sprintf("legacy column %d cell type", i), 0)
		}
		schema[i] = model.Column{
			Name:       model.StringLabel(names[i]),
			Shape:      shape,
			Type:       model.ValueType(info.valueType),
			Offset:     int(info.rowOffset),
			Arity:      maxInt(int(info.arity), 1),
			FlagParent: int(info.parentIdx),
			FlagShift:  info.flagShift,
			FlagMask:   info.flagMask,
		}
	}
	return schema, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func decodeRow(cur *bio.Cursor, pool *strpool.Pool, schema model.Schema, dialect model.Dialect, id int, rowOff int64) (model.Row, error) {
	cells := make([]model.Cell, len(schema))
	for i, col := range schema {
		if col.Shape == model.Flag {
			parent, err := cells[col.FlagParent].Single()
			if err != nil {
				return model.Row{}, model.NewDecodeError(model.ErrSchemaViolation, "flag column parent not yet decoded", rowOff)
			}
			raw, err := parent.AsInt64()
			if err != nil {
				return model.Row{}, err
			}
			v := (raw >> col.FlagShift) & int64(col.FlagMask)
			cells[i] = model.Cell{Values: []model.Value{model.NewUInt(uint32(v))}}
			continue
		}

		arity := col.Arity
		values := make([]model.Value, arity)
		for a := 0; a < arity; a++ {
			off := rowOff + int64(col.Offset) + int64(a*col.Type.Size())
			v, err := decodeScalar(cur, pool, col.Type, dialect, off)
			if err != nil {
				return model.Row{}, err
			}
			values[a] = v
		}
		cells[i] = model.Cell{Values: values}
	}
	return model.Row{ID: id, Cells: cells}, nil
}

func decodeScalar(cur *bio.Cursor, pool *strpool.Pool, t model.ValueType, dialect model.Dialect, off int64) (model.Value, error) {
	switch t {
	case model.UByte:
		b, err := cur.PeekBytes(off, 1)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "legacy cell ubyte", off)
		}
		return model.NewUByte(b[0]), nil
	case model.SByte:
		b, err := cur.PeekBytes(off, 1)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "legacy cell sbyte", off)
		}
		return model.NewSByte(int8(b[0])), nil
	case model.UShort:
		u, err := cur.PeekU16(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "legacy cell ushort", off)
		}
		return model.NewUShort(u), nil
	case model.SShort:
		u, err := cur.PeekU16(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "legacy cell sshort", off)
		}
		return model.NewSShort(int16(u)), nil
	case model.UInt:
		u, err := cur.PeekU32(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "legacy cell uint", off)
		}
		return model.NewUInt(u), nil
	case model.SInt:
		u, err := cur.PeekU32(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "legacy cell sint", off)
		}
		return model.NewSInt(int32(u)), nil
	case model.Float:
		u, err := cur.PeekU32(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "legacy cell float", off)
		}
		if dialect.HasFixedPointFloat() {
			return model.NewFloat(FixedToFloat32(u)), nil
		}
		return model.NewFloat(math.Float32frombits(u)), nil
	case model.String:
		u, err := cur.PeekU32(off)
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrTruncated, "legacy cell string offset", off)
		}
		s, err := pool.GetAbsolute(int64(u))
		if err != nil {
			return model.Value{}, model.NewDecodeError(model.ErrInvalidFormat, "legacy cell string", int64(u))
		}
		return model.NewString(s), nil
	default:
		return model.Value{}, model.NewDecodeError(model.ErrSchemaViolation, fmt.Sprintf("unsupported legacy value type %s", t), off)
	}
}

// Encode emits t as one self-contained legacy table in dialect's layout
// and endianness, including the scramble pass if scrambled is requested
// and a freshly computed checksum.
func Encode(t *model.Table, dialect model.Dialect, endi model.Endianness, scrambled bool) ([]byte, error) {
	w := bio.NewWriter(endi)
	n := len(t.Schema)

	h := &tableHeader{
		baseID:      t.BaseID,
		rowCount:    len(t.Rows),
		columnCount: n,
		rowStride:   t.Schema.RowStride(),
	}
	if scrambled {
		h.flags |= flagScrambled
	}

	hashFactor := defaultHashFactor
	h.hashesLen = hashFactor * 2

	hSize := headerSize(dialect)
	colInfoOff := hSize
	nodesOff := colInfoOff + n*columnInfoSize

	names := make([]string, n)
	for i, col := range t.Schema {
		names[i] = col.Name.String()
	}

	// Hash chains are stored as absolute byte offsets of column nodes
	// (or noChain), built by reverse insertion so a forward walk from a
	// slot's head visits columns in ascending declared order within
	// that chain (spec §4.4).
	heads := make([]int, hashFactor)
	next := make([]int, n)
	for i := range heads {
		heads[i] = noChain
	}
	for i := n - 1; i >= 0; i-- {
		slot := int(model.LegacyHashSlot(names[i], uint32(hashFactor)))
		next[i] = heads[slot]
		heads[slot] = i
	}

	nodeOffsets := make([]int, n)
	var namesTextOff, nodeSectionLen int
	namesBuf := &strpoolBuilder{}
	if dialect.HasShortHeader() {
		off := nodesOff
		for i, name := range names {
			nodeOffsets[i] = off
			off += 4 + int(padEven(int64(len(name))+1))
		}
		nodeSectionLen = off - nodesOff
		namesTextOff = nodesOff
	} else {
		nodeSectionLen = n * nodeFixedSize
		for i := range names {
			nodeOffsets[i] = nodesOff + i*nodeFixedSize
		}
		namesTextOff = nodesOff + nodeSectionLen
		for _, name := range names {
			namesBuf.intern(name)
		}
		// The scramble cipher works on byte pairs, so the name text
		// (the first scrambled range) is padded to an even length.
		if namesBuf.len()%2 != 0 {
			namesBuf.buf = append(namesBuf.buf, 0)
		}
	}

	offOrChain := func(idx int) uint16 {
		if idx == noChain {
			return noChain
		}
		return uint16(nodeOffsets[idx])
	}

	// For short-header dialects the inline node+name blob occupies
	// [namesTextOff, namesTextOff+nodeSectionLen); XCX+ keeps nodes in
	// their own fixed-size section and only has namesBuf's interned text
	// between namesTextOff and the hash head array.
	var hashHeadOff int
	if dialect.HasShortHeader() {
		hashHeadOff = namesTextOff + nodeSectionLen
	} else {
		hashHeadOff = namesTextOff + namesBuf.len()
	}

	h.offsetNames = namesTextOff
	h.offsetHashes = hashHeadOff
	if !dialect.HasShortHeader() {
		h.offsetColumns = nodesOff
	}

	strBuilder := strpool.NewBuilder(false)
	strBuilder.Intern(t.Name.String()) // always at pool offset 0
	rowsOff := hashHeadOff + h.hashesLen
	stringsOff := rowsOff + h.rowCount*h.rowStride

	h.offsetRows = rowsOff
	h.offsetStrings = stringsOff

	writeHeader(w, dialect, h)

	for _, col := range t.Schema {
		ct, err := cellTypeFromShape(col.Shape)
		if err != nil {
			return nil, model.NewEncodeError(model.ErrSchemaViolation, err.Error())
		}
		writeColumnInfo(w, columnInfo{
			cellType:  ct,
			valueType: uint8(col.Type),
			rowOffset: uint16(col.Offset),
			arity:     uint16(col.Arity),
			flagShift: col.FlagShift,
			flagMask:  col.FlagMask,
			parentIdx: uint16(col.FlagParent),
		})
	}

	for i, name := range names {
		w.WriteU16(uint16(colInfoOff + i*columnInfoSize)) // info_offset
		w.WriteU16(offOrChain(next[i]))                   // next_offset
		if dialect.HasShortHeader() {
			w.WriteBytes([]byte(name))
			w.WriteU8(0)
			if padEven(int64(len(name))+1) > int64(len(name))+1 {
				w.WriteU8(0)
			}
		} else {
			w.WriteU16(uint16(namesTextOff + namesBuf.offsets[name]))
		}
	}
	if !dialect.HasShortHeader() {
		w.WriteBytes(namesBuf.bytes())
	}

	for slot := 0; slot < hashFactor; slot++ {
		w.WriteU16(offOrChain(heads[slot]))
	}

	stride := h.rowStride
	for _, row := range t.Rows {
		if err := encodeRow(w, strBuilder, stringsOff, t.Schema, dialect, row, stride); err != nil {
			return nil, err
		}
	}

	w.WriteBytes(strBuilder.Bytes())
	h.stringsLen = strBuilder.Len()
	// Likewise the string section, the second scrambled range.
	if h.stringsLen%2 != 0 {
		w.WriteU8(0)
		h.stringsLen++
	}

	w.PadTo(dialect.TablePadding())

	out := w.Bytes()
	patchHeaderTail(out, endi, h)

	if scrambled {
		key := computeChecksum(out)
		h.checksum = key
		patchHeaderTail(out, endi, h)
		if err := scramble.Encrypt(out[namesTextOff:hashHeadOff], key); err != nil {
			return nil, model.NewEncodeError(model.ErrWriteOverflow, "legacy name/hash section scramble")
		}
		if err := scramble.Encrypt(out[stringsOff:stringsOff+h.stringsLen], key); err != nil {
			return nil, model.NewEncodeError(model.ErrWriteOverflow, "legacy string section scramble")
		}
	}

	return out, nil
}

// patchHeaderTail rewrites just the header's length/offset/checksum
// fields once they're known, without re-laying-out the rest of the
// buffer.
func patchHeaderTail(buf []byte, endi model.Endianness, h *tableHeader) {
	w := &patchWriter{buf: buf, endi: endi}
	const base = 4 // past magic
	w.putU16(base+14, h.checksum)     // checksum
	w.putU32(base+22, uint32(h.stringsLen))
}

type patchWriter struct {
	buf  []byte
	endi model.Endianness
}

func (w *patchWriter) putU16(off int, v uint16) {
	b := w.buf[off : off+2]
	if w.endi == model.BigEndian {
		b[0], b[1] = byte(v>>8), byte(v)
	} else {
		b[0], b[1] = byte(v), byte(v>>8)
	}
}

func (w *patchWriter) putU32(off int, v uint32) {
	b := w.buf[off : off+4]
	if w.endi == model.BigEndian {
		b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
	} else {
		b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	}
}

func encodeRow(w *bio.Writer, sb *strpool.Builder, stringsOff int, schema model.Schema, dialect model.Dialect, row model.Row, stride int) error {
	buf := make([]byte, stride)
	endi := w.Endianness()
	for i, col := range schema {
		if col.Shape == model.Flag {
			continue // virtual; nothing to write, value comes from the parent
		}
		cell := row.Cells[i]
		for a := 0; a < col.Arity; a++ {
			v := cell.Values[a]
			off := col.Offset + a*col.Type.Size()
			if err := encodeScalar(endi, sb, stringsOff, col.Type, dialect, v, buf, off); err != nil {
				return err
			}
		}
	}
	w.WriteBytes(buf)
	return nil
}

func encodeScalar(endi model.Endianness, sb *strpool.Builder, stringsOff int, t model.ValueType, dialect model.Dialect, v model.Value, buf []byte, off int) error {
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
			return model.NewEncodeError(model.ErrTypeMismatch, "legacy cell ubyte")
		}
		buf[off] = u
	case model.SByte:
		s, err := v.SByte()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "legacy cell sbyte")
		}
		buf[off] = byte(s)
	case model.UShort:
		u, err := v.UShort()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "legacy cell ushort")
		}
		put16(u)
	case model.SShort:
		s, err := v.SShort()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "legacy cell sshort")
		}
		put16(uint16(s))
	case model.UInt:
		u, err := v.UInt()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "legacy cell uint")
		}
		put32(u)
	case model.SInt:
		s, err := v.SInt()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "legacy cell sint")
		}
		put32(uint32(s))
	case model.Float:
		f, err := v.Float32()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "legacy cell float")
		}
		if dialect.HasFixedPointFloat() {
			put32(Float32ToFixed(f))
		} else {
			put32(math.Float32bits(f))
		}
	case model.String:
		s, err := v.AsString()
		if err != nil {
			return model.NewEncodeError(model.ErrTypeMismatch, "legacy cell string")
		}
		put32(uint32(stringsOff + sb.Intern(s)))
	default:
		return model.NewEncodeError(model.ErrSchemaViolation, fmt.Sprintf("unsupported legacy value type %s", t))
	}
	return nil
}

func computeChecksum(buf []byte) uint16 {
	var sum uint32
	for i, b := range buf {
		sum += uint32(b) << uint(i&3)
	}
	return uint16(sum)
}

// strpoolBuilder is a tiny dedup-and-append helper for the XCX+ name-text
// blob, kept separate from strpool.Builder because names are addressed by
// a plain offset from namesTextOff rather than strpool.Pool's
// table-absolute/pool-relative split.
type strpoolBuilder struct {
	buf     []byte
	offsets map[string]int
}

func (b *strpoolBuilder) intern(s string) int {
	if b.offsets == nil {
		b.offsets = make(map[string]int)
	}
	if off, ok := b.offsets[s]; ok {
		return off
	}
	off := len(b.buf)
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
	b.offsets[s] = off
	return off
}

func (b *strpoolBuilder) len() int      { return len(b.buf) }
func (b *strpoolBuilder) bytes() []byte { return b.buf }
